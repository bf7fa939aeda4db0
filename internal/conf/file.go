package conf

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/petuhovskiy/thus-saith/internal/pacing"
	"github.com/petuhovskiy/thus-saith/internal/quotes"
)

//go:embed default.toml
var defaultConfig []byte

const (
	// Relative to the user config directory.
	userConfigFile = "thus-saith/config.toml"
	// Relative to the working directory.
	localConfigFile = "thus-saith.toml"
)

// flagKeys maps command line flags to the config keys they override.
var flagKeys = map[string]string{
	"mean":    "distribution.mean",
	"std-dev": "distribution.stddev",
}

type Config struct {
	Distribution Distribution `mapstructure:"distribution"`
	Messages     Messages     `mapstructure:"messages"`
	Quotes       []RawQuote   `mapstructure:"quote"`
}

type Distribution struct {
	// Milliseconds per character.
	Mean   float64 `mapstructure:"mean"`
	StdDev float64 `mapstructure:"stddev"`
}

type Messages struct {
	// Interrupt is printed when the program is stopped with Ctrl-C.
	Interrupt string `mapstructure:"interrupt"`
}

type RawQuote struct {
	Weight  *float64 `mapstructure:"weight"`
	Content string   `mapstructure:"content"`
}

// Validate checks that the distribution can be fed to the typist.
func (d Distribution) Validate() error {
	if err := pacing.CheckMean(d.Mean); err != nil {
		return err
	}
	return pacing.CheckStdDev(d.StdDev)
}

// Items converts raw quotes for the quote pool.
func (c *Config) Items() []quotes.Item {
	items := make([]quotes.Item, len(c.Quotes))
	for i, q := range c.Quotes {
		items[i] = quotes.Item{Weight: q.Weight, Content: q.Content}
	}
	return items
}

type LoadOptions struct {
	// File is loaded last. It must exist.
	File string
	// ConfigDir is the user config directory. Empty skips it.
	ConfigDir string
	// WorkDir is searched for a local config. Empty skips it.
	WorkDir string
	// Flags override file values when they were set explicitly.
	Flags *pflag.FlagSet
}

// DefaultLoadOptions searches the standard locations.
func DefaultLoadOptions(file string, flags *pflag.FlagSet) LoadOptions {
	opts := LoadOptions{File: file, Flags: flags}
	if dir, err := os.UserConfigDir(); err == nil {
		opts.ConfigDir = dir
	}
	if dir, err := os.Getwd(); err == nil {
		opts.WorkDir = dir
	}
	return opts
}

// Load reads the built-in defaults and merges every config file found on top.
// Later files override earlier ones key by key; a quote list replaces the
// previous list as a whole.
func Load(opts LoadOptions) (*Config, error) {
	v := viper.New()

	if err := mergeLayer(v, defaultConfig); err != nil {
		return nil, fmt.Errorf("failed to parse the default configuration: %w", err)
	}

	var optional []string
	if opts.ConfigDir != "" {
		optional = append(optional, filepath.Join(opts.ConfigDir, userConfigFile))
	}
	if opts.WorkDir != "" {
		optional = append(optional, filepath.Join(opts.WorkDir, localConfigFile))
	}
	for _, path := range optional {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := mergeFile(v, path); err != nil {
			return nil, err
		}
	}

	if opts.File != "" {
		path, err := homedir.Expand(opts.File)
		if err != nil {
			return nil, fmt.Errorf("failed to expand '%s': %w", opts.File, err)
		}
		if err := mergeFile(v, path); err != nil {
			return nil, err
		}
	}

	if opts.Flags != nil {
		for name, key := range flagKeys {
			flag := opts.Flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.UnmarshalExact(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	return &cfg, nil
}

func mergeFile(v *viper.Viper, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to read '%s': %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("'%s' is not a file", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read '%s': %w", path, err)
	}
	if err := mergeLayer(v, data); err != nil {
		return fmt.Errorf("failed to parse '%s': %w", path, err)
	}
	return nil
}

// mergeLayer stores every value of a TOML document as a default of v,
// replacing values of earlier layers. Bound flags that were set explicitly
// still take precedence over them.
func mergeLayer(v *viper.Viper, data []byte) error {
	layer := viper.New()
	layer.SetConfigType("toml")
	if err := layer.ReadConfig(bytes.NewReader(data)); err != nil {
		return err
	}
	for _, key := range layer.AllKeys() {
		v.SetDefault(key, layer.Get(key))
	}
	return nil
}
