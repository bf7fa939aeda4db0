package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/petuhovskiy/thus-saith/internal/app"
	"github.com/petuhovskiy/thus-saith/internal/conf"
	"github.com/petuhovskiy/thus-saith/internal/log"
)

// Version is set at build time:
// go build -ldflags "-X github.com/petuhovskiy/thus-saith/internal/cli.Version=1.0.0"
var Version = "dev"

// exit is replaced in tests.
var exit = os.Exit

func NewRootCommand() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:           "thus-saith",
		Short:         "Types a random quote to the terminal, one character at a time.",
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, cfgFile)
		},
	}

	flags := cmd.Flags()
	flags.Float64("mean", 100, "Average time per character (unit: ms)")
	flags.Float64("std-dev", 100, "Standard deviation of time per character (unit: ms)")
	flags.StringVarP(&cfgFile, "config", "c", "", "Load the specified configuration file")
	cmd.SetVersionTemplate("{{printf \"%s\\n\" .Version}}")

	return cmd
}

func run(cmd *cobra.Command, cfgFile string) error {
	env, err := conf.ParseEnv()
	if err != nil {
		return fmt.Errorf("failed to parse config from env: %w", err)
	}

	restore := log.Globals(log.Options{Level: env.LogLevel, File: env.LogFile})
	defer restore()
	defer log.Sync()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := conf.Load(conf.DefaultLoadOptions(cfgFile, cmd.Flags()))
	if err != nil {
		return err
	}

	stopSignals := handleInterrupt(cfg.Messages.Interrupt, cmd.ErrOrStderr())
	defer stopSignals()

	a, err := app.NewApp(ctx, cfg, env)
	if err != nil {
		return err
	}

	stopMetrics, err := a.StartPrometheus(ctx)
	if err != nil {
		return err
	}
	defer stopMetrics()

	return a.Run(ctx, cmd.OutOrStdout())
}

// Execute runs the root command and exits with status 1 on failure.
func Execute() {
	executeOrExit(NewRootCommand())
}

func executeOrExit(cmd *cobra.Command) {
	if err := cmd.Execute(); err != nil {
		stderr := cmd.ErrOrStderr()
		fmt.Fprintf(stderr, "%s: %s\n", paint(stderr, colorRed, "error"), err)
		exit(1)
	}
}
