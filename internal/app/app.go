// This package is used to initialize the application. It wires configuration
// into the quote pool and the typist, and owns the metrics server.
package app

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"net"

	"go.uber.org/zap"

	"github.com/petuhovskiy/thus-saith/internal/conf"
	"github.com/petuhovskiy/thus-saith/internal/log"
	"github.com/petuhovskiy/thus-saith/internal/pacing"
	"github.com/petuhovskiy/thus-saith/internal/quotes"
	"github.com/petuhovskiy/thus-saith/internal/tokenize"
)

// Streams of the generators derived from one seed.
const (
	poolStream uint64 = iota + 1
	typistStream
)

type App struct {
	Config   *conf.Config
	Env      *conf.Env
	Pool     *quotes.Pool
	Typist   *pacing.Typist
	Metrics  *Metrics
	Register *Register

	metricsListener net.Listener
}

func NewApp(ctx context.Context, cfg *conf.Config, env *conf.Env) (*App, error) {
	if err := cfg.Distribution.Validate(); err != nil {
		return nil, err
	}

	seed := env.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	ctx = log.With(ctx, zap.Uint64("seed", seed))

	pool, err := quotes.Build(cfg.Items(), rand.NewPCG(seed, poolStream))
	if err != nil {
		return nil, fmt.Errorf("failed to normalize quotes: %w", err)
	}
	if pool.Discarded() > 0 {
		log.Warn(ctx, "ignored quotes with unusable weights", zap.Int("count", pool.Discarded()))
	}
	log.Debug(ctx, "quote pool built",
		zap.Int("quotes", pool.Len()),
		zap.Float64("total_weight", pool.TotalWeight()),
	)

	dist := cfg.Distribution
	typist, err := pacing.New(dist.Mean, dist.StdDev, rand.NewPCG(seed, typistStream))
	if err != nil {
		return nil, err
	}
	log.Debug(ctx, "typist ready",
		zap.Float64("mean_ms", dist.Mean),
		zap.Float64("stddev_ms", dist.StdDev),
		zap.Float64("mu", typist.Mu()),
		zap.Float64("sigma", typist.Sigma()),
	)

	metrics := NewMetrics()
	typist.Observe(metrics.ObserveDelay)
	typist.OnTyped(metrics.CountTyped)

	return &App{
		Config:   cfg,
		Env:      env,
		Pool:     pool,
		Typist:   typist,
		Metrics:  metrics,
		Register: NewRegister(),
	}, nil
}

// Run picks a quote and types it to out, followed by a newline.
func (a *App) Run(ctx context.Context, out io.Writer) error {
	ctx = log.Into(ctx, "typist")

	units := tokenize.Split(a.Pool.Choose())
	log.Debug(ctx, "typing quote", zap.Int("units", len(units)))

	if err := a.Typist.Type(units, out); err != nil {
		return err
	}
	a.Metrics.QuotesTyped.Inc()

	if _, err := io.WriteString(out, "\n"); err != nil {
		return fmt.Errorf("%w: %w", pacing.ErrOutput, err)
	}
	if flusher, ok := out.(pacing.Flusher); ok {
		if err := flusher.Flush(); err != nil {
			return fmt.Errorf("%w: %w", pacing.ErrOutput, err)
		}
	}
	return nil
}
