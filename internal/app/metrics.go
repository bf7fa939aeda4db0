package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/petuhovskiy/thus-saith/internal/log"
)

type Metrics struct {
	Registry    *prometheus.Registry
	CharDelay   prometheus.Histogram
	CharsTyped  prometheus.Counter
	QuotesTyped prometheus.Counter
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		CharDelay: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "thussaith_char_delay_seconds",
			Help:    "Pause before each typed character",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 10),
		}),
		CharsTyped: factory.NewCounter(prometheus.CounterOpts{
			Name: "thussaith_chars_typed_total",
			Help: "Characters written to the output",
		}),
		QuotesTyped: factory.NewCounter(prometheus.CounterOpts{
			Name: "thussaith_quotes_typed_total",
			Help: "Quotes typed to completion",
		}),
	}
}

// ObserveDelay records a pause sampled by the typist.
func (m *Metrics) ObserveDelay(delay time.Duration) {
	m.CharDelay.Observe(delay.Seconds())
}

// CountTyped records a unit that reached the output.
func (m *Metrics) CountTyped(string) {
	m.CharsTyped.Inc()
}

// StartPrometheus serves metrics on PROMETHEUS_BIND until the returned stop
// function is called. Without a bind address it does nothing.
func (a *App) StartPrometheus(ctx context.Context) (stop func(), err error) {
	bind := a.Env.PrometheusBind
	if bind == "" {
		return func() {}, nil
	}

	listener, err := net.Listen("tcp", bind)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", bind, err)
	}
	a.metricsListener = listener

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.Metrics.Registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux}

	ctx = log.Into(ctx, "prometheus")
	log.Info(ctx, "serving metrics", zap.Stringer("addr", listener.Addr()))

	a.Register.Go(ctx, "metrics-server", func() error {
		err := srv.Serve(listener)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn(ctx, "prometheus server shutdown", zap.Error(err))
		}
		a.Register.WaitAll(ctx)
	}, nil
}

// MetricsAddr is the address of the metrics server, nil if it is not running.
func (a *App) MetricsAddr() net.Addr {
	if a.metricsListener == nil {
		return nil
	}
	return a.metricsListener.Addr()
}
