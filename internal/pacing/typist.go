package pacing

import (
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/stat/distuv"
)

var (
	ErrOverflow = fmt.Errorf("calculation overflows")
	ErrOutput   = fmt.Errorf("failed to write output")
)

// spinThreshold is how close to the deadline the waiter stops sleeping and
// starts polling the clock.
const spinThreshold = time.Millisecond

// Flusher is implemented by buffered sinks. Writers without it, like
// *os.File, are assumed to be unbuffered.
type Flusher interface {
	Flush() error
}

// Typist writes text unit by unit with log-normally distributed pauses.
type Typist struct {
	// Distribution of the milliseconds taken per character.
	distr   distuv.LogNormal
	observe func(delay time.Duration)
	typed   func(unit string)
}

// New fits a log-normal distribution whose arithmetic mean and standard
// deviation are mean and stddev, both in milliseconds per character.
func New(mean, stddev float64, src rand.Source) (*Typist, error) {
	if err := CheckMean(mean); err != nil {
		return nil, err
	}
	if err := CheckStdDev(stddev); err != nil {
		return nil, err
	}

	mu, sigma, err := logNormalParams(mean, stddev)
	if err != nil {
		return nil, err
	}

	return &Typist{
		distr: distuv.LogNormal{Mu: mu, Sigma: sigma, Src: src},
	}, nil
}

// logNormalParams solves mean = exp(mu + sigma²/2) and
// stddev² = (exp(sigma²) - 1) * exp(2mu + sigma²) for mu and sigma.
func logNormalParams(mean, stddev float64) (mu, sigma float64, err error) {
	cv := stddev / mean
	variance := math.Log(cv*cv + 1)
	if math.IsInf(variance, 0) || math.IsNaN(variance) {
		return 0, 0, ErrOverflow
	}
	mu = math.Log(mean) - 0.5*variance
	sigma = math.Sqrt(variance)
	return mu, sigma, nil
}

// Observe registers fn to be called with every sampled delay.
func (t *Typist) Observe(fn func(delay time.Duration)) {
	t.observe = fn
}

// OnTyped registers fn to be called after each unit is written and flushed.
func (t *Typist) OnTyped(fn func(unit string)) {
	t.typed = fn
}

func (t *Typist) Mu() float64 {
	return t.distr.Mu
}

func (t *Typist) Sigma() float64 {
	return t.distr.Sigma
}

// Sample draws the delay before the next unit.
func (t *Typist) Sample() time.Duration {
	return millis(t.distr.Rand())
}

func millis(ms float64) time.Duration {
	ns := ms * float64(time.Millisecond)
	if ns >= math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(ns)
}

// Type writes units to w one at a time, pausing before each one. The sink is
// flushed after every unit. Units written before a failure stay written.
func (t *Typist) Type(units []string, w io.Writer) error {
	flusher, _ := w.(Flusher)

	for _, unit := range units {
		delay := t.Sample()
		if t.observe != nil {
			t.observe(delay)
		}
		wait(time.Now().Add(delay))

		if _, err := io.WriteString(w, unit); err != nil {
			return fmt.Errorf("%w: %w", ErrOutput, err)
		}
		if flusher != nil {
			if err := flusher.Flush(); err != nil {
				return fmt.Errorf("%w: %w", ErrOutput, err)
			}
		}
		if t.typed != nil {
			t.typed(unit)
		}
	}
	return nil
}

// wait blocks until deadline. It sleeps while far from the deadline and spins
// for the last stretch, so it never returns early.
func wait(deadline time.Time) {
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return
		}
		if remaining > spinThreshold {
			time.Sleep(remaining - spinThreshold)
		}
	}
}
