package pacing

import (
	"fmt"
	"math"
)

var ErrInvalidParameter = fmt.Errorf("invalid parameter")

// CheckMean accepts a positive finite mean.
func CheckMean(mean float64) error {
	if err := checkFinite("mean", mean); err != nil {
		return err
	}
	if mean == 0 {
		return fmt.Errorf("%w: mean cannot be zero", ErrInvalidParameter)
	}
	if mean < 0 {
		return fmt.Errorf("%w: mean cannot be negative", ErrInvalidParameter)
	}
	return nil
}

// CheckStdDev accepts a non-negative finite standard deviation.
func CheckStdDev(stddev float64) error {
	if err := checkFinite("stddev", stddev); err != nil {
		return err
	}
	if stddev < 0 {
		return fmt.Errorf("%w: stddev cannot be negative", ErrInvalidParameter)
	}
	return nil
}

func checkFinite(name string, value float64) error {
	if math.IsNaN(value) {
		return fmt.Errorf("%w: %s cannot be NaN", ErrInvalidParameter, name)
	}
	if math.IsInf(value, 0) {
		return fmt.Errorf("%w: %s must be finite", ErrInvalidParameter, name)
	}
	return nil
}
