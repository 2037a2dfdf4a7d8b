package core

import (
	"errors"
	"math"
)

// ErrNonFiniteFitness signals a Problem contract violation: Score produced
// NaN or an infinity. Such values have no place in the frontier ordering.
var ErrNonFiniteFitness = errors.New("non-finite fitness")

// ValidFitness reports whether f can be used as a frontier priority.
func ValidFitness(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// CheckFitness returns ErrNonFiniteFitness for values that must not enter
// the frontier or the best-ever tracker.
func CheckFitness(f float64) error {
	if !ValidFitness(f) {
		return ErrNonFiniteFitness
	}
	return nil
}
