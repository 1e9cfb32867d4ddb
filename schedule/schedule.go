// Package schedule builds learning-rate multiplier functions with a warmup
// phase followed by a decay phase, keyed by optimizer step.
package schedule

import (
	"math"

	chonkerrors "github.com/okulic/chonker/errors"
)

// Warmup selects the warmup shape.
type Warmup uint8

const (
	// WarmupLinear ramps the multiplier linearly from near zero to 1 over
	// the warmup steps.
	WarmupLinear Warmup = iota
	// WarmupFlat holds the multiplier at 1 during warmup.
	WarmupFlat
)

// Decay selects the decay shape after warmup.
type Decay uint8

const (
	// DecayLinear ramps the multiplier linearly down to zero at the final
	// step.
	DecayLinear Decay = iota
	// DecayExponential multiplies by gamma once per gammaSteps steps.
	DecayExponential
)

// Lambda maps a zero-based optimizer step to a learning-rate multiplier.
type Lambda func(step int) float64

// Config parameterizes a schedule.
type Config struct {
	// TotalSteps is the total number of optimizer steps.
	TotalSteps int
	// WarmupSteps is the number of steps in the warmup phase.
	WarmupSteps int
	// Warmup and Decay select the phase shapes.
	Warmup Warmup
	Decay  Decay
	// Gamma is the exponential decay base; used only with
	// DecayExponential. Zero means 0.9.
	Gamma float64
	// GammaSteps is the period over which one factor of Gamma applies;
	// used only with DecayExponential. Zero means 1000.
	GammaSteps int
}

// BySteps builds a Lambda from step counts. The configuration is validated
// up front: unknown modes and non-positive or inconsistent step counts are
// construction errors.
func BySteps(cfg Config) (Lambda, error) {
	if cfg.Gamma == 0 {
		cfg.Gamma = 0.9
	}
	if cfg.GammaSteps == 0 {
		cfg.GammaSteps = 1000
	}
	if cfg.TotalSteps <= 0 || cfg.WarmupSteps < 0 || cfg.WarmupSteps > cfg.TotalSteps {
		return nil, chonkerrors.ErrInvalidSteps
	}

	var warmup Lambda
	switch cfg.Warmup {
	case WarmupFlat:
		warmup = func(step int) float64 { return 1.0 }
	case WarmupLinear:
		warmup = func(step int) float64 {
			return float64(step+1) / float64(cfg.WarmupSteps)
		}
	default:
		return nil, chonkerrors.ErrInvalidWarmup
	}

	var decay Lambda
	switch cfg.Decay {
	case DecayLinear:
		decay = func(step int) float64 {
			return float64(cfg.TotalSteps-(step+1)) / float64(cfg.TotalSteps-cfg.WarmupSteps)
		}
	case DecayExponential:
		decay = func(step int) float64 {
			return math.Pow(cfg.Gamma, float64(step+1-cfg.WarmupSteps)/float64(cfg.GammaSteps))
		}
	default:
		return nil, chonkerrors.ErrInvalidDecay
	}

	return func(step int) float64 {
		if step < cfg.WarmupSteps {
			return warmup(step)
		}
		return decay(step)
	}, nil
}

// ByEpoch builds a Lambda from epoch counts: step totals are derived by
// multiplying with batchesPerEpoch. warmupEpochs defaults to 1 in the
// original formulation; pass it explicitly here.
func ByEpoch(numEpochs, batchesPerEpoch, warmupEpochs int, warmup Warmup, decay Decay, gamma float64, gammaEpochs int) (Lambda, error) {
	if batchesPerEpoch <= 0 {
		return nil, chonkerrors.ErrInvalidSteps
	}
	return BySteps(Config{
		TotalSteps:  numEpochs * batchesPerEpoch,
		WarmupSteps: warmupEpochs * batchesPerEpoch,
		Warmup:      warmup,
		Decay:       decay,
		Gamma:       gamma,
		GammaSteps:  gammaEpochs * batchesPerEpoch,
	})
}
