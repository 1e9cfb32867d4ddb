package schedule

import (
	"errors"
	"math"
	"testing"

	chonkerrors "github.com/okulic/chonker/errors"
)

func approx(t *testing.T, got, want float64, label string) {
	t.Helper()
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("%s: expected %v, got %v", label, want, got)
	}
}

func TestLinearWarmupLinearDecay(t *testing.T) {
	lr, err := BySteps(Config{TotalSteps: 10, WarmupSteps: 2})
	if err != nil {
		t.Fatalf("BySteps failed: %v", err)
	}
	approx(t, lr(0), 0.5, "step 0")
	approx(t, lr(1), 1.0, "step 1")
	approx(t, lr(2), 7.0/8.0, "step 2")
	approx(t, lr(9), 0.0, "step 9")
}

func TestFlatWarmup(t *testing.T) {
	lr, err := BySteps(Config{TotalSteps: 10, WarmupSteps: 3, Warmup: WarmupFlat})
	if err != nil {
		t.Fatalf("BySteps failed: %v", err)
	}
	approx(t, lr(0), 1.0, "step 0")
	approx(t, lr(2), 1.0, "step 2")
	// Decay starts at the first post-warmup step.
	approx(t, lr(3), 6.0/7.0, "step 3")
}

func TestExponentialDecay(t *testing.T) {
	lr, err := BySteps(Config{
		TotalSteps:  100,
		WarmupSteps: 2,
		Decay:       DecayExponential,
		Gamma:       0.5,
		GammaSteps:  2,
	})
	if err != nil {
		t.Fatalf("BySteps failed: %v", err)
	}
	// One full gamma period past warmup halves the multiplier.
	approx(t, lr(3), 0.5, "step 3")
	approx(t, lr(5), 0.25, "step 5")
	approx(t, lr(2), math.Sqrt(0.5), "step 2")
}

func TestExponentialDefaults(t *testing.T) {
	lr, err := BySteps(Config{TotalSteps: 5000, WarmupSteps: 0, Decay: DecayExponential})
	if err != nil {
		t.Fatalf("BySteps failed: %v", err)
	}
	// Gamma defaults to 0.9 over 1000-step periods.
	approx(t, lr(999), 0.9, "step 999")
}

func TestByStepsValidation(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		want error
	}{
		{"zero total", Config{TotalSteps: 0}, chonkerrors.ErrInvalidSteps},
		{"negative warmup", Config{TotalSteps: 10, WarmupSteps: -1}, chonkerrors.ErrInvalidSteps},
		{"warmup past total", Config{TotalSteps: 10, WarmupSteps: 11}, chonkerrors.ErrInvalidSteps},
		{"unknown warmup", Config{TotalSteps: 10, Warmup: Warmup(9)}, chonkerrors.ErrInvalidWarmup},
		{"unknown decay", Config{TotalSteps: 10, Decay: Decay(9)}, chonkerrors.ErrInvalidDecay},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := BySteps(tc.cfg); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestByEpoch(t *testing.T) {
	lr, err := ByEpoch(5, 4, 1, WarmupLinear, DecayLinear, 0, 0)
	if err != nil {
		t.Fatalf("ByEpoch failed: %v", err)
	}
	// 20 total steps, 4 warmup steps.
	approx(t, lr(0), 0.25, "step 0")
	approx(t, lr(3), 1.0, "step 3")
	approx(t, lr(19), 0.0, "step 19")

	if _, err := ByEpoch(5, 0, 1, WarmupLinear, DecayLinear, 0, 0); !errors.Is(err, chonkerrors.ErrInvalidSteps) {
		t.Fatalf("expected ErrInvalidSteps for zero batches per epoch, got %v", err)
	}
}
