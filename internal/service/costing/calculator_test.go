package costing

import (
	"errors"
	"math"
	"testing"

	"github.com/mamefall/recipecost/internal/domain/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestConvertIdentity(t *testing.T) {
	calc := NewCalculator(ModePermissive, nil)

	qty, trace, err := calc.Convert(2, "kg", models.UnitKG)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if !almostEqual(qty, 2) {
		t.Fatalf("identity conversion changed quantity: %v", qty)
	}
	if trace.Outcome != models.ConversionIdentity {
		t.Fatalf("outcome = %q, want identity", trace.Outcome)
	}
}

func TestConvertEmptyUnitAssumesBase(t *testing.T) {
	calc := NewCalculator(ModePermissive, nil)

	qty, trace, err := calc.Convert(3.5, "", models.UnitL)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if !almostEqual(qty, 3.5) {
		t.Fatalf("empty unit must pass through, got %v", qty)
	}
	if trace.Outcome != models.ConversionIdentity {
		t.Fatalf("outcome = %q, want identity", trace.Outcome)
	}
}

func TestConvertSubUnitToBase(t *testing.T) {
	calc := NewCalculator(ModePermissive, nil)

	cases := []struct {
		qty    float64
		unit   string
		base   models.CanonicalUnit
		want   float64
		factor float64
	}{
		{500, "ml", models.UnitL, 0.5, 0.001},
		{1000, "ml", models.UnitL, 1, 0.001},
		{250, "g", models.UnitKG, 0.25, 0.001},
		{2, "tray", models.UnitEGGS, 60, 30},
	}

	for _, tc := range cases {
		qty, trace, err := calc.Convert(tc.qty, tc.unit, tc.base)
		if err != nil {
			t.Fatalf("Convert(%v %s -> %s): %v", tc.qty, tc.unit, tc.base, err)
		}
		if !almostEqual(qty, tc.want) {
			t.Fatalf("Convert(%v %s -> %s) = %v, want %v", tc.qty, tc.unit, tc.base, qty, tc.want)
		}
		if trace.Outcome != models.ConversionApplied {
			t.Fatalf("outcome = %q, want applied", trace.Outcome)
		}
		if !almostEqual(trace.Factor, tc.factor) {
			t.Fatalf("trace factor = %v, want %v", trace.Factor, tc.factor)
		}
	}
}

func TestConvertUnknownUnitPermissive(t *testing.T) {
	calc := NewCalculator(ModePermissive, nil)

	qty, trace, err := calc.Convert(4, "bunch", models.UnitKG)
	if err != nil {
		t.Fatalf("permissive mode must not error on unknown units: %v", err)
	}
	if !almostEqual(qty, 4) {
		t.Fatalf("unknown unit must pass the quantity through, got %v", qty)
	}
	if trace.Outcome != models.ConversionUnknownUnit {
		t.Fatalf("outcome = %q, want unknown_unit", trace.Outcome)
	}
	if trace.IssuedToken != "bunch" {
		t.Fatalf("trace must retain the raw token, got %q", trace.IssuedToken)
	}
}

func TestConvertUnknownUnitStrict(t *testing.T) {
	calc := NewCalculator(ModeStrict, nil)

	_, _, err := calc.Convert(4, "bunch", models.UnitKG)
	if !errors.Is(err, ErrUnknownUnit) {
		t.Fatalf("strict mode must reject unknown units, got %v", err)
	}
}

func TestConvertIncompatibleFamiliesPermissive(t *testing.T) {
	calc := NewCalculator(ModePermissive, nil)

	qty, trace, err := calc.Convert(2, "kg", models.UnitL)
	if err != nil {
		t.Fatalf("permissive mode must not error on family mismatch: %v", err)
	}
	if !almostEqual(qty, 2) {
		t.Fatalf("family mismatch must pass the quantity through, got %v", qty)
	}
	if trace.Outcome != models.ConversionIncompatible {
		t.Fatalf("outcome = %q, want incompatible_units", trace.Outcome)
	}
}

func TestConvertIncompatibleFamiliesStrict(t *testing.T) {
	calc := NewCalculator(ModeStrict, nil)

	_, _, err := calc.Convert(2, "kg", models.UnitL)
	if !errors.Is(err, ErrIncompatibleUnits) {
		t.Fatalf("strict mode must reject cross-family conversions, got %v", err)
	}
}

func TestPackageSubFamiliesNeverConvert(t *testing.T) {
	calc := NewCalculator(ModePermissive, nil)

	_, trace, err := calc.Convert(3, "pkt", models.UnitBOX)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if trace.Outcome != models.ConversionIncompatible {
		t.Fatalf("pkt -> box must be incompatible, got %q", trace.Outcome)
	}
}

func TestCost(t *testing.T) {
	calc := NewCalculator(ModePermissive, nil)

	// 500 ml of oil priced at 300 per liter.
	cost, _, err := calc.Cost(500, "ml", 300, models.UnitL)
	if err != nil {
		t.Fatalf("Cost: %v", err)
	}
	if !almostEqual(cost, 150) {
		t.Fatalf("cost = %v, want 150", cost)
	}

	// 2 kg of potatoes at 80 per kg.
	cost, _, err = calc.Cost(2, "kg", 80, models.UnitKG)
	if err != nil {
		t.Fatalf("Cost: %v", err)
	}
	if !almostEqual(cost, 160) {
		t.Fatalf("cost = %v, want 160", cost)
	}
}

func TestRemainingClampsAtZero(t *testing.T) {
	calc := NewCalculator(ModePermissive, nil)

	remaining, err := calc.Remaining(10, 500, "ml", models.UnitL)
	if err != nil {
		t.Fatalf("Remaining: %v", err)
	}
	if !almostEqual(remaining, 9.5) {
		t.Fatalf("remaining = %v, want 9.5", remaining)
	}

	remaining, err = calc.Remaining(1, 5, "kg", models.UnitKG)
	if err != nil {
		t.Fatalf("Remaining: %v", err)
	}
	if !almostEqual(remaining, 0) {
		t.Fatalf("remaining must clamp at zero, got %v", remaining)
	}
}

func TestParseMode(t *testing.T) {
	if ParseMode("strict") != ModeStrict {
		t.Fatal("strict not parsed")
	}
	if ParseMode(" STRICT ") != ModeStrict {
		t.Fatal("strict parsing must be case-insensitive")
	}
	if ParseMode("permissive") != ModePermissive {
		t.Fatal("permissive not parsed")
	}
	if ParseMode("") != ModePermissive {
		t.Fatal("default mode must be permissive")
	}
}
