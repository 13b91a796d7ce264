package costing

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mamefall/recipecost/internal/domain/models"
)

// ErrUnknownUnit indicates the issued unit token is outside the conversion table.
var ErrUnknownUnit = errors.New("unknown issuance unit")

// ErrIncompatibleUnits indicates the issued unit belongs to a different family
// than the ingredient's base unit.
var ErrIncompatibleUnits = errors.New("incompatible unit families")

// Mode selects how the calculator treats conversions it cannot perform
// faithfully.
type Mode string

const (
	// ModePermissive passes the issued quantity through as if it were already
	// in the base unit and records the degraded outcome on the trace. This is
	// the legacy behavior; callers must surface the trace to the operator.
	ModePermissive Mode = "permissive"
	// ModeStrict rejects unknown or cross-family units outright.
	ModeStrict Mode = "strict"
)

// ParseMode maps a configuration string to a Mode, defaulting to permissive.
func ParseMode(raw string) Mode {
	if strings.EqualFold(strings.TrimSpace(raw), string(ModeStrict)) {
		return ModeStrict
	}
	return ModePermissive
}

// Calculator converts issued quantities into base-unit quantities and prices
// them. It holds no ingredient state; callers pass snapshots read through the
// persistence gateway.
type Calculator struct {
	mode   Mode
	logger *zap.Logger
}

// NewCalculator wires a calculator with the given conversion mode.
func NewCalculator(mode Mode, logger *zap.Logger) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Calculator{mode: mode, logger: logger}
}

// Convert maps qty expressed in issuedUnit onto the ingredient's base unit.
// The returned trace records the decision taken; in permissive mode degraded
// conversions return the quantity unchanged rather than an error.
func (c *Calculator) Convert(qty float64, issuedUnit string, baseUnit models.CanonicalUnit) (float64, models.ConversionTrace, error) {
	trace := models.ConversionTrace{
		IssuedToken: issuedUnit,
		BaseUnit:    baseUnit,
		Factor:      1,
	}

	issued, recognized := models.NormalizeUnit(issuedUnit)
	trace.IssuedUnit = issued

	// An empty token, or a token resolving to the base unit itself, is a
	// no-op conversion. Unrecognized tokens only qualify when byte-identical
	// to the base unit.
	if strings.TrimSpace(issuedUnit) == "" || issued == baseUnit {
		trace.Outcome = models.ConversionIdentity
		if family, _, ok := models.UnitFactor(baseUnit); ok {
			trace.Family = family
		}
		return qty, trace, nil
	}

	issuedFamily, factor, known := models.UnitFactor(issued)
	if !recognized || !known {
		trace.Outcome = models.ConversionUnknownUnit
		c.logger.Warn("unknown issuance unit, passing quantity through",
			zap.String("token", issuedUnit),
			zap.String("base_unit", string(baseUnit)))
		if c.mode == ModeStrict {
			return qty, trace, fmt.Errorf("%w: %q", ErrUnknownUnit, issuedUnit)
		}
		return qty, trace, nil
	}

	baseFamily, _, baseKnown := models.UnitFactor(baseUnit)
	if !baseKnown || issuedFamily != baseFamily {
		trace.Family = issuedFamily
		trace.Outcome = models.ConversionIncompatible
		c.logger.Warn("unit family mismatch, passing quantity through",
			zap.String("issued_unit", string(issued)),
			zap.String("issued_family", string(issuedFamily)),
			zap.String("base_unit", string(baseUnit)))
		if c.mode == ModeStrict {
			return qty, trace, fmt.Errorf("%w: %s vs %s", ErrIncompatibleUnits, issued, baseUnit)
		}
		return qty, trace, nil
	}

	trace.Family = issuedFamily
	trace.Factor = factor
	trace.Outcome = models.ConversionApplied
	return qty * factor, trace, nil
}

// Cost prices an issued quantity against the ingredient's per-base-unit cost.
// No intermediate rounding is applied; display rounding is a presentation
// concern.
func (c *Calculator) Cost(qty float64, issuedUnit string, costPerBaseUnit float64, baseUnit models.CanonicalUnit) (float64, models.ConversionTrace, error) {
	inBase, trace, err := c.Convert(qty, issuedUnit, baseUnit)
	if err != nil {
		return 0, trace, err
	}
	return inBase * costPerBaseUnit, trace, nil
}

// Remaining previews the stock left after an issuance, clamped at zero. The
// figure is advisory UI feedback only; authoritative enforcement happens in
// the atomic stock decrement at finalize time.
func (c *Calculator) Remaining(currentStock, qty float64, issuedUnit string, baseUnit models.CanonicalUnit) (float64, error) {
	inBase, _, err := c.Convert(qty, issuedUnit, baseUnit)
	if err != nil {
		return currentStock, err
	}

	remaining := currentStock - inBase
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}
