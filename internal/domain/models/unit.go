package models

import "strings"

// CanonicalUnit is a normalized unit symbol after synonym resolution.
type CanonicalUnit string

const (
	UnitKG   CanonicalUnit = "KG"
	UnitG    CanonicalUnit = "G"
	UnitL    CanonicalUnit = "L"
	UnitML   CanonicalUnit = "ML"
	UnitPCS  CanonicalUnit = "PCS"
	UnitEGGS CanonicalUnit = "EGGS"
	UnitTRAY CanonicalUnit = "TRAY"
	UnitPKT  CanonicalUnit = "PKT"
	UnitBOX  CanonicalUnit = "BOX"
	UnitBTL  CanonicalUnit = "BTL"
)

// UnitFamily groups units that are convertible to one another. The three
// package sub-families are deliberately distinct: a packet is never a box.
type UnitFamily string

const (
	FamilyMass   UnitFamily = "mass"
	FamilyVolume UnitFamily = "volume"
	FamilyCount  UnitFamily = "count"
	FamilyEgg    UnitFamily = "egg"
	FamilyPkt    UnitFamily = "pkt"
	FamilyBox    UnitFamily = "box"
	FamilyBtl    UnitFamily = "btl"
)

var unitSynonyms = map[string]CanonicalUnit{
	"kg": UnitKG, "kgs": UnitKG, "kilogram": UnitKG, "kilograms": UnitKG, "kilo": UnitKG,
	"g": UnitG, "gm": UnitG, "gms": UnitG, "gram": UnitG, "grams": UnitG,
	"l": UnitL, "ltr": UnitL, "liter": UnitL, "liters": UnitL, "litre": UnitL, "litres": UnitL,
	"ml": UnitML, "mls": UnitML, "milliliter": UnitML, "milliliters": UnitML,
	"pcs": UnitPCS, "pc": UnitPCS, "piece": UnitPCS, "pieces": UnitPCS, "each": UnitPCS, "ea": UnitPCS,
	"egg": UnitEGGS, "eggs": UnitEGGS,
	"tray": UnitTRAY, "trays": UnitTRAY,
	"pkt": UnitPKT, "packet": UnitPKT, "packets": UnitPKT,
	"box": UnitBOX, "boxes": UnitBOX,
	"btl": UnitBTL, "bottle": UnitBTL, "bottles": UnitBTL,
}

// unitFactors maps each canonical unit to its family and the factor that
// converts one of it into the family base unit.
var unitFactors = map[CanonicalUnit]struct {
	Family UnitFamily
	Factor float64
}{
	UnitKG:   {FamilyMass, 1},
	UnitG:    {FamilyMass, 0.001},
	UnitL:    {FamilyVolume, 1},
	UnitML:   {FamilyVolume, 0.001},
	UnitPCS:  {FamilyCount, 1},
	UnitEGGS: {FamilyEgg, 1},
	UnitTRAY: {FamilyEgg, 30},
	UnitPKT:  {FamilyPkt, 1},
	UnitBOX:  {FamilyBox, 1},
	UnitBTL:  {FamilyBtl, 1},
}

// NormalizeUnit resolves a free-form unit token to its canonical symbol.
// Matching is case-insensitive and ignores surrounding whitespace. When the
// token is not part of the known vocabulary it is returned unchanged with
// ok=false; callers must treat that as "no conversion possible".
func NormalizeUnit(token string) (CanonicalUnit, bool) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return "", false
	}

	if canonical, ok := unitSynonyms[strings.ToLower(trimmed)]; ok {
		return canonical, true
	}

	return CanonicalUnit(trimmed), false
}

// UnitFactor returns the family a canonical unit belongs to and its factor to
// the family base unit. ok=false means the unit is outside the fixed table.
func UnitFactor(unit CanonicalUnit) (UnitFamily, float64, bool) {
	entry, ok := unitFactors[unit]
	if !ok {
		return "", 0, false
	}
	return entry.Family, entry.Factor, true
}

// ConversionOutcome classifies how an issued quantity was mapped to the base unit.
type ConversionOutcome string

const (
	ConversionApplied      ConversionOutcome = "applied"
	ConversionIdentity     ConversionOutcome = "identity"
	ConversionUnknownUnit  ConversionOutcome = "unknown_unit"
	ConversionIncompatible ConversionOutcome = "incompatible_units"
)

// ConversionTrace is the queryable record of a single conversion decision,
// returned alongside every computed cost rather than merely logged.
type ConversionTrace struct {
	IssuedToken string            `bson:"issued_token" json:"issued_token"`
	IssuedUnit  CanonicalUnit     `bson:"issued_unit" json:"issued_unit"`
	BaseUnit    CanonicalUnit     `bson:"base_unit" json:"base_unit"`
	Family      UnitFamily        `bson:"family,omitempty" json:"family,omitempty"`
	Factor      float64           `bson:"factor" json:"factor"`
	Outcome     ConversionOutcome `bson:"outcome" json:"outcome"`
}
