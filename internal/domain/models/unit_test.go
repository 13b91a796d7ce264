package models

import "testing"

func TestNormalizeUnitSynonyms(t *testing.T) {
	cases := []struct {
		token string
		want  CanonicalUnit
	}{
		{"kg", UnitKG},
		{"Kgs", UnitKG},
		{"KILOGRAM", UnitKG},
		{" kilo ", UnitKG},
		{"g", UnitG},
		{"gms", UnitG},
		{"ltr", UnitL},
		{"Litres", UnitL},
		{"ml", UnitML},
		{"pcs", UnitPCS},
		{"each", UnitPCS},
		{"ea", UnitPCS},
		{"egg", UnitEGGS},
		{"EGGS", UnitEGGS},
		{"trays", UnitTRAY},
		{"packet", UnitPKT},
		{"boxes", UnitBOX},
		{"bottle", UnitBTL},
	}

	for _, tc := range cases {
		got, ok := NormalizeUnit(tc.token)
		if !ok {
			t.Fatalf("NormalizeUnit(%q) not recognized", tc.token)
		}
		if got != tc.want {
			t.Fatalf("NormalizeUnit(%q) = %q, want %q", tc.token, got, tc.want)
		}
	}
}

func TestNormalizeUnitUnknownToken(t *testing.T) {
	got, ok := NormalizeUnit("bunch")
	if ok {
		t.Fatalf("NormalizeUnit(\"bunch\") unexpectedly recognized as %q", got)
	}
	if got != "bunch" {
		t.Fatalf("unknown token must be returned unchanged, got %q", got)
	}

	if _, ok := NormalizeUnit(""); ok {
		t.Fatal("empty token must not be recognized")
	}
	if _, ok := NormalizeUnit("   "); ok {
		t.Fatal("whitespace token must not be recognized")
	}
}

func TestUnitFactorTable(t *testing.T) {
	cases := []struct {
		unit   CanonicalUnit
		family UnitFamily
		factor float64
	}{
		{UnitKG, FamilyMass, 1},
		{UnitG, FamilyMass, 0.001},
		{UnitL, FamilyVolume, 1},
		{UnitML, FamilyVolume, 0.001},
		{UnitPCS, FamilyCount, 1},
		{UnitEGGS, FamilyEgg, 1},
		{UnitTRAY, FamilyEgg, 30},
		{UnitPKT, FamilyPkt, 1},
		{UnitBOX, FamilyBox, 1},
		{UnitBTL, FamilyBtl, 1},
	}

	for _, tc := range cases {
		family, factor, ok := UnitFactor(tc.unit)
		if !ok {
			t.Fatalf("UnitFactor(%q) unknown", tc.unit)
		}
		if family != tc.family || factor != tc.factor {
			t.Fatalf("UnitFactor(%q) = (%q, %v), want (%q, %v)", tc.unit, family, factor, tc.family, tc.factor)
		}
	}

	if _, _, ok := UnitFactor("BUNCH"); ok {
		t.Fatal("UnitFactor must reject units outside the table")
	}
}

func TestPackageSubFamiliesAreDistinct(t *testing.T) {
	pktFamily, _, _ := UnitFactor(UnitPKT)
	boxFamily, _, _ := UnitFactor(UnitBOX)
	btlFamily, _, _ := UnitFactor(UnitBTL)

	if pktFamily == boxFamily || pktFamily == btlFamily || boxFamily == btlFamily {
		t.Fatalf("package sub-families must never be convertible: pkt=%q box=%q btl=%q", pktFamily, boxFamily, btlFamily)
	}
}
