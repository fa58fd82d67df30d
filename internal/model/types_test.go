package model

import "testing"

func TestParseConstraint(t *testing.T) {
	cases := []struct {
		raw     string
		wantAny bool
		want    string
	}{
		{raw: "", wantAny: true},
		{raw: "All", wantAny: true},
		{raw: " All ", wantAny: true},
		{raw: "all", want: "all"},
		{raw: "ALL", want: "ALL"},
		{raw: "Clothing", want: "Clothing"},
	}
	for _, tc := range cases {
		c := ParseConstraint(tc.raw)
		if c.IsAny() != tc.wantAny {
			t.Fatalf("ParseConstraint(%q).IsAny() = %v, want %v", tc.raw, c.IsAny(), tc.wantAny)
		}
		if v, ok := c.Value(); ok && v != tc.want {
			t.Fatalf("ParseConstraint(%q) value = %q, want %q", tc.raw, v, tc.want)
		}
	}
}

func TestConstraintMatches(t *testing.T) {
	if !Any().Matches("anything") {
		t.Fatalf("expected Any to match")
	}
	if !Is("Winter").Matches("Winter") {
		t.Fatalf("expected exact match")
	}
	if Is("Winter").Matches("winter") {
		t.Fatalf("expected case-sensitive mismatch")
	}
	if Any().String() != AllLabel || Is("Cash").String() != "Cash" {
		t.Fatalf("unexpected labels: %q %q", Any().String(), Is("Cash").String())
	}
}

func TestParseGender(t *testing.T) {
	if g, ok := ParseGender(" Female "); !ok || g != GenderFemale {
		t.Fatalf("expected Female, got %q ok=%v", g, ok)
	}
	if _, ok := ParseGender("female"); ok {
		t.Fatalf("expected lowercase gender to be rejected")
	}
}
