package normalizer

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain", input: "Mbeya", expected: "mbeya"},
		{name: "padded", input: "  Mbeya ", expected: "mbeya"},
		{name: "upper", input: "MBEYA URBAN", expected: "mbeya urban"},
		{name: "inner runs", input: "Mbeya \t  Urban\n", expected: "mbeya urban"},
		{name: "apostrophe kept", input: "Chang'ombe", expected: "chang'ombe"},
		{name: "sharp s folds", input: "STRAßE", expected: "strasse"},
		{name: "empty", input: "", expected: Absent},
		{name: "only spaces", input: "   \t ", expected: Absent},
		{name: "control chars dropped", input: "Ki\x00goma", expected: "kigoma"},
		{name: "sentinel stays", input: Absent, expected: Absent},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.input); got != tc.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"", " ", "Mbeya", " Dar  es   Salaam ", "ÎLE", "Ng'ambo", "İstanbul",
		"Kigomá", "é", "ΣΊΣΥΦΟΣ", "x\x00absent", Absent, " Arusha ",
		"\u13a0", "\uab70", "\u13f8", "\u13f0", "ᏣᎳᎩ ᎦᏬᏂᎯᏍᏗ",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestNormalize_CaseVariantsAgree(t *testing.T) {
	pairs := [][2]string{
		{"\u13a0", "\uab70"},
		{"\u13f0", "\u13f8"},
		{"ΣΊΣΥΦΟΣ", "σίσυφος"},
		{"STRASSE", "straße"},
	}
	for _, p := range pairs {
		if !Equal(p[0], p[1]) || !Equal(p[1], p[0]) {
			t.Errorf("%q and %q should be equal after normalization", p[0], p[1])
		}
	}
}

func TestNormalize_RealTokensNeverAbsent(t *testing.T) {
	for _, in := range []string{"absent", "ABSENT", "\x00absent "} {
		if Normalize(in) == Absent && in != Absent {
			t.Errorf("%q normalized to the absent sentinel", in)
		}
	}
}

func TestEqual(t *testing.T) {
	if !Equal(" Mbeya ", "mbeya") {
		t.Error("case and padding should not matter")
	}
	if Equal("Mbeya", "Mbeya Rural") {
		t.Error("prefix must not match")
	}
	if Equal("", "") {
		t.Error("two absent tokens must not be equal")
	}
	if Equal("", "mbeya") {
		t.Error("absent must not equal a real token")
	}
}

func TestASCIIKey(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"Mbeya Urban", "mbeya urban"},
		{"Ng'ambo", "ng ambo"},
		{"Unga L.td", "unga l td"},
		{"Zürich", "zurich"},
		{"", ""},
	}
	for _, tc := range testCases {
		if got := ASCIIKey(tc.input); got != tc.expected {
			t.Errorf("ASCIIKey(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}

func TestDisplay(t *testing.T) {
	if got := Display("  Mbeya   Urban "); got != "Mbeya Urban" {
		t.Errorf("Display kept extra spaces: %q", got)
	}
}
