// Package normalizer canonicalizes location tokens so that comparisons are
// case-insensitive and whitespace-insensitive.
package normalizer

import (
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Absent is what empty or missing input normalizes to. No real token can
// produce it because Normalize strips control characters.
const Absent = "\x00absent"

// Normalize trims, case-folds and collapses internal whitespace runs.
// It is total and idempotent.
func Normalize(token string) string {
	if token == Absent {
		return Absent
	}
	s := canonical(token)
	if s == "" {
		return Absent
	}
	// Fold is not closed over every script (Cherokee flips between its two
	// cases), so repeat until the result is a fixed point.
	for i := 0; i < maxPasses; i++ {
		next := canonical(s)
		if next == s {
			break
		}
		s = next
	}
	return s
}

const maxPasses = 4

// canonical is one fold pass. Lowering after the fold settles scripts
// whose fold target is the uppercase form.
func canonical(token string) string {
	s := norm.NFC.String(token)
	s = strings.Map(dropControl, s)
	// Casers carry state, so each call gets its own.
	s = strings.ToLower(cases.Fold().String(s))
	return norm.NFC.String(strings.Join(strings.Fields(s), " "))
}

// IsAbsent reports whether token normalizes to Absent
func IsAbsent(token string) bool {
	return Normalize(token) == Absent
}

// Equal compares two raw tokens on their normalized form. Absent never
// equals anything, including another absent token.
func Equal(a, b string) bool {
	na := Normalize(a)
	if na == Absent {
		return false
	}
	return na == Normalize(b)
}

// ASCIIKey folds a token down to plain ASCII. It feeds similarity scoring
// only and must never be used to decide a match.
func ASCIIKey(token string) string {
	n := Normalize(token)
	if n == Absent {
		return ""
	}
	key := unidecode.Unidecode(StripDiacritics(n))
	key = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' {
			return unicode.ToLower(r)
		}
		return ' '
	}, key)
	return strings.Join(strings.Fields(key), " ")
}

// Display trims and collapses whitespace but keeps the original casing
func Display(token string) string {
	return strings.Join(strings.Fields(strings.Map(dropControl, token)), " ")
}

func dropControl(r rune) rune {
	if unicode.IsControl(r) && !unicode.IsSpace(r) {
		return -1
	}
	return r
}
