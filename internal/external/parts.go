// Package external turns free-text location strings into record fields
package external

import (
	"strings"

	"github.com/listing-locator/internal/normalizer"
)

// Parts is a free-text location split into hierarchy fields
type Parts struct {
	Region   string  `json:"region,omitempty"`
	District string  `json:"district,omitempty"`
	Area     string  `json:"area,omitempty"`
	Coverage float64 `json:"coverage"` // Share of input words assigned to a field
	Parser   string  `json:"parser"`
}

func isCountry(name string) bool {
	switch normalizer.Normalize(name) {
	case "tanzania", "united republic of tanzania", "tz":
		return true
	}
	return false
}

// SplitParts reads "Area, District, Region[, Country]" from the right, so
// "Iyunga, Mbeya Urban, Mbeya" fills all three fields
func SplitParts(raw string) Parts {
	var fields []string
	for _, f := range strings.Split(raw, ",") {
		f = normalizer.Display(f)
		if f == "" || isCountry(f) {
			continue
		}
		fields = append(fields, f)
	}

	p := Parts{Parser: "split"}
	n := len(fields)
	if n > 0 {
		p.Region = fields[n-1]
	}
	if n > 1 {
		p.District = fields[n-2]
	}
	if n > 2 {
		p.Area = fields[n-3]
	}
	p.Coverage = coverage(raw, p)
	return p
}

func coverage(raw string, p Parts) float64 {
	total := len(strings.Fields(strings.ReplaceAll(raw, ",", " ")))
	if total == 0 {
		return 0
	}
	covered := len(strings.Fields(p.Region)) + len(strings.Fields(p.District)) + len(strings.Fields(p.Area))
	return float64(covered) / float64(total)
}

// stripSuffix drops administrative words that geocoders and parsers append
func stripSuffix(name string) string {
	name = normalizer.Display(name)
	lower := strings.ToLower(name)
	for _, suffix := range []string{" region", " district council", " district", " ward", " municipal council", " city council"} {
		if strings.HasSuffix(lower, suffix) && len(name) > len(suffix) {
			return strings.TrimSpace(name[:len(name)-len(suffix)])
		}
	}
	return name
}

// StripSuffix is exported for the geocoder
func StripSuffix(name string) string { return stripSuffix(name) }
