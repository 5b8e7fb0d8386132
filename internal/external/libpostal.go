//go:build cgo && libpostal

package external

import (
	"github.com/openvenues/gopostal/expand"
	"github.com/openvenues/gopostal/parser"
)

// ParseLocation labels a free-text location with libpostal and falls back
// to comma splitting when libpostal finds no region
func ParseLocation(raw string) Parts {
	opts := expand.DefaultOptions()
	opts.Languages = []string{"sw", "en"}
	best := raw
	if exps := expand.ExpandAddress(raw, opts); len(exps) > 0 {
		best = exps[0]
	}

	p := Parts{Parser: "libpostal"}
	for _, c := range parser.ParseAddress(best) {
		switch c.Label {
		case "state":
			p.Region = stripSuffix(c.Value)
		case "state_district", "city":
			if p.District == "" {
				p.District = stripSuffix(c.Value)
			}
		case "suburb", "city_district":
			if p.Area == "" {
				p.Area = stripSuffix(c.Value)
			}
		}
	}
	if p.Region == "" {
		return SplitParts(raw)
	}
	p.Coverage = coverage(best, p)
	return p
}
