package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/listing-locator/internal/external"
	"github.com/listing-locator/internal/normalizer"
	"github.com/listing-locator/internal/taxonomy"
)

// Column order of the national ward listing export
const (
	colRegion = iota
	colRegionCode
	colDistrict
	colDistrictCode
	colWard
	colWardCode
	colStreet
	minColumns = colWardCode + 1
)

// ConvertOptions tunes Convert
type ConvertOptions struct {
	StripSuffixes bool // Drop " Region", " District Council" and similar
}

// ConvertStats counts what Convert kept and skipped
type ConvertStats struct {
	Rows       int
	Duplicates int
	Skipped    int
}

type builder struct {
	src     taxonomy.Source
	regions map[string]int
	// region key -> district key -> index into Districts
	districts map[string]map[string]int
	wards     map[string]struct{}
}

// Convert reads region,regionCode,district,districtCode,ward,wardCode,street
// rows into a taxonomy source. Streets repeat their ward and are folded
// away. Names that collide after normalization are merged and counted as
// duplicates; the first spelling wins.
func Convert(r io.Reader, opts ConvertOptions) (taxonomy.Source, ConvertStats, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	b := &builder{
		regions:   map[string]int{},
		districts: map[string]map[string]int{},
		wards:     map[string]struct{}{},
	}
	var stats ConvertStats

	for line := 1; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return taxonomy.Source{}, stats, fmt.Errorf("line %d: %w", line, err)
		}
		if line == 1 && isHeader(row) {
			continue
		}
		stats.Rows++
		if len(row) < minColumns {
			stats.Skipped++
			continue
		}

		name := func(col int) string {
			v := normalizer.Display(row[col])
			if opts.StripSuffixes {
				v = external.StripSuffix(v)
			}
			return v
		}
		region, district, ward := name(colRegion), name(colDistrict), name(colWard)
		if region == "" || district == "" || ward == "" {
			stats.Skipped++
			continue
		}
		if !b.add(region, row[colRegionCode], district, row[colDistrictCode], ward, row[colWardCode]) {
			stats.Duplicates++
		}
	}
	return b.src, stats, nil
}

// add places one ward and reports whether it was new
func (b *builder) add(region, regionCode, district, districtCode, ward, wardCode string) bool {
	rk := normalizer.Normalize(region)
	ri, ok := b.regions[rk]
	if !ok {
		b.src.Regions = append(b.src.Regions, taxonomy.SourceNode{Name: region, Code: strings.TrimSpace(regionCode)})
		ri = len(b.src.Regions) - 1
		b.regions[rk] = ri
		b.districts[rk] = map[string]int{}
	}
	r := &b.src.Regions[ri]

	dk := normalizer.Normalize(district)
	di, ok := b.districts[rk][dk]
	if !ok {
		r.Districts = append(r.Districts, taxonomy.SourceNode{Name: district, Code: strings.TrimSpace(districtCode)})
		di = len(r.Districts) - 1
		b.districts[rk][dk] = di
	}
	d := &r.Districts[di]

	wk := rk + "\x1f" + dk + "\x1f" + normalizer.Normalize(ward)
	if _, dup := b.wards[wk]; dup {
		return false
	}
	b.wards[wk] = struct{}{}
	d.Wards = append(d.Wards, taxonomy.SourceNode{Name: ward, Code: strings.TrimSpace(wardCode)})
	return true
}

func isHeader(row []string) bool {
	return len(row) > colRegion && normalizer.Normalize(row[colRegion]) == "region"
}
