//go:build !cgo || !libpostal

package external

// ParseLocation splits on commas. Build with -tags libpostal to use libpostal.
func ParseLocation(raw string) Parts {
	return SplitParts(raw)
}
