// Package taxonomy holds the authoritative Region > District > Ward tree.
// A Taxonomy is immutable once built and safe to share between goroutines.
package taxonomy

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/listing-locator/app/models"
	"github.com/listing-locator/internal/normalizer"
)

// Node is one entry of the tree
type Node struct {
	Name     string // Display spelling from the source
	Key      string // Normalized name
	Code     string
	Level    models.AdminLevel
	Position int // Insertion order among siblings
	Parent   *Node

	children []*Node
	index    map[string]*Node
}

// Children returns the child nodes in insertion order
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// ChildNames returns the display names of the children in insertion order
func (n *Node) ChildNames() []string {
	names := make([]string, len(n.children))
	for i, c := range n.children {
		names[i] = c.Name
	}
	return names
}

// Child finds a direct child by raw name
func (n *Node) Child(name string) *Node {
	if n == nil {
		return nil
	}
	return n.index[normalizer.Normalize(name)]
}

// Path returns the display names of the ancestors, region first
func (n *Node) Path() []string {
	var path []string
	for p := n.Parent; p != nil; p = p.Parent {
		path = append([]string{p.Name}, path...)
	}
	return path
}

// ID is a stable identifier derived from the normalized path
func (n *Node) ID() string {
	keys := []string{n.Key}
	for p := n.Parent; p != nil; p = p.Parent {
		keys = append([]string{p.Key}, keys...)
	}
	sum := sha256.Sum256([]byte(strings.Join(keys, "/")))
	return hex.EncodeToString(sum[:8])
}

// Placement is one position of a name in the tree
type Placement struct {
	Level    models.AdminLevel `json:"level"`
	Name     string            `json:"name"`
	Region   string            `json:"region,omitempty"`
	District string            `json:"district,omitempty"`
}

// Stats counts the nodes per level
type Stats struct {
	Regions   int `json:"regions"`
	Districts int `json:"districts"`
	Wards     int `json:"wards"`
}

// Taxonomy is the built, read-only tree
type Taxonomy struct {
	regions    []*Node
	index      map[string]*Node
	placements map[string][]Placement
	stats      Stats
	version    string
}

// Build validates a source tree and turns it into a Taxonomy. Two siblings
// that normalize to the same name, an empty name or a misplaced level all
// produce a *BuildError.
func Build(src Source) (*Taxonomy, error) {
	if len(src.Regions) == 0 {
		return nil, &BuildError{Reason: ReasonNoRegions}
	}

	t := &Taxonomy{
		index:      make(map[string]*Node, len(src.Regions)),
		placements: make(map[string][]Placement),
	}
	h := sha256.New()

	for i, rs := range src.Regions {
		if len(rs.Wards) > 0 {
			return nil, &BuildError{Name: rs.Name, Reason: ReasonWrongLevel}
		}
		region, err := newNode(nil, t.index, rs, models.LevelRegion, i)
		if err != nil {
			return nil, err
		}
		t.regions = append(t.regions, region)
		t.place(region)
		h.Write([]byte("r:" + region.Key + "\n"))

		for j, ds := range rs.Districts {
			if len(ds.Districts) > 0 {
				return nil, &BuildError{Path: []string{region.Name}, Name: ds.Name, Reason: ReasonWrongLevel}
			}
			district, err := newNode(region, region.index, ds, models.LevelDistrict, j)
			if err != nil {
				return nil, err
			}
			t.place(district)
			h.Write([]byte("d:" + district.Key + "\n"))

			for k, ws := range ds.Wards {
				if len(ws.Districts) > 0 || len(ws.Wards) > 0 {
					return nil, &BuildError{Path: []string{region.Name, district.Name}, Name: ws.Name, Reason: ReasonTooDeep}
				}
				ward, err := newNode(district, district.index, ws, models.LevelWard, k)
				if err != nil {
					return nil, err
				}
				t.place(ward)
				h.Write([]byte("w:" + ward.Key + "\n"))
			}
		}
	}

	t.version = hex.EncodeToString(h.Sum(nil))[:16]
	return t, nil
}

func newNode(parent *Node, siblings map[string]*Node, src SourceNode, level models.AdminLevel, pos int) (*Node, error) {
	var path []string
	if parent != nil {
		path = append(parent.Path(), parent.Name)
	}
	key := normalizer.Normalize(src.Name)
	if key == normalizer.Absent {
		return nil, &BuildError{Path: path, Name: src.Name, Reason: ReasonEmptyName}
	}
	if existing, ok := siblings[key]; ok {
		return nil, &BuildError{Path: path, Name: src.Name, Conflict: existing.Name, Reason: ReasonDuplicate}
	}
	n := &Node{
		Name:     normalizer.Display(src.Name),
		Key:      key,
		Code:     strings.TrimSpace(src.Code),
		Level:    level,
		Position: pos,
		Parent:   parent,
		index:    make(map[string]*Node),
	}
	siblings[key] = n
	if parent != nil {
		parent.children = append(parent.children, n)
	}
	return n, nil
}

func (t *Taxonomy) place(n *Node) {
	p := Placement{Level: n.Level, Name: n.Name}
	switch n.Level {
	case models.LevelRegion:
		t.stats.Regions++
	case models.LevelDistrict:
		p.Region = n.Parent.Name
		t.stats.Districts++
	case models.LevelWard:
		p.District = n.Parent.Name
		p.Region = n.Parent.Parent.Name
		t.stats.Wards++
	}
	t.placements[n.Key] = append(t.placements[n.Key], p)
}

// Version is a short digest of every normalized name in tree order
func (t *Taxonomy) Version() string { return t.version }

// Stats returns node counts per level
func (t *Taxonomy) Stats() Stats { return t.stats }

// Regions returns the region display names in insertion order
func (t *Taxonomy) Regions() []string {
	names := make([]string, len(t.regions))
	for i, r := range t.regions {
		names[i] = r.Name
	}
	return names
}

// RegionNodes returns the region nodes in insertion order
func (t *Taxonomy) RegionNodes() []*Node {
	out := make([]*Node, len(t.regions))
	copy(out, t.regions)
	return out
}

// Region finds a region by raw name
func (t *Taxonomy) Region(name string) *Node {
	return t.index[normalizer.Normalize(name)]
}

// District finds a district of a region by raw names
func (t *Taxonomy) District(region, district string) *Node {
	return t.Region(region).Child(district)
}

// Ward finds a ward by raw names
func (t *Taxonomy) Ward(region, district, ward string) *Node {
	return t.District(region, district).Child(ward)
}

// HasRegion reports whether region is a known region
func (t *Taxonomy) HasRegion(region string) bool {
	return t.Region(region) != nil
}

// HasDistrict reports whether district is a child of region
func (t *Taxonomy) HasDistrict(region, district string) bool {
	return t.District(region, district) != nil
}

// HasWard reports whether ward is a child of region > district
func (t *Taxonomy) HasWard(region, district, ward string) bool {
	return t.Ward(region, district, ward) != nil
}

// Lookup returns the child names of region, or of region > district when
// district is not empty. Unknown parents give nil.
func (t *Taxonomy) Lookup(region, district string) []string {
	parent := t.Region(region)
	if parent == nil {
		return nil
	}
	if !normalizer.IsAbsent(district) {
		parent = parent.Child(district)
		if parent == nil {
			return nil
		}
	}
	return parent.ChildNames()
}

// Classify returns every level at which value appears, lowest level number
// first. An empty result means the value is unknown.
func (t *Taxonomy) Classify(value string) []models.AdminLevel {
	places := t.placements[normalizer.Normalize(value)]
	if len(places) == 0 {
		return nil
	}
	seen := make(map[models.AdminLevel]bool, 3)
	var levels []models.AdminLevel
	for _, p := range places {
		if !seen[p.Level] {
			seen[p.Level] = true
			levels = append(levels, p.Level)
		}
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i] < levels[j] })
	return levels
}

// Placements lists every position of value in the tree, in tree order
func (t *Taxonomy) Placements(value string) []Placement {
	places := t.placements[normalizer.Normalize(value)]
	out := make([]Placement, len(places))
	copy(out, places)
	return out
}

// FindInRegion returns the nodes of the given level under region whose name
// matches value.
func (t *Taxonomy) FindInRegion(region, value string, level models.AdminLevel) []*Node {
	r := t.Region(region)
	if r == nil {
		return nil
	}
	key := normalizer.Normalize(value)
	var out []*Node
	switch level {
	case models.LevelDistrict:
		if d := r.index[key]; d != nil {
			out = append(out, d)
		}
	case models.LevelWard:
		for _, d := range r.children {
			if w := d.index[key]; w != nil {
				out = append(out, w)
			}
		}
	}
	return out
}

// Walk visits every node depth first in insertion order. It stops at the
// first error returned by fn.
func (t *Taxonomy) Walk(fn func(n *Node) error) error {
	var visit func(n *Node) error
	visit = func(n *Node) error {
		if err := fn(n); err != nil {
			return err
		}
		for _, c := range n.children {
			if err := visit(c); err != nil {
				return err
			}
		}
		return nil
	}
	for _, r := range t.regions {
		if err := visit(r); err != nil {
			return err
		}
	}
	return nil
}

// Source exports the tree back into its source shape
func (t *Taxonomy) Source() Source {
	src := Source{Regions: make([]SourceNode, 0, len(t.regions))}
	for _, r := range t.regions {
		rs := SourceNode{Name: r.Name, Code: r.Code}
		for _, d := range r.children {
			ds := SourceNode{Name: d.Name, Code: d.Code}
			for _, w := range d.children {
				ds.Wards = append(ds.Wards, SourceNode{Name: w.Name, Code: w.Code})
			}
			rs.Districts = append(rs.Districts, ds)
		}
		src.Regions = append(src.Regions, rs)
	}
	return src
}
