package taxonomy

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/listing-locator/app/models"
	"github.com/listing-locator/internal/normalizer"
)

//go:embed data/tanzania.yaml
var embeddedSource []byte

// EmbeddedSource returns the built-in Tanzania source tree
func EmbeddedSource() (Source, error) {
	return Parse(embeddedSource, FormatYAML)
}

// Embedded builds the built-in Tanzania taxonomy
func Embedded() (*Taxonomy, error) {
	src, err := EmbeddedSource()
	if err != nil {
		return nil, err
	}
	return Build(src)
}

// FormatFromPath picks the source format from a file extension
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// ReadSource reads and decodes a source file without building it
func ReadSource(path string) (Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Source{}, fmt.Errorf("taxonomy: read %s: %w", path, err)
	}
	return Parse(data, FormatFromPath(path))
}

// LoadFile reads a YAML or JSON source file and builds it
func LoadFile(path string) (*Taxonomy, error) {
	src, err := ReadSource(path)
	if err != nil {
		return nil, err
	}
	return Build(src)
}

// Units flattens the tree into storable units, parents before children
func (t *Taxonomy) Units(now time.Time) []models.AdminUnit {
	units := make([]models.AdminUnit, 0, t.stats.Regions+t.stats.Districts+t.stats.Wards)
	_ = t.Walk(func(n *Node) error {
		u := models.AdminUnit{
			AdminID:         n.ID(),
			Level:           n.Level,
			Name:            n.Name,
			Code:            n.Code,
			NormalizedName:  n.Key,
			ASCIIName:       normalizer.ASCIIKey(n.Name),
			Position:        n.Position,
			Path:            n.Path(),
			TaxonomyVersion: t.version,
			CreatedAt:       now,
		}
		if n.Parent != nil {
			u.ParentID = n.Parent.ID()
		}
		units = append(units, u)
		return nil
	})
	return units
}

// FromUnits rebuilds a taxonomy from stored units. Units are ordered by
// level and position before assembly, so storage order does not matter.
func FromUnits(units []models.AdminUnit) (*Taxonomy, error) {
	sorted := make([]models.AdminUnit, len(units))
	copy(sorted, units)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Level != sorted[j].Level {
			return sorted[i].Level < sorted[j].Level
		}
		return sorted[i].Position < sorted[j].Position
	})

	var src Source
	regions := make(map[string]int)
	districts := make(map[string][2]int)
	for _, u := range sorted {
		node := SourceNode{Name: u.Name, Code: u.Code}
		switch u.Level {
		case models.LevelRegion:
			regions[u.AdminID] = len(src.Regions)
			src.Regions = append(src.Regions, node)
		case models.LevelDistrict:
			ri, ok := regions[u.ParentID]
			if !ok {
				return nil, &BuildError{Name: u.Name, Reason: ReasonBadParent}
			}
			districts[u.AdminID] = [2]int{ri, len(src.Regions[ri].Districts)}
			src.Regions[ri].Districts = append(src.Regions[ri].Districts, node)
		case models.LevelWard:
			loc, ok := districts[u.ParentID]
			if !ok {
				return nil, &BuildError{Name: u.Name, Reason: ReasonBadParent}
			}
			d := &src.Regions[loc[0]].Districts[loc[1]]
			d.Wards = append(d.Wards, node)
		default:
			return nil, &BuildError{Name: u.Name, Reason: ReasonWrongLevel}
		}
	}
	return Build(src)
}
