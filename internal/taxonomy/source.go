package taxonomy

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Source is the authoritative tree as written in a static file or admin payload
type Source struct {
	Regions []SourceNode `yaml:"regions" json:"regions"`
}

// SourceNode is one entry of the source tree. Regions carry Districts,
// districts carry Wards. A ward may be written as a bare string.
type SourceNode struct {
	Name      string       `yaml:"name" json:"name"`
	Code      string       `yaml:"code,omitempty" json:"code,omitempty"`
	Districts []SourceNode `yaml:"districts,omitempty" json:"districts,omitempty"`
	Wards     []SourceNode `yaml:"wards,omitempty" json:"wards,omitempty"`
}

// UnmarshalYAML accepts either a mapping or a plain scalar name
func (n *SourceNode) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		n.Name = value.Value
		return nil
	}
	type plain SourceNode
	return value.Decode((*plain)(n))
}

// UnmarshalJSON accepts either an object or a plain string name
func (n *SourceNode) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		n.Name = name
		return nil
	}
	type plain SourceNode
	return json.Unmarshal(data, (*plain)(n))
}

// Format is a source encoding
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Parse decodes a source tree
func Parse(data []byte, format Format) (Source, error) {
	var src Source
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &src)
	case FormatYAML:
		err = yaml.Unmarshal(data, &src)
	default:
		return src, fmt.Errorf("taxonomy: unsupported source format %q", format)
	}
	if err != nil {
		return src, fmt.Errorf("taxonomy: decode %s source: %w", format, err)
	}
	return src, nil
}

// Count returns the number of regions, districts and wards in the source
func (s Source) Count() (regions, districts, wards int) {
	regions = len(s.Regions)
	for _, r := range s.Regions {
		districts += len(r.Districts)
		for _, d := range r.Districts {
			wards += len(d.Wards)
		}
	}
	return regions, districts, wards
}
