package model

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"
)

// Catalog is the static definition of dimensions, their sub-dimensions and the
// ordered maturity levels of each sub-dimension. It is loaded once at startup
// and treated as immutable.
type Catalog struct {
	Stages     []Stage     `json:"stages,omitempty" yaml:"stages,omitempty" toml:"stages,omitempty" jsonschema:"description=Names for the rounded overall level"`
	Dimensions []Dimension `json:"dimensions" yaml:"dimensions" toml:"dimensions" jsonschema:"minItems=1"`
}

// Stage names an overall maturity level (e.g. 1 = Foundational).
type Stage struct {
	Level       int    `json:"level" yaml:"level" toml:"level" jsonschema:"minimum=1"`
	Name        string `json:"name" yaml:"name" toml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
}

type Dimension struct {
	Name          string         `json:"name" yaml:"name" toml:"name" jsonschema:"minLength=1"`
	SubDimensions []SubDimension `json:"subDimensions" yaml:"subDimensions" toml:"subDimensions" jsonschema:"minItems=1"`
}

type SubDimension struct {
	Name string `json:"name" yaml:"name" toml:"name" jsonschema:"minLength=1"`
	// Levels are ordered low to high maturity; index 0 is level 1.
	Levels []LevelDescription `json:"levels" yaml:"levels" toml:"levels" jsonschema:"minItems=1"`
}

// LevelDescription is the text shown for one level of a sub-dimension.
// In catalog files a level may be a bare string or an object with
// summary/detail (older files use text/details).
type LevelDescription struct {
	Summary string `json:"summary" yaml:"summary" toml:"summary"`
	Detail  string `json:"detail,omitempty" yaml:"detail,omitempty" toml:"detail,omitempty"`
}

type levelObject struct {
	Summary string `json:"summary" yaml:"summary"`
	Text    string `json:"text" yaml:"text"`
	Detail  string `json:"detail" yaml:"detail"`
	Details string `json:"details" yaml:"details"`
}

func (l levelObject) toLevel() LevelDescription {
	out := LevelDescription{Summary: l.Summary, Detail: l.Detail}
	if out.Summary == "" {
		out.Summary = l.Text
	}
	if out.Detail == "" {
		out.Detail = l.Details
	}
	return out
}

func (l *LevelDescription) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*l = LevelDescription{Summary: text}
		return nil
	}
	var obj levelObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("level must be a string or an object: %w", err)
	}
	*l = obj.toLevel()
	return nil
}

func (l *LevelDescription) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*l = LevelDescription{Summary: node.Value}
		return nil
	}
	var obj levelObject
	if err := node.Decode(&obj); err != nil {
		return fmt.Errorf("level must be a string or a mapping: %w", err)
	}
	*l = obj.toLevel()
	return nil
}

// UnmarshalTOML accepts a string or an inline table, like the JSON and YAML
// decoders.
func (l *LevelDescription) UnmarshalTOML(v any) error {
	switch val := v.(type) {
	case string:
		*l = LevelDescription{Summary: val}
		return nil
	case map[string]any:
		var obj levelObject
		for key, dst := range map[string]*string{
			"summary": &obj.Summary, "text": &obj.Text,
			"detail": &obj.Detail, "details": &obj.Details,
		} {
			raw, ok := val[key]
			if !ok {
				continue
			}
			text, ok := raw.(string)
			if !ok {
				return fmt.Errorf("level %s must be a string", key)
			}
			*dst = text
		}
		*l = obj.toLevel()
		return nil
	default:
		return fmt.Errorf("level must be a string or a table, got %T", v)
	}
}

// JSONSchema describes both accepted level shapes.
func (LevelDescription) JSONSchema() *jsonschema.Schema {
	obj := &jsonschema.Schema{
		Type:       "object",
		Properties: jsonschema.NewProperties(),
		Required:   []string{"summary"},
	}
	obj.Properties.Set("summary", &jsonschema.Schema{Type: "string", MinLength: ptrUint64(1)})
	obj.Properties.Set("detail", &jsonschema.Schema{Type: "string"})
	return &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{{Type: "string", MinLength: ptrUint64(1)}, obj},
	}
}

func ptrUint64(v uint64) *uint64 { return &v }

// Validate reports structural defects as ErrInvalidCatalog.
func (c *Catalog) Validate() error {
	if c == nil || len(c.Dimensions) == 0 {
		return fmt.Errorf("%w: catalog has no dimensions", ErrInvalidCatalog)
	}
	for d, dim := range c.Dimensions {
		if strings.TrimSpace(dim.Name) == "" {
			return fmt.Errorf("%w: dimensions[%d] has no name", ErrInvalidCatalog, d)
		}
		if len(dim.SubDimensions) == 0 {
			return fmt.Errorf("%w: dimensions[%d] (%s) has no sub-dimensions", ErrInvalidCatalog, d, dim.Name)
		}
		for s, sub := range dim.SubDimensions {
			if strings.TrimSpace(sub.Name) == "" {
				return fmt.Errorf("%w: dimensions[%d].subDimensions[%d] has no name", ErrInvalidCatalog, d, s)
			}
			if len(sub.Levels) == 0 {
				return fmt.Errorf("%w: dimensions[%d].subDimensions[%d] (%s) has no levels", ErrInvalidCatalog, d, s, sub.Name)
			}
		}
	}
	seen := make(map[int]bool, len(c.Stages))
	for i, st := range c.Stages {
		if st.Level < 1 {
			return fmt.Errorf("%w: stages[%d] level must be >= 1", ErrInvalidCatalog, i)
		}
		if seen[st.Level] {
			return fmt.Errorf("%w: stages[%d] duplicates level %d", ErrInvalidCatalog, i, st.Level)
		}
		seen[st.Level] = true
	}
	return nil
}

// SubDimension returns the sub-dimension at the given indices.
func (c *Catalog) SubDimension(dim, sub int) (*SubDimension, bool) {
	if dim < 0 || dim >= len(c.Dimensions) {
		return nil, false
	}
	subs := c.Dimensions[dim].SubDimensions
	if sub < 0 || sub >= len(subs) {
		return nil, false
	}
	return &subs[sub], true
}

// MaxLevel is L for the sub-dimension, or 0 when the indices are unknown.
func (c *Catalog) MaxLevel(dim, sub int) int {
	sd, ok := c.SubDimension(dim, sub)
	if !ok {
		return 0
	}
	return len(sd.Levels)
}

// SubDimensionCount is the total number of sub-dimensions across all dimensions.
func (c *Catalog) SubDimensionCount() int {
	n := 0
	for _, d := range c.Dimensions {
		n += len(d.SubDimensions)
	}
	return n
}

// UniformMaxLevel returns L when every sub-dimension has the same number of
// levels, and false otherwise.
func (c *Catalog) UniformMaxLevel() (int, bool) {
	l := -1
	for _, d := range c.Dimensions {
		for _, s := range d.SubDimensions {
			if l == -1 {
				l = len(s.Levels)
			} else if l != len(s.Levels) {
				return 0, false
			}
		}
	}
	return l, l > 0
}

// Stage returns the stage configured for a rounded overall level.
func (c *Catalog) Stage(level int) (Stage, bool) {
	for _, st := range c.Stages {
		if st.Level == level {
			return st, true
		}
	}
	return Stage{}, false
}
