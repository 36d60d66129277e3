package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"

	"maturity.app/assessor/internal/model"
)

//go:embed default_catalog.json
var defaultCatalog []byte

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Load reads and validates a catalog file. An empty path loads the embedded
// default catalog. The format follows the file extension (.yaml/.yml, .toml,
// anything else is JSON).
func Load(path string) (*model.Catalog, error) {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}

	format := FormatJSON
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = FormatYAML
	case ".toml":
		format = FormatTOML
	}

	cat, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return cat, nil
}

// Default returns the embedded DevOps maturity catalog.
func Default() (*model.Catalog, error) {
	return Parse(defaultCatalog, FormatJSON)
}

// Parse decodes and validates a catalog document. Besides the object form
// ({"stages": [...], "dimensions": [...]}) a bare top-level list of
// dimensions is accepted in JSON and YAML. TOML has no top-level arrays.
func Parse(data []byte, format Format) (*model.Catalog, error) {
	var cat model.Catalog

	switch format {
	case FormatYAML:
		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrInvalidCatalog, err)
		}
		root := &node
		if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
			root = root.Content[0]
		}
		if root.Kind == yaml.SequenceNode {
			if err := root.Decode(&cat.Dimensions); err != nil {
				return nil, fmt.Errorf("%w: %v", model.ErrInvalidCatalog, err)
			}
		} else if err := root.Decode(&cat); err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrInvalidCatalog, err)
		}
	case FormatTOML:
		if _, err := toml.Decode(string(data), &cat); err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrInvalidCatalog, err)
		}
	default:
		trimmed := bytes.TrimSpace(data)
		if len(trimmed) > 0 && trimmed[0] == '[' {
			if err := json.Unmarshal(trimmed, &cat.Dimensions); err != nil {
				return nil, fmt.Errorf("%w: %v", model.ErrInvalidCatalog, err)
			}
		} else if err := json.Unmarshal(trimmed, &cat); err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrInvalidCatalog, err)
		}
	}

	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return &cat, nil
}

// Schema returns the JSON Schema of the catalog document.
func Schema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	schema := reflector.Reflect(&model.Catalog{})
	schema.Title = "Maturity catalog"
	schema.Description = "Dimensions, sub-dimensions and ordered maturity levels scored by the assessor."
	return schema
}
