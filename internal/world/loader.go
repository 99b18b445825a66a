package world

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/banshee-data/stripcam/internal/fsutil"
	"github.com/banshee-data/stripcam/internal/geometry"
)

// maxMapFileSize caps map documents at 1MB.
const maxMapFileSize = 1 * 1024 * 1024

// Document is the on-disk map description.
//
//	{"map": {"vertices": [[x, y], ...], "closed": false}}
//
// Walls, when present, lists independent walls as [x1, y1, x2, y2] and
// takes precedence over Vertices.
type Document struct {
	Map struct {
		Vertices [][]float64 `json:"vertices" yaml:"vertices"`
		Closed   bool        `json:"closed,omitempty" yaml:"closed,omitempty"`
		Walls    [][]float64 `json:"walls,omitempty" yaml:"walls,omitempty"`
	} `json:"map" yaml:"map"`
}

// Format selects the document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForPath picks a Format from the file extension.
func FormatForPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("map file must be .json, .yaml or .yml, got %q", ext)
	}
}

// LoadMap reads and builds the map at path.
func LoadMap(fsys fsutil.FileSystem, path string, opts BuildOptions) (*Map, error) {
	cleanPath := filepath.Clean(path)
	format, err := FormatForPath(cleanPath)
	if err != nil {
		return nil, err
	}

	info, err := fsys.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat map file: %w", err)
	}
	if info.Size() > maxMapFileSize {
		return nil, fmt.Errorf("map file too large: %d bytes (max %d)", info.Size(), maxMapFileSize)
	}

	data, err := fsys.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read map file: %w", err)
	}

	m, err := ParseMap(data, format, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cleanPath, err)
	}
	diagf("loaded map %s", cleanPath)
	return m, nil
}

// ParseMap decodes a map document and builds it. Document.Map.Closed is
// OR-ed into opts.Closed.
func ParseMap(data []byte, format Format, opts BuildOptions) (*Map, error) {
	var doc Document
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse map JSON: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse map YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown map format %q", format)
	}
	return doc.Build(opts)
}

// Build turns the document into a Map.
func (d *Document) Build(opts BuildOptions) (*Map, error) {
	if len(d.Map.Walls) > 0 {
		edges := make([]Edge, 0, len(d.Map.Walls))
		for i, w := range d.Map.Walls {
			if len(w) != 4 {
				return nil, fmt.Errorf("map.walls[%d]: want 4 coordinates, got %d", i, len(w))
			}
			edges = append(edges, Edge{geometry.V(w[0], w[1]), geometry.V(w[2], w[3])})
		}
		return NewMapFromEdges(edges, opts)
	}

	vertices := make([]geometry.Vec2, 0, len(d.Map.Vertices))
	for i, v := range d.Map.Vertices {
		if len(v) != 2 {
			return nil, fmt.Errorf("map.vertices[%d]: want 2 coordinates, got %d", i, len(v))
		}
		vertices = append(vertices, geometry.V(v[0], v[1]))
	}
	opts.Closed = opts.Closed || d.Map.Closed
	return NewMap(vertices, opts)
}
