// Package catalog loads tile catalogs from YAML and provides the built-in
// defender tower tile set.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/defendertower/internal/wfc"
)

var (
	ErrUnknownDirection = errors.New("catalog: unknown socket direction")
	ErrDuplicateTile    = errors.New("catalog: duplicate tile name")
	ErrUnnamedTile      = errors.New("catalog: tile has no name")
	ErrRepeatedSocket   = errors.New("catalog: socket direction given twice")
)

// TileYAML is one tile entry in a catalog file
type TileYAML struct {
	Name    string            `yaml:"name"`
	Roof    bool              `yaml:"roof"`
	Sockets map[string]string `yaml:"sockets,omitempty"`
}

// FileYAML is the top level of a catalog file
type FileYAML struct {
	Tiles []TileYAML `yaml:"tiles"`
}

// Load reads and parses a catalog file
func Load(path string) (*wfc.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse builds a catalog from YAML. Socket keys that are missing mean none,
// and a socket value of "none" is the same as leaving it out.
func Parse(data []byte) (*wfc.Catalog, error) {
	var file FileYAML
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}

	tiles := make([]wfc.TileDefinition, 0, len(file.Tiles))
	seen := make(map[string]bool, len(file.Tiles))

	for i, entry := range file.Tiles {
		def, err := entry.definition()
		if err != nil {
			return nil, fmt.Errorf("tile %d: %w", i, err)
		}
		if seen[def.Name] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTile, def.Name)
		}
		seen[def.Name] = true
		tiles = append(tiles, def)
	}

	return wfc.NewCatalog(tiles)
}

func (t TileYAML) definition() (wfc.TileDefinition, error) {
	def := wfc.TileDefinition{
		Name:       strings.TrimSpace(t.Name),
		IsRoofTile: t.Roof,
	}
	if def.Name == "" {
		return def, ErrUnnamedTile
	}

	var seen [6]bool
	for key, value := range t.Sockets {
		dir, ok := wfc.ParseDirection(strings.ToLower(key))
		if !ok {
			return def, fmt.Errorf("%w %q on %s", ErrUnknownDirection, key, def.Name)
		}
		if seen[dir] {
			return def, fmt.Errorf("%w: %s on %s", ErrRepeatedSocket, dir, def.Name)
		}
		seen[dir] = true
		def.Sockets[dir] = parseSocket(value)
	}

	return def, nil
}

func parseSocket(s string) wfc.SocketType {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "none") {
		return wfc.SocketNone
	}
	return wfc.SocketType(s)
}

// Save writes c to path in catalog file format. Sockets are written in
// direction order and none sockets are left out.
func Save(c *wfc.Catalog, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	fmt.Fprintf(f, "# Tile catalog - %d tiles\n", c.Len())
	fmt.Fprintf(f, "# Fingerprint: %s\n\n", Fingerprint(c))

	encoder := yaml.NewEncoder(f)
	encoder.SetIndent(2)
	if err := encoder.Encode(toNode(c)); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}

// toNode builds the catalog document by hand so socket keys keep
// direction order instead of map order
func toNode(c *wfc.Catalog) *yaml.Node {
	tiles := &yaml.Node{Kind: yaml.SequenceNode}
	for _, def := range c.Tiles() {
		sockets := &yaml.Node{Kind: yaml.MappingNode, Style: yaml.FlowStyle}
		for _, dir := range wfc.AllDirections() {
			if s := def.Socket(dir); !s.IsNone() {
				sockets.Content = append(sockets.Content, scalar(dir.String()), scalar(string(s)))
			}
		}

		entry := &yaml.Node{Kind: yaml.MappingNode}
		entry.Content = append(entry.Content,
			scalar("name"), scalar(def.Name),
			scalar("roof"), &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: fmt.Sprint(def.IsRoofTile)},
		)
		if len(sockets.Content) > 0 {
			entry.Content = append(entry.Content, scalar("sockets"), sockets)
		}
		tiles.Content = append(tiles.Content, entry)
	}

	root := &yaml.Node{Kind: yaml.MappingNode}
	root.Content = append(root.Content, scalar("tiles"), tiles)
	return root
}

func scalar(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}
