// Package presets loads named geotag locations from a YAML file.
package presets

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"famedia/internal/metadata"
)

var ErrNotFound = errors.New("preset not found")

// Preset is a saved geotag form. Its fields are the same strings a user would
// type into the form.
type Preset struct {
	Name                 string `json:"name" yaml:"name"`
	metadata.GeotagInput `yaml:",inline"`
}

type Catalog struct {
	Presets []Preset `json:"presets" yaml:"presets"`
}

func Load(path string) (Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return Catalog{}, err
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads and validates a catalog. Every preset needs a unique name and
// must convert into a geotag request.
func Decode(r io.Reader) (Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return Catalog{}, nil
		}
		return Catalog{}, fmt.Errorf("decode presets: %w", err)
	}

	seen := make(map[string]struct{}, len(c.Presets))
	for i, p := range c.Presets {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return Catalog{}, fmt.Errorf("preset %d has no name", i+1)
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			return Catalog{}, fmt.Errorf("preset %q is defined twice", name)
		}
		seen[key] = struct{}{}
		if _, err := metadata.ParseGeotagInput(p.GeotagInput, false); err != nil {
			return Catalog{}, fmt.Errorf("preset %q: %w", name, err)
		}
		c.Presets[i].Name = name
	}
	return c, nil
}

// Find looks a preset up by name, ignoring case.
func (c Catalog) Find(name string) (Preset, error) {
	for _, p := range c.Presets {
		if strings.EqualFold(p.Name, strings.TrimSpace(name)) {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("%w: %s (known: %s)", ErrNotFound, name, strings.Join(c.Names(), ", "))
}

func (c Catalog) Names() []string {
	names := make([]string, 0, len(c.Presets))
	for _, p := range c.Presets {
		names = append(names, p.Name)
	}
	return names
}
