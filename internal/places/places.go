// Package places resolves named locations to coordinates and UTC offsets.
package places

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/zapponejosh/panchang-api/internal/panchang"
)

//go:embed places.toml
var builtin []byte

// ErrUnknownPlace is returned by Lookup for names not in the catalogue.
var ErrUnknownPlace = errors.New("unknown place")

// Place is one catalogue entry.
type Place struct {
	Slug      string  `toml:"-" json:"slug"`
	Name      string  `toml:"name" json:"name"`
	Latitude  float64 `toml:"latitude" json:"latitude"`
	Longitude float64 `toml:"longitude" json:"longitude"`
	Timezone  float64 `toml:"timezone" json:"timezone"`
}

// Location returns the coordinates of p.
func (p Place) Location() panchang.Location {
	return panchang.Location{Latitude: p.Latitude, Longitude: p.Longitude}
}

// Catalogue is a read-only set of places.
type Catalogue struct {
	bySlug map[string]Place
}

// Builtin returns the embedded catalogue.
func Builtin() *Catalogue {
	c, err := Parse(builtin)
	if err != nil {
		panic(fmt.Sprintf("places: embedded catalogue: %v", err))
	}
	return c
}

// Load reads a catalogue file. An empty path returns the built-in catalogue.
func Load(path string) (*Catalogue, error) {
	if path == "" {
		return Builtin(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read places file: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a TOML catalogue of [slug] tables and validates every entry.
func Parse(data []byte) (*Catalogue, error) {
	var raw map[string]Place
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse places: %w", err)
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var errs []error
	c := &Catalogue{bySlug: make(map[string]Place, len(raw))}
	seen := make(map[string]string, len(raw))
	for _, key := range keys {
		p := raw[key]
		p.Slug = normalize(key)
		if p.Name == "" {
			p.Name = key
		}
		if first, dup := seen[p.Slug]; dup {
			errs = append(errs, fmt.Errorf("place %s: keys %q and %q name the same place", p.Slug, first, key))
			continue
		}
		seen[p.Slug] = key
		if err := validate(p); err != nil {
			errs = append(errs, err)
			continue
		}
		c.bySlug[p.Slug] = p
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return c, nil
}

func validate(p Place) error {
	if p.Latitude < -90 || p.Latitude > 90 {
		return fmt.Errorf("place %s: latitude %v out of range", p.Slug, p.Latitude)
	}
	if p.Longitude < -180 || p.Longitude > 180 {
		return fmt.Errorf("place %s: longitude %v out of range", p.Slug, p.Longitude)
	}
	if p.Timezone < panchang.MinTimezone || p.Timezone > panchang.MaxTimezone {
		return fmt.Errorf("place %s: timezone %v out of range", p.Slug, p.Timezone)
	}
	return nil
}

// normalize maps "Kuala Lumpur" and "kuala_lumpur" to "kuala-lumpur".
func normalize(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer(" ", "-", "_", "-").Replace(s)
}

// Lookup finds a place by slug. Case and surrounding space are ignored, and
// spaces or underscores match hyphens.
func (c *Catalogue) Lookup(name string) (Place, error) {
	if p, ok := c.bySlug[normalize(name)]; ok {
		return p, nil
	}
	return Place{}, fmt.Errorf("%w: %q", ErrUnknownPlace, name)
}

// All returns every place sorted by slug.
func (c *Catalogue) All() []Place {
	list := make([]Place, 0, len(c.bySlug))
	for _, p := range c.bySlug {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Slug < list[j].Slug })
	return list
}

// Len returns the number of places.
func (c *Catalogue) Len() int { return len(c.bySlug) }
