// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

// Package catalog holds the static interest catalog: the label taxonomy,
// the track membership table and the personality coefficient table.
//
// The catalog is immutable after Load. It is read from YAML so that new
// labels, tracks or personality weightings never require a code change.
package catalog

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Trait names a personality dimension.
type Trait string

// Personality dimensions, each scored 1 to 5 with 3 as neutral.
const (
	TraitDetailOrientation  Trait = "detail_orientation"
	TraitAnalyticalThinking Trait = "analytical_thinking"
	TraitCreativity         Trait = "creativity"
	TraitTeamwork           Trait = "teamwork"
	TraitSelfMotivation     Trait = "self_motivation"
)

// Traits lists every known trait in canonical order.
var Traits = []Trait{
	TraitDetailOrientation,
	TraitAnalyticalThinking,
	TraitCreativity,
	TraitTeamwork,
	TraitSelfMotivation,
}

// Valid reports whether t is a known trait.
func (t Trait) Valid() bool {
	for _, known := range Traits {
		if t == known {
			return true
		}
	}
	return false
}

// Track is a named group of taxonomy labels.
type Track struct {
	Name   string   `koanf:"name" json:"name"`
	Labels []string `koanf:"labels" json:"labels"`
}

// PersonalityCoefficient is one (track, trait, coefficient) row of the
// personality adjustment table.
type PersonalityCoefficient struct {
	Track       string  `koanf:"track" json:"track"`
	Trait       Trait   `koanf:"trait" json:"trait"`
	Coefficient float64 `koanf:"coefficient" json:"coefficient"`
}

// Catalog is the loaded, validated interest catalog.
type Catalog struct {
	Taxonomy    []string                 `koanf:"taxonomy" json:"taxonomy"`
	Tracks      []Track                  `koanf:"tracks" json:"tracks"`
	Personality []PersonalityCoefficient `koanf:"personality" json:"personality"`

	labels map[string]struct{}
	order  map[string]int
}

// ErrInvalidCatalog wraps every validation failure.
var ErrInvalidCatalog = errors.New("invalid catalog")

// NormalizeLabel lowercases and trims a label.
func NormalizeLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// normalize lowercases labels in place and builds lookup indexes.
func (c *Catalog) normalize() {
	for i, l := range c.Taxonomy {
		c.Taxonomy[i] = NormalizeLabel(l)
	}
	for i := range c.Tracks {
		c.Tracks[i].Name = strings.TrimSpace(c.Tracks[i].Name)
		for j, l := range c.Tracks[i].Labels {
			c.Tracks[i].Labels[j] = NormalizeLabel(l)
		}
	}
	for i := range c.Personality {
		c.Personality[i].Track = strings.TrimSpace(c.Personality[i].Track)
		c.Personality[i].Trait = Trait(strings.ToLower(strings.TrimSpace(string(c.Personality[i].Trait))))
	}

	c.labels = make(map[string]struct{}, len(c.Taxonomy))
	for _, l := range c.Taxonomy {
		c.labels[l] = struct{}{}
	}
	c.order = make(map[string]int, len(c.Tracks))
	for i, t := range c.Tracks {
		if _, dup := c.order[t.Name]; !dup {
			c.order[t.Name] = i
		}
	}
}

// Validate enforces the catalog invariants: a non-empty deduplicated
// taxonomy, unique track names, every track label present in the taxonomy,
// and every personality row pointing at a known track and trait.
func (c *Catalog) Validate() error {
	var errs []error

	if len(c.Taxonomy) == 0 {
		errs = append(errs, errors.New("taxonomy is empty"))
	}
	seen := make(map[string]struct{}, len(c.Taxonomy))
	for _, l := range c.Taxonomy {
		if l == "" {
			errs = append(errs, errors.New("taxonomy contains an empty label"))
			continue
		}
		if _, dup := seen[l]; dup {
			errs = append(errs, fmt.Errorf("duplicate taxonomy label %q", l))
		}
		seen[l] = struct{}{}
	}

	if len(c.Tracks) == 0 {
		errs = append(errs, errors.New("no tracks defined"))
	}
	trackNames := make(map[string]struct{}, len(c.Tracks))
	for _, t := range c.Tracks {
		if t.Name == "" {
			errs = append(errs, errors.New("track with empty name"))
			continue
		}
		if _, dup := trackNames[t.Name]; dup {
			errs = append(errs, fmt.Errorf("duplicate track %q", t.Name))
		}
		trackNames[t.Name] = struct{}{}
		if len(t.Labels) == 0 {
			errs = append(errs, fmt.Errorf("track %q has no labels", t.Name))
		}
		for _, l := range t.Labels {
			if _, ok := seen[l]; !ok {
				errs = append(errs, fmt.Errorf("track %q references unknown label %q", t.Name, l))
			}
		}
	}

	for _, p := range c.Personality {
		if _, ok := trackNames[p.Track]; !ok {
			errs = append(errs, fmt.Errorf("personality coefficient references unknown track %q", p.Track))
		}
		if !p.Trait.Valid() {
			errs = append(errs, fmt.Errorf("personality coefficient for %q has unknown trait %q", p.Track, p.Trait))
		}
		if math.IsNaN(p.Coefficient) || math.IsInf(p.Coefficient, 0) {
			errs = append(errs, fmt.Errorf("personality coefficient for %q/%s is not finite", p.Track, p.Trait))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidCatalog, errors.Join(errs...))
	}
	return nil
}

// Labels returns a copy of the taxonomy in declared order.
func (c *Catalog) Labels() []string {
	out := make([]string, len(c.Taxonomy))
	copy(out, c.Taxonomy)
	return out
}

// HasLabel reports whether label (after normalization) is in the taxonomy.
func (c *Catalog) HasLabel(label string) bool {
	_, ok := c.labels[NormalizeLabel(label)]
	return ok
}

// TrackNames returns track names in declared order.
func (c *Catalog) TrackNames() []string {
	out := make([]string, len(c.Tracks))
	for i, t := range c.Tracks {
		out[i] = t.Name
	}
	return out
}

// TrackOrder returns the declared position of a track, or -1.
func (c *Catalog) TrackOrder(name string) int {
	if i, ok := c.order[name]; ok {
		return i
	}
	return -1
}

// New builds and validates a catalog from in-memory values.
func New(taxonomy []string, tracks []Track, personality []PersonalityCoefficient) (*Catalog, error) {
	c := &Catalog{
		Taxonomy:    append([]string(nil), taxonomy...),
		Tracks:      make([]Track, len(tracks)),
		Personality: append([]PersonalityCoefficient(nil), personality...),
	}
	for i, t := range tracks {
		c.Tracks[i] = Track{Name: t.Name, Labels: append([]string(nil), t.Labels...)}
	}
	c.normalize()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
