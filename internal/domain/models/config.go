package models

import (
	"fmt"
	"math"
)

// HouseSystem enumerates supported house systems.
type HouseSystem string

const (
	Placidus  HouseSystem = "placidus"
	Koch      HouseSystem = "koch"
	Porphyry  HouseSystem = "porphyry"
	Equal     HouseSystem = "equal"
	WholeSign HouseSystem = "whole_sign"
)

// HouseSystems lists every supported system.
var HouseSystems = []HouseSystem{Placidus, Koch, Porphyry, Equal, WholeSign}

// Quadrant reports whether the system divides quadrants by iteration
// rather than plain arithmetic. Quadrant systems degenerate near the
// polar circles.
func (h HouseSystem) Quadrant() bool {
	return h == Placidus || h == Koch
}

// Zodiac enumerates zodiac reference frames.
type Zodiac string

const (
	Tropical Zodiac = "tropical"
	Sidereal Zodiac = "sidereal"
)

// NodeKind enumerates lunar node conventions.
type NodeKind string

const (
	TrueNode NodeKind = "true"
	MeanNode NodeKind = "mean"
)

// FortuneFormula enumerates Part of Fortune variants.
type FortuneFormula string

const (
	// FortuneTraditional flips the formula for night births (Sun below
	// the horizon).
	FortuneTraditional FortuneFormula = "traditional"
	// FortuneModern always uses the day formula.
	FortuneModern FortuneFormula = "modern"
)

// AspectSpec defines one aspect: its exact angle and allowed orbs.
// NatalOrbs and TransitOrbs are indexed by OrbClass; a pair gets the
// tighter of its two bodies' values, and transit tables are tighter
// than natal ones. A spec without class tables falls back to the flat
// Orb, which is also what per-request orb overrides set.
type AspectSpec struct {
	Name        string     `json:"name"`
	Angle       float64    `json:"angle"`
	Orb         float64    `json:"orb"`
	NatalOrbs   [4]float64 `json:"natal_orbs"`
	TransitOrbs [4]float64 `json:"transit_orbs"`
	Major       bool       `json:"major"`
}

// OrbFor returns the allowed orb for one body pair.
func (a *AspectSpec) OrbFor(b1, b2 Body, transit bool) float64 {
	orbs := a.NatalOrbs
	if transit {
		orbs = a.TransitOrbs
	}
	if orbs == [4]float64{} {
		return a.Orb
	}
	return math.Min(orbs[OrbClass(b1)], orbs[OrbClass(b2)])
}

func (a AspectSpec) scaled(factor float64) AspectSpec {
	a.Orb *= factor
	for k := range a.NatalOrbs {
		a.NatalOrbs[k] *= factor
		a.TransitOrbs[k] *= factor
	}
	return a
}

// DefaultAspects returns the standard aspect table. Minor aspects are
// included but flagged so callers can filter on Major. Orb holds the
// widest (luminary) natal value as the nominal orb.
func DefaultAspects() []AspectSpec {
	return []AspectSpec{
		{Name: "conjunction", Angle: 0, Orb: 10, NatalOrbs: [4]float64{10, 8, 7, 6}, TransitOrbs: [4]float64{8, 6, 5, 4}, Major: true},
		{Name: "sextile", Angle: 60, Orb: 6, NatalOrbs: [4]float64{6, 5, 4, 3}, TransitOrbs: [4]float64{4, 3, 2, 2}, Major: true},
		{Name: "square", Angle: 90, Orb: 8, NatalOrbs: [4]float64{8, 7, 6, 5}, TransitOrbs: [4]float64{6, 5, 4, 3}, Major: true},
		{Name: "trine", Angle: 120, Orb: 8, NatalOrbs: [4]float64{8, 7, 6, 5}, TransitOrbs: [4]float64{6, 5, 4, 3}, Major: true},
		{Name: "opposition", Angle: 180, Orb: 10, NatalOrbs: [4]float64{10, 8, 7, 6}, TransitOrbs: [4]float64{8, 6, 5, 4}, Major: true},
		{Name: "semisextile", Angle: 30, Orb: 2, NatalOrbs: [4]float64{2, 2, 2, 1}, TransitOrbs: [4]float64{1, 1, 1, 1}, Major: false},
		{Name: "semisquare", Angle: 45, Orb: 2, NatalOrbs: [4]float64{2, 2, 2, 1}, TransitOrbs: [4]float64{1, 1, 1, 1}, Major: false},
		{Name: "sesquiquadrate", Angle: 135, Orb: 2, NatalOrbs: [4]float64{2, 2, 2, 1}, TransitOrbs: [4]float64{1, 1, 1, 1}, Major: false},
		{Name: "quincunx", Angle: 150, Orb: 3, NatalOrbs: [4]float64{3, 3, 2, 2}, TransitOrbs: [4]float64{2, 2, 1, 1}, Major: false},
	}
}

// polarLimit is the latitude beyond which Placidus and Koch cusps are
// numerically undefined.
const polarLimit = 66.0

// ChartConfig holds the resolved calculation options for one request.
// It is built once per request and never mutated afterwards.
type ChartConfig struct {
	HouseSystem HouseSystem    `json:"house_system"`
	Zodiac      Zodiac         `json:"zodiac"`
	Ayanamsa    float64        `json:"ayanamsa,omitempty"`
	Node        NodeKind       `json:"node"`
	Fortune     FortuneFormula `json:"fortune"`
	Aspects     []AspectSpec   `json:"aspects"`
	MajorOnly   bool           `json:"major_only"`
	OrbFactor   float64        `json:"orb_factor"`
}

// DefaultChartConfig returns the documented defaults.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		HouseSystem: Placidus,
		Zodiac:      Tropical,
		Node:        TrueNode,
		Fortune:     FortuneTraditional,
		Aspects:     DefaultAspects(),
		OrbFactor:   1,
	}
}

// Validate checks the option combination against the request latitude.
func (c *ChartConfig) Validate(latitude float64) error {
	if !validHouseSystem(c.HouseSystem) {
		return &InvalidConfigurationError{
			Field:  "house_system",
			Reason: fmt.Sprintf("unsupported house system %q", c.HouseSystem),
		}
	}
	if c.HouseSystem.Quadrant() && math.Abs(latitude) >= polarLimit {
		return &InvalidConfigurationError{
			Field:  "house_system",
			Reason: fmt.Sprintf("%s houses are undefined above %.0f degrees latitude", c.HouseSystem, polarLimit),
		}
	}
	if c.Zodiac != Tropical && c.Zodiac != Sidereal {
		return &InvalidConfigurationError{
			Field:  "zodiac",
			Reason: fmt.Sprintf("unsupported zodiac %q", c.Zodiac),
		}
	}
	if c.Zodiac == Sidereal && c.Ayanamsa == 0 {
		return &InvalidConfigurationError{
			Field:  "ayanamsa",
			Reason: "sidereal zodiac requires an ayanamsa value",
		}
	}
	if c.Node != TrueNode && c.Node != MeanNode {
		return &InvalidConfigurationError{
			Field:  "node",
			Reason: fmt.Sprintf("unsupported node convention %q", c.Node),
		}
	}
	if c.Fortune != FortuneTraditional && c.Fortune != FortuneModern {
		return &InvalidConfigurationError{
			Field:  "fortune",
			Reason: fmt.Sprintf("unsupported fortune formula %q", c.Fortune),
		}
	}
	if c.OrbFactor <= 0 {
		return &InvalidConfigurationError{
			Field:  "orb_factor",
			Reason: "orb factor must be positive",
		}
	}
	return nil
}

// EffectiveAspects returns the aspect table scaled by the orb factor,
// filtered to major aspects when MajorOnly is set.
func (c *ChartConfig) EffectiveAspects() []AspectSpec {
	out := make([]AspectSpec, 0, len(c.Aspects))
	for _, a := range c.Aspects {
		if c.MajorOnly && !a.Major {
			continue
		}
		out = append(out, a.scaled(c.OrbFactor))
	}
	return out
}

// AspectByName finds an aspect definition in the configured table.
func (c *ChartConfig) AspectByName(name string) (AspectSpec, bool) {
	for _, a := range c.Aspects {
		if a.Name == name {
			return a.scaled(c.OrbFactor), true
		}
	}
	return AspectSpec{}, false
}

func validHouseSystem(h HouseSystem) bool {
	for _, s := range HouseSystems {
		if s == h {
			return true
		}
	}
	return false
}
