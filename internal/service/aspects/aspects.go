package aspects

import (
	"math"
	"sort"

	"AstroChart/internal/domain/models"
)

// Engine detects aspects between body lists. It is stateless; all
// methods are pure functions of their inputs.
type Engine struct{}

// NewEngine creates an aspect engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Separation returns the absolute angular separation of two longitudes,
// in [0, 180].
func Separation(lon1, lon2 float64) float64 {
	return math.Abs(models.Wrap180(lon2 - lon1))
}

// Natal finds all aspects among the unordered pairs of one body list,
// under the natal orb tables. Overlapping aspect definitions are all
// reported; results are sorted by absolute orb delta, tightest first.
func (e *Engine) Natal(bodies []models.CelestialBody, cfg *models.ChartConfig) []models.AspectResult {
	return e.pairs(bodies, cfg, false)
}

// Mutual finds aspects among the unordered pairs of a transiting body
// list. Same scan as Natal but under the tighter transit orbs.
func (e *Engine) Mutual(bodies []models.CelestialBody, cfg *models.ChartConfig) []models.AspectResult {
	return e.pairs(bodies, cfg, true)
}

func (e *Engine) pairs(bodies []models.CelestialBody, cfg *models.ChartConfig, transit bool) []models.AspectResult {
	table := cfg.EffectiveAspects()
	var out []models.AspectResult

	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			out = append(out, matchPair(&bodies[i], &bodies[j], table, transit)...)
		}
	}

	sortResults(out)
	return out
}

// Cross finds all aspects between every transiting body and every natal
// body, under the transit orb tables. Body1 is always the transiting
// body.
func (e *Engine) Cross(transiting, natal []models.CelestialBody, cfg *models.ChartConfig) []models.AspectResult {
	table := cfg.EffectiveAspects()
	var out []models.AspectResult

	for i := range transiting {
		for j := range natal {
			out = append(out, matchPair(&transiting[i], &natal[j], table, true)...)
		}
	}

	sortResults(out)
	return out
}

// matchPair emits one result per aspect definition within orb.
// Applying/separating: the separation d is shrinking toward the exact
// angle when the sign of its time derivative opposes the sign of
// (d - angle). The derivative of d follows from the body2 minus body1
// speed convention. Zero relative speed is reported separating; a
// stationary pair is physically indeterminate and the tie-break has to
// be fixed somewhere. The Part of Fortune carries no speed of its own,
// so its pairs always report separating.
func matchPair(b1, b2 *models.CelestialBody, table []models.AspectSpec, transit bool) []models.AspectResult {
	signed := models.Wrap180(b2.Longitude - b1.Longitude)
	d := math.Abs(signed)

	rate := (b2.Speed - b1.Speed)
	if signed < 0 {
		rate = -rate
	}
	if b1.Body == models.PartOfFortune || b2.Body == models.PartOfFortune {
		rate = 0
	}

	var out []models.AspectResult
	for _, spec := range table {
		delta := d - spec.Angle
		if math.Abs(delta) > spec.OrbFor(b1.Body, b2.Body, transit) {
			continue
		}

		applying := rate != 0 && delta*rate < 0

		out = append(out, models.AspectResult{
			Body1:      b1.Body,
			Body2:      b2.Body,
			Aspect:     spec.Name,
			Angle:      spec.Angle,
			Separation: d,
			OrbDelta:   delta,
			Applying:   applying,
		})
	}
	return out
}

func sortResults(results []models.AspectResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return math.Abs(results[i].OrbDelta) < math.Abs(results[j].OrbDelta)
	})
}
