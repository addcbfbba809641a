package aspects

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AstroChart/internal/domain/models"
)

func body(id models.Body, lon, speed float64) models.CelestialBody {
	return models.NewCelestialBody(id, models.Position{Longitude: lon, Speed: speed})
}

func defaultConfig() models.ChartConfig {
	return models.DefaultChartConfig()
}

func TestSeparation(t *testing.T) {
	assert.InDelta(t, 90, Separation(10, 100), 1e-9)
	assert.InDelta(t, 90, Separation(100, 10), 1e-9)
	assert.InDelta(t, 20, Separation(350, 10), 1e-9)
	assert.InDelta(t, 180, Separation(0, 180), 1e-9)
	assert.InDelta(t, 0, Separation(42, 42), 1e-9)
}

func TestNatalFindsExactSquare(t *testing.T) {
	e := NewEngine()
	cfg := defaultConfig()

	bodies := []models.CelestialBody{
		body(models.Sun, 10, 1),
		body(models.Saturn, 100, 0.05),
	}

	results := e.Natal(bodies, &cfg)
	require.Len(t, results, 1)
	assert.Equal(t, "square", results[0].Aspect)
	assert.InDelta(t, 0, results[0].OrbDelta, 1e-9)
	assert.InDelta(t, 90, results[0].Separation, 1e-9)
}

func TestOrbDeltaWithinConfiguredOrb(t *testing.T) {
	e := NewEngine()
	cfg := defaultConfig()

	bodies := []models.CelestialBody{
		body(models.Sun, 0, 1),
		body(models.Moon, 63, 13),
		body(models.Mars, 117, 0.5),
		body(models.Venus, 184, 1.2),
	}

	results := e.Natal(bodies, &cfg)
	require.NotEmpty(t, results)

	for _, r := range results {
		spec, ok := cfg.AspectByName(r.Aspect)
		require.True(t, ok)
		assert.LessOrEqual(t, math.Abs(r.OrbDelta), spec.OrbFor(r.Body1, r.Body2, false),
			"%s %s-%s", r.Aspect, r.Body1, r.Body2)
		assert.Equal(t, spec.Angle, r.Angle)
	}
}

func TestOrbTightensByBodyClass(t *testing.T) {
	e := NewEngine()
	cfg := defaultConfig()

	// seven degrees from exact: within the luminary conjunction orb
	// of 10 but past the outer-planet orb of 6
	luminaries := e.Natal([]models.CelestialBody{
		body(models.Sun, 0, 1),
		body(models.Moon, 7, 13),
	}, &cfg)
	require.Len(t, luminaries, 1)
	assert.Equal(t, "conjunction", luminaries[0].Aspect)

	outers := e.Natal([]models.CelestialBody{
		body(models.Neptune, 0, 0.01),
		body(models.Pluto, 7, 0.01),
	}, &cfg)
	assert.Empty(t, outers)
}

func TestTransitOrbsTighterThanNatal(t *testing.T) {
	e := NewEngine()
	cfg := defaultConfig()

	// nine degrees from exact: a Sun-Moon conjunction holds natally
	// (orb 10) but not under the transit table (orb 8)
	sun := body(models.Sun, 0, 1)
	moon := body(models.Moon, 9, 13)

	natal := e.Natal([]models.CelestialBody{sun, moon}, &cfg)
	require.Len(t, natal, 1)
	assert.Equal(t, "conjunction", natal[0].Aspect)

	assert.Empty(t, e.Cross(
		[]models.CelestialBody{sun},
		[]models.CelestialBody{moon},
		&cfg,
	))
	assert.Empty(t, e.Mutual([]models.CelestialBody{sun, moon}, &cfg))
}

func TestFlatOrbOverrideReplacesClassTables(t *testing.T) {
	e := NewEngine()

	overrides := models.ConfigOverrides{Orbs: map[string]float64{"conjunction": 3}}
	cfg := overrides.Resolve()

	// five degrees: inside every class orb of the default table, but
	// past the flat override
	results := e.Natal([]models.CelestialBody{
		body(models.Sun, 0, 1),
		body(models.Moon, 5, 13),
	}, &cfg)
	assert.Empty(t, results)
}

func TestApplyingWhenSeparationShrinksTowardExact(t *testing.T) {
	e := NewEngine()
	cfg := defaultConfig()

	// transiting sun at 85 closing in on a square to a fixed natal point
	applying := e.Cross(
		[]models.CelestialBody{body(models.Sun, 85, 1)},
		[]models.CelestialBody{body(models.Moon, 0, 0)},
		&cfg,
	)
	require.Len(t, applying, 1)
	assert.Equal(t, "square", applying[0].Aspect)
	assert.True(t, applying[0].Applying)

	// past exact, the same motion separates
	separating := e.Cross(
		[]models.CelestialBody{body(models.Sun, 95, 1)},
		[]models.CelestialBody{body(models.Moon, 0, 0)},
		&cfg,
	)
	require.Len(t, separating, 1)
	assert.False(t, separating[0].Applying)
}

func TestZeroRelativeSpeedReportsSeparating(t *testing.T) {
	e := NewEngine()
	cfg := defaultConfig()

	results := e.Natal([]models.CelestialBody{
		body(models.Sun, 10, 1),
		body(models.Venus, 96, 1),
	}, &cfg)

	require.Len(t, results, 1)
	assert.Equal(t, "square", results[0].Aspect)
	assert.False(t, results[0].Applying)
}

func TestSwapSymmetry(t *testing.T) {
	e := NewEngine()
	cfg := defaultConfig()

	a := body(models.Mars, 33, 0.6)
	b := body(models.Jupiter, 211, -0.1)

	fwd := e.Natal([]models.CelestialBody{a, b}, &cfg)
	rev := e.Natal([]models.CelestialBody{b, a}, &cfg)

	require.Equal(t, len(fwd), len(rev))
	for i := range fwd {
		assert.Equal(t, fwd[i].Aspect, rev[i].Aspect)
		assert.InDelta(t, fwd[i].Separation, rev[i].Separation, 1e-9)
		assert.InDelta(t, fwd[i].OrbDelta, rev[i].OrbDelta, 1e-9)
		assert.Equal(t, fwd[i].Applying, rev[i].Applying)
	}
}

func TestOverlappingAspectsAllReported(t *testing.T) {
	e := NewEngine()
	cfg := defaultConfig()
	cfg.Aspects = []models.AspectSpec{
		{Name: "wide_square", Angle: 90, Orb: 15, Major: true},
		{Name: "wide_trine", Angle: 120, Orb: 15, Major: true},
	}

	results := e.Natal([]models.CelestialBody{
		body(models.Sun, 0, 1),
		body(models.Moon, 105, 13),
	}, &cfg)

	require.Len(t, results, 2)
	names := []string{results[0].Aspect, results[1].Aspect}
	assert.Contains(t, names, "wide_square")
	assert.Contains(t, names, "wide_trine")
}

func TestResultsSortedByTightness(t *testing.T) {
	e := NewEngine()
	cfg := defaultConfig()

	results := e.Natal([]models.CelestialBody{
		body(models.Sun, 0, 1),
		body(models.Moon, 64, 13),
		body(models.Mars, 90.5, 0.5),
	}, &cfg)

	require.NotEmpty(t, results)
	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t,
			math.Abs(results[i-1].OrbDelta),
			math.Abs(results[i].OrbDelta),
		)
	}
}

func TestMajorOnlyFiltersMinorAspects(t *testing.T) {
	e := NewEngine()
	cfg := defaultConfig()
	cfg.MajorOnly = true

	// 45 degrees is a semisquare, which is minor
	results := e.Natal([]models.CelestialBody{
		body(models.Sun, 0, 1),
		body(models.Moon, 45, 13),
	}, &cfg)

	assert.Empty(t, results)
}
