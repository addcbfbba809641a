package transits

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AstroChart/internal/domain/models"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// linearProvider moves a body at a constant rate in degrees per day.
type linearProvider struct {
	rate float64
}

func (p *linearProvider) Name() string { return "linear" }

func (p *linearProvider) Position(_ context.Context, _ models.Body, t time.Time) (models.Position, error) {
	days := t.Sub(epoch).Hours() / 24
	return models.Position{
		Longitude: models.Normalize360(p.rate * days),
		Speed:     p.rate,
	}, nil
}

// retrogradeProvider oscillates around steady forward motion, producing
// one retrograde loop every 30 days: lon(t) = t + 15 sin(2 pi t / 30).
type retrogradeProvider struct{}

func (p *retrogradeProvider) Name() string { return "retrograde" }

func (p *retrogradeProvider) Position(_ context.Context, _ models.Body, t time.Time) (models.Position, error) {
	days := t.Sub(epoch).Hours() / 24
	lon := days + 15*math.Sin(2*math.Pi*days/30)
	speed := 1 + math.Pi*math.Cos(2*math.Pi*days/30)
	return models.Position{
		Longitude: models.Normalize360(lon),
		Speed:     speed,
	}, nil
}

type failingProvider struct{}

func (p *failingProvider) Name() string { return "failing" }

func (p *failingProvider) Position(context.Context, models.Body, time.Time) (models.Position, error) {
	return models.Position{}, fmt.Errorf("ephemeris offline")
}

func conjunctionParams(natalLon float64, days int) SearchParams {
	return SearchParams{
		Transiting:     models.Sun,
		Natal:          models.Moon,
		NatalLongitude: natalLon,
		Aspect:         "conjunction",
		Angle:          0,
		Start:          epoch,
		End:            epoch.Add(time.Duration(days) * 24 * time.Hour),
	}
}

func TestLinearConjunctionFoundExactly(t *testing.T) {
	s := NewSearcher(&linearProvider{rate: 1}, 4)

	res, err := s.Search(context.Background(), conjunctionParams(50, 100))
	require.NoError(t, err)
	assert.False(t, res.Truncated)
	assert.Zero(t, res.FailedBrackets)
	require.Len(t, res.Events, 1)

	e := res.Events[0]
	assert.Equal(t, models.Sun, e.Transiting)
	assert.Equal(t, "conjunction", e.Aspect)
	assert.LessOrEqual(t, e.Residual, DefaultTolerance)
	assert.WithinDuration(t, epoch.Add(50*24*time.Hour), e.Timestamp, time.Minute)
}

func TestLinearSquareFoundExactly(t *testing.T) {
	s := NewSearcher(&linearProvider{rate: 1}, 4)

	params := conjunctionParams(50, 200)
	params.Aspect = "square"
	params.Angle = 90

	res, err := s.Search(context.Background(), params)
	require.NoError(t, err)
	require.Len(t, res.Events, 1)

	// separation reaches 90 when the body stands at longitude 140
	assert.WithinDuration(t, epoch.Add(140*24*time.Hour), res.Events[0].Timestamp, time.Minute)
	assert.LessOrEqual(t, res.Events[0].Residual, DefaultTolerance)
}

func TestRetrogradeFindsAllThreeCrossings(t *testing.T) {
	s := NewSearcher(&retrogradeProvider{}, 4)

	res, err := s.Search(context.Background(), conjunctionParams(50, 100))
	require.NoError(t, err)
	require.Len(t, res.Events, 3, "direct, retrograde and direct crossings")

	for i, e := range res.Events {
		assert.LessOrEqual(t, e.Residual, DefaultTolerance, "event %d", i)
		if i > 0 {
			assert.True(t, res.Events[i-1].Timestamp.Before(e.Timestamp), "chronological order")
		}
	}

	// the three crossings straddle the retrograde loop
	days := func(e models.TransitEvent) float64 { return e.Timestamp.Sub(epoch).Hours() / 24 }
	assert.InDelta(t, 37.5, days(res.Events[0]), 2.5)
	assert.InDelta(t, 42.5, days(res.Events[1]), 2.5)
	assert.InDelta(t, 57.5, days(res.Events[2]), 2.5)
}

func TestCoarseStepMissesRetrogradePair(t *testing.T) {
	s := NewSearcher(&retrogradeProvider{}, 4)

	params := conjunctionParams(50, 100)
	params.Step = 15 * 24 * time.Hour

	res, err := s.Search(context.Background(), params)
	require.NoError(t, err)

	// a 15 day step samples right past the loop and sees one crossing
	assert.Len(t, res.Events, 1)
}

func TestConfiguredDefaultsFillUnsetParams(t *testing.T) {
	s := NewSearcher(&linearProvider{rate: 1}, 1, WithDefaults(Defaults{
		Step:          6 * time.Hour,
		Tolerance:     0.01,
		MaxIterations: 50,
		DedupWindow:   time.Hour,
	}))

	p := s.withDefaults(&SearchParams{})
	assert.Equal(t, 6*time.Hour, p.Step)
	assert.Equal(t, 0.01, p.Tolerance)
	assert.Equal(t, 50, p.MaxIterations)
	assert.Equal(t, time.Hour, p.DedupWindow)

	// request values win over configured defaults
	p = s.withDefaults(&SearchParams{Step: time.Hour, Tolerance: 1e-6})
	assert.Equal(t, time.Hour, p.Step)
	assert.Equal(t, 1e-6, p.Tolerance)

	// an unconfigured searcher falls back to the package defaults
	p = NewSearcher(&linearProvider{rate: 1}, 1).withDefaults(&SearchParams{})
	assert.Equal(t, DefaultStep, p.Step)
	assert.Equal(t, DefaultTolerance, p.Tolerance)
	assert.Equal(t, DefaultMaxIterations, p.MaxIterations)
	assert.Equal(t, DefaultDedupWindow, p.DedupWindow)
}

func TestConfiguredDefaultStepGovernsScan(t *testing.T) {
	// the 15 day server-side step samples right past the retrograde
	// loop, same as a per-request step would
	s := NewSearcher(&retrogradeProvider{}, 4, WithDefaults(Defaults{
		Step: 15 * 24 * time.Hour,
	}))

	res, err := s.Search(context.Background(), conjunctionParams(50, 100))
	require.NoError(t, err)
	assert.Len(t, res.Events, 1)
}

func TestProviderFailureAborts(t *testing.T) {
	s := NewSearcher(&failingProvider{}, 4)

	_, err := s.Search(context.Background(), conjunctionParams(50, 10))
	require.Error(t, err)

	var calcErr *models.ChartCalculationError
	assert.ErrorAs(t, err, &calcErr)
	assert.Equal(t, models.Sun, calcErr.Body)
}

func TestCancellationReturnsPartialTruncated(t *testing.T) {
	s := NewSearcher(&linearProvider{rate: 1}, 4)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := s.Search(ctx, conjunctionParams(50, 100))
	require.NoError(t, err)
	assert.True(t, res.Truncated)
	assert.Empty(t, res.Events)
}

func TestInvalidRangeRejected(t *testing.T) {
	s := NewSearcher(&linearProvider{rate: 1}, 4)

	params := conjunctionParams(50, 10)
	params.End = params.Start

	_, err := s.Search(context.Background(), params)
	require.Error(t, err)

	var cfgErr *models.InvalidConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestSearchAllMergesChronologically(t *testing.T) {
	s := NewSearcher(&linearProvider{rate: 1}, 4)

	square := conjunctionParams(50, 200)
	square.Aspect = "square"
	square.Angle = 90

	res, err := s.SearchAll(context.Background(), []SearchParams{square, conjunctionParams(50, 200)})
	require.NoError(t, err)
	require.Len(t, res.Events, 2)

	assert.Equal(t, "conjunction", res.Events[0].Aspect)
	assert.Equal(t, "square", res.Events[1].Aspect)
	assert.True(t, res.Events[0].Timestamp.Before(res.Events[1].Timestamp))
}

func TestDedupKeepsSmallestResidual(t *testing.T) {
	base := epoch.Add(40 * 24 * time.Hour)
	events := []models.TransitEvent{
		{Transiting: models.Sun, Natal: models.Moon, Aspect: "conjunction", Timestamp: base, Residual: 5e-5},
		{Transiting: models.Sun, Natal: models.Moon, Aspect: "conjunction", Timestamp: base.Add(3 * time.Minute), Residual: 1e-5},
		{Transiting: models.Sun, Natal: models.Moon, Aspect: "conjunction", Timestamp: base.Add(2 * time.Hour), Residual: 9e-5},
	}

	out := dedup(events, 10*time.Minute)
	require.Len(t, out, 2)
	assert.Equal(t, 1e-5, out[0].Residual)
	assert.Equal(t, 9e-5, out[1].Residual)
}

func TestDedupKeepsDistinctAspects(t *testing.T) {
	base := epoch
	events := []models.TransitEvent{
		{Transiting: models.Sun, Natal: models.Moon, Aspect: "conjunction", Timestamp: base, Residual: 1e-5},
		{Transiting: models.Sun, Natal: models.Moon, Aspect: "square", Timestamp: base.Add(time.Minute), Residual: 1e-5},
	}

	out := dedup(events, 10*time.Minute)
	assert.Len(t, out, 2)
}
