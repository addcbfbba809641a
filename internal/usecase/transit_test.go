package usecase

import (
	"context"
	"testing"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AstroChart/internal/domain/models"
)

func TestTransitChart(t *testing.T) {
	charts := newTestCharts()
	u := newTestTransits(charts)

	resp, err := u.Calculate(context.Background(), &models.TransitChartRequest{
		Natal:       referenceRequest(),
		TransitDate: "2024-06-15T12:00:00",
		TransitTZ:   "UTC",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Transiting)
	assert.NotEmpty(t, resp.Natal)
	assert.Empty(t, resp.MutualAspects)

	transiting := make(map[models.Body]bool)
	for _, b := range resp.Transiting {
		transiting[b.Body] = true
		assert.GreaterOrEqual(t, b.House, 1, "body %s", b.Body)
		assert.LessOrEqual(t, b.House, 12, "body %s", b.Body)
	}

	// cross aspects always lead with the transiting body
	for _, a := range resp.Aspects {
		assert.True(t, transiting[a.Body1], "aspect %s %s-%s", a.Aspect, a.Body1, a.Body2)
	}
}

func TestTransitChartMutualAspects(t *testing.T) {
	charts := newTestCharts()
	u := newTestTransits(charts)

	resp, err := u.Calculate(context.Background(), &models.TransitChartRequest{
		Natal:         referenceRequest(),
		TransitDate:   "2024-06-15T12:00:00",
		TransitTZ:     "UTC",
		IncludeMutual: true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.MutualAspects)
}

func TestFindExactSolarReturn(t *testing.T) {
	charts := newTestCharts()
	u := newTestTransits(charts)

	resp, err := u.FindExact(context.Background(), &models.TransitSearchRequest{
		Natal:            referenceRequest(),
		RangeStart:       "2024-01-01T00:00:00",
		RangeEnd:         "2024-12-31T00:00:00",
		TransitingBodies: []string{"sun"},
		NatalBodies:      []string{"sun"},
		Aspects:          []string{"conjunction"},
		StepHours:        24,
	})
	require.NoError(t, err)
	assert.False(t, resp.Truncated)

	// the sun returns to its natal longitude once a year, near the
	// birthday
	require.Len(t, resp.Events, 1)
	e := resp.Events[0]
	assert.Equal(t, models.Sun, e.Transiting)
	assert.Equal(t, "conjunction", e.Aspect)
	assert.Equal(t, 6, int(e.Timestamp.Month()))
	assert.LessOrEqual(t, e.Residual, 0.0001)
}

func TestFindExactUnknownAspectRejected(t *testing.T) {
	charts := newTestCharts()
	u := newTestTransits(charts)

	_, err := u.FindExact(context.Background(), &models.TransitSearchRequest{
		Natal:      referenceRequest(),
		RangeStart: "2024-01-01T00:00:00",
		RangeEnd:   "2024-02-01T00:00:00",
		Aspects:    []string{"grand_cross"},
	})
	require.Error(t, err)

	var cfgErr *models.InvalidConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestFindExactAngleTarget(t *testing.T) {
	charts := newTestCharts()
	u := newTestTransits(charts)

	resp, err := u.FindExact(context.Background(), &models.TransitSearchRequest{
		Natal:            referenceRequest(),
		RangeStart:       "2024-01-01T00:00:00",
		RangeEnd:         "2024-12-31T00:00:00",
		TransitingBodies: []string{"sun"},
		NatalBodies:      []string{"ascendant"},
		Aspects:          []string{"conjunction"},
	})
	require.NoError(t, err)

	require.Len(t, resp.Events, 1)
	assert.Equal(t, models.Ascendant, resp.Events[0].Natal)
}
