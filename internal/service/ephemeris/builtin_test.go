package ephemeris

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AstroChart/internal/domain/models"
)

func TestSunAtEquinoxAndSolstice(t *testing.T) {
	p := NewBuiltin()
	ctx := context.Background()

	// 2000 March equinox, 07:35 UTC
	equinox := time.Date(2000, 3, 20, 7, 35, 0, 0, time.UTC)
	pos, err := p.Position(ctx, models.Sun, equinox)
	require.NoError(t, err)
	delta := models.Wrap180(pos.Longitude - 0)
	assert.InDelta(t, 0, delta, 1.0, "sun longitude at equinox")

	// 2000 June solstice, 01:48 UTC
	solstice := time.Date(2000, 6, 21, 1, 48, 0, 0, time.UTC)
	pos, err = p.Position(ctx, models.Sun, solstice)
	require.NoError(t, err)
	assert.InDelta(t, 90, pos.Longitude, 1.0, "sun longitude at solstice")
}

func TestSunSpeedIsAboutOneDegreePerDay(t *testing.T) {
	p := NewBuiltin()

	pos, err := p.Position(context.Background(), models.Sun, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Greater(t, pos.Speed, 0.9)
	assert.Less(t, pos.Speed, 1.1)
}

func TestMoonSpeedRange(t *testing.T) {
	p := NewBuiltin()

	pos, err := p.Position(context.Background(), models.Moon, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Greater(t, pos.Speed, 11.0)
	assert.Less(t, pos.Speed, 16.0)
}

func TestReferenceChartSunSign(t *testing.T) {
	p := NewBuiltin()

	// 1990-06-15 14:30 America/New_York is 18:30 UTC
	instant := time.Date(1990, 6, 15, 18, 30, 0, 0, time.UTC)

	pos, err := p.Position(context.Background(), models.Sun, instant)
	require.NoError(t, err)
	sign, _ := models.SignFor(pos.Longitude)
	assert.Equal(t, "Gemini", sign)

	pos, err = p.Position(context.Background(), models.Moon, instant)
	require.NoError(t, err)
	sign, _ = models.SignFor(pos.Longitude)
	assert.Equal(t, "Pisces", sign)
}

func TestNodesAreOpposite(t *testing.T) {
	p := NewBuiltin()
	ctx := context.Background()
	instant := time.Date(2020, 8, 1, 0, 0, 0, 0, time.UTC)

	north, err := p.Position(ctx, models.NorthNode, instant)
	require.NoError(t, err)
	south, err := p.Position(ctx, models.SouthNode, instant)
	require.NoError(t, err)

	diff := models.Normalize360(south.Longitude - north.Longitude)
	assert.InDelta(t, 180, diff, 1e-9)
}

func TestUnsupportedBody(t *testing.T) {
	p := NewBuiltin()

	_, err := p.Position(context.Background(), models.Body("chiron"), time.Now())
	assert.ErrorIs(t, err, ErrUnsupportedBody)
}

func TestPositionsAreDeterministic(t *testing.T) {
	p := NewBuiltin()
	ctx := context.Background()
	instant := time.Date(2015, 3, 14, 9, 26, 53, 0, time.UTC)

	for _, body := range models.DefaultBodies {
		a, err := p.Position(ctx, body, instant)
		require.NoError(t, err)
		b, err := p.Position(ctx, body, instant)
		require.NoError(t, err)
		assert.Equal(t, a, b, "body %s", body)
	}
}
