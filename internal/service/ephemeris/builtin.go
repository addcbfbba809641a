package ephemeris

import (
	"context"
	"errors"
	"fmt"
	"time"

	"AstroChart/internal/domain/models"
)

// ErrUnsupportedBody is returned for bodies the provider cannot compute.
var ErrUnsupportedBody = errors.New("ephemeris: unsupported body")

// speedStep is the half-window, in days, of the central difference used
// for longitudinal speed.
const speedStep = 0.25

// Builtin computes positions from analytic series without external
// calls: JPL approximate Keplerian elements for the planets and a
// truncated lunar theory for the Moon. Lunar nodes use the mean node
// series under both node conventions; the true-node wobble of up to
// ~1.7 degrees is accepted as an approximation.
type Builtin struct{}

// NewBuiltin creates the builtin analytic provider.
func NewBuiltin() *Builtin {
	return &Builtin{}
}

func (b *Builtin) Name() string { return "builtin" }

// Position returns the geocentric ecliptic position of a body at a UTC
// instant. Speed is a central finite difference over half a day.
func (b *Builtin) Position(ctx context.Context, body models.Body, instant time.Time) (models.Position, error) {
	if err := ctx.Err(); err != nil {
		return models.Position{}, err
	}

	jd := JulianDay(instant)

	lon, lat, err := eclipticAt(body, jd)
	if err != nil {
		return models.Position{}, err
	}

	before, _, err := eclipticAt(body, jd-speedStep)
	if err != nil {
		return models.Position{}, err
	}
	after, _, err := eclipticAt(body, jd+speedStep)
	if err != nil {
		return models.Position{}, err
	}
	speed := models.Wrap180(after-before) / (2 * speedStep)

	return models.Position{
		Longitude: lon,
		Latitude:  lat,
		Speed:     speed,
	}, nil
}

func eclipticAt(body models.Body, jd float64) (lon, lat float64, err error) {
	switch body {
	case models.Moon:
		lon, lat = moonEcliptic(jd)
		return lon, lat, nil
	case models.NorthNode:
		return moonNodeLongitude(jd), 0, nil
	case models.SouthNode:
		return models.Normalize360(moonNodeLongitude(jd) + 180), 0, nil
	default:
		lon, lat, ok := planetEcliptic(body, jd)
		if !ok {
			return 0, 0, fmt.Errorf("%w: %s", ErrUnsupportedBody, body)
		}
		return lon, lat, nil
	}
}
