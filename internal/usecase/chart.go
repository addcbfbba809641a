package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"AstroChart/internal/domain/models"
	"AstroChart/internal/domain/repository"
	"AstroChart/internal/service/aspects"
	"AstroChart/internal/service/ephemeris"
	"AstroChart/internal/service/houses"
	"AstroChart/pkg/logger"
)

// ChartUsecase computes natal charts: positions, houses, calculated
// points and aspects.
type ChartUsecase struct {
	provider repository.PositionProvider
	houses   *houses.Calculator
	aspects  *aspects.Engine
	metrics  repository.Metrics
	log      *logger.Logger
}

// NewChartUsecase creates a chart usecase.
func NewChartUsecase(
	provider repository.PositionProvider,
	housesCalc *houses.Calculator,
	aspectEngine *aspects.Engine,
	metrics repository.Metrics,
	log *logger.Logger,
) *ChartUsecase {
	return &ChartUsecase{
		provider: provider,
		houses:   housesCalc,
		aspects:  aspectEngine,
		metrics:  metrics,
		log:      log,
	}
}

// Calculate derives a full natal chart for one request.
func (u *ChartUsecase) Calculate(ctx context.Context, req *models.NatalChartRequest) (*models.ChartResponse, error) {
	started := time.Now()

	resp, err := u.calculate(ctx, req)
	if err != nil {
		u.metrics.IncCalculationError(models.ErrorKind(err))
		return nil, err
	}

	u.metrics.ObserveChartCalculation(string(resp.Config.HouseSystem), time.Since(started))
	return resp, nil
}

func (u *ChartUsecase) calculate(ctx context.Context, req *models.NatalChartRequest) (*models.ChartResponse, error) {
	cfg := req.Config.Resolve()

	if err := validateCoordinates(req.Latitude, req.Longitude); err != nil {
		return nil, err
	}
	if err := cfg.Validate(req.Latitude); err != nil {
		return nil, err
	}

	instant, err := resolveInstant(req.BirthDate, req.Timezone)
	if err != nil {
		return nil, err
	}

	bodies, err := u.positions(ctx, parseBodies(req.Bodies), instant)
	if err != nil {
		return nil, err
	}

	cusps, err := u.houses.Cusps(instant, req.Latitude, req.Longitude, cfg.HouseSystem)
	if err != nil {
		return nil, err
	}

	if cfg.Zodiac == models.Sidereal {
		applyAyanamsa(cfg.Ayanamsa, bodies, &cusps)
	}

	u.houses.AssignHouses(bodies, &cusps)

	if fortune, ok := partOfFortune(&cfg, bodies, &cusps); ok {
		bodies = append(bodies, fortune)
	}

	points := make([]models.CelestialBody, 0, len(bodies)+2)
	points = append(points, bodies...)
	points = append(points, anglePoints(&cusps)...)

	return &models.ChartResponse{
		Bodies:  bodies,
		Houses:  cusps,
		Aspects: u.aspects.Natal(points, &cfg),
		Config:  cfg,
	}, nil
}

// anglePoints exposes the chart angles to the aspect scan as zero-speed
// points. They live in the house structure, not the body list.
func anglePoints(cusps *models.HouseCusps) []models.CelestialBody {
	return []models.CelestialBody{
		models.NewCelestialBody(models.Ascendant, models.Position{Longitude: cusps.Ascendant}),
		models.NewCelestialBody(models.Midheaven, models.Position{Longitude: cusps.MC}),
	}
}

// positions looks up every requested body. Bodies the provider cannot
// compute are skipped rather than failing the chart; any other provider
// error is fatal.
func (u *ChartUsecase) positions(ctx context.Context, ids []models.Body, instant time.Time) ([]models.CelestialBody, error) {
	out := make([]models.CelestialBody, 0, len(ids))

	for _, id := range ids {
		started := time.Now()
		pos, err := u.provider.Position(ctx, id, instant)
		u.metrics.ObserveProviderCall(u.provider.Name(), err == nil, time.Since(started))

		if err != nil {
			if errors.Is(err, ephemeris.ErrUnsupportedBody) {
				u.log.Warn("skipping unsupported body",
					logger.String("body", string(id)),
					logger.String("provider", u.provider.Name()),
				)
				continue
			}
			return nil, &models.ChartCalculationError{
				Op:      "position lookup",
				Body:    id,
				Instant: instant,
				Err:     err,
			}
		}

		out = append(out, models.NewCelestialBody(id, pos))
	}

	return out, nil
}

// partOfFortune derives the lot from the ascendant, Sun and Moon. The
// traditional formula flips for night births, where the Sun stands
// below the horizon in houses 1 through 6. The point carries no speed
// of its own and always classifies as separating in aspect results.
func partOfFortune(cfg *models.ChartConfig, bodies []models.CelestialBody, cusps *models.HouseCusps) (models.CelestialBody, bool) {
	var sun, moon *models.CelestialBody
	for i := range bodies {
		switch bodies[i].Body {
		case models.Sun:
			sun = &bodies[i]
		case models.Moon:
			moon = &bodies[i]
		}
	}
	if sun == nil || moon == nil {
		return models.CelestialBody{}, false
	}

	day := true
	if cfg.Fortune == models.FortuneTraditional {
		day = sun.House >= 7 && sun.House <= 12
	}

	var lon float64
	if day {
		lon = cusps.Ascendant + moon.Longitude - sun.Longitude
	} else {
		lon = cusps.Ascendant + sun.Longitude - moon.Longitude
	}

	fortune := models.NewCelestialBody(models.PartOfFortune, models.Position{Longitude: lon})
	fortune.House = cusps.HouseOf(fortune.Longitude)
	return fortune, true
}

// applyAyanamsa shifts every longitude from the tropical to the
// sidereal frame.
func applyAyanamsa(ayanamsa float64, bodies []models.CelestialBody, cusps *models.HouseCusps) {
	for i := range bodies {
		bodies[i].Longitude = models.Normalize360(bodies[i].Longitude - ayanamsa)
		sign, deg := models.SignFor(bodies[i].Longitude)
		bodies[i].Sign = sign
		bodies[i].SignDegree = deg
	}
	for k := range cusps.Cusps {
		cusps.Cusps[k] = models.Normalize360(cusps.Cusps[k] - ayanamsa)
	}
	cusps.Ascendant = models.Normalize360(cusps.Ascendant - ayanamsa)
	cusps.MC = models.Normalize360(cusps.MC - ayanamsa)
	cusps.Vertex = models.Normalize360(cusps.Vertex - ayanamsa)
}

func validateCoordinates(lat, lon float64) error {
	if lat < -90 || lat > 90 {
		return &models.InvalidCoordinatesError{
			Latitude:  lat,
			Longitude: lon,
			Reason:    "latitude must be within [-90, 90]",
		}
	}
	if lon < -180 || lon > 180 {
		return &models.InvalidCoordinatesError{
			Latitude:  lat,
			Longitude: lon,
			Reason:    "longitude must be within [-180, 180]",
		}
	}
	return nil
}

// resolveInstant parses a local civil time in the named zone and
// returns it in UTC.
func resolveInstant(value, zone string) (time.Time, error) {
	if zone == "" {
		zone = "UTC"
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return time.Time{}, &models.InvalidTimezoneError{Zone: zone, Err: err}
	}

	t, err := time.ParseInLocation(models.BirthDateLayout, value, loc)
	if err != nil {
		return time.Time{}, &models.InvalidConfigurationError{
			Field:  "birth_date",
			Reason: err.Error(),
		}
	}
	return t.UTC(), nil
}

// parseBodies maps request body names onto identifiers, falling back to
// the default set.
func parseBodies(names []string) []models.Body {
	if len(names) == 0 {
		out := make([]models.Body, len(models.DefaultBodies))
		copy(out, models.DefaultBodies)
		return out
	}

	out := make([]models.Body, 0, len(names))
	for _, n := range names {
		out = append(out, models.Body(strings.ToLower(strings.TrimSpace(n))))
	}
	return out
}
