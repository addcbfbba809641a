package usecase

import (
	"context"
	"fmt"
	"time"

	"AstroChart/internal/domain/models"
	"AstroChart/internal/domain/repository"
	"AstroChart/internal/service/aspects"
	"AstroChart/internal/service/transits"
	"AstroChart/pkg/logger"
)

// TransitUsecase places transiting positions against natal charts and
// runs exact-aspect searches.
type TransitUsecase struct {
	charts    *ChartUsecase
	aspects   *aspects.Engine
	searcher  *transits.Searcher
	publisher repository.EventPublisher
	metrics   repository.Metrics
	log       *logger.Logger
	deadline  time.Duration
}

// NewTransitUsecase creates a transit usecase. deadline bounds one
// exact search end to end; zero disables the bound.
func NewTransitUsecase(
	charts *ChartUsecase,
	aspectEngine *aspects.Engine,
	searcher *transits.Searcher,
	publisher repository.EventPublisher,
	metrics repository.Metrics,
	log *logger.Logger,
	deadline time.Duration,
) *TransitUsecase {
	return &TransitUsecase{
		charts:    charts,
		aspects:   aspectEngine,
		searcher:  searcher,
		publisher: publisher,
		metrics:   metrics,
		log:       log,
		deadline:  deadline,
	}
}

// Calculate computes transiting positions for an instant, places them
// in the natal houses and reports cross aspects against the natal
// bodies.
func (u *TransitUsecase) Calculate(ctx context.Context, req *models.TransitChartRequest) (*models.TransitChartResponse, error) {
	natal, err := u.charts.calculate(ctx, &req.Natal)
	if err != nil {
		u.metrics.IncCalculationError(models.ErrorKind(err))
		return nil, err
	}

	instant, err := resolveInstant(req.TransitDate, req.TransitTZ)
	if err != nil {
		u.metrics.IncCalculationError(models.ErrorKind(err))
		return nil, err
	}

	transiting, err := u.charts.positions(ctx, parseBodies(req.TransitBodies), instant)
	if err != nil {
		u.metrics.IncCalculationError(models.ErrorKind(err))
		return nil, err
	}

	cfg := natal.Config
	if cfg.Zodiac == models.Sidereal {
		for i := range transiting {
			transiting[i].Longitude = models.Normalize360(transiting[i].Longitude - cfg.Ayanamsa)
			sign, deg := models.SignFor(transiting[i].Longitude)
			transiting[i].Sign = sign
			transiting[i].SignDegree = deg
		}
	}

	// transiting bodies fall into the houses of the natal chart
	u.charts.houses.AssignHouses(transiting, &natal.Houses)

	// the natal angles are aspect targets alongside the natal bodies
	natalPoints := make([]models.CelestialBody, 0, len(natal.Bodies)+2)
	natalPoints = append(natalPoints, natal.Bodies...)
	natalPoints = append(natalPoints, anglePoints(&natal.Houses)...)

	resp := &models.TransitChartResponse{
		Transiting: transiting,
		Natal:      natal.Bodies,
		Houses:     natal.Houses,
		Aspects:    u.aspects.Cross(transiting, natalPoints, &cfg),
	}
	if req.IncludeMutual {
		resp.MutualAspects = u.aspects.Mutual(transiting, &cfg)
	}
	return resp, nil
}

// FindExact locates every instant in the requested range at which a
// transiting body forms an exact aspect to a natal position.
func (u *TransitUsecase) FindExact(ctx context.Context, req *models.TransitSearchRequest) (*models.TransitSearchResponse, error) {
	started := time.Now()

	if u.deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.deadline)
		defer cancel()
	}

	natal, err := u.charts.calculate(ctx, &req.Natal)
	if err != nil {
		u.metrics.IncCalculationError(models.ErrorKind(err))
		return nil, err
	}

	start, err := resolveInstant(req.RangeStart, req.RangeTZ)
	if err != nil {
		return nil, err
	}
	end, err := resolveInstant(req.RangeEnd, req.RangeTZ)
	if err != nil {
		return nil, err
	}

	params, err := u.searchParams(req, natal, start, end)
	if err != nil {
		u.metrics.IncCalculationError(models.ErrorKind(err))
		return nil, err
	}

	result, err := u.searcher.SearchAll(ctx, params)
	if err != nil {
		u.metrics.IncCalculationError(models.ErrorKind(err))
		return nil, err
	}

	u.metrics.ObserveTransitSearch(len(result.Events), result.FailedBrackets, time.Since(started))

	if u.publisher != nil && len(result.Events) > 0 {
		if err := u.publisher.PublishTransitEvents(ctx, result.Events); err != nil {
			u.log.Warn("transit event publication failed", logger.Error(err))
		}
	}

	return &models.TransitSearchResponse{
		Events:         result.Events,
		Truncated:      result.Truncated,
		FailedBrackets: result.FailedBrackets,
	}, nil
}

// searchParams expands the request into one search per transiting body,
// natal target and aspect. Natal targets default to the chart bodies;
// the ascendant and midheaven are addressable by name.
func (u *TransitUsecase) searchParams(req *models.TransitSearchRequest, natal *models.ChartResponse, start, end time.Time) ([]transits.SearchParams, error) {
	cfg := natal.Config

	var specs []models.AspectSpec
	if len(req.Aspects) == 0 {
		specs = cfg.EffectiveAspects()
	} else {
		for _, name := range req.Aspects {
			spec, ok := cfg.AspectByName(name)
			if !ok {
				return nil, &models.InvalidConfigurationError{
					Field:  "aspects",
					Reason: fmt.Sprintf("unknown aspect %q", name),
				}
			}
			specs = append(specs, spec)
		}
	}

	targets, err := u.natalTargets(req.NatalBodies, natal)
	if err != nil {
		return nil, err
	}

	transiting := parseBodies(req.TransitingBodies)

	step := time.Duration(req.StepHours * float64(time.Hour))
	dedup := time.Duration(req.DedupMinutes * float64(time.Minute))

	params := make([]transits.SearchParams, 0, len(transiting)*len(targets)*len(specs))
	for _, tb := range transiting {
		for _, target := range targets {
			for _, spec := range specs {
				params = append(params, transits.SearchParams{
					Transiting:     tb,
					Natal:          target.body,
					NatalLongitude: target.longitude,
					Aspect:         spec.Name,
					Angle:          spec.Angle,
					Start:          start,
					End:            end,
					Step:           step,
					Tolerance:      req.ToleranceDeg,
					MaxIterations:  req.MaxIterations,
					DedupWindow:    dedup,
				})
			}
		}
	}
	return params, nil
}

type natalTarget struct {
	body      models.Body
	longitude float64
}

func (u *TransitUsecase) natalTargets(names []string, natal *models.ChartResponse) ([]natalTarget, error) {
	byBody := make(map[models.Body]float64, len(natal.Bodies)+2)
	for _, b := range natal.Bodies {
		byBody[b.Body] = b.Longitude
	}
	byBody[models.Ascendant] = natal.Houses.Ascendant
	byBody[models.Midheaven] = natal.Houses.MC

	if len(names) == 0 {
		targets := make([]natalTarget, 0, len(natal.Bodies))
		for _, b := range natal.Bodies {
			targets = append(targets, natalTarget{body: b.Body, longitude: b.Longitude})
		}
		return targets, nil
	}

	targets := make([]natalTarget, 0, len(names))
	for _, id := range parseBodies(names) {
		lon, ok := byBody[id]
		if !ok {
			return nil, &models.InvalidConfigurationError{
				Field:  "natal_bodies",
				Reason: fmt.Sprintf("body %q is not part of the natal chart", id),
			}
		}
		targets = append(targets, natalTarget{body: id, longitude: lon})
	}
	return targets, nil
}
