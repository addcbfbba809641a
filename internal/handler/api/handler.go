package api

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"AstroChart/internal/domain/models"
	"AstroChart/internal/domain/repository"
	"AstroChart/internal/service/ratelimit"
	"AstroChart/internal/usecase"
	"AstroChart/pkg/cache"
	apphttp "AstroChart/pkg/http"
	"AstroChart/pkg/logger"
)

// Handler exposes the chart and transit API.
type Handler struct {
	charts   *usecase.ChartUsecase
	transits *usecase.TransitUsecase
	batch    *usecase.BatchUsecase
	limiter  *ratelimit.Limiter
	store    cache.BytesCache
	chartTTL time.Duration
	metrics  repository.Metrics
	log      *logger.Logger
}

// NewHandler creates the API handler. store caches chart responses;
// limiter guards the expensive range-search endpoints.
func NewHandler(
	charts *usecase.ChartUsecase,
	transits *usecase.TransitUsecase,
	batch *usecase.BatchUsecase,
	limiter *ratelimit.Limiter,
	store cache.BytesCache,
	chartTTL time.Duration,
	metrics repository.Metrics,
	log *logger.Logger,
) *Handler {
	if chartTTL <= 0 {
		chartTTL = 15 * time.Minute
	}
	return &Handler{
		charts:   charts,
		transits: transits,
		batch:    batch,
		limiter:  limiter,
		store:    store,
		chartTTL: chartTTL,
		metrics:  metrics,
		log:      log,
	}
}

// RegisterRoutes registers all API routes.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)

	v1 := e.Group("/api/v1")

	v1.POST("/natal/calculate", h.CalculateNatal)
	v1.POST("/natal/calculate/batch", h.CalculateNatalBatch)

	v1.POST("/transits/calculate", h.CalculateTransits)
	v1.POST("/transits/calculate/batch", h.CalculateTransitsBatch)

	limited := ratelimit.Middleware(h.limiter)
	v1.POST("/transits/exact", h.FindExactTransits, limited)
	v1.GET("/transits/stream", h.StreamExactTransits, limited)

	v1.GET("/config/house-systems", h.HouseSystems)
	v1.GET("/config/aspects", h.Aspects)
}

// Health reports liveness.
func (h *Handler) Health(c echo.Context) error {
	return apphttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

// respondDomainError maps typed domain errors onto HTTP statuses:
// validation-class failures are 422, calculation failures are 500.
func (h *Handler) respondDomainError(c echo.Context, err error) error {
	kind := models.ErrorKind(err)
	switch kind {
	case "invalid_coordinates", "invalid_timezone", "invalid_configuration":
		return apphttp.AppErrorResponse(c,
			apphttp.UnprocessableError("ERR_"+strings.ToUpper(kind), err.Error()))
	default:
		h.log.Error("calculation failed", logger.Error(err))
		return apphttp.AppErrorResponse(c, apphttp.InternalError(err.Error()))
	}
}
