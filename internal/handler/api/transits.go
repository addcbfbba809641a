package api

import (
	"github.com/labstack/echo/v4"

	"AstroChart/internal/domain/models"
	apphttp "AstroChart/pkg/http"
)

// CalculateTransits places transiting positions against a natal chart.
func (h *Handler) CalculateTransits(c echo.Context) error {
	req := new(models.TransitChartRequest)
	if errs := apphttp.ReadAndValidateRequest(c, req); errs != nil {
		return apphttp.BadRequestResponse(c, errs)
	}

	resp, err := h.transits.Calculate(c.Request().Context(), req)
	if err != nil {
		return h.respondDomainError(c, err)
	}
	return apphttp.SuccessResponse(c, resp)
}

// CalculateTransitsBatch fans out independent transit calculations.
func (h *Handler) CalculateTransitsBatch(c echo.Context) error {
	req := new(models.TransitChartBatchRequest)
	if errs := apphttp.ReadAndValidateRequest(c, req); errs != nil {
		return apphttp.BadRequestResponse(c, errs)
	}

	resp := h.batch.Transits(c.Request().Context(), req)
	return apphttp.SuccessResponse(c, resp)
}

// FindExactTransits runs an exact-aspect range search.
func (h *Handler) FindExactTransits(c echo.Context) error {
	req := new(models.TransitSearchRequest)
	if errs := apphttp.ReadAndValidateRequest(c, req); errs != nil {
		return apphttp.BadRequestResponse(c, errs)
	}

	resp, err := h.transits.FindExact(c.Request().Context(), req)
	if err != nil {
		return h.respondDomainError(c, err)
	}
	return apphttp.SuccessResponse(c, resp)
}
