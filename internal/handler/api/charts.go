package api

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/labstack/echo/v4"

	"AstroChart/internal/domain/models"
	apphttp "AstroChart/pkg/http"
	"AstroChart/pkg/logger"
)

// CalculateNatal computes one natal chart. Responses are cached by
// request hash; charts are deterministic so a hit is always valid.
func (h *Handler) CalculateNatal(c echo.Context) error {
	req := new(models.NatalChartRequest)
	if errs := apphttp.ReadAndValidateRequest(c, req); errs != nil {
		return apphttp.BadRequestResponse(c, errs)
	}

	ctx := c.Request().Context()
	key := requestKey("natal", req)

	if raw, err := h.store.GetBytes(ctx, key); err == nil {
		h.metrics.IncCacheLookup(true)
		return apphttp.SuccessResponse(c, json.RawMessage(raw))
	}
	h.metrics.IncCacheLookup(false)

	resp, err := h.charts.Calculate(ctx, req)
	if err != nil {
		return h.respondDomainError(c, err)
	}

	if raw, err := json.Marshal(resp); err == nil {
		if err := h.store.SetBytes(ctx, key, raw, h.chartTTL); err != nil {
			h.log.Warn("chart cache write failed", logger.Error(err))
		}
	}

	return apphttp.SuccessResponse(c, resp)
}

// CalculateNatalBatch computes up to 50 independent charts; per-item
// failures land in their own slot.
func (h *Handler) CalculateNatalBatch(c echo.Context) error {
	req := new(models.NatalChartBatchRequest)
	if errs := apphttp.ReadAndValidateRequest(c, req); errs != nil {
		return apphttp.BadRequestResponse(c, errs)
	}

	resp := h.batch.Charts(c.Request().Context(), req)
	return apphttp.SuccessResponse(c, resp)
}

// requestKey derives a stable cache key from the canonical JSON
// encoding of a request.
func requestKey(prefix string, req interface{}) string {
	raw, err := json.Marshal(req)
	if err != nil {
		return prefix + ":unhashable"
	}
	sum := sha256.Sum256(raw)
	return prefix + ":" + hex.EncodeToString(sum[:])
}
