package api

import (
	"github.com/labstack/echo/v4"

	"AstroChart/internal/domain/models"
	apphttp "AstroChart/pkg/http"
)

var houseSystemNames = map[models.HouseSystem]string{
	models.Placidus:  "Placidus",
	models.Koch:      "Koch",
	models.Porphyry:  "Porphyry",
	models.Equal:     "Equal",
	models.WholeSign: "Whole Sign",
}

// HouseSystems lists the supported house systems.
func (h *Handler) HouseSystems(c echo.Context) error {
	out := make([]models.HouseSystemInfo, 0, len(models.HouseSystems))
	for _, system := range models.HouseSystems {
		out = append(out, models.HouseSystemInfo{
			ID:       string(system),
			Name:     houseSystemNames[system],
			Quadrant: system.Quadrant(),
		})
	}
	return apphttp.SuccessResponse(c, out)
}

// Aspects returns the default aspect table.
func (h *Handler) Aspects(c echo.Context) error {
	return apphttp.SuccessResponse(c, models.DefaultAspects())
}
