package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/belleallure/salon-api/internal/core/domain"
)

// CatalogHandler exposes the service menu, the stylists and the opening
// template so clients never hardcode them.
type CatalogHandler struct {
	catalog  *domain.Catalog
	schedule domain.Schedule
}

func NewCatalogHandler(catalog *domain.Catalog, schedule domain.Schedule) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, schedule: schedule}
}

type openingBlock struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type openingHours struct {
	Blocks      []openingBlock `json:"blocks"`
	StepMinutes int            `json:"step_minutes"`
	ClosedDays  []string       `json:"closed_days"`
	Timezone    string         `json:"timezone"`
	Slots       []string       `json:"slots"`
}

type catalogResponse struct {
	Services []domain.ServiceOffering `json:"services"`
	Stylists []domain.Stylist         `json:"stylists"`
	Hours    openingHours             `json:"opening_hours"`
}

// Get handles GET /api/catalog.
//
// @Summary      Salon catalog
// @Tags         catalog
// @Produce      json
// @Success      200  {object}  catalogResponse
// @Router       /api/catalog [get]
func (h *CatalogHandler) Get(c echo.Context) error {
	hours := openingHours{
		StepMinutes: int(h.schedule.Step.Minutes()),
		Slots:       h.schedule.BaseSlots(),
		ClosedDays:  []string{},
	}
	if h.schedule.Location != nil {
		hours.Timezone = h.schedule.Location.String()
	}
	for _, b := range h.schedule.Blocks {
		hours.Blocks = append(hours.Blocks, openingBlock{Start: b.Start, End: b.End})
	}
	for _, d := range h.schedule.ClosedDays {
		hours.ClosedDays = append(hours.ClosedDays, d.String())
	}

	return c.JSON(http.StatusOK, catalogResponse{
		Services: h.catalog.Services(),
		Stylists: h.catalog.Stylists(),
		Hours:    hours,
	})
}
