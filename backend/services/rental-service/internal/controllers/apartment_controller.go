package controllers

import (
	"net/http"

	"github.com/pomy-dev/ebh-repo/backend/services/rental-service/internal/dtos"
	"github.com/pomy-dev/ebh-repo/backend/services/rental-service/internal/services"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-utils"
)

type ApartmentController struct {
	apartments services.ApartmentService
}

func NewApartmentController(apartments services.ApartmentService) *ApartmentController {
	return &ApartmentController{apartments: apartments}
}

// GET /api/v1/apartments?status=
func (c *ApartmentController) ListHandler(w http.ResponseWriter, r *http.Request) {
	units, err := c.apartments.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		respondServiceError(w, err, "Failed to list apartments")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewUnitListResponse(units))
}

// GET /api/v1/apartments/{id}
func (c *ApartmentController) GetHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	unit, err := c.apartments.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err, "Failed to load apartment")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewUnitResponse(unit))
}
