package controllers

import (
	"net/http"

	"github.com/pomy-dev/ebh-repo/backend/services/rental-service/internal/dtos"
	"github.com/pomy-dev/ebh-repo/backend/services/rental-service/internal/services"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-utils"
)

type TenancyController struct {
	tenancies services.TenancyService
}

func NewTenancyController(tenancies services.TenancyService) *TenancyController {
	return &TenancyController{tenancies: tenancies}
}

func detailsResponse(d *services.TenancyDetails) dtos.TenancyDetailsResponse {
	resp := dtos.TenancyDetailsResponse{
		Tenancy: dtos.NewTenancyResponse(d.Tenancy),
		Tenant: dtos.TenantResponse{
			ID:          d.Tenant.ID,
			Name:        d.Tenant.Name,
			Email:       d.Tenant.Email,
			PhoneNumber: d.Tenant.PhoneNumber,
		},
	}
	if d.Unit != nil {
		u := dtos.NewUnitResponse(d.Unit)
		resp.Apartment = &u
	}
	return resp
}

// GET /api/v1/tenancies
func (c *TenancyController) ListMineHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	ts, err := c.tenancies.ListMine(r.Context(), sess)
	if err != nil {
		respondServiceError(w, err, "Failed to list tenancies")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewTenancyListResponse(ts))
}

// GET /api/v1/tenancies/{id}
func (c *TenancyController) DetailsHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	d, err := c.tenancies.Details(r.Context(), sess, id)
	if err != nil {
		respondServiceError(w, err, "Failed to load tenancy")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, detailsResponse(d))
}

// PATCH /api/v1/tenancies/{id}
func (c *TenancyController) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req dtos.UpdateTenancyRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	d, err := c.tenancies.UpdateDetails(r.Context(), sess, id, req)
	if err != nil {
		respondServiceError(w, err, "Failed to update tenancy")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, detailsResponse(d))
}
