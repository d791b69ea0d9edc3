package controllers

import (
	"net/http"

	"github.com/pomy-dev/ebh-repo/backend/services/rental-service/internal/dtos"
	"github.com/pomy-dev/ebh-repo/backend/services/rental-service/internal/services"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-utils"
)

type ApplicationController struct {
	applications services.ApplicationService
	leases       services.LeaseAcceptanceService
}

func NewApplicationController(
	applications services.ApplicationService,
	leases services.LeaseAcceptanceService,
) *ApplicationController {
	return &ApplicationController{applications: applications, leases: leases}
}

// POST /api/v1/apartments/{id}/applications
func (c *ApplicationController) SubmitHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	apartmentID, ok := pathID(w, r)
	if !ok {
		return
	}
	var req dtos.SubmitApplicationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	app, err := c.applications.Submit(r.Context(), sess, apartmentID, req)
	if err != nil {
		respondServiceError(w, err, "Failed to submit application")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dtos.NewApplicationResponse(app))
}

// GET /api/v1/applications
func (c *ApplicationController) ListMineHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	apps, err := c.applications.ListMine(r.Context(), sess)
	if err != nil {
		respondServiceError(w, err, "Failed to list applications")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewApplicationListResponse(apps))
}

// DELETE /api/v1/applications/{id}
func (c *ApplicationController) WithdrawHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := c.applications.Withdraw(r.Context(), sess, id); err != nil {
		respondServiceError(w, err, "Failed to withdraw application")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /api/v1/applications/{id}/accept
func (c *ApplicationController) AcceptHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	result, err := c.leases.AcceptApplication(r.Context(), sess, id)
	if err != nil {
		respondServiceError(w, err, "Failed to accept application")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.AcceptApplicationResponse{
		Tenancy: dtos.NewTenancyResponse(result.Tenancy),
		Warning: result.Warning,
		Code:    result.WarningCode,
	})
}
