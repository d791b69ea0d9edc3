package controllers

import (
	"net/http"

	"github.com/pomy-dev/ebh-repo/backend/services/rental-service/internal/dtos"
	"github.com/pomy-dev/ebh-repo/backend/services/rental-service/internal/services"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-utils"
)

type PaymentController struct {
	payments services.PaymentService
}

func NewPaymentController(payments services.PaymentService) *PaymentController {
	return &PaymentController{payments: payments}
}

// POST /api/v1/tenancies/{id}/payments
func (c *PaymentController) RecordHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	tenancyID, ok := pathID(w, r)
	if !ok {
		return
	}
	var req dtos.RecordPaymentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	p, err := c.payments.Record(r.Context(), sess, tenancyID, req)
	if err != nil {
		respondServiceError(w, err, "Failed to record payment")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dtos.NewPaymentResponse(p))
}

// GET /api/v1/tenancies/{id}/payments?status=
func (c *PaymentController) ListHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	tenancyID, ok := pathID(w, r)
	if !ok {
		return
	}
	ps, err := c.payments.List(r.Context(), sess, tenancyID, r.URL.Query().Get("status"))
	if err != nil {
		respondServiceError(w, err, "Failed to list payments")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewPaymentListResponse(ps))
}
