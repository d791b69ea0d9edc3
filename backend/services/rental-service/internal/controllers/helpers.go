package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/pomy-dev/ebh-repo/backend/services/rental-service/internal/services"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-middleware"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-utils"
)

var validate = validator.New()

// requireSession writes a 401 when the middleware did not run.
func requireSession(w http.ResponseWriter, r *http.Request) (middleware.Session, bool) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		utils.RespondErrorWithCode(w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Missing session", nil)
	}
	return sess, ok
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid id", nil, err)
		return uuid.Nil, false
	}
	return id, true
}

func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid payload", nil, err)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation failed", err.Error(), err)
		return false
	}
	return true
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// respondServiceError maps service and shared errors onto HTTP replies.
func respondServiceError(w http.ResponseWriter, err error, fallback string) {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, ve.Error(),
			fieldError{Field: ve.Field, Message: ve.Message})
	case errors.Is(err, services.ErrApplicationNotApproved):
		utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeApplicationNotApproved,
			"Application has not been approved", nil)
	case errors.Is(err, services.ErrUnitUnavailable):
		utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeUnitUnavailable,
			"Unit is no longer available", nil)
	case errors.Is(err, services.ErrApplicationNotOwned):
		utils.RespondErrorWithCode(w, http.StatusForbidden, utils.ErrCodeForbidden,
			"Application belongs to another user", nil)
	case errors.Is(err, services.ErrApplicationNotFound):
		utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound, "Application not found", nil)
	case errors.Is(err, services.ErrUnitNotFound):
		utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound, "Apartment not found", nil)
	case errors.Is(err, services.ErrTenancyNotFound), errors.Is(err, utils.ErrNotFound):
		utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound, "Tenancy not found", nil)
	case errors.Is(err, services.ErrPaymentNotVerified):
		utils.RespondErrorWithCode(w, http.StatusUnprocessableEntity, utils.ErrCodePaymentNotVerified,
			"Card payment could not be verified", nil, err)
	case errors.Is(err, services.ErrPaymentReferenceUsed):
		utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodePaymentReferenceUsed,
			"This card payment was already recorded", nil)
	case errors.Is(err, utils.ErrEmailExists):
		utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeEmailExists, "Email already in use", nil)
	case errors.Is(err, utils.ErrRowVersionConflict):
		utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeRowVersionConflict,
			"Record was modified concurrently, please retry", nil, err)
	case errors.Is(err, utils.ErrExternalServiceFailure):
		utils.RespondErrorWithCode(w, http.StatusFailedDependency, utils.ErrCodeExternalServiceFailure,
			"An external service failed", nil, err)
	default:
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, fallback, nil, err)
	}
}
