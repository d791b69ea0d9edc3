package services

import (
	"errors"
	"fmt"
)

var (
	ErrApplicationNotFound    = errors.New("application not found")
	ErrApplicationNotOwned    = errors.New("application belongs to another user")
	ErrApplicationNotApproved = errors.New("application not approved")
	ErrUnitNotFound           = errors.New("unit not found")
	ErrUnitUnavailable        = errors.New("unit no longer available")
	ErrTenancyNotFound        = errors.New("tenancy not found")
	ErrPaymentNotVerified     = errors.New("card payment could not be verified")
	ErrPaymentReferenceUsed   = errors.New("card payment already recorded")
)

// WarningUnitNotMarkedOccupied is returned with a successful acceptance
// when the unit status could not be updated.
const WarningUnitNotMarkedOccupied = "Apartment was not marked as occupied. Contact the owner."

// ValidationError reports a bad input field. Services return it before
// touching any store.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}
