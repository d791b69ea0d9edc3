package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an authenticated account. TenancyID links the account to the
// most recently accepted tenancy and is nil until the first acceptance.
type User struct {
	Versioned
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PhoneNumber  string     `json:"phone_number"`
	PasswordHash string     `json:"-"`
	TenancyID    *uuid.UUID `json:"tenancy_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (u *User) GetID() string { return u.ID.String() }
