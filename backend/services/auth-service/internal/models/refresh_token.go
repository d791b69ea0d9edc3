package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is an opaque refresh token. Only its hash is persisted;
// Token carries the raw value back to the caller right after issue.
type RefreshToken struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}
