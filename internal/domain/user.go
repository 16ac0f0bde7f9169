package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an account holder. CurrentTripID mirrors the trip the user last
// started; it is a convenience pointer and may lag the trips table.
type User struct {
	ID            uuid.UUID  `json:"id"`
	Email         string     `json:"email"`
	PasswordHash  string     `json:"-"`
	CurrentTripID *uuid.UUID `json:"current_trip_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Blob is a stored object in the photo store.
type Blob struct {
	Path        string
	ContentType string
	Data        []byte
	CreatedAt   time.Time
}
