package model

import (
	"time"

	"github.com/google/uuid"
)

// ActorType identifies which credential collection an identity lives in.
// Email uniqueness is scoped per actor type, never globally.
type ActorType string

const (
	ActorHospital ActorType = "hospital"
	ActorDoctor   ActorType = "doctor"
	ActorPatient  ActorType = "patient"
)

// Base contains common fields for all records
type Base struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
