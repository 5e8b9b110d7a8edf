package domain

import (
	"time"

	"github.com/google/uuid"
)

// Client is a canonical identity record for a person the office deals with.
// Trips reference clients by ID only; deleting a client is refused while any
// booking still points at it.
type Client struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	IDNumber    string    `json:"id_number"`
	Nationality string    `json:"nationality"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
