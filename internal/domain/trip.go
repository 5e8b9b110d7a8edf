// Package domain contains the core data types for the umrah back-office API.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Trip is the top-level aggregate: bookings belong to a trip, and the trip
// carries running totals over them.
//
// The three totals are maintained by the booking repo inside the same
// transaction as every booking write, so at any observable point:
//
//	TotalCost == sum of booking costs
//	TotalPaid == sum of booking payments
//	TotalNet  == TotalCost - TotalPaid
type Trip struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"` // nil when not yet scheduled
	Notes     string     `json:"notes,omitempty"`
	TotalCost int64      `json:"total_cost"`
	TotalPaid int64      `json:"total_paid"`
	TotalNet  int64      `json:"total_net"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TripView is the read projection returned to callers after every ledger
// mutation: the trip with its refreshed totals plus the ordered booking list.
type TripView struct {
	Trip     Trip      `json:"trip"`
	Bookings []Booking `json:"bookings"`
}

// Person is a trip-scoped companion travelling with a booked client. It has
// no identity outside the booking that carries it, but its ID draws from the
// same identifier space as client IDs so the accommodation plan can seat
// main clients and companions interchangeably.
type Person struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Nationality string    `json:"nationality,omitempty"`
	IDNumber    string    `json:"id_number,omitempty"`
}

// Booking is one client's financial record on one trip.
// A client appears at most once per trip.
// ReturnDate is nil unless Returning is true; the ledger service clears it
// whenever Returning is switched off so a stale date can never survive.
type Booking struct {
	ID               uuid.UUID  `json:"id"`
	TripID           uuid.UUID  `json:"trip_id"`
	ClientID         uuid.UUID  `json:"client_id"`
	Companions       []Person   `json:"companions"`
	Cost             int64      `json:"cost"`
	Paid             int64      `json:"paid"`
	Returning        bool       `json:"returning"`
	ReturnDate       *time.Time `json:"return_date,omitempty"`
	BoardingLocation string     `json:"boarding_location,omitempty"`
	Notes            string     `json:"notes,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Net returns the outstanding balance for this booking.
func (b Booking) Net() int64 {
	return b.Cost - b.Paid
}

// BookingPatch carries a partial update for a booking. Nil fields are left
// unchanged; only the fields a caller sets are applied.
type BookingPatch struct {
	Companions       *[]Person
	Cost             *int64
	Paid             *int64
	Returning        *bool
	ReturnDate       *time.Time
	BoardingLocation *string
	Notes            *string
}

// Apply merges the patch into b and returns the result.
// The return-date rule from the booking lifecycle is enforced here:
// switching Returning off clears ReturnDate even when the same patch carries
// a date; switching it on keeps the supplied date or, when none is supplied,
// whatever date was already stored.
func (p BookingPatch) Apply(b Booking) Booking {
	if p.Companions != nil {
		b.Companions = *p.Companions
	}
	if p.Cost != nil {
		b.Cost = *p.Cost
	}
	if p.Paid != nil {
		b.Paid = *p.Paid
	}
	if p.Returning != nil {
		b.Returning = *p.Returning
	}
	if p.ReturnDate != nil {
		d := *p.ReturnDate
		b.ReturnDate = &d
	}
	if p.BoardingLocation != nil {
		b.BoardingLocation = *p.BoardingLocation
	}
	if p.Notes != nil {
		b.Notes = *p.Notes
	}
	if !b.Returning {
		b.ReturnDate = nil
	}
	return b
}
