package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/alrihal/umrah-office/internal/domain"
)

// personPayload is one accompanying person in a booking payload.
type personPayload struct {
	ID          *uuid.UUID `json:"id"`
	Name        string     `json:"name" validate:"required"`
	Nationality string     `json:"nationality"`
	IDNumber    string     `json:"id_number"`
}

// addBookingRequest is the payload for POST /trips/{tripID}/bookings.
type addBookingRequest struct {
	ClientID         uuid.UUID       `json:"client_id" validate:"required"`
	Companions       []personPayload `json:"companions" validate:"dive"`
	Cost             int64           `json:"cost" validate:"gte=0"`
	Paid             int64           `json:"paid" validate:"gte=0"`
	Returning        bool            `json:"returning"`
	ReturnDate       *string         `json:"return_date"`
	BoardingLocation string          `json:"boarding_location"`
	Notes            string          `json:"notes"`
}

// patchBookingRequest is the payload for PATCH /trips/{tripID}/bookings/{clientID}.
// Every field is optional; absent fields leave the stored value unchanged.
type patchBookingRequest struct {
	Companions       *[]personPayload `json:"companions" validate:"omitempty,dive"`
	Cost             *int64           `json:"cost" validate:"omitempty,gte=0"`
	Paid             *int64           `json:"paid" validate:"omitempty,gte=0"`
	Returning        *bool            `json:"returning"`
	ReturnDate       *string          `json:"return_date"`
	BoardingLocation *string          `json:"boarding_location"`
	Notes            *string          `json:"notes"`
}

// AddBooking handles POST /trips/{tripID}/bookings: books a client onto the
// trip and returns the refreshed trip view with updated totals.
func (s *Server) AddBooking(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	var req addBookingRequest
	if err := s.decodeJSON(r, &req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	returnDate, err := parseDatePtr(req.ReturnDate)
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	booking := domain.Booking{
		TripID:           tripID,
		ClientID:         req.ClientID,
		Companions:       payloadToPersons(req.Companions),
		Cost:             req.Cost,
		Paid:             req.Paid,
		Returning:        req.Returning,
		ReturnDate:       returnDate,
		BoardingLocation: req.BoardingLocation,
		Notes:            req.Notes,
	}

	view, err := s.ledger.AddBooking(r.Context(), booking)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

// UpdateBooking handles PATCH /trips/{tripID}/bookings/{clientID}.
// Only the fields present in the payload are applied.
func (s *Server) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	clientID, err := pathUUID(r, "clientID")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	var req patchBookingRequest
	if err := s.decodeJSON(r, &req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	returnDate, err := parseDatePtr(req.ReturnDate)
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	patch := domain.BookingPatch{
		Cost:             req.Cost,
		Paid:             req.Paid,
		Returning:        req.Returning,
		ReturnDate:       returnDate,
		BoardingLocation: req.BoardingLocation,
		Notes:            req.Notes,
	}
	if req.Companions != nil {
		companions := payloadToPersons(*req.Companions)
		patch.Companions = &companions
	}

	view, err := s.ledger.UpdateBooking(r.Context(), tripID, clientID, patch)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// RemoveBooking handles DELETE /trips/{tripID}/bookings/{clientID}.
func (s *Server) RemoveBooking(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	clientID, err := pathUUID(r, "clientID")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	if err := s.ledger.RemoveBooking(r.Context(), tripID, clientID); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// payloadToPersons converts companion payloads to domain persons, keeping
// caller-supplied ids so existing companions stay seated across a patch.
// Missing ids are filled in by the ledger service.
func payloadToPersons(ps []personPayload) []domain.Person {
	out := make([]domain.Person, len(ps))
	for i, p := range ps {
		out[i] = domain.Person{
			Name:        p.Name,
			Nationality: p.Nationality,
			IDNumber:    p.IDNumber,
		}
		if p.ID != nil {
			out[i].ID = *p.ID
		}
	}
	return out
}
