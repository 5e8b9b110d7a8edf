package handler

import (
	"net/http"

	"github.com/alrihal/umrah-office/internal/domain"
)

// tripRequest is the payload for both POST /trips and PUT /trips/{tripID}.
type tripRequest struct {
	Name      string  `json:"name" validate:"required"`
	StartDate string  `json:"start_date" validate:"required"`
	EndDate   *string `json:"end_date"`
	Notes     *string `json:"notes"`
}

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var req tripRequest
	if err := s.decodeJSON(r, &req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	trip, err := requestToTrip(req)
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	created, err := s.trips.Create(r.Context(), trip)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListTrips handles GET /trips.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := s.trips.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": trips})
}

// GetTrip handles GET /trips/{tripID}.
// Returns the full trip view: totals plus the ordered booking list.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	view, err := s.ledger.TripView(r.Context(), tripID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// UpdateTrip handles PUT /trips/{tripID}. Metadata only; totals are owned by
// the ledger and cannot be written through this endpoint.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	var req tripRequest
	if err := s.decodeJSON(r, &req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	trip, err := requestToTrip(req)
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	trip.ID = tripID

	updated, err := s.trips.Update(r.Context(), trip)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteTrip handles DELETE /trips/{tripID}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	if err := s.trips.Delete(r.Context(), tripID); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// requestToTrip converts a tripRequest into a domain.Trip.
func requestToTrip(req tripRequest) (domain.Trip, error) {
	start, err := parseDate(req.StartDate)
	if err != nil {
		return domain.Trip{}, err
	}
	end, err := parseDatePtr(req.EndDate)
	if err != nil {
		return domain.Trip{}, err
	}
	t := domain.Trip{
		Name:      req.Name,
		StartDate: start,
		EndDate:   end,
	}
	if req.Notes != nil {
		t.Notes = *req.Notes
	}
	return t, nil
}
