package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/alrihal/umrah-office/internal/domain"
)

// planRequest is the payload for PUT /trips/{tripID}/plan: the full plan
// state, which replaces whatever was saved before. The trip id comes from
// the path, never the body.
type planRequest struct {
	SupervisorName  string            `json:"supervisor_name"`
	SupervisorPhone string            `json:"supervisor_phone"`
	Rooms           domain.RoomCounts `json:"rooms"`
	Groups          []groupPayload    `json:"groups" validate:"dive"`
}

type groupPayload struct {
	ID    *uuid.UUID    `json:"id"`
	Name  string        `json:"name" validate:"required"`
	Slots []slotPayload `json:"slots" validate:"dive"`
}

type slotPayload struct {
	PersonID        uuid.UUID `json:"person_id" validate:"required"`
	DisplayName     string    `json:"display_name" validate:"required"`
	DisplayIdentity string    `json:"display_identity"`
}

// GetPlan handles GET /trips/{tripID}/plan.
// Returns the saved plan, or the default empty layout when none exists yet.
func (s *Server) GetPlan(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	plan, err := s.allocator.PlanForTrip(r.Context(), tripID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// SavePlan handles PUT /trips/{tripID}/plan: one atomic replace of the full
// plan. A payload seating the same person twice is rejected with 409.
func (s *Server) SavePlan(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	var req planRequest
	if err := s.decodeJSON(r, &req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	plan := domain.Plan{
		TripID:          tripID,
		SupervisorName:  req.SupervisorName,
		SupervisorPhone: req.SupervisorPhone,
		Rooms:           req.Rooms,
		Groups:          payloadToGroups(req.Groups),
	}

	saved, err := s.allocator.SavePlan(r.Context(), plan)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// DeleteGroup handles DELETE /trips/{tripID}/plan/groups/{groupName}.
// Removes the group and all its slots; remaining groups are renumbered.
func (s *Server) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	groupName := chi.URLParam(r, "groupName")

	plan, err := s.allocator.DeleteGroup(r.Context(), tripID, groupName)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// DeleteSlot handles DELETE /trips/{tripID}/plan/groups/{groupName}/slots/{slotIndex}.
// Frees one person's seat without touching the group.
func (s *Server) DeleteSlot(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	groupName := chi.URLParam(r, "groupName")
	slotIndex, err := strconv.Atoi(chi.URLParam(r, "slotIndex"))
	if err != nil {
		respondBadRequest(w, "invalid slotIndex: not an integer")
		return
	}

	plan, err := s.allocator.DeleteSlot(r.Context(), tripID, groupName, slotIndex)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// payloadToGroups converts group payloads to domain groups, keeping
// caller-supplied ids so groups stay stable across saves. Missing ids are
// filled in by the allocator service.
func payloadToGroups(gs []groupPayload) []domain.Group {
	out := make([]domain.Group, len(gs))
	for i, g := range gs {
		out[i] = domain.Group{Name: g.Name, Slots: payloadToSlots(g.Slots)}
		if g.ID != nil {
			out[i].ID = *g.ID
		}
	}
	return out
}

func payloadToSlots(ss []slotPayload) []domain.Slot {
	out := make([]domain.Slot, len(ss))
	for i, s := range ss {
		out[i] = domain.Slot{
			PersonID:        s.PersonID,
			DisplayName:     s.DisplayName,
			DisplayIdentity: s.DisplayIdentity,
		}
	}
	return out
}
