package handler

import (
	"net/http"

	"github.com/alrihal/umrah-office/internal/domain"
)

// clientRequest is the payload for both POST /clients and PUT /clients/{clientID}.
type clientRequest struct {
	Name        string `json:"name" validate:"required"`
	Phone       string `json:"phone"`
	IDNumber    string `json:"id_number"`
	Nationality string `json:"nationality"`
}

// CreateClient handles POST /clients.
func (s *Server) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if err := s.decodeJSON(r, &req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	created, err := s.clients.Create(r.Context(), requestToClient(req))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListClients handles GET /clients.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListClients(w http.ResponseWriter, r *http.Request) {
	params := domain.NewPaginationParams(queryInt(r, "page"), queryInt(r, "limit"))

	clients, total, err := s.clients.ListPaged(r.Context(), params)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"data": clients,
		"pagination": map[string]any{
			"page":  params.Page,
			"limit": params.Limit,
			"total": total,
		},
	})
}

// GetClient handles GET /clients/{clientID}.
func (s *Server) GetClient(w http.ResponseWriter, r *http.Request) {
	clientID, err := pathUUID(r, "clientID")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	client, err := s.clients.GetByID(r.Context(), clientID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, client)
}

// UpdateClient handles PUT /clients/{clientID}.
func (s *Server) UpdateClient(w http.ResponseWriter, r *http.Request) {
	clientID, err := pathUUID(r, "clientID")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	var req clientRequest
	if err := s.decodeJSON(r, &req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	client := requestToClient(req)
	client.ID = clientID

	updated, err := s.clients.Update(r.Context(), client)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteClient handles DELETE /clients/{clientID}.
// Returns 409 while the client is still booked on any trip.
func (s *Server) DeleteClient(w http.ResponseWriter, r *http.Request) {
	clientID, err := pathUUID(r, "clientID")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	if err := s.clients.Delete(r.Context(), clientID); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// requestToClient converts a clientRequest into a domain.Client.
func requestToClient(req clientRequest) domain.Client {
	return domain.Client{
		Name:        req.Name,
		Phone:       req.Phone,
		IDNumber:    req.IDNumber,
		Nationality: req.Nationality,
	}
}
