package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/alrihal/umrah-office/internal/domain"
	"github.com/alrihal/umrah-office/internal/repo"
)

// ClientService implements business logic for client identity records.
type ClientService struct {
	clients repo.ClientRepo
}

// NewClientService constructs a ClientService backed by the provided ClientRepo.
func NewClientService(r repo.ClientRepo) *ClientService {
	return &ClientService{clients: r}
}

// Create validates and persists a new client.
func (s *ClientService) Create(ctx context.Context, client domain.Client) (domain.Client, error) {
	if err := validateClient(client); err != nil {
		return domain.Client{}, err
	}
	result, err := s.clients.Create(ctx, client)
	if err != nil {
		return domain.Client{}, fmt.Errorf("service.ClientService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single client by ID.
func (s *ClientService) GetByID(ctx context.Context, id uuid.UUID) (domain.Client, error) {
	result, err := s.clients.GetByID(ctx, id)
	if err != nil {
		return domain.Client{}, fmt.Errorf("service.ClientService.GetByID: %w", err)
	}
	return result, nil
}

// ListPaged returns one page of clients plus the total count.
// Always returns a non-nil slice so callers can safely range over it.
func (s *ClientService) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Client, int64, error) {
	clients, total, err := s.clients.ListPaged(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.ClientService.ListPaged: %w", err)
	}
	if clients == nil {
		clients = []domain.Client{}
	}
	return clients, total, nil
}

// Update validates and updates an existing client.
func (s *ClientService) Update(ctx context.Context, client domain.Client) (domain.Client, error) {
	if err := validateClient(client); err != nil {
		return domain.Client{}, err
	}
	result, err := s.clients.Update(ctx, client)
	if err != nil {
		return domain.Client{}, fmt.Errorf("service.ClientService.Update: %w", err)
	}
	return result, nil
}

// Delete removes a client by ID. Returns domain.ErrConflict while the client
// is still booked on any trip.
func (s *ClientService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.clients.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.ClientService.Delete: %w", err)
	}
	return nil
}

// validateClient enforces rules common to both Create and Update.
func validateClient(client domain.Client) error {
	if strings.TrimSpace(client.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	return nil
}
