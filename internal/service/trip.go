// Package service contains the business logic for the umrah back-office API.
// Services validate inputs, enforce the ledger and allocation invariants, and
// orchestrate repo calls. No SQL lives here — services depend on repo
// interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/alrihal/umrah-office/internal/domain"
	"github.com/alrihal/umrah-office/internal/repo"
)

// TripService implements business logic for trip metadata operations.
// Ledger totals are owned by LedgerService and never change through here.
type TripService struct {
	trips repo.TripRepo
}

// NewTripService constructs a TripService backed by the provided TripRepo.
func NewTripService(r repo.TripRepo) *TripService {
	return &TripService{trips: r}
}

// Create validates and persists a new trip with zeroed totals.
func (s *TripService) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}
	result, err := s.trips.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single trip by ID.
func (s *TripService) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	result, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return result, nil
}

// List returns all trips, most recent first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TripService) List(ctx context.Context) ([]domain.Trip, error) {
	trips, err := s.trips.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.List: %w", err)
	}
	if trips == nil {
		return []domain.Trip{}, nil
	}
	return trips, nil
}

// Update validates and updates the metadata of an existing trip.
func (s *TripService) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}
	result, err := s.trips.Update(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return result, nil
}

// Delete removes a trip by ID together with its bookings and plan.
func (s *TripService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.trips.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// validateTrip enforces rules common to both Create and Update.
//   - Name must be non-empty (whitespace-only names are rejected).
//   - EndDate, if set, must not be before StartDate.
func validateTrip(trip domain.Trip) error {
	if strings.TrimSpace(trip.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if trip.EndDate != nil && trip.EndDate.Before(trip.StartDate) {
		return fmt.Errorf("%w: end_date must not be before start_date", domain.ErrValidation)
	}
	return nil
}
