package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/alrihal/umrah-office/internal/domain"
	"github.com/alrihal/umrah-office/internal/repo"
)

// AllocatorService implements the accommodation allocator: per-trip room
// groups with ordered slots, one slot per seated person, nobody seated twice.
//
// Plan mutations for one trip are serialized through a per-trip mutex that
// is independent of the ledger's, so room moves never block booking updates.
// The persisted plan is replaced whole on every save — the repo write is a
// single-row upsert, which makes each mutation all-or-nothing.
type AllocatorService struct {
	trips repo.TripRepo
	plans repo.PlanRepo
	locks tripLocks
}

// NewAllocatorService constructs an AllocatorService backed by the provided repos.
func NewAllocatorService(trips repo.TripRepo, plans repo.PlanRepo) *AllocatorService {
	return &AllocatorService{trips: trips, plans: plans}
}

// PlanForTrip returns the persisted plan for a trip, or — when none has been
// saved yet — the default starting layout of empty groups. The bootstrap is
// not persisted; nothing is written until the first save.
// Returns domain.ErrNotFound if the trip itself does not exist.
func (s *AllocatorService) PlanForTrip(ctx context.Context, tripID uuid.UUID) (domain.Plan, error) {
	plan, err := s.loadOrInit(ctx, tripID)
	if err != nil {
		return domain.Plan{}, fmt.Errorf("service.AllocatorService.PlanForTrip: %w", err)
	}
	return plan, nil
}

// SavePlan validates and persists the full plan payload for plan.TripID,
// replacing any previously saved state. Returns domain.ErrConflict if the
// payload seats one person in two slots, domain.ErrValidation for negative
// room counters, and domain.ErrNotFound if the trip does not exist.
func (s *AllocatorService) SavePlan(ctx context.Context, plan domain.Plan) (domain.Plan, error) {
	if err := plan.Validate(); err != nil {
		return domain.Plan{}, err
	}
	for i := range plan.Groups {
		if plan.Groups[i].ID == uuid.Nil {
			plan.Groups[i].ID = uuid.New()
		}
		if plan.Groups[i].Slots == nil {
			plan.Groups[i].Slots = []domain.Slot{}
		}
	}

	defer s.locks.Lock(plan.TripID)()

	saved, err := s.plans.Save(ctx, plan)
	if err != nil {
		return domain.Plan{}, fmt.Errorf("service.AllocatorService.SavePlan: %w", err)
	}
	return saved, nil
}

// DeleteGroup removes the named group and all of its slots from a trip's
// plan — the seated people become unassigned, not moved. Remaining groups
// are renamed to a contiguous ordinal sequence and the result is persisted.
// Returns domain.ErrNotFound if no group has that name.
func (s *AllocatorService) DeleteGroup(ctx context.Context, tripID uuid.UUID, groupName string) (domain.Plan, error) {
	defer s.locks.Lock(tripID)()

	plan, err := s.loadOrInit(ctx, tripID)
	if err != nil {
		return domain.Plan{}, fmt.Errorf("service.AllocatorService.DeleteGroup: %w", err)
	}
	if err := plan.DeleteGroup(groupName); err != nil {
		return domain.Plan{}, fmt.Errorf("service.AllocatorService.DeleteGroup: %w", err)
	}

	saved, err := s.plans.Save(ctx, plan)
	if err != nil {
		return domain.Plan{}, fmt.Errorf("service.AllocatorService.DeleteGroup: %w", err)
	}
	return saved, nil
}

// DeleteSlot removes the slot at slotIndex from the named group, freeing
// that person for reassignment, and persists the result. The group itself
// is kept even when it becomes empty.
// Returns domain.ErrNotFound for an unknown group or out-of-range index.
func (s *AllocatorService) DeleteSlot(ctx context.Context, tripID uuid.UUID, groupName string, slotIndex int) (domain.Plan, error) {
	defer s.locks.Lock(tripID)()

	plan, err := s.loadOrInit(ctx, tripID)
	if err != nil {
		return domain.Plan{}, fmt.Errorf("service.AllocatorService.DeleteSlot: %w", err)
	}
	if err := plan.Unassign(groupName, slotIndex); err != nil {
		return domain.Plan{}, fmt.Errorf("service.AllocatorService.DeleteSlot: %w", err)
	}

	saved, err := s.plans.Save(ctx, plan)
	if err != nil {
		return domain.Plan{}, fmt.Errorf("service.AllocatorService.DeleteSlot: %w", err)
	}
	return saved, nil
}

// loadOrInit fetches the persisted plan or falls back to the default layout.
// The trip-exists check only runs on the fallback path: a persisted plan
// implies the trip exists, so the common case stays a single query.
func (s *AllocatorService) loadOrInit(ctx context.Context, tripID uuid.UUID) (domain.Plan, error) {
	plan, err := s.plans.Get(ctx, tripID)
	if err == nil {
		return plan, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Plan{}, err
	}
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		return domain.Plan{}, err
	}
	return domain.NewPlan(tripID), nil
}
