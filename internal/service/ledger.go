package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/alrihal/umrah-office/internal/domain"
	"github.com/alrihal/umrah-office/internal/repo"
)

// LedgerService implements the per-trip booking ledger: one financial record
// per client per trip, with trip-level totals that always reconcile with the
// booking rows.
//
// All mutations for one trip are serialized through a per-trip mutex, so the
// read-modify-write in UpdateBooking and the exists-check in AddBooking are
// never interleaved with another writer on the same trip. Reads take no lock
// and observe the last committed state.
type LedgerService struct {
	trips    repo.TripRepo
	bookings repo.BookingRepo
	clients  repo.ClientRepo
	locks    tripLocks
}

// NewLedgerService constructs a LedgerService backed by the provided repos.
func NewLedgerService(trips repo.TripRepo, bookings repo.BookingRepo, clients repo.ClientRepo) *LedgerService {
	return &LedgerService{trips: trips, bookings: bookings, clients: clients}
}

// AddBooking books a client onto a trip and returns the refreshed trip view.
// The trip totals grow by (+cost, +paid) in the same transaction as the
// insert. Returns domain.ErrNotFound if the trip or client does not exist,
// domain.ErrConflict if the client is already booked on this trip, and
// domain.ErrValidation for negative amounts.
func (s *LedgerService) AddBooking(ctx context.Context, booking domain.Booking) (domain.TripView, error) {
	if err := validateAmounts(booking.Cost, booking.Paid); err != nil {
		return domain.TripView{}, err
	}
	booking = normalizeBooking(booking)

	defer s.locks.Lock(booking.TripID)()

	if _, err := s.trips.GetByID(ctx, booking.TripID); err != nil {
		return domain.TripView{}, fmt.Errorf("service.LedgerService.AddBooking: %w", err)
	}
	if _, err := s.clients.GetByID(ctx, booking.ClientID); err != nil {
		return domain.TripView{}, fmt.Errorf("service.LedgerService.AddBooking: client: %w", err)
	}

	if _, err := s.bookings.Insert(ctx, booking); err != nil {
		return domain.TripView{}, fmt.Errorf("service.LedgerService.AddBooking: %w", err)
	}

	view, err := s.view(ctx, booking.TripID)
	if err != nil {
		return domain.TripView{}, fmt.Errorf("service.LedgerService.AddBooking: %w", err)
	}
	return view, nil
}

// UpdateBooking applies a partial update to a client's booking and returns
// the refreshed trip view. Only fields set on the patch change; the
// return-date rule (switching returning off clears the date) is applied by
// the patch itself. Trip totals move by the cost/paid delta, not by
// re-summing, so the operation is O(1) in the number of bookings.
func (s *LedgerService) UpdateBooking(ctx context.Context, tripID, clientID uuid.UUID, patch domain.BookingPatch) (domain.TripView, error) {
	if patch.Cost != nil || patch.Paid != nil {
		cost, paid := int64(0), int64(0)
		if patch.Cost != nil {
			cost = *patch.Cost
		}
		if patch.Paid != nil {
			paid = *patch.Paid
		}
		if err := validateAmounts(cost, paid); err != nil {
			return domain.TripView{}, err
		}
	}

	defer s.locks.Lock(tripID)()

	existing, err := s.bookings.GetByClient(ctx, tripID, clientID)
	if err != nil {
		return domain.TripView{}, fmt.Errorf("service.LedgerService.UpdateBooking: %w", err)
	}

	updated := normalizeBooking(patch.Apply(existing))
	if _, err := s.bookings.Update(ctx, updated); err != nil {
		return domain.TripView{}, fmt.Errorf("service.LedgerService.UpdateBooking: %w", err)
	}

	view, err := s.view(ctx, tripID)
	if err != nil {
		return domain.TripView{}, fmt.Errorf("service.LedgerService.UpdateBooking: %w", err)
	}
	return view, nil
}

// RemoveBooking takes a client off a trip, subtracting the booking's
// cost/paid from the trip totals. Returns domain.ErrNotFound if the booking
// does not exist.
func (s *LedgerService) RemoveBooking(ctx context.Context, tripID, clientID uuid.UUID) error {
	defer s.locks.Lock(tripID)()

	if err := s.bookings.Delete(ctx, tripID, clientID); err != nil {
		return fmt.Errorf("service.LedgerService.RemoveBooking: %w", err)
	}
	return nil
}

// TripView returns the read projection for a trip: totals plus the ordered
// booking list. Runs lock-free against the last committed state.
func (s *LedgerService) TripView(ctx context.Context, tripID uuid.UUID) (domain.TripView, error) {
	view, err := s.view(ctx, tripID)
	if err != nil {
		return domain.TripView{}, fmt.Errorf("service.LedgerService.TripView: %w", err)
	}
	return view, nil
}

// view assembles the trip projection. Callers wrap the error.
func (s *LedgerService) view(ctx context.Context, tripID uuid.UUID) (domain.TripView, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.TripView{}, err
	}
	bookings, err := s.bookings.ListByTripID(ctx, tripID)
	if err != nil {
		return domain.TripView{}, err
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	return domain.TripView{Trip: trip, Bookings: bookings}, nil
}

// normalizeBooking enforces the structural booking rules before any write:
// no return date unless the client is returning, and a generated id for
// every companion that arrives without one so the allocator can seat them.
func normalizeBooking(b domain.Booking) domain.Booking {
	if !b.Returning {
		b.ReturnDate = nil
	}
	for i := range b.Companions {
		if b.Companions[i].ID == uuid.Nil {
			b.Companions[i].ID = uuid.New()
		}
	}
	return b
}

// validateAmounts rejects negative money values.
func validateAmounts(cost, paid int64) error {
	if cost < 0 {
		return fmt.Errorf("%w: cost must not be negative", domain.ErrValidation)
	}
	if paid < 0 {
		return fmt.Errorf("%w: paid must not be negative", domain.ErrValidation)
	}
	return nil
}
