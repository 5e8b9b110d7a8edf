package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/alrihal/umrah-office/internal/domain"
)

// BookingRepo defines the persistence operations for Bookings.
//
// Every write adjusts the parent trip's totals in the same transaction, so
// the invariant total_cost == Σcost, total_paid == Σpaid, total_net ==
// total_cost - total_paid holds at every commit point. Updates adjust totals
// by the delta against the stored row (read FOR UPDATE in the same
// transaction), never by re-summing the booking list.
type BookingRepo interface {
	// Insert adds a booking and bumps the trip totals by (+cost, +paid).
	// Returns domain.ErrConflict if the client is already booked on the trip
	// and domain.ErrNotFound if the trip does not exist.
	Insert(ctx context.Context, booking domain.Booking) (domain.Booking, error)

	// GetByClient retrieves the booking for a client on a trip.
	// Returns domain.ErrNotFound if no such booking exists.
	GetByClient(ctx context.Context, tripID, clientID uuid.UUID) (domain.Booking, error)

	// ListByTripID returns all bookings for a trip in insertion order.
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Booking, error)

	// Update overwrites the mutable fields of the booking identified by
	// (TripID, ClientID) and adjusts trip totals by the cost/paid delta.
	// Returns domain.ErrNotFound if no such booking exists.
	Update(ctx context.Context, booking domain.Booking) (domain.Booking, error)

	// Delete removes a client's booking from a trip and subtracts its
	// cost/paid from the trip totals.
	// Returns domain.ErrNotFound if no such booking exists.
	Delete(ctx context.Context, tripID, clientID uuid.UUID) error
}

// pgBookingRepo is the Postgres implementation of BookingRepo.
type pgBookingRepo struct {
	db txDB
}

// NewBookingRepo constructs a BookingRepo backed by the provided connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx — the multi-statement
// writes then run inside savepoints and still roll back with the test.
func NewBookingRepo(db txDB) BookingRepo {
	return &pgBookingRepo{db: db}
}

const bookingColumns = `id, trip_id, client_id, companions, cost, paid, is_returning, return_date, boarding_location, notes, created_at, updated_at`

func (r *pgBookingRepo) Insert(ctx context.Context, booking domain.Booking) (domain.Booking, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Insert: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const q = `
		INSERT INTO bookings (trip_id, client_id, companions, cost, paid, is_returning, return_date, boarding_location, notes)
		VALUES (@trip_id, @client_id, @companions, @cost, @paid, @is_returning, @return_date, @boarding_location, @notes)
		RETURNING ` + bookingColumns

	args := pgx.NamedArgs{
		"trip_id":           booking.TripID,
		"client_id":         booking.ClientID,
		"companions":        companionsJSON(booking.Companions),
		"cost":              booking.Cost,
		"paid":              booking.Paid,
		"is_returning":      booking.Returning,
		"return_date":       booking.ReturnDate, // nil becomes NULL
		"boarding_location": booking.BoardingLocation,
		"notes":             booking.Notes,
	}

	result, err := scanBooking(tx.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Insert: %w", constraintErr(err))
	}

	if err := bumpTotals(ctx, tx, booking.TripID, booking.Cost, booking.Paid); err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Insert: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Insert: commit: %w", err)
	}
	return result, nil
}

func (r *pgBookingRepo) GetByClient(ctx context.Context, tripID, clientID uuid.UUID) (domain.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE trip_id = @trip_id AND client_id = @client_id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"trip_id": tripID, "client_id": clientID})
	result, err := scanBooking(row)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.GetByClient: %w", err)
	}
	return result, nil
}

func (r *pgBookingRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE trip_id = @trip_id ORDER BY seq`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.ListByTripID: %w", err)
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.BookingRepo.ListByTripID: scan: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.ListByTripID: rows: %w", err)
	}

	return bookings, nil
}

func (r *pgBookingRepo) Update(ctx context.Context, booking domain.Booking) (domain.Booking, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Update: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	// Lock the row and capture the delta base in the same transaction as the
	// write, so concurrent updates can never double-apply a delta.
	const lockQ = `SELECT cost, paid FROM bookings WHERE trip_id = @trip_id AND client_id = @client_id FOR UPDATE`

	var oldCost, oldPaid int64
	err = tx.QueryRow(ctx, lockQ, pgx.NamedArgs{"trip_id": booking.TripID, "client_id": booking.ClientID}).
		Scan(&oldCost, &oldPaid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = domain.ErrNotFound
		}
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Update: %w", err)
	}

	const q = `
		UPDATE bookings
		SET companions        = @companions,
		    cost              = @cost,
		    paid              = @paid,
		    is_returning      = @is_returning,
		    return_date       = @return_date,
		    boarding_location = @boarding_location,
		    notes             = @notes,
		    updated_at        = now()
		WHERE trip_id = @trip_id AND client_id = @client_id
		RETURNING ` + bookingColumns

	args := pgx.NamedArgs{
		"trip_id":           booking.TripID,
		"client_id":         booking.ClientID,
		"companions":        companionsJSON(booking.Companions),
		"cost":              booking.Cost,
		"paid":              booking.Paid,
		"is_returning":      booking.Returning,
		"return_date":       booking.ReturnDate,
		"boarding_location": booking.BoardingLocation,
		"notes":             booking.Notes,
	}

	result, err := scanBooking(tx.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Update: %w", err)
	}

	if err := bumpTotals(ctx, tx, booking.TripID, booking.Cost-oldCost, booking.Paid-oldPaid); err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Update: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Update: commit: %w", err)
	}
	return result, nil
}

func (r *pgBookingRepo) Delete(ctx context.Context, tripID, clientID uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repo.BookingRepo.Delete: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const q = `DELETE FROM bookings WHERE trip_id = @trip_id AND client_id = @client_id RETURNING cost, paid`

	var cost, paid int64
	err = tx.QueryRow(ctx, q, pgx.NamedArgs{"trip_id": tripID, "client_id": clientID}).Scan(&cost, &paid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = domain.ErrNotFound
		}
		return fmt.Errorf("repo.BookingRepo.Delete: %w", err)
	}

	if err := bumpTotals(ctx, tx, tripID, -cost, -paid); err != nil {
		return fmt.Errorf("repo.BookingRepo.Delete: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("repo.BookingRepo.Delete: commit: %w", err)
	}
	return nil
}

// bumpTotals applies a cost/paid delta to a trip's running totals.
// total_net is derived from the other two in the same statement so the three
// columns can never drift apart.
func bumpTotals(ctx context.Context, tx pgx.Tx, tripID uuid.UUID, dCost, dPaid int64) error {
	const q = `
		UPDATE trips
		SET total_cost = total_cost + @d_cost,
		    total_paid = total_paid + @d_paid,
		    total_net  = total_cost + @d_cost - (total_paid + @d_paid),
		    updated_at = now()
		WHERE id = @trip_id`

	tag, err := tx.Exec(ctx, q, pgx.NamedArgs{"trip_id": tripID, "d_cost": dCost, "d_paid": dPaid})
	if err != nil {
		return fmt.Errorf("totals: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("totals: %w", domain.ErrNotFound)
	}
	return nil
}

// companionsJSON normalizes the companions slice for the JSONB column so a
// nil slice is stored as [] rather than SQL NULL.
func companionsJSON(ps []domain.Person) []domain.Person {
	if ps == nil {
		return []domain.Person{}
	}
	return ps
}

// constraintErr maps Postgres constraint violations onto domain sentinels:
// duplicate (trip_id, client_id) → ErrConflict, broken trip/client FK → ErrNotFound.
func constraintErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return domain.ErrConflict
		case "23503":
			return domain.ErrNotFound
		}
	}
	return err
}

// scanBooking maps a single database row into a domain.Booking.
func scanBooking(s scanner) (domain.Booking, error) {
	var (
		b          domain.Booking
		id         pgtype.UUID
		tripID     pgtype.UUID
		clientID   pgtype.UUID
		returnDate pgtype.Date
	)

	err := s.Scan(&id, &tripID, &clientID, &b.Companions, &b.Cost, &b.Paid,
		&b.Returning, &returnDate, &b.BoardingLocation, &b.Notes, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Booking{}, domain.ErrNotFound
		}
		return domain.Booking{}, err
	}

	b.ID = uuid.UUID(id.Bytes)
	b.TripID = uuid.UUID(tripID.Bytes)
	b.ClientID = uuid.UUID(clientID.Bytes)
	if returnDate.Valid {
		rd := returnDate.Time
		b.ReturnDate = &rd
	}

	return b, nil
}
