package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alrihal/umrah-office/internal/domain"
	"github.com/alrihal/umrah-office/internal/repo"
)

// bookingRepos bundles the three repos a booking test needs, all sharing one
// rolled-back transaction.
type bookingRepos struct {
	trips    repo.TripRepo
	clients  repo.ClientRepo
	bookings repo.BookingRepo
}

func newBookingRepos(t *testing.T) bookingRepos {
	t.Helper()
	tx := newTestTx(t)
	return bookingRepos{
		trips:    repo.NewTripRepo(tx),
		clients:  repo.NewClientRepo(tx),
		bookings: repo.NewBookingRepo(tx),
	}
}

// seedTripAndClient creates one trip and one client for a booking to hang off.
func seedTripAndClient(t *testing.T, r bookingRepos) (domain.Trip, domain.Client) {
	t.Helper()
	ctx := context.Background()
	trip, err := r.trips.Create(ctx, tripFixture())
	require.NoError(t, err)
	client, err := r.clients.Create(ctx, domain.Client{Name: "Ahmed Al-Harbi", Phone: "+966501234567"})
	require.NoError(t, err)
	return trip, client
}

// requireTotals fetches the trip and checks all three running totals.
func requireTotals(t *testing.T, trips repo.TripRepo, tripID uuid.UUID, cost, paid, net int64) {
	t.Helper()
	trip, err := trips.GetByID(context.Background(), tripID)
	require.NoError(t, err)
	assert.Equal(t, cost, trip.TotalCost, "total_cost")
	assert.Equal(t, paid, trip.TotalPaid, "total_paid")
	assert.Equal(t, net, trip.TotalNet, "total_net")
}

func TestBookingRepo_Insert_BumpsTotals(t *testing.T) {
	r := newBookingRepos(t)
	trip, client := seedTripAndClient(t, r)
	ctx := context.Background()

	rd := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	got, err := r.bookings.Insert(ctx, domain.Booking{
		TripID:   trip.ID,
		ClientID: client.ID,
		Companions: []domain.Person{
			{ID: uuid.New(), Name: "Fatimah", Nationality: "Saudi"},
		},
		Cost:             500,
		Paid:             200,
		Returning:        true,
		ReturnDate:       &rd,
		BoardingLocation: "Jeddah",
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Equal(t, trip.ID, got.TripID)
	require.Len(t, got.Companions, 1)
	assert.Equal(t, "Fatimah", got.Companions[0].Name)
	require.NotNil(t, got.ReturnDate)
	assert.True(t, got.ReturnDate.Equal(rd))

	requireTotals(t, r.trips, trip.ID, 500, 200, 300)
}

func TestBookingRepo_Insert_DuplicateClient(t *testing.T) {
	r := newBookingRepos(t)
	trip, client := seedTripAndClient(t, r)
	ctx := context.Background()

	_, err := r.bookings.Insert(ctx, domain.Booking{TripID: trip.ID, ClientID: client.ID, Cost: 500, Paid: 200})
	require.NoError(t, err)

	_, err = r.bookings.Insert(ctx, domain.Booking{TripID: trip.ID, ClientID: client.ID, Cost: 999})

	assert.ErrorIs(t, err, domain.ErrConflict)
	// The failed insert must not have touched the totals.
	requireTotals(t, r.trips, trip.ID, 500, 200, 300)
}

func TestBookingRepo_Insert_UnknownTrip(t *testing.T) {
	r := newBookingRepos(t)
	_, client := seedTripAndClient(t, r)

	_, err := r.bookings.Insert(context.Background(), domain.Booking{
		TripID:   uuid.New(),
		ClientID: client.ID,
	})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBookingRepo_Insert_NilCompanionsStoredAsEmptyList(t *testing.T) {
	r := newBookingRepos(t)
	trip, client := seedTripAndClient(t, r)
	ctx := context.Background()

	_, err := r.bookings.Insert(ctx, domain.Booking{TripID: trip.ID, ClientID: client.ID})
	require.NoError(t, err)

	got, err := r.bookings.GetByClient(ctx, trip.ID, client.ID)

	require.NoError(t, err)
	assert.NotNil(t, got.Companions)
	assert.Empty(t, got.Companions)
}

func TestBookingRepo_GetByClient_NotFound(t *testing.T) {
	r := newBookingRepos(t)
	trip, _ := seedTripAndClient(t, r)

	_, err := r.bookings.GetByClient(context.Background(), trip.ID, uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBookingRepo_ListByTripID_InsertionOrder(t *testing.T) {
	r := newBookingRepos(t)
	trip, first := seedTripAndClient(t, r)
	ctx := context.Background()

	second, err := r.clients.Create(ctx, domain.Client{Name: "Salem Al-Qahtani"})
	require.NoError(t, err)

	_, err = r.bookings.Insert(ctx, domain.Booking{TripID: trip.ID, ClientID: first.ID, Cost: 500})
	require.NoError(t, err)
	_, err = r.bookings.Insert(ctx, domain.Booking{TripID: trip.ID, ClientID: second.ID, Cost: 300})
	require.NoError(t, err)

	bookings, err := r.bookings.ListByTripID(ctx, trip.ID)

	require.NoError(t, err)
	require.Len(t, bookings, 2)
	assert.Equal(t, first.ID, bookings[0].ClientID)
	assert.Equal(t, second.ID, bookings[1].ClientID)
}

func TestBookingRepo_Update_AdjustsTotalsByDelta(t *testing.T) {
	r := newBookingRepos(t)
	trip, client := seedTripAndClient(t, r)
	ctx := context.Background()

	created, err := r.bookings.Insert(ctx, domain.Booking{TripID: trip.ID, ClientID: client.ID, Cost: 500, Paid: 200})
	require.NoError(t, err)

	created.Paid = 400
	got, err := r.bookings.Update(ctx, created)

	require.NoError(t, err)
	assert.Equal(t, int64(400), got.Paid)
	requireTotals(t, r.trips, trip.ID, 500, 400, 100)
}

func TestBookingRepo_Update_ClearsReturnDate(t *testing.T) {
	r := newBookingRepos(t)
	trip, client := seedTripAndClient(t, r)
	ctx := context.Background()

	rd := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	created, err := r.bookings.Insert(ctx, domain.Booking{
		TripID: trip.ID, ClientID: client.ID, Returning: true, ReturnDate: &rd,
	})
	require.NoError(t, err)

	created.Returning = false
	created.ReturnDate = nil
	got, err := r.bookings.Update(ctx, created)

	require.NoError(t, err)
	assert.False(t, got.Returning)
	assert.Nil(t, got.ReturnDate, "NULL round-trips as nil")
}

func TestBookingRepo_Update_NotFound(t *testing.T) {
	r := newBookingRepos(t)
	trip, _ := seedTripAndClient(t, r)

	_, err := r.bookings.Update(context.Background(), domain.Booking{
		TripID:   trip.ID,
		ClientID: uuid.New(),
		Cost:     100,
	})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBookingRepo_Delete_SubtractsTotals(t *testing.T) {
	r := newBookingRepos(t)
	trip, client := seedTripAndClient(t, r)
	ctx := context.Background()

	second, err := r.clients.Create(ctx, domain.Client{Name: "Salem Al-Qahtani"})
	require.NoError(t, err)
	_, err = r.bookings.Insert(ctx, domain.Booking{TripID: trip.ID, ClientID: client.ID, Cost: 500, Paid: 200})
	require.NoError(t, err)
	_, err = r.bookings.Insert(ctx, domain.Booking{TripID: trip.ID, ClientID: second.ID, Cost: 300, Paid: 300})
	require.NoError(t, err)

	require.NoError(t, r.bookings.Delete(ctx, trip.ID, client.ID))

	requireTotals(t, r.trips, trip.ID, 300, 300, 0)
	_, err = r.bookings.GetByClient(ctx, trip.ID, client.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBookingRepo_Delete_NotFound(t *testing.T) {
	r := newBookingRepos(t)
	trip, _ := seedTripAndClient(t, r)

	err := r.bookings.Delete(context.Background(), trip.ID, uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Deleting a trip cascades to its bookings; the client rows survive.
func TestBookingRepo_TripDeleteCascades(t *testing.T) {
	r := newBookingRepos(t)
	trip, client := seedTripAndClient(t, r)
	ctx := context.Background()

	_, err := r.bookings.Insert(ctx, domain.Booking{TripID: trip.ID, ClientID: client.ID, Cost: 500})
	require.NoError(t, err)

	require.NoError(t, r.trips.Delete(ctx, trip.ID))

	_, err = r.bookings.GetByClient(ctx, trip.ID, client.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = r.clients.GetByID(ctx, client.ID)
	assert.NoError(t, err)
}
