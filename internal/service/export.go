package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/alrihal/umrah-office/internal/domain"
	"github.com/alrihal/umrah-office/internal/repo"
)

// exportConcurrency bounds how many trips are assembled in parallel so the
// export cannot drain the whole connection pool.
const exportConcurrency = 4

// ExportService assembles the flat manifest the presentation layer renders:
// one row per booking across all trips, trips with no bookings contributing
// one row each. Read-only; it never mutates ledger or allocator state.
type ExportService struct {
	trips    repo.TripRepo
	bookings repo.BookingRepo
	clients  repo.ClientRepo
}

// NewExportService constructs an ExportService backed by the provided repos.
func NewExportService(trips repo.TripRepo, bookings repo.BookingRepo, clients repo.ClientRepo) *ExportService {
	return &ExportService{trips: trips, bookings: bookings, clients: clients}
}

// Manifest returns the export rows ordered by trip (most recent first), each
// trip's bookings in insertion order. Trips are assembled concurrently;
// ordering is preserved by indexing results per trip.
func (s *ExportService) Manifest(ctx context.Context) ([]domain.ManifestRow, error) {
	trips, err := s.trips.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Manifest: %w", err)
	}

	perTrip := make([][]domain.ManifestRow, len(trips))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(exportConcurrency)
	for i, trip := range trips {
		g.Go(func() error {
			rows, err := s.tripRows(gctx, trip)
			if err != nil {
				return err
			}
			perTrip[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("service.ExportService.Manifest: %w", err)
	}

	out := []domain.ManifestRow{}
	for _, rows := range perTrip {
		out = append(out, rows...)
	}
	return out, nil
}

// tripRows builds the manifest rows for one trip.
func (s *ExportService) tripRows(ctx context.Context, trip domain.Trip) ([]domain.ManifestRow, error) {
	base := domain.ManifestRow{
		TripID:        trip.ID.String(),
		TripName:      trip.Name,
		TripStartDate: trip.StartDate.Format("2006-01-02"),
		TotalCost:     trip.TotalCost,
		TotalPaid:     trip.TotalPaid,
		TotalNet:      trip.TotalNet,
	}

	bookings, err := s.bookings.ListByTripID(ctx, trip.ID)
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return []domain.ManifestRow{base}, nil
	}

	rows := make([]domain.ManifestRow, 0, len(bookings))
	for _, b := range bookings {
		row := base
		client, err := s.clients.GetByID(ctx, b.ClientID)
		if err != nil {
			return nil, err
		}
		row.ClientName = client.Name
		row.ClientPhone = client.Phone
		row.Companions = len(b.Companions)
		row.Cost = b.Cost
		row.Paid = b.Paid
		row.Net = b.Net()
		row.Returning = b.Returning
		if b.ReturnDate != nil {
			row.ReturnDate = b.ReturnDate.Format("2006-01-02")
		}
		row.BoardingLocation = b.BoardingLocation
		rows = append(rows, row)
	}
	return rows, nil
}
