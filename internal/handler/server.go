// Package handler implements the HTTP handlers for the umrah back-office API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (trip.go, booking.go, plan.go, ...) but all share the same Server
// struct so they can access its dependencies.
package handler

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/alrihal/umrah-office/internal/domain"
)

// TripServicer defines the business operations the trip handlers depend on.
// Defining interfaces here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	List(ctx context.Context) ([]domain.Trip, error)
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// LedgerServicer defines the booking-ledger operations the handlers depend on.
type LedgerServicer interface {
	AddBooking(ctx context.Context, booking domain.Booking) (domain.TripView, error)
	UpdateBooking(ctx context.Context, tripID, clientID uuid.UUID, patch domain.BookingPatch) (domain.TripView, error)
	RemoveBooking(ctx context.Context, tripID, clientID uuid.UUID) error
	TripView(ctx context.Context, tripID uuid.UUID) (domain.TripView, error)
}

// AllocatorServicer defines the accommodation-plan operations the handlers
// depend on.
type AllocatorServicer interface {
	PlanForTrip(ctx context.Context, tripID uuid.UUID) (domain.Plan, error)
	SavePlan(ctx context.Context, plan domain.Plan) (domain.Plan, error)
	DeleteGroup(ctx context.Context, tripID uuid.UUID, groupName string) (domain.Plan, error)
	DeleteSlot(ctx context.Context, tripID uuid.UUID, groupName string, slotIndex int) (domain.Plan, error)
}

// ClientServicer defines the client-record operations the handlers depend on.
type ClientServicer interface {
	Create(ctx context.Context, client domain.Client) (domain.Client, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Client, error)
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Client, int64, error)
	Update(ctx context.Context, client domain.Client) (domain.Client, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ExportServicer defines the manifest export the handlers depend on.
type ExportServicer interface {
	Manifest(ctx context.Context) ([]domain.ManifestRow, error)
}

// Server holds the dependencies for all API endpoints.
// Methods are in domain-specific files but all operate on this struct.
type Server struct {
	trips     TripServicer
	ledger    LedgerServicer
	allocator AllocatorServicer
	clients   ClientServicer
	export    ExportServicer
	validate  *validator.Validate
}

// NewServer constructs the Server with all its dependencies.
func NewServer(trips TripServicer, ledger LedgerServicer, allocator AllocatorServicer, clients ClientServicer, export ExportServicer) *Server {
	return &Server{
		trips:     trips,
		ledger:    ledger,
		allocator: allocator,
		clients:   clients,
		export:    export,
		validate:  validator.New(),
	}
}

// Routes returns the chi router with every endpoint mounted.
// Wire it in main.go under the server's middleware stack.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/export", s.ExportManifest)

	r.Route("/clients", func(r chi.Router) {
		r.Get("/", s.ListClients)
		r.Post("/", s.CreateClient)
		r.Get("/{clientID}", s.GetClient)
		r.Put("/{clientID}", s.UpdateClient)
		r.Delete("/{clientID}", s.DeleteClient)
	})

	r.Route("/trips", func(r chi.Router) {
		r.Get("/", s.ListTrips)
		r.Post("/", s.CreateTrip)
		r.Route("/{tripID}", func(r chi.Router) {
			r.Get("/", s.GetTrip)
			r.Put("/", s.UpdateTrip)
			r.Delete("/", s.DeleteTrip)

			r.Post("/bookings", s.AddBooking)
			r.Patch("/bookings/{clientID}", s.UpdateBooking)
			r.Delete("/bookings/{clientID}", s.RemoveBooking)

			r.Get("/plan", s.GetPlan)
			r.Put("/plan", s.SavePlan)
			r.Delete("/plan/groups/{groupName}", s.DeleteGroup)
			r.Delete("/plan/groups/{groupName}/slots/{slotIndex}", s.DeleteSlot)
		})
	})

	return r
}
