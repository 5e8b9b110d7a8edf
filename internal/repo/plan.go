package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/alrihal/umrah-office/internal/domain"
)

// PlanRepo defines the persistence operations for accommodation plans.
// A plan is stored as a single row per trip with the group/slot list in a
// JSONB column, so every save is one atomic write that fully replaces the
// prior state — there is no partial-update path to leave a plan half-written.
type PlanRepo interface {
	// Get retrieves the persisted plan for a trip.
	// Returns domain.ErrNotFound if the trip has no saved plan yet.
	Get(ctx context.Context, tripID uuid.UUID) (domain.Plan, error)

	// Save upserts the whole plan for plan.TripID, replacing any prior state.
	// Returns domain.ErrNotFound if the trip itself does not exist.
	Save(ctx context.Context, plan domain.Plan) (domain.Plan, error)
}

// pgPlanRepo is the Postgres implementation of PlanRepo.
type pgPlanRepo struct {
	db db
}

// NewPlanRepo constructs a PlanRepo backed by the provided db connection.
func NewPlanRepo(db db) PlanRepo {
	return &pgPlanRepo{db: db}
}

const planColumns = `trip_id, supervisor_name, supervisor_phone,
		rooms_single, rooms_double, rooms_triple, rooms_quad, rooms_quint, rooms_six,
		groups, updated_at`

func (r *pgPlanRepo) Get(ctx context.Context, tripID uuid.UUID) (domain.Plan, error) {
	const q = `SELECT ` + planColumns + ` FROM accommodation_plans WHERE trip_id = @trip_id`

	result, err := scanPlan(r.db.QueryRow(ctx, q, pgx.NamedArgs{"trip_id": tripID}))
	if err != nil {
		return domain.Plan{}, fmt.Errorf("repo.PlanRepo.Get: %w", err)
	}
	return result, nil
}

func (r *pgPlanRepo) Save(ctx context.Context, plan domain.Plan) (domain.Plan, error) {
	const q = `
		INSERT INTO accommodation_plans
			(trip_id, supervisor_name, supervisor_phone,
			 rooms_single, rooms_double, rooms_triple, rooms_quad, rooms_quint, rooms_six,
			 groups)
		VALUES
			(@trip_id, @supervisor_name, @supervisor_phone,
			 @rooms_single, @rooms_double, @rooms_triple, @rooms_quad, @rooms_quint, @rooms_six,
			 @groups)
		ON CONFLICT (trip_id) DO UPDATE
		SET supervisor_name  = excluded.supervisor_name,
		    supervisor_phone = excluded.supervisor_phone,
		    rooms_single     = excluded.rooms_single,
		    rooms_double     = excluded.rooms_double,
		    rooms_triple     = excluded.rooms_triple,
		    rooms_quad       = excluded.rooms_quad,
		    rooms_quint      = excluded.rooms_quint,
		    rooms_six        = excluded.rooms_six,
		    groups           = excluded.groups,
		    updated_at       = now()
		RETURNING ` + planColumns

	groups := plan.Groups
	if groups == nil {
		groups = []domain.Group{}
	}

	args := pgx.NamedArgs{
		"trip_id":          plan.TripID,
		"supervisor_name":  plan.SupervisorName,
		"supervisor_phone": plan.SupervisorPhone,
		"rooms_single":     plan.Rooms.Single,
		"rooms_double":     plan.Rooms.Double,
		"rooms_triple":     plan.Rooms.Triple,
		"rooms_quad":       plan.Rooms.Quad,
		"rooms_quint":      plan.Rooms.Quint,
		"rooms_six":        plan.Rooms.Six,
		"groups":           groups,
	}

	result, err := scanPlan(r.db.QueryRow(ctx, q, args))
	if err != nil {
		// Broken trips FK means the trip itself is gone.
		return domain.Plan{}, fmt.Errorf("repo.PlanRepo.Save: %w", constraintErr(err))
	}
	return result, nil
}

// scanPlan maps a single database row into a domain.Plan.
// The groups JSONB column unmarshals straight into the domain slice.
func scanPlan(s scanner) (domain.Plan, error) {
	var (
		p      domain.Plan
		tripID pgtype.UUID
	)

	err := s.Scan(&tripID, &p.SupervisorName, &p.SupervisorPhone,
		&p.Rooms.Single, &p.Rooms.Double, &p.Rooms.Triple,
		&p.Rooms.Quad, &p.Rooms.Quint, &p.Rooms.Six,
		&p.Groups, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Plan{}, domain.ErrNotFound
		}
		return domain.Plan{}, err
	}

	p.TripID = uuid.UUID(tripID.Bytes)
	return p, nil
}
