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

// ClientRepo defines the persistence operations for Clients.
// Clients are read-mostly identity records; bookings reference them by ID.
type ClientRepo interface {
	// Create inserts a new client and returns the persisted record.
	Create(ctx context.Context, client domain.Client) (domain.Client, error)

	// GetByID retrieves a single client by its UUID primary key.
	// Returns domain.ErrNotFound if no client with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Client, error)

	// ListPaged returns one page of clients ordered by name, plus the total
	// row count for pagination metadata.
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Client, int64, error)

	// Update overwrites the mutable fields of an existing client.
	// Returns domain.ErrNotFound if no client with that ID exists.
	Update(ctx context.Context, client domain.Client) (domain.Client, error)

	// Delete removes a client by ID. Returns domain.ErrNotFound if it does
	// not exist and domain.ErrConflict while any booking still references it.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgClientRepo is the Postgres implementation of ClientRepo.
type pgClientRepo struct {
	db db
}

// NewClientRepo constructs a ClientRepo backed by the provided db connection.
func NewClientRepo(db db) ClientRepo {
	return &pgClientRepo{db: db}
}

const clientColumns = `id, name, phone, id_number, nationality, created_at, updated_at`

func (r *pgClientRepo) Create(ctx context.Context, client domain.Client) (domain.Client, error) {
	const q = `
		INSERT INTO clients (name, phone, id_number, nationality)
		VALUES (@name, @phone, @id_number, @nationality)
		RETURNING ` + clientColumns

	args := pgx.NamedArgs{
		"name":        client.Name,
		"phone":       client.Phone,
		"id_number":   client.IDNumber,
		"nationality": client.Nationality,
	}

	result, err := scanClient(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Client{}, fmt.Errorf("repo.ClientRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgClientRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Client, error) {
	const q = `SELECT ` + clientColumns + ` FROM clients WHERE id = @id`

	result, err := scanClient(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Client{}, fmt.Errorf("repo.ClientRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgClientRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Client, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM clients`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.ClientRepo.ListPaged: count: %w", err)
	}

	const q = `SELECT ` + clientColumns + ` FROM clients ORDER BY name, id LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.ClientRepo.ListPaged: %w", err)
	}
	defer rows.Close()

	var clients []domain.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.ClientRepo.ListPaged: scan: %w", err)
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.ClientRepo.ListPaged: rows: %w", err)
	}

	return clients, total, nil
}

func (r *pgClientRepo) Update(ctx context.Context, client domain.Client) (domain.Client, error) {
	const q = `
		UPDATE clients
		SET name        = @name,
		    phone       = @phone,
		    id_number   = @id_number,
		    nationality = @nationality,
		    updated_at  = now()
		WHERE id = @id
		RETURNING ` + clientColumns

	args := pgx.NamedArgs{
		"id":          client.ID,
		"name":        client.Name,
		"phone":       client.Phone,
		"id_number":   client.IDNumber,
		"nationality": client.Nationality,
	}

	result, err := scanClient(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Client{}, fmt.Errorf("repo.ClientRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgClientRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM clients WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		// The bookings FK is ON DELETE RESTRICT: deleting a client that is
		// still booked somewhere surfaces as a conflict, not an internal error.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			err = domain.ErrConflict
		}
		return fmt.Errorf("repo.ClientRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ClientRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanClient maps a single database row into a domain.Client.
func scanClient(s scanner) (domain.Client, error) {
	var (
		c  domain.Client
		id pgtype.UUID
	)

	err := s.Scan(&id, &c.Name, &c.Phone, &c.IDNumber, &c.Nationality, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Client{}, domain.ErrNotFound
		}
		return domain.Client{}, err
	}

	c.ID = uuid.UUID(id.Bytes)
	return c, nil
}
