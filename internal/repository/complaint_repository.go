package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/complaint-desk/internal/domain"
)

type complaintRepository struct {
	pool *pgxpool.Pool
}

// NewComplaintRepository returns a Postgres-backed complaint store.
func NewComplaintRepository(pool *pgxpool.Pool) ComplaintRepository {
	return &complaintRepository{pool: pool}
}

func (r *complaintRepository) List(ctx context.Context) ([]domain.Complaint, error) {
	const query = `
        SELECT id, title, description, location, department, status, created_at
        FROM complaints ORDER BY created_at DESC, id ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComplaints(rows)
}

func (r *complaintRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	const query = `
        SELECT id, title, description, location, department, status, created_at
        FROM complaints WHERE id=$1`
	var c domain.Complaint
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.Title,
		&c.Description,
		&c.Location,
		&c.Department,
		&c.Status,
		&c.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *complaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        INSERT INTO complaints (id, title, description, location, department, status)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING created_at`
	err := r.pool.QueryRow(ctx, query,
		complaint.ID,
		complaint.Title,
		complaint.Description,
		complaint.Location,
		complaint.Department,
		complaint.Status,
	).Scan(&complaint.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicate
	}
	return err
}

func (r *complaintRepository) UpdateStatus(ctx context.Context, id string, status domain.ComplaintStatus) error {
	const query = `UPDATE complaints SET status=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *complaintRepository) Ping(ctx context.Context) error {
	if r.pool == nil {
		return errors.New("postgres pool not configured")
	}
	return r.pool.Ping(ctx)
}

func scanComplaints(rows pgx.Rows) ([]domain.Complaint, error) {
	result := []domain.Complaint{}
	for rows.Next() {
		var c domain.Complaint
		if err := rows.Scan(
			&c.ID,
			&c.Title,
			&c.Description,
			&c.Location,
			&c.Department,
			&c.Status,
			&c.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}
