package repository

import (
	"context"
	"errors"

	"github.com/spec-kit/complaint-desk/internal/domain"
)

// ErrNotFound is returned by every backend when a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a unique key is already taken.
var ErrDuplicate = errors.New("record already exists")

// ComplaintRepository is the complaint store contract the dashboard consumes.
type ComplaintRepository interface {
	// List returns the full current collection, newest first.
	List(ctx context.Context) ([]domain.Complaint, error)
	GetByID(ctx context.Context, id string) (*domain.Complaint, error)
	Create(ctx context.Context, complaint *domain.Complaint) error
	// UpdateStatus persists a status change. Unknown ids yield ErrNotFound.
	UpdateStatus(ctx context.Context, id string, status domain.ComplaintStatus) error
	Ping(ctx context.Context) error
}

// ComplaintHistoryRepository stores status audit entries.
type ComplaintHistoryRepository interface {
	Create(ctx context.Context, entry *domain.ComplaintHistory) error
	ListByComplaint(ctx context.Context, complaintID string) ([]domain.ComplaintHistory, error)
}

// AdminRepository defines persistence access for dashboard operators.
type AdminRepository interface {
	Create(ctx context.Context, admin *domain.Admin) error
	GetByID(ctx context.Context, id string) (*domain.Admin, error)
	GetByWorkID(ctx context.Context, workID string) (*domain.Admin, error)
}
