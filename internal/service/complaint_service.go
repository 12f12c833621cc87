package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-desk/internal/cache"
	"github.com/spec-kit/complaint-desk/internal/domain"
	"github.com/spec-kit/complaint-desk/internal/events"
	"github.com/spec-kit/complaint-desk/internal/repository"
	apperrors "github.com/spec-kit/complaint-desk/pkg/util/errorutil"
)

// submitAttempts bounds how many fresh ids Submit tries after collisions.
const submitAttempts = 3

// ComplaintService handles citizen submissions and complaint history.
type ComplaintService struct {
	complaints repository.ComplaintRepository
	history    repository.ComplaintHistoryRepository
	cache      cache.SnapshotCache
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
	newID      func() string
}

// ComplaintDependencies bundles collaborators for the complaint service.
type ComplaintDependencies struct {
	ComplaintRepo repository.ComplaintRepository
	HistoryRepo   repository.ComplaintHistoryRepository
	Cache         cache.SnapshotCache
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
}

// ComplaintSubmitInput describes a citizen submission.
type ComplaintSubmitInput struct {
	Title       string
	Description string
	Location    string
	Department  string
}

// NewComplaintService constructs the service.
func NewComplaintService(deps ComplaintDependencies) *ComplaintService {
	snapshots := deps.Cache
	if snapshots == nil {
		snapshots = cache.Noop{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ComplaintService{
		complaints: deps.ComplaintRepo,
		history:    deps.HistoryRepo,
		cache:      snapshots,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        time.Now,
		newID:      generateComplaintID,
	}
}

// Submit stores a new pending complaint.
func (s *ComplaintService) Submit(ctx context.Context, input ComplaintSubmitInput) (*domain.Complaint, error) {
	complaint := &domain.Complaint{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Location:    strings.TrimSpace(input.Location),
		Department:  strings.TrimSpace(input.Department),
		Status:      domain.ComplaintStatusPending,
		CreatedAt:   s.now().UTC(),
	}

	missing := []string{}
	if complaint.Title == "" {
		missing = append(missing, "title")
	}
	if complaint.Department == "" {
		missing = append(missing, "department")
	}
	if len(missing) > 0 {
		return nil, apperrors.NewValidationError("missing required fields", map[string]any{"fields": missing})
	}

	if err := s.create(ctx, complaint); err != nil {
		return nil, err
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("snapshot cache invalidation failed", zap.Error(err))
	}

	publish(ctx, s.dispatcher, s.logger, events.Event{
		Type:        events.EventComplaintCreated,
		ComplaintID: complaint.ID,
		Payload: events.ComplaintCreatedPayload{
			Title:      complaint.Title,
			Department: complaint.Department,
			Location:   complaint.Location,
		},
	})
	return complaint, nil
}

// create stores complaint under a fresh id, drawing a new one on collision.
func (s *ComplaintService) create(ctx context.Context, complaint *domain.Complaint) error {
	for attempt := 1; attempt <= submitAttempts; attempt++ {
		complaint.ID = s.newID()
		err := s.complaints.Create(ctx, complaint)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			return apperrors.NewUnavailable(complaintStore, err)
		}
		s.logger.Warn("complaint id collision", zap.String("complaint_id", complaint.ID), zap.Int("attempt", attempt))
	}
	return apperrors.NewConflict("could not allocate a complaint id", map[string]any{"attempts": submitAttempts})
}

// History returns the status audit trail of a complaint, oldest first.
func (s *ComplaintService) History(ctx context.Context, complaintID string) ([]domain.ComplaintHistory, error) {
	if _, err := s.complaints.GetByID(ctx, complaintID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"id": complaintID})
		}
		return nil, apperrors.NewUnavailable(complaintStore, err)
	}
	if s.history == nil {
		return []domain.ComplaintHistory{}, nil
	}
	entries, err := s.history.ListByComplaint(ctx, complaintID)
	if err != nil {
		return nil, apperrors.NewUnavailable("history store", err)
	}
	return entries, nil
}

func generateComplaintID() string {
	return "CMP-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
