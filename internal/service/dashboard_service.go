package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-desk/internal/cache"
	"github.com/spec-kit/complaint-desk/internal/dashboard"
	"github.com/spec-kit/complaint-desk/internal/domain"
	"github.com/spec-kit/complaint-desk/internal/events"
	"github.com/spec-kit/complaint-desk/internal/repository"
	apperrors "github.com/spec-kit/complaint-desk/pkg/util/errorutil"
)

const complaintStore = "complaint store"

// DashboardService loads complaint snapshots and applies status changes.
type DashboardService struct {
	complaints repository.ComplaintRepository
	history    repository.ComplaintHistoryRepository
	cache      cache.SnapshotCache
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// DashboardDependencies bundles collaborators for the dashboard service.
type DashboardDependencies struct {
	ComplaintRepo repository.ComplaintRepository
	HistoryRepo   repository.ComplaintHistoryRepository
	Cache         cache.SnapshotCache
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
}

// StatusUpdateResult is what an admin sees after a status action.
type StatusUpdateResult struct {
	Complaint domain.Complaint
	Previous  domain.ComplaintStatus
	Changed   bool
	Notice    dashboard.Notice
	Snapshot  *dashboard.Snapshot
}

// NewDashboardService constructs the service.
func NewDashboardService(deps DashboardDependencies) *DashboardService {
	snapshots := deps.Cache
	if snapshots == nil {
		snapshots = cache.Noop{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		complaints: deps.ComplaintRepo,
		history:    deps.HistoryRepo,
		cache:      snapshots,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

// Load returns the current snapshot, served from cache when one is valid.
// A store failure is reported as STORE_UNAVAILABLE, never as an empty list.
func (s *DashboardService) Load(ctx context.Context) (*dashboard.Snapshot, error) {
	cached, err := s.cache.Get(ctx)
	if err == nil {
		return dashboard.NewSnapshot(cached.Complaints, cached.LoadedAt), nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		s.logger.Warn("snapshot cache read failed", zap.Error(err))
	}
	return s.fetch(ctx)
}

// Refresh discards any cached snapshot and re-reads the store.
func (s *DashboardService) Refresh(ctx context.Context) (*dashboard.Snapshot, error) {
	s.invalidate(ctx)
	return s.fetch(ctx)
}

// View renders the dashboard for a filter.
func (s *DashboardService) View(ctx context.Context, filter dashboard.Filter) (dashboard.View, error) {
	snap, err := s.Load(ctx)
	if err != nil {
		return dashboard.View{}, err
	}
	return snap.Render(filter), nil
}

// UpdateStatus asks the store to move complaint id to target, then re-fetches.
// Re-applying the current status is accepted and rewrites the same value.
// Moves outside the workflow table are rejected with INVALID_TRANSITION.
func (s *DashboardService) UpdateStatus(ctx context.Context, actor *domain.Admin, id string, target domain.ComplaintStatus) (*StatusUpdateResult, error) {
	if !target.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": string(target)})
	}

	current, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		return nil, s.storeError(err, id)
	}
	if !domain.CanTransition(current.Status, target) {
		return nil, apperrors.NewUnprocessable("INVALID_TRANSITION", "status transition not allowed", map[string]any{
			"from": string(current.Status),
			"to":   string(target),
		})
	}

	if err := s.complaints.UpdateStatus(ctx, id, target); err != nil {
		return nil, s.storeError(err, id)
	}
	s.invalidate(ctx)

	changed := current.Status != target
	if changed {
		s.recordStatusChange(ctx, actor, id, current.Status, target)
		s.publishEvent(ctx, events.Event{
			Type:        events.EventComplaintStatusChanged,
			ComplaintID: id,
			Actor:       adminActor(actor),
			Payload: events.ComplaintStatusChangedPayload{
				OldStatus: current.Status,
				NewStatus: target,
			},
		})
	}

	snap, err := s.fetch(ctx)
	if err != nil {
		var de *apperrors.DomainError
		if errors.As(err, &de) {
			de.Details = map[string]any{"status_applied": true}
		}
		return nil, err
	}

	updated, ok := snap.Find(id)
	if !ok {
		updated = *current
		updated.Status = target
	}

	return &StatusUpdateResult{
		Complaint: updated,
		Previous:  current.Status,
		Changed:   changed,
		Notice:    dashboard.StatusUpdatedNotice(updated.Status),
		Snapshot:  snap,
	}, nil
}

// ApplyAction resolves a dashboard action and applies it.
func (s *DashboardService) ApplyAction(ctx context.Context, actor *domain.Admin, id string, action dashboard.ActionName) (*StatusUpdateResult, error) {
	target, ok := dashboard.TargetFor(action)
	if !ok {
		return nil, apperrors.NewValidationError("unknown action", map[string]any{"action": string(action)})
	}
	return s.UpdateStatus(ctx, actor, id, target)
}

// fetch reads the store and caches the result unless a write invalidated
// the cache while the read was in flight.
func (s *DashboardService) fetch(ctx context.Context) (*dashboard.Snapshot, error) {
	generation, genErr := s.cache.Generation(ctx)
	if genErr != nil {
		s.logger.Warn("snapshot cache generation read failed", zap.Error(genErr))
	}

	complaints, err := s.complaints.List(ctx)
	if err != nil {
		return nil, apperrors.NewUnavailable(complaintStore, err)
	}
	loadedAt := s.now()

	if genErr == nil {
		err := s.cache.Set(ctx, generation, cache.Entry{Complaints: complaints, LoadedAt: loadedAt})
		switch {
		case errors.Is(err, cache.ErrStale):
			s.logger.Debug("skipped caching a snapshot overtaken by a write")
		case err != nil:
			s.logger.Warn("snapshot cache write failed", zap.Error(err))
		}
	}
	return dashboard.NewSnapshot(complaints, loadedAt), nil
}

func (s *DashboardService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("snapshot cache invalidation failed", zap.Error(err))
	}
}

func (s *DashboardService) storeError(err error, id string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound("complaint", map[string]any{"id": id})
	}
	return apperrors.NewUnavailable(complaintStore, err)
}

// recordStatusChange is best effort. The status is already stored when it runs.
func (s *DashboardService) recordStatusChange(ctx context.Context, actor *domain.Admin, id string, oldStatus, newStatus domain.ComplaintStatus) {
	if s.history == nil {
		return
	}
	entry := &domain.ComplaintHistory{
		ComplaintID: id,
		OldStatus:   oldStatus,
		NewStatus:   newStatus,
		ChangedBy:   adminActor(actor).WorkID,
	}
	if err := s.history.Create(ctx, entry); err != nil {
		s.logger.Error("record status change", zap.String("complaint_id", id), zap.Error(err))
	}
}

func (s *DashboardService) publishEvent(ctx context.Context, event events.Event) {
	publish(ctx, s.dispatcher, s.logger, event)
}

func publish(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, event events.Event) {
	if dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if err := dispatcher.Publish(ctx, event); err != nil {
		logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func adminActor(admin *domain.Admin) events.Actor {
	if admin == nil {
		return events.Actor{}
	}
	return events.Actor{WorkID: admin.WorkID, Role: admin.Role}
}
