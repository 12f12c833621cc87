package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spec-kit/complaint-desk/internal/cache"
	"github.com/spec-kit/complaint-desk/internal/dashboard"
	"github.com/spec-kit/complaint-desk/internal/domain"
	"github.com/spec-kit/complaint-desk/internal/events"
	"github.com/spec-kit/complaint-desk/internal/repository"
	apperrors "github.com/spec-kit/complaint-desk/pkg/util/errorutil"
)

var errStoreDown = errors.New("connection refused")

// flakyComplaintRepo wraps the memory store and fails selected calls.
type flakyComplaintRepo struct {
	*repository.MemoryComplaintRepository
	failList   bool
	failUpdate bool
	listCalls  int
}

func (r *flakyComplaintRepo) List(ctx context.Context) ([]domain.Complaint, error) {
	r.listCalls++
	if r.failList {
		return nil, errStoreDown
	}
	return r.MemoryComplaintRepository.List(ctx)
}

func (r *flakyComplaintRepo) UpdateStatus(ctx context.Context, id string, status domain.ComplaintStatus) error {
	if r.failUpdate {
		return errStoreDown
	}
	return r.MemoryComplaintRepository.UpdateStatus(ctx, id, status)
}

// stallingComplaintRepo holds its first List call open after the read
// until release is closed.
type stallingComplaintRepo struct {
	*repository.MemoryComplaintRepository
	calls   atomic.Int32
	reached chan struct{}
	release chan struct{}
}

func (r *stallingComplaintRepo) List(ctx context.Context) ([]domain.Complaint, error) {
	complaints, err := r.MemoryComplaintRepository.List(ctx)
	if r.calls.Add(1) == 1 {
		close(r.reached)
		<-r.release
	}
	return complaints, err
}

type memorySnapshotCache struct {
	mu          sync.Mutex
	entry       cache.Entry
	cached      bool
	generation  int64
	invalidated int
}

func (c *memorySnapshotCache) Get(context.Context) (*cache.Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.cached {
		return nil, cache.ErrMiss
	}
	entry := c.entry
	entry.Complaints = append([]domain.Complaint(nil), c.entry.Complaints...)
	return &entry, nil
}

func (c *memorySnapshotCache) Generation(context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation, nil
}

func (c *memorySnapshotCache) Set(_ context.Context, generation int64, entry cache.Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if generation != c.generation {
		return cache.ErrStale
	}
	entry.Complaints = append([]domain.Complaint(nil), entry.Complaints...)
	c.entry = entry
	c.cached = true
	return nil
}

func (c *memorySnapshotCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entry = cache.Entry{}
	c.cached = false
	c.generation++
	c.invalidated++
	return nil
}

func seedComplaints() []domain.Complaint {
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	return []domain.Complaint{
		{ID: "1", Title: "Pothole", Location: "Main St", Department: "Roads", Status: domain.ComplaintStatusPending, CreatedAt: base.Add(2 * time.Hour)},
		{ID: "2", Title: "Leak", Location: "5th Ave", Department: "Water", Status: domain.ComplaintStatusResolved, CreatedAt: base.Add(time.Hour)},
	}
}

type dashboardFixture struct {
	repo     *flakyComplaintRepo
	history  *repository.MemoryComplaintHistoryRepository
	cache    *memorySnapshotCache
	events   []events.Event
	service  *DashboardService
	operator *domain.Admin
}

func newDashboardFixture(t *testing.T) *dashboardFixture {
	t.Helper()
	f := &dashboardFixture{
		repo:     &flakyComplaintRepo{MemoryComplaintRepository: repository.NewMemoryComplaintRepository(seedComplaints()...)},
		history:  repository.NewMemoryComplaintHistoryRepository(),
		cache:    &memorySnapshotCache{},
		operator: &domain.Admin{ID: "a-1", WorkID: "W-100", Role: domain.AdminRoleAdmin, Active: true},
	}
	dispatcher := events.NewInMemoryDispatcher()
	record := func(_ context.Context, e events.Event) error {
		f.events = append(f.events, e)
		return nil
	}
	dispatcher.Subscribe(events.EventComplaintStatusChanged, record)
	dispatcher.Subscribe(events.EventComplaintCreated, record)

	f.service = NewDashboardService(DashboardDependencies{
		ComplaintRepo: f.repo,
		HistoryRepo:   f.history,
		Cache:         f.cache,
		Dispatcher:    dispatcher,
	})
	return f
}

func domainCode(t *testing.T, err error) *apperrors.DomainError {
	t.Helper()
	var de *apperrors.DomainError
	if !errors.As(err, &de) {
		t.Fatalf("expected domain error, got %v", err)
	}
	return de
}

func TestLoadViewAggregates(t *testing.T) {
	f := newDashboardFixture(t)

	view, err := f.service.View(context.Background(), dashboard.FilterAll)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if view.Stats.Total != 2 || view.Stats.Pending != 1 || view.Stats.InProgress != 0 || view.Stats.Resolved != 1 {
		t.Fatalf("unexpected stats %+v", view.Stats)
	}
	if len(view.Departments) != 2 || view.Departments[0].Name != "Roads" || view.Departments[1].Name != "Water" {
		t.Fatalf("unexpected departments %+v", view.Departments)
	}

	pending, err := f.service.View(context.Background(), dashboard.FilterPending)
	if err != nil {
		t.Fatalf("view pending: %v", err)
	}
	if len(pending.Cards) != 1 || pending.Cards[0].Complaint.ID != "1" {
		t.Fatalf("unexpected pending cards %+v", pending.Cards)
	}
	if pending.Stats.Total != 2 {
		t.Fatalf("stats must cover the whole collection, got %+v", pending.Stats)
	}
}

func TestLoadUsesCacheUntilInvalidated(t *testing.T) {
	f := newDashboardFixture(t)
	ctx := context.Background()

	if _, err := f.service.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := f.service.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if f.repo.listCalls != 1 {
		t.Fatalf("expected one store read, got %d", f.repo.listCalls)
	}

	if _, err := f.service.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if f.repo.listCalls != 2 {
		t.Fatalf("expected refresh to hit store, got %d reads", f.repo.listCalls)
	}
}

func TestCachedSnapshotKeepsLoadTime(t *testing.T) {
	f := newDashboardFixture(t)
	ctx := context.Background()
	loaded := time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC)
	f.service.now = func() time.Time { return loaded }

	first, err := f.service.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	f.service.now = func() time.Time { return loaded.Add(30 * time.Minute) }
	second, err := f.service.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if f.repo.listCalls != 1 {
		t.Fatalf("expected the second load to come from cache, got %d reads", f.repo.listCalls)
	}
	if !first.LoadedAt.Equal(loaded) || !second.LoadedAt.Equal(loaded) {
		t.Fatalf("expected both snapshots loaded at %s, got %s and %s", loaded, first.LoadedAt, second.LoadedAt)
	}
}

func TestLoadRacingAWriteDoesNotCacheStaleSnapshot(t *testing.T) {
	ctx := context.Background()
	repo := &stallingComplaintRepo{
		MemoryComplaintRepository: repository.NewMemoryComplaintRepository(seedComplaints()...),
		reached:                   make(chan struct{}),
		release:                   make(chan struct{}),
	}
	snapshots := &memorySnapshotCache{}
	svc := NewDashboardService(DashboardDependencies{ComplaintRepo: repo, Cache: snapshots})
	operator := &domain.Admin{ID: "a-1", WorkID: "W-100", Role: domain.AdminRoleAdmin, Active: true}

	done := make(chan error, 1)
	go func() {
		_, err := svc.Load(ctx)
		done <- err
	}()
	<-repo.reached

	if _, err := svc.UpdateStatus(ctx, operator, "1", domain.ComplaintStatusResolved); err != nil {
		t.Fatalf("update: %v", err)
	}
	close(repo.release)
	if err := <-done; err != nil {
		t.Fatalf("stalled load: %v", err)
	}

	snap, err := svc.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	complaint, ok := snap.Find("1")
	if !ok || complaint.Status != domain.ComplaintStatusResolved {
		t.Fatalf("expected resolved complaint after the write, got %+v", complaint)
	}
}

func TestLoadFailureIsNotEmpty(t *testing.T) {
	f := newDashboardFixture(t)
	f.repo.failList = true

	snap, err := f.service.Load(context.Background())
	if snap != nil {
		t.Fatalf("expected no snapshot on failure")
	}
	de := domainCode(t, err)
	if de.Code != "STORE_UNAVAILABLE" || de.HTTPStatus != 503 {
		t.Fatalf("unexpected error %+v", de)
	}
	if !errors.Is(err, errStoreDown) {
		t.Fatalf("expected cause to be kept")
	}
}

func TestMarkInProgressRefetchesAndNotifies(t *testing.T) {
	f := newDashboardFixture(t)
	ctx := context.Background()
	if _, err := f.service.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	result, err := f.service.ApplyAction(ctx, f.operator, "1", dashboard.ActionMarkInProgress)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if result.Complaint.Status != domain.ComplaintStatusInProgress || !result.Changed {
		t.Fatalf("unexpected result %+v", result)
	}
	if result.Previous != domain.ComplaintStatusPending {
		t.Fatalf("unexpected previous status %s", result.Previous)
	}
	if !strings.Contains(result.Notice.Description, "in progress") {
		t.Fatalf("notice should name the new status, got %q", result.Notice.Description)
	}
	if result.Notice.Description != "Complaint status changed to in progress." {
		t.Fatalf("unexpected notice %q", result.Notice.Description)
	}
	if f.cache.invalidated == 0 {
		t.Fatalf("expected cache invalidation")
	}

	counts := result.Snapshot.StatusCounts()
	if counts.Pending != 0 || counts.InProgress != 1 || counts.Resolved != 1 {
		t.Fatalf("unexpected counts after update %+v", counts)
	}

	entries, _ := f.history.ListByComplaint(ctx, "1")
	if len(entries) != 1 || entries[0].NewStatus != domain.ComplaintStatusInProgress || entries[0].ChangedBy != "W-100" {
		t.Fatalf("unexpected history %+v", entries)
	}
	if len(f.events) != 1 || f.events[0].Type != events.EventComplaintStatusChanged || f.events[0].ID == "" {
		t.Fatalf("unexpected events %+v", f.events)
	}
}

func TestReapplyingSameStatusIsIdempotent(t *testing.T) {
	f := newDashboardFixture(t)
	ctx := context.Background()
	before, _ := f.repo.List(ctx)

	result, err := f.service.UpdateStatus(ctx, f.operator, "2", domain.ComplaintStatusResolved)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if result.Changed {
		t.Fatalf("expected no change")
	}
	if result.Notice.Kind != dashboard.NoticeSuccess {
		t.Fatalf("expected success notice, got %+v", result.Notice)
	}

	after := result.Snapshot.Complaints
	if len(after) != len(before) {
		t.Fatalf("collection size changed")
	}
	for i := range before {
		if before[i].ID != after[i].ID || before[i].Status != after[i].Status {
			t.Fatalf("collection changed at %d: %+v vs %+v", i, before[i], after[i])
		}
	}
	if len(f.events) != 0 {
		t.Fatalf("no event expected for a no-op, got %d", len(f.events))
	}
	entries, _ := f.history.ListByComplaint(ctx, "2")
	if len(entries) != 0 {
		t.Fatalf("no history expected for a no-op")
	}
}

func TestUpdateStatusFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("store write fails", func(t *testing.T) {
		f := newDashboardFixture(t)
		f.repo.failUpdate = true

		result, err := f.service.UpdateStatus(ctx, f.operator, "1", domain.ComplaintStatusResolved)
		if result != nil {
			t.Fatalf("expected no result, got %+v", result)
		}
		if de := domainCode(t, err); de.Code != "STORE_UNAVAILABLE" {
			t.Fatalf("unexpected code %s", de.Code)
		}
		current, _ := f.repo.GetByID(ctx, "1")
		if current.Status != domain.ComplaintStatusPending {
			t.Fatalf("status must be unchanged, got %s", current.Status)
		}
		if len(f.events) != 0 {
			t.Fatalf("no event expected on failure")
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		f := newDashboardFixture(t)
		_, err := f.service.UpdateStatus(ctx, f.operator, "missing", domain.ComplaintStatusResolved)
		if de := domainCode(t, err); de.HTTPStatus != 404 {
			t.Fatalf("expected 404, got %+v", de)
		}
	})

	t.Run("back to pending", func(t *testing.T) {
		f := newDashboardFixture(t)
		_, err := f.service.UpdateStatus(ctx, f.operator, "2", domain.ComplaintStatusPending)
		de := domainCode(t, err)
		if de.Code != "INVALID_TRANSITION" || de.HTTPStatus != 422 {
			t.Fatalf("unexpected error %+v", de)
		}
	})

	t.Run("invalid status", func(t *testing.T) {
		f := newDashboardFixture(t)
		_, err := f.service.UpdateStatus(ctx, f.operator, "1", domain.ComplaintStatus("closed"))
		if de := domainCode(t, err); de.HTTPStatus != 400 {
			t.Fatalf("expected 400, got %+v", de)
		}
	})

	t.Run("refetch fails after write", func(t *testing.T) {
		f := newDashboardFixture(t)
		f.repo.failList = true
		_, err := f.service.UpdateStatus(ctx, f.operator, "1", domain.ComplaintStatusResolved)
		de := domainCode(t, err)
		if de.Code != "STORE_UNAVAILABLE" || de.Details["status_applied"] != true {
			t.Fatalf("unexpected error %+v", de)
		}
	})

	t.Run("unknown action", func(t *testing.T) {
		f := newDashboardFixture(t)
		_, err := f.service.ApplyAction(ctx, f.operator, "1", dashboard.ActionName("archive"))
		if de := domainCode(t, err); de.HTTPStatus != 400 {
			t.Fatalf("expected 400, got %+v", de)
		}
	})
}
