package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spec-kit/complaint-desk/internal/domain"
)

func TestMemoryComplaintRepositoryListOrder(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	repo := NewMemoryComplaintRepository(
		domain.Complaint{ID: "old", Status: domain.ComplaintStatusPending, CreatedAt: base},
		domain.Complaint{ID: "new", Status: domain.ComplaintStatusPending, CreatedAt: base.Add(time.Hour)},
		domain.Complaint{ID: "tie", Status: domain.ComplaintStatusPending, CreatedAt: base},
	)

	got, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"new", "old", "tie"}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, got[i].ID)
		}
	}
}

func TestMemoryComplaintRepositoryUpdateStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryComplaintRepository(domain.Complaint{ID: "1", Status: domain.ComplaintStatusPending})

	if err := repo.UpdateStatus(ctx, "1", domain.ComplaintStatusResolved); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	c, err := repo.GetByID(ctx, "1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if c.Status != domain.ComplaintStatusResolved {
		t.Fatalf("expected resolved, got %s", c.Status)
	}
	if err := repo.UpdateStatus(ctx, "missing", domain.ComplaintStatusResolved); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryComplaintRepositoryCreateStampsTime(t *testing.T) {
	repo := NewMemoryComplaintRepository()
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	repo.now = func() time.Time { return fixed }

	c := &domain.Complaint{ID: "CMP-1", Status: domain.ComplaintStatusPending}
	if err := repo.Create(context.Background(), c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !c.CreatedAt.Equal(fixed) {
		t.Fatalf("expected created_at %s, got %s", fixed, c.CreatedAt)
	}
}

func TestMemoryComplaintRepositoryCreateRejectsDuplicateID(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryComplaintRepository(domain.Complaint{ID: "CMP-1", Title: "Pothole", Status: domain.ComplaintStatusInProgress})

	err := repo.Create(ctx, &domain.Complaint{ID: "CMP-1", Title: "Leak", Status: domain.ComplaintStatusPending})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	c, err := repo.GetByID(ctx, "CMP-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if c.Title != "Pothole" || c.Status != domain.ComplaintStatusInProgress {
		t.Fatalf("existing complaint was overwritten: %+v", c)
	}
}

func TestMemoryAdminRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAdminRepository()
	admin := &domain.Admin{WorkID: "W-100", Role: domain.AdminRoleAdmin, Active: true}
	if err := repo.Create(ctx, admin); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if admin.ID == "" {
		t.Fatalf("expected id to be assigned")
	}
	if err := repo.Create(ctx, &domain.Admin{WorkID: "W-100"}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	got, err := repo.GetByWorkID(ctx, "W-100")
	if err != nil || got.ID != admin.ID {
		t.Fatalf("GetByWorkID: %v %+v", err, got)
	}
	if _, err := repo.GetByID(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryHistoryFiltersByComplaint(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryComplaintHistoryRepository()
	_ = repo.Create(ctx, &domain.ComplaintHistory{ComplaintID: "1", OldStatus: domain.ComplaintStatusPending, NewStatus: domain.ComplaintStatusResolved})
	_ = repo.Create(ctx, &domain.ComplaintHistory{ComplaintID: "2", OldStatus: domain.ComplaintStatusPending, NewStatus: domain.ComplaintStatusInProgress})

	got, err := repo.ListByComplaint(ctx, "1")
	if err != nil {
		t.Fatalf("ListByComplaint: %v", err)
	}
	if len(got) != 1 || got[0].NewStatus != domain.ComplaintStatusResolved {
		t.Fatalf("unexpected history %+v", got)
	}
}
