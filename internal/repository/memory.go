package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/complaint-desk/internal/domain"
)

// MemoryComplaintRepository keeps complaints in process memory. It backs the
// memory store mode and tests.
type MemoryComplaintRepository struct {
	mu         sync.RWMutex
	complaints map[string]domain.Complaint
	seq        map[string]int
	next       int
	now        func() time.Time
}

// NewMemoryComplaintRepository seeds the store with complaints.
func NewMemoryComplaintRepository(seed ...domain.Complaint) *MemoryComplaintRepository {
	r := &MemoryComplaintRepository{
		complaints: make(map[string]domain.Complaint),
		seq:        make(map[string]int),
		now:        time.Now,
	}
	for _, c := range seed {
		r.put(c)
	}
	return r
}

func (r *MemoryComplaintRepository) put(c domain.Complaint) {
	if _, exists := r.seq[c.ID]; !exists {
		r.seq[c.ID] = r.next
		r.next++
	}
	r.complaints[c.ID] = c
}

func (r *MemoryComplaintRepository) List(_ context.Context) ([]domain.Complaint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Complaint, 0, len(r.complaints))
	for _, c := range r.complaints {
		result = append(result, c)
	}
	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return r.seq[result[i].ID] < r.seq[result[j].ID]
	})
	return result, nil
}

func (r *MemoryComplaintRepository) GetByID(_ context.Context, id string) (*domain.Complaint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.complaints[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (r *MemoryComplaintRepository) Create(_ context.Context, complaint *domain.Complaint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.complaints[complaint.ID]; exists {
		return ErrDuplicate
	}
	if complaint.CreatedAt.IsZero() {
		complaint.CreatedAt = r.now().UTC()
	}
	r.put(*complaint)
	return nil
}

func (r *MemoryComplaintRepository) UpdateStatus(_ context.Context, id string, status domain.ComplaintStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.complaints[id]
	if !ok {
		return ErrNotFound
	}
	c.Status = status
	r.complaints[id] = c
	return nil
}

func (r *MemoryComplaintRepository) Ping(_ context.Context) error {
	return nil
}

// MemoryComplaintHistoryRepository keeps audit entries in memory.
type MemoryComplaintHistoryRepository struct {
	mu      sync.RWMutex
	entries []domain.ComplaintHistory
}

// NewMemoryComplaintHistoryRepository builds an empty history store.
func NewMemoryComplaintHistoryRepository() *MemoryComplaintHistoryRepository {
	return &MemoryComplaintHistoryRepository{}
}

func (r *MemoryComplaintHistoryRepository) Create(_ context.Context, entry *domain.ComplaintHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry.ID = uuid.NewString()
	entry.CreatedAt = time.Now().UTC()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *MemoryComplaintHistoryRepository) ListByComplaint(_ context.Context, complaintID string) ([]domain.ComplaintHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := []domain.ComplaintHistory{}
	for _, entry := range r.entries {
		if entry.ComplaintID == complaintID {
			result = append(result, entry)
		}
	}
	return result, nil
}

// MemoryAdminRepository keeps operators in memory.
type MemoryAdminRepository struct {
	mu     sync.RWMutex
	admins map[string]domain.Admin
}

// NewMemoryAdminRepository builds an empty admin store.
func NewMemoryAdminRepository() *MemoryAdminRepository {
	return &MemoryAdminRepository{admins: make(map[string]domain.Admin)}
}

func (r *MemoryAdminRepository) Create(_ context.Context, admin *domain.Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.admins {
		if existing.WorkID == admin.WorkID {
			return ErrDuplicate
		}
	}
	now := time.Now().UTC()
	admin.ID = uuid.NewString()
	admin.CreatedAt = now
	admin.UpdatedAt = now
	r.admins[admin.ID] = *admin
	return nil
}

func (r *MemoryAdminRepository) GetByID(_ context.Context, id string) (*domain.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	admin, ok := r.admins[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &admin, nil
}

func (r *MemoryAdminRepository) GetByWorkID(_ context.Context, workID string) (*domain.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, admin := range r.admins {
		if admin.WorkID == workID {
			a := admin
			return &a, nil
		}
	}
	return nil, ErrNotFound
}
