package domain

import (
	"strings"
	"time"
)

// ComplaintStatus enumerates the handling stages of a complaint.
type ComplaintStatus string

const (
	ComplaintStatusPending    ComplaintStatus = "pending"
	ComplaintStatusInProgress ComplaintStatus = "in-progress"
	ComplaintStatusResolved   ComplaintStatus = "resolved"
)

// ComplaintStatuses lists every valid status in workflow order.
var ComplaintStatuses = []ComplaintStatus{
	ComplaintStatusPending,
	ComplaintStatusInProgress,
	ComplaintStatusResolved,
}

// Valid reports whether s is one of the three known statuses.
func (s ComplaintStatus) Valid() bool {
	switch s {
	case ComplaintStatusPending, ComplaintStatusInProgress, ComplaintStatusResolved:
		return true
	}
	return false
}

// Human renders the status with separators replaced by spaces ("in progress").
func (s ComplaintStatus) Human() string {
	return strings.ReplaceAll(string(s), "-", " ")
}

// ParseComplaintStatus accepts the canonical value and a few spellings clients send.
func ParseComplaintStatus(raw string) (ComplaintStatus, bool) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.NewReplacer("_", "-", " ", "-").Replace(normalized)
	status := ComplaintStatus(normalized)
	return status, status.Valid()
}

// Complaint is a citizen-submitted issue record.
type Complaint struct {
	ID          string          `json:"id" bson:"_id"`
	Title       string          `json:"title" bson:"title"`
	Description string          `json:"description" bson:"description"`
	Location    string          `json:"location" bson:"location"`
	Department  string          `json:"department" bson:"department"`
	Status      ComplaintStatus `json:"status" bson:"status"`
	CreatedAt   time.Time       `json:"created_at" bson:"created_at"`
}

// allowedTransitions is the complaint workflow. Nothing leads back to pending.
var allowedTransitions = map[ComplaintStatus][]ComplaintStatus{
	ComplaintStatusPending:    {ComplaintStatusInProgress, ComplaintStatusResolved},
	ComplaintStatusInProgress: {ComplaintStatusResolved},
	ComplaintStatusResolved:   {ComplaintStatusInProgress},
}

// CanTransition reports whether a complaint in current may move to next.
// Re-applying the current status is always allowed.
func CanTransition(current, next ComplaintStatus) bool {
	if !current.Valid() || !next.Valid() {
		return false
	}
	if current == next {
		return true
	}
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// TransitionsFrom returns the statuses reachable from current, excluding itself.
func TransitionsFrom(current ComplaintStatus) []ComplaintStatus {
	next := allowedTransitions[current]
	out := make([]ComplaintStatus, len(next))
	copy(out, next)
	return out
}
