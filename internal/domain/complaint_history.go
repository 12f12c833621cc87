package domain

import "time"

// ComplaintHistory is an immutable audit entry for a status change.
type ComplaintHistory struct {
	ID          string
	ComplaintID string
	OldStatus   ComplaintStatus
	NewStatus   ComplaintStatus
	ChangedBy   string
	CreatedAt   time.Time
}
