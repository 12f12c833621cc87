package dashboard

import (
	"fmt"

	"github.com/spec-kit/complaint-desk/internal/domain"
)

// NoticeKind distinguishes confirmation from failure notices.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeFailure NoticeKind = "failure"
)

// Notice is the user-visible message emitted after a status mutation.
type Notice struct {
	Kind        NoticeKind `json:"kind"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
}

// StatusUpdatedNotice confirms a stored status change.
func StatusUpdatedNotice(status domain.ComplaintStatus) Notice {
	return Notice{
		Kind:        NoticeSuccess,
		Title:       "Status Updated",
		Description: fmt.Sprintf("Complaint status changed to %s.", status.Human()),
	}
}

// StatusUpdateFailedNotice reports that the status was left unchanged.
func StatusUpdateFailedNotice(status domain.ComplaintStatus, reason string) Notice {
	return Notice{
		Kind:        NoticeFailure,
		Title:       "Status Update Failed",
		Description: fmt.Sprintf("Could not change complaint status to %s: %s.", status.Human(), reason),
	}
}
