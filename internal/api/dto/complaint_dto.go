package dto

import (
	"time"

	"github.com/spec-kit/complaint-desk/internal/dashboard"
	"github.com/spec-kit/complaint-desk/internal/domain"
)

// CreateComplaintRequest payload for citizen submissions.
type CreateComplaintRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Department  string `json:"department"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ComplaintResponse is one complaint as shown to admins.
type ComplaintResponse struct {
	ID          string                 `json:"id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Location    string                 `json:"location"`
	Department  string                 `json:"department"`
	Status      domain.ComplaintStatus `json:"status"`
	CreatedAt   time.Time              `json:"created_at"`
}

// ComplaintCardResponse pairs a complaint with its action buttons.
type ComplaintCardResponse struct {
	ComplaintResponse
	Actions []dashboard.Action `json:"actions"`
}

// DashboardResponse is the full admin dashboard for one filter.
type DashboardResponse struct {
	Admin       AdminResponse               `json:"admin"`
	Filter      dashboard.Filter            `json:"filter"`
	Stats       dashboard.StatusCounts      `json:"stats"`
	Departments []dashboard.DepartmentCount `json:"departments"`
	Complaints  []ComplaintCardResponse     `json:"complaints"`
	LoadedAt    time.Time                   `json:"loaded_at"`
}

// StatsResponse carries aggregates only.
type StatsResponse struct {
	Stats       dashboard.StatusCounts      `json:"stats"`
	Departments []dashboard.DepartmentCount `json:"departments"`
}

// StatusUpdateResponse is returned after a successful status action.
type StatusUpdateResponse struct {
	Complaint      ComplaintResponse      `json:"complaint"`
	PreviousStatus domain.ComplaintStatus `json:"previous_status"`
	Changed        bool                   `json:"changed"`
	Notice         dashboard.Notice       `json:"notice"`
	Stats          dashboard.StatusCounts `json:"stats"`
}

// HistoryEntryResponse is one audit record.
type HistoryEntryResponse struct {
	ID        string                 `json:"id"`
	OldStatus domain.ComplaintStatus `json:"old_status"`
	NewStatus domain.ComplaintStatus `json:"new_status"`
	ChangedBy string                 `json:"changed_by"`
	CreatedAt time.Time              `json:"created_at"`
}
