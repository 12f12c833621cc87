package handlers

import (
	"github.com/spec-kit/complaint-desk/internal/api/dto"
	"github.com/spec-kit/complaint-desk/internal/dashboard"
	"github.com/spec-kit/complaint-desk/internal/domain"
)

func complaintResponse(c domain.Complaint) dto.ComplaintResponse {
	return dto.ComplaintResponse{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Location:    c.Location,
		Department:  c.Department,
		Status:      c.Status,
		CreatedAt:   c.CreatedAt,
	}
}

func dashboardResponse(view dashboard.View) dto.DashboardResponse {
	cards := make([]dto.ComplaintCardResponse, 0, len(view.Cards))
	for _, card := range view.Cards {
		cards = append(cards, dto.ComplaintCardResponse{
			ComplaintResponse: complaintResponse(card.Complaint),
			Actions:           card.Actions,
		})
	}
	return dto.DashboardResponse{
		Filter:      view.Filter,
		Stats:       view.Stats,
		Departments: view.Departments,
		Complaints:  cards,
		LoadedAt:    view.LoadedAt,
	}
}

func historyResponse(entries []domain.ComplaintHistory) []dto.HistoryEntryResponse {
	items := make([]dto.HistoryEntryResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, dto.HistoryEntryResponse{
			ID:        e.ID,
			OldStatus: e.OldStatus,
			NewStatus: e.NewStatus,
			ChangedBy: e.ChangedBy,
			CreatedAt: e.CreatedAt,
		})
	}
	return items
}

func adminResponse(admin *domain.Admin) dto.AdminResponse {
	return dto.AdminResponse{
		ID:     admin.ID,
		WorkID: admin.WorkID,
		Name:   admin.Name,
		Role:   string(admin.Role),
	}
}
