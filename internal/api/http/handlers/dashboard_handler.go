package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/spec-kit/complaint-desk/internal/api/dto"
	"github.com/spec-kit/complaint-desk/internal/auth"
	"github.com/spec-kit/complaint-desk/internal/dashboard"
	"github.com/spec-kit/complaint-desk/internal/domain"
	"github.com/spec-kit/complaint-desk/internal/service"
	apperrors "github.com/spec-kit/complaint-desk/pkg/util/errorutil"
)

// DashboardHandler serves the admin complaint dashboard.
type DashboardHandler struct {
	dashboard  *service.DashboardService
	complaints *service.ComplaintService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(dashboardService *service.DashboardService, complaintService *service.ComplaintService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboardService, complaints: complaintService}
}

// Dashboard handles GET /admin/dashboard.
func (h *DashboardHandler) Dashboard(c *fiber.Ctx) error {
	filter, err := parseFilter(c)
	if err != nil {
		return err
	}
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Admin == nil {
		return apperrors.NewUnauthorized("admin required")
	}
	view, err := h.dashboard.View(c.UserContext(), filter)
	if err != nil {
		return err
	}
	resp := dashboardResponse(view)
	resp.Admin = adminResponse(principal.Admin)
	return c.JSON(fiber.Map{"data": resp})
}

// ListComplaints handles GET /admin/complaints.
func (h *DashboardHandler) ListComplaints(c *fiber.Ctx) error {
	filter, err := parseFilter(c)
	if err != nil {
		return err
	}
	snap, err := h.dashboard.Load(c.UserContext())
	if err != nil {
		return err
	}
	filtered := snap.Filter(filter)
	items := make([]dto.ComplaintResponse, 0, len(filtered))
	for _, complaint := range filtered {
		items = append(items, complaintResponse(complaint))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Stats handles GET /admin/stats.
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	snap, err := h.dashboard.Load(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.StatsResponse{
		Stats:       snap.StatusCounts(),
		Departments: snap.DepartmentCounts(),
	}})
}

// UpdateStatus handles PATCH /admin/complaints/:id/status.
func (h *DashboardHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	target, ok := domain.ParseComplaintStatus(req.Status)
	if !ok {
		return apperrors.NewValidationError("invalid status", map[string]any{"status": req.Status})
	}
	return h.applyStatus(c, target)
}

// MarkInProgress handles POST /admin/complaints/:id/mark-in-progress.
func (h *DashboardHandler) MarkInProgress(c *fiber.Ctx) error {
	return h.applyAction(c, dashboard.ActionMarkInProgress)
}

// MarkResolved handles POST /admin/complaints/:id/mark-resolved.
func (h *DashboardHandler) MarkResolved(c *fiber.Ctx) error {
	return h.applyAction(c, dashboard.ActionMarkResolved)
}

// History handles GET /admin/complaints/:id/history.
func (h *DashboardHandler) History(c *fiber.Ctx) error {
	entries, err := h.complaints.History(c.UserContext(), complaintID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": historyResponse(entries)})
}

func (h *DashboardHandler) applyAction(c *fiber.Ctx, action dashboard.ActionName) error {
	target, ok := dashboard.TargetFor(action)
	if !ok {
		return apperrors.NewValidationError("unknown action", map[string]any{"action": string(action)})
	}
	return h.applyStatus(c, target)
}

func (h *DashboardHandler) applyStatus(c *fiber.Ctx, target domain.ComplaintStatus) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Admin == nil {
		return apperrors.NewUnauthorized("admin required")
	}
	result, err := h.dashboard.UpdateStatus(c.UserContext(), principal.Admin, complaintID(c), target)
	if err != nil {
		return withFailureNotice(err, target)
	}
	return c.JSON(fiber.Map{"data": dto.StatusUpdateResponse{
		Complaint:      complaintResponse(result.Complaint),
		PreviousStatus: result.Previous,
		Changed:        result.Changed,
		Notice:         result.Notice,
		Stats:          result.Snapshot.StatusCounts(),
	}})
}

// withFailureNotice attaches the user-facing failure notice to a rejected
// update. When the write landed but the re-fetch failed no notice is added.
func withFailureNotice(err error, target domain.ComplaintStatus) error {
	de := apperrors.ToDomainError(err)
	if applied, _ := de.Details["status_applied"].(bool); applied {
		return de
	}
	details := make(map[string]any, len(de.Details)+1)
	for k, v := range de.Details {
		details[k] = v
	}
	details["notice"] = dashboard.StatusUpdateFailedNotice(target, de.Message)
	annotated := *de
	annotated.Details = details
	return &annotated
}

func parseFilter(c *fiber.Ctx) (dashboard.Filter, error) {
	filter, ok := dashboard.ParseFilter(c.Query("status"))
	if !ok {
		return "", apperrors.NewValidationError("invalid status filter", map[string]any{"status": c.Query("status")})
	}
	return filter, nil
}

// complaintID copies the :id param; fiber reuses the request buffer it points into.
func complaintID(c *fiber.Ctx) string {
	return utils.CopyString(c.Params("id"))
}
