package dashboard

import (
	"time"

	"github.com/spec-kit/complaint-desk/internal/domain"
)

// Snapshot is a point-in-time copy of the whole complaint collection. It is
// replaced wholesale on every reload and never patched in place.
type Snapshot struct {
	Complaints []domain.Complaint
	LoadedAt   time.Time
}

// NewSnapshot copies complaints so later store mutations cannot leak in.
func NewSnapshot(complaints []domain.Complaint, loadedAt time.Time) *Snapshot {
	copied := make([]domain.Complaint, len(complaints))
	copy(copied, complaints)
	return &Snapshot{Complaints: copied, LoadedAt: loadedAt}
}

// Filter returns the complaints passing f.
func (s *Snapshot) Filter(f Filter) []domain.Complaint {
	return Apply(s.Complaints, f)
}

// StatusCounts aggregates the full snapshot, ignoring any filter.
func (s *Snapshot) StatusCounts() StatusCounts {
	return CountByStatus(s.Complaints)
}

// DepartmentCounts aggregates the full snapshot, ignoring any filter.
func (s *Snapshot) DepartmentCounts() []DepartmentCount {
	return CountByDepartment(s.Complaints)
}

// Find returns the complaint with id, if present.
func (s *Snapshot) Find(id string) (domain.Complaint, bool) {
	for _, c := range s.Complaints {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Complaint{}, false
}

// Card is a complaint as shown in the list, with its action guards.
type Card struct {
	Complaint domain.Complaint
	Actions   []Action
}

// View is everything the dashboard screen renders for one filter.
type View struct {
	Filter      Filter
	Stats       StatusCounts
	Departments []DepartmentCount
	Cards       []Card
	LoadedAt    time.Time
}

// Render builds the view for f. Aggregates always cover the full snapshot.
func (s *Snapshot) Render(f Filter) View {
	filtered := s.Filter(f)
	cards := make([]Card, 0, len(filtered))
	for _, c := range filtered {
		cards = append(cards, Card{Complaint: c, Actions: ActionsFor(c)})
	}
	return View{
		Filter:      f,
		Stats:       s.StatusCounts(),
		Departments: s.DepartmentCounts(),
		Cards:       cards,
		LoadedAt:    s.LoadedAt,
	}
}
