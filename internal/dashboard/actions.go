package dashboard

import "github.com/spec-kit/complaint-desk/internal/domain"

// ActionName identifies a status action offered on a complaint.
type ActionName string

const (
	ActionMarkInProgress ActionName = "mark_in_progress"
	ActionMarkResolved   ActionName = "mark_resolved"
)

// Action is one button on a complaint card.
type Action struct {
	Name     ActionName             `json:"name"`
	Target   domain.ComplaintStatus `json:"target"`
	Disabled bool                   `json:"disabled"`
}

// exposedActions are the only mutations the dashboard offers. None returns a
// complaint to pending.
var exposedActions = []struct {
	name   ActionName
	target domain.ComplaintStatus
}{
	{ActionMarkInProgress, domain.ComplaintStatusInProgress},
	{ActionMarkResolved, domain.ComplaintStatusResolved},
}

// ActionsFor lists the actions for a complaint. An action is disabled when the
// complaint already has its target status or the workflow forbids the move.
func ActionsFor(c domain.Complaint) []Action {
	out := make([]Action, 0, len(exposedActions))
	for _, a := range exposedActions {
		out = append(out, Action{
			Name:     a.name,
			Target:   a.target,
			Disabled: c.Status == a.target || !domain.CanTransition(c.Status, a.target),
		})
	}
	return out
}

// TargetFor resolves an action name to the status it sets.
func TargetFor(name ActionName) (domain.ComplaintStatus, bool) {
	for _, a := range exposedActions {
		if a.name == name {
			return a.target, true
		}
	}
	return "", false
}
