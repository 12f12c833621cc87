// Package dashboard derives the admin views from a complaint snapshot.
// Everything here is pure: callers pass a snapshot in and get values back.
package dashboard

import (
	"strings"

	"github.com/spec-kit/complaint-desk/internal/domain"
)

// Filter selects complaints by status. FilterAll keeps every complaint.
type Filter string

const (
	FilterAll        Filter = "all"
	FilterPending    Filter = Filter(domain.ComplaintStatusPending)
	FilterInProgress Filter = Filter(domain.ComplaintStatusInProgress)
	FilterResolved   Filter = Filter(domain.ComplaintStatusResolved)
)

// ParseFilter maps a query value onto a Filter. An empty value means all.
func ParseFilter(raw string) (Filter, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.EqualFold(trimmed, string(FilterAll)) {
		return FilterAll, true
	}
	status, ok := domain.ParseComplaintStatus(trimmed)
	if !ok {
		return "", false
	}
	return Filter(status), true
}

// Matches reports whether the complaint passes the filter.
func (f Filter) Matches(c domain.Complaint) bool {
	return f == FilterAll || domain.ComplaintStatus(f) == c.Status
}

// Apply returns the complaints that pass the filter, preserving order.
// The result never aliases the input slice.
func Apply(complaints []domain.Complaint, f Filter) []domain.Complaint {
	out := make([]domain.Complaint, 0, len(complaints))
	for _, c := range complaints {
		if f.Matches(c) {
			out = append(out, c)
		}
	}
	return out
}
