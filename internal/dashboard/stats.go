package dashboard

import "github.com/spec-kit/complaint-desk/internal/domain"

// StatusCounts summarizes a snapshot by status.
type StatusCounts struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Resolved   int `json:"resolved"`
}

// DepartmentCount is the number of complaints filed against one department.
type DepartmentCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// CountByStatus tallies the full snapshot. Pending+InProgress+Resolved == Total
// as long as every complaint carries a valid status.
func CountByStatus(complaints []domain.Complaint) StatusCounts {
	counts := StatusCounts{Total: len(complaints)}
	for _, c := range complaints {
		switch c.Status {
		case domain.ComplaintStatusPending:
			counts.Pending++
		case domain.ComplaintStatusInProgress:
			counts.InProgress++
		case domain.ComplaintStatusResolved:
			counts.Resolved++
		}
	}
	return counts
}

// CountByDepartment groups the snapshot by department label in first-seen order.
func CountByDepartment(complaints []domain.Complaint) []DepartmentCount {
	index := make(map[string]int)
	out := make([]DepartmentCount, 0)
	for _, c := range complaints {
		if i, ok := index[c.Department]; ok {
			out[i].Count++
			continue
		}
		index[c.Department] = len(out)
		out = append(out, DepartmentCount{Name: c.Department, Count: 1})
	}
	return out
}
