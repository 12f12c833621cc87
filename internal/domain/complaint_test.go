package domain

import "testing"

func TestParseComplaintStatus(t *testing.T) {
	cases := []struct {
		raw  string
		want ComplaintStatus
		ok   bool
	}{
		{"pending", ComplaintStatusPending, true},
		{"in-progress", ComplaintStatusInProgress, true},
		{"IN_PROGRESS", ComplaintStatusInProgress, true},
		{" in progress ", ComplaintStatusInProgress, true},
		{"Resolved", ComplaintStatusResolved, true},
		{"closed", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseComplaintStatus(tc.raw)
		if ok != tc.ok {
			t.Fatalf("%q: expected ok=%v, got %v", tc.raw, tc.ok, ok)
		}
		if ok && got != tc.want {
			t.Fatalf("%q: expected %s, got %s", tc.raw, tc.want, got)
		}
	}
}

func TestHuman(t *testing.T) {
	if got := ComplaintStatusInProgress.Human(); got != "in progress" {
		t.Fatalf("expected %q, got %q", "in progress", got)
	}
	if got := ComplaintStatusResolved.Human(); got != "resolved" {
		t.Fatalf("expected %q, got %q", "resolved", got)
	}
}

func TestCanTransition(t *testing.T) {
	t.Run("forward moves", func(t *testing.T) {
		allowed := [][2]ComplaintStatus{
			{ComplaintStatusPending, ComplaintStatusInProgress},
			{ComplaintStatusPending, ComplaintStatusResolved},
			{ComplaintStatusInProgress, ComplaintStatusResolved},
			{ComplaintStatusResolved, ComplaintStatusInProgress},
		}
		for _, pair := range allowed {
			if !CanTransition(pair[0], pair[1]) {
				t.Fatalf("expected %s -> %s to be allowed", pair[0], pair[1])
			}
		}
	})

	t.Run("same status is idempotent", func(t *testing.T) {
		for _, s := range ComplaintStatuses {
			if !CanTransition(s, s) {
				t.Fatalf("expected %s -> %s to be allowed", s, s)
			}
		}
	})

	t.Run("no way back to pending", func(t *testing.T) {
		if CanTransition(ComplaintStatusInProgress, ComplaintStatusPending) {
			t.Fatalf("in-progress -> pending must be rejected")
		}
		if CanTransition(ComplaintStatusResolved, ComplaintStatusPending) {
			t.Fatalf("resolved -> pending must be rejected")
		}
	})

	t.Run("unknown statuses", func(t *testing.T) {
		if CanTransition("closed", ComplaintStatusResolved) || CanTransition(ComplaintStatusPending, "closed") {
			t.Fatalf("unknown statuses must be rejected")
		}
	})
}

func TestTransitionsFromReturnsCopy(t *testing.T) {
	got := TransitionsFrom(ComplaintStatusPending)
	if len(got) != 2 {
		t.Fatalf("expected 2 targets from pending, got %v", got)
	}
	got[0] = ComplaintStatusPending
	if TransitionsFrom(ComplaintStatusPending)[0] != ComplaintStatusInProgress {
		t.Fatalf("transition table was mutated through returned slice")
	}
}
