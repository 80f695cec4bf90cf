package requests

import (
	"testing"
	"time"
)

func makeRequest(id, code, name, subtype, status string, createdAt time.Time) Request {
	return Request{
		ID:        id,
		Code:      code,
		Name:      name,
		Kind:      Classify(subtype),
		Type:      subtype,
		Status:    status,
		CreatedAt: createdAt,
	}
}

func TestGroupPendingExcludesDecidedAndOtherTab(t *testing.T) {
	base := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	input := []Request{
		makeRequest("r1", "1001", "Ana", SubtypeDescanso, StatusPending, base),
		makeRequest("r2", "1001", "Ana", SubtypeCita, StatusApproved, base.Add(time.Hour)),
		makeRequest("r3", "1001", "Ana", SubtypeAudiencia, StatusPending, base.Add(2*time.Hour)),
		makeRequest("r4", "2002", "Luis", SubtypeTurnoPareja, StatusPending, base),
	}

	result := GroupPending(input, KindPermit, Filter{SortOrder: SortNewest})

	if len(result.Groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(result.Groups))
	}
	group := result.Groups[0]
	if group.Code != "1001" || group.Name != "Ana" {
		t.Fatalf("unexpected group identity: %+v", group)
	}
	if len(group.Requests) != 2 {
		t.Fatalf("expected 2 pending permits, got %d", len(group.Requests))
	}
	// Newest first: the audiencia request was created later.
	if group.Requests[0].ID != "r3" || group.Requests[1].ID != "r1" {
		t.Fatalf("unexpected order: %s, %s", group.Requests[0].ID, group.Requests[1].ID)
	}
	if result.Total != 2 {
		t.Fatalf("expected total 2, got %d", result.Total)
	}
}

func TestGroupPendingCompleteness(t *testing.T) {
	base := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	input := []Request{
		makeRequest("r1", "1001", "Ana", SubtypeDescanso, StatusPending, base),
		makeRequest("r2", "2002", "Luis", SubtypeCita, StatusPending, base),
		makeRequest("r3", "1001", "Ana", SubtypeLicencia, StatusPending, base),
		makeRequest("r4", "3003", "Eva", SubtypeDescanso, StatusRejected, base),
	}

	result := GroupPending(input, KindPermit, Filter{})

	seen := make(map[string]int)
	for _, group := range result.Groups {
		for _, req := range group.Requests {
			seen[req.ID]++
			if req.Code != group.Code {
				t.Fatalf("request %s in wrong group %s", req.ID, group.Code)
			}
		}
	}
	for _, id := range []string{"r1", "r2", "r3"} {
		if seen[id] != 1 {
			t.Fatalf("request %s appeared %d times", id, seen[id])
		}
	}
	if seen["r4"] != 0 {
		t.Fatal("rejected request must not appear")
	}
}

func TestGroupPendingSeparatesSharedNames(t *testing.T) {
	base := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	input := []Request{
		makeRequest("r1", "1001", "Ana", SubtypeDescanso, StatusPending, base),
		makeRequest("r2", "9009", "Ana", SubtypeCita, StatusPending, base),
	}

	result := GroupPending(input, KindPermit, Filter{})
	if len(result.Groups) != 2 {
		t.Fatalf("two employees sharing a name must form two groups, got %d", len(result.Groups))
	}
}

func TestGroupPendingFilters(t *testing.T) {
	base := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	equipment := makeRequest("e1", "2002", "Luis", SubtypeTurnoPareja, StatusPending, base)
	equipment.Zone = "Prado"
	other := makeRequest("e2", "2003", "Marta", SubtypeTablaPartida, StatusPending, base.AddDate(0, 0, -14))
	other.Zone = "Acevedo"
	input := []Request{equipment, other}

	tests := []struct {
		name    string
		filter  Filter
		wantIDs []string
	}{
		{"no filter", Filter{}, []string{"e1", "e2"}},
		{"subtype", Filter{Subtype: SubtypeTurnoPareja}, []string{"e1"}},
		{"code substring", Filter{Code: "200"}, []string{"e1", "e2"}},
		{"code exact-ish", Filter{Code: "2003"}, []string{"e2"}},
		{"zone", Filter{Zone: "Prado"}, []string{"e1"}},
		{
			"week range",
			Filter{WeekStart: base.AddDate(0, 0, -1), WeekEnd: base.AddDate(0, 0, 5)},
			[]string{"e1"},
		},
		{"no match drops group", Filter{Zone: "Hospital"}, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := GroupPending(input, KindEquipment, tc.filter)
			var got []string
			for _, group := range result.Groups {
				for _, req := range group.Requests {
					got = append(got, req.ID)
				}
			}
			if len(got) != len(tc.wantIDs) {
				t.Fatalf("got %v, want %v", got, tc.wantIDs)
			}
			for i := range got {
				if got[i] != tc.wantIDs[i] {
					t.Fatalf("got %v, want %v", got, tc.wantIDs)
				}
			}
		})
	}
}

func TestGroupPendingFilterMonotonicity(t *testing.T) {
	base := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	var input []Request
	subtypes := []string{SubtypeDescanso, SubtypeCita, SubtypeAudiencia}
	for i, subtype := range subtypes {
		req := makeRequest(subtype, "1001", "Ana", subtype, StatusPending, base.Add(time.Duration(i)*time.Hour))
		input = append(input, req)
	}

	unfiltered := GroupPending(input, KindPermit, Filter{})
	filtered := GroupPending(input, KindPermit, Filter{Subtype: SubtypeCita})

	if filtered.Total > unfiltered.Total {
		t.Fatalf("filter grew the result: %d > %d", filtered.Total, unfiltered.Total)
	}
}

func TestGroupPendingSortOldest(t *testing.T) {
	base := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	input := []Request{
		makeRequest("r1", "1001", "Ana", SubtypeDescanso, StatusPending, base.Add(2*time.Hour)),
		makeRequest("r2", "1001", "Ana", SubtypeCita, StatusPending, base),
		makeRequest("r3", "1001", "Ana", SubtypeAudiencia, StatusPending, base.Add(time.Hour)),
	}

	result := GroupPending(input, KindPermit, Filter{SortOrder: SortOldest})
	reqs := result.Groups[0].Requests
	for i := 1; i < len(reqs); i++ {
		if reqs[i].CreatedAt.Before(reqs[i-1].CreatedAt) {
			t.Fatalf("oldest-first violated at %d", i)
		}
	}
}
