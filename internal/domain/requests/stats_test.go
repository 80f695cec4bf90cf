package requests

import (
	"testing"
	"time"
)

func TestBuildStats(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	input := []Request{
		makeRequest("r1", "1", "a", SubtypeDescanso, StatusPending, now.AddDate(0, 0, -1)),
		makeRequest("r2", "2", "b", SubtypeDescanso, StatusApproved, now.AddDate(0, 0, -2)),
		makeRequest("r3", "3", "c", SubtypeCita, StatusRejected, now.AddDate(0, 0, -10)),
		makeRequest("r4", "4", "d", SubtypeTurnoPareja, StatusPending, now.AddDate(0, 0, -3)),
		makeRequest("r5", "5", "e", SubtypeTablaPartida, StatusApproved, now.AddDate(0, -2, 0)),
	}

	stats := BuildStats(input, PeriodAll, now)
	if stats.Total != 5 || stats.Pending != 2 || stats.Approved != 2 || stats.Rejected != 1 {
		t.Fatalf("unexpected totals: %+v", stats)
	}
	if stats.Permits.Total != 3 || stats.Postulations.Total != 2 {
		t.Fatalf("unexpected category split: permits %d, postulations %d", stats.Permits.Total, stats.Postulations.Total)
	}
	if stats.Permits.BySubtype[SubtypeDescanso] != 2 {
		t.Fatalf("expected 2 descansos, got %d", stats.Permits.BySubtype[SubtypeDescanso])
	}
}

func TestBuildStatsPeriods(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	input := []Request{
		makeRequest("r1", "1", "a", SubtypeDescanso, StatusPending, now.AddDate(0, 0, -1)),
		makeRequest("r2", "2", "b", SubtypeCita, StatusPending, now.AddDate(0, 0, -20)),
		makeRequest("r3", "3", "c", SubtypeAudiencia, StatusPending, now.AddDate(0, -3, 0)),
	}

	if got := BuildStats(input, PeriodWeek, now).Total; got != 1 {
		t.Fatalf("week period: got %d, want 1", got)
	}
	if got := BuildStats(input, PeriodMonth, now).Total; got != 2 {
		t.Fatalf("month period: got %d, want 2", got)
	}
	if got := BuildStats(input, PeriodAll, now).Total; got != 3 {
		t.Fatalf("all period: got %d, want 3", got)
	}
}
