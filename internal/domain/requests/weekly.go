package requests

import (
	"sort"
	"strings"
	"time"
)

// HeatLevel buckets a per-day request count for the weekly heatmap.
type HeatLevel string

const (
	HeatNone   HeatLevel = "none"
	HeatLow    HeatLevel = "low"
	HeatMedium HeatLevel = "medium"
	HeatHigh   HeatLevel = "high"
)

var dayLabels = []string{"Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado", "Domingo"}

type DaySummary struct {
	Label     string    `json:"label"`
	DayNumber string    `json:"dayNumber"`
	DateKey   string    `json:"dateKey"`
	Count     int       `json:"count"`
	Heat      HeatLevel `json:"heat"`
	Requests  []Request `json:"requests"`
}

type WeekSummary struct {
	Start  time.Time    `json:"start"`
	End    time.Time    `json:"end"`
	Offset int          `json:"offset"`
	Days   []DaySummary `json:"days"`
}

// WeekStart returns the Monday of the week containing now shifted by
// offset weeks. Sunday counts as day 7 of the previous Monday's week.
func WeekStart(now time.Time, offset int) time.Time {
	weekday := int(now.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	monday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return monday.AddDate(0, 0, -(weekday - 1) + offset*7)
}

// BuildWeek buckets requested leave dates into the 7-day window starting
// at the Monday of now+offset weeks. A request with N dates inside the
// window appears in N day buckets. Malformed dates are skipped.
func BuildWeek(reqs []Request, now time.Time, offset int) WeekSummary {
	start := WeekStart(now, offset)

	byDate := make(map[string][]Request)
	for _, req := range reqs {
		for _, raw := range req.Dates {
			key := strings.TrimSpace(raw)
			if key == "" {
				continue
			}
			if _, err := time.Parse("2006-01-02", key); err != nil {
				continue
			}
			byDate[key] = append(byDate[key], req)
		}
	}

	week := WeekSummary{
		Start:  start,
		End:    start.AddDate(0, 0, 6),
		Offset: offset,
		Days:   make([]DaySummary, 0, 7),
	}
	for i := 0; i < 7; i++ {
		date := start.AddDate(0, 0, i)
		key := date.Format("2006-01-02")
		dayReqs := byDate[key]
		week.Days = append(week.Days, DaySummary{
			Label:     dayLabels[i],
			DayNumber: date.Format("02"),
			DateKey:   key,
			Count:     len(dayReqs),
			Heat:      HeatForCount(len(dayReqs)),
			Requests:  dayReqs,
		})
	}
	return week
}

func HeatForCount(count int) HeatLevel {
	switch {
	case count == 0:
		return HeatNone
	case count <= 2:
		return HeatLow
	case count <= 4:
		return HeatMedium
	default:
		return HeatHigh
	}
}

type SubtypeCount struct {
	Subtype string `json:"subtype"`
	Count   int    `json:"count"`
}

type DayBreakdown struct {
	Permits      []SubtypeCount `json:"permits"`
	Postulations []SubtypeCount `json:"postulations"`
	Other        []SubtypeCount `json:"other"`
}

// BreakdownDay splits one day's requests into permit, postulation, and
// other subtype counts, each sorted by count descending.
func BreakdownDay(dayReqs []Request) DayBreakdown {
	counts := make(map[string]int)
	for _, req := range dayReqs {
		counts[req.Type]++
	}

	var breakdown DayBreakdown
	for subtype, count := range counts {
		entry := SubtypeCount{Subtype: subtype, Count: count}
		switch {
		case IsPermitSubtype(subtype):
			breakdown.Permits = append(breakdown.Permits, entry)
		case IsEquipmentSubtype(subtype):
			breakdown.Postulations = append(breakdown.Postulations, entry)
		default:
			breakdown.Other = append(breakdown.Other, entry)
		}
	}
	sortCounts(breakdown.Permits)
	sortCounts(breakdown.Postulations)
	sortCounts(breakdown.Other)
	return breakdown
}

func sortCounts(entries []SubtypeCount) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Count == entries[j].Count {
			return entries[i].Subtype < entries[j].Subtype
		}
		return entries[i].Count > entries[j].Count
	})
}
