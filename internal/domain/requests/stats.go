package requests

import "time"

type CategoryStats struct {
	Total     int            `json:"total"`
	Pending   int            `json:"pending"`
	Approved  int            `json:"approved"`
	Rejected  int            `json:"rejected"`
	BySubtype map[string]int `json:"bySubtype"`
}

type Stats struct {
	Total        int           `json:"total"`
	Pending      int           `json:"pending"`
	Approved     int           `json:"approved"`
	Rejected     int           `json:"rejected"`
	Permits      CategoryStats `json:"permits"`
	Postulations CategoryStats `json:"postulations"`
}

const (
	PeriodAll   = "all"
	PeriodWeek  = "week"
	PeriodMonth = "month"
)

// BuildStats tallies the request list for the admin indicator cards and
// charts. period restricts by creation time relative to now.
func BuildStats(reqs []Request, period string, now time.Time) Stats {
	var since time.Time
	switch period {
	case PeriodWeek:
		since = now.AddDate(0, 0, -7)
	case PeriodMonth:
		since = now.AddDate(0, -1, 0)
	}

	stats := Stats{
		Permits:      CategoryStats{BySubtype: make(map[string]int)},
		Postulations: CategoryStats{BySubtype: make(map[string]int)},
	}
	for _, req := range reqs {
		if !since.IsZero() && req.CreatedAt.Before(since) {
			continue
		}

		stats.Total++
		switch req.Status {
		case StatusApproved:
			stats.Approved++
		case StatusPending:
			stats.Pending++
		case StatusRejected:
			stats.Rejected++
		}

		category := &stats.Postulations
		if req.Kind == KindPermit {
			category = &stats.Permits
		}
		category.Total++
		category.BySubtype[req.Type]++
		switch req.Status {
		case StatusApproved:
			category.Approved++
		case StatusPending:
			category.Pending++
		case StatusRejected:
			category.Rejected++
		}
	}
	return stats
}
