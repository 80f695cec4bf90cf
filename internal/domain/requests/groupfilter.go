package requests

import (
	"sort"
	"strings"
	"time"
)

const (
	SortNewest = "newest"
	SortOldest = "oldest"
)

// Filter is the compositional filter applied to the pending-request
// management view. Zero values mean "no restriction".
type Filter struct {
	Subtype   string
	Code      string
	Zone      string
	WeekStart time.Time
	WeekEnd   time.Time
	SortOrder string
}

// Group is one submitter's pending requests. Requests are grouped by
// employee code; the display name rides along as an attribute so two
// employees sharing a name are never merged.
type Group struct {
	Code     string    `json:"code"`
	Name     string    `json:"name"`
	Requests []Request `json:"requests"`
}

type GroupedResult struct {
	Groups []Group `json:"groups"`
	Total  int     `json:"total"`
}

// GroupPending restricts the input to the tab's category and pending
// status, groups by employee code, applies each active filter per group,
// drops groups emptied by filtering, and sorts each group's requests by
// creation time.
func GroupPending(reqs []Request, tab Kind, f Filter) GroupedResult {
	byCode := make(map[string]*Group)
	var order []string

	for _, req := range reqs {
		if req.Kind != tab || req.Status != StatusPending {
			continue
		}
		if !matches(req, f) {
			continue
		}
		group, ok := byCode[req.Code]
		if !ok {
			group = &Group{Code: req.Code, Name: req.Name}
			byCode[req.Code] = group
			order = append(order, req.Code)
		}
		group.Requests = append(group.Requests, req)
	}

	result := GroupedResult{Groups: make([]Group, 0, len(order))}
	for _, code := range order {
		group := byCode[code]
		sortByCreatedAt(group.Requests, f.SortOrder)
		result.Groups = append(result.Groups, *group)
		result.Total += len(group.Requests)
	}
	return result
}

func matches(req Request, f Filter) bool {
	if f.Subtype != "" && req.Type != f.Subtype {
		return false
	}
	if f.Code != "" && !strings.Contains(strings.ToLower(req.Code), strings.ToLower(f.Code)) {
		return false
	}
	if f.Zone != "" && req.Zone != f.Zone {
		return false
	}
	if !f.WeekStart.IsZero() && !f.WeekEnd.IsZero() {
		if req.CreatedAt.Before(f.WeekStart) || req.CreatedAt.After(f.WeekEnd) {
			return false
		}
	}
	return true
}

func sortByCreatedAt(reqs []Request, order string) {
	sort.SliceStable(reqs, func(i, j int) bool {
		if order == SortOldest {
			return reqs[i].CreatedAt.Before(reqs[j].CreatedAt)
		}
		return reqs[i].CreatedAt.After(reqs[j].CreatedAt)
	})
}
