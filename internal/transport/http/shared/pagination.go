package shared

import (
	"net/http"
	"strconv"
)

// ParsePage reads the page query parameter, defaulting to the first page.
func ParsePage(r *http.Request) int {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			page = v
		}
	}
	return page
}

// ParseOffset reads week or period offsets that may be negative.
func ParseOffset(r *http.Request, key string) int {
	if raw := r.URL.Query().Get(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return 0
}
