package requests

import "context"

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

type ItemResult struct {
	ID      string `json:"id"`
	Outcome string `json:"outcome"`
	Error   string `json:"error,omitempty"`
}

type BulkResult struct {
	Results   []ItemResult `json:"results"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
}

// BulkDecide applies one decision per id, sequentially. Items are awaited
// one at a time to avoid hammering the database with parallel updates.
// A failing item is recorded and processing continues, so the caller gets
// a full per-item report instead of an aborted partial batch. progress,
// if non-nil, is called after each item with the completed percentage.
func (s *Service) BulkDecide(ctx context.Context, ids []string, status, respuesta string, progress func(pct float64)) (BulkResult, error) {
	result := BulkResult{Results: make([]ItemResult, 0, len(ids))}
	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		item := ItemResult{ID: id, Outcome: OutcomeSuccess}
		if _, err := s.UpdateStatus(ctx, id, status, respuesta); err != nil {
			item.Outcome = OutcomeFailure
			item.Error = err.Error()
			result.Failed++
		} else {
			result.Succeeded++
		}
		result.Results = append(result.Results, item)

		if progress != nil {
			progress(float64(i+1) / float64(len(ids)) * 100)
		}
	}
	return result, nil
}
