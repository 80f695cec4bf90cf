package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"permits/internal/platform/querier"
)

// Service records administrator actions (decisions, deletions, bulk
// batches) for later review.
type Service struct {
	DB querier.Querier
}

type Event struct {
	ID         string          `json:"id"`
	ActorCode  string          `json:"actorCode"`
	Action     string          `json:"action"`
	EntityID   string          `json:"entityId"`
	RequestID  string          `json:"requestId"`
	IP         string          `json:"ip"`
	Detail     json.RawMessage `json:"detail,omitempty"`
	OccurredAt time.Time       `json:"occurredAt"`
}

func New(db querier.Querier) *Service {
	return &Service{DB: db}
}

func (s *Service) Record(ctx context.Context, actorCode, action, entityID, requestID, ip string, detail any) error {
	var detailJSON []byte
	if detail != nil {
		payload, err := json.Marshal(detail)
		if err != nil {
			return err
		}
		detailJSON = payload
	}

	_, err := s.DB.Exec(ctx, `
    INSERT INTO audit_events (actor_code, action, entity_id, request_id, ip, detail)
    VALUES ($1,$2,$3,$4,$5,$6)
  `, actorCode, action, entityID, requestID, ip, detailJSON)
	return err
}

func (s *Service) List(ctx context.Context, action string, limit int) ([]Event, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	query := `
    SELECT id, actor_code, action, entity_id, request_id, ip, detail, occurred_at
    FROM audit_events
  `
	args := []any{}
	if action != "" {
		query += " WHERE action = $1"
		args = append(args, action)
	}
	query += fmt.Sprintf(" ORDER BY occurred_at DESC LIMIT $%d", len(args)+1)
	args = append(args, limit)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var event Event
		if err := rows.Scan(&event.ID, &event.ActorCode, &event.Action, &event.EntityID, &event.RequestID, &event.IP, &event.Detail, &event.OccurredAt); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
