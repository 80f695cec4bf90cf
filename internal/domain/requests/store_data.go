package requests

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

var ErrNotFound = errors.New("request not found")

type PermitInput struct {
	Code        string
	Name        string
	Phone       string
	Dates       []string
	Time        string
	NoveltyType string
	Description string
	Files       []string
}

type EquipmentInput struct {
	Code        string
	Name        string
	Type        string
	Zone        string
	Description string
}

const permitColumns = `id, code, name, phone, dates, time_of_day, novelty_type, description, files, status, respuesta, notification_status, created_at`
const equipmentColumns = `id, code, name, type, zone, description, status, respuesta, notification_status, created_at`

// ListAll merges both request tables into a single classified list. This
// is the only place rows become Requests, so the category tag is assigned
// exactly once.
func (s *Store) ListAll(ctx context.Context) ([]Request, error) {
	out, err := s.listPermits(ctx, "")
	if err != nil {
		return nil, err
	}
	equipment, err := s.listEquipment(ctx, "")
	if err != nil {
		return nil, err
	}
	return append(out, equipment...), nil
}

func (s *Store) listPermits(ctx context.Context, whereCode string) ([]Request, error) {
	query := `SELECT ` + permitColumns + ` FROM permit_requests`
	var args []any
	if whereCode != "" {
		query += ` WHERE code = $1 AND status IN ('approved','rejected')`
		args = append(args, whereCode)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Request
	for rows.Next() {
		var req Request
		var dates, files string
		if err := rows.Scan(&req.ID, &req.Code, &req.Name, &req.Phone, &dates, &req.Time, &req.Type, &req.Description, &files, &req.Status, &req.Respuesta, &req.NotificationStatus, &req.CreatedAt); err != nil {
			return nil, err
		}
		req.Kind = KindPermit
		req.Dates = splitList(dates)
		req.Files = splitList(files)
		out = append(out, req)
	}
	return out, rows.Err()
}

func (s *Store) listEquipment(ctx context.Context, whereCode string) ([]Request, error) {
	query := `SELECT ` + equipmentColumns + ` FROM equipment_requests`
	var args []any
	if whereCode != "" {
		query += ` WHERE code = $1 AND status IN ('approved','rejected')`
		args = append(args, whereCode)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Request
	for rows.Next() {
		var req Request
		if err := rows.Scan(&req.ID, &req.Code, &req.Name, &req.Type, &req.Zone, &req.Description, &req.Status, &req.Respuesta, &req.NotificationStatus, &req.CreatedAt); err != nil {
			return nil, err
		}
		req.Kind = KindEquipment
		out = append(out, req)
	}
	return out, rows.Err()
}

func (s *Store) GetByID(ctx context.Context, id string) (Request, error) {
	var req Request
	var dates, files string
	err := s.DB.QueryRow(ctx, `
    SELECT `+permitColumns+`
    FROM permit_requests
    WHERE id = $1
  `, id).Scan(&req.ID, &req.Code, &req.Name, &req.Phone, &dates, &req.Time, &req.Type, &req.Description, &files, &req.Status, &req.Respuesta, &req.NotificationStatus, &req.CreatedAt)
	if err == nil {
		req.Kind = KindPermit
		req.Dates = splitList(dates)
		req.Files = splitList(files)
		return req, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Request{}, err
	}

	err = s.DB.QueryRow(ctx, `
    SELECT `+equipmentColumns+`
    FROM equipment_requests
    WHERE id = $1
  `, id).Scan(&req.ID, &req.Code, &req.Name, &req.Type, &req.Zone, &req.Description, &req.Status, &req.Respuesta, &req.NotificationStatus, &req.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Request{}, ErrNotFound
		}
		return Request{}, err
	}
	req.Kind = KindEquipment
	return req, nil
}

func (s *Store) CreatePermit(ctx context.Context, payload PermitInput) (string, error) {
	var id string
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO permit_requests (code, name, phone, dates, time_of_day, novelty_type, description, files)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    RETURNING id
  `, payload.Code, payload.Name, payload.Phone, joinList(payload.Dates), payload.Time, payload.NoveltyType, payload.Description, joinList(payload.Files)).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) CreateEquipment(ctx context.Context, payload EquipmentInput) (string, error) {
	var id string
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO equipment_requests (code, name, type, zone, description)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id
  `, payload.Code, payload.Name, payload.Type, payload.Zone, payload.Description).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

// UpdateStatus tries the permit table first and falls back to equipment,
// mirroring how the two tables share one id space for the API.
func (s *Store) UpdateStatus(ctx context.Context, id, status, respuesta string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE permit_requests SET status = $1, respuesta = $2 WHERE id = $3
  `, status, respuesta, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	tag, err = s.DB.Exec(ctx, `
    UPDATE equipment_requests SET status = $1, respuesta = $2 WHERE id = $3
  `, status, respuesta, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) UpdateNotificationStatus(ctx context.Context, id, status string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE permit_requests SET notification_status = $1 WHERE id = $2
  `, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	tag, err = s.DB.Exec(ctx, `
    UPDATE equipment_requests SET notification_status = $1 WHERE id = $2
  `, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM permit_requests WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	tag, err = s.DB.Exec(ctx, "DELETE FROM equipment_requests WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListDecidedByCode returns an employee's approved and rejected requests
// for the history view.
func (s *Store) ListDecidedByCode(ctx context.Context, code string) ([]Request, error) {
	out, err := s.listPermits(ctx, code)
	if err != nil {
		return nil, err
	}
	equipment, err := s.listEquipment(ctx, code)
	if err != nil {
		return nil, err
	}
	return append(out, equipment...), nil
}

// PurgeDecidedBefore removes decided requests older than cutoff. Used by
// the retention job.
func (s *Store) PurgeDecidedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.DB.Exec(ctx, `
    DELETE FROM permit_requests WHERE status IN ('approved','rejected') AND created_at < $1
  `, cutoff)
	if err != nil {
		return 0, err
	}
	purged := tag.RowsAffected()

	tag, err = s.DB.Exec(ctx, `
    DELETE FROM equipment_requests WHERE status IN ('approved','rejected') AND created_at < $1
  `, cutoff)
	if err != nil {
		return purged, err
	}
	return purged + tag.RowsAffected(), nil
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func joinList(values []string) string {
	return strings.Join(values, ",")
}
