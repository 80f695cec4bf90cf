package requests

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidState  = errors.New("invalid state")
	ErrInvalidStatus = errors.New("invalid status")
)

// DecisionNotifier is told about approve/reject decisions so the employee
// can be informed out of band. Implementations must not block.
type DecisionNotifier interface {
	NotifyDecision(ctx context.Context, req Request)
}

type Service struct {
	Store  StoreAPI
	Notify DecisionNotifier
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store}
}

func (s *Service) List(ctx context.Context) ([]Request, error) {
	return s.Store.ListAll(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (Request, error) {
	return s.Store.GetByID(ctx, id)
}

// Grouped runs the pending-request management view: classify, restrict,
// group by employee code, filter, sort, page.
func (s *Service) Grouped(ctx context.Context, tab Kind, f Filter, page, pageSize int) (Page[Group], int, error) {
	all, err := s.Store.ListAll(ctx)
	if err != nil {
		return Page[Group]{}, 0, err
	}
	grouped := GroupPending(all, tab, f)
	return Paginate(grouped.Groups, page, pageSize), grouped.Total, nil
}

func (s *Service) Weekly(ctx context.Context, now time.Time, offset int) (WeekSummary, error) {
	all, err := s.Store.ListAll(ctx)
	if err != nil {
		return WeekSummary{}, err
	}
	return BuildWeek(all, now, offset), nil
}

func (s *Service) Stats(ctx context.Context, period string, now time.Time) (Stats, error) {
	all, err := s.Store.ListAll(ctx)
	if err != nil {
		return Stats{}, err
	}
	return BuildStats(all, period, now), nil
}

func (s *Service) CreatePermit(ctx context.Context, payload PermitInput) (string, error) {
	return s.Store.CreatePermit(ctx, payload)
}

func (s *Service) CreateEquipment(ctx context.Context, payload EquipmentInput) (string, error) {
	return s.Store.CreateEquipment(ctx, payload)
}

// UpdateStatus applies an approve/reject decision. Only pending requests
// can be decided; there is no path back out of a decided state.
func (s *Service) UpdateStatus(ctx context.Context, id, status, respuesta string) (Request, error) {
	if status != StatusApproved && status != StatusRejected {
		return Request{}, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	current, err := s.Store.GetByID(ctx, id)
	if err != nil {
		return Request{}, err
	}
	if current.Status != StatusPending {
		return Request{}, fmt.Errorf("%w: request is %s", ErrInvalidState, current.Status)
	}

	if err := s.Store.UpdateStatus(ctx, id, status, respuesta); err != nil {
		return Request{}, err
	}
	current.Status = status
	current.Respuesta = respuesta

	if s.Notify != nil {
		s.Notify.NotifyDecision(ctx, current)
	}
	return current, nil
}

func (s *Service) UpdateNotificationStatus(ctx context.Context, id, status string) error {
	return s.Store.UpdateNotificationStatus(ctx, id, status)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.Store.Delete(ctx, id)
}

func (s *Service) History(ctx context.Context, code string) ([]Request, error) {
	return s.Store.ListDecidedByCode(ctx, code)
}

func (s *Service) PurgeDecidedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return s.Store.PurgeDecidedBefore(ctx, cutoff)
}
