package requests

import (
	"context"
	"time"
)

type StoreAPI interface {
	ListAll(ctx context.Context) ([]Request, error)
	GetByID(ctx context.Context, id string) (Request, error)
	CreatePermit(ctx context.Context, payload PermitInput) (string, error)
	CreateEquipment(ctx context.Context, payload EquipmentInput) (string, error)
	UpdateStatus(ctx context.Context, id, status, respuesta string) error
	UpdateNotificationStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
	ListDecidedByCode(ctx context.Context, code string) ([]Request, error)
	PurgeDecidedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
