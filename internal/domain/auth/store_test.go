package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type errRow struct{ err error }

func (r errRow) Scan(dest ...any) error { return r.err }

type errDB struct{ err error }

func (d errDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, d.err
}

func (d errDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return errRow{d.err}
}

func (d errDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, d.err
}

func TestFindByCodeMissingUser(t *testing.T) {
	store := NewStore(errDB{err: pgx.ErrNoRows})
	if _, err := store.FindByCode(context.Background(), "99999"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestFindByCodeQueryFailure(t *testing.T) {
	boom := errors.New("connection reset")
	store := NewStore(errDB{err: boom})
	_, err := store.FindByCode(context.Background(), "11001")
	if errors.Is(err, ErrUserNotFound) {
		t.Fatal("query failure must not be reported as missing user")
	}
	if !errors.Is(err, boom) {
		t.Fatalf("expected underlying error, got %v", err)
	}
}

func TestEmailByCodeQueryFailure(t *testing.T) {
	boom := errors.New("connection reset")
	store := NewStore(errDB{err: boom})
	if _, err := store.EmailByCode(context.Background(), "11001"); !errors.Is(err, boom) {
		t.Fatalf("expected underlying error, got %v", err)
	}
}
