package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"permits/internal/platform/querier"
)

var ErrUserNotFound = errors.New("user not found")

type User struct {
	ID           string `json:"id"`
	Code         string `json:"code"`
	Name         string `json:"name"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty"`
	Role         string `json:"role"`
	PasswordHash string `json:"-"`
}

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) FindByCode(ctx context.Context, code string) (User, error) {
	var user User
	err := s.DB.QueryRow(ctx, `
    SELECT id, code, name, phone, email, role, password_hash
    FROM users
    WHERE code = $1
  `, code).Scan(&user.ID, &user.Code, &user.Name, &user.Phone, &user.Email, &user.Role, &user.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}
	return user, nil
}

func (s *Store) EmailByCode(ctx context.Context, code string) (string, error) {
	var email string
	if err := s.DB.QueryRow(ctx, "SELECT COALESCE(email, '') FROM users WHERE code = $1", code).Scan(&email); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrUserNotFound
		}
		return "", err
	}
	return email, nil
}

func (s *Store) UpdatePhone(ctx context.Context, code, phone string) error {
	tag, err := s.DB.Exec(ctx, "UPDATE users SET phone = $1 WHERE code = $2", phone, code)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *Store) CreateUser(ctx context.Context, code, name, role, passwordHash string) (string, error) {
	var id string
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO users (code, name, role, password_hash)
    VALUES ($1,$2,$3,$4)
    ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name
    RETURNING id
  `, code, name, role, passwordHash).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}
