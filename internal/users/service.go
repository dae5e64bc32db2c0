package users

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"carona-service/pkg/jwt"
)

// Service contains user business logic.
type Service struct {
	db *pgxpool.Pool
}

// NewService creates a user service backed by the given pool.
func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

// Sync upserts the profile row from the session claims. First sign-in
// creates the row; later syncs keep name and picture current.
func (s *Service) Sync(ctx context.Context, claims *jwt.Claims) (*User, error) {
	if claims == nil {
		return nil, errors.New("not authenticated")
	}
	name := strings.TrimSpace(claims.Name)
	if name == "" {
		name = "Usuário"
	}
	var image *string
	if claims.Picture != "" {
		image = &claims.Picture
	}

	var u User
	err := s.db.QueryRow(ctx,
		`INSERT INTO users (id,name,image) VALUES ($1,$2,$3)
		 ON CONFLICT (id) DO UPDATE SET name=EXCLUDED.name, image=EXCLUDED.image
		 RETURNING id,name,image,created_at`,
		claims.UserID, name, image).
		Scan(&u.ID, &u.Name, &u.Image, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByID fetches a single user by primary key.
func (s *Service) GetByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := s.db.QueryRow(ctx,
		`SELECT id,name,image,created_at FROM users WHERE id=$1`, id).
		Scan(&u.ID, &u.Name, &u.Image, &u.CreatedAt)
	if err != nil {
		return nil, errors.New("user not found")
	}
	return &u, nil
}
