package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/hitchly/hitchly-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository implements domain.UserRepository using PostgreSQL
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, auth0_id, email, name, picture_url, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Auth0ID, &u.Email, &u.Name, &u.PictureURL, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByID retrieves a user by its internal ID
func (r *UserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// GetByAuth0ID retrieves a user by their Auth0 subject
func (r *UserRepository) GetByAuth0ID(auth0ID string) (*domain.User, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE auth0_id = $1`, auth0ID)
	return scanUser(row)
}

// Create creates a new user
func (r *UserRepository) Create(user *domain.User) (*domain.User, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`INSERT INTO users (auth0_id, email, name, picture_url)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+userColumns,
		user.Auth0ID, user.Email, user.Name, user.PictureURL)
	created, err := scanUser(row)
	if err != nil {
		if isPgUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	return created, nil
}

// Update updates a user's profile fields
func (r *UserRepository) Update(user *domain.User) (*domain.User, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`UPDATE users
		 SET email = $2, name = $3, picture_url = $4, updated_at = now()
		 WHERE id = $1
		 RETURNING `+userColumns,
		user.ID, user.Email, user.Name, user.PictureURL)
	return scanUser(row)
}

// CreateOrGetByAuth0ID returns the existing user for the Auth0 subject or
// creates one. Concurrent first logins race on the auth0_id unique index; the
// loser re-reads.
func (r *UserRepository) CreateOrGetByAuth0ID(auth0ID, email string, name, pictureURL *string) (*domain.User, error) {
	existing, err := r.GetByAuth0ID(auth0ID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	created, err := r.Create(&domain.User{
		Auth0ID:    auth0ID,
		Email:      email,
		Name:       name,
		PictureURL: pictureURL,
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return r.GetByAuth0ID(auth0ID)
		}
		return nil, err
	}
	return created, nil
}
