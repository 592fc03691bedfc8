package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/confdesk/confdesk/internal/storage"
	"github.com/confdesk/confdesk/pkg/models"
)

// CreateUser persists a new user to the database.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt == 0 {
		user.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users (id, name, email, password_hash, created_at) VALUES (?, ?, ?, ?, ?)",
		user.ID, user.Name, user.Email, user.PasswordHash, user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetUserByEmail retrieves a user by email.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, "email", email)
}

// GetUserByID retrieves a user by ID.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.getUser(ctx, "id", id)
}

func (s *SQLiteStore) getUser(ctx context.Context, column, value string) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, email, password_hash, created_at FROM users WHERE "+column+" = ?",
		value,
	).Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %s=%s: %w", column, value, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// CreateConference persists a new conference.
func (s *SQLiteStore) CreateConference(ctx context.Context, conf *models.Conference) error {
	if conf.ID == "" {
		conf.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO conferences (id, title, abbr, logo) VALUES (?, ?, ?, ?)",
		conf.ID, conf.Title, conf.Abbr, conf.Logo,
	)
	if err != nil {
		return fmt.Errorf("failed to insert conference: %w", err)
	}
	return nil
}

// GetConference retrieves a conference by ID.
func (s *SQLiteStore) GetConference(ctx context.Context, id string) (*models.Conference, error) {
	conf := &models.Conference{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, title, abbr, logo FROM conferences WHERE id = ?",
		id,
	).Scan(&conf.ID, &conf.Title, &conf.Abbr, &conf.Logo)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("conference %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conference: %w", err)
	}
	return conf, nil
}
