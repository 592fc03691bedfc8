// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/confdesk/confdesk/pkg/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the interface for confdesk storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the handler layer.
type Store interface {
	// CreateUser persists a new user. The user.ID field will be populated
	// by the store if empty.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// CreateConference persists a new conference.
	CreateConference(ctx context.Context, conf *models.Conference) error

	// GetConference retrieves a conference by ID.
	GetConference(ctx context.Context, id string) (*models.Conference, error)

	// CreateAssignment persists a new assignment and returns the assigned ID.
	CreateAssignment(ctx context.Context, a *models.Assignment) error

	// GetAssignment retrieves an assignment by ID.
	GetAssignment(ctx context.Context, id string) (*models.Assignment, error)

	// UpdateAnswers overwrites an assignment's answers if seq is greater
	// than the stored sequence. A write with a stale sequence is
	// acknowledged as a no-op with accepted=false, so an overlapping
	// autosave that arrives late can never clobber a newer one.
	UpdateAnswers(ctx context.Context, id string, answers []string, seq uint64) (accepted bool, err error)

	// SetSubmitted sets the assignment's submitted flag.
	SetSubmitted(ctx context.Context, id string, submitted bool) error

	// CreatePayment persists a new payment with its discounts.
	CreatePayment(ctx context.Context, p *models.Payment) error

	// GetPayment retrieves a payment by ID, including discounts in order.
	GetPayment(ctx context.Context, id string) (*models.Payment, error)

	// ConfirmPayment marks a waiting payment as paid at the given time.
	// Used by the back-office confirmation process.
	ConfirmPayment(ctx context.Context, id string, at time.Time) error

	// Close releases any resources held by the store.
	Close() error
}
