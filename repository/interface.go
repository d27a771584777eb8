package repository

import (
	"context"
	"errors"
	"time"

	"github.com/saatgomi1/secondsense/models"
)

// ErrSessionNotFound is returned when no session exists for an id
var ErrSessionNotFound = errors.New("session not found")

// SessionRepositoryInterface defines the contract for session storage.
// Implementations store copies: mutating a returned session has no effect until Save.
type SessionRepositoryInterface interface {
	Save(ctx context.Context, session *models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
