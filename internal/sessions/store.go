package sessions

import (
	"context"
	"errors"

	"github.com/PrepGrid-2025/testing-service/internal/models"
)

// ErrSessionNotFound covers both a token that never existed and one that has
// expired; callers treat the two identically.
var ErrSessionNotFound = errors.New("session not found")

// Store persists session tokens across requests and process restarts. Two
// implementations exist: a durable database table (default) and Redis with a
// native TTL (used when REDIS_URL is configured).
type Store interface {
	// Create mints a new opaque session token bound to the principal id.
	Create(ctx context.Context, userID uint) (*models.Session, error)

	// Get resolves a token to its session; expired sessions are not returned.
	Get(ctx context.Context, id string) (*models.Session, error)

	// Delete removes a session (logout). Deleting an absent session is not
	// an error.
	Delete(ctx context.Context, id string) error
}
