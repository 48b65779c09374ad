package session

import (
	"context"
	"time"

	"github.com/kailas-cloud/cityscout/internal/domain/wizard"
)

// Repository defines the storage contract for wizard sessions.
// Load and Delete return domain.ErrSessionNotFound for unknown ids.
type Repository interface {
	Save(ctx context.Context, id string, state wizard.State, ttl time.Duration) error
	Load(ctx context.Context, id string) (wizard.State, error)
	Delete(ctx context.Context, id string) error
}
