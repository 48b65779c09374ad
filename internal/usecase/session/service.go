// Package session manages ephemeral wizard sessions.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/cityscout/internal/domain"
	"github.com/kailas-cloud/cityscout/internal/domain/wizard"
)

// DefaultTTL is used when the service is created without a TTL.
const DefaultTTL = 30 * time.Minute

// Session is a wizard state with its id.
type Session struct {
	ID    string       `json:"id"`
	State wizard.State `json:"state"`
}

// Service handles the session lifecycle. Every write refreshes the TTL.
type Service struct {
	repo Repository
	ttl  time.Duration
}

// New creates a session service.
func New(repo Repository, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{repo: repo, ttl: ttl}
}

// Create starts a new wizard.
func (s *Service) Create(ctx context.Context) (Session, error) {
	sess := Session{ID: uuid.NewString(), State: wizard.New()}
	if err := s.repo.Save(ctx, sess.ID, sess.State, s.ttl); err != nil {
		return Session{}, fmt.Errorf("save session: %w", err)
	}
	return sess, nil
}

// Get loads a session.
func (s *Service) Get(ctx context.Context, id string) (Session, error) {
	if err := validateID(id); err != nil {
		return Session{}, err
	}
	state, err := s.repo.Load(ctx, id)
	if err != nil {
		return Session{}, fmt.Errorf("load session: %w", err)
	}
	return Session{ID: id, State: state}, nil
}

// Update applies a patch and stores the result.
func (s *Service) Update(ctx context.Context, id string, p wizard.Patch) (Session, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return Session{}, err
	}
	next, err := p.Apply(sess.State)
	if err != nil {
		return Session{}, fmt.Errorf("apply patch: %w", err)
	}
	if err := s.repo.Save(ctx, id, next, s.ttl); err != nil {
		return Session{}, fmt.Errorf("save session: %w", err)
	}
	return Session{ID: id, State: next}, nil
}

// Delete removes a session.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// validateID rejects ids that can never have been issued.
func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: malformed id", domain.ErrSessionNotFound)
	}
	return nil
}
