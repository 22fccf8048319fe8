// Package services contains the application services of the admin console:
// session lifecycle, directory browsing, account mutations, and the bulk
// email compose flow.
package services

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/arcadmin/internal/client/client"
	"github.com/dmitrijs2005/arcadmin/internal/client/models"
	"github.com/dmitrijs2005/arcadmin/internal/logging"
)

// DefaultTeardownDelay is how long a forced logout is postponed after a
// self-affecting mutation, so the operator sees the outcome report first.
const DefaultTeardownDelay = 1200 * time.Millisecond

// Session guards access to the console. Every other service assumes Verify
// or Login succeeded before it is used.
type Session struct {
	client client.Client
	log    logging.Logger

	// TeardownDelay is overridable in tests.
	TeardownDelay time.Duration

	mu      sync.Mutex
	account models.Account
	authed  bool
}

func NewSession(c client.Client, log logging.Logger) *Session {
	if log == nil {
		log = logging.Nop()
	}
	return &Session{client: c, log: log, TeardownDelay: DefaultTeardownDelay}
}

// Verify asks the backend whether the stored session cookie is still valid
// and caches the reported account. ErrUnauthorized means login is required.
func (s *Session) Verify(ctx context.Context) (models.Account, error) {
	account, err := s.client.Verify(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.authed = false
		s.account = models.Account{}
		return models.Account{}, err
	}
	s.account = account
	s.authed = true
	return account, nil
}

// Login authenticates with email and password.
func (s *Session) Login(ctx context.Context, email, password string) (models.Account, error) {
	account, err := s.client.Login(ctx, email, password)
	if err != nil {
		return models.Account{}, err
	}
	s.mu.Lock()
	s.account = account
	s.authed = true
	s.mu.Unlock()
	s.log.Info(ctx, "logged in", "email", account.Email)
	return account, nil
}

// Logout ends the backend session. Local state is dropped even when the
// backend call fails.
func (s *Session) Logout(ctx context.Context) error {
	err := s.client.Logout(ctx)
	s.mu.Lock()
	s.account = models.Account{}
	s.authed = false
	s.mu.Unlock()
	return err
}

// Account returns the authenticated operator, if any.
func (s *Session) Account() (models.Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.account, s.authed
}

// Teardown logs out after TeardownDelay. Used when a mutation removed or
// invalidated the operator's own account.
func (s *Session) Teardown(ctx context.Context) error {
	s.log.Warn(ctx, "session invalidated, logging out", "delay", s.TeardownDelay)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.TeardownDelay):
	}
	return s.Logout(ctx)
}

// Close releases the underlying client.
func (s *Session) Close() error {
	return s.client.Close()
}
