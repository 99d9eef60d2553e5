// Package session issues and persists the opaque anonymous token scoping a
// browser's server-side cart. The token is generated once per storage scope
// and returned unchanged on every later call.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"storefront-gateway/internal/domain"
)

// Unavailable is the sentinel returned when persistent storage is not ready.
// Callers must treat it as "cannot load cart yet" and retry.
const Unavailable = ""

const (
	retryAttempts = 3
	retryInterval = 500 * time.Millisecond
)

type Service struct {
	store  Store
	logger *log.Logger

	mu     sync.Mutex
	cached string
}

func New(store Store, logger *log.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// GetOrCreate returns the persisted session token, generating and persisting
// one on first use. Fails soft: when storage is unavailable it returns the
// Unavailable sentinel alongside domain.ErrStorageUnavailable.
func (s *Service) GetOrCreate() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != "" {
		return s.cached, nil
	}

	token, err := s.store.Read()
	if err != nil {
		return Unavailable, err
	}
	if token != "" {
		s.cached = token
		return token, nil
	}

	token = newToken()
	if err := s.store.Write(token); err != nil {
		return Unavailable, err
	}
	s.cached = token
	s.logger.Printf("issued session %s", token)
	return token, nil
}

// WaitForSession retries GetOrCreate over the storage-not-ready condition,
// bounded at 3 attempts spaced 500ms apart, then gives up and reports the
// cart as unavailable. Only ErrStorageUnavailable is retried.
func (s *Service) WaitForSession(ctx context.Context) (string, error) {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(retryInterval), retryAttempts-1),
		ctx,
	)
	return backoff.RetryWithData(func() (string, error) {
		token, err := s.GetOrCreate()
		if err != nil {
			if !errors.Is(err, domain.ErrStorageUnavailable) {
				return Unavailable, backoff.Permanent(err)
			}
			return Unavailable, err
		}
		return token, nil
	}, policy)
}

// Tokens carry a millisecond timestamp plus a random suffix: collision
// resistant without any cryptographic claim.
func newToken() string {
	return fmt.Sprintf("sess_%d_%s", time.Now().UnixMilli(), uuid.NewString())
}
