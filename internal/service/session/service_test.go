package session

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"storefront-gateway/internal/domain"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

type flakyStore struct {
	failures int
	reads    int
	value    string
}

func (s *flakyStore) Read() (string, error) {
	s.reads++
	if s.reads <= s.failures {
		return "", domain.ErrStorageUnavailable
	}
	return s.value, nil
}

func (s *flakyStore) Write(token string) error {
	s.value = token
	return nil
}

func TestGetOrCreatePersistsOnce(t *testing.T) {
	svc := New(NewFileStore(t.TempDir()), testLogger())

	first, err := svc.GetOrCreate()
	require.NoError(t, err)
	require.NotEmpty(t, first)
	require.True(t, strings.HasPrefix(first, "sess_"))

	second, err := svc.GetOrCreate()
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestGetOrCreateSurvivesRestart(t *testing.T) {
	dir := t.TempDir()

	svc := New(NewFileStore(dir), testLogger())
	first, err := svc.GetOrCreate()
	require.NoError(t, err)

	// A fresh service over the same storage scope sees the same token.
	again := New(NewFileStore(dir), testLogger())
	second, err := again.GetOrCreate()
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestGetOrCreateFailsSoft(t *testing.T) {
	svc := New(&flakyStore{failures: 99}, testLogger())

	token, err := svc.GetOrCreate()
	require.ErrorIs(t, err, domain.ErrStorageUnavailable)
	require.Equal(t, Unavailable, token)
}

func TestWaitForSessionRetriesStorageNotReady(t *testing.T) {
	store := &flakyStore{failures: 2}
	svc := New(store, testLogger())

	token, err := svc.WaitForSession(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, 3, store.reads)
}

type brokenStore struct {
	reads int
	err   error
}

func (s *brokenStore) Read() (string, error) {
	s.reads++
	return "", s.err
}

func (s *brokenStore) Write(string) error {
	return s.err
}

func TestWaitForSessionDoesNotRetryOtherErrors(t *testing.T) {
	store := &brokenStore{err: errors.New("token file corrupt")}
	svc := New(store, testLogger())

	_, err := svc.WaitForSession(context.Background())
	require.Error(t, err)
	require.NotErrorIs(t, err, domain.ErrStorageUnavailable)
	require.Equal(t, 1, store.reads)
}

func TestWaitForSessionGivesUpAfterThreeAttempts(t *testing.T) {
	store := &flakyStore{failures: 99}
	svc := New(store, testLogger())

	_, err := svc.WaitForSession(context.Background())
	require.ErrorIs(t, err, domain.ErrStorageUnavailable)
	require.Equal(t, 3, store.reads)
}
