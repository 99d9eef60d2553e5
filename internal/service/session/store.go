package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"storefront-gateway/internal/domain"
)

// Store is the persistent scope holding the single session token.
type Store interface {
	Read() (string, error)
	Write(token string) error
}

// FileStore keeps the token in one file under the gateway's state directory,
// the equivalent of the browser's persistent storage scope.
type FileStore struct {
	path string
}

func NewFileStore(stateDir string) *FileStore {
	return &FileStore{path: filepath.Join(stateDir, "cart_session_id")}
}

func (s *FileStore) Read() (string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *FileStore) Write(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	if err := os.WriteFile(s.path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}
