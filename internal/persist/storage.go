package persist

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// RootKey is the key the application snapshot is stored under.
const RootKey = "root"

// DefaultDir is where state lives unless configured otherwise.
const DefaultDir = "~/.local/share/storeadmin"

// Storage is a byte store keyed by short names.
type Storage interface {
	// Load returns the payload for key. ok is false when nothing was saved.
	Load(ctx context.Context, key string) (payload []byte, ok bool, err error)
	Save(ctx context.Context, key string, payload []byte) error
	Close() error
}

// Backend names a Storage implementation.
type Backend string

const (
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
)

// Open returns the storage for backend rooted at dir.
func Open(backend Backend, dir string) (Storage, error) {
	switch Backend(strings.ToLower(strings.TrimSpace(string(backend)))) {
	case "", BackendFile:
		return NewFileStorage(dir)
	case BackendSQLite:
		resolved, err := ExpandPath(dir, DefaultDir)
		if err != nil {
			return nil, err
		}
		return OpenSQLite(filepath.Join(resolved, "state.db"))
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

var keyPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

func checkKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("invalid storage key %q", key)
	}
	return nil
}

// ExpandPath resolves ~ and makes path absolute. An empty path uses fallback.
func ExpandPath(path, fallback string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		trimmed = fallback
	}
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
