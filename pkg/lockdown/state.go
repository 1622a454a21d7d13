// pkg/lockdown/state.go

// Package lockdown implements the incident-response escalation ladder and
// its inverse. The ladder's sub-states are independent: full lockdown is the
// conjunction of all four, and each is reversed by its own restore action.
package lockdown

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	cerr "github.com/cockroachdb/errors"
)

// Sub-state values. Deliberately strings so the persisted file is readable
// during an incident without tooling.
const (
	VaultSealed   = "sealed"
	VaultUnsealed = "unsealed"

	OAuthRevoked = "revoked"
	OAuthActive  = "active"

	ConsumersStopped = "stopped"
	ConsumersRunning = "running"

	NetworkBlocked = "blocked"
	NetworkOpen    = "open"
)

// State is the explicit value object for the four lockdown sub-states. It is
// passed into and returned from controller operations and persisted behind
// the Store interface, so the sequencing logic is testable without a real
// vault or keychain.
type State struct {
	Vault     string    `json:"vault"`
	OAuth     string    `json:"oauth"`
	Consumers string    `json:"consumers"`
	Network   string    `json:"network"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Normal is the everything-running state.
func Normal() State {
	return State{
		Vault:     VaultUnsealed,
		OAuth:     OAuthActive,
		Consumers: ConsumersRunning,
		Network:   NetworkOpen,
	}
}

// FullyLockedDown reports whether every sub-state is at maximum safety.
func (s State) FullyLockedDown() bool {
	return s.Vault == VaultSealed &&
		s.OAuth == OAuthRevoked &&
		s.Consumers == ConsumersStopped &&
		s.Network == NetworkBlocked
}

// Store persists lockdown state between invocations.
type Store interface {
	Load() (State, error)
	Save(State) error
}

// FileStore keeps the state as JSON on disk.
type FileStore struct {
	Path string
}

// NewFileStore returns a file-backed store at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load reads the persisted state. A missing file means normal operation.
func (fs *FileStore) Load() (State, error) {
	data, err := os.ReadFile(fs.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return Normal(), nil
		}
		return State{}, cerr.Wrap(err, "read lockdown state")
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return State{}, cerr.Wrap(err, "parse lockdown state")
	}
	return s, nil
}

// Save writes the state atomically (temp file + rename) so a crash mid-write
// cannot leave a truncated state file.
func (fs *FileStore) Save(s State) error {
	s.UpdatedAt = time.Now().UTC()

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return cerr.Wrap(err, "encode lockdown state")
	}

	dir := filepath.Dir(fs.Path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return cerr.Wrap(err, "create state directory")
	}

	tmp, err := os.CreateTemp(dir, ".lockdown-*")
	if err != nil {
		return cerr.Wrap(err, "create temp state file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return cerr.Wrap(err, "write lockdown state")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return cerr.Wrap(err, "close temp state file")
	}

	if err := os.Rename(tmpName, fs.Path); err != nil {
		os.Remove(tmpName)
		return cerr.Wrap(err, "replace lockdown state")
	}
	return os.Chmod(fs.Path, 0o600)
}
