// pkg/lockdown/state_test.go

package lockdown

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_MissingFileMeansNormal(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "lockdown.json"))

	state, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, Normal(), state)
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lockdown.json")
	store := NewFileStore(path)

	saved := State{
		Vault:     VaultSealed,
		OAuth:     OAuthRevoked,
		Consumers: ConsumersStopped,
		Network:   NetworkBlocked,
	}
	require.NoError(t, store.Save(saved))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, saved.Vault, loaded.Vault)
	assert.Equal(t, saved.OAuth, loaded.OAuth)
	assert.Equal(t, saved.Consumers, loaded.Consumers)
	assert.Equal(t, saved.Network, loaded.Network)
	assert.False(t, loaded.UpdatedAt.IsZero(), "save must stamp the state")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStore_CorruptFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lockdown.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileStore(path).Load()
	assert.Error(t, err)
}

func TestFullyLockedDown(t *testing.T) {
	assert.False(t, Normal().FullyLockedDown())

	s := State{
		Vault:     VaultSealed,
		OAuth:     OAuthRevoked,
		Consumers: ConsumersStopped,
		Network:   NetworkBlocked,
	}
	assert.True(t, s.FullyLockedDown())

	s.Network = NetworkOpen
	assert.False(t, s.FullyLockedDown())
}
