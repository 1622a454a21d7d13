// pkg/secrets/cache_test.go

package secrets

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"github-token", "GITHUB_TOKEN"},
		{"api_key", "API_KEY"},
		{"nango.secret.key", "NANGO_SECRET_KEY"},
		{"mixed-Case.name", "MIXED_CASE_NAME"},
		{"plain", "PLAIN"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EnvName(tt.in))
	}
}

func TestLoad_PartialBatchKeepsResolvedSecrets(t *testing.T) {
	fake := &fakeSecretStore{secrets: map[string]string{
		"github-token": "gh-value",
		"api-key":      "key-value",
	}}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	rc := testRC()
	sess := newTestSession(t, srv.URL)

	cache := Load(rc, sess, DefaultLocation(), []string{"github-token", "missing-one", "api-key"})
	defer cache.Close(rc)

	assert.Equal(t, []string{"api-key", "github-token"}, cache.Names())
	require.NotNil(t, cache.Get("github-token"))
	assert.Equal(t, "gh-value", cache.Get("github-token").String())
	assert.Nil(t, cache.Get("missing-one"))

	// The miss is a warning, not a batch failure.
	err := cache.Warnings()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing-one")
}

func TestLoad_FullBatchHasNoWarnings(t *testing.T) {
	fake := &fakeSecretStore{secrets: map[string]string{"only-one": "v"}}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	rc := testRC()
	sess := newTestSession(t, srv.URL)

	cache := Load(rc, sess, DefaultLocation(), []string{"only-one"})
	defer cache.Close(rc)

	assert.NoError(t, cache.Warnings())
}

func TestEnviron_AppendsConvertedNames(t *testing.T) {
	fake := &fakeSecretStore{secrets: map[string]string{
		"github-token": "gh-value",
		"api.key":      "key-value",
	}}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	rc := testRC()
	sess := newTestSession(t, srv.URL)

	cache := Load(rc, sess, DefaultLocation(), []string{"github-token", "api.key"})
	defer cache.Close(rc)

	base := []string{"PATH=/usr/bin", "HOME=/root"}
	env := cache.Environ(base)

	assert.Equal(t, []string{
		"PATH=/usr/bin",
		"HOME=/root",
		"API_KEY=key-value",
		"GITHUB_TOKEN=gh-value",
	}, env)
	// The base slice is not mutated.
	assert.Len(t, base, 2)
}

func TestClose_ZeroesValuesAndRevokesSession(t *testing.T) {
	fake := &fakeSecretStore{secrets: map[string]string{"github-token": "gh-value"}}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	rc := testRC()
	sess := newTestSession(t, srv.URL)

	cache := Load(rc, sess, DefaultLocation(), []string{"github-token"})
	require.NotNil(t, cache.Get("github-token"))

	require.NoError(t, cache.Close(rc))
	assert.Nil(t, cache.Get("github-token"), "values must be dropped on close")
	assert.True(t, sess.Revoked(), "the backing session must be revoked on close")

	// Close is registered on multiple shutdown paths; the second call is a
	// no-op.
	require.NoError(t, cache.Close(rc))
}

func TestValueZero(t *testing.T) {
	v := NewValue("sensitive")
	assert.Equal(t, "sensitive", v.String())
	v.Zero()
	assert.Equal(t, 0, v.Len())
	assert.Empty(t, v.String())
}
