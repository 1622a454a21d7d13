// pkg/secrets/fetcher_test.go

package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/venom444556/openclaw-secure-deploy/pkg/claw_io"
	"github.com/venom444556/openclaw-secure-deploy/pkg/vault"
	"github.com/hashicorp/vault/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSecretStore serves approle login plus KV v2 reads, writes, and metadata
// listing under the given location (secret/data/openclaw unless overridden).
// Secrets in forbidden return 403; names in deleted return a KV v2
// soft-delete response; everything else unknown is a 404.
type fakeSecretStore struct {
	location  Location
	secrets   map[string]string
	forbidden map[string]bool
	deleted   map[string]bool

	secretReads int64

	mu      sync.Mutex
	revoked map[string]bool
}

func (f *fakeSecretStore) handler() http.Handler {
	if f.location == (Location{}) {
		f.location = DefaultLocation()
	}
	dataRoute := "/v1/" + f.location.Mount + "/data/" + f.location.Prefix + "/"
	mux := http.NewServeMux()

	mux.HandleFunc("/v1/auth/approle/login", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"auth": map[string]interface{}{
				"client_token":   "hvs.CAESIFaketokenfortestingonly0000000000",
				"accessor":       "accessor-test-2",
				"lease_duration": 120,
			},
		})
	})
	mux.HandleFunc("/v1/auth/token/lookup-self", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"data": map[string]interface{}{}})
	})
	mux.HandleFunc("/v1/auth/token/revoke-self", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		if f.revoked == nil {
			f.revoked = make(map[string]bool)
		}
		f.revoked[r.Header.Get("X-Vault-Token")] = true
		f.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("/v1/"+f.location.Mount+"/metadata/"+f.location.Prefix, func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		names := make([]string, 0, len(f.secrets))
		for name := range f.secrets {
			names = append(names, name)
		}
		f.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{"keys": names},
		})
	})

	mux.HandleFunc(dataRoute, func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, dataRoute)

		f.mu.Lock()
		tokenRevoked := f.revoked[r.Header.Get("X-Vault-Token")]
		f.mu.Unlock()
		if tokenRevoked || r.Header.Get("X-Vault-Token") == "" {
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]interface{}{"errors": []string{"permission denied"}})
			return
		}

		if r.Method == http.MethodPut || r.Method == http.MethodPost {
			var body struct {
				Data map[string]string `json:"data"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			f.mu.Lock()
			if f.secrets == nil {
				f.secrets = make(map[string]string)
			}
			f.secrets[name] = body.Data["value"]
			f.mu.Unlock()
			json.NewEncoder(w).Encode(map[string]interface{}{
				"data": map[string]interface{}{"version": 2},
			})
			return
		}

		atomic.AddInt64(&f.secretReads, 1)
		switch {
		case f.forbidden[name]:
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]interface{}{"errors": []string{"permission denied"}})
		case f.deleted[name]:
			json.NewEncoder(w).Encode(map[string]interface{}{
				"data": map[string]interface{}{
					"data":     nil,
					"metadata": map[string]interface{}{"deletion_time": "2026-01-02T03:04:05Z"},
				},
			})
		default:
			value, ok := f.secrets[name]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(map[string]interface{}{"errors": []string{}})
				return
			}
			json.NewEncoder(w).Encode(map[string]interface{}{
				"data": map[string]interface{}{
					"data":     map[string]interface{}{"value": value},
					"metadata": map[string]interface{}{"version": 1},
				},
			})
		}
	})

	return mux
}

func testRC() *claw_io.RuntimeContext {
	return &claw_io.RuntimeContext{Ctx: context.Background()}
}

func newTestSession(t *testing.T, addr string) *vault.Session {
	t.Helper()
	cfg := api.DefaultConfig()
	cfg.Address = addr
	cfg.MaxRetries = 0
	client, err := api.NewClient(cfg)
	require.NoError(t, err)
	client.ClearToken()

	sess, err := vault.Authenticate(testRC(), client,
		vault.Credential{RoleID: "role", SecretID: "secret"}, vault.RoleAgent)
	require.NoError(t, err)
	return sess
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"plain", "github-token", "github-token", false},
		{"dots and underscores", "api_key.v2", "api_key.v2", false},
		{"surrounding whitespace trimmed", "  api-key  ", "api-key", false},
		{"empty", "", "", true},
		{"whitespace only", "   ", "", true},
		{"slash", "a/b", "", true},
		{"backslash", `a\b`, "", true},
		{"traversal", "../sibling", "", true},
		{"dot dot alone", "..", "", true},
		{"embedded null", "tok\x00en", "token", false},
		{"space inside", "my token", "", true},
		{"shell metacharacter", "a;b", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateName(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidName))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocationPaths(t *testing.T) {
	loc := DefaultLocation()
	assert.Equal(t, "secret/data/openclaw/github-token", loc.DataPath("github-token"))
	assert.Equal(t, "secret/metadata/openclaw", loc.MetadataPath())

	custom := Location{Mount: "kv", Prefix: "othergateway"}
	assert.Equal(t, "kv/data/othergateway/github-token", custom.DataPath("github-token"))
	assert.Equal(t, "kv/metadata/othergateway", custom.MetadataPath())
}

func TestFetch_HonorsConfiguredMountAndPrefix(t *testing.T) {
	loc := Location{Mount: "kv", Prefix: "othergateway"}
	fake := &fakeSecretStore{
		location: loc,
		secrets:  map[string]string{"some-name": "configured-value"},
	}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	rc := testRC()
	sess := newTestSession(t, srv.URL)
	defer sess.Revoke(rc)

	// The fake only answers under kv/data/othergateway; a fetch that still
	// used the default layout would 404.
	val, err := Fetch(rc, sess, loc, "some-name")
	require.NoError(t, err)
	defer val.Zero()
	assert.Equal(t, "configured-value", val.String())
}

func TestFetch_ResolvesValue(t *testing.T) {
	fake := &fakeSecretStore{secrets: map[string]string{"github-token": "hunter2"}}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	rc := testRC()
	sess := newTestSession(t, srv.URL)
	defer sess.Revoke(rc)

	val, err := Fetch(rc, sess, DefaultLocation(), "github-token")
	require.NoError(t, err)
	defer val.Zero()

	assert.Equal(t, "hunter2", val.String())
	assert.Equal(t, 7, val.Len())
}

func TestFetch_ErrorMapping(t *testing.T) {
	fake := &fakeSecretStore{
		secrets:   map[string]string{},
		forbidden: map[string]bool{"admin-only": true},
		deleted:   map[string]bool{"rotated-away": true},
	}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	rc := testRC()
	sess := newTestSession(t, srv.URL)
	defer sess.Revoke(rc)

	_, err := Fetch(rc, sess, DefaultLocation(), "no-such-secret")
	assert.True(t, errors.Is(err, ErrNotFound), "missing entry: got %v", err)

	_, err = Fetch(rc, sess, DefaultLocation(), "admin-only")
	assert.True(t, errors.Is(err, ErrForbidden), "forbidden entry: got %v", err)

	_, err = Fetch(rc, sess, DefaultLocation(), "rotated-away")
	assert.True(t, errors.Is(err, ErrNotFound), "soft-deleted entry: got %v", err)
}

func TestFetch_InvalidNameNeverReachesNetwork(t *testing.T) {
	fake := &fakeSecretStore{secrets: map[string]string{}}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	rc := testRC()
	sess := newTestSession(t, srv.URL)
	defer sess.Revoke(rc)

	for _, name := range []string{"../../../etc/passwd", "a/b", "", "x;rm"} {
		_, err := Fetch(rc, sess, DefaultLocation(), name)
		assert.True(t, errors.Is(err, ErrInvalidName), "name %q: got %v", name, err)
	}
	assert.Equal(t, int64(0), atomic.LoadInt64(&fake.secretReads),
		"rejected names must not produce secret reads")
}

func TestFetch_RevokedSessionHasNoResidualAccess(t *testing.T) {
	fake := &fakeSecretStore{secrets: map[string]string{"anthropic-api-key": "sk-value"}}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	rc := testRC()
	sess := newTestSession(t, srv.URL)

	val, err := Fetch(rc, sess, DefaultLocation(), "anthropic-api-key")
	require.NoError(t, err)
	val.Zero()

	require.NoError(t, sess.Revoke(rc))

	_, err = Fetch(rc, sess, DefaultLocation(), "anthropic-api-key")
	require.Error(t, err, "a revoked session must not fetch")
	assert.True(t, errors.Is(err, ErrForbidden), "got %v", err)
}
