// pkg/nango/revoke_test.go

package nango

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/venom444556/openclaw-secure-deploy/pkg/claw_io"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProxy serves a fixed connection list and records every delete. IDs in
// failDeletes answer 500, IDs in goneDeletes answer 404.
type fakeProxy struct {
	connections []Connection
	failDeletes map[string]bool
	goneDeletes map[string]bool

	mu      sync.Mutex
	deleted []string
	auth    []string
}

func (f *fakeProxy) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/connections", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.auth = append(f.auth, r.Header.Get("Authorization"))
		f.mu.Unlock()
		json.NewEncoder(w).Encode(connectionList{Connections: f.connections})
	})

	mux.HandleFunc("/connection/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		id := strings.TrimPrefix(r.URL.Path, "/connection/")
		f.mu.Lock()
		f.deleted = append(f.deleted, id)
		f.mu.Unlock()

		switch {
		case f.failDeletes[id]:
			w.WriteHeader(http.StatusInternalServerError)
		case f.goneDeletes[id]:
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	})

	return mux
}

func (f *fakeProxy) deletedIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

func testRC() *claw_io.RuntimeContext {
	return &claw_io.RuntimeContext{Ctx: context.Background()}
}

func newTestProxy(t *testing.T, fake *fakeProxy, secretKey string) *Client {
	t.Helper()
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL, secretKey)
	c.SetHTTPClient(srv.Client())
	return c
}

func TestRevokeAll_OneFailureDoesNotBlockTheRest(t *testing.T) {
	fake := &fakeProxy{
		connections: []Connection{
			{ConnectionID: "conn-1", ProviderConfigKey: "github"},
			{ConnectionID: "conn-2", ProviderConfigKey: "slack"},
			{ConnectionID: "conn-3", ProviderConfigKey: "github"},
		},
		failDeletes: map[string]bool{"conn-2": true},
	}
	client := newTestProxy(t, fake, "")

	report, err := client.RevokeAll(testRC())
	require.NoError(t, err)

	assert.Equal(t, []string{"conn-1", "conn-2", "conn-3"}, fake.deletedIDs(),
		"every connection must be attempted despite the failure")
	assert.Equal(t, 2, report.Succeeded())
	assert.Equal(t, 1, report.Failed())

	summary := report.Summary()
	require.Error(t, summary)
	assert.Contains(t, summary.Error(), "conn-2")
}

func TestRevokeAll_AlreadyGoneIsSuccess(t *testing.T) {
	fake := &fakeProxy{
		connections: []Connection{
			{ConnectionID: "conn-1", ProviderConfigKey: "github"},
		},
		goneDeletes: map[string]bool{"conn-1": true},
	}
	client := newTestProxy(t, fake, "")

	report, err := client.RevokeAll(testRC())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Succeeded())
	assert.Equal(t, 0, report.Failed())
	assert.NoError(t, report.Summary())
}

func TestRevokeByProvider_FiltersConnections(t *testing.T) {
	fake := &fakeProxy{
		connections: []Connection{
			{ConnectionID: "conn-1", ProviderConfigKey: "github"},
			{ConnectionID: "conn-2", ProviderConfigKey: "slack"},
			{ConnectionID: "conn-3", ProviderConfigKey: "github"},
		},
	}
	client := newTestProxy(t, fake, "")

	report, err := client.RevokeByProvider(testRC(), "github")
	require.NoError(t, err)

	assert.Equal(t, []string{"conn-1", "conn-3"}, fake.deletedIDs())
	assert.Equal(t, 2, report.Succeeded())
}

func TestListConnections_SendsBearerAuth(t *testing.T) {
	fake := &fakeProxy{}
	client := newTestProxy(t, fake, "nango-secret-key")

	_, err := client.ListConnections(context.Background())
	require.NoError(t, err)
	require.Len(t, fake.auth, 1)
	assert.Equal(t, "Bearer nango-secret-key", fake.auth[0])
}
