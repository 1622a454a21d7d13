// pkg/secrets/cache.go
//
// Process-memory credential cache. One session covers the whole batch so a
// task needs exactly one authenticate/revoke pair, keeping the live-token
// window as small as the task itself.

package secrets

import (
	"sort"
	"strings"
	"sync"

	"github.com/venom444556/openclaw-secure-deploy/pkg/claw_io"
	"github.com/venom444556/openclaw-secure-deploy/pkg/vault"
	"github.com/hashicorp/go-multierror"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Cache maps logical secret names to in-memory values for the duration of
// one task. Close zeroes every value and revokes the backing session.
type Cache struct {
	mu      sync.Mutex
	values  map[string]*Value
	session *vault.Session
	warns   *multierror.Error
	closed  bool
}

// Load fetches names under one session. Individual failures do not abort the
// batch: the cache holds partial results and records a warning per miss.
func Load(rc *claw_io.RuntimeContext, sess *vault.Session, loc Location, names []string) *Cache {
	log := otelzap.Ctx(rc.Ctx)

	c := &Cache{
		values:  make(map[string]*Value, len(names)),
		session: sess,
	}

	for _, name := range names {
		val, err := Fetch(rc, sess, loc, name)
		if err != nil {
			log.Warn("Secret unavailable, continuing batch",
				zap.String("name", name), zap.Error(err))
			c.warns = multierror.Append(c.warns, err)
			continue
		}
		c.values[name] = val
	}

	log.Info("Secret batch loaded",
		zap.Int("requested", len(names)),
		zap.Int("resolved", len(c.values)),
		zap.Int("warnings", len(names)-len(c.values)))
	return c
}

// Get returns the cached value for a name, nil if it was not resolved.
func (c *Cache) Get(name string) *Value {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values[name]
}

// Names lists resolved names in stable order.
func (c *Cache) Names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	names := make([]string, 0, len(c.values))
	for name := range c.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Warnings returns the aggregated per-name failures, nil when every name
// resolved.
func (c *Cache) Warnings() error {
	return c.warns.ErrorOrNil()
}

// EnvName converts a logical secret name to its environment variable form:
// upper-cased, with dashes and dots replaced by underscores. Other components
// depend on this contract; change it nowhere else.
func EnvName(name string) string {
	replaced := strings.NewReplacer("-", "_", ".", "_").Replace(name)
	return strings.ToUpper(replaced)
}

// Environ appends the cached secrets to base as KEY=value pairs, named by
// the EnvName convention.
func (c *Cache) Environ(base []string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	env := make([]string, len(base), len(base)+len(c.values))
	copy(env, base)
	for _, name := range sortedKeys(c.values) {
		env = append(env, EnvName(name)+"="+c.values[name].String())
	}
	return env
}

// Close zeroes every held value and revokes the session if still live.
// Idempotent; registered both as a defer and as a signal-handler cleanup so
// it runs on normal exit, task failure, and interruption alike.
func (c *Cache) Close(rc *claw_io.RuntimeContext) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	for _, v := range c.values {
		v.Zero()
	}
	c.values = map[string]*Value{}
	sess := c.session
	c.mu.Unlock()

	otelzap.Ctx(rc.Ctx).Debug("Credential cache cleared")

	if sess != nil && !sess.Revoked() {
		// Failure here is logged inside Revoke; the shutdown path
		// continues regardless.
		return sess.Revoke(rc)
	}
	return nil
}

func sortedKeys(m map[string]*Value) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
