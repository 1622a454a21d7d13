// pkg/config/config_test.go

package config

import (
	"context"
	"testing"

	"github.com/venom444556/openclaw-secure-deploy/pkg/claw_io"
	"github.com/venom444556/openclaw-secure-deploy/pkg/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRC() *claw_io.RuntimeContext {
	return &claw_io.RuntimeContext{Ctx: context.Background()}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(testRC())
	require.NoError(t, err)

	assert.Equal(t, shared.DefaultVaultAddr, cfg.VaultAddr)
	assert.Equal(t, shared.SecretMount, cfg.SecretMount)
	assert.Equal(t, shared.SecretPrefix, cfg.SecretPrefix)
	assert.Equal(t, shared.DefaultNangoURL, cfg.NangoURL)
	assert.Equal(t, shared.DefaultLockdownStatePath, cfg.LockdownStatePath)
	assert.Equal(t, shared.AgentRolePaths.RoleID, cfg.AgentRoleIDPath)
	assert.Equal(t, shared.AdminRolePaths.SecretID, cfg.AdminSecretIDPath)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("CLAWSEC_VAULT_ADDR", "https://vault.internal:8200")
	t.Setenv("CLAWSEC_NANGO_SECRET_KEY", "proxy-key")

	cfg, err := Load(testRC())
	require.NoError(t, err)

	assert.Equal(t, "https://vault.internal:8200", cfg.VaultAddr)
	assert.Equal(t, "proxy-key", cfg.NangoSecretKey)
}

func TestLoad_RejectsMalformedVaultAddr(t *testing.T) {
	t.Setenv("CLAWSEC_VAULT_ADDR", "not a url")

	_, err := Load(testRC())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid clawsec config")
}

func TestLoad_RejectsSlashInSecretMount(t *testing.T) {
	t.Setenv("CLAWSEC_SECRET_MOUNT", "secret/extra")

	_, err := Load(testRC())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid clawsec config")
}

func TestRolePaths(t *testing.T) {
	cfg := &Config{
		AgentRoleIDPath:   "/etc/clawsec/agent/role_id",
		AgentSecretIDPath: "/etc/clawsec/agent/secret_id",
		AdminRoleIDPath:   "/etc/clawsec/admin/role_id",
		AdminSecretIDPath: "/etc/clawsec/admin/secret_id",
	}

	agent := cfg.RolePaths("agent")
	assert.Equal(t, "/etc/clawsec/agent/role_id", agent.RoleID)

	admin := cfg.RolePaths("admin")
	assert.Equal(t, "/etc/clawsec/admin/secret_id", admin.SecretID)

	// Unknown roles fall back to the least-privileged profile.
	fallback := cfg.RolePaths("other")
	assert.Equal(t, agent.RoleID, fallback.RoleID)
}
