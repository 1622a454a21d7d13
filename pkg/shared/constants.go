// pkg/shared/constants.go

package shared

// Version is stamped at build time via -ldflags.
var Version = "dev"

const (
	// VaultAddrEnv is the standard Vault address environment variable.
	VaultAddrEnv = "VAULT_ADDR"

	// DefaultVaultAddr points at the local OpenBao listener.
	DefaultVaultAddr = "http://127.0.0.1:8200"

	// AppRoleMountPath is the approle auth mount, relative to auth/.
	AppRoleMountPath = "approle"

	// SecretMount is the KV v2 mount holding gateway secrets.
	SecretMount = "secret"

	// SecretPrefix is the fixed path prefix all broker sessions operate
	// under. Fetches outside this prefix are rejected locally.
	SecretPrefix = "openclaw"

	// DefaultNangoURL is the local OAuth proxy endpoint.
	DefaultNangoURL = "http://127.0.0.1:3003"

	// EnvPrefix namespaces clawsec's own configuration environment variables.
	EnvPrefix = "CLAWSEC"
)

// AppRoleFilePaths holds the on-disk locations of one role's credential pair.
type AppRoleFilePaths struct {
	RoleID   string
	SecretID string
}

// AgentRolePaths and AdminRolePaths are the default credential locations for
// the two broker roles. Tests override these with t.TempDir paths.
var (
	AgentRolePaths = AppRoleFilePaths{
		RoleID:   "/etc/clawsec/agent/role_id",
		SecretID: "/etc/clawsec/agent/secret_id",
	}
	AdminRolePaths = AppRoleFilePaths{
		RoleID:   "/etc/clawsec/admin/role_id",
		SecretID: "/etc/clawsec/admin/secret_id",
	}
)

const (
	// DefaultConfigDir is where clawsec.yaml and the lockdown state live.
	DefaultConfigDir = "/etc/clawsec"

	// DefaultLockdownStatePath persists the lockdown sub-states between
	// invocations.
	DefaultLockdownStatePath = "/etc/clawsec/lockdown.json"

	// DefaultTLSCACert is used when VAULT_CACERT is not set.
	DefaultTLSCACert = "/etc/clawsec/tls/ca.crt"
)
