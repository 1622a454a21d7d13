// pkg/config/config.go

// Package config loads clawsec's deployment configuration from
// clawsec.yaml and CLAWSEC_* environment variables.
package config

import (
	"strings"

	"github.com/venom444556/openclaw-secure-deploy/pkg/claw_io"
	"github.com/venom444556/openclaw-secure-deploy/pkg/shared"
	cerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Config is the deployment-level configuration for the broker and the
// revocation controller.
type Config struct {
	VaultAddr   string `mapstructure:"vault_addr" validate:"required,url"`
	VaultCACert string `mapstructure:"vault_ca_cert" validate:"omitempty,file"`

	SecretMount  string `mapstructure:"secret_mount" validate:"required,excludes=/"`
	SecretPrefix string `mapstructure:"secret_prefix" validate:"required"`

	NangoURL       string `mapstructure:"nango_url" validate:"required,url"`
	NangoSecretKey string `mapstructure:"nango_secret_key"`

	// Consumers are the container name filters stopped during lockdown.
	Consumers []string `mapstructure:"consumers"`

	// Secrets are the logical names fetched by default for `clawsec run`.
	Secrets []string `mapstructure:"secrets"`

	LockdownStatePath string `mapstructure:"lockdown_state_path" validate:"required"`

	AgentRoleIDPath   string `mapstructure:"agent_role_id_path" validate:"required"`
	AgentSecretIDPath string `mapstructure:"agent_secret_id_path" validate:"required"`
	AdminRoleIDPath   string `mapstructure:"admin_role_id_path" validate:"required"`
	AdminSecretIDPath string `mapstructure:"admin_secret_id_path" validate:"required"`
}

// Load reads clawsec.yaml from /etc/clawsec or the working directory and
// overlays CLAWSEC_* environment variables. A missing file is not an error;
// defaults cover a standard local deployment.
func Load(rc *claw_io.RuntimeContext) (*Config, error) {
	logger := otelzap.Ctx(rc.Ctx)

	v := viper.New()
	v.SetConfigName("clawsec")
	v.SetConfigType("yaml")
	v.AddConfigPath(shared.DefaultConfigDir)
	v.AddConfigPath(".")

	v.SetEnvPrefix(shared.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	// Every key gets a default so env-only overrides survive Unmarshal.
	v.SetDefault("vault_addr", shared.DefaultVaultAddr)
	v.SetDefault("vault_ca_cert", "")
	v.SetDefault("nango_secret_key", "")
	v.SetDefault("consumers", []string{})
	v.SetDefault("secrets", []string{})
	v.SetDefault("secret_mount", shared.SecretMount)
	v.SetDefault("secret_prefix", shared.SecretPrefix)
	v.SetDefault("nango_url", shared.DefaultNangoURL)
	v.SetDefault("lockdown_state_path", shared.DefaultLockdownStatePath)
	v.SetDefault("agent_role_id_path", shared.AgentRolePaths.RoleID)
	v.SetDefault("agent_secret_id_path", shared.AgentRolePaths.SecretID)
	v.SetDefault("admin_role_id_path", shared.AdminRolePaths.RoleID)
	v.SetDefault("admin_secret_id_path", shared.AdminRolePaths.SecretID)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, cerr.Wrap(err, "read clawsec config")
		}
		logger.Debug("No clawsec.yaml found, using defaults")
	} else {
		logger.Debug("Loaded config file", zap.String("path", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, cerr.Wrap(err, "unmarshal clawsec config")
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, cerr.Wrap(err, "invalid clawsec config")
	}

	return &cfg, nil
}

// RolePaths returns the credential file locations for a role name
// ("agent" or "admin").
func (c *Config) RolePaths(role string) shared.AppRoleFilePaths {
	if role == "admin" {
		return shared.AppRoleFilePaths{RoleID: c.AdminRoleIDPath, SecretID: c.AdminSecretIDPath}
	}
	return shared.AppRoleFilePaths{RoleID: c.AgentRoleIDPath, SecretID: c.AgentSecretIDPath}
}
