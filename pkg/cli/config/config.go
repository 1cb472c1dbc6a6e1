package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/reachout/pkg/domain/types"
	"github.com/secmon-lab/reachout/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// AppConfig represents the application configuration
type AppConfig struct {
	Outreach OutreachSection `toml:"outreach"`
	LinkedIn LinkedInSection `toml:"linkedin"`
	Email    EmailSection    `toml:"email"`
}

// OutreachSection tunes the orchestrator
type OutreachSection struct {
	HistoryLimit     int `toml:"history_limit"`
	MaxFollowUpDepth int `toml:"max_follow_up_depth"`
	SyncConcurrency  int `toml:"sync_concurrency"`
}

// LinkedInSection holds the default LinkedIn note and message templates
type LinkedInSection struct {
	ConnectionTemplate string `toml:"connection_template"`
	MessageTemplate    string `toml:"message_template"`
}

// EmailSection holds personal email settings
type EmailSection struct {
	Signatures []Signature `toml:"signature"`
}

// Signature is appended to personal emails sent by users with Role
type Signature struct {
	Role string `toml:"role"`
	Text string `toml:"text"`
}

// Validate checks if the Signature is valid
func (s *Signature) Validate() error {
	if !types.UserRole(s.Role).IsValid() {
		return goerr.Wrap(ErrInvalidRole, "signature role is not a known user role", goerr.V(RoleKey, s.Role))
	}
	if s.Text == "" {
		return goerr.Wrap(ErrMissingText, "signature text is required", goerr.V(RoleKey, s.Role))
	}
	return nil
}

// Validate checks if the AppConfig is valid
func (a *AppConfig) Validate() error {
	o := a.Outreach
	if o.HistoryLimit < 0 || o.HistoryLimit > usecase.MaxHistoryLimit {
		return goerr.Wrap(ErrInvalidConfig, "outreach.history_limit is out of range",
			goerr.V("history_limit", o.HistoryLimit),
			goerr.V("max", usecase.MaxHistoryLimit))
	}
	if o.MaxFollowUpDepth < 0 {
		return goerr.Wrap(ErrInvalidConfig, "outreach.max_follow_up_depth must not be negative",
			goerr.V("max_follow_up_depth", o.MaxFollowUpDepth))
	}
	if o.SyncConcurrency < 0 {
		return goerr.Wrap(ErrInvalidConfig, "outreach.sync_concurrency must not be negative",
			goerr.V("sync_concurrency", o.SyncConcurrency))
	}

	// Check signature duplicates
	roles := make(map[string]bool)
	for _, sig := range a.Email.Signatures {
		if err := sig.Validate(); err != nil {
			return goerr.Wrap(err, "invalid signature")
		}
		if roles[sig.Role] {
			return goerr.Wrap(ErrDuplicateSignature, "duplicate signature role", goerr.V(RoleKey, sig.Role))
		}
		roles[sig.Role] = true
	}

	return nil
}

// LoadAppConfiguration loads the application configuration from a TOML file
func LoadAppConfiguration(path string) (*AppConfig, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, goerr.Wrap(ErrConfigNotFound, "config file does not exist", goerr.V(ConfigPathKey, path))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V(ConfigPathKey, path))
	}

	var config AppConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse TOML config",
			goerr.V(ConfigPathKey, path),
			goerr.V("cause", err.Error()))
	}

	if err := config.Validate(); err != nil {
		return nil, goerr.Wrap(errors.Join(ErrInvalidConfig, err), "config validation failed", goerr.V(ConfigPathKey, path))
	}

	return &config, nil
}

// ToOutreachConfig converts AppConfig to the orchestrator settings. Zero values fall back to
// the orchestrator defaults.
func (a *AppConfig) ToOutreachConfig() usecase.OutreachConfig {
	cfg := usecase.OutreachConfig{
		HistoryLimit:       a.Outreach.HistoryLimit,
		MaxFollowUpDepth:   a.Outreach.MaxFollowUpDepth,
		SyncConcurrency:    a.Outreach.SyncConcurrency,
		ConnectionTemplate: a.LinkedIn.ConnectionTemplate,
		MessageTemplate:    a.LinkedIn.MessageTemplate,
	}
	if len(a.Email.Signatures) > 0 {
		cfg.Signatures = make(map[types.UserRole]string, len(a.Email.Signatures))
		for _, sig := range a.Email.Signatures {
			cfg.Signatures[types.UserRole(sig.Role)] = sig.Text
		}
	}
	return cfg
}

// App holds the --config flag
type App struct {
	path string
}

func (x *App) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to the TOML application config",
			Sources:     cli.EnvVars("REACHOUT_CONFIG"),
			Destination: &x.path,
		},
	}
}

func (x App) LogValue() slog.Value {
	return slog.StringValue(x.path)
}

// Configure loads the config file. Without --config the defaults are used.
func (x *App) Configure() (*AppConfig, error) {
	if x.path == "" {
		return &AppConfig{}, nil
	}
	return LoadAppConfiguration(x.path)
}
