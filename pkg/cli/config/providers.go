package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/reachout/pkg/service/instantly"
	"github.com/secmon-lab/reachout/pkg/service/phantombuster"
	"github.com/secmon-lab/reachout/pkg/service/salesfinity"
	"github.com/secmon-lab/reachout/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// Providers holds the global default provider credentials. Users without their own
// integration fall back to these.
type Providers struct {
	instantlyAPIKey     string
	instantlyAPIVersion string
	instantlyBaseURL    string

	salesfinityAPIKey     string
	salesfinityBaseURL    string
	salesfinityScheduling bool

	phantomAPIKey            string
	phantomBaseURL           string
	phantomConnectionAgentID string
	phantomMessageAgentID    string
	phantomSessionCookie     string
}

func (x *Providers) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "instantly-api-key",
			Usage:       "Default Instantly API key",
			Category:    "Instantly",
			Sources:     cli.EnvVars("REACHOUT_INSTANTLY_API_KEY"),
			Destination: &x.instantlyAPIKey,
		},
		&cli.StringFlag{
			Name:        "instantly-api-version",
			Usage:       "Instantly API version (v1, v2)",
			Category:    "Instantly",
			Value:       string(instantly.V1),
			Sources:     cli.EnvVars("REACHOUT_INSTANTLY_API_VERSION"),
			Destination: &x.instantlyAPIVersion,
		},
		&cli.StringFlag{
			Name:        "instantly-base-url",
			Usage:       "Override the Instantly API root",
			Category:    "Instantly",
			Sources:     cli.EnvVars("REACHOUT_INSTANTLY_BASE_URL"),
			Destination: &x.instantlyBaseURL,
		},
		&cli.StringFlag{
			Name:        "salesfinity-api-key",
			Usage:       "Default Salesfinity API key",
			Category:    "Salesfinity",
			Sources:     cli.EnvVars("REACHOUT_SALESFINITY_API_KEY"),
			Destination: &x.salesfinityAPIKey,
		},
		&cli.StringFlag{
			Name:        "salesfinity-base-url",
			Usage:       "Override the Salesfinity API root",
			Category:    "Salesfinity",
			Sources:     cli.EnvVars("REACHOUT_SALESFINITY_BASE_URL"),
			Destination: &x.salesfinityBaseURL,
		},
		&cli.BoolFlag{
			Name:        "salesfinity-scheduling",
			Usage:       "Declare that the Salesfinity account can schedule calls",
			Category:    "Salesfinity",
			Sources:     cli.EnvVars("REACHOUT_SALESFINITY_SCHEDULING"),
			Destination: &x.salesfinityScheduling,
		},
		&cli.StringFlag{
			Name:        "phantombuster-api-key",
			Usage:       "Default PhantomBuster API key",
			Category:    "PhantomBuster",
			Sources:     cli.EnvVars("REACHOUT_PHANTOMBUSTER_API_KEY"),
			Destination: &x.phantomAPIKey,
		},
		&cli.StringFlag{
			Name:        "phantombuster-base-url",
			Usage:       "Override the PhantomBuster API root",
			Category:    "PhantomBuster",
			Sources:     cli.EnvVars("REACHOUT_PHANTOMBUSTER_BASE_URL"),
			Destination: &x.phantomBaseURL,
		},
		&cli.StringFlag{
			Name:        "phantombuster-connection-agent-id",
			Usage:       "PhantomBuster agent that sends connection requests",
			Category:    "PhantomBuster",
			Sources:     cli.EnvVars("REACHOUT_PHANTOMBUSTER_CONNECTION_AGENT_ID"),
			Destination: &x.phantomConnectionAgentID,
		},
		&cli.StringFlag{
			Name:        "phantombuster-message-agent-id",
			Usage:       "PhantomBuster agent that sends messages",
			Category:    "PhantomBuster",
			Sources:     cli.EnvVars("REACHOUT_PHANTOMBUSTER_MESSAGE_AGENT_ID"),
			Destination: &x.phantomMessageAgentID,
		},
		&cli.StringFlag{
			Name:        "phantombuster-session-cookie",
			Usage:       "LinkedIn session cookie passed to PhantomBuster agents",
			Category:    "PhantomBuster",
			Sources:     cli.EnvVars("REACHOUT_PHANTOMBUSTER_SESSION_COOKIE"),
			Destination: &x.phantomSessionCookie,
		},
	}
}

func (x Providers) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("instantly-api-key.len", len(x.instantlyAPIKey)),
		slog.String("instantly-api-version", x.instantlyAPIVersion),
		slog.String("instantly-base-url", x.instantlyBaseURL),
		slog.Int("salesfinity-api-key.len", len(x.salesfinityAPIKey)),
		slog.Bool("salesfinity-scheduling", x.salesfinityScheduling),
		slog.Int("phantombuster-api-key.len", len(x.phantomAPIKey)),
		slog.String("phantombuster-connection-agent-id", x.phantomConnectionAgentID),
		slog.String("phantombuster-message-agent-id", x.phantomMessageAgentID),
		slog.Int("phantombuster-session-cookie.len", len(x.phantomSessionCookie)),
	)
}

// instantlyOptions are shared by the default and per-user Instantly adapters
func (x *Providers) instantlyOptions() []instantly.Option {
	var opts []instantly.Option
	if x.instantlyBaseURL != "" {
		opts = append(opts, instantly.WithBaseURL(x.instantlyBaseURL))
	}
	return opts
}

// salesfinityOptions carry the account capabilities to every Salesfinity adapter
func (x *Providers) salesfinityOptions() []salesfinity.Option {
	opts := []salesfinity.Option{salesfinity.WithScheduling(x.salesfinityScheduling)}
	if x.salesfinityBaseURL != "" {
		opts = append(opts, salesfinity.WithBaseURL(x.salesfinityBaseURL))
	}
	return opts
}

func (x *Providers) phantomOptions() []phantombuster.Option {
	var opts []phantombuster.Option
	if x.phantomBaseURL != "" {
		opts = append(opts, phantombuster.WithBaseURL(x.phantomBaseURL))
	}
	return opts
}

// Factory builds per-user adapters with the same base URLs and capabilities as the defaults
func (x *Providers) Factory() usecase.AdapterFactory {
	return usecase.DefaultAdapterFactory(
		usecase.WithInstantlyOptions(x.instantlyOptions()...),
		usecase.WithSalesfinityOptions(x.salesfinityOptions()...),
		usecase.WithPhantomBusterOptions(x.phantomOptions()...),
	)
}

// Email builds the default Instantly adapter. It returns nil when no key is set.
func (x *Providers) Email() (instantly.Service, error) {
	if x.instantlyAPIKey == "" {
		return nil, nil
	}

	version, ok := instantly.ParseAPIVersion(x.instantlyAPIVersion)
	if !ok {
		return nil, goerr.Wrap(ErrInvalidConfig, "instantly-api-version must be v1 or v2",
			goerr.V("version", x.instantlyAPIVersion))
	}

	opts := append(x.instantlyOptions(), instantly.WithAPIVersion(version))
	svc, err := instantly.New(x.instantlyAPIKey, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Instantly adapter")
	}
	return svc, nil
}

// Call builds the default Salesfinity adapter. It returns nil when no key is set.
func (x *Providers) Call() (salesfinity.Service, error) {
	if x.salesfinityAPIKey == "" {
		return nil, nil
	}

	svc, err := salesfinity.New(x.salesfinityAPIKey, x.salesfinityOptions()...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Salesfinity adapter")
	}
	return svc, nil
}

// LinkedIn builds the default PhantomBuster adapter. It returns nil when no key is set.
func (x *Providers) LinkedIn() (phantombuster.Service, error) {
	if x.phantomAPIKey == "" {
		return nil, nil
	}

	opts := append(x.phantomOptions(), phantombuster.WithSessionCookie(x.phantomSessionCookie))
	svc, err := phantombuster.New(x.phantomAPIKey, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create PhantomBuster adapter")
	}
	return svc, nil
}

// Agents returns the default LinkedIn agent ids
func (x *Providers) Agents() usecase.LinkedInAgents {
	return usecase.LinkedInAgents{
		ConnectionAgentID: x.phantomConnectionAgentID,
		MessageAgentID:    x.phantomMessageAgentID,
	}
}

// Registry builds the adapter registry with the configured defaults
func (x *Providers) Registry() (*usecase.AdapterRegistry, error) {
	opts := []usecase.RegistryOption{
		usecase.WithAdapterFactory(x.Factory()),
	}

	email, err := x.Email()
	if err != nil {
		return nil, err
	}
	if email != nil {
		opts = append(opts, usecase.WithDefaultEmail(email))
	}

	call, err := x.Call()
	if err != nil {
		return nil, err
	}
	if call != nil {
		opts = append(opts, usecase.WithDefaultCall(call))
	}

	linkedIn, err := x.LinkedIn()
	if err != nil {
		return nil, err
	}
	if linkedIn != nil {
		opts = append(opts, usecase.WithDefaultLinkedIn(linkedIn, x.Agents()))
	}

	return usecase.NewAdapterRegistry(opts...), nil
}
