package phantombuster

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/reachout/pkg/service/provider"
)

type client struct {
	api           *provider.Client
	sessionCookie string
}

type config struct {
	baseURL       string
	httpClient    *http.Client
	sessionCookie string
}

// Option configures the PhantomBuster adapter
type Option func(*config)

// WithBaseURL overrides the API root
func WithBaseURL(u string) Option {
	return func(c *config) {
		c.baseURL = u
	}
}

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(h *http.Client) Option {
	return func(c *config) {
		c.httpClient = h
	}
}

// WithSessionCookie sets the LinkedIn session cookie passed to agents
func WithSessionCookie(cookie string) Option {
	return func(c *config) {
		c.sessionCookie = cookie
	}
}

// New creates the PhantomBuster adapter authenticated by apiKey
func New(apiKey string, opts ...Option) (Service, error) {
	if apiKey == "" {
		return nil, goerr.New("PhantomBuster API key is required")
	}

	cfg := &config{baseURL: DefaultBaseURL}
	for _, opt := range opts {
		opt(cfg)
	}

	var clientOpts []provider.ClientOption
	if cfg.httpClient != nil {
		clientOpts = append(clientOpts, provider.WithHTTPClient(cfg.httpClient))
	}

	return &client{
		api:           provider.NewClient(Name, cfg.baseURL, DefaultTimeout, provider.HeaderAuth("X-Phantombuster-Key-1", apiKey), clientOpts...),
		sessionCookie: cfg.sessionCookie,
	}, nil
}

func (c *client) Provider() string {
	return Name
}

func (c *client) Capabilities() provider.Capabilities {
	return provider.Capabilities{
		Campaigns: true,
		Messaging: true,
	}
}

func (c *client) ValidateConnection(ctx context.Context) *provider.ConnectionResult {
	var account Account
	if err := c.api.Do(ctx, provider.Request{Method: http.MethodGet, Path: "/me"}, &account); err != nil {
		return provider.Invalid(err)
	}
	name := account.Email
	if name == "" {
		name = account.ID
	}
	return provider.Valid(name)
}

func (c *client) ListAgents(ctx context.Context) ([]*Agent, error) {
	body, err := c.api.DoRaw(ctx, provider.Request{Method: http.MethodGet, Path: "/agents"})
	if err != nil {
		return nil, err
	}
	page, err := provider.DecodeList[*Agent](body)
	if err != nil {
		return nil, provider.NewError(Name, "unexpected agent list", err)
	}
	return page.Items, nil
}

// profileInput joins profile URLs into the agent's single input field
func profileInput(profiles []string) string {
	return strings.Join(profiles, "\n")
}

func (c *client) launch(ctx context.Context, agentID string, argument any) (*Launch, error) {
	if agentID == "" {
		return nil, provider.NewError(Name, "agent id is required", nil)
	}

	var launch Launch
	err := c.api.Do(ctx, provider.Request{
		Method: http.MethodPost,
		Path:   "/agent/launch",
		Body:   &launchRequest{ID: agentID, Argument: argument},
	}, &launch)
	if err != nil {
		return nil, err
	}
	if launch.ContainerID == "" {
		return nil, provider.NewError(Name, "launch returned no container id", nil)
	}
	launch.AgentID = agentID
	return &launch, nil
}

func (c *client) LaunchConnectionCampaign(ctx context.Context, agentID string, profiles []string, message string) (*Launch, error) {
	return c.launch(ctx, agentID, &connectionArgument{
		SessionCookie:         c.sessionCookie,
		SpreadsheetURL:        profileInput(profiles),
		Message:               Truncate(message, ConnectionMessageLimit),
		NumberOfAddsPerLaunch: len(profiles),
		OnlySecondCircle:      false,
	})
}

func (c *client) LaunchMessagingCampaign(ctx context.Context, agentID string, profiles []string, message string) (*Launch, error) {
	return c.launch(ctx, agentID, &messageArgument{
		SessionCookie:             c.sessionCookie,
		SpreadsheetURL:            profileInput(profiles),
		Message:                   Truncate(message, MessageLimit),
		NumberOfProfilesPerLaunch: len(profiles),
	})
}

func (c *client) GetContainerOutput(ctx context.Context, containerID string) (*ContainerOutput, error) {
	var out ContainerOutput
	err := c.api.Do(ctx, provider.Request{
		Method: http.MethodGet,
		Path:   "/containers/" + url.PathEscape(containerID) + "/output",
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.ContainerID == "" {
		out.ContainerID = containerID
	}
	return &out, nil
}

type stopRequest struct {
	ID string `json:"id"`
}

func (c *client) StopAgent(ctx context.Context, agentID string) error {
	return c.api.Do(ctx, provider.Request{Method: http.MethodPost, Path: "/agent/stop", Body: &stopRequest{ID: agentID}}, nil)
}
