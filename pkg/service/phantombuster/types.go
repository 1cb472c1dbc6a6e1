package phantombuster

import (
	"context"
	"time"

	"github.com/secmon-lab/reachout/pkg/service/provider"
)

// Name identifies the provider in errors and logs
const Name = "phantombuster"

const (
	DefaultBaseURL = "https://api.phantombuster.com/api/v2"
	DefaultTimeout = 15 * time.Second
)

// Message length limits enforced by LinkedIn
const (
	ConnectionMessageLimit = 300
	MessageLimit           = 8000
)

// Service is the PhantomBuster LinkedIn-automation adapter. Launches are asynchronous: they
// return a container id whose output is polled later.
type Service interface {
	provider.Adapter

	ListAgents(ctx context.Context) ([]*Agent, error)
	LaunchConnectionCampaign(ctx context.Context, agentID string, profiles []string, message string) (*Launch, error)
	LaunchMessagingCampaign(ctx context.Context, agentID string, profiles []string, message string) (*Launch, error)
	GetContainerOutput(ctx context.Context, containerID string) (*ContainerOutput, error)
	StopAgent(ctx context.Context, agentID string) error
}

// Agent is a configured automation
type Agent struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Script        string `json:"script,omitempty"`
	LastEndStatus string `json:"lastEndStatus,omitempty"`
}

// Launch is the result of starting an agent
type Launch struct {
	ContainerID string `json:"containerId"`
	AgentID     string `json:"-"`
}

// ContainerOutput is the state and console output of one agent run
type ContainerOutput struct {
	ContainerID string     `json:"containerId"`
	AgentID     string     `json:"agentId,omitempty"`
	Status      string     `json:"status"`
	Output      string     `json:"output"`
	LaunchedAt  *time.Time `json:"launchedAt,omitempty"`
	EndedAt     *time.Time `json:"endedAt,omitempty"`
}

// Account is the owner of the API key
type Account struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// connectionArgument is the agent argument for connection requests
type connectionArgument struct {
	SessionCookie         string `json:"sessionCookie,omitempty"`
	SpreadsheetURL        string `json:"spreadsheetUrl"`
	Message               string `json:"message,omitempty"`
	NumberOfAddsPerLaunch int    `json:"numberOfAddsPerLaunch"`
	OnlySecondCircle      bool   `json:"onlySecondCircle"`
}

// messageArgument is the agent argument for direct messages
type messageArgument struct {
	SessionCookie             string `json:"sessionCookie,omitempty"`
	SpreadsheetURL            string `json:"spreadsheetUrl"`
	Message                   string `json:"message"`
	NumberOfProfilesPerLaunch int    `json:"numberOfProfilesPerLaunch"`
	SendInMail                bool   `json:"sendInMail"`
}

type launchRequest struct {
	ID       string `json:"id"`
	Argument any    `json:"argument"`
}
