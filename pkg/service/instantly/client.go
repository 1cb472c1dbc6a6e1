package instantly

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/reachout/pkg/service/provider"
)

const (
	campaignPageSize = 100
	maxCampaignPages = 10
)

type client struct {
	api     *provider.Client
	version APIVersion
}

type config struct {
	baseURL    string
	version    APIVersion
	httpClient *http.Client
}

// Option configures the Instantly adapter
type Option func(*config)

// WithAPIVersion selects v1 or v2. The default is v1.
func WithAPIVersion(v APIVersion) Option {
	return func(c *config) {
		c.version = v
	}
}

// WithBaseURL overrides the API root, e.g. for a test server
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

// New creates the Instantly adapter authenticated by apiKey
func New(apiKey string, opts ...Option) (Service, error) {
	if apiKey == "" {
		return nil, goerr.New("Instantly API key is required")
	}

	cfg := &config{version: V1}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.baseURL == "" {
		cfg.baseURL = DefaultBaseURLV1
		if cfg.version == V2 {
			cfg.baseURL = DefaultBaseURLV2
		}
	}

	var clientOpts []provider.ClientOption
	if cfg.httpClient != nil {
		clientOpts = append(clientOpts, provider.WithHTTPClient(cfg.httpClient))
	}

	return &client{
		api:     provider.NewClient(Name, cfg.baseURL, DefaultTimeout, provider.BearerAuth(apiKey), clientOpts...),
		version: cfg.version,
	}, nil
}

func (c *client) Provider() string {
	return Name
}

func (c *client) Capabilities() provider.Capabilities {
	return provider.Capabilities{
		Campaigns: true,
	}
}

type apiKeyRecord struct {
	Name           string `json:"name"`
	OrganizationID string `json:"organization_id"`
}

func (c *client) ValidateConnection(ctx context.Context) *provider.ConnectionResult {
	if c.version == V2 {
		body, err := c.api.DoRaw(ctx, provider.Request{Method: http.MethodGet, Path: "/api-keys", Query: url.Values{"limit": {"1"}}})
		if err != nil {
			return provider.Invalid(err)
		}
		page, err := provider.DecodeList[apiKeyRecord](body)
		if err != nil {
			return provider.Invalid(err)
		}
		account := "instantly v2"
		if len(page.Items) > 0 && page.Items[0].OrganizationID != "" {
			account = page.Items[0].OrganizationID
		}
		return provider.Valid(account)
	}

	if _, err := c.ListCampaigns(ctx, 1); err != nil {
		return provider.Invalid(err)
	}
	return provider.Valid("instantly v1")
}

func (c *client) ListCampaigns(ctx context.Context, limit int) ([]*Campaign, error) {
	page, err := c.listCampaigns(ctx, limit, "")
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

func (c *client) listCampaigns(ctx context.Context, limit int, cursor string) (*provider.Page[*Campaign], error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if cursor != "" {
		q.Set("starting_after", cursor)
	}

	body, err := c.api.DoRaw(ctx, provider.Request{Method: http.MethodGet, Path: "/campaigns", Query: q})
	if err != nil {
		return nil, err
	}

	page, err := provider.DecodeList[*Campaign](body)
	if err != nil {
		return nil, provider.NewError(Name, "unexpected campaign list", err)
	}
	return page, nil
}

func (c *client) GetCampaign(ctx context.Context, id string) (*Campaign, error) {
	var campaign Campaign
	if err := c.api.Do(ctx, provider.Request{Method: http.MethodGet, Path: "/campaigns/" + url.PathEscape(id)}, &campaign); err != nil {
		return nil, err
	}
	return &campaign, nil
}

func (c *client) CreateCampaign(ctx context.Context, input *CreateCampaignInput) (*Campaign, error) {
	if input == nil || input.Name == "" {
		return nil, provider.NewError(Name, "campaign name is required", nil)
	}
	body := *input
	if body.Schedule == nil && c.version == V2 {
		body.Schedule = DefaultSchedule("")
	}

	var campaign Campaign
	if err := c.api.Do(ctx, provider.Request{Method: http.MethodPost, Path: "/campaigns", Body: &body}, &campaign); err != nil {
		return nil, err
	}
	if campaign.Name == "" {
		campaign.Name = input.Name
	}
	return &campaign, nil
}

func (c *client) StartCampaign(ctx context.Context, id string) error {
	return c.api.Do(ctx, provider.Request{Method: http.MethodPost, Path: "/campaigns/" + url.PathEscape(id) + "/start"}, nil)
}

func (c *client) PauseCampaign(ctx context.Context, id string) error {
	return c.api.Do(ctx, provider.Request{Method: http.MethodPut, Path: "/campaigns/" + url.PathEscape(id) + "/pause"}, nil)
}

func (c *client) FindCampaignByName(ctx context.Context, name string) (*Campaign, error) {
	cursor := ""
	for range maxCampaignPages {
		page, err := c.listCampaigns(ctx, campaignPageSize, cursor)
		if err != nil {
			return nil, err
		}
		for _, campaign := range page.Items {
			if campaign.Name == name {
				return campaign, nil
			}
		}
		if page.NextCursor == "" || page.NextCursor == cursor {
			return nil, nil
		}
		cursor = page.NextCursor
	}
	return nil, nil
}

type addLeadsRequest struct {
	Leads []*Lead `json:"leads"`
}

func (c *client) AddLeadsToCampaign(ctx context.Context, campaignID string, leads []*Lead) (*AddLeadsResult, error) {
	if len(leads) == 0 {
		return &AddLeadsResult{}, nil
	}

	var result AddLeadsResult
	err := c.api.Do(ctx, provider.Request{
		Method:  http.MethodPost,
		Path:    "/campaigns/" + url.PathEscape(campaignID) + "/leads",
		Body:    &addLeadsRequest{Leads: leads},
		Gated:   true,
		Feature: "adding leads to a campaign",
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *client) GetLeadStatus(ctx context.Context, campaignID, leadID string) (*LeadRecord, error) {
	var record LeadRecord
	err := c.api.Do(ctx, provider.Request{
		Method: http.MethodGet,
		Path:   "/campaigns/" + url.PathEscape(campaignID) + "/leads/" + url.PathEscape(leadID),
	}, &record)
	if err != nil {
		return nil, err
	}

	if record.CampaignID == "" {
		record.CampaignID = campaignID
	}
	if record.Email == "" && record.ID == "" {
		record.Email = leadID
	}
	return &record, nil
}
