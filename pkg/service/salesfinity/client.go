package salesfinity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/reachout/pkg/service/provider"
)

const (
	pageSize        = 100
	maxListPages    = 10
	maxCallLogPages = 5
)

type client struct {
	api          *provider.Client
	capabilities provider.Capabilities
}

type config struct {
	baseURL          string
	httpClient       *http.Client
	scheduling       bool
	contactRetrieval bool
}

// Option configures the Salesfinity adapter
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

// WithScheduling declares that the account can schedule calls
func WithScheduling(enabled bool) Option {
	return func(c *config) {
		c.scheduling = enabled
	}
}

// WithContactRetrieval declares that the account can read list contacts back
func WithContactRetrieval(enabled bool) Option {
	return func(c *config) {
		c.contactRetrieval = enabled
	}
}

// New creates the Salesfinity adapter authenticated by apiKey
func New(apiKey string, opts ...Option) (Service, error) {
	if apiKey == "" {
		return nil, goerr.New("Salesfinity API key is required")
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
		api: provider.NewClient(Name, cfg.baseURL, DefaultTimeout, provider.HeaderAuth("x-api-key", apiKey), clientOpts...),
		capabilities: provider.Capabilities{
			Campaigns:        true,
			Scheduling:       cfg.scheduling,
			ContactRetrieval: cfg.contactRetrieval,
		},
	}, nil
}

func (c *client) Provider() string {
	return Name
}

func (c *client) Capabilities() provider.Capabilities {
	return c.capabilities
}

func (c *client) ValidateConnection(ctx context.Context) *provider.ConnectionResult {
	body, err := c.api.DoRaw(ctx, provider.Request{Method: http.MethodGet, Path: "/team"})
	if err != nil {
		return provider.Invalid(err)
	}

	// The team is returned either bare or inside a data envelope
	var resp struct {
		Team
		Data *Team `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return provider.Invalid(provider.NewError(Name, "unexpected team response", err))
	}
	team := resp.Team
	if resp.Data != nil {
		team = *resp.Data
	}
	if team.Name == "" {
		team.Name = "salesfinity team"
	}
	return provider.Valid(team.Name)
}

func pageQuery(page int) url.Values {
	if page < 1 {
		page = 1
	}
	return url.Values{
		"page":  {strconv.Itoa(page)},
		"limit": {strconv.Itoa(pageSize)},
	}
}

func (c *client) ListContactLists(ctx context.Context, page int) (*provider.Page[*ContactList], error) {
	body, err := c.api.DoRaw(ctx, provider.Request{Method: http.MethodGet, Path: "/contact-lists/csv", Query: pageQuery(page)})
	if err != nil {
		return nil, err
	}
	result, err := provider.DecodeList[*ContactList](body)
	if err != nil {
		return nil, provider.NewError(Name, "unexpected contact list page", err)
	}
	return result, nil
}

func (c *client) FindContactListByName(ctx context.Context, name string) (*ContactList, error) {
	for page := 1; page <= maxListPages; page++ {
		lists, err := c.ListContactLists(ctx, page)
		if err != nil {
			return nil, err
		}
		for _, list := range lists.Items {
			if list.Name == name {
				return list, nil
			}
		}
		if !lists.HasMore() {
			break
		}
	}
	return nil, nil
}

type createListRequest struct {
	Name string `json:"name"`
}

// unwrapData decodes body that may be wrapped in {"data": ...}
func unwrapData(body []byte, out any) error {
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err == nil && len(env.Data) > 0 && env.Data[0] == '{' {
		return json.Unmarshal(env.Data, out)
	}
	return json.Unmarshal(body, out)
}

func (c *client) CreateContactList(ctx context.Context, name string) (*ContactList, error) {
	body, err := c.api.DoRaw(ctx, provider.Request{
		Method: http.MethodPost,
		Path:   "/contact-lists",
		Body:   &createListRequest{Name: name},
	})
	if err != nil {
		return nil, err
	}

	var list ContactList
	if err := unwrapData(body, &list); err != nil {
		return nil, provider.NewError(Name, "unexpected contact list response", err)
	}
	if list.Name == "" {
		list.Name = name
	}
	return &list, nil
}

type addContactRequest struct {
	Contacts []*Contact `json:"contacts"`
}

type addContactResponse struct {
	Contacts []*Contact `json:"contacts"`
}

func (c *client) AddContact(ctx context.Context, listID string, contact *Contact) (*Contact, error) {
	body, err := c.api.DoRaw(ctx, provider.Request{
		Method: http.MethodPost,
		Path:   "/contact-lists/" + url.PathEscape(listID),
		Body:   &addContactRequest{Contacts: []*Contact{contact}},
	})
	if err != nil {
		return nil, err
	}

	added := *contact
	var resp addContactResponse
	if err := unwrapData(body, &resp); err == nil {
		if echoed := matchEchoed(resp.Contacts, contact); echoed != nil {
			added.ID = echoed.ID
		}
	}
	return &added, nil
}

// matchEchoed finds contact among the contacts the list echoed back. The external id is
// authoritative; the phone is only a fallback for contacts that have one. Without a match the
// caller keeps the external id as the key.
func matchEchoed(echoed []*Contact, contact *Contact) *Contact {
	if contact.ExternalID != "" {
		for _, e := range echoed {
			if e.ExternalID == contact.ExternalID {
				return e
			}
		}
	}
	if contact.Phone != "" {
		for _, e := range echoed {
			if e.Phone == contact.Phone {
				return e
			}
		}
	}
	return nil
}

func (c *client) DeleteContactList(ctx context.Context, id string) error {
	return c.api.Do(ctx, provider.Request{Method: http.MethodDelete, Path: "/contact-lists/csv/" + url.PathEscape(id)}, nil)
}

func (c *client) ReimportContactList(ctx context.Context, id string) error {
	return c.api.Do(ctx, provider.Request{Method: http.MethodPost, Path: "/contact-lists/csv/" + url.PathEscape(id) + "/reimport"}, nil)
}

func (c *client) ListCallLogs(ctx context.Context, page int) (*provider.Page[*CallLog], error) {
	body, err := c.api.DoRaw(ctx, provider.Request{Method: http.MethodGet, Path: "/call-log", Query: pageQuery(page)})
	if err != nil {
		return nil, err
	}
	result, err := provider.DecodeList[*CallLog](body)
	if err != nil {
		return nil, provider.NewError(Name, "unexpected call log page", err)
	}
	return result, nil
}

func (c *client) FindLatestCall(ctx context.Context, contactID string) (*CallLog, error) {
	for page := 1; page <= maxCallLogPages; page++ {
		logs, err := c.ListCallLogs(ctx, page)
		if err != nil {
			return nil, err
		}

		var latest *CallLog
		for _, call := range logs.Items {
			if call.Contact.ID != contactID && call.Contact.ExternalID != contactID {
				continue
			}
			if latest == nil || newer(call, latest) {
				latest = call
			}
		}
		if latest != nil {
			return latest, nil
		}
		if !logs.HasMore() {
			break
		}
	}
	return nil, nil
}

func newer(a, b *CallLog) bool {
	if a.CreatedAt == nil {
		return false
	}
	return b.CreatedAt == nil || a.CreatedAt.After(*b.CreatedAt)
}

func (c *client) ScheduleCall(ctx context.Context, input *ScheduleCallInput) (*ScheduledCall, error) {
	if !c.capabilities.Scheduling {
		return nil, provider.NewTierUnsupported(Name, "call scheduling")
	}

	var scheduled ScheduledCall
	err := c.api.Do(ctx, provider.Request{
		Method:  http.MethodPost,
		Path:    "/scheduled-calls",
		Body:    input,
		Gated:   true,
		Feature: "call scheduling",
	}, &scheduled)
	if err != nil {
		return nil, err
	}
	if scheduled.ScheduledAt.IsZero() {
		scheduled.ScheduledAt = input.ScheduledAt
	}
	return &scheduled, nil
}

func (c *client) GetListContacts(ctx context.Context, listID string) ([]*Contact, error) {
	if !c.capabilities.ContactRetrieval {
		return nil, provider.NewTierUnsupported(Name, "contact retrieval")
	}

	body, err := c.api.DoRaw(ctx, provider.Request{
		Method:  http.MethodGet,
		Path:    "/contact-lists/" + url.PathEscape(listID) + "/contacts",
		Gated:   true,
		Feature: "contact retrieval",
	})
	if err != nil {
		return nil, err
	}
	page, err := provider.DecodeList[*Contact](body)
	if err != nil {
		return nil, provider.NewError(Name, "unexpected contact page", err)
	}
	return page.Items, nil
}
