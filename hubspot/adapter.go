// ABOUTME: HubSpot integration adapter: authorization URL, code exchange, credentials, and item fetch
// ABOUTME: Runs each operation as a short sequential pipeline over a per-call HTTP client
package hubspot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/crmlink/models"
	"github.com/harperreed/crmlink/store"
	"golang.org/x/oauth2"
)

// FetchRecorder receives the outcome of every resource request made by Items.
type FetchRecorder interface {
	RecordFetch(ctx context.Context, result models.FetchResult) error
}

// Ack acknowledges a successful token exchange.
type Ack struct {
	Message string `json:"message"`
}

// Adapter implements the HubSpot OAuth flow and item fetch.
type Adapter struct {
	cfg        *Config
	oauth      *oauth2.Config
	store      store.Store
	httpClient *http.Client
	recorder   FetchRecorder
	logger     *log.Logger
	now        func() time.Time
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithHTTPClient sets the base client used for every outbound call.
// Without it each operation builds and tears down its own client.
func WithHTTPClient(client *http.Client) Option {
	return func(a *Adapter) { a.httpClient = client }
}

// WithRecorder sets where Items reports the outcome of each resource request.
// Without it outcomes are only logged.
func WithRecorder(recorder FetchRecorder) Option {
	return func(a *Adapter) { a.recorder = recorder }
}

// WithLogger sets the logger for exchange and fetch events.
// Without it the adapter logs through log.Default().
func WithLogger(logger *log.Logger) Option {
	return func(a *Adapter) { a.logger = logger }
}

// New validates cfg and returns an adapter storing credentials in st.
func New(cfg *Config, st store.Store, opts ...Option) (*Adapter, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if st == nil {
		return nil, fmt.Errorf("credential store cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := *cfg
	c.applyDefaults()

	a := &Adapter{
		cfg:    &c,
		oauth:  c.OAuth2Config(),
		store:  st,
		logger: log.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}

	return a, nil
}

// Config returns the adapter's effective configuration.
func (a *Adapter) Config() Config {
	return *a.cfg
}

// AuthorizationURL builds the HubSpot consent URL. The user and org ids are
// accepted for symmetry with the other operations and are not sent.
func (a *Adapter) AuthorizationURL(userID, orgID string) string {
	return a.oauth.AuthCodeURL("")
}

// ExchangeCode handles the OAuth callback query: it trades the code for a
// token and replaces whatever was stored under the caller's key.
// Under tenant scope the optional user_id and org_id parameters pick the key.
func (a *Adapter) ExchangeCode(ctx context.Context, query url.Values) (*Ack, error) {
	code := query.Get("code")
	if code == "" {
		return nil, ErrInvalidRequest
	}

	client, done := a.client()
	defer done()

	capture, captured := newTokenCapture(client)
	ctx = context.WithValue(ctx, oauth2.HTTPClient, captured)

	token, err := a.oauth.Exchange(ctx, code)

	// oauth2 accepts any 2xx; HubSpot signals success with 200 only
	status, body := capture.result()
	if status != 0 && status != http.StatusOK {
		return nil, &UpstreamAuthError{StatusCode: status, Body: string(body)}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	creds := &models.Credentials{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		ExpiresIn:    token.ExpiresIn,
		Expiry:       token.Expiry,
	}
	if len(body) > 0 {
		creds.Raw = rawFields(body)
	}

	key := store.Key(a.cfg.KeyScope, query.Get("user_id"), query.Get("org_id"))
	if err := a.store.Put(ctx, key, creds); err != nil {
		return nil, fmt.Errorf("failed to store credentials: %w", err)
	}

	a.logger.Info("stored HubSpot credentials", "key", key)
	return &Ack{Message: "HubSpot authentication successful"}, nil
}

// Credentials returns the stored credentials for a user and org unchanged.
func (a *Adapter) Credentials(ctx context.Context, userID, orgID string) (*models.Credentials, error) {
	key := store.Key(a.cfg.KeyScope, userID, orgID)

	creds, err := a.store.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrMissingCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}

	return creds, nil
}

// Items fetches the first page of contacts, then of companies, and returns
// them normalized, contacts first. A resource whose request fails adds no
// items; only an empty combined result is an error.
func (a *Adapter) Items(ctx context.Context, userID, orgID string) ([]models.IntegrationItem, error) {
	creds, err := a.Credentials(ctx, userID, orgID)
	if err != nil {
		return nil, err
	}

	ctx, done := a.session(ctx)
	defer done()

	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: creds.AccessToken,
		TokenType:   "Bearer",
	}))

	var items []models.IntegrationItem

	for _, obj := range a.fetchPage(ctx, client, ResourceContacts, a.cfg.ContactsURL) {
		items = append(items, convertContact(obj))
	}
	for _, obj := range a.fetchPage(ctx, client, ResourceCompanies, a.cfg.CompaniesURL) {
		items = append(items, convertCompany(obj))
	}

	if len(items) == 0 {
		return nil, ErrNoItemsFound
	}

	return items, nil
}

// fetchPage GETs one resource page. Failures are logged and recorded, and
// yield no objects.
func (a *Adapter) fetchPage(ctx context.Context, client *http.Client, resource, endpoint string) []crmObject {
	result := models.FetchResult{Resource: resource, FetchedAt: a.now()}

	page, status, err := getPage(ctx, client, endpoint)
	result.StatusCode = status
	if err != nil {
		result.Err = err
		a.logger.Warn("skipping HubSpot resource", "resource", resource, "status", status, "err", err)
	} else {
		result.Count = len(page.Results)
		a.logger.Debug("fetched HubSpot resource", "resource", resource, "count", result.Count)
	}

	if a.recorder != nil {
		if recErr := a.recorder.RecordFetch(ctx, result); recErr != nil {
			a.logger.Warn("failed to record fetch", "resource", resource, "err", recErr)
		}
	}

	if page == nil {
		return nil
	}
	return page.Results
}

func getPage(ctx context.Context, client *http.Client, endpoint string) (*objectPage, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, resp.StatusCode, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var page objectPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
	}

	return &page, resp.StatusCode, nil
}

// client scopes an HTTP client to one operation. The returned func releases
// its idle connections.
func (a *Adapter) client() (*http.Client, func()) {
	client := a.httpClient
	if client == nil {
		client = &http.Client{Transport: http.DefaultTransport.(*http.Transport).Clone()}
	}
	return client, client.CloseIdleConnections
}

// session carries the operation's client in ctx for oauth2.
func (a *Adapter) session(ctx context.Context) (context.Context, func()) {
	client, done := a.client()
	return context.WithValue(ctx, oauth2.HTTPClient, client), done
}
