// ABOUTME: Tests for the HubSpot integration HTTP routes
// ABOUTME: Verifies JSON bodies, error status mapping, and request id propagation
package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/harperreed/crmlink/hubspot"
	"github.com/harperreed/crmlink/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubIntegration struct {
	exchangeErr error
	itemsErr    error
	items       []models.IntegrationItem
	creds       *models.Credentials

	gotQuery  url.Values
	gotUserID string
	gotOrgID  string
}

func (s *stubIntegration) AuthorizationURL(userID, orgID string) string {
	return "https://app.hubspot.com/oauth/authorize?client_id=abc"
}

func (s *stubIntegration) ExchangeCode(_ context.Context, query url.Values) (*hubspot.Ack, error) {
	s.gotQuery = query
	if s.exchangeErr != nil {
		return nil, s.exchangeErr
	}
	return &hubspot.Ack{Message: "HubSpot authentication successful"}, nil
}

func (s *stubIntegration) Credentials(_ context.Context, userID, orgID string) (*models.Credentials, error) {
	if s.creds == nil {
		return nil, hubspot.ErrMissingCredentials
	}
	return s.creds, nil
}

func (s *stubIntegration) Items(_ context.Context, userID, orgID string) ([]models.IntegrationItem, error) {
	s.gotUserID, s.gotOrgID = userID, orgID
	return s.items, s.itemsErr
}

func newTestServer(stub *stubIntegration) http.Handler {
	return NewServer(stub, log.New(io.Discard)).Handler()
}

func serve(t *testing.T, h http.Handler, req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var body map[string]any
	if strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "{") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestAuthorizeRoute(t *testing.T) {
	h := newTestServer(&stubIntegration{})

	form := url.Values{"user_id": {"u1"}, "org_id": {"o1"}}
	req := httptest.NewRequest(http.MethodPost, "/integrations/hubspot/authorize", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec, body := serve(t, h, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "https://app.hubspot.com/oauth/authorize?client_id=abc", body["url"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestCallbackRoute(t *testing.T) {
	stub := &stubIntegration{}
	h := newTestServer(stub)

	rec, body := serve(t, h, httptest.NewRequest(http.MethodGet, "/integrations/hubspot/oauth2callback?code=abc", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "HubSpot authentication successful", body["message"])
	assert.Equal(t, "abc", stub.gotQuery.Get("code"))
}

func TestCallbackRouteErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"missing code", hubspot.ErrInvalidRequest, http.StatusBadRequest},
		{"upstream rejected", &hubspot.UpstreamAuthError{StatusCode: http.StatusForbidden}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(&stubIntegration{exchangeErr: tt.err})

			rec, body := serve(t, h, httptest.NewRequest(http.MethodGet, "/integrations/hubspot/oauth2callback", nil))
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.err.Error(), body["detail"])
		})
	}
}

func TestCredentialsRoute(t *testing.T) {
	rec, body := serve(t, newTestServer(&stubIntegration{}),
		httptest.NewRequest(http.MethodGet, "/integrations/hubspot/credentials", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "missing HubSpot credentials", body["detail"])

	creds := &models.Credentials{
		AccessToken: "tok",
		Raw:         map[string]any{"access_token": "tok", "hub_id": json.Number("12345")},
	}
	rec, body = serve(t, newTestServer(&stubIntegration{creds: creds}),
		httptest.NewRequest(http.MethodGet, "/integrations/hubspot/credentials", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tok", body["access_token"])

	raw, ok := body["raw"].(map[string]any)
	require.True(t, ok, "provider payload must be returned")
	assert.Equal(t, float64(12345), raw["hub_id"])
}

func TestItemsRoute(t *testing.T) {
	email := "a@x.com"
	stub := &stubIntegration{items: []models.IntegrationItem{
		{ID: "1", Name: "A B", Type: models.ItemContact, Email: &email},
	}}
	h := newTestServer(stub)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/integrations/hubspot/items?user_id=u1&org_id=o1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var items []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "contact", items[0]["type"])
	assert.Equal(t, "a@x.com", items[0]["email"])
	assert.Nil(t, items[0]["phone"])
	assert.Equal(t, "u1", stub.gotUserID)
	assert.Equal(t, "o1", stub.gotOrgID)
}

func TestItemsRouteNotFound(t *testing.T) {
	h := newTestServer(&stubIntegration{itemsErr: hubspot.ErrNoItemsFound})

	rec, body := serve(t, h, httptest.NewRequest(http.MethodGet, "/integrations/hubspot/items", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "no HubSpot items found", body["detail"])
}

func TestRequestIDPassthrough(t *testing.T) {
	h := newTestServer(&stubIntegration{})

	req := httptest.NewRequest(http.MethodGet, "/integrations/hubspot/authorize", nil)
	req.Header.Set("X-Request-ID", "req-123")

	rec, _ := serve(t, h, req)
	assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))
}
