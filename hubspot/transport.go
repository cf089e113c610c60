// ABOUTME: Round tripper that keeps the raw token endpoint response
// ABOUTME: Lets the code exchange check the exact status and store the full provider payload
package hubspot

import (
	"bytes"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/harperreed/crmlink/models"
)

// tokenCapture records the status and body of the last response it carried.
// Use one per exchange.
type tokenCapture struct {
	base http.RoundTripper

	mu     sync.Mutex
	status int
	body   []byte
}

func newTokenCapture(client *http.Client) (*tokenCapture, *http.Client) {
	base := client.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	capture := &tokenCapture{base: base}
	return capture, &http.Client{Transport: capture, Timeout: client.Timeout}
}

func (c *tokenCapture) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, err
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))

	c.mu.Lock()
	c.status = resp.StatusCode
	c.body = body
	c.mu.Unlock()

	return resp, nil
}

// result returns the last status and body; status is zero when no response arrived.
func (c *tokenCapture) result() (int, []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status, c.body
}

// rawFields decodes a token response body into a field map. HubSpot answers
// with JSON; form-encoded bodies are accepted as well.
func rawFields(body []byte) map[string]any {
	var raw map[string]any
	if err := models.DecodeRaw(body, &raw); err == nil {
		return raw
	}

	values, err := url.ParseQuery(string(body))
	if err != nil || len(values) == 0 {
		return nil
	}
	raw = make(map[string]any, len(values))
	for k := range values {
		raw[k] = values.Get(k)
	}
	return raw
}
