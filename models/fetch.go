// ABOUTME: Outcome record for a single HubSpot resource request
// ABOUTME: Lets fetch failures be recorded without failing the whole item fetch
package models

import "time"

// FetchResult describes one resource request made while fetching items.
// StatusCode is zero when the request never got a response.
type FetchResult struct {
	Resource   string    `json:"resource"`
	StatusCode int       `json:"status_code"`
	Count      int       `json:"count"`
	Err        error     `json:"-"`
	FetchedAt  time.Time `json:"fetched_at"`
}

// OK reports whether the resource contributed items normally.
func (r FetchResult) OK() bool {
	return r.Err == nil
}
