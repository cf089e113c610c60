// ABOUTME: Error taxonomy for the HubSpot adapter
// ABOUTME: Maps invalid requests, upstream auth failures, missing credentials, and empty fetches to HTTP statuses
package hubspot

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidRequest means the OAuth callback carried no authorization code.
	ErrInvalidRequest = errors.New("authorization code missing")
	// ErrMissingCredentials means no token has been exchanged for this caller.
	ErrMissingCredentials = errors.New("missing HubSpot credentials")
	// ErrNoItemsFound means both resource fetches produced nothing.
	ErrNoItemsFound = errors.New("no HubSpot items found")
)

// UpstreamAuthError is returned when HubSpot answers a token exchange with
// anything other than 200. StatusCode and Body are HubSpot's.
type UpstreamAuthError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamAuthError) Error() string {
	return fmt.Sprintf("failed to get access token: HubSpot returned status %d", e.StatusCode)
}

// HTTPStatus maps an adapter error to the status a route layer should return.
func HTTPStatus(err error) int {
	var upstream *UpstreamAuthError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrMissingCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNoItemsFound):
		return http.StatusNotFound
	case errors.As(err, &upstream):
		// A non-200 success from HubSpot is still a failed exchange for our caller
		if upstream.StatusCode < http.StatusBadRequest {
			return http.StatusBadGateway
		}
		return upstream.StatusCode
	}
	return http.StatusInternalServerError
}
