// ABOUTME: HubSpot authorization CLI command
// ABOUTME: Opens the consent page and completes the code exchange on a local callback server
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os/exec"
	"runtime"
	"time"

	"github.com/harperreed/crmlink/hubspot"
)

type codeExchanger interface {
	ExchangeCode(ctx context.Context, query url.Values) (*hubspot.Ack, error)
}

// AuthorizeCommand runs the OAuth consent flow and stores the resulting credentials
func AuthorizeCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("authorize", flag.ExitOnError)
	userID := fs.String("user-id", "", "User id for tenant key scope")
	orgID := fs.String("org-id", "", "Org id for tenant key scope")
	listen := fs.String("listen", "", "Callback listen address (default: host of HUBSPOT_REDIRECT_URI)")
	noBrowser := fs.Bool("no-browser", false, "Print the URL without opening a browser")
	timeout := fs.Duration("timeout", 5*time.Minute, "How long to wait for the callback")
	_ = fs.Parse(args)

	redirect, err := url.Parse(app.Adapter.Config().RedirectURI)
	if err != nil {
		return fmt.Errorf("invalid HUBSPOT_REDIRECT_URI: %w", err)
	}
	addr := *listen
	if addr == "" {
		addr = redirect.Host
	}
	path := redirect.Path
	if path == "" {
		path = "/"
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen for callback on %s: %w", addr, err)
	}

	done := make(chan error, 1)
	mux := http.NewServeMux()
	mux.Handle(path, callbackHandler(app.Adapter, *userID, *orgID, done))

	server := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case done <- err:
			default:
			}
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	defer func() { _ = server.Shutdown(context.Background()) }()

	authURL := app.Adapter.AuthorizationURL(*userID, *orgID)

	fmt.Println("Opening browser for HubSpot OAuth...")
	fmt.Printf("\nIf browser doesn't open, visit this URL:\n%s\n\n", authURL)
	if !*noBrowser {
		_ = openBrowser(authURL)
	}

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("OAuth flow failed: %w", err)
		}
	case <-ctx.Done():
		return fmt.Errorf("timed out waiting for HubSpot callback on %s%s", addr, path)
	}

	fmt.Printf("\n✓ Authenticated successfully\n")
	fmt.Printf("✓ Credentials saved to %s store\n\n", app.Settings.Store)
	fmt.Println("Run 'crmlink items' to list contacts and companies.")
	return nil
}

// callbackHandler exchanges the code on the callback request and reports the
// outcome on done. Tenant ids from the command line fill in when the
// callback does not carry them.
func callbackHandler(ex codeExchanger, userID, orgID string, done chan<- error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if userID != "" && query.Get("user_id") == "" {
			query.Set("user_id", userID)
		}
		if orgID != "" && query.Get("org_id") == "" {
			query.Set("org_id", orgID)
		}

		ack, err := ex.ExchangeCode(r.Context(), query)
		if err != nil {
			http.Error(w, err.Error(), hubspot.HTTPStatus(err))
		} else {
			_, _ = fmt.Fprintf(w, "%s! You can close this window.", ack.Message)
		}

		select {
		case done <- err:
		default:
		}
	}
}

// openBrowser attempts to open URL in default browser
func openBrowser(url string) error {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "darwin":
		cmd = "open"
		args = []string{url}
	case "windows":
		cmd = "cmd"
		args = []string{"/c", "start", url}
	default:
		cmd = "xdg-open"
		args = []string{url}
	}

	command := exec.Command(cmd, args...)
	return command.Start()
}
