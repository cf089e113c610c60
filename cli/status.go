// ABOUTME: Status CLI command
// ABOUTME: Shows the connection state, per-resource sync state, and recent fetches
package cli

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/harperreed/crmlink/db"
	"github.com/harperreed/crmlink/hubspot"
)

// StatusCommand prints connection and fetch history.
func StatusCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	userID := fs.String("user-id", "", "User id for tenant key scope")
	orgID := fs.String("org-id", "", "Org id for tenant key scope")
	limit := fs.Int("limit", 10, "Number of recent fetches to show")
	_ = fs.Parse(args)

	fmt.Println("HubSpot Connection")
	fmt.Println("──────────────────")
	creds, err := app.Adapter.Credentials(context.Background(), *userID, *orgID)
	switch {
	case errors.Is(err, hubspot.ErrMissingCredentials):
		fmt.Println("Status:  Not connected (run 'crmlink authorize')")
	case err != nil:
		return err
	default:
		fmt.Println("Status:  Connected")
		if !creds.Expiry.IsZero() {
			fmt.Printf("Expires: %s\n", creds.Expiry.Local().Format(time.RFC1123))
		}
	}
	fmt.Printf("Store:   %s\n\n", app.Settings.Store)

	return printFetchHistory(os.Stdout, app.DB, *limit)
}

func printFetchHistory(out io.Writer, database *sql.DB, limit int) error {
	states, err := db.GetAllSyncStates(database)
	if err != nil {
		return fmt.Errorf("failed to load sync state: %w", err)
	}
	if len(states) == 0 {
		_, _ = fmt.Fprintln(out, "No fetches recorded yet")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "RESOURCE\tSTATUS\tITEMS\tLAST SUCCESS\tERROR")
	_, _ = fmt.Fprintln(w, "--------\t------\t-----\t------------\t-----")
	for _, state := range states {
		last := "never"
		if state.LastSyncTime != nil {
			last = state.LastSyncTime.Local().Format(time.DateTime)
		}
		errMsg := "-"
		if state.ErrorMessage != nil {
			errMsg = *state.ErrorMessage
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", state.Service, state.Status, state.LastItemCount, last, errMsg)
	}
	_ = w.Flush()

	entries, err := db.RecentFetches(database, limit)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(out, "\nRecent fetches\n")
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TIME\tRESOURCE\tHTTP\tITEMS\tERROR")
	for _, entry := range entries {
		errMsg := "-"
		if entry.ErrorMessage != nil {
			errMsg = *entry.ErrorMessage
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
			entry.FetchedAt.Local().Format(time.DateTime), entry.Resource, entry.StatusCode, entry.ItemCount, errMsg)
	}
	_ = w.Flush()

	return nil
}
