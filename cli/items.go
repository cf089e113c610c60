// ABOUTME: Item listing CLI command
// ABOUTME: Fetches HubSpot contacts and companies and prints them as a table, JSON, or TUI
package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/harperreed/crmlink/hubspot"
	"github.com/harperreed/crmlink/models"
	"github.com/harperreed/crmlink/tui"
	"golang.org/x/term"
)

// ItemsCommand lists the first page of contacts and companies.
func ItemsCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("items", flag.ExitOnError)
	userID := fs.String("user-id", "", "User id for tenant key scope")
	orgID := fs.String("org-id", "", "Org id for tenant key scope")
	asJSON := fs.Bool("json", false, "Print items as JSON")
	interactive := fs.Bool("tui", false, "Browse items interactively")
	_ = fs.Parse(args)

	items, err := app.Adapter.Items(context.Background(), *userID, *orgID)
	if err != nil {
		return err
	}

	switch {
	case *interactive:
		return tui.Run(items)
	case *asJSON || !term.IsTerminal(int(os.Stdout.Fd())):
		return writeItemsJSON(os.Stdout, items)
	default:
		printItems(os.Stdout, items)
		return nil
	}
}

func writeItemsJSON(w io.Writer, items []models.IntegrationItem) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}

func printItems(out io.Writer, items []models.IntegrationItem) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TYPE\tNAME\tEMAIL/WEBSITE\tPHONE/INDUSTRY\tID")
	_, _ = fmt.Fprintln(w, "----\t----\t-------------\t--------------\t--")

	contacts := 0
	for _, item := range items {
		first, second := item.Website, item.Industry
		if item.Type == models.ItemContact {
			first, second = item.Email, item.Phone
			contacts++
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			item.Type, hubspot.DisplayName(item), orDash(first), orDash(second), item.ID)
	}
	_ = w.Flush()

	_, _ = fmt.Fprintf(out, "\nTotal: %d contact(s), %d company(ies)\n", contacts, len(items)-contacts)
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}
