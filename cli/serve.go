// ABOUTME: HTTP server CLI command
// ABOUTME: Serves the HubSpot integration routes until interrupted
package cli

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/crmlink/web"
)

// ServeCommand runs the integration HTTP routes
func ServeCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", app.Settings.Addr, "Listen address")
	_ = fs.Parse(args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return web.NewServer(app.Adapter, app.Logger).Start(ctx, *addr)
}
