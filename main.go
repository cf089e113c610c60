// ABOUTME: Entry point for the crmlink CLI
// ABOUTME: Routes to HubSpot authorize, items, serve, MCP, status, and charm commands
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/harperreed/crmlink/charm"
	"github.com/harperreed/crmlink/cli"
)

const version = "0.1.0"

func main() {
	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")
	envFile := flag.String("env-file", "", "Env file to load (default: .env)")
	storeName := flag.String("store", "", "Credential store: memory, file, sqlite, or charm (default: sqlite)")
	dbPath := flag.String("db-path", "", "Database path (default: ~/.local/share/crmlink/crmlink.db)")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error (default: info)")

	// Parse global flags but don't fail on unknown (for subcommands)
	_ = flag.CommandLine.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("crmlink version %s\n", version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	command := args[0]
	commandArgs := args[1:]

	// Charm commands manage the sync account and need no HubSpot config
	if command == "charm" {
		runCharm(commandArgs)
		return
	}

	run, ok := commands[command]
	if !ok {
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	settings, err := cli.LoadSettings(*envFile, cli.Settings{
		Store:    *storeName,
		DBPath:   *dbPath,
		LogLevel: *logLevel,
	})
	if err != nil {
		log.Fatal("Invalid settings", "err", err)
	}

	app, err := cli.Open(settings)
	if err != nil {
		log.Fatal("Failed to start", "err", err)
	}

	err = run(app, commandArgs)
	_ = app.Close()
	if err != nil {
		log.Fatal("Error", "command", command, "err", err)
	}
}

var commands = map[string]func(*cli.App, []string) error{
	"authorize": cli.AuthorizeCommand,
	"items":     cli.ItemsCommand,
	"serve":     cli.ServeCommand,
	"status":    cli.StatusCommand,
	"mcp": func(app *cli.App, _ []string) error {
		return cli.MCPCommand(app, version)
	},
}

func runCharm(args []string) {
	if len(args) == 0 {
		fmt.Println("Error: charm requires a subcommand")
		printUsage()
		os.Exit(1)
	}

	var err error
	switch args[0] {
	case "link":
		err = charm.LinkCommand(args[1:])
	case "status":
		err = charm.StatusCommand(args[1:])
	default:
		fmt.Printf("Unknown charm command: %s\n\n", args[0])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		log.Fatal("Error", "err", err)
	}
}

func printUsage() {
	fmt.Printf(`crmlink v%s - HubSpot integration adapter

USAGE:
  crmlink [global flags] <command> [flags]

GLOBAL FLAGS:
  --version              Show version and exit
  --env-file <path>      Env file to load (default: .env)
  --store <name>         Credential store: memory, file, sqlite, charm (default: sqlite)
  --db-path <path>       Database path (default: ~/.local/share/crmlink/crmlink.db)
  --log-level <level>    debug, info, warn, error (default: info)

COMMANDS:
  authorize              Connect a HubSpot account via OAuth
    --user-id <id>         User id (tenant key scope only)
    --org-id <id>          Org id (tenant key scope only)
    --listen <addr>        Callback listen address (default: redirect URI host)
    --no-browser           Print the consent URL without opening a browser
    --timeout <duration>   How long to wait for the callback (default: 5m)

  items                  List HubSpot contacts and companies
    --user-id, --org-id    Tenant ids
    --json                 Print JSON (default when stdout is not a terminal)
    --tui                  Browse interactively

  serve                  Serve the /integrations/hubspot HTTP routes
    --addr <addr>          Listen address (default: :8000)

  mcp                    Start MCP server on stdio

  status                 Show connection state and fetch history
    --limit <n>            Recent fetches to show (default: 10)

  charm link             Link this device to a Charm account
    --host <host>          Charm server host
  charm status           Show Charm sync status

ENVIRONMENT:
  HUBSPOT_CLIENT_ID, HUBSPOT_CLIENT_SECRET, HUBSPOT_REDIRECT_URI (required)
  CRMLINK_KEY_SCOPE      shared (default) or tenant
  CRMLINK_STORE, CRMLINK_DB_PATH, CRMLINK_CREDENTIALS_DIR, CRMLINK_LOG_LEVEL, CRMLINK_ADDR

EXAMPLES:
  # Connect HubSpot and list what came back
  crmlink authorize
  crmlink items

  # Keep credentials in Charm so they follow you across machines
  crmlink charm link
  crmlink --store charm authorize

`, version)
}
