// ABOUTME: CLI commands for the Charm KV credential backend
// ABOUTME: Links the device to a Charm account and reports sync status

package charm

import (
	"flag"
	"fmt"

	"github.com/charmbracelet/charm/client"
)

// LinkCommand links this device to a Charm account.
// Charm authenticates with the local SSH key, so there is no login step.
func LinkCommand(args []string) error {
	fs := flag.NewFlagSet("charm link", flag.ExitOnError)
	host := fs.String("host", "", "Charm server host")
	_ = fs.Parse(args)

	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if *host != "" {
		cfg.Host = *host
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
	}

	fmt.Printf("Linking to Charm Cloud (%s)...\n", cfg.Host)

	c, err := NewClient(cfg)
	if err != nil {
		return err
	}
	if err := c.Sync(); err != nil {
		return fmt.Errorf("link failed: %w", err)
	}

	id, err := c.ID()
	if err != nil {
		fmt.Println("✓ Device linked (ID unavailable)")
	} else {
		fmt.Printf("✓ Linked to account: %s\n", id)
	}

	fmt.Println("Credentials stored with --store charm now follow you across devices.")
	return nil
}

// StatusCommand shows the charm configuration and connection state.
func StatusCommand(args []string) error {
	fs := flag.NewFlagSet("charm status", flag.ExitOnError)
	_ = fs.Parse(args)

	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fmt.Println("Charm Sync Status")
	fmt.Println("─────────────────")
	fmt.Printf("Server:    %s\n", cfg.Host)
	fmt.Printf("Auto-sync: %v\n", cfg.AutoSync)

	cc, err := client.NewClientWithDefaults()
	if err != nil {
		fmt.Println("Status:    Not connected")
		return nil
	}

	id, err := cc.ID()
	if err != nil {
		fmt.Println("Status:    Not connected")
		return nil
	}

	fmt.Printf("Status:    Connected (%s)\n", id)
	return nil
}
