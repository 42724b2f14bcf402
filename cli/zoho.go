// ABOUTME: Zoho connection CLI commands
// ABOUTME: Configure credentials, test the connection, sync deals, and inspect the journal
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/leduardoseverino/performancy/config"
	"github.com/leduardoseverino/performancy/db"
	"github.com/leduardoseverino/performancy/models"
	"github.com/leduardoseverino/performancy/store"
	"github.com/leduardoseverino/performancy/zoho"
)

// ConfigureCommand saves Zoho credentials. Validation rejects incomplete
// configs before anything touches the network.
func ConfigureCommand(args []string) error {
	fs := flag.NewFlagSet("configure", flag.ExitOnError)
	clientID := fs.String("client-id", "", "Zoho OAuth client id (required)")
	clientSecret := fs.String("client-secret", "", "Zoho OAuth client secret (required)")
	refreshToken := fs.String("refresh-token", "", "Zoho OAuth refresh token (required)")
	domain := fs.String("domain", "com", "Regional domain (com, eu, in, com.cn, com.au, jp)")
	_ = fs.Parse(args)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	cfg.Zoho = &models.ZohoConfig{
		ClientID:     *clientID,
		ClientSecret: *clientSecret,
		RefreshToken: *refreshToken,
		Domain:       *domain,
	}

	if err := cfg.Save(); err != nil {
		return err
	}

	fmt.Printf("✓ Zoho config saved to %s\n", config.Path())
	return nil
}

// TestCommand exercises the connection directly: token exchange plus a deal
// fetch. Unlike background sync, failures here surface to the caller.
func TestCommand() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Zoho == nil {
		return fmt.Errorf("no zoho config saved; run 'performancy zoho configure' first")
	}
	if err := config.ValidateZoho(*cfg.Zoho); err != nil {
		return err
	}

	client := zoho.New()
	client.Initialize(*cfg.Zoho)

	ctx := context.Background()
	if _, err := client.GetAccessToken(ctx); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}
	fmt.Println("✓ Token exchange succeeded")

	deals, more, err := client.GetDeals(ctx)
	if err != nil {
		return fmt.Errorf("deal fetch failed: %w", err)
	}
	fmt.Printf("✓ Fetched %d deals\n", len(deals))
	if more {
		fmt.Println("  Note: more records exist beyond the first page")
	}
	return nil
}

// SyncCommand refreshes the store's collection from Zoho.
func SyncCommand(st *store.Store) error {
	if !st.Connected() {
		return fmt.Errorf("not connected to zoho; run 'performancy zoho configure' first")
	}

	before := len(st.Deals())
	st.FetchDeals(context.Background())
	after := len(st.Deals())

	fmt.Printf("✓ Collection now holds %d deals (was %d)\n", after, before)
	return nil
}

// LogCommand prints recent sync journal entries.
func LogCommand(journalPath string, args []string) error {
	fs := flag.NewFlagSet("log", flag.ExitOnError)
	limit := fs.Int("limit", 20, "Maximum entries")
	_ = fs.Parse(args)

	database, err := db.OpenDatabase(journalPath)
	if err != nil {
		return fmt.Errorf("failed to open sync journal: %w", err)
	}
	defer database.Close()

	entries, err := db.RecentEntries(database, *limit)
	if err != nil {
		return fmt.Errorf("failed to read sync journal: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println("No sync activity recorded yet")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tOPERATION\tDEAL\tSTAGE\tOUTCOME\tDETAIL")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.CreatedAt.Format("2006-01-02 15:04:05"), e.Operation, e.DealID, e.Stage, e.Outcome, e.Detail)
	}
	return w.Flush()
}
