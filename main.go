// ABOUTME: Entry point for the performancy pipeline CLI and servers
// ABOUTME: Routes to dashboard, board, MCP server, or pipeline commands
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/leduardoseverino/performancy/cli"
	"github.com/leduardoseverino/performancy/db"
	"github.com/leduardoseverino/performancy/tui"
	"github.com/leduardoseverino/performancy/web"
)

const version = "0.1.0"

func main() {
	// Optional .env for Zoho credential overrides
	_ = godotenv.Load()

	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")
	journalPath := flag.String("journal-path", "", "Sync journal path (default: ~/.local/share/performancy/journal.db)")

	// Parse global flags but don't fail on unknown (for subcommands)
	_ = flag.CommandLine.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("performancy version %s\n", version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	finalJournalPath := getJournalPath(*journalPath)
	command := args[0]
	commandArgs := args[1:]

	switch command {
	case "dashboard":
		fs := flag.NewFlagSet("dashboard", flag.ExitOnError)
		port := fs.Int("port", 8080, "Listen port")
		_ = fs.Parse(commandArgs)

		st, cleanup, err := cli.BuildStore(finalJournalPath)
		if err != nil {
			log.Fatalf("Failed to build store: %v", err)
		}
		defer cleanup()

		server := web.NewServer(st)
		if err := server.Start(*port); err != nil {
			log.Fatalf("Dashboard server failed: %v", err)
		}

	case "board":
		st, cleanup, err := cli.BuildStore(finalJournalPath)
		if err != nil {
			log.Fatalf("Failed to build store: %v", err)
		}
		defer cleanup()

		if err := tui.Run(st); err != nil {
			log.Fatalf("Board failed: %v", err)
		}
		st.Wait()

	case "mcp":
		st, cleanup, err := cli.BuildStore(finalJournalPath)
		if err != nil {
			log.Fatalf("Failed to build store: %v", err)
		}
		defer cleanup()

		if err := cli.MCPCommand(st); err != nil {
			log.Fatalf("MCP server failed: %v", err)
		}

	case "deals":
		if len(commandArgs) == 0 {
			fmt.Println("Error: deals requires a subcommand")
			printUsage()
			os.Exit(1)
		}

		st, cleanup, err := cli.BuildStore(finalJournalPath)
		if err != nil {
			log.Fatalf("Failed to build store: %v", err)
		}
		defer cleanup()

		dealsCommand := commandArgs[0]
		dealsArgs := commandArgs[1:]

		switch dealsCommand {
		case "list":
			if err := cli.ListDealsCommand(st, dealsArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "add":
			if err := cli.AddDealCommand(st, dealsArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "move":
			if err := cli.MoveDealCommand(st, dealsArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "metrics":
			if err := cli.MetricsCommand(st); err != nil {
				log.Fatalf("Error: %v", err)
			}
		default:
			fmt.Printf("Unknown deals command: %s\n\n", dealsCommand)
			printUsage()
			os.Exit(1)
		}

	case "zoho":
		if len(commandArgs) == 0 {
			fmt.Println("Error: zoho requires a subcommand")
			printUsage()
			os.Exit(1)
		}

		zohoCommand := commandArgs[0]
		zohoArgs := commandArgs[1:]

		switch zohoCommand {
		case "configure":
			if err := cli.ConfigureCommand(zohoArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "test":
			if err := cli.TestCommand(); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "sync":
			st, cleanup, err := cli.BuildStore(finalJournalPath)
			if err != nil {
				log.Fatalf("Failed to build store: %v", err)
			}
			defer cleanup()

			if err := cli.SyncCommand(st); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "log":
			if err := cli.LogCommand(finalJournalPath, zohoArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		default:
			fmt.Printf("Unknown zoho command: %s\n\n", zohoCommand)
			printUsage()
			os.Exit(1)
		}

	case "viz":
		if len(commandArgs) == 0 || commandArgs[0] != "funnel" {
			fmt.Println("Error: viz requires the 'funnel' subcommand")
			printUsage()
			os.Exit(1)
		}

		st, cleanup, err := cli.BuildStore(finalJournalPath)
		if err != nil {
			log.Fatalf("Failed to build store: %v", err)
		}
		defer cleanup()

		if err := cli.VizFunnelCommand(st, commandArgs[1:]); err != nil {
			log.Fatalf("Error: %v", err)
		}

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func getJournalPath(path string) string {
	if path != "" {
		return path
	}
	return db.DefaultPath()
}

func printUsage() {
	fmt.Printf(`performancy v%s - Sales pipeline dashboard with Zoho CRM sync

USAGE:
  performancy [global flags] <command> [subcommand] [flags]

GLOBAL FLAGS:
  --version              Show version and exit
  --journal-path <path>  Sync journal path (default: ~/.local/share/performancy/journal.db)

COMMANDS:
  dashboard              Start the JSON dashboard server
    --port <n>             Listen port (default: 8080)

  board                  Open the terminal pipeline board

  mcp                    Start MCP server (for Claude Desktop integration)

  deals list             List deals
    --stage <stage>        Filter by stage

  deals add              Add a deal (also created in Zoho when connected)
    --name <name>          Deal name (required)
    --company <name>       Company name
    --value <n>            Deal value
    --stage <stage>        Stage (default: Lead)
    --probability <n>      Win probability 0-100
    --close <date>         Expected close date (YYYY-MM-DD)
    --owner <name>         Owning salesperson
    --notes <text>         Free-text notes

  deals move             Move a deal to another stage
    --stage <stage>        Target stage (required)
    <deal-id>              Deal id (positional)

  deals metrics          Print the pipeline metrics snapshot

  zoho configure         Save Zoho credentials
    --client-id <id>       OAuth client id (required)
    --client-secret <s>    OAuth client secret (required)
    --refresh-token <t>    OAuth refresh token (required)
    --domain <d>           Regional domain (default: com)

  zoho test              Test the Zoho connection (token + fetch)
  zoho sync              Replace the local collection from Zoho
  zoho log               Show recent sync journal entries
    --limit <n>            Maximum entries (default: 20)

  viz funnel             Render the pipeline funnel as DOT
    --output <file>        Output file (default: stdout)

EXAMPLES:
  # Run with demo data
  performancy deals metrics

  # Connect to Zoho and sync
  performancy zoho configure --client-id ... --client-secret ... --refresh-token ...
  performancy zoho test
  performancy zoho sync

  # Move a deal through the pipeline
  performancy deals move --stage Negotiation 9

`, version)
}
