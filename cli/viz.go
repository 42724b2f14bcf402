// ABOUTME: Visualization CLI commands
// ABOUTME: Renders the pipeline funnel to stdout or a file
package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/leduardoseverino/performancy/store"
	"github.com/leduardoseverino/performancy/viz"
)

// VizFunnelCommand renders the current funnel as a DOT graph.
func VizFunnelCommand(st *store.Store, args []string) error {
	fs := flag.NewFlagSet("funnel", flag.ExitOnError)
	output := fs.String("output", "", "Output file (default: stdout)")
	_ = fs.Parse(args)

	dot, err := viz.GenerateFunnelGraph(st.Metrics())
	if err != nil {
		return fmt.Errorf("failed to generate funnel graph: %w", err)
	}

	if *output == "" {
		fmt.Print(dot)
		return nil
	}

	if err := os.WriteFile(*output, []byte(dot), 0644); err != nil {
		return fmt.Errorf("failed to write graph: %w", err)
	}
	fmt.Printf("✓ Funnel graph written to %s\n", *output)
	return nil
}
