// ABOUTME: Deal CLI commands
// ABOUTME: Human-friendly commands for listing, adding, and moving deals
package cli

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/leduardoseverino/performancy/models"
	"github.com/leduardoseverino/performancy/store"
)

// ListDealsCommand lists deals, optionally filtered by stage.
func ListDealsCommand(st *store.Store, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	stage := fs.String("stage", "", "Filter by stage (Lead, Discovery, Qualified, Proposal, Negotiation, Closed Won, Closed Lost)")
	_ = fs.Parse(args)

	if *stage != "" && !models.ValidStage(models.DealStage(*stage)) {
		return fmt.Errorf("invalid stage: %s", *stage)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCOMPANY\tVALUE\tSTAGE\tPROB\tCLOSE")
	for _, d := range st.Deals() {
		if *stage != "" && d.Stage != models.DealStage(*stage) {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.0f\t%s\t%d%%\t%s\n",
			d.ID, d.Name, d.Company, d.Value, d.Stage, d.Probability, d.ExpectedCloseDate)
	}
	return w.Flush()
}

// AddDealCommand adds a deal to the local collection, creating it remotely
// too when a CRM connection is configured.
func AddDealCommand(st *store.Store, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	name := fs.String("name", "", "Deal name (required)")
	company := fs.String("company", "", "Company name")
	value := fs.Float64("value", 0, "Deal value")
	stage := fs.String("stage", string(models.StageLead), "Stage")
	probability := fs.Int("probability", 0, "Win probability 0-100 (default: stage default)")
	closeDate := fs.String("close", "", "Expected close date (YYYY-MM-DD)")
	owner := fs.String("owner", "", "Owning salesperson")
	notes := fs.String("notes", "", "Free-text notes")
	_ = fs.Parse(args)

	if *name == "" {
		return fmt.Errorf("--name is required")
	}
	if *value < 0 {
		return fmt.Errorf("--value must be non-negative")
	}
	dealStage := models.DealStage(*stage)
	if !models.ValidStage(dealStage) {
		return fmt.Errorf("invalid stage: %s", *stage)
	}
	if *probability < 0 || *probability > 100 {
		return fmt.Errorf("--probability must be between 0 and 100")
	}
	if *closeDate != "" {
		if _, err := time.Parse("2006-01-02", *closeDate); err != nil {
			return fmt.Errorf("invalid --close date (use YYYY-MM-DD): %w", err)
		}
	}

	patch := models.DealPatch{Name: name, Stage: &dealStage}
	if *company != "" {
		patch.Company = company
	}
	if *value != 0 {
		patch.Value = value
	}
	if *probability != 0 {
		patch.Probability = probability
	}
	if *closeDate != "" {
		patch.ExpectedCloseDate = closeDate
	}
	if *owner != "" {
		patch.Owner = owner
	}
	if *notes != "" {
		patch.Notes = notes
	}

	deal := st.CreateDeal(patch)
	st.Wait()

	fmt.Printf("✓ Deal created: %s (ID: %s)\n", deal.Name, deal.ID)
	fmt.Printf("  Stage: %s (%d%%)\n", deal.Stage, deal.Probability)
	if deal.Value > 0 {
		fmt.Printf("  Value: %.0f\n", deal.Value)
	}
	return nil
}

// MoveDealCommand moves a deal to a new stage. The local move always
// happens; the remote sync is best-effort.
func MoveDealCommand(st *store.Store, args []string) error {
	fs := flag.NewFlagSet("move", flag.ExitOnError)
	stage := fs.String("stage", "", "Target stage (required)")
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: deals move --stage <stage> <deal-id>")
	}
	dealID := fs.Arg(0)

	target := models.DealStage(*stage)
	if !models.ValidStage(target) {
		return fmt.Errorf("invalid stage: %s", *stage)
	}
	if _, ok := st.Deal(dealID); !ok {
		return fmt.Errorf("deal not found: %s", dealID)
	}

	st.MoveDealToStage(dealID, target)
	st.Wait()

	deal, _ := st.Deal(dealID)
	fmt.Printf("✓ Moved %q to %s\n", deal.Name, deal.Stage)
	return nil
}

// MetricsCommand prints the current pipeline snapshot.
func MetricsCommand(st *store.Store) error {
	snapshot := st.Metrics()

	fmt.Printf("Total deals:       %d\n", snapshot.TotalDeals)
	fmt.Printf("Active deals:      %d\n", snapshot.ActiveDeals)
	fmt.Printf("Pipeline total:    %.0f\n", snapshot.PipelineTotal)
	fmt.Printf("Weighted pipeline: %.0f\n", snapshot.WeightedPipeline)
	fmt.Printf("Closed won:        %.0f (%d deals)\n", snapshot.ClosedWonValue, snapshot.ClosedWonCount)
	fmt.Printf("Conversion rate:   %.1f%%\n\n", snapshot.ConversionRate)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STAGE\tDEALS\tVALUE\tCONVERSION")
	for _, sm := range snapshot.StageDistribution {
		fmt.Fprintf(w, "%s\t%d\t%.0f\t%d%%\n", sm.Stage, sm.DealCount, sm.TotalValue, sm.ConversionRate)
	}
	return w.Flush()
}
