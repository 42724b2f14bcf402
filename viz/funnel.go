// ABOUTME: Funnel graph generation from a pipeline metrics snapshot
// ABOUTME: Renders the stage distribution as a graphviz DOT document
package viz

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"

	"github.com/leduardoseverino/performancy/models"
)

var stageColors = map[models.DealStage]string{
	models.StageLead:        "lightyellow",
	models.StageDiscovery:   "lightgoldenrod",
	models.StageQualified:   "lightblue",
	models.StageProposal:    "lightskyblue",
	models.StageNegotiation: "plum",
	models.StageClosedWon:   "lightgreen",
	models.StageClosedLost:  "lightcoral",
}

// GenerateFunnelGraph renders the stage distribution as a left-to-right
// funnel: active stages chained in progression order, with both terminal
// stages hanging off Negotiation.
func GenerateFunnelGraph(snapshot models.PipelineMetrics) (string, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create graphviz: %w", err)
	}
	defer func() {
		if err := gv.Close(); err != nil {
			fmt.Printf("Error closing graphviz: %v\n", err)
		}
	}()

	graph, err := gv.Graph()
	if err != nil {
		return "", fmt.Errorf("failed to create graph: %w", err)
	}
	defer func() {
		if err := graph.Close(); err != nil {
			fmt.Printf("Error closing graph: %v\n", err)
		}
	}()

	graph.SetLabel("Pipeline Funnel")
	graph.SetRankDir(cgraph.LRRank)

	nodes := make(map[models.DealStage]*cgraph.Node)
	for i, sm := range snapshot.StageDistribution {
		node, err := graph.CreateNodeByName(fmt.Sprintf("stage_%d", i))
		if err != nil {
			return "", fmt.Errorf("failed to create stage node: %w", err)
		}
		node.SetLabel(fmt.Sprintf("%s\n%d deals / %.0f\nconv %d%%", sm.Stage, sm.DealCount, sm.TotalValue, sm.ConversionRate))
		node.SetShape("box")
		node.SetStyle("filled")
		node.SetFillColor(stageColors[sm.Stage])
		nodes[sm.Stage] = node
	}

	active := models.ActiveStages()
	for i := 0; i < len(active)-1; i++ {
		if _, err := graph.CreateEdgeByName("", nodes[active[i]], nodes[active[i+1]]); err != nil {
			return "", fmt.Errorf("failed to create edge: %w", err)
		}
	}

	last := active[len(active)-1]
	for _, terminal := range []models.DealStage{models.StageClosedWon, models.StageClosedLost} {
		edge, err := graph.CreateEdgeByName("", nodes[last], nodes[terminal])
		if err != nil {
			return "", fmt.Errorf("failed to create edge: %w", err)
		}
		if terminal == models.StageClosedWon {
			edge.SetColor("darkgreen")
		} else {
			edge.SetColor("firebrick")
		}
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.XDOT, &buf); err != nil {
		return "", fmt.Errorf("failed to render graph: %w", err)
	}

	return buf.String(), nil
}
