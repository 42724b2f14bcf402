// ABOUTME: MCP server subcommand
// ABOUTME: Exposes the pipeline store as MCP tools on stdio
package cli

import (
	"context"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/leduardoseverino/performancy/handlers"
	"github.com/leduardoseverino/performancy/store"
)

// MCPCommand starts the MCP server on stdio
func MCPCommand(st *store.Store) error {
	log.Println("Starting pipeline MCP server...")

	pipelineHandlers := handlers.NewPipelineHandlers(st)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "performancy",
		Version: "0.1.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_deals",
		Description: "List pipeline deals, optionally filtered by stage",
	}, pipelineHandlers.ListDeals)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_deal",
		Description: "Add a deal to the pipeline (also created in Zoho when connected)",
	}, pipelineHandlers.AddDeal)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "move_deal_stage",
		Description: "Move a deal to another pipeline stage with best-effort Zoho sync",
	}, pipelineHandlers.MoveDealStage)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_pipeline_metrics",
		Description: "Get the current pipeline metrics snapshot (totals, weighted pipeline, conversion rates, stage distribution)",
	}, pipelineHandlers.GetPipelineMetrics)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "fetch_deals",
		Description: "Refresh the deal collection from Zoho CRM",
	}, pipelineHandlers.FetchDeals)

	// Run server on stdio transport
	ctx := context.Background()
	return server.Run(ctx, &mcp.StdioTransport{})
}
