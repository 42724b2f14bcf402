// ABOUTME: Pipeline MCP tool handlers
// ABOUTME: Exposes deal listing, creation, stage moves, and metrics as MCP tools
package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/leduardoseverino/performancy/models"
	"github.com/leduardoseverino/performancy/store"
)

type PipelineHandlers struct {
	store *store.Store
}

func NewPipelineHandlers(st *store.Store) *PipelineHandlers {
	return &PipelineHandlers{store: st}
}

type DealOutput struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Company           string  `json:"company"`
	Value             float64 `json:"value"`
	Stage             string  `json:"stage"`
	Probability       int     `json:"probability"`
	ExpectedCloseDate string  `json:"expected_close_date,omitempty"`
	Owner             string  `json:"owner"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at"`
	ContactName       string  `json:"contact_name,omitempty"`
	Notes             string  `json:"notes,omitempty"`
}

func toDealOutput(d models.Deal) DealOutput {
	out := DealOutput{
		ID:                d.ID,
		Name:              d.Name,
		Company:           d.Company,
		Value:             d.Value,
		Stage:             string(d.Stage),
		Probability:       d.Probability,
		ExpectedCloseDate: d.ExpectedCloseDate,
		Owner:             d.Owner,
		CreatedAt:         d.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         d.UpdatedAt.Format(time.RFC3339),
		Notes:             d.Notes,
	}
	if d.Contact != nil {
		out.ContactName = d.Contact.Name
	}
	return out
}

type ListDealsInput struct {
	Stage string `json:"stage,omitempty" jsonschema:"Filter by stage: Lead, Discovery, Qualified, Proposal, Negotiation, Closed Won, Closed Lost"`
}

type ListDealsOutput struct {
	Deals []DealOutput `json:"deals"`
	Count int          `json:"count"`
}

func (h *PipelineHandlers) ListDeals(_ context.Context, _ *mcp.CallToolRequest, input ListDealsInput) (*mcp.CallToolResult, ListDealsOutput, error) {
	if input.Stage != "" && !models.ValidStage(models.DealStage(input.Stage)) {
		return nil, ListDealsOutput{}, fmt.Errorf("invalid stage: %s", input.Stage)
	}

	var out ListDealsOutput
	for _, d := range h.store.Deals() {
		if input.Stage != "" && d.Stage != models.DealStage(input.Stage) {
			continue
		}
		out.Deals = append(out.Deals, toDealOutput(d))
	}
	out.Count = len(out.Deals)
	return nil, out, nil
}

type AddDealInput struct {
	Name              string  `json:"name" jsonschema:"Deal name (required)"`
	Company           string  `json:"company,omitempty" jsonschema:"Company name"`
	Value             float64 `json:"value,omitempty" jsonschema:"Deal value (currency-agnostic amount)"`
	Stage             string  `json:"stage,omitempty" jsonschema:"Stage (default Lead)"`
	Probability       int     `json:"probability,omitempty" jsonschema:"Win probability 0-100 (defaults to the stage default)"`
	ExpectedCloseDate string  `json:"expected_close_date,omitempty" jsonschema:"Expected close date as YYYY-MM-DD"`
	Owner             string  `json:"owner,omitempty" jsonschema:"Owning salesperson"`
	Notes             string  `json:"notes,omitempty" jsonschema:"Free-text notes"`
}

func (h *PipelineHandlers) AddDeal(_ context.Context, _ *mcp.CallToolRequest, input AddDealInput) (*mcp.CallToolResult, DealOutput, error) {
	if input.Name == "" {
		return nil, DealOutput{}, fmt.Errorf("name is required")
	}
	if input.Value < 0 {
		return nil, DealOutput{}, fmt.Errorf("value must be non-negative")
	}

	patch := models.DealPatch{Name: &input.Name}
	if input.Company != "" {
		patch.Company = &input.Company
	}
	if input.Value != 0 {
		patch.Value = &input.Value
	}
	if input.Stage != "" {
		stage := models.DealStage(input.Stage)
		if !models.ValidStage(stage) {
			return nil, DealOutput{}, fmt.Errorf("invalid stage: %s", input.Stage)
		}
		patch.Stage = &stage
	}
	if input.Probability != 0 {
		if input.Probability < 0 || input.Probability > 100 {
			return nil, DealOutput{}, fmt.Errorf("probability must be between 0 and 100")
		}
		patch.Probability = &input.Probability
	}
	if input.ExpectedCloseDate != "" {
		if _, err := time.Parse("2006-01-02", input.ExpectedCloseDate); err != nil {
			return nil, DealOutput{}, fmt.Errorf("invalid expected_close_date (use YYYY-MM-DD): %w", err)
		}
		patch.ExpectedCloseDate = &input.ExpectedCloseDate
	}
	if input.Owner != "" {
		patch.Owner = &input.Owner
	}
	if input.Notes != "" {
		patch.Notes = &input.Notes
	}

	deal := h.store.CreateDeal(patch)
	return nil, toDealOutput(deal), nil
}

type MoveDealInput struct {
	DealID string `json:"deal_id" jsonschema:"Deal id (required)"`
	Stage  string `json:"stage" jsonschema:"Target stage (required)"`
}

func (h *PipelineHandlers) MoveDealStage(_ context.Context, _ *mcp.CallToolRequest, input MoveDealInput) (*mcp.CallToolResult, DealOutput, error) {
	if input.DealID == "" {
		return nil, DealOutput{}, fmt.Errorf("deal_id is required")
	}
	stage := models.DealStage(input.Stage)
	if !models.ValidStage(stage) {
		return nil, DealOutput{}, fmt.Errorf("invalid stage: %s", input.Stage)
	}

	if _, ok := h.store.Deal(input.DealID); !ok {
		return nil, DealOutput{}, fmt.Errorf("deal not found: %s", input.DealID)
	}

	h.store.MoveDealToStage(input.DealID, stage)

	deal, _ := h.store.Deal(input.DealID)
	return nil, toDealOutput(deal), nil
}

type MetricsInput struct{}

func (h *PipelineHandlers) GetPipelineMetrics(_ context.Context, _ *mcp.CallToolRequest, _ MetricsInput) (*mcp.CallToolResult, models.PipelineMetrics, error) {
	return nil, h.store.Metrics(), nil
}

type FetchDealsInput struct{}

type FetchDealsOutput struct {
	Connected bool `json:"connected"`
	Count     int  `json:"count"`
}

// FetchDeals refreshes the collection from the CRM. Fetch failures are
// swallowed at the store boundary, so the output reflects whatever the
// collection holds afterwards.
func (h *PipelineHandlers) FetchDeals(ctx context.Context, _ *mcp.CallToolRequest, _ FetchDealsInput) (*mcp.CallToolResult, FetchDealsOutput, error) {
	h.store.FetchDeals(ctx)
	return nil, FetchDealsOutput{
		Connected: h.store.Connected(),
		Count:     len(h.store.Deals()),
	}, nil
}
