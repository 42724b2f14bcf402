// ABOUTME: Tests for the pipeline MCP tool handlers
// ABOUTME: Calls handler methods directly against a demo-seeded store
package handlers

import (
	"context"
	"strings"
	"testing"

	"github.com/leduardoseverino/performancy/models"
	"github.com/leduardoseverino/performancy/store"
	"github.com/leduardoseverino/performancy/zoho"
)

func newTestHandlers(t *testing.T) (*PipelineHandlers, *store.Store) {
	t.Helper()
	st := store.New(zoho.New())
	st.SeedDemo()
	return NewPipelineHandlers(st), st
}

func TestListDeals(t *testing.T) {
	h, _ := newTestHandlers(t)

	_, out, err := h.ListDeals(context.Background(), nil, ListDealsInput{})
	if err != nil {
		t.Fatalf("ListDeals failed: %v", err)
	}
	if out.Count != 13 || len(out.Deals) != 13 {
		t.Errorf("Expected 13 deals, got count=%d len=%d", out.Count, len(out.Deals))
	}
}

func TestListDealsStageFilter(t *testing.T) {
	h, _ := newTestHandlers(t)

	_, out, err := h.ListDeals(context.Background(), nil, ListDealsInput{Stage: "Proposal"})
	if err != nil {
		t.Fatalf("ListDeals failed: %v", err)
	}
	if out.Count != 2 {
		t.Fatalf("Expected 2 Proposal deals in demo data, got %d", out.Count)
	}
	for _, d := range out.Deals {
		if d.Stage != "Proposal" {
			t.Errorf("Filter leaked stage %s", d.Stage)
		}
	}
}

func TestListDealsInvalidStage(t *testing.T) {
	h, _ := newTestHandlers(t)

	_, _, err := h.ListDeals(context.Background(), nil, ListDealsInput{Stage: "Bogus"})
	if err == nil {
		t.Fatal("Expected error for unknown stage")
	}
	if !strings.Contains(err.Error(), "invalid stage") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestAddDeal(t *testing.T) {
	h, st := newTestHandlers(t)

	_, out, err := h.AddDeal(context.Background(), nil, AddDealInput{
		Name:              "MCP Deal",
		Company:           "Tool Co",
		Value:             42000,
		Stage:             "Discovery",
		ExpectedCloseDate: "2024-09-30",
		Owner:             "Ana",
	})
	if err != nil {
		t.Fatalf("AddDeal failed: %v", err)
	}
	if out.Name != "MCP Deal" || out.Stage != "Discovery" || out.Value != 42000 {
		t.Errorf("Deal output mangled: %+v", out)
	}
	if out.Probability != 20 {
		t.Errorf("Expected Discovery default probability 20, got %d", out.Probability)
	}
	if _, ok := st.Deal(out.ID); !ok {
		t.Error("Added deal missing from store")
	}
}

func TestAddDealValidation(t *testing.T) {
	h, _ := newTestHandlers(t)

	cases := []struct {
		name  string
		input AddDealInput
	}{
		{"missing name", AddDealInput{Value: 100}},
		{"negative value", AddDealInput{Name: "x", Value: -1}},
		{"invalid stage", AddDealInput{Name: "x", Stage: "Bogus"}},
		{"probability out of range", AddDealInput{Name: "x", Probability: 150}},
		{"bad close date", AddDealInput{Name: "x", ExpectedCloseDate: "30/09/2024"}},
	}
	for _, tc := range cases {
		if _, _, err := h.AddDeal(context.Background(), nil, tc.input); err == nil {
			t.Errorf("%s: expected an error", tc.name)
		}
	}
}

func TestMoveDealStage(t *testing.T) {
	h, st := newTestHandlers(t)

	_, out, err := h.MoveDealStage(context.Background(), nil, MoveDealInput{
		DealID: "5",
		Stage:  "Negotiation",
	})
	if err != nil {
		t.Fatalf("MoveDealStage failed: %v", err)
	}
	if out.Stage != "Negotiation" {
		t.Errorf("Output stage is %s, want Negotiation", out.Stage)
	}

	got, _ := st.Deal("5")
	if got.Stage != models.StageNegotiation {
		t.Errorf("Store stage is %s, want Negotiation", got.Stage)
	}
}

func TestMoveDealStageErrors(t *testing.T) {
	h, _ := newTestHandlers(t)

	if _, _, err := h.MoveDealStage(context.Background(), nil, MoveDealInput{Stage: "Lead"}); err == nil {
		t.Error("Expected error for missing deal_id")
	}
	if _, _, err := h.MoveDealStage(context.Background(), nil, MoveDealInput{DealID: "5", Stage: "Bogus"}); err == nil {
		t.Error("Expected error for invalid stage")
	}
	_, _, err := h.MoveDealStage(context.Background(), nil, MoveDealInput{DealID: "nope", Stage: "Lead"})
	if err == nil || !strings.Contains(err.Error(), "deal not found") {
		t.Errorf("Expected deal not found, got %v", err)
	}
}

func TestGetPipelineMetrics(t *testing.T) {
	h, _ := newTestHandlers(t)

	_, m, err := h.GetPipelineMetrics(context.Background(), nil, MetricsInput{})
	if err != nil {
		t.Fatalf("GetPipelineMetrics failed: %v", err)
	}
	if m.TotalDeals != 13 {
		t.Errorf("Expected 13 deals, got %d", m.TotalDeals)
	}
	if m.ClosedWonCount != 2 {
		t.Errorf("Expected 2 closed won demo deals, got %d", m.ClosedWonCount)
	}
}

func TestFetchDealsUnconnected(t *testing.T) {
	h, _ := newTestHandlers(t)

	_, out, err := h.FetchDeals(context.Background(), nil, FetchDealsInput{})
	if err != nil {
		t.Fatalf("FetchDeals failed: %v", err)
	}
	if out.Connected {
		t.Error("Store should report unconnected")
	}
	if out.Count != 13 {
		t.Errorf("Unconnected fetch should keep the demo collection, got %d", out.Count)
	}
}

func TestDealOutputContactFlattening(t *testing.T) {
	h, _ := newTestHandlers(t)

	_, out, err := h.ListDeals(context.Background(), nil, ListDealsInput{Stage: "Negotiation"})
	if err != nil {
		t.Fatalf("ListDeals failed: %v", err)
	}
	if len(out.Deals) != 1 {
		t.Fatalf("Expected 1 Negotiation deal, got %d", len(out.Deals))
	}
	if out.Deals[0].ContactName == "" {
		t.Error("Contact name should be flattened into the output")
	}
	if out.Deals[0].CreatedAt == "" || out.Deals[0].UpdatedAt == "" {
		t.Error("Timestamps should be formatted strings")
	}
}
