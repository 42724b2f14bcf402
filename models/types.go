// ABOUTME: Data models for the sales pipeline
// ABOUTME: Defines Deal, DealStage, DealPatch, and pipeline metrics structs
package models

import (
	"time"
)

// DealStage is one of the seven fixed pipeline phases. Order matters:
// progression calculations compare positions in Stages().
type DealStage string

const (
	StageLead        DealStage = "Lead"
	StageDiscovery   DealStage = "Discovery"
	StageQualified   DealStage = "Qualified"
	StageProposal    DealStage = "Proposal"
	StageNegotiation DealStage = "Negotiation"
	StageClosedWon   DealStage = "Closed Won"
	StageClosedLost  DealStage = "Closed Lost"
)

var stageOrder = []DealStage{
	StageLead,
	StageDiscovery,
	StageQualified,
	StageProposal,
	StageNegotiation,
	StageClosedWon,
	StageClosedLost,
}

// Stages returns all pipeline stages in progression order.
func Stages() []DealStage {
	out := make([]DealStage, len(stageOrder))
	copy(out, stageOrder)
	return out
}

// ActiveStages returns the non-terminal stages in progression order.
func ActiveStages() []DealStage {
	out := make([]DealStage, 0, len(stageOrder)-2)
	for _, s := range stageOrder {
		if !s.IsTerminal() {
			out = append(out, s)
		}
	}
	return out
}

// IsTerminal reports whether the stage ends the deal lifecycle.
func (s DealStage) IsTerminal() bool {
	return s == StageClosedWon || s == StageClosedLost
}

// Index returns the stage's position in progression order, or -1 for an
// unknown stage.
func (s DealStage) Index() int {
	for i, stage := range stageOrder {
		if stage == s {
			return i
		}
	}
	return -1
}

// ValidStage reports whether s is a member of the fixed stage enumeration.
func ValidStage(s DealStage) bool {
	return s.Index() >= 0
}

// Contact is an optional point of contact attached to a deal.
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Deal is a sales opportunity moving through the pipeline. ExpectedCloseDate
// is a calendar date (2006-01-02) because that is how the CRM transmits it;
// the timestamps are real instants.
type Deal struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Company           string    `json:"company"`
	Value             float64   `json:"value"`
	Stage             DealStage `json:"stage"`
	Probability       int       `json:"probability"`
	ExpectedCloseDate string    `json:"expected_close_date,omitempty"`
	Owner             string    `json:"owner"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
	Contact           *Contact  `json:"contact,omitempty"`
	Notes             string    `json:"notes,omitempty"`
}

// DealPatch carries a partial update. Only non-nil fields are applied, both
// locally and when mapped to the remote CRM.
type DealPatch struct {
	Name              *string    `json:"name,omitempty"`
	Company           *string    `json:"company,omitempty"`
	Value             *float64   `json:"value,omitempty"`
	Stage             *DealStage `json:"stage,omitempty"`
	Probability       *int       `json:"probability,omitempty"`
	ExpectedCloseDate *string    `json:"expected_close_date,omitempty"`
	Owner             *string    `json:"owner,omitempty"`
	Contact           *Contact   `json:"contact,omitempty"`
	Notes             *string    `json:"notes,omitempty"`
}

// Apply merges the patch into the deal, field by field.
func (p DealPatch) Apply(d *Deal) {
	if p.Name != nil {
		d.Name = *p.Name
	}
	if p.Company != nil {
		d.Company = *p.Company
	}
	if p.Value != nil {
		d.Value = *p.Value
	}
	if p.Stage != nil {
		d.Stage = *p.Stage
	}
	if p.Probability != nil {
		d.Probability = *p.Probability
	}
	if p.ExpectedCloseDate != nil {
		d.ExpectedCloseDate = *p.ExpectedCloseDate
	}
	if p.Owner != nil {
		d.Owner = *p.Owner
	}
	if p.Contact != nil {
		contact := *p.Contact
		d.Contact = &contact
	}
	if p.Notes != nil {
		d.Notes = *p.Notes
	}
}

// StageMetrics summarizes a single stage of the funnel. ConversionRate is a
// point-in-time snapshot ratio (deals past this stage versus still in it),
// not a cohort conversion rate.
type StageMetrics struct {
	Stage          DealStage `json:"stage"`
	DealCount      int       `json:"deal_count"`
	TotalValue     float64   `json:"total_value"`
	ConversionRate int       `json:"conversion_rate"`
}

// PipelineMetrics is the derived funnel snapshot. It is recomputed from the
// deal collection after every mutation and never persisted on its own.
type PipelineMetrics struct {
	TotalDeals        int            `json:"total_deals"`
	ActiveDeals       int            `json:"active_deals"`
	PipelineTotal     float64        `json:"pipeline_total"`
	WeightedPipeline  float64        `json:"weighted_pipeline"`
	ClosedWonValue    float64        `json:"closed_won_value"`
	ClosedWonCount    int            `json:"closed_won_count"`
	ConversionRate    float64        `json:"conversion_rate"`
	StageDistribution []StageMetrics `json:"stage_distribution"`
}

// ZohoDomain values accepted for the regional API host.
var ZohoDomains = []string{"com", "eu", "in", "com.cn", "com.au", "jp"}

// ZohoConfig holds the CRM connection credentials. Owned by the store;
// the adapter receives it through Initialize and keeps no other lifecycle.
type ZohoConfig struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	RefreshToken string `json:"refresh_token"`
	AccessToken  string `json:"access_token,omitempty"`
	Domain       string `json:"domain"`
}

// ValidDomain reports whether d is one of the supported regional domains.
func ValidDomain(d string) bool {
	for _, v := range ZohoDomains {
		if v == d {
			return true
		}
	}
	return false
}
