// ABOUTME: Stage vocabulary translation between Zoho and the canonical pipeline
// ABOUTME: Ordered mapping table plus per-stage default win probabilities
package zoho

import (
	"github.com/leduardoseverino/performancy/models"
)

type stageMapping struct {
	external  string
	canonical models.DealStage
}

// stageTable maps Zoho stage names to canonical stages. Order is load-bearing:
// the reverse mapping picks the first entry whose canonical value matches, so
// the direct (canonical) names come before the legacy Zoho vocabulary. That
// makes canonical -> external -> canonical a clean round trip.
var stageTable = []stageMapping{
	{"Lead", models.StageLead},
	{"Discovery", models.StageDiscovery},
	{"Qualified", models.StageQualified},
	{"Proposal", models.StageProposal},
	{"Negotiation", models.StageNegotiation},
	{"Closed Won", models.StageClosedWon},
	{"Closed Lost", models.StageClosedLost},
	{"Qualification", models.StageLead},
	{"Needs Analysis", models.StageDiscovery},
	{"Value Proposition", models.StageQualified},
	{"Identify Decision Makers", models.StageQualified},
	{"Proposal/Price Quote", models.StageProposal},
	{"Negotiation/Review", models.StageNegotiation},
}

// StageProbabilities are the default win probabilities applied when the
// remote record carries none.
var StageProbabilities = map[models.DealStage]int{
	models.StageLead:        10,
	models.StageDiscovery:   20,
	models.StageQualified:   40,
	models.StageProposal:    60,
	models.StageNegotiation: 80,
	models.StageClosedWon:   100,
	models.StageClosedLost:  0,
}

// MapStage translates a Zoho stage name to a canonical stage. Unknown names
// default to Lead.
func MapStage(external string) models.DealStage {
	for _, m := range stageTable {
		if m.external == external {
			return m.canonical
		}
	}
	return models.StageLead
}

// ExternalStage translates a canonical stage to its Zoho name, taking the
// first matching table entry. Falls back to the canonical name itself.
func ExternalStage(stage models.DealStage) string {
	for _, m := range stageTable {
		if m.canonical == stage {
			return m.external
		}
	}
	return string(stage)
}
