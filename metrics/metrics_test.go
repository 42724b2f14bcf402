// ABOUTME: Tests for the pipeline metrics engine
// ABOUTME: Covers funnel totals, conversion definitions, and stage progression rates
package metrics

import (
	"reflect"
	"testing"

	"github.com/leduardoseverino/performancy/models"
)

func deal(id string, stage models.DealStage, value float64, probability int) models.Deal {
	return models.Deal{ID: id, Name: "Deal " + id, Stage: stage, Value: value, Probability: probability}
}

func TestCalculateBasicScenario(t *testing.T) {
	deals := []models.Deal{
		deal("1", models.StageLead, 100000, 10),
		deal("2", models.StageClosedWon, 200000, 100),
	}

	m := Calculate(deals)

	if m.TotalDeals != 2 {
		t.Errorf("Expected 2 total deals, got %d", m.TotalDeals)
	}
	if m.ActiveDeals != 1 {
		t.Errorf("Expected 1 active deal, got %d", m.ActiveDeals)
	}
	if m.PipelineTotal != 100000 {
		t.Errorf("Expected pipeline total 100000, got %f", m.PipelineTotal)
	}
	if m.WeightedPipeline != 10000 {
		t.Errorf("Expected weighted pipeline 10000, got %f", m.WeightedPipeline)
	}
	if m.ClosedWonValue != 200000 {
		t.Errorf("Expected closed won value 200000, got %f", m.ClosedWonValue)
	}
	if m.ClosedWonCount != 1 {
		t.Errorf("Expected 1 closed won deal, got %d", m.ClosedWonCount)
	}
	if m.ConversionRate != 100 {
		t.Errorf("Expected conversion rate 100, got %f", m.ConversionRate)
	}
}

func TestCalculateEmptyCollection(t *testing.T) {
	m := Calculate(nil)

	if m.TotalDeals != 0 || m.ActiveDeals != 0 {
		t.Errorf("Expected zero counts, got %d/%d", m.TotalDeals, m.ActiveDeals)
	}
	// 0 with no closed deals, never NaN
	if m.ConversionRate != 0 {
		t.Errorf("Expected conversion rate 0, got %f", m.ConversionRate)
	}
	if len(m.StageDistribution) != 7 {
		t.Fatalf("Expected 7 stage buckets, got %d", len(m.StageDistribution))
	}
	for _, sm := range m.StageDistribution {
		if sm.Stage.IsTerminal() {
			if sm.ConversionRate != 100 {
				t.Errorf("Terminal stage %s should report 100, got %d", sm.Stage, sm.ConversionRate)
			}
		} else if sm.ConversionRate != 0 {
			t.Errorf("Empty stage %s should report 0, got %d", sm.Stage, sm.ConversionRate)
		}
	}
}

func TestPipelineTotalExcludesClosedStages(t *testing.T) {
	deals := []models.Deal{
		deal("1", models.StageLead, 100, 10),
		deal("2", models.StageDiscovery, 200, 20),
		deal("3", models.StageQualified, 300, 40),
		deal("4", models.StageProposal, 400, 60),
		deal("5", models.StageNegotiation, 500, 80),
		deal("6", models.StageClosedWon, 5000, 100),
		deal("7", models.StageClosedLost, 7000, 0),
	}

	m := Calculate(deals)

	if m.PipelineTotal != 1500 {
		t.Errorf("Expected pipeline total 1500 (active stages only), got %f", m.PipelineTotal)
	}
	if m.ActiveDeals != 5 {
		t.Errorf("Expected 5 active deals, got %d", m.ActiveDeals)
	}
}

func TestWeightedPipelineBounds(t *testing.T) {
	deals := []models.Deal{
		deal("1", models.StageLead, 100, 10),
		deal("2", models.StageQualified, 300, 40),
		deal("3", models.StageNegotiation, 500, 80),
	}

	m := Calculate(deals)
	if m.WeightedPipeline > m.PipelineTotal {
		t.Errorf("Weighted pipeline %f exceeds total %f", m.WeightedPipeline, m.PipelineTotal)
	}

	// Equality only when every active deal has probability 100
	for i := range deals {
		deals[i].Probability = 100
	}
	m = Calculate(deals)
	if m.WeightedPipeline != m.PipelineTotal {
		t.Errorf("Expected weighted == total at probability 100, got %f vs %f", m.WeightedPipeline, m.PipelineTotal)
	}
}

func TestConversionRateDefinition(t *testing.T) {
	deals := []models.Deal{
		deal("1", models.StageClosedWon, 100, 100),
		deal("2", models.StageClosedWon, 100, 100),
		deal("3", models.StageClosedLost, 100, 0),
		deal("4", models.StageLead, 100, 10),
	}

	m := Calculate(deals)

	// 2 won / (2 won + 1 lost)
	want := 2.0 / 3.0 * 100
	if m.ConversionRate != want {
		t.Errorf("Expected conversion rate %f, got %f", want, m.ConversionRate)
	}
}

func TestStageDistributionCountsSumToTotal(t *testing.T) {
	deals := []models.Deal{
		deal("1", models.StageLead, 100, 10),
		deal("2", models.StageLead, 100, 10),
		deal("3", models.StageProposal, 100, 60),
		deal("4", models.StageClosedWon, 100, 100),
		deal("5", models.StageClosedLost, 100, 0),
	}

	m := Calculate(deals)

	sum := 0
	for _, sm := range m.StageDistribution {
		sum += sm.DealCount
	}
	if sum != m.TotalDeals {
		t.Errorf("Stage counts sum to %d, expected %d", sum, m.TotalDeals)
	}
}

func TestStageProgressionRate(t *testing.T) {
	// One deal in Lead, one in Closed Won: from Lead's viewpoint one deal
	// progressed, so round(1/(1+1)*100) = 50.
	deals := []models.Deal{
		deal("1", models.StageLead, 100000, 10),
		deal("2", models.StageClosedWon, 200000, 100),
	}

	m := Calculate(deals)

	lead := m.StageDistribution[0]
	if lead.Stage != models.StageLead {
		t.Fatalf("Expected first bucket to be Lead, got %s", lead.Stage)
	}
	if lead.ConversionRate != 50 {
		t.Errorf("Expected Lead progression 50, got %d", lead.ConversionRate)
	}

	// Closed Lost counts as progressed past active stages too
	deals = append(deals, deal("3", models.StageClosedLost, 50000, 0))
	m = Calculate(deals)
	lead = m.StageDistribution[0]
	// round(2/(1+2)*100) = 67
	if lead.ConversionRate != 67 {
		t.Errorf("Expected Lead progression 67, got %d", lead.ConversionRate)
	}
}

func TestCalculateIdempotent(t *testing.T) {
	deals := []models.Deal{
		deal("1", models.StageLead, 100, 10),
		deal("2", models.StageNegotiation, 900, 80),
		deal("3", models.StageClosedWon, 400, 100),
	}

	first := Calculate(deals)
	second := Calculate(deals)

	if !reflect.DeepEqual(first, second) {
		t.Error("Calculate is not deterministic for identical input")
	}
}
