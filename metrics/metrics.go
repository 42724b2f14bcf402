// ABOUTME: Pure pipeline metrics engine
// ABOUTME: Derives funnel totals, conversion rates, and stage distribution from a deal collection
package metrics

import (
	"math"

	"github.com/leduardoseverino/performancy/models"
)

// Calculate derives a PipelineMetrics snapshot from a deal collection. It is
// pure and deterministic: same deals in, same snapshot out, no state touched.
func Calculate(deals []models.Deal) models.PipelineMetrics {
	m := models.PipelineMetrics{
		TotalDeals: len(deals),
	}

	var closedCount int
	for _, d := range deals {
		switch d.Stage {
		case models.StageClosedWon:
			m.ClosedWonCount++
			m.ClosedWonValue += d.Value
			closedCount++
		case models.StageClosedLost:
			closedCount++
		default:
			m.ActiveDeals++
			m.PipelineTotal += d.Value
			m.WeightedPipeline += d.Value * float64(d.Probability) / 100
		}
	}

	// 0 with no closed deals, never NaN.
	if closedCount > 0 {
		m.ConversionRate = float64(m.ClosedWonCount) / float64(closedCount) * 100
	}

	m.StageDistribution = stageDistribution(deals)
	return m
}

func stageDistribution(deals []models.Deal) []models.StageMetrics {
	stages := models.Stages()
	dist := make([]models.StageMetrics, 0, len(stages))

	for i, stage := range stages {
		sm := models.StageMetrics{Stage: stage}
		for _, d := range deals {
			if d.Stage == stage {
				sm.DealCount++
				sm.TotalValue += d.Value
			}
		}

		if stage.IsTerminal() {
			sm.ConversionRate = 100
			dist = append(dist, sm)
			continue
		}

		// Snapshot progression: deals currently past this stage, or already
		// won, count as progressed. Backward moves are undercounted; this is
		// a documented approximation of true cohort conversion.
		var progressed int
		for _, d := range deals {
			if d.Stage.Index() > i || d.Stage == models.StageClosedWon {
				progressed++
			}
		}
		if sm.DealCount > 0 {
			sm.ConversionRate = int(math.Round(float64(progressed) / float64(sm.DealCount+progressed) * 100))
		}
		dist = append(dist, sm)
	}

	return dist
}
