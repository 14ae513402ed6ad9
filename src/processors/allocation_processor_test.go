package processors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manideepv28/wealthwizard/src/models"
)

func valuedHolding(fundID int64, category string, currentValue, invested float64) models.FundHolding {
	gains := currentValue - invested
	pct := 0.0
	if invested > 0 {
		pct = gains / invested * 100
	}
	return models.FundHolding{
		Holding:         models.Holding{UserID: 1, FundID: fundID, TotalInvested: invested},
		Fund:            models.Fund{ID: fundID, Name: fmt.Sprintf("Fund %d", fundID), Category: category},
		CurrentValue:    currentValue,
		Gains:           gains,
		GainsPercentage: pct,
	}
}

func TestCategoryAllocationPercentagesSumToHundred(t *testing.T) {
	p := NewAllocationProcessor()

	allocation := p.CategoryAllocation([]models.FundHolding{
		valuedHolding(1, "Large Cap", 3000, 2500),
		valuedHolding(2, "Large Cap", 1000, 900),
		valuedHolding(3, "Small Cap", 4000, 3500),
		valuedHolding(4, "Flexi Cap", 2000, 2100),
	})

	require.Len(t, allocation, 3)

	var total float64
	for _, a := range allocation {
		total += a.Percentage
	}
	assert.InDelta(t, 100.0, total, 0.1)

	// Sorted by value descending.
	assert.Equal(t, "Large Cap", allocation[0].Category)
	assert.InDelta(t, 4000.0, allocation[0].Value, 1e-9)
	assert.Equal(t, "Small Cap", allocation[1].Category)
	assert.Equal(t, "Flexi Cap", allocation[2].Category)
}

func TestCategoryAllocationZeroTotal(t *testing.T) {
	p := NewAllocationProcessor()

	allocation := p.CategoryAllocation([]models.FundHolding{
		valuedHolding(1, "Large Cap", 0, 0),
	})
	require.Len(t, allocation, 1)
	assert.Zero(t, allocation[0].Percentage)
}

func TestCategoryAllocationEmpty(t *testing.T) {
	p := NewAllocationProcessor()
	assert.Empty(t, p.CategoryAllocation(nil))
}

func TestDiversificationScoreThresholds(t *testing.T) {
	p := NewAllocationProcessor()

	build := func(categories ...string) []models.FundHolding {
		var out []models.FundHolding
		for i, c := range categories {
			out = append(out, valuedHolding(int64(i+1), c, 1000, 1000))
		}
		return out
	}

	assert.Equal(t, "Poor", p.DiversificationScore(nil))
	assert.Equal(t, "Poor", p.DiversificationScore(build("Large Cap")))
	assert.Equal(t, "Fair", p.DiversificationScore(build("Large Cap", "Mid Cap")))
	assert.Equal(t, "Good", p.DiversificationScore(build("Large Cap", "Mid Cap", "Small Cap")))
	assert.Equal(t, "Excellent", p.DiversificationScore(build("Large Cap", "Mid Cap", "Small Cap", "Index")))
}

func TestTopPerformersFiltersSortsAndLimits(t *testing.T) {
	p := NewAllocationProcessor()

	holdings := []models.FundHolding{
		valuedHolding(1, "Large Cap", 1100, 1000), // +10%
		valuedHolding(2, "Mid Cap", 900, 1000),    // loss, excluded
		valuedHolding(3, "Small Cap", 1500, 1000), // +50%
		valuedHolding(4, "Flexi Cap", 1050, 1000), // +5%
		valuedHolding(5, "Index", 1300, 1000),     // +30%
		valuedHolding(6, "Sectoral", 1200, 1000),  // +20%
		valuedHolding(7, "Hybrid", 1150, 1000),    // +15%
	}

	top := p.TopPerformers(holdings)
	require.Len(t, top, 5)
	assert.Equal(t, int64(3), top[0].FundID)
	assert.Equal(t, int64(5), top[1].FundID)
	assert.Equal(t, int64(6), top[2].FundID)
	assert.Equal(t, int64(7), top[3].FundID)
	assert.Equal(t, int64(1), top[4].FundID)

	// The +5% holding fell off the top five and the loser never qualified.
	for _, h := range top {
		assert.NotEqual(t, int64(2), h.FundID)
		assert.NotEqual(t, int64(4), h.FundID)
	}
}

func TestTopPerformersStableOnTies(t *testing.T) {
	p := NewAllocationProcessor()

	holdings := []models.FundHolding{
		valuedHolding(1, "Large Cap", 1100, 1000),
		valuedHolding(2, "Mid Cap", 2200, 2000), // same +10%
	}
	top := p.TopPerformers(holdings)
	require.Len(t, top, 2)
	assert.Equal(t, int64(1), top[0].FundID)
	assert.Equal(t, int64(2), top[1].FundID)
}

func TestRecommendations(t *testing.T) {
	p := NewAllocationProcessor()

	t.Run("small undiversified portfolio", func(t *testing.T) {
		holdings := []models.FundHolding{
			valuedHolding(1, "Large Cap", 1000, 1000),
		}
		summary := models.PortfolioSummary{MonthlySip: 5000}

		recs := p.Recommendations(summary, holdings)
		assert.Contains(t, recs[0], "more funds")
		joined := fmt.Sprint(recs)
		assert.Contains(t, joined, "mid-cap")
		assert.Contains(t, joined, "monthly SIP")
	})

	t.Run("strong diversified portfolio", func(t *testing.T) {
		holdings := []models.FundHolding{
			valuedHolding(1, "Large Cap", 1200, 1000),
			valuedHolding(2, "Mid Cap", 1200, 1000),
			valuedHolding(3, "Small Cap", 1200, 1000),
			valuedHolding(4, "Index", 1200, 1000),
			valuedHolding(5, "Hybrid", 1200, 1000),
		}
		summary := models.PortfolioSummary{TotalGainsPercentage: 20, MonthlySip: 15000}

		recs := p.Recommendations(summary, holdings)
		joined := fmt.Sprint(recs)
		assert.Contains(t, joined, "performing well")
		assert.Contains(t, joined, "good diversification")
		assert.NotContains(t, joined, "mid-cap")
	})
}
