package processors

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/manideepv28/wealthwizard/src/models"
)

func TestSummarizeEmptyPortfolio(t *testing.T) {
	p := NewSummaryProcessor()

	summary := p.Summarize(nil, nil)
	assert.Zero(t, summary.TotalValue)
	assert.Zero(t, summary.TotalInvested)
	assert.Zero(t, summary.TotalGains)
	assert.Zero(t, summary.TotalGainsPercentage)
	assert.Zero(t, summary.MonthlySip)
	assert.Zero(t, summary.ActiveFunds)
}

func TestSummarizeTotalsAndPercentage(t *testing.T) {
	p := NewSummaryProcessor()

	holdings := []models.FundHolding{
		{Holding: models.Holding{Units: 10, TotalInvested: 1000}, CurrentValue: 1200},
		{Holding: models.Holding{Units: 20, TotalInvested: 2000}, CurrentValue: 1900},
	}

	summary := p.Summarize(holdings, nil)
	assert.InDelta(t, 3100.0, summary.TotalValue, 1e-9)
	assert.InDelta(t, 3000.0, summary.TotalInvested, 1e-9)
	assert.InDelta(t, 100.0, summary.TotalGains, 1e-9)
	assert.InDelta(t, 3.3333, summary.TotalGainsPercentage, 1e-4)
	assert.Equal(t, 2, summary.ActiveFunds)
}

func TestSummarizeMonthlySipCountsOnlyActiveMonthlyPlans(t *testing.T) {
	p := NewSummaryProcessor()

	plans := []models.SipPlan{
		{Amount: 5000, Frequency: models.FrequencyMonthly, IsActive: true},
		{Amount: 3000, Frequency: models.FrequencyMonthly, IsActive: false},
		{Amount: 2000, Frequency: models.FrequencyWeekly, IsActive: true},
		{Amount: 9000, Frequency: models.FrequencyQuarterly, IsActive: true},
		{Amount: 1500, Frequency: models.FrequencyMonthly, IsActive: true},
	}

	summary := p.Summarize(nil, plans)
	assert.InDelta(t, 6500.0, summary.MonthlySip, 1e-9)
}

func TestSummarizeExcludesClosedPositionsFromActiveFunds(t *testing.T) {
	p := NewSummaryProcessor()

	holdings := []models.FundHolding{
		{Holding: models.Holding{Units: 10, TotalInvested: 1000}, CurrentValue: 1100},
		{Holding: models.Holding{Units: 0, TotalInvested: 0}, CurrentValue: 0}, // sold to zero
	}

	summary := p.Summarize(holdings, nil)
	assert.Equal(t, 1, summary.ActiveFunds)
}
