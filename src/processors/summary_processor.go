package processors

import "github.com/manideepv28/wealthwizard/src/models"

// SummaryProcessor collapses a valued holding set and the user's SIP plans
// into one portfolio-level snapshot.
type SummaryProcessor struct{}

func NewSummaryProcessor() *SummaryProcessor {
	return &SummaryProcessor{}
}

// Summarize is a pure function of its inputs. An empty holding set yields an
// all-zero summary; percentage fields degrade to 0 instead of dividing by
// zero. MonthlySip counts only active monthly plans, answering "what recurs
// monthly". Weekly and quarterly plans are excluded from this run-rate
// figure on purpose.
func (p *SummaryProcessor) Summarize(holdings []models.FundHolding, sipPlans []models.SipPlan) models.PortfolioSummary {
	var summary models.PortfolioSummary

	for _, h := range holdings {
		summary.TotalValue += h.CurrentValue
		summary.TotalInvested += h.TotalInvested
		// Positions sold down to zero keep their row but are not active.
		if h.Units > 0 {
			summary.ActiveFunds++
		}
	}
	summary.TotalGains = summary.TotalValue - summary.TotalInvested
	if summary.TotalInvested > 0 {
		summary.TotalGainsPercentage = summary.TotalGains / summary.TotalInvested * 100
	}

	for _, sip := range sipPlans {
		if sip.IsActive && sip.Frequency == models.FrequencyMonthly {
			summary.MonthlySip += sip.Amount
		}
	}

	return summary
}
