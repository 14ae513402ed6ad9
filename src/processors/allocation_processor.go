package processors

import (
	"sort"

	"github.com/manideepv28/wealthwizard/src/models"
)

// AllocationProcessor derives category allocation and diversification
// signals from a valued holding set. Everything here is stateless.
type AllocationProcessor struct{}

func NewAllocationProcessor() *AllocationProcessor {
	return &AllocationProcessor{}
}

// CategoryAllocation groups holdings by fund category and expresses each
// category's current value as a percentage of the portfolio total.
// Percentages are 0 when the total value is 0. Output is sorted by value
// descending for display; consumers may re-sort.
func (p *AllocationProcessor) CategoryAllocation(holdings []models.FundHolding) []models.CategoryAllocation {
	totals := make(map[string]float64)
	var order []string
	for _, h := range holdings {
		if _, seen := totals[h.Fund.Category]; !seen {
			order = append(order, h.Fund.Category)
		}
		totals[h.Fund.Category] += h.CurrentValue
	}

	var totalValue float64
	for _, v := range totals {
		totalValue += v
	}

	out := make([]models.CategoryAllocation, 0, len(order))
	for _, category := range order {
		value := totals[category]
		percentage := 0.0
		if totalValue > 0 {
			percentage = value / totalValue * 100
		}
		out = append(out, models.CategoryAllocation{
			Category:   category,
			Value:      value,
			Percentage: percentage,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	return out
}

// CategoryCount returns the number of distinct fund categories held.
func (p *AllocationProcessor) CategoryCount(holdings []models.FundHolding) int {
	seen := make(map[string]bool)
	for _, h := range holdings {
		seen[h.Fund.Category] = true
	}
	return len(seen)
}

// DiversificationScore classifies by distinct category count. The thresholds
// are a fixed heuristic, not a statistical measure.
func (p *AllocationProcessor) DiversificationScore(holdings []models.FundHolding) string {
	switch categories := p.CategoryCount(holdings); {
	case categories >= 4:
		return "Excellent"
	case categories >= 3:
		return "Good"
	case categories >= 2:
		return "Fair"
	default:
		return "Poor"
	}
}

// TopPerformers returns up to five holdings with positive gains, best first.
// The sort is stable so holdings with equal percentages keep their original
// relative order.
func (p *AllocationProcessor) TopPerformers(holdings []models.FundHolding) []models.FundHolding {
	var performers []models.FundHolding
	for _, h := range holdings {
		if h.GainsPercentage > 0 {
			performers = append(performers, h)
		}
	}
	sort.SliceStable(performers, func(i, j int) bool {
		return performers[i].GainsPercentage > performers[j].GainsPercentage
	})
	if len(performers) > 5 {
		performers = performers[:5]
	}
	return performers
}

// Recommendations produces the advisory strings shown on the analysis page.
func (p *AllocationProcessor) Recommendations(summary models.PortfolioSummary, holdings []models.FundHolding) []string {
	var recs []string

	if len(holdings) < 5 {
		recs = append(recs, "Consider adding more funds across different categories to improve portfolio diversification and reduce risk.")
	}
	if summary.TotalGainsPercentage > 15 {
		recs = append(recs, "Your portfolio is performing well! Consider increasing your SIP amounts to maximize returns.")
	}

	hasMidCap := false
	for _, h := range holdings {
		if h.Fund.Category == "Mid Cap" {
			hasMidCap = true
			break
		}
	}
	if !hasMidCap {
		recs = append(recs, "Adding mid-cap funds could improve potential returns while maintaining acceptable risk levels.")
	}

	if summary.MonthlySip < 10000 {
		recs = append(recs, "Consider increasing your monthly SIP amount to build wealth faster through systematic investing.")
	}
	if p.CategoryCount(holdings) >= 3 {
		recs = append(recs, "Your portfolio shows good diversification across multiple fund categories. Maintain this balance.")
	}
	return recs
}
