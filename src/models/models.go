package models

import "time"

// Transaction kinds accepted by the ledger.
const (
	TransactionBuy  = "buy"
	TransactionSell = "sell"
	TransactionSip  = "sip"
)

// Transaction statuses.
const (
	StatusCompleted = "completed"
	StatusPending   = "pending"
	StatusFailed    = "failed"
)

// SIP plan frequencies.
const (
	FrequencyWeekly    = "weekly"
	FrequencyMonthly   = "monthly"
	FrequencyQuarterly = "quarterly"
)

// Alert kinds.
const (
	AlertNavChange    = "nav_change"
	AlertSipDue       = "sip_due"
	AlertRebalance    = "rebalance"
	AlertGoalAchieved = "goal_achieved"
)

// Fund is one catalog entry. Everything except CurrentNav is immutable;
// CurrentNav is refreshed by the NAV service, never by the portfolio core.
type Fund struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Category     string  `json:"category"` // e.g. "Large Cap", "Mid Cap", "Flexi Cap"
	AMC          string  `json:"amc"`
	CurrentNav   float64 `json:"currentNav"`
	ExpenseRatio float64 `json:"expenseRatio,omitempty"`
	RiskLevel    string  `json:"riskLevel"`
}

// Transaction is a single append-only ledger entry. RefID is a
// client-assigned UUID; (user_id, ref_id) is unique so replaying the same
// transaction never double-counts.
type Transaction struct {
	ID     int64     `json:"id"`
	RefID  string    `json:"refId"`
	UserID int64     `json:"userId"`
	FundID int64     `json:"fundId"`
	Kind   string    `json:"kind"` // buy, sell, sip
	Amount float64   `json:"amount"`
	Units  float64   `json:"units,omitempty"` // derived from Amount/Nav when zero
	Nav    float64   `json:"nav"`             // NAV at execution
	Status string    `json:"status"`
	Date   time.Time `json:"date"`
}

// TransactionWithFund joins a ledger entry with its catalog fund for display.
type TransactionWithFund struct {
	Transaction
	Fund Fund `json:"fund"`
}

// Holding is the single current position for a (user, fund) pair.
// AvgNav is the invested-capital-weighted average purchase NAV.
type Holding struct {
	ID            int64   `json:"id"`
	UserID        int64   `json:"userId"`
	FundID        int64   `json:"fundId"`
	Units         float64 `json:"units"`
	AvgNav        float64 `json:"avgNav"`
	TotalInvested float64 `json:"totalInvested"`
}

// FundHolding is a holding valued at the fund's current NAV.
type FundHolding struct {
	Holding
	Fund            Fund    `json:"fund"`
	CurrentValue    float64 `json:"currentValue"`
	Gains           float64 `json:"gains"`
	GainsPercentage float64 `json:"gainsPercentage"`
}

// SipPlan records a recurring investment intent. Plans are never executed
// automatically; the scheduler only raises sip_due alerts and advances NextDate.
type SipPlan struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	FundID    int64     `json:"fundId"`
	Amount    float64   `json:"amount"`
	Frequency string    `json:"frequency"` // weekly, monthly, quarterly
	IsActive  bool      `json:"isActive"`
	NextDate  time.Time `json:"nextDate"`
	CreatedAt time.Time `json:"createdAt"`
}

// Alert is a side-effect record surfaced to the user.
type Alert struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	Kind        string    `json:"kind"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IsRead      bool      `json:"isRead"`
	CreatedAt   time.Time `json:"createdAt"`
}

// PortfolioSummary is derived on demand, never persisted.
type PortfolioSummary struct {
	TotalValue           float64 `json:"totalValue"`
	TotalInvested        float64 `json:"totalInvested"`
	TotalGains           float64 `json:"totalGains"`
	TotalGainsPercentage float64 `json:"totalGainsPercentage"`
	MonthlySip           float64 `json:"monthlySip"`
	ActiveFunds          int     `json:"activeFunds"`
}

// CategoryAllocation is one slice of the portfolio grouped by fund category.
type CategoryAllocation struct {
	Category   string  `json:"category"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
}

// PortfolioAnalysis bundles the derived diversification signals.
type PortfolioAnalysis struct {
	Categories           int                  `json:"categories"`
	DiversificationScore string               `json:"diversificationScore"`
	TopPerformers        []FundHolding        `json:"topPerformers"`
	Allocation           []CategoryAllocation `json:"allocation"`
	Recommendations      []string             `json:"recommendations"`
}
