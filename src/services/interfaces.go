package services

import (
	"context"

	"github.com/manideepv28/wealthwizard/src/models"
)

// PortfolioService is the core engine surface: it folds ledger transactions
// into holdings and derives portfolio-level views from them.
type PortfolioService interface {
	ApplyTransaction(tx models.Transaction) (models.Holding, error)
	GetHoldings(userID int64) ([]models.FundHolding, error)
	GetTransactions(userID int64) ([]models.TransactionWithFund, error)
	GetPortfolioSummary(userID int64) (models.PortfolioSummary, error)
	GetCategoryAllocation(userID int64) ([]models.CategoryAllocation, error)
	GetAnalysis(userID int64) (models.PortfolioAnalysis, error)

	CreateSipPlan(p models.SipPlan) (models.SipPlan, error)
	GetSipPlans(userID int64) ([]models.SipPlan, error)
	SetSipPlanActive(userID, planID int64, active bool) error

	InvalidateUserCache(userID int64)
}

// EmailService delivers alert notifications. Providers are selected by
// configuration; the mock provider only logs.
type EmailService interface {
	SendAlertEmail(toEmail, name, title, description string) error
}

// NavSource supplies fresh NAVs for catalog funds.
type NavSource interface {
	FetchNavs(ctx context.Context, funds []models.Fund) (map[int64]float64, error)
}
