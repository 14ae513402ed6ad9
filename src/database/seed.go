package database

import (
	"database/sql"

	"github.com/manideepv28/wealthwizard/src/logger"
	"github.com/manideepv28/wealthwizard/src/models"
)

var seedFunds = []models.Fund{
	{Name: "Axis Bluechip Fund - Direct Growth", Category: "Large Cap", AMC: "Axis Mutual Fund", CurrentNav: 50.67, ExpenseRatio: 1.15, RiskLevel: "Moderate"},
	{Name: "Mirae Asset Large Cap Fund - Direct Growth", Category: "Large Cap", AMC: "Mirae Asset", CurrentNav: 87.45, ExpenseRatio: 0.95, RiskLevel: "Moderate"},
	{Name: "Parag Parikh Flexi Cap Fund - Direct Growth", Category: "Flexi Cap", AMC: "PPFAS Mutual Fund", CurrentNav: 65.23, ExpenseRatio: 0.85, RiskLevel: "Moderate High"},
	{Name: "Kotak Small Cap Fund - Direct Growth", Category: "Small Cap", AMC: "Kotak Mahindra AMC", CurrentNav: 175.89, ExpenseRatio: 1.85, RiskLevel: "High"},
	{Name: "HDFC Mid-Cap Opportunities Fund - Direct Growth", Category: "Mid Cap", AMC: "HDFC AMC", CurrentNav: 98.34, ExpenseRatio: 1.45, RiskLevel: "High"},
	{Name: "SBI Equity Hybrid Fund - Direct Growth", Category: "Hybrid", AMC: "SBI Funds Management", CurrentNav: 156.78, ExpenseRatio: 1.25, RiskLevel: "Moderate"},
	{Name: "ICICI Prudential Technology Fund - Direct Growth", Category: "Sectoral", AMC: "ICICI Prudential AMC", CurrentNav: 120.45, ExpenseRatio: 2.15, RiskLevel: "Very High"},
	{Name: "UTI Nifty 50 Index Fund - Direct Growth", Category: "Index", AMC: "UTI AMC", CurrentNav: 78.92, ExpenseRatio: 0.20, RiskLevel: "Moderate"},
}

// SeedFunds inserts the sample catalog when the funds table is empty.
func SeedFunds(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM funds").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	stmt, err := db.Prepare(`INSERT INTO funds (name, category, amc, current_nav, expense_ratio, risk_level) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, f := range seedFunds {
		if _, err := stmt.Exec(f.Name, f.Category, f.AMC, f.CurrentNav, f.ExpenseRatio, f.RiskLevel); err != nil {
			return err
		}
	}
	if logger.L != nil {
		logger.L.Info("Seeded fund catalog", "funds", len(seedFunds))
	}
	return nil
}
