package storage

import (
	"time"

	"github.com/manideepv28/wealthwizard/src/models"
)

// FundStore is the read-mostly fund catalog. UpdateNav is reserved for the
// NAV refresher; the portfolio core never writes NAVs.
type FundStore interface {
	List() ([]models.Fund, error)
	GetByID(id int64) (models.Fund, error)
	Search(query string) ([]models.Fund, error)
	UpdateNav(id int64, nav float64) error
}

// TransactionStore is the append-only per-user ledger. Record assigns
// identity and timestamp; re-recording an existing (user, ref) pair returns
// models.ErrDuplicateTransaction. ListForUser orders newest-first by date,
// ties broken by insertion order.
type TransactionStore interface {
	Record(tx models.Transaction) (models.Transaction, error)
	ListForUser(userID int64) ([]models.Transaction, error)
}

// HoldingStore keeps at most one holding per (user, fund) pair. The holding
// aggregator is its only writer.
type HoldingStore interface {
	GetForUserAndFund(userID, fundID int64) (models.Holding, error)
	ListForUser(userID int64) ([]models.Holding, error)
	Upsert(h models.Holding) (models.Holding, error)
	// UsersHoldingFund returns the ids of users with a nonzero position in
	// the fund; the NAV refresher targets its alerts with this.
	UsersHoldingFund(fundID int64) ([]int64, error)
}

type SipPlanStore interface {
	Create(p models.SipPlan) (models.SipPlan, error)
	ListForUser(userID int64) ([]models.SipPlan, error)
	// ListDue returns active plans whose next date is at or before now.
	ListDue(now time.Time) ([]models.SipPlan, error)
	SetActive(id int64, active bool) error
	UpdateNextDate(id int64, next time.Time) error
}

type AlertStore interface {
	Create(a models.Alert) (models.Alert, error)
	ListForUser(userID int64) ([]models.Alert, error)
	MarkRead(id int64) error
}
