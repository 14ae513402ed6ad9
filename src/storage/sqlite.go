package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/manideepv28/wealthwizard/src/models"
)

// SqliteFundStore backs the fund catalog with the funds table.
type SqliteFundStore struct {
	db *sql.DB
}

func NewSqliteFundStore(db *sql.DB) *SqliteFundStore {
	return &SqliteFundStore{db: db}
}

const fundColumns = `id, name, category, amc, current_nav, COALESCE(expense_ratio, 0), risk_level`

func scanFund(row interface{ Scan(...interface{}) error }) (models.Fund, error) {
	var f models.Fund
	err := row.Scan(&f.ID, &f.Name, &f.Category, &f.AMC, &f.CurrentNav, &f.ExpenseRatio, &f.RiskLevel)
	return f, err
}

func (s *SqliteFundStore) List() ([]models.Fund, error) {
	rows, err := s.db.Query(`SELECT ` + fundColumns + ` FROM funds ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying funds: %w", err)
	}
	defer rows.Close()

	var funds []models.Fund
	for rows.Next() {
		f, err := scanFund(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning fund: %w", err)
		}
		funds = append(funds, f)
	}
	return funds, rows.Err()
}

func (s *SqliteFundStore) GetByID(id int64) (models.Fund, error) {
	row := s.db.QueryRow(`SELECT `+fundColumns+` FROM funds WHERE id = ?`, id)
	f, err := scanFund(row)
	if err == sql.ErrNoRows {
		return models.Fund{}, models.ErrNotFound
	}
	if err != nil {
		return models.Fund{}, fmt.Errorf("querying fund %d: %w", id, err)
	}
	return f, nil
}

func (s *SqliteFundStore) Search(query string) ([]models.Fund, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	rows, err := s.db.Query(`SELECT `+fundColumns+` FROM funds
		WHERE LOWER(name) LIKE ? OR LOWER(category) LIKE ? OR LOWER(amc) LIKE ?
		ORDER BY id`, pattern, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("searching funds: %w", err)
	}
	defer rows.Close()

	var funds []models.Fund
	for rows.Next() {
		f, err := scanFund(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning fund: %w", err)
		}
		funds = append(funds, f)
	}
	return funds, rows.Err()
}

func (s *SqliteFundStore) UpdateNav(id int64, nav float64) error {
	res, err := s.db.Exec(`UPDATE funds SET current_nav = ? WHERE id = ?`, nav, id)
	if err != nil {
		return fmt.Errorf("updating nav for fund %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// SqliteTransactionStore is the append-only ledger on the transactions table.
type SqliteTransactionStore struct {
	db *sql.DB
}

func NewSqliteTransactionStore(db *sql.DB) *SqliteTransactionStore {
	return &SqliteTransactionStore{db: db}
}

func (s *SqliteTransactionStore) Record(tx models.Transaction) (models.Transaction, error) {
	if tx.RefID == "" {
		tx.RefID = uuid.NewString()
	}
	if tx.Status == "" {
		tx.Status = models.StatusCompleted
	}
	if tx.Date.IsZero() {
		tx.Date = time.Now()
	}

	res, err := s.db.Exec(`INSERT INTO transactions (ref_id, user_id, fund_id, kind, amount, units, nav, status, date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.RefID, tx.UserID, tx.FundID, tx.Kind, tx.Amount, tx.Units, tx.Nav, tx.Status, tx.Date)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique constraint failed") {
			return models.Transaction{}, models.ErrDuplicateTransaction
		}
		return models.Transaction{}, fmt.Errorf("recording transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Transaction{}, err
	}
	tx.ID = id
	return tx, nil
}

func (s *SqliteTransactionStore) ListForUser(userID int64) ([]models.Transaction, error) {
	rows, err := s.db.Query(`SELECT id, ref_id, user_id, fund_id, kind, amount, COALESCE(units, 0), COALESCE(nav, 0), status, date
		FROM transactions
		WHERE user_id = ?
		ORDER BY date DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying transactions for user %d: %w", userID, err)
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		var tx models.Transaction
		if err := rows.Scan(&tx.ID, &tx.RefID, &tx.UserID, &tx.FundID, &tx.Kind, &tx.Amount, &tx.Units, &tx.Nav, &tx.Status, &tx.Date); err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

// SqliteHoldingStore persists the single current holding per (user, fund).
type SqliteHoldingStore struct {
	db *sql.DB
}

func NewSqliteHoldingStore(db *sql.DB) *SqliteHoldingStore {
	return &SqliteHoldingStore{db: db}
}

func (s *SqliteHoldingStore) GetForUserAndFund(userID, fundID int64) (models.Holding, error) {
	row := s.db.QueryRow(`SELECT id, user_id, fund_id, units, avg_nav, total_invested
		FROM holdings WHERE user_id = ? AND fund_id = ?`, userID, fundID)
	var h models.Holding
	err := row.Scan(&h.ID, &h.UserID, &h.FundID, &h.Units, &h.AvgNav, &h.TotalInvested)
	if err == sql.ErrNoRows {
		return models.Holding{}, models.ErrNotFound
	}
	if err != nil {
		return models.Holding{}, fmt.Errorf("querying holding (user %d, fund %d): %w", userID, fundID, err)
	}
	return h, nil
}

func (s *SqliteHoldingStore) ListForUser(userID int64) ([]models.Holding, error) {
	rows, err := s.db.Query(`SELECT id, user_id, fund_id, units, avg_nav, total_invested
		FROM holdings WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying holdings for user %d: %w", userID, err)
	}
	defer rows.Close()

	var holdings []models.Holding
	for rows.Next() {
		var h models.Holding
		if err := rows.Scan(&h.ID, &h.UserID, &h.FundID, &h.Units, &h.AvgNav, &h.TotalInvested); err != nil {
			return nil, fmt.Errorf("scanning holding: %w", err)
		}
		holdings = append(holdings, h)
	}
	return holdings, rows.Err()
}

func (s *SqliteHoldingStore) Upsert(h models.Holding) (models.Holding, error) {
	// UNIQUE(user_id, fund_id) keeps the one-holding-per-pair invariant at
	// the storage level as well.
	res, err := s.db.Exec(`INSERT INTO holdings (user_id, fund_id, units, avg_nav, total_invested)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, fund_id) DO UPDATE SET
			units = excluded.units,
			avg_nav = excluded.avg_nav,
			total_invested = excluded.total_invested`,
		h.UserID, h.FundID, h.Units, h.AvgNav, h.TotalInvested)
	if err != nil {
		return models.Holding{}, fmt.Errorf("upserting holding (user %d, fund %d): %w", h.UserID, h.FundID, err)
	}
	if h.ID == 0 {
		if id, err := res.LastInsertId(); err == nil && id > 0 {
			h.ID = id
		}
	}
	return h, nil
}

func (s *SqliteHoldingStore) UsersHoldingFund(fundID int64) ([]int64, error) {
	rows, err := s.db.Query(`SELECT user_id FROM holdings WHERE fund_id = ? AND units > 0 ORDER BY user_id`, fundID)
	if err != nil {
		return nil, fmt.Errorf("querying holders of fund %d: %w", fundID, err)
	}
	defer rows.Close()

	var userIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning holder: %w", err)
		}
		userIDs = append(userIDs, id)
	}
	return userIDs, rows.Err()
}

// SqliteSipPlanStore persists SIP plans.
type SqliteSipPlanStore struct {
	db *sql.DB
}

func NewSqliteSipPlanStore(db *sql.DB) *SqliteSipPlanStore {
	return &SqliteSipPlanStore{db: db}
}

func (s *SqliteSipPlanStore) Create(p models.SipPlan) (models.SipPlan, error) {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	res, err := s.db.Exec(`INSERT INTO sip_plans (user_id, fund_id, amount, frequency, is_active, next_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.UserID, p.FundID, p.Amount, p.Frequency, p.IsActive, p.NextDate, p.CreatedAt)
	if err != nil {
		return models.SipPlan{}, fmt.Errorf("creating sip plan: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.SipPlan{}, err
	}
	p.ID = id
	return p, nil
}

func (s *SqliteSipPlanStore) ListForUser(userID int64) ([]models.SipPlan, error) {
	rows, err := s.db.Query(`SELECT id, user_id, fund_id, amount, frequency, is_active, next_date, created_at
		FROM sip_plans WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying sip plans for user %d: %w", userID, err)
	}
	defer rows.Close()
	return scanSipPlans(rows)
}

func (s *SqliteSipPlanStore) ListDue(now time.Time) ([]models.SipPlan, error) {
	rows, err := s.db.Query(`SELECT id, user_id, fund_id, amount, frequency, is_active, next_date, created_at
		FROM sip_plans WHERE is_active = TRUE AND next_date <= ? ORDER BY id`, now)
	if err != nil {
		return nil, fmt.Errorf("querying due sip plans: %w", err)
	}
	defer rows.Close()
	return scanSipPlans(rows)
}

func scanSipPlans(rows *sql.Rows) ([]models.SipPlan, error) {
	var plans []models.SipPlan
	for rows.Next() {
		var p models.SipPlan
		if err := rows.Scan(&p.ID, &p.UserID, &p.FundID, &p.Amount, &p.Frequency, &p.IsActive, &p.NextDate, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning sip plan: %w", err)
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

func (s *SqliteSipPlanStore) SetActive(id int64, active bool) error {
	res, err := s.db.Exec(`UPDATE sip_plans SET is_active = ? WHERE id = ?`, active, id)
	if err != nil {
		return fmt.Errorf("updating sip plan %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (s *SqliteSipPlanStore) UpdateNextDate(id int64, next time.Time) error {
	res, err := s.db.Exec(`UPDATE sip_plans SET next_date = ? WHERE id = ?`, next, id)
	if err != nil {
		return fmt.Errorf("updating sip plan %d next date: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// SqliteAlertStore persists alerts.
type SqliteAlertStore struct {
	db *sql.DB
}

func NewSqliteAlertStore(db *sql.DB) *SqliteAlertStore {
	return &SqliteAlertStore{db: db}
}

func (s *SqliteAlertStore) Create(a models.Alert) (models.Alert, error) {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	res, err := s.db.Exec(`INSERT INTO alerts (user_id, kind, title, description, is_read, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		a.UserID, a.Kind, a.Title, a.Description, a.IsRead, a.CreatedAt)
	if err != nil {
		return models.Alert{}, fmt.Errorf("creating alert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Alert{}, err
	}
	a.ID = id
	return a, nil
}

func (s *SqliteAlertStore) ListForUser(userID int64) ([]models.Alert, error) {
	rows, err := s.db.Query(`SELECT id, user_id, kind, title, description, is_read, created_at
		FROM alerts WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying alerts for user %d: %w", userID, err)
	}
	defer rows.Close()

	var alerts []models.Alert
	for rows.Next() {
		var a models.Alert
		if err := rows.Scan(&a.ID, &a.UserID, &a.Kind, &a.Title, &a.Description, &a.IsRead, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning alert: %w", err)
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

func (s *SqliteAlertStore) MarkRead(id int64) error {
	res, err := s.db.Exec(`UPDATE alerts SET is_read = TRUE WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("marking alert %d read: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrNotFound
	}
	return nil
}
