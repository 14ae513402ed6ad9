package storage

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/manideepv28/wealthwizard/src/models"
)

// MemoryStore holds all entities behind a single lock. It backs every store
// interface so tests (and throwaway deployments) can run without sqlite.
type MemoryStore struct {
	mu           sync.RWMutex
	funds        map[int64]models.Fund
	transactions map[int64]models.Transaction
	holdings     map[int64]models.Holding
	sipPlans     map[int64]models.SipPlan
	alerts       map[int64]models.Alert
	txRefs       map[string]bool // userID|refID
	nextID       int64
	txOrder      []int64 // insertion order of transaction ids
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		funds:        make(map[int64]models.Fund),
		transactions: make(map[int64]models.Transaction),
		holdings:     make(map[int64]models.Holding),
		sipPlans:     make(map[int64]models.SipPlan),
		alerts:       make(map[int64]models.Alert),
		txRefs:       make(map[string]bool),
		nextID:       1,
	}
}

func (m *MemoryStore) newID() int64 {
	id := m.nextID
	m.nextID++
	return id
}

// AddFund inserts a catalog entry, assigning an id when absent.
func (m *MemoryStore) AddFund(f models.Fund) models.Fund {
	m.mu.Lock()
	defer m.mu.Unlock()
	if f.ID == 0 {
		f.ID = m.newID()
	} else if f.ID >= m.nextID {
		m.nextID = f.ID + 1
	}
	m.funds[f.ID] = f
	return f
}

/* ---- FundStore ---- */

type MemoryFundStore struct{ s *MemoryStore }

func NewMemoryFundStore(s *MemoryStore) *MemoryFundStore { return &MemoryFundStore{s: s} }

func (r *MemoryFundStore) List() ([]models.Fund, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]models.Fund, 0, len(r.s.funds))
	for _, f := range r.s.funds {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryFundStore) GetByID(id int64) (models.Fund, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	f, ok := r.s.funds[id]
	if !ok {
		return models.Fund{}, models.ErrNotFound
	}
	return f, nil
}

func (r *MemoryFundStore) Search(query string) ([]models.Fund, error) {
	q := strings.ToLower(query)
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []models.Fund
	for _, f := range r.s.funds {
		if strings.Contains(strings.ToLower(f.Name), q) ||
			strings.Contains(strings.ToLower(f.Category), q) ||
			strings.Contains(strings.ToLower(f.AMC), q) {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryFundStore) UpdateNav(id int64, nav float64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	f, ok := r.s.funds[id]
	if !ok {
		return models.ErrNotFound
	}
	f.CurrentNav = nav
	r.s.funds[id] = f
	return nil
}

/* ---- TransactionStore ---- */

type MemoryTransactionStore struct{ s *MemoryStore }

func NewMemoryTransactionStore(s *MemoryStore) *MemoryTransactionStore {
	return &MemoryTransactionStore{s: s}
}

func refKey(userID int64, refID string) string {
	return fmt.Sprintf("%d|%s", userID, refID)
}

func (r *MemoryTransactionStore) Record(tx models.Transaction) (models.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if tx.RefID == "" {
		tx.RefID = uuid.NewString()
	}
	key := refKey(tx.UserID, tx.RefID)
	if r.s.txRefs[key] {
		return models.Transaction{}, models.ErrDuplicateTransaction
	}
	if tx.Status == "" {
		tx.Status = models.StatusCompleted
	}
	if tx.Date.IsZero() {
		tx.Date = time.Now()
	}
	tx.ID = r.s.newID()
	r.s.transactions[tx.ID] = tx
	r.s.txRefs[key] = true
	r.s.txOrder = append(r.s.txOrder, tx.ID)
	return tx, nil
}

func (r *MemoryTransactionStore) ListForUser(userID int64) ([]models.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []models.Transaction
	for _, id := range r.s.txOrder {
		tx := r.s.transactions[id]
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	// Newest first; ids grow with insertion order so they break date ties.
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].ID > out[j].ID
		}
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

/* ---- HoldingStore ---- */

type MemoryHoldingStore struct{ s *MemoryStore }

func NewMemoryHoldingStore(s *MemoryStore) *MemoryHoldingStore { return &MemoryHoldingStore{s: s} }

func (r *MemoryHoldingStore) GetForUserAndFund(userID, fundID int64) (models.Holding, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, h := range r.s.holdings {
		if h.UserID == userID && h.FundID == fundID {
			return h, nil
		}
	}
	return models.Holding{}, models.ErrNotFound
}

func (r *MemoryHoldingStore) ListForUser(userID int64) ([]models.Holding, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []models.Holding
	for _, h := range r.s.holdings {
		if h.UserID == userID {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryHoldingStore) Upsert(h models.Holding) (models.Holding, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, existing := range r.s.holdings {
		if existing.UserID == h.UserID && existing.FundID == h.FundID {
			h.ID = id
			r.s.holdings[id] = h
			return h, nil
		}
	}
	h.ID = r.s.newID()
	r.s.holdings[h.ID] = h
	return h, nil
}

func (r *MemoryHoldingStore) UsersHoldingFund(fundID int64) ([]int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var userIDs []int64
	for _, h := range r.s.holdings {
		if h.FundID == fundID && h.Units > 0 {
			userIDs = append(userIDs, h.UserID)
		}
	}
	sort.Slice(userIDs, func(i, j int) bool { return userIDs[i] < userIDs[j] })
	return userIDs, nil
}

/* ---- SipPlanStore ---- */

type MemorySipPlanStore struct{ s *MemoryStore }

func NewMemorySipPlanStore(s *MemoryStore) *MemorySipPlanStore { return &MemorySipPlanStore{s: s} }

func (r *MemorySipPlanStore) Create(p models.SipPlan) (models.SipPlan, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	p.ID = r.s.newID()
	r.s.sipPlans[p.ID] = p
	return p, nil
}

func (r *MemorySipPlanStore) ListForUser(userID int64) ([]models.SipPlan, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []models.SipPlan
	for _, p := range r.s.sipPlans {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemorySipPlanStore) ListDue(now time.Time) ([]models.SipPlan, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []models.SipPlan
	for _, p := range r.s.sipPlans {
		if p.IsActive && !p.NextDate.After(now) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemorySipPlanStore) SetActive(id int64, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.sipPlans[id]
	if !ok {
		return models.ErrNotFound
	}
	p.IsActive = active
	r.s.sipPlans[id] = p
	return nil
}

func (r *MemorySipPlanStore) UpdateNextDate(id int64, next time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.sipPlans[id]
	if !ok {
		return models.ErrNotFound
	}
	p.NextDate = next
	r.s.sipPlans[id] = p
	return nil
}

/* ---- AlertStore ---- */

type MemoryAlertStore struct{ s *MemoryStore }

func NewMemoryAlertStore(s *MemoryStore) *MemoryAlertStore { return &MemoryAlertStore{s: s} }

func (r *MemoryAlertStore) Create(a models.Alert) (models.Alert, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	a.ID = r.s.newID()
	r.s.alerts[a.ID] = a
	return a, nil
}

func (r *MemoryAlertStore) ListForUser(userID int64) ([]models.Alert, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []models.Alert
	for _, a := range r.s.alerts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryAlertStore) MarkRead(id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.alerts[id]
	if !ok {
		return models.ErrNotFound
	}
	a.IsRead = true
	r.s.alerts[id] = a
	return nil
}
