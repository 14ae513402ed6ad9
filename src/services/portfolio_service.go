package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/manideepv28/wealthwizard/src/logger"
	"github.com/manideepv28/wealthwizard/src/models"
	"github.com/manideepv28/wealthwizard/src/processors"
	"github.com/manideepv28/wealthwizard/src/storage"
)

const (
	ckHoldings   = "res_holdings_user_%d"
	ckSummary    = "agg_summary_user_%d"
	ckAllocation = "res_allocation_user_%d"
)

type portfolioServiceImpl struct {
	funds        storage.FundStore
	ledger       storage.TransactionStore
	holdings     storage.HoldingStore
	sipPlans     storage.SipPlanStore
	holdingProc  *processors.HoldingProcessor
	summaryProc  *processors.SummaryProcessor
	analysisProc *processors.AllocationProcessor
	reportCache  *cache.Cache

	// Serializes the read-fold-write cycle per user so two concurrent
	// requests cannot both fold against the same stale holding.
	userLocks sync.Map
}

func NewPortfolioService(
	funds storage.FundStore,
	ledger storage.TransactionStore,
	holdings storage.HoldingStore,
	sipPlans storage.SipPlanStore,
	reportCache *cache.Cache,
) PortfolioService {
	return &portfolioServiceImpl{
		funds:        funds,
		ledger:       ledger,
		holdings:     holdings,
		sipPlans:     sipPlans,
		holdingProc:  processors.NewHoldingProcessor(),
		summaryProc:  processors.NewSummaryProcessor(),
		analysisProc: processors.NewAllocationProcessor(),
		reportCache:  reportCache,
	}
}

// ApplyTransaction validates, records the ledger entry, then folds it into
// the (user, fund) holding. Validation happens before any write; a failed
// transaction leaves both the ledger and the holding set untouched.
// Re-applying a transaction whose ref id was already recorded is a no-op
// that returns the current holding, so replays never double-count.
func (s *portfolioServiceImpl) ApplyTransaction(tx models.Transaction) (models.Holding, error) {
	startTime := time.Now()

	lock, _ := s.userLocks.LoadOrStore(tx.UserID, &sync.Mutex{})
	mu := lock.(*sync.Mutex)
	mu.Lock()
	defer mu.Unlock()

	if _, err := s.funds.GetByID(tx.FundID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.Holding{}, fmt.Errorf("fund %d: %w", tx.FundID, models.ErrInvalidReference)
		}
		return models.Holding{}, fmt.Errorf("looking up fund %d: %w", tx.FundID, err)
	}

	var existing *models.Holding
	current, err := s.holdings.GetForUserAndFund(tx.UserID, tx.FundID)
	if err == nil {
		existing = &current
	} else if !errors.Is(err, models.ErrNotFound) {
		return models.Holding{}, fmt.Errorf("looking up holding: %w", err)
	}

	updated, err := s.holdingProc.Apply(existing, tx)
	if err != nil {
		return models.Holding{}, err
	}

	recorded, err := s.ledger.Record(tx)
	if err != nil {
		if errors.Is(err, models.ErrDuplicateTransaction) {
			logger.L.Debug("Skipping already-recorded transaction", "userID", tx.UserID, "refID", tx.RefID)
			if existing != nil {
				return *existing, nil
			}
			return models.Holding{}, err
		}
		return models.Holding{}, err
	}

	saved, err := s.holdings.Upsert(updated)
	if err != nil {
		return models.Holding{}, fmt.Errorf("saving holding after transaction %s: %w", recorded.RefID, err)
	}

	s.InvalidateUserCache(tx.UserID)
	logger.L.Info("Applied transaction",
		"userID", tx.UserID, "fundID", tx.FundID, "kind", tx.Kind,
		"amount", tx.Amount, "duration", time.Since(startTime))
	return saved, nil
}

func (s *portfolioServiceImpl) GetHoldings(userID int64) ([]models.FundHolding, error) {
	cacheKey := fmt.Sprintf(ckHoldings, userID)
	if cached, found := s.reportCache.Get(cacheKey); found {
		return cached.([]models.FundHolding), nil
	}

	holdings, err := s.holdings.ListForUser(userID)
	if err != nil {
		return nil, fmt.Errorf("listing holdings for user %d: %w", userID, err)
	}
	funds, err := s.funds.List()
	if err != nil {
		return nil, fmt.Errorf("listing funds: %w", err)
	}

	valued := processors.BuildFundHoldings(holdings, processors.FundsByID(funds))
	s.reportCache.Set(cacheKey, valued, cache.DefaultExpiration)
	return valued, nil
}

func (s *portfolioServiceImpl) GetTransactions(userID int64) ([]models.TransactionWithFund, error) {
	txs, err := s.ledger.ListForUser(userID)
	if err != nil {
		return nil, fmt.Errorf("listing transactions for user %d: %w", userID, err)
	}
	funds, err := s.funds.List()
	if err != nil {
		return nil, fmt.Errorf("listing funds: %w", err)
	}
	byID := processors.FundsByID(funds)

	out := make([]models.TransactionWithFund, 0, len(txs))
	for _, tx := range txs {
		fund, ok := byID[tx.FundID]
		if !ok {
			continue
		}
		out = append(out, models.TransactionWithFund{Transaction: tx, Fund: fund})
	}
	return out, nil
}

func (s *portfolioServiceImpl) GetPortfolioSummary(userID int64) (models.PortfolioSummary, error) {
	cacheKey := fmt.Sprintf(ckSummary, userID)
	if cached, found := s.reportCache.Get(cacheKey); found {
		return cached.(models.PortfolioSummary), nil
	}

	holdings, err := s.GetHoldings(userID)
	if err != nil {
		return models.PortfolioSummary{}, err
	}
	sipPlans, err := s.sipPlans.ListForUser(userID)
	if err != nil {
		return models.PortfolioSummary{}, fmt.Errorf("listing sip plans for user %d: %w", userID, err)
	}

	summary := s.summaryProc.Summarize(holdings, sipPlans)
	s.reportCache.Set(cacheKey, summary, cache.DefaultExpiration)
	return summary, nil
}

func (s *portfolioServiceImpl) GetCategoryAllocation(userID int64) ([]models.CategoryAllocation, error) {
	cacheKey := fmt.Sprintf(ckAllocation, userID)
	if cached, found := s.reportCache.Get(cacheKey); found {
		return cached.([]models.CategoryAllocation), nil
	}

	holdings, err := s.GetHoldings(userID)
	if err != nil {
		return nil, err
	}
	allocation := s.analysisProc.CategoryAllocation(holdings)
	s.reportCache.Set(cacheKey, allocation, cache.DefaultExpiration)
	return allocation, nil
}

func (s *portfolioServiceImpl) GetAnalysis(userID int64) (models.PortfolioAnalysis, error) {
	holdings, err := s.GetHoldings(userID)
	if err != nil {
		return models.PortfolioAnalysis{}, err
	}
	summary, err := s.GetPortfolioSummary(userID)
	if err != nil {
		return models.PortfolioAnalysis{}, err
	}

	return models.PortfolioAnalysis{
		Categories:           s.analysisProc.CategoryCount(holdings),
		DiversificationScore: s.analysisProc.DiversificationScore(holdings),
		TopPerformers:        s.analysisProc.TopPerformers(holdings),
		Allocation:           s.analysisProc.CategoryAllocation(holdings),
		Recommendations:      s.analysisProc.Recommendations(summary, holdings),
	}, nil
}

func (s *portfolioServiceImpl) CreateSipPlan(p models.SipPlan) (models.SipPlan, error) {
	if p.Amount <= 0 {
		return models.SipPlan{}, fmt.Errorf("sip amount %.2f: %w", p.Amount, models.ErrInvalidAmount)
	}
	switch p.Frequency {
	case models.FrequencyWeekly, models.FrequencyMonthly, models.FrequencyQuarterly:
	default:
		return models.SipPlan{}, fmt.Errorf("sip frequency %q: %w", p.Frequency, models.ErrInvalidAmount)
	}
	if _, err := s.funds.GetByID(p.FundID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.SipPlan{}, fmt.Errorf("fund %d: %w", p.FundID, models.ErrInvalidReference)
		}
		return models.SipPlan{}, fmt.Errorf("looking up fund %d: %w", p.FundID, err)
	}

	created, err := s.sipPlans.Create(p)
	if err != nil {
		return models.SipPlan{}, err
	}
	s.InvalidateUserCache(p.UserID)
	return created, nil
}

func (s *portfolioServiceImpl) GetSipPlans(userID int64) ([]models.SipPlan, error) {
	return s.sipPlans.ListForUser(userID)
}

func (s *portfolioServiceImpl) SetSipPlanActive(userID, planID int64, active bool) error {
	plans, err := s.sipPlans.ListForUser(userID)
	if err != nil {
		return err
	}
	owned := false
	for _, p := range plans {
		if p.ID == planID {
			owned = true
			break
		}
	}
	if !owned {
		return models.ErrNotFound
	}
	if err := s.sipPlans.SetActive(planID, active); err != nil {
		return err
	}
	s.InvalidateUserCache(userID)
	return nil
}

// InvalidateUserCache clears all cached reports for a user, forcing a full
// recalculation on the next read.
func (s *portfolioServiceImpl) InvalidateUserCache(userID int64) {
	for _, key := range []string{
		fmt.Sprintf(ckHoldings, userID),
		fmt.Sprintf(ckSummary, userID),
		fmt.Sprintf(ckAllocation, userID),
	} {
		s.reportCache.Delete(key)
	}
}
