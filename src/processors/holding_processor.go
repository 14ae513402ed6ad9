package processors

import (
	"fmt"
	"math"

	"github.com/manideepv28/wealthwizard/src/models"
	"github.com/manideepv28/wealthwizard/src/utils"
)

// unitEpsilon absorbs float drift when comparing unit counts, which are
// stored rounded to four decimals.
const unitEpsilon = 1e-6

// HoldingProcessor folds ledger transactions into the single current holding
// per (user, fund) pair. Average cost is invested-capital-weighted: avgNav is
// always totalInvested/units, so varying purchase NAVs are reflected
// correctly over time.
type HoldingProcessor struct{}

func NewHoldingProcessor() *HoldingProcessor {
	return &HoldingProcessor{}
}

// Apply folds one transaction into an existing holding. A nil existing means
// no position yet for the (user, fund) pair. The returned holding carries the
// existing identity and owning keys; only units, avgNav and totalInvested
// change. Validation happens before anything else, so a returned error means
// nothing should be written.
func (p *HoldingProcessor) Apply(existing *models.Holding, tx models.Transaction) (models.Holding, error) {
	if tx.Amount <= 0 {
		return models.Holding{}, fmt.Errorf("transaction %s amount %.2f: %w", tx.RefID, tx.Amount, models.ErrInvalidAmount)
	}

	units := tx.Units
	if units <= 0 {
		if tx.Nav <= 0 {
			return models.Holding{}, fmt.Errorf("transaction %s nav %.4f: %w", tx.RefID, tx.Nav, models.ErrInvalidAmount)
		}
		units = tx.Amount / tx.Nav
	}

	switch tx.Kind {
	case models.TransactionBuy, models.TransactionSip:
		return p.applyPurchase(existing, tx, units), nil
	case models.TransactionSell:
		return p.applySell(existing, tx, units)
	default:
		return models.Holding{}, fmt.Errorf("transaction kind %q: %w", tx.Kind, models.ErrInvalidAmount)
	}
}

func (p *HoldingProcessor) applyPurchase(existing *models.Holding, tx models.Transaction, units float64) models.Holding {
	if existing == nil {
		nav := tx.Nav
		if nav <= 0 {
			// Units were supplied directly; back the average out of them.
			nav = tx.Amount / units
		}
		return models.Holding{
			UserID:        tx.UserID,
			FundID:        tx.FundID,
			Units:         utils.RoundFloat(units, 4),
			AvgNav:        utils.RoundFloat(nav, 4),
			TotalInvested: utils.RoundFloat(tx.Amount, 2),
		}
	}

	newUnits := existing.Units + units
	newInvested := existing.TotalInvested + tx.Amount
	updated := *existing
	updated.Units = utils.RoundFloat(newUnits, 4)
	updated.TotalInvested = utils.RoundFloat(newInvested, 2)
	updated.AvgNav = utils.RoundFloat(newInvested/newUnits, 4)
	return updated
}

// applySell reduces units and invested capital at average cost. The average
// NAV of the remaining position is unchanged by a redemption. Overselling is
// rejected before any mutation.
func (p *HoldingProcessor) applySell(existing *models.Holding, tx models.Transaction, units float64) (models.Holding, error) {
	if existing == nil || existing.Units <= 0 {
		return models.Holding{}, fmt.Errorf("sell %s with no position: %w", tx.RefID, models.ErrInsufficientUnits)
	}
	if units > existing.Units+unitEpsilon {
		return models.Holding{}, fmt.Errorf("sell %s of %.4f units exceeds %.4f held: %w",
			tx.RefID, units, existing.Units, models.ErrInsufficientUnits)
	}

	newUnits := existing.Units - units
	newInvested := existing.TotalInvested - units*existing.AvgNav

	updated := *existing
	if newUnits <= unitEpsilon {
		updated.Units = 0
		updated.TotalInvested = 0
		return updated, nil
	}
	updated.Units = utils.RoundFloat(newUnits, 4)
	updated.TotalInvested = utils.RoundFloat(math.Max(newInvested, 0), 2)
	return updated, nil
}

// Replay folds an ordered (oldest-first) transaction list into a holding set
// starting from nothing. Entries sharing a ref id with an earlier entry are
// skipped, so replaying a ledger concatenated with itself yields the same
// holdings as replaying it once.
func (p *HoldingProcessor) Replay(txs []models.Transaction) ([]models.Holding, error) {
	type pairKey struct {
		userID int64
		fundID int64
	}
	byPair := make(map[pairKey]*models.Holding)
	var order []pairKey
	seen := make(map[string]bool)

	for _, tx := range txs {
		if tx.RefID != "" {
			dedup := fmt.Sprintf("%d|%s", tx.UserID, tx.RefID)
			if seen[dedup] {
				continue
			}
			seen[dedup] = true
		}

		key := pairKey{tx.UserID, tx.FundID}
		existing := byPair[key]
		updated, err := p.Apply(existing, tx)
		if err != nil {
			return nil, fmt.Errorf("replaying transaction %s: %w", tx.RefID, err)
		}
		if existing == nil {
			order = append(order, key)
		}
		byPair[key] = &updated
	}

	holdings := make([]models.Holding, 0, len(order))
	for _, key := range order {
		holdings = append(holdings, *byPair[key])
	}
	return holdings, nil
}

// BuildFundHoldings joins holdings with their funds through a keyed lookup
// and values each position at the fund's current NAV. Holdings whose fund is
// missing from the map are skipped; the engine never fabricates fund data.
func BuildFundHoldings(holdings []models.Holding, funds map[int64]models.Fund) []models.FundHolding {
	out := make([]models.FundHolding, 0, len(holdings))
	for _, h := range holdings {
		fund, ok := funds[h.FundID]
		if !ok {
			continue
		}
		currentValue := h.Units * fund.CurrentNav
		gains := currentValue - h.TotalInvested
		gainsPercentage := 0.0
		if h.TotalInvested > 0 {
			gainsPercentage = gains / h.TotalInvested * 100
		}
		out = append(out, models.FundHolding{
			Holding:         h,
			Fund:            fund,
			CurrentValue:    currentValue,
			Gains:           gains,
			GainsPercentage: gainsPercentage,
		})
	}
	return out
}

// FundsByID indexes a fund list for the joins above.
func FundsByID(funds []models.Fund) map[int64]models.Fund {
	byID := make(map[int64]models.Fund, len(funds))
	for _, f := range funds {
		byID[f.ID] = f
	}
	return byID
}
