package processors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manideepv28/wealthwizard/src/models"
)

func buyTx(refID string, amount, nav float64) models.Transaction {
	return models.Transaction{
		RefID:  refID,
		UserID: 1,
		FundID: 10,
		Kind:   models.TransactionBuy,
		Amount: amount,
		Nav:    nav,
	}
}

func TestApplyFirstPurchase(t *testing.T) {
	p := NewHoldingProcessor()

	holding, err := p.Apply(nil, buyTx("tx-1", 1000, 50))
	require.NoError(t, err)

	assert.Equal(t, int64(1), holding.UserID)
	assert.Equal(t, int64(10), holding.FundID)
	assert.InDelta(t, 20.0, holding.Units, 1e-9)
	assert.InDelta(t, 50.0, holding.AvgNav, 1e-9)
	assert.InDelta(t, 1000.0, holding.TotalInvested, 1e-9)
}

func TestApplyWeightedAverageAcrossPurchases(t *testing.T) {
	p := NewHoldingProcessor()

	first, err := p.Apply(nil, buyTx("tx-1", 1000, 50))
	require.NoError(t, err)

	// 1000 at NAV 100 buys 10 units; 30 units total for 2000 invested.
	second, err := p.Apply(&first, buyTx("tx-2", 1000, 100))
	require.NoError(t, err)

	assert.InDelta(t, 30.0, second.Units, 1e-9)
	assert.InDelta(t, 2000.0, second.TotalInvested, 1e-9)
	assert.InDelta(t, 66.6667, second.AvgNav, 1e-4)

	// The invariant avgNav == totalInvested/units holds after every fold.
	assert.InDelta(t, second.TotalInvested/second.Units, second.AvgNav, 1e-4)
}

func TestApplyLargePurchaseRounding(t *testing.T) {
	p := NewHoldingProcessor()

	// 10000 at NAV 50 buys exactly 200 units.
	first, err := p.Apply(nil, buyTx("tx-1", 10000, 50))
	require.NoError(t, err)
	assert.InDelta(t, 200.0, first.Units, 1e-9)
	assert.InDelta(t, 50.0, first.AvgNav, 1e-9)
	assert.InDelta(t, 10000.0, first.TotalInvested, 1e-9)

	// 5000 at NAV 60 adds 83.3333 units; the blended average lands at 52.94.
	second, err := p.Apply(&first, buyTx("tx-2", 5000, 60))
	require.NoError(t, err)
	assert.InDelta(t, 283.3333, second.Units, 1e-4)
	assert.InDelta(t, 15000.0, second.TotalInvested, 1e-9)
	assert.InDelta(t, 52.94, second.AvgNav, 0.01)
}

func TestApplySipBehavesLikeBuy(t *testing.T) {
	p := NewHoldingProcessor()

	first, err := p.Apply(nil, buyTx("tx-1", 1000, 50))
	require.NoError(t, err)

	sip := buyTx("tx-2", 500, 50)
	sip.Kind = models.TransactionSip
	second, err := p.Apply(&first, sip)
	require.NoError(t, err)

	assert.InDelta(t, 30.0, second.Units, 1e-9)
	assert.InDelta(t, 1500.0, second.TotalInvested, 1e-9)
	assert.InDelta(t, 50.0, second.AvgNav, 1e-9)
}

func TestApplyExplicitUnitsWinOverDerivation(t *testing.T) {
	p := NewHoldingProcessor()

	tx := buyTx("tx-1", 1000, 50)
	tx.Units = 25 // explicit, not derived from amount/nav

	holding, err := p.Apply(nil, tx)
	require.NoError(t, err)
	assert.InDelta(t, 25.0, holding.Units, 1e-9)
	// The opening average comes from the execution NAV when one is given.
	assert.InDelta(t, 50.0, holding.AvgNav, 1e-9)
}

func TestApplyRejectsNonPositiveAmount(t *testing.T) {
	p := NewHoldingProcessor()

	_, err := p.Apply(nil, buyTx("tx-1", 0, 50))
	assert.ErrorIs(t, err, models.ErrInvalidAmount)

	_, err = p.Apply(nil, buyTx("tx-2", -100, 50))
	assert.ErrorIs(t, err, models.ErrInvalidAmount)
}

func TestApplyRejectsMissingUnitsAndNav(t *testing.T) {
	p := NewHoldingProcessor()

	tx := buyTx("tx-1", 1000, 0)
	_, err := p.Apply(nil, tx)
	assert.ErrorIs(t, err, models.ErrInvalidAmount)
}

func TestApplyRejectsUnknownKind(t *testing.T) {
	p := NewHoldingProcessor()

	tx := buyTx("tx-1", 1000, 50)
	tx.Kind = "transfer"
	_, err := p.Apply(nil, tx)
	assert.ErrorIs(t, err, models.ErrInvalidAmount)
}

func TestApplySellReducesAtAverageCost(t *testing.T) {
	p := NewHoldingProcessor()

	first, err := p.Apply(nil, buyTx("tx-1", 1000, 50))
	require.NoError(t, err)
	second, err := p.Apply(&first, buyTx("tx-2", 1000, 100))
	require.NoError(t, err)

	// Sell 10 units at the current NAV of 100. Invested capital drops by
	// 10 * avgNav, not by the sale proceeds, and avgNav is unchanged.
	sell := models.Transaction{
		RefID:  "tx-3",
		UserID: 1,
		FundID: 10,
		Kind:   models.TransactionSell,
		Amount: 1000,
		Units:  10,
		Nav:    100,
	}
	after, err := p.Apply(&second, sell)
	require.NoError(t, err)

	assert.InDelta(t, 20.0, after.Units, 1e-9)
	assert.InDelta(t, 1333.33, after.TotalInvested, 0.01)
	assert.InDelta(t, second.AvgNav, after.AvgNav, 1e-9)
}

func TestApplySellToZeroClearsPosition(t *testing.T) {
	p := NewHoldingProcessor()

	holding, err := p.Apply(nil, buyTx("tx-1", 1000, 50))
	require.NoError(t, err)

	sell := models.Transaction{
		RefID:  "tx-2",
		UserID: 1,
		FundID: 10,
		Kind:   models.TransactionSell,
		Amount: 1200,
		Units:  20,
		Nav:    60,
	}
	after, err := p.Apply(&holding, sell)
	require.NoError(t, err)

	assert.Zero(t, after.Units)
	assert.Zero(t, after.TotalInvested)
}

func TestApplySellRejectsOversell(t *testing.T) {
	p := NewHoldingProcessor()

	holding, err := p.Apply(nil, buyTx("tx-1", 1000, 50))
	require.NoError(t, err)

	sell := models.Transaction{
		RefID:  "tx-2",
		UserID: 1,
		FundID: 10,
		Kind:   models.TransactionSell,
		Amount: 2000,
		Units:  40,
		Nav:    50,
	}
	_, err = p.Apply(&holding, sell)
	assert.ErrorIs(t, err, models.ErrInsufficientUnits)

	// Selling with no position at all is the same error.
	_, err = p.Apply(nil, sell)
	assert.ErrorIs(t, err, models.ErrInsufficientUnits)
}

func TestReplayIsIdempotentOverDuplicateRefIDs(t *testing.T) {
	p := NewHoldingProcessor()

	ledger := []models.Transaction{
		buyTx("tx-1", 1000, 50),
		buyTx("tx-2", 1000, 100),
	}

	once, err := p.Replay(ledger)
	require.NoError(t, err)

	// Replaying the ledger concatenated with itself must not double-count.
	twice, err := p.Replay(append(append([]models.Transaction{}, ledger...), ledger...))
	require.NoError(t, err)

	require.Len(t, once, 1)
	require.Len(t, twice, 1)
	assert.Equal(t, once[0].Units, twice[0].Units)
	assert.Equal(t, once[0].TotalInvested, twice[0].TotalInvested)
	assert.Equal(t, once[0].AvgNav, twice[0].AvgNav)
}

func TestReplayKeepsPairsSeparate(t *testing.T) {
	p := NewHoldingProcessor()

	other := buyTx("tx-3", 500, 25)
	other.FundID = 11

	holdings, err := p.Replay([]models.Transaction{
		buyTx("tx-1", 1000, 50),
		other,
	})
	require.NoError(t, err)
	require.Len(t, holdings, 2)
	assert.Equal(t, int64(10), holdings[0].FundID)
	assert.Equal(t, int64(11), holdings[1].FundID)
}

func TestBuildFundHoldingsValuesPositions(t *testing.T) {
	funds := map[int64]models.Fund{
		10: {ID: 10, Name: "Alpha", Category: "Large Cap", CurrentNav: 60},
	}
	holdings := []models.Holding{
		{UserID: 1, FundID: 10, Units: 20, AvgNav: 50, TotalInvested: 1000},
	}

	valued := BuildFundHoldings(holdings, funds)
	require.Len(t, valued, 1)
	assert.InDelta(t, 1200.0, valued[0].CurrentValue, 1e-9)
	assert.InDelta(t, 200.0, valued[0].Gains, 1e-9)
	assert.InDelta(t, 20.0, valued[0].GainsPercentage, 1e-9)
}

func TestBuildFundHoldingsGainsPercentage(t *testing.T) {
	funds := map[int64]models.Fund{
		10: {ID: 10, CurrentNav: 55},
	}
	holdings := []models.Holding{
		{UserID: 1, FundID: 10, Units: 100, AvgNav: 50, TotalInvested: 5000},
	}

	valued := BuildFundHoldings(holdings, funds)
	require.Len(t, valued, 1)
	assert.InDelta(t, 5500.0, valued[0].CurrentValue, 1e-9)
	assert.InDelta(t, 500.0, valued[0].Gains, 1e-9)
	assert.InDelta(t, 10.0, valued[0].GainsPercentage, 1e-9)
}

func TestBuildFundHoldingsZeroInvestedYieldsZeroPercentage(t *testing.T) {
	funds := map[int64]models.Fund{
		10: {ID: 10, CurrentNav: 60},
	}
	holdings := []models.Holding{
		{UserID: 1, FundID: 10, Units: 0, TotalInvested: 0},
	}

	valued := BuildFundHoldings(holdings, funds)
	require.Len(t, valued, 1)
	assert.Zero(t, valued[0].GainsPercentage)
}

func TestBuildFundHoldingsSkipsUnknownFunds(t *testing.T) {
	holdings := []models.Holding{
		{UserID: 1, FundID: 99, Units: 5, TotalInvested: 100},
	}
	valued := BuildFundHoldings(holdings, map[int64]models.Fund{})
	assert.Empty(t, valued)
}
