package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manideepv28/wealthwizard/src/models"
)

func TestMemoryTransactionStoreRejectsDuplicateRef(t *testing.T) {
	s := NewMemoryStore()
	txStore := NewMemoryTransactionStore(s)

	tx := models.Transaction{
		RefID:  "11111111-1111-1111-1111-111111111111",
		UserID: 1,
		FundID: 2,
		Kind:   models.TransactionBuy,
		Amount: 1000,
		Nav:    50,
	}

	first, err := txStore.Record(tx)
	require.NoError(t, err)
	assert.NotZero(t, first.ID)
	assert.Equal(t, models.StatusCompleted, first.Status)
	assert.False(t, first.Date.IsZero())

	_, err = txStore.Record(tx)
	assert.ErrorIs(t, err, models.ErrDuplicateTransaction)

	// The same ref id under a different user is a distinct transaction.
	tx.UserID = 2
	_, err = txStore.Record(tx)
	assert.NoError(t, err)
}

func TestMemoryTransactionStoreListNewestFirst(t *testing.T) {
	s := NewMemoryStore()
	txStore := NewMemoryTransactionStore(s)

	base := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	for i, date := range []time.Time{base, base.AddDate(0, 0, 2), base.AddDate(0, 0, 1)} {
		_, err := txStore.Record(models.Transaction{
			RefID:  string(rune('a' + i)),
			UserID: 1,
			FundID: 2,
			Kind:   models.TransactionBuy,
			Amount: 100,
			Nav:    10,
			Date:   date,
		})
		require.NoError(t, err)
	}

	txs, err := txStore.ListForUser(1)
	require.NoError(t, err)
	require.Len(t, txs, 3)
	assert.Equal(t, "b", txs[0].RefID)
	assert.Equal(t, "c", txs[1].RefID)
	assert.Equal(t, "a", txs[2].RefID)
}

func TestMemoryHoldingStoreUpsertKeepsOnePerPair(t *testing.T) {
	s := NewMemoryStore()
	holdings := NewMemoryHoldingStore(s)

	first, err := holdings.Upsert(models.Holding{UserID: 1, FundID: 2, Units: 10, TotalInvested: 500, AvgNav: 50})
	require.NoError(t, err)

	second, err := holdings.Upsert(models.Holding{UserID: 1, FundID: 2, Units: 20, TotalInvested: 1000, AvgNav: 50})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	list, err := holdings.ListForUser(1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.InDelta(t, 20.0, list[0].Units, 1e-9)
}

func TestMemoryHoldingStoreUsersHoldingFund(t *testing.T) {
	s := NewMemoryStore()
	holdings := NewMemoryHoldingStore(s)

	_, err := holdings.Upsert(models.Holding{UserID: 1, FundID: 2, Units: 10})
	require.NoError(t, err)
	_, err = holdings.Upsert(models.Holding{UserID: 3, FundID: 2, Units: 5})
	require.NoError(t, err)
	_, err = holdings.Upsert(models.Holding{UserID: 4, FundID: 2, Units: 0}) // closed position
	require.NoError(t, err)
	_, err = holdings.Upsert(models.Holding{UserID: 5, FundID: 9, Units: 7})
	require.NoError(t, err)

	users, err := holdings.UsersHoldingFund(2)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, users)
}

func TestMemorySipPlanStoreListDue(t *testing.T) {
	s := NewMemoryStore()
	plans := NewMemorySipPlanStore(s)

	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	due, err := plans.Create(models.SipPlan{UserID: 1, FundID: 2, Amount: 1000, Frequency: models.FrequencyMonthly, IsActive: true, NextDate: now.AddDate(0, 0, -1)})
	require.NoError(t, err)
	_, err = plans.Create(models.SipPlan{UserID: 1, FundID: 3, Amount: 1000, Frequency: models.FrequencyMonthly, IsActive: true, NextDate: now.AddDate(0, 0, 5)})
	require.NoError(t, err)
	_, err = plans.Create(models.SipPlan{UserID: 1, FundID: 4, Amount: 1000, Frequency: models.FrequencyMonthly, IsActive: false, NextDate: now.AddDate(0, 0, -3)})
	require.NoError(t, err)

	got, err := plans.ListDue(now)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, due.ID, got[0].ID)
}

func TestMemoryAlertStoreMarkRead(t *testing.T) {
	s := NewMemoryStore()
	alerts := NewMemoryAlertStore(s)

	created, err := alerts.Create(models.Alert{UserID: 1, Kind: models.AlertSipDue, Title: "SIP due"})
	require.NoError(t, err)
	assert.False(t, created.IsRead)

	require.NoError(t, alerts.MarkRead(created.ID))

	list, err := alerts.ListForUser(1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].IsRead)

	assert.ErrorIs(t, alerts.MarkRead(999), models.ErrNotFound)
}

func TestMemoryFundStoreSearch(t *testing.T) {
	s := NewMemoryStore()
	funds := NewMemoryFundStore(s)

	s.AddFund(models.Fund{Name: "Axis Bluechip Fund", Category: "Large Cap", AMC: "Axis Mutual Fund"})
	s.AddFund(models.Fund{Name: "Kotak Small Cap Fund", Category: "Small Cap", AMC: "Kotak Mahindra"})

	byName, err := funds.Search("bluechip")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Axis Bluechip Fund", byName[0].Name)

	byCategory, err := funds.Search("small cap")
	require.NoError(t, err)
	assert.Len(t, byCategory, 1)

	none, err := funds.Search("gold")
	require.NoError(t, err)
	assert.Empty(t, none)
}
