package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manideepv28/wealthwizard/src/logger"
	"github.com/manideepv28/wealthwizard/src/models"
	"github.com/manideepv28/wealthwizard/src/services"
	"github.com/manideepv28/wealthwizard/src/storage"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	m.Run()
}

func TestNextOccurrence(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	weekly := NextOccurrence(time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), models.FrequencyWeekly, now)
	assert.Equal(t, time.Date(2026, 3, 21, 0, 0, 0, 0, time.UTC), weekly)

	monthly := NextOccurrence(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), models.FrequencyMonthly, now)
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), monthly)

	quarterly := NextOccurrence(time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC), models.FrequencyQuarterly, now)
	assert.Equal(t, time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC), quarterly)
}

func TestNextOccurrenceSkipsMissedPeriods(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	// A plan last due five weeks ago jumps straight past now, so a stale
	// plan is alerted once, not once per missed week.
	next := NextOccurrence(now.AddDate(0, 0, -35), models.FrequencyWeekly, now)
	assert.True(t, next.After(now))
	assert.True(t, next.Sub(now) <= 7*24*time.Hour)
}

func TestRunSipAlertsRaisesAndAdvances(t *testing.T) {
	store := storage.NewMemoryStore()
	funds := storage.NewMemoryFundStore(store)
	sipPlans := storage.NewMemorySipPlanStore(store)
	alerts := services.NewAlertService(storage.NewMemoryAlertStore(store), nil, nil)

	fund := store.AddFund(models.Fund{Name: "Axis Bluechip Fund", Category: "Large Cap", CurrentNav: 50})
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	due, err := sipPlans.Create(models.SipPlan{
		UserID:    1,
		FundID:    fund.ID,
		Amount:    5000,
		Frequency: models.FrequencyMonthly,
		IsActive:  true,
		NextDate:  now.AddDate(0, 0, -1),
	})
	require.NoError(t, err)

	notDue, err := sipPlans.Create(models.SipPlan{
		UserID:    1,
		FundID:    fund.ID,
		Amount:    2000,
		Frequency: models.FrequencyMonthly,
		IsActive:  true,
		NextDate:  now.AddDate(0, 0, 10),
	})
	require.NoError(t, err)

	s := New(sipPlans, funds, alerts, nil)
	require.NoError(t, s.RunSipAlerts(now))

	userAlerts, err := alerts.ListForUser(1)
	require.NoError(t, err)
	require.Len(t, userAlerts, 1)
	assert.Equal(t, models.AlertSipDue, userAlerts[0].Kind)
	assert.Contains(t, userAlerts[0].Title, "Axis Bluechip Fund")

	plans, err := sipPlans.ListForUser(1)
	require.NoError(t, err)
	for _, p := range plans {
		switch p.ID {
		case due.ID:
			assert.True(t, p.NextDate.After(now))
		case notDue.ID:
			assert.Equal(t, notDue.NextDate, p.NextDate)
		}
	}

	// A second run in the same instant finds nothing due.
	require.NoError(t, s.RunSipAlerts(now))
	userAlerts, err = alerts.ListForUser(1)
	require.NoError(t, err)
	assert.Len(t, userAlerts, 1)
}

func TestRunSipAlertsSkipsInactivePlans(t *testing.T) {
	store := storage.NewMemoryStore()
	funds := storage.NewMemoryFundStore(store)
	sipPlans := storage.NewMemorySipPlanStore(store)
	alerts := services.NewAlertService(storage.NewMemoryAlertStore(store), nil, nil)

	fund := store.AddFund(models.Fund{Name: "Axis Bluechip Fund", Category: "Large Cap", CurrentNav: 50})
	now := time.Now()

	_, err := sipPlans.Create(models.SipPlan{
		UserID:    1,
		FundID:    fund.ID,
		Amount:    5000,
		Frequency: models.FrequencyMonthly,
		IsActive:  false,
		NextDate:  now.AddDate(0, 0, -1),
	})
	require.NoError(t, err)

	s := New(sipPlans, funds, alerts, nil)
	require.NoError(t, s.RunSipAlerts(now))

	userAlerts, err := alerts.ListForUser(1)
	require.NoError(t, err)
	assert.Empty(t, userAlerts)
}
