package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manideepv28/wealthwizard/src/models"
	"github.com/manideepv28/wealthwizard/src/storage"
)

type recordingEmailService struct {
	sent []string
	fail bool
}

func (r *recordingEmailService) SendAlertEmail(toEmail, name, title, description string) error {
	if r.fail {
		return errors.New("smtp down")
	}
	r.sent = append(r.sent, toEmail)
	return nil
}

func testContact(userID int64) (string, string, error) {
	if userID == 1 {
		return "Asha", "asha@example.com", nil
	}
	return "", "", models.ErrNotFound
}

func TestRaisePersistsAndEmails(t *testing.T) {
	store := storage.NewMemoryStore()
	email := &recordingEmailService{}
	svc := NewAlertService(storage.NewMemoryAlertStore(store), email, testContact)

	alert, err := svc.Raise(1, models.AlertSipDue, "SIP due", "Your monthly SIP is due.")
	require.NoError(t, err)
	assert.NotZero(t, alert.ID)
	assert.Equal(t, []string{"asha@example.com"}, email.sent)

	alerts, err := svc.ListForUser(1)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, models.AlertSipDue, alerts[0].Kind)
	assert.False(t, alerts[0].IsRead)
}

func TestRaiseSurvivesEmailFailure(t *testing.T) {
	store := storage.NewMemoryStore()
	email := &recordingEmailService{fail: true}
	svc := NewAlertService(storage.NewMemoryAlertStore(store), email, testContact)

	alert, err := svc.Raise(1, models.AlertNavChange, "NAV moved", "Up 3%.")
	require.NoError(t, err)
	assert.NotZero(t, alert.ID)
}

func TestRaiseSurvivesUnknownContact(t *testing.T) {
	store := storage.NewMemoryStore()
	email := &recordingEmailService{}
	svc := NewAlertService(storage.NewMemoryAlertStore(store), email, testContact)

	_, err := svc.Raise(42, models.AlertNavChange, "NAV moved", "Down 2%.")
	require.NoError(t, err)
	assert.Empty(t, email.sent)
}

func TestMarkReadEnforcesOwnership(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewAlertService(storage.NewMemoryAlertStore(store), nil, nil)

	alert, err := svc.Raise(1, models.AlertSipDue, "SIP due", "desc")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.MarkRead(2, alert.ID), models.ErrNotFound)
	require.NoError(t, svc.MarkRead(1, alert.ID))

	alerts, err := svc.ListForUser(1)
	require.NoError(t, err)
	assert.True(t, alerts[0].IsRead)
}
