package services

import (
	"fmt"

	"github.com/manideepv28/wealthwizard/src/logger"
	"github.com/manideepv28/wealthwizard/src/models"
	"github.com/manideepv28/wealthwizard/src/storage"
)

// UserContactLookup resolves a user id to the name and email used when
// notifying about an alert.
type UserContactLookup func(userID int64) (name, email string, err error)

// AlertService persists alerts and optionally mirrors them to email.
// Email delivery is best effort; a failed send never fails the alert.
type AlertService struct {
	alerts  storage.AlertStore
	email   EmailService
	contact UserContactLookup
}

func NewAlertService(alerts storage.AlertStore, email EmailService, contact UserContactLookup) *AlertService {
	return &AlertService{alerts: alerts, email: email, contact: contact}
}

func (s *AlertService) Raise(userID int64, kind, title, description string) (models.Alert, error) {
	alert, err := s.alerts.Create(models.Alert{
		UserID:      userID,
		Kind:        kind,
		Title:       title,
		Description: description,
	})
	if err != nil {
		return models.Alert{}, fmt.Errorf("creating %s alert for user %d: %w", kind, userID, err)
	}

	if s.email != nil && s.contact != nil {
		name, email, err := s.contact(userID)
		if err != nil {
			logger.L.Warn("Could not resolve user contact for alert email", "userID", userID, "error", err)
			return alert, nil
		}
		if err := s.email.SendAlertEmail(email, name, title, description); err != nil {
			logger.L.Warn("Alert email delivery failed", "userID", userID, "alertID", alert.ID, "error", err)
		}
	}
	return alert, nil
}

func (s *AlertService) ListForUser(userID int64) ([]models.Alert, error) {
	alerts, err := s.alerts.ListForUser(userID)
	if err != nil {
		return nil, fmt.Errorf("listing alerts for user %d: %w", userID, err)
	}
	return alerts, nil
}

// MarkRead flips the read flag on a user's own alert. Marking someone
// else's alert, or a missing one, returns models.ErrNotFound.
func (s *AlertService) MarkRead(userID, alertID int64) error {
	alerts, err := s.alerts.ListForUser(userID)
	if err != nil {
		return err
	}
	for _, a := range alerts {
		if a.ID == alertID {
			return s.alerts.MarkRead(alertID)
		}
	}
	return models.ErrNotFound
}
