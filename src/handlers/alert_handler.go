package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/manideepv28/wealthwizard/src/logger"
	"github.com/manideepv28/wealthwizard/src/models"
	"github.com/manideepv28/wealthwizard/src/services"
	"github.com/manideepv28/wealthwizard/src/utils"
)

type AlertHandler struct {
	alertService *services.AlertService
}

func NewAlertHandler(alertService *services.AlertService) *AlertHandler {
	return &AlertHandler{alertService: alertService}
}

func (h *AlertHandler) HandleGetAlerts(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	alerts, err := h.alertService.ListForUser(userID)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Error listing alerts for userID %d: %v", userID, err), http.StatusInternalServerError)
		return
	}
	if alerts == nil {
		alerts = []models.Alert{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(alerts); err != nil {
		logger.L.Error("Error generating JSON response for alerts", "userID", userID, "error", err)
	}
}

func (h *AlertHandler) HandleMarkAlertRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	alertID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		utils.SendJSONError(w, "Invalid alert id", http.StatusBadRequest)
		return
	}

	if err := h.alertService.MarkRead(userID, alertID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			utils.SendJSONError(w, "Alert not found", http.StatusNotFound)
			return
		}
		logger.L.Error("Failed to mark alert read", "userID", userID, "alertID", alertID, "error", err)
		utils.SendJSONError(w, "Failed to mark alert read", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
