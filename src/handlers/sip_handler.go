package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/manideepv28/wealthwizard/src/logger"
	"github.com/manideepv28/wealthwizard/src/models"
	"github.com/manideepv28/wealthwizard/src/services"
	"github.com/manideepv28/wealthwizard/src/utils"
)

type SipHandler struct {
	portfolioService services.PortfolioService
}

func NewSipHandler(portfolioService services.PortfolioService) *SipHandler {
	return &SipHandler{portfolioService: portfolioService}
}

func (h *SipHandler) HandleCreateSipPlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	var payload struct {
		FundID    int64   `json:"fundId"`
		Amount    float64 `json:"amount"`
		Frequency string  `json:"frequency"`
		NextDate  string  `json:"nextDate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	nextDate := time.Now().AddDate(0, 1, 0)
	if payload.NextDate != "" {
		parsed, err := time.Parse(time.RFC3339, payload.NextDate)
		if err != nil {
			utils.SendJSONError(w, "nextDate must be RFC3339", http.StatusBadRequest)
			return
		}
		nextDate = parsed
	}

	plan, err := h.portfolioService.CreateSipPlan(models.SipPlan{
		UserID:    userID,
		FundID:    payload.FundID,
		Amount:    payload.Amount,
		Frequency: payload.Frequency,
		IsActive:  true,
		NextDate:  nextDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidReference):
			utils.SendJSONError(w, "Fund not found", http.StatusBadRequest)
		case errors.Is(err, models.ErrInvalidAmount):
			utils.SendJSONError(w, "SIP amount must be positive and frequency must be weekly, monthly or quarterly", http.StatusBadRequest)
		default:
			logger.L.Error("Failed to create sip plan", "userID", userID, "error", err)
			utils.SendJSONError(w, "Failed to create SIP plan", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(plan)
}

func (h *SipHandler) HandleGetSipPlans(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	plans, err := h.portfolioService.GetSipPlans(userID)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Error listing SIP plans for userID %d: %v", userID, err), http.StatusInternalServerError)
		return
	}
	if plans == nil {
		plans = []models.SipPlan{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(plans)
}

// HandleSetSipPlanActive pauses or resumes one of the caller's plans.
func (h *SipHandler) HandleSetSipPlanActive(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	planID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		utils.SendJSONError(w, "Invalid plan id", http.StatusBadRequest)
		return
	}

	var payload struct {
		IsActive bool `json:"isActive"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.portfolioService.SetSipPlanActive(userID, planID, payload.IsActive); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			utils.SendJSONError(w, "SIP plan not found", http.StatusNotFound)
			return
		}
		logger.L.Error("Failed to update sip plan", "userID", userID, "planID", planID, "error", err)
		utils.SendJSONError(w, "Failed to update SIP plan", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
