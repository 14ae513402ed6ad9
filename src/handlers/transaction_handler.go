package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/manideepv28/wealthwizard/src/logger"
	"github.com/manideepv28/wealthwizard/src/models"
	"github.com/manideepv28/wealthwizard/src/services"
	"github.com/manideepv28/wealthwizard/src/utils"
)

type TransactionHandler struct {
	portfolioService services.PortfolioService
}

func NewTransactionHandler(portfolioService services.PortfolioService) *TransactionHandler {
	return &TransactionHandler{portfolioService: portfolioService}
}

// HandleCreateTransaction records one buy, sell or sip entry and folds it
// into the caller's holding. A refId may be supplied for safe retries; when
// absent one is assigned.
func (h *TransactionHandler) HandleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	var payload struct {
		RefID  string  `json:"refId"`
		FundID int64   `json:"fundId"`
		Kind   string  `json:"kind"`
		Amount float64 `json:"amount"`
		Units  float64 `json:"units"`
		Nav    float64 `json:"nav"`
		Date   string  `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	switch payload.Kind {
	case models.TransactionBuy, models.TransactionSell, models.TransactionSip:
	default:
		utils.SendJSONError(w, fmt.Sprintf("Invalid transaction kind %q", payload.Kind), http.StatusBadRequest)
		return
	}
	if payload.RefID == "" {
		payload.RefID = uuid.NewString()
	} else if _, err := uuid.Parse(payload.RefID); err != nil {
		utils.SendJSONError(w, "refId must be a valid UUID", http.StatusBadRequest)
		return
	}

	tx := models.Transaction{
		RefID:  payload.RefID,
		UserID: userID,
		FundID: payload.FundID,
		Kind:   payload.Kind,
		Amount: payload.Amount,
		Units:  payload.Units,
		Nav:    payload.Nav,
	}
	if payload.Date != "" {
		date, err := time.Parse(time.RFC3339, payload.Date)
		if err != nil {
			utils.SendJSONError(w, "date must be RFC3339", http.StatusBadRequest)
			return
		}
		tx.Date = date
	}

	holding, err := h.portfolioService.ApplyTransaction(tx)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidReference):
			utils.SendJSONError(w, "Fund not found", http.StatusBadRequest)
		case errors.Is(err, models.ErrInvalidAmount):
			utils.SendJSONError(w, "Transaction amount and NAV must be positive", http.StatusBadRequest)
		case errors.Is(err, models.ErrInsufficientUnits):
			utils.SendJSONError(w, "Cannot sell more units than held", http.StatusUnprocessableEntity)
		case errors.Is(err, models.ErrDuplicateTransaction):
			utils.SendJSONError(w, "Transaction already recorded", http.StatusConflict)
		default:
			logger.L.Error("Failed to apply transaction", "userID", userID, "error", err)
			utils.SendJSONError(w, "Failed to apply transaction", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(holding)
}

func (h *TransactionHandler) HandleGetTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	transactions, err := h.portfolioService.GetTransactions(userID)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Error querying transactions for userID %d: %v", userID, err), http.StatusInternalServerError)
		return
	}
	if transactions == nil {
		transactions = []models.TransactionWithFund{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(transactions); err != nil {
		logger.L.Error("Error generating JSON response for transactions", "userID", userID, "error", err)
	}
}
