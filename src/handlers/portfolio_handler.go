package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/manideepv28/wealthwizard/src/logger"
	"github.com/manideepv28/wealthwizard/src/models"
	"github.com/manideepv28/wealthwizard/src/services"
	"github.com/manideepv28/wealthwizard/src/utils"
)

type PortfolioHandler struct {
	portfolioService services.PortfolioService
}

func NewPortfolioHandler(portfolioService services.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{portfolioService: portfolioService}
}

func (h *PortfolioHandler) HandleGetHoldings(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	holdings, err := h.portfolioService.GetHoldings(userID)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Error fetching holdings for userID %d: %v", userID, err), http.StatusInternalServerError)
		return
	}
	if holdings == nil {
		holdings = []models.FundHolding{}
	}

	if etag, err := utils.GenerateETag(holdings); err == nil {
		w.Header().Set("ETag", etag)
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(holdings); err != nil {
		logger.L.Error("Error generating JSON response for holdings", "userID", userID, "error", err)
	}
}

func (h *PortfolioHandler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	summary, err := h.portfolioService.GetPortfolioSummary(userID)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Error building summary for userID %d: %v", userID, err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}

func (h *PortfolioHandler) HandleGetAllocation(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	allocation, err := h.portfolioService.GetCategoryAllocation(userID)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Error building allocation for userID %d: %v", userID, err), http.StatusInternalServerError)
		return
	}
	if allocation == nil {
		allocation = []models.CategoryAllocation{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(allocation)
}

func (h *PortfolioHandler) HandleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	analysis, err := h.portfolioService.GetAnalysis(userID)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Error building analysis for userID %d: %v", userID, err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(analysis)
}
