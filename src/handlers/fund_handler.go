package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/manideepv28/wealthwizard/src/logger"
	"github.com/manideepv28/wealthwizard/src/models"
	"github.com/manideepv28/wealthwizard/src/storage"
	"github.com/manideepv28/wealthwizard/src/utils"
)

type FundHandler struct {
	funds storage.FundStore
}

func NewFundHandler(funds storage.FundStore) *FundHandler {
	return &FundHandler{funds: funds}
}

// HandleListFunds returns the catalog, optionally filtered by ?q=.
func (h *FundHandler) HandleListFunds(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	var (
		funds []models.Fund
		err   error
	)
	if query != "" {
		funds, err = h.funds.Search(query)
	} else {
		funds, err = h.funds.List()
	}
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Error listing funds: %v", err), http.StatusInternalServerError)
		return
	}
	if funds == nil {
		funds = []models.Fund{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(funds); err != nil {
		logger.L.Error("Error generating JSON response for fund list", "error", err)
	}
}

func (h *FundHandler) HandleGetFund(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		utils.SendJSONError(w, "Invalid fund id", http.StatusBadRequest)
		return
	}

	fund, err := h.funds.GetByID(id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			utils.SendJSONError(w, "Fund not found", http.StatusNotFound)
			return
		}
		utils.SendJSONError(w, fmt.Sprintf("Error fetching fund %d: %v", id, err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(fund)
}
