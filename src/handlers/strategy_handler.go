package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/archReactor04/TradeFlow/src/logger"
	"github.com/archReactor04/TradeFlow/src/models"
	"github.com/archReactor04/TradeFlow/src/security/validation"
	"github.com/archReactor04/TradeFlow/src/services"
	"github.com/archReactor04/TradeFlow/src/utils"
)

type StrategyHandler struct {
	journalService services.JournalService
}

func NewStrategyHandler(service services.JournalService) *StrategyHandler {
	return &StrategyHandler{
		journalService: service,
	}
}

func (h *StrategyHandler) HandleListStrategies(w http.ResponseWriter, r *http.Request) {
	strategies, err := h.journalService.ListStrategies()
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Error querying strategies: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(strategies); err != nil {
		logger.L.Error("Error generating JSON response for strategies", "error", err)
	}
}

func (h *StrategyHandler) HandleCreateStrategy(w http.ResponseWriter, r *http.Request) {
	var strategy models.Strategy
	if err := json.NewDecoder(r.Body).Decode(&strategy); err != nil {
		utils.SendJSONError(w, "Invalid request body.", http.StatusBadRequest)
		return
	}
	strategy.Name = validation.StripUnprintable(strategy.Name)
	if strategy.Name == "" {
		utils.SendJSONError(w, "Strategy name is required.", http.StatusBadRequest)
		return
	}

	created, err := h.journalService.CreateStrategy(strategy)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Error creating strategy: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(created); err != nil {
		logger.L.Error("Error encoding created strategy", "error", err)
	}
}

func (h *StrategyHandler) HandleDeleteStrategy(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.journalService.DeleteStrategy(id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.SendJSONError(w, fmt.Sprintf("Strategy %s not found", id), http.StatusNotFound)
		} else {
			utils.SendJSONError(w, fmt.Sprintf("Error deleting strategy %s: %v", id, err), http.StatusInternalServerError)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
