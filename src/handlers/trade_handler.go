package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/archReactor04/TradeFlow/src/logger"
	"github.com/archReactor04/TradeFlow/src/models"
	"github.com/archReactor04/TradeFlow/src/security/validation"
	"github.com/archReactor04/TradeFlow/src/services"
	"github.com/archReactor04/TradeFlow/src/utils"
)

type TradeHandler struct {
	journalService services.JournalService
}

func NewTradeHandler(service services.JournalService) *TradeHandler {
	return &TradeHandler{
		journalService: service,
	}
}

func (h *TradeHandler) HandleListTrades(w http.ResponseWriter, r *http.Request) {
	trades, err := h.journalService.ListTrades()
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Error querying trades: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(trades); err != nil {
		logger.L.Error("Error generating JSON response for trades", "error", err)
	}
}

func (h *TradeHandler) HandleGetTrade(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	trade, err := h.journalService.GetTrade(id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.SendJSONError(w, fmt.Sprintf("Trade %s not found", id), http.StatusNotFound)
		} else {
			utils.SendJSONError(w, fmt.Sprintf("Error querying trade %s: %v", id, err), http.StatusInternalServerError)
		}
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(trade); err != nil {
		logger.L.Error("Error generating JSON response for trade", "id", id, "error", err)
	}
}

func (h *TradeHandler) HandleCreateTrade(w http.ResponseWriter, r *http.Request) {
	var trade models.Trade
	if err := json.NewDecoder(r.Body).Decode(&trade); err != nil {
		utils.SendJSONError(w, "Invalid request body.", http.StatusBadRequest)
		return
	}
	if trade.Symbol == "" {
		utils.SendJSONError(w, "Trade symbol is required.", http.StatusBadRequest)
		return
	}
	trade.Notes = validation.StripUnprintable(trade.Notes)

	created, err := h.journalService.CreateTrade(trade)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Error creating trade: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(created); err != nil {
		logger.L.Error("Error encoding created trade", "error", err)
	}
}

func (h *TradeHandler) HandleUpdateTrade(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var trade models.Trade
	if err := json.NewDecoder(r.Body).Decode(&trade); err != nil {
		utils.SendJSONError(w, "Invalid request body.", http.StatusBadRequest)
		return
	}
	trade.Notes = validation.StripUnprintable(trade.Notes)

	if err := h.journalService.UpdateTrade(id, trade); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.SendJSONError(w, fmt.Sprintf("Trade %s not found", id), http.StatusNotFound)
		} else {
			utils.SendJSONError(w, fmt.Sprintf("Error updating trade %s: %v", id, err), http.StatusInternalServerError)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TradeHandler) HandleDeleteTrade(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.journalService.DeleteTrade(id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.SendJSONError(w, fmt.Sprintf("Trade %s not found", id), http.StatusNotFound)
		} else {
			utils.SendJSONError(w, fmt.Sprintf("Error deleting trade %s: %v", id, err), http.StatusInternalServerError)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleGetStats serves the aggregate journal statistics with ETag support
// so the dashboard can poll cheaply.
func (h *TradeHandler) HandleGetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.journalService.Stats()
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Error computing journal stats: %v", err), http.StatusInternalServerError)
		return
	}

	currentETag, etagErr := utils.GenerateETag(stats)
	if etagErr != nil {
		logger.L.Error("Failed to generate ETag for journal stats", "error", etagErr)
	}

	w.Header().Set("Cache-Control", "no-cache, private")

	if etagErr == nil && currentETag != "" {
		quotedETag := fmt.Sprintf("\"%s\"", currentETag)
		w.Header().Set("ETag", quotedETag)
		clientETag := r.Header.Get("If-None-Match")
		for _, cETag := range strings.Split(clientETag, ",") {
			if strings.TrimSpace(cETag) == quotedETag {
				logger.L.Debug("ETag match for journal stats", "etag", currentETag)
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(stats); err != nil {
		logger.L.Error("Error generating JSON response for journal stats", "error", err)
	}
}
