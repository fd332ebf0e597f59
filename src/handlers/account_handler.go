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

type AccountHandler struct {
	journalService services.JournalService
}

func NewAccountHandler(service services.JournalService) *AccountHandler {
	return &AccountHandler{
		journalService: service,
	}
}

func (h *AccountHandler) HandleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.journalService.ListAccounts()
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Error querying accounts: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(accounts); err != nil {
		logger.L.Error("Error generating JSON response for accounts", "error", err)
	}
}

func (h *AccountHandler) HandleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var account models.Account
	if err := json.NewDecoder(r.Body).Decode(&account); err != nil {
		utils.SendJSONError(w, "Invalid request body.", http.StatusBadRequest)
		return
	}
	account.Name = validation.StripUnprintable(account.Name)
	if account.Name == "" {
		utils.SendJSONError(w, "Account name is required.", http.StatusBadRequest)
		return
	}

	created, err := h.journalService.CreateAccount(account)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Error creating account: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(created); err != nil {
		logger.L.Error("Error encoding created account", "error", err)
	}
}

func (h *AccountHandler) HandleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.journalService.DeleteAccount(id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.SendJSONError(w, fmt.Sprintf("Account %s not found", id), http.StatusNotFound)
		} else {
			utils.SendJSONError(w, fmt.Sprintf("Error deleting account %s: %v", id, err), http.StatusInternalServerError)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
