package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/archReactor04/TradeFlow/src/config"
	"github.com/archReactor04/TradeFlow/src/logger"
	"github.com/archReactor04/TradeFlow/src/models"
	"github.com/archReactor04/TradeFlow/src/parsers"
	"github.com/archReactor04/TradeFlow/src/security/validation"
	"github.com/archReactor04/TradeFlow/src/services"
	"github.com/archReactor04/TradeFlow/src/utils"
)

type ImportHandler struct {
	importService services.ImportService
}

func NewImportHandler(service services.ImportService) *ImportHandler {
	return &ImportHandler{
		importService: service,
	}
}

// HandleListBrokers returns the supported brokers for the import dropdown.
func (h *ImportHandler) HandleListBrokers(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(parsers.Brokers()); err != nil {
		logger.L.Error("Error encoding broker list", "error", err)
	}
}

// HandlePreview accepts a multipart CSV upload plus a broker name and an
// optional merge flag, and returns the parsed trade drafts for review.
// Nothing is persisted until the user commits.
func (h *ImportHandler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(config.Cfg.MaxUploadSizeBytes); err != nil {
		logger.L.Warn("Failed to parse multipart form or request too large", "error", err, "limit", config.Cfg.MaxUploadSizeBytes)
		utils.SendJSONError(w, fmt.Sprintf("Failed to parse form or request too large (max %d MB)", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	broker := r.FormValue("broker")
	if broker == "" {
		utils.SendJSONError(w, "Missing 'broker' form field.", http.StatusBadRequest)
		return
	}
	merge, _ := strconv.ParseBool(r.FormValue("merge"))

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		logger.L.Warn("Failed to retrieve file from request", "error", err)
		utils.SendJSONError(w, "Failed to retrieve file from request. Ensure 'file' field is used.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if fileHeader.Size > config.Cfg.MaxUploadSizeBytes {
		logger.L.Warn("Uploaded file header reports size too large", "fileSize", fileHeader.Size, "limit", config.Cfg.MaxUploadSizeBytes)
		utils.SendJSONError(w, fmt.Sprintf("File too large, max %d MB (header check)", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	clientContentType := fileHeader.Header.Get("Content-Type")
	if err := validation.ValidateClientContentType(clientContentType); err != nil {
		logger.L.Warn("Invalid client-declared file type", "contentType", clientContentType, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	detectedContentType, err := validation.ValidateFileContentByMagicBytes(file)
	if err != nil {
		logger.L.Warn("Server-side file content validation failed", "filename", fileHeader.Filename, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	logger.L.Info("File content validated", "filename", fileHeader.Filename, "clientType", clientContentType, "detectedType", detectedContentType)

	preview, err := h.importService.Preview(file, broker, merge)
	if err != nil {
		if errors.Is(err, services.ErrParsingFailed) {
			logger.L.Warn("Import preview failed due to CSV parsing errors", "filename", fileHeader.Filename, "broker", broker, "error", err)
			utils.SendJSONError(w, fmt.Sprintf("Failed to parse CSV: %v", err), http.StatusBadRequest)
		} else {
			logger.L.Error("Internal error during import preview", "filename", fileHeader.Filename, "broker", broker, "error", err)
			utils.SendJSONError(w, "An internal error occurred while processing the file. Please try again later.", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(preview); err != nil {
		logger.L.Error("Error encoding JSON response for import preview", "error", err)
	}
}

type mergeRequest struct {
	Trades  []models.TradeDraft `json:"trades"`
	Indexes []int               `json:"indexes"`
}

type unmergeRequest struct {
	Trades []models.TradeDraft `json:"trades"`
	Index  int                 `json:"index"`
}

type draftsResponse struct {
	Trades []models.TradeDraft `json:"trades"`
}

// HandleMerge merges a user-selected subset of previewed drafts. The merged
// draft retains its constituents so it can be unmerged later.
func (h *ImportHandler) HandleMerge(w http.ResponseWriter, r *http.Request) {
	var req mergeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body.", http.StatusBadRequest)
		return
	}

	merged, err := h.importService.MergeSelection(req.Trades, req.Indexes)
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(draftsResponse{Trades: merged}); err != nil {
		logger.L.Error("Error encoding merge response", "error", err)
	}
}

// HandleUnmerge restores the constituents of a previously merged draft.
func (h *ImportHandler) HandleUnmerge(w http.ResponseWriter, r *http.Request) {
	var req unmergeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body.", http.StatusBadRequest)
		return
	}

	restored, err := h.importService.UnmergeAt(req.Trades, req.Index)
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(draftsResponse{Trades: restored}); err != nil {
		logger.L.Error("Error encoding unmerge response", "error", err)
	}
}

type commitRequest struct {
	Trades    []models.TradeDraft `json:"trades"`
	AccountID string              `json:"accountId"`
}

// HandleCommit stores the reviewed drafts as journal trades.
func (h *ImportHandler) HandleCommit(w http.ResponseWriter, r *http.Request) {
	var req commitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body.", http.StatusBadRequest)
		return
	}

	result, err := h.importService.Commit(req.Trades, req.AccountID)
	if err != nil {
		logger.L.Error("Internal error committing import", "error", err)
		utils.SendJSONError(w, "An internal error occurred while saving trades. Please try again later.", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		logger.L.Error("Error encoding commit response", "error", err)
	}
}
