package services

import (
	"errors"
	"io"

	"github.com/archReactor04/TradeFlow/src/models"
)

var (
	ErrParsingFailed    = errors.New("csv parsing failed")
	ErrProcessingFailed = errors.New("trade processing failed")
	ErrNotFound         = errors.New("not found")
)

// ImportPreview is what the review screen renders before the user commits an
// import: the normalized drafts plus counts for the summary banner.
type ImportPreview struct {
	Trades        []models.TradeDraft `json:"trades"`
	RawCount      int                 `json:"rawCount"`
	ScaleOutCount int                 `json:"scaleOutCount"`
	OpenPositions int                 `json:"openPositions"`
	Broker        string              `json:"broker"`
}

// ImportCommitResult reports what a commit stored.
type ImportCommitResult struct {
	Imported int      `json:"imported"`
	IDs      []string `json:"ids"`
}

// ImportService turns a broker CSV export into normalized trades and stores
// them once the user confirms. The parse/merge steps are pure; only Commit
// touches the database.
type ImportService interface {
	Preview(fileReader io.Reader, broker string, merge bool) (*ImportPreview, error)
	MergeSelection(drafts []models.TradeDraft, indexes []int) ([]models.TradeDraft, error)
	UnmergeAt(drafts []models.TradeDraft, index int) ([]models.TradeDraft, error)
	Commit(drafts []models.TradeDraft, accountID string) (*ImportCommitResult, error)
}

// JournalService serves the stored journal: trade CRUD, reference data and
// aggregate statistics.
type JournalService interface {
	ListTrades() ([]models.Trade, error)
	GetTrade(id string) (*models.Trade, error)
	CreateTrade(trade models.Trade) (*models.Trade, error)
	UpdateTrade(id string, trade models.Trade) error
	DeleteTrade(id string) error
	Stats() (*models.JournalStats, error)

	ListAccounts() ([]models.Account, error)
	CreateAccount(account models.Account) (*models.Account, error)
	DeleteAccount(id string) error

	ListStrategies() ([]models.Strategy, error)
	CreateStrategy(strategy models.Strategy) (*models.Strategy, error)
	DeleteStrategy(id string) error

	InvalidateCache()
}
