package parsers

import (
	"github.com/archReactor04/TradeFlow/src/models"
)

// BrokerParser is the contract every broker import implements. Parse consumes
// the full CSV text of one export file and returns normalized trade drafts,
// ordered by the time their closing fill (or source row) occurs.
type BrokerParser interface {
	Name() string
	Label() string
	Parse(text string) ([]models.TradeDraft, error)
}

// OpenPositionReporter is implemented by parsers that reconstruct round-trips
// from raw fills and can report how many instruments ended the file with a
// position still open. Those incomplete round-trips produce no trades, but
// the count is surfaced so the caller can warn the user.
type OpenPositionReporter interface {
	OpenPositions() int
}
