package services

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/archReactor04/TradeFlow/src/database"
	"github.com/archReactor04/TradeFlow/src/logger"
	"github.com/archReactor04/TradeFlow/src/models"
	"github.com/archReactor04/TradeFlow/src/parsers"
	"github.com/archReactor04/TradeFlow/src/processors"
	"github.com/google/uuid"
)

type importServiceImpl struct {
	scaleOutProcessor *processors.ScaleOutProcessor
	tradeMerger       *processors.TradeMerger
	journalService    JournalService
}

func NewImportService(
	scaleOutProcessor *processors.ScaleOutProcessor,
	tradeMerger *processors.TradeMerger,
	journalService JournalService,
) ImportService {
	return &importServiceImpl{
		scaleOutProcessor: scaleOutProcessor,
		tradeMerger:       tradeMerger,
		journalService:    journalService,
	}
}

func (s *importServiceImpl) Preview(fileReader io.Reader, broker string, merge bool) (*ImportPreview, error) {
	startTime := time.Now()
	logger.L.Info("Import preview START", "broker", broker, "merge", merge)

	parser, err := parsers.GetParser(broker)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}

	text, err := io.ReadAll(fileReader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading upload: %v", ErrParsingFailed, err)
	}

	drafts, err := parser.Parse(string(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}

	preview := &ImportPreview{
		Trades:   drafts,
		RawCount: len(drafts),
		Broker:   broker,
	}
	if reporter, ok := parser.(parsers.OpenPositionReporter); ok {
		preview.OpenPositions = reporter.OpenPositions()
	}

	if merge {
		result := s.scaleOutProcessor.Process(drafts)
		preview.Trades = result.Trades
		preview.ScaleOutCount = result.ScaleOutCount
	}

	logger.L.Info("Import preview END", "broker", broker,
		"rawCount", preview.RawCount, "tradeCount", len(preview.Trades),
		"scaleOutCount", preview.ScaleOutCount, "openPositions", preview.OpenPositions,
		"duration", time.Since(startTime))
	return preview, nil
}

func (s *importServiceImpl) MergeSelection(drafts []models.TradeDraft, indexes []int) ([]models.TradeDraft, error) {
	merged, err := s.tradeMerger.Merge(drafts, indexes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProcessingFailed, err)
	}
	return merged, nil
}

func (s *importServiceImpl) UnmergeAt(drafts []models.TradeDraft, index int) ([]models.TradeDraft, error) {
	restored, err := s.tradeMerger.Unmerge(drafts, index)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProcessingFailed, err)
	}
	return restored, nil
}

// Commit strips the transient draft bookkeeping, assigns IDs and stores the
// trades. The parsers never generate IDs; that happens here, at the
// persistence boundary.
func (s *importServiceImpl) Commit(drafts []models.TradeDraft, accountID string) (*ImportCommitResult, error) {
	if len(drafts) == 0 {
		return &ImportCommitResult{IDs: []string{}}, nil
	}

	dbTx, err := database.DB.Begin()
	if err != nil {
		return nil, fmt.Errorf("error beginning database transaction: %w", err)
	}
	defer dbTx.Rollback()

	stmt, err := dbTx.Prepare(`INSERT INTO trades
		(id, symbol, direction, entry_price, exit_price, entry_date, exit_date,
		position_size, pnl, fees, commissions, trade_duration, tags, take_profits,
		notes, images, account_id, strategy_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("error preparing insert statement: %w", err)
	}
	defer stmt.Close()

	ids := make([]string, 0, len(drafts))
	for _, draft := range drafts {
		trade := draft.Trade
		trade.ID = uuid.NewString()
		if trade.AccountID == "" {
			trade.AccountID = accountID
		}

		tagsJSON, tpJSON, imagesJSON, err := marshalTradeLists(trade)
		if err != nil {
			return nil, fmt.Errorf("error encoding trade fields (symbol: %s): %w", trade.Symbol, err)
		}

		var duration interface{}
		if trade.TradeDuration != nil {
			duration = *trade.TradeDuration
		}

		if _, err := stmt.Exec(trade.ID, trade.Symbol, trade.Direction,
			trade.EntryPrice, trade.ExitPrice, trade.EntryDate, trade.ExitDate,
			trade.PositionSize, trade.Pnl, trade.Fees, trade.Commissions,
			duration, tagsJSON, tpJSON, trade.Notes, imagesJSON,
			trade.AccountID, trade.StrategyID); err != nil {
			return nil, fmt.Errorf("error inserting trade (symbol: %s): %w", trade.Symbol, err)
		}
		ids = append(ids, trade.ID)
	}

	if err := dbTx.Commit(); err != nil {
		return nil, fmt.Errorf("error committing trades: %w", err)
	}

	s.journalService.InvalidateCache()
	logger.L.Info("Import commit complete", "imported", len(ids), "accountID", accountID)
	return &ImportCommitResult{Imported: len(ids), IDs: ids}, nil
}

// marshalTradeLists encodes the slice-valued trade fields as JSON text for
// storage, normalizing nil to empty lists so the columns never hold "null".
func marshalTradeLists(trade models.Trade) (tags, takeProfits, images string, err error) {
	if trade.Tags == nil {
		trade.Tags = []string{}
	}
	if trade.TakeProfits == nil {
		trade.TakeProfits = []models.TakeProfit{}
	}
	if trade.Images == nil {
		trade.Images = []string{}
	}

	tagsBytes, err := json.Marshal(trade.Tags)
	if err != nil {
		return "", "", "", err
	}
	tpBytes, err := json.Marshal(trade.TakeProfits)
	if err != nil {
		return "", "", "", err
	}
	imagesBytes, err := json.Marshal(trade.Images)
	if err != nil {
		return "", "", "", err
	}
	return string(tagsBytes), string(tpBytes), string(imagesBytes), nil
}
