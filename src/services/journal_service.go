package services

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/archReactor04/TradeFlow/src/database"
	"github.com/archReactor04/TradeFlow/src/logger"
	"github.com/archReactor04/TradeFlow/src/models"
	"github.com/archReactor04/TradeFlow/src/utils"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

const (
	ckJournalStats = "agg_journal_stats"

	DefaultCacheExpiration = 15 * time.Minute
	CacheCleanupInterval   = 30 * time.Minute
)

type journalServiceImpl struct {
	reportCache *cache.Cache
}

func NewJournalService(reportCache *cache.Cache) JournalService {
	return &journalServiceImpl{reportCache: reportCache}
}

// InvalidateCache clears cached aggregates after any trade write, forcing a
// recalculation on the next request.
func (s *journalServiceImpl) InvalidateCache() {
	s.reportCache.Delete(ckJournalStats)
	logger.L.Debug("Invalidated journal stats cache")
}

const tradeColumns = `id, symbol, direction, entry_price, exit_price, entry_date, exit_date,
	position_size, pnl, fees, commissions, trade_duration, tags, take_profits,
	notes, images, account_id, strategy_id`

func (s *journalServiceImpl) ListTrades() ([]models.Trade, error) {
	rows, err := database.DB.Query(`SELECT ` + tradeColumns + ` FROM trades ORDER BY entry_date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("error querying trades: %w", err)
	}
	defer rows.Close()

	trades := []models.Trade{}
	for rows.Next() {
		trade, scanErr := scanTrade(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		trades = append(trades, *trade)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over trade rows: %w", err)
	}
	return trades, nil
}

func (s *journalServiceImpl) GetTrade(id string) (*models.Trade, error) {
	row := database.DB.QueryRow(`SELECT `+tradeColumns+` FROM trades WHERE id = ?`, id)
	trade, err := scanTrade(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: trade %s", ErrNotFound, id)
		}
		return nil, err
	}
	return trade, nil
}

func (s *journalServiceImpl) CreateTrade(trade models.Trade) (*models.Trade, error) {
	if trade.ID == "" {
		trade.ID = uuid.NewString()
	}
	trade.TradeDuration = utils.ComputeDurationSeconds(trade.EntryDate, trade.ExitDate)

	tagsJSON, tpJSON, imagesJSON, err := marshalTradeLists(trade)
	if err != nil {
		return nil, fmt.Errorf("error encoding trade fields: %w", err)
	}

	var duration interface{}
	if trade.TradeDuration != nil {
		duration = *trade.TradeDuration
	}

	_, err = database.DB.Exec(`INSERT INTO trades
		(id, symbol, direction, entry_price, exit_price, entry_date, exit_date,
		position_size, pnl, fees, commissions, trade_duration, tags, take_profits,
		notes, images, account_id, strategy_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		trade.ID, trade.Symbol, trade.Direction, trade.EntryPrice, trade.ExitPrice,
		trade.EntryDate, trade.ExitDate, trade.PositionSize, trade.Pnl, trade.Fees,
		trade.Commissions, duration, tagsJSON, tpJSON, trade.Notes, imagesJSON,
		trade.AccountID, trade.StrategyID)
	if err != nil {
		return nil, fmt.Errorf("error inserting trade: %w", err)
	}

	s.InvalidateCache()
	return &trade, nil
}

func (s *journalServiceImpl) UpdateTrade(id string, trade models.Trade) error {
	trade.TradeDuration = utils.ComputeDurationSeconds(trade.EntryDate, trade.ExitDate)

	tagsJSON, tpJSON, imagesJSON, err := marshalTradeLists(trade)
	if err != nil {
		return fmt.Errorf("error encoding trade fields: %w", err)
	}

	var duration interface{}
	if trade.TradeDuration != nil {
		duration = *trade.TradeDuration
	}

	result, err := database.DB.Exec(`UPDATE trades SET
		symbol = ?, direction = ?, entry_price = ?, exit_price = ?, entry_date = ?,
		exit_date = ?, position_size = ?, pnl = ?, fees = ?, commissions = ?,
		trade_duration = ?, tags = ?, take_profits = ?, notes = ?, images = ?,
		account_id = ?, strategy_id = ?
		WHERE id = ?`,
		trade.Symbol, trade.Direction, trade.EntryPrice, trade.ExitPrice,
		trade.EntryDate, trade.ExitDate, trade.PositionSize, trade.Pnl, trade.Fees,
		trade.Commissions, duration, tagsJSON, tpJSON, trade.Notes, imagesJSON,
		trade.AccountID, trade.StrategyID, id)
	if err != nil {
		return fmt.Errorf("error updating trade %s: %w", id, err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("%w: trade %s", ErrNotFound, id)
	}

	s.InvalidateCache()
	return nil
}

func (s *journalServiceImpl) DeleteTrade(id string) error {
	result, err := database.DB.Exec("DELETE FROM trades WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("error deleting trade %s: %w", id, err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("%w: trade %s", ErrNotFound, id)
	}

	s.InvalidateCache()
	return nil
}

// Stats computes the aggregate journal view, cached until the next write.
func (s *journalServiceImpl) Stats() (*models.JournalStats, error) {
	if cached, found := s.reportCache.Get(ckJournalStats); found {
		logger.L.Debug("Cache hit for journal stats")
		return cached.(*models.JournalStats), nil
	}
	logger.L.Info("Cache miss for journal stats, recalculating from DB")

	trades, err := s.ListTrades()
	if err != nil {
		return nil, err
	}

	stats := ComputeStats(trades)
	s.reportCache.Set(ckJournalStats, stats, DefaultCacheExpiration)
	return stats, nil
}

// ComputeStats aggregates the journal statistics shown on the dashboard.
func ComputeStats(trades []models.Trade) *models.JournalStats {
	stats := &models.JournalStats{}
	if len(trades) == 0 {
		zero := 0.0
		stats.ProfitFactor = &zero
		return stats
	}

	wins := 0
	totalWins, totalLosses := 0.0, 0.0
	var dayOrder []string
	pnlByDay := make(map[string]float64)
	durationSum, durationCount := int64(0), 0

	for _, t := range trades {
		stats.TotalPnl += t.Pnl
		stats.TotalFees += t.Fees
		stats.TotalCommissions += t.Commissions
		if t.Pnl > 0 {
			wins++
			totalWins += t.Pnl
		} else if t.Pnl < 0 {
			totalLosses += -t.Pnl
		}

		if day := strings.SplitN(t.EntryDate, "T", 2)[0]; day != "" {
			if _, seen := pnlByDay[day]; !seen {
				dayOrder = append(dayOrder, day)
			}
			pnlByDay[day] += t.Pnl
		}

		if t.TradeDuration != nil {
			durationSum += *t.TradeDuration
			durationCount++
		}
	}

	stats.TotalTrades = len(trades)
	stats.WinRate = float64(wins) / float64(len(trades)) * 100
	stats.NetPnl = stats.TotalPnl - stats.TotalFees - stats.TotalCommissions

	// Profit factor is undefined (infinite) when there are wins but no
	// losses; nil signals that to the client.
	if totalLosses > 0 {
		pf := totalWins / totalLosses
		stats.ProfitFactor = &pf
	} else if totalWins > 0 {
		stats.ProfitFactor = nil
	} else {
		zero := 0.0
		stats.ProfitFactor = &zero
	}

	for _, day := range dayOrder {
		pnl := pnlByDay[day]
		if stats.BestDay == nil || pnl > stats.BestDay.Pnl {
			stats.BestDay = &models.DayPnl{Date: day, Pnl: pnl}
		}
		if stats.WorstDay == nil || pnl < stats.WorstDay.Pnl {
			stats.WorstDay = &models.DayPnl{Date: day, Pnl: pnl}
		}
	}

	if durationCount > 0 {
		avg := int64(math.Round(float64(durationSum) / float64(durationCount)))
		stats.AvgDuration = &avg
	}

	return stats
}

func (s *journalServiceImpl) ListAccounts() ([]models.Account, error) {
	rows, err := database.DB.Query("SELECT id, name FROM accounts ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("error querying accounts: %w", err)
	}
	defer rows.Close()

	accounts := []models.Account{}
	for rows.Next() {
		var a models.Account
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			return nil, fmt.Errorf("error scanning account row: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (s *journalServiceImpl) CreateAccount(account models.Account) (*models.Account, error) {
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	if _, err := database.DB.Exec("INSERT INTO accounts (id, name) VALUES (?, ?)", account.ID, account.Name); err != nil {
		return nil, fmt.Errorf("error inserting account: %w", err)
	}
	return &account, nil
}

func (s *journalServiceImpl) DeleteAccount(id string) error {
	result, err := database.DB.Exec("DELETE FROM accounts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("error deleting account %s: %w", id, err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("%w: account %s", ErrNotFound, id)
	}
	return nil
}

func (s *journalServiceImpl) ListStrategies() ([]models.Strategy, error) {
	rows, err := database.DB.Query("SELECT id, name, description FROM strategies ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("error querying strategies: %w", err)
	}
	defer rows.Close()

	strategies := []models.Strategy{}
	for rows.Next() {
		var st models.Strategy
		if err := rows.Scan(&st.ID, &st.Name, &st.Description); err != nil {
			return nil, fmt.Errorf("error scanning strategy row: %w", err)
		}
		strategies = append(strategies, st)
	}
	return strategies, rows.Err()
}

func (s *journalServiceImpl) CreateStrategy(strategy models.Strategy) (*models.Strategy, error) {
	if strategy.ID == "" {
		strategy.ID = uuid.NewString()
	}
	if _, err := database.DB.Exec("INSERT INTO strategies (id, name, description) VALUES (?, ?, ?)",
		strategy.ID, strategy.Name, strategy.Description); err != nil {
		return nil, fmt.Errorf("error inserting strategy: %w", err)
	}
	return &strategy, nil
}

func (s *journalServiceImpl) DeleteStrategy(id string) error {
	result, err := database.DB.Exec("DELETE FROM strategies WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("error deleting strategy %s: %w", id, err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("%w: strategy %s", ErrNotFound, id)
	}
	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTrade(row rowScanner) (*models.Trade, error) {
	var trade models.Trade
	var duration sql.NullInt64
	var tagsJSON, tpJSON, imagesJSON string

	err := row.Scan(&trade.ID, &trade.Symbol, &trade.Direction,
		&trade.EntryPrice, &trade.ExitPrice, &trade.EntryDate, &trade.ExitDate,
		&trade.PositionSize, &trade.Pnl, &trade.Fees, &trade.Commissions,
		&duration, &tagsJSON, &tpJSON, &trade.Notes, &imagesJSON,
		&trade.AccountID, &trade.StrategyID)
	if err != nil {
		return nil, fmt.Errorf("error scanning trade row: %w", err)
	}

	if duration.Valid {
		d := duration.Int64
		trade.TradeDuration = &d
	}
	if err := json.Unmarshal([]byte(tagsJSON), &trade.Tags); err != nil {
		trade.Tags = []string{}
	}
	if err := json.Unmarshal([]byte(tpJSON), &trade.TakeProfits); err != nil {
		trade.TakeProfits = []models.TakeProfit{}
	}
	if err := json.Unmarshal([]byte(imagesJSON), &trade.Images); err != nil {
		trade.Images = []string{}
	}
	if trade.Tags == nil {
		trade.Tags = []string{}
	}
	if trade.TakeProfits == nil {
		trade.TakeProfits = []models.TakeProfit{}
	}
	return &trade, nil
}
