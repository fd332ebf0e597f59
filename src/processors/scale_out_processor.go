package processors

import (
	"sort"
	"strings"

	"github.com/archReactor04/TradeFlow/src/models"
	"github.com/archReactor04/TradeFlow/src/utils"
)

// ScaleOutProcessor folds same-day round-trips of one symbol and direction
// into a single trade with one take-profit leg per constituent. Brokers that
// report every partial exit as its own row produce several "trades" for what
// the trader considers one scaled-out position; this is the post-parse pass
// that undoes that.
type ScaleOutProcessor struct{}

func NewScaleOutProcessor() *ScaleOutProcessor {
	return &ScaleOutProcessor{}
}

// MergeResult is the outcome of a scale-out merge pass.
type MergeResult struct {
	Trades        []models.TradeDraft `json:"trades"`
	ScaleOutCount int                 `json:"scaleOutCount"`
}

// Process groups drafts by symbol|direction|trade-day and merges each
// multi-member group. Single-member groups pass through with their transient
// hint fields stripped; if such a trade already carries 2+ take-profit legs
// it still counts as a scale-out.
func (p *ScaleOutProcessor) Process(drafts []models.TradeDraft) MergeResult {
	var keyOrder []string
	groups := make(map[string][]models.TradeDraft)

	for _, trade := range drafts {
		day := trade.TradeDay
		if day == "" {
			day = datePart(trade.EntryDate)
		}
		if day == "" {
			day = "unknown"
		}
		key := trade.Symbol + "|" + trade.Direction + "|" + day
		if _, seen := groups[key]; !seen {
			keyOrder = append(keyOrder, key)
		}
		groups[key] = append(groups[key], trade)
	}

	merged := []models.TradeDraft{}
	scaleOutCount := 0

	for _, key := range keyOrder {
		group := groups[key]
		if len(group) == 1 {
			t := group[0]
			t.TradeDay = ""
			t.Account = ""
			merged = append(merged, t)
			if len(t.TakeProfits) > 1 {
				scaleOutCount++
			}
			continue
		}

		scaleOutCount++
		merged = append(merged, models.TradeDraft{Trade: buildMergedTrade(group)})
	}

	return MergeResult{Trades: merged, ScaleOutCount: scaleOutCount}
}

// buildMergedTrade combines 2+ drafts of one symbol and direction into a
// single trade: entry from the earliest member, exit date from the latest,
// size/pnl/fees/commissions summed, exit price as the size-weighted average,
// and one take-profit leg per member in entry order.
func buildMergedTrade(group []models.TradeDraft) models.Trade {
	sorted := make([]models.TradeDraft, len(group))
	copy(sorted, group)
	sort.SliceStable(sorted, func(i, j int) bool {
		ti, _ := utils.ParseTimestamp(sorted[i].EntryDate)
		tj, _ := utils.ParseTimestamp(sorted[j].EntryDate)
		return ti.Before(tj)
	})

	first := sorted[0]
	last := sorted[len(sorted)-1]

	totalSize := 0
	totalPnl, totalFees, totalCommissions := 0.0, 0.0, 0.0
	weightedExitSum := 0.0
	takeProfits := make([]models.TakeProfit, 0, len(sorted))

	for _, t := range sorted {
		totalSize += t.PositionSize
		totalPnl += t.Pnl
		totalFees += t.Fees
		totalCommissions += t.Commissions
		weightedExitSum += t.ExitPrice * float64(t.PositionSize)
		takeProfits = append(takeProfits, models.TakeProfit{
			Price:    t.ExitPrice,
			Quantity: t.PositionSize,
			Date:     t.ExitDate,
		})
	}

	weightedExitPrice := 0.0
	if totalSize > 0 {
		weightedExitPrice = weightedExitSum / float64(totalSize)
	}

	return models.Trade{
		Symbol:        first.Symbol,
		Direction:     first.Direction,
		EntryPrice:    first.EntryPrice,
		ExitPrice:     utils.RoundFloat(weightedExitPrice, 2),
		EntryDate:     first.EntryDate,
		ExitDate:      last.ExitDate,
		PositionSize:  totalSize,
		Pnl:           utils.RoundFloat(totalPnl, 2),
		Fees:          utils.RoundFloat(totalFees, 2),
		Commissions:   utils.RoundFloat(totalCommissions, 2),
		TradeDuration: utils.ComputeDurationSeconds(first.EntryDate, last.ExitDate),
		Tags:          []string{},
		TakeProfits:   takeProfits,
		Notes:         "",
	}
}

func datePart(isoDate string) string {
	return strings.SplitN(isoDate, "T", 2)[0]
}
