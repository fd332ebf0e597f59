package processors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/archReactor04/TradeFlow/src/models"
)

// TradeMerger is the manual counterpart to the scale-out pass: the user
// selects an arbitrary subset of drafts to merge, restricted to one symbol
// and direction. The merged draft keeps its constituents so Unmerge can
// restore them exactly.
type TradeMerger struct{}

func NewTradeMerger() *TradeMerger {
	return &TradeMerger{}
}

// Merge combines the drafts at the given indexes into one merged draft,
// inserted at the position of the first selected draft. Index order in the
// input does not matter; duplicates are ignored.
func (m *TradeMerger) Merge(drafts []models.TradeDraft, indexes []int) ([]models.TradeDraft, error) {
	unique := uniqueSortedIndexes(indexes)
	if len(unique) < 2 {
		return nil, fmt.Errorf("select 2+ trades with the same symbol and direction")
	}
	for _, i := range unique {
		if i < 0 || i >= len(drafts) {
			return nil, fmt.Errorf("trade index %d out of range", i)
		}
	}

	toMerge := make([]models.TradeDraft, 0, len(unique))
	for _, i := range unique {
		toMerge = append(toMerge, drafts[i])
	}

	if symbols := distinct(toMerge, func(t models.TradeDraft) string { return t.Symbol }); len(symbols) > 1 {
		return nil, fmt.Errorf("cannot merge: selected trades have different symbols (%s)", strings.Join(symbols, ", "))
	}
	if directions := distinct(toMerge, func(t models.TradeDraft) string { return t.Direction }); len(directions) > 1 {
		return nil, fmt.Errorf("cannot merge: selected trades have different directions (%s)", strings.Join(directions, ", "))
	}

	merged := models.TradeDraft{
		Trade:     buildMergedTrade(toMerge),
		Merged:    true,
		Originals: toMerge,
	}

	selected := make(map[int]bool, len(unique))
	for _, i := range unique {
		selected[i] = true
	}

	result := make([]models.TradeDraft, 0, len(drafts)-len(unique)+1)
	inserted := false
	for i, t := range drafts {
		if selected[i] {
			if !inserted {
				result = append(result, merged)
				inserted = true
			}
			continue
		}
		result = append(result, t)
	}
	return result, nil
}

// Unmerge replaces the merged draft at the given index with its original
// constituent drafts, restoring them exactly as they were before the merge.
func (m *TradeMerger) Unmerge(drafts []models.TradeDraft, index int) ([]models.TradeDraft, error) {
	if index < 0 || index >= len(drafts) {
		return nil, fmt.Errorf("trade index %d out of range", index)
	}
	trade := drafts[index]
	if !trade.Merged || len(trade.Originals) == 0 {
		return nil, fmt.Errorf("trade at index %d is not a merged trade", index)
	}

	result := make([]models.TradeDraft, 0, len(drafts)-1+len(trade.Originals))
	for i, t := range drafts {
		if i == index {
			result = append(result, trade.Originals...)
			continue
		}
		result = append(result, t)
	}
	return result, nil
}

func uniqueSortedIndexes(indexes []int) []int {
	seen := make(map[int]bool, len(indexes))
	var unique []int
	for _, i := range indexes {
		if !seen[i] {
			seen[i] = true
			unique = append(unique, i)
		}
	}
	sort.Ints(unique)
	return unique
}

// distinct collects unique values in first-seen order.
func distinct(trades []models.TradeDraft, key func(models.TradeDraft) string) []string {
	seen := make(map[string]bool, len(trades))
	var values []string
	for _, t := range trades {
		v := key(t)
		if !seen[v] {
			seen[v] = true
			values = append(values, v)
		}
	}
	return values
}
