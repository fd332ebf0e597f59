package processors

import (
	"reflect"
	"strings"
	"testing"

	"github.com/archReactor04/TradeFlow/src/models"
)

func TestMergeCombinesSelection(t *testing.T) {
	m := NewTradeMerger()
	drafts := []models.TradeDraft{
		draft("ESM5", "short", "", "2025-02-03T08:00:00", "2025-02-03T08:10:00", 5900, 5898, 1, 100),
		draft("MNQH5", "long", "", "2025-02-03T09:00:00", "2025-02-03T09:10:00", 21000, 21010, 2, 40),
		draft("MNQH5", "long", "", "2025-02-03T09:00:00", "2025-02-03T09:20:00", 21000, 21020, 2, 80),
	}

	result, err := m.Merge(drafts, []int{1, 2})
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("expected 2 drafts after merge, got %d", len(result))
	}
	if result[0].Symbol != "ESM5" {
		t.Errorf("unselected draft should stay in place, got %q first", result[0].Symbol)
	}

	merged := result[1]
	if !merged.Merged {
		t.Errorf("merged draft should be flagged Merged")
	}
	if len(merged.Originals) != 2 {
		t.Fatalf("merged draft should keep its 2 originals, got %d", len(merged.Originals))
	}
	if merged.PositionSize != 4 || merged.Pnl != 120 {
		t.Errorf("size/pnl = %d/%v, want 4/120", merged.PositionSize, merged.Pnl)
	}
	if merged.ExitPrice != 21015 {
		t.Errorf("weighted exit = %v, want 21015", merged.ExitPrice)
	}
	if len(merged.TakeProfits) != 2 {
		t.Errorf("expected one take-profit leg per constituent, got %d", len(merged.TakeProfits))
	}
}

func TestMergeInsertsAtFirstSelectedPosition(t *testing.T) {
	m := NewTradeMerger()
	drafts := []models.TradeDraft{
		draft("MNQH5", "long", "", "2025-02-03T09:00:00", "2025-02-03T09:10:00", 21000, 21010, 1, 20),
		draft("ESM5", "short", "", "2025-02-03T09:30:00", "2025-02-03T09:40:00", 5900, 5898, 1, 100),
		draft("MNQH5", "long", "", "2025-02-03T10:00:00", "2025-02-03T10:10:00", 21020, 21030, 1, 20),
	}

	// selection order should not matter
	result, err := m.Merge(drafts, []int{2, 0})
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("expected 2 drafts, got %d", len(result))
	}
	if !result[0].Merged {
		t.Errorf("merged draft should sit at the first selected position")
	}
	if result[1].Symbol != "ESM5" {
		t.Errorf("unselected draft out of place: %q", result[1].Symbol)
	}
}

func TestMergeRejectsFewerThanTwo(t *testing.T) {
	m := NewTradeMerger()
	drafts := []models.TradeDraft{
		draft("MNQH5", "long", "", "2025-02-03T09:00:00", "2025-02-03T09:10:00", 21000, 21010, 1, 20),
	}

	if _, err := m.Merge(drafts, []int{0}); err == nil {
		t.Errorf("expected error for single selection")
	}
	// duplicate indexes collapse to one selection
	if _, err := m.Merge(drafts, []int{0, 0}); err == nil {
		t.Errorf("expected error for duplicate-only selection")
	}
}

func TestMergeRejectsMixedSymbols(t *testing.T) {
	m := NewTradeMerger()
	drafts := []models.TradeDraft{
		draft("MNQH5", "long", "", "2025-02-03T09:00:00", "2025-02-03T09:10:00", 21000, 21010, 1, 20),
		draft("ESM5", "long", "", "2025-02-03T09:30:00", "2025-02-03T09:40:00", 5900, 5902, 1, 100),
	}

	_, err := m.Merge(drafts, []int{0, 1})
	if err == nil {
		t.Fatalf("expected error for mixed symbols")
	}
	if !strings.Contains(err.Error(), "different symbols") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestMergeRejectsMixedDirections(t *testing.T) {
	m := NewTradeMerger()
	drafts := []models.TradeDraft{
		draft("MNQH5", "long", "", "2025-02-03T09:00:00", "2025-02-03T09:10:00", 21000, 21010, 1, 20),
		draft("MNQH5", "short", "", "2025-02-03T09:30:00", "2025-02-03T09:40:00", 21020, 21015, 1, 10),
	}

	_, err := m.Merge(drafts, []int{0, 1})
	if err == nil {
		t.Fatalf("expected error for mixed directions")
	}
	if !strings.Contains(err.Error(), "different directions") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestMergeRejectsOutOfRangeIndex(t *testing.T) {
	m := NewTradeMerger()
	drafts := []models.TradeDraft{
		draft("MNQH5", "long", "", "2025-02-03T09:00:00", "2025-02-03T09:10:00", 21000, 21010, 1, 20),
	}
	if _, err := m.Merge(drafts, []int{0, 5}); err == nil {
		t.Errorf("expected error for out-of-range index")
	}
	if _, err := m.Merge(drafts, []int{-1, 0}); err == nil {
		t.Errorf("expected error for negative index")
	}
}

func TestUnmergeRestoresOriginals(t *testing.T) {
	m := NewTradeMerger()
	drafts := []models.TradeDraft{
		draft("ESM5", "short", "", "2025-02-03T08:00:00", "2025-02-03T08:10:00", 5900, 5898, 1, 100),
		draft("MNQH5", "long", "", "2025-02-03T09:00:00", "2025-02-03T09:10:00", 21000, 21010, 2, 40),
		draft("MNQH5", "long", "", "2025-02-03T09:00:00", "2025-02-03T09:20:00", 21000, 21020, 2, 80),
	}

	afterMerge, err := m.Merge(drafts, []int{1, 2})
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}

	restored, err := m.Unmerge(afterMerge, 1)
	if err != nil {
		t.Fatalf("Unmerge() error = %v", err)
	}
	if !reflect.DeepEqual(restored, drafts) {
		t.Errorf("unmerge did not restore the original drafts:\ngot  %+v\nwant %+v", restored, drafts)
	}
}

func TestUnmergeRejectsNonMergedTrade(t *testing.T) {
	m := NewTradeMerger()
	drafts := []models.TradeDraft{
		draft("MNQH5", "long", "", "2025-02-03T09:00:00", "2025-02-03T09:10:00", 21000, 21010, 1, 20),
	}

	if _, err := m.Unmerge(drafts, 0); err == nil {
		t.Errorf("expected error unmerging a plain trade")
	}
	if _, err := m.Unmerge(drafts, 3); err == nil {
		t.Errorf("expected error for out-of-range index")
	}
}
