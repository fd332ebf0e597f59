package services

import (
	"testing"

	"github.com/archReactor04/TradeFlow/src/models"
)

func trade(day string, pnl, fees, commissions float64, duration *int64) models.Trade {
	return models.Trade{
		Symbol:        "MNQH5",
		Direction:     models.DirectionLong,
		EntryDate:     day + "T09:30:00",
		Pnl:           pnl,
		Fees:          fees,
		Commissions:   commissions,
		TradeDuration: duration,
	}
}

func sec(s int64) *int64 { return &s }

func TestComputeStatsEmpty(t *testing.T) {
	stats := ComputeStats(nil)
	if stats.TotalTrades != 0 || stats.TotalPnl != 0 {
		t.Errorf("empty journal stats = %+v", stats)
	}
	if stats.ProfitFactor == nil || *stats.ProfitFactor != 0 {
		t.Errorf("empty journal profit factor should be 0, got %v", stats.ProfitFactor)
	}
	if stats.BestDay != nil || stats.WorstDay != nil {
		t.Errorf("empty journal should have no best/worst day")
	}
}

func TestComputeStatsAggregates(t *testing.T) {
	trades := []models.Trade{
		trade("2025-02-03", 100, 2, 1, sec(600)),
		trade("2025-02-03", -40, 2, 1, sec(300)),
		trade("2025-02-04", 60, 2, 1, nil),
		trade("2025-02-05", -20, 2, 1, sec(900)),
	}

	stats := ComputeStats(trades)
	if stats.TotalTrades != 4 {
		t.Errorf("TotalTrades = %d", stats.TotalTrades)
	}
	if stats.TotalPnl != 100 {
		t.Errorf("TotalPnl = %v, want 100", stats.TotalPnl)
	}
	if stats.TotalFees != 8 || stats.TotalCommissions != 4 {
		t.Errorf("fees/commissions = %v/%v", stats.TotalFees, stats.TotalCommissions)
	}
	if stats.NetPnl != 88 {
		t.Errorf("NetPnl = %v, want 88", stats.NetPnl)
	}
	if stats.WinRate != 50 {
		t.Errorf("WinRate = %v, want 50", stats.WinRate)
	}
	// 160 won / 60 lost
	if stats.ProfitFactor == nil || *stats.ProfitFactor != 160.0/60.0 {
		t.Errorf("ProfitFactor = %v", stats.ProfitFactor)
	}

	if stats.BestDay == nil || stats.BestDay.Date != "2025-02-04" || stats.BestDay.Pnl != 60 {
		t.Errorf("BestDay = %+v", stats.BestDay)
	}
	if stats.WorstDay == nil || stats.WorstDay.Date != "2025-02-05" || stats.WorstDay.Pnl != -20 {
		t.Errorf("WorstDay = %+v", stats.WorstDay)
	}

	// mean of 600, 300, 900
	if stats.AvgDuration == nil || *stats.AvgDuration != 600 {
		t.Errorf("AvgDuration = %v, want 600", stats.AvgDuration)
	}
}

func TestComputeStatsDailyPnlGroupsByDay(t *testing.T) {
	// 2025-02-03 nets to +60 across two trades; a single +50 day should win
	trades := []models.Trade{
		trade("2025-02-03", 100, 0, 0, nil),
		trade("2025-02-03", -40, 0, 0, nil),
		trade("2025-02-04", 50, 0, 0, nil),
	}

	stats := ComputeStats(trades)
	if stats.BestDay == nil || stats.BestDay.Date != "2025-02-03" || stats.BestDay.Pnl != 60 {
		t.Errorf("BestDay = %+v, want 2025-02-03 at +60", stats.BestDay)
	}
}

func TestComputeStatsProfitFactorUndefinedWithoutLosses(t *testing.T) {
	stats := ComputeStats([]models.Trade{
		trade("2025-02-03", 100, 0, 0, nil),
		trade("2025-02-04", 50, 0, 0, nil),
	})
	if stats.ProfitFactor != nil {
		t.Errorf("all-win journal should have nil profit factor, got %v", *stats.ProfitFactor)
	}
}

func TestComputeStatsAllLosses(t *testing.T) {
	stats := ComputeStats([]models.Trade{
		trade("2025-02-03", -100, 0, 0, nil),
	})
	if stats.WinRate != 0 {
		t.Errorf("WinRate = %v, want 0", stats.WinRate)
	}
	if stats.ProfitFactor == nil || *stats.ProfitFactor != 0 {
		t.Errorf("ProfitFactor = %v, want 0", stats.ProfitFactor)
	}
	if stats.BestDay == nil || stats.BestDay.Pnl != -100 {
		t.Errorf("single losing day is still the best day: %+v", stats.BestDay)
	}
}

func TestComputeStatsBreakEvenTradeIsNotAWin(t *testing.T) {
	stats := ComputeStats([]models.Trade{
		trade("2025-02-03", 0, 0, 0, nil),
		trade("2025-02-03", 10, 0, 0, nil),
	})
	if stats.WinRate != 50 {
		t.Errorf("break-even trade counted as win: WinRate = %v", stats.WinRate)
	}
}
