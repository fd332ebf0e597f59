package database

import (
	"github.com/archReactor04/TradeFlow/src/logger"
)

// SeedDemoData inserts sample accounts and strategies when the tables are
// empty, so a fresh install has something to attach imported trades to.
// Controlled by the SEED_DEMO_DATA config flag.
func SeedDemoData() {
	var accountCount int
	if err := DB.QueryRow("SELECT COUNT(*) FROM accounts").Scan(&accountCount); err != nil {
		logger.L.Error("Error counting accounts for demo seed", "error", err)
		return
	}
	if accountCount == 0 {
		accounts := [][2]string{
			{"1", "IBKR Main"},
			{"2", "Funded Account #1"},
		}
		for _, a := range accounts {
			if _, err := DB.Exec("INSERT INTO accounts (id, name) VALUES (?, ?)", a[0], a[1]); err != nil {
				logger.L.Error("Error seeding account", "name", a[1], "error", err)
			}
		}
		logger.L.Info("Seeded demo accounts", "count", len(accounts))
	}

	var strategyCount int
	if err := DB.QueryRow("SELECT COUNT(*) FROM strategies").Scan(&strategyCount); err != nil {
		logger.L.Error("Error counting strategies for demo seed", "error", err)
		return
	}
	if strategyCount == 0 {
		strategies := [][3]string{
			{"1", "Opening Range Breakout", "Wait for the first 15-min range to form, then trade the breakout direction with volume confirmation. Stop below the range low/high."},
			{"2", "Mean Reversion", "Fade extended moves at key support/resistance levels using Bollinger Bands and RSI divergence for entry timing."},
			{"3", "Gap and Go", "Trade momentum continuation on stocks gapping up/down on news or earnings. Enter on the first pullback to VWAP."},
		}
		for _, s := range strategies {
			if _, err := DB.Exec("INSERT INTO strategies (id, name, description) VALUES (?, ?, ?)", s[0], s[1], s[2]); err != nil {
				logger.L.Error("Error seeding strategy", "name", s[1], "error", err)
			}
		}
		logger.L.Info("Seeded demo strategies", "count", len(strategies))
	}
}
