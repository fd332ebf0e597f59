package database

import (
	"database/sql"
	stdlog "log"

	"github.com/archReactor04/TradeFlow/src/logger"
	_ "modernc.org/sqlite"
)

var DB *sql.DB

func InitDB(databasePath string) {
	db, err := sql.Open("sqlite", databasePath)
	if err != nil {
		stdlog.Fatalf("failed to open database at %s: %v", databasePath, err)
	}

	DB = db

	if logger.L != nil {
		logger.L.Info("Checking database migrations", "databasePath", databasePath)
	} else {
		stdlog.Println("Checking database migrations for:", databasePath)
	}
	migrateTradeTable()

	createTableStatement := `
	CREATE TABLE IF NOT EXISTS trades (
		id TEXT PRIMARY KEY,
		symbol TEXT NOT NULL,
		direction TEXT NOT NULL,
		entry_price REAL NOT NULL DEFAULT 0,
		exit_price REAL NOT NULL DEFAULT 0,
		entry_date TEXT NOT NULL DEFAULT '',
		exit_date TEXT NOT NULL DEFAULT '',
		position_size INTEGER NOT NULL DEFAULT 0,
		pnl REAL NOT NULL DEFAULT 0,
		fees REAL NOT NULL DEFAULT 0,
		commissions REAL NOT NULL DEFAULT 0,
		trade_duration INTEGER,
		tags TEXT NOT NULL DEFAULT '[]',
		take_profits TEXT NOT NULL DEFAULT '[]',
		notes TEXT NOT NULL DEFAULT '',
		images TEXT NOT NULL DEFAULT '[]',
		account_id TEXT NOT NULL DEFAULT '',
		strategy_id TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_trades_symbol ON trades(symbol);
	CREATE INDEX IF NOT EXISTS idx_trades_entry_date ON trades(entry_date);

	CREATE TABLE IF NOT EXISTS accounts (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS strategies (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT ''
	);
	`

	_, err = DB.Exec(createTableStatement)
	if err != nil {
		if logger.L != nil {
			logger.L.Error("failed to create tables", "error", err)
		}
		stdlog.Fatalf("failed to create tables: %v", err)
	}
	if logger.L != nil {
		logger.L.Info("Database tables ensured/created.")
	} else {
		stdlog.Println("Database tables ensured/created.")
	}
}

// migrateTradeTable adds columns introduced after the first release to an
// existing trades table. New installs get them from the CREATE statement.
func migrateTradeTable() {
	var tableName string
	err := DB.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='trades'").Scan(&tableName)
	if err != nil {
		if err == sql.ErrNoRows {
			if logger.L != nil {
				logger.L.Info("'trades' table does not exist, no migration needed as table will be created.")
			}
			return
		}
		if logger.L != nil {
			logger.L.Error("Error checking for 'trades' table", "error", err)
		}
		return
	}

	rows, err := DB.Query("PRAGMA table_info(trades)")
	if err != nil {
		if logger.L != nil {
			logger.L.Error("Error querying table schema for 'trades'", "error", err)
		}
		return
	}
	defer rows.Close()

	columnExists := make(map[string]bool)
	for rows.Next() {
		var cid, pk int
		var name, dataType string
		var notnullVal int
		var dfltValue interface{}

		if err := rows.Scan(&cid, &name, &dataType, &notnullVal, &dfltValue, &pk); err != nil {
			if logger.L != nil {
				logger.L.Error("Error scanning column info for 'trades'", "error", err)
			}
			return
		}
		columnExists[name] = true
	}
	if err = rows.Err(); err != nil {
		if logger.L != nil {
			logger.L.Error("Error iterating over column info for 'trades'", "error", err)
		}
		return
	}

	if _, ok := columnExists["images"]; !ok {
		if _, err := DB.Exec("ALTER TABLE trades ADD COLUMN images TEXT NOT NULL DEFAULT '[]'"); err != nil {
			logger.L.Error("Error adding 'images' column to 'trades' table", "error", err)
		} else {
			logger.L.Info("Added 'images' column to 'trades' table")
		}
	}
	if _, ok := columnExists["trade_duration"]; !ok {
		if _, err := DB.Exec("ALTER TABLE trades ADD COLUMN trade_duration INTEGER"); err != nil {
			logger.L.Error("Error adding 'trade_duration' column to 'trades' table", "error", err)
		} else {
			logger.L.Info("Added 'trade_duration' column to 'trades' table")
			// Backfill where both endpoints are present; anything else stays null.
			if _, errUpdate := DB.Exec(`UPDATE trades
				SET trade_duration = CAST(ROUND((julianday(exit_date) - julianday(entry_date)) * 86400) AS INTEGER)
				WHERE trade_duration IS NULL AND entry_date != '' AND exit_date != ''
				AND julianday(exit_date) > julianday(entry_date)`); errUpdate != nil {
				logger.L.Error("Error backfilling trade_duration for existing rows", "error", errUpdate)
			}
		}
	}
}
