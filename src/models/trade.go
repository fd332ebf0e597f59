package models

const (
	DirectionLong  = "long"
	DirectionShort = "short"
)

// TakeProfit is one partial-exit event of a trade.
type TakeProfit struct {
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Date     string  `json:"date"`
}

// Trade is the canonical, persisted trade record. Dates are ISO-8601 local
// timestamps truncated to seconds; empty string means unknown. Prices degrade
// to 0 rather than null when the source file is unparsable.
type Trade struct {
	ID            string       `json:"id,omitempty"`
	Symbol        string       `json:"symbol"`
	Direction     string       `json:"direction"` // "long" or "short"
	EntryPrice    float64      `json:"entryPrice"`
	ExitPrice     float64      `json:"exitPrice"`
	EntryDate     string       `json:"entryDate"`
	ExitDate      string       `json:"exitDate"`
	PositionSize  int          `json:"positionSize"`
	Pnl           float64      `json:"pnl"`
	Fees          float64      `json:"fees"`
	Commissions   float64      `json:"commissions"`
	TradeDuration *int64       `json:"tradeDuration"` // seconds; nil when unknown or <= 0
	Tags          []string     `json:"tags"`
	TakeProfits   []TakeProfit `json:"takeProfits"`
	Notes         string       `json:"notes"`
	Images        []string     `json:"images,omitempty"`
	AccountID     string       `json:"accountId,omitempty"`
	StrategyID    string       `json:"strategyId,omitempty"`
}

// TradeDraft is a Trade plus the transient bookkeeping carried between the
// parse and merge stages of an import. The extra fields are never persisted;
// Commit strips them by storing the embedded Trade only.
type TradeDraft struct {
	Trade
	TradeDay  string       `json:"_tradeDay,omitempty"`
	Account   string       `json:"_account,omitempty"`
	Merged    bool         `json:"_merged,omitempty"`
	Originals []TradeDraft `json:"_originalTrades,omitempty"`
}

// Account is a trading account trades can be attributed to.
type Account struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// Strategy is a named playbook entry trades can reference.
type Strategy struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// DayPnl is one calendar day's aggregated profit and loss.
type DayPnl struct {
	Date string  `json:"date"`
	Pnl  float64 `json:"pnl"`
}

// JournalStats is the aggregate view of the whole journal.
// ProfitFactor is nil when there are no losing trades to divide by.
type JournalStats struct {
	TotalPnl         float64  `json:"totalPnl"`
	WinRate          float64  `json:"winRate"` // percentage
	ProfitFactor     *float64 `json:"profitFactor"`
	TotalTrades      int      `json:"totalTrades"`
	BestDay          *DayPnl  `json:"bestDay"`
	WorstDay         *DayPnl  `json:"worstDay"`
	TotalFees        float64  `json:"totalFees"`
	TotalCommissions float64  `json:"totalCommissions"`
	NetPnl           float64  `json:"netPnl"`
	AvgDuration      *int64   `json:"avgDuration"` // seconds
}
