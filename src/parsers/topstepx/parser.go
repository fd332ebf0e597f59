// Package topstepx imports TopstepX trade exports, which already report one
// row per closed trade, so fields map across directly.
package topstepx

import (
	"strings"

	"github.com/archReactor04/TradeFlow/src/models"
	"github.com/archReactor04/TradeFlow/src/parsers/rawcsv"
	"github.com/archReactor04/TradeFlow/src/utils"
)

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Name() string  { return "topstepx" }
func (p *Parser) Label() string { return "TopstepX" }

// Parse maps each export row with a contract name to one trade draft. Rows
// without a ContractName are dropped; unparsable numeric fields degrade to 0.
func (p *Parser) Parse(text string) ([]models.TradeDraft, error) {
	_, rows := rawcsv.Parse(text)

	drafts := make([]models.TradeDraft, 0, len(rows))
	for _, r := range rows {
		if r["ContractName"] == "" {
			continue
		}

		entryDate := utils.ToISO(r["EnteredAt"])
		exitDate := utils.ToISO(r["ExitedAt"])

		direction := models.DirectionShort
		if strings.EqualFold(strings.TrimSpace(r["Type"]), "buy") {
			direction = models.DirectionLong
		}

		tradeDay := r["TradeDay"]
		if tradeDay == "" {
			tradeDay = datePart(entryDate)
		}

		drafts = append(drafts, models.TradeDraft{
			Trade: models.Trade{
				Symbol:        r["ContractName"],
				Direction:     direction,
				EntryPrice:    utils.ParseFloatOrZero(r["EntryPrice"]),
				ExitPrice:     utils.ParseFloatOrZero(r["ExitPrice"]),
				EntryDate:     entryDate,
				ExitDate:      exitDate,
				PositionSize:  utils.ParseIntOrZero(r["Size"]),
				Pnl:           utils.ParseFloatOrZero(r["PnL"]),
				Fees:          utils.ParseFloatOrZero(r["Fees"]),
				Commissions:   utils.ParseFloatOrZero(r["Commissions"]),
				TradeDuration: utils.ComputeDurationSeconds(entryDate, exitDate),
				Tags:          []string{},
				TakeProfits:   []models.TakeProfit{},
				Notes:         "",
			},
			TradeDay: tradeDay,
		})
	}
	return drafts, nil
}

func datePart(isoDate string) string {
	return strings.SplitN(isoDate, "T", 2)[0]
}
