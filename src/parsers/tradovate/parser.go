// Package tradovate imports Tradovate order exports. The file contains one
// row per order fill, so round-trip trades have to be reconstructed by
// replaying fills against a signed net-position state machine per contract.
package tradovate

import (
	"sort"
	"strings"
	"time"

	"github.com/archReactor04/TradeFlow/src/models"
	"github.com/archReactor04/TradeFlow/src/parsers/rawcsv"
	"github.com/archReactor04/TradeFlow/src/utils"
)

// orderFill is one filled order row. Ephemeral; exists only while
// reconciling a single file.
type orderFill struct {
	contract string
	product  string
	side     string // "Buy" or "Sell"
	price    float64
	qty      int
	fillTime string
	fillAt   time.Time
	account  string
}

type Parser struct {
	openPositions int
}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Name() string  { return "tradovate" }
func (p *Parser) Label() string { return "Tradovate" }

// OpenPositions reports how many contracts ended the last parsed file with a
// position still open. Those incomplete round-trips emit no trade.
func (p *Parser) OpenPositions() int { return p.openPositions }

// Parse filters the export to filled orders, sorts them by fill time and
// replays each contract's fills through the position state machine. Trades
// are emitted in the order their closing fill occurs within each contract;
// contracts appear in first-fill order.
func (p *Parser) Parse(text string) ([]models.TradeDraft, error) {
	_, rows := rawcsv.Parse(text)

	fills := make([]orderFill, 0, len(rows))
	for _, r := range rows {
		if strings.TrimSpace(r["Status"]) != "Filled" {
			continue
		}
		f := orderFill{
			contract: strings.TrimSpace(r["Contract"]),
			product:  strings.TrimSpace(r["Product"]),
			side:     strings.TrimSpace(r["B/S"]),
			price:    utils.ParseFloatOrZero(firstNonEmpty(r["Avg Fill Price"], r["avgPrice"])),
			qty:      utils.ParseIntOrZero(firstNonEmpty(r["Filled Qty"], r["filledQty"])),
			fillTime: utils.ToISO(firstNonEmpty(r["Fill Time"], r["Timestamp"])),
			account:  strings.TrimSpace(r["Account"]),
		}
		f.fillAt, _ = utils.ParseTimestamp(f.fillTime)
		fills = append(fills, f)
	}

	// Stable sort: fills with equal timestamps keep their file order.
	sort.SliceStable(fills, func(i, j int) bool {
		return fills[i].fillAt.Before(fills[j].fillAt)
	})

	// Group by contract (not product): two contracts of the same product are
	// tracked independently. Insertion order keeps the output deterministic.
	var contractOrder []string
	byContract := make(map[string][]orderFill)
	for _, f := range fills {
		if _, seen := byContract[f.contract]; !seen {
			contractOrder = append(contractOrder, f.contract)
		}
		byContract[f.contract] = append(byContract[f.contract], f)
	}

	p.openPositions = 0
	trades := []models.TradeDraft{}
	for _, contract := range contractOrder {
		trades = append(trades, p.reconcileContract(contract, byContract[contract])...)
	}
	return trades, nil
}

// reconcileContract replays one contract's fills. A fill that takes the net
// position from zero opens a round-trip; fills against the position record
// exit legs; fills adding to it re-weight the average entry; and the fill
// that returns the net position to exactly zero closes the round-trip.
//
// A single fill that flips the position through zero (long 10, sell 15) is
// treated as a continuation of the same round-trip, not a close-plus-reopen.
func (p *Parser) reconcileContract(contract string, orders []orderFill) []models.TradeDraft {
	var trades []models.TradeDraft

	netPosition := 0
	entryDirection := ""
	entryPrice := 0.0
	entryQty := 0
	entryDate := ""
	var exitFills []models.TakeProfit
	account := ""

	product := orders[0].product
	if product == "" {
		product = contract
	}

	for _, order := range orders {
		signedQty := order.qty
		if order.side != "Buy" {
			signedQty = -order.qty
		}
		prevPos := netPosition
		netPosition += signedQty

		if prevPos == 0 && netPosition != 0 {
			// opens a new position
			entryDirection = models.DirectionLong
			if netPosition < 0 {
				entryDirection = models.DirectionShort
			}
			entryPrice = order.price
			entryQty = utils.AbsInt(netPosition)
			entryDate = order.fillTime
			exitFills = nil
			account = order.account
		} else if prevPos != 0 {
			isClosing := (entryDirection == models.DirectionLong && signedQty < 0) ||
				(entryDirection == models.DirectionShort && signedQty > 0)

			if isClosing {
				exitFills = append(exitFills, models.TakeProfit{
					Price:    order.price,
					Quantity: order.qty,
					Date:     order.fillTime,
				})
			} else {
				// adding to the position: re-weight the average entry price
				entryQty += order.qty
				entryPrice = ((entryPrice * float64(entryQty-order.qty)) + (order.price * float64(order.qty))) / float64(entryQty)
			}
		}

		if netPosition == 0 && prevPos != 0 {
			multiplier := utils.MultiplierFor(product)
			totalPnl := 0.0
			for _, fill := range exitFills {
				diff := fill.Price - entryPrice
				if entryDirection == models.DirectionShort {
					diff = entryPrice - fill.Price
				}
				totalPnl += diff * float64(fill.Quantity) * multiplier
			}

			lastExit := exitFills[len(exitFills)-1]
			totalExitQty := 0
			weightedExitSum := 0.0
			for _, fill := range exitFills {
				totalExitQty += fill.Quantity
				weightedExitSum += fill.Price * float64(fill.Quantity)
			}
			weightedExitPrice := weightedExitSum / float64(totalExitQty)

			// only a scale-out (2+ exit fills) carries take-profit legs
			takeProfits := []models.TakeProfit{}
			if len(exitFills) > 1 {
				takeProfits = append(takeProfits, exitFills...)
			}

			trades = append(trades, models.TradeDraft{
				Trade: models.Trade{
					Symbol:        contract,
					Direction:     entryDirection,
					EntryPrice:    entryPrice,
					ExitPrice:     utils.RoundFloat(weightedExitPrice, 2),
					EntryDate:     entryDate,
					ExitDate:      lastExit.Date,
					PositionSize:  entryQty,
					Pnl:           utils.RoundFloat(totalPnl, 2),
					Fees:          0,
					Commissions:   0,
					TradeDuration: utils.ComputeDurationSeconds(entryDate, lastExit.Date),
					Tags:          []string{},
					TakeProfits:   takeProfits,
					Notes:         "",
				},
				TradeDay: datePart(entryDate),
				Account:  account,
			})

			entryDirection = ""
			entryPrice = 0
			entryQty = 0
			entryDate = ""
			exitFills = nil
		}
	}

	if netPosition != 0 {
		p.openPositions++
	}
	return trades
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func datePart(isoDate string) string {
	return strings.SplitN(isoDate, "T", 2)[0]
}
