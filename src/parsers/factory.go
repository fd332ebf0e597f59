package parsers

import (
	"fmt"

	"github.com/archReactor04/TradeFlow/src/parsers/topstepx"
	"github.com/archReactor04/TradeFlow/src/parsers/tradovate"
)

// GetParser returns a fresh parser for the given broker source name.
func GetParser(source string) (BrokerParser, error) {
	switch source {
	case "topstepx":
		return topstepx.NewParser(), nil
	case "tradovate":
		return tradovate.NewParser(), nil
	default:
		return nil, fmt.Errorf("no parser available for source: %s", source)
	}
}

// BrokerInfo describes one supported broker for UI listings.
type BrokerInfo struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// Brokers lists the supported brokers in registration order.
func Brokers() []BrokerInfo {
	all := []BrokerParser{
		topstepx.NewParser(),
		tradovate.NewParser(),
	}
	infos := make([]BrokerInfo, 0, len(all))
	for _, p := range all {
		infos = append(infos, BrokerInfo{Name: p.Name(), Label: p.Label()})
	}
	return infos
}
