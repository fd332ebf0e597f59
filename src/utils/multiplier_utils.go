package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/archReactor04/TradeFlow/src/logger"
)

var (
	multiplierMap  map[string]float64
	multLoadOnce   sync.Once
	multLoadError  error
	multDataLoaded bool
)

// InitMultiplierData loads the futures contract multiplier table from the
// given JSON file. The table maps a product root symbol (e.g. "ES", "MNQ")
// to the dollar value of one point of price movement for one contract.
// This should be called once from main.go after config is loaded.
func InitMultiplierData(filePath string) error {
	logger.L.Info("Initializing futures multiplier data", "path", filePath)
	multLoadOnce.Do(func() {
		fileData, err := os.ReadFile(filePath)
		if err != nil {
			multLoadError = fmt.Errorf("failed to read multiplier data file '%s': %w", filePath, err)
			logger.L.Error("Failed to read multiplier data file", "path", filePath, "error", err)
			return
		}

		var table map[string]float64
		if err := json.Unmarshal(fileData, &table); err != nil {
			multLoadError = fmt.Errorf("failed to unmarshal multiplier data from '%s': %w", filePath, err)
			logger.L.Error("Failed to unmarshal multiplier data", "path", filePath, "error", err)
			return
		}

		multiplierMap = make(map[string]float64, len(table))
		for product, value := range table {
			multiplierMap[strings.ToUpper(product)] = value
		}
		multDataLoaded = true
		logger.L.Info("Futures multiplier data loaded successfully.", "path", filePath, "productCount", len(multiplierMap))
	})
	return multLoadError
}

// MultiplierFor returns the point value for a futures product root symbol.
// Unknown products default to 1 so price differences pass through unscaled.
func MultiplierFor(product string) float64 {
	if !multDataLoaded {
		if logger.L != nil {
			logger.L.Warn("Multiplier lookup before data was loaded, defaulting to 1", "product", product)
		}
		return 1
	}
	if value, found := multiplierMap[strings.ToUpper(strings.TrimSpace(product))]; found {
		return value
	}
	return 1
}

// SetMultipliersForTesting replaces the loaded table. Test helper only.
func SetMultipliersForTesting(table map[string]float64) {
	multiplierMap = make(map[string]float64, len(table))
	for product, value := range table {
		multiplierMap[strings.ToUpper(product)] = value
	}
	multDataLoaded = true
}
