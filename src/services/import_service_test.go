package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/archReactor04/TradeFlow/src/logger"
	"github.com/archReactor04/TradeFlow/src/processors"
	"github.com/archReactor04/TradeFlow/src/utils"
)

func init() {
	logger.InitLogger("error")
	utils.SetMultipliersForTesting(map[string]float64{"MNQ": 2})
}

func newTestImportService() ImportService {
	return NewImportService(processors.NewScaleOutProcessor(), processors.NewTradeMerger(), nil)
}

const tradovateFills = `Contract,Product,B/S,Status,Avg Fill Price,Filled Qty,Fill Time,Account
MNQH5,MNQ,Buy,Filled,21000.00,2,2025-02-03T09:30:00,APEX-1
MNQH5,MNQ,Sell,Filled,21010.00,1,2025-02-03T09:40:00,APEX-1
MNQH5,MNQ,Sell,Filled,21020.00,1,2025-02-03T09:50:00,APEX-1
ESM5,ES,Buy,Filled,5900.00,1,2025-02-03T10:00:00,APEX-1
`

func TestPreviewParsesAndReportsOpenPositions(t *testing.T) {
	svc := newTestImportService()

	preview, err := svc.Preview(strings.NewReader(tradovateFills), "tradovate", false)
	if err != nil {
		t.Fatalf("Preview() error = %v", err)
	}
	if preview.Broker != "tradovate" {
		t.Errorf("Broker = %q", preview.Broker)
	}
	if len(preview.Trades) != 1 || preview.RawCount != 1 {
		t.Fatalf("expected 1 closed trade, got %d (raw %d)", len(preview.Trades), preview.RawCount)
	}
	if preview.OpenPositions != 1 {
		t.Errorf("OpenPositions = %d, want 1 (the unclosed ESM5 long)", preview.OpenPositions)
	}
	if preview.ScaleOutCount != 0 {
		t.Errorf("ScaleOutCount = %d without merge pass", preview.ScaleOutCount)
	}

	tr := preview.Trades[0]
	if tr.Symbol != "MNQH5" || len(tr.TakeProfits) != 2 {
		t.Errorf("trade = %q with %d legs", tr.Symbol, len(tr.TakeProfits))
	}
	// (10 + 20) points x $2, one contract each
	if tr.Pnl != 60.00 {
		t.Errorf("Pnl = %v, want 60", tr.Pnl)
	}
}

func TestPreviewWithMergePassCountsScaleOuts(t *testing.T) {
	svc := newTestImportService()

	preview, err := svc.Preview(strings.NewReader(tradovateFills), "tradovate", true)
	if err != nil {
		t.Fatalf("Preview() error = %v", err)
	}
	if preview.ScaleOutCount != 1 {
		t.Errorf("ScaleOutCount = %d, want 1", preview.ScaleOutCount)
	}
}

func TestPreviewUnknownBroker(t *testing.T) {
	svc := newTestImportService()

	_, err := svc.Preview(strings.NewReader("a,b\n1,2\n"), "etrade", false)
	if err == nil {
		t.Fatalf("expected error for unknown broker")
	}
	if !errors.Is(err, ErrParsingFailed) {
		t.Errorf("error should wrap ErrParsingFailed, got %v", err)
	}
}

func TestMergeSelectionWrapsProcessingError(t *testing.T) {
	svc := newTestImportService()

	_, err := svc.MergeSelection(nil, []int{0})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, ErrProcessingFailed) {
		t.Errorf("error should wrap ErrProcessingFailed, got %v", err)
	}
}
