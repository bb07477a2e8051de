package metrics

import (
	"testing"
	"time"
)

func TestObserveBeforeInitIsNoop(t *testing.T) {
	ObserveDiagramGenerate("", "", time.Millisecond)
	ObserveDiagramElements("single_line", -1)
	ObserveDiagramExport("", "", time.Millisecond)
	IncBoardSave("")
}

func TestQueryCountNilDB(t *testing.T) {
	if got := queryCount(nil, nil, "SELECT 1"); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}
