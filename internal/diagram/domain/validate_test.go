package diagram_test

import (
	"errors"
	"math"
	"testing"

	diagram "sld-service/internal/diagram/domain"
)

func TestValidateCircuitAcceptsCompleteCircuit(t *testing.T) {
	if err := diagram.ValidateCircuit(socketCircuit()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := diagram.ValidateCircuit(rcdCircuit()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateCircuitReportsEveryField(t *testing.T) {
	c := diagram.CircuitData{
		Voltage:      math.NaN(),
		RCDProtected: true,
	}
	err := diagram.ValidateCircuit(c)
	if !errors.Is(err, diagram.ErrInvalidCircuit) {
		t.Fatalf("expected ErrInvalidCircuit, got %v", err)
	}
	var verrs diagram.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
	fields := map[string]string{}
	for _, fe := range verrs {
		fields[fe.Field] = fe.Message
	}
	for _, field := range []string{"circuitNumber", "name", "voltage", "cableLength", "cableSize", "cpcSize", "protectionDevice.rating", "protectionDevice.kaRating", "rcdRating"} {
		if _, ok := fields[field]; !ok {
			t.Errorf("expected an error for %s, got %v", field, verrs)
		}
	}
	if fields["voltage"] != "must be finite" {
		t.Errorf("voltage message %q", fields["voltage"])
	}
}

func TestValidateBoardDetectsDuplicateNumbers(t *testing.T) {
	circuits := boardCircuits(3)
	circuits[2].CircuitNumber = 1
	err := diagram.ValidateBoard(circuits)
	var verrs diagram.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) != 1 || verrs[0].Field != "circuitNumber" {
		t.Fatalf("expected single duplicate error, got %v", err)
	}
	if err := diagram.ValidateBoard(boardCircuits(4)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBoardValidateAndClone(t *testing.T) {
	board := &diagram.Board{ID: "b1", TenantID: "t1", Name: "Main", Circuits: []diagram.CircuitData{rcdCircuit()}}
	if err := board.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if board.EffectiveMainSwitchRating() != diagram.DefaultMainSwitchRating {
		t.Fatalf("expected default main switch rating")
	}
	clone := board.Clone()
	*clone.Circuits[0].RCDRating = 100
	if *board.Circuits[0].RCDRating != 30 {
		t.Fatalf("clone shares rcd rating pointer")
	}
	if _, ok := board.Circuit(1); !ok {
		t.Fatalf("expected circuit 1")
	}
	if _, ok := board.Circuit(9); ok {
		t.Fatalf("unexpected circuit 9")
	}
	board.Name = ""
	if err := board.Validate(); !errors.Is(err, diagram.ErrInvalidBoard) {
		t.Fatalf("expected ErrInvalidBoard, got %v", err)
	}
}
