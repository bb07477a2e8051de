package diagram_test

import (
	"testing"

	diagram "sld-service/internal/diagram/domain"
)

func TestMapLoadTypeCaseInsensitive(t *testing.T) {
	for _, input := range []string{"LIGHTING", "Lighting", "lighting"} {
		if got := diagram.MapLoadType(input); got != diagram.SymbolLight {
			t.Fatalf("MapLoadType(%q) = %q, want %q", input, got, diagram.SymbolLight)
		}
	}
}

func TestMapLoadTypeKnownKeys(t *testing.T) {
	cases := map[string]diagram.CanonicalSymbol{
		"socket":     diagram.SymbolSocket,
		"Sockets":    diagram.SymbolSocket,
		"cooker":     diagram.SymbolCooker,
		"SHOWER":     diagram.SymbolShower,
		"immersion":  diagram.SymbolImmersion,
		"heating":    diagram.SymbolHeating,
		"EV-Charger": diagram.SymbolEVCharger,
		"ev charger": diagram.SymbolEVCharger,
		"motor":      diagram.SymbolMotor,
		"generic":    diagram.SymbolGeneric,
	}
	for input, want := range cases {
		if got := diagram.MapLoadType(input); got != want {
			t.Errorf("MapLoadType(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestMapLoadTypeFallsBackToGeneric(t *testing.T) {
	for _, input := range []string{"", "hot tub", "socket ", "lighting circuit", "冷蔵庫"} {
		if got := diagram.MapLoadType(input); got != diagram.SymbolGeneric {
			t.Fatalf("MapLoadType(%q) = %q, want generic", input, got)
		}
	}
}

func TestCanonicalSymbolsIsACopy(t *testing.T) {
	symbols := diagram.CanonicalSymbols()
	if len(symbols) != 9 {
		t.Fatalf("expected 9 canonical symbols, got %d", len(symbols))
	}
	symbols[0] = "changed"
	if diagram.CanonicalSymbols()[0] != diagram.SymbolSocket {
		t.Fatalf("canonical symbol table was mutated through the returned slice")
	}
	for _, s := range diagram.CanonicalSymbols() {
		if diagram.MapLoadType(string(s)) != s {
			t.Errorf("canonical symbol %q does not map to itself", s)
		}
	}
}
