package diagram

import "strings"

// CanonicalSymbol identifies a load symbol understood by the renderer.
type CanonicalSymbol string

const (
	SymbolSocket    CanonicalSymbol = "socket"
	SymbolLight     CanonicalSymbol = "light"
	SymbolCooker    CanonicalSymbol = "cooker"
	SymbolShower    CanonicalSymbol = "shower"
	SymbolImmersion CanonicalSymbol = "immersion"
	SymbolHeating   CanonicalSymbol = "heating"
	SymbolEVCharger CanonicalSymbol = "ev-charger"
	SymbolMotor     CanonicalSymbol = "motor"
	SymbolGeneric   CanonicalSymbol = "generic"
)

var canonicalSymbols = []CanonicalSymbol{
	SymbolSocket,
	SymbolLight,
	SymbolCooker,
	SymbolShower,
	SymbolImmersion,
	SymbolHeating,
	SymbolEVCharger,
	SymbolMotor,
	SymbolGeneric,
}

// Keys are lower case.
var loadTypeSymbols = map[string]CanonicalSymbol{
	"socket":             SymbolSocket,
	"sockets":            SymbolSocket,
	"ring":               SymbolSocket,
	"radial":             SymbolSocket,
	"light":              SymbolLight,
	"lights":             SymbolLight,
	"lighting":           SymbolLight,
	"cooker":             SymbolCooker,
	"oven":               SymbolCooker,
	"hob":                SymbolCooker,
	"shower":             SymbolShower,
	"immersion":          SymbolImmersion,
	"water-heater":       SymbolImmersion,
	"heating":            SymbolHeating,
	"storage-heater":     SymbolHeating,
	"underfloor-heating": SymbolHeating,
	"ev-charger":         SymbolEVCharger,
	"ev charger":         SymbolEVCharger,
	"evcharger":          SymbolEVCharger,
	"ev":                 SymbolEVCharger,
	"motor":              SymbolMotor,
	"generic":            SymbolGeneric,
}

// MapLoadType maps a free-text load category to its canonical symbol. Matching is exact
// apart from letter case; anything unrecognised maps to SymbolGeneric so a layout can
// always be produced.
func MapLoadType(loadType string) CanonicalSymbol {
	if symbol, ok := loadTypeSymbols[strings.ToLower(loadType)]; ok {
		return symbol
	}
	return SymbolGeneric
}

// CanonicalSymbols returns the fixed symbol enumeration.
func CanonicalSymbols() []CanonicalSymbol {
	out := make([]CanonicalSymbol, len(canonicalSymbols))
	copy(out, canonicalSymbols)
	return out
}
