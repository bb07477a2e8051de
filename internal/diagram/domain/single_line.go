package diagram

import "fmt"

// Element ids used by single-line documents.
const (
	SupplyElementID     = "supply"
	ProtectionElementID = "protection"
	CableElementID      = "cable"
	LoadElementID       = "load"
	EarthElementID      = "earth"
)

// SingleLine composes the supply, protective device, cable, load and earth of one
// circuit top to bottom on the centre axis. Only the device branch (RCBO or MCB)
// affects coordinates, so identical input always yields an identical document.
// Field values are copied into props unchecked.
func (g *Generator) SingleLine(circuit CircuitData, opts ...Option) *LayoutDocument {
	cfg := g.cfg
	options := applyOptions(opts)
	elements := make([]Element, 0, 5)
	connections := make([]Connection, 0, 4)
	cursor := cfg.TopMargin

	supply := newElement(SupplyElementID, centred(cfg.CenterX, cfg.SupplyWidth), cursor, cfg.SupplyWidth, cfg.SupplyHeight, ConsumerUnitProps{
		Label:   "Supply",
		Voltage: circuit.Voltage,
		Ze:      circuit.Ze,
	})
	elements = append(elements, supply)
	supplyExit := Point{X: cfg.CenterX, Y: supply.Y + supply.Height}
	cursor += cfg.SupplyHeight + cfg.BlockGap

	device := g.protectionElement(ProtectionElementID, circuit, circuit.Name, cfg.CenterX, cursor)
	elements = append(elements, device)
	deviceEntry := Point{X: cfg.CenterX, Y: device.Y}
	cursor += device.Height
	deviceExit := Point{X: cfg.CenterX, Y: cursor}

	cableStart := Point{X: cfg.CenterX, Y: cursor}
	cable := newElement(CableElementID, centred(cfg.CenterX, cfg.CableWidth), cableStart.Y, cfg.CableWidth, cfg.CableRun, CableProps{
		LiveSize: circuit.CableSize,
		CPCSize:  circuit.CPCSize,
		Length:   circuit.CableLength,
	})
	elements = append(elements, cable)
	cableEnd := Point{X: cfg.CenterX, Y: cableStart.Y + cfg.CableRun}
	cursor = cableEnd.Y + cfg.CableGap

	load := newElement(LoadElementID, centred(cfg.CenterX, cfg.LoadWidth), cursor, cfg.LoadWidth, cfg.LoadHeight, LoadProps{
		Symbol: MapLoadType(circuit.LoadType),
		Label:  circuit.Name,
		Power:  circuit.LoadPower,
	})
	elements = append(elements, load)
	loadEntry := Point{X: cfg.CenterX, Y: cursor}
	cursor += cfg.LoadHeight
	loadExit := Point{X: cfg.CenterX, Y: cursor}

	earth := newElement(EarthElementID, centred(cfg.CenterX, cfg.EarthWidth), cursor, cfg.EarthWidth, cfg.EarthHeight, EarthProps{
		CPCSize: circuit.CPCSize,
	})
	elements = append(elements, earth)
	cursor += cfg.EarthHeight

	connections = append(connections, Connection{
		ID:   "supply-protection",
		From: supplyExit,
		To:   deviceEntry,
		Type: ConnectionLine,
	})
	if cfg.EnumerateConnections {
		connections = append(connections,
			Connection{ID: "protection-cable", From: deviceExit, To: cableStart, Type: ConnectionLine},
			Connection{ID: "cable-load", From: cableEnd, To: loadEntry, Type: ConnectionLine},
			Connection{ID: "load-earth", From: loadExit, To: Point{X: cfg.CenterX, Y: earth.Y}, Type: ConnectionEarth},
		)
	}

	title := options.Title
	if title == "" {
		title = singleLineTitle(circuit)
	}
	return &LayoutDocument{
		Width:       cfg.CanvasWidth,
		Height:      cursor + cfg.BottomMargin,
		Elements:    elements,
		Connections: connections,
		Title:       title,
		Metadata: Metadata{
			CircuitNumber: circuit.CircuitNumber,
			Author:        options.Author,
			Date:          options.Date,
		},
	}
}

// protectionElement returns an RCBO when the circuit carries an RCD rating and an MCB
// otherwise, centred on centerX with its top edge at y.
func (g *Generator) protectionElement(id string, circuit CircuitData, label string, centerX, y int) Element {
	cfg := g.cfg
	if circuit.HasRCD() {
		return newElement(id, centred(centerX, cfg.RCBOWidth), y, cfg.RCBOWidth, cfg.RCBOHeight, RCBOProps{
			Label:     label,
			Rating:    circuit.ProtectionDevice.Rating,
			Curve:     circuit.Curve(),
			KaRating:  circuit.ProtectionDevice.KaRating,
			RCDRating: *circuit.RCDRating,
			RCDType:   circuit.ResidualCurrentType(),
		})
	}
	return newElement(id, centred(centerX, cfg.MCBWidth), y, cfg.MCBWidth, cfg.MCBHeight, MCBProps{
		Label:    label,
		Rating:   circuit.ProtectionDevice.Rating,
		Curve:    circuit.Curve(),
		KaRating: circuit.ProtectionDevice.KaRating,
	})
}

func centred(centerX, width int) int {
	return centerX - width/2
}

func singleLineTitle(circuit CircuitData) string {
	if circuit.Name == "" {
		return fmt.Sprintf("Circuit %d", circuit.CircuitNumber)
	}
	return fmt.Sprintf("Circuit %d - %s", circuit.CircuitNumber, circuit.Name)
}
