package diagram

import "fmt"

// EnclosureElementID is the id of the board enclosure element.
const EnclosureElementID = "consumer-unit"

// GridCell returns the column and row a board device lands in. Devices are packed two
// per row in the order supplied.
func GridCell(index int) (col, row int) {
	return index % boardColumns, index / boardColumns
}

// BoardRows returns the number of device rows needed for n circuits.
func BoardRows(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + boardColumns - 1) / boardColumns
}

// BoardEnclosureHeight is the header allowance plus one row height per device row.
func (g *Generator) BoardEnclosureHeight(n int) int {
	return g.cfg.BoardHeaderHeight + BoardRows(n)*g.cfg.BoardRowHeight
}

// DeviceAnchor returns the top-left corner of the device at index.
func (g *Generator) DeviceAnchor(index int) Point {
	cfg := g.cfg
	col, row := GridCell(index)
	return Point{
		X: cfg.BoardMargin + cfg.BoardDeviceOffsetX + col*cfg.BoardColumnSpacing,
		Y: cfg.BoardMargin + cfg.BoardHeaderHeight + row*cfg.BoardRowHeight + cfg.BoardDevicePaddingY,
	}
}

// ConsumerUnit lays out a distribution board: one enclosure element followed by one
// protective device per circuit. Circuits are packed in the order given and are not
// re-sorted by circuit number. No connections are emitted; the board view shows device
// placement and ratings, not busbar wiring.
func (g *Generator) ConsumerUnit(circuits []CircuitData, mainSwitchRating float64, opts ...Option) *LayoutDocument {
	cfg := g.cfg
	options := applyOptions(opts)
	enclosureHeight := g.BoardEnclosureHeight(len(circuits))

	elements := make([]Element, 0, len(circuits)+1)
	elements = append(elements, newElement(EnclosureElementID, cfg.BoardMargin, cfg.BoardMargin, cfg.BoardWidth, enclosureHeight, ConsumerUnitProps{
		Label:            fmt.Sprintf("Main Switch %sA", formatNumber(mainSwitchRating)),
		MainSwitchRating: mainSwitchRating,
		Ways:             len(circuits),
		Enclosure:        true,
	}))

	for i, circuit := range circuits {
		anchor := g.DeviceAnchor(i)
		device := g.protectionElement(fmt.Sprintf("device-%d", i), circuit, fmt.Sprintf("C%d", circuit.CircuitNumber), 0, anchor.Y)
		device.X = anchor.X
		elements = append(elements, device)
	}

	title := options.Title
	if title == "" {
		title = fmt.Sprintf("Consumer Unit - %d circuits", len(circuits))
	}
	return &LayoutDocument{
		Width:       cfg.BoardWidth + 2*cfg.BoardMargin,
		Height:      cfg.BoardMargin + enclosureHeight + cfg.BoardMargin,
		Elements:    elements,
		Connections: []Connection{},
		Title:       title,
		Metadata: Metadata{
			Author: options.Author,
			Date:   options.Date,
		},
	}
}
