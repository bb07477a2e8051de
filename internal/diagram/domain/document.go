package diagram

import "fmt"

// Point is a coordinate pair in document space.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Rect is a half-open rectangle: rectangles that only share an edge do not intersect.
type Rect struct {
	X int
	Y int
	W int
	H int
}

func (r Rect) Right() int  { return r.X + r.W }
func (r Rect) Bottom() int { return r.Y + r.H }

// Intersects reports whether r and o share a region of positive area.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Contains reports whether o lies entirely inside r.
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

// ContainsPoint reports whether p lies inside r or on its boundary.
func (r Rect) ContainsPoint(p Point) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}

// ConnectionType selects the stroke style of a connection.
type ConnectionType string

const (
	ConnectionLine    ConnectionType = "line"
	ConnectionNeutral ConnectionType = "neutral"
	ConnectionEarth   ConnectionType = "earth"
)

// Connection is a straight conductor between two points.
type Connection struct {
	ID   string         `json:"id"`
	From Point          `json:"from"`
	To   Point          `json:"to"`
	Type ConnectionType `json:"type"`
}

// Metadata is display-only information carried to the title block.
type Metadata struct {
	CircuitNumber int    `json:"circuitNumber,omitempty"`
	Author        string `json:"author,omitempty"`
	Date          string `json:"date,omitempty"`
}

// LayoutDocument is the output of both generators. Elements are in paint order,
// first to last is back to front. A document is never modified after it is returned.
type LayoutDocument struct {
	Width       int          `json:"width"`
	Height      int          `json:"height"`
	Elements    []Element    `json:"elements"`
	Connections []Connection `json:"connections"`
	Title       string       `json:"title"`
	Metadata    Metadata     `json:"metadata"`
}

// Bounds returns the document rectangle anchored at the origin.
func (d *LayoutDocument) Bounds() Rect {
	return Rect{W: d.Width, H: d.Height}
}

// ElementByID returns the element with the given id.
func (d *LayoutDocument) ElementByID(id string) (Element, bool) {
	for _, el := range d.Elements {
		if el.ID == id {
			return el, true
		}
	}
	return Element{}, false
}

// ElementsOfType returns the elements of type t in paint order.
func (d *LayoutDocument) ElementsOfType(t ElementType) []Element {
	var out []Element
	for _, el := range d.Elements {
		if el.Type == t {
			out = append(out, el)
		}
	}
	return out
}

// Check verifies the geometric invariants every generated document satisfies: unique
// ids, props matching the element type, containment of every footprint and connection
// endpoint in the document bounds, and pairwise disjoint footprints. Enclosure elements
// may hold other elements, but nothing may straddle an enclosure edge.
func (d *LayoutDocument) Check() error {
	if d == nil {
		return fmt.Errorf("%w: nil document", ErrInvalidDocument)
	}
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("%w: non-positive size %dx%d", ErrInvalidDocument, d.Width, d.Height)
	}
	bounds := d.Bounds()
	seen := make(map[string]struct{}, len(d.Elements))
	for _, el := range d.Elements {
		if _, dup := seen[el.ID]; dup {
			return fmt.Errorf("%w: duplicate element id %q", ErrInvalidDocument, el.ID)
		}
		seen[el.ID] = struct{}{}
		if el.Props == nil || el.Props.Kind() != el.Type {
			return fmt.Errorf("%w: element %q props do not match type %q", ErrInvalidDocument, el.ID, el.Type)
		}
		if el.Width < 0 || el.Height < 0 {
			return fmt.Errorf("%w: element %q has negative size", ErrInvalidDocument, el.ID)
		}
		if !bounds.Contains(el.Footprint()) {
			return fmt.Errorf("%w: element %q outside document bounds", ErrInvalidDocument, el.ID)
		}
	}
	for _, conn := range d.Connections {
		if !bounds.ContainsPoint(conn.From) || !bounds.ContainsPoint(conn.To) {
			return fmt.Errorf("%w: connection %q outside document bounds", ErrInvalidDocument, conn.ID)
		}
	}
	for i := 0; i < len(d.Elements); i++ {
		a := d.Elements[i]
		for j := i + 1; j < len(d.Elements); j++ {
			b := d.Elements[j]
			if !a.Footprint().Intersects(b.Footprint()) {
				continue
			}
			if a.IsEnclosure() && a.Footprint().Contains(b.Footprint()) {
				continue
			}
			if b.IsEnclosure() && b.Footprint().Contains(a.Footprint()) {
				continue
			}
			return fmt.Errorf("%w: elements %q and %q overlap", ErrInvalidDocument, a.ID, b.ID)
		}
	}
	return nil
}
