package diagram

import (
	"encoding/json"
	"fmt"
)

// ElementType is the symbol kind of a positioned element.
type ElementType string

const (
	ElementConsumerUnit ElementType = "consumer-unit"
	ElementMCB          ElementType = "mcb"
	ElementRCBO         ElementType = "rcbo"
	ElementCable        ElementType = "cable"
	ElementLoad         ElementType = "load"
	ElementEarth        ElementType = "earth"
)

// Valid reports whether t is one of the known element types.
func (t ElementType) Valid() bool {
	switch t {
	case ElementConsumerUnit, ElementMCB, ElementRCBO, ElementCable, ElementLoad, ElementEarth:
		return true
	default:
		return false
	}
}

// ElementProps carries the rendering attributes of one element type. The set of
// implementations is closed: each element type has exactly one props type.
type ElementProps interface {
	Kind() ElementType
	sealed()
}

// ConsumerUnitProps annotates a supply block or a board enclosure.
type ConsumerUnitProps struct {
	Label            string  `json:"label"`
	Voltage          float64 `json:"voltage"`
	Ze               float64 `json:"ze"`
	MainSwitchRating float64 `json:"mainSwitchRating"`
	Ways             int     `json:"ways"`
	// Enclosure marks the element as a container other elements are drawn inside.
	Enclosure bool `json:"enclosure"`
}

// MCBProps annotates an overcurrent-only breaker.
type MCBProps struct {
	Label    string  `json:"label"`
	Rating   float64 `json:"rating"`
	Curve    string  `json:"curve"`
	KaRating float64 `json:"kaRating"`
}

// RCBOProps annotates a combined residual-current and overcurrent breaker.
type RCBOProps struct {
	Label     string  `json:"label"`
	Rating    float64 `json:"rating"`
	Curve     string  `json:"curve"`
	KaRating  float64 `json:"kaRating"`
	RCDRating float64 `json:"rcdRating"`
	RCDType   string  `json:"rcdType"`
}

// CableProps annotates a cable run. Sizes are in mm², length in metres.
type CableProps struct {
	LiveSize float64 `json:"liveSize"`
	CPCSize  float64 `json:"cpcSize"`
	Length   float64 `json:"length"`
}

// LoadProps annotates the load symbol.
type LoadProps struct {
	Symbol CanonicalSymbol `json:"symbol"`
	Label  string          `json:"label"`
	Power  float64         `json:"power"`
}

// EarthProps annotates the earth / CPC symbol.
type EarthProps struct {
	CPCSize float64 `json:"cpcSize"`
}

func (ConsumerUnitProps) Kind() ElementType { return ElementConsumerUnit }
func (MCBProps) Kind() ElementType          { return ElementMCB }
func (RCBOProps) Kind() ElementType         { return ElementRCBO }
func (CableProps) Kind() ElementType        { return ElementCable }
func (LoadProps) Kind() ElementType         { return ElementLoad }
func (EarthProps) Kind() ElementType        { return ElementEarth }

func (ConsumerUnitProps) sealed() {}
func (MCBProps) sealed()          {}
func (RCBOProps) sealed()         {}
func (CableProps) sealed()        {}
func (LoadProps) sealed()         {}
func (EarthProps) sealed()        {}

// Element is a positioned symbol. X and Y are the top-left anchor; Width and Height
// are the declared footprint used for overlap and containment checks.
type Element struct {
	ID     string
	Type   ElementType
	X      int
	Y      int
	Width  int
	Height int
	Props  ElementProps
}

func newElement(id string, x, y, width, height int, props ElementProps) Element {
	return Element{
		ID:     id,
		Type:   props.Kind(),
		X:      x,
		Y:      y,
		Width:  width,
		Height: height,
		Props:  props,
	}
}

// Footprint returns the element's rectangle.
func (e Element) Footprint() Rect {
	return Rect{X: e.X, Y: e.Y, W: e.Width, H: e.Height}
}

// IsEnclosure reports whether the element is a container for other elements.
func (e Element) IsEnclosure() bool {
	props, ok := e.Props.(ConsumerUnitProps)
	return ok && props.Enclosure
}

type elementJSON struct {
	ID     string          `json:"id"`
	Type   ElementType     `json:"type"`
	X      int             `json:"x"`
	Y      int             `json:"y"`
	Width  int             `json:"width"`
	Height int             `json:"height"`
	Props  json.RawMessage `json:"props"`
}

// MarshalJSON encodes the element with its props nested under "props".
func (e Element) MarshalJSON() ([]byte, error) {
	props := json.RawMessage("null")
	if e.Props != nil {
		raw, err := json.Marshal(e.Props)
		if err != nil {
			return nil, err
		}
		props = raw
	}
	return json.Marshal(elementJSON{
		ID:     e.ID,
		Type:   e.Type,
		X:      e.X,
		Y:      e.Y,
		Width:  e.Width,
		Height: e.Height,
		Props:  props,
	})
}

// UnmarshalJSON decodes props into the concrete type selected by "type".
func (e *Element) UnmarshalJSON(data []byte) error {
	var raw elementJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	props, err := decodeProps(raw.Type, raw.Props)
	if err != nil {
		return err
	}
	*e = Element{
		ID:     raw.ID,
		Type:   raw.Type,
		X:      raw.X,
		Y:      raw.Y,
		Width:  raw.Width,
		Height: raw.Height,
		Props:  props,
	}
	return nil
}

func decodeProps(t ElementType, raw json.RawMessage) (ElementProps, error) {
	switch t {
	case ElementConsumerUnit:
		var p ConsumerUnitProps
		err := unmarshalProps(raw, &p)
		return p, err
	case ElementMCB:
		var p MCBProps
		err := unmarshalProps(raw, &p)
		return p, err
	case ElementRCBO:
		var p RCBOProps
		err := unmarshalProps(raw, &p)
		return p, err
	case ElementCable:
		var p CableProps
		err := unmarshalProps(raw, &p)
		return p, err
	case ElementLoad:
		var p LoadProps
		err := unmarshalProps(raw, &p)
		return p, err
	case ElementEarth:
		var p EarthProps
		err := unmarshalProps(raw, &p)
		return p, err
	default:
		return nil, fmt.Errorf("%w: unknown element type %q", ErrInvalidDocument, t)
	}
}

func unmarshalProps(raw json.RawMessage, target any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, target)
}
