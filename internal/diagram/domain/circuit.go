package diagram

const (
	defaultCurve   = "B"
	defaultRCDType = "A"
)

// ProtectionDevice describes the overcurrent device protecting a circuit.
type ProtectionDevice struct {
	Type     string  `json:"type" yaml:"type"`
	Rating   float64 `json:"rating" yaml:"rating"`
	Curve    string  `json:"curve,omitempty" yaml:"curve,omitempty"`
	KaRating float64 `json:"kaRating" yaml:"ka_rating"`
}

// CircuitData is the electrical description of one final circuit, as captured by the
// design forms or loaded from a stored board. Generators treat it as read-only input
// and never reject it; see ValidateCircuit for the optional pre-check.
type CircuitData struct {
	CircuitNumber    int              `json:"circuitNumber" yaml:"circuit_number"`
	Name             string           `json:"name" yaml:"name"`
	Voltage          float64          `json:"voltage" yaml:"voltage"`
	CableLength      float64          `json:"cableLength" yaml:"cable_length"`
	CableSize        float64          `json:"cableSize" yaml:"cable_size"`
	CPCSize          float64          `json:"cpcSize" yaml:"cpc_size"`
	LoadType         string           `json:"loadType" yaml:"load_type"`
	LoadPower        float64          `json:"loadPower" yaml:"load_power"`
	ProtectionDevice ProtectionDevice `json:"protectionDevice" yaml:"protection_device"`
	RCDProtected     bool             `json:"rcdProtected" yaml:"rcd_protected"`
	// RCDRating is the residual operating current in mA. Nil means not supplied.
	RCDRating *float64 `json:"rcdRating,omitempty" yaml:"rcd_rating,omitempty"`
	RCDType   string   `json:"rcdType,omitempty" yaml:"rcd_type,omitempty"`
	Ze        float64  `json:"ze" yaml:"ze"`
}

// Curve returns the device trip curve, "B" when none was recorded.
func (c CircuitData) Curve() string {
	if c.ProtectionDevice.Curve == "" {
		return defaultCurve
	}
	return c.ProtectionDevice.Curve
}

// ResidualCurrentType returns the RCD type, "A" when none was recorded.
func (c CircuitData) ResidualCurrentType() string {
	if c.RCDType == "" {
		return defaultRCDType
	}
	return c.RCDType
}

// HasRCD reports whether the circuit is drawn with a combined RCBO. A circuit flagged
// RCD protected without an RCD rating degrades to a plain MCB.
func (c CircuitData) HasRCD() bool {
	return c.RCDProtected && c.RCDRating != nil
}

// Clone returns a copy that shares no pointers with c.
func (c CircuitData) Clone() CircuitData {
	if c.RCDRating != nil {
		rating := *c.RCDRating
		c.RCDRating = &rating
	}
	return c
}

// RCDmA is a convenience for building circuits with an RCD rating.
func RCDmA(value float64) *float64 {
	return &value
}
