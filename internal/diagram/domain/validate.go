package diagram

import (
	"fmt"
	"math"
	"strings"
)

// FieldError describes one failed check on a circuit field.
type FieldError struct {
	Circuit int    `json:"circuit"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) String() string {
	return fmt.Sprintf("circuit %d: %s %s", e.Circuit, e.Field, e.Message)
}

// ValidationErrors collects every failed check. It matches ErrInvalidCircuit with errors.Is.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fe.String())
	}
	return ErrInvalidCircuit.Error() + ": " + strings.Join(parts, "; ")
}

func (v ValidationErrors) Is(target error) bool {
	return target == ErrInvalidCircuit
}

// ValidateCircuit is the optional pre-check callers run before generation when they
// want hard validation. Generators accept anything; this does not.
func ValidateCircuit(c CircuitData) error {
	errs := checkCircuit(c)
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateBoard checks every circuit and that circuit numbers are unique.
func ValidateBoard(circuits []CircuitData) error {
	var errs ValidationErrors
	seen := make(map[int]struct{}, len(circuits))
	for _, c := range circuits {
		errs = append(errs, checkCircuit(c)...)
		if _, dup := seen[c.CircuitNumber]; dup {
			errs = append(errs, FieldError{Circuit: c.CircuitNumber, Field: "circuitNumber", Message: "is not unique"})
		}
		seen[c.CircuitNumber] = struct{}{}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func checkCircuit(c CircuitData) ValidationErrors {
	var errs ValidationErrors
	add := func(field, message string) {
		errs = append(errs, FieldError{Circuit: c.CircuitNumber, Field: field, Message: message})
	}
	if c.CircuitNumber <= 0 {
		add("circuitNumber", "must be positive")
	}
	if strings.TrimSpace(c.Name) == "" {
		add("name", "is required")
	}
	positive := []struct {
		field string
		value float64
	}{
		{"voltage", c.Voltage},
		{"cableLength", c.CableLength},
		{"cableSize", c.CableSize},
		{"cpcSize", c.CPCSize},
		{"protectionDevice.rating", c.ProtectionDevice.Rating},
		{"protectionDevice.kaRating", c.ProtectionDevice.KaRating},
	}
	for _, p := range positive {
		switch {
		case math.IsNaN(p.value) || math.IsInf(p.value, 0):
			add(p.field, "must be finite")
		case p.value <= 0:
			add(p.field, "must be positive")
		}
	}
	if math.IsNaN(c.LoadPower) || math.IsInf(c.LoadPower, 0) {
		add("loadPower", "must be finite")
	}
	if math.IsNaN(c.Ze) || math.IsInf(c.Ze, 0) {
		add("ze", "must be finite")
	}
	if c.RCDProtected {
		switch {
		case c.RCDRating == nil:
			add("rcdRating", "is required when rcdProtected is true")
		case math.IsNaN(*c.RCDRating) || math.IsInf(*c.RCDRating, 0) || *c.RCDRating <= 0:
			add("rcdRating", "must be positive")
		}
	}
	return errs
}
