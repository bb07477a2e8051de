package diagram

import "errors"

var (
	// ErrInvalidCircuit is returned by the validation pre-check for unusable circuit data.
	ErrInvalidCircuit = errors.New("diagram: invalid circuit")
	// ErrInvalidLayoutConfig is returned when spacing constants cannot produce a valid layout.
	ErrInvalidLayoutConfig = errors.New("diagram: invalid layout config")
	// ErrInvalidDocument is returned when a layout document breaks a geometric invariant.
	ErrInvalidDocument = errors.New("diagram: invalid layout document")
	// ErrInvalidBoard is returned when a board record fails validation.
	ErrInvalidBoard = errors.New("diagram: invalid board")
	// ErrBoardNotFound is returned when a board does not exist.
	ErrBoardNotFound = errors.New("diagram: board not found")
	// ErrCircuitNotFound is returned when a board has no circuit with the requested number.
	ErrCircuitNotFound = errors.New("diagram: circuit not found")
	// ErrNilBoard is returned when saving a nil board.
	ErrNilBoard = errors.New("diagram: nil board")
)
