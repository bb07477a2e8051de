package diagram

import (
	"context"
	"fmt"
	"time"
)

// Board is a stored distribution board and its circuits, in layout order.
type Board struct {
	ID               string        `json:"id"`
	TenantID         string        `json:"tenantId"`
	Name             string        `json:"name"`
	MainSwitchRating float64       `json:"mainSwitchRating"`
	Author           string        `json:"author,omitempty"`
	Circuits         []CircuitData `json:"circuits"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}

// Validate checks the record fields needed to store a board. Circuit contents are not
// checked here; use ValidateBoard for that.
func (b Board) Validate() error {
	if b.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidBoard)
	}
	if b.TenantID == "" {
		return fmt.Errorf("%w: empty tenant id", ErrInvalidBoard)
	}
	if b.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidBoard)
	}
	if b.MainSwitchRating < 0 {
		return fmt.Errorf("%w: negative main switch rating", ErrInvalidBoard)
	}
	return nil
}

// EffectiveMainSwitchRating returns the rating to draw, DefaultMainSwitchRating when unset.
func (b Board) EffectiveMainSwitchRating() float64 {
	if b.MainSwitchRating == 0 {
		return DefaultMainSwitchRating
	}
	return b.MainSwitchRating
}

// Circuit returns the circuit with the given number.
func (b Board) Circuit(number int) (CircuitData, bool) {
	for _, c := range b.Circuits {
		if c.CircuitNumber == number {
			return c, true
		}
	}
	return CircuitData{}, false
}

// Clone returns a deep copy.
func (b *Board) Clone() *Board {
	if b == nil {
		return nil
	}
	copy := *b
	if b.Circuits != nil {
		copy.Circuits = make([]CircuitData, len(b.Circuits))
		for i, c := range b.Circuits {
			copy.Circuits[i] = c.Clone()
		}
	}
	return &copy
}

// BoardRepository persists boards.
type BoardRepository interface {
	Get(ctx context.Context, id string) (*Board, error)
	Save(ctx context.Context, board *Board) error
	List(ctx context.Context, tenantID string) ([]Board, error)
}
