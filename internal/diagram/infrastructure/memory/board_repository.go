package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	diagram "sld-service/internal/diagram/domain"
)

// BoardRepository is an in-memory repository for boards.
type BoardRepository struct {
	mu   sync.RWMutex
	data map[string]*diagram.Board
}

// NewBoardRepository constructs a repository.
func NewBoardRepository() *BoardRepository {
	return &BoardRepository{data: make(map[string]*diagram.Board)}
}

// Get loads a board by id. It returns nil when the board does not exist.
func (r *BoardRepository) Get(ctx context.Context, id string) (*diagram.Board, error) {
	_ = ctx
	if id == "" {
		return nil, errors.New("board repo: empty id")
	}
	r.mu.RLock()
	board := r.data[id]
	r.mu.RUnlock()
	return board.Clone(), nil
}

// Save stores a copy of the board, replacing any previous version.
func (r *BoardRepository) Save(ctx context.Context, board *diagram.Board) error {
	_ = ctx
	if board == nil {
		return diagram.ErrNilBoard
	}
	if err := board.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	r.data[board.ID] = board.Clone()
	r.mu.Unlock()
	return nil
}

// List returns the tenant's boards ordered by name then id.
func (r *BoardRepository) List(ctx context.Context, tenantID string) ([]diagram.Board, error) {
	_ = ctx
	r.mu.RLock()
	var result []diagram.Board
	for _, board := range r.data {
		if board.TenantID == tenantID {
			result = append(result, *board.Clone())
		}
	}
	r.mu.RUnlock()
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}
