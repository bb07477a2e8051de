package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	diagram "sld-service/internal/diagram/domain"
)

const (
	defaultBoardsTable   = "boards"
	defaultCircuitsTable = "board_circuits"
)

// BoardRepository persists boards and their circuits in Postgres.
type BoardRepository struct {
	db            *sql.DB
	boardsTable   string
	circuitsTable string
}

// BoardOption configures the repository.
type BoardOption func(*BoardRepository)

// WithTables overrides the default table names.
func WithTables(boards, circuits string) BoardOption {
	return func(repo *BoardRepository) {
		if boards != "" {
			repo.boardsTable = boards
		}
		if circuits != "" {
			repo.circuitsTable = circuits
		}
	}
}

// NewBoardRepository constructs a repository.
func NewBoardRepository(db *sql.DB, opts ...BoardOption) *BoardRepository {
	repo := &BoardRepository{db: db, boardsTable: defaultBoardsTable, circuitsTable: defaultCircuitsTable}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// Get loads a board with its circuits in stored order. It returns nil when the board
// does not exist.
func (r *BoardRepository) Get(ctx context.Context, id string) (*diagram.Board, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("board repo: nil db")
	}
	if id == "" {
		return nil, errors.New("board repo: empty id")
	}
	row := r.db.QueryRowContext(ctx, fmt.Sprintf(`
SELECT id, tenant_id, name, main_switch_rating, author, created_at, updated_at
FROM %s
WHERE id = $1
LIMIT 1`, r.boardsTable), id)
	board, err := scanBoard(row)
	if err != nil || board == nil {
		return board, err
	}
	circuits, err := r.listCircuits(ctx, board.ID)
	if err != nil {
		return nil, err
	}
	board.Circuits = circuits
	return board, nil
}

// List returns the tenant's boards without circuits, ordered by name.
func (r *BoardRepository) List(ctx context.Context, tenantID string) ([]diagram.Board, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("board repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`
SELECT id, tenant_id, name, main_switch_rating, author, created_at, updated_at
FROM %s
WHERE tenant_id = $1
ORDER BY name ASC, id ASC`, r.boardsTable), tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []diagram.Board
	for rows.Next() {
		board, err := scanBoard(rows)
		if err != nil {
			return nil, err
		}
		if board != nil {
			result = append(result, *board)
		}
	}
	return result, rows.Err()
}

// Save upserts the board and replaces its circuits in one transaction. Circuit order is
// kept through the position column.
func (r *BoardRepository) Save(ctx context.Context, board *diagram.Board) error {
	if r == nil || r.db == nil {
		return errors.New("board repo: nil db")
	}
	if board == nil {
		return diagram.ErrNilBoard
	}
	if err := board.Validate(); err != nil {
		return err
	}
	now := time.Now().UTC()
	if board.CreatedAt.IsZero() {
		board.CreatedAt = now
	}
	if board.UpdatedAt.IsZero() {
		board.UpdatedAt = now
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, fmt.Sprintf(`
INSERT INTO %s (
	id, tenant_id, name, main_switch_rating, author, created_at, updated_at
) VALUES (
	$1,$2,$3,$4,$5,$6,$7
)
ON CONFLICT (id)
DO UPDATE SET
	name = EXCLUDED.name,
	main_switch_rating = EXCLUDED.main_switch_rating,
	author = EXCLUDED.author,
	updated_at = EXCLUDED.updated_at`, r.boardsTable),
		board.ID, board.TenantID, board.Name, board.MainSwitchRating, board.Author, board.CreatedAt, board.UpdatedAt,
	)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE board_id = $1`, r.circuitsTable), board.ID); err != nil {
		_ = tx.Rollback()
		return err
	}
	insert := fmt.Sprintf(`
INSERT INTO %s (
	board_id, position, circuit_number, name, voltage, cable_length, cable_size, cpc_size,
	load_type, load_power, device_type, device_rating, device_curve, device_ka_rating,
	rcd_protected, rcd_rating, rcd_type, ze
) VALUES (
	$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18
)`, r.circuitsTable)
	for i, c := range board.Circuits {
		var rcdRating sql.NullFloat64
		if c.RCDRating != nil {
			rcdRating = sql.NullFloat64{Float64: *c.RCDRating, Valid: true}
		}
		_, err := tx.ExecContext(ctx, insert,
			board.ID, i, c.CircuitNumber, c.Name, c.Voltage, c.CableLength, c.CableSize, c.CPCSize,
			c.LoadType, c.LoadPower, c.ProtectionDevice.Type, c.ProtectionDevice.Rating, c.ProtectionDevice.Curve, c.ProtectionDevice.KaRating,
			c.RCDProtected, rcdRating, c.RCDType, c.Ze,
		)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// CountBoards returns the number of stored boards.
func (r *BoardRepository) CountBoards(ctx context.Context) (int64, error) {
	if r == nil || r.db == nil {
		return 0, errors.New("board repo: nil db")
	}
	var count int64
	err := r.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, r.boardsTable)).Scan(&count)
	return count, err
}

func (r *BoardRepository) listCircuits(ctx context.Context, boardID string) ([]diagram.CircuitData, error) {
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`
SELECT circuit_number, name, voltage, cable_length, cable_size, cpc_size,
	load_type, load_power, device_type, device_rating, device_curve, device_ka_rating,
	rcd_protected, rcd_rating, rcd_type, ze
FROM %s
WHERE board_id = $1
ORDER BY position ASC`, r.circuitsTable), boardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	circuits := []diagram.CircuitData{}
	for rows.Next() {
		var (
			c         diagram.CircuitData
			rcdRating sql.NullFloat64
		)
		if err := rows.Scan(
			&c.CircuitNumber,
			&c.Name,
			&c.Voltage,
			&c.CableLength,
			&c.CableSize,
			&c.CPCSize,
			&c.LoadType,
			&c.LoadPower,
			&c.ProtectionDevice.Type,
			&c.ProtectionDevice.Rating,
			&c.ProtectionDevice.Curve,
			&c.ProtectionDevice.KaRating,
			&c.RCDProtected,
			&rcdRating,
			&c.RCDType,
			&c.Ze,
		); err != nil {
			return nil, err
		}
		if rcdRating.Valid {
			c.RCDRating = diagram.RCDmA(rcdRating.Float64)
		}
		circuits = append(circuits, c)
	}
	return circuits, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBoard(row rowScanner) (*diagram.Board, error) {
	var board diagram.Board
	if err := row.Scan(
		&board.ID,
		&board.TenantID,
		&board.Name,
		&board.MainSwitchRating,
		&board.Author,
		&board.CreatedAt,
		&board.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	board.CreatedAt = board.CreatedAt.UTC()
	board.UpdatedAt = board.UpdatedAt.UTC()
	return &board, nil
}
