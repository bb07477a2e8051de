package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"sld-service/internal/auth"
	diagram "sld-service/internal/diagram/domain"
	"sld-service/internal/observability/metrics"
)

const (
	kindSingleLine   = "single_line"
	kindConsumerUnit = "consumer_unit"

	defaultBatchWorkers = 4
	metadataDateLayout  = "2006-01-02"
)

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// Service generates diagrams for ad-hoc circuit data and for stored boards.
type Service struct {
	repo      diagram.BoardRepository
	generator *diagram.Generator
	tenantID  string
	logger    *log.Logger
	clock     Clock
	strict    bool
	workers   int
}

// Option configures the service.
type Option func(*Service)

// WithStrictValidation runs the circuit pre-check before every generation and fails
// on invalid data instead of drawing it.
func WithStrictValidation(strict bool) Option {
	return func(s *Service) { s.strict = strict }
}

// WithBatchWorkers bounds the number of circuits laid out concurrently.
func WithBatchWorkers(workers int) Option {
	return func(s *Service) {
		if workers > 0 {
			s.workers = workers
		}
	}
}

// WithClock overrides the clock used for metadata dates and timestamps.
func WithClock(clock Clock) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewService constructs a service.
func NewService(repo diagram.BoardRepository, generator *diagram.Generator, tenantID string, logger *log.Logger, opts ...Option) (*Service, error) {
	if repo == nil {
		return nil, errors.New("diagram service: nil repo")
	}
	if generator == nil {
		return nil, errors.New("diagram service: nil generator")
	}
	if tenantID == "" {
		return nil, errors.New("diagram service: empty tenant id")
	}
	s := &Service{
		repo:      repo,
		generator: generator,
		tenantID:  tenantID,
		logger:    logger,
		clock:     systemClock{},
		workers:   defaultBatchWorkers,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// PreviewSingleLine lays out one circuit supplied by the caller.
func (s *Service) PreviewSingleLine(ctx context.Context, circuit diagram.CircuitData, docOpts diagram.DocumentOptions) (*diagram.LayoutDocument, error) {
	_ = ctx
	return s.observe(kindSingleLine, func() (*diagram.LayoutDocument, error) {
		if s.strict {
			if err := diagram.ValidateCircuit(circuit); err != nil {
				return nil, err
			}
		}
		return s.generator.SingleLine(circuit, s.documentOptions(docOpts)...), nil
	})
}

// PreviewConsumerUnit lays out a board supplied by the caller. A zero rating means the
// default main switch rating.
func (s *Service) PreviewConsumerUnit(ctx context.Context, circuits []diagram.CircuitData, mainSwitchRating float64, docOpts diagram.DocumentOptions) (*diagram.LayoutDocument, error) {
	_ = ctx
	if mainSwitchRating == 0 {
		mainSwitchRating = diagram.DefaultMainSwitchRating
	}
	return s.observe(kindConsumerUnit, func() (*diagram.LayoutDocument, error) {
		if s.strict {
			if err := diagram.ValidateBoard(circuits); err != nil {
				return nil, err
			}
		}
		return s.generator.ConsumerUnit(circuits, mainSwitchRating, s.documentOptions(docOpts)...), nil
	})
}

// GetBoard loads a board owned by the caller's tenant.
func (s *Service) GetBoard(ctx context.Context, id string) (*diagram.Board, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty id", diagram.ErrInvalidBoard)
	}
	board, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if board == nil {
		return nil, diagram.ErrBoardNotFound
	}
	if board.TenantID != s.tenant(ctx) {
		return nil, auth.ErrTenantMismatch
	}
	return board, nil
}

// ListBoards lists the caller's boards.
func (s *Service) ListBoards(ctx context.Context) ([]diagram.Board, error) {
	return s.repo.List(ctx, s.tenant(ctx))
}

// SaveBoard stores a board for the caller's tenant, assigning an id when it has none.
func (s *Service) SaveBoard(ctx context.Context, board *diagram.Board) (*diagram.Board, error) {
	if board == nil {
		return nil, diagram.ErrNilBoard
	}
	tenantID := s.tenant(ctx)
	if board.TenantID != "" && board.TenantID != tenantID {
		return nil, auth.ErrTenantMismatch
	}
	saved := board.Clone()
	saved.TenantID = tenantID
	if saved.ID == "" {
		saved.ID = uuid.NewString()
	} else {
		existing, err := s.repo.Get(ctx, saved.ID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			if existing.TenantID != tenantID {
				return nil, auth.ErrTenantMismatch
			}
			saved.CreatedAt = existing.CreatedAt
		}
	}
	if s.strict {
		if err := diagram.ValidateBoard(saved.Circuits); err != nil {
			return nil, err
		}
	}
	now := s.clock.Now()
	if saved.CreatedAt.IsZero() {
		saved.CreatedAt = now
	}
	saved.UpdatedAt = now
	if err := saved.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, saved); err != nil {
		metrics.IncBoardSave(metrics.ResultError)
		s.logf("board save failed: board=%s err=%v", saved.ID, err)
		return nil, err
	}
	metrics.IncBoardSave(metrics.ResultSuccess)
	return saved, nil
}

// BoardDiagram lays out a stored board.
func (s *Service) BoardDiagram(ctx context.Context, boardID string) (*diagram.LayoutDocument, error) {
	board, err := s.GetBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	return s.boardDocument(board)
}

// CircuitDiagram lays out one circuit of a stored board.
func (s *Service) CircuitDiagram(ctx context.Context, boardID string, circuitNumber int) (*diagram.LayoutDocument, error) {
	board, err := s.GetBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	circuit, ok := board.Circuit(circuitNumber)
	if !ok {
		return nil, diagram.ErrCircuitNotFound
	}
	return s.circuitDocument(board, circuit)
}

// CircuitDiagrams lays out every circuit of a stored board concurrently. The result is
// in circuit order.
func (s *Service) CircuitDiagrams(ctx context.Context, boardID string) ([]*diagram.LayoutDocument, error) {
	board, err := s.GetBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	return s.circuitDocuments(ctx, board)
}

// BoardPack returns a board with its consumer-unit layout first, followed by one
// single-line layout per circuit. Used for multi-page export.
func (s *Service) BoardPack(ctx context.Context, boardID string) (*diagram.Board, []*diagram.LayoutDocument, error) {
	board, err := s.GetBoard(ctx, boardID)
	if err != nil {
		return nil, nil, err
	}
	overview, err := s.boardDocument(board)
	if err != nil {
		return nil, nil, err
	}
	circuits, err := s.circuitDocuments(ctx, board)
	if err != nil {
		return nil, nil, err
	}
	return board, append([]*diagram.LayoutDocument{overview}, circuits...), nil
}

func (s *Service) boardDocument(board *diagram.Board) (*diagram.LayoutDocument, error) {
	return s.observe(kindConsumerUnit, func() (*diagram.LayoutDocument, error) {
		if s.strict {
			if err := diagram.ValidateBoard(board.Circuits); err != nil {
				return nil, err
			}
		}
		opts := s.documentOptions(diagram.DocumentOptions{
			Author: board.Author,
			Title:  board.Name + " - Consumer Unit",
		})
		return s.generator.ConsumerUnit(board.Circuits, board.EffectiveMainSwitchRating(), opts...), nil
	})
}

func (s *Service) circuitDocument(board *diagram.Board, circuit diagram.CircuitData) (*diagram.LayoutDocument, error) {
	return s.observe(kindSingleLine, func() (*diagram.LayoutDocument, error) {
		if s.strict {
			if err := diagram.ValidateCircuit(circuit); err != nil {
				return nil, err
			}
		}
		return s.generator.SingleLine(circuit, s.documentOptions(diagram.DocumentOptions{Author: board.Author})...), nil
	})
}

func (s *Service) circuitDocuments(ctx context.Context, board *diagram.Board) ([]*diagram.LayoutDocument, error) {
	docs := make([]*diagram.LayoutDocument, len(board.Circuits))
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(s.workers)
	for i, circuit := range board.Circuits {
		i, circuit := i, circuit
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			doc, err := s.circuitDocument(board, circuit)
			if err != nil {
				return fmt.Errorf("circuit %d: %w", circuit.CircuitNumber, err)
			}
			docs[i] = doc
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

// documentOptions fills the metadata date from the service clock unless the caller set one.
func (s *Service) documentOptions(docOpts diagram.DocumentOptions) []diagram.Option {
	if docOpts.Date == "" {
		docOpts.Date = s.clock.Now().Format(metadataDateLayout)
	}
	return []diagram.Option{diagram.WithDocumentOptions(docOpts)}
}

func (s *Service) observe(kind string, generate func() (*diagram.LayoutDocument, error)) (*diagram.LayoutDocument, error) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveDiagramGenerate(kind, result, time.Since(start))
	}()

	doc, err := generate()
	if err != nil {
		result = metrics.ResultError
		s.logf("diagram %s rejected: %v", kind, err)
		return nil, err
	}
	metrics.ObserveDiagramElements(kind, len(doc.Elements))
	return doc, nil
}

func (s *Service) tenant(ctx context.Context) string {
	if tenantID := auth.TenantIDFromContext(ctx); tenantID != "" {
		return tenantID
	}
	return s.tenantID
}

func (s *Service) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
