package diagram

import (
	"strconv"
)

// DocumentOptions carries the display-only fields of a document.
type DocumentOptions struct {
	Author string `json:"author,omitempty"`
	Date   string `json:"date,omitempty"`
	Title  string `json:"title,omitempty"`
}

// Option customises a generated document.
type Option func(*DocumentOptions)

// WithAuthor sets the metadata author.
func WithAuthor(author string) Option {
	return func(o *DocumentOptions) { o.Author = author }
}

// WithDate sets the metadata date. The engine never reads a clock, so callers that want
// a date in the title block pass it in.
func WithDate(date string) Option {
	return func(o *DocumentOptions) { o.Date = date }
}

// WithTitle replaces the generated title.
func WithTitle(title string) Option {
	return func(o *DocumentOptions) { o.Title = title }
}

// WithDocumentOptions applies every non-empty field of opts.
func WithDocumentOptions(opts DocumentOptions) Option {
	return func(o *DocumentOptions) {
		if opts.Author != "" {
			o.Author = opts.Author
		}
		if opts.Date != "" {
			o.Date = opts.Date
		}
		if opts.Title != "" {
			o.Title = opts.Title
		}
	}
}

func applyOptions(opts []Option) DocumentOptions {
	var out DocumentOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&out)
		}
	}
	return out
}

// Generator produces layout documents from circuit data. It holds no mutable state and
// is safe for concurrent use.
type Generator struct {
	cfg LayoutConfig
}

// NewGenerator constructs a generator after validating cfg.
func NewGenerator(cfg LayoutConfig) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Generator{cfg: cfg}, nil
}

var defaultGenerator = &Generator{cfg: DefaultLayoutConfig()}

// DefaultGenerator returns a generator using DefaultLayoutConfig.
func DefaultGenerator() *Generator {
	return defaultGenerator
}

// Config returns the generator's layout constants.
func (g *Generator) Config() LayoutConfig {
	return g.cfg
}

// GenerateSingleLineDiagram lays out one circuit with the default configuration.
func GenerateSingleLineDiagram(circuit CircuitData, opts ...Option) *LayoutDocument {
	return defaultGenerator.SingleLine(circuit, opts...)
}

// GenerateConsumerUnitDiagram lays out a distribution board with the default configuration.
func GenerateConsumerUnitDiagram(circuits []CircuitData, mainSwitchRating float64, opts ...Option) *LayoutDocument {
	return defaultGenerator.ConsumerUnit(circuits, mainSwitchRating, opts...)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
