package repair

import "github.com/vishalsodani/decruft"

// DefaultMaxInputSize bounds the text the engine accepts, in bytes.
const DefaultMaxInputSize = 16 << 20

// Ensure Engine implements decruft.Repairer at compile time.
var _ decruft.Repairer = (*Engine)(nil)

// Engine applies an ordered rule table to decoded markup.
type Engine struct {
	rules        []decruft.Rule
	maxInputSize int
}

// Option configures an Engine.
type Option func(*Engine)

// WithRules replaces the rule table. Rules run in slice order.
func WithRules(rules []decruft.Rule) Option {
	return func(e *Engine) {
		e.rules = rules
	}
}

// WithMaxInputSize sets the largest input, in bytes, the engine repairs.
// Zero or a negative value disables the bound.
func WithMaxInputSize(n int) Option {
	return func(e *Engine) {
		e.maxInputSize = n
	}
}

// NewEngine creates an Engine using DefaultRules.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		rules:        DefaultRules(),
		maxInputSize: DefaultMaxInputSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Repair runs every rule exactly once, in table order.
func (e *Engine) Repair(text string) (string, error) {
	if e.maxInputSize > 0 && len(text) > e.maxInputSize {
		return "", decruft.Errorf(decruft.EEXHAUSTED,
			"input of %d bytes exceeds repair limit of %d bytes", len(text), e.maxInputSize)
	}
	for _, rule := range e.rules {
		text = rule.Apply(text)
	}
	return text, nil
}
