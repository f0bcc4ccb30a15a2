// Package engine resolves, instantiates, normalizes and relates types.
//
// An Engine holds only settings, so one Engine may serve concurrent queries
// against a shared environment. Every query allocates its own scopes and
// canonicalisation table and drops them when it returns.
package engine

import (
	"github.com/cottand/tcore/env"
	"github.com/cottand/tcore/internal/log"
	"github.com/cottand/tcore/tyerr"
	"github.com/cottand/tcore/types"
	"log/slog"
)

const DefaultMaxDepth = 512

type Config struct {
	// MaxDepth bounds the recursion of every operation.
	// Exceeding it fails with tyerr.DepthExceeded
	MaxDepth int
	// Strict makes value-equal but distinct types an error
	// (tyerr.StructuralInvariantViolation) rather than a logged warning
	Strict bool
	// ValidateContexts checks every Context the engine unwraps only binds
	// names that occur in it
	ValidateContexts bool
	// Logger may be nil, in which case log.DefaultLogger is used
	Logger *slog.Logger
}

func DefaultConfig() Config {
	return Config{
		MaxDepth: DefaultMaxDepth,
	}
}

type Engine struct {
	config Config
	logger *slog.Logger
}

func New(config Config) *Engine {
	if config.MaxDepth <= 0 {
		config.MaxDepth = DefaultMaxDepth
	}
	logger := config.Logger
	if logger == nil {
		logger = log.DefaultLogger
	}
	return &Engine{
		config: config,
		logger: logger,
	}
}

func (en *Engine) Config() Config { return en.config }

// query carries the state of a single top-level operation
type query struct {
	*Engine
	*slog.Logger
	normaliser *normaliser
}

func (en *Engine) newQuery(section string) *query {
	q := &query{
		Engine: en,
		Logger: en.logger.With("section", section),
	}
	q.normaliser = &normaliser{
		query:    q,
		interned: make(map[string]types.Type),
	}
	return q
}

// enter fails once an operation recursed deeper than the configured limit,
// which is how cyclic or pathological inputs are cut short
func (q *query) enter(depth int, at types.Type) error {
	if depth > q.config.MaxDepth {
		q.Warn("recursion limit exceeded", "limit", q.config.MaxDepth, "at", at)
		return tyerr.New(tyerr.DepthExceeded{Limit: q.config.MaxDepth, At: at})
	}
	return nil
}

// unwrapContext returns the scope a Context's inner type is read in
func (q *query) unwrapContext(e *env.Environment, c *types.Context) (*env.Environment, error) {
	if q.config.ValidateContexts {
		if unbound := types.UnboundKeys(c); len(unbound) != 0 {
			return nil, tyerr.New(tyerr.MalformedContext{Context: c, Unbound: unbound})
		}
	}
	return e.Substitution(c.Bindings), nil
}
