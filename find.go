package xlview

import (
	"fmt"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// CellEnv is what a Find query sees for one cell.
type CellEnv struct {
	Ref     string   `expr:"ref"`
	Col     string   `expr:"col"`
	Row     int      `expr:"row"`
	Formula string   `expr:"formula"`
	Value   any      `expr:"value"`
	Style   string   `expr:"style"`
	Labels  []string `expr:"labels"`
}

// QueryEvaluator decides whether a cell matches a query.
type QueryEvaluator interface {
	Matches(query string, env CellEnv) (bool, error)
}

// exprEvaluator implements QueryEvaluator using expr-lang/expr.
type exprEvaluator struct {
	cache sync.Map // query string → compiled *vm.Program
}

// NewQueryEvaluator creates a QueryEvaluator backed by expr-lang/expr.
func NewQueryEvaluator() QueryEvaluator {
	return &exprEvaluator{}
}

func (e *exprEvaluator) Matches(query string, env CellEnv) (bool, error) {
	program, err := e.compile(query)
	if err != nil {
		return false, fmt.Errorf("compile query %q: %w", query, err)
	}
	result, err := expr.Run(program, env)
	if err != nil {
		return false, fmt.Errorf("evaluate query %q: %w", query, err)
	}
	b, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("query %q evaluated to %T, expected bool", query, result)
	}
	return b, nil
}

func (e *exprEvaluator) compile(query string) (*vm.Program, error) {
	if cached, ok := e.cache.Load(query); ok {
		return cached.(*vm.Program), nil
	}
	program, err := expr.Compile(query, expr.Env(CellEnv{}), expr.AsBool())
	if err != nil {
		return nil, err
	}
	e.cache.Store(query, program)
	return program, nil
}

func (c *ViewportCache) cellEnv(cell Cell) CellEnv {
	labels := c.Labels(cell.Ref)
	names := make([]string, len(labels))
	for i, l := range labels {
		names[i] = l.String()
	}
	return CellEnv{
		Ref:     cell.Ref.String(),
		Col:     cell.Ref.Column().String(),
		Row:     cell.Ref.Row,
		Formula: cell.Formula,
		Value:   cell.Value,
		Style:   cell.Style,
		Labels:  names,
	}
}

// Find returns the cached cells matching a boolean query, in row-major
// order. Queries use expr syntax over the variables ref, col, row, formula,
// value, style and labels, e.g. `row > 3 && formula startsWith "SUM("`.
func (c *ViewportCache) Find(query string) ([]Cell, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("find: empty query: %w", ErrInvalidArgument)
	}
	var matches []Cell
	for _, cell := range c.Cells() {
		ok, err := c.opts.evaluator.Matches(query, c.cellEnv(cell))
		if err != nil {
			return nil, fmt.Errorf("find at %s: %w", cell.Ref, err)
		}
		if ok {
			matches = append(matches, cell)
		}
	}
	return matches, nil
}
