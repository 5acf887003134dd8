/*
Package query filters items with boolean expressions such as

	kind == "person" && start < 0
	category in ["science", "letters"] and above
	end - start >= 50 || name contains "War"

Expressions are compiled once against the item environment, so unknown fields and type
errors are reported before any item is evaluated.
*/
package query

import (
	"errors"
	"fmt"

	"chronoline/internal/chrono"
	"chronoline/internal/item"

	ex "github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// ErrInvalidQuery wraps compile errors.
var ErrInvalidQuery = errors.New("invalid query")

// Env is what an expression sees for one item.
type Env struct {
	ID          string   `expr:"id"`
	Name        string   `expr:"name"`
	Kind        string   `expr:"kind"`
	Category    string   `expr:"category"`
	Color       string   `expr:"color"`
	Shape       string   `expr:"shape"`
	Description string   `expr:"description"`
	Start       int      `expr:"start"`
	End         int      `expr:"end"`
	Duration    int      `expr:"duration"`
	Above       bool     `expr:"above"`
	Undated     bool     `expr:"undated"`
	Connections []string `expr:"connections"`
}

// EnvOf builds the environment for it.
func EnvOf(it item.Item) Env {
	env := Env{
		ID:          it.ID,
		Name:        it.Name,
		Kind:        it.Kind.String(),
		Category:    it.Category,
		Color:       it.Color,
		Shape:       string(it.Shape),
		Description: it.Description,
		Start:       it.Start,
		End:         it.End,
		Duration:    it.End - it.Start,
		Above:       it.Above,
		Undated:     it.Undated,
	}
	if it.Person != nil {
		env.Connections = it.Person.Connections
	}
	return env
}

// Query is a compiled filter expression.
type Query struct {
	src  string
	prog *vm.Program
}

func options() []ex.Option {
	return []ex.Option{
		ex.Env(Env{}),
		ex.AsBool(),
		ex.Function(
			"year",
			func(params ...any) (any, error) {
				s := params[0].(string)
				y, ok := chrono.ParseYear(s)
				if !ok {
					return nil, fmt.Errorf("year(%q): not a date", s)
				}
				return y, nil
			},
			new(func(string) int),
		),
	}
}

// Compile parses src. An empty expression matches everything.
func Compile(src string) (*Query, error) {
	if src == "" {
		return &Query{}, nil
	}
	prog, err := ex.Compile(src, options()...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	return &Query{src: src, prog: prog}, nil
}

// String returns the source expression.
func (q *Query) String() string {
	return q.src
}

// Match evaluates the query for it.
func (q *Query) Match(it item.Item) (bool, error) {
	if q.prog == nil {
		return true, nil
	}
	out, err := ex.Run(q.prog, EnvOf(it))
	if err != nil {
		return false, fmt.Errorf("evaluating %q for %s: %w", q.src, it.ID, err)
	}
	return out.(bool), nil
}

// Filter returns the items of s that match.
func (q *Query) Filter(s item.Snapshot) (item.Snapshot, error) {
	if q.prog == nil {
		return s, nil
	}
	var firstErr error
	keep := func(items []item.Item) []item.Item {
		out := make([]item.Item, 0, len(items))
		for _, it := range items {
			ok, err := q.Match(it)
			if err != nil && firstErr == nil {
				firstErr = err
			}
			if ok {
				out = append(out, it)
			}
		}
		return out
	}
	out := item.Snapshot{
		People:  keep(s.People),
		Points:  keep(s.Points),
		Periods: keep(s.Periods),
	}
	if firstErr != nil {
		return item.Snapshot{}, firstErr
	}
	return out, nil
}
