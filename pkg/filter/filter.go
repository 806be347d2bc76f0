// Package filter selects widgets with boolean expressions such as
//
//	type == "image" && y > 300
//
// Expressions are evaluated with github.com/expr-lang/expr against a
// per-widget environment with these variables:
//
//	id, type       string
//	x, y           int   top-left corner
//	width, height  int   effective size
//	right, bottom  int   exclusive far edges
//	deletable      bool  false for core profile sections
package filter

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dshills/carering/pkg/profile"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Sentinel errors for filter expressions
var (
	ErrEmptyExpression = errors.New("filter expression cannot be empty")
	ErrInvalidFilter   = errors.New("invalid filter expression")
)

// Filter compiles and caches widget selection expressions.
// It is safe for concurrent use.
type Filter struct {
	mu           sync.Mutex
	programCache map[string]*vm.Program
}

// New creates a filter with an empty program cache
func New() *Filter {
	return &Filter{programCache: make(map[string]*vm.Program)}
}

// Env builds the expression environment for a widget
func Env(w profile.Widget) map[string]interface{} {
	r := w.Rect()
	return map[string]interface{}{
		"id":        w.ID.String(),
		"type":      string(w.Type),
		"x":         r.X,
		"y":         r.Y,
		"width":     r.Width,
		"height":    r.Height,
		"right":     r.Right(),
		"bottom":    r.Bottom(),
		"deletable": w.Type.Deletable(),
	}
}

// Compile validates an expression and caches its program
func (f *Filter) Compile(expression string) error {
	_, err := f.program(expression)
	return err
}

// Match reports whether the widget satisfies the expression
func (f *Filter) Match(expression string, w profile.Widget) (bool, error) {
	program, err := f.program(expression)
	if err != nil {
		return false, err
	}

	out, err := expr.Run(program, Env(w))
	if err != nil {
		return false, fmt.Errorf("evaluating filter on widget %s: %w", w.ID, err)
	}

	result, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("%w: result is %T, not bool", ErrInvalidFilter, out)
	}
	return result, nil
}

// Select returns the widgets matching the expression, in input order
func (f *Filter) Select(expression string, widgets []profile.Widget) ([]profile.Widget, error) {
	selected := make([]profile.Widget, 0, len(widgets))
	for _, w := range widgets {
		ok, err := f.Match(expression, w)
		if err != nil {
			return nil, err
		}
		if ok {
			selected = append(selected, w)
		}
	}
	return selected, nil
}

func (f *Filter) program(expression string) (*vm.Program, error) {
	if expression == "" {
		return nil, ErrEmptyExpression
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if program, ok := f.programCache[expression]; ok {
		return program, nil
	}

	program, err := expr.Compile(expression, expr.Env(Env(profile.Widget{})), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}

	f.programCache[expression] = program
	return program, nil
}
