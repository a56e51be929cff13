package todo

import (
	"fmt"
	"strings"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"

	"github.com/Makepad-fr/tada/internal/model"
)

// filterEnv is the variable set a filter expression sees for one todo.
type filterEnv struct {
	ID   string `expr:"id"`
	Name string `expr:"name"`
	Done bool   `expr:"done"`
}

// Filter is a compiled boolean expression over id, name and done, e.g.
// `!done && name contains "milk"`.
type Filter struct {
	expression string
	program    *exprvm.Program
}

func CompileFilter(expression string) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, ErrEmptyFilter
	}
	program, err := exprlang.Compile(expression, exprlang.Env(filterEnv{}), exprlang.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile filter %q: %w", expression, err)
	}
	return &Filter{expression: expression, program: program}, nil
}

func (f *Filter) String() string { return f.expression }

// Match reports whether t satisfies the filter.
func (f *Filter) Match(t model.Todo) (bool, error) {
	out, err := exprlang.Run(f.program, filterEnv{ID: t.ID, Name: t.Name, Done: t.Done})
	if err != nil {
		return false, fmt.Errorf("run filter %q: %w", f.expression, err)
	}
	ok, _ := out.(bool)
	return ok, nil
}

// Apply keeps the todos that match, preserving order.
func (f *Filter) Apply(todos []model.Todo) ([]model.Todo, error) {
	out := make([]model.Todo, 0, len(todos))
	for _, t := range todos {
		ok, err := f.Match(t)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, t)
		}
	}
	return out, nil
}
