package view

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/idilsaglam/techtrack/internal/model"
)

// Predicate is a compiled --where expression such as
//
//	status == "completed" && category == "frontend"
//	hasNotes and title contains "React"
type Predicate struct {
	source  string
	program *vm.Program
}

// itemEnv is the environment an expression sees for one item.
type itemEnv struct {
	ID          int    `expr:"id"`
	Title       string `expr:"title"`
	Description string `expr:"description"`
	Status      string `expr:"status"`
	Notes       string `expr:"notes"`
	Category    string `expr:"category"`
	HasNotes    bool   `expr:"hasNotes"`
}

func envFor(it model.TrackedItem) itemEnv {
	return itemEnv{
		ID:          it.ID,
		Title:       it.Title,
		Description: it.Description,
		Status:      string(it.Status),
		Notes:       it.Notes,
		Category:    it.Category,
		HasNotes:    it.HasNotes(),
	}
}

// Where compiles expression. An empty expression yields a nil Predicate,
// which matches everything.
func Where(expression string) (*Predicate, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, nil
	}
	program, err := expr.Compile(expression, expr.Env(itemEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("where %q: %w", expression, err)
	}
	return &Predicate{source: expression, program: program}, nil
}

func (p *Predicate) String() string {
	if p == nil {
		return ""
	}
	return p.source
}

// Match evaluates the predicate for it.
func (p *Predicate) Match(it model.TrackedItem) (bool, error) {
	if p == nil {
		return true, nil
	}
	out, err := expr.Run(p.program, envFor(it))
	if err != nil {
		return false, fmt.Errorf("where %q on item %d: %w", p.source, it.ID, err)
	}
	ok, _ := out.(bool)
	return ok, nil
}

// Filter keeps the items the predicate matches.
func (p *Predicate) Filter(items []model.TrackedItem) ([]model.TrackedItem, error) {
	if p == nil {
		return items, nil
	}
	out := make([]model.TrackedItem, 0, len(items))
	for _, it := range items {
		ok, err := p.Match(it)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, it)
		}
	}
	return out, nil
}
