// Package filter evaluates user supplied boolean expressions against Hub
// list items, e.g. `pulls > 100 && "db" in keywords`.
package filter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/zjrosen/hubctl/internal/domain/hub"
)

// ErrEmptyExpression is returned by Compile for a blank expression.
var ErrEmptyExpression = errors.New("filter expression must not be empty")

// Filter is a compiled expression over one kind of item.
type Filter[T any] struct {
	expression string
	program    *vm.Program
	env        func(T) map[string]any
}

// ImageEnv exposes an image to expressions.
func ImageEnv(i hub.Image) map[string]any {
	keywords := i.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	return map[string]any{
		"org":        i.OrgName,
		"name":       i.ImageName,
		"summary":    i.Summary,
		"pulls":      i.PullCount,
		"keywords":   keywords,
		"visibility": i.Visibility,
		"updated":    i.UpdatedTimestamp,
		"role":       i.UserRole,
	}
}

// OrgEnv exposes an org to expressions.
func OrgEnv(o hub.Org) map[string]any {
	return map[string]any{
		"org":        o.OrgName,
		"summary":    o.Summary,
		"images":     o.ImageCount,
		"visibility": o.DefaultVisibility,
		"role":       o.UserRole,
	}
}

// VersionEnv exposes a version to expressions.
func VersionEnv(v hub.Version) map[string]any {
	return map[string]any{
		"version": v.Name(),
		"pulls":   v.PullCount,
		"author":  v.LastAuthor,
		"updated": v.UpdatedTimestamp,
		"role":    v.UserRole,
	}
}

// Compile checks expression against the variables env produces and returns
// a reusable Filter. The expression must evaluate to a bool.
func Compile[T any](expression string, env func(T) map[string]any) (*Filter[T], error) {
	if strings.TrimSpace(expression) == "" {
		return nil, ErrEmptyExpression
	}
	var zero T
	program, err := expr.Compile(expression, expr.Env(env(zero)), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("invalid filter %q: %w", expression, err)
	}
	return &Filter[T]{expression: expression, program: program, env: env}, nil
}

// Match reports whether item satisfies the expression.
func (f *Filter[T]) Match(item T) (bool, error) {
	out, err := expr.Run(f.program, f.env(item))
	if err != nil {
		return false, fmt.Errorf("evaluating filter %q: %w", f.expression, err)
	}
	ok, _ := out.(bool)
	return ok, nil
}

// Apply returns the items that satisfy the expression, in order.
func (f *Filter[T]) Apply(items []T) ([]T, error) {
	out := make([]T, 0, len(items))
	for _, item := range items {
		ok, err := f.Match(item)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, item)
		}
	}
	return out, nil
}
