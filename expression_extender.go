package hitproxy

import (
	"fmt"
	"sort"

	"github.com/Tap30/hitproxy-go/adapters"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// ExpressionExtender sets properties from expressions evaluated against the
// hit. Expressions see:
//
//	hit          map[string]string  the outgoing hit
//	hitType      string             the hit type
//	tracker(key) string             a tracker attribute, "" when unset
//
// A nil result removes the property, any other result is formatted with
// fmt.Sprint. Expressions are compiled once by NewExpressionExtender.
type ExpressionExtender struct {
	typeKey  string
	names    []string
	programs []*vm.Program
	logger   LoggerAdapter
}

var _ Extender = (*ExpressionExtender)(nil)

func expressionEnv(hit Hit, hitType string, state TrackerState) map[string]any {
	return map[string]any{
		"hit":     map[string]string(hit),
		"hitType": hitType,
		"tracker": func(key string) string {
			if state == nil {
				return ""
			}
			v, _ := state.Get(key)
			return v
		},
	}
}

// NewExpressionExtender compiles properties (property name to expression).
// prefix is the proxy's key prefix and locates the hit type. A nil logger
// discards evaluation errors.
func NewExpressionExtender(properties map[string]string, prefix string, logger LoggerAdapter) (*ExpressionExtender, error) {
	if logger == nil {
		logger = adapters.NewNoOpLoggerAdapter()
	}

	names := make([]string, 0, len(properties))
	for name := range properties {
		names = append(names, name)
	}
	sort.Strings(names)

	env := expressionEnv(Hit{}, "", nil)
	programs := make([]*vm.Program, len(names))
	for i, name := range names {
		program, err := expr.Compile(properties[name], expr.Env(env))
		if err != nil {
			return nil, fmt.Errorf("failed to compile expression for property %q: %w", name, err)
		}
		programs[i] = program
	}

	return &ExpressionExtender{
		typeKey:  withPrefix(prefix, KeyHitType),
		names:    names,
		programs: programs,
		logger:   logger,
	}, nil
}

// Extend evaluates every expression. Failing expressions are logged and
// leave the draft untouched.
func (e *ExpressionExtender) Extend(event *Draft, hit Hit, state TrackerState) {
	env := expressionEnv(hit, hit[e.typeKey], state)
	for i, name := range e.names {
		output, err := expr.Run(e.programs[i], env)
		if err != nil {
			e.logger.Warn("Failed to evaluate expression for property %q: %v", name, err)
			continue
		}
		if output == nil {
			event.RemoveProperty(name)
			continue
		}
		event.AddProperty(name, fmt.Sprint(output))
	}
}
