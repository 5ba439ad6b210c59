package matching

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

const (
	DefaultMatchRule  = "same_id || (score > 85 && same_state)"
	DefaultReviewRule = "score > 70 && score <= 85"
)

// Facts are the variables visible to a rule.
type Facts struct {
	Score     int
	SameID    bool
	SameState bool
}

func (f Facts) env() map[string]any {
	return map[string]any{
		"score":      f.Score,
		"same_id":    f.SameID,
		"same_state": f.SameState,
	}
}

// Rule is a compiled boolean expr-lang expression over score, same_id and
// same_state.
type Rule struct {
	source  string
	program *vm.Program
}

func CompileRule(source string) (*Rule, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, fmt.Errorf("rule expression must not be empty")
	}
	program, err := expr.Compile(source, expr.Env(Facts{}.env()), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile rule %q: %w", source, err)
	}
	return &Rule{source: source, program: program}, nil
}

func MustCompileRule(source string) *Rule {
	r, err := CompileRule(source)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Rule) String() string { return r.source }

func (r *Rule) Eval(f Facts) (bool, error) {
	out, err := expr.Run(r.program, f.env())
	if err != nil {
		return false, fmt.Errorf("eval rule %q: %w", r.source, err)
	}
	ok, _ := out.(bool)
	return ok, nil
}
