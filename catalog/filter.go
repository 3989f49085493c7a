package catalog

import (
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Search evaluates an expr filter expression against the custom formats
// for an app and returns the matching records in catalog order.
//
// The expression sees the fields Name, TrashID, App and Description plus
// the helpers score(category) and hasScore(category), e.g.:
//
//	hasScore("fr") and score("fr") > 100
//	Name contains "DTS"
func (s *Store) Search(app, expression string) ([]Record, error) {
	program, err := compileFilter(expression)
	if err != nil {
		return nil, err
	}

	records, err := s.FormatsFor(app)
	if err != nil {
		return nil, err
	}

	var matches []Record
	for _, rec := range records {
		ok, err := evalFilter(program, rec)
		if err != nil {
			return nil, &FilterError{
				Expression: expression,
				Reason:     "evaluation failed for " + rec.Name,
				Err:        err,
			}
		}
		if ok {
			matches = append(matches, rec)
		}
	}
	return matches, nil
}

func compileFilter(expression string) (*vm.Program, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &FilterError{Expression: expression, Reason: "empty expression"}
	}

	program, err := expr.Compile(expression,
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &FilterError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}
	return program, nil
}

func evalFilter(program *vm.Program, rec Record) (bool, error) {
	env := map[string]any{
		"Name":        rec.Name,
		"TrashID":     rec.TrashID,
		"App":         rec.App,
		"Description": rec.Description,
		"score": func(category string) int {
			return rec.Scores[category]
		},
		"hasScore": func(category string) bool {
			_, ok := rec.Scores[category]
			return ok
		},
	}

	result, err := expr.Run(program, env)
	if err != nil {
		return false, err
	}
	matched, ok := result.(bool)
	return ok && matched, nil
}
