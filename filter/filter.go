// Package filter compiles boolean expressions over saved items. Expressions
// use the expr language and see each item's fields plus a set of helper
// functions, e.g.:
//
//	Favorite and daysSince(Added) > 365
//	hasTag("golang") and WordCount > 2000
//	contains(URL, "youtube") or HasVideo
package filter

import (
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/pocketctl/pocketctl/pocket"
)

// Filter is a compiled item filter.
type Filter struct {
	program *vm.Program
	expr    string
}

// Compile compiles a filter expression. The expression must evaluate to a
// boolean.
func Compile(expression string) (*Filter, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty filter expression",
			Position:   -1,
		}
	}

	program, err := expr.Compile(expression,
		expr.Env(buildEnv(pocket.Item{})),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     err.Error(),
			Position:   -1,
			Err:        err,
		}
	}

	return &Filter{program: program, expr: expression}, nil
}

// Match evaluates the filter against a single item.
func (f *Filter) Match(item pocket.Item) (bool, error) {
	result, err := expr.Run(f.program, buildEnv(item))
	if err != nil {
		return false, &EvaluationError{
			Expression: f.expr,
			ItemTitle:  item.Title(),
			Reason:     err.Error(),
			Err:        err,
		}
	}

	matched, ok := result.(bool)
	if !ok {
		return false, &EvaluationError{
			Expression: f.expr,
			ItemTitle:  item.Title(),
			Reason:     "expression did not evaluate to a boolean",
		}
	}
	return matched, nil
}

// Select returns the subset of items matching the filter, preserving order.
func (f *Filter) Select(items []pocket.Item) ([]pocket.Item, error) {
	matched := make([]pocket.Item, 0, len(items))
	for _, item := range items {
		ok, err := f.Match(item)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, item)
		}
	}
	return matched, nil
}

// String returns the original expression.
func (f *Filter) String() string {
	return f.expr
}

// buildEnv exposes an item's fields and the helper functions to the
// expression VM.
func buildEnv(item pocket.Item) map[string]any {
	return map[string]any{
		// Item properties
		"ItemID":    item.ItemID,
		"URL":       item.URL(),
		"Title":     item.Title(),
		"Excerpt":   item.Excerpt,
		"Favorite":  bool(item.Favorite),
		"Archived":  item.Status == pocket.StatusArchived,
		"Unread":    item.Status == pocket.StatusUnread,
		"Status":    item.Status.String(),
		"IsArticle": bool(item.IsArticle),
		"HasImage":  item.HasImage != pocket.PresenceNone,
		"HasVideo":  item.HasVideo != pocket.PresenceNone,
		"WordCount": int(item.WordCount),
		"Lang":      item.Lang,
		"Tags":      item.TagNames(),
		"Added":     item.TimeAdded.Time(),
		"Updated":   item.TimeUpdated.Time(),
		"Read":      item.TimeRead.Time(),
		"Favorited": item.TimeFavorited.Time(),

		// Tag helpers
		"hasTag": func(tag string) bool {
			for _, t := range item.TagNames() {
				if strings.EqualFold(t, tag) {
					return true
				}
			}
			return false
		},
		"untagged": func() bool {
			return len(item.Tags) == 0
		},

		// Date helpers
		"daysSince": func(t time.Time) int {
			if t.IsZero() {
				return 0
			}
			return int(time.Since(t).Hours() / 24)
		},
		"daysAgo": func(days int) time.Time {
			return time.Now().AddDate(0, 0, -days)
		},
		"monthsAgo": func(months int) time.Time {
			return time.Now().AddDate(0, -months, 0)
		},
		"yearsAgo": func(years int) time.Time {
			return time.Now().AddDate(-years, 0, 0)
		},
		"parseDate": func(dateStr string) time.Time {
			t, _ := time.Parse("2006-01-02", dateStr)
			return t
		},

		// String helpers
		"contains": func(str, substr string) bool {
			return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
		},
		"startsWith": func(str, prefix string) bool {
			return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
		},
		"endsWith": func(str, suffix string) bool {
			return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
		},
		"lower": strings.ToLower,
		"upper": strings.ToUpper,

		// Current time
		"now": time.Now,
	}
}
