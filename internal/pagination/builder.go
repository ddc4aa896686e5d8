package pagination

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Filters for list endpoints used to be assembled ad hoc at each call
// site. Conditions are instead declared as tagged variants, validated
// as a whole, and only then applied to a query.

type ConditionKind int

const (
	CondMatch ConditionKind = iota
	CondSearch
	CondDateRange
	CondNumberRange
)

type Condition struct {
	Kind    ConditionKind
	Column  string
	Value   any
	Columns []string // CondSearch: columns OR-matched against Value
	From    *time.Time
	To      *time.Time
	Min     *float64
	Max     *float64
}

func Match(column string, value any) Condition {
	return Condition{Kind: CondMatch, Column: column, Value: value}
}

func Search(term string, columns ...string) Condition {
	return Condition{Kind: CondSearch, Value: term, Columns: columns}
}

func DateRange(column string, from, to *time.Time) Condition {
	return Condition{Kind: CondDateRange, Column: column, From: from, To: to}
}

func NumberRange(column string, min, max *float64) Condition {
	return Condition{Kind: CondNumberRange, Column: column, Min: min, Max: max}
}

var columnPattern = regexp.MustCompile(`^[a-z_][a-z0-9_.]*$`)

func (c Condition) validate() error {
	switch c.Kind {
	case CondMatch, CondDateRange, CondNumberRange:
		if !columnPattern.MatchString(c.Column) {
			return fmt.Errorf("invalid column %q", c.Column)
		}
	case CondSearch:
		if len(c.Columns) == 0 {
			return fmt.Errorf("search condition needs at least one column")
		}
		for _, col := range c.Columns {
			if !columnPattern.MatchString(col) {
				return fmt.Errorf("invalid column %q", col)
			}
		}
	default:
		return fmt.Errorf("unknown condition kind %d", c.Kind)
	}
	return nil
}

// BuildScope validates every condition up front and returns a Scope
// applying them all. Empty-valued conditions are skipped so callers can
// pass optional filters straight through.
func BuildScope(conds ...Condition) (Scope, error) {
	for _, c := range conds {
		if err := c.validate(); err != nil {
			return nil, err
		}
	}

	return func(q *gorm.DB) *gorm.DB {
		for _, c := range conds {
			q = c.apply(q)
		}
		return q
	}, nil
}

func (c Condition) apply(q *gorm.DB) *gorm.DB {
	switch c.Kind {
	case CondMatch:
		if c.Value == nil || c.Value == "" {
			return q
		}
		return q.Where(c.Column+" = ?", c.Value)

	case CondSearch:
		term, _ := c.Value.(string)
		if term == "" {
			return q
		}
		pattern := "%" + term + "%"
		clauses := make([]string, len(c.Columns))
		args := make([]any, len(c.Columns))
		for i, col := range c.Columns {
			clauses[i] = col + " LIKE ?"
			args[i] = pattern
		}
		return q.Where(strings.Join(clauses, " OR "), args...)

	case CondDateRange:
		if c.From != nil {
			q = q.Where(c.Column+" >= ?", *c.From)
		}
		if c.To != nil {
			q = q.Where(c.Column+" <= ?", *c.To)
		}
		return q

	case CondNumberRange:
		if c.Min != nil {
			q = q.Where(c.Column+" >= ?", *c.Min)
		}
		if c.Max != nil {
			q = q.Where(c.Column+" <= ?", *c.Max)
		}
		return q
	}
	return q
}
