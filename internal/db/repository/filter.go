// Package repository provides database operations for the watch-tracking service.
package repository

import (
	"fmt"
	"strings"
)

// SortOrder selects ascending or descending order for a sortable column.
type SortOrder string

// SortOrder values.
const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ParseSortOrder maps a query parameter to a SortOrder. The empty string
// defaults to ascending.
func ParseSortOrder(s string) (SortOrder, error) {
	switch s {
	case "", "asc":
		return SortAsc, nil
	case "desc":
		return SortDesc, nil
	default:
		return "", fmt.Errorf("invalid sort_order %q (must be asc or desc)", s)
	}
}

// queryBuilder accumulates optional AND predicates with positional parameters.
// Absent parameters contribute no predicate; there are no restrictive
// defaults. Predicate format strings carry a single "$%d" verb that receives
// the parameter position.
type queryBuilder struct {
	clauses []string
	args    []any
}

func (qb *queryBuilder) where(format string, value any) {
	qb.args = append(qb.args, value)
	qb.clauses = append(qb.clauses, fmt.Sprintf(format, len(qb.args)))
}

// eq adds an equality predicate when the value is present.
func eq[T any](qb *queryBuilder, column string, v *T) {
	if v != nil {
		qb.where(column+" = $%d", *v)
	}
}

// gt adds a strict greater-than predicate when the value is present.
// min_* range parameters are exclusive.
func gt(qb *queryBuilder, column string, v *int64) {
	if v != nil {
		qb.where(column+" > $%d", *v)
	}
}

// lt adds a strict less-than predicate when the value is present.
// max_* range parameters are exclusive.
func lt(qb *queryBuilder, column string, v *int64) {
	if v != nil {
		qb.where(column+" < $%d", *v)
	}
}

// contains adds a substring match predicate when the term is present.
func contains(qb *queryBuilder, column string, term *string) {
	if term != nil {
		qb.where(column+" LIKE $%d", "%"+*term+"%")
	}
}

// anyOf adds a set-membership predicate when the list is non-empty.
func anyOf(qb *queryBuilder, column string, values []string) {
	if len(values) > 0 {
		qb.where(column+" = ANY($%d)", values)
	}
}

// datePart compares a UTC calendar component (year, month or day) of a
// Unix-seconds timestamp column against a zero-padded value.
func datePart(qb *queryBuilder, part, column string, v *int) {
	if v == nil {
		return
	}

	var format string
	var width int
	switch part {
	case "year":
		format, width = "YYYY", 4
	case "month":
		format, width = "MM", 2
	case "day":
		format, width = "DD", 2
	default:
		return
	}

	expr := fmt.Sprintf("to_char(to_timestamp(%s) AT TIME ZONE 'UTC', '%s')", column, format)
	qb.where(expr+" = $%d", fmt.Sprintf("%0*d", width, *v))
}

// whereClause renders the accumulated predicates, or the empty string when
// no filter is active.
func (qb *queryBuilder) whereClause() string {
	if len(qb.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(qb.clauses, " AND ")
}

// orderClause renders an ORDER BY clause for a whitelisted column reference.
// An empty column means no ordering: result order is storage order, which is
// not guaranteed stable across calls.
func orderClause(column string, order SortOrder) string {
	if column == "" {
		return ""
	}
	dir := "ASC"
	if order == SortDesc {
		dir = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s", column, dir)
}

// pageClause appends LIMIT/OFFSET for present pagination parameters, adding
// their values to the builder's args. Absent parameters apply no bound.
func (qb *queryBuilder) pageClause(limit, offset *int64) string {
	var sb strings.Builder
	if limit != nil {
		qb.args = append(qb.args, *limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(qb.args))
	}
	if offset != nil {
		qb.args = append(qb.args, *offset)
		fmt.Fprintf(&sb, " OFFSET $%d", len(qb.args))
	}
	return sb.String()
}
