package repository

import (
	"strings"

	"gorm.io/gorm/clause"
)

// Field names a filterable column. Only the constants below are accepted so
// no caller-supplied string ever reaches the SQL text.
type Field string

const (
	FieldFirstName  Field = "first_name"
	FieldLastName   Field = "last_name"
	FieldFullName   Field = "full_name"
	FieldTitle      Field = "title"
	FieldISBN       Field = "isbn"
	FieldAuthorID   Field = "author_id"
	FieldAuthorName Field = "author_name"
	FieldStatus     Field = "status"
)

func (f Field) sql() string {
	switch f {
	case FieldFullName:
		return "(first_name || ' ' || last_name)"
	case FieldFirstName, FieldLastName, FieldTitle, FieldISBN,
		FieldAuthorID, FieldAuthorName, FieldStatus:
		return string(f)
	}
	panic("repository: unknown filter field " + string(f))
}

// Filter is a predicate over one collection. A nil Filter matches every row.
type Filter interface {
	expression() clause.Expression
}

// Eq matches rows whose field equals Value exactly.
type Eq struct {
	Field Field
	Value any
}

func (e Eq) expression() clause.Expression {
	return clause.Expr{SQL: e.Field.sql() + " = ?", Vars: []any{e.Value}}
}

// Contains matches rows whose field contains Value as a substring.
// Case sensitivity follows the store's LIKE semantics.
type Contains struct {
	Field Field
	Value string
}

func (c Contains) expression() clause.Expression {
	return clause.Expr{
		SQL:  c.Field.sql() + ` LIKE ? ESCAPE '\'`,
		Vars: []any{"%" + escapeLike(c.Value) + "%"},
	}
}

// HasBooks matches authors owning at least one book.
type HasBooks struct{}

func (HasBooks) expression() clause.Expression {
	return clause.Expr{SQL: "EXISTS (SELECT 1 FROM books WHERE books.author_id = authors.id)"}
}

type and []Filter

func (a and) expression() clause.Expression {
	return clause.And(expressions(a)...)
}

type or []Filter

func (o or) expression() clause.Expression {
	return clause.Or(expressions(o)...)
}

// All combines filters with AND. Nil members are skipped; with no members
// left the result is nil.
func All(filters ...Filter) Filter {
	kept := compact(filters)
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	}
	return and(kept)
}

// Any combines filters with OR, skipping nil members.
func Any(filters ...Filter) Filter {
	kept := compact(filters)
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	}
	return or(kept)
}

func compact(filters []Filter) []Filter {
	kept := make([]Filter, 0, len(filters))
	for _, f := range filters {
		if f != nil {
			kept = append(kept, f)
		}
	}
	return kept
}

func expressions(filters []Filter) []clause.Expression {
	exprs := make([]clause.Expression, 0, len(filters))
	for _, f := range filters {
		exprs = append(exprs, f.expression())
	}
	return exprs
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
