package query

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// SortField is one ORDER BY term. Field is a projection view name.
type SortField struct {
	Field      string
	Descending bool
}

// ParseSortFields reads "name,-uploaded_at" style sort strings. A leading
// "-" sorts descending. Empty input returns nil.
func ParseSortFields(s string) []SortField {
	if s == "" {
		return nil
	}

	var fields []SortField
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, desc := strings.CutPrefix(part, "-")
		fields = append(fields, SortField{Field: name, Descending: desc})
	}
	return fields
}

// params numbers placeholders as conditions are rendered.
type params struct {
	args []any
}

func (p *params) add(v any) string {
	p.args = append(p.args, v)
	return "$" + strconv.Itoa(len(p.args))
}

type condition func(p *params) string

// Builder assembles SELECT statements over a ProjectionMap. Conditions
// given a nil value are skipped, so optional filters can be applied
// unconditionally.
type Builder struct {
	projection  *ProjectionMap
	conditions  []condition
	sort        []SortField
	defaultSort []SortField
}

func NewBuilder(projection *ProjectionMap, defaultSort ...SortField) *Builder {
	return &Builder{
		projection:  projection,
		defaultSort: defaultSort,
	}
}

func (b *Builder) Build() (string, []any) {
	where, args := b.where()
	return fmt.Sprintf("SELECT %s FROM %s%s%s",
		b.projection.Columns(), b.projection.From(), where, b.orderBy()), args
}

func (b *Builder) BuildCount() (string, []any) {
	where, args := b.where()
	return fmt.Sprintf("SELECT COUNT(*) FROM %s%s", b.projection.From(), where), args
}

func (b *Builder) BuildPage(page, pageSize int) (string, []any) {
	where, args := b.where()
	return fmt.Sprintf("SELECT %s FROM %s%s%s LIMIT %d OFFSET %d",
		b.projection.Columns(), b.projection.From(), where, b.orderBy(),
		pageSize, (page-1)*pageSize), args
}

// BuildSingle selects one record by its id field, ignoring any conditions.
func (b *Builder) BuildSingle(idField string, id any) (string, []any) {
	return fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1",
		b.projection.Columns(), b.projection.From(), b.projection.Column(idField)), []any{id}
}

// BuildSingleOrNull selects the first matching row in sort order.
func (b *Builder) BuildSingleOrNull() (string, []any) {
	where, args := b.where()
	return fmt.Sprintf("SELECT %s FROM %s%s%s LIMIT 1",
		b.projection.Columns(), b.projection.From(), where, b.orderBy()), args
}

// OrderByFields replaces the default sort. Fields the projection does not
// map are dropped, since sort strings come from clients; if none remain
// the default sort applies.
func (b *Builder) OrderByFields(fields []SortField) *Builder {
	b.sort = b.sort[:0]
	for _, f := range fields {
		if _, ok := b.projection.Lookup(f.Field); ok {
			b.sort = append(b.sort, f)
		}
	}
	return b
}

// WhereContains adds a case-insensitive substring match. LIKE wildcards in
// value are matched literally.
func (b *Builder) WhereContains(field string, value *string) *Builder {
	if value == nil || *value == "" {
		return b
	}
	col := b.projection.Column(field)
	pattern := "%" + escapeLike(*value) + "%"
	return b.where1(func(p *params) string {
		return col + " ILIKE " + p.add(pattern)
	})
}

func (b *Builder) WhereEquals(field string, value any) *Builder {
	return b.compare(field, "=", value)
}

func (b *Builder) WhereBefore(field string, value any) *Builder {
	return b.compare(field, "<", value)
}

func (b *Builder) WhereOnOrAfter(field string, value any) *Builder {
	return b.compare(field, ">=", value)
}

func (b *Builder) WhereNot(field string, value any) *Builder {
	return b.compare(field, "<>", value)
}

// WhereSearch matches search against any of fields.
func (b *Builder) WhereSearch(search *string, fields ...string) *Builder {
	if search == nil || *search == "" || len(fields) == 0 {
		return b
	}

	pattern := "%" + escapeLike(*search) + "%"
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = b.projection.Column(f)
	}

	return b.where1(func(p *params) string {
		clauses := make([]string, len(cols))
		for i, col := range cols {
			clauses[i] = col + " ILIKE " + p.add(pattern)
		}
		return "(" + strings.Join(clauses, " OR ") + ")"
	})
}

func (b *Builder) compare(field, op string, value any) *Builder {
	if isNil(value) {
		return b
	}
	col := b.projection.Column(field)
	return b.where1(func(p *params) string {
		return col + " " + op + " " + p.add(value)
	})
}

func (b *Builder) where1(c condition) *Builder {
	b.conditions = append(b.conditions, c)
	return b
}

func (b *Builder) where() (string, []any) {
	if len(b.conditions) == 0 {
		return "", nil
	}

	p := &params{}
	clauses := make([]string, len(b.conditions))
	for i, c := range b.conditions {
		clauses[i] = c(p)
	}
	return " WHERE " + strings.Join(clauses, " AND "), p.args
}

func (b *Builder) orderBy() string {
	fields := b.sort
	if len(fields) == 0 {
		fields = b.defaultSort
	}
	if len(fields) == 0 {
		return ""
	}

	terms := make([]string, len(fields))
	for i, f := range fields {
		col, ok := b.projection.Lookup(f.Field)
		if !ok {
			col = f.Field
		}
		dir := " ASC"
		if f.Descending {
			dir = " DESC"
		}
		terms[i] = col + dir
	}
	return " ORDER BY " + strings.Join(terms, ", ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	}
	return false
}
