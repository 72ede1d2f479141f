// Package query provides SQL query building utilities with projection mapping.
package query

import (
	"fmt"
	"strings"
)

// ProjectionMap maps view property names to qualified column references (alias.column).
// It defines the base table, any joined tables, and the column mappings used
// to build SELECT statements.
type ProjectionMap struct {
	schema     string
	table      string
	alias      string
	joins      []string
	columns    map[string]string
	lookup     map[string]string
	columnList []string
}

// NewProjectionMap creates a ProjectionMap for the given schema, table, and alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema:     schema,
		table:      table,
		alias:      alias,
		columns:    make(map[string]string),
		lookup:     make(map[string]string),
		columnList: make([]string, 0),
	}
}

// Project adds a column of the base table under a view property name.
func (p *ProjectionMap) Project(column, viewName string) *ProjectionMap {
	return p.ProjectFrom(p.alias, column, viewName)
}

// ProjectFrom adds a column of a joined table, qualified by that table's alias.
func (p *ProjectionMap) ProjectFrom(alias, column, viewName string) *ProjectionMap {
	qualified := fmt.Sprintf("%s.%s", alias, column)
	p.columns[viewName] = qualified
	p.lookup[fold(viewName)] = qualified
	p.columnList = append(p.columnList, qualified)
	return p
}

// Join adds a LEFT JOIN of schema.table under alias using the given ON condition.
func (p *ProjectionMap) Join(schema, table, alias, on string) *ProjectionMap {
	p.joins = append(p.joins, fmt.Sprintf("LEFT JOIN %s.%s %s ON %s", schema, table, alias, on))
	return p
}

// Alias returns the base table alias.
func (p *ProjectionMap) Alias() string {
	return p.alias
}

// Table returns the fully qualified base table reference with alias (schema.table alias).
func (p *ProjectionMap) Table() string {
	return fmt.Sprintf("%s.%s %s", p.schema, p.table, p.alias)
}

// From returns the base table followed by its joins, for use after FROM.
func (p *ProjectionMap) From() string {
	if len(p.joins) == 0 {
		return p.Table()
	}
	return p.Table() + " " + strings.Join(p.joins, " ")
}

// Column returns the qualified column for a view property name, or the input if not mapped.
func (p *ProjectionMap) Column(viewName string) string {
	if col, ok := p.columns[viewName]; ok {
		return col
	}
	return viewName
}

// Lookup resolves a client-supplied field name. Matching ignores case and
// underscores, so uploaded_at, uploadedAt and UploadedAt are the same field.
func (p *ProjectionMap) Lookup(name string) (string, bool) {
	col, ok := p.lookup[fold(name)]
	return col, ok
}

func fold(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, "_", ""))
}

// Columns returns all mapped columns as a comma-separated string.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.columnList, ", ")
}

