package persistence

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// tableMeta is the column layout of one entity struct, read from its db tags.
// Fields of embedded structs without a tag are flattened in declaration order.
type tableMeta struct {
	name    string
	columns []string
	known   map[string]struct{}
}

var tableCache sync.Map // reflect.Type -> *tableMeta

func metaFor(t reflect.Type, table string) *tableMeta {
	if m, ok := tableCache.Load(t); ok {
		return m.(*tableMeta)
	}
	cols := collectColumns(t)
	m := &tableMeta{name: table, columns: cols, known: make(map[string]struct{}, len(cols))}
	for _, c := range cols {
		m.known[c] = struct{}{}
	}
	actual, _ := tableCache.LoadOrStore(t, m)
	return actual.(*tableMeta)
}

func collectColumns(t reflect.Type) []string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	var cols []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("db")
		if f.Anonymous && tag == "" && f.Type.Kind() == reflect.Struct {
			cols = append(cols, collectColumns(f.Type)...)
			continue
		}
		if !f.IsExported() || tag == "" || tag == "-" {
			continue
		}
		cols = append(cols, strings.Split(tag, ",")[0])
	}
	return cols
}

func (m *tableMeta) has(column string) bool {
	_, ok := m.known[column]
	return ok
}

func (m *tableMeta) selectList() string {
	return strings.Join(m.columns, ", ")
}

func (m *tableMeta) insertSQL() string {
	named := make([]string, len(m.columns))
	for i, c := range m.columns {
		named[i] = ":" + c
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", m.name, m.selectList(), strings.Join(named, ", "))
}

// updateSQL writes every mutable column and bumps the version, guarded by
// the version the entity was read with.
func (m *tableMeta) updateSQL() string {
	sets := make([]string, 0, len(m.columns))
	for _, c := range m.columns {
		switch c {
		case "id", "created_at", "version":
			continue
		}
		sets = append(sets, c+" = :"+c)
	}
	sets = append(sets, "version = version + 1")
	return fmt.Sprintf("UPDATE %s SET %s WHERE id = :id AND version = :version", m.name, strings.Join(sets, ", "))
}

func (m *tableMeta) deleteSQL() string {
	return fmt.Sprintf("DELETE FROM %s WHERE id = ? AND version = ?", m.name)
}
