package sqlrow

import (
	"reflect"
	"strconv"
	"strings"
)

// Table is the descriptor of a struct type stored as rows of one table.
// It is immutable once built and safe for concurrent use.
type Table[T any] struct {
	name    string
	schema  string
	fields  []Field[T]
	columns []string

	// insert[c] is the statement text for conflict clause c; named[c] is the
	// same with :column placeholders.
	insert [onConflictCount]string
	named  [onConflictCount]string
}

// TableOption configures a Table.
type TableOption func(*tableOptions)

type tableOptions struct {
	schema string
}

// WithSchema records the path of the DDL the table is checked against.
func WithSchema(path string) TableOption {
	return func(o *tableOptions) { o.schema = path }
}

// NewTable builds the descriptor of table name with the given fields, in
// column order.
func NewTable[T any](name string, fields []Field[T], opts ...TableOption) (*Table[T], error) {
	var o tableOptions
	for _, opt := range opts {
		opt(&o)
	}

	columns, err := checkFields(reflect.TypeFor[T](), fields)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(name) == "" {
		return nil, definitionError("%s: empty table name", reflect.TypeFor[T]())
	}

	t := &Table[T]{
		name:    name,
		schema:  o.schema,
		fields:  append([]Field[T](nil), fields...),
		columns: columns,
	}

	for c := OnConflictDefault; c < onConflictCount; c++ {
		t.insert[c] = insertText(name, columns, c, numbered)
		t.named[c] = insertText(name, columns, c, named)
	}

	return t, nil
}

// MustTable is NewTable that panics on an invalid definition. Generated code
// uses it for package-level descriptors.
func MustTable[T any](name string, fields []Field[T], opts ...TableOption) *Table[T] {
	t, err := NewTable(name, fields, opts...)
	if err != nil {
		panic(err)
	}

	return t
}

func checkFields[T any](typ reflect.Type, fields []Field[T]) ([]string, error) {
	if len(fields) == 0 {
		return nil, definitionError("%s: no fields", typ)
	}

	columns := make([]string, len(fields))
	seen := make(map[string]string, len(fields))

	for i, f := range fields {
		if f.invalid != "" {
			return nil, definitionError("%s.%s: %s", typ, f.member, f.invalid)
		}

		if f.column == "" {
			return nil, definitionError("%s: field %d has no column", typ, i)
		}

		key := strings.ToLower(f.column)
		if prev, dup := seen[key]; dup {
			return nil, definitionError("%s: column %q used by %s and %s", typ, f.column, prev, f.member)
		}
		seen[key] = f.member
		columns[i] = f.column
	}

	return columns, nil
}

func numbered(i int, _ string) string { return "?" + strconv.Itoa(i+1) }

func named(_ int, column string) string { return ":" + column }

func insertText(table string, columns []string, c OnConflict, placeholder func(int, string) string) string {
	var b strings.Builder

	b.WriteString("INSERT ")
	if c != OnConflictDefault {
		b.WriteString("OR ")
		b.WriteString(c.String())
		b.WriteByte(' ')
	}

	b.WriteString("INTO ")
	b.WriteString(table)
	b.WriteString(" (")
	b.WriteString(strings.Join(columns, ", "))
	b.WriteString(") VALUES (")

	for i, col := range columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(placeholder(i, col))
	}

	b.WriteByte(')')

	return b.String()
}

// Name returns the table name.
func (t *Table[T]) Name() string { return t.name }

// SchemaPath returns the DDL path given with WithSchema, or "".
func (t *Table[T]) SchemaPath() string { return t.schema }

// Fields returns the field descriptors in column order.
func (t *Table[T]) Fields() []Field[T] { return append([]Field[T](nil), t.fields...) }

// Columns returns the column names in order.
func (t *Table[T]) Columns() []string { return append([]string(nil), t.columns...) }

// StatementText returns the INSERT statement of the table, with numbered
// placeholders in column order.
func (t *Table[T]) StatementText() string { return t.insert[OnConflictDefault] }

// StatementTextOr returns the INSERT OR <c> statement of the table. It returns
// "" for an unknown strategy.
func (t *Table[T]) StatementTextOr(c OnConflict) string {
	if !c.valid() {
		return ""
	}

	return t.insert[c]
}

// NamedStatementText is StatementText with :column placeholders, for use with
// NamedArgs.
func (t *Table[T]) NamedStatementText() string { return t.named[OnConflictDefault] }

// NamedStatementTextOr is StatementTextOr with :column placeholders. It
// returns "" for an unknown strategy.
func (t *Table[T]) NamedStatementTextOr(c OnConflict) string {
	if !c.valid() {
		return ""
	}

	return t.named[c]
}
