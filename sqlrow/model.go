package sqlrow

import (
	"context"
	"reflect"
	"strings"
)

// Model is the type-erased view of a table descriptor. Code that handles
// tables of different Go types, such as bulk loaders or introspection, works
// through it.
type Model interface {
	TableName() string
	ColumnNames() []string
	// InsertValue inserts v, which must be a T or *T for the model's T.
	InsertValue(ctx context.Context, conn Execer, v any) error
	Meta() Meta
}

// Entity is implemented by values that know their model. Generated code
// implements it on pointers to mapped structs.
type Entity interface {
	Model() Model
}

// Meta describes a model for tooling.
type Meta struct {
	Model   string      `json:"model"`
	Table   string      `json:"table"`
	Schema  string      `json:"schema,omitempty"`
	Fields  []FieldMeta `json:"fields"`
	Columns []string    `json:"columns"`
}

// FieldMeta describes one mapped field.
type FieldMeta struct {
	Member   string `json:"member"`
	Column   string `json:"column"`
	GoType   string `json:"go_type"`
	Affinity string `json:"affinity"`
}

var _ Model = (*Table[struct{ X int }])(nil)

// TableName implements Model.
func (t *Table[T]) TableName() string { return t.name }

// ColumnNames implements Model.
func (t *Table[T]) ColumnNames() []string { return t.Columns() }

// InsertValue implements Model.
func (t *Table[T]) InsertValue(ctx context.Context, conn Execer, v any) error {
	var p *T

	switch x := v.(type) {
	case *T:
		p = x
	case T:
		p = &x
	default:
		return &TypeError{Table: t.name, Want: reflect.TypeFor[T](), Got: reflect.TypeOf(v)}
	}

	_, err := t.Insert(ctx, conn, p)
	return err
}

// Meta implements Model.
func (t *Table[T]) Meta() Meta {
	m := Meta{
		Model:   reflect.TypeFor[T]().Name(),
		Table:   t.name,
		Schema:  t.schema,
		Fields:  make([]FieldMeta, len(t.fields)),
		Columns: t.Columns(),
	}

	for i, f := range t.fields {
		m.Fields[i] = FieldMeta{
			Member:   f.member,
			Column:   f.column,
			GoType:   f.goType.String(),
			Affinity: f.affinity.String(),
		}
	}

	return m
}

// InsertAll inserts each entity through its model, in order, and stops at the
// first error.
func InsertAll(ctx context.Context, conn Execer, entities ...Entity) error {
	for _, e := range entities {
		if err := e.Model().InsertValue(ctx, conn, e); err != nil {
			return err
		}
	}

	return nil
}

// Catalog is an ordered set of models with distinct table names. It is not
// modified after NewCatalog returns.
type Catalog struct {
	models []Model
	byName map[string]Model
}

// NewCatalog builds a catalog. Table names are compared case-insensitively.
func NewCatalog(models ...Model) (*Catalog, error) {
	c := &Catalog{
		models: make([]Model, 0, len(models)),
		byName: make(map[string]Model, len(models)),
	}

	for _, m := range models {
		key := strings.ToLower(m.TableName())
		if _, dup := c.byName[key]; dup {
			return nil, definitionError("catalog: table %q registered twice", m.TableName())
		}
		c.byName[key] = m
		c.models = append(c.models, m)
	}

	return c, nil
}

// Lookup returns the model of table.
func (c *Catalog) Lookup(table string) (Model, bool) {
	m, ok := c.byName[strings.ToLower(table)]
	return m, ok
}

// Models returns the models in registration order.
func (c *Catalog) Models() []Model { return append([]Model(nil), c.models...) }
