package schemacheck

import (
	"fmt"
	"strings"
)

//go:generate go tool stringer -type=MismatchKind

// MismatchKind classifies a difference between descriptor and table.
type MismatchKind int

const (
	MissingTable MismatchKind = iota
	MissingColumn
	ExtraColumn
	Renamed
	Reordered
	TypeMismatch
)

// Mismatch is one difference. Expected fields describe the descriptor side,
// Actual fields the live table; either side is empty when absent.
type Mismatch struct {
	Kind MismatchKind

	Column   string // expected column name
	Position int    // expected position, -1 when absent
	Affinity string // expected codec affinity

	ActualColumn   string
	ActualPosition int // -1 when absent
	ActualType     string
}

func (m Mismatch) String() string {
	switch m.Kind {
	case MissingTable:
		return "table does not exist"
	case MissingColumn:
		return fmt.Sprintf("column %q (position %d) is missing", m.Column, m.Position)
	case ExtraColumn:
		return fmt.Sprintf("column %q (position %d, %s) is not mapped", m.ActualColumn, m.ActualPosition, declared(m.ActualType))
	case Renamed:
		return fmt.Sprintf("column %q (position %d) appears renamed to %q (position %d)",
			m.Column, m.Position, m.ActualColumn, m.ActualPosition)
	case Reordered:
		return fmt.Sprintf("column %q expected at position %d, found at %d", m.Column, m.Position, m.ActualPosition)
	case TypeMismatch:
		return fmt.Sprintf("column %q stores %s values but is declared %s", m.Column, m.Affinity, declared(m.ActualType))
	default:
		return m.Kind.String()
	}
}

func declared(t string) string {
	if t == "" {
		return "without type"
	}

	return t
}

// Column is a column as reported by PRAGMA table_info.
type Column struct {
	Position   int
	Name       string
	Type       string
	NotNull    bool
	PrimaryKey bool
}

// Report is the outcome of a conformance check.
type Report struct {
	Table      string
	Expected   []string
	Columns    []Column
	Mismatches []Mismatch
}

// OK reports whether the table conforms.
func (r *Report) OK() bool { return len(r.Mismatches) == 0 }

// Err returns nil when the table conforms and a *MismatchError otherwise.
func (r *Report) Err() error {
	if r.OK() {
		return nil
	}

	return &MismatchError{Table: r.Table, Mismatches: r.Mismatches}
}

// Kinds returns the kind of every mismatch, in report order.
func (r *Report) Kinds() []MismatchKind {
	kinds := make([]MismatchKind, len(r.Mismatches))
	for i, m := range r.Mismatches {
		kinds[i] = m.Kind
	}

	return kinds
}

// MismatchError lists every difference found for one table.
type MismatchError struct {
	Table      string
	Mismatches []Mismatch
}

func (e *MismatchError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "schemacheck: table %s does not conform (%d mismatches)", e.Table, len(e.Mismatches))
	for _, m := range e.Mismatches {
		b.WriteString("\n  - ")
		b.WriteString(m.String())
	}

	return b.String()
}
