package schemacheck

import (
	"strings"

	"tablemap/sqlrow"
)

// ColumnAffinity returns the affinity SQLite gives a column declared with
// declType, following the rules of section 3.1 of the SQLite datatype
// documentation. An empty declared type has no affinity and yields
// sqlrow.AffinityAny.
func ColumnAffinity(declType string) sqlrow.Affinity {
	t := strings.ToUpper(declType)

	switch {
	case strings.TrimSpace(t) == "":
		return sqlrow.AffinityAny
	case strings.Contains(t, "INT"):
		return sqlrow.AffinityInteger
	case strings.Contains(t, "CHAR"), strings.Contains(t, "CLOB"), strings.Contains(t, "TEXT"):
		return sqlrow.AffinityText
	case strings.Contains(t, "BLOB"):
		return sqlrow.AffinityBlob
	case strings.Contains(t, "REAL"), strings.Contains(t, "FLOA"), strings.Contains(t, "DOUB"):
		return sqlrow.AffinityReal
	default:
		return sqlrow.AffinityNumeric
	}
}

// Compatible reports whether a codec storing with affinity codec may use a
// column of affinity column.
func Compatible(codec, column sqlrow.Affinity) bool {
	switch {
	case codec == sqlrow.AffinityAny, column == sqlrow.AffinityAny:
		return true
	case codec == column:
		return true
	case column == sqlrow.AffinityNumeric:
		return codec == sqlrow.AffinityInteger || codec == sqlrow.AffinityReal
	default:
		return false
	}
}

// CompatibleDeclared is Compatible against a declared column type. Columns
// declared DATE, DATETIME, TIMESTAMP or TIME have NUMERIC affinity but keep
// non-numeric text as text, and the driver parses them back into time.Time,
// so they also accept TEXT codecs.
func CompatibleDeclared(codec sqlrow.Affinity, declType string) bool {
	column := ColumnAffinity(declType)
	if codec == sqlrow.AffinityText && column == sqlrow.AffinityNumeric && isDateType(declType) {
		return true
	}

	return Compatible(codec, column)
}

func isDateType(declType string) bool {
	t := strings.ToUpper(declType)
	return strings.Contains(t, "DATE") || strings.Contains(t, "TIME")
}
