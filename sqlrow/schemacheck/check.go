package schemacheck

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"tablemap/internal/match"
	"tablemap/sqlrow"
)

// Descriptor is the part of a table descriptor the check needs.
// *sqlrow.Table[T] and every sqlrow.Model satisfy it.
type Descriptor interface {
	TableName() string
	Meta() sqlrow.Meta
}

var tableInfo = sqlrow.MustRecord(
	sqlrow.Col("Position", "cid", func(c *Column) *int { return &c.Position }, sqlrow.Int),
	sqlrow.Col("Name", "name", func(c *Column) *string { return &c.Name }, sqlrow.Text),
	sqlrow.Col("Type", "type", func(c *Column) *string { return &c.Type }, sqlrow.Text),
	sqlrow.Col("NotNull", "notnull", func(c *Column) *bool { return &c.NotNull }, sqlrow.Bool),
	sqlrow.Col("PrimaryKey", "pk", func(c *Column) *bool { return &c.PrimaryKey }, sqlrow.Bool),
)

// Check compares d against the table of the same name in db.
// The returned error reports a failure to read the schema; conformance
// problems are in the Report.
func Check(ctx context.Context, db sqlrow.Querier, d Descriptor) (*Report, error) {
	meta := d.Meta()

	columns, err := tableInfo.Query(ctx, db, "PRAGMA table_info("+quoteIdent(d.TableName())+")")
	if err != nil {
		return nil, fmt.Errorf("failed to read table_info of %s: %w", d.TableName(), err)
	}

	report := &Report{
		Table:    d.TableName(),
		Expected: meta.Columns,
		Columns:  columns,
	}

	if len(columns) == 0 {
		report.Mismatches = []Mismatch{{Kind: MissingTable, Position: -1, ActualPosition: -1}}
		return report, nil
	}

	report.Mismatches = compare(meta.Fields, columns)

	return report, nil
}

// CheckSchema applies ddl to a fresh in-memory SQLite database and checks d
// against it.
func CheckSchema(ctx context.Context, ddl string, d Descriptor) (*Report, error) {
	db, err := sqlx.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	defer db.Close()

	// One connection, so the DDL and the pragma see the same database.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return Check(ctx, db, d)
}

// CheckFile is CheckSchema with the DDL read from path.
func CheckFile(ctx context.Context, path string, d Descriptor) (*Report, error) {
	ddl, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file %s: %w", path, err)
	}

	return CheckSchema(ctx, string(ddl), d)
}

type pair struct {
	field  int // index into expected fields
	column int // index into actual columns
}

func compare(fields []sqlrow.FieldMeta, columns []Column) []Mismatch {
	byName := make(map[string]int, len(columns))
	for i, c := range columns {
		byName[strings.ToLower(c.Name)] = i
	}

	used := make([]bool, len(columns))

	var (
		pairs      []pair
		missing    []int
		mismatches []Mismatch
	)

	for i, f := range fields {
		if j, ok := byName[strings.ToLower(f.Column)]; ok && !used[j] {
			used[j] = true
			pairs = append(pairs, pair{field: i, column: j})
			continue
		}
		missing = append(missing, i)
	}

	// A missing column whose likely counterpart is an unmapped column is a
	// rename.
	for _, i := range missing {
		f := fields[i]

		var free []match.Column
		for j, c := range columns {
			if !used[j] {
				free = append(free, match.Column{
					Name:     c.Name,
					Position: c.Position,
					Affinity: affinityName(ColumnAffinity(c.Type)),
				})
			}
		}

		affinity := affinityName(sqlrow.ParseAffinity(f.Affinity))
		best := match.RankColumns(f.Column, i, affinity, free).HighConfidence(match.DefaultMinScore, match.DefaultMinGap)

		if best == nil {
			mismatches = append(mismatches, Mismatch{
				Kind:           MissingColumn,
				Column:         f.Column,
				Position:       i,
				Affinity:       f.Affinity,
				ActualPosition: -1,
			})
			continue
		}

		j := indexOf(columns, best.Actual.Position)
		used[j] = true
		pairs = append(pairs, pair{field: i, column: j})
		mismatches = append(mismatches, Mismatch{
			Kind:           Renamed,
			Column:         f.Column,
			Position:       i,
			Affinity:       f.Affinity,
			ActualColumn:   columns[j].Name,
			ActualPosition: columns[j].Position,
			ActualType:     columns[j].Type,
		})
	}

	for j, c := range columns {
		if !used[j] {
			mismatches = append(mismatches, Mismatch{
				Kind:           ExtraColumn,
				Position:       -1,
				ActualColumn:   c.Name,
				ActualPosition: c.Position,
				ActualType:     c.Type,
			})
		}
	}

	sort.Slice(pairs, func(a, b int) bool { return pairs[a].field < pairs[b].field })

	order := make([]int, len(pairs))
	for k, p := range pairs {
		order[k] = columns[p.column].Position
	}
	sort.Ints(order)

	for k, p := range pairs {
		f, c := fields[p.field], columns[p.column]

		if c.Position != order[k] {
			mismatches = append(mismatches, Mismatch{
				Kind:           Reordered,
				Column:         f.Column,
				Position:       p.field,
				Affinity:       f.Affinity,
				ActualColumn:   c.Name,
				ActualPosition: c.Position,
				ActualType:     c.Type,
			})
		}

		if !CompatibleDeclared(sqlrow.ParseAffinity(f.Affinity), c.Type) {
			mismatches = append(mismatches, Mismatch{
				Kind:           TypeMismatch,
				Column:         f.Column,
				Position:       p.field,
				Affinity:       f.Affinity,
				ActualColumn:   c.Name,
				ActualPosition: c.Position,
				ActualType:     c.Type,
			})
		}
	}

	return mismatches
}

func affinityName(a sqlrow.Affinity) string {
	if a == sqlrow.AffinityAny {
		return ""
	}

	return a.String()
}

func indexOf(columns []Column, position int) int {
	for i, c := range columns {
		if c.Position == position {
			return i
		}
	}

	return -1
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
