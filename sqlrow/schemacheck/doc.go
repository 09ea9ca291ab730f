// Package schemacheck verifies that a table descriptor conforms to the table
// a schema actually declares.
//
// The check reads PRAGMA table_info and compares column names, order and
// declared type affinity against the descriptor's columns and codec
// affinities. Differences are reported as a list of Mismatch values rather
// than a boolean, so that schema drift can be diagnosed from the test output.
//
// Generated conformance tests call CheckFile with the DDL file named in the
// model declaration:
//
//	func TestUserTableConformsToSchema(t *testing.T) {
//		report, err := schemacheck.CheckFile(context.Background(), "schema.sql", UserTable)
//		require.NoError(t, err)
//		require.NoError(t, report.Err())
//	}
package schemacheck
