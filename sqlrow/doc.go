// Package sqlrow maps Go structs onto rows of a SQLite table.
//
// A *Table[T] describes a struct type T stored in one table: the table name
// and, in column order, one Field per stored member. Each Field converts its
// member through a Codec, a pair of bind and extract functions. Tables are
// normally declared by code that the tablemap generator writes next to the
// struct:
//
//	var UserTable = sqlrow.MustTable("users", []sqlrow.Field[User]{
//		sqlrow.Col("Username", "username", func(v *User) *string { return &v.Username }, sqlrow.Text),
//		sqlrow.Col("Password", "pwd", func(v *User) *[]byte { return &v.Password }, sqlrow.Blob),
//	})
//
// A Table builds its INSERT statement once, binds values positionally in
// column order and rebuilds values from rows positionally. Nothing is looked
// up by name at run time, except by Record.Scan, which maps ad-hoc query
// results by column name.
//
// # Errors
//
// Errors from the database driver are returned unchanged. Errors produced by
// this package match one of the sentinels with errors.Is: ErrShortRow,
// ErrDecode (and ErrEnumRange for enums), ErrBind, ErrDefinition and
// ErrTypeMismatch.
//
// # Concurrency
//
// Tables, Records, EnumCodecs and Catalogs are immutable and safe for
// concurrent use. Connections and statements are borrowed for one call and
// never retained. StmtCache is the only type with internal locking.
package sqlrow
