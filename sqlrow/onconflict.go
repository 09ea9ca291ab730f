package sqlrow

import "fmt"

// OnConflict selects the conflict resolution clause of an INSERT.
type OnConflict int

const (
	// OnConflictDefault emits no clause; SQLite then aborts.
	OnConflictDefault OnConflict = iota
	OnConflictAbort
	OnConflictFail
	OnConflictIgnore
	OnConflictReplace
	OnConflictRollback

	onConflictCount
)

func (c OnConflict) String() string {
	switch c {
	case OnConflictDefault:
		return ""
	case OnConflictAbort:
		return "ABORT"
	case OnConflictFail:
		return "FAIL"
	case OnConflictIgnore:
		return "IGNORE"
	case OnConflictReplace:
		return "REPLACE"
	case OnConflictRollback:
		return "ROLLBACK"
	default:
		return fmt.Sprintf("OnConflict(%d)", int(c))
	}
}

func (c OnConflict) valid() bool { return c >= OnConflictDefault && c < onConflictCount }
