// Package broken is a fixture of declarations the generator must reject.
package broken

// Color has gaps in its values but is stored by position.
//
//tablemap:enum
type Color int

const (
	Red   Color = 1
	Green Color = 2
)

// Mood has no constants.
//
//tablemap:enum
type Mood int

//tablemap:model
type NoTable struct {
	Name string
}

//tablemap:model table=dups
type Dups struct {
	Name  string
	Other string `sql:"name"`
}

//tablemap:model table=nocodec
type NoCodec struct {
	Ch chan int
}

//tablemap:model table=conflict
type Conflict struct {
	Name string `sql:"name,codec=X,bind=Y"`
}

//tablemap:model table=empty
type Empty struct {
	Hidden string `sql:"-"`
}

//tablemap:model table=badopt
type BadOption struct {
	Name string `sql:"name,nullable"`
}

//tablemap:model table=wrongsig
type WrongSig struct {
	Name string `sql:",bind=BindInt,extract=ExtractInt"`
}

//tablemap:record
type NotAStruct int

func BindInt(v int) (any, error) { return v, nil }

func ExtractInt(src any) (int, error) { return 0, nil }
