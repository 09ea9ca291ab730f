package mapping

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the declaration file looked up next to the package.
const DefaultFile = "tablemap.yaml"

// SchemaVersion is the only version of the file layout.
const SchemaVersion = "1"

// LoadFile reads and parses the declaration file at path.
func LoadFile(path string) (*MappingFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	mf, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return mf, nil
}

// LoadOptional is LoadFile, except that a missing file reads as an empty
// one: a package may declare everything with directives.
func LoadOptional(path string) (*MappingFile, error) {
	mf, err := LoadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Parse(nil)
	}

	return mf, err
}

// Parse decodes a declaration file. Unknown keys are errors, so a misspelt
// option is never silently ignored.
func Parse(data []byte) (*MappingFile, error) {
	mf := &MappingFile{}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(mf); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing declarations: %w", err)
	}

	if mf.Version == "" {
		mf.Version = SchemaVersion
	}
	if mf.Version != SchemaVersion {
		return nil, fmt.Errorf("unsupported declaration file version %q", mf.Version)
	}

	if mf.Naming == "" {
		mf.Naming = NamingSnake
	}

	return mf, nil
}
