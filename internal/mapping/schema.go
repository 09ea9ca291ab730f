package mapping

// MappingFile is the root of a tablemap.yaml declaration file. Everything in
// it can also be declared with //tablemap: directives and sql struct tags;
// the file wins only where it adds information, and stating the same thing
// twice is an error.
type MappingFile struct {
	// Version of the schema (for future compatibility).
	Version string `yaml:"version,omitempty"`

	// Naming derives default column names from field names.
	Naming Naming `yaml:"naming,omitempty"`

	Models  []ModelDef  `yaml:"models,omitempty"`
	Records []RecordDef `yaml:"records,omitempty"`
	Enums   []EnumDef   `yaml:"enums,omitempty"`

	// Generator holds CLI settings. internal/config reads this section; the
	// mapping layer carries it through untouched.
	Generator map[string]any `yaml:"generator,omitempty"`
}

// Naming is the default column naming rule.
type Naming string

const (
	// NamingSnake maps HomeDir to home_dir.
	NamingSnake Naming = "snake"
	// NamingExact uses the field name unchanged.
	NamingExact Naming = "exact"
)

// IsValid returns true if the naming is a recognized value.
func (n Naming) IsValid() bool {
	return n == NamingSnake || n == NamingExact
}

// ModelDef declares a struct mapped to a table.
type ModelDef struct {
	// Type is the struct name, optionally package-qualified.
	Type string `yaml:"type"`
	// Table is the SQLite table name.
	Table string `yaml:"table"`
	// Check is a DDL file, relative to the package directory, the table is
	// checked against by a generated test.
	Check string `yaml:"check,omitempty"`

	Fields []FieldDef `yaml:"fields,omitempty"`

	// Origin records where the declaration came from.
	Origin Origin `yaml:"-"`
}

// RecordDef declares a struct built from ad-hoc query rows.
type RecordDef struct {
	Type   string     `yaml:"type"`
	Fields []FieldDef `yaml:"fields,omitempty"`

	Origin Origin `yaml:"-"`
}

// EnumDef declares an enumeration stored as an integer.
type EnumDef struct {
	Type string `yaml:"type"`
	// Stable stores each variant's own value rather than its position, so
	// reordering the constants does not change stored data.
	Stable bool `yaml:"stable,omitempty"`

	Origin Origin `yaml:"-"`
}

// FieldDef overrides the mapping of one struct field.
type FieldDef struct {
	// Name is the Go field name.
	Name string `yaml:"name"`

	FieldOptions `yaml:",inline"`
}

// FieldOptions are the per-field settings shared by sql tags and YAML.
type FieldOptions struct {
	Column  string `yaml:"column,omitempty"`
	Bind    string `yaml:"bind,omitempty"`
	Extract string `yaml:"extract,omitempty"`
	Codec   string `yaml:"codec,omitempty"`
	Skip    bool   `yaml:"skip,omitempty"`
}

// IsZero reports whether no option is set.
func (o FieldOptions) IsZero() bool {
	return o == FieldOptions{}
}

// Origin is where a declaration was read from.
type Origin int

const (
	OriginYAML Origin = iota
	OriginDirective
	// OriginBoth marks declarations present in both places.
	OriginBoth
)

// String returns a human-readable representation of the origin.
func (o Origin) String() string {
	switch o {
	case OriginYAML:
		return "yaml"
	case OriginDirective:
		return "directive"
	case OriginBoth:
		return "directive+yaml"
	default:
		return "unknown"
	}
}
