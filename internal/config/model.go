package config

// Config holds the generator settings. Struct tags use koanf, which ignores
// yaml tags.
type Config struct {
	// Package is the go/packages pattern of the package to generate for.
	Package string `koanf:"package" validate:"required"`
	// Runtime is the import path of the sqlrow runtime used by generated code.
	Runtime string `koanf:"runtime" validate:"required"`
	// Module groups imports of the current module after third-party ones.
	Module string `koanf:"module"`
	// Output overrides the directory generated files are written to. Empty
	// means the package directory.
	Output string `koanf:"output"`

	Tests    bool `koanf:"tests"`
	Comments bool `koanf:"comments"`
	// Strict turns warnings into errors.
	Strict bool `koanf:"strict"`

	Log Log `koanf:"log"`

	// File is the declaration file the settings were read from. Set by Load.
	File string `koanf:"-"`
}

// Log configures internal/logger.
type Log struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error"`
	// File enables a rotated JSON log next to the console output.
	File string `koanf:"file"`
}
