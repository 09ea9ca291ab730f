// Package config loads generator settings.
//
// Layers, highest precedence last:
//
//  1. built-in defaults,
//  2. the generator section of tablemap.yaml,
//  3. environment variables prefixed TABLEMAP_, where __ maps to "."
//     (TABLEMAP_LOG__LEVEL sets log.level), after loading an optional .env,
//  4. command-line overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"

	"tablemap/internal/mapping"
	"tablemap/internal/plan"
)

// EnvPrefix prefixes environment overrides.
const EnvPrefix = "TABLEMAP_"

// section is the key of the generator settings in tablemap.yaml.
const section = "generator"

// Options control where Load reads from.
type Options struct {
	// File is the declaration file. A missing file is not an error.
	File string
	// EnvFile is a dotenv file loaded into the environment first. A missing
	// file is not an error.
	EnvFile string
	// Overrides are keys such as "strict" or "log.level" set by flags.
	Overrides map[string]any
}

// Defaults returns the built-in settings.
func Defaults() map[string]any {
	return map[string]any{
		"package":   ".",
		"runtime":   plan.DefaultRuntimePath,
		"module":    "",
		"output":    "",
		"tests":     true,
		"comments":  true,
		"strict":    false,
		"log.level": "info",
		"log.file":  "",
	}
}

// Load merges the layers, unmarshals and validates the result.
func Load(opts Options) (*Config, error) {
	if opts.File == "" {
		opts.File = mapping.DefaultFile
	}

	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", opts.EnvFile, err)
		}
	}

	k := koanf.New(".")

	if err := set(k, Defaults()); err != nil {
		return nil, err
	}

	if _, err := os.Stat(opts.File); err == nil {
		if err := k.Load(file.Provider(opts.File), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading %s: %w", opts.File, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading %s: %w", opts.File, err)
	}

	// TABLEMAP_LOG__LEVEL -> generator.log.level
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.ReplaceAll(strings.TrimPrefix(s, EnvPrefix), "__", "."))
		return section + "." + key
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	if err := set(k, opts.Overrides); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal(section, &cfg); err != nil {
		return nil, fmt.Errorf("decoding configuration: %w", err)
	}

	cfg.File = opts.File

	if err := validateStruct(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func set(k *koanf.Koanf, values map[string]any) error {
	for key, val := range values {
		if err := k.Set(section+"."+key, val); err != nil {
			return fmt.Errorf("setting %s: %w", key, err)
		}
	}

	return nil
}
