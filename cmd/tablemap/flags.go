package main

import (
	"flag"
	"io"

	"tablemap/internal/config"
	"tablemap/internal/mapping"
)

type cmdFlags struct {
	config  string
	envFile string
	dump    bool

	// overrides collects the configuration keys set on the command line.
	overrides map[string]any
}

func parseFlags(name string, args []string, stderr io.Writer) (*cmdFlags, error) {
	f := &cmdFlags{overrides: make(map[string]any)}

	fs := flag.NewFlagSet("tablemap "+name, flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&f.config, "config", mapping.DefaultFile, "declaration file holding the generator section")
	fs.StringVar(&f.envFile, "env-file", ".env", "dotenv file loaded before reading TABLEMAP_* variables")
	pkg := fs.String("pkg", "", "package pattern (default \".\")")
	out := fs.String("out", "", "output directory (default: the package directory)")
	logFile := fs.String("log-file", "", "also write JSON logs to this file")
	verbose := fs.Bool("v", false, "debug logging")
	strict := fs.Bool("strict", false, "treat warnings as errors")
	noTests := fs.Bool("no-tests", false, "do not generate schema tests")
	if name == "check" {
		fs.BoolVar(&f.dump, "dump", false, "print the resolved mappings")
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Only flags given explicitly override the file and the environment.
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "pkg":
			f.overrides["package"] = *pkg
		case "out":
			f.overrides["output"] = *out
		case "log-file":
			f.overrides["log.file"] = *logFile
		case "v":
			if *verbose {
				f.overrides["log.level"] = "debug"
			}
		case "strict":
			f.overrides["strict"] = *strict
		case "no-tests":
			f.overrides["tests"] = !*noTests
		}
	})

	return f, nil
}

func (f *cmdFlags) options() config.Options {
	return config.Options{File: f.config, EnvFile: f.envFile, Overrides: f.overrides}
}
