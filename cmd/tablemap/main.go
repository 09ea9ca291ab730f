// Command tablemap generates SQLite table mappings for Go structs.
//
// Usage:
//
//	tablemap gen     [flags]  resolve declarations and write *_tablemap.go files
//	tablemap check   [flags]  resolve and report diagnostics without writing
//	tablemap version
//
// Declarations come from //tablemap: directives, sql struct tags and an
// optional tablemap.yaml in the package directory. The generator section
// of that file, TABLEMAP_* environment variables and flags configure the
// command. A typical package declares
//
//	//go:generate go run tablemap/cmd/tablemap gen
package main

import (
	"fmt"
	"io"
	"os"
)

var version = "dev"

// Exit codes.
const (
	exitOK    = 0
	exitDiags = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return exitUsage
	}

	switch args[0] {
	case "gen":
		return runPipeline("gen", args[1:], true, stdout, stderr)
	case "check":
		return runPipeline("check", args[1:], false, stdout, stderr)
	case "version":
		fmt.Fprintln(stdout, "tablemap", version)
		return exitOK
	case "help", "-h", "-help", "--help":
		usage(stdout)
		return exitOK
	default:
		fmt.Fprintf(stderr, "tablemap: unknown command %q\n", args[0])
		usage(stderr)
		return exitUsage
	}
}

func usage(w io.Writer) {
	fmt.Fprint(w, `Usage: tablemap <command> [flags]

Commands:
  gen      resolve declarations and write *_tablemap.go files
  check    resolve and report diagnostics without writing
  version  print the version

Run 'tablemap <command> -h' for the flags of a command.
`)
}
