package gen

import (
	"os"
	"path/filepath"
	"strings"
)

// writeDebugUnformatted writes the raw template output next to the intended
// file when go/format rejects it, so the broken line can be inspected.
// Best-effort: errors are returned but callers ignore them.
func writeDebugUnformatted(outDir, filename string, content []byte) error {
	if outDir == "" || filename == "" {
		return nil
	}

	if err := os.MkdirAll(outDir, dirPerm); err != nil {
		return err
	}

	// Not a .go file: the sidecar must not break the package build.
	debugName := strings.TrimSuffix(filename, ".go") + ".unformatted.go.txt"
	p := filepath.Join(outDir, debugName)

	return os.WriteFile(p, content, filePerm)
}
