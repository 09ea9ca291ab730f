package gen

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// ErrNotGenerated is returned when an output path holds a file that was not
// written by the generator.
var ErrNotGenerated = errors.New("refusing to overwrite a file without the generated header")

// WriteFiles writes all generated files to the output directory.
// It creates the directory if it doesn't exist. Existing files are only
// replaced when they carry the generated header.
func WriteFiles(files []GeneratedFile, outputDir string) error {
	// Create output directory if it doesn't exist
	err := os.MkdirAll(outputDir, dirPerm)
	if err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	for _, file := range files {
		outputPath := filepath.Join(outputDir, file.Filename)

		generated, err := IsGenerated(outputPath)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("reading %s: %w", file.Filename, err)
		}
		if err == nil && !generated {
			return fmt.Errorf("%s: %w", file.Filename, ErrNotGenerated)
		}

		err = os.WriteFile(outputPath, file.Content, filePerm)
		if err != nil {
			return fmt.Errorf("writing file %s: %w", file.Filename, err)
		}
	}

	return nil
}

// RemoveStale deletes generated files in dir that are not in keep, such as
// the output for a source file that no longer declares any model. It
// returns the names removed.
func RemoveStale(dir string, keep []GeneratedFile) ([]string, error) {
	wanted := make(map[string]bool, len(keep))
	for _, f := range keep {
		wanted[f.Filename] = true
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading output directory: %w", err)
	}

	var removed []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || wanted[name] || !strings.HasSuffix(name, FileSuffix) && !strings.HasSuffix(name, TestFileSuffix) {
			continue
		}

		path := filepath.Join(dir, name)
		if ok, err := IsGenerated(path); err != nil || !ok {
			continue
		}

		if err := os.Remove(path); err != nil {
			return removed, fmt.Errorf("removing %s: %w", name, err)
		}
		removed = append(removed, name)
	}

	return removed, nil
}

// IsGenerated reports whether the file at path starts with the generated
// header.
func IsGenerated(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && line == "" {
		return false, nil
	}

	return strings.TrimSpace(line) == Header, nil
}
