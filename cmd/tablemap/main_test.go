package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tablemap/internal/config"
	"tablemap/internal/gen"
)

const (
	shopPkg   = "tablemap/internal/testdata/shop"
	brokenPkg = "tablemap/internal/testdata/broken"
)

func runCmd(t *testing.T, args ...string) (int, string, string) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Usage(t *testing.T) {
	code, _, stderr := runCmd(t)
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "Usage: tablemap")

	code, _, stderr = runCmd(t, "frobnicate")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, `unknown command "frobnicate"`)

	code, stdout, _ := runCmd(t, "version")
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "tablemap dev\n", stdout)
}

func TestRun_CheckClean(t *testing.T) {
	code, stdout, stderr := runCmd(t, "check", "-pkg", shopPkg)
	require.Equal(t, exitOK, code, stdout+stderr)
	assert.NotContains(t, stdout, ": error:")
	assert.NotContains(t, stdout, "wrote")
}

func TestRun_CheckDump(t *testing.T) {
	code, stdout, _ := runCmd(t, "check", "-pkg", shopPkg, "-dump")
	require.Equal(t, exitOK, code)

	assert.Contains(t, stdout, "Customer -> customer_name via sqlrow.Text")
	assert.Contains(t, stdout, "Status -> status via StatusEnum.Codec()")
	assert.Contains(t, stdout, `Table: (string) (len=6) "orders"`)
}

func TestRun_CheckBroken(t *testing.T) {
	code, stdout, _ := runCmd(t, "check", "-pkg", brokenPkg)
	assert.Equal(t, exitDiags, code)
	assert.Contains(t, stdout, brokenPkg+": error: ")
	assert.Contains(t, stdout, "[missing_table]")
	assert.Contains(t, stdout, "[no_variants]")
}

func TestRun_GenWritesAndRemovesStale(t *testing.T) {
	out := t.TempDir()
	stale := filepath.Join(out, "gone_tablemap.go")
	require.NoError(t, os.WriteFile(stale, []byte(gen.Header+"\n\npackage shop\n"), 0o644))

	code, stdout, stderr := runCmd(t, "gen", "-pkg", shopPkg, "-out", out)
	require.Equal(t, exitOK, code, stdout+stderr)

	assert.Contains(t, stdout, "wrote shop_tablemap.go")
	assert.Contains(t, stdout, "wrote shop_tablemap_test.go")
	assert.Contains(t, stdout, "removed gone_tablemap.go")

	data, err := os.ReadFile(filepath.Join(out, "shop_tablemap.go"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `var OrderTable = sqlrow.MustTable("orders"`)

	_, err = os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
}

func TestRun_GenNoTests(t *testing.T) {
	out := t.TempDir()

	code, _, _ := runCmd(t, "gen", "-pkg", shopPkg, "-out", out, "-no-tests")
	require.Equal(t, exitOK, code)

	_, err := os.Stat(filepath.Join(out, "shop_tablemap_test.go"))
	assert.True(t, os.IsNotExist(err))
}

func TestRun_BadConfig(t *testing.T) {
	t.Setenv("TABLEMAP_LOG__LEVEL", "loud")

	code, _, stderr := runCmd(t, "check", "-pkg", shopPkg)
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "invalid configuration")
}

func TestModulePath(t *testing.T) {
	cases := []struct {
		module, runtime, want string
	}{
		{"", "tablemap/sqlrow", "tablemap"},
		{"", "github.com/acme/tablemap/sqlrow", ""},
		{"example.com/app", "tablemap/sqlrow", "example.com/app"},
	}
	for _, c := range cases {
		cfg := configFor(c.module, c.runtime)
		assert.Equal(t, c.want, modulePath(cfg), c.runtime)
	}
}

func configFor(module, runtime string) *config.Config {
	return &config.Config{Module: module, Runtime: runtime}
}
