package common

import (
	"path"
	"strings"
)

// UnknownStr is printed for enum values without a name.
const UnknownStr = "unknown"

// PkgAlias returns the default package name for an import path: its last
// element with a trailing major version suffix dropped.
// Returns empty string if pkgPath is empty.
func PkgAlias(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}

	base := path.Base(pkgPath)
	if strings.HasPrefix(base, "v") && strings.Trim(base[1:], "0123456789") == "" && len(base) > 1 {
		return path.Base(path.Dir(pkgPath))
	}

	return base
}

// IsStdlib reports whether pkgPath belongs to the standard library, judged by
// the absence of a dot in its first element. Paths inside module are never
// standard.
func IsStdlib(pkgPath, module string) bool {
	if InModule(pkgPath, module) {
		return false
	}

	first, _, _ := strings.Cut(pkgPath, "/")
	return !strings.Contains(first, ".")
}

// InModule reports whether pkgPath is module or one of its packages.
func InModule(pkgPath, module string) bool {
	return module != "" && (pkgPath == module || strings.HasPrefix(pkgPath, module+"/"))
}
