// assets/embed.go
//
// Files compiled into the binary:
//   - layouts/*.txt: built-in setup layouts, one per file, named by file stem.
//   - sql/*.sql:     SQLite migrations for the preset store, applied in name order.

package assets

import (
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed layouts/*.txt sql/*.sql
var FS embed.FS

// Layouts returns the embedded layout texts keyed by name.
func Layouts() (map[string]string, error) {
	out := map[string]string{}
	entries, err := fs.ReadDir(FS, "layouts")
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".txt") {
			continue
		}
		b, err := FS.ReadFile(path.Join("layouts", e.Name()))
		if err != nil {
			return nil, err
		}
		out[strings.TrimSuffix(e.Name(), ".txt")] = string(b)
	}
	return out, nil
}

// Migrations returns the embedded migration file names in apply order.
func Migrations() ([]string, error) {
	matches, err := fs.Glob(FS, "sql/*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}
