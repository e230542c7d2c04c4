// internal/layout/registry.go
//
// Named built-in layouts.
//
// Initialization behavior (Init):
//   1. Load every embedded assets/layouts/*.txt, named by file stem.
//   2. If LAYOUTS_DIR is set, load its *.txt files too; a file with the same
//      name as an embedded layout replaces it.
//
// Every loaded layout must parse and pass Validate, otherwise Init fails.
// Initialization is run once (sync.Once).

package layout

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/jorbDehmel/OOP-final-project/assets"
)

var (
	initOnce   sync.Once
	builtins   map[string]Layout
	initialErr error
)

// Init loads the built-in layouts exactly once.
func Init() error {
	initOnce.Do(func() {
		builtins, initialErr = load(os.Getenv("LAYOUTS_DIR"))
	})
	return initialErr
}

func load(dir string) (map[string]Layout, error) {
	texts, err := assets.Layouts()
	if err != nil {
		return nil, fmt.Errorf("read embedded layouts: %w", err)
	}
	if dir != "" {
		extra, err := readDir(dir)
		if err != nil {
			return nil, err
		}
		for name, text := range extra {
			texts[name] = text
		}
	}

	out := make(map[string]Layout, len(texts))
	for name, text := range texts {
		l, err := Parse(text)
		if err == nil {
			err = l.Validate()
		}
		if err != nil {
			return nil, fmt.Errorf("layout %q: %w", name, err)
		}
		out[name] = l
	}
	return out, nil
}

// readDir loads *.txt files from dir keyed by file stem.
func readDir(dir string) (map[string]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(paths))
	for _, p := range paths {
		b, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		out[strings.TrimSuffix(filepath.Base(p), ".txt")] = string(b)
	}
	return out, nil
}

// Builtin looks up a loaded layout by name.
func Builtin(name string) (Layout, bool) {
	l, ok := builtins[name]
	return l, ok
}

// Names lists the loaded layouts in sorted order.
func Names() []string {
	out := make([]string, 0, len(builtins))
	for name := range builtins {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
