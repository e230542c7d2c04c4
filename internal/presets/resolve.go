package presets

import (
	"context"
	"errors"
	"fmt"

	"github.com/jorbDehmel/OOP-final-project/internal/layout"
)

// Resolve finds a layout by name: saved presets first, then built-ins.
// st may be nil when no database is configured.
func Resolve(ctx context.Context, st *Store, name string) (layout.Layout, error) {
	if st != nil {
		p, err := st.Get(ctx, name)
		if err == nil {
			return p.Layout, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return layout.Layout{}, err
		}
	}
	if err := layout.Init(); err != nil {
		return layout.Layout{}, err
	}
	if l, ok := layout.Builtin(name); ok {
		return l, nil
	}
	return layout.Layout{}, fmt.Errorf("%w: %q", ErrNotFound, name)
}
