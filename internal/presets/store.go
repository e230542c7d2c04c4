// internal/presets/store.go
//
// Named setup layouts persisted in SQLite.
// Layouts are validated before they are written and again when read back,
// so a hand-edited row can never reach a board.

package presets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/jorbDehmel/OOP-final-project/internal/layout"
)

var (
	ErrNotFound    = errors.New("preset not found")
	ErrInvalidName = errors.New("invalid preset name")
)

var nameRe = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

// ValidName reports whether name can be used as a preset key.
func ValidName(name string) bool { return nameRe.MatchString(name) }

type Preset struct {
	Name      string        `json:"name"`
	Layout    layout.Layout `json:"-"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens the database at dsn and applies migrations.
func Open(dsn string) (*Store, error) {
	db, err := openDB(dsn)
	if err != nil {
		return nil, err
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewStore(db), nil
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (s *Store) Close() error { return s.db.Close() }

// Save creates or replaces a preset.
func (s *Store) Save(ctx context.Context, name string, l layout.Layout) error {
	if !ValidName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if err := l.Validate(); err != nil {
		return err
	}
	ts := s.now().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO presets(name, layout, created_at, updated_at)
        VALUES (?, ?, ?, ?)
        ON CONFLICT(name) DO UPDATE SET layout=excluded.layout, updated_at=excluded.updated_at`,
		name, l.String(), ts, ts,
	)
	if err != nil {
		return fmt.Errorf("save preset %q: %w", name, err)
	}
	return nil
}

// Get loads one preset.
func (s *Store) Get(ctx context.Context, name string) (Preset, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT name, layout, created_at, updated_at FROM presets WHERE name=?`, name)
	p, err := scanPreset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Preset{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return p, err
}

// List returns every preset ordered by name.
func (s *Store) List(ctx context.Context) ([]Preset, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, layout, created_at, updated_at FROM presets ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Preset
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Delete removes a preset.
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM presets WHERE name=?`, name)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return nil
}

type scanner interface{ Scan(dest ...any) error }

func scanPreset(sc scanner) (Preset, error) {
	var p Preset
	var text, created, updated string
	if err := sc.Scan(&p.Name, &text, &created, &updated); err != nil {
		return Preset{}, err
	}
	l, err := layout.Parse(text)
	if err == nil {
		err = l.Validate()
	}
	if err != nil {
		return Preset{}, fmt.Errorf("preset %q: %w", p.Name, err)
	}
	p.Layout = l
	if p.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return Preset{}, fmt.Errorf("preset %q created_at: %w", p.Name, err)
	}
	if p.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
		return Preset{}, fmt.Errorf("preset %q updated_at: %w", p.Name, err)
	}
	return p, nil
}
