// internal/layout/layout.go
//
// Setup layouts: the 4x10 arrangement of one side's home rows.
//
// Text format:
//   - One row per line, front row (nearest the lakes) first.
//   - Ten whitespace-separated symbols per row: B, F, S or a rank 1..10.
//   - Blank lines and lines starting with '#' are ignored.
//
// A layout is colour-neutral. Apply maps row r to y = 3-r for RED and
// y = 6+r for BLUE, so the front row always faces the opponent.

package layout

import (
	"bufio"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/jorbDehmel/OOP-final-project/internal/board"
	"github.com/jorbDehmel/OOP-final-project/internal/piece"
)

const (
	Rows = 4
	Cols = board.Width
)

// ErrInvalidLayout is returned for malformed text or a wrong piece roster.
var ErrInvalidLayout = errors.New("invalid layout")

// Layout holds one symbol per home-row cell, indexed [row][col].
type Layout struct {
	cells [Rows][Cols]string
}

// Parse reads the text format. It checks shape and symbols only; call
// Validate to check the roster.
func Parse(text string) (Layout, error) {
	var l Layout
	row := 0
	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if row == Rows {
			return Layout{}, fmt.Errorf("%w: more than %d rows", ErrInvalidLayout, Rows)
		}
		fields := strings.Fields(line)
		if len(fields) != Cols {
			return Layout{}, fmt.Errorf("%w: row %d has %d symbols, want %d", ErrInvalidLayout, row+1, len(fields), Cols)
		}
		for col, sym := range fields {
			p, err := piece.FromSymbol(sym, piece.Red)
			if err != nil {
				return Layout{}, fmt.Errorf("%w: row %d: %v", ErrInvalidLayout, row+1, err)
			}
			l.cells[row][col] = p.Symbol()
		}
		row++
	}
	if err := sc.Err(); err != nil {
		return Layout{}, err
	}
	if row != Rows {
		return Layout{}, fmt.Errorf("%w: %d rows, want %d", ErrInvalidLayout, row, Rows)
	}
	return l, nil
}

// String renders the layout in the text format Parse accepts.
func (l Layout) String() string {
	var sb strings.Builder
	for r := 0; r < Rows; r++ {
		sb.WriteString(strings.Join(l.cells[r][:], " "))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Pieces returns the layout's pieces for color, row by row.
func (l Layout) Pieces(color piece.Color) ([]piece.Piece, error) {
	out := make([]piece.Piece, 0, Rows*Cols)
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			p, err := piece.FromSymbol(l.cells[r][c], color)
			if err != nil {
				return nil, fmt.Errorf("%w: (%d,%d): %v", ErrInvalidLayout, r, c, err)
			}
			out = append(out, p)
		}
	}
	return out, nil
}

// Validate checks that the layout fields exactly the standard roster.
func (l Layout) Validate() error {
	ps, err := l.Pieces(piece.Red)
	if err != nil {
		return err
	}
	got := piece.Counts(ps)
	want := piece.Counts(piece.StandardSet(piece.Red))
	for p, n := range want {
		if got[p] != n {
			return fmt.Errorf("%w: %d x %s, want %d", ErrInvalidLayout, got[p], p.Symbol(), n)
		}
	}
	if len(got) != len(want) {
		return fmt.Errorf("%w: unexpected pieces", ErrInvalidLayout)
	}
	return nil
}

// cellY maps a layout row to a board row for color.
func cellY(color piece.Color, row int) int {
	home := board.HomeRows(color)
	if color == piece.Blue {
		return home.Y + row
	}
	return home.Y + home.H - 1 - row
}

// Apply writes the layout into color's home rows. Other cells are untouched.
func (l Layout) Apply(b *board.Board, color piece.Color) error {
	ps, err := l.Pieces(color)
	if err != nil {
		return err
	}
	home := board.HomeRows(color)
	return b.Fill(home, func(x, y int) board.Square {
		for r := 0; r < Rows; r++ {
			if cellY(color, r) == y {
				return board.Occupied(ps[r*Cols+x-home.X])
			}
		}
		return board.Empty()
	})
}

// FromBoard reads color's home rows back into a layout.
func FromBoard(b *board.Board, color piece.Color) (Layout, error) {
	var l Layout
	home := board.HomeRows(color)
	for r := 0; r < Rows; r++ {
		y := cellY(color, r)
		for c := 0; c < Cols; c++ {
			p, ok := b.Get(home.X+c, y).Piece()
			if !ok || p.Color != color {
				return Layout{}, fmt.Errorf("%w: no %s piece at (%d,%d)", ErrInvalidLayout, color, home.X+c, y)
			}
			l.cells[r][c] = p.Symbol()
		}
	}
	return l, nil
}

// Random returns a shuffled standard roster placed through Board.Fill.
func Random(rng *rand.Rand) Layout {
	set := piece.StandardSet(piece.Red)
	rng.Shuffle(len(set), func(i, j int) { set[i], set[j] = set[j], set[i] })

	b := board.New()
	i := 0
	// The home rect is inside the board and holds no lakes, so Fill cannot fail.
	_ = b.Fill(board.HomeRows(piece.Red), func(x, y int) board.Square {
		p := set[i]
		i++
		return board.Occupied(p)
	})
	l, _ := FromBoard(b, piece.Red)
	return l
}
