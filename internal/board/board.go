// internal/board/board.go
//
// The 10x10 Stratego grid.
// Responsibilities:
//   - Own square occupancy (empty / lake / piece) and bounds checks.
//   - Bulk placement (Clear, Fill) used during setup.
//   - Move validation and combat dispatch (see move.go).
//
// Notes:
//   - A Board is an ordinary owned value. The turn loop constructs one per game
//     and passes it around; starting over is just New().
//   - Cells are addressed as (x, y): x is the column, y the row, both 0-based.
//   - The eight fixed lake cells can never be overwritten.

package board

import (
	"errors"
	"fmt"

	"github.com/jorbDehmel/OOP-final-project/internal/piece"
)

const (
	Width  = 10
	Height = 10
)

var (
	// ErrOutOfRange is returned for coordinates outside the grid.
	ErrOutOfRange = errors.New("coordinate out of range")
	// ErrImmutable is returned when writing over a fixed lake cell.
	ErrImmutable = errors.New("lake cells are immutable")
)

// fixedLakes are the two 2x2 lakes in the middle rows.
var fixedLakes = [...]Point{
	{2, 4}, {3, 4}, {2, 5}, {3, 5},
	{6, 4}, {7, 4}, {6, 5}, {7, 5},
}

// Point is a board coordinate.
type Point struct{ X, Y int }

func (p Point) String() string { return fmt.Sprintf("(%d,%d)", p.X, p.Y) }

type content uint8

const (
	empty content = iota
	lake
	occupied
)

// Square is the content of one cell. The zero value is an empty square.
type Square struct {
	c content
	p piece.Piece
}

// Empty returns an empty square.
func Empty() Square { return Square{} }

// Lake returns an impassable lake square.
func Lake() Square { return Square{c: lake} }

// Occupied returns a square holding p.
func Occupied(p piece.Piece) Square { return Square{c: occupied, p: p} }

func (s Square) IsEmpty() bool { return s.c == empty }
func (s Square) IsLake() bool  { return s.c == lake }

// Piece returns the occupant, if any.
func (s Square) Piece() (piece.Piece, bool) {
	if s.c != occupied {
		return piece.Piece{}, false
	}
	return s.p, true
}

func (s Square) String() string {
	switch s.c {
	case lake:
		return "L"
	case occupied:
		return s.p.String()
	}
	return "."
}

// Rect is a rectangular region of cells, W columns by H rows from (X, Y).
type Rect struct{ X, Y, W, H int }

// Contains reports whether (x, y) lies within r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// HomeRows is the 4-row territory a colour fills during setup.
// RED sets up on rows 0-3, BLUE on rows 6-9.
func HomeRows(c piece.Color) Rect {
	if c == piece.Blue {
		return Rect{X: 0, Y: Height - 4, W: Width, H: 4}
	}
	return Rect{X: 0, Y: 0, W: Width, H: 4}
}

// Board is the game grid, indexed cells[y][x].
type Board struct {
	cells [Height][Width]Square
}

// New returns an empty board with the standard lakes.
func New() *Board {
	b := &Board{}
	b.Clear()
	return b
}

func (b *Board) Width() int  { return Width }
func (b *Board) Height() int { return Height }

// InBounds reports whether (x, y) is on the board.
func InBounds(x, y int) bool { return x >= 0 && x < Width && y >= 0 && y < Height }

// IsFixedLake reports whether (x, y) is one of the permanent lake cells.
func IsFixedLake(x, y int) bool {
	for _, l := range fixedLakes {
		if l.X == x && l.Y == y {
			return true
		}
	}
	return false
}

// Get returns the square at (x, y). Off-board coordinates read as empty.
func (b *Board) Get(x, y int) Square {
	if !InBounds(x, y) {
		return Empty()
	}
	return b.cells[y][x]
}

// Set assigns a square.
func (b *Board) Set(x, y int, sq Square) error {
	if !InBounds(x, y) {
		return fmt.Errorf("%w: (%d,%d)", ErrOutOfRange, x, y)
	}
	if IsFixedLake(x, y) && !sq.IsLake() {
		return fmt.Errorf("%w: (%d,%d)", ErrImmutable, x, y)
	}
	b.cells[y][x] = sq
	return nil
}

// SetPiece is shorthand for Set(x, y, Occupied(p)).
func (b *Board) SetPiece(x, y int, p piece.Piece) error {
	return b.Set(x, y, Occupied(p))
}

// Clear empties every cell and restores the fixed lakes.
func (b *Board) Clear() {
	b.cells = [Height][Width]Square{}
	for _, l := range fixedLakes {
		b.cells[l.Y][l.X] = Lake()
	}
}

// Fill assigns gen(x, y) to every cell of r. Either every cell is written or,
// on error, none is. A rect with zero width or height is a no-op.
func (b *Board) Fill(r Rect, gen func(x, y int) Square) error {
	if r.W < 0 || r.H < 0 {
		return fmt.Errorf("%w: rect %+v", ErrOutOfRange, r)
	}
	if r.W == 0 || r.H == 0 {
		return nil
	}
	if !InBounds(r.X, r.Y) || !InBounds(r.X+r.W-1, r.Y+r.H-1) {
		return fmt.Errorf("%w: rect %+v", ErrOutOfRange, r)
	}
	next := b.cells
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			sq := gen(x, y)
			if IsFixedLake(x, y) && !sq.IsLake() {
				return fmt.Errorf("%w: (%d,%d)", ErrImmutable, x, y)
			}
			next[y][x] = sq
		}
	}
	b.cells = next
	return nil
}

// FillWith assigns the same square to every cell of r.
func (b *Board) FillWith(r Rect, sq Square) error {
	return b.Fill(r, func(int, int) Square { return sq })
}

// Pieces lists every piece of colour c, row by row.
func (b *Board) Pieces(c piece.Color) []piece.Piece {
	var out []piece.Piece
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			if p, ok := b.cells[y][x].Piece(); ok && p.Color == c {
				out = append(out, p)
			}
		}
	}
	return out
}

// Clone returns an independent copy.
func (b *Board) Clone() *Board {
	c := *b
	return &c
}

// Equal reports whether both boards hold identical squares.
func (b *Board) Equal(o *Board) bool {
	if b == nil || o == nil {
		return b == o
	}
	return b.cells == o.cells
}
