package board

import (
	"errors"
	"fmt"

	"github.com/jorbDehmel/OOP-final-project/internal/game"
	"github.com/jorbDehmel/OOP-final-project/internal/piece"
)

// ErrInvalidMove wraps every move-validation failure. The board is left untouched.
var ErrInvalidMove = errors.New("invalid move")

func invalid(format string, a ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidMove, fmt.Sprintf(format, a...))
}

// Move validates and applies a move by color from one square to another.
//
// Validation stages, in order:
//   - both endpoints on the board;
//   - straight, non-zero movement;
//   - the origin holds one of color's pieces;
//   - the piece can move, the target is not a lake or a friendly piece;
//   - scouts need a clear path, everything else moves exactly one square.
//
// On success the mover's square is emptied and the destination receives the
// result of piece.Confront. Capturing a flag returns color's win token;
// every other accepted move returns game.Good.
func (b *Board) Move(color piece.Color, from, to Point) (game.Token, error) {
	if !InBounds(from.X, from.Y) || !InBounds(to.X, to.Y) {
		return "", invalid("%v -> %v leaves the board", from, to)
	}

	dx, dy := to.X-from.X, to.Y-from.Y
	if dx == 0 && dy == 0 {
		return "", invalid("%v does not move", from)
	}
	if dx != 0 && dy != 0 {
		return "", invalid("%v -> %v is diagonal", from, to)
	}

	src := b.Get(from.X, from.Y)
	mover, ok := src.Piece()
	if !ok {
		return "", invalid("no piece at %v", from)
	}
	if mover.Color != color {
		return "", invalid("piece at %v belongs to %s", from, mover.Color)
	}

	if !mover.Movable() {
		return "", invalid("%s cannot move", mover.Kind)
	}
	dst := b.Get(to.X, to.Y)
	if dst.IsLake() {
		return "", invalid("%v is a lake", to)
	}
	defender, attacking := dst.Piece()
	if attacking && defender.Color == color {
		return "", invalid("%v holds a friendly piece", to)
	}

	if mover.Kind == piece.Scout {
		if blocked, at := b.pathBlocked(from, to); blocked {
			return "", invalid("path blocked at %v", at)
		}
	} else if abs(dx) > 1 || abs(dy) > 1 {
		return "", invalid("%s moves one square at a time", mover.Kind)
	}

	var def *piece.Piece
	if attacking {
		def = &defender
	}
	winner, err := piece.Confront(mover, def)
	if err != nil {
		return "", err
	}

	b.cells[from.Y][from.X] = Empty()
	if winner == nil {
		b.cells[to.Y][to.X] = Empty()
	} else {
		b.cells[to.Y][to.X] = Occupied(*winner)
	}

	if attacking && defender.Kind == piece.Flag {
		return game.TokenFor(color), nil
	}
	return game.Good, nil
}

// pathBlocked scans the cells strictly between from and to.
func (b *Board) pathBlocked(from, to Point) (bool, Point) {
	sx, sy := sign(to.X-from.X), sign(to.Y-from.Y)
	for x, y := from.X+sx, from.Y+sy; x != to.X || y != to.Y; x, y = x+sx, y+sy {
		if !b.cells[y][x].IsEmpty() {
			return true, Point{x, y}
		}
	}
	return false, Point{}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}
