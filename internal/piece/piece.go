// internal/piece/piece.go
//
// Piece model for the Stratego rules engine.
// Defines:
//   - Color: the two sides (RED/BLUE).
//   - Kind: the seven unit kinds as a tagged variant.
//   - Piece: an immutable value carrying kind, colour and rank.
//
// Pieces are plain comparable values, so two pieces are equal iff they have
// the same kind, colour and rank. Setup bookkeeping relies on that.

package piece

import (
	"errors"
	"fmt"
	"strconv"
)

// Color identifies a side. Every piece and every player has exactly one.
type Color string

const (
	Red  Color = "RED"
	Blue Color = "BLUE"
)

// Opponent returns the other colour.
func (c Color) Opponent() Color {
	if c == Red {
		return Blue
	}
	return Red
}

// Valid reports whether c is RED or BLUE.
func (c Color) Valid() bool { return c == Red || c == Blue }

// ParseColor accepts the wire spelling "RED" or "BLUE".
func ParseColor(s string) (Color, error) {
	switch Color(s) {
	case Red, Blue:
		return Color(s), nil
	}
	return "", fmt.Errorf("unknown color %q", s)
}

// Kind is the unit type of a piece.
type Kind string

const (
	Bomb    Kind = "bomb"
	Flag    Kind = "flag"
	Marshal Kind = "marshal"
	Spy     Kind = "spy"
	Scout   Kind = "scout"
	Miner   Kind = "miner"
	Troop   Kind = "troop"
)

// Fixed ranks. Bomb and Flag are unranked (0).
const (
	RankSpy     = 1
	RankScout   = 2
	RankMiner   = 3
	RankTroopLo = 4
	RankTroopHi = 9
	RankMarshal = 10
)

var (
	// ErrUnsupported is returned when a stationary piece is asked to attack.
	ErrUnsupported = errors.New("unsupported operation")
	// ErrInvalidPiece is returned by constructors for impossible pieces.
	ErrInvalidPiece = errors.New("invalid piece")
)

// Piece is one playable unit.
type Piece struct {
	Kind  Kind
	Color Color
	Rank  int
}

// New builds a piece of a kind whose rank is fixed. Use NewTroop for troops.
func New(kind Kind, color Color) (Piece, error) {
	if !color.Valid() {
		return Piece{}, fmt.Errorf("%w: color %q", ErrInvalidPiece, color)
	}
	switch kind {
	case Bomb, Flag:
		return Piece{Kind: kind, Color: color}, nil
	case Marshal:
		return Piece{Kind: kind, Color: color, Rank: RankMarshal}, nil
	case Spy:
		return Piece{Kind: kind, Color: color, Rank: RankSpy}, nil
	case Scout:
		return Piece{Kind: kind, Color: color, Rank: RankScout}, nil
	case Miner:
		return Piece{Kind: kind, Color: color, Rank: RankMiner}, nil
	case Troop:
		return Piece{}, fmt.Errorf("%w: troop needs a rank", ErrInvalidPiece)
	}
	return Piece{}, fmt.Errorf("%w: kind %q", ErrInvalidPiece, kind)
}

// NewTroop builds a generic troop of rank 4..9.
func NewTroop(color Color, rank int) (Piece, error) {
	if !color.Valid() {
		return Piece{}, fmt.Errorf("%w: color %q", ErrInvalidPiece, color)
	}
	if rank < RankTroopLo || rank > RankTroopHi {
		return Piece{}, fmt.Errorf("%w: troop rank %d", ErrInvalidPiece, rank)
	}
	return Piece{Kind: Troop, Color: color, Rank: rank}, nil
}

// Must panics on constructor errors. Intended for literals and tests.
func Must(p Piece, err error) Piece {
	if err != nil {
		panic(err)
	}
	return p
}

// Validate checks that p could have come from New or NewTroop.
func (p Piece) Validate() error {
	var (
		q   Piece
		err error
	)
	if p.Kind == Troop {
		q, err = NewTroop(p.Color, p.Rank)
	} else {
		q, err = New(p.Kind, p.Color)
	}
	if err != nil {
		return err
	}
	if q != p {
		return fmt.Errorf("%w: %s with rank %d", ErrInvalidPiece, p.Kind, p.Rank)
	}
	return nil
}

// Movable reports whether the piece can ever leave its square.
func (p Piece) Movable() bool { return p.Kind != Bomb && p.Kind != Flag }

// Symbol is the short identifier shown on a board: B, F, S (spy) or the rank.
func (p Piece) Symbol() string {
	switch p.Kind {
	case Bomb:
		return "B"
	case Flag:
		return "F"
	case Spy:
		return "S"
	}
	return strconv.Itoa(p.Rank)
}

func (p Piece) String() string {
	return string(p.Color) + ":" + p.Symbol()
}

// FromSymbol is the inverse of Symbol for a given colour.
func FromSymbol(sym string, color Color) (Piece, error) {
	switch sym {
	case "B", "b":
		return New(Bomb, color)
	case "F", "f":
		return New(Flag, color)
	case "S", "s":
		return New(Spy, color)
	}
	n, err := strconv.Atoi(sym)
	if err != nil {
		return Piece{}, fmt.Errorf("%w: symbol %q", ErrInvalidPiece, sym)
	}
	switch {
	case n == RankSpy:
		return New(Spy, color)
	case n == RankScout:
		return New(Scout, color)
	case n == RankMiner:
		return New(Miner, color)
	case n == RankMarshal:
		return New(Marshal, color)
	}
	return NewTroop(color, n)
}
