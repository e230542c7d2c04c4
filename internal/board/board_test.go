package board

import (
	"errors"
	"strings"
	"testing"

	"github.com/jorbDehmel/OOP-final-project/internal/game"
	"github.com/jorbDehmel/OOP-final-project/internal/piece"
)

func troop(c piece.Color, r int) piece.Piece     { return piece.Must(piece.NewTroop(c, r)) }
func of(k piece.Kind, c piece.Color) piece.Piece { return piece.Must(piece.New(k, c)) }

func place(t *testing.T, b *Board, x, y int, p piece.Piece) {
	t.Helper()
	if err := b.SetPiece(x, y, p); err != nil {
		t.Fatalf("place %v at (%d,%d): %v", p, x, y, err)
	}
}

func mustInvalid(t *testing.T, b *Board, c piece.Color, from, to Point) {
	t.Helper()
	before := b.Clone()
	_, err := b.Move(c, from, to)
	if !errors.Is(err, ErrInvalidMove) {
		t.Fatalf("%s %v -> %v: want ErrInvalidMove, got %v", c, from, to, err)
	}
	if !b.Equal(before) {
		t.Fatalf("%s %v -> %v: invalid move changed the board", c, from, to)
	}
}

func TestNew_Lakes(t *testing.T) {
	b := New()
	lakes := 0
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			if b.Get(x, y).IsLake() {
				lakes++
				if y != 4 && y != 5 {
					t.Fatalf("lake on row %d", y)
				}
				if x != 2 && x != 3 && x != 6 && x != 7 {
					t.Fatalf("lake on column %d", x)
				}
			}
		}
	}
	if lakes != 8 {
		t.Fatalf("lakes = %d", lakes)
	}
	if b.Width() != 10 || b.Height() != 10 {
		t.Fatalf("dims %dx%d", b.Width(), b.Height())
	}
}

func TestGetSet(t *testing.T) {
	b := New()
	place(t, b, 0, 0, troop(piece.Red, 5))

	if err := b.Set(-1, 0, Empty()); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("want ErrOutOfRange, got %v", err)
	}
	if err := b.Set(0, 100, Empty()); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("want ErrOutOfRange, got %v", err)
	}
	if !b.Get(-1, 0).IsEmpty() || !b.Get(0, 11).IsEmpty() {
		t.Fatalf("off-board reads must be empty")
	}

	p, ok := b.Get(0, 0).Piece()
	if !ok || p.Kind != piece.Troop || p.Color != piece.Red || p.Symbol() != "5" {
		t.Fatalf("got %v %v", p, ok)
	}

	if err := b.SetPiece(2, 4, troop(piece.Red, 5)); !errors.Is(err, ErrImmutable) {
		t.Fatalf("writing over a lake: got %v", err)
	}
}

func TestFill(t *testing.T) {
	b := New()
	home := HomeRows(piece.Red)
	n := 0
	err := b.Fill(home, func(x, y int) Square {
		n++
		if (x+y)%2 == 0 {
			return Occupied(of(piece.Scout, piece.Red))
		}
		return Empty()
	})
	if err != nil {
		t.Fatal(err)
	}
	if n != 40 {
		t.Fatalf("generator called %d times", n)
	}
	if len(b.Pieces(piece.Red)) != 20 {
		t.Fatalf("red pieces = %d", len(b.Pieces(piece.Red)))
	}

	before := b.Clone()
	err = b.FillWith(Rect{X: 0, Y: 3, W: 10, H: 3}, Occupied(of(piece.Bomb, piece.Blue)))
	if !errors.Is(err, ErrImmutable) {
		t.Fatalf("fill over lakes: got %v", err)
	}
	if !b.Equal(before) {
		t.Fatalf("failed fill must not write")
	}

	if err := b.FillWith(Rect{X: 5, Y: 5, W: 10, H: 1}, Empty()); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("oversized rect: got %v", err)
	}

	b.Clear()
	if len(b.Pieces(piece.Red)) != 0 || !b.Get(6, 5).IsLake() {
		t.Fatalf("clear must empty pieces and keep lakes")
	}
}

func TestFill_EmptyRect(t *testing.T) {
	b := New()
	before := b.Clone()
	calls := 0
	gen := func(x, y int) Square {
		calls++
		return Occupied(of(piece.Bomb, piece.Red))
	}
	for _, r := range []Rect{{X: 0, Y: 0, W: 0, H: 4}, {X: 9, Y: 9, W: 3, H: 0}, {X: 10, Y: 10}} {
		if err := b.Fill(r, gen); err != nil {
			t.Fatalf("%+v: %v", r, err)
		}
	}
	if calls != 0 || !b.Equal(before) {
		t.Fatalf("zero-area fill wrote to the board (%d calls)", calls)
	}
	if err := b.Fill(Rect{X: 0, Y: 0, W: -1, H: 2}, gen); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("negative width: got %v", err)
	}
}

func TestMove_Basic(t *testing.T) {
	b := New()
	place(t, b, 0, 0, troop(piece.Red, 5))
	place(t, b, 0, 1, troop(piece.Blue, 4))

	tok, err := b.Move(piece.Red, Point{0, 0}, Point{0, 1})
	if err != nil || tok != game.Good {
		t.Fatalf("attack: %v %v", tok, err)
	}
	if !b.Get(0, 0).IsEmpty() {
		t.Fatalf("origin not cleared")
	}
	if p, _ := b.Get(0, 1).Piece(); p != troop(piece.Red, 5) {
		t.Fatalf("winner not placed: %v", p)
	}

	if _, err := b.Move(piece.Red, Point{0, 1}, Point{1, 1}); err != nil {
		t.Fatalf("move to empty: %v", err)
	}
}

func TestMove_Invalid(t *testing.T) {
	b := New()
	place(t, b, 0, 1, troop(piece.Blue, 4))
	place(t, b, 1, 1, troop(piece.Blue, 6))

	mustInvalid(t, b, piece.Red, Point{0, 1}, Point{0, 2})  // not yours
	mustInvalid(t, b, piece.Red, Point{0, 2}, Point{0, 2})  // zero move
	mustInvalid(t, b, piece.Red, Point{-1, 0}, Point{0, 0}) // off board
	mustInvalid(t, b, piece.Red, Point{11, 0}, Point{0, 0})
	mustInvalid(t, b, piece.Blue, Point{0, 1}, Point{0, 15})
	mustInvalid(t, b, piece.Blue, Point{0, 1}, Point{1, 2}) // diagonal
	mustInvalid(t, b, piece.Blue, Point{0, 1}, Point{0, 3}) // too far
	mustInvalid(t, b, piece.Blue, Point{5, 5}, Point{5, 6}) // empty origin
	mustInvalid(t, b, piece.Blue, Point{0, 1}, Point{1, 1}) // friendly target
}

func TestMove_Lakes(t *testing.T) {
	b := New()
	place(t, b, 2, 3, troop(piece.Blue, 7))
	mustInvalid(t, b, piece.Blue, Point{2, 3}, Point{2, 4}) // into lake
	mustInvalid(t, b, piece.Blue, Point{2, 4}, Point{2, 3}) // moving a lake

	if err := b.Set(0, 2, Lake()); err != nil {
		t.Fatal(err)
	}
	place(t, b, 0, 1, troop(piece.Blue, 4))
	mustInvalid(t, b, piece.Blue, Point{0, 2}, Point{0, 1})
	mustInvalid(t, b, piece.Blue, Point{0, 1}, Point{0, 2})
}

func TestMove_StationaryPieces(t *testing.T) {
	b := New()
	place(t, b, 0, 0, of(piece.Bomb, piece.Red))
	place(t, b, 1, 0, of(piece.Flag, piece.Red))
	mustInvalid(t, b, piece.Red, Point{0, 0}, Point{0, 1})
	mustInvalid(t, b, piece.Red, Point{1, 0}, Point{1, 1})
}

func TestMove_Scout(t *testing.T) {
	b := New()

	place(t, b, 0, 0, troop(piece.Red, 5))
	mustInvalid(t, b, piece.Red, Point{0, 0}, Point{0, 9})
	mustInvalid(t, b, piece.Red, Point{0, 0}, Point{9, 0})

	place(t, b, 0, 0, of(piece.Scout, piece.Red))
	if _, err := b.Move(piece.Red, Point{0, 0}, Point{0, 9}); err != nil {
		t.Fatalf("slide down: %v", err)
	}
	if _, err := b.Move(piece.Red, Point{0, 9}, Point{0, 0}); err != nil {
		t.Fatalf("slide back: %v", err)
	}
	if _, err := b.Move(piece.Red, Point{0, 0}, Point{9, 0}); err != nil {
		t.Fatalf("slide right: %v", err)
	}
	if _, err := b.Move(piece.Red, Point{9, 0}, Point{0, 0}); err != nil {
		t.Fatalf("slide left: %v", err)
	}

	if err := b.Set(0, 4, Lake()); err != nil {
		t.Fatal(err)
	}
	place(t, b, 4, 0, troop(piece.Blue, 9))
	mustInvalid(t, b, piece.Red, Point{0, 0}, Point{0, 9})
	mustInvalid(t, b, piece.Red, Point{0, 0}, Point{9, 0})

	// Scouts can slide across the board but not through the middle lakes.
	b = New()
	place(t, b, 2, 0, of(piece.Scout, piece.Red))
	mustInvalid(t, b, piece.Red, Point{2, 0}, Point{2, 9})
}

func TestMove_ScoutSlideAndAttack(t *testing.T) {
	b := New()
	place(t, b, 0, 0, of(piece.Scout, piece.Red))
	place(t, b, 0, 6, of(piece.Spy, piece.Blue))

	tok, err := b.Move(piece.Red, Point{0, 0}, Point{0, 6})
	if err != nil || tok != game.Good {
		t.Fatalf("slide attack: %v %v", tok, err)
	}
	if p, _ := b.Get(0, 6).Piece(); p.Kind != piece.Scout {
		t.Fatalf("scout should beat spy, got %v", p)
	}

	// Any occupant on the path blocks, whatever its colour.
	b = New()
	place(t, b, 0, 0, of(piece.Scout, piece.Red))
	place(t, b, 0, 3, of(piece.Scout, piece.Red))
	place(t, b, 0, 6, of(piece.Spy, piece.Blue))
	mustInvalid(t, b, piece.Red, Point{0, 0}, Point{0, 6})
}

func TestMove_CaptureFlag(t *testing.T) {
	b := New()
	place(t, b, 0, 0, of(piece.Flag, piece.Red))
	place(t, b, 0, 1, troop(piece.Blue, 6))

	tok, err := b.Move(piece.Blue, Point{0, 1}, Point{0, 0})
	if err != nil {
		t.Fatal(err)
	}
	if tok != game.Blue {
		t.Fatalf("token = %s", tok)
	}
	if p, _ := b.Get(0, 0).Piece(); p.Kind != piece.Flag {
		t.Fatalf("flag square holds %v", p)
	}
	if !b.Get(0, 1).IsEmpty() {
		t.Fatalf("attacker should leave its square")
	}

	// Own flag is off limits.
	place(t, b, 0, 1, troop(piece.Red, 6))
	mustInvalid(t, b, piece.Red, Point{0, 1}, Point{0, 0})
}

func TestMove_MutualDestruction(t *testing.T) {
	b := New()
	place(t, b, 5, 0, troop(piece.Red, 7))
	place(t, b, 5, 1, troop(piece.Blue, 7))
	if _, err := b.Move(piece.Red, Point{5, 0}, Point{5, 1}); err != nil {
		t.Fatal(err)
	}
	if !b.Get(5, 0).IsEmpty() || !b.Get(5, 1).IsEmpty() {
		t.Fatalf("equal ranks should both be removed")
	}
}

func TestMove_BombAndMiner(t *testing.T) {
	b := New()
	place(t, b, 0, 0, troop(piece.Red, 9))
	place(t, b, 0, 1, of(piece.Bomb, piece.Blue))
	place(t, b, 1, 0, of(piece.Miner, piece.Red))
	place(t, b, 1, 1, of(piece.Bomb, piece.Blue))

	if _, err := b.Move(piece.Red, Point{0, 0}, Point{0, 1}); err != nil {
		t.Fatal(err)
	}
	if p, _ := b.Get(0, 1).Piece(); p.Kind != piece.Bomb {
		t.Fatalf("bomb should survive, got %v", p)
	}
	if _, err := b.Move(piece.Red, Point{1, 0}, Point{1, 1}); err != nil {
		t.Fatal(err)
	}
	if p, _ := b.Get(1, 1).Piece(); p.Kind != piece.Miner {
		t.Fatalf("miner should defuse, got %v", p)
	}
}

func TestRenderFor_HidesOpponent(t *testing.T) {
	b := New()
	place(t, b, 0, 0, of(piece.Marshal, piece.Red))
	place(t, b, 0, 9, of(piece.Flag, piece.Blue))

	red := b.RenderFor(piece.Red)
	if !strings.Contains(red, "10") || strings.Contains(red, " F") {
		t.Fatalf("red view:\n%s", red)
	}
	full := b.String()
	if !strings.Contains(full, " F") || !strings.Contains(full, "~~") {
		t.Fatalf("full view:\n%s", full)
	}
}
