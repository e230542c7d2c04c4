package board

import (
	"errors"
	"fmt"

	"github.com/bytedance/sonic"

	"github.com/jorbDehmel/OOP-final-project/internal/piece"
)

// ErrCorrupt is returned when a decoded snapshot violates board invariants.
var ErrCorrupt = errors.New("corrupt board snapshot")

type wireCell struct {
	Lake  bool        `json:"lake,omitempty"`
	Kind  piece.Kind  `json:"kind,omitempty"`
	Color piece.Color `json:"color,omitempty"`
	Rank  int         `json:"rank,omitempty"`
}

type wireBoard struct {
	Width  int        `json:"width"`
	Height int        `json:"height"`
	Cells  []wireCell `json:"cells"` // row-major, y then x
}

// MarshalBinary encodes the board as the opaque payload sent each turn.
func (b *Board) MarshalBinary() ([]byte, error) {
	w := wireBoard{Width: Width, Height: Height, Cells: make([]wireCell, 0, Width*Height)}
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			sq := b.cells[y][x]
			var c wireCell
			switch {
			case sq.IsLake():
				c.Lake = true
			default:
				if p, ok := sq.Piece(); ok {
					c = wireCell{Kind: p.Kind, Color: p.Color, Rank: p.Rank}
				}
			}
			w.Cells = append(w.Cells, c)
		}
	}
	return sonic.Marshal(&w)
}

// UnmarshalBinary replaces the board's contents with a decoded snapshot.
// The board is untouched when decoding fails.
func (b *Board) UnmarshalBinary(data []byte) error {
	var w wireBoard
	if err := sonic.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if w.Width != Width || w.Height != Height || len(w.Cells) != Width*Height {
		return fmt.Errorf("%w: %dx%d with %d cells", ErrCorrupt, w.Width, w.Height, len(w.Cells))
	}

	var cells [Height][Width]Square
	for i, c := range w.Cells {
		x, y := i%Width, i/Width
		switch {
		case c.Lake:
			cells[y][x] = Lake()
		case c.Kind != "":
			p := piece.Piece{Kind: c.Kind, Color: c.Color, Rank: c.Rank}
			if err := p.Validate(); err != nil {
				return fmt.Errorf("%w: (%d,%d): %v", ErrCorrupt, x, y, err)
			}
			cells[y][x] = Occupied(p)
		}
		if IsFixedLake(x, y) && !cells[y][x].IsLake() {
			return fmt.Errorf("%w: lake missing at (%d,%d)", ErrCorrupt, x, y)
		}
	}
	b.cells = cells
	return nil
}

// Decode builds a new board from an encoded snapshot.
func Decode(data []byte) (*Board, error) {
	b := &Board{}
	if err := b.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return b, nil
}
