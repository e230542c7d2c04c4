package board

import (
	"strconv"
	"strings"

	"github.com/jorbDehmel/OOP-final-project/internal/piece"
)

// String draws the whole board, every piece visible.
func (b *Board) String() string { return b.Render(nil, nil) }

// RenderFor draws the board as seen by viewer: opposing pieces show as "?".
func (b *Board) RenderFor(viewer piece.Color) string { return b.Render(&viewer, nil) }

// Cell returns the two-character label used by the renderers. With a non-nil
// viewer, pieces of the other colour are hidden as "?".
func (b *Board) Cell(x, y int, viewer *piece.Color) string {
	sq := b.Get(x, y)
	if sq.IsLake() {
		return "~~"
	}
	p, ok := sq.Piece()
	if !ok {
		return " ."
	}
	if viewer != nil && p.Color != *viewer {
		return " ?"
	}
	sym := p.Symbol()
	if len(sym) == 1 {
		sym = " " + sym
	}
	return sym
}

// Render draws the grid with column and row labels. Each cell label comes from
// Cell(x, y, viewer) and, when paint is non-nil, is passed through paint so
// callers can decorate it without changing the layout.
func (b *Board) Render(viewer *piece.Color, paint func(x, y int, label string) string) string {
	var sb strings.Builder
	sb.WriteString("   ")
	for x := 0; x < Width; x++ {
		sb.WriteString(" ")
		sb.WriteString(strconv.Itoa(x))
		sb.WriteString(" ")
	}
	sb.WriteString("\n")
	border := "  +" + strings.Repeat("-", Width*3) + "+\n"
	sb.WriteString(border)
	for y := 0; y < Height; y++ {
		sb.WriteString(strconv.Itoa(y))
		sb.WriteString(" |")
		for x := 0; x < Width; x++ {
			label := b.Cell(x, y, viewer)
			if paint != nil {
				label = paint(x, y, label)
			}
			sb.WriteString(label)
			sb.WriteString(" ")
		}
		sb.WriteString("|\n")
	}
	sb.WriteString(border)
	return sb.String()
}
