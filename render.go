package main

import (
	"github.com/logrusorgru/aurora"

	"github.com/jorbDehmel/OOP-final-project/internal/board"
	"github.com/jorbDehmel/OOP-final-project/internal/piece"
)

// renderBoard draws b for viewer with pieces coloured by side.
func renderBoard(au aurora.Aurora, b *board.Board, viewer piece.Color) string {
	return b.Render(&viewer, func(x, y int, label string) string {
		return paint(au, b.Get(x, y), label)
	})
}

func paint(au aurora.Aurora, sq board.Square, label string) string {
	if sq.IsLake() {
		return au.Cyan(label).String()
	}
	p, ok := sq.Piece()
	if !ok {
		return label
	}
	if p.Color == piece.Red {
		return au.Red(label).Bold().String()
	}
	return au.Blue(label).Bold().String()
}

// colorName paints a colour name in its own colour.
func colorName(au aurora.Aurora, c piece.Color) string {
	if c == piece.Red {
		return au.Red(string(c)).Bold().String()
	}
	return au.Blue(string(c)).Bold().String()
}
