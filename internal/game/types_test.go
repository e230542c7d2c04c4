package game

import (
	"testing"

	"github.com/jorbDehmel/OOP-final-project/internal/piece"
)

func TestIsTerminal(t *testing.T) {
	cases := map[Token]bool{Good: false, Red: true, Blue: true, Halt: true}
	for tok, want := range cases {
		if got := tok.IsTerminal(); got != want {
			t.Fatalf("%s: got %v want %v", tok, got, want)
		}
	}
}

func TestWinner(t *testing.T) {
	if c, ok := TokenFor(piece.Blue).Winner(); !ok || c != piece.Blue {
		t.Fatalf("blue token: got %v %v", c, ok)
	}
	if _, ok := Good.Winner(); ok {
		t.Fatalf("GOOD has no winner")
	}
	if _, ok := Halt.Winner(); ok {
		t.Fatalf("HALT has no winner")
	}
}

func TestParseToken(t *testing.T) {
	for _, s := range []string{"GOOD", "RED", "BLUE", "HALT"} {
		if _, err := ParseToken(s); err != nil {
			t.Fatalf("%s: %v", s, err)
		}
	}
	for _, s := range []string{"", "good", "WIN", "GOOD "} {
		if _, err := ParseToken(s); err == nil {
			t.Fatalf("%q should be rejected", s)
		}
	}
}
