// internal/game/types.go
//
// Game state tokens exchanged once per turn.
// Defines:
//   - Token: GOOD (game continues), RED/BLUE (that colour captured the flag),
//     HALT (abnormal termination: bad password, quit, dropped peer).

package game

import (
	"fmt"

	"github.com/jorbDehmel/OOP-final-project/internal/piece"
)

// Token is the short game-state value sent after every board snapshot.
type Token string

const (
	Good Token = "GOOD"
	Red  Token = Token(piece.Red)
	Blue Token = Token(piece.Blue)
	Halt Token = "HALT"
)

// TokenFor returns the win token for a colour.
func TokenFor(c piece.Color) Token { return Token(c) }

// IsTerminal reports whether the token ends the game.
func (t Token) IsTerminal() bool {
	switch t {
	case Red, Blue, Halt:
		return true
	}
	return false
}

// Winner returns the winning colour carried by a RED/BLUE token.
func (t Token) Winner() (piece.Color, bool) {
	switch t {
	case Red, Blue:
		return piece.Color(t), true
	}
	return "", false
}

// ParseToken validates a token received from the wire.
func ParseToken(s string) (Token, error) {
	switch t := Token(s); t {
	case Good, Red, Blue, Halt:
		return t, nil
	}
	return "", fmt.Errorf("unknown game state %q", s)
}
