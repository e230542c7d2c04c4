// internal/match/types.go
//
// Shared types for a match in progress.
// Defines:
//   - Phase: where the match is (setup, my_turn, their_turn, won, lost, halted).
//   - Outcome: what a single step produced (Continue, Win, Lose, Halt).
//   - Status: the JSON snapshot handed to observers.
//   - Conn: the turn transport a match drives (implemented by session.Session).

package match

import (
	"context"
	"errors"
	"time"

	"github.com/jorbDehmel/OOP-final-project/internal/board"
	"github.com/jorbDehmel/OOP-final-project/internal/game"
	"github.com/jorbDehmel/OOP-final-project/internal/piece"
)

var (
	ErrNotYourTurn = errors.New("not your turn")
	ErrFinished    = errors.New("match is over")
	ErrBadSetup    = errors.New("peer sent an invalid setup")
	ErrUnexpected  = errors.New("unexpected state from peer")
)

// Phase is the coarse state of a match.
type Phase string

const (
	PhaseSetup     Phase = "setup"
	PhaseMyTurn    Phase = "my_turn"
	PhaseTheirTurn Phase = "their_turn"
	PhaseWon       Phase = "won"
	PhaseLost      Phase = "lost"
	PhaseHalted    Phase = "halted"
)

// Over reports whether no more turns will be played.
func (p Phase) Over() bool { return p == PhaseWon || p == PhaseLost || p == PhaseHalted }

// Outcome is the result of one setup, move or wait.
type Outcome int

const (
	Continue Outcome = iota
	Win
	Lose
	Halt
)

func (o Outcome) String() string {
	switch o {
	case Continue:
		return "continue"
	case Win:
		return "win"
	case Lose:
		return "lose"
	case Halt:
		return "halt"
	}
	return "unknown"
}

// Conn carries one board snapshot and state token per turn.
type Conn interface {
	SendGame(b *board.Board, tok game.Token) error
	RecvGameContext(ctx context.Context) (*board.Board, game.Token, error)
	CloseGame()
}

// Status is a point-in-time view of a match. Opponent pieces are hidden.
type Status struct {
	ID        string      `json:"id"`
	Color     piece.Color `json:"color"`
	Phase     Phase       `json:"phase"`
	Turn      int         `json:"turn"`
	Board     [][]string  `json:"board"`
	StartedAt time.Time   `json:"startedAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}
