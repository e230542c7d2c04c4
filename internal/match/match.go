// internal/match/match.go
//
// Drives one game between the local player and a connected peer.
// Responsibilities:
//   - Setup exchange: RED sends its home rows with GOOD; BLUE overlays its
//     own home rows and sends the combined board back; RED adopts it.
//   - Local moves: validate on the local board, then send board + token.
//   - Remote moves: wait for the peer's board + token and adopt them.
//   - Map tokens to outcomes and phases.
//
// Notes:
//   - The host plays RED, the joiner BLUE. RED moves first.
//   - An invalid local move returns board.ErrInvalidMove and changes nothing,
//     so the caller can re-prompt.
//   - Any transport error, bad payload or HALT moves the match to halted and
//     closes the connection.

package match

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jorbDehmel/OOP-final-project/internal/board"
	"github.com/jorbDehmel/OOP-final-project/internal/game"
	"github.com/jorbDehmel/OOP-final-project/internal/layout"
	"github.com/jorbDehmel/OOP-final-project/internal/piece"
)

// FirstMover is the colour that makes the first move.
const FirstMover = piece.Red

// Option configures a Match.
type Option func(*Match)

// WithLogger replaces the global zerolog logger.
func WithLogger(l zerolog.Logger) Option { return func(m *Match) { m.log = l } }

// WithObserver registers fn to receive a Status after every phase or turn change.
func WithObserver(fn func(Status)) Option { return func(m *Match) { m.observe = fn } }

type Match struct {
	id      string
	color   piece.Color
	conn    Conn
	log     zerolog.Logger
	observe func(Status)
	now     func() time.Time

	mu      sync.Mutex
	board   *board.Board
	phase   Phase
	turn    int
	started time.Time
	updated time.Time
}

// New prepares a match for the local colour over conn.
func New(conn Conn, color piece.Color, opts ...Option) *Match {
	m := &Match{
		id:    uuid.NewString(),
		color: color,
		conn:  conn,
		log:   log.Logger,
		now:   time.Now,
		board: board.New(),
		phase: PhaseSetup,
	}
	for _, o := range opts {
		o(m)
	}
	m.log = m.log.With().Str("match", m.id).Str("color", string(color)).Logger()
	m.started = m.now()
	m.updated = m.started
	return m
}

func (m *Match) ID() string         { return m.id }
func (m *Match) Color() piece.Color { return m.color }

func (m *Match) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// Board returns a copy of the current board.
func (m *Match) Board() *board.Board {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.board.Clone()
}

// Status snapshots the match with opponent pieces hidden.
func (m *Match) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.statusLocked()
}

func (m *Match) statusLocked() Status {
	cells := make([][]string, board.Height)
	for y := range cells {
		cells[y] = make([]string, board.Width)
		for x := range cells[y] {
			cells[y][x] = strings.TrimSpace(m.board.Cell(x, y, &m.color))
		}
	}
	return Status{
		ID:        m.id,
		Color:     m.color,
		Phase:     m.phase,
		Turn:      m.turn,
		Board:     cells,
		StartedAt: m.started,
		UpdatedAt: m.updated,
	}
}

// setPhase records a transition and notifies the observer. Caller holds mu.
func (m *Match) setPhase(p Phase) {
	m.phase = p
	m.updated = m.now()
	if m.observe != nil {
		m.observe(m.statusLocked())
	}
}

// halt closes the connection and ends the match. Caller holds mu.
func (m *Match) halt(reason error) {
	if reason != nil {
		m.log.Warn().Err(reason).Int("turn", m.turn).Msg("match halted")
	} else {
		m.log.Info().Int("turn", m.turn).Msg("match halted")
	}
	m.conn.CloseGame()
	m.setPhase(PhaseHalted)
}

// Setup places l in the local home rows and runs the setup exchange.
// It returns Continue once both sides are placed, or Halt.
func (m *Match) Setup(ctx context.Context, l layout.Layout) (Outcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase != PhaseSetup {
		return Continue, fmt.Errorf("%w: setup already done", ErrUnexpected)
	}
	if err := l.Validate(); err != nil {
		return Continue, err
	}

	b := board.New()
	if err := l.Apply(b, m.color); err != nil {
		return Continue, err
	}

	if m.color == FirstMover {
		return m.setupFirst(ctx, b)
	}
	return m.setupSecond(ctx, b, l)
}

func (m *Match) setupFirst(ctx context.Context, mine *board.Board) (Outcome, error) {
	if err := m.conn.SendGame(mine, game.Good); err != nil {
		m.halt(err)
		return Halt, err
	}
	got, tok, err := m.conn.RecvGameContext(ctx)
	if out, err := m.checkRecv(got, tok, err); out != Continue || err != nil {
		return out, err
	}
	if err := checkSetup(got, mine, m.color); err != nil {
		m.halt(err)
		return Halt, err
	}

	m.board = got
	m.log.Info().Msg("setup complete")
	m.setPhase(PhaseMyTurn)
	return Continue, nil
}

func (m *Match) setupSecond(ctx context.Context, mine *board.Board, l layout.Layout) (Outcome, error) {
	got, tok, err := m.conn.RecvGameContext(ctx)
	if out, err := m.checkRecv(got, tok, err); out != Continue || err != nil {
		return out, err
	}
	theirs := m.color.Opponent()
	if err := checkHomeRows(got, theirs); err != nil {
		m.halt(err)
		return Halt, err
	}
	if len(got.Pieces(m.color)) != 0 {
		err := fmt.Errorf("%w: %s pieces already placed", ErrBadSetup, m.color)
		m.halt(err)
		return Halt, err
	}
	if err := l.Apply(got, m.color); err != nil {
		m.halt(err)
		return Halt, err
	}
	if err := m.conn.SendGame(got, game.Good); err != nil {
		m.halt(err)
		return Halt, err
	}

	m.board = got
	m.log.Info().Msg("setup complete")
	m.setPhase(PhaseTheirTurn)
	return Continue, nil
}

// checkRecv classifies a receive. Non-Continue outcomes have already halted
// the match. Caller holds mu.
func (m *Match) checkRecv(b *board.Board, tok game.Token, err error) (Outcome, error) {
	if err != nil {
		m.halt(err)
		return Halt, err
	}
	if tok == game.Halt {
		m.halt(nil)
		return Halt, nil
	}
	if b == nil {
		err := fmt.Errorf("%w: missing board", ErrUnexpected)
		m.halt(err)
		return Halt, err
	}
	return Continue, nil
}

// checkHomeRows verifies color fielded a full standard roster in its home rows.
func checkHomeRows(b *board.Board, color piece.Color) error {
	l, err := layout.FromBoard(b, color)
	if err == nil {
		err = l.Validate()
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrBadSetup, color, err)
	}
	if n := len(b.Pieces(color)); n != piece.SetSize {
		return fmt.Errorf("%w: %s has %d pieces", ErrBadSetup, color, n)
	}
	return nil
}

// checkSetup verifies the combined board kept our rows and added theirs.
func checkSetup(got, mine *board.Board, color piece.Color) error {
	home := board.HomeRows(color)
	for y := home.Y; y < home.Y+home.H; y++ {
		for x := home.X; x < home.X+home.W; x++ {
			if got.Get(x, y) != mine.Get(x, y) {
				return fmt.Errorf("%w: %s rows changed at (%d,%d)", ErrBadSetup, color, x, y)
			}
		}
	}
	return checkHomeRows(got, color.Opponent())
}

// PlayTurn applies the local player's move and sends it to the peer.
func (m *Match) PlayTurn(from, to board.Point) (Outcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case m.phase.Over():
		return Continue, ErrFinished
	case m.phase != PhaseMyTurn:
		return Continue, ErrNotYourTurn
	}

	next := m.board.Clone()
	tok, err := next.Move(m.color, from, to)
	if err != nil {
		return Continue, err
	}
	if err := m.conn.SendGame(next, tok); err != nil {
		m.halt(err)
		return Halt, err
	}

	m.board = next
	m.turn++
	m.log.Debug().Int("turn", m.turn).Stringer("from", from).Stringer("to", to).Str("state", string(tok)).Msg("move sent")
	if tok == game.TokenFor(m.color) {
		m.log.Info().Int("turn", m.turn).Msg("flag captured")
		m.setPhase(PhaseWon)
		return Win, nil
	}
	m.setPhase(PhaseTheirTurn)
	return Continue, nil
}

// AwaitTurn blocks until the opponent's move arrives.
func (m *Match) AwaitTurn(ctx context.Context) (Outcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case m.phase.Over():
		return Continue, ErrFinished
	case m.phase != PhaseTheirTurn:
		return Continue, ErrNotYourTurn
	}

	got, tok, err := m.conn.RecvGameContext(ctx)
	if out, err := m.checkRecv(got, tok, err); out != Continue || err != nil {
		return out, err
	}

	switch tok {
	case game.Good:
		m.board = got
		m.turn++
		m.setPhase(PhaseMyTurn)
		return Continue, nil
	case game.TokenFor(m.color.Opponent()):
		m.board = got
		m.turn++
		m.log.Info().Int("turn", m.turn).Msg("flag lost")
		m.setPhase(PhaseLost)
		return Lose, nil
	}
	err = fmt.Errorf("%w: %s on the opponent's turn", ErrUnexpected, tok)
	m.halt(err)
	return Halt, err
}

// HasLegalMove reports whether the local colour can move any piece.
func (m *Match) HasLegalMove() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	dirs := []board.Point{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}}
	for y := 0; y < board.Height; y++ {
		for x := 0; x < board.Width; x++ {
			p, ok := m.board.Get(x, y).Piece()
			if !ok || p.Color != m.color || !p.Movable() {
				continue
			}
			for _, d := range dirs {
				if _, err := m.board.Clone().Move(m.color, board.Point{X: x, Y: y}, board.Point{X: x + d.X, Y: y + d.Y}); err == nil {
					return true
				}
			}
		}
	}
	return false
}

// Close ends the match. A match still in play becomes halted and the peer
// receives HALT. It may be called while Setup or AwaitTurn is blocked.
func (m *Match) Close() {
	m.conn.CloseGame()
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.phase.Over() {
		m.halt(nil)
	}
}
