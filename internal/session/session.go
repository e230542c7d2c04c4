// internal/session/session.go
//
// One network connection between the two players.
// Responsibilities:
//   - Host: listen, generate the join password, accept and authenticate a peer.
//   - Join: dial the host and present the password.
//   - Exchange one board snapshot plus a state token per turn.
//   - Close: best-effort HALT to the peer, then drop the socket.
//
// Notes:
//   - All I/O is blocking. RecvGameContext bounds a wait with a context, and
//     CloseGame from another goroutine aborts any blocked call.
//   - The host only keeps a bcrypt hash of the password it generated.
//   - Writers and readers are serialised separately so a blocked receive does
//     not stop CloseGame from running.

package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/jorbDehmel/OOP-final-project/internal/board"
	"github.com/jorbDehmel/OOP-final-project/internal/game"
)

var (
	ErrNotConnected = errors.New("session not connected")
	ErrNotHosting   = errors.New("session is not hosting")
	ErrConnect      = errors.New("connection failed")
)

// JoinResult is the outcome of JoinGame.
type JoinResult int

const (
	JoinOK            JoinResult = 0
	JoinConnectFailed JoinResult = 1
	JoinAuthFailed    JoinResult = 2
)

func (r JoinResult) String() string {
	switch r {
	case JoinOK:
		return "ok"
	case JoinConnectFailed:
		return "connection failed"
	case JoinAuthFailed:
		return "wrong password"
	}
	return "join result " + strconv.Itoa(int(r))
}

const (
	defaultHandshakeTimeout = 10 * time.Second
	acceptBackoff           = 50 * time.Millisecond
	closeWriteTimeout       = time.Second
)

// Option configures a Session.
type Option func(*Session)

// WithLogger replaces the global zerolog logger.
func WithLogger(l zerolog.Logger) Option { return func(s *Session) { s.log = l } }

// WithHandshakeTimeout bounds the password exchange on both sides.
func WithHandshakeTimeout(d time.Duration) Option {
	return func(s *Session) { s.handshakeTimeout = d }
}

// WithHashCost sets the bcrypt cost used for the host password.
func WithHashCost(cost int) Option { return func(s *Session) { s.hashCost = cost } }

// WithMaxPayload bounds the size of a received board snapshot.
func WithMaxPayload(n int) Option { return func(s *Session) { s.maxPayload = n } }

// Session holds the connection state for one game.
type Session struct {
	id               string
	log              zerolog.Logger
	handshakeTimeout time.Duration
	hashCost         int
	maxPayload       int

	mu        sync.Mutex // guards the fields below
	ln        net.Listener
	conn      net.Conn
	hash      []byte
	connected bool

	wmu sync.Mutex // one writer at a time
	rmu sync.Mutex // one reader at a time
}

// New returns an idle session.
func New(opts ...Option) *Session {
	s := &Session{
		id:               uuid.NewString(),
		handshakeTimeout: defaultHandshakeTimeout,
		hashCost:         bcrypt.DefaultCost,
		maxPayload:       DefaultMaxPayload,
	}
	s.log = log.Logger
	for _, o := range opts {
		o(s)
	}
	s.log = s.log.With().Str("session", s.id).Logger()
	return s
}

// ID identifies the session in logs.
func (s *Session) ID() string { return s.id }

// IsConnected reports whether a peer has authenticated.
func (s *Session) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// IsTerminalState reports whether tok ends the game.
func IsTerminalState(tok game.Token) bool { return tok.IsTerminal() }

// HostGame starts listening on address:port and returns the join password.
// It does not block; call HostWaitForJoin next. Port 0 picks a free port.
func (s *Session) HostGame(address string, port int) (string, error) {
	pw, err := GeneratePassword()
	if err != nil {
		return "", err
	}
	hash, err := hashPassword(pw, s.hashCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	ln, err := net.Listen("tcp", net.JoinHostPort(address, strconv.Itoa(port)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrConnect, err)
	}

	s.mu.Lock()
	if s.ln != nil {
		_ = s.ln.Close()
	}
	s.ln, s.hash = ln, hash
	s.mu.Unlock()

	s.log.Info().Str("addr", ln.Addr().String()).Msg("hosting game")
	return pw, nil
}

// Addr is the listening address while hosting, nil otherwise.
func (s *Session) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// HostWaitForJoin blocks until a peer presents the right password.
// Wrong passwords get HALT and the host keeps listening; transient accept
// errors are logged and retried. Cancelling ctx closes the listener.
func (s *Session) HostWaitForJoin(ctx context.Context) error {
	s.mu.Lock()
	ln, hash := s.ln, s.hash
	s.mu.Unlock()
	if ln == nil {
		return ErrNotHosting
	}

	stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stop()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, net.ErrClosed) {
				return fmt.Errorf("%w: listener closed", ErrConnect)
			}
			s.log.Warn().Err(err).Msg("accept failed, retrying")
			time.Sleep(acceptBackoff)
			continue
		}

		remote := conn.RemoteAddr().String()
		ok, err := s.authenticate(conn, hash)
		if err != nil {
			s.log.Warn().Err(err).Str("remote", remote).Msg("handshake failed")
			_ = conn.Close()
			continue
		}
		if !ok {
			s.log.Warn().Str("remote", remote).Msg("failed password attempt")
			_ = conn.Close()
			continue
		}

		s.mu.Lock()
		s.conn, s.connected = conn, true
		s.mu.Unlock()
		s.log.Info().Str("remote", remote).Msg("player joined")
		return nil
	}
}

func (s *Session) authenticate(conn net.Conn, hash []byte) (bool, error) {
	if err := conn.SetDeadline(time.Now().Add(s.handshakeTimeout)); err != nil {
		return false, err
	}
	buf := make([]byte, PasswordLen)
	if _, err := io.ReadFull(conn, buf); err != nil {
		return false, fmt.Errorf("read password: %w", err)
	}

	ok := checkPassword(hash, string(buf))
	reply := game.Good
	if !ok {
		reply = game.Halt
	}
	if err := writeToken(conn, reply); err != nil {
		return false, err
	}
	if err := conn.SetDeadline(time.Time{}); err != nil {
		return false, err
	}
	return ok, nil
}

// JoinGame connects to a host and authenticates with password.
// The host is dialled before the password is checked, so an unreachable host
// always reports JoinConnectFailed. A malformed or wrong password closes the
// socket and returns JoinAuthFailed.
func (s *Session) JoinGame(ctx context.Context, address string, port int, password string) JoinResult {
	s.mu.Lock()
	s.connected = false
	s.mu.Unlock()

	addr := net.JoinHostPort(address, strconv.Itoa(port))
	var d net.Dialer
	dctx, cancel := context.WithTimeout(ctx, s.handshakeTimeout)
	defer cancel()
	conn, err := d.DialContext(dctx, "tcp", addr)
	if err != nil {
		s.log.Warn().Err(err).Str("addr", addr).Msg("connect failed")
		return JoinConnectFailed
	}

	pw := NormalizePassword(password)
	if !validPassword(pw) {
		s.log.Warn().Str("addr", addr).Msg("password has the wrong shape")
		_ = conn.Close()
		return JoinAuthFailed
	}

	_ = conn.SetDeadline(time.Now().Add(s.handshakeTimeout))
	if _, err := conn.Write([]byte(pw)); err != nil {
		s.log.Warn().Err(err).Str("addr", addr).Msg("send password failed")
		_ = conn.Close()
		return JoinConnectFailed
	}
	tok, err := readToken(conn)
	if err != nil {
		s.log.Warn().Err(err).Str("addr", addr).Msg("no reply to password")
		_ = conn.Close()
		return JoinConnectFailed
	}
	if tok != game.Good {
		s.log.Warn().Str("addr", addr).Str("reply", string(tok)).Msg("password rejected")
		_ = conn.Close()
		return JoinAuthFailed
	}
	_ = conn.SetDeadline(time.Time{})

	s.mu.Lock()
	s.conn, s.connected = conn, true
	s.mu.Unlock()
	s.log.Info().Str("addr", addr).Msg("joined game")
	return JoinOK
}

func (s *Session) current() (net.Conn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected || s.conn == nil {
		return nil, ErrNotConnected
	}
	return s.conn, nil
}

// SendGame writes one turn: the board snapshot followed by tok.
func (s *Session) SendGame(b *board.Board, tok game.Token) error {
	conn, err := s.current()
	if err != nil {
		return err
	}
	payload, err := b.MarshalBinary()
	if err != nil {
		return fmt.Errorf("encode board: %w", err)
	}

	s.wmu.Lock()
	defer s.wmu.Unlock()
	if err := writePayload(conn, payload); err != nil {
		return err
	}
	return writeToken(conn, tok)
}

// RecvGame blocks until the peer's next turn arrives.
func (s *Session) RecvGame() (*board.Board, game.Token, error) {
	return s.RecvGameContext(context.Background())
}

// RecvGameContext is RecvGame bounded by ctx. If the peer sent a bare HALT
// the returned board is nil and the token is game.Halt.
//
// A failure after part of a turn was read leaves the stream out of step, so
// the connection is dropped and later calls return ErrNotConnected. A wait
// cancelled before any byte arrived keeps the connection usable.
func (s *Session) RecvGameContext(ctx context.Context) (*board.Board, game.Token, error) {
	conn, err := s.current()
	if err != nil {
		return nil, "", err
	}

	s.rmu.Lock()
	defer s.rmu.Unlock()

	stop := context.AfterFunc(ctx, func() { _ = conn.SetReadDeadline(time.Now()) })
	defer func() {
		stop()
		_ = conn.SetReadDeadline(time.Time{})
	}()

	r := &countingReader{r: conn}
	fail := func(err error) (*board.Board, game.Token, error) {
		if r.n > 0 || ctx.Err() == nil {
			s.drop(conn, err)
		}
		if ctx.Err() != nil {
			err = fmt.Errorf("%w: %v", ctx.Err(), err)
		}
		return nil, "", err
	}

	payload, err := readPayload(r, s.maxPayload)
	if errors.Is(err, errPeerHalted) {
		s.log.Info().Msg("peer halted")
		return nil, game.Halt, nil
	}
	if err != nil {
		return fail(err)
	}
	b, err := board.Decode(payload)
	if err != nil {
		return fail(fmt.Errorf("%w: %v", ErrProtocol, err))
	}
	tok, err := readToken(r)
	if err != nil {
		return fail(err)
	}
	return b, tok, nil
}

// drop forgets conn after a broken receive without sending anything more.
func (s *Session) drop(conn net.Conn, reason error) {
	s.mu.Lock()
	if s.conn == conn {
		s.conn, s.connected = nil, false
	}
	s.mu.Unlock()
	_ = conn.Close()
	s.log.Warn().Err(reason).Msg("connection dropped")
}

// countingReader tracks how many bytes a receive consumed.
type countingReader struct {
	r io.Reader
	n int
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += n
	return n, err
}

// SyncGame sends this side's turn and waits for the peer's reply.
func (s *Session) SyncGame(b *board.Board, tok game.Token) (*board.Board, game.Token, error) {
	if err := s.SendGame(b, tok); err != nil {
		return nil, "", err
	}
	return s.RecvGame()
}

// CloseGame tells the peer the game is over and closes every socket.
// Errors are swallowed; calling it twice is harmless.
func (s *Session) CloseGame() {
	s.mu.Lock()
	conn, ln := s.conn, s.ln
	s.conn, s.ln, s.connected = nil, nil, false
	s.mu.Unlock()

	if conn != nil {
		if s.wmu.TryLock() {
			_ = conn.SetWriteDeadline(time.Now().Add(closeWriteTimeout))
			_ = writeToken(conn, game.Halt)
			s.wmu.Unlock()
		}
		_ = conn.Close()
	}
	if ln != nil {
		_ = ln.Close()
	}
	if conn != nil || ln != nil {
		s.log.Info().Msg("session closed")
	}
}
