package session

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jorbDehmel/OOP-final-project/internal/board"
	"github.com/jorbDehmel/OOP-final-project/internal/game"
	"github.com/jorbDehmel/OOP-final-project/internal/piece"
)

func newTestSession(opts ...Option) *Session {
	base := []Option{WithLogger(zerolog.Nop()), WithHashCost(bcrypt.MinCost), WithHandshakeTimeout(2 * time.Second)}
	return New(append(base, opts...)...)
}

// host starts a hosting session and returns it with its password and port.
func host(t *testing.T, opts ...Option) (*Session, string, int) {
	t.Helper()
	h := newTestSession(opts...)
	pw, err := h.HostGame("127.0.0.1", 0)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	t.Cleanup(h.CloseGame)
	return h, pw, h.Addr().(*net.TCPAddr).Port
}

func waitJoin(h *Session) <-chan error {
	ch := make(chan error, 1)
	go func() { ch <- h.HostWaitForJoin(context.Background()) }()
	return ch
}

// connected returns an authenticated host/joiner pair.
func connected(t *testing.T) (*Session, *Session) {
	t.Helper()
	h, pw, port := host(t)
	done := waitJoin(h)

	j := newTestSession()
	t.Cleanup(j.CloseGame)
	if res := j.JoinGame(context.Background(), "127.0.0.1", port, pw); res != JoinOK {
		t.Fatalf("join: %v", res)
	}
	if err := <-done; err != nil {
		t.Fatalf("wait for join: %v", err)
	}
	return h, j
}

func wrongPassword(pw string) string {
	c := byte('0')
	if pw[0] == '0' {
		c = '1'
	}
	return string(c) + pw[1:]
}

func sampleBoard(t *testing.T) *board.Board {
	t.Helper()
	b := board.New()
	set := piece.StandardSet(piece.Red)
	i := 0
	if err := b.Fill(board.HomeRows(piece.Red), func(x, y int) board.Square {
		p := set[i]
		i++
		return board.Occupied(p)
	}); err != nil {
		t.Fatal(err)
	}
	return b
}

func TestGeneratePassword(t *testing.T) {
	for i := 0; i < 50; i++ {
		pw, err := GeneratePassword()
		if err != nil {
			t.Fatal(err)
		}
		if !validPassword(pw) {
			t.Fatalf("bad password %q", pw)
		}
	}
}

func TestHostJoin(t *testing.T) {
	h, j := connected(t)
	if !h.IsConnected() || !j.IsConnected() {
		t.Fatalf("both sides should be connected")
	}
}

func TestJoin_CaseInsensitivePassword(t *testing.T) {
	h, pw, port := host(t)
	done := waitJoin(h)

	j := newTestSession()
	defer j.CloseGame()
	if res := j.JoinGame(context.Background(), "127.0.0.1", port, strings.ToLower(pw)); res != JoinOK {
		t.Fatalf("join: %v", res)
	}
	if err := <-done; err != nil {
		t.Fatal(err)
	}
}

func TestJoin_WrongPasswordThenRetry(t *testing.T) {
	h, pw, port := host(t)
	done := waitJoin(h)

	bad := newTestSession()
	if res := bad.JoinGame(context.Background(), "127.0.0.1", port, wrongPassword(pw)); res != JoinAuthFailed {
		t.Fatalf("wrong password: got %v", res)
	}
	if bad.IsConnected() {
		t.Fatalf("rejected joiner must not be connected")
	}
	if _, _, err := bad.RecvGame(); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("socket should be gone, got %v", err)
	}
	select {
	case err := <-done:
		t.Fatalf("host stopped waiting after a bad password: %v", err)
	default:
	}

	good := newTestSession()
	defer good.CloseGame()
	if res := good.JoinGame(context.Background(), "127.0.0.1", port, pw); res != JoinOK {
		t.Fatalf("retry: got %v", res)
	}
	if err := <-done; err != nil {
		t.Fatal(err)
	}
}

func TestJoin_MalformedPassword(t *testing.T) {
	h, pw, port := host(t)
	done := waitJoin(h)

	j := newTestSession()
	if res := j.JoinGame(context.Background(), "127.0.0.1", port, "ZZ"); res != JoinAuthFailed {
		t.Fatalf("got %v", res)
	}
	if j.IsConnected() {
		t.Fatal("should not be connected")
	}

	good := newTestSession()
	defer good.CloseGame()
	if res := good.JoinGame(context.Background(), "127.0.0.1", port, pw); res != JoinOK {
		t.Fatalf("host stopped accepting after a malformed password: %v", res)
	}
	if err := <-done; err != nil {
		t.Fatal(err)
	}
}

func closedPort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()
	return port
}

func TestJoin_UnreachableHostWinsOverBadPassword(t *testing.T) {
	j := newTestSession()
	if res := j.JoinGame(context.Background(), "127.0.0.1", closedPort(t), "ZZ"); res != JoinConnectFailed {
		t.Fatalf("got %v", res)
	}
}

func TestJoin_ConnectFailed(t *testing.T) {
	j := newTestSession()
	if res := j.JoinGame(context.Background(), "127.0.0.1", closedPort(t), "ABCD"); res != JoinConnectFailed {
		t.Fatalf("got %v", res)
	}
	if j.IsConnected() {
		t.Fatal("should not be connected")
	}
}

func TestHost_StalledPeerDoesNotBlock(t *testing.T) {
	h, pw, port := host(t, WithHandshakeTimeout(200*time.Millisecond))
	done := waitJoin(h)

	stalled, err := net.Dial("tcp", h.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	defer stalled.Close()

	j := newTestSession()
	defer j.CloseGame()
	if res := j.JoinGame(context.Background(), "127.0.0.1", port, pw); res != JoinOK {
		t.Fatalf("join after stalled peer: %v", res)
	}
	if err := <-done; err != nil {
		t.Fatal(err)
	}
}

func TestHostWaitForJoin_Cancel(t *testing.T) {
	h, _, _ := host(t)
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan error, 1)
	go func() { ch <- h.HostWaitForJoin(ctx) }()
	cancel()
	if err := <-ch; !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v", err)
	}
}

func TestHostWaitForJoin_NotHosting(t *testing.T) {
	if err := newTestSession().HostWaitForJoin(context.Background()); !errors.Is(err, ErrNotHosting) {
		t.Fatalf("got %v", err)
	}
}

func TestSendRecv(t *testing.T) {
	h, j := connected(t)
	b := sampleBoard(t)

	if err := h.SendGame(b, game.Good); err != nil {
		t.Fatal(err)
	}
	got, tok, err := j.RecvGame()
	if err != nil {
		t.Fatal(err)
	}
	if tok != game.Good || !got.Equal(b) {
		t.Fatalf("tok=%s equal=%v", tok, got.Equal(b))
	}

	if err := j.SendGame(got, game.Blue); err != nil {
		t.Fatal(err)
	}
	_, tok, err = h.RecvGame()
	if err != nil || tok != game.Blue {
		t.Fatalf("tok=%s err=%v", tok, err)
	}
}

func TestSyncGame(t *testing.T) {
	h, j := connected(t)
	b := sampleBoard(t)

	errc := make(chan error, 1)
	go func() {
		got, tok, err := j.RecvGame()
		if err == nil {
			if tok != game.Good {
				err = errors.New("unexpected token " + string(tok))
			} else {
				err = j.SendGame(got, game.Red)
			}
		}
		errc <- err
	}()

	got, tok, err := h.SyncGame(b, game.Good)
	if err != nil {
		t.Fatal(err)
	}
	if e := <-errc; e != nil {
		t.Fatal(e)
	}
	if tok != game.Red || !got.Equal(b) {
		t.Fatalf("tok=%s", tok)
	}
}

func TestCloseGame_PeerSeesHalt(t *testing.T) {
	h, j := connected(t)
	h.CloseGame()
	if h.IsConnected() {
		t.Fatal("closed session still connected")
	}

	got, tok, err := j.RecvGame()
	if err != nil {
		t.Fatal(err)
	}
	if tok != game.Halt || got != nil {
		t.Fatalf("tok=%s board=%v", tok, got)
	}
	h.CloseGame()
}

func TestRecvGameContext_Timeout(t *testing.T) {
	_, j := connected(t)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if _, _, err := j.RecvGameContext(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("got %v", err)
	}
	if !j.IsConnected() {
		t.Fatal("an idle timeout should keep the connection")
	}
}

// rawFrame encodes one turn exactly as SendGame would.
func rawFrame(t *testing.T, payload []byte, tok game.Token) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := writePayload(&buf, payload); err != nil {
		t.Fatal(err)
	}
	if err := writeToken(&buf, tok); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestRecvGameContext_PartialFrameDropsConnection(t *testing.T) {
	h, j := connected(t)
	payload, err := sampleBoard(t).MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	frame := rawFrame(t, payload, game.Good)

	conn, err := h.current()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := conn.Write(frame[:10]); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	if _, _, err := j.RecvGameContext(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("got %v", err)
	}
	if j.IsConnected() {
		t.Fatal("connection kept after a partial frame")
	}
	if _, _, err := j.RecvGame(); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("next receive: %v", err)
	}
}

func TestRecvGame_CorruptBoardDropsConnection(t *testing.T) {
	h, j := connected(t)
	conn, err := h.current()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := conn.Write(rawFrame(t, []byte("nope"), game.Good)); err != nil {
		t.Fatal(err)
	}

	if _, _, err := j.RecvGame(); !errors.Is(err, ErrProtocol) {
		t.Fatalf("got %v", err)
	}
	if j.IsConnected() {
		t.Fatal("connection kept after a corrupt board")
	}
	if _, _, err := j.RecvGame(); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("next receive: %v", err)
	}
}

func TestCloseGame_AbortsBlockedRecv(t *testing.T) {
	_, j := connected(t)
	errc := make(chan error, 1)
	go func() {
		_, _, err := j.RecvGame()
		errc <- err
	}()
	time.Sleep(50 * time.Millisecond)
	j.CloseGame()
	select {
	case err := <-errc:
		if err == nil {
			t.Fatal("expected an error from the aborted receive")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("receive still blocked after close")
	}
}

func TestSend_NotConnected(t *testing.T) {
	if err := newTestSession().SendGame(board.New(), game.Good); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("got %v", err)
	}
}

func TestFraming_Bytes(t *testing.T) {
	var buf bytes.Buffer
	if err := writePayload(&buf, []byte("hello")); err != nil {
		t.Fatal(err)
	}
	if err := writeToken(&buf, game.Blue); err != nil {
		t.Fatal(err)
	}
	want := "5" + strings.Repeat(" ", 15) + "hello" + "BLUE    "
	if buf.String() != want {
		t.Fatalf("wire = %q, want %q", buf.String(), want)
	}

	payload, err := readPayload(&buf, DefaultMaxPayload)
	if err != nil || string(payload) != "hello" {
		t.Fatalf("payload %q err %v", payload, err)
	}
	tok, err := readToken(&buf)
	if err != nil || tok != game.Blue {
		t.Fatalf("tok %q err %v", tok, err)
	}
}

func TestFraming_Errors(t *testing.T) {
	cases := map[string]struct {
		wire string
		want error
	}{
		"short header":  {"12  ", io.ErrUnexpectedEOF},
		"short payload": {"10" + strings.Repeat(" ", 14) + "abc", io.ErrUnexpectedEOF},
		"bad header":    {"xx" + strings.Repeat(" ", 14), ErrProtocol},
		"too big":       {"99999999" + strings.Repeat(" ", 8), ErrProtocol},
	}
	for name, c := range cases {
		_, err := readPayload(strings.NewReader(c.wire), 1024)
		if !errors.Is(err, c.want) {
			t.Fatalf("%s: got %v want %v", name, err, c.want)
		}
	}

	if _, err := readToken(strings.NewReader("WIN     ")); !errors.Is(err, ErrProtocol) {
		t.Fatalf("unknown token: %v", err)
	}
	if _, err := readPayload(strings.NewReader("HALT    "), 1024); !errors.Is(err, errPeerHalted) {
		t.Fatalf("bare halt: %v", err)
	}
	if _, err := padRight(strings.Repeat("9", 17), SizeHeaderWidth); !errors.Is(err, ErrProtocol) {
		t.Fatalf("oversized header: %v", err)
	}
}

func TestIsTerminalState(t *testing.T) {
	if IsTerminalState(game.Good) || !IsTerminalState(game.Halt) || !IsTerminalState(game.Red) {
		t.Fatal("classification broken")
	}
}
