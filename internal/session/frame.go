// internal/session/frame.go
//
// Fixed-width framing for the turn exchange.
// Per turn the sender writes:
//   1. a 16-byte size header: ASCII decimal length, right-padded with spaces;
//   2. the board payload, exactly that many bytes;
//   3. an 8-byte state token, right-padded with spaces.
//
// A peer that is quitting may send a bare HALT token in place of the whole
// turn; readers recognise it in the first 8 bytes of the size header.

package session

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jorbDehmel/OOP-final-project/internal/game"
)

const (
	SizeHeaderWidth = 16
	StateWidth      = 8

	// DefaultMaxPayload bounds the declared payload size a reader will accept.
	DefaultMaxPayload = 1 << 20
)

// ErrProtocol is returned when the peer sends bytes that violate the framing.
var ErrProtocol = errors.New("protocol violation")

// errPeerHalted is returned by readSizeHeader when the peer sent a bare HALT.
var errPeerHalted = errors.New("peer halted")

func padRight(s string, width int) ([]byte, error) {
	if len(s) > width {
		return nil, fmt.Errorf("%w: %q exceeds %d bytes", ErrProtocol, s, width)
	}
	return []byte(s + strings.Repeat(" ", width-len(s))), nil
}

func writeToken(w io.Writer, tok game.Token) error {
	b, err := padRight(string(tok), StateWidth)
	if err != nil {
		return err
	}
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}

func readToken(r io.Reader) (game.Token, error) {
	buf := make([]byte, StateWidth)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("read state: %w", err)
	}
	tok, err := game.ParseToken(strings.TrimRight(string(buf), " "))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProtocol, err)
	}
	return tok, nil
}

func writePayload(w io.Writer, payload []byte) error {
	header, err := padRight(strconv.Itoa(len(payload)), SizeHeaderWidth)
	if err != nil {
		return err
	}
	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("write size header: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("write board: %w", err)
	}
	return nil
}

// readSizeHeader returns the declared payload length, or errPeerHalted.
func readSizeHeader(r io.Reader, limit int) (int, error) {
	buf := make([]byte, SizeHeaderWidth)
	if _, err := io.ReadFull(r, buf[:StateWidth]); err != nil {
		return 0, fmt.Errorf("read size header: %w", err)
	}
	if strings.TrimRight(string(buf[:StateWidth]), " ") == string(game.Halt) {
		return 0, errPeerHalted
	}
	if _, err := io.ReadFull(r, buf[StateWidth:]); err != nil {
		return 0, fmt.Errorf("read size header: %w", err)
	}
	n, err := strconv.Atoi(strings.TrimRight(string(buf), " "))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: size header %q", ErrProtocol, buf)
	}
	if n > limit {
		return 0, fmt.Errorf("%w: payload of %d bytes exceeds %d", ErrProtocol, n, limit)
	}
	return n, nil
}

func readPayload(r io.Reader, limit int) ([]byte, error) {
	n, err := readSizeHeader(r, limit)
	if err != nil {
		return nil, err
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("read board: %w", err)
	}
	return payload, nil
}
