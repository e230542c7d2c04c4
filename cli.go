package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/logrusorgru/aurora"
	"github.com/rs/zerolog/log"

	"github.com/jorbDehmel/OOP-final-project/internal/board"
	"github.com/jorbDehmel/OOP-final-project/internal/layout"
	"github.com/jorbDehmel/OOP-final-project/internal/match"
	"github.com/jorbDehmel/OOP-final-project/internal/piece"
	"github.com/jorbDehmel/OOP-final-project/internal/presets"
	"github.com/jorbDehmel/OOP-final-project/internal/session"
	"github.com/jorbDehmel/OOP-final-project/internal/store"
)

// maxPortAttempts bounds how many consecutive ports host tries.
const maxPortAttempts = 10

var errQuit = errors.New("player quit")

type cli struct {
	cfg     Config
	presets *presets.Store
	matches store.Store
	out     io.Writer
	au      aurora.Aurora

	in       io.Reader
	lines    chan string
	readOnce sync.Once
}

func newCLI(cfg Config, ps *presets.Store, matches store.Store, in io.Reader, out io.Writer) *cli {
	return &cli{
		cfg:     cfg,
		presets: ps,
		matches: matches,
		in:      in,
		out:     out,
		au:      aurora.NewAurora(cfg.Color),
	}
}

// readLine returns the next trimmed input line, io.EOF at end of input, or
// ctx's error.
func (c *cli) readLine(ctx context.Context) (string, error) {
	c.readOnce.Do(func() {
		c.lines = make(chan string)
		go func() {
			defer close(c.lines)
			sc := bufio.NewScanner(c.in)
			for sc.Scan() {
				c.lines <- strings.TrimSpace(sc.Text())
			}
		}()
	})
	select {
	case line, ok := <-c.lines:
		if !ok {
			return "", io.EOF
		}
		return line, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

type hoster interface {
	HostGame(address string, port int) (string, error)
}

// hostWithFallback tries port, port+1, ... until one binds.
func hostWithFallback(h hoster, address string, port, attempts int) (string, error) {
	if port == 0 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		var pw string
		if pw, err = h.HostGame(address, port+i); err == nil {
			return pw, nil
		}
		log.Warn().Err(err).Int("port", port+i).Msg("bind failed, trying next port")
	}
	return "", err
}

func (c *cli) host(ctx context.Context) error {
	sess := session.New(session.WithHandshakeTimeout(c.cfg.HandshakeTimeout))
	pw, err := hostWithFallback(sess, c.cfg.Addr, c.cfg.Port, maxPortAttempts)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Hosting on %s\nPassword: %s\nWaiting for a player to join...\n", sess.Addr(), c.au.Bold(pw))
	if err := sess.HostWaitForJoin(ctx); err != nil {
		sess.CloseGame()
		return err
	}
	fmt.Fprintln(c.out, "Player joined.")
	return c.play(ctx, sess, piece.Red)
}

func (c *cli) join(ctx context.Context, password string) error {
	sess := session.New(session.WithHandshakeTimeout(c.cfg.HandshakeTimeout))
	switch res := sess.JoinGame(ctx, c.cfg.Addr, c.cfg.Port, password); res {
	case session.JoinOK:
	case session.JoinAuthFailed:
		return errors.New("the host rejected the password")
	default:
		return fmt.Errorf("could not reach %s:%d: %v", c.cfg.Addr, c.cfg.Port, res)
	}
	fmt.Fprintln(c.out, "Joined game.")
	return c.play(ctx, sess, piece.Blue)
}

// record pushes a status into the registry served by the status API.
func (c *cli) record(s match.Status) {
	if err := c.matches.Save(context.Background(), s); err != nil {
		log.Warn().Err(err).Str("match", s.ID).Msg("record status")
	}
}

// play runs one match to completion over conn.
func (c *cli) play(ctx context.Context, conn match.Conn, color piece.Color) error {
	l, err := presets.Resolve(ctx, c.presets, c.cfg.Layout)
	if err != nil {
		conn.CloseGame()
		return fmt.Errorf("layout %q: %w", c.cfg.Layout, err)
	}

	m := match.New(conn, color, match.WithObserver(c.record))
	c.record(m.Status())
	defer m.Close()
	stop := context.AfterFunc(ctx, m.Close)
	defer stop()

	fmt.Fprintf(c.out, "You are %s. Placing layout %q...\n", colorName(c.au, color), c.cfg.Layout)
	out, err := m.Setup(ctx, l)
	for out == match.Continue && err == nil {
		switch m.Phase() {
		case match.PhaseMyTurn:
			out, err = c.myTurn(ctx, m)
		case match.PhaseTheirTurn:
			fmt.Fprintln(c.out, "Waiting for the opponent...")
			out, err = m.AwaitTurn(ctx)
		default:
			out = match.Halt
		}
	}

	if out != match.Continue {
		fmt.Fprint(c.out, renderBoard(c.au, m.Board(), color))
	}
	switch out {
	case match.Win:
		fmt.Fprintln(c.out, c.au.Green("You captured the flag. You win!"))
	case match.Lose:
		fmt.Fprintln(c.out, c.au.Yellow("Your flag was captured. You lose."))
	case match.Halt:
		fmt.Fprintln(c.out, "Game halted.")
	}

	switch {
	case ctx.Err() != nil:
		return ctx.Err()
	case errors.Is(err, errQuit):
		return nil
	}
	return err
}

// myTurn prompts until the player makes a valid move or quits.
func (c *cli) myTurn(ctx context.Context, m *match.Match) (match.Outcome, error) {
	fmt.Fprint(c.out, renderBoard(c.au, m.Board(), m.Color()))
	if !m.HasLegalMove() {
		fmt.Fprintln(c.out, "No legal moves left. You forfeit.")
		m.Close()
		return match.Halt, errQuit
	}
	for {
		fmt.Fprintf(c.out, "%s to move (x1 y1 x2 y2, q to quit): ", colorName(c.au, m.Color()))
		line, err := c.readLine(ctx)
		if errors.Is(err, io.EOF) || line == "q" || line == "quit" {
			m.Close()
			return match.Halt, errQuit
		}
		if err != nil {
			return match.Halt, err
		}

		from, to, err := parseMove(line)
		if err != nil {
			fmt.Fprintln(c.out, err)
			continue
		}
		out, err := m.PlayTurn(from, to)
		if errors.Is(err, board.ErrInvalidMove) {
			fmt.Fprintln(c.out, c.au.Red(err.Error()))
			continue
		}
		return out, err
	}
}

// parseMove reads "x1 y1 x2 y2"; commas count as spaces.
func parseMove(line string) (board.Point, board.Point, error) {
	fields := strings.Fields(strings.ReplaceAll(line, ",", " "))
	if len(fields) != 4 {
		return board.Point{}, board.Point{}, fmt.Errorf("expected four numbers, got %q", line)
	}
	var n [4]int
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return board.Point{}, board.Point{}, fmt.Errorf("%q is not a number", f)
		}
		n[i] = v
	}
	return board.Point{X: n[0], Y: n[1]}, board.Point{X: n[2], Y: n[3]}, nil
}

// presetsCmd implements `stratego presets ...`.
func (c *cli) presetsCmd(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return c.listPresets(ctx)
	}
	if len(args) < 2 {
		return errUsage
	}
	name := args[1]
	switch args[0] {
	case "show":
		l, err := presets.Resolve(ctx, c.presets, name)
		if err != nil {
			return err
		}
		fmt.Fprint(c.out, l.String())
		return nil
	case "save":
		if c.presets == nil {
			return errors.New("preset store is disabled")
		}
		src := "random"
		if len(args) > 2 {
			src = args[2]
		}
		l, err := loadLayoutSource(src)
		if err != nil {
			return err
		}
		if err := c.presets.Save(ctx, name, l); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "saved %s\n", name)
		return nil
	case "delete":
		if c.presets == nil {
			return errors.New("preset store is disabled")
		}
		if err := c.presets.Delete(ctx, name); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "deleted %s\n", name)
		return nil
	}
	return errUsage
}

func (c *cli) listPresets(ctx context.Context) error {
	if c.presets != nil {
		saved, err := c.presets.List(ctx)
		if err != nil {
			return err
		}
		for _, p := range saved {
			fmt.Fprintf(c.out, "%-16s saved %s\n", p.Name, p.UpdatedAt.Format(time.RFC3339))
		}
	}
	for _, name := range layout.Names() {
		fmt.Fprintf(c.out, "%-16s built-in\n", name)
	}
	return nil
}

// loadLayoutSource reads a layout file, or shuffles one for "random".
func loadLayoutSource(src string) (layout.Layout, error) {
	if src == "random" {
		return layout.Random(rand.New(rand.NewSource(time.Now().UnixNano()))), nil
	}
	b, err := os.ReadFile(src)
	if err != nil {
		return layout.Layout{}, err
	}
	l, err := layout.Parse(string(b))
	if err != nil {
		return layout.Layout{}, err
	}
	return l, l.Validate()
}
