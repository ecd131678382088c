package client

import (
	"fmt"
	"log/slog"
	"sync"

	"canvastetris/surface"
	"canvastetris/tetris"
)

type clientState int

const (
	lobby clientState = iota
	playing
)

type state struct {
	current clientState
	mu      sync.Mutex
}

func (s *state) get() clientState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *state) set(c clientState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = c
}

type tetrisGame interface {
	Start()
	GetUpdate() <-chan *tetris.Snapshot
	Input(tetris.Event)
	Stop()
}

// key is a key press translated by a surface.
type key struct {
	intent tetris.Intent
	ok     bool // intent is set
	r      rune
	quit   bool
}

// drawSurface is where the game is rendered and where the keys come from.
type drawSurface interface {
	render(*tetris.Snapshot)
	lobby(msg string)
	keys() <-chan key
	close() error
}

// Options are read when the client is created.
type Options struct {
	// Surface is one of surface.Terminal or surface.Tcell.
	Surface string
	Board   tetris.Config
	// Dev draws the row and column indexes and the anchor of the piece.
	Dev bool
	// Publish, if set, receives every rendered frame.
	Publish func(*tetris.Snapshot)
	// Done, if set, is called with the last frame of every game.
	Done func(*tetris.Snapshot)
}

type Client struct {
	surface drawSurface
	newGame func() (tetrisGame, error)
	options *Options
	logger  *slog.Logger
	state   *state

	game tetrisGame
	mu   sync.Mutex
}

// New opens the surface named in the options.
// It returns surface.ErrMissing for a surface it doesn't know how to open
// and surface.ErrNoContext when the surface can't be drawn on.
func New(l *slog.Logger, o *Options) (*Client, error) {
	if err := surface.Validate(o.Surface); err != nil {
		return nil, err
	}
	var (
		s   drawSurface
		err error
	)
	switch o.Surface {
	case surface.Terminal:
		s, err = newTerminalSurface(l, o.Dev)
	case surface.Tcell:
		s, err = newTcellSurface(nil, l, o.Dev)
	default:
		return nil, fmt.Errorf("%w: %q is not a terminal surface", surface.ErrMissing, o.Surface)
	}
	if err != nil {
		return nil, surface.NoContext(o.Surface, err)
	}
	return newClient(l, o, s), nil
}

func newClient(l *slog.Logger, o *Options, s drawSurface) *Client {
	return &Client{
		surface: s,
		newGame: func() (tetrisGame, error) { return tetris.NewGame(o.Board, l) },
		options: o,
		logger:  l,
		state:   &state{current: lobby},
	}
}

// Start shows the lobby and blocks until the player quits.
func (c *Client) Start() {
	defer func() {
		if err := c.surface.close(); err != nil {
			c.logger.Error("unable to close surface", slog.String("error", err.Error()))
		}
	}()
	c.surface.render(nil)
	c.surface.lobby(welcomeMessage)
	c.listenKB()
	c.stopGame()
}

func (c *Client) listenKB() {
	for {
		k, ok := <-c.surface.keys()
		if !ok {
			c.logger.Error("Keyboard events channel closed unexpectedly")
			return
		}
		if k.quit {
			return
		}
		switch c.state.get() {
		case lobby:
			switch k.r {
			case 'p':
				if err := c.startGame(); err != nil {
					c.logger.Error("unable to start game", slog.String("error", err.Error()))
					c.surface.lobby(errorMessage)
					continue
				}
				c.state.set(playing)
			case 'q':
				return
			}
		case playing:
			if !k.ok {
				continue
			}
			c.mu.Lock()
			g := c.game
			c.mu.Unlock()
			if g != nil {
				g.Input(tetris.Event{Intent: k.intent, Pressed: true})
			}
		}
	}
}

func (c *Client) startGame() error {
	g, err := c.newGame()
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.game = g
	c.mu.Unlock()
	g.Start()
	go c.listenTetris(g)
	return nil
}

func (c *Client) stopGame() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.game != nil {
		c.game.Stop()
		c.game = nil
	}
}

func (c *Client) listenTetris(g tetrisGame) {
	var last *tetris.Snapshot
	for u := range g.GetUpdate() {
		last = u
		c.surface.render(u)
		if c.options.Publish != nil {
			c.options.Publish(u)
		}
	}
	if last == nil || last.State != tetris.GameOver {
		return
	}
	c.logger.Info("game over", slog.Int("lines_cleared", last.LinesCleared))
	if c.options.Done != nil {
		c.options.Done(last)
	}
	c.state.set(lobby)
	c.surface.lobby(gameOverMessage)
}
