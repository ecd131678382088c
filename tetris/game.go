package tetris

import (
	"log/slog"
	"sync"
	"time"
)

// FrameInterval is how often the Game renders when it drives its own frames.
const FrameInterval = time.Second / 60

type Ticker interface {
	C() <-chan time.Time
	Reset(time.Duration)
	Stop()
}

type wrappedTicker struct {
	ticker *time.Ticker
}

func newWrappedTicker(d time.Duration) *wrappedTicker {
	return &wrappedTicker{ticker: time.NewTicker(d)}
}

func (t *wrappedTicker) C() <-chan time.Time   { return t.ticker.C }
func (t *wrappedTicker) Stop()                 { t.ticker.Stop() }
func (t *wrappedTicker) Reset(d time.Duration) { t.ticker.Reset(d) }

// Game runs a Board on its own goroutine. Every frame tick advances the
// fixed timestep loop and publishes one Snapshot. Input events are applied
// by the same goroutine, so the board is never touched concurrently.
type Game struct {
	board  *Board
	loop   Loop
	ticker Ticker
	clock  Clock
	logger *slog.Logger

	inputCh  chan Event
	updateCh chan *Snapshot
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
}

// NewGame returns a game with a new board built from cfg.
func NewGame(cfg Config, l *slog.Logger) (*Game, error) {
	b, err := NewBoard(cfg, l)
	if err != nil {
		return nil, err
	}
	// the ticker is reset to the frame interval when the game starts.
	return NewConfigurableGame(b, newWrappedTicker(time.Hour), realClock{}, l), nil
}

// NewConfigurableGame returns a game running board with custom frame ticker and clock.
func NewConfigurableGame(board *Board, ticker Ticker, c Clock, l *slog.Logger) *Game {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	return &Game{
		board:    board,
		ticker:   ticker,
		clock:    c,
		logger:   l,
		inputCh:  make(chan Event),
		updateCh: make(chan *Snapshot),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start runs the game loop in a new goroutine.
func (g *Game) Start() {
	go g.listen()
}

// Stop ends the game loop. It is safe to call more than once.
// Wait on Done to know when the loop has returned.
func (g *Game) Stop() {
	g.stopOnce.Do(func() { close(g.stopCh) })
}

// Input sends a key event to the board. It doesn't block once the game has ended.
func (g *Game) Input(ev Event) {
	select {
	case g.inputCh <- ev:
	case <-g.doneCh:
	}
}

// GetUpdate returns the channel the game publishes a snapshot to every frame.
// The channel is closed when the game ends.
func (g *Game) GetUpdate() <-chan *Snapshot { return g.updateCh }

// Done is closed when the game loop has returned.
func (g *Game) Done() <-chan struct{} { return g.doneCh }

func (g *Game) listen() {
	defer close(g.doneCh)
	defer close(g.updateCh)
	g.ticker.Reset(FrameInterval)
	defer g.ticker.Stop()

	if !g.publish() {
		return
	}
	for {
		select {
		case <-g.ticker.C():
			g.loop.Step(g.clock.Now(), g.board.Update)
			if !g.publish() {
				return
			}
			if g.board.State() == GameOver {
				g.logger.Debug("game loop finished", slog.String("state", g.board.State().String()))
				return
			}
		case ev := <-g.inputCh:
			g.board.Input(ev)
		case <-g.stopCh:
			return
		}
	}
}

// publish renders the frame by handing a snapshot to whoever is listening.
func (g *Game) publish() bool {
	select {
	case g.updateCh <- g.board.Read():
		return true
	case <-g.stopCh:
		return false
	}
}
