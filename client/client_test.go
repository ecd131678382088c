package client

import (
	"log/slog"
	"sync"
	"testing"
	"time"

	"canvastetris/tetris"

	"github.com/eiannone/keyboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockTetris struct {
	updateCh chan *tetris.Snapshot
	mu       sync.Mutex
	start    bool
	stop     bool
	events   []tetris.Event
}

func newMockTetris() *mockTetris { return &mockTetris{updateCh: make(chan *tetris.Snapshot)} }

func (m *mockTetris) GetUpdate() <-chan *tetris.Snapshot { return m.updateCh }
func (m *mockTetris) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.start = true
}
func (m *mockTetris) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stop = true
}
func (m *mockTetris) Input(e tetris.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
}
func (m *mockTetris) started() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.start
}
func (m *mockTetris) inputs() []tetris.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]tetris.Event(nil), m.events...)
}

type mockSurface struct {
	keysCh   chan key
	mu       sync.Mutex
	rendered int
	messages []string
	closed   bool
}

func newMockSurface() *mockSurface { return &mockSurface{keysCh: make(chan key)} }

func (m *mockSurface) keys() <-chan key { return m.keysCh }
func (m *mockSurface) render(*tetris.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rendered++
}
func (m *mockSurface) lobby(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
}
func (m *mockSurface) close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
func (m *mockSurface) renderCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rendered
}
func (m *mockSurface) lastMessage() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.messages) == 0 {
		return ""
	}
	return m.messages[len(m.messages)-1]
}

func TestClient(t *testing.T) {
	surface := newMockSurface()
	game := newMockTetris()
	var published, finished int
	var pmu sync.Mutex
	cl := newClient(slog.Default(), &Options{
		Publish: func(*tetris.Snapshot) { pmu.Lock(); published++; pmu.Unlock() },
		Done:    func(*tetris.Snapshot) { pmu.Lock(); finished++; pmu.Unlock() },
	}, surface)
	cl.newGame = func() (tetrisGame, error) { return game, nil }

	var wg sync.WaitGroup
	wg.Add(1)
	go func() { cl.Start(); wg.Done() }()

	require.Eventually(t, func() bool { return surface.lastMessage() == welcomeMessage }, time.Second, 5*time.Millisecond)

	// keys with an intent are ignored in the lobby.
	surface.keysCh <- key{intent: tetris.IntentLeft, ok: true}
	assert.Equal(t, lobby, cl.state.get())

	// 'p' starts the game.
	surface.keysCh <- key{r: 'p'}
	require.Eventually(t, game.started, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return cl.state.get() == playing }, time.Second, 5*time.Millisecond)

	// while in game, keys are sent to the game as pressed intents.
	for _, i := range []tetris.Intent{tetris.IntentLeft, tetris.IntentRight, tetris.IntentUp, tetris.IntentDown, tetris.IntentSpace} {
		surface.keysCh <- key{intent: i, ok: true}
	}
	// keys without intent are ignored in game.
	surface.keysCh <- key{r: 'x'}
	require.Eventually(t, func() bool { return len(game.inputs()) == 5 }, time.Second, 5*time.Millisecond)
	for _, e := range game.inputs() {
		assert.True(t, e.Pressed)
	}
	assert.Equal(t, tetris.IntentSpace, game.inputs()[4].Intent)

	// every update is rendered and published.
	before := surface.renderCount()
	game.updateCh <- tetris.NewTestSnapshot(tetris.J)
	require.Eventually(t, func() bool { return surface.renderCount() == before+1 }, time.Second, 5*time.Millisecond)

	// game over brings the lobby back.
	over := tetris.NewTestSnapshot(tetris.J)
	over.State = tetris.GameOver
	game.updateCh <- over
	close(game.updateCh)
	require.Eventually(t, func() bool { return surface.lastMessage() == gameOverMessage }, time.Second, 5*time.Millisecond)
	assert.Equal(t, lobby, cl.state.get())
	pmu.Lock()
	assert.Equal(t, 2, published)
	assert.Equal(t, 1, finished)
	pmu.Unlock()

	// 'q' quits from the lobby.
	surface.keysCh <- key{r: 'q'}
	wgDone := make(chan struct{})
	go func() { wg.Wait(); close(wgDone) }()
	select {
	case <-time.After(time.Second):
		t.Errorf("timeout waiting for quit")
	case <-wgDone:
	}
	assert.True(t, surface.closed)
}

func TestClientQuitWhilePlaying(t *testing.T) {
	surface := newMockSurface()
	game := newMockTetris()
	cl := newClient(slog.Default(), &Options{}, surface)
	cl.newGame = func() (tetrisGame, error) { return game, nil }

	done := make(chan struct{})
	go func() { cl.Start(); close(done) }()

	surface.keysCh <- key{r: 'p'}
	require.Eventually(t, game.started, time.Second, 5*time.Millisecond)
	surface.keysCh <- key{quit: true}

	select {
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for quit")
	case <-done:
	}
	game.mu.Lock()
	defer game.mu.Unlock()
	assert.True(t, game.stop, "wanted the game to be stopped")
}

func TestKeyFromKeyboard(t *testing.T) {
	tests := []struct {
		name  string
		event keyboard.KeyEvent
		want  key
	}{
		{"ctrl+c quits", keyboard.KeyEvent{Key: keyboard.KeyCtrlC}, key{quit: true}},
		{"esc quits", keyboard.KeyEvent{Key: keyboard.KeyEsc}, key{quit: true}},
		{"arrow up", keyboard.KeyEvent{Key: keyboard.KeyArrowUp}, key{intent: tetris.IntentUp, ok: true}},
		{"w", keyboard.KeyEvent{Rune: 'w'}, key{intent: tetris.IntentUp, ok: true, r: 'w'}},
		{"arrow down", keyboard.KeyEvent{Key: keyboard.KeyArrowDown}, key{intent: tetris.IntentDown, ok: true}},
		{"arrow left", keyboard.KeyEvent{Key: keyboard.KeyArrowLeft}, key{intent: tetris.IntentLeft, ok: true}},
		{"d", keyboard.KeyEvent{Rune: 'd'}, key{intent: tetris.IntentRight, ok: true, r: 'd'}},
		{"space", keyboard.KeyEvent{Key: keyboard.KeySpace}, key{intent: tetris.IntentSpace, ok: true, r: ' '}},
		{"p", keyboard.KeyEvent{Rune: 'p'}, key{r: 'p'}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, keyFromKeyboard(test.event))
		})
	}
}
