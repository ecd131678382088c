package client

import (
	"fmt"
	"log/slog"
	"os"

	"canvastetris/tetris"

	"github.com/eiannone/keyboard"
)

// terminalSurface renders with ANSI escape codes and reads keys with eiannone/keyboard.
// Terminals don't report key releases, the board clears the intents it consumes.
type terminalSurface struct {
	*Render
	logger *slog.Logger
	keysCh chan key
}

func newTerminalSurface(l *slog.Logger, dev bool) (*terminalSurface, error) {
	r, err := NewRender(os.Stdout, l, "Terminal Tetris", dev)
	if err != nil {
		return nil, err
	}
	kb, err := keyboard.GetKeys(20)
	if err != nil {
		return nil, fmt.Errorf("failed to open keyboard: %w", err)
	}
	t := &terminalSurface{
		Render: r,
		logger: l,
		keysCh: make(chan key),
	}
	r.Clear()
	go t.listen(kb)
	return t, nil
}

func (t *terminalSurface) listen(kb <-chan keyboard.KeyEvent) {
	defer close(t.keysCh)
	for event := range kb {
		if event.Err != nil {
			t.logger.Error("keysEvents error", slog.String("error", event.Err.Error()))
			return
		}
		t.keysCh <- keyFromKeyboard(event)
	}
}

func (t *terminalSurface) render(s *tetris.Snapshot) { t.Render.Render(s) }
func (t *terminalSurface) lobby(msg string)          { t.Render.Message(msg) }
func (t *terminalSurface) keys() <-chan key          { return t.keysCh }

func (t *terminalSurface) close() error {
	t.Render.Clear()
	return keyboard.Close()
}

func keyFromKeyboard(event keyboard.KeyEvent) key {
	switch {
	case event.Key == keyboard.KeyCtrlC || event.Key == keyboard.KeyEsc:
		return key{quit: true}
	case event.Key == keyboard.KeyArrowUp || event.Rune == 'w':
		return key{intent: tetris.IntentUp, ok: true, r: event.Rune}
	case event.Key == keyboard.KeyArrowDown || event.Rune == 's':
		return key{intent: tetris.IntentDown, ok: true, r: event.Rune}
	case event.Key == keyboard.KeyArrowLeft || event.Rune == 'a':
		return key{intent: tetris.IntentLeft, ok: true, r: event.Rune}
	case event.Key == keyboard.KeyArrowRight || event.Rune == 'd':
		return key{intent: tetris.IntentRight, ok: true, r: event.Rune}
	case event.Key == keyboard.KeySpace:
		return key{intent: tetris.IntentSpace, ok: true, r: ' '}
	}
	return key{r: event.Rune}
}
