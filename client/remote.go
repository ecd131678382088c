package client

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"canvastetris/tetris"
)

// SnapshotSource yields the snapshots of a remote game, server.Watcher is one.
type SnapshotSource interface {
	Recv() (*tetris.Snapshot, error)
}

// Watch renders every snapshot from src until the remote game ends.
// A closed session ends the watch without error.
func Watch(src SnapshotSource, r *Render, l *slog.Logger) error {
	r.Clear()
	for {
		s, err := src.Recv()
		if errors.Is(err, io.EOF) {
			r.Message("session closed")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to receive snapshot: %w", err)
		}
		r.Render(s)
		if s.State == tetris.GameOver {
			l.Info("watched game is over", slog.Int("lines_cleared", s.LinesCleared))
			r.Message(gameOverMessage)
		}
	}
}
