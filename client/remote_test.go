package client

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"canvastetris/tetris"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	snaps []*tetris.Snapshot
	err   error
}

func (f *fakeSource) Recv() (*tetris.Snapshot, error) {
	if len(f.snaps) == 0 {
		return nil, f.err
	}
	s := f.snaps[0]
	f.snaps = f.snaps[1:]
	return s, nil
}

func TestWatch(t *testing.T) {
	over := tetris.NewTestSnapshot(tetris.S)
	over.State = tetris.GameOver

	tests := []struct {
		name     string
		src      *fakeSource
		wantErr  bool
		contains []string
	}{
		{
			name:     "closed session ends the watch",
			src:      &fakeSource{snaps: []*tetris.Snapshot{tetris.NewTestSnapshot(tetris.J)}, err: io.EOF},
			contains: []string{"\x1b[34m[]", "session closed"},
		},
		{
			name:     "game over is shown",
			src:      &fakeSource{snaps: []*tetris.Snapshot{over}, err: io.EOF},
			contains: []string{"Game Over"},
		},
		{
			name:    "stream errors are returned",
			src:     &fakeSource{err: errors.New("boom")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := &strings.Builder{}
			r, err := NewRender(w, slog.Default(), "Watching", false)
			require.NoError(t, err)

			err = Watch(tt.src, r, slog.Default())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			for _, c := range tt.contains {
				assert.Contains(t, w.String(), c)
			}
		})
	}
}
