package server

import (
	"context"
	"errors"
	"io"
	"log"
	"net"
	"testing"
	"time"

	"canvastetris/tetris"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

func TestSessions(t *testing.T) {
	ctx := context.Background()
	inspector, client, closer := testServer()
	defer closer()

	ids, err := client.Sessions(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	a := inspector.NewSession()
	b := inspector.NewSession()
	ids, err = client.Sessions(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{a, b}, ids)

	inspector.CloseSession(a)
	ids, err = client.Sessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{b}, ids)
}

func TestWatch(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	inspector, client, closer := testServer()
	defer closer()

	id := inspector.NewSession()
	first := tetris.NewTestSnapshot(tetris.J)
	require.NoError(t, inspector.Publish(id, first))

	w, err := client.Watch(ctx, id)
	require.NoError(t, err)

	// the latest snapshot is sent on subscription.
	got, err := w.Recv()
	require.NoError(t, err)
	assert.Equal(t, first, got)

	next := tetris.NewTestSnapshot(tetris.T)
	next.State = tetris.GameOver
	next.LinesCleared = 3
	require.NoError(t, inspector.Publish(id, next))
	got, err = w.Recv()
	require.NoError(t, err)
	assert.Equal(t, next, got)

	inspector.CloseSession(id)
	_, err = w.Recv()
	assert.ErrorIs(t, err, io.EOF)
}

func TestWatchUnknownSession(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, client, closer := testServer()
	defer closer()

	w, err := client.Watch(ctx, "nope")
	require.NoError(t, err)
	_, err = w.Recv()
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestPublishUnknownSession(t *testing.T) {
	inspector := New(nil)
	err := inspector.Publish("nope", tetris.NewTestSnapshot(tetris.O))
	assert.True(t, errors.Is(err, ErrSessionNotFound))
}

func TestSnapshotCodec(t *testing.T) {
	tests := []struct {
		name string
		snap func() *tetris.Snapshot
	}{
		{
			name: "falling piece",
			snap: func() *tetris.Snapshot { return tetris.NewTestSnapshot(tetris.I) },
		},
		{
			name: "stack without piece",
			snap: func() *tetris.Snapshot {
				s := tetris.NewTestSnapshot(tetris.L)
				s.Piece = nil
				s.Grid[23][0] = tetris.Occupied(tetris.Z)
				s.Grid[23][9] = tetris.Occupied(tetris.S)
				s.State = tetris.GameOver
				return s
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			want := tt.snap()
			msg, err := snapshot2Proto(want)
			require.NoError(t, err)
			got, err := proto2Snapshot(msg)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestProto2SnapshotErrors(t *testing.T) {
	msg, err := snapshot2Proto(tetris.NewTestSnapshot(tetris.O))
	require.NoError(t, err)
	msg.Fields["state"].Kind = nil
	_, err = proto2Snapshot(msg)
	assert.ErrorIs(t, err, errBadSnapshot)

	msg, err = snapshot2Proto(tetris.NewTestSnapshot(tetris.O))
	require.NoError(t, err)
	delete(msg.Fields, "grid")
	_, err = proto2Snapshot(msg)
	assert.ErrorIs(t, err, errBadSnapshot)
}

func testServer() (*Inspector, *InspectorClient, func()) {
	buffer := 101024 * 1024
	lis := bufconn.Listen(buffer)

	inspector := New(nil)
	s := grpc.NewServer()
	inspector.Register(s)
	go func() {
		if err := s.Serve(lis); err != nil {
			log.Printf("unable to serve: %v", err)
		}
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet", grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) {
		return lis.Dial()
	}), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Printf("error connecting to server: %v", err)
	}

	closer := func() {
		if err := conn.Close(); err != nil {
			log.Printf("error closing connection: %v", err)
		}
		if err := lis.Close(); err != nil {
			log.Printf("error closing listener: %v", err)
		}
		s.Stop()
	}

	return inspector, NewInspectorClient(conn), closer
}
