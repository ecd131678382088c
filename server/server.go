// Package server exposes running games over gRPC so their boards can be
// watched from another process. It is read only: watchers can't send input.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"canvastetris/tetris"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ErrSessionNotFound is returned when publishing to a session that doesn't exist.
var ErrSessionNotFound = errors.New("session not found")

type session struct {
	latest   *structpb.Struct
	watchers map[chan *structpb.Struct]struct{}
}

// Inspector keeps the latest snapshot of every session and fans it out to watchers.
type Inspector struct {
	sessions map[string]*session
	logger   *slog.Logger
	mu       sync.Mutex
}

func New(l *slog.Logger) *Inspector {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	return &Inspector{sessions: make(map[string]*session), logger: l}
}

// Register adds the inspector service to s.
func (i *Inspector) Register(s grpc.ServiceRegistrar) {
	s.RegisterService(&inspectorServiceDesc, i)
}

// NewSession returns the id of a new, empty session.
func (i *Inspector) NewSession() string {
	id := uuid.New().String()
	i.mu.Lock()
	defer i.mu.Unlock()
	i.sessions[id] = &session{watchers: make(map[chan *structpb.Struct]struct{})}
	i.logger.Info("session created", slog.String("session", id))
	return id
}

// Publish stores s as the latest snapshot of the session and sends it to its watchers.
// Watchers that are behind only get the most recent snapshot.
func (i *Inspector) Publish(id string, s *tetris.Snapshot) error {
	msg, err := snapshot2Proto(s)
	if err != nil {
		return err
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	sess, ok := i.sessions[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	sess.latest = msg
	for ch := range sess.watchers {
		select {
		case <-ch:
		default:
		}
		ch <- msg
	}
	return nil
}

// CloseSession removes the session. Its watchers' streams end.
func (i *Inspector) CloseSession(id string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	sess, ok := i.sessions[id]
	if !ok {
		return
	}
	for ch := range sess.watchers {
		close(ch)
	}
	delete(i.sessions, id)
	i.logger.Info("session closed", slog.String("session", id))
}

// Sessions returns the ids of the open sessions, sorted.
func (i *Inspector) Sessions(context.Context, *emptypb.Empty) (*structpb.ListValue, error) {
	i.mu.Lock()
	ids := make([]string, 0, len(i.sessions))
	for id := range i.sessions {
		ids = append(ids, id)
	}
	i.mu.Unlock()
	slices.Sort(ids)

	list := &structpb.ListValue{}
	for _, id := range ids {
		list.Values = append(list.Values, structpb.NewStringValue(id))
	}
	return list, nil
}

// Watch streams the snapshots of a session, starting with the latest one,
// until the session is closed or the watcher goes away.
func (i *Inspector) Watch(req *wrapperspb.StringValue, stream grpc.ServerStreamingServer[structpb.Struct]) error {
	id := req.GetValue()
	ch := make(chan *structpb.Struct, 1)

	i.mu.Lock()
	sess, ok := i.sessions[id]
	if !ok {
		i.mu.Unlock()
		return status.Errorf(codes.NotFound, "session %q not found", id)
	}
	sess.watchers[ch] = struct{}{}
	if sess.latest != nil {
		ch <- sess.latest
	}
	i.mu.Unlock()

	defer func() {
		i.mu.Lock()
		defer i.mu.Unlock()
		if s, ok := i.sessions[id]; ok {
			delete(s.watchers, ch)
		}
	}()

	ctx := stream.Context()
	for {
		select {
		case <-ctx.Done():
			return status.FromContextError(ctx.Err()).Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			if err := stream.Send(msg); err != nil {
				i.logger.Error("failed to send snapshot", slog.String("session", id), slog.String("error", err.Error()))
				return fmt.Errorf("failed to send snapshot: %w", err)
			}
		}
	}
}
