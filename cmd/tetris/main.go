package main

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"net"
	"os"

	"canvastetris/canvas"
	"canvastetris/client"
	"canvastetris/config"
	"canvastetris/server"
	"canvastetris/surface"
	"canvastetris/tetris"

	"google.golang.org/grpc"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("unable to load config: %v", err)
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("unable to open log file: %v", err)
	}
	defer closeLog()

	var publish func(*tetris.Snapshot)
	if cfg.Inspect != "" {
		inspector, stop, err := serveInspector(cfg.Inspect, logger)
		if err != nil {
			log.Fatalf("unable to start inspector: %v", err)
		}
		defer stop()
		id := inspector.NewSession()
		defer inspector.CloseSession(id)
		logger.Info("inspector session", slog.String("session", id), slog.String("addr", cfg.Inspect))
		publish = func(s *tetris.Snapshot) {
			if err := inspector.Publish(id, s); err != nil {
				logger.Error("unable to publish snapshot", slog.String("error", err.Error()))
			}
		}
	}

	if err := run(cfg, logger, publish); err != nil {
		logger.Error("game ended with error", slog.String("error", err.Error()))
		closeLog()
		log.Fatalf("%v", err)
	}
}

func run(cfg *config.Config, l *slog.Logger, publish func(*tetris.Snapshot)) error {
	if cfg.Surface == surface.Canvas {
		return canvas.Run(canvas.Options{
			Board:    cfg.Board,
			CellSize: cfg.CellSize,
			Dev:      cfg.Dev,
			Logger:   l,
			Publish:  publish,
		})
	}
	c, err := client.New(l, &client.Options{
		Surface: cfg.Surface,
		Board:   cfg.Board,
		Dev:     cfg.Dev,
		Publish: publish,
	})
	if err != nil {
		return err
	}
	c.Start()
	return nil
}

// newLogger writes JSON logs to the configured file. The terminal is taken
// by the game so nothing is logged there.
func newLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.Log == "" {
		return slog.New(slog.NewJSONHandler(io.Discard, opts)), func() {}, nil
	}
	f, err := os.OpenFile(cfg.Log, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return slog.New(slog.NewJSONHandler(f, opts)), func() { _ = f.Close() }, nil
}

func serveInspector(addr string, l *slog.Logger) (*server.Inspector, func(), error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to listen: %w", err)
	}
	inspector := server.New(l)
	s := grpc.NewServer()
	inspector.Register(s)
	go func() {
		if err := s.Serve(lis); err != nil {
			l.Error("failed to serve", slog.String("error", err.Error()))
		}
	}()
	return inspector, s.Stop, nil
}
