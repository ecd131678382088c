// Watch connects to the inspector of a running game and renders its board.
// Without -session it lists the open sessions.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"canvastetris/client"
	"canvastetris/server"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func main() {
	addr := flag.String("addr", "localhost:9000", "inspector address")
	id := flag.String("session", "", "session to watch")
	dev := flag.Bool("dev", false, "draw row and column indexes and the piece anchor")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	conn, err := grpc.NewClient(*addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatalf("unable to connect to %s: %v", *addr, err)
	}
	defer conn.Close()
	inspector := server.NewInspectorClient(conn)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *id == "" {
		ids, err := inspector.Sessions(ctx)
		if err != nil {
			log.Fatalf("unable to list sessions: %v", err)
		}
		for _, id := range ids {
			fmt.Println(id)
		}
		return
	}

	w, err := inspector.Watch(ctx, *id)
	if err != nil {
		log.Fatalf("unable to watch session %s: %v", *id, err)
	}
	r, err := client.NewRender(os.Stdout, logger, "Watching "+*id, *dev)
	if err != nil {
		log.Fatalf("unable to create render: %v", err)
	}
	if err := client.Watch(w, r, logger); err != nil {
		log.Fatalf("watch ended: %v", err)
	}
}
