// Command detailfeed prints every newly recorded channel detail as one JSON
// line on stdout, for the switching process to consume.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/voyagen/videoswitch/internal/feed"
)

func main() {
	redisURL := flag.String("redis", os.Getenv("REDIS_URL"), "Redis URL (default $REDIS_URL)")
	queue := flag.String("queue", feed.DefaultQueue, "Redis list to consume")
	flag.Parse()

	log.SetOutput(os.Stderr)
	if *redisURL == "" {
		fmt.Fprintln(os.Stderr, "detailfeed: -redis or REDIS_URL is required")
		os.Exit(2)
	}

	rds, err := feed.New(*redisURL)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer rds.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rds.Ping(ctx); err != nil {
		log.Fatalf("redis ping: %v", err)
	}

	run(ctx, rds, *queue, json.NewEncoder(os.Stdout))
}

// run dequeues events until ctx is cancelled.
func run(ctx context.Context, rds *feed.Redis, queue string, enc *json.Encoder) {
	log.Infof("detailfeed: consuming %s", queue)
	for {
		select {
		case <-ctx.Done():
			log.Info("detailfeed: stopping")
			return
		default:
		}

		ev, err := feed.Dequeue(ctx, rds, queue, 5*time.Second)
		if err != nil {
			log.Errorf("detailfeed: dequeue error: %v", err)
			time.Sleep(2 * time.Second)
			continue
		}
		if ev == nil {
			continue // timeout, loop back to check ctx
		}
		if err := enc.Encode(ev); err != nil {
			log.Errorf("detailfeed: write: %v", err)
		}
	}
}
