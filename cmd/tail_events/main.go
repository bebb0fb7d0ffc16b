package main

// Tails the domain event stream of a running instance. Handy for checking
// that session lifecycle events actually reach the broker.

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"ai-investigator-be/pkg/events"
	"ai-investigator-be/pkg/nats"
)

func main() {
	fmt.Println("=== Interview Event Tail ===")

	if err := godotenv.Load(); err != nil {
		fmt.Printf("⚠️  Warning: Could not load .env file: %v\n", err)
	}

	url := os.Getenv("NATS_URL")
	if url == "" {
		fmt.Println("❌ NATS_URL not set in environment")
		return
	}

	sub, err := nats.NewSubscriber(url)
	if err != nil {
		fmt.Printf("❌ NATS connection failed: %v\n", err)
		return
	}
	defer sub.Close()

	err = sub.Subscribe("events.>", "event-tail", func(ctx context.Context, event events.Event) error {
		pretty, _ := json.MarshalIndent(event.Payload(), "", "  ")
		fmt.Printf("[%s] %s\n%s\n", event.Timestamp().Format(time.RFC3339), event.EventType(), pretty)
		return nil
	})
	if err != nil {
		fmt.Printf("❌ Subscribe failed: %v\n", err)
		return
	}

	fmt.Println("✅ Listening on events.> (Ctrl+C to stop)")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	fmt.Println("\nStopped.")
}
