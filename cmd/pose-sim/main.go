// Command pose-sim streams a synthetic wrist path to a running game's pose
// tracker, standing in for a camera-based pose estimator.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/plus3/dragonbubbles/config"
	"github.com/plus3/dragonbubbles/tracker"
)

func main() {
	cfg := config.Default()
	if err := cfg.LoadEnv(".env"); err != nil {
		log.Fatalf("[pose-sim] %v", err)
	}

	url := flag.String("url", "ws://"+cfg.Tracker.Addr+"/pose", "tracker endpoint")
	binary := flag.Bool("binary", false, "send msgpack frames instead of JSON")
	rate := flag.Int("rate", 30, "samples per second")
	duration := flag.Duration("duration", 0, "stop after this long (0 runs until interrupted)")
	dropout := flag.Duration("dropout", 0, "every 5s, send low-visibility samples for this long")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}

	client, err := tracker.Dial(ctx, *url, *binary)
	if err != nil {
		log.Fatalf("[pose-sim] %v", err)
	}
	defer client.Close()

	welcome, err := client.Hello("pose-sim")
	if err != nil {
		log.Fatalf("[pose-sim] handshake: %v", err)
	}
	log.Printf("[pose-sim] connected to %s (mirror=%t, min visibility %.2f)", welcome.Server, welcome.Mirror, welcome.MinScore)

	path := wristPath{Dropout: *dropout, DropoutEvery: 5 * time.Second}
	sent, err := stream(ctx, client, path, time.Second/time.Duration(max(*rate, 1)))
	log.Printf("[pose-sim] sent %d samples", sent)
	if err != nil {
		log.Fatalf("[pose-sim] %v", err)
	}
}

// poseSender is the part of tracker.Client stream uses.
type poseSender interface {
	SendPose(tracker.Pose) error
}

// stream sends path samples every period until ctx is done. It returns nil
// on cancellation.
func stream(ctx context.Context, client poseSender, path wristPath, period time.Duration) (int, error) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	start := time.Now()
	sent := 0
	for {
		select {
		case <-ctx.Done():
			return sent, nil
		case now := <-ticker.C:
			if err := client.SendPose(path.At(now.Sub(start))); err != nil {
				return sent, err
			}
			sent++
		}
	}
}
