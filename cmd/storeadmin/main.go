package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/five82/storeadmin/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional)")
	autosave := flag.Int("autosave", 0, "autosave interval in seconds (optional, defaults to config)")
	mockDelay := flag.Int("mock-delay", -1, "mock backend latency in milliseconds (optional, defaults to config)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{ConfigPath: *configPath}
	if secs := *autosave; secs > 0 {
		opts.Autosave = time.Duration(secs) * time.Second
	}
	if ms := *mockDelay; ms >= 0 {
		d := time.Duration(ms) * time.Millisecond
		opts.MockDelay = &d
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "storeadmin: %v\n", err)
		return 1
	}
	return 0
}
