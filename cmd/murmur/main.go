package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/murmurchat/murmur/internal/app"
	"github.com/murmurchat/murmur/internal/config"
	"github.com/murmurchat/murmur/internal/prefs"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", config.DefaultPath(), "override murmur config path (optional)")
	prefsPath := flag.String("prefs", prefs.DefaultPath(), "override murmur prefs path (optional)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		PrefsPath:  *prefsPath,
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "murmur: %v\n", err)
		return 1
	}
	return 0
}
