package app

import (
	"context"
	"fmt"
	"log"

	"github.com/murmurchat/murmur/internal/api"
	"github.com/murmurchat/murmur/internal/config"
	"github.com/murmurchat/murmur/internal/gateway"
	"github.com/murmurchat/murmur/internal/store"
	"github.com/murmurchat/murmur/internal/ui"
)

// Options configures an application run.
type Options struct {
	ConfigPath string
	PrefsPath  string
}

// Run wires the client together and blocks until the UI exits or ctx is
// cancelled: load config, perform the initial sync over HTTP, attach the
// gateway for live pushes, then hand the store to the UI.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Token == "" {
		return fmt.Errorf("no session token: set MURMUR_TOKEN or add it to a .env file next to the config")
	}

	client, err := api.NewClient(cfg.APIURL, cfg.Token)
	if err != nil {
		return fmt.Errorf("create api client: %w", err)
	}

	st := store.New()

	data, err := client.FetchInitialData(ctx)
	if err != nil {
		return fmt.Errorf("initial sync: %w", err)
	}
	st.Dispatch(store.InitialDataReceived{
		User:    data.User,
		Servers: data.Servers,
		Apps:    data.Apps,
	})

	gw, err := gateway.Dial(ctx, cfg.GatewayURL, cfg.Token, st)
	if err != nil {
		// Cached initial sync is still usable; run read-mostly without
		// live pushes rather than failing outright.
		log.Printf("gateway unavailable: %v", err)
	} else {
		defer gw.Close()
	}

	return ui.Run(ui.Options{
		Context:   ctx,
		Client:    client,
		Store:     st,
		PrefsPath: opts.PrefsPath,
	})
}
