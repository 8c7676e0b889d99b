// Catalogus - AI Software Catalog and Learning Hub
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogus

// Command server runs the Catalogus backend: the reactive catalog store, the
// REST/WebSocket API and the voice-search session manager, all under suture
// supervision.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/catalogus/internal/api"
	"github.com/tomtom215/catalogus/internal/catalog"
	"github.com/tomtom215/catalogus/internal/config"
	"github.com/tomtom215/catalogus/internal/docstore"
	"github.com/tomtom215/catalogus/internal/logging"
	"github.com/tomtom215/catalogus/internal/speech"
	"github.com/tomtom215/catalogus/internal/supervisor"
	ws "github.com/tomtom215/catalogus/internal/websocket"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("server exited with error")
	}
}

func run() error {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		return err
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version).
		Str("driver", cfg.Database.Driver).
		Str("addr", cfg.Server.Addr()).
		Msg("Starting Catalogus")

	if path := config.FilePath(); path != "" {
		err := config.WatchConfigFile(path, func() {
			logging.Warn().Str("path", path).Msg("Configuration file changed; restart to apply")
		})
		if err != nil {
			logging.Warn().Err(err).Str("path", path).Msg("Config file watch unavailable")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ds, err := docstore.New(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := ds.Close(); err != nil {
			logging.Warn().Err(err).Msg("document store close failed")
		}
	}()

	store, err := catalog.New(ctx, ds)
	if err != nil {
		return err
	}
	defer store.Close()

	hub := ws.NewHub()
	bridge := ws.NewSnapshotBridge(store, hub)
	speechManager := speech.NewManager(cfg.Speech)
	defer speechManager.Close()

	handler := api.NewHandler(store, speechManager, hub, cfg.API)
	router := api.NewRouter(handler, cfg.Security)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddDataService(store)
	tree.AddMessagingService(hubService{hub})
	tree.AddMessagingService(bridge)
	tree.AddAPIService(supervisor.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	err = tree.Serve(ctx)
	if err != nil && err != context.Canceled {
		return err
	}

	if report, rerr := tree.UnstoppedServiceReport(); rerr == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", svc.Name).Msg("service did not stop in time")
		}
	}

	logging.Info().Msg("Catalogus stopped")
	return nil
}

// hubService adapts the hub's RunWithContext to suture.Service.
type hubService struct {
	hub *ws.Hub
}

func (s hubService) Serve(ctx context.Context) error { return s.hub.RunWithContext(ctx) }
func (s hubService) String() string                  { return s.hub.String() }
