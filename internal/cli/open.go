package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/claude/mapty/internal/config"
	"github.com/claude/mapty/internal/mcp"
	"github.com/claude/mapty/internal/models"
	"github.com/claude/mapty/internal/session"
	"github.com/claude/mapty/internal/storage"
)

// NewOpener returns an Opener that serves a local session over the store in
// cfg, with alerts written to alerts, or a remote one when a server URL is given.
func NewOpener(cfg *config.Config, alerts io.Writer, log *slog.Logger) Opener {
	return func(ctx context.Context, server string) (mcp.DataSource, func(), error) {
		if server != "" {
			log.Debug("using remote server", "url", server)
			return mcp.NewHTTPClient(server), func() {}, nil
		}

		store, err := storage.Open(ctx, cfg.Storage)
		if errors.Is(err, storage.ErrLocked) {
			return nil, nil, fmt.Errorf("%w; if mapty is serving it, pass --server or set MAPTY_SERVER", err)
		}
		if err != nil {
			return nil, nil, fmt.Errorf("opening %s store: %w", cfg.Storage.Driver, err)
		}

		term := NewTerminal(alerts)
		ctrl := session.NewController(term, term, storage.NewWorkoutLog(store, cfg.Storage.Key), session.Options{
			Zoom:      cfg.Map.Zoom,
			TileLayer: session.TileLayer{URL: cfg.Map.TileURL, Attribution: cfg.Map.Attribution},
			Log:       log,
		})
		loop := session.NewLoop(ctrl, nil, log)

		loopCtx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			defer close(done)
			_ = loop.Run(loopCtx)
		}()
		closeFn := func() {
			cancel()
			<-done
			if err := store.Close(); err != nil {
				log.Warn("closing store", "error", err)
			}
		}

		home := models.Coords{Lat: cfg.Map.Home.Lat, Lng: cfg.Map.Home.Lng}
		for _, ev := range []session.Event{session.Boot{}, session.GeolocationResolved{Coords: home}} {
			if _, err := loop.Post(ctx, ev); err != nil {
				closeFn()
				return nil, nil, err
			}
		}
		return mcp.NewLocal(loop), closeFn, nil
	}
}
