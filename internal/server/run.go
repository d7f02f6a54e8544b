package server

import (
	"context"
	"net"

	"github.com/rs/zerolog"

	"github.com/xaitan80/minihttpd/internal/config"
	"github.com/xaitan80/minihttpd/internal/filestore"
	"github.com/xaitan80/minihttpd/internal/handlers"
	"github.com/xaitan80/minihttpd/internal/logging"
	"github.com/xaitan80/minihttpd/internal/router"
)

// Run wires the file store, handlers and router from cfg, starts serving,
// and blocks until ctx is cancelled. ready, when set, is called once with
// the bound address.
func Run(ctx context.Context, cfg *config.Config, logger zerolog.Logger, ready func(net.Addr)) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	store, err := filestore.NewDirStore(cfg.Files.Directory)
	if err != nil {
		return err
	}

	h := handlers.New(store, logging.WithComponent(logger, "handlers"))
	rt := router.New(h.Routes()...)

	srv, err := Serve(cfg.Server, rt, logging.WithComponent(logger, "server"))
	if err != nil {
		return err
	}
	logger.Info().
		Str("addr", srv.Addr().String()).
		Str("root", store.Root()).
		Msg("server started")
	if ready != nil {
		ready(srv.Addr())
	}

	<-ctx.Done()
	logger.Info().Msg("server stopping")
	return srv.Close()
}
