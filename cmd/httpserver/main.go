package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nhdewitt/tcp-http-server/internal/config"
	"github.com/nhdewitt/tcp-http-server/internal/router"
	"github.com/nhdewitt/tcp-http-server/internal/server"
)

func main() {
	cfg, err := config.Parse(os.Args[0], os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log := cfg.NewLogger(os.Stderr)

	rt := router.NewOS(cfg.Directory)
	srv, err := server.Serve(server.Options{
		Addr:        cfg.Addr,
		MaxConns:    cfg.MaxConns,
		ReadTimeout: cfg.ReadTimeout,
	}, rt.Route, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error starting server")
	}
	defer srv.Close()
	log.Info().
		Stringer("addr", srv.Addr()).
		Str("directory", cfg.Directory).
		Msg("server started")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Info().Msg("server gracefully stopped")
}
