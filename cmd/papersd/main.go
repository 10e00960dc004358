// Command papersd is the PDF-rendering service's entrypoint (A4 in
// SPEC_FULL.md): it reads a TOML configuration file, wires the object
// store, fetcher, pipeline and HTTP front end, and serves until signalled.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/cs3org/papers/internal/config"
	"github.com/cs3org/papers/internal/httpapi"
	rootlog "github.com/cs3org/papers/internal/log"
	"github.com/cs3org/papers/internal/objstore"
	"github.com/cs3org/papers/internal/pipeline"
)

var (
	configFlag  = flag.String("c", "/etc/papersd/papersd.toml", "set configuration file")
	versionFlag = flag.Bool("version", false, "show version and exit")

	gitCommit, version string
)

func main() {
	flag.Parse()

	if *versionFlag {
		fmt.Printf("papersd %s (%s)\n", version, gitCommit)
		os.Exit(0)
	}

	mainConf, err := readConfigFile(*configFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error reading config:", err)
		os.Exit(1)
	}

	cfg, err := config.New(mainConf)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error parsing config:", err)
		os.Exit(1)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	root := rootlog.New(rootlog.Mode(cfg.LogMode), level)

	if err := run(cfg, root); err != nil {
		root.Logger.Fatal().Err(err).Msg("papersd exited with error")
	}
}

func run(cfg *config.Config, root rootlog.Root) error {
	store, err := objstore.New(cfg.ObjectStore)
	if err != nil {
		return err
	}

	pl := pipeline.New(cfg, root, store)
	handler := httpapi.New(root.Logger, pl)

	server := &http.Server{
		Addr:    cfg.Address,
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		root.Logger.Info().Str("address", cfg.Address).Msg("papersd listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		root.Logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}
