// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/noiseregions/httpapi"
	"github.com/katalvlaran/noiseregions/session"
	"github.com/katalvlaran/noiseregions/store"
)

func newServeCmd(g *globalFlags) *cobra.Command {
	var (
		addr string
		out  string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the session over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := g.logger()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			cfg, err := g.load()
			if err != nil {
				return err
			}
			lookup, err := g.biomes(cfg.Seed)
			if err != nil {
				return err
			}
			if g.logLevel != "debug" {
				gin.SetMode(gin.ReleaseMode)
			}
			sess := session.New(session.WithLogger(log))
			srv := httpapi.New(sess, lookup, store.File{Path: out}, g.load, log)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, addr, srv.Router(), sess, log)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVarP(&out, "out", "o", "polygons.geojson", "file written by POST /api/save")
	return cmd
}

func serve(ctx context.Context, addr string, h http.Handler, sess *session.Session, log *zap.Logger) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", addr))
		errc <- hs.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	sess.Clear()
	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdown); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
