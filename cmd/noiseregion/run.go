// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/noiseregions/config"
	"github.com/katalvlaran/noiseregions/progress"
	"github.com/katalvlaran/noiseregions/session"
	"github.com/katalvlaran/noiseregions/store"
)

func newRunCmd(g *globalFlags) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate, cluster, classify and save in one go",
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
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, g, cfg, store.File{Path: out}, log)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "polygons.geojson", "output file; a .zst suffix compresses it")
	return cmd
}

func run(ctx context.Context, g *globalFlags, cfg config.Config, saver store.Saver, log *zap.Logger) error {
	lookup, err := g.biomes(cfg.Seed)
	if err != nil {
		return err
	}
	classifier, err := cfg.Classifier(lookup)
	if err != nil {
		return err
	}
	sess := session.New(session.WithLogger(log))

	h, err := sess.Generate(ctx, cfg.Bounds(), cfg.NoiseParams())
	if err != nil {
		return err
	}
	follow(ctx, "generate", h, cfg.ProgressInterval, log)
	if ctx.Err() != nil {
		return ctx.Err()
	}

	h, err = sess.ClusterAndClassify(ctx, session.Spec{
		Classifier: classifier,
		Options:    cfg.PipelineOptions(log),
	})
	if err != nil {
		return err
	}
	follow(ctx, "create", h, cfg.ProgressInterval, log)

	res := sess.LastResult()
	for _, f := range res.Failures {
		log.Warn("bucket failed", zap.Int("bucket", f.Bucket), zap.Error(f.Err))
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	e := store.Export{RunID: sess.RunID(), Polygons: sess.Polygons()}
	if err = saver.Save(ctx, e); err != nil {
		return err
	}
	log.Info("saved", zap.Int("polygons", len(e.Polygons)), zap.Stringer("run", e.RunID))
	return nil
}

// follow logs h's progress every interval and blocks until h is done. A
// cancelled ctx cancels h.
func follow(ctx context.Context, name string, h session.Handle, interval time.Duration, log *zap.Logger) {
	stop := context.AfterFunc(ctx, h.Cancel)
	defer stop()

	progress.Watch(ctx, h.Progress, h.Done(), interval, func(s progress.Snapshot) {
		log.Info(name, zap.Stringer("progress", s))
	})
	<-h.Done()
	log.Info(name+" finished", zap.Stringer("progress", h.Progress()))
}
