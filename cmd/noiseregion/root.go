// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/katalvlaran/noiseregions/biome"
	"github.com/katalvlaran/noiseregions/config"
	"github.com/katalvlaran/noiseregions/noise"
)

type globalFlags struct {
	configPath string
	envFile    string
	logLevel   string
	biomeScale float64
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:           "noiseregion",
		Short:         "Partition a world area into labelled regions using cellular noise",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return loadEnv(g.envFile, cmd.Flags().Changed("env-file"))
		},
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&g.configPath, "config", "c", "", "YAML config file")
	pf.StringVar(&g.envFile, "env-file", ".env", "dotenv file with NOISEREGIONS_* overrides")
	pf.StringVar(&g.logLevel, "log-level", "info", "debug, info, warn or error")
	pf.Float64Var(&g.biomeScale, "biome-frequency", 0.004, "frequency of the synthetic biome map")

	root.AddCommand(newRunCmd(g), newServeCmd(g), newConfigCmd(g))
	return root
}

// loadEnv reads path into the process environment. A missing default file is
// not an error; a missing explicit one is.
func loadEnv(path string, explicit bool) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if err != nil && !explicit && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (g *globalFlags) logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(g.logLevel)
	if err != nil {
		return nil, fmt.Errorf("--log-level: %w", err)
	}
	cfg := zap.NewProductionConfig()
	if level == zapcore.DebugLevel {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	return cfg.Build()
}

func (g *globalFlags) load() (config.Config, error) {
	return config.Load(g.configPath)
}

// biomes builds the category lookup. A zero seed picks a random world.
func (g *globalFlags) biomes(seed int64) (*biome.Map, error) {
	if seed == 0 {
		seed = noise.RandomSeed()
	}
	return biome.NewMap(seed, g.biomeScale)
}

func newConfigCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			out, err := cfg.YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
