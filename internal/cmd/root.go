// Package cmd provides the entrypoint and CLI command configuration for
// fastcurate.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"fastCurate/config"
	"fastCurate/infra/logx"
)

// Execute builds the root command and runs it.
func Execute(version string) error {
	return newRootCmd(version).ExecuteContext(context.Background())
}

func newRootCmd(version string) *cobra.Command {
	var (
		o          runOptions
		configPath string
		logLevel   string
		workers    int
		maxSpikes  int
		seed       uint64
	)
	rootCmd := &cobra.Command{
		Use:          "fastcurate",
		Short:        "Compute per-unit autocorrelograms from sorted spike trains.",
		Args:         cobra.NoArgs,
		Version:      version,
		SilenceUsage: true,
	}

	rootCmd.Flags().StringVarP(&o.input, "input", "i", "", "recording json: {sampling_rate, units: {id: [samples]}}")
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "yaml config file")
	rootCmd.Flags().StringSliceVarP(&o.presets, "preset", "p", []string{"narrow", "wide"}, "correlogram presets to compute")
	rootCmd.Flags().Float64Var(&o.windowMs, "window-ms", 0, "full window width in ms (overrides --preset)")
	rootCmd.Flags().Float64Var(&o.binMs, "bin-ms", 0, "bin width in ms (overrides --preset)")
	rootCmd.Flags().IntVar(&workers, "workers", 0, "parallel units, 0 uses config or all CPUs")
	rootCmd.Flags().IntVar(&maxSpikes, "max-spikes", -1, "random spikes kept per unit, 0 keeps all")
	rootCmd.Flags().Uint64Var(&seed, "seed", 0, "subsampling seed")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "override log level")
	rootCmd.Flags().BoolVar(&o.compact, "compact", false, "single-line json output")
	_ = rootCmd.MarkFlagRequired("input")

	rootCmd.RunE = func(cmd *cobra.Command, _ []string) error {
		c := config.Default()
		if configPath != "" {
			if err := config.Init(configPath); err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			cc := *config.Get()
			c = &cc
		}
		if cmd.Flags().Changed("workers") {
			c.Workers = workers
		}
		if cmd.Flags().Changed("max-spikes") {
			c.MaxSpikesPerUnit = maxSpikes
		}
		if cmd.Flags().Changed("seed") {
			c.Seed = seed
		}
		if logLevel != "" {
			c.Log.Level = logLevel
		}

		log, closer, err := logx.New(c.Log)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer func() {
			_ = closer.Close()
		}()

		return run(cmd.Context(), c, o, log, cmd.OutOrStdout())
	}

	return rootCmd
}
