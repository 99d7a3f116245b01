// Package cmd provides the entrypoint and CLI command configuration for the
// lazychart application.
package cmd

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"runtime/pprof"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/lazychart/lazychart/internal/config"
	"github.com/lazychart/lazychart/internal/devtools"
	"github.com/lazychart/lazychart/internal/logging"
	"github.com/lazychart/lazychart/internal/market"
	"github.com/lazychart/lazychart/internal/ui"
	"github.com/lazychart/lazychart/internal/ui/views"
)

func buildVersion(version, commit, date, builtBy string) string {
	result := version
	if commit != "" {
		result = fmt.Sprintf("%s\ncommit: %s", result, commit)
	}
	if date != "" {
		result = fmt.Sprintf("%s\nbuilt at: %s", result, date)
	}
	if builtBy != "" {
		result = fmt.Sprintf("%s\nbuilt by: %s", result, builtBy)
	}
	result = fmt.Sprintf("%s\ngoos: %s\ngoarch: %s", result, runtime.GOOS, runtime.GOARCH)
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Sum != "" {
		result = fmt.Sprintf("%s\nmodule version: %s, checksum: %s", result, info.Main.Version, info.Main.Sum)
	}

	return result
}

// Execute initializes and runs the lazychart terminal application.
func Execute(version, commit, date, builtBy string) error {
	var enableDangerousActions bool
	rootCmd := &cobra.Command{
		Use:   "lazychart",
		Short: "A terminal UI for OHLC market charts.",
		Long:  "A terminal UI for OHLC market charts.",
		Args:  cobra.NoArgs,
	}

	rootCmd.Version = buildVersion(version, commit, date, builtBy)
	rootCmd.SetVersionTemplate(`lazychart {{printf "version %s\n" .Version}}`)

	rootCmd.Flags().String(
		"cpuprofile",
		"",
		"write cpu profile to file",
	)

	rootCmd.Flags().BoolP(
		"help",
		"h",
		false,
		"help for lazychart",
	)

	rootCmd.Flags().String(
		"config",
		"",
		"path to the config file",
	)
	rootCmd.Flags().String(
		"api",
		"",
		"market-data API base URL",
	)
	rootCmd.Flags().String(
		"instrument",
		"",
		"instrument to chart on startup",
	)
	rootCmd.Flags().String(
		"granularity",
		"",
		"candle granularity (1m, 5m, 15m, 1h, 4h, 1d)",
	)
	rootCmd.Flags().String(
		"cache",
		"",
		"redis URL for the history page cache",
	)
	rootCmd.Flags().BoolVar(
		&enableDangerousActions,
		"danger",
		false,
		"enable dangerous operations",
	)
	rootCmd.Flags().SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		switch name {
		case "yolo":
			name = "danger"
		}
		return pflag.NormalizedName(name)
	})

	rootCmd.RunE = func(cmd *cobra.Command, _ []string) error {
		cpuprofile, err := cmd.Flags().GetString("cpuprofile")
		if err != nil {
			return fmt.Errorf("parse cpuprofile flag: %w", err)
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		logger, logCloser, err := logging.Setup(cfg.Log.Level, cfg.Log.File)
		if err != nil {
			return err
		}
		defer func() {
			_ = logCloser.Close()
		}()

		granularity, err := market.ParseGranularity(cfg.Chart.Granularity)
		if err != nil {
			return err
		}

		tracker := devtools.NewTracker()

		var cache *market.PageCache
		if cfg.Cache.URL != "" {
			cache, err = market.NewPageCache(cfg.Cache.URL, tracker.Hook())
			if err != nil {
				return fmt.Errorf("create page cache: %w", err)
			}
			cache.SetTTL(cfg.CacheTTL)
			defer func() {
				_ = cache.Close()
			}()
		}

		client, err := market.NewClient(
			cfg.API.URL,
			market.WithTimeout(cfg.APITimeout),
			market.WithTransport(tracker.Transport(nil)),
			market.WithCache(cache),
			market.WithLogger(logger),
		)
		if err != nil {
			return fmt.Errorf("create market client: %w", err)
		}
		defer func() {
			_ = client.Close()
		}()

		var profileFile *os.File
		if cpuprofile != "" {
			file, err := os.Create(cpuprofile)
			if err != nil {
				return fmt.Errorf("create cpuprofile file: %w", err)
			}
			profileFile = file
			if err := pprof.StartCPUProfile(profileFile); err != nil {
				_ = profileFile.Close()
				return fmt.Errorf("start cpu profile: %w", err)
			}
			defer func() {
				pprof.StopCPUProfile()
				_ = profileFile.Close()
			}()
		}

		app := ui.New(ui.Options{
			API:     client,
			Tracker: tracker,
			Cache:   cache,
			Chart: views.ChartConfig{
				Instrument:  cfg.Chart.Instrument,
				Granularity: granularity,
				PageSize:    cfg.Chart.PageSize,
				Refresh:     cfg.ChartRefresh,
			},
			Version:          version,
			DangerousActions: enableDangerousActions,
		})
		p := tea.NewProgram(app)
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("run lazychart: %w", err)
		}

		return nil
	}

	return fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(rootCmd.Version),
		fang.WithoutCompletions(),
		fang.WithoutManpage(),
	)
}

// loadConfig reads the config file and applies flag overrides on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("parse config flag: %w", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	overrides := map[string]*string{
		"api":         &cfg.API.URL,
		"instrument":  &cfg.Chart.Instrument,
		"granularity": &cfg.Chart.Granularity,
		"cache":       &cfg.Cache.URL,
	}
	for name, target := range overrides {
		if !cmd.Flags().Changed(name) {
			continue
		}
		value, err := cmd.Flags().GetString(name)
		if err != nil {
			return nil, fmt.Errorf("parse %s flag: %w", name, err)
		}
		*target = value
	}

	return cfg, nil
}
