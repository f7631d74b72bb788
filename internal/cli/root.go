// Package cli implements the echoes command line.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/llehouerou/echoes/internal/config"
	"github.com/llehouerou/echoes/internal/logger"
)

var (
	cfgFile string
	verbose bool

	cfg        *config.Config
	logCleanup = func() {}
)

var rootCmd = &cobra.Command{
	Use:   "echoes",
	Short: "Play tracks from an echoes server in the terminal",
	Long: `Echoes streams tracks from an echoes server, with a play queue,
shuffle and repeat modes, likes and follows, and desktop media controls.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.config/echoes/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

func initConfig() error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	lc := cfg.GetLogConfig()
	if verbose {
		lc.Level = "debug"
	}
	_, cleanup, err := logger.Init(logger.Config{
		Level:      lc.Level,
		File:       lc.File,
		MaxSizeMB:  lc.MaxSizeMB,
		MaxBackups: lc.MaxBackups,
		MaxAgeDays: lc.MaxAgeDays,
		Compress:   lc.Compress,
	})
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	logCleanup = cleanup
	zap.L().Debug("config loaded", zap.String("api_url", cfg.GetAPIConfig().URL))
	return nil
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	logCleanup()
	if err != nil {
		os.Exit(1)
	}
}
