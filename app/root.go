// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/fitcircle/fitcircle/internal/config"
	"github.com/fitcircle/fitcircle/internal/logger"
)

var (
	configPath string // Path to the configuration directory
	devMode    bool

	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "fitcircle",
	Short: "FitCircle is the API of a social fitness group app",
	Long: `FitCircle serves fitness groups: memberships, a feed with reactions and comments,
group chat with a live stream, and the moderation tools of group admins.`,
	Args:          cobra.OnlyValidArgs,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./etc/", "Path to the configuration directory")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the configuration and initializes the logger.
func loadConfig() error {
	var err error

	if cfg, err = config.ReadConfig(configPath); err != nil {
		return err
	}

	if devMode {
		cfg.DevMode = true
	}

	return logger.Init(cfg.Log)
}
