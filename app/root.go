// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/folio-cms/folio/internal/config"
	"github.com/folio-cms/folio/internal/logger"
)

var (
	configPath string // directory holding main.toml
	cfg        config.Config

	rootCmd = &cobra.Command{
		Use:   "folio",
		Short: "Folio is the content backend of a photography portfolio",
		Long: `Folio serves the public content api of a photography portfolio
and the admin api its editors use to manage photos, pricing, the blog and messages.`,
		Args:          cobra.OnlyValidArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			var err error

			if cfg, err = config.ReadConfig(configPath); err != nil {
				return err
			}

			return logger.Init(cfg.Log)
		},
	}
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./etc/", "directory of main.toml")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
