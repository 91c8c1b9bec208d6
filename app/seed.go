package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/folio-cms/folio/internal/daemon"
)

func init() { //nolint: gochecknoinits
	seedCmd.Flags().StringVar(&seedFile, "file", "", "YAML fixtures to load")
	_ = seedCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(seedCmd)
}

var (
	seedFile string

	seedCmd = &cobra.Command{
		Use:   "seed",
		Short: "Load content fixtures into the database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := daemon.SeedFile(cmd.Context(), &cfg, seedFile)
			if err != nil {
				return err
			}

			total := 0
			for _, n := range res.Items {
				total += n
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "seeded %d items and %d settings\n", total, res.Settings)

			return err
		},
	}
)
