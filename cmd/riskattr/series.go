package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/newthinker/riskattr/internal/core"
	"github.com/newthinker/riskattr/internal/seriesstore"
)

var seriesCmd = &cobra.Command{
	Use:   "series",
	Short: "Manage stored asset series",
}

var seriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List assets with a stored series",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.close()

		ids, err := s.app.Series().List(cmd.Context())
		if err != nil {
			return err
		}
		for _, id := range ids {
			fmt.Fprintln(cmd.OutOrStdout(), id)
		}
		return nil
	},
}

var seriesImportCmd = &cobra.Command{
	Use:   "import <asset-id> <file.csv>",
	Short: "Validate a CSV series and store it under an asset id",
	Long: `Imports a two-column CSV file. A date,close header stores a price
series; a date,return header stores a factor series. Dates are YYYY-MM-DD.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := core.ParseAssetID(args[0])
		if err != nil {
			return err
		}
		data, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[1], err)
		}
		src, err := seriesstore.Decode(data)
		if err != nil {
			return fmt.Errorf("%s: %w", args[1], err)
		}

		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.close()

		if err := s.app.Series().Save(cmd.Context(), id, src); err != nil {
			return err
		}
		s.log.Info("series imported",
			zap.Stringer("asset", id),
			zap.String("kind", string(src.Kind())),
			zap.Int("returns", len(src.Dates())),
		)
		return nil
	},
}

func init() {
	seriesCmd.AddCommand(seriesListCmd, seriesImportCmd)
	rootCmd.AddCommand(seriesCmd)
}
