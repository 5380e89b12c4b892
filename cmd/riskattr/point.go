package main

import (
	"github.com/spf13/cobra"
)

var pointCmd = &cobra.Command{
	Use:   "point",
	Short: "Attribute returns over the full shared history",
	Example: `  riskattr point -y 100 -x 1,2
  riskattr point -c config.yaml -y 100 -x 1,2 --save point-100`,
	RunE: runPoint,
}

func init() {
	addInputFlags(pointCmd, false)
	rootCmd.AddCommand(pointCmd)
}

func runPoint(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.close()

	ctx := cmd.Context()
	res, err := s.app.Point(ctx, regressionInput())
	if err != nil {
		return err
	}
	return s.emit(ctx, cmd, res)
}
