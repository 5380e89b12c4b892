package main

import (
	"github.com/spf13/cobra"
)

var rollingCmd = &cobra.Command{
	Use:   "rolling",
	Short: "Attribute returns over trailing windows",
	Long: `Fits one regression per trailing window of the shared date axis.
Each result reports against the first date after its window.`,
	RunE: runRolling,
}

func init() {
	addInputFlags(rollingCmd, true)
	rootCmd.AddCommand(rollingCmd)
}

func runRolling(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.close()

	ctx := cmd.Context()
	res, err := s.app.Rolling(ctx, rollingInput())
	if err != nil {
		return err
	}
	return s.emit(ctx, cmd, res)
}
