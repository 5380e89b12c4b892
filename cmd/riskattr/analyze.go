package main

import (
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run point, rolling and direct bootstrap attribution together",
	RunE:  runAnalyze,
}

func init() {
	addInputFlags(analyzeCmd, true)
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.close()

	ctx := cmd.Context()
	report, err := s.app.Analyze(ctx, rollingInput())
	if err != nil {
		return err
	}
	return s.emit(ctx, cmd, report)
}
