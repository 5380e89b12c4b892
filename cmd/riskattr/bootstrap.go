package main

import (
	"github.com/spf13/cobra"

	"github.com/newthinker/riskattr/internal/app"
)

var bootstrapMethod string

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Bootstrap confidence intervals for the coefficients",
	Long: `Bootstraps confidence intervals for the intercept and every coefficient.

  --method direct   resamples the residuals of the full-history regression
  --method rolling  resamples the per-window outputs of a rolling attribution`,
	RunE: runBootstrap,
}

func init() {
	addInputFlags(bootstrapCmd, true)
	bootstrapCmd.Flags().StringVarP(&bootstrapMethod, "method", "m", string(app.BootstrapDirect), "rolling or direct")
	rootCmd.AddCommand(bootstrapCmd)
}

func runBootstrap(cmd *cobra.Command, args []string) error {
	method, err := app.ParseBootstrapMethod(bootstrapMethod)
	if err != nil {
		return err
	}

	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.close()

	ctx := cmd.Context()
	res, err := s.app.Bootstrap(ctx, rollingInput(), method)
	if err != nil {
		return err
	}
	return s.emit(ctx, cmd, res)
}
