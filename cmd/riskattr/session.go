package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/newthinker/riskattr/internal/app"
	"github.com/newthinker/riskattr/internal/attribution"
	"github.com/newthinker/riskattr/internal/config"
	"github.com/newthinker/riskattr/internal/core"
	"github.com/newthinker/riskattr/internal/logger"
)

// session is the state of one command invocation
type session struct {
	app   *app.App
	log   *zap.Logger
	runID string
}

func newSession() (*session, error) {
	log, runID := logger.ForRun(logger.Must(debug))

	// Load config
	var cfg *config.Config
	var err error

	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	} else {
		cfg = config.Defaults()
		log.Warn("no config file specified, using defaults")
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	a, err := app.New(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}
	return &session{app: a, log: log, runID: runID}, nil
}

// close flushes metrics and logs
func (s *session) close() {
	if err := s.app.FlushMetrics(); err != nil {
		s.log.Warn("metrics not written", zap.Error(err))
	}
	_ = s.log.Sync()
}

// emit writes v to stdout and, when --save is set, to storage
func (s *session) emit(ctx context.Context, cmd *cobra.Command, v any) error {
	if err := s.app.Write(cmd.OutOrStdout(), v); err != nil {
		return fmt.Errorf("writing result: %w", err)
	}
	if saveName == "" {
		return nil
	}
	p, err := s.app.Save(ctx, saveName, v)
	if err != nil {
		return err
	}
	s.log.Info("result saved", zap.String("path", p))
	return nil
}

// Flags shared by the analysis commands
var (
	dependent    int
	independents []int
	window       int
	saveName     string
)

func addInputFlags(cmd *cobra.Command, withWindow bool) {
	cmd.Flags().IntVarP(&dependent, "dependent", "y", 0, "dependent asset id (required)")
	cmd.Flags().IntSliceVarP(&independents, "independent", "x", nil, "independent asset ids, in order (required)")
	cmd.Flags().StringVar(&saveName, "save", "", "also store the result as results/<name> in storage")
	cmd.MarkFlagRequired("dependent")
	cmd.MarkFlagRequired("independent")
	if withWindow {
		cmd.Flags().IntVarP(&window, "window", "w", 0, "rolling window length (default from config)")
	}
}

func regressionInput() attribution.RegressionInput {
	ids := make([]core.AssetID, len(independents))
	for i, id := range independents {
		ids[i] = core.AssetID(id)
	}
	return attribution.RegressionInput{Dependent: core.AssetID(dependent), Independents: ids}
}

func rollingInput() attribution.RollingRegressionInput {
	return attribution.RollingRegressionInput{RegressionInput: regressionInput(), Window: window}
}
