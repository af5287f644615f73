package cmd

import (
	"fmt"

	"momentumlab/api"
	"momentumlab/internal/app"
	"momentumlab/internal/config"
	"momentumlab/internal/data"
	"momentumlab/internal/logger"
	"momentumlab/internal/report"

	"go.uber.org/zap"
)

type Dependencies struct {
	Config     *config.Config
	Logger     *zap.SugaredLogger
	LabHandler app.LabHandler
}

// InitializeDependencies loads config from configPath (empty means defaults
// plus env) and wires the loader and lab handler
func InitializeDependencies(configPath string) (*Dependencies, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	log := logger.NewWithLevel(cfg.Logging.Level)

	loader, err := data.NewPriceLoader(cfg.Data.Format, cfg.Data.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to create price loader: %w", err)
	}

	return &Dependencies{
		Config: cfg,
		Logger: log,
		LabHandler: app.LabHandler{
			Config: cfg,
			Loader: loader,
		},
	}, nil
}

// NewApiHandler serves the report at the configured output path until the
// first run, if one exists
func (d Dependencies) NewApiHandler() api.ApiHandler {
	var initial map[string]any
	if d.Config.Data.OutputPath != "" {
		r, err := report.Read(d.Config.Data.OutputPath)
		if err != nil {
			d.Logger.Infof("no existing report at %s: %v", d.Config.Data.OutputPath, err)
		} else {
			initial = r
		}
	}
	h := api.NewApiHandler(d.LabHandler, initial)
	h.Logger = d.Logger
	return h
}
