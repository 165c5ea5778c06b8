package main

import (
	"context"
	"fmt"
	"io"

	"github.com/iwvelando/rental-tax/internal/calculator"
	"github.com/iwvelando/rental-tax/internal/config"
	"github.com/iwvelando/rental-tax/internal/server"
	"github.com/iwvelando/rental-tax/pkg/constants"
	"github.com/iwvelando/rental-tax/pkg/output"
	"github.com/iwvelando/rental-tax/pkg/validation"
	"go.uber.org/zap"
)

const (
	defaultConfigFile       = constants.DefaultConfigFile
	defaultServerConfigFile = constants.DefaultServerConfigFile
)

type calculateOptions struct {
	configPath   string
	outputFormat string
	logLevel     string
	details      bool
	detailsSet   bool
}

type serveOptions struct {
	configPath  string
	address     string
	maxBodySize string
	logLevel    string
}

func runCalculate(w io.Writer, opts calculateOptions) error {
	conf, err := config.LoadConfiguration(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration at %s: %w", opts.configPath, err)
	}

	logger, err := initializeLogger(conf.Logging, opts.logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI override takes precedence over config
	outputFormat := conf.Output.Format
	if opts.outputFormat != "" {
		outputFormat = opts.outputFormat
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Error(err.Error(), zap.String("op", "main.runCalculate"))
		return err
	}

	details := conf.Output.Details
	if opts.detailsSet {
		details = opts.details
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main.runCalculate"),
		)
	}

	reports, err := calculator.Run(logger, *conf)
	if err != nil {
		logger.Error("failed to calculate scenarios",
			zap.String("op", "main.runCalculate"),
			zap.Error(err),
		)
		return err
	}

	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(w, reports, details)
	case constants.OutputFormatCSV:
		if err := output.CsvFormat(w, reports); err != nil {
			logger.Error("failed to write CSV output",
				zap.String("op", "main.runCalculate"),
				zap.Error(err),
			)
			return err
		}
	}

	return nil
}

func runServe(ctx context.Context, opts serveOptions) error {
	cfg, err := server.LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load server configuration at %s: %w", opts.configPath, err)
	}

	if opts.address != "" {
		cfg.Address = opts.address
	}
	if opts.maxBodySize != "" {
		size, err := server.ParseSize(opts.maxBodySize)
		if err != nil {
			return fmt.Errorf("invalid max body size: %w", err)
		}
		cfg.SetBodySizeBytes(size)
	}

	logger, err := initializeLogger(cfg.Logging, opts.logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := server.Serve(ctx, logger, cfg, version); err != nil {
		logger.Error("server stopped with error",
			zap.String("op", "main.runServe"),
			zap.Error(err),
		)
		return err
	}
	return nil
}
