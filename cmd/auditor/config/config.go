// Package config assembles component configurations from CLI inputs.
package config

import (
	"github.com/shopspring/decimal"

	"trust-reconciliation-service/internal/compliance"
	"trust-reconciliation-service/internal/reporter"
	"trust-reconciliation-service/pkg/logger"
)

// CreateComplianceConfig creates a compliance engine configuration with CLI
// overrides applied on top of the defaults. Zero or negative overrides keep
// the default value.
func CreateComplianceConfig(balanceTolerance float64, dateToleranceDays int) *compliance.Config {
	cfg := compliance.DefaultConfig()

	if balanceTolerance > 0 {
		cfg.BalanceTolerance = decimal.NewFromFloat(balanceTolerance)
		cfg.Matching.BalanceTolerance = cfg.BalanceTolerance
	}
	if dateToleranceDays > 0 {
		cfg.Matching.DateMatchToleranceDays = dateToleranceDays
	}

	return cfg
}

// CreateReportConfig creates a report rendering configuration for the given
// output format.
func CreateReportConfig(format string) *reporter.ReportConfig {
	cfg := reporter.DefaultReportConfig()
	cfg.Format = reporter.OutputFormat(format)
	return cfg
}

// CreateLoggerConfig creates a logger configuration for CLI usage
func CreateLoggerConfig(verbose bool) *logger.Config {
	if verbose {
		return logger.DebugConfig()
	}
	return logger.DefaultConfig()
}
