package config

import (
	"testing"

	"github.com/shopspring/decimal"

	"trust-reconciliation-service/internal/reporter"
	"trust-reconciliation-service/pkg/logger"
)

func TestCreateComplianceConfig(t *testing.T) {
	tests := []struct {
		name              string
		balanceTolerance  float64
		dateToleranceDays int
		expectedBalance   decimal.Decimal
		expectedDateDays  int
	}{
		{
			name:              "defaults when zero",
			balanceTolerance:  0,
			dateToleranceDays: 0,
			expectedBalance:   decimal.NewFromFloat(0.01),
			expectedDateDays:  5,
		},
		{
			name:              "overrides applied",
			balanceTolerance:  0.05,
			dateToleranceDays: 3,
			expectedBalance:   decimal.NewFromFloat(0.05),
			expectedDateDays:  3,
		},
		{
			name:              "negative values keep defaults",
			balanceTolerance:  -1.0,
			dateToleranceDays: -2,
			expectedBalance:   decimal.NewFromFloat(0.01),
			expectedDateDays:  5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := CreateComplianceConfig(tt.balanceTolerance, tt.dateToleranceDays)

			if !cfg.BalanceTolerance.Equal(tt.expectedBalance) {
				t.Errorf("expected balance tolerance %s, got %s", tt.expectedBalance, cfg.BalanceTolerance)
			}
			if !cfg.Matching.BalanceTolerance.Equal(tt.expectedBalance) {
				t.Errorf("expected matching balance tolerance %s, got %s", tt.expectedBalance, cfg.Matching.BalanceTolerance)
			}
			if cfg.Matching.DateMatchToleranceDays != tt.expectedDateDays {
				t.Errorf("expected date tolerance %d days, got %d", tt.expectedDateDays, cfg.Matching.DateMatchToleranceDays)
			}

			if err := cfg.Validate(); err != nil {
				t.Errorf("compliance config should be valid: %v", err)
			}
		})
	}
}

func TestCreateReportConfig(t *testing.T) {
	tests := []struct {
		name        string
		format      string
		expected    reporter.OutputFormat
		expectValid bool
	}{
		{
			name:        "console format",
			format:      "console",
			expected:    reporter.FormatConsole,
			expectValid: true,
		},
		{
			name:        "json format",
			format:      "json",
			expected:    reporter.FormatJSON,
			expectValid: true,
		},
		{
			name:        "csv format",
			format:      "csv",
			expected:    reporter.FormatCSV,
			expectValid: true,
		},
		{
			name:        "unknown format carried through",
			format:      "xml",
			expected:    reporter.OutputFormat("xml"),
			expectValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := CreateReportConfig(tt.format)

			if cfg.Format != tt.expected {
				t.Errorf("expected format %s, got %s", tt.expected, cfg.Format)
			}
			if cfg.CSVDelimiter != ',' {
				t.Errorf("expected CSV delimiter ',', got '%c'", cfg.CSVDelimiter)
			}
			if !cfg.IncludeRecommendations {
				t.Error("expected IncludeRecommendations to default to true")
			}

			err := cfg.Validate()
			if tt.expectValid && err != nil {
				t.Errorf("report config should be valid: %v", err)
			}
			if !tt.expectValid && err == nil {
				t.Error("expected validation error for unknown format")
			}
		})
	}
}

func TestCreateLoggerConfig(t *testing.T) {
	quiet := CreateLoggerConfig(false)
	if quiet.Level != logger.InfoLevel {
		t.Errorf("expected info level, got %s", quiet.Level)
	}
	if quiet.Output != logger.StderrOutput {
		t.Errorf("expected stderr output, got %s", quiet.Output)
	}

	verbose := CreateLoggerConfig(true)
	if verbose.Level != logger.DebugLevel {
		t.Errorf("expected debug level, got %s", verbose.Level)
	}

	for _, cfg := range []*logger.Config{quiet, verbose} {
		if err := cfg.Validate(); err != nil {
			t.Errorf("logger config should be valid: %v", err)
		}
	}
}
