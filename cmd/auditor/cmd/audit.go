package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"trust-reconciliation-service/cmd/auditor/config"
	"trust-reconciliation-service/internal/compliance"
	"trust-reconciliation-service/internal/loader"
	"trust-reconciliation-service/internal/reporter"
	"trust-reconciliation-service/pkg/errors"
	"trust-reconciliation-service/pkg/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flags for the audit command
var (
	inputFile        string
	outputFormat     string
	outputFile       string
	referenceDate    string
	balanceTolerance float64
	dateTolerance    int
)

// auditCmd represents the audit command
var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Audit a trust account reconciliation snapshot",
	Long: `Audit runs the full compliance pipeline over a reconciliation snapshot:
three-way balance reconciliation, negative client balance detection,
bank/ledger transaction matching, reconciliation schedule checking, and
compliance scoring.

The snapshot is a single JSON file holding the account identity, the bank
statement balance, the trust ledger balance, client sub-ledgers, and both
transaction lists.

Examples:
  # Audit a snapshot with console output
  auditor audit --input snapshot.json

  # Machine-readable report written to a file
  auditor audit --input snapshot.json --output-format json --output-file report.json

  # Override the evaluation date and matching tolerances
  auditor audit --input snapshot.json --reference-date 2024-07-31 \
    --balance-tolerance 0.05 --date-tolerance 3`,

	PreRunE: validateAuditFlags,
	RunE:    runAudit,
}

func init() {
	rootCmd.AddCommand(auditCmd)

	auditCmd.Flags().StringVarP(&inputFile, "input", "i", "", "path to reconciliation snapshot JSON file (required)")

	auditCmd.Flags().StringVarP(&outputFormat, "output-format", "f", "console", "output format: console, json, csv")
	auditCmd.Flags().StringVarP(&outputFile, "output-file", "o", "", "output file path (default: stdout)")

	auditCmd.Flags().StringVar(&referenceDate, "reference-date", "", "evaluation date override (YYYY-MM-DD, default: snapshot's reconciliationDate)")
	auditCmd.Flags().Float64Var(&balanceTolerance, "balance-tolerance", 0, "absolute balance agreement tolerance (default 0.01)")
	auditCmd.Flags().IntVarP(&dateTolerance, "date-tolerance", "d", 0, "fuzzy match date tolerance in days (default 5)")

	auditCmd.MarkFlagRequired("input")

	viper.BindPFlag("input", auditCmd.Flags().Lookup("input"))
	viper.BindPFlag("output-format", auditCmd.Flags().Lookup("output-format"))
	viper.BindPFlag("output-file", auditCmd.Flags().Lookup("output-file"))
	viper.BindPFlag("reference-date", auditCmd.Flags().Lookup("reference-date"))
	viper.BindPFlag("balance-tolerance", auditCmd.Flags().Lookup("balance-tolerance"))
	viper.BindPFlag("date-tolerance", auditCmd.Flags().Lookup("date-tolerance"))
}

func validateAuditFlags(cmd *cobra.Command, args []string) error {
	inputFile = viper.GetString("input")
	outputFormat = viper.GetString("output-format")
	outputFile = viper.GetString("output-file")
	referenceDate = viper.GetString("reference-date")
	balanceTolerance = viper.GetFloat64("balance-tolerance")
	dateTolerance = viper.GetInt("date-tolerance")

	if inputFile == "" {
		return fmt.Errorf("input is required")
	}

	if err := validateFileExists(inputFile, "snapshot file"); err != nil {
		return err
	}

	if !reporter.OutputFormat(outputFormat).IsValid() {
		return fmt.Errorf("invalid output format '%s'. Valid formats: console, json, csv", outputFormat)
	}

	if referenceDate != "" {
		if _, err := time.Parse("2006-01-02", referenceDate); err != nil {
			return fmt.Errorf("invalid reference date format. Use YYYY-MM-DD: %w", err)
		}
	}

	if balanceTolerance < 0 {
		return fmt.Errorf("balance tolerance cannot be negative")
	}
	if dateTolerance < 0 {
		return fmt.Errorf("date tolerance cannot be negative")
	}

	if outputFile != "" {
		dir := filepath.Dir(outputFile)
		if dir != "." {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				return fmt.Errorf("output directory does not exist: %s", dir)
			}
		}
	}

	return nil
}

func validateFileExists(filePath, description string) error {
	if filePath == "" {
		return fmt.Errorf("%s path cannot be empty", description)
	}

	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return fmt.Errorf("%s does not exist: %s", description, filePath)
	}
	if err != nil {
		return fmt.Errorf("error accessing %s: %w", description, err)
	}

	if info.IsDir() {
		return fmt.Errorf("%s is a directory, expected a file: %s", description, filePath)
	}

	return nil
}

func runAudit(cmd *cobra.Command, args []string) error {
	log, err := logger.NewLogger(config.CreateLoggerConfig(viper.GetBool("verbose")))
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.SetGlobalLogger(log)

	snapshot, err := loader.NewLoader(log).Load(inputFile)
	if err != nil {
		return err
	}

	if referenceDate != "" {
		date, err := time.Parse("2006-01-02", referenceDate)
		if err != nil {
			return fmt.Errorf("invalid reference date: %w", err)
		}
		snapshot.ReconciliationDate = date
	}

	complianceConfig := config.CreateComplianceConfig(balanceTolerance, dateTolerance)
	if err := complianceConfig.Validate(); err != nil {
		return errors.ConfigurationError(errors.CodeInvalidConfig, "compliance", nil, err)
	}

	service := compliance.NewService(compliance.NewGenerator(complianceConfig), log)
	report, err := service.Audit(snapshot)
	if err != nil {
		return err
	}

	renderer, err := reporter.NewSafeRenderer(config.CreateReportConfig(outputFormat), log)
	if err != nil {
		return fmt.Errorf("failed to create report renderer: %w", err)
	}

	output := os.Stdout
	if outputFile != "" {
		output, err = os.Create(outputFile)
		if err != nil {
			return errors.FileError(errors.CodeFileWrite, outputFile, err)
		}
		defer output.Close()
	}

	if err := renderer.RenderSafely(report, output); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "\nAudit completed.\n")
		fmt.Fprintf(os.Stderr, "Compliance score: %d/100 (%s)\n", report.ComplianceScore, report.ComplianceStatus)
		fmt.Fprintf(os.Stderr, "Issues found: %d\n", len(report.ComplianceIssues))
	}

	return nil
}
