package reporter

import (
	"fmt"
	"io"
	"os"

	"trust-reconciliation-service/internal/compliance"
	"trust-reconciliation-service/pkg/errors"
	"trust-reconciliation-service/pkg/logger"
)

// SafeRenderer wraps Renderer with input validation, structured logging,
// and a console fallback when the requested format fails to render.
type SafeRenderer struct {
	*Renderer
	logger logger.Logger
}

// NewSafeRenderer creates a safe renderer. A nil logger falls back to the
// global logger.
func NewSafeRenderer(config *ReportConfig, log logger.Logger) (*SafeRenderer, error) {
	if log == nil {
		log = logger.GetGlobalLogger()
	}

	renderer, err := NewRenderer(config)
	if err != nil {
		return nil, errors.ConfigurationError(
			errors.CodeInvalidConfig,
			"report_config",
			config,
			err,
		).WithSuggestion("Check the report configuration values")
	}

	return &SafeRenderer{
		Renderer: renderer,
		logger:   log.WithComponent("reporter"),
	}, nil
}

// RenderSafely renders the report, logging the outcome. A failure in a
// machine-readable format falls back to console output on the same writer
// so the audit result is never lost to a serialization problem.
func (sr *SafeRenderer) RenderSafely(report *compliance.ComplianceReport, writer io.Writer) error {
	sr.logger.WithFields(logger.Fields{
		"format": sr.config.Format,
		"output": writerDescription(writer),
	}).Info("Starting report rendering")

	if err := sr.validateInputs(report, writer); err != nil {
		sr.logger.WithError(err).Error("Report rendering failed: input validation")
		return err
	}

	if err := sr.renderWithFallback(report, writer); err != nil {
		sr.logger.WithError(err).Error("Report rendering failed")
		return err
	}

	sr.logger.WithField("report_id", report.ReportID).Info("Report rendering completed")
	return nil
}

func (sr *SafeRenderer) validateInputs(report *compliance.ComplianceReport, writer io.Writer) error {
	if report == nil {
		return errors.ValidationError(
			errors.CodeMissingField,
			"report",
			nil,
			nil,
		).WithSuggestion("Provide a generated compliance report")
	}

	if writer == nil {
		return errors.ValidationError(
			errors.CodeMissingField,
			"writer",
			nil,
			nil,
		).WithSuggestion("Provide a valid output writer")
	}

	return nil
}

// renderWithFallback tries the configured format first. Console is its own
// fallback, so a console failure is terminal.
func (sr *SafeRenderer) renderWithFallback(report *compliance.ComplianceReport, writer io.Writer) error {
	err := sr.Render(report, writer)
	if err == nil {
		return nil
	}

	if sr.config.Format == FormatConsole {
		return sr.wrapRenderError(err)
	}

	sr.logger.WithError(err).Warn("Primary rendering failed, falling back to console format")

	fallbackConfig := *sr.config
	fallbackConfig.Format = FormatConsole

	fallback, cfgErr := NewRenderer(&fallbackConfig)
	if cfgErr != nil {
		return sr.wrapRenderError(err)
	}

	fmt.Fprintf(writer, "NOTE: report rendered in console format; %s rendering failed: %v\n\n", sr.config.Format, err)

	if fbErr := fallback.Render(report, writer); fbErr != nil {
		return errors.InternalError(
			errors.CodeUnexpectedError,
			"report_fallback",
			fmt.Errorf("both %s and console rendering failed: %v; %v", sr.config.Format, err, fbErr),
		)
	}

	sr.logger.Info("Report rendered using console fallback")
	return nil
}

func (sr *SafeRenderer) wrapRenderError(err error) error {
	if auditorErr, ok := errors.AsAuditorError(err); ok {
		return auditorErr
	}

	return errors.InternalError(
		errors.CodeProcessingError,
		"report_rendering",
		err,
	).WithSuggestion("Check the output destination and report format settings")
}

func writerDescription(writer io.Writer) string {
	switch w := writer.(type) {
	case *os.File:
		if w.Name() != "" {
			return fmt.Sprintf("file:%s", w.Name())
		}
		return "file:unnamed"
	default:
		return fmt.Sprintf("writer:%T", writer)
	}
}
