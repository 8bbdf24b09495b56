package reporter

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trust-reconciliation-service/pkg/errors"
)

func TestNewSafeRendererRejectsBadFormat(t *testing.T) {
	cfg := DefaultReportConfig()
	cfg.Format = "xml"

	_, err := NewSafeRenderer(cfg, nil)
	require.Error(t, err)

	auditorErr, ok := errors.AsAuditorError(err)
	require.True(t, ok)
	assert.Equal(t, errors.CategoryConfiguration, auditorErr.Category)
	assert.Equal(t, errors.CodeInvalidConfig, auditorErr.Code)
}

func TestRenderSafelyNilReport(t *testing.T) {
	renderer, err := NewSafeRenderer(DefaultReportConfig(), nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	err = renderer.RenderSafely(nil, &buf)
	require.Error(t, err)

	auditorErr, ok := errors.AsAuditorError(err)
	require.True(t, ok)
	assert.Equal(t, errors.CategoryValidation, auditorErr.Category)
	assert.Equal(t, errors.CodeMissingField, auditorErr.Code)
}

func TestRenderSafelyNilWriter(t *testing.T) {
	renderer, err := NewSafeRenderer(DefaultReportConfig(), nil)
	require.NoError(t, err)

	err = renderer.RenderSafely(buildReport(t, nil), nil)
	require.Error(t, err)

	auditorErr, ok := errors.AsAuditorError(err)
	require.True(t, ok)
	assert.Equal(t, errors.CodeMissingField, auditorErr.Code)
}

func TestRenderSafelyConsole(t *testing.T) {
	renderer, err := NewSafeRenderer(DefaultReportConfig(), nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, renderer.RenderSafely(buildReport(t, nil), &buf))
	assert.Contains(t, buf.String(), "TRUST ACCOUNT COMPLIANCE REPORT")
}

// jsonRejectingWriter fails any write that looks like a JSON document but
// accepts plain text, so the console fallback path can be observed.
type jsonRejectingWriter struct{ buf bytes.Buffer }

func (w *jsonRejectingWriter) Write(p []byte) (int, error) {
	if len(p) > 0 && p[0] == '{' {
		return 0, fmt.Errorf("serialization sink rejected payload")
	}
	return w.buf.Write(p)
}

func TestRenderSafelyFallsBackToConsole(t *testing.T) {
	cfg := DefaultReportConfig()
	cfg.Format = FormatJSON

	renderer, err := NewSafeRenderer(cfg, nil)
	require.NoError(t, err)

	writer := &jsonRejectingWriter{}
	require.NoError(t, renderer.RenderSafely(buildReport(t, nil), writer))

	out := writer.buf.String()
	assert.Contains(t, out, "NOTE: report rendered in console format")
	assert.Contains(t, out, "TRUST ACCOUNT COMPLIANCE REPORT")
}
