// Package loader reads reconciliation snapshot files from disk into the
// model types the compliance engine consumes.
//
// A snapshot is a single JSON document holding everything one audit run
// needs: account identity, the three balances, client sub-ledgers, and both
// transaction lists. The loader handles the flexible date formats snapshots
// arrive with and reports file and format problems through the application
// error taxonomy so the CLI can exit with the right code.
package loader

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"trust-reconciliation-service/internal/models"
	"trust-reconciliation-service/pkg/errors"
	"trust-reconciliation-service/pkg/logger"
)

// maxSnapshotSize bounds how much of a snapshot the loader will read.
// Real snapshots are a few hundred KB; the generous 64 MB ceiling only
// guards against being pointed at the wrong file. Anything over the limit
// is rejected outright rather than truncated.
const maxSnapshotSize = 64 << 20

// Loader reads reconciliation snapshots
type Loader struct {
	log logger.Logger
}

// NewLoader creates a snapshot loader. A nil logger falls back to the
// global logger.
func NewLoader(log logger.Logger) *Loader {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Loader{log: log.WithComponent("loader")}
}

// Load reads and decodes the snapshot at path
func (l *Loader) Load(path string) (*models.ReconciliationData, error) {
	return l.LoadWithContext(context.Background(), path)
}

// LoadWithContext reads and decodes the snapshot at path, honoring
// cancellation before the file is opened.
func (l *Loader) LoadWithContext(ctx context.Context, path string) (*models.ReconciliationData, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, errors.CodeUnexpectedError, "load cancelled")
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.FileError(errors.CodeFileNotFound, path, err)
		}
		if os.IsPermission(err) {
			return nil, errors.FileError(errors.CodeFilePermission, path, err)
		}
		return nil, errors.Wrap(err, errors.CategoryFile, errors.CodeFileNotFound,
			fmt.Sprintf("failed to open snapshot: %s", path))
	}
	defer file.Close()

	data, err := l.decode(io.LimitReader(file, maxSnapshotSize+1), path)
	if err != nil {
		return nil, err
	}

	l.log.WithFields(logger.Fields{
		"file":                path,
		"account_id":          data.AccountID,
		"client_ledgers":      len(data.ClientLedgers),
		"bank_transactions":   len(data.BankTransactions),
		"ledger_transactions": len(data.LedgerTransactions),
	}).Info("Snapshot loaded")

	return data, nil
}

// LoadFromReader decodes a snapshot from an already-open reader. The name
// argument only labels errors.
func (l *Loader) LoadFromReader(r io.Reader, name string) (*models.ReconciliationData, error) {
	return l.decode(r, name)
}

func (l *Loader) decode(r io.Reader, name string) (*models.ReconciliationData, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryFile, errors.CodeFileNotFound,
			fmt.Sprintf("failed to read snapshot: %s", name))
	}

	if len(raw) == 0 {
		return nil, errors.ParseError(errors.CodeInvalidFormat, name, "snapshot is empty", nil)
	}

	if len(raw) > maxSnapshotSize {
		return nil, errors.ParseError(errors.CodeInvalidFormat, name,
			fmt.Sprintf("snapshot exceeds the %d MB size limit", maxSnapshotSize>>20), nil)
	}

	data := &models.ReconciliationData{}
	if err := json.Unmarshal(raw, data); err != nil {
		var syntaxErr *json.SyntaxError
		if stderrors.As(err, &syntaxErr) {
			return nil, errors.ParseError(errors.CodeInvalidFormat, name,
				fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset), err)
		}
		return nil, errors.ParseError(errors.CodeInvalidData, name, err.Error(), err)
	}

	return data, nil
}
