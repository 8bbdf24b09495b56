package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the direction of a bank transaction
type TransactionType string

const (
	// TransactionTypeCredit represents money entering the trust account
	TransactionTypeCredit TransactionType = "credit"
	// TransactionTypeDebit represents money leaving the trust account
	TransactionTypeDebit TransactionType = "debit"
)

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// IsValid checks if the transaction type is valid
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeCredit || t == TransactionTypeDebit
}

// LedgerEntryType represents the type of a trust ledger transaction
type LedgerEntryType string

const (
	LedgerEntryDeposit    LedgerEntryType = "deposit"
	LedgerEntryWithdrawal LedgerEntryType = "withdrawal"
	LedgerEntryTransfer   LedgerEntryType = "transfer"
	LedgerEntryAdjustment LedgerEntryType = "adjustment"
)

// String returns the string representation of LedgerEntryType
func (t LedgerEntryType) String() string {
	return string(t)
}

// IsValid checks if the ledger entry type is valid
func (t LedgerEntryType) IsValid() bool {
	switch t {
	case LedgerEntryDeposit, LedgerEntryWithdrawal, LedgerEntryTransfer, LedgerEntryAdjustment:
		return true
	default:
		return false
	}
}

// CompatibleWith reports whether a bank transaction direction can legitimately
// correspond to this ledger entry type. Transfers can appear on either side
// of the statement.
func (t LedgerEntryType) CompatibleWith(bankType TransactionType) bool {
	switch bankType {
	case TransactionTypeCredit:
		return t == LedgerEntryDeposit || t == LedgerEntryTransfer
	case TransactionTypeDebit:
		return t == LedgerEntryWithdrawal || t == LedgerEntryTransfer
	default:
		return false
	}
}

// ReconciliationFrequency represents how often the trust account must be reconciled
type ReconciliationFrequency string

const (
	FrequencyDaily     ReconciliationFrequency = "daily"
	FrequencyWeekly    ReconciliationFrequency = "weekly"
	FrequencyMonthly   ReconciliationFrequency = "monthly"
	FrequencyQuarterly ReconciliationFrequency = "quarterly"
)

// String returns the string representation of ReconciliationFrequency
func (f ReconciliationFrequency) String() string {
	return string(f)
}

// IsValid checks if the reconciliation frequency is valid
func (f ReconciliationFrequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyQuarterly:
		return true
	default:
		return false
	}
}

// Days returns the reconciliation cycle length in calendar days.
// Unknown frequencies fall back to the monthly cycle.
func (f ReconciliationFrequency) Days() int {
	switch f {
	case FrequencyDaily:
		return 1
	case FrequencyWeekly:
		return 7
	case FrequencyMonthly:
		return 30
	case FrequencyQuarterly:
		return 90
	default:
		return 30
	}
}

// Severity represents the severity band of a compliance finding
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityError    Severity = "error"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// String returns the string representation of Severity
func (s Severity) String() string {
	return string(s)
}

// IsValid checks if the severity is valid
func (s Severity) IsValid() bool {
	switch s {
	case SeverityCritical, SeverityError, SeverityWarning, SeverityInfo:
		return true
	default:
		return false
	}
}

// Rank returns the sort rank of the severity. Lower ranks sort first.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityError:
		return 1
	case SeverityWarning:
		return 2
	case SeverityInfo:
		return 3
	default:
		return 4
	}
}

// IssueType classifies a compliance issue
type IssueType string

const (
	IssueNegativeBalance       IssueType = "negative_balance"
	IssueReconciliationOverdue IssueType = "reconciliation_overdue"
	IssueUnmatchedTransaction  IssueType = "unmatched_transaction"
	IssueDiscrepancyDetected   IssueType = "discrepancy_detected"

	// Reserved issue types. Detectors for these are not implemented yet;
	// the constants exist so downstream consumers can switch exhaustively.
	IssueOverdraftRisk          IssueType = "overdraft_risk"
	IssueMissingDocumentation   IssueType = "missing_documentation"
	IssueUnauthorizedWithdrawal IssueType = "unauthorized_withdrawal"
	IssueComminglingRisk        IssueType = "commingling_risk"
)

// String returns the string representation of IssueType
func (t IssueType) String() string {
	return string(t)
}

// UnmatchedReason classifies why the matcher could not pair a transaction
type UnmatchedReason string

const (
	ReasonNoMatchFound     UnmatchedReason = "no_match_found"
	ReasonAmountMismatch   UnmatchedReason = "amount_mismatch"
	ReasonDateMismatch     UnmatchedReason = "date_mismatch"
	ReasonTimingDifference UnmatchedReason = "timing_difference"
)

// String returns the string representation of UnmatchedReason
func (r UnmatchedReason) String() string {
	return string(r)
}

// UnmatchedSource identifies which side of the reconciliation an unmatched
// transaction came from
type UnmatchedSource string

const (
	SourceBank   UnmatchedSource = "bank"
	SourceLedger UnmatchedSource = "ledger"
)

// String returns the string representation of UnmatchedSource
func (s UnmatchedSource) String() string {
	return string(s)
}

// ClientLedgerEntry is one client's sub-ledger snapshot within the trust
// account. A zero or positive balance is legal; a negative balance violates
// the zero-balance principle.
type ClientLedgerEntry struct {
	ClientID            string          `json:"clientId"`
	ClientName          string          `json:"clientName"`
	CaseID              string          `json:"caseId,omitempty"`
	Balance             decimal.Decimal `json:"balance"`
	LastTransactionDate *time.Time      `json:"lastTransactionDate,omitempty"`
}

// Validate performs basic validation on the ClientLedgerEntry
func (e *ClientLedgerEntry) Validate() error {
	if strings.TrimSpace(e.ClientID) == "" {
		return fmt.Errorf("client ID cannot be empty")
	}
	if strings.TrimSpace(e.ClientName) == "" {
		return fmt.Errorf("client name cannot be empty")
	}
	return nil
}

// BankTransaction is one line of the bank statement. Immutable input.
type BankTransaction struct {
	TransactionID string          `json:"transactionId"`
	Date          time.Time       `json:"date"`
	Amount        decimal.Decimal `json:"amount"`
	Type          TransactionType `json:"type"`
	Reference     string          `json:"reference,omitempty"`
	CheckNumber   string          `json:"checkNumber,omitempty"`
	Description   string          `json:"description,omitempty"`
	Cleared       bool            `json:"cleared"`
}

// Validate performs basic validation on the BankTransaction
func (bt *BankTransaction) Validate() error {
	if strings.TrimSpace(bt.TransactionID) == "" {
		return fmt.Errorf("bank transaction ID cannot be empty")
	}
	if !bt.Type.IsValid() {
		return fmt.Errorf("invalid bank transaction type: %s", bt.Type)
	}
	if bt.Date.IsZero() {
		return fmt.Errorf("bank transaction date cannot be zero")
	}
	return nil
}

// String returns a string representation of the BankTransaction
func (bt *BankTransaction) String() string {
	return fmt.Sprintf("BankTransaction{ID: %s, Amount: %s, Type: %s, Date: %s}",
		bt.TransactionID, bt.Amount.String(), bt.Type, bt.Date.Format("2006-01-02"))
}

// UnmarshalJSON implements custom JSON unmarshaling for BankTransaction,
// accepting date-only and timestamped date formats.
func (bt *BankTransaction) UnmarshalJSON(data []byte) error {
	type Alias BankTransaction
	aux := &struct {
		Date string `json:"date"`
		*Alias
	}{
		Alias: (*Alias)(bt),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	date, err := ParseDateWithFormats(aux.Date)
	if err != nil {
		return fmt.Errorf("invalid bank transaction date: %w", err)
	}
	bt.Date = date

	return nil
}

// MarshalJSON implements custom JSON marshaling for BankTransaction
func (bt *BankTransaction) MarshalJSON() ([]byte, error) {
	type Alias BankTransaction
	return json.Marshal(&struct {
		Date string `json:"date"`
		*Alias
	}{
		Date:  bt.Date.Format("2006-01-02"),
		Alias: (*Alias)(bt),
	})
}

// LedgerTransaction is one entry of the firm's trust ledger. Immutable input.
type LedgerTransaction struct {
	TransactionID string          `json:"transactionId"`
	Date          time.Time       `json:"date"`
	Amount        decimal.Decimal `json:"amount"`
	Type          LedgerEntryType `json:"type"`
	Reference     string          `json:"reference,omitempty"`
	CheckNumber   string          `json:"checkNumber,omitempty"`
	Reconciled    bool            `json:"reconciled"`
	ClientID      string          `json:"clientId,omitempty"`
}

// Validate performs basic validation on the LedgerTransaction
func (lt *LedgerTransaction) Validate() error {
	if strings.TrimSpace(lt.TransactionID) == "" {
		return fmt.Errorf("ledger transaction ID cannot be empty")
	}
	if !lt.Type.IsValid() {
		return fmt.Errorf("invalid ledger transaction type: %s", lt.Type)
	}
	if lt.Date.IsZero() {
		return fmt.Errorf("ledger transaction date cannot be zero")
	}
	return nil
}

// String returns a string representation of the LedgerTransaction
func (lt *LedgerTransaction) String() string {
	return fmt.Sprintf("LedgerTransaction{ID: %s, Amount: %s, Type: %s, Date: %s}",
		lt.TransactionID, lt.Amount.String(), lt.Type, lt.Date.Format("2006-01-02"))
}

// UnmarshalJSON implements custom JSON unmarshaling for LedgerTransaction
func (lt *LedgerTransaction) UnmarshalJSON(data []byte) error {
	type Alias LedgerTransaction
	aux := &struct {
		Date string `json:"date"`
		*Alias
	}{
		Alias: (*Alias)(lt),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	date, err := ParseDateWithFormats(aux.Date)
	if err != nil {
		return fmt.Errorf("invalid ledger transaction date: %w", err)
	}
	lt.Date = date

	return nil
}

// MarshalJSON implements custom JSON marshaling for LedgerTransaction
func (lt *LedgerTransaction) MarshalJSON() ([]byte, error) {
	type Alias LedgerTransaction
	return json.Marshal(&struct {
		Date string `json:"date"`
		*Alias
	}{
		Date:  lt.Date.Format("2006-01-02"),
		Alias: (*Alias)(lt),
	})
}

// ReconciliationData is the caller-owned snapshot one reconciliation run
// operates on. The engine never mutates it and keeps no reference to it
// after a run.
type ReconciliationData struct {
	AccountID               string                  `json:"accountId"`
	AccountName             string                  `json:"accountName"`
	ReconciliationDate      time.Time               `json:"reconciliationDate"`
	BankStatementBalance    decimal.Decimal         `json:"bankStatementBalance"`
	TrustLedgerBalance      decimal.Decimal         `json:"trustLedgerBalance"`
	ClientLedgers           []*ClientLedgerEntry    `json:"clientLedgers"`
	BankTransactions        []*BankTransaction      `json:"bankTransactions"`
	LedgerTransactions      []*LedgerTransaction    `json:"ledgerTransactions"`
	OutstandingDeposits     decimal.Decimal         `json:"outstandingDeposits"`
	OutstandingWithdrawals  decimal.Decimal         `json:"outstandingWithdrawals"`
	BankAdjustments         decimal.Decimal         `json:"bankAdjustments"`
	LastReconciliationDate  *time.Time              `json:"lastReconciliationDate,omitempty"`
	ReconciliationFrequency ReconciliationFrequency `json:"reconciliationFrequency,omitempty"`
	PerformedBy             string                  `json:"performedBy,omitempty"`
	Notes                   string                  `json:"notes,omitempty"`
}

// Frequency returns the configured reconciliation frequency, defaulting to
// monthly when the snapshot does not specify one.
func (rd *ReconciliationData) Frequency() ReconciliationFrequency {
	if rd.ReconciliationFrequency == "" {
		return FrequencyMonthly
	}
	return rd.ReconciliationFrequency
}

// UnmarshalJSON implements custom JSON unmarshaling for ReconciliationData,
// accepting flexible date formats for the scheduling fields.
func (rd *ReconciliationData) UnmarshalJSON(data []byte) error {
	type Alias ReconciliationData
	aux := &struct {
		ReconciliationDate     string `json:"reconciliationDate"`
		LastReconciliationDate string `json:"lastReconciliationDate,omitempty"`
		*Alias
	}{
		Alias: (*Alias)(rd),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if aux.ReconciliationDate != "" {
		date, err := ParseDateWithFormats(aux.ReconciliationDate)
		if err != nil {
			return fmt.Errorf("invalid reconciliation date: %w", err)
		}
		rd.ReconciliationDate = date
	}

	if aux.LastReconciliationDate != "" {
		date, err := ParseDateWithFormats(aux.LastReconciliationDate)
		if err != nil {
			return fmt.Errorf("invalid last reconciliation date: %w", err)
		}
		rd.LastReconciliationDate = &date
	}

	return nil
}

// MarshalJSON implements custom JSON marshaling for ReconciliationData
func (rd *ReconciliationData) MarshalJSON() ([]byte, error) {
	type Alias ReconciliationData
	aux := &struct {
		ReconciliationDate     string `json:"reconciliationDate"`
		LastReconciliationDate string `json:"lastReconciliationDate,omitempty"`
		*Alias
	}{
		ReconciliationDate: rd.ReconciliationDate.Format("2006-01-02"),
		Alias:              (*Alias)(rd),
	}
	if rd.LastReconciliationDate != nil {
		aux.LastReconciliationDate = rd.LastReconciliationDate.Format("2006-01-02")
	}
	return json.Marshal(aux)
}

// Utility functions shared by the matching and compliance packages

// ParseDecimalFromString parses a decimal value from string with validation,
// stripping common currency formatting.
func ParseDecimalFromString(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("amount string cannot be empty")
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal format '%s': %w", s, err)
	}

	return d, nil
}

// ParseDateWithFormats attempts to parse a date from string using the formats
// commonly produced by practice-management exports.
func ParseDateWithFormats(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("date string cannot be empty")
	}

	formats := []string{
		"2006-01-02",
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"01/02/2006",
	}

	var lastErr error
	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		} else {
			lastErr = err
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date '%s': %w", s, lastErr)
}

// CompareAmountsWithTolerance compares two decimal amounts with a tolerance
func CompareAmountsWithTolerance(a, b, tolerance decimal.Decimal) bool {
	diff := a.Sub(b).Abs()
	return diff.LessThanOrEqual(tolerance)
}

// CalendarDaysBetween returns the absolute calendar-day difference between
// two dates, ignoring the time-of-day components.
func CalendarDaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)

	days := int(da.Sub(db).Hours() / 24)
	if days < 0 {
		days = -days
	}
	return days
}
