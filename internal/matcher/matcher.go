package matcher

import (
	"github.com/shopspring/decimal"

	"trust-reconciliation-service/internal/models"
)

// MatchPass identifies which pass produced a match
type MatchPass string

const (
	PassCheckNumber MatchPass = "check_number"
	PassReference   MatchPass = "reference"
	PassFuzzy       MatchPass = "fuzzy"
)

// String returns the string representation of MatchPass
func (p MatchPass) String() string {
	return string(p)
}

// MatchPair records one bank/ledger pairing and the pass that found it
type MatchPair struct {
	BankTransactionID   string    `json:"bank_transaction_id"`
	LedgerTransactionID string    `json:"ledger_transaction_id"`
	Pass                MatchPass `json:"pass"`
}

// UnmatchedTransaction is a bank or ledger transaction the matcher could not
// pair, annotated with a diagnostic reason and any candidate counterpart ids
// discovered while diagnosing it. Exactly one of Bank and Ledger is set,
// according to Source.
type UnmatchedTransaction struct {
	Source          models.UnmatchedSource    `json:"source"`
	Bank            *models.BankTransaction   `json:"bank_transaction,omitempty"`
	Ledger          *models.LedgerTransaction `json:"ledger_transaction,omitempty"`
	Reason          models.UnmatchedReason    `json:"unmatched_reason"`
	PossibleMatches []string                  `json:"possible_matches"`
}

// TransactionID returns the id of the underlying transaction
func (u *UnmatchedTransaction) TransactionID() string {
	if u.Source == models.SourceBank {
		return u.Bank.TransactionID
	}
	return u.Ledger.TransactionID
}

// Amount returns the amount of the underlying transaction
func (u *UnmatchedTransaction) Amount() decimal.Decimal {
	if u.Source == models.SourceBank {
		return u.Bank.Amount
	}
	return u.Ledger.Amount
}

// Summary provides aggregate statistics about a matching run
type Summary struct {
	TotalBankTransactions   int `json:"total_bank_transactions"`
	TotalLedgerTransactions int `json:"total_ledger_transactions"`
	MatchedPairs            int `json:"matched_pairs"`
	UnmatchedBank           int `json:"unmatched_bank"`
	UnmatchedLedger         int `json:"unmatched_ledger"`

	CheckNumberMatches int `json:"check_number_matches"`
	ReferenceMatches   int `json:"reference_matches"`
	FuzzyMatches       int `json:"fuzzy_matches"`
}

// MatchedTransactionCount returns the number of transactions (both sides
// combined) consumed by matches. Together with the unmatched counts it
// partitions the full input set.
func (s Summary) MatchedTransactionCount() int {
	return s.MatchedPairs * 2
}

// Result is the complete outcome of a matching run. Every input transaction
// appears in exactly one of Pairs or Unmatched.
type Result struct {
	Pairs     []MatchPair             `json:"pairs"`
	Unmatched []*UnmatchedTransaction `json:"unmatched"`
	Summary   Summary                 `json:"summary"`
}

// Matcher pairs bank transactions against ledger transactions
type Matcher struct {
	cfg *Config
}

// NewMatcher creates a matcher with the given tolerances. A nil config
// falls back to DefaultConfig.
func NewMatcher(cfg *Config) *Matcher {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Matcher{cfg: cfg.Clone()}
}

// Config returns a copy of the matcher's configuration
func (m *Matcher) Config() *Config {
	return m.cfg.Clone()
}

// arena tracks matched state by positional index. Matched flags are never
// cleared once set, which makes the never-revisit invariant mechanical
// rather than a property of careful set bookkeeping.
type arena struct {
	bank   []*models.BankTransaction
	ledger []*models.LedgerTransaction

	bankMatched   []bool
	ledgerMatched []bool
}

func newArena(bank []*models.BankTransaction, ledger []*models.LedgerTransaction) *arena {
	return &arena{
		bank:          bank,
		ledger:        ledger,
		bankMatched:   make([]bool, len(bank)),
		ledgerMatched: make([]bool, len(ledger)),
	}
}

// Match runs the three matching passes and diagnoses everything left over.
// The inputs are treated as read-only; worst case is O(n*m) per pass.
func (m *Matcher) Match(bank []*models.BankTransaction, ledger []*models.LedgerTransaction) *Result {
	a := newArena(bank, ledger)

	result := &Result{
		Pairs:     []MatchPair{},
		Unmatched: []*UnmatchedTransaction{},
	}

	m.matchByCheckNumber(a, result)
	m.matchByReference(a, result)
	m.matchFuzzy(a, result)

	idx := newLedgerIndex(ledger)
	bankIdx := newBankIndex(bank)

	for i, bt := range a.bank {
		if a.bankMatched[i] {
			continue
		}
		result.Unmatched = append(result.Unmatched, m.diagnoseBank(bt, idx))
		result.Summary.UnmatchedBank++
	}

	for j, lt := range a.ledger {
		if a.ledgerMatched[j] {
			continue
		}
		result.Unmatched = append(result.Unmatched, m.diagnoseLedger(lt, bankIdx))
		result.Summary.UnmatchedLedger++
	}

	result.Summary.TotalBankTransactions = len(bank)
	result.Summary.TotalLedgerTransactions = len(ledger)
	result.Summary.MatchedPairs = len(result.Pairs)

	return result
}

// matchByCheckNumber pairs bank transactions carrying a check number with
// the first unmatched ledger transaction that has the same check number and
// an amount within tolerance. Dates are deliberately ignored: a check
// clearing days after it was written is still the same check.
func (m *Matcher) matchByCheckNumber(a *arena, result *Result) {
	for i, bt := range a.bank {
		if a.bankMatched[i] || bt.CheckNumber == "" {
			continue
		}

		for j, lt := range a.ledger {
			if a.ledgerMatched[j] || lt.CheckNumber == "" {
				continue
			}
			if lt.CheckNumber != bt.CheckNumber {
				continue
			}
			if !models.CompareAmountsWithTolerance(bt.Amount, lt.Amount, m.cfg.BalanceTolerance) {
				continue
			}

			a.bankMatched[i] = true
			a.ledgerMatched[j] = true
			result.Pairs = append(result.Pairs, MatchPair{
				BankTransactionID:   bt.TransactionID,
				LedgerTransactionID: lt.TransactionID,
				Pass:                PassCheckNumber,
			})
			result.Summary.CheckNumberMatches++
			break
		}
	}
}

// matchByReference pairs remaining bank transactions on reference string
// equality plus amount tolerance.
func (m *Matcher) matchByReference(a *arena, result *Result) {
	for i, bt := range a.bank {
		if a.bankMatched[i] || bt.Reference == "" {
			continue
		}

		for j, lt := range a.ledger {
			if a.ledgerMatched[j] || lt.Reference == "" {
				continue
			}
			if lt.Reference != bt.Reference {
				continue
			}
			if !models.CompareAmountsWithTolerance(bt.Amount, lt.Amount, m.cfg.BalanceTolerance) {
				continue
			}

			a.bankMatched[i] = true
			a.ledgerMatched[j] = true
			result.Pairs = append(result.Pairs, MatchPair{
				BankTransactionID:   bt.TransactionID,
				LedgerTransactionID: lt.TransactionID,
				Pass:                PassReference,
			})
			result.Summary.ReferenceMatches++
			break
		}
	}
}

// matchFuzzy pairs remaining transactions on amount tolerance, a calendar-day
// window, and type compatibility. First fit wins: when two bank transactions
// both fit the same ledger transaction the earlier one in input order takes
// it. Greedy, not optimal, and kept that way for behavioral stability.
func (m *Matcher) matchFuzzy(a *arena, result *Result) {
	for i, bt := range a.bank {
		if a.bankMatched[i] {
			continue
		}

		for j, lt := range a.ledger {
			if a.ledgerMatched[j] {
				continue
			}
			if !models.CompareAmountsWithTolerance(bt.Amount, lt.Amount, m.cfg.BalanceTolerance) {
				continue
			}
			if models.CalendarDaysBetween(bt.Date, lt.Date) > m.cfg.DateMatchToleranceDays {
				continue
			}
			if !lt.Type.CompatibleWith(bt.Type) {
				continue
			}

			a.bankMatched[i] = true
			a.ledgerMatched[j] = true
			result.Pairs = append(result.Pairs, MatchPair{
				BankTransactionID:   bt.TransactionID,
				LedgerTransactionID: lt.TransactionID,
				Pass:                PassFuzzy,
			})
			result.Summary.FuzzyMatches++
			break
		}
	}
}
