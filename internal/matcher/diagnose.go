package matcher

import (
	"trust-reconciliation-service/internal/models"
)

// ledgerIndex supports the reason-diagnosis lookups over ledger transactions
type ledgerIndex struct {
	all           []*models.LedgerTransaction
	byCheckNumber map[string][]*models.LedgerTransaction
}

func newLedgerIndex(ledger []*models.LedgerTransaction) *ledgerIndex {
	idx := &ledgerIndex{
		all:           ledger,
		byCheckNumber: make(map[string][]*models.LedgerTransaction),
	}
	for _, lt := range ledger {
		if lt.CheckNumber != "" {
			idx.byCheckNumber[lt.CheckNumber] = append(idx.byCheckNumber[lt.CheckNumber], lt)
		}
	}
	return idx
}

// bankIndex supports the reason-diagnosis lookups over bank transactions
type bankIndex struct {
	all []*models.BankTransaction
}

func newBankIndex(bank []*models.BankTransaction) *bankIndex {
	return &bankIndex{all: bank}
}

// diagnoseBank explains why a bank transaction went unmatched. The checks run
// in priority order: a check-number hit with the wrong amount beats a timing
// explanation, and an uncleared transaction with no candidates at all is
// treated as a timing difference still in flight.
func (m *Matcher) diagnoseBank(bt *models.BankTransaction, idx *ledgerIndex) *UnmatchedTransaction {
	u := &UnmatchedTransaction{
		Source:          models.SourceBank,
		Bank:            bt,
		Reason:          models.ReasonNoMatchFound,
		PossibleMatches: []string{},
	}

	if bt.CheckNumber != "" {
		for _, lt := range idx.byCheckNumber[bt.CheckNumber] {
			if !models.CompareAmountsWithTolerance(bt.Amount, lt.Amount, m.cfg.BalanceTolerance) {
				u.Reason = models.ReasonAmountMismatch
				u.PossibleMatches = append(u.PossibleMatches, lt.TransactionID)
			}
		}
	}

	if u.Reason == models.ReasonNoMatchFound {
		for _, lt := range idx.all {
			if !models.CompareAmountsWithTolerance(bt.Amount, lt.Amount, m.cfg.BalanceTolerance) {
				continue
			}
			if models.CalendarDaysBetween(bt.Date, lt.Date) > m.cfg.DateMatchToleranceDays {
				u.Reason = models.ReasonTimingDifference
				u.PossibleMatches = append(u.PossibleMatches, lt.TransactionID)
			}
		}
	}

	if u.Reason == models.ReasonNoMatchFound && !bt.Cleared && len(u.PossibleMatches) == 0 {
		u.Reason = models.ReasonTimingDifference
	}

	u.PossibleMatches = dedupe(u.PossibleMatches)
	return u
}

// diagnoseLedger explains why a ledger transaction went unmatched. An entry
// the firm has not marked reconciled is assumed to be an outstanding item
// rather than a genuine discrepancy.
func (m *Matcher) diagnoseLedger(lt *models.LedgerTransaction, idx *bankIndex) *UnmatchedTransaction {
	u := &UnmatchedTransaction{
		Source:          models.SourceLedger,
		Ledger:          lt,
		Reason:          models.ReasonNoMatchFound,
		PossibleMatches: []string{},
	}

	if !lt.Reconciled {
		u.Reason = models.ReasonTimingDifference
		return u
	}

	for _, bt := range idx.all {
		if !models.CompareAmountsWithTolerance(lt.Amount, bt.Amount, m.cfg.BalanceTolerance) {
			continue
		}
		if models.CalendarDaysBetween(lt.Date, bt.Date) > 0 {
			u.Reason = models.ReasonDateMismatch
			u.PossibleMatches = append(u.PossibleMatches, bt.TransactionID)
		}
	}

	u.PossibleMatches = dedupe(u.PossibleMatches)
	return u
}

func dedupe(ids []string) []string {
	if len(ids) < 2 {
		return ids
	}

	seen := make(map[string]bool, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
