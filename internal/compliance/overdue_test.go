package compliance

import (
	"strings"
	"testing"
	"time"

	"trust-reconciliation-service/internal/models"
)

func TestCheckOverdueNeverReconciled(t *testing.T) {
	reference := time.Date(2024, 7, 18, 0, 0, 0, 0, time.UTC)

	result := CheckReconciliationOverdue(DefaultConfig(), nil, models.FrequencyMonthly, reference)

	if !result.IsOverdue {
		t.Fatal("never-reconciled account must be overdue")
	}
	if result.Severity != models.SeverityCritical {
		t.Errorf("expected critical severity, got %s", result.Severity)
	}
	if !result.RequiresImmediateAction {
		t.Error("expected immediate action flag")
	}

	wantDue := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	if !result.NextDueDate.Equal(wantDue) {
		t.Errorf("expected due date %s, got %s", wantDue, result.NextDueDate)
	}
	if !strings.Contains(result.Message, "never been reconciled") {
		t.Errorf("unexpected message: %q", result.Message)
	}
}

func TestCheckOverdueCurrent(t *testing.T) {
	last := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	reference := time.Date(2024, 7, 20, 0, 0, 0, 0, time.UTC)

	result := CheckReconciliationOverdue(DefaultConfig(), &last, models.FrequencyMonthly, reference)

	if result.IsOverdue {
		t.Fatalf("expected current, got %d days overdue", result.DaysOverdue)
	}
	if result.DaysOverdue != 0 {
		t.Errorf("expected 0 days overdue when current, got %d", result.DaysOverdue)
	}
	if result.RequiresImmediateAction {
		t.Error("current schedule should not require immediate action")
	}

	wantDue := last.AddDate(0, 0, 30)
	if !result.NextDueDate.Equal(wantDue) {
		t.Errorf("expected due date %s, got %s", wantDue, result.NextDueDate)
	}
}

func TestCheckOverdueSeverityBands(t *testing.T) {
	last := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	due := last.AddDate(0, 0, 30)

	tests := []struct {
		name        string
		daysPastDue int
		want        models.Severity
		immediate   bool
	}{
		{"one day over", 1, models.SeverityInfo, false},
		{"six days over", 6, models.SeverityInfo, false},
		{"warning band", 7, models.SeverityWarning, false},
		{"error band", 14, models.SeverityError, true},
		{"just under critical", 29, models.SeverityError, true},
		{"critical band", 30, models.SeverityCritical, true},
		{"far past critical", 120, models.SeverityCritical, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reference := due.AddDate(0, 0, tt.daysPastDue)
			result := CheckReconciliationOverdue(DefaultConfig(), &last, models.FrequencyMonthly, reference)

			if !result.IsOverdue {
				t.Fatal("expected overdue")
			}
			if result.DaysOverdue != tt.daysPastDue {
				t.Errorf("DaysOverdue = %d, want %d", result.DaysOverdue, tt.daysPastDue)
			}
			if result.Severity != tt.want {
				t.Errorf("severity = %s, want %s", result.Severity, tt.want)
			}
			if result.RequiresImmediateAction != tt.immediate {
				t.Errorf("RequiresImmediateAction = %v, want %v", result.RequiresImmediateAction, tt.immediate)
			}
		})
	}
}

func TestCheckOverdueFrequencyCycles(t *testing.T) {
	last := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		frequency models.ReconciliationFrequency
		wantDays  int
	}{
		{models.FrequencyDaily, 1},
		{models.FrequencyWeekly, 7},
		{models.FrequencyMonthly, 30},
		{models.FrequencyQuarterly, 90},
	}

	for _, tt := range tests {
		t.Run(string(tt.frequency), func(t *testing.T) {
			result := CheckReconciliationOverdue(DefaultConfig(), &last, tt.frequency, last)

			wantDue := last.AddDate(0, 0, tt.wantDays)
			if !result.NextDueDate.Equal(wantDue) {
				t.Errorf("next due = %s, want %s", result.NextDueDate, wantDue)
			}
		})
	}
}

func TestDaysBetweenFloored(t *testing.T) {
	base := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		a    time.Time
		want int
	}{
		{"same instant", base, 0},
		{"half day later", base.Add(12 * time.Hour), 0},
		{"exactly one day later", base.AddDate(0, 0, 1), 1},
		{"half day earlier", base.Add(-12 * time.Hour), -1},
		{"two days earlier", base.AddDate(0, 0, -2), -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := daysBetweenFloored(tt.a, base); got != tt.want {
				t.Errorf("daysBetweenFloored = %d, want %d", got, tt.want)
			}
		})
	}
}
