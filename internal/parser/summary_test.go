package parser

import (
	"errors"
	"testing"

	"github.com/insightdelivered/card-statement-converter/internal/models"
)

func TestExtractCycleFullDates(t *testing.T) {
	text := "Billing Cycle from 12/01/2023 to 01/31/2024"

	cycle, err := extractCycle(text)
	if err != nil {
		t.Fatalf("extractCycle failed: %v", err)
	}
	if cycle.Start != (models.MonthDay{Month: 12, Day: 1}) {
		t.Errorf("start = %+v, want 12/01", cycle.Start)
	}
	if cycle.End != (models.MonthDay{Month: 1, Day: 31}) {
		t.Errorf("end = %+v, want 01/31", cycle.End)
	}
	if cycle.YearHint != 2023 {
		t.Errorf("year hint = %d, want 2023", cycle.YearHint)
	}
	if !cycle.CrossesYear() {
		t.Error("cycle should cross the year boundary")
	}
}

func TestExtractCycleBareRange(t *testing.T) {
	cycle, err := extractCycle("Statement period 03/05/2024 to 04/04/2024")
	if err != nil {
		t.Fatalf("extractCycle failed: %v", err)
	}
	if cycle.YearHint != 2024 || cycle.CrossesYear() {
		t.Errorf("got %+v, want single-year 2024 cycle", cycle)
	}
}

func TestExtractCycleYearlessUsesStatementDate(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantHint int
	}{
		{
			name:     "rollover cycle backs off one year",
			text:     "Billing Cycle: 12/01 - 01/31\nNew Balance as of 01/31/2024",
			wantHint: 2023,
		},
		{
			name:     "single-year cycle keeps statement year",
			text:     "Billing Cycle: 03/05 - 04/04\nNew Balance as of 04/04/2024",
			wantHint: 2024,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cycle, err := extractCycle(tt.text)
			if err != nil {
				t.Fatalf("extractCycle failed: %v", err)
			}
			if cycle.YearHint != tt.wantHint {
				t.Errorf("year hint = %d, want %d", cycle.YearHint, tt.wantHint)
			}
		})
	}
}

func TestExtractCycleYearlessWithoutEvidence(t *testing.T) {
	// no full date anywhere: the cycle cannot seed year resolution
	_, err := extractCycle("Billing Cycle: 12/01 - 01/31")
	if !errors.Is(err, models.ErrCycleNotFound) {
		t.Errorf("got %v, want ErrCycleNotFound", err)
	}
}

func TestExtractCycleAbsent(t *testing.T) {
	_, err := extractCycle("no cycle sentence in this text")
	if !errors.Is(err, models.ErrCycleNotFound) {
		t.Errorf("got %v, want ErrCycleNotFound", err)
	}
}

func TestExtractTotalsAccountSummary(t *testing.T) {
	text := `Account Summary
Previous Balance $500.00
Payments - $1,000.00
Other Credits - $25.50
Purchases/Debits + $1,234.56
New Balance $709.06`

	totals, err := extractTotals(text)
	if err != nil {
		t.Fatalf("extractTotals failed: %v", err)
	}
	// payments and other credits fold together
	if totals.TotalCredits.String() != "1025.5" {
		t.Errorf("credits = %s, want 1025.5", totals.TotalCredits)
	}
	if totals.TotalDebits.String() != "1234.56" {
		t.Errorf("debits = %s, want 1234.56", totals.TotalDebits)
	}
}

func TestExtractTotalsBalanceSection(t *testing.T) {
	text := `Account Balance Summary
Payments & Other Credits (-) $50.00
Purchases, Fees & Other Debits (+) $123.45
Transaction Detail`

	totals, err := extractTotals(text)
	if err != nil {
		t.Fatalf("extractTotals failed: %v", err)
	}
	if totals.TotalCredits.String() != "50" || totals.TotalDebits.String() != "123.45" {
		t.Errorf("got credits %s debits %s, want 50 and 123.45", totals.TotalCredits, totals.TotalDebits)
	}
}

func TestExtractTotalsLabeledPair(t *testing.T) {
	text := "Payments/Credits: $50.00\nPurchases/Debits: $123.45"

	totals, err := extractTotals(text)
	if err != nil {
		t.Fatalf("extractTotals failed: %v", err)
	}
	if totals.TotalCredits.String() != "50" || totals.TotalDebits.String() != "123.45" {
		t.Errorf("got credits %s debits %s, want 50 and 123.45", totals.TotalCredits, totals.TotalDebits)
	}
}

func TestExtractTotalsAbsent(t *testing.T) {
	_, err := extractTotals("nothing labeled here")
	if !errors.Is(err, models.ErrSummaryNotFound) {
		t.Errorf("got %v, want ErrSummaryNotFound", err)
	}
}

func TestExtractSummaryTogether(t *testing.T) {
	text := `Billing Cycle from 12/01/2023 to 01/31/2024
Payments/Credits: $50.00
Purchases/Debits: $123.45`

	cycle, totals, err := ExtractSummary(text)
	if err != nil {
		t.Fatalf("ExtractSummary failed: %v", err)
	}
	if cycle.YearHint != 2023 {
		t.Errorf("year hint = %d, want 2023", cycle.YearHint)
	}
	if totals.TotalDebits.String() != "123.45" {
		t.Errorf("debits = %s, want 123.45", totals.TotalDebits)
	}
}
