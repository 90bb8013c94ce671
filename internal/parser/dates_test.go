package parser

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/card-statement-converter/internal/models"
)

func rolloverCycle() models.BillingCycle {
	return models.BillingCycle{
		Start:    models.MonthDay{Month: 12, Day: 1},
		End:      models.MonthDay{Month: 1, Day: 31},
		YearHint: 2023,
	}
}

func TestResolveYearSingleYearCycle(t *testing.T) {
	cycle := models.BillingCycle{
		Start:    models.MonthDay{Month: 3, Day: 5},
		End:      models.MonthDay{Month: 4, Day: 4},
		YearHint: 2024,
	}
	for _, month := range []int{3, 4} {
		year, err := ResolveYear(month, cycle)
		if err != nil {
			t.Fatalf("ResolveYear(%d) failed: %v", month, err)
		}
		if year != 2024 {
			t.Errorf("ResolveYear(%d) = %d, want 2024", month, year)
		}
	}
}

func TestResolveYearRollover(t *testing.T) {
	cycle := rolloverCycle()

	tests := []struct {
		month int
		want  int
	}{
		{12, 2023}, // at or after cycle start: earlier year
		{1, 2024},  // at or before cycle end: later year
	}
	for _, tt := range tests {
		year, err := ResolveYear(tt.month, cycle)
		if err != nil {
			t.Fatalf("ResolveYear(%d) failed: %v", tt.month, err)
		}
		if year != tt.want {
			t.Errorf("ResolveYear(%d) = %d, want %d", tt.month, year, tt.want)
		}
	}
}

func TestResolveYearAmbiguousMonth(t *testing.T) {
	_, err := ResolveYear(6, rolloverCycle())
	if !errors.Is(err, models.ErrAmbiguousDate) {
		t.Errorf("got %v, want ErrAmbiguousDate", err)
	}
}

func TestResolveBuildsTransactions(t *testing.T) {
	raws := []models.RawTransaction{
		{Month: 12, Day: 15, Reference: "F2860006C00A0VB4H", RawDescription: "AMZN MKTP US 1A2B3C4D5E6F", Amount: decimal.RequireFromString("-23.45")},
		{Month: 1, Day: 2, RawDescription: "WHOLE FOODS MKT SEATTLE WA", Amount: decimal.RequireFromString("-100.00")},
	}

	txns, err := Resolve(raws, rolloverCycle(), DefaultRules(), "dec.pdf")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(txns) != 2 {
		t.Fatalf("got %d transactions, want 2", len(txns))
	}

	if want := time.Date(2023, 12, 15, 0, 0, 0, 0, time.UTC); !txns[0].Date.Equal(want) {
		t.Errorf("first date = %s, want %s", txns[0].Date, want)
	}
	if want := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC); !txns[1].Date.Equal(want) {
		t.Errorf("second date = %s, want %s", txns[1].Date, want)
	}
	if txns[0].Description != "AMZN MKTP US" {
		t.Errorf("first description = %q, want cleaned", txns[0].Description)
	}
	if txns[1].Description != "WHOLE FOODS MKT" {
		t.Errorf("second description = %q, want cleaned", txns[1].Description)
	}
	for _, txn := range txns {
		if txn.Source != "dec.pdf" {
			t.Errorf("source = %q, want dec.pdf", txn.Source)
		}
	}
}

func TestResolveAbortsOnAmbiguousDate(t *testing.T) {
	raws := []models.RawTransaction{
		{Month: 12, Day: 15, RawDescription: "GOOD ENTRY", Amount: decimal.RequireFromString("-1.00")},
		{Month: 6, Day: 1, RawDescription: "CORRUPT ENTRY", Amount: decimal.RequireFromString("-2.00")},
	}

	txns, err := Resolve(raws, rolloverCycle(), DefaultRules(), "doc.pdf")
	if !errors.Is(err, models.ErrAmbiguousDate) {
		t.Fatalf("got %v, want ErrAmbiguousDate", err)
	}
	// a failed pass emits no transactions, partial output is never kept
	if txns != nil {
		t.Errorf("got %d transactions, want none", len(txns))
	}
}
