package core

import (
	"errors"
	"strings"
	"testing"
)

func TestDayRecordSummary(t *testing.T) {
	d := NewDayRecord(
		Report{Consumption: ConsumptionWindow{Sum: 12.5}},
		Report{Consumption: ConsumptionWindow{Sum: 30.0}},
		4.3,
		NewDate(2026, 1, 15),
	)

	got := d.Summary(0.35)

	for _, want := range []string{"4.30 °C", "12.50 kWh", "4.38 €"} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q:\n%s", want, got)
		}
	}
}

func TestMonthDaysSummary(t *testing.T) {
	settings := Settings{
		CostHeating:          0.35,
		MonthlyBudgetHeating: 150,
	}
	days := MonthDays{
		{HeatingConsumption: 12.5},
		{HeatingConsumption: 10.0},
	}

	got, err := days.Summary(settings)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	// 22.5 kWh * 0.35 = 7.875, rendered as 7.88
	if !strings.Contains(got, "7.88 €") {
		t.Errorf("summary missing total cost:\n%s", got)
	}
	if !strings.Contains(got, "150.00 €") {
		t.Errorf("summary missing budget:\n%s", got)
	}
}

func TestMonthDaysSummaryEmpty(t *testing.T) {
	var empty MonthDays

	if _, err := empty.Summary(Settings{}); !errors.Is(err, ErrEmptyAggregation) {
		t.Errorf("Summary on empty month = %v, want ErrEmptyAggregation", err)
	}
	if _, err := empty.CostSummary(Settings{}); !errors.Is(err, ErrEmptyAggregation) {
		t.Errorf("CostSummary on empty month = %v, want ErrEmptyAggregation", err)
	}
}

func TestCostSummary(t *testing.T) {
	settings := Settings{
		CostHeating:          0.35,
		CostGeneral:          0.25,
		MonthlyBudgetHeating: 150,
		MonthlyBudgetGeneral: 100,
	}
	days := MonthDays{{HeatingConsumption: 12.5, GeneralConsumption: 30.0}}

	got, err := days.CostSummary(settings)
	if err != nil {
		t.Fatalf("CostSummary: %v", err)
	}
	if !strings.Contains(got, "4.38 €/150 €") {
		t.Errorf("missing heating line:\n%s", got)
	}
	if !strings.Contains(got, "7.50 €/100 €") {
		t.Errorf("missing general line:\n%s", got)
	}
}

func TestBudgetSummary(t *testing.T) {
	s := Settings{MonthlyBudgetHeating: 150.5, MonthlyBudgetGeneral: 100}
	got := s.BudgetSummary()
	if !strings.Contains(got, "150.5 €") || !strings.Contains(got, "100 €") {
		t.Errorf("unexpected budget summary: %s", got)
	}
}
