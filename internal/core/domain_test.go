package core

import (
	"errors"
	"testing"
)

func TestNewDayRecord(t *testing.T) {
	heating := Report{Consumption: ConsumptionWindow{Sum: 12.5}}
	general := Report{Consumption: ConsumptionWindow{Sum: 30.0}}
	date := NewDate(2026, 1, 15)

	d := NewDayRecord(heating, general, 4.3, date)

	if d.HeatingConsumption != 12.5 {
		t.Errorf("HeatingConsumption = %v, want 12.5", d.HeatingConsumption)
	}
	if d.GeneralConsumption != 30.0 {
		t.Errorf("GeneralConsumption = %v, want 30.0", d.GeneralConsumption)
	}
	if d.AverageTemperature != 4.3 {
		t.Errorf("AverageTemperature = %v, want 4.3", d.AverageTemperature)
	}
	if !d.Date.Equal(date.Time) {
		t.Errorf("Date = %v, want %v", d.Date, date)
	}
	if d.ID == (NewDayRecord(heating, general, 4.3, date)).ID {
		t.Error("two built records should not share an identifier")
	}
}

func TestDayRecordCostLinearity(t *testing.T) {
	tests := []struct {
		name        string
		consumption float64
		unitCost    float64
		want        float64
	}{
		{"scenario values", 12.5, 0.35, 4.375},
		{"zero consumption", 0, 0.35, 0},
		{"zero cost", 30.0, 0, 0},
		{"unit cost one", 17.25, 1, 17.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := DayRecord{HeatingConsumption: tt.consumption, GeneralConsumption: tt.consumption}
			if got := d.HeatingCost(tt.unitCost); got != tt.want {
				t.Errorf("HeatingCost(%v) = %v, want %v", tt.unitCost, got, tt.want)
			}
			if got := d.GeneralCost(tt.unitCost); got != tt.want {
				t.Errorf("GeneralCost(%v) = %v, want %v", tt.unitCost, got, tt.want)
			}
		})
	}
}

func TestMonthDaysAdditivity(t *testing.T) {
	days := MonthDays{
		{HeatingConsumption: 10},
		{HeatingConsumption: 20},
		{HeatingConsumption: 5},
	}
	reversed := MonthDays{days[2], days[1], days[0]}

	want := 10*0.35 + 20*0.35 + 5*0.35
	got, err := days.HeatingCost(0.35)
	if err != nil {
		t.Fatalf("HeatingCost: %v", err)
	}
	if got != want {
		t.Errorf("HeatingCost = %v, want %v", got, want)
	}

	gotReversed, err := reversed.HeatingCost(0.35)
	if err != nil {
		t.Fatalf("HeatingCost reversed: %v", err)
	}
	if gotReversed != got {
		t.Errorf("total depends on collection order: %v != %v", gotReversed, got)
	}
}

func TestMonthDaysEmptyAggregation(t *testing.T) {
	var empty MonthDays

	if _, err := empty.HeatingCost(0.35); !errors.Is(err, ErrEmptyAggregation) {
		t.Errorf("HeatingCost on empty collection = %v, want ErrEmptyAggregation", err)
	}
	if _, err := empty.GeneralCost(0.25); !errors.Is(err, ErrEmptyAggregation) {
		t.Errorf("GeneralCost on empty collection = %v, want ErrEmptyAggregation", err)
	}
}

func TestDateHelpers(t *testing.T) {
	d := NewDate(2026, 3, 15)

	if got := d.FirstOfMonth(); got.String() != "2026-03-01" {
		t.Errorf("FirstOfMonth = %s, want 2026-03-01", got)
	}
	if got := d.AddDays(-1); got.String() != "2026-03-14" {
		t.Errorf("AddDays(-1) = %s, want 2026-03-14", got)
	}
	if got := NewDate(2026, 3, 1).AddDays(-1); got.String() != "2026-02-28" {
		t.Errorf("AddDays(-1) across month = %s, want 2026-02-28", got)
	}

	parsed, err := ParseDate("2026-03-15")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if !parsed.Equal(d.Time) {
		t.Errorf("ParseDate = %v, want %v", parsed, d)
	}
	if _, err := ParseDate("15.03.2026"); err == nil {
		t.Error("ParseDate should reject non-ISO input")
	}
}

func TestRoleString(t *testing.T) {
	tests := []struct {
		role Role
		want string
	}{
		{RoleHeating, "heating"},
		{RoleGeneral, "general"},
		{RoleUnknown, "unknown"},
	}
	for _, tt := range tests {
		if got := tt.role.String(); got != tt.want {
			t.Errorf("Role(%d).String() = %q, want %q", tt.role, got, tt.want)
		}
	}
}

func TestMissingDeviceError(t *testing.T) {
	err := &MissingDeviceError{Role: RoleHeating, Marker: "Heizstrom"}
	want := `missing required heating device (marker "Heizstrom")`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
