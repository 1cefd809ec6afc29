package core

import "github.com/google/uuid"

// Settings is the household tariff configuration: unit costs per kWh and the
// monthly budgets both cost totals are compared against. Exactly one live
// instance exists at any time, stored as a single row.
type Settings struct {
	ID                   uuid.UUID
	CostHeating          float64 // currency per kWh
	CostGeneral          float64 // currency per kWh
	MonthlyBudgetHeating float64
	MonthlyBudgetGeneral float64
}

// NewSettings creates a settings value with a fresh identifier.
func NewSettings(costHeating, costGeneral, budgetHeating, budgetGeneral float64) Settings {
	return Settings{
		ID:                   uuid.New(),
		CostHeating:          costHeating,
		CostGeneral:          costGeneral,
		MonthlyBudgetHeating: budgetHeating,
		MonthlyBudgetGeneral: budgetGeneral,
	}
}

// The With* mutators implement copy-with-override updates: each returns a new
// value sharing all fields except the one replaced. The caller persists the
// whole record.

func (s Settings) WithCostHeating(v float64) Settings {
	s.CostHeating = v
	return s
}

func (s Settings) WithCostGeneral(v float64) Settings {
	s.CostGeneral = v
	return s
}

func (s Settings) WithMonthlyBudgetHeating(v float64) Settings {
	s.MonthlyBudgetHeating = v
	return s
}

func (s Settings) WithMonthlyBudgetGeneral(v float64) Settings {
	s.MonthlyBudgetGeneral = v
	return s
}
