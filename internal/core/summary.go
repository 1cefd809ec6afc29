package core

import (
	"fmt"
	"strings"
)

// Summary renders a single day's heating report: temperature, consumption
// and derived cost, all with two-decimal formatting.
func (d DayRecord) Summary(costHeating float64) string {
	var b strings.Builder
	b.WriteString("Done getting data - here's your daily summary:\n")
	fmt.Fprintf(&b, "> With a temperature of **%.2f °C**, you've used **%.2f kWh** for heating - this cost **%.2f €**.",
		d.AverageTemperature, d.HeatingConsumption, d.HeatingCost(costHeating))
	return b.String()
}

// Summary renders the month-to-date heating cost against the configured
// budget. An empty month propagates ErrEmptyAggregation unchanged.
func (m MonthDays) Summary(settings Settings) (string, error) {
	total, err := m.HeatingCost(settings.CostHeating)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("> This month, you've used **%.2f €** of **%.2f €**.",
		total, settings.MonthlyBudgetHeating), nil
}

// CostSummary renders both month-to-date cost totals against their budgets.
func (m MonthDays) CostSummary(settings Settings) (string, error) {
	heating, err := m.HeatingCost(settings.CostHeating)
	if err != nil {
		return "", err
	}
	general, err := m.GeneralCost(settings.CostGeneral)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Cost of heating: %.2f €/%g €\nGeneral cost: %.2f €/%g €",
		heating, settings.MonthlyBudgetHeating, general, settings.MonthlyBudgetGeneral), nil
}

// BudgetSummary renders the configured monthly budgets.
func (s Settings) BudgetSummary() string {
	return fmt.Sprintf("Heating budget: %g €\nGeneral budget: %g €",
		s.MonthlyBudgetHeating, s.MonthlyBudgetGeneral)
}
