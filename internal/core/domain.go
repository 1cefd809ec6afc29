package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role is the semantic meaning of a metered device. The provider only
// reports device names; the role is derived by matching the name against
// the configured role markers.
type Role int

const (
	RoleUnknown Role = iota
	RoleHeating
	RoleGeneral
)

func (r Role) String() string {
	switch r {
	case RoleHeating:
		return "heating"
	case RoleGeneral:
		return "general"
	default:
		return "unknown"
	}
}

var (
	ErrNotFound         = errors.New("not found")
	ErrEmptyAggregation = errors.New("cannot compute cost: no data")
)

// MissingDeviceError reports an incomplete device classification run:
// the provider's device list did not contain a device for the named role.
type MissingDeviceError struct {
	Role   Role
	Marker string
}

func (e *MissingDeviceError) Error() string {
	return fmt.Sprintf("missing required %s device (marker %q)", e.Role, e.Marker)
}

// Device is a metered device as listed by the energy provider, plus its
// derived role.
type Device struct {
	DeviceID string
	Name     string
	Role     Role
}

// Report is the slice of a provider consumption report the core consumes.
type Report struct {
	Consumption ConsumptionWindow
}

// ConsumptionWindow is an aggregated consumption window. Sum is in kWh.
type ConsumptionWindow struct {
	Sum float64
}

// Date is a calendar date with no time component, normalized to UTC midnight.
type Date struct {
	time.Time
}

// NewDate creates a Date from year, month and day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// AddDays returns the date shifted by the given number of days.
func (d Date) AddDays(days int) Date {
	return Date{Time: d.Time.AddDate(0, 0, days)}
}

// FirstOfMonth returns the first calendar day of d's month.
func (d Date) FirstOfMonth() Date {
	return NewDate(d.Year(), int(d.Month()), 1)
}

// String renders the date in ISO format (YYYY-MM-DD), which also sorts
// lexicographically in date order.
func (d Date) String() string {
	return d.Format("2006-01-02")
}

// ParseDate parses an ISO-formatted (YYYY-MM-DD) date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{Time: t}, nil
}

// DayRecord is one persisted day of consumption: both role-reports merged
// with the day's average outdoor temperature. At most one record exists per
// date; the repository enforces this via its upsert contract.
type DayRecord struct {
	ID                 uuid.UUID
	HeatingConsumption float64 // kWh
	GeneralConsumption float64 // kWh
	AverageTemperature float64 // °C
	Date               Date
}

// NewDayRecord builds a day record from one heating report, one general
// report and the day's average temperature. Pure: no validation of the
// report internals beyond the consumption sum, no persistence.
func NewDayRecord(heating, general Report, avgTemperature float64, date Date) DayRecord {
	return DayRecord{
		ID:                 uuid.New(),
		HeatingConsumption: heating.Consumption.Sum,
		GeneralConsumption: general.Consumption.Sum,
		AverageTemperature: avgTemperature,
		Date:               date,
	}
}

// HeatingCost returns the heating cost for this day at the given unit cost.
// The product is exact; rounding happens only at render time.
func (d DayRecord) HeatingCost(unitCost float64) float64 {
	return d.HeatingConsumption * unitCost
}

// GeneralCost returns the general-electricity cost for this day.
func (d DayRecord) GeneralCost(unitCost float64) float64 {
	return d.GeneralConsumption * unitCost
}

// MonthDays is an insertion-ordered collection of day records for one
// calendar month. It is derived per request, never stored.
type MonthDays []DayRecord

// HeatingCost folds the per-day heating costs into a month total. Folding an
// empty collection has no identity element in this design and fails with
// ErrEmptyAggregation rather than returning 0.
func (m MonthDays) HeatingCost(unitCost float64) (float64, error) {
	return m.foldCost(func(d DayRecord) float64 { return d.HeatingCost(unitCost) })
}

// GeneralCost folds the per-day general costs into a month total. Empty
// collections fail with ErrEmptyAggregation.
func (m MonthDays) GeneralCost(unitCost float64) (float64, error) {
	return m.foldCost(func(d DayRecord) float64 { return d.GeneralCost(unitCost) })
}

func (m MonthDays) foldCost(cost func(DayRecord) float64) (float64, error) {
	if len(m) == 0 {
		return 0, ErrEmptyAggregation
	}
	total := 0.0
	for _, d := range m {
		total += cost(d)
	}
	return total, nil
}
