package powerfox

import (
	"stromkosten/internal/core"
)

// Division is the provider's meter category.
type Division int

const (
	DivisionNoType           Division = -1
	DivisionElectricityMeter Division = 0
	DivisionColdWaterMeter   Division = 1
	DivisionWarmWaterMeter   Division = 2
	DivisionWarmthMeter      Division = 3
	DivisionGasMeter         Division = 4
	DivisionColdAndWarmWater Division = 5
)

// Device is the provider's wire representation of a metered device.
type Device struct {
	DeviceID               string   `json:"DeviceId"`
	Name                   string   `json:"Name"`
	AccountAssociatedSince int64    `json:"AccountAssociatedSince"` // unix seconds
	MainDevice             bool     `json:"MainDevice"`
	Prosumer               bool     `json:"Prosumer"`
	Division               Division `json:"Division"`
}

// Report is the provider's consumption report for one device and window.
type Report struct {
	Consumption ValueWrapper `json:"Consumption"`
	FeedIn      ValueWrapper `json:"FeedIn"`
}

// ValueWrapper aggregates the report values of one direction. Sum and Max
// are in kWh.
type ValueWrapper struct {
	StartTime     int64         `json:"StartTime"` // unix seconds
	Sum           float64       `json:"Sum"`
	Max           float64       `json:"Max"`
	SumCurrency   float64       `json:"SumCurrency"`
	MaxCurrency   float64       `json:"MaxCurrency"`
	MeterReadings []string      `json:"MeterReadings"`
	ReportValues  []ReportValue `json:"ReportValues"`
}

// ReportValue is a single interval within a report.
type ReportValue struct {
	DeviceID  string  `json:"DeviceId"`
	Timestamp int64   `json:"Timestamp"` // unix seconds
	Complete  bool    `json:"Complete"`
	Delta     float64 `json:"Delta"`
	// DeltaHT and DeltaNT are only present on heating tariff meters.
	DeltaHT       *float64 `json:"DeltaHT,omitempty"`
	DeltaNT       *float64 `json:"DeltaNT,omitempty"`
	DeltaCurrency float64  `json:"DeltaCurrency"`
	ValuesType    int      `json:"ValuesType"`
}

// Core converts the wire report to the slice the domain consumes.
func (r Report) Core() core.Report {
	return core.Report{Consumption: core.ConsumptionWindow{Sum: r.Consumption.Sum}}
}

// Core converts the wire device to the domain device with an unknown role.
func (d Device) Core() core.Device {
	return core.Device{DeviceID: d.DeviceID, Name: d.Name, Role: core.RoleUnknown}
}
