package services

import (
	"context"
	"fmt"
	"log/slog"

	"stromkosten/internal/core"
)

// Classifier maps the provider's device list to the two semantic roles by
// exact name match against the configured role markers. Classification and
// report fetching are fused into a single pass: one report fetch per matched
// device, short-circuiting once both slots are filled.
type Classifier struct {
	fetcher       ReportFetcher
	heatingMarker string
	generalMarker string
}

func NewClassifier(fetcher ReportFetcher, heatingMarker, generalMarker string) *Classifier {
	return &Classifier{
		fetcher:       fetcher,
		heatingMarker: heatingMarker,
		generalMarker: generalMarker,
	}
}

// ClassifiedReports holds exactly one report per semantic role.
type ClassifiedReports struct {
	Heating core.Report
	General core.Report
}

// ClassifyForDay classifies the account's devices and fetches each matched
// device's report for the given day. A run either fills both slots or fails
// with a MissingDeviceError for the first empty one; there is no partial
// success.
func (c *Classifier) ClassifyForDay(ctx context.Context, date core.Date) (ClassifiedReports, error) {
	return c.classify(ctx, func(deviceID string) (core.Report, error) {
		report, err := c.fetcher.ReportForDay(ctx, deviceID, date)
		if err != nil {
			return core.Report{}, err
		}
		return report.Core(), nil
	})
}

// ClassifyRolling is the display-only variant: it fetches each matched
// device's rolling 24h report instead of a full calendar day.
func (c *Classifier) ClassifyRolling(ctx context.Context) (ClassifiedReports, error) {
	return c.classify(ctx, func(deviceID string) (core.Report, error) {
		report, err := c.fetcher.Report(ctx, deviceID)
		if err != nil {
			return core.Report{}, err
		}
		return report.Core(), nil
	})
}

func (c *Classifier) classify(ctx context.Context, fetch func(deviceID string) (core.Report, error)) (ClassifiedReports, error) {
	devices, err := c.fetcher.Devices(ctx)
	if err != nil {
		return ClassifiedReports{}, fmt.Errorf("list devices: %w", err)
	}

	var (
		result     ClassifiedReports
		hasHeating bool
		hasGeneral bool
	)

	for _, device := range devices {
		var role core.Role
		switch device.Name {
		case c.heatingMarker:
			role = core.RoleHeating
		case c.generalMarker:
			role = core.RoleGeneral
		default:
			continue
		}

		report, err := fetch(device.DeviceID)
		if err != nil {
			return ClassifiedReports{}, fmt.Errorf("fetch %s report for device %s: %w", role, device.DeviceID, err)
		}

		slog.DebugContext(ctx, "Device classified",
			"device_id", device.DeviceID,
			"device_name", device.Name,
			"role", role.String(),
			"kwh", report.Consumption.Sum)

		switch role {
		case core.RoleHeating:
			result.Heating = report
			hasHeating = true
		case core.RoleGeneral:
			result.General = report
			hasGeneral = true
		}

		if hasHeating && hasGeneral {
			break
		}
	}

	if !hasHeating {
		return ClassifiedReports{}, &core.MissingDeviceError{Role: core.RoleHeating, Marker: c.heatingMarker}
	}
	if !hasGeneral {
		return ClassifiedReports{}, &core.MissingDeviceError{Role: core.RoleGeneral, Marker: c.generalMarker}
	}

	return result, nil
}
