// Package powerfox is a client for the powerfox customer API, which lists a
// household's metered devices and serves per-device consumption reports.
package powerfox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"stromkosten/internal/core"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	username   string
	password   string
}

func NewClient(baseURL, username, password string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		username:   username,
		password:   password,
	}
}

func (c *Client) get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("request %s: unexpected status %d: %s", url, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response from %s: %w", url, err)
	}
	return nil
}

// Devices lists all devices linked to the configured account.
func (c *Client) Devices(ctx context.Context) ([]Device, error) {
	var devices []Device
	url := fmt.Sprintf("%s/api/2.0/my/all/devices", c.baseURL)
	if err := c.get(ctx, url, &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

// Report returns the specified device's values for the last 24 hours.
func (c *Client) Report(ctx context.Context, deviceID string) (Report, error) {
	var report Report
	url := fmt.Sprintf("%s/api/2.0/my/%s/report", c.baseURL, deviceID)
	if err := c.get(ctx, url, &report); err != nil {
		return Report{}, err
	}
	return report, nil
}

// ReportForDay returns the specified device's values for the given calendar
// day (00:00 to 23:59).
func (c *Client) ReportForDay(ctx context.Context, deviceID string, date core.Date) (Report, error) {
	var report Report
	url := fmt.Sprintf("%s/api/2.0/my/%s/report?year=%d&month=%d&day=%d",
		c.baseURL, deviceID, date.Year(), int(date.Month()), date.Day())
	if err := c.get(ctx, url, &report); err != nil {
		return Report{}, err
	}
	return report, nil
}
