// Package meteo fetches hourly outdoor temperatures from an open-meteo
// compatible API. The pipeline only consumes the daily average.
package meteo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"stromkosten/internal/core"
)

var ErrNoTemperatures = errors.New("temperature series is empty")

type Client struct {
	httpClient *http.Client
	baseURL    string
	latitude   string
	longitude  string
}

func NewClient(baseURL, latitude, longitude string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		latitude:   latitude,
		longitude:  longitude,
	}
}

// TemperatureData is the hourly forecast payload for one day.
type TemperatureData struct {
	Latitude         float64     `json:"latitude"`
	Longitude        float64     `json:"longitude"`
	Timezone         string      `json:"timezone"`
	Elevation        float64     `json:"elevation"`
	HourlyUnits      HourlyUnits `json:"hourly_units"`
	Hourly           Hourly      `json:"hourly"`
	UTCOffsetSeconds int         `json:"utc_offset_seconds"`
}

type HourlyUnits struct {
	Time          string `json:"time"`
	Temperature2m string `json:"temperature_2m"`
}

type Hourly struct {
	Time []string `json:"time"`
	// Temperature two meters above ground, in °C.
	Temperature2m []float64 `json:"temperature_2m"`
}

// AverageTemperature returns the mean of the hourly series.
func (t TemperatureData) AverageTemperature() (float64, error) {
	if len(t.Hourly.Temperature2m) == 0 {
		return 0, ErrNoTemperatures
	}
	sum := 0.0
	for _, v := range t.Hourly.Temperature2m {
		sum += v
	}
	return sum / float64(len(t.Hourly.Temperature2m)), nil
}

// HourlyTemperatures returns the hourly temperature series for the given
// day (00:00 to 23:00).
func (c *Client) HourlyTemperatures(ctx context.Context, date core.Date) (TemperatureData, error) {
	url := fmt.Sprintf("%s/v1/forecast?latitude=%s&longitude=%s&hourly=temperature_2m&start_date=%s&end_date=%s",
		c.baseURL, c.latitude, c.longitude, date.String(), date.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return TemperatureData{}, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return TemperatureData{}, fmt.Errorf("request %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return TemperatureData{}, fmt.Errorf("request %s: unexpected status %d: %s", url, resp.StatusCode, body)
	}

	var data TemperatureData
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return TemperatureData{}, fmt.Errorf("decode response: %w", err)
	}
	return data, nil
}

// AverageTemperatureFor returns the scalar average temperature for the
// given day.
func (c *Client) AverageTemperatureFor(ctx context.Context, date core.Date) (float64, error) {
	data, err := c.HourlyTemperatures(ctx, date)
	if err != nil {
		return 0, err
	}
	return data.AverageTemperature()
}
