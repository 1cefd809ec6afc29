package amqp

import (
	"encoding/json"
	"time"
)

// DailySummaryMessage carries one rendered daily (or failure) summary to the
// notification channel.
type DailySummaryMessage struct {
	Date      string    `json:"date"` // YYYY-MM-DD
	Summary   string    `json:"summary"`
	Timestamp time.Time `json:"timestamp"`
}

func NewDailySummaryMessage(date, summary string) *DailySummaryMessage {
	return &DailySummaryMessage{
		Date:      date,
		Summary:   summary,
		Timestamp: time.Now(),
	}
}

func (m *DailySummaryMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func DailySummaryMessageFromJSON(data []byte) (*DailySummaryMessage, error) {
	var msg DailySummaryMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// IngestTriggerMessage requests an on-demand ingestion run. It carries no
// payload beyond the request time; the worker always ingests yesterday.
type IngestTriggerMessage struct {
	RequestedAt time.Time `json:"requested_at"`
}

func NewIngestTriggerMessage() *IngestTriggerMessage {
	return &IngestTriggerMessage{RequestedAt: time.Now()}
}

func (m *IngestTriggerMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func IngestTriggerMessageFromJSON(data []byte) (*IngestTriggerMessage, error) {
	var msg IngestTriggerMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
