package event

import (
	"encoding/json"
	"fmt"
	"time"
)

// Envelope is the only shape that crosses the process boundary. Payload holds the
// serialized payload as a JSON string, not a nested object.
type Envelope struct {
	EventID       string    `json:"eventId"`
	EventType     EventType `json:"eventType"`
	AggregateType string    `json:"aggregateType"`
	AggregateID   string    `json:"aggregateId"`
	OccurredAt    time.Time `json:"occurredAt"`
	Producer      string    `json:"producer"`
	TraceID       *string   `json:"traceId"`
	Version       string    `json:"version"`
	Payload       string    `json:"payload"`
}

// Marshal encodes the envelope for the broker.
func (e Envelope) Marshal() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("%w: envelope %s: %v", ErrSerialization, e.EventID, err)
	}
	return data, nil
}

// ParseEnvelope decodes a broker message value. The event type is not checked against
// the catalog here; Decode does that for the payload.
func ParseEnvelope(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("%w: envelope: %v", ErrSerialization, err)
	}
	if env.EventID == "" || env.EventType == "" {
		return Envelope{}, fmt.Errorf("%w: envelope without eventId or eventType", ErrSerialization)
	}
	return env, nil
}

// Decode decodes the envelope's payload.
func (e Envelope) Decode() (Payload, error) {
	return Decode(e.EventType, e.Payload)
}
