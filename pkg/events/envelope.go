package events

import (
	"encoding/json"
	"time"

	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/enums"
)

// PayloadEnvelope is the stable message body published on domain topics.
type PayloadEnvelope struct {
	Version    int             `json:"version"`
	EventID    string          `json:"eventId"`
	EventType  enums.EventType `json:"eventType,omitempty"`
	OccurredAt time.Time       `json:"occurredAt"`
	Data       json.RawMessage `json:"data"`
}

// Message attribute keys set by publishers next to the envelope.
const (
	AttrEventType  = "event_type"
	AttrEventID    = "event_id"
	AttrOccurredAt = "occurred_at"
)
