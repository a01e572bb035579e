package chart

import (
	"encoding/json"
	"strconv"

	"github.com/go-drift/chartview/pkg/document"
	"github.com/go-drift/chartview/pkg/errors"
)

// Event is a user-interaction payload forwarded verbatim from the embedded
// context over the event channel. The payload shape is caller-defined by
// convention; the only field this package consumes is the identifier.
type Event struct {
	// ID is the identifier field extracted from the payload, when present.
	ID string

	// Payload is the full decoded message body.
	Payload map[string]any
}

// eventIDKey is the conventional identifier field in event payloads.
const eventIDKey = "id"

// decodeEvent parses an event-channel message body.
func decodeEvent(body string) (Event, error) {
	var payload map[string]any
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return Event{}, &errors.DecodeError{
			Channel:  document.DefaultEventChannel,
			DataType: "chart event",
			Got:      body,
		}
	}

	event := Event{Payload: payload}
	switch id := payload[eventIDKey].(type) {
	case string:
		event.ID = id
	case float64:
		event.ID = strconv.FormatFloat(id, 'f', -1, 64)
	}
	return event, nil
}
