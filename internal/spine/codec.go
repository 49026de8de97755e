// Package spine implements the event codec for the append-only event log:
// a static registry mapping event type tags to their concrete types, and
// payload serialization that preserves decimal precision, timestamp offsets,
// and enumeration identity across a write/read round-trip.
package spine

import (
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/praxishq/praxis/internal/domain"
)

// decodeFunc rehydrates a payload into its concrete event type. Unknown extra
// fields in the payload are ignored, tolerating additive schema evolution.
type decodeFunc func(payload []byte) (domain.Event, error)

// registry is built once at process start; replay cost does not depend on
// per-row reflection over the event set.
var registry = map[string]decodeFunc{
	"CommandAccepted":   decodeAs[domain.CommandAccepted],
	"OrderSubmitIntent": decodeAs[domain.OrderSubmitIntent],
	"OrderSubmitted":    decodeAs[domain.OrderSubmitted],
	"OrderSubmitFailed": decodeAs[domain.OrderSubmitFailed],
	"OrderAcked":        decodeAs[domain.OrderAcked],
	"FillReceived":      decodeAs[domain.FillReceived],
	"OrderRejected":     decodeAs[domain.OrderRejected],
	"OrderCanceled":     decodeAs[domain.OrderCanceled],
	"OrderExpired":      decodeAs[domain.OrderExpired],
	"TradeClosed":       decodeAs[domain.TradeClosed],
}

func decodeAs[T domain.Event](payload []byte) (domain.Event, error) {
	var ev T
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, fmt.Errorf("spine: decode %T: %w", ev, err)
	}
	if err := ev.Validate(); err != nil {
		return nil, fmt.Errorf("spine: decode %T: %w", ev, err)
	}
	return ev, nil
}

// Registered reports whether the event type tag is known to the codec.
func Registered(eventType string) bool {
	_, ok := registry[eventType]
	return ok
}

// Encode validates the event and serializes it to its storage payload.
// Decimals are rendered as digit strings and timestamps as RFC 3339 with
// their original offset, so Decode reconstructs them exactly.
func Encode(ev domain.Event) ([]byte, error) {
	if !Registered(ev.EventType()) {
		return nil, fmt.Errorf("spine: unregistered event type %q", ev.EventType())
	}
	if err := ev.Validate(); err != nil {
		return nil, err
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("spine: encode %s: %w", ev.EventType(), err)
	}
	return payload, nil
}

// Decode rehydrates a stored payload into its concrete event type using the
// registry. Payloads with a flat schema only; nested structured records are
// not supported.
func Decode(eventType string, payload []byte) (domain.Event, error) {
	decode, ok := registry[eventType]
	if !ok {
		return nil, fmt.Errorf("spine: unknown event type %q", eventType)
	}
	return decode(payload)
}
