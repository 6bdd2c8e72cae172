// Package sse provides a minimal SSE (Server-Sent Events) writer for the
// streaming chat endpoint. Events carry a type and a JSON data payload.
//
// This package intentionally does NOT provide SSE reader or client
// capabilities.
//
// See the SSE specification:
// https://html.spec.whatwg.org/multipage/server-sent-events.html
package sse

// Event represents a single SSE event to be written to a client.
type Event struct {
	// Type is the SSE event type written to the "event:" field.
	// An empty string omits the field, yielding the default "message"
	// type per the SSE spec.
	Type string

	// Data is the payload written to the "data:" field. Payloads
	// containing newlines are split across multiple data lines per the
	// SSE spec.
	Data string
}
