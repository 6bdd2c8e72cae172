package sse

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// flusher matches writers that can push buffered bytes to the client.
// bufio.Writer satisfies it, as does http.Flusher behind an adapter.
type flusher interface {
	Flush() error
}

// Writer frames events onto an io.Writer, flushing after each event so
// clients see chunks as they are produced rather than on buffer boundaries.
type Writer struct {
	w io.Writer
}

// NewWriter wraps w as an SSE event writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write frames a single event and flushes it.
func (w *Writer) Write(ev Event) error {
	var b strings.Builder

	if ev.Type != "" {
		b.WriteString("event: ")
		b.WriteString(ev.Type)
		b.WriteString("\n")
	}

	// Multi-line payloads become one data field per line per the spec.
	for _, line := range strings.Split(ev.Data, "\n") {
		b.WriteString("data: ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if _, err := io.WriteString(w.w, b.String()); err != nil {
		return fmt.Errorf("writing event: %w", err)
	}

	if f, ok := w.w.(flusher); ok {
		if err := f.Flush(); err != nil {
			return fmt.Errorf("flushing event: %w", err)
		}
	}

	return nil
}

// WriteJSON marshals v and writes it as the event's data payload.
func (w *Writer) WriteJSON(eventType string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling event data: %w", err)
	}
	return w.Write(Event{Type: eventType, Data: string(data)})
}
