package sse

import (
	"bufio"
	"bytes"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// failWriter fails every write, standing in for a closed client connection.
type failWriter struct{}

func (failWriter) Write([]byte) (int, error) {
	return 0, errors.New("broken pipe")
}

var _ = Describe("Writer", func() {
	var buf *bytes.Buffer

	BeforeEach(func() {
		buf = &bytes.Buffer{}
	})

	Describe("Write", func() {
		It("frames an event with type and data", func() {
			w := NewWriter(buf)
			Expect(w.Write(Event{Type: "answer", Data: "hello"})).To(Succeed())
			Expect(buf.String()).To(Equal("event: answer\ndata: hello\n\n"))
		})

		It("omits the event field for the default type", func() {
			w := NewWriter(buf)
			Expect(w.Write(Event{Data: "hello"})).To(Succeed())
			Expect(buf.String()).To(Equal("data: hello\n\n"))
		})

		It("splits multi-line payloads across data fields", func() {
			w := NewWriter(buf)
			Expect(w.Write(Event{Type: "answer", Data: "line one\nline two"})).To(Succeed())
			Expect(buf.String()).To(Equal("event: answer\ndata: line one\ndata: line two\n\n"))
		})

		It("flushes buffered writers after each event", func() {
			bw := bufio.NewWriterSize(buf, 4096)
			w := NewWriter(bw)
			Expect(w.Write(Event{Type: "answer", Data: "hello"})).To(Succeed())
			Expect(buf.String()).To(Equal("event: answer\ndata: hello\n\n"))
		})

		It("surfaces write failures", func() {
			w := NewWriter(failWriter{})
			Expect(w.Write(Event{Data: "hello"})).To(HaveOccurred())
		})
	})

	Describe("WriteJSON", func() {
		It("marshals the payload as the data field", func() {
			w := NewWriter(buf)
			Expect(w.WriteJSON("sources", map[string]int{"count": 3})).To(Succeed())
			Expect(buf.String()).To(Equal("event: sources\ndata: {\"count\":3}\n\n"))
		})

		It("rejects unmarshalable payloads", func() {
			w := NewWriter(buf)
			Expect(w.WriteJSON("bad", func() {})).To(HaveOccurred())
			Expect(buf.String()).To(BeEmpty())
		})
	})
})
