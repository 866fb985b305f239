package emit

import (
	"io"
	"strings"
)

// Sink receives output fragments in order.
type Sink interface {
	Push(fragment string) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(fragment string) error

func (f SinkFunc) Push(fragment string) error { return f(fragment) }

// WriterSink writes fragments to an io.Writer.
type WriterSink struct {
	w io.Writer
}

func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) Push(fragment string) error {
	_, err := io.WriteString(s.w, fragment)
	return err
}

// StringSink collects fragments in memory.
type StringSink struct {
	sb strings.Builder
}

func (s *StringSink) Push(fragment string) error {
	s.sb.WriteString(fragment)
	return nil
}

func (s *StringSink) String() string { return s.sb.String() }
