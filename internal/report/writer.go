package report

import (
	"io"

	"github.com/anityu45/footprintscan/internal/model"
)

// Writer renders a terminal scan record to a destination.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files, stdout, or network
// connections with the same API.
type Writer interface {
	// Write outputs the record to the configured destination. It
	// returns the number of bytes written and any error encountered.
	Write(rec *model.ScanRecord) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously, typically the
// terminal plus a file.
//
// Design decision: We implement this as a separate type rather than
// using io.MultiWriter because our Writer interface is different from
// io.Writer - we write records, not raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the record to all configured Writers. It returns the
// total bytes written and stops on the first error.
func (m *MultiWriter) Write(rec *model.ScanRecord) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(rec)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides the shared output destination.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
