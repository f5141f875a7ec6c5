package shell

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// sink is a buffered output destination, stdout or a file.
type sink struct {
	name string
	w    *bufio.Writer
	f    *os.File
}

func newStreamSink(name string, w io.Writer) *sink {
	return &sink{name: name, w: bufio.NewWriter(w)}
}

// openFileSink opens path for appending, creating it when missing.
func openFileSink(path string) (*sink, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", path, err)
	}
	return &sink{name: path, w: bufio.NewWriter(f), f: f}, nil
}

func (s *sink) Write(p []byte) (int, error) {
	return s.w.Write(p)
}

func (s *sink) Flush() error {
	return s.w.Flush()
}

// Close flushes and, for files, closes the underlying handle.
func (s *sink) Close() error {
	err := s.w.Flush()
	if s.f != nil {
		if cerr := s.f.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func (s *sink) isFile() bool {
	return s.f != nil
}
