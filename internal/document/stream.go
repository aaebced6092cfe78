// SPDX-License-Identifier: MPL-2.0

package document

import (
	"fmt"
	"io"
	"sync"
	"unicode/utf8"
)

// Stream is an append-only Document over an io.Writer, such as standard
// output. Its cursor is always the number of characters written so far.
type Stream struct {
	mu      sync.Mutex
	w       io.Writer
	written int
}

// NewStream returns a Stream writing to w.
func NewStream(w io.Writer) *Stream {
	return &Stream{w: w}
}

// Cursor returns the number of characters written.
func (s *Stream) Cursor() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.written
}

// InsertAtCursor writes text unchanged to the underlying writer.
func (s *Stream) InsertAtCursor(text string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := s.written
	if _, err := io.WriteString(s.w, text); err != nil {
		return start, fmt.Errorf("failed to write document: %w", err)
	}
	s.written += utf8.RuneCountInString(text)
	return start, nil
}
