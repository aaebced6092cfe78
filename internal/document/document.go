// SPDX-License-Identifier: MPL-2.0

package document

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"
)

var (
	// ErrCursorOutOfRange is the sentinel error wrapped by CursorOutOfRangeError.
	ErrCursorOutOfRange = errors.New("cursor out of range")
	// ErrInvalidPosition is returned when a LINE:COL position cannot be parsed.
	ErrInvalidPosition = errors.New("invalid position")
)

type (
	// Document is the editable text the script output is inserted into.
	// Positions are character offsets, 0 being before the first character.
	// A byte that is not part of valid UTF-8 counts as one character.
	Document interface {
		// Cursor returns the current insertion point.
		Cursor() int
		// InsertAtCursor inserts text verbatim at the cursor, moves the
		// cursor to the end of the inserted text and returns the position
		// the text was inserted at.
		InsertAtCursor(text string) (int, error)
	}

	// CursorOutOfRangeError is returned when a position falls outside the document.
	CursorOutOfRangeError struct {
		Pos int
		Len int
	}

	// Buffer is an in-memory Document. It is safe for concurrent use; each
	// insertion reads the cursor and writes the text under one lock.
	//
	// The text is kept as raw bytes, so content in other encodings
	// survives edits unchanged.
	Buffer struct {
		mu   sync.Mutex
		text []byte
		// off is the cursor as a byte offset into text; cursor is the same
		// position counted in characters.
		off    int
		cursor int
	}
)

// Error implements the error interface.
func (e *CursorOutOfRangeError) Error() string {
	return fmt.Sprintf("position %d is outside the document (length %d)", e.Pos, e.Len)
}

// Unwrap returns ErrCursorOutOfRange for errors.Is() compatibility.
func (e *CursorOutOfRangeError) Unwrap() error { return ErrCursorOutOfRange }

// NewBuffer returns a Buffer holding text with the cursor at the start.
func NewBuffer(text string) *Buffer {
	return &Buffer{text: []byte(text)}
}

// Cursor returns the current insertion point.
func (b *Buffer) Cursor() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cursor
}

// SetCursor moves the insertion point. pos must be within [0, Len()].
func (b *Buffer) SetCursor(pos int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n := utf8.RuneCount(b.text); pos < 0 || pos > n {
		return &CursorOutOfRangeError{Pos: pos, Len: n}
	}
	b.off = byteOffset(b.text, pos)
	b.cursor = pos
	return nil
}

// SetCursorLineCol moves the insertion point to a 1-based line and column.
// A column one past the last character of the line addresses the line end.
func (b *Buffer) SetCursorLineCol(line, col int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	off, err := offsetOf(b.text, line, col)
	if err != nil {
		return err
	}
	b.off = off
	b.cursor = utf8.RuneCount(b.text[:off])
	return nil
}

// MoveToEnd places the cursor after the last character.
func (b *Buffer) MoveToEnd() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.off = len(b.text)
	b.cursor = utf8.RuneCount(b.text)
}

// InsertAtCursor inserts text at the cursor and advances the cursor past it.
// The text is not validated or transformed.
func (b *Buffer) InsertAtCursor(text string) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	start := b.cursor
	out := make([]byte, 0, len(b.text)+len(text))
	out = append(out, b.text[:b.off]...)
	out = append(out, text...)
	out = append(out, b.text[b.off:]...)
	b.text = out
	b.off += len(text)
	b.cursor += utf8.RuneCountInString(text)
	return start, nil
}

// Len returns the document length in characters.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return utf8.RuneCount(b.text)
}

// String returns the full document text.
func (b *Buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.text)
}

// Bytes returns a copy of the document content.
func (b *Buffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return bytes.Clone(b.text)
}

// byteOffset returns the byte offset of the pos-th character of text.
func byteOffset(text []byte, pos int) int {
	off := 0
	for range pos {
		_, size := utf8.DecodeRune(text[off:])
		off += size
	}
	return off
}

// offsetOf converts a 1-based line/column pair into a byte offset.
func offsetOf(text []byte, line, col int) (int, error) {
	if line < 1 || col < 1 {
		return 0, fmt.Errorf("%w: line and column are 1-based, got %d:%d", ErrCursorOutOfRange, line, col)
	}

	start := 0
	for l := 1; l < line; l++ {
		idx := bytes.IndexByte(text[start:], '\n')
		if idx < 0 {
			return 0, fmt.Errorf("%w: line %d past end of document", ErrCursorOutOfRange, line)
		}
		start += idx + 1
	}

	lineText := text[start:]
	if idx := bytes.IndexByte(lineText, '\n'); idx >= 0 {
		lineText = lineText[:idx]
	}
	if lineLen := utf8.RuneCount(lineText); col-1 > lineLen {
		return 0, fmt.Errorf("%w: column %d past end of line %d (length %d)", ErrCursorOutOfRange, col, line, lineLen)
	}
	return start + byteOffset(lineText, col-1), nil
}

// ParseLineCol parses a "LINE:COL" or "LINE" position (column defaults to 1).
func ParseLineCol(s string) (line, col int, err error) {
	l, c, found := strings.Cut(strings.TrimSpace(s), ":")
	line, err = strconv.Atoi(l)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: bad line in %q", ErrInvalidPosition, s)
	}
	col = 1
	if found {
		col, err = strconv.Atoi(c)
		if err != nil {
			return 0, 0, fmt.Errorf("%w: bad column in %q", ErrInvalidPosition, s)
		}
	}
	return line, col, nil
}
