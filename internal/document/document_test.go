// SPDX-License-Identifier: MPL-2.0

package document

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestBuffer_InsertAtCursor(t *testing.T) {
	t.Parallel()

	b := NewBuffer("héllo world")
	if err := b.SetCursor(5); err != nil {
		t.Fatalf("SetCursor(5) error = %v", err)
	}
	start, err := b.InsertAtCursor(", dear")
	if err != nil {
		t.Fatalf("InsertAtCursor() error = %v", err)
	}
	if start != 5 {
		t.Errorf("InsertAtCursor() start = %d, want 5", start)
	}

	if got, want := b.String(), "héllo, dear world"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got := b.Cursor(); got != 11 {
		t.Errorf("Cursor() = %d, want 11", got)
	}
}

func TestBuffer_InsertEmptyKeepsCursor(t *testing.T) {
	t.Parallel()

	b := NewBuffer("abc")
	b.MoveToEnd()
	if _, err := b.InsertAtCursor(""); err != nil {
		t.Fatalf("InsertAtCursor(\"\") error = %v", err)
	}
	if b.String() != "abc" || b.Cursor() != 3 {
		t.Errorf("got %q cursor %d, want %q cursor 3", b.String(), b.Cursor(), "abc")
	}
}

func TestBuffer_InsertNonUTF8Verbatim(t *testing.T) {
	t.Parallel()

	b := NewBuffer("D\xeda\nfin")
	if err := b.SetCursor(4); err != nil {
		t.Fatalf("SetCursor(4) error = %v", err)
	}
	start, err := b.InsertAtCursor("*** Feriado: D\xeda\n")
	if err != nil {
		t.Fatalf("InsertAtCursor() error = %v", err)
	}

	if got, want := b.String(), "D\xeda\n*** Feriado: D\xeda\nfin"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if start != 4 || b.Cursor() != 21 {
		t.Errorf("start = %d, Cursor() = %d, want 4 and 21", start, b.Cursor())
	}
	if b.Len() != 24 {
		t.Errorf("Len() = %d, want 24", b.Len())
	}
}

func TestBuffer_SetCursorLineColCountsCharacters(t *testing.T) {
	t.Parallel()

	b := NewBuffer("Reunión\nCondici\xf3n\n")
	if err := b.SetCursorLineCol(2, 10); err != nil {
		t.Fatalf("SetCursorLineCol(2, 10) error = %v", err)
	}
	if b.Cursor() != 17 {
		t.Errorf("Cursor() = %d, want 17", b.Cursor())
	}
	if _, err := b.InsertAtCursor("!"); err != nil {
		t.Fatalf("InsertAtCursor() error = %v", err)
	}
	if got, want := b.String(), "Reunión\nCondici\xf3n!\n"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestBuffer_SetCursorOutOfRange(t *testing.T) {
	t.Parallel()

	b := NewBuffer("abc")
	for _, pos := range []int{-1, 4} {
		err := b.SetCursor(pos)
		if !errors.Is(err, ErrCursorOutOfRange) {
			t.Errorf("SetCursor(%d) = %v, want ErrCursorOutOfRange", pos, err)
		}
		var rangeErr *CursorOutOfRangeError
		if !errors.As(err, &rangeErr) || rangeErr.Len != 3 {
			t.Errorf("SetCursor(%d) error = %#v, want CursorOutOfRangeError{Len: 3}", pos, err)
		}
	}
}

func TestBuffer_SetCursorLineCol(t *testing.T) {
	t.Parallel()

	text := "* 2025\n** FERIADOS\n\nlast"
	tests := []struct {
		name    string
		line    int
		col     int
		want    int
		wantErr bool
	}{
		{name: "start", line: 1, col: 1, want: 0},
		{name: "end of first line", line: 1, col: 7, want: 6},
		{name: "second line", line: 2, col: 4, want: 10},
		{name: "empty line", line: 3, col: 1, want: 19},
		{name: "last line end", line: 4, col: 5, want: 24},
		{name: "column past line end", line: 1, col: 8, wantErr: true},
		{name: "line past end", line: 5, col: 1, wantErr: true},
		{name: "zero line", line: 0, col: 1, wantErr: true},
		{name: "zero column", line: 1, col: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b := NewBuffer(text)
			err := b.SetCursorLineCol(tt.line, tt.col)
			if tt.wantErr {
				if !errors.Is(err, ErrCursorOutOfRange) {
					t.Fatalf("SetCursorLineCol(%d, %d) = %v, want ErrCursorOutOfRange", tt.line, tt.col, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("SetCursorLineCol(%d, %d) error = %v", tt.line, tt.col, err)
			}
			if got := b.Cursor(); got != tt.want {
				t.Errorf("Cursor() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBuffer_ConcurrentInsertsAreAtomic(t *testing.T) {
	t.Parallel()

	b := NewBuffer("")
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = b.InsertAtCursor("ab")
		}()
	}
	wg.Wait()

	if b.Len() != 100 || b.Cursor() != 100 {
		t.Errorf("Len() = %d, Cursor() = %d, want 100 and 100", b.Len(), b.Cursor())
	}
	for i := 0; i < b.Len(); i += 2 {
		if s := b.String()[i : i+2]; s != "ab" {
			t.Fatalf("interleaved insert at %d: %q", i, s)
		}
	}
}

func TestParseLineCol(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in       string
		line     int
		col      int
		hasError bool
	}{
		{in: "12:3", line: 12, col: 3},
		{in: "7", line: 7, col: 1},
		{in: " 2:1 ", line: 2, col: 1},
		{in: "x:1", hasError: true},
		{in: "1:y", hasError: true},
		{in: "12abc", hasError: true},
		{in: "", hasError: true},
	}

	for _, tt := range tests {
		line, col, err := ParseLineCol(tt.in)
		if (err != nil) != tt.hasError {
			t.Errorf("ParseLineCol(%q) error = %v, wantErr %v", tt.in, err, tt.hasError)
			continue
		}
		if !tt.hasError && (line != tt.line || col != tt.col) {
			t.Errorf("ParseLineCol(%q) = %d:%d, want %d:%d", tt.in, line, col, tt.line, tt.col)
		}
	}
}

func TestFile_OpenInsertSave(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "agenda.org")
	if err := os.WriteFile(path, []byte("* Notes\n"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	f, err := OpenFile(path, false)
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	f.MoveToEnd()
	if _, err := f.InsertAtCursor("* Event\n"); err != nil {
		t.Fatalf("InsertAtCursor() error = %v", err)
	}
	if err := f.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if got, want := string(data), "* Notes\n* Event\n"; got != want {
		t.Errorf("file content = %q, want %q", got, want)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("file mode = %v, want 0600", info.Mode().Perm())
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want 1 (temporary file left behind?)", len(entries))
	}
}

func TestFile_OpenMissing(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "new.org")

	if _, err := OpenFile(path, false); err == nil {
		t.Fatal("OpenFile(missing, create=false) = nil error, want error")
	}

	f, err := OpenFile(path, true)
	if err != nil {
		t.Fatalf("OpenFile(missing, create=true) error = %v", err)
	}
	if f.Len() != 0 {
		t.Errorf("Len() = %d, want 0", f.Len())
	}
	if f.Path() != path {
		t.Errorf("Path() = %q, want %q", f.Path(), path)
	}
	if _, err := f.InsertAtCursor("* 2025\n"); err != nil {
		t.Fatalf("InsertAtCursor() error = %v", err)
	}
	if err := f.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "* 2025\n" {
		t.Errorf("file content = %q, want %q", string(data), "* 2025\n")
	}
}

func TestFile_SaveIntoMissingDir(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing", "new.org")
	f, err := OpenFile(path, true)
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	if err := f.Save(); err == nil {
		t.Fatal("Save() into missing directory = nil, want error")
	}
}

func TestFile_NonUTF8RoundTrip(t *testing.T) {
	t.Parallel()

	original := "* Notas\nCondici\xf3n\n"
	path := filepath.Join(t.TempDir(), "agenda.org")
	if err := os.WriteFile(path, []byte(original), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	f, err := OpenFile(path, false)
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	f.MoveToEnd()
	if _, err := f.InsertAtCursor("* Event\n"); err != nil {
		t.Fatalf("InsertAtCursor() error = %v", err)
	}
	if err := f.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if want := original + "* Event\n"; !bytes.Equal(data, []byte(want)) {
		t.Errorf("file content = %q, want %q", data, want)
	}
}

func TestFile_SaveThroughSymlink(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "agenda.org")
	link := filepath.Join(dir, "current.org")
	if err := os.WriteFile(target, []byte("* Notes\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	f, err := OpenFile(link, false)
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	if f.Path() != link {
		t.Errorf("Path() = %q, want %q", f.Path(), link)
	}
	f.MoveToEnd()
	if _, err := f.InsertAtCursor("* Event\n"); err != nil {
		t.Fatalf("InsertAtCursor() error = %v", err)
	}
	if err := f.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Lstat(link)
	if err != nil {
		t.Fatalf("Lstat() error = %v", err)
	}
	if info.Mode()&os.ModeSymlink == 0 {
		t.Errorf("%s is no longer a symlink (mode %v)", link, info.Mode())
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if got, want := string(data), "* Notes\n* Event\n"; got != want {
		t.Errorf("target content = %q, want %q", got, want)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed pipe") }

func TestStream_InsertAtCursor(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	s := NewStream(&out)
	for _, text := range []string{"* 2025\n", "", "<2025-03-03 Mon>\n"} {
		if _, err := s.InsertAtCursor(text); err != nil {
			t.Fatalf("InsertAtCursor(%q) error = %v", text, err)
		}
	}
	if got, want := out.String(), "* 2025\n<2025-03-03 Mon>\n"; got != want {
		t.Errorf("written = %q, want %q", got, want)
	}
	if s.Cursor() != len([]rune(out.String())) {
		t.Errorf("Cursor() = %d, want %d", s.Cursor(), len([]rune(out.String())))
	}

	before := out.Len()
	start, err := s.InsertAtCursor("*** Feriado: D\xeda\n")
	if err != nil {
		t.Fatalf("InsertAtCursor(latin-1) error = %v", err)
	}
	if start != len([]rune("* 2025\n<2025-03-03 Mon>\n")) {
		t.Errorf("InsertAtCursor() start = %d, want %d", start, len([]rune("* 2025\n<2025-03-03 Mon>\n")))
	}
	if got := out.String()[before:]; got != "*** Feriado: D\xeda\n" {
		t.Errorf("written = %q, want the bytes unchanged", got)
	}
}

func TestStream_WriteFailure(t *testing.T) {
	t.Parallel()

	s := NewStream(failingWriter{})
	if _, err := s.InsertAtCursor("x"); err == nil {
		t.Fatal("InsertAtCursor() = nil, want write error")
	}
	if s.Cursor() != 0 {
		t.Errorf("Cursor() = %d after failed write, want 0", s.Cursor())
	}
}
