// Package store persists contact records to a semicolon-delimited text file,
// one record per line in contact.Fields order.
package store

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/smileynet/phonebook/internal/contact"
)

// Delimiter separates field values on a line. Values are not escaped, so a
// value containing the delimiter does not survive a save/load round trip.
const Delimiter = ";"

// DefaultPath is the contacts file used when none is configured.
const DefaultPath = "contacts.txt"

// LineError reports a line that was skipped during Load.
type LineError struct {
	Line int    // 1-based line number.
	Text string // Raw line content.
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// Result is the outcome of a Load: the valid records in file order plus
// every line that was skipped.
type Result struct {
	Records []contact.Record
	Skipped []*LineError
}

// FileStore reads and writes the contacts file.
type FileStore struct {
	path      string
	validator *contact.Validator
	log       *zap.Logger
}

// NewFileStore creates a FileStore for path. Lines are rebuilt through v on
// load, so invalid records never reach memory.
func NewFileStore(path string, v *contact.Validator, log *zap.Logger) *FileStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &FileStore{path: path, validator: v, log: log.Named("store")}
}

// Path returns the file the store is bound to.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads every record from the file. A missing file yields an empty
// Result and no error. Lines that fail to parse or validate are skipped and
// reported in Result.Skipped; loading continues with the next line.
func (s *FileStore) Load() (Result, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.log.Info("contacts file not found, starting empty", zap.String("path", s.path))
			return Result{}, nil
		}
		return Result{}, fmt.Errorf("store: opening %s: %w", s.path, err)
	}
	defer f.Close()

	var res Result
	rd := bufio.NewReader(f)
	lineNo := 0
	for {
		raw, err := rd.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return Result{}, fmt.Errorf("store: reading %s: %w", s.path, err)
		}
		if raw != "" {
			lineNo++
			s.parseLine(&res, lineNo, raw)
		}
		if err != nil {
			break
		}
	}

	s.log.Info("contacts loaded",
		zap.String("path", s.path),
		zap.Int("records", len(res.Records)),
		zap.Int("skipped", len(res.Skipped)))
	return res, nil
}

// parseLine adds the record on line lineNo to res, or records why the line
// was skipped. Blank lines are ignored.
func (s *FileStore) parseLine(res *Result, lineNo int, raw string) {
	line := strings.TrimSpace(raw)
	if line == "" {
		return
	}
	r, err := s.validator.New(strings.Split(line, Delimiter)...)
	if err != nil {
		res.Skipped = append(res.Skipped, &LineError{Line: lineNo, Text: line, Err: err})
		s.log.Warn("skipping invalid line",
			zap.String("path", s.path),
			zap.Int("line", lineNo),
			zap.Error(err))
		return
	}
	res.Records = append(res.Records, r)
}

// Save rewrites the whole file with records, one line each. The content is
// written to a temp file in the same directory, synced, then renamed over
// the target. An existing file keeps its permission bits.
func (s *FileStore) Save(records []contact.Record) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("store: creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".contacts-*.tmp")
	if err != nil {
		return fmt.Errorf("store: creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	fail := func(step string, err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("store: %s: %w", step, err)
	}

	w := bufio.NewWriter(tmp)
	for _, r := range records {
		if _, err := w.WriteString(FormatLine(r)); err != nil {
			return fail("writing record", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fail("writing newline", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fail("flushing buffer", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("syncing temp file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("store: closing temp file: %w", err)
	}
	if err := os.Chmod(tmpName, s.fileMode()); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("store: setting permissions: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("store: writing %s: %w", s.path, err)
	}

	s.log.Info("contacts saved", zap.String("path", s.path), zap.Int("records", len(records)))
	return nil
}

// fileMode returns the mode of the existing target, or 0644 for a new file.
func (s *FileStore) fileMode() os.FileMode {
	fi, err := os.Stat(s.path)
	if err != nil || !fi.Mode().IsRegular() {
		return 0o644
	}
	return fi.Mode().Perm()
}

// FormatLine joins the record's values with Delimiter, without a newline.
func FormatLine(r contact.Record) string {
	return strings.Join(r.Values(), Delimiter)
}
