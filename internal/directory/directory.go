// Package directory holds the in-memory contact collection and the
// operations on it. Every mutation is persisted before it returns.
package directory

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/smileynet/phonebook/internal/contact"
)

// ErrIndexOutOfRange indicates a record position outside [1, Len].
var ErrIndexOutOfRange = errors.New("directory: record number out of range")

// Saver persists the full record sequence.
type Saver interface {
	Save(records []contact.Record) error
}

// Directory is the ordered contact collection. It is not safe for
// concurrent use.
type Directory struct {
	records []contact.Record
	saver   Saver
	log     *zap.Logger
}

// New returns a Directory seeded with records (typically the result of a
// store load). The slice is copied.
func New(records []contact.Record, saver Saver, log *zap.Logger) *Directory {
	if log == nil {
		log = zap.NewNop()
	}
	return &Directory{
		records: append([]contact.Record(nil), records...),
		saver:   saver,
		log:     log.Named("directory"),
	}
}

// Len returns the number of records.
func (d *Directory) Len() int {
	return len(d.records)
}

// Records returns a copy of all records in insertion order.
func (d *Directory) Records() []contact.Record {
	return append([]contact.Record(nil), d.records...)
}

// Get returns the record at 1-based position pos.
func (d *Directory) Get(pos int) (contact.Record, error) {
	if err := d.checkPos(pos); err != nil {
		return contact.Record{}, err
	}
	return d.records[pos-1], nil
}

// Add appends r and saves. If the save fails the append is undone.
func (d *Directory) Add(r contact.Record) error {
	d.records = append(d.records, r)
	if err := d.saver.Save(d.records); err != nil {
		d.records = d.records[:len(d.records)-1]
		d.log.Error("add not persisted", zap.Error(err))
		return fmt.Errorf("directory: saving new record: %w", err)
	}
	d.log.Info("record added", zap.Int("position", len(d.records)))
	return nil
}

// Update replaces the record at 1-based position pos and saves. If the save
// fails the previous record is restored.
func (d *Directory) Update(pos int, r contact.Record) error {
	if err := d.checkPos(pos); err != nil {
		return err
	}
	prev := d.records[pos-1]
	d.records[pos-1] = r
	if err := d.saver.Save(d.records); err != nil {
		d.records[pos-1] = prev
		d.log.Error("update not persisted", zap.Int("position", pos), zap.Error(err))
		return fmt.Errorf("directory: saving record %d: %w", pos, err)
	}
	d.log.Info("record updated", zap.Int("position", pos))
	return nil
}

// Search returns the records matching query under mode, in their original
// order. Matching is a case-insensitive substring test.
func (d *Directory) Search(mode SearchMode, query string) []contact.Record {
	needle := strings.ToLower(query)
	var out []contact.Record
	for _, r := range d.records {
		if strings.Contains(strings.ToLower(mode.text(r)), needle) {
			out = append(out, r)
		}
	}
	d.log.Debug("search", zap.Stringer("mode", mode), zap.Int("matches", len(out)))
	return out
}

func (d *Directory) checkPos(pos int) error {
	if pos < 1 || pos > len(d.records) {
		return fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, pos, len(d.records))
	}
	return nil
}

// SearchMode selects which text of a record a search looks at.
type SearchMode int

const (
	ByLastName SearchMode = iota + 1
	ByCompany
	ByFullText
)

func (m SearchMode) String() string {
	switch m {
	case ByLastName:
		return "lastname"
	case ByCompany:
		return "company"
	case ByFullText:
		return "fulltext"
	default:
		return fmt.Sprintf("SearchMode(%d)", int(m))
	}
}

func (m SearchMode) text(r contact.Record) string {
	switch m {
	case ByLastName:
		return r.LastName
	case ByCompany:
		return r.Company
	default:
		return r.SearchText()
	}
}
