package directory

import "github.com/smileynet/phonebook/internal/contact"

// DefaultPageSize is the number of records per page when none is configured.
const DefaultPageSize = 5

// Entry is a record together with its 1-based position in the full sequence.
type Entry struct {
	Position int
	Record   contact.Record
}

// Page is one fixed-size chunk of a listing. Number is 0-based.
type Page struct {
	Number  int
	Entries []Entry
}

// Paginate splits records into ceil(len/size) pages. The position of the
// i-th entry on page p is i + 1 + p*size. A size below 1 uses
// DefaultPageSize; an empty input yields no pages.
func Paginate(records []contact.Record, size int) []Page {
	if size < 1 {
		size = DefaultPageSize
	}
	pages := make([]Page, 0, (len(records)+size-1)/size)
	for start := 0; start < len(records); start += size {
		end := min(start+size, len(records))
		number := start / size
		page := Page{Number: number, Entries: make([]Entry, 0, end-start)}
		for i, r := range records[start:end] {
			page.Entries = append(page.Entries, Entry{Position: i + 1 + number*size, Record: r})
		}
		pages = append(pages, page)
	}
	return pages
}
