package tui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/smileynet/phonebook"
	"github.com/smileynet/phonebook/internal/card"
	"github.com/smileynet/phonebook/internal/console"
	"github.com/smileynet/phonebook/internal/contact"
	"github.com/smileynet/phonebook/internal/directory"
)

func testCards(t *testing.T) *card.Renderer {
	t.Helper()
	r, err := card.New(phonebook.Templates)
	if err != nil {
		t.Fatalf("card.New() error = %v", err)
	}
	return r
}

func testPages(n, size int) []directory.Page {
	recs := make([]contact.Record, n)
	for i := range recs {
		recs[i] = contact.Record{
			LastName:     fmt.Sprintf("Name%d", i+1),
			FirstName:    "Ivan",
			CompanyPhone: "+79001234567",
			Phone:        "+79007654321",
		}
	}
	return directory.Paginate(recs, size)
}

func TestNewPager_PlainWhenNotTTY(t *testing.T) {
	var buf bytes.Buffer
	c := console.New(strings.NewReader(""), &buf)

	p := NewPager(PagerOptions{Console: c, Cards: testCards(t)})

	if _, ok := p.(*PlainPager); !ok {
		t.Errorf("NewPager() = %T, want *PlainPager", p)
	}
}

func TestNewPager_ForcePlain(t *testing.T) {
	var buf bytes.Buffer
	c := console.New(strings.NewReader(""), &buf)

	p := NewPager(PagerOptions{Console: c, Cards: testCards(t), ForcePlain: true})

	if _, ok := p.(*PlainPager); !ok {
		t.Errorf("NewPager(ForcePlain) = %T, want *PlainPager", p)
	}
}

func TestPlainPager_ShowsAllPages(t *testing.T) {
	// Given 7 records in pages of 3 and the user pressing Enter twice
	var out bytes.Buffer
	c := console.New(strings.NewReader("\n\n"), &out)
	p := NewPlainPager(c, testCards(t))

	// When the pages are shown
	err := p.Show(context.Background(), testPages(7, 3))

	// Then every record appears with its overall position
	if err != nil {
		t.Fatalf("Show() error = %v", err)
	}
	got := out.String()
	for i := 1; i <= 7; i++ {
		if !strings.Contains(got, fmt.Sprintf("Запись № %d\n", i)) {
			t.Errorf("output missing position %d", i)
		}
		if !strings.Contains(got, fmt.Sprintf("Фамилия: Name%d\n", i)) {
			t.Errorf("output missing Name%d", i)
		}
	}
	// And the prompt appears between pages only
	if n := strings.Count(got, NextPagePrompt); n != 2 {
		t.Errorf("prompt count = %d, want 2", n)
	}
}

func TestPlainPager_QuitStopsEarly(t *testing.T) {
	for _, answer := range []string{"q", "Q", "й"} {
		t.Run(answer, func(t *testing.T) {
			var out bytes.Buffer
			c := console.New(strings.NewReader(answer+"\n"), &out)
			p := NewPlainPager(c, testCards(t))

			if err := p.Show(context.Background(), testPages(7, 3)); err != nil {
				t.Fatalf("Show() error = %v", err)
			}

			got := out.String()
			if !strings.Contains(got, "Name3") {
				t.Error("first page should be shown")
			}
			if strings.Contains(got, "Name4") {
				t.Error("second page should not be shown after quit")
			}
		})
	}
}

func TestPlainPager_SinglePageNoPrompt(t *testing.T) {
	var out bytes.Buffer
	c := console.New(strings.NewReader(""), &out)
	p := NewPlainPager(c, testCards(t))

	if err := p.Show(context.Background(), testPages(2, 5)); err != nil {
		t.Fatalf("Show() error = %v", err)
	}
	if strings.Contains(out.String(), NextPagePrompt) {
		t.Error("single page should not prompt")
	}
}

func TestPlainPager_EOFAtPrompt(t *testing.T) {
	var out bytes.Buffer
	c := console.New(strings.NewReader(""), &out)
	p := NewPlainPager(c, testCards(t))

	err := p.Show(context.Background(), testPages(6, 5))

	if !errors.Is(err, io.EOF) {
		t.Errorf("Show() error = %v, want io.EOF", err)
	}
}

func TestPlainPager_CancelledContext(t *testing.T) {
	var out bytes.Buffer
	c := console.New(strings.NewReader(""), &out)
	p := NewPlainPager(c, testCards(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := p.Show(ctx, testPages(3, 5)); !errors.Is(err, context.Canceled) {
		t.Errorf("Show() error = %v, want context.Canceled", err)
	}
	if out.Len() != 0 {
		t.Errorf("cancelled pager wrote %q", out.String())
	}
}

type brokenReader struct{}

func (brokenReader) Read([]byte) (int, error) { return 0, errors.New("device gone") }

func TestTUIPager_FallsBackToPlain(t *testing.T) {
	// Given a TUI pager whose input fails immediately
	var consoleOut, tuiOut bytes.Buffer
	c := console.New(strings.NewReader(""), &consoleOut)
	cards := testCards(t)
	p := &TUIPager{
		in:       brokenReader{},
		out:      &tuiOut,
		cards:    cards,
		fallback: NewPlainPager(c, cards),
		log:      zap.NewNop(),
	}

	// When a single page is shown
	err := p.Show(context.Background(), testPages(2, 5))

	// Then the plain pager prints it on the console
	if err != nil {
		t.Fatalf("Show() error = %v", err)
	}
	if !strings.Contains(consoleOut.String(), "Фамилия: Name2") {
		t.Errorf("fallback output = %q", consoleOut.String())
	}
}

func TestTUIPager_NoPages(t *testing.T) {
	p := &TUIPager{in: brokenReader{}, out: io.Discard, cards: testCards(t), log: zap.NewNop()}

	if err := p.Show(context.Background(), nil); err != nil {
		t.Errorf("Show(nil) error = %v", err)
	}
}
