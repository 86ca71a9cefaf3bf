// Package tui shows paginated contact listings, either as plain prompted
// text or as a Bubble Tea pager when attached to a terminal.
package tui

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/smileynet/phonebook/internal/card"
	"github.com/smileynet/phonebook/internal/console"
	"github.com/smileynet/phonebook/internal/directory"
)

// NextPagePrompt is asked by PlainPager between pages.
const NextPagePrompt = "Enter - следующая страница, q - выход:"

// Pager displays pages of contacts.
type Pager interface {
	Show(ctx context.Context, pages []directory.Page) error
}

// PagerOptions configures pager creation.
type PagerOptions struct {
	Console    *console.Console // Prompts and output for the plain pager.
	Cards      *card.Renderer   // Renders each entry.
	In         io.Reader        // TUI input (default: os.Stdin).
	Out        io.Writer        // TUI output (default: the console output).
	ForcePlain bool             // Force plain text even if TTY.
	Logger     *zap.Logger
}

// NewPager returns a TUI pager when the output is a TTY, or a plain pager
// otherwise. ForcePlain overrides TTY detection.
func NewPager(opts PagerOptions) Pager {
	if opts.Out == nil {
		opts.Out = opts.Console.Out()
	}
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	plain := &PlainPager{console: opts.Console, cards: opts.Cards}
	if opts.ForcePlain || !console.IsTTY(opts.Out) {
		return plain
	}
	return &TUIPager{
		in:       opts.In,
		out:      opts.Out,
		cards:    opts.Cards,
		fallback: plain,
		log:      opts.Logger.Named("pager"),
	}
}

// PlainPager prints each page and asks before moving to the next one.
type PlainPager struct {
	console *console.Console
	cards   *card.Renderer
}

// NewPlainPager creates a PlainPager.
func NewPlainPager(c *console.Console, cards *card.Renderer) *PlainPager {
	return &PlainPager{console: c, cards: cards}
}

// Show prints the pages in order. Answering q (or й) at the prompt stops
// early. Returns io.EOF if input closes at the prompt.
func (p *PlainPager) Show(ctx context.Context, pages []directory.Page) error {
	for i, page := range pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		text, err := renderPage(p.cards, page)
		if err != nil {
			return err
		}
		if err := p.console.Printf("%s", text); err != nil {
			return err
		}
		if i == len(pages)-1 {
			break
		}

		answer, err := p.console.Choice(ctx, NextPagePrompt)
		if err != nil {
			return err
		}
		if isQuit(answer) {
			return nil
		}
	}
	return nil
}

func isQuit(answer string) bool {
	switch strings.ToLower(answer) {
	case "q", "й":
		return true
	}
	return false
}

// TUIPager shows pages in a Bubble Tea program.
// Falls back to PlainPager if the program fails to start.
type TUIPager struct {
	in       io.Reader
	out      io.Writer
	cards    *card.Renderer
	fallback Pager
	log      *zap.Logger
}

// Show runs the pager program until the user quits or pages past the end.
func (p *TUIPager) Show(ctx context.Context, pages []directory.Page) error {
	if len(pages) == 0 {
		return nil
	}

	rendered := make([]string, len(pages))
	for i, page := range pages {
		text, err := renderPage(p.cards, page)
		if err != nil {
			return err
		}
		rendered[i] = text
	}

	prog := tea.NewProgram(NewModel(rendered),
		tea.WithContext(ctx),
		tea.WithInput(p.in),
		tea.WithOutput(p.out),
	)
	if _, err := prog.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		p.log.Warn("tui pager failed, falling back to plain output", zap.Error(err))
		return p.fallback.Show(ctx, pages)
	}
	return nil
}

func renderPage(cards *card.Renderer, page directory.Page) (string, error) {
	var buf bytes.Buffer
	for _, e := range page.Entries {
		if err := cards.Render(&buf, e.Position, e.Record); err != nil {
			return "", fmt.Errorf("tui: rendering record %d: %w", e.Position, err)
		}
	}
	return buf.String(), nil
}
