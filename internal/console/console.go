// Package console is the line-oriented terminal boundary: prompts, defaults,
// pauses and styled status lines.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// PauseText is printed by Pause.
const PauseText = "Нажмите Enter для продолжения..."

const clearSequence = "\033[H\033[2J"

// Console reads answers from in and writes prompts and messages to out.
type Console struct {
	in     *bufio.Reader
	out    io.Writer
	tty    bool
	styles styles

	// pending is a read still in flight after a cancelled ReadLine.
	pending chan lineResult
}

type lineResult struct {
	line string
	err  error
}

type styles struct {
	title   lipgloss.Style
	info    lipgloss.Style
	success lipgloss.Style
	warn    lipgloss.Style
	err     lipgloss.Style
	prompt  lipgloss.Style
	hint    lipgloss.Style
}

// New creates a Console. Styling and screen clearing are only active when
// out is a terminal.
func New(in io.Reader, out io.Writer) *Console {
	r := lipgloss.NewRenderer(out)
	return &Console{
		in:  bufio.NewReader(in),
		out: out,
		tty: IsTTY(out),
		styles: styles{
			title:   r.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "4", Dark: "12"}),
			info:    r.NewStyle(),
			success: r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "2", Dark: "10"}),
			warn:    r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "208", Dark: "208"}),
			err:     r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "1", Dark: "9"}),
			prompt:  r.NewStyle().Bold(true),
			hint:    r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "245"}),
		},
	}
}

// IsTTY reports whether w is connected to a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Out returns the writer the console prints to.
func (c *Console) Out() io.Writer {
	return c.out
}

// IsTTY reports whether the console output is a terminal.
func (c *Console) IsTTY() bool {
	return c.tty
}

// ReadLine reads one line and trims surrounding whitespace. A final line
// without a newline is returned normally; after that io.EOF is returned.
// It returns ctx.Err() as soon as ctx is cancelled, even while the read
// itself is still blocked; the next ReadLine picks that line up.
func (c *Console) ReadLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if c.pending == nil {
		ch := make(chan lineResult, 1)
		in := c.in
		go func() {
			line, err := in.ReadString('\n')
			ch <- lineResult{line: line, err: err}
		}()
		c.pending = ch
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-c.pending:
		c.pending = nil
		if res.err != nil {
			if errors.Is(res.err, io.EOF) && res.line != "" {
				return strings.TrimSpace(res.line), nil
			}
			return "", res.err
		}
		return strings.TrimSpace(res.line), nil
	}
}

// Choice prints prompt and reads the answer.
func (c *Console) Choice(ctx context.Context, prompt string) (string, error) {
	if err := c.write(c.styles.prompt.Render(prompt) + " "); err != nil {
		return "", err
	}
	return c.ReadLine(ctx)
}

// Ask prompts for a value with "label: ".
func (c *Console) Ask(ctx context.Context, label string) (string, error) {
	return c.Choice(ctx, label+":")
}

// AskDefault prompts with "label [current]: ". A blank answer returns current.
func (c *Console) AskDefault(ctx context.Context, label, current string) (string, error) {
	prompt := c.styles.prompt.Render(label) + " " + c.styles.hint.Render("["+current+"]") + c.styles.prompt.Render(":") + " "
	if err := c.write(prompt); err != nil {
		return "", err
	}
	answer, err := c.ReadLine(ctx)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return current, nil
	}
	return answer, nil
}

// Pause waits for the user to press Enter.
func (c *Console) Pause(ctx context.Context) error {
	if err := c.write(c.styles.hint.Render(PauseText)); err != nil {
		return err
	}
	_, err := c.ReadLine(ctx)
	return err
}

// Clear wipes the screen when the output is a terminal.
func (c *Console) Clear() error {
	if !c.tty {
		return nil
	}
	return c.write(clearSequence)
}

// Title prints a bold heading line.
func (c *Console) Title(s string) error { return c.line(c.styles.title, s) }

// Info prints a plain line.
func (c *Console) Info(s string) error { return c.line(c.styles.info, s) }

// Success prints a confirmation line.
func (c *Console) Success(s string) error { return c.line(c.styles.success, s) }

// Warn prints a warning line.
func (c *Console) Warn(s string) error { return c.line(c.styles.warn, s) }

// Error prints an error line.
func (c *Console) Error(s string) error { return c.line(c.styles.err, s) }

// Printf writes formatted text without styling.
func (c *Console) Printf(format string, args ...any) error {
	return c.write(fmt.Sprintf(format, args...))
}

func (c *Console) line(st lipgloss.Style, s string) error {
	return c.write(st.Render(s) + "\n")
}

func (c *Console) write(s string) error {
	if _, err := io.WriteString(c.out, s); err != nil {
		return fmt.Errorf("console: writing: %w", err)
	}
	return nil
}
