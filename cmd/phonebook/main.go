package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/smileynet/phonebook"
	"github.com/smileynet/phonebook/internal/card"
	"github.com/smileynet/phonebook/internal/config"
	"github.com/smileynet/phonebook/internal/console"
	"github.com/smileynet/phonebook/internal/contact"
	"github.com/smileynet/phonebook/internal/directory"
	"github.com/smileynet/phonebook/internal/logging"
	"github.com/smileynet/phonebook/internal/menu"
	"github.com/smileynet/phonebook/internal/store"
	"github.com/smileynet/phonebook/internal/tui"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// CLI is the top-level command structure for phonebook.
type CLI struct {
	Version  kong.VersionFlag `help:"Show version." short:"V"`
	File     string           `help:"Contacts file (overrides config)." short:"f" placeholder:"PATH"`
	Config   string           `help:"Extra config file, applied after the user and project configs." placeholder:"PATH"`
	Region   string           `help:"Default phone region as an ISO 3166-1 code, e.g. RU."`
	PageSize int              `help:"Records per page." name:"page-size"`
	Plain    bool             `help:"Force the plain pager even if stdout is a TTY." default:"false"`
}

// Run starts an interactive session on stdin and stdout.
func (c *CLI) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return c.run(ctx, os.Stdin, os.Stdout)
}

func (c *CLI) run(ctx context.Context, in io.Reader, out io.Writer) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return setupErr(err)
	}

	logger, err := logging.New(logging.Options{File: cfg.Log.File, Level: strings.ToLower(cfg.Log.Level)})
	if err != nil {
		return setupErr(err)
	}
	defer logger.Sync() //nolint:errcheck // best-effort flush on exit

	v, err := contact.NewValidator(cfg.Phone.Region)
	if err != nil {
		return setupErr(err)
	}
	cards, err := card.New(phonebook.OverlayFS(cfg.Display.TemplateDir, phonebook.Templates))
	if err != nil {
		return setupErr(err)
	}

	fileStore := store.NewFileStore(cfg.Store.Path, v, logger)
	res, err := fileStore.Load()
	if err != nil {
		return fmt.Errorf("loading contacts: %w", err)
	}

	logger.Info("session starting",
		zap.String("version", version),
		zap.String("file", cfg.Store.Path),
		zap.String("region", v.Region()),
		zap.Int("records", len(res.Records)))

	con := console.New(in, out)
	sess := menu.New(menu.Options{
		Console:   con,
		Directory: directory.New(res.Records, fileStore, logger),
		Validator: v,
		Pager: tui.NewPager(tui.PagerOptions{
			Console:    con,
			Cards:      cards,
			In:         in,
			Out:        out,
			ForcePlain: cfg.Display.Plain,
			Logger:     logger,
		}),
		PageSize: cfg.Display.PageSize,
		Skipped:  res.Skipped,
		Logger:   logger,
	})

	if err := sess.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("session: %w", err)
	}
	return nil
}

// loadConfig loads layered config from user, project and --config paths,
// then env overrides, then flags.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadLayered(config.UserPath(), config.ProjectPath, c.Config)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	c.applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFlags overrides config values with flags that were given.
func (c *CLI) applyFlags(cfg *config.Config) {
	if c.File != "" {
		cfg.Store.Path = c.File
	}
	if c.Region != "" {
		cfg.Phone.Region = c.Region
	}
	if c.PageSize != 0 {
		cfg.Display.PageSize = c.PageSize
	}
	if c.Plain {
		cfg.Display.Plain = true
	}
}

// Exit codes.
const (
	exitSuccess = 0
	exitRuntime = 1
	exitSetup   = 2
)

// setupError marks failures that happen before the session starts.
type setupError struct {
	err error
}

func (e *setupError) Error() string { return "setup: " + e.err.Error() }

func (e *setupError) Unwrap() error { return e.err }

func setupErr(err error) error {
	return &setupError{err: err}
}

// exitCode maps an error to the appropriate exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var se *setupError
	if errors.As(err, &se) {
		return exitSetup
	}
	return exitRuntime
}

func main() {
	var cli CLI
	kong.Parse(&cli,
		kong.Name("phonebook"),
		kong.Description("Personal contact directory."),
		kong.Vars{"version": version + " " + commit + " " + date},
	)
	if err := cli.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(exitCode(err))
	}
}
