// Package menu runs the interactive contact directory session: a state
// machine over the main menu and the list, add, edit and search operations.
package menu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"go.uber.org/zap"

	"github.com/smileynet/phonebook/internal/console"
	"github.com/smileynet/phonebook/internal/contact"
	"github.com/smileynet/phonebook/internal/directory"
	"github.com/smileynet/phonebook/internal/store"
	"github.com/smileynet/phonebook/internal/tui"
)

// State is a step of the session state machine.
type State int

const (
	MainMenu State = iota
	Listing
	Adding
	Editing
	SearchMenu
	Searching
	Exit
)

var stateNames = [...]string{
	MainMenu:   "main_menu",
	Listing:    "listing",
	Adding:     "adding",
	Editing:    "editing",
	SearchMenu: "search_menu",
	Searching:  "searching",
	Exit:       "exit",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// User-facing text.
const (
	textMainTitle   = "Телефонный справочник:"
	textChoice      = "Выберите вариант:"
	textEmpty       = "Справочник пуст."
	textAddTitle    = "Добавление новой записи в справочник:"
	textAdded       = "Запись успешно добавлена!"
	textEditTitle   = "Редактирование записи в справочнике:"
	textEditPrompt  = "Введите номер записи, которую хотите отредактировать:"
	textEdited      = "Запись успешно отредактирована!"
	textBadNumber   = "Некорректный номер записи: %q."
	textNoSuchEntry = "Записи с номером %d нет."
	textRejected    = "Запись не сохранена:"
	textSaveFailed  = "Не удалось сохранить справочник: %v"
	textSearchTitle = "Поиск записей в справочнике:"
	textQuery       = "Введите строку поиска:"
	textNotFound    = "По вашему запросу ничего не найдено."
	textSkipped     = "Строка %d файла справочника пропущена:"
)

var mainItems = []string{
	"1 - Вывод записей",
	"2 - Добавление записи",
	"3 - Редактирование записи",
	"4 - Поиск по характеристикам",
	"0 - Выход",
}

var searchItems = []string{
	"1 - По фамилии",
	"2 - По названию организации",
	"3 - По всем полям записи",
	"0 - Назад",
}

// Options configures a Session.
type Options struct {
	Console   *console.Console
	Directory *directory.Directory
	Validator *contact.Validator
	Pager     tui.Pager
	PageSize  int                // Records per page (default: directory.DefaultPageSize).
	Skipped   []*store.LineError // Lines rejected while loading, reported once at start.
	Logger    *zap.Logger
}

// Session is one interactive run over a directory.
type Session struct {
	console   *console.Console
	dir       *directory.Directory
	validator *contact.Validator
	pager     tui.Pager
	pageSize  int
	skipped   []*store.LineError
	log       *zap.Logger

	state State
	mode  directory.SearchMode
}

// New creates a Session in the MainMenu state.
func New(opts Options) *Session {
	if opts.PageSize < 1 {
		opts.PageSize = directory.DefaultPageSize
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Session{
		console:   opts.Console,
		dir:       opts.Directory,
		validator: opts.Validator,
		pager:     opts.Pager,
		pageSize:  opts.PageSize,
		skipped:   opts.Skipped,
		log:       opts.Logger.Named("menu"),
		state:     MainMenu,
	}
}

// State returns the current state.
func (s *Session) State() State {
	return s.state
}

// Run drives the session until the user exits, input ends, or ctx is
// cancelled. End of input is a normal exit and returns nil.
func (s *Session) Run(ctx context.Context) error {
	if err := s.reportSkipped(); err != nil {
		return s.stop(err)
	}

	for s.state != Exit {
		if err := ctx.Err(); err != nil {
			return s.stop(err)
		}
		next, err := s.step(ctx)
		if err != nil {
			return s.stop(err)
		}
		if next != s.state {
			s.log.Debug("state change", zap.Stringer("from", s.state), zap.Stringer("to", next))
		}
		s.state = next
	}
	s.log.Info("session finished")
	return nil
}

// stop ends the loop, treating end of input as a clean exit.
func (s *Session) stop(err error) error {
	s.state = Exit
	if errors.Is(err, io.EOF) {
		s.log.Info("input closed, exiting")
		return nil
	}
	if errors.Is(err, context.Canceled) {
		s.log.Info("session interrupted")
		return err
	}
	s.log.Error("session aborted", zap.Error(err))
	return err
}

func (s *Session) step(ctx context.Context) (State, error) {
	switch s.state {
	case MainMenu:
		return s.mainMenu(ctx)
	case Listing:
		return s.listing(ctx)
	case Adding:
		return s.adding(ctx)
	case Editing:
		return s.editing(ctx)
	case SearchMenu:
		return s.searchMenu(ctx)
	case Searching:
		return s.searching(ctx)
	default:
		return Exit, nil
	}
}

func (s *Session) mainMenu(ctx context.Context) (State, error) {
	if err := s.screen(textMainTitle, mainItems...); err != nil {
		return Exit, err
	}
	choice, err := s.console.Choice(ctx, textChoice)
	if err != nil {
		return Exit, err
	}
	switch choice {
	case "1":
		return Listing, nil
	case "2":
		return Adding, nil
	case "3":
		return Editing, nil
	case "4":
		return SearchMenu, nil
	case "0":
		return Exit, nil
	}
	return MainMenu, nil
}

func (s *Session) listing(ctx context.Context) (State, error) {
	if err := s.console.Clear(); err != nil {
		return Exit, err
	}
	if err := s.show(ctx, s.dir.Records()); err != nil {
		return Exit, err
	}
	return s.pause(ctx)
}

func (s *Session) adding(ctx context.Context) (State, error) {
	if err := s.screen(textAddTitle); err != nil {
		return Exit, err
	}

	values := make([]string, len(contact.Fields))
	for i, f := range contact.Fields {
		v, err := s.console.Ask(ctx, f.Label())
		if err != nil {
			return Exit, err
		}
		values[i] = v
	}

	r, err := s.validator.New(values...)
	if err != nil {
		s.log.Info("add rejected", zap.Error(err))
		if err := s.reportInvalid(err); err != nil {
			return Exit, err
		}
		return s.pause(ctx)
	}

	if err := s.dir.Add(r); err != nil {
		if err := s.reportSaveFailure(err); err != nil {
			return Exit, err
		}
		return s.pause(ctx)
	}
	if err := s.console.Success(textAdded); err != nil {
		return Exit, err
	}
	return s.pause(ctx)
}

func (s *Session) editing(ctx context.Context) (State, error) {
	if err := s.screen(textEditTitle); err != nil {
		return Exit, err
	}
	if s.dir.Len() == 0 {
		if err := s.console.Info(textEmpty); err != nil {
			return Exit, err
		}
		return s.pause(ctx)
	}
	if err := s.show(ctx, s.dir.Records()); err != nil {
		return Exit, err
	}

	answer, err := s.console.Choice(ctx, textEditPrompt)
	if err != nil {
		return Exit, err
	}
	pos, err := strconv.Atoi(answer)
	if err != nil {
		if err := s.console.Error(fmt.Sprintf(textBadNumber, answer)); err != nil {
			return Exit, err
		}
		return s.pause(ctx)
	}
	current, err := s.dir.Get(pos)
	if err != nil {
		s.log.Info("edit rejected", zap.Int("position", pos), zap.Error(err))
		if err := s.console.Error(fmt.Sprintf(textNoSuchEntry, pos)); err != nil {
			return Exit, err
		}
		return s.pause(ctx)
	}

	values := make([]string, len(contact.Fields))
	for i, f := range contact.Fields {
		v, err := s.console.AskDefault(ctx, f.Label(), current.Value(f))
		if err != nil {
			return Exit, err
		}
		values[i] = v
	}

	r, err := s.validator.New(values...)
	if err != nil {
		s.log.Info("edit rejected", zap.Int("position", pos), zap.Error(err))
		if err := s.reportInvalid(err); err != nil {
			return Exit, err
		}
		return s.pause(ctx)
	}

	if err := s.dir.Update(pos, r); err != nil {
		if err := s.reportSaveFailure(err); err != nil {
			return Exit, err
		}
		return s.pause(ctx)
	}
	if err := s.console.Success(textEdited); err != nil {
		return Exit, err
	}
	return s.pause(ctx)
}

func (s *Session) searchMenu(ctx context.Context) (State, error) {
	if err := s.screen(textSearchTitle, searchItems...); err != nil {
		return Exit, err
	}
	choice, err := s.console.Choice(ctx, textChoice)
	if err != nil {
		return Exit, err
	}
	switch choice {
	case "1":
		s.mode = directory.ByLastName
	case "2":
		s.mode = directory.ByCompany
	case "3":
		s.mode = directory.ByFullText
	case "0":
		return MainMenu, nil
	default:
		return SearchMenu, nil
	}
	return Searching, nil
}

func (s *Session) searching(ctx context.Context) (State, error) {
	query, err := s.console.Choice(ctx, textQuery)
	if err != nil {
		return Exit, err
	}
	found := s.dir.Search(s.mode, query)

	if len(found) == 0 {
		if err := s.console.Info(textNotFound); err != nil {
			return Exit, err
		}
		return s.pause(ctx)
	}
	if err := s.show(ctx, found); err != nil {
		return Exit, err
	}
	return s.pause(ctx)
}

// show pages through records, or reports an empty directory.
func (s *Session) show(ctx context.Context, records []contact.Record) error {
	if len(records) == 0 {
		return s.console.Info(textEmpty)
	}
	return s.pager.Show(ctx, directory.Paginate(records, s.pageSize))
}

func (s *Session) screen(title string, items ...string) error {
	if err := s.console.Clear(); err != nil {
		return err
	}
	if err := s.console.Title(title); err != nil {
		return err
	}
	for _, item := range items {
		if err := s.console.Info(item); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) pause(ctx context.Context) (State, error) {
	if err := s.console.Pause(ctx); err != nil {
		return Exit, err
	}
	return MainMenu, nil
}

func (s *Session) reportInvalid(err error) error {
	fieldErrs := contact.FieldErrors(err)
	if fieldErrs == nil {
		return s.console.Error(err.Error())
	}
	if err := s.console.Error(textRejected); err != nil {
		return err
	}
	for _, fe := range fieldErrs {
		if err := s.console.Error(fmt.Sprintf("  %s: %s", fe.Field.Label(), fe.Reason.Message())); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) reportSaveFailure(err error) error {
	s.log.Error("save failed", zap.Error(err))
	return s.console.Error(fmt.Sprintf(textSaveFailed, err))
}

func (s *Session) reportSkipped() error {
	for _, le := range s.skipped {
		if err := s.console.Warn(fmt.Sprintf(textSkipped, le.Line)); err != nil {
			return err
		}
		fieldErrs := contact.FieldErrors(le.Err)
		if fieldErrs == nil {
			if err := s.console.Warn("  " + describe(le.Err)); err != nil {
				return err
			}
			continue
		}
		for _, fe := range fieldErrs {
			if err := s.console.Warn(fmt.Sprintf("  %s: %s", fe.Field.Label(), fe.Reason.Message())); err != nil {
				return err
			}
		}
	}
	return nil
}

func describe(err error) string {
	if errors.Is(err, contact.ErrFieldCount) {
		return fmt.Sprintf("ожидается %d полей через %q", len(contact.Fields), store.Delimiter)
	}
	return err.Error()
}
