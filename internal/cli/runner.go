package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Makepad-fr/localtodo/internal/app"
	"github.com/Makepad-fr/localtodo/internal/model"
	"github.com/Makepad-fr/localtodo/internal/persist"
	"github.com/Makepad-fr/localtodo/internal/state"
	"github.com/Makepad-fr/localtodo/internal/store"
	"github.com/Makepad-fr/localtodo/internal/ui"
)

// Options tune output behavior from root flags.
type Options struct {
	Group bool // list grouped by pending/done

	App     *app.App
	Printer *ui.Printer

	// RunTUI defaults to ui.RunTUI; tests swap it out.
	RunTUI func(model.TodoList) (model.TodoList, bool, error)
}

type runner struct {
	Options
	p *ui.Printer
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	r := runner{Options: opt, p: opt.Printer}
	if r.RunTUI == nil {
		r.RunTUI = ui.RunTUI
	}
	if len(args) == 0 {
		PrintHelp(r.p.Out)
		return 2
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(r.p.Out)
		return 0

	case "ls":
		if len(a) > 1 {
			r.p.Fail("usage: todo ls [all|active|completed]")
			return 2
		}
		f, err := model.ParseFilter(strings.Join(a, ""))
		if err != nil {
			r.p.Fail("ls: " + err.Error())
			return 2
		}
		return r.doList(f)

	case "tui":
		return r.doTUI()

	case "add":
		if len(a) == 0 {
			r.p.Fail("usage: todo add <text...>")
			return 2
		}
		return r.doAdd(strings.Join(a, " "))

	case "done":
		n, code := r.indexArg("done", a, 1)
		if code != 0 {
			return code
		}
		return r.doToggle(n)

	case "edit":
		if len(a) < 2 {
			r.p.Fail("usage: todo edit <index> <text...>")
			return 2
		}
		n, code := r.indexArg("edit", a[:1], 1)
		if code != 0 {
			return code
		}
		return r.doEdit(n, strings.Join(a[1:], " "))

	case "rm":
		n, code := r.indexArg("rm", a, 1)
		if code != 0 {
			return code
		}
		return r.doRemove(n)

	case "clear-done":
		return r.doClearDone()

	case "reset":
		return r.doReset()

	case "check":
		return r.doCheck()

	case "config":
		return r.doConfig()

	case "ping":
		return r.doPing()
	}

	r.p.Fail("unknown subcommand: " + cmd)
	fmt.Fprintln(r.p.Err)
	PrintHelp(r.p.Err)
	return 2
}

func PrintHelp(w io.Writer) {
	fmt.Fprint(w, `todo - a tiny todo list kept in local storage

Usage:
  todo [flags] <subcommand> [args]

Subcommands:
  ls [all|active|completed]   List todos (default: all)
  tui                         Interactive list; saves on quit if changed
  add <text...>               Add a todo (text can be multiple words)
  done <index>                Toggle done for the todo at 1-based index
  edit <index> <text...>      Replace the text of a todo
  rm <index>                  Remove the todo at 1-based index
  clear-done                  Remove every completed todo
  reset                       Forget stored todos (the starter list comes back)
  check                       Audit the stored value without changing it
  config                      Show resolved configuration
  ping                        GET the configured API base URL

Flags:
  -group            group ls output by pending/done
  -config <file>    TOML config file (default: ./todo.toml)
  -backend <name>   file, sqlite or memory
  -data-dir <dir>   where local storage lives
  -theme <name>     classic, neon or mono
  -log-level <lvl>  debug, info, warn or error
  -no-color         disable colored output (NO_COLOR works too)

Examples:
  todo add "Learn Vuex"
  todo ls active
  todo done 2
  todo rm 3
`)
}

func (r runner) indexArg(cmd string, a []string, want int) (int, int) {
	if len(a) != want {
		r.p.Fail(fmt.Sprintf("usage: todo %s <index>", cmd))
		return 0, 2
	}
	n, err := strconv.Atoi(a[0])
	if err != nil {
		r.p.Fail(cmd + ": not a number: " + a[0])
		return 0, 2
	}
	return n, 0
}

// -------------- subcommand impls ----------------

// module loads the todo state, reporting failures the way every subcommand
// wants them reported.
func (r runner) module() (*state.TodoModule, bool) {
	m, err := r.App.Todo()
	if err != nil {
		r.fail("load", err)
		return nil, false
	}
	return m, true
}

// save hands the full edited list back to the module.
func (r runner) save(m *state.TodoModule, list model.TodoList, okMsg string) int {
	if err := m.PersistTodos(list); err != nil {
		r.fail("save", err)
		return 1
	}
	r.p.OK(okMsg)
	return 0
}

func (r runner) fail(op string, err error) {
	switch {
	case errors.Is(err, persist.ErrMalformedData), errors.Is(err, store.ErrCorrupt):
		r.p.Fail(op + ": stored todos are malformed: " + err.Error())
		r.p.Hint("Hint: run `todo check` to inspect or `todo reset` to start over")
	case errors.Is(err, store.ErrQuotaExceeded):
		r.p.Fail(op + ": storage is full: " + err.Error())
	case errors.Is(err, store.ErrUnavailable):
		r.p.Fail(op + ": storage unavailable: " + err.Error())
	default:
		r.p.Fail(op + ": " + err.Error())
	}
}

func (r runner) checkRange(list model.TodoList, userIndex int) bool {
	if userIndex < 1 || userIndex > len(list) {
		r.p.Fail(fmt.Sprintf("index out of range: have %d, got %d", len(list), userIndex))
		r.p.Hint("Hint: run `todo ls` to see valid indexes")
		return false
	}
	return true
}

func (r runner) doList(f model.Filter) int {
	m, ok := r.module()
	if !ok {
		return 1
	}
	r.p.Panel(listLines(r.p, m.Todos(), f, r.Group))
	return 0
}

func (r runner) doTUI() int {
	m, ok := r.module()
	if !ok {
		return 1
	}
	edited, changed, err := r.RunTUI(m.Todos())
	if err != nil {
		r.p.Fail("tui: " + err.Error())
		return 1
	}
	if !changed {
		return 0
	}
	return r.save(m, edited, "saved")
}

func (r runner) doAdd(text string) int {
	text = strings.TrimSpace(text)
	if text == "" {
		r.p.Fail("add: empty text")
		return 2
	}
	m, ok := r.module()
	if !ok {
		return 1
	}
	list := m.Todos()
	list = append(list, model.Todo{ID: list.NextID(), Text: text})
	return r.save(m, list, "added")
}

func (r runner) doToggle(userIndex int) int {
	m, ok := r.module()
	if !ok {
		return 1
	}
	list := m.Todos()
	if !r.checkRange(list, userIndex) {
		return 2
	}
	idx := userIndex - 1
	list[idx].Done = !list[idx].Done
	return r.save(m, list, "toggled")
}

func (r runner) doEdit(userIndex int, text string) int {
	text = strings.TrimSpace(text)
	if text == "" {
		r.p.Fail("edit: empty text")
		return 2
	}
	m, ok := r.module()
	if !ok {
		return 1
	}
	list := m.Todos()
	if !r.checkRange(list, userIndex) {
		return 2
	}
	list[userIndex-1].Text = text
	return r.save(m, list, "edited")
}

func (r runner) doRemove(userIndex int) int {
	m, ok := r.module()
	if !ok {
		return 1
	}
	list := m.Todos()
	if !r.checkRange(list, userIndex) {
		return 2
	}
	idx := userIndex - 1
	list = append(list[:idx], list[idx+1:]...)
	return r.save(m, list, "removed")
}

func (r runner) doClearDone() int {
	m, ok := r.module()
	if !ok {
		return 1
	}
	before := m.Todos()
	after := model.FilterActive.Apply(before)
	if len(after) == len(before) {
		r.p.OK("nothing to clear")
		return 0
	}
	return r.save(m, after, fmt.Sprintf("cleared %d", len(before)-len(after)))
}

// doReset works even when the stored value is malformed: the module can't
// load then, so the key is cleared directly. A storage file too damaged to
// read at all is emptied as a whole.
func (r runner) doReset() int {
	m, err := r.App.Todo()
	switch {
	case err == nil:
		err = m.Reset()
	case errors.Is(err, persist.ErrMalformedData):
		err = persist.Clear(r.App.Storage)
	case errors.Is(err, store.ErrCorrupt):
		r.App.Logger.Warn("storage file is unreadable, emptying it", "err", err)
		err = store.Reset(r.App.Storage)
	}
	if err != nil {
		r.fail("reset", err)
		return 1
	}
	r.p.OK("reset to the starter list")
	return 0
}

func (r runner) doCheck() int {
	raw, ok, err := r.App.Storage.GetItem(persist.StorageKey)
	if err != nil {
		r.fail("check", err)
		return 1
	}
	if !ok {
		r.p.OK("nothing stored yet; the starter list is in use")
		return 0
	}
	issues := persist.Check(raw)
	if len(issues) == 0 {
		r.p.OK("stored todos look fine")
		return 0
	}
	for _, is := range issues {
		r.p.Fail(is.String())
	}
	return 1
}

func (r runner) doConfig() int {
	cfg := r.App.Config
	source := cfg.Source
	if source == "" {
		source = "(defaults)"
	}
	base := r.App.Client.BaseURL()
	if base == "" {
		base = "(unset)"
	}
	r.p.Panel([]string{
		r.p.C(r.p.Theme().Title, "Configuration"),
		"",
		"config file   " + source,
		"backend       " + cfg.Backend,
		"data dir      " + cfg.DataDir,
		"quota         " + strconv.Itoa(cfg.QuotaBytes) + " bytes",
		"theme         " + r.p.Theme().Name,
		"log level     " + cfg.LogLevel,
		"api base      " + base,
		"api timeout   " + r.App.Client.Timeout().String(),
		"api token     " + strconv.FormatBool(r.App.Client.HasToken()),
	})
	return 0
}

func (r runner) doPing() int {
	code, err := r.App.Client.Ping(context.Background())
	if err != nil {
		r.p.Fail("ping: " + err.Error())
		return 1
	}
	if code >= 400 {
		r.p.Fail(fmt.Sprintf("ping: %s answered %d", r.App.Client.BaseURL(), code))
		return 1
	}
	r.p.OK(fmt.Sprintf("%s answered %d", r.App.Client.BaseURL(), code))
	return 0
}
