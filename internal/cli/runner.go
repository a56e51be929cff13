package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/server"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/store/jsonstore"
	"github.com/Makepad-fr/tada/internal/store/queue"
	"github.com/Makepad-fr/tada/internal/todo"
	"github.com/Makepad-fr/tada/internal/tui"
	"github.com/Makepad-fr/tada/internal/ui"
)

// Options tune behavior from root flags and config.
type Options struct {
	Context context.Context // serve stops when it is done
	Config  config.Config
	Where   string // filter expression for ls
	Logger  *slog.Logger
	Stdout  io.Writer
	Stderr  io.Writer
}

func (o *Options) defaults() {
	if o.Context == nil {
		o.Context = context.Background()
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
}

// app is what every storage-backed subcommand runs against.
type app struct {
	opt     Options
	storage *store.Adapter
	todos   *todo.Container
	close   func()
}

func open(opt Options) *app {
	var backend store.Backend = jsonstore.New(opt.Config.DataDir)
	closeFn := func() {}
	if opt.Config.AsyncWrites {
		q := queue.New(backend, opt.Logger)
		backend = q
		closeFn = func() {
			if err := q.Close(); err != nil {
				opt.Logger.Error("flush storage", "err", err)
			}
		}
	}
	adapter := store.NewAdapter(backend)
	return &app{
		opt:     opt,
		storage: adapter,
		todos:   todo.New(adapter, todo.WithLogger(opt.Logger)),
		close:   closeFn,
	}
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	opt.defaults()
	if len(args) == 0 {
		PrintHelp(opt.Stdout)
		return 2
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(opt.Stdout)
		return 0
	case "ls", "add", "done", "rm", "summary", "storage", "tui", "serve":
	default:
		ui.Fail(opt.Stderr, "unknown subcommand: "+cmd)
		fmt.Fprintln(opt.Stderr)
		PrintHelp(opt.Stderr)
		return 2
	}

	s := open(opt)
	defer s.close()

	switch cmd {
	case "ls":
		return s.doList()

	case "add":
		if len(a) == 0 {
			ui.Fail(opt.Stderr, "usage: todo add <name...>")
			return 2
		}
		return s.doAdd(strings.Join(a, " "))

	case "done":
		if len(a) != 1 {
			ui.Fail(opt.Stderr, "usage: todo done <index|id>")
			return 2
		}
		return s.doToggle(a[0])

	case "rm":
		if len(a) != 1 {
			ui.Fail(opt.Stderr, "usage: todo rm <index|id>")
			return 2
		}
		return s.doRemove(a[0])

	case "summary":
		return s.doSummary()

	case "storage":
		switch {
		case len(a) == 0:
			return s.doStorageDump()
		case len(a) == 1 && a[0] == "clear":
			return s.doStorageClear()
		}
		ui.Fail(opt.Stderr, "usage: todo storage [clear]")
		return 2

	case "tui":
		if err := tui.Run(s.todos); err != nil {
			ui.Fail(opt.Stderr, "tui: "+err.Error())
			return 1
		}
		return 0

	case "serve":
		addr := opt.Config.Addr
		if len(a) == 1 {
			addr = a[0]
		} else if len(a) > 1 {
			ui.Fail(opt.Stderr, "usage: todo serve [addr]")
			return 2
		}
		return s.doServe(addr)
	}
	return 2
}

func PrintHelp(w io.Writer) {
	fmt.Fprint(w, `todo - a tiny todo list

Usage:
  todo [flags] <subcommand> [args]

Subcommands:
  add <name...>      Add a new item (name can be multiple words)
  ls                 List items (-group, -where 'expr')
  done <index|id>    Toggle done for an item (exact id, else 1-based index,
                     else unique id prefix)
  rm <index|id>      Remove an item
  summary            Show how many items are done
  tui                Interactive list
  storage [clear]    Show (or wipe) everything in the data dir
  serve [addr]       Local HTTP inspector

Examples:
  todo add "Buy milk"
  todo -where '!done && name contains "milk"' ls
  todo done 2
  todo rm 3f2a
`)
}

// -------------- subcommand impls ----------------

func (a *app) doList() int {
	all := a.todos.Todos()
	rows := make([]row, 0, len(all))
	for i, t := range all {
		rows = append(rows, row{n: i + 1, todo: t})
	}

	if a.opt.Where != "" {
		f, err := todo.CompileFilter(a.opt.Where)
		if err != nil {
			ui.Fail(a.opt.Stderr, "filter: "+err.Error())
			return 1
		}
		kept := rows[:0]
		for _, r := range rows {
			ok, err := f.Match(r.todo)
			if err != nil {
				ui.Fail(a.opt.Stderr, "filter: "+err.Error())
				return 1
			}
			if ok {
				kept = append(kept, r)
			}
		}
		rows = kept
	}

	th := ui.Current()
	done := 0
	for _, r := range rows {
		if r.todo.Done {
			done++
		}
	}
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		th.Title.Render("Todos"),
		th.Success.Render(th.SymDone), done,
		th.Pending.Render(th.SymPending), len(rows)-done,
		th.Accent.Render("Total"), len(rows),
	)

	var lines []string
	lines = append(lines, header)
	lines = append(lines, th.Muted.Render(ui.ProgressBar(done, len(rows), 28)))
	lines = append(lines, "")
	if a.opt.Config.Group {
		lines = append(lines, groupLines(rows)...)
	} else {
		lines = append(lines, flatLines(rows)...)
	}
	lines = append(lines, "")
	if a.opt.Where != "" {
		lines = append(lines, th.Muted.Render(fmt.Sprintf("Filter: %s (%d of %d)", a.opt.Where, len(rows), len(all))))
	} else {
		lines = append(lines, th.Muted.Render("Tip: add with `todo add \"Buy milk\"`"))
	}
	fmt.Fprintln(a.opt.Stdout, ui.Panel(lines))
	return 0
}

func (a *app) doAdd(name string) int {
	before := len(a.todos.Todos())
	a.todos.Add(name)
	if len(a.todos.Todos()) == before {
		ui.Hint(a.opt.Stdout, "nothing added: name is blank")
		return 0
	}
	ui.OK(a.opt.Stdout, "added")
	return 0
}

func (a *app) doToggle(ref string) int {
	t, code := a.resolve(ref)
	if code != 0 {
		return code
	}
	a.todos.Toggle(t.ID)
	if now, _ := a.todos.Get(t.ID); now.Done {
		ui.OK(a.opt.Stdout, "done: "+t.Name)
	} else {
		ui.OK(a.opt.Stdout, "reopened: "+t.Name)
	}
	return 0
}

func (a *app) doRemove(ref string) int {
	t, code := a.resolve(ref)
	if code != 0 {
		return code
	}
	a.todos.Delete(t.ID)
	ui.OK(a.opt.Stdout, "removed: "+t.Name)
	return 0
}

func (a *app) doSummary() int {
	th := ui.Current()
	s := todo.Summarize(a.todos.Todos())

	lines := []string{
		th.Title.Render("Completed Tasks"),
		th.Muted.Render(s.Title()),
		"",
		s.Message(),
	}
	if len(s.Completed) > 0 {
		lines = append(lines, "", "You have completed:")
		for _, name := range s.Completed {
			lines = append(lines, th.Success.Render("- ")+name)
		}
	}
	fmt.Fprintln(a.opt.Stdout, ui.Panel(lines))
	return 0
}

func (a *app) doStorageDump() int {
	data, err := a.storage.Dump()
	if err != nil {
		ui.Fail(a.opt.Stderr, "storage: "+err.Error())
		return 1
	}
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		ui.Fail(a.opt.Stderr, "storage: "+err.Error())
		return 1
	}
	fmt.Fprintln(a.opt.Stdout, string(b))
	return 0
}

func (a *app) doStorageClear() int {
	if err := a.storage.ClearAll(); err != nil {
		ui.Fail(a.opt.Stderr, "storage: "+err.Error())
		return 1
	}
	ui.OK(a.opt.Stdout, "storage cleared")
	return 0
}

// doServe returns once the context is done and in-flight requests have
// finished, so the deferred close drains any queued writes.
func (a *app) doServe(addr string) int {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		ui.Fail(a.opt.Stderr, "serve: "+err.Error())
		return 1
	}
	ui.OK(a.opt.Stdout, "listening on http://"+ln.Addr().String())
	if err := server.New(a.todos, a.storage, a.opt.Logger).Serve(a.opt.Context, ln); err != nil {
		ui.Fail(a.opt.Stderr, "serve: "+err.Error())
		return 1
	}
	return 0
}

var (
	errNoMatch   = errors.New("no such item")
	errAmbiguous = errors.New("ambiguous id prefix")
)

// resolve finds the todo a user means by ref. An exact id wins, then a
// 1-based index, then a unique id prefix.
func (a *app) resolve(ref string) (model.Todo, int) {
	items := a.todos.Todos()
	t, err := resolve(items, ref)
	if err == nil {
		return t, 0
	}
	ui.Fail(a.opt.Stderr, err.Error())
	fmt.Fprintln(a.opt.Stderr, ui.Current().Muted.Render("Hint: run `todo ls` to see valid indexes"))
	return model.Todo{}, 2
}

func resolve(items []model.Todo, ref string) (model.Todo, error) {
	if ref == "" {
		return model.Todo{}, fmt.Errorf("%w: empty reference", errNoMatch)
	}
	for _, t := range items {
		if t.ID == ref {
			return t, nil
		}
	}
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(items) {
			return model.Todo{}, fmt.Errorf("index out of range: have %d, got %d", len(items), n)
		}
		return items[n-1], nil
	}
	var matches []model.Todo
	for _, t := range items {
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return model.Todo{}, fmt.Errorf("%w: %s", errNoMatch, ref)
	case 1:
		return matches[0], nil
	default:
		return model.Todo{}, fmt.Errorf("%w: %s matches %d items", errAmbiguous, ref, len(matches))
	}
}

// -------------- rendering helpers --------------

// row is a todo with its 1-based position in the full list, so indexes
// shown under -group or -where still work with done/rm.
type row struct {
	n    int
	todo model.Todo
}

// maxNameWidth is in terminal cells, ellipsis included.
const maxNameWidth = 80

func flatLines(rows []row) []string {
	th := ui.Current()
	if len(rows) == 0 {
		return []string{th.Muted.Render("no items")}
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		idx := fmt.Sprintf("%2d.", r.n)
		box := th.Muted.Render(th.BoxUnchecked)
		name := ansi.Truncate(r.todo.Name, maxNameWidth, "...")
		if r.todo.Done {
			box = th.Success.Render(th.BoxChecked)
			name = th.Done.Render(name)
		}
		out = append(out, fmt.Sprintf("%s %s %s  %s",
			th.Muted.Render(idx), box, name, th.Muted.Render(shortID(r.todo.ID))))
	}
	return out
}

func groupLines(rows []row) []string {
	th := ui.Current()
	var pend, done []row
	for _, r := range rows {
		if r.todo.Done {
			done = append(done, r)
		} else {
			pend = append(pend, r)
		}
	}
	var lines []string
	lines = append(lines, th.Accent.Render("Pending"))
	if len(pend) == 0 {
		lines = append(lines, th.Muted.Render("(none)"))
	} else {
		lines = append(lines, flatLines(pend)...)
	}
	lines = append(lines, "")
	lines = append(lines, th.Accent.Render("Done"))
	if len(done) == 0 {
		lines = append(lines, th.Muted.Render("(none)"))
	} else {
		lines = append(lines, flatLines(done)...)
	}
	return lines
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
