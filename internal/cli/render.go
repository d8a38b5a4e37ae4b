package cli

import (
	"fmt"

	"github.com/mattn/go-runewidth"

	"github.com/Makepad-fr/localtodo/internal/model"
	"github.com/Makepad-fr/localtodo/internal/ui"
)

const maxTextWidth = 80

// listLines builds the panel body for `ls`. Indexes are positions in the
// full list so they stay valid for done/edit/rm whatever the filter.
func listLines(p *ui.Printer, list model.TodoList, f model.Filter, group bool) []string {
	t := p.Theme()
	d, pending := list.Stats()
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		p.C(t.Title, "Todos"),
		p.C(t.Success, t.SymDone), d,
		p.C(t.Pending, t.SymPending), pending,
		p.C(t.Accent, "Total"), len(list),
	)

	lines := []string{header, p.C(t.Muted, ui.ProgressBar(d, d+pending, 28)), ""}

	rows := indexed(list, f)
	if group {
		lines = append(lines, groupLines(p, rows)...)
	} else {
		lines = append(lines, flatLines(p, rows)...)
	}
	lines = append(lines, "", p.C(t.Muted, "Tip: add with `todo add \"Buy milk\"`"))
	return lines
}

type row struct {
	index int // 1-based position in the full list
	todo  model.Todo
}

func indexed(list model.TodoList, f model.Filter) []row {
	var out []row
	for i, t := range list {
		if f.Match(t) {
			out = append(out, row{index: i + 1, todo: t})
		}
	}
	return out
}

func flatLines(p *ui.Printer, rows []row) []string {
	t := p.Theme()
	if len(rows) == 0 {
		return []string{p.C(t.Muted, "no todos")}
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		box, color := t.BoxUnchecked, t.Muted
		if r.todo.Done {
			box, color = t.BoxChecked, t.Success
		}
		out = append(out, fmt.Sprintf("%s %s %s",
			p.Dim(fmt.Sprintf("%2d.", r.index)), p.C(color, box),
			runewidth.Truncate(r.todo.Text, maxTextWidth, "...")))
	}
	return out
}

func groupLines(p *ui.Printer, rows []row) []string {
	t := p.Theme()
	var pend, done []row
	for _, r := range rows {
		if r.todo.Done {
			done = append(done, r)
		} else {
			pend = append(pend, r)
		}
	}
	section := func(title string, rs []row) []string {
		lines := []string{p.C(t.Accent, title)}
		if len(rs) == 0 {
			return append(lines, p.C(t.Muted, "(none)"))
		}
		return append(lines, flatLines(p, rs)...)
	}
	lines := section("Pending", pend)
	lines = append(lines, "")
	return append(lines, section("Done", done)...)
}
