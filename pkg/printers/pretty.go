package printers

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/jot/pkg/app"
	"tableflip.dev/jot/pkg/entry"
	"tableflip.dev/jot/pkg/glyph"
	"tableflip.dev/jot/pkg/settings"
)

type PrettyPrint struct {
	// ShowNumbers prefixes every entry with the index the CLI accepts.
	ShowNumbers bool
	// Width wraps long entries; zero disables wrapping.
	Width int
	Out   io.Writer
}

func (pp *PrettyPrint) out() io.Writer {
	return Writer(pp.Out)
}

// Writer returns w, or the color-aware stdout when w is nil.
func Writer(w io.Writer) io.Writer {
	if w == nil {
		return color.Output
	}
	return w
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " entry")
	default:
		_, _ = c.Fprintln(pp.out(), " entries")
	}
}

// List prints every row. Placeholders show as blank lines, except the
// trailing one.
func (pp *PrettyPrint) List(entries []*entry.Entry) {
	if len(app.Numbered(entries)) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.out(), " nothing yet\n\n")
		return
	}

	digits := len(fmt.Sprint(len(entries)))
	n := 0
	for i, e := range entries {
		if e.Placeholder {
			if i < len(entries)-1 && i > 0 {
				pp.NewLine()
			}
			continue
		}
		n++
		pp.entry(e, n, digits)
	}
	pp.NewLine()
}

// Entry prints a single entry with its number.
func (pp *PrettyPrint) Entry(e *entry.Entry, n int) {
	pp.entry(e, n, len(fmt.Sprint(n)))
}

func (pp *PrettyPrint) entry(e *entry.Entry, n, digits int) {
	y := color.New(color.FgHiYellow, color.Faint)
	prefix := ""
	if pp.ShowNumbers {
		prefix = y.Sprintf("%*d ", digits, n)
	}
	prefix += symbolColor(e).Sprint(e.Kind.Symbol(e.Done)) + " "

	body := textColor(e).Sprint(e.Content)
	if e.HasLink() {
		l := color.New(color.FgCyan)
		body += " " + l.Sprint(glyph.SymbolLink+" "+e.DisplayTitle())
	}

	pad := strings.Repeat(" ", ansi.PrintableRuneWidth(prefix))
	width := pp.Width - len(pad)
	if pp.Width > 0 && width > 10 {
		body = wordwrap.String(body, width)
	}
	lines := strings.Split(body, "\n")
	_, _ = fmt.Fprintln(pp.out(), prefix+lines[0])
	for _, line := range lines[1:] {
		_, _ = fmt.Fprintln(pp.out(), pad+line)
	}
}

func symbolColor(e *entry.Entry) *color.Color {
	switch {
	case e.IsHeader():
		return color.New(color.Bold)
	case e.IsTask() && e.Done:
		return color.New(color.FgGreen)
	case e.IsTask():
		return color.New(color.FgHiWhite)
	default:
		return color.New(color.Faint)
	}
}

func textColor(e *entry.Entry) *color.Color {
	switch {
	case e.IsHeader():
		return color.New(color.Bold, color.Underline)
	case e.IsTask() && e.Done:
		return color.New(color.FgGreen, color.CrossedOut)
	default:
		return color.New()
	}
}

// Settings prints every setting in key order.
func (pp *PrettyPrint) Settings(s settings.Settings) {
	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Setting"), bold.Sprint("Value"))
	for _, k := range settings.Keys() {
		v, _ := s.Get(k)
		tbl.AddRow(k, v)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// Legend prints the glyphs and the markers that produce them.
func (pp *PrettyPrint) Legend(glyphs []glyph.Glyph) {
	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Glyph"), bold.Sprint("Type"), bold.Sprint("Meaning"))
	for _, g := range glyphs {
		key := g.Key
		if key == "" {
			key = "(anything else)"
		}
		tbl.AddRow(g.Symbol, strings.TrimSpace(key), g.Meaning)
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// Summary prints counts per section.
func (pp *PrettyPrint) Summary(sum app.Summary) {
	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Section"), bold.Sprint("Open"), bold.Sprint("Done"), bold.Sprint("Notes"))
	for _, sec := range sum.Sections {
		name := sec.Header
		if name == "" {
			name = "(top)"
		}
		tbl.AddRow(name, sec.Tasks-sec.Done, sec.Done, sec.Notes)
	}
	tbl.AddRow(bold.Sprint("total"), sum.Open(), sum.Done, sum.Notes)
	tbl.RightAlign(1)
	tbl.RightAlign(2)
	tbl.RightAlign(3)
	_, _ = fmt.Fprintln(pp.out(), tbl)
}
