package output

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/ui/style"
)

const columnGap = 2

// Printer renders command results to a writer.
type Printer struct {
	w io.Writer

	heading lipgloss.Style
	label   lipgloss.Style
	faint   lipgloss.Style
	ok      lipgloss.Style
	fail    lipgloss.Style
	cached  lipgloss.Style
}

// NewPrinter creates a Printer writing to w, or to stdout when w is nil.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	r := NewRenderer(w)
	return &Printer{
		w:       w,
		heading: r.NewStyle().Bold(true),
		label:   r.NewStyle().Foreground(style.Slate),
		faint:   r.NewStyle().Foreground(style.Ash),
		ok:      r.NewStyle().Foreground(style.Green),
		fail:    r.NewStyle().Foreground(style.Red),
		cached:  r.NewStyle().Foreground(style.Slate),
	}
}

// Recipes prints the registered recipes as a table.
func (p *Printer) Recipes(metas []domain.Metadata) {
	rows := make([][]string, 0, len(metas))
	for _, m := range metas {
		rows = append(rows, []string{m.Name, m.Version, m.License, m.Description})
	}
	p.table([]string{"NAME", "VERSION", "LICENSE", "DESCRIPTION"}, rows)
}

// PackageInfo prints a stored package record.
func (p *Printer) PackageInfo(info domain.PackageInfo) {
	p.line(p.heading.Render(info.Ref))

	fields := [][2]string{
		{"package id", info.PackageID},
		{"folder", info.Folder},
	}
	if info.Revision != "" {
		fields = append(fields, [2]string{"revision", info.Revision})
	}
	if info.SourceHash != "" {
		fields = append(fields, [2]string{"source hash", info.SourceHash})
	}
	fields = append(fields,
		[2]string{"built", info.Timestamp.UTC().Format(time.RFC3339)},
		[2]string{"settings", pairs(info.Settings)},
		[2]string{"options", pairs(info.Options)},
		[2]string{"requires", list(info.Dependencies)},
		[2]string{"libs", list(info.CppInfo.Libs)},
	)
	if len(info.CppInfo.SystemLibs) > 0 {
		fields = append(fields, [2]string{"system libs", list(info.CppInfo.SystemLibs)})
	}
	fields = append(fields,
		[2]string{"include dirs", list(info.CppInfo.IncludeDirs)},
		[2]string{"lib dirs", list(info.CppInfo.LibDirs)},
		[2]string{"bin dirs", list(info.CppInfo.BinDirs)},
	)
	p.fields(fields)
}

// Config prints a resolved configuration that passed validation.
func (p *Printer) Config(cfg domain.Config) {
	p.line(p.ok.Render(style.Check) + " " + p.heading.Render(cfg.Ref.String()))

	deps := cfg.Dependencies()
	names := make([]string, 0, len(deps))
	for _, d := range deps {
		names = append(names, d.String())
	}
	p.fields([][2]string{
		{"settings", pairs(cfg.Settings.Map())},
		{"options", pairs(cfg.Options.Map())},
		{"requires", list(names)},
	})
}

// Rejected prints a recipe whose configuration failed.
func (p *Printer) Rejected(ref string, err error) {
	p.line(p.fail.Render(style.Cross) + " " + p.heading.Render(ref) + "  " + err.Error())
}

// Summary prints one line per recorded stage followed by the totals.
// Failed stages are followed by the last lines of their output.
func (p *Printer) Summary(results []domain.StageResult) {
	if len(results) == 0 {
		return
	}

	var done, cached, failed int
	for _, r := range results {
		switch r.Status {
		case domain.StageDone:
			done++
			p.line(p.ok.Render(style.Check) + " " + r.Name + "  " + p.faint.Render(formatDuration(r.Duration)))
		case domain.StageCached:
			cached++
			p.line(p.cached.Render(style.Cached) + " " + r.Name + "  " + p.faint.Render("cached"))
		case domain.StageFailed:
			failed++
			p.line(p.fail.Render(style.Cross) + " " + r.Name + "  " + p.fail.Render("failed: "+r.Error))
			for _, out := range r.Output {
				p.line("    " + p.faint.Render(out))
			}
		default:
			p.line(p.faint.Render(style.Dot) + " " + r.Name)
		}
	}

	p.line("")
	p.line(fmt.Sprintf("%d stages: %d done, %d cached, %d failed", len(results), done, cached, failed))
}

func (p *Printer) table(header []string, rows [][]string) {
	widths := make([]int, len(header))
	for _, row := range append([][]string{header}, rows...) {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	render := func(row []string) string {
		var b strings.Builder
		for i, cell := range row {
			b.WriteString(cell)
			if i < len(row)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(cell)+columnGap))
			}
		}
		return b.String()
	}

	p.line(p.heading.Render(render(header)))
	for _, row := range rows {
		p.line(render(row))
	}
}

func (p *Printer) fields(fields [][2]string) {
	width := 0
	for _, f := range fields {
		width = max(width, len(f[0]))
	}
	for _, f := range fields {
		pad := strings.Repeat(" ", width-len(f[0])+columnGap)
		p.line("  " + p.label.Render(f[0]) + pad + f[1])
	}
}

func (p *Printer) line(s string) {
	_, _ = fmt.Fprintln(p.w, s)
}

func pairs(m map[string]string) string {
	if len(m) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+m[k])
	}
	return strings.Join(parts, " ")
}

func list(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(100 * time.Millisecond).String()
}
