package ui

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"cruxtest/internal/domain"
)

// Formatter formats and displays test lists and run statistics
type Formatter struct {
	out io.Writer
}

// NewFormatter creates a new Formatter
func NewFormatter(out io.Writer) *Formatter {
	return &Formatter{out: out}
}

// PrintTestList prints the discovered test files grouped by suite directory.
// Files in failedPaths (from the last stored run) are marked with [F].
func (f *Formatter) PrintTestList(tests []string, failedPaths map[string]struct{}) {
	fmt.Fprintln(f.out, color.GreenString("Found %d test file(s):", len(tests)))

	groups := make(map[string][]string)
	var dirs []string
	for _, test := range tests {
		dir := filepath.Dir(test)
		if _, ok := groups[dir]; !ok {
			dirs = append(dirs, dir)
		}
		groups[dir] = append(groups[dir], filepath.Base(test))
	}

	for i, dir := range dirs {
		lastDir := i == len(dirs)-1
		branch, indent := "├── ", "│   "
		if lastDir {
			branch, indent = "└── ", "    "
		}
		fmt.Fprintf(f.out, "%s%s\n", branch, color.CyanString(dir))

		names := groups[dir]
		sort.Strings(names)
		for j, name := range names {
			leaf := "├── "
			if j == len(names)-1 {
				leaf = "└── "
			}
			marker := ""
			if _, failed := failedPaths[filepath.Join(dir, name)]; failed {
				marker = " " + color.RedString("[F]")
			}
			fmt.Fprintf(f.out, "%s%s%s%s\n", indent, leaf, color.YellowString(name), marker)
		}
	}
}

// PrintStats renders a summary table of the run followed by one row per
// failed file.
func (f *Formatter) PrintStats(run *domain.SuiteRun) {
	stats := run.Stats()

	t := table.NewWriter()
	t.SetOutputMirror(f.out)
	t.SetStyle(table.StyleRounded)
	t.SetTitle(fmt.Sprintf("Test Execution Statistics (%s)", run.Duration.Round(time.Millisecond)))
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})
	t.AppendRows([]table.Row{
		{"Run ID", run.ID},
		{"Total Test Files", stats.Total},
		{"Passed Test Files", stats.Passed},
		{"Failed Test Files", stats.Failed},
		{"Skipped Test Files", stats.Skipped},
		{"Workers", run.Workers},
		{"Started", run.StartedAt.Format(time.RFC3339)},
	})
	t.Render()

	if stats.Failed == 0 {
		return
	}

	ft := table.NewWriter()
	ft.SetOutputMirror(f.out)
	ft.SetStyle(table.StyleRounded)
	ft.SetTitle("Failed Test Files")
	ft.AppendHeader(table.Row{"#", "File", "Exit Code", "Duration", "Error"})
	ft.SetColumnConfigs([]table.ColumnConfig{
		{Name: "File", WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Exit Code", Align: text.AlignRight},
		{Name: "Duration", Align: text.AlignRight},
		{Name: "Error", WidthMax: 50, WidthMaxEnforcer: text.WrapSoft},
	})
	for _, res := range run.Results {
		if !res.Failed() {
			continue
		}
		errText := ""
		if res.Error != nil {
			errText = strings.TrimSpace(res.Error.Error())
		}
		ft.AppendRow(table.Row{
			res.Index + 1,
			res.TestPath,
			res.ExitCode,
			res.Duration.Round(time.Millisecond),
			errText,
		})
	}
	ft.Render()
}
