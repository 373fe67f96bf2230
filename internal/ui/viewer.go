package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"cruxtest/internal/domain"
	"cruxtest/internal/storage"
)

// Viewer displays stored test results
type Viewer interface {
	View(ctx context.Context, results *domain.TestResultsOutput) error
}

// Rerunner re-executes a single stored test file
type Rerunner interface {
	Run(ctx context.Context, index int, testPath string, stdout, stderr io.Writer) domain.TestResult
}

// ResultSaver persists an updated results document
type ResultSaver interface {
	SaveOutput(output *domain.TestResultsOutput) error
}

// FailureViewer lists the failed files of the last run next to their output.
// Pressing r re-runs the selected file and stores the new outcome.
type FailureViewer struct {
	saver    ResultSaver
	rerunner Rerunner
	out      io.Writer
}

// NewFailureViewer creates a new FailureViewer
func NewFailureViewer(saver ResultSaver, rerunner Rerunner, out io.Writer) *FailureViewer {
	return &FailureViewer{saver: saver, rerunner: rerunner, out: out}
}

// View opens the interactive viewer over results
func (fv *FailureViewer) View(ctx context.Context, results *domain.TestResultsOutput) error {
	failed := failedIndexes(results)
	if len(failed) == 0 {
		fmt.Fprintln(fv.out, color.GreenString("✓ No test failures found!"))
		return nil
	}

	app := tview.NewApplication()

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)
	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan)
	for i, idx := range failed {
		list.AddItem(listItemText(i, results.Details[idx]), "", 0, nil)
	}

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true)
	statsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false)
	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	updateHeader := func() {
		remaining := 0
		for _, idx := range failed {
			if results.Details[idx].Status == domain.StatusFailed {
				remaining++
			}
		}
		headerView.SetText(fmt.Sprintf(
			" Failed test files (%d listed, %d still failing) | ↑↓ navigate, → details, ← back, [yellow]r[white] re-run, q quit ",
			len(failed), remaining))
	}

	updateDetails := func() {
		i := list.GetCurrentItem()
		if i < 0 || i >= len(failed) {
			return
		}
		rec := results.Details[failed[i]]
		statsView.SetText(recordStats(rec))
		detailsView.SetText(recordDetails(rec)).ScrollToBeginning()
	}

	// Only touched from the UI goroutine: key handlers and queued updates.
	pending := newPendingReruns()

	rerun := func() {
		if fv.rerunner == nil {
			return
		}
		i := list.GetCurrentItem()
		if i < 0 || i >= len(failed) {
			return
		}
		idx := failed[i]
		if !pending.begin(idx) {
			return
		}
		path := results.Details[idx].FilePath
		statsView.SetText(fmt.Sprintf("[yellow]re-running %s ...[white]", tview.Escape(path)))

		go func() {
			res := fv.rerunner.Run(ctx, idx, path, io.Discard, io.Discard)
			app.QueueUpdateDraw(func() {
				pending.done(idx)
				results.Details[idx] = storage.RecordFromResult(res)
				if fv.saver != nil {
					if err := fv.saver.SaveOutput(results); err != nil {
						statsView.SetText(fmt.Sprintf("[red]save failed: %s[white]", tview.Escape(err.Error())))
						return
					}
				}
				list.SetItemText(i, listItemText(i, results.Details[idx]), "")
				updateHeader()
				updateDetails()
			})
		}()
	}

	list.SetChangedFunc(func(int, string, string, rune) { updateDetails() })
	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyRune:
			switch event.Rune() {
			case 'q':
				app.Stop()
				return nil
			case 'r', 'R':
				rerun()
				return nil
			}
		}
		return event
	})
	detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		case tcell.KeyRune:
			if event.Rune() == 'q' {
				app.Stop()
				return nil
			}
		}
		return event
	})

	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statsView, 3, 0, false).
		AddItem(detailsView, 0, 1, false)
	body := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(rightSide, 0, 2, false)
	layout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(body, 0, 1, true)

	updateHeader()
	updateDetails()

	// Leave the viewer when the command is interrupted.
	go func() {
		<-ctx.Done()
		app.Stop()
	}()

	if err := app.SetRoot(layout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run viewer: %w", err)
	}
	return nil
}

// pendingReruns tracks the records with a re-run in flight
type pendingReruns map[int]struct{}

func newPendingReruns() pendingReruns {
	return make(pendingReruns)
}

// begin marks idx as re-running; it reports false if it already was
func (p pendingReruns) begin(idx int) bool {
	if _, ok := p[idx]; ok {
		return false
	}
	p[idx] = struct{}{}
	return true
}

func (p pendingReruns) done(idx int) {
	delete(p, idx)
}

func failedIndexes(results *domain.TestResultsOutput) []int {
	var idx []int
	for i, rec := range results.Details {
		if rec.Status == domain.StatusFailed {
			idx = append(idx, i)
		}
	}
	return idx
}

func listItemText(i int, rec domain.TestRecord) string {
	name := tview.Escape(rec.FilePath)
	if rec.Status == domain.StatusPassed {
		return fmt.Sprintf("[gray]✓ [yellow]%d.[gray] %s[white]", i+1, name)
	}
	return fmt.Sprintf("[yellow]%d.[white] %s", i+1, name)
}

func recordStats(rec domain.TestRecord) string {
	status := "[red]" + strings.ToUpper(string(rec.Status)) + "[white]"
	if rec.Status == domain.StatusPassed {
		status = "[green]PASSED[white]"
	}
	line := fmt.Sprintf("[cyan]file:[white] [yellow]%s[white]  %s  [cyan]exit code:[white] %d  [cyan]duration:[white] %.2fs",
		tview.Escape(rec.FilePath), status, rec.ExitCode, rec.DurationSeconds)
	if rec.TimedOut {
		line += "  [red](timed out)[white]"
	}
	return line
}

func recordDetails(rec domain.TestRecord) string {
	var b strings.Builder
	if rec.Error != "" {
		fmt.Fprintf(&b, "[yellow]Error:[white]\n%s\n\n", tview.Escape(rec.Error))
	}
	if strings.TrimSpace(rec.Output) == "" {
		b.WriteString("[gray](no output)[white]")
	} else {
		fmt.Fprintf(&b, "[yellow]Output:[white]\n%s", tview.Escape(rec.Output))
	}
	return b.String()
}
