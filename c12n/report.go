package c12n

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
)

// ReportResults prints the confusion matrix and the per-class accuracy
// table to w, then hands the summary to dest (which may be nil). Nothing
// happens when no case was recorded. classNames overrides the model class
// names for display when non-nil.
func (r *Results) ReportResults(ctx context.Context, w io.Writer, classNames []string, dest SummaryWriter) error {
	summary, ok := r.Summary()
	if !ok {
		return nil
	}
	if classNames == nil {
		classNames = r.ClassNames()
	}
	if len(classNames) != r.NumModels() {
		return fmt.Errorf("c12n: %d class names for %d models", len(classNames), r.NumModels())
	}

	stats := r.ClassStats()

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Confusion matrix:")
	r.renderConfusion(w, classNames, stats)
	fmt.Fprintln(w)
	r.renderAccuracy(w, classNames, stats)

	fmt.Fprintf(w, "  avg_accuracy  %v%%\n", summary.AvgAccuracy)
	fmt.Fprintf(w, "    error_rate  %v%%\n", 100-summary.AvgAccuracy)
	fmt.Fprintln(w)

	if dest == nil {
		return nil
	}
	if err := dest.WriteSummary(ctx, summary); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

func (r *Results) renderConfusion(w io.Writer, classNames []string, stats []ClassStat) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)

	header := table.Row{"", ""}
	for _, s := range stats {
		header = append(header, strconv.Itoa(s.ClassID))
	}
	header = append(header, "tests", "errors")
	tw.AppendHeader(header)

	for _, row := range stats {
		line := table.Row{classNames[row.ClassID], row.ClassID}
		errs := 0
		for _, col := range stats {
			count := r.Confusion(row.ClassID, col.ClassID)
			line = append(line, count)
			if row.ClassID != col.ClassID {
				errs += count
			}
		}
		line = append(line, row.Tests, errs)
		tw.AppendRow(line)
	}

	tw.Render()
}

func (r *Results) renderAccuracy(w io.Writer, classNames []string, stats []ClassStat) {
	numModels := r.NumModels()

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)

	header := table.Row{"", "class", "accuracy", "tests"}
	for rank := 1; rank <= numModels; rank++ {
		header = append(header, "#"+strconv.Itoa(rank))
	}
	tw.AppendHeader(header)

	statRow := func(name, class string, s ClassStat) table.Row {
		row := table.Row{name, class, fmt.Sprintf("%6.2f%%", 100*s.Accuracy), s.Tests}
		for _, count := range s.Ranks {
			row = append(row, count)
		}
		return row
	}

	for _, s := range stats {
		tw.AppendRow(statRow(classNames[s.ClassID], strconv.Itoa(s.ClassID), s))
	}

	r.mu.Lock()
	total, _ := r.classStat(numModels)
	r.mu.Unlock()
	tw.AppendFooter(statRow("", "TOTAL", total))

	tw.Render()
}
