package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dgallion1/chat2md/internal/pipeline"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
)

// FormatSummary renders the end-of-run summary box followed by one line
// per failed file.
func FormatSummary(w io.Writer, report *pipeline.Report, tocPath string) {
	if report.Pending == 0 {
		fmt.Fprintln(w, dimStyle.Render("No new files to process."))
	}

	failed := fmt.Sprintf("%d", report.Failed)
	if report.Failed > 0 {
		failed = errorStyle.Render(failed)
	}

	lines := []string{
		titleStyle.Render("chat2md run ") + dimStyle.Render(report.RunID),
		fmt.Sprintf("%s %d  %s %d  %s %d",
			dimStyle.Render("Files:"), report.Pending,
			dimStyle.Render("Skipped:"), report.AlreadyProcessed,
			dimStyle.Render("Documents:"), report.Documents),
		fmt.Sprintf("%s %s  %s %s  %s %d",
			dimStyle.Render("Logged:"), successStyle.Render(fmt.Sprintf("%d", report.Logged)),
			dimStyle.Render("Failed:"), failed,
			dimStyle.Render("Empty chunks:"), report.ChunksSkipped),
		fmt.Sprintf("%s %.1fs", dimStyle.Render("Duration:"), float64(report.DurationMs)/1000.0),
	}
	if report.FailedDocuments > 0 {
		lines = append(lines, fmt.Sprintf("%s %d",
			dimStyle.Render("Written by failed files:"), report.FailedDocuments))
	}
	switch {
	case report.TOCError != "":
		lines = append(lines, errorStyle.Render("TOC not written: "+report.TOCError))
	case report.TOCWritten:
		lines = append(lines, fmt.Sprintf("%s %s (%d entries)", dimStyle.Render("TOC:"), tocPath, report.TOCEntries))
	}
	fmt.Fprintln(w, boxStyle.Render(strings.Join(lines, "\n")))

	for _, f := range report.Files {
		if f.Status != pipeline.StatusFailed {
			continue
		}
		reason := ""
		if len(f.Progress.Errors) > 0 {
			reason = f.Progress.Errors[len(f.Progress.Errors)-1]
		}
		fmt.Fprintf(w, "%s %s %s\n", errorStyle.Render("✗"), f.Name, dimStyle.Render(reason))
	}
}
