package presentation

import (
	"fmt"
	"io"
	"iter"

	"famedia/internal/domain"
)

type Printer struct {
	Writer  io.Writer
	Verbose bool
	// Flush is called after every line when set.
	Flush func()
}

// Summary counts what a batch did.
type Summary struct {
	Processed int
	Deleted   int
	Warnings  []string
	Aborted   bool
	Final     string
}

// Stream writes every event as one progress line and returns the summary.
// A write error stops consuming the batch.
func (p Printer) Stream(events iter.Seq[domain.Event]) (Summary, error) {
	var s Summary
	for ev := range events {
		s.Add(ev)
		if _, err := io.WriteString(p.Writer, ev.Text()); err != nil {
			return s, err
		}
		if p.Flush != nil {
			p.Flush()
		}
	}
	return s, nil
}

// Add folds one event into the summary.
func (s *Summary) Add(ev domain.Event) {
	switch ev.Kind {
	case domain.EventSuccess:
		s.Processed++
	case domain.EventWarning:
		s.Warnings = append(s.Warnings, ev.Message)
	case domain.EventDeleted:
		s.Deleted++
	case domain.EventAborted:
		s.Aborted = true
		s.Final = ev.Message
	case domain.EventCompleted:
		s.Final = ev.Message
	}
}

func (p Printer) PrintSummary(s Summary) {
	fmt.Fprintln(p.Writer)
	fmt.Fprintf(p.Writer, "Processed %d files, deleted %d.\n", s.Processed, s.Deleted)
	if s.Aborted {
		fmt.Fprintln(p.Writer, "The batch ended early; files processed before the error keep their changes.")
	}

	if len(s.Warnings) == 0 {
		return
	}
	fmt.Fprintf(p.Writer, "%d warnings.\n", len(s.Warnings))
	if p.Verbose {
		fmt.Fprintln(p.Writer, "Warnings:")
		for _, line := range truncate(s.Warnings) {
			fmt.Fprintln(p.Writer, "- "+line)
		}
	}
}

// truncate keeps the first and last two lines of a long list.
func truncate(lines []string) []string {
	if len(lines) <= 4 {
		return lines
	}
	out := append([]string{}, lines[:2]...)
	out = append(out, "...")
	return append(out, lines[len(lines)-2:]...)
}
