// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package progress reports per-item progress of a pipeline stage. On a
// terminal the status line is redrawn in place and fitted to the terminal
// width; elsewhere each step is printed on its own line.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// DefaultWidth is used when the output is not a terminal or its size is
// unknown.
const DefaultWidth = 80

// Reporter receives stage progress. Implementations must tolerate Step
// being called more than total times.
type Reporter interface {
	// Start begins a stage of total items.
	Start(stage string, total int)

	// Step reports that one more item, described by label, is being processed.
	Step(label string)

	// Preview shows the content that would be written to name.
	Preview(name, content string)

	// Done ends the current stage.
	Done()
}

// Nop discards all progress.
type Nop struct{}

func (Nop) Start(string, int)      {}
func (Nop) Step(string)            {}
func (Nop) Preview(string, string) {}
func (Nop) Done()                  {}

// Terminal writes progress to w.
type Terminal struct {
	w      io.Writer
	inline bool
	width  int

	stage string
	total int
	n     int
}

// NewTerminal returns a Terminal writing to w. When w is a terminal the
// status line is redrawn in place.
func NewTerminal(w io.Writer) *Terminal {
	t := &Terminal{w: w, width: DefaultWidth}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		t.inline = true
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			t.width = width
		}
	}
	return t
}

// Start begins a stage.
func (t *Terminal) Start(stage string, total int) {
	t.stage, t.total, t.n = stage, total, 0
}

// Step prints "[stage i/total] label", truncated to the terminal width.
func (t *Terminal) Step(label string) {
	t.n++
	line := fit(fmt.Sprintf("[%s %d/%d] %s", t.stage, t.n, t.total, label), t.width-1)
	if t.inline {
		fmt.Fprintf(t.w, "\r%-*s", t.width-1, line)
		return
	}
	fmt.Fprintln(t.w, line)
}

// Preview prints content under a banner naming the file.
func (t *Terminal) Preview(name, content string) {
	if t.inline && t.n > 0 {
		fmt.Fprintln(t.w)
	}
	fmt.Fprintf(t.w, "+++ %s +++\n", name)
	fmt.Fprint(t.w, content)
	if !strings.HasSuffix(content, "\n") {
		fmt.Fprintln(t.w)
	}
}

// Done terminates the status line.
func (t *Terminal) Done() {
	if t.inline && t.n > 0 {
		fmt.Fprintln(t.w)
	}
	t.n = 0
}

// fit shortens s to at most width runes, marking the cut with "...".
func fit(s string, width int) string {
	r := []rune(s)
	if width <= 3 || len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}
