// Package display drives the two-line status panel at the doorway. Every
// workflow step writes to a Sink; the panel keeps only the last frame.
package display

import (
	"strings"
	"unicode/utf8"
)

// Width is the character width of one panel line.
const Width = 16

// Sink accepts two independently centered lines.
type Sink interface {
	Show(line1, line2 string)
	Clear()
}

// Center truncates text to width runes and pads it with spaces on both
// sides, the left side getting floor((width-n)/2).
func Center(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if utf8.RuneCountInString(text) > width {
		text = string([]rune(text)[:width])
	}
	n := utf8.RuneCountInString(text)
	left := (width - n) / 2
	right := width - n - left
	return strings.Repeat(" ", left) + text + strings.Repeat(" ", right)
}

// Format centers both lines to Width.
func Format(line1, line2 string) (string, string) {
	return Center(line1, Width), Center(line2, Width)
}

// Multi fans each frame out to every sink.
type Multi []Sink

func (m Multi) Show(line1, line2 string) {
	for _, s := range m {
		s.Show(line1, line2)
	}
}

func (m Multi) Clear() {
	for _, s := range m {
		s.Clear()
	}
}
