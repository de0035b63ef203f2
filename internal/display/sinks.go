package display

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// LogSink writes each frame as a structured log record.
type LogSink struct {
	Logger *slog.Logger
}

func (s LogSink) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func (s LogSink) Show(line1, line2 string) {
	l1, l2 := Format(line1, line2)
	s.logger().Info("display", "line1", l1, "line2", l2)
}

func (s LogSink) Clear() {
	s.logger().Info("display cleared")
}

// CharDevice is the subset of a character LCD driver the panel needs.
type CharDevice interface {
	Clear() error
	WriteLine(row int, text string) error
}

// DeviceSink drives a physical character display. Device errors are logged
// and dropped; feedback must never abort a workflow.
type DeviceSink struct {
	mu     sync.Mutex
	device CharDevice
}

func NewDeviceSink(device CharDevice) *DeviceSink {
	return &DeviceSink{device: device}
}

func (s *DeviceSink) Show(line1, line2 string) {
	l1, l2 := Format(line1, line2)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.device.Clear(); err != nil {
		slog.Warn("display clear failed", "error", err)
		return
	}
	if err := s.device.WriteLine(0, l1); err != nil {
		slog.Warn("display write failed", "row", 0, "error", err)
		return
	}
	if err := s.device.WriteLine(1, l2); err != nil {
		slog.Warn("display write failed", "row", 1, "error", err)
	}
}

func (s *DeviceSink) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.device.Clear(); err != nil {
		slog.Warn("display clear failed", "error", err)
	}
}

// ConsoleSink renders the panel as a bordered box, for bench setups
// without an LCD attached.
type ConsoleSink struct {
	mu    sync.Mutex
	out   io.Writer
	style lipgloss.Style
}

func NewConsoleSink(out io.Writer) *ConsoleSink {
	return &ConsoleSink{
		out: out,
		style: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Foreground(lipgloss.Color("86")).
			Width(Width),
	}
}

func (s *ConsoleSink) Show(line1, line2 string) {
	l1, l2 := Format(line1, line2)
	s.render(l1 + "\n" + l2)
}

func (s *ConsoleSink) Clear() {
	blank := strings.Repeat(" ", Width)
	s.render(blank + "\n" + blank)
}

func (s *ConsoleSink) render(body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.out, s.style.Render(body))
}

// Frame is one rendered panel state.
type Frame struct {
	Line1, Line2 string
}

// Recorder keeps every frame in memory. A cleared panel is recorded as
// two blank lines.
type Recorder struct {
	mu     sync.Mutex
	frames []Frame
}

func (r *Recorder) Show(line1, line2 string) {
	l1, l2 := Format(line1, line2)
	r.mu.Lock()
	r.frames = append(r.frames, Frame{Line1: l1, Line2: l2})
	r.mu.Unlock()
}

func (r *Recorder) Clear() {
	r.Show("", "")
}

func (r *Recorder) Frames() []Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Frame(nil), r.frames...)
}

// Last returns the current panel state.
func (r *Recorder) Last() Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.frames) == 0 {
		return Frame{}
	}
	return r.frames[len(r.frames)-1]
}

// Lines returns the trimmed first line of every frame, which is what
// tests usually assert on.
func (r *Recorder) Lines() []string {
	frames := r.Frames()
	out := make([]string, len(frames))
	for i, f := range frames {
		out[i] = strings.TrimSpace(f.Line1)
	}
	return out
}
