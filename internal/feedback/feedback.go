package feedback

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/vk/streamgraph/internal/ctxlog"
)

// TimeLayout is the timestamp prefix of rendered entries.
const TimeLayout = "2006-01-02 15:04:05"

// Severity selects how an entry is presented.
type Severity int

const (
	// Banner marks the start and end of a stream.
	Banner Severity = iota
	Success
	Failure
	// Warning reports a missing writing field.
	Warning
	// Notice announces the write itself.
	Notice
)

func (s Severity) String() string {
	switch s {
	case Banner:
		return "banner"
	case Success:
		return "success"
	case Failure:
		return "failure"
	case Warning:
		return "warning"
	case Notice:
		return "notice"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

var severityColors = map[Severity]lipgloss.Color{
	Banner:  lipgloss.Color("#00FF00"),
	Success: lipgloss.Color("#FFFFFF"),
	Failure: lipgloss.Color("#FF0000"),
	Warning: lipgloss.Color("#FFA500"),
	Notice:  lipgloss.Color("#FF00FF"),
}

// Entry is one line of feedback.
type Entry struct {
	Time     time.Time
	Severity Severity
	Message  string
}

// String renders the entry without color.
func (e Entry) String() string {
	return fmt.Sprintf("[%s] %s", e.Time.Format(TimeLayout), e.Message)
}

// Log is an append-only sequence of entries. It is safe for concurrent use.
type Log struct {
	mu      sync.Mutex
	entries []Entry
	now     func() time.Time
}

// NewLog creates an empty log stamped with the wall clock.
func NewLog() *Log {
	return &Log{now: time.Now}
}

// NewLogWithClock creates an empty log stamped by now.
func NewLogWithClock(now func() time.Time) *Log {
	return &Log{now: now}
}

// Add appends an entry and mirrors it to the context logger at debug level.
func (l *Log) Add(ctx context.Context, sev Severity, format string, args ...any) Entry {
	e := Entry{Severity: sev, Message: fmt.Sprintf(format, args...)}

	l.mu.Lock()
	e.Time = l.now()
	l.entries = append(l.entries, e)
	l.mu.Unlock()

	ctxlog.FromContext(ctx).Debug("Feedback.", "severity", sev.String(), "message", e.Message)
	return e
}

// Entries returns a copy of all entries in append order.
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Since returns the entries appended at or after position mark, as
// obtained from Len.
func (l *Log) Since(mark int) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	if mark >= len(l.entries) {
		return nil
	}
	out := make([]Entry, len(l.entries)-mark)
	copy(out, l.entries[mark:])
	return out
}

// Len returns the number of entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Render writes entries one per line. With color enabled, lines are styled
// per severity; the terminal capabilities of w decide what is emitted.
func Render(w io.Writer, entries []Entry, color bool) error {
	var styles map[Severity]lipgloss.Style
	if color {
		r := lipgloss.NewRenderer(w)
		styles = make(map[Severity]lipgloss.Style, len(severityColors))
		for sev, c := range severityColors {
			styles[sev] = r.NewStyle().Foreground(c)
		}
	}

	for _, e := range entries {
		line := e.String()
		if style, ok := styles[e.Severity]; ok {
			line = style.Render(line)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to render feedback: %w", err)
		}
	}
	return nil
}
