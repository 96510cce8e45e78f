package feedback

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/streamgraph/internal/ctxlog"
)

func fixedClock() func() time.Time {
	t := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func TestLog_AppendOrder(t *testing.T) {
	ctx := ctxlog.Discard(context.Background())
	l := NewLogWithClock(fixedClock())

	l.Add(ctx, Banner, "Started execution of Stream (Stream number: %d | From node with ID:%d)", 1, 3)
	l.Add(ctx, Failure, "broken")
	mark := l.Len()
	l.Add(ctx, Warning, "missing")

	var messages []string
	for _, e := range l.Entries() {
		messages = append(messages, e.Message)
	}
	assert.Equal(t, []string{
		"Started execution of Stream (Stream number: 1 | From node with ID:3)",
		"broken",
		"missing",
	}, messages)

	since := l.Since(mark)
	require.Len(t, since, 1)
	assert.Equal(t, Warning, since[0].Severity)
	assert.Nil(t, l.Since(10))

	entries := l.Entries()
	assert.True(t, entries[0].Time.Before(entries[1].Time))
}

func TestLog_MirrorsToSlog(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	NewLog().Add(ctx, Notice, "Starting to write the output for this stream")

	assert.Contains(t, buf.String(), "severity=notice")
	assert.Contains(t, buf.String(), "Starting to write the output for this stream")
}

func TestRender_Plain(t *testing.T) {
	ctx := ctxlog.Discard(context.Background())
	l := NewLogWithClock(fixedClock())
	l.Add(ctx, Success, "ok")
	l.Add(ctx, Failure, "bad")

	var out bytes.Buffer
	require.NoError(t, Render(&out, l.Entries(), false))

	assert.Equal(t, "[2024-03-01 09:30:01] ok\n[2024-03-01 09:30:02] bad\n", out.String())
}

func TestRender_ColorKeepsText(t *testing.T) {
	ctx := ctxlog.Discard(context.Background())
	l := NewLogWithClock(fixedClock())
	l.Add(ctx, Warning, "There was no valid file extension detected in this stream")

	var out bytes.Buffer
	require.NoError(t, Render(&out, l.Entries(), true))

	assert.Contains(t, out.String(), "There was no valid file extension detected in this stream")
	assert.Equal(t, 1, strings.Count(out.String(), "\n"))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestRender_WriteError(t *testing.T) {
	entries := []Entry{{Severity: Banner, Message: "x"}}
	err := Render(failingWriter{}, entries, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to render feedback")
}
