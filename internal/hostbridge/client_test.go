package hostbridge

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/streamgraph/internal/ctxlog"
	"github.com/vk/streamgraph/internal/host"
)

type sentEvent struct {
	event string
	args  []any
	ack   func([]any, error)
}

// fakeTransport records every emit and lets the test decide when and how
// each one is acknowledged.
type fakeTransport struct {
	mu        sync.Mutex
	connected bool
	sent      []sentEvent
	onEmit    func(e sentEvent)
}

func (f *fakeTransport) Connected() bool { return f.connected }
func (f *fakeTransport) ID() string      { return "test-sid" }
func (f *fakeTransport) Close()          { f.connected = false }

func (f *fakeTransport) EmitWithAck(event string, _ time.Duration, args []any, ack func([]any, error)) {
	e := sentEvent{event: event, args: args, ack: ack}
	f.mu.Lock()
	f.sent = append(f.sent, e)
	f.mu.Unlock()
	if f.onEmit != nil {
		f.onEmit(e)
	}
}

func (f *fakeTransport) emitted(i int) sentEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent[i]
}

func ok(data any) []any {
	return []any{map[string]any{"ok": true, "data": data}}
}

func TestRequest_LateReplyDoesNotAnswerNextRequest(t *testing.T) {
	ctx := ctxlog.Discard(context.Background())
	conn := &fakeTransport{connected: true}
	c := &Client{conn: conn, timeout: 20 * time.Millisecond}

	// The first query is never answered in time.
	_, err := c.EntitiesMatching(ctx, "Read")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// The second query is answered, and only then the stale reply arrives.
	conn.onEmit = func(e sentEvent) {
		e.ack(ok([]any{"beauty"}), nil)
		conn.emitted(0).ack(ok([]any{"Read1", "Read2"}), nil)
	}
	names, err := c.EntitiesMatching(ctx, "bea")
	require.NoError(t, err)
	assert.Equal(t, []string{"beauty"}, names)

	assert.Equal(t, []any{map[string]any{"pattern": "Read"}}, conn.emitted(0).args)
	assert.Equal(t, []any{map[string]any{"pattern": "bea"}}, conn.emitted(1).args)
}

func TestRequest_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		onEmit  func(e sentEvent)
		cancel  bool
		wantIs  error
		wantMsg string
	}{
		{
			name:    "host failure",
			onEmit:  func(e sentEvent) { e.ack([]any{map[string]any{"ok": false, "error": "disk full"}}, nil) },
			wantMsg: "host request 'write' failed: disk full",
		},
		{
			name:    "ack timeout",
			onEmit:  func(e sentEvent) { e.ack(nil, errors.New("operation has timed out")) },
			wantMsg: "timed out after 1s waiting for reply to 'write'",
		},
		{
			name:    "caller cancelled",
			cancel:  true,
			wantIs:  context.Canceled,
			wantMsg: "host request 'write' abandoned",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(ctxlog.Discard(context.Background()))
			defer cancel()
			if tc.cancel {
				cancel()
			}
			conn := &fakeTransport{connected: true, onEmit: tc.onEmit}
			c := &Client{conn: conn, timeout: time.Second}

			err := c.Dispatch(ctx, host.WriteRequest{Origin: "beauty", Path: "/out/a.exr"})
			require.Error(t, err)
			if tc.wantIs != nil {
				assert.ErrorIs(t, err, tc.wantIs)
			}
			assert.Contains(t, err.Error(), tc.wantMsg)
		})
	}
}

func TestRequest_NotConnected(t *testing.T) {
	c := &Client{conn: &fakeTransport{}, timeout: time.Second}
	_, err := c.SceneEntities(ctxlog.Discard(context.Background()))
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestDispatch_SendsWritePayload(t *testing.T) {
	conn := &fakeTransport{connected: true}
	conn.onEmit = func(e sentEvent) { e.ack(ok(nil), nil) }
	c := &Client{conn: conn, timeout: time.Second}

	req := host.WriteRequest{Origin: "beauty", Path: "/out/a.exr", StartFrame: 1, EndFrame: 2, Manipulations: []string{"Flip"}}
	require.NoError(t, c.Dispatch(ctxlog.Discard(context.Background()), req))

	sent := conn.emitted(0)
	assert.Equal(t, EventWrite, sent.event)
	assert.Equal(t, []any{encodeWrite(req)}, sent.args)
}
