package hostbridge

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/vk/streamgraph/internal/ctxlog"
	"github.com/vk/streamgraph/internal/host"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// Event names understood by the host.
const (
	EventEntities     = "scene:entities"
	EventExists       = "scene:exists"
	EventErrors       = "scene:errors"
	EventMatching     = "scene:matching"
	EventDisconnected = "scene:disconnected"
	EventOfClass      = "scene:class"
	EventWrite        = "write"
)

// ErrNotConnected is returned when the socket dropped before a request.
var ErrNotConnected = errors.New("host bridge is not connected")

// DefaultTimeout bounds connecting and every request when Options leaves it zero.
const DefaultTimeout = 15 * time.Second

// Options configures Dial.
type Options struct {
	URL                string
	Namespace          string
	InsecureSkipVerify bool
	Timeout            time.Duration
}

// Client is a host.Host backed by a socket.io connection.
type Client struct {
	mu      sync.Mutex
	conn    transport
	timeout time.Duration
}

// transport sends one event and hands the host's acknowledgement, or a
// timeout error, to ack exactly once.
type transport interface {
	Connected() bool
	ID() string
	EmitWithAck(event string, timeout time.Duration, args []any, ack func([]any, error))
	Close()
}

type socketTransport struct {
	io *socket.Socket
}

func (s socketTransport) Connected() bool { return s.io.Connected() }
func (s socketTransport) ID() string      { return s.io.Id() }
func (s socketTransport) Close()          { s.io.Disconnect() }

// EmitWithAck pairs the reply with its request through the socket.io ack id.
func (s socketTransport) EmitWithAck(event string, timeout time.Duration, args []any, ack func([]any, error)) {
	s.io.Timeout(timeout).EmitWithAck(event, args...)(ack)
}

var _ host.Host = (*Client)(nil)

// Dial connects to the host and waits for the handshake.
func Dial(ctx context.Context, opts Options) (*Client, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	logger := ctxlog.FromContext(ctx).With("component", "hostbridge", "url", opts.URL)
	logger.Info("Connecting to host...")

	parsedURL, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("host URL %q must include scheme and host", opts.URL)
	}

	sopts := socket.DefaultOptions()
	sopts.SetPath(parsedURL.Path)
	if opts.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		sopts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	sopts.SetTransports(types.NewSet(transports.WebSocket))

	connectChan := make(chan error, 1)

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, sopts)
	io := manager.Socket(opts.Namespace, sopts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Debug("Host connected.", "sid", io.Id())
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := fmt.Errorf("connect_error: %v", errs)
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		connectChan <- err
	})

	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		logger.Info("Connected to host.", "sid", io.Id())
		return &Client{conn: socketTransport{io: io}, timeout: timeout}, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-time.After(timeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %v waiting for socket.io connection", timeout)
	}
}

// Close disconnects from the host.
func (c *Client) Close() error {
	c.conn.Close()
	return nil
}

type reply struct {
	data any
	err  error
}

// request emits event with payload and waits for the host to acknowledge it.
func (c *Client) request(ctx context.Context, event string, payload map[string]any) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.conn.Connected() {
		return nil, ErrNotConnected
	}
	logger := ctxlog.FromContext(ctx).With("event", event, "sid", c.conn.ID())

	opCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var args []any
	if payload != nil {
		args = append(args, payload)
	}

	done := make(chan reply, 1)
	logger.Debug("Emitting host request.", "payload", payload)
	c.conn.EmitWithAck(event, c.timeout, args, func(data []any, err error) {
		if err != nil {
			done <- reply{err: fmt.Errorf("timed out after %v waiting for reply to '%s': %w", c.timeout, event, err)}
			return
		}
		v, err := decodeReply(data)
		if err != nil {
			err = fmt.Errorf("host request '%s' failed: %w", event, err)
		}
		done <- reply{data: v, err: err}
	})

	select {
	case <-opCtx.Done():
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("host request '%s' abandoned: %w", event, err)
		}
		return nil, fmt.Errorf("timed out after %v waiting for reply to '%s': %w", c.timeout, event, opCtx.Err())
	case r := <-done:
		if r.err != nil {
			return nil, r.err
		}
		logger.Debug("Host request answered.")
		return r.data, nil
	}
}

func (c *Client) names(ctx context.Context, event string, payload map[string]any) ([]string, error) {
	data, err := c.request(ctx, event, payload)
	if err != nil {
		return nil, err
	}
	return decodeNames(data)
}

// SceneEntities implements host.Scene.
func (c *Client) SceneEntities(ctx context.Context) ([]string, error) {
	return c.names(ctx, EventEntities, nil)
}

// EntityExists implements host.Scene.
func (c *Client) EntityExists(ctx context.Context, name string) (bool, error) {
	data, err := c.request(ctx, EventExists, map[string]any{"name": name})
	if err != nil {
		return false, err
	}
	return decodeBool(data)
}

// EntitiesWithErrors implements host.Scene.
func (c *Client) EntitiesWithErrors(ctx context.Context) ([]string, error) {
	return c.names(ctx, EventErrors, nil)
}

// EntitiesMatching implements host.Scene.
func (c *Client) EntitiesMatching(ctx context.Context, pattern string) ([]string, error) {
	return c.names(ctx, EventMatching, map[string]any{"pattern": pattern})
}

// DisconnectedInputs implements host.Scene.
func (c *Client) DisconnectedInputs(ctx context.Context, class string) ([]string, error) {
	return c.names(ctx, EventDisconnected, map[string]any{"class": class})
}

// EntitiesOfClass implements host.Scene.
func (c *Client) EntitiesOfClass(ctx context.Context, class string) ([]string, error) {
	return c.names(ctx, EventOfClass, map[string]any{"class": class})
}

// Dispatch implements host.Dispatcher. It waits for the host to report the
// outcome of the write.
func (c *Client) Dispatch(ctx context.Context, req host.WriteRequest) error {
	_, err := c.request(ctx, EventWrite, encodeWrite(req))
	return err
}
