package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/specialistvlad/ipforge/internal/ctxlog"
)

// DefaultDialTimeout bounds the wait for the initial connection.
const DefaultDialTimeout = 15 * time.Second

// SocketIOOptions configures a SocketIO publisher.
type SocketIOOptions struct {
	Namespace          string
	InsecureSkipVerify bool
	Timeout            time.Duration
}

// SocketIO emits events to a socket.io server.
type SocketIO struct {
	io    *socket.Socket
	runID string
}

var _ Publisher = (*SocketIO)(nil)

// DialSocketIO connects to the socket.io server at rawURL and waits for the
// connection to be established.
func DialSocketIO(ctx context.Context, rawURL string, o SocketIOOptions) (*SocketIO, error) {
	logger := ctxlog.FromContext(ctx).With("publisher", "socketio", "url", rawURL)

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("invalid notify URL %q", rawURL)
	}
	timeout := o.Timeout
	if timeout <= 0 {
		timeout = DefaultDialTimeout
	}

	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	if o.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))
	opts.SetReconnection(false)

	connectChan := make(chan error, 1)

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(o.Namespace, opts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Connected to build event server", "sid", io.Id())
		select {
		case connectChan <- nil:
		default:
		}
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := fmt.Errorf("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			} else {
				err = fmt.Errorf("%v", errs[0])
			}
		}
		select {
		case connectChan <- err:
		default:
		}
	})

	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		return &SocketIO{io: io, runID: uuid.NewString()}, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection")
	case <-time.After(timeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %v waiting for socket.io connection", timeout)
	}
}

// RunID identifies this process in every emitted event.
func (s *SocketIO) RunID() string { return s.runID }

// Publish implements Publisher.
func (s *SocketIO) Publish(ctx context.Context, ev Event) error {
	if !s.io.Connected() {
		return fmt.Errorf("socket.io client is not connected")
	}
	ev.RunID = s.runID
	ctxlog.FromContext(ctx).Debug("Emitting build event", "event", ev.Kind, "descriptor", ev.Descriptor)
	return s.io.Emit(ev.Kind, ev)
}

// Close implements Publisher.
func (s *SocketIO) Close() error {
	s.io.Disconnect()
	return nil
}
