// Package socketio drives the robot directly over a socket.io connection,
// bypassing the HTTP backend. Each movement opens a short-lived connection,
// emits a drive event and, unless the command was a stop, follows it with a
// stop after the configured auto-stop delay.
package socketio

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/bytedance/sonic"
	"github.com/specialistvlad/botgrid/internal/ctxlog"
	"github.com/specialistvlad/botgrid/internal/dispatch"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

const (
	DefaultEvent    = "drive"
	DefaultTimeout  = 10 * time.Second
	DefaultAutoStop = time.Second
)

// Config describes how to reach the robot.
type Config struct {
	URL       string
	Namespace string
	// Event is the drive event name. Defaults to DefaultEvent.
	Event string
	// AckEvent, when set, is awaited after each emit.
	AckEvent string
	Timeout  time.Duration
	// AutoStop is the delay before a stop follows a movement. Negative
	// disables it; zero selects DefaultAutoStop.
	AutoStop           time.Duration
	InsecureSkipVerify bool
}

func (c Config) withDefaults() Config {
	if c.Event == "" {
		c.Event = DefaultEvent
	}
	if c.Namespace == "" {
		c.Namespace = "/"
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.AutoStop == 0 {
		c.AutoStop = DefaultAutoStop
	}
	return c
}

// endpoint splits the URL into the manager base and the socket.io path.
func (c Config) endpoint() (base, path string, err error) {
	u, err := url.Parse(c.URL)
	if err != nil {
		return "", "", fmt.Errorf("failed to parse URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", "", fmt.Errorf("url %q must include scheme and host", c.URL)
	}
	path = u.Path
	if path == "" || path == "/" {
		path = "/socket.io/"
	}
	return fmt.Sprintf("%s://%s", u.Scheme, u.Host), path, nil
}

// payload is the body of one drive event.
func payload(direction string, value float64) map[string]any {
	p := map[string]any{"direction": direction}
	if direction != dispatch.Stop {
		p["value"] = value
	}
	return p
}

// Mover implements dispatch.Mover over socket.io.
type Mover struct {
	cfg Config
}

var _ dispatch.Mover = (*Mover)(nil)

// New validates the config and returns a Mover.
func New(cfg Config) (*Mover, error) {
	cfg = cfg.withDefaults()
	if _, _, err := cfg.endpoint(); err != nil {
		return nil, err
	}
	return &Mover{cfg: cfg}, nil
}

// Move opens a connection, emits the drive event and waits for the optional
// acknowledgement and auto-stop before disconnecting.
func (m *Mover) Move(ctx context.Context, direction string, value float64) (*dispatch.MoveResult, error) {
	logger := ctxlog.FromContext(ctx).With("dispatcher", "socketio", "url", m.cfg.URL, "event", m.cfg.Event)
	logger.Debug("Move started", "direction", direction, "value", value)
	defer logger.Debug("Move finished")

	base, path, err := m.cfg.endpoint()
	if err != nil {
		return nil, err
	}

	opCtx, cancel := context.WithTimeout(ctx, m.cfg.Timeout+max(m.cfg.AutoStop, 0))
	defer cancel()

	opts := socket.DefaultOptions()
	opts.SetPath(path)
	if m.cfg.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(base, opts)
	io := manager.Socket(m.cfg.Namespace, opts)
	defer func() {
		logger.Debug("Disconnecting socket client")
		io.Disconnect()
	}()

	var isConnected atomic.Bool
	connected := make(chan struct{}, 1)
	failed := make(chan error, 1)
	acked := make(chan any, 2)

	io.On(types.EventName("connect"), func(...any) {
		isConnected.Store(true)
		logger.Info("Successfully connected", "sid", io.Id())
		select {
		case connected <- struct{}{}:
		default:
		}
	})
	io.On(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connect error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		select {
		case failed <- err:
		default:
		}
	})
	if m.cfg.AckEvent != "" {
		io.On(types.EventName(m.cfg.AckEvent), func(data ...any) {
			var v any
			if len(data) > 0 {
				v = data[0]
			}
			select {
			case acked <- v:
			default:
			}
		})
	}

	io.Connect()

	select {
	case <-opCtx.Done():
		return nil, fmt.Errorf("timed out while waiting for initial connection")
	case err := <-failed:
		return nil, fmt.Errorf("socket.io connect failed: %w", err)
	case <-connected:
	}

	if err := m.emit(opCtx, io, acked, payload(direction, value)); err != nil {
		return nil, err
	}

	if direction != dispatch.Stop && m.cfg.AutoStop > 0 {
		select {
		case <-opCtx.Done():
			return nil, opCtx.Err()
		case <-time.After(m.cfg.AutoStop):
		}
		logger.Debug("Auto-stopping")
		if err := m.emit(opCtx, io, acked, payload(dispatch.Stop, 0)); err != nil {
			return nil, err
		}
	}

	msg := "Moving " + direction
	if direction == dispatch.Stop {
		msg = "Robot stopped"
	}
	return &dispatch.MoveResult{Status: "success", Message: msg}, nil
}

// emit sends one drive event and, if an ack event is configured, waits for it.
func (m *Mover) emit(ctx context.Context, io *socket.Socket, acked <-chan any, data map[string]any) error {
	logger := ctxlog.FromContext(ctx)
	if raw, err := sonic.MarshalString(data); err == nil {
		logger.Info("Emitting event", "event", m.cfg.Event, "data", raw)
	}
	io.Emit(m.cfg.Event, data)

	if m.cfg.AckEvent == "" {
		return nil
	}
	select {
	case <-ctx.Done():
		return fmt.Errorf("timed out after connecting while waiting for event '%s'", m.cfg.AckEvent)
	case <-acked:
		return nil
	}
}
