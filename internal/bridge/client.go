package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/leapstack-labs/supersql/internal/jsonrpc"
)

// DefaultTimeout bounds a relayed request when Options.Timeout is zero.
const DefaultTimeout = 2 * time.Second

var (
	// ErrTimeout is returned when the server does not answer in time.
	ErrTimeout = errors.New("super-lsp request timed out")
	// ErrClosed is returned once the connection is gone.
	ErrClosed = errors.New("super-lsp connection closed")
)

// Options configures a Client.
type Options struct {
	Timeout time.Duration
	Logger  *slog.Logger
}

// Client relays LSP requests to a super-lsp process over stdio.
type Client struct {
	reader  *jsonrpc.Reader
	writer  *jsonrpc.Writer
	closer  io.Closer
	timeout time.Duration
	logger  *slog.Logger

	mu      sync.Mutex
	pending map[string]chan *jsonrpc.Message

	done    chan struct{}
	doneErr error

	cmd  *exec.Cmd
	kill context.CancelFunc
}

// Start launches the binary at path and connects to its stdio.
// The process is killed when ctx is done.
func Start(ctx context.Context, path string, opts Options) (*Client, error) {
	ctx, kill := context.WithCancel(ctx)
	cmd := exec.CommandContext(ctx, path)
	// Children that inherited the pipes must not hold Wait open.
	cmd.WaitDelay = time.Second
	stdin, err := cmd.StdinPipe()
	if err != nil {
		kill()
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		kill()
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		kill()
		return nil, fmt.Errorf("start %s: %w", path, err)
	}

	c := NewClient(stdout, stdin, opts)
	c.cmd = cmd
	c.kill = kill
	c.logger.Info("started super-lsp", "path", path, "pid", cmd.Process.Pid)
	return c, nil
}

// NewClient speaks JSON-RPC over an existing connection: responses are
// read from r and requests written to w. Closing the client closes w.
func NewClient(r io.Reader, w io.WriteCloser, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	c := &Client{
		reader:  jsonrpc.NewReader(r),
		writer:  jsonrpc.NewWriter(w),
		closer:  w,
		timeout: opts.Timeout,
		logger:  opts.Logger,
		pending: make(map[string]chan *jsonrpc.Message),
		done:    make(chan struct{}),
	}
	go c.readLoop()
	return c
}

func (c *Client) readLoop() {
	var err error
	for {
		var msg *jsonrpc.Message
		msg, err = c.reader.Read()
		if err != nil {
			break
		}
		if !msg.IsResponse() {
			// Server-initiated requests and notifications are not relayed.
			c.logger.Debug("ignored message from super-lsp", "method", msg.Method)
			continue
		}
		var id string
		if json.Unmarshal(*msg.ID, &id) != nil {
			continue
		}
		c.mu.Lock()
		ch, ok := c.pending[id]
		delete(c.pending, id)
		c.mu.Unlock()
		if ok {
			ch <- msg
		}
	}

	if errors.Is(err, io.EOF) {
		err = ErrClosed
	}
	c.mu.Lock()
	c.doneErr = err
	c.mu.Unlock()
	close(c.done)
	c.logger.Debug("super-lsp connection ended", "error", err)
}

// Done is closed when the connection ends.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Alive reports whether the connection is still open.
func (c *Client) Alive() bool {
	select {
	case <-c.done:
		return false
	default:
		return true
	}
}

// Err returns why the connection ended, or nil while it is open.
func (c *Client) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.doneErr
}

// Call sends a request and decodes the result into result, which may be
// nil or a *json.RawMessage. It fails with ErrTimeout when the server
// does not answer within the client timeout; the request is then
// cancelled on the server.
func (c *Client) Call(ctx context.Context, method string, params, result any) error {
	id := uuid.NewString()
	req, err := jsonrpc.NewRequest(id, method, params)
	if err != nil {
		return err
	}

	ch := make(chan *jsonrpc.Message, 1)
	c.mu.Lock()
	c.pending[id] = ch
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	if !c.Alive() {
		return ErrClosed
	}
	if err := c.writer.Write(req); err != nil {
		return fmt.Errorf("send %s: %w", method, err)
	}

	timer := time.NewTimer(c.timeout)
	defer timer.Stop()

	select {
	case resp := <-ch:
		if resp.Error != nil {
			return fmt.Errorf("%s: %w", method, resp.Error)
		}
		if result == nil || len(resp.Result) == 0 {
			return nil
		}
		if err := json.Unmarshal(resp.Result, result); err != nil {
			return fmt.Errorf("decode %s result: %w", method, err)
		}
		return nil
	case <-timer.C:
		c.cancel(id)
		return fmt.Errorf("%s after %s: %w", method, c.timeout, ErrTimeout)
	case <-ctx.Done():
		c.cancel(id)
		return ctx.Err()
	case <-c.done:
		return ErrClosed
	}
}

func (c *Client) cancel(id string) {
	if err := c.Notify("$/cancelRequest", map[string]string{"id": id}); err != nil {
		c.logger.Debug("cancel request failed", "id", id, "error", err)
	}
}

// Notify sends a notification.
func (c *Client) Notify(method string, params any) error {
	if !c.Alive() {
		return ErrClosed
	}
	msg, err := jsonrpc.NewNotification(method, params)
	if err != nil {
		return err
	}
	if err := c.writer.Write(msg); err != nil {
		return fmt.Errorf("send %s: %w", method, err)
	}
	return nil
}

// Initialize performs the LSP handshake for the given workspace root.
func (c *Client) Initialize(ctx context.Context, rootURI string) error {
	params := map[string]any{
		"processId":    nil,
		"rootUri":      rootURI,
		"capabilities": map[string]any{},
	}
	if err := c.Call(ctx, "initialize", params, nil); err != nil {
		return err
	}
	return c.Notify("initialized", map[string]any{})
}

// Close shuts the server down and waits for the process to exit. A
// process still running one timeout after stdin is closed is killed.
func (c *Client) Close() error {
	if c.Alive() {
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		if err := c.Call(ctx, "shutdown", nil, nil); err != nil {
			c.logger.Debug("super-lsp shutdown failed", "error", err)
		}
		cancel()
		_ = c.Notify("exit", nil)
	}
	err := c.closer.Close()
	if c.cmd == nil {
		return err
	}
	defer c.kill()

	exited := make(chan error, 1)
	go func() { exited <- c.cmd.Wait() }()

	var werr error
	select {
	case werr = <-exited:
	case <-time.After(c.timeout):
		c.logger.Warn("super-lsp did not exit, killing it", "pid", c.cmd.Process.Pid)
		c.kill()
		werr = <-exited
	}
	if werr != nil && err == nil {
		err = werr
	}
	return err
}
