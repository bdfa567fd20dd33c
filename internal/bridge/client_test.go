package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/supersql/internal/jsonrpc"
	"github.com/leapstack-labs/supersql/internal/testutil"
)

// handler answers one request; respond false leaves it unanswered.
type handler func(msg *jsonrpc.Message) (result any, rpcErr *jsonrpc.Error, respond bool)

// fakeServer runs a scripted language server on in-memory pipes and
// returns a client connected to it plus the stream of methods it saw.
func fakeServer(t *testing.T, timeout time.Duration, h handler) (*Client, <-chan string, *io.PipeWriter) {
	t.Helper()
	toServerR, toServerW := io.Pipe()
	toClientR, toClientW := io.Pipe()

	methods := make(chan string, 32)
	go func() {
		r := jsonrpc.NewReader(toServerR)
		w := jsonrpc.NewWriter(toClientW)
		for {
			msg, err := r.Read()
			if err != nil {
				close(methods)
				return
			}
			methods <- msg.Method
			if !msg.IsRequest() {
				continue
			}
			result, rpcErr, respond := h(msg)
			if !respond {
				continue
			}
			resp, err := jsonrpc.NewResponse(msg.ID, result, rpcErr)
			if err != nil {
				continue
			}
			if w.Write(resp) != nil {
				return
			}
		}
	}()

	c := NewClient(toClientR, toServerW, Options{Timeout: timeout, Logger: testutil.NewTestLogger(t)})
	t.Cleanup(func() {
		_ = toClientW.Close()
		_ = toServerW.Close()
	})
	return c, methods, toClientW
}

func next(t *testing.T, methods <-chan string) string {
	t.Helper()
	select {
	case m := <-methods:
		return m
	case <-time.After(time.Second):
		t.Fatal("no message reached the server")
		return ""
	}
}

func TestClient_Call(t *testing.T) {
	c, methods, _ := fakeServer(t, time.Second, func(msg *jsonrpc.Message) (any, *jsonrpc.Error, bool) {
		return map[string]string{"echo": msg.Method}, nil, true
	})

	var got map[string]string
	require.NoError(t, c.Call(context.Background(), "textDocument/hover", map[string]int{"line": 1}, &got))
	assert.Equal(t, "textDocument/hover", got["echo"])
	assert.Equal(t, "textDocument/hover", next(t, methods))

	var raw json.RawMessage
	require.NoError(t, c.Call(context.Background(), "textDocument/completion", nil, &raw))
	assert.JSONEq(t, `{"echo":"textDocument/completion"}`, string(raw))
}

func TestClient_CallError(t *testing.T) {
	c, _, _ := fakeServer(t, time.Second, func(*jsonrpc.Message) (any, *jsonrpc.Error, bool) {
		return nil, &jsonrpc.Error{Code: jsonrpc.CodeInternalError, Message: "boom"}, true
	})

	err := c.Call(context.Background(), "textDocument/hover", nil, nil)
	var rpcErr *jsonrpc.Error
	require.True(t, errors.As(err, &rpcErr))
	assert.Equal(t, "boom", rpcErr.Message)
}

func TestClient_Timeout(t *testing.T) {
	c, methods, _ := fakeServer(t, 20*time.Millisecond, func(*jsonrpc.Message) (any, *jsonrpc.Error, bool) {
		return nil, nil, false
	})

	err := c.Call(context.Background(), "textDocument/hover", nil, nil)
	require.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, "textDocument/hover", next(t, methods))
	assert.Equal(t, "$/cancelRequest", next(t, methods))
	assert.True(t, c.Alive())
}

func TestClient_ContextCanceled(t *testing.T) {
	c, _, _ := fakeServer(t, time.Second, func(*jsonrpc.Message) (any, *jsonrpc.Error, bool) {
		return nil, nil, false
	})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := c.Call(ctx, "textDocument/hover", nil, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_ServerGone(t *testing.T) {
	c, _, serverOut := fakeServer(t, time.Second, func(*jsonrpc.Message) (any, *jsonrpc.Error, bool) {
		return nil, nil, true
	})
	require.NoError(t, serverOut.Close())

	select {
	case <-c.Done():
	case <-time.After(time.Second):
		t.Fatal("client did not notice the closed connection")
	}
	assert.False(t, c.Alive())
	assert.ErrorIs(t, c.Err(), ErrClosed)
	assert.ErrorIs(t, c.Call(context.Background(), "textDocument/hover", nil, nil), ErrClosed)
	assert.ErrorIs(t, c.Notify("initialized", nil), ErrClosed)
}

func TestClient_InitializeAndClose(t *testing.T) {
	c, methods, _ := fakeServer(t, time.Second, func(*jsonrpc.Message) (any, *jsonrpc.Error, bool) {
		return map[string]any{"capabilities": map[string]any{}}, nil, true
	})

	require.NoError(t, c.Initialize(context.Background(), "file:///work"))
	assert.Equal(t, "initialize", next(t, methods))
	assert.Equal(t, "initialized", next(t, methods))

	require.NoError(t, c.Close())
	assert.Equal(t, "shutdown", next(t, methods))
	assert.Equal(t, "exit", next(t, methods))
}

func TestStart_CloseKillsWedgedServer(t *testing.T) {
	path := testutil.WedgedServer(t)
	c, err := Start(context.Background(), path, Options{Timeout: 200 * time.Millisecond, Logger: testutil.NewTestLogger(t)})
	require.NoError(t, err)

	err = c.Initialize(context.Background(), "file:///work")
	require.ErrorIs(t, err, ErrTimeout)

	closed := make(chan error, 1)
	go func() { closed <- c.Close() }()
	select {
	case <-closed:
	case <-time.After(3 * time.Second):
		t.Fatal("Close blocked on a server that never exits")
	}
	assert.Eventually(t, func() bool { return !c.Alive() }, time.Second, 10*time.Millisecond)
}
