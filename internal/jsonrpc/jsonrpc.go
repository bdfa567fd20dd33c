// Package jsonrpc reads and writes JSON-RPC 2.0 messages framed with
// Content-Length headers, as used by the Language Server Protocol.
package jsonrpc

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
)

// Error codes defined by JSON-RPC and LSP.
const (
	CodeParseError       = -32700
	CodeInvalidRequest   = -32600
	CodeMethodNotFound   = -32601
	CodeInvalidParams    = -32602
	CodeInternalError    = -32603
	CodeRequestCancelled = -32800
)

// ErrMissingContentLength is returned for a message without a usable
// Content-Length header.
var ErrMissingContentLength = errors.New("missing Content-Length header")

// Message represents a JSON-RPC 2.0 message: a request, a notification or
// a response.
type Message struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id,omitempty"`
	Method  string           `json:"method,omitempty"`
	Params  json.RawMessage  `json:"params,omitempty"`
	Result  json.RawMessage  `json:"result,omitempty"`
	Error   *Error           `json:"error,omitempty"`
}

// IsRequest reports whether the message expects a response.
func (m *Message) IsRequest() bool { return m.ID != nil && m.Method != "" }

// IsNotification reports whether the message is a notification.
func (m *Message) IsNotification() bool { return m.ID == nil && m.Method != "" }

// IsResponse reports whether the message answers a request.
func (m *Message) IsResponse() bool { return m.ID != nil && m.Method == "" }

// Error represents a JSON-RPC error.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

// NewRequest builds a request with the given id.
func NewRequest(id any, method string, params any) (*Message, error) {
	raw, err := json.Marshal(id)
	if err != nil {
		return nil, fmt.Errorf("marshal id: %w", err)
	}
	msg, err := NewNotification(method, params)
	if err != nil {
		return nil, err
	}
	rawID := json.RawMessage(raw)
	msg.ID = &rawID
	return msg, nil
}

// NewNotification builds a notification.
func NewNotification(method string, params any) (*Message, error) {
	msg := &Message{JSONRPC: "2.0", Method: method}
	if params != nil {
		b, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("marshal %s params: %w", method, err)
		}
		msg.Params = b
	}
	return msg, nil
}

// NewResponse builds a response to id carrying either result or rpcErr.
func NewResponse(id *json.RawMessage, result any, rpcErr *Error) (*Message, error) {
	msg := &Message{JSONRPC: "2.0", ID: id}
	if rpcErr != nil {
		msg.Error = rpcErr
		return msg, nil
	}
	b, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	msg.Result = b
	return msg, nil
}

// Reader reads framed messages from a stream.
type Reader struct {
	r *bufio.Reader
}

// NewReader wraps r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Read reads the next message. It returns io.EOF when the stream ends
// between messages.
func (r *Reader) Read() (*Message, error) {
	// Read headers
	contentLength := -1
	for {
		line, err := r.r.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) && line != "" {
				return nil, io.ErrUnexpectedEOF
			}
			return nil, err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			break // End of headers
		}

		name, value, ok := strings.Cut(line, ":")
		if !ok || !strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			continue
		}
		contentLength, err = strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("invalid Content-Length: %w", err)
		}
	}

	if contentLength <= 0 {
		return nil, ErrMissingContentLength
	}

	// Read body
	body := make([]byte, contentLength)
	if _, err := io.ReadFull(r.r, body); err != nil {
		return nil, fmt.Errorf("error reading body: %w", err)
	}

	// Parse message
	var msg Message
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, fmt.Errorf("error parsing message: %w", err)
	}
	return &msg, nil
}

// Writer writes framed messages. It is safe for concurrent use.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write frames and writes one message.
func (w *Writer) Write(msg *Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := fmt.Fprintf(w.w, "Content-Length: %d\r\n\r\n", len(body)); err != nil {
		return err
	}
	_, err = w.w.Write(body)
	return err
}
