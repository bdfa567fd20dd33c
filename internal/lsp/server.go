package lsp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/leapstack-labs/supersql/internal/bridge"
	"github.com/leapstack-labs/supersql/internal/jsonrpc"
	"github.com/leapstack-labs/supersql/internal/provider"
	"github.com/leapstack-labs/supersql/pkg/format"
	"github.com/leapstack-labs/supersql/pkg/lint"
	_ "github.com/leapstack-labs/supersql/pkg/lint/rules" // Register lint rules
)

// BridgeOptions configures the external super-lsp relay.
type BridgeOptions struct {
	Enabled           bool
	ServerPath        string
	Timeout           time.Duration
	ShowNotifications bool
}

// Options configures a Server.
type Options struct {
	Logger  *slog.Logger
	Lint    *lint.Config
	Format  format.Options
	Bridge  BridgeOptions
	Version string
}

// Server implements the Language Server Protocol for SuperSQL.
type Server struct {
	// Document management
	documents *DocumentStore

	// Shared parse cache
	provider *provider.Provider

	analyzer *lint.Analyzer
	fixes    *fixCache
	format   format.Options
	version  string

	// External language server; nil when disabled or unavailable
	bridgeOpts BridgeOptions
	bridge     *bridge.Client
	bridgeErr  error
	bridgeMu   sync.RWMutex
	bridgeWG   sync.WaitGroup

	// Guarded by bridgeMu
	clientReady    bool
	bridgeReported bool

	rootURI     string
	initialized bool

	// I/O
	reader *jsonrpc.Reader
	writer *jsonrpc.Writer

	// Logging
	logger *slog.Logger

	// Requests answered off the main loop
	ctx      context.Context
	cancel   context.CancelFunc
	inflight sync.WaitGroup

	// Shutdown state
	shutdown   bool
	exited     bool
	shutdownMu sync.RWMutex
}

// NewServer creates a new LSP server instance.
func NewServer(reader io.Reader, writer io.Writer, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		documents:  NewDocumentStore(),
		provider:   provider.New(logger),
		analyzer:   lint.NewAnalyzer(opts.Lint),
		fixes:      newFixCache(),
		format:     opts.Format,
		version:    opts.Version,
		bridgeOpts: opts.Bridge,
		reader:     jsonrpc.NewReader(reader),
		writer:     jsonrpc.NewWriter(writer),
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Run starts the server's main loop, processing JSON-RPC messages until
// the client sends exit or closes the stream.
func (s *Server) Run() error {
	s.logger.Info("SuperSQL LSP server starting")
	defer s.stop()

	for {
		// Read message
		msg, err := s.reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				s.logger.Info("Client disconnected")
				return nil
			}
			s.logger.Error("Error reading message", "error", err)
			continue
		}

		// Handle message
		if err := s.handleMessage(msg); err != nil {
			s.logger.Error("Error handling message", "method", msg.Method, "error", err)
		}

		s.shutdownMu.RLock()
		exited := s.exited
		s.shutdownMu.RUnlock()
		if exited {
			return nil
		}
	}
}

func (s *Server) stop() {
	s.inflight.Wait()
	s.cancel()
	s.bridgeWG.Wait()
	if c := s.bridgeClient(); c != nil {
		if err := c.Close(); err != nil {
			s.logger.Debug("closing super-lsp", "error", err)
		}
	}
}

// sendResponse sends a JSON-RPC response.
func (s *Server) sendResponse(id *json.RawMessage, result any, rpcErr *jsonrpc.Error) {
	msg, err := jsonrpc.NewResponse(id, result, rpcErr)
	if err != nil {
		s.logger.Error("Error marshaling response", "error", err)
		return
	}
	if err := s.writer.Write(msg); err != nil {
		s.logger.Error("Error writing response", "error", err)
	}
}

// sendNotification sends a JSON-RPC notification (no ID).
func (s *Server) sendNotification(method string, params any) {
	msg, err := jsonrpc.NewNotification(method, params)
	if err != nil {
		s.logger.Error("Error marshaling notification", "method", method, "error", err)
		return
	}
	if err := s.writer.Write(msg); err != nil {
		s.logger.Error("Error writing notification", "method", method, "error", err)
	}
}

func (s *Server) invalidParams(msg *jsonrpc.Message, err error) error {
	s.sendResponse(msg.ID, nil, &jsonrpc.Error{Code: jsonrpc.CodeInvalidParams, Message: err.Error()})
	return err
}

// handleMessage dispatches a message to the appropriate handler.
func (s *Server) handleMessage(msg *jsonrpc.Message) error {
	s.logger.Debug("Received", "method", msg.Method)

	s.shutdownMu.RLock()
	shutdown := s.shutdown
	s.shutdownMu.RUnlock()
	if shutdown && msg.Method != "exit" {
		if msg.ID != nil {
			s.sendResponse(msg.ID, nil, &jsonrpc.Error{Code: jsonrpc.CodeInvalidRequest, Message: "server is shutting down"})
		}
		return nil
	}

	switch msg.Method {
	case "initialize":
		return s.handleInitialize(msg)
	case "initialized":
		return s.handleInitialized(msg)
	case "shutdown":
		return s.handleShutdown(msg)
	case "exit":
		return s.handleExit(msg)
	case "textDocument/didOpen":
		return s.handleDidOpen(msg)
	case "textDocument/didClose":
		return s.handleDidClose(msg)
	case "textDocument/didChange":
		return s.handleDidChange(msg)
	case "textDocument/didSave":
		return nil
	case "textDocument/completion":
		return s.handleCompletion(msg)
	case "textDocument/hover":
		return s.handleHover(msg)
	case "textDocument/definition":
		return s.handleDefinition(msg)
	case "textDocument/documentSymbol":
		return s.handleDocumentSymbol(msg)
	case "textDocument/foldingRange":
		return s.handleFoldingRange(msg)
	case "textDocument/semanticTokens/full":
		return s.handleSemanticTokens(msg)
	case "textDocument/formatting":
		return s.handleFormatting(msg)
	case "textDocument/codeAction":
		return s.handleCodeAction(msg)
	case "$/cancelRequest", "$/setTrace", "workspace/didChangeConfiguration":
		return nil
	default:
		if msg.ID != nil {
			// Unknown method with ID - respond with method not found
			s.sendResponse(msg.ID, nil, &jsonrpc.Error{
				Code:    jsonrpc.CodeMethodNotFound,
				Message: "Method not found: " + msg.Method,
			})
		}
		return nil
	}
}

// --- Lifecycle handlers ---

func (s *Server) handleInitialize(msg *jsonrpc.Message) error {
	var params InitializeParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.invalidParams(msg, err)
	}

	s.rootURI = params.RootURI
	s.logger.Info("Project root", "path", URIToPath(params.RootURI))

	if s.bridgeOpts.Enabled {
		s.startBridge()
	}

	result := InitializeResult{
		Capabilities: ServerCapabilities{
			TextDocumentSync: &TextDocumentSyncOptions{
				OpenClose: true,
				Change:    TextDocumentSyncKindFull,
				Save:      &SaveOptions{},
			},
			CompletionProvider: &CompletionOptions{
				TriggerCharacters: []string{"|", ".", " "},
			},
			HoverProvider:              true,
			DefinitionProvider:         true,
			DocumentSymbolProvider:     true,
			FoldingRangeProvider:       true,
			DocumentFormattingProvider: true,
			CodeActionProvider: &CodeActionOptions{
				CodeActionKinds: []CodeActionKind{CodeActionKindQuickFix},
			},
			SemanticTokensProvider: &SemanticTokensOptions{
				Legend: semanticLegend(),
				Full:   true,
			},
		},
		ServerInfo: &ServerInfo{Name: "supersql", Version: s.version},
	}

	s.sendResponse(msg.ID, result, nil)
	return nil
}

func (s *Server) handleInitialized(_ *jsonrpc.Message) error {
	s.initialized = true
	s.logger.Info("Server initialized")

	s.bridgeMu.Lock()
	s.clientReady = true
	s.bridgeMu.Unlock()
	s.reportBridgeErr()
	return nil
}

func (s *Server) handleShutdown(msg *jsonrpc.Message) error {
	s.inflight.Wait()

	s.shutdownMu.Lock()
	s.shutdown = true
	s.shutdownMu.Unlock()

	s.sendResponse(msg.ID, nil, nil)
	s.logger.Info("Server shutdown")
	return nil
}

func (s *Server) handleExit(_ *jsonrpc.Message) error {
	s.shutdownMu.Lock()
	s.exited = true
	s.shutdownMu.Unlock()
	s.logger.Info("Server exit")
	return nil
}

// --- Document handlers ---

func (s *Server) handleDidOpen(msg *jsonrpc.Message) error {
	var params DidOpenTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}

	doc := s.documents.Open(params.TextDocument.URI, params.TextDocument.Text, params.TextDocument.Version)
	s.logger.Debug("Opened", "uri", doc.URI, "version", doc.Version)

	s.relay(doc.URI, msg.Method, params)
	s.publishDiagnostics(doc)
	return nil
}

func (s *Server) handleDidClose(msg *jsonrpc.Message) error {
	var params DidCloseTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}

	uri := params.TextDocument.URI
	s.documents.Close(uri)
	s.provider.Invalidate(uri)
	s.fixes.clearURI(uri)
	s.logger.Debug("Closed", "uri", uri)

	s.relay(uri, msg.Method, params)

	// Clear diagnostics
	s.sendNotification("textDocument/publishDiagnostics", &PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []Diagnostic{},
	})
	return nil
}

func (s *Server) handleDidChange(msg *jsonrpc.Message) error {
	var params DidChangeTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}

	// We use full sync, so take the last change
	if len(params.ContentChanges) == 0 {
		return nil
	}
	last := params.ContentChanges[len(params.ContentChanges)-1]
	doc, ok := s.documents.Update(params.TextDocument.URI, last.Text, params.TextDocument.Version)
	if !ok {
		s.logger.Debug("Ignored stale change", "uri", params.TextDocument.URI, "version", params.TextDocument.Version)
		return nil
	}

	s.relay(doc.URI, msg.Method, params)
	s.publishDiagnostics(doc)
	return nil
}

// parsed returns the cached tree of an open document.
func (s *Server) parsed(uri string) (*Document, *provider.ParsedDocument) {
	doc := s.documents.Get(uri)
	if doc == nil {
		return nil, nil
	}
	parsed, err := s.provider.GetOrParse(s.ctx, doc.URI, doc.Content, doc.Version)
	if err != nil {
		s.logger.Warn("Parse abandoned", "uri", uri, "error", err)
		return doc, nil
	}
	return doc, parsed
}
