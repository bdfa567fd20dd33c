package lsp

import (
	"context"
	"encoding/json"

	"github.com/leapstack-labs/supersql/internal/bridge"
	"github.com/leapstack-labs/supersql/internal/jsonrpc"
	"github.com/leapstack-labs/supersql/internal/provider"
)

// startBridge locates and starts super-lsp off the main loop. Until the
// handshake succeeds the server answers from the syntax tree alone.
// Failures are remembered and reported once the client is initialized.
func (s *Server) startBridge() {
	s.bridgeWG.Add(1)
	go func() {
		defer s.bridgeWG.Done()
		client, err := s.connectBridge()
		s.bridgeMu.Lock()
		if err != nil {
			s.bridgeErr = err
		} else {
			s.bridge = client
		}
		s.bridgeMu.Unlock()
		if err != nil {
			s.reportBridgeErr()
			return
		}
		s.replayOpenDocuments(client)
	}()
}

func (s *Server) connectBridge() (*bridge.Client, error) {
	path, err := bridge.Resolve(s.bridgeOpts.ServerPath)
	if err != nil {
		s.logger.Info("super-lsp not found, using tree features only", "error", err)
		return nil, err
	}

	opts := bridge.Options{Timeout: s.bridgeOpts.Timeout, Logger: s.logger.With("component", "bridge")}
	client, err := bridge.Start(s.ctx, path, opts)
	if err != nil {
		s.logger.Warn("super-lsp failed to start", "path", path, "error", err)
		return nil, err
	}

	ctx, cancel := context.WithTimeout(s.ctx, 5*max(opts.Timeout, bridge.DefaultTimeout))
	defer cancel()
	if err := client.Initialize(ctx, s.rootURI); err != nil {
		s.logger.Warn("super-lsp initialize failed", "path", path, "error", err)
		if cerr := client.Close(); cerr != nil {
			s.logger.Debug("closing super-lsp", "error", cerr)
		}
		return nil, err
	}
	s.logger.Info("super-lsp ready", "path", path)
	return client, nil
}

// reportBridgeErr shows the bridge failure once, after the client has
// sent initialized.
func (s *Server) reportBridgeErr() {
	if !s.bridgeOpts.ShowNotifications {
		return
	}
	s.bridgeMu.Lock()
	err := s.bridgeErr
	show := err != nil && s.clientReady && !s.bridgeReported
	if show {
		s.bridgeReported = true
	}
	s.bridgeMu.Unlock()
	if show {
		s.sendNotification("window/showMessage", &ShowMessageParams{
			Type:    MessageTypeWarning,
			Message: "super-lsp is not available (" + err.Error() + "); using built-in SuperSQL features.",
		})
	}
}

// replayOpenDocuments tells a freshly started super-lsp about documents
// the editor opened while the handshake was running.
func (s *Server) replayOpenDocuments(client *bridge.Client) {
	for _, uri := range s.documents.List() {
		doc := s.documents.Get(uri)
		if doc == nil || provider.IsShellScript(uri) {
			continue
		}
		params := DidOpenTextDocumentParams{
			TextDocument: TextDocumentItem{URI: uri, LanguageID: "supersql", Version: doc.Version, Text: doc.Content},
		}
		if err := client.Notify("textDocument/didOpen", params); err != nil {
			s.logger.Warn("relay failed", "method", "textDocument/didOpen", "error", err)
			return
		}
	}
}

// bridgeClient returns the live super-lsp client, or nil.
func (s *Server) bridgeClient() *bridge.Client {
	s.bridgeMu.RLock()
	defer s.bridgeMu.RUnlock()
	if s.bridge == nil || !s.bridge.Alive() {
		return nil
	}
	return s.bridge
}

// relay forwards a document notification to super-lsp. Shell scripts are
// never relayed; only their embedded programs are SuperSQL.
func (s *Server) relay(uri string, method string, params any) {
	client := s.bridgeClient()
	if client == nil || provider.IsShellScript(uri) {
		return
	}
	if err := client.Notify(method, params); err != nil {
		s.logger.Warn("relay failed", "method", method, "error", err)
	}
}

// answer replies to a request, asking super-lsp first when it serves the
// document. A failed, slow or empty relay falls back to local, which
// computes the answer from the syntax tree. Relayed requests are answered
// off the main loop so a slow super-lsp never blocks other messages.
func (s *Server) answer(msg *jsonrpc.Message, uri string, params any, local func() any) {
	client := s.bridgeClient()
	if client == nil || provider.IsShellScript(uri) {
		s.sendResponse(msg.ID, local(), nil)
		return
	}

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()

		var raw json.RawMessage
		err := client.Call(s.ctx, msg.Method, params, &raw)
		if err == nil && len(raw) > 0 && string(raw) != "null" {
			s.sendResponse(msg.ID, raw, nil)
			return
		}
		if err != nil {
			s.logger.Warn("super-lsp request failed, using tree", "method", msg.Method, "error", err)
		}
		s.sendResponse(msg.ID, local(), nil)
	}()
}
