package lsp

import (
	"encoding/json"
	"slices"
	"sync"

	"github.com/leapstack-labs/supersql/internal/jsonrpc"
	"github.com/leapstack-labs/supersql/pkg/lint"
)

// cachedFix is a fix offered for one published diagnostic.
type cachedFix struct {
	ruleID string
	rng    Range
	fixes  []lint.Fix
}

// fixCache stores the fixes of the last published diagnostics per URI.
type fixCache struct {
	mu      sync.RWMutex
	fixes   map[string][]cachedFix // URI -> fixes
	version map[string]int         // URI -> document version the fixes apply to
}

func newFixCache() *fixCache {
	return &fixCache{
		fixes:   make(map[string][]cachedFix),
		version: make(map[string]int),
	}
}

// store replaces the fixes of a document.
func (c *fixCache) store(doc *Document, diagnostics []lint.Diagnostic) {
	var fixes []cachedFix
	for _, d := range diagnostics {
		if len(d.Fixes) > 0 {
			fixes = append(fixes, cachedFix{ruleID: d.RuleID, rng: doc.SpanToRange(d.Span), fixes: d.Fixes})
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.fixes[doc.URI] = fixes
	c.version[doc.URI] = doc.Version
}

// lookup returns the fixes of the diagnostic with the given rule and range.
func (c *fixCache) lookup(doc *Document, ruleID string, rng Range) []lint.Fix {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.version[doc.URI] != doc.Version {
		return nil
	}
	for _, f := range c.fixes[doc.URI] {
		if f.ruleID == ruleID && f.rng == rng {
			return f.fixes
		}
	}
	return nil
}

// clearURI removes all cached fixes for a URI.
func (c *fixCache) clearURI(uri string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.fixes, uri)
	delete(c.version, uri)
}

// handleCodeAction handles the textDocument/codeAction request.
func (s *Server) handleCodeAction(msg *jsonrpc.Message) error {
	var params CodeActionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.invalidParams(msg, err)
	}

	s.sendResponse(msg.ID, s.getCodeActions(params), nil)
	return nil
}

// getCodeActions returns the quick fixes of the diagnostics in params.
func (s *Server) getCodeActions(params CodeActionParams) []CodeAction {
	actions := []CodeAction{}
	doc := s.documents.Get(params.TextDocument.URI)
	if doc == nil {
		return actions
	}

	if len(params.Context.Only) > 0 && !slices.Contains(params.Context.Only, CodeActionKindQuickFix) {
		return actions
	}

	for _, diag := range params.Context.Diagnostics {
		if diag.Source != diagnosticSource {
			continue
		}
		fixes := s.fixes.lookup(doc, diag.Code, diag.Range)
		for _, fix := range fixes {
			actions = append(actions, CodeAction{
				Title:       fix.Description,
				Kind:        CodeActionKindQuickFix,
				Diagnostics: []Diagnostic{diag},
				IsPreferred: len(fixes) == 1, // Single fix is preferred
				Edit: &WorkspaceEdit{
					Changes: map[string][]TextEdit{
						doc.URI: convertTextEdits(doc, fix.TextEdits),
					},
				},
			})
		}
	}
	return actions
}

// convertTextEdits converts lint.TextEdit to LSP TextEdit.
func convertTextEdits(doc *Document, edits []lint.TextEdit) []TextEdit {
	result := make([]TextEdit, len(edits))
	for i, edit := range edits {
		result[i] = TextEdit{Range: doc.SpanToRange(edit.Span), NewText: edit.NewText}
	}
	return result
}
