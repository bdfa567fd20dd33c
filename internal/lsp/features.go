package lsp

import (
	"encoding/json"
	"strings"

	"github.com/leapstack-labs/supersql/internal/jsonrpc"
	"github.com/leapstack-labs/supersql/internal/provider"
	"github.com/leapstack-labs/supersql/pkg/editor"
	"github.com/leapstack-labs/supersql/pkg/format"
)

func (s *Server) handleDocumentSymbol(msg *jsonrpc.Message) error {
	var params DocumentSymbolParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.invalidParams(msg, err)
	}

	out := []DocumentSymbol{}
	if doc, parsed := s.parsed(params.TextDocument.URI); parsed != nil {
		out = toDocumentSymbols(doc, editor.Symbols(parsed.Root))
	}
	s.sendResponse(msg.ID, out, nil)
	return nil
}

func toDocumentSymbols(doc *Document, syms []editor.Symbol) []DocumentSymbol {
	out := make([]DocumentSymbol, 0, len(syms))
	for _, sym := range syms {
		ds := DocumentSymbol{
			Name:           sym.Name,
			Detail:         sym.Kind.String(),
			Kind:           symbolKind(sym.Kind),
			Range:          doc.SpanToRange(sym.Range.Span),
			SelectionRange: doc.SpanToRange(sym.Selection),
		}
		if len(sym.Children) > 0 {
			ds.Children = toDocumentSymbols(doc, sym.Children)
		}
		out = append(out, ds)
	}
	return out
}

func symbolKind(k editor.SymbolKind) SymbolKind {
	switch k {
	case editor.SymbolConst:
		return SymbolKindConstant
	case editor.SymbolFunction:
		return SymbolKindFunction
	case editor.SymbolOperator:
		return SymbolKindOperator
	case editor.SymbolType:
		return SymbolKindTypeParameter
	case editor.SymbolTable:
		return SymbolKindStruct
	}
	return SymbolKindVariable
}

func (s *Server) handleFoldingRange(msg *jsonrpc.Message) error {
	var params FoldingRangeParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.invalidParams(msg, err)
	}

	out := []FoldingRange{}
	if _, parsed := s.parsed(params.TextDocument.URI); parsed != nil {
		for _, f := range editor.Folds(parsed.Root) {
			kind := FoldingRangeKindRegion
			if f.Kind == editor.FoldComment {
				kind = FoldingRangeKindComment
			}
			out = append(out, FoldingRange{
				StartLine:     uint32(f.StartLine - 1), //nolint:gosec // G115: lines are 1-based
				EndLine:       uint32(f.EndLine - 1),   //nolint:gosec // G115: lines are 1-based
				Kind:          kind,
				CollapsedText: f.Placeholder,
			})
		}
	}
	s.sendResponse(msg.ID, out, nil)
	return nil
}

// semanticLegend lists the highlighting classes; a token's type index is
// its class's position in editor.Classes.
func semanticLegend() SemanticTokensLegend {
	classes := editor.Classes()
	types := make([]string, len(classes))
	for i, c := range classes {
		types[i] = c.String()
	}
	return SemanticTokensLegend{TokenTypes: types, TokenModifiers: []string{}}
}

func (s *Server) handleSemanticTokens(msg *jsonrpc.Message) error {
	var params SemanticTokensParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.invalidParams(msg, err)
	}

	out := &SemanticTokens{Data: []uint32{}}
	if doc, parsed := s.parsed(params.TextDocument.URI); parsed != nil && !provider.IsShellScript(doc.URI) {
		out.Data = encodeSemanticTokens(doc, editor.Highlights(parsed.Root))
	}
	s.sendResponse(msg.ID, out, nil)
	return nil
}

// encodeSemanticTokens emits the LSP relative encoding: delta line, delta
// start, length, type, modifiers. Tokens spanning lines are split per line.
func encodeSemanticTokens(doc *Document, highlights []editor.Highlight) []uint32 {
	data := []uint32{}
	var prevLine, prevChar uint32
	for _, h := range highlights {
		if h.Class == editor.ClassNone {
			continue
		}
		typ := uint32(h.Class - 1)
		start, end := h.Token.Pos.Offset, h.Token.End()
		for start < end {
			stop := end
			if i := strings.IndexByte(doc.Content[start:end], '\n'); i >= 0 {
				stop = start + i
			}
			if text := strings.TrimSuffix(doc.Content[start:stop], "\r"); text != "" {
				pos := doc.OffsetToPosition(start)
				deltaChar := pos.Character
				if pos.Line == prevLine {
					deltaChar -= prevChar
				}
				data = append(data, pos.Line-prevLine, deltaChar, utf16Width(text), typ, 0)
				prevLine, prevChar = pos.Line, pos.Character
			}
			start = stop + 1
		}
	}
	return data
}

func (s *Server) handleFormatting(msg *jsonrpc.Message) error {
	var params DocumentFormattingParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.invalidParams(msg, err)
	}

	out := []TextEdit{}
	if doc, parsed := s.parsed(params.TextDocument.URI); parsed != nil && !provider.IsShellScript(doc.URI) {
		for _, e := range format.Edits(parsed.Root, s.format) {
			out = append(out, TextEdit{Range: doc.SpanToRange(e.Span), NewText: e.NewText})
		}
	}
	s.sendResponse(msg.ID, out, nil)
	return nil
}
