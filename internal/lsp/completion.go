package lsp

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/leapstack-labs/supersql/internal/jsonrpc"
	"github.com/leapstack-labs/supersql/pkg/editor"
	"github.com/leapstack-labs/supersql/pkg/syntax"
	"github.com/leapstack-labs/supersql/pkg/token"
)

// Sort groups: document symbols first, then builtins, then keywords.
const (
	sortSymbol  = "0"
	sortBuiltin = "1"
	sortKeyword = "2"
)

func (s *Server) handleCompletion(msg *jsonrpc.Message) error {
	var params CompletionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.invalidParams(msg, err)
	}
	s.answer(msg, params.TextDocument.URI, params, func() any { return s.getCompletions(params) })
	return nil
}

func (s *Server) handleHover(msg *jsonrpc.Message) error {
	var params HoverParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.invalidParams(msg, err)
	}
	s.answer(msg, params.TextDocument.URI, params, func() any { return s.getHover(params) })
	return nil
}

func (s *Server) handleDefinition(msg *jsonrpc.Message) error {
	var params DefinitionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.invalidParams(msg, err)
	}
	s.sendResponse(msg.ID, s.getDefinition(params), nil)
	return nil
}

// getCompletions returns completion items for the given position. After a
// pipe only operator keywords are offered.
func (s *Server) getCompletions(params CompletionParams) *CompletionList {
	list := &CompletionList{Items: []CompletionItem{}}
	doc, parsed := s.parsed(params.TextDocument.URI)
	if parsed == nil {
		return list
	}

	offset := doc.PositionToOffset(params.Position)
	start := offset
	for start > 0 && isWordChar(doc.Content[start-1]) {
		start--
	}
	prefix := strings.ToLower(doc.Content[start:offset])
	afterPipe := previousToken(parsed.Root, start).Type == token.PIPE

	add := func(item CompletionItem) {
		if strings.HasPrefix(strings.ToLower(item.Label), prefix) {
			list.Items = append(list.Items, item)
		}
	}

	if !afterPipe {
		seen := make(map[string]bool)
		for _, sym := range flattenSymbols(editor.Symbols(parsed.Root)) {
			if seen[sym.Name] {
				continue
			}
			seen[sym.Name] = true
			add(CompletionItem{
				Label:    sym.Name,
				Kind:     symbolCompletionKind(sym.Kind),
				Detail:   sym.Kind.String(),
				SortText: sortSymbol + sym.Name,
			})
		}
		for _, b := range editor.Builtins() {
			add(CompletionItem{
				Label:      b.Name,
				Kind:       CompletionItemKindFunction,
				Detail:     builtinDetail(b),
				InsertText: b.Name + "(",
				SortText:   sortBuiltin + b.Name,
			})
		}
	}

	for _, kw := range token.Keywords() {
		if afterPipe && !kw.IsPipeKeyword() {
			continue
		}
		label := strings.ToLower(kw.String())
		add(CompletionItem{
			Label:    label,
			Kind:     CompletionItemKindKeyword,
			Detail:   keywordDetail(kw),
			SortText: sortKeyword + label,
		})
	}

	sort.SliceStable(list.Items, func(i, j int) bool { return list.Items[i].SortText < list.Items[j].SortText })
	return list
}

// previousToken returns the last significant token ending at or before
// offset, or an EOF token.
func previousToken(root *syntax.Node, offset int) token.Token {
	prev := token.Token{Type: token.EOF}
	for tok := range root.Tokens() {
		if tok.End() > offset {
			break
		}
		if !tok.Type.IsTrivia() {
			prev = tok
		}
	}
	return prev
}

func keywordDetail(t token.TokenType) string {
	switch {
	case t.IsPipeKeyword():
		return "operator"
	case t.IsDeclKeyword():
		return "declaration"
	}
	return "keyword"
}

func builtinDetail(b editor.Builtin) string {
	if b.Aggregate {
		return "aggregate function"
	}
	return "function"
}

func symbolCompletionKind(k editor.SymbolKind) CompletionItemKind {
	switch k {
	case editor.SymbolConst:
		return CompletionItemKindConstant
	case editor.SymbolFunction:
		return CompletionItemKindFunction
	case editor.SymbolOperator:
		return CompletionItemKindOperator
	case editor.SymbolType:
		return CompletionItemKindTypeParameter
	case editor.SymbolTable:
		return CompletionItemKindStruct
	}
	return CompletionItemKindVariable
}

func flattenSymbols(syms []editor.Symbol) []editor.Symbol {
	var out []editor.Symbol
	for _, sym := range syms {
		out = append(out, sym)
		out = append(out, flattenSymbols(sym.Children)...)
	}
	return out
}

// findSymbol returns the declaration of name. CTE names match without
// regard to case.
func findSymbol(syms []editor.Symbol, name string) (editor.Symbol, bool) {
	for _, sym := range flattenSymbols(syms) {
		if sym.Name == name || (sym.Kind == editor.SymbolTable && strings.EqualFold(sym.Name, name)) {
			return sym, true
		}
	}
	return editor.Symbol{}, false
}

// tokenAt returns the significant token under offset. A cursor just past
// the end of a word still hits it.
func tokenAt(root *syntax.Node, offset int) (token.Token, bool) {
	for _, off := range []int{offset, offset - 1} {
		if off < 0 {
			continue
		}
		if tok, ok := root.NodeAt(off).Token(); ok && !tok.Type.IsTrivia() {
			return tok, true
		}
	}
	return token.Token{}, false
}

// getHover describes the declaration or builtin under the cursor.
func (s *Server) getHover(params HoverParams) *Hover {
	doc, parsed := s.parsed(params.TextDocument.URI)
	if parsed == nil {
		return nil
	}

	tok, ok := tokenAt(parsed.Root, doc.PositionToOffset(params.Position))
	if !ok || (tok.Type != token.IDENT && !tok.Type.IsKeyword()) {
		return nil
	}
	rng := doc.SpanToRange(tok.Span())

	if sym, ok := findSymbol(editor.Symbols(parsed.Root), tok.Literal); ok {
		decl := doc.Content[sym.Range.Span.Offset:sym.Range.Span.End()]
		decl, _, _ = strings.Cut(decl, "\n")
		return &Hover{
			Contents: MarkupContent{
				Kind:  MarkupKindMarkdown,
				Value: fmt.Sprintf("```supersql\n%s\n```\n\n*%s*", decl, sym.Kind),
			},
			Range: &rng,
		}
	}

	if b, ok := editor.LookupBuiltin(tok.Literal); ok && previousToken(parsed.Root, tok.Pos.Offset).Type != token.PIPE {
		return &Hover{
			Contents: MarkupContent{
				Kind:  MarkupKindMarkdown,
				Value: fmt.Sprintf("**%s**\n\nBuiltin %s", b.Name, builtinDetail(b)),
			},
			Range: &rng,
		}
	}
	return nil
}

// getDefinition returns the declaration of the name under the cursor.
func (s *Server) getDefinition(params DefinitionParams) *Location {
	doc, parsed := s.parsed(params.TextDocument.URI)
	if parsed == nil {
		return nil
	}

	tok, ok := tokenAt(parsed.Root, doc.PositionToOffset(params.Position))
	if !ok || (tok.Type != token.IDENT && tok.Type != token.QUOTED_IDENT) {
		return nil
	}
	sym, ok := findSymbol(editor.Symbols(parsed.Root), tok.Literal)
	if !ok {
		return nil
	}
	return &Location{URI: doc.URI, Range: doc.SpanToRange(sym.Selection)}
}
