package lsp

import (
	"github.com/leapstack-labs/supersql/pkg/lint"
)

// diagnosticSource tags every diagnostic the server publishes.
const diagnosticSource = "supersql"

// publishDiagnostics lints the document and publishes the result.
func (s *Server) publishDiagnostics(doc *Document) {
	_, parsed := s.parsed(doc.URI)
	if parsed == nil {
		return
	}

	lintDiags := parsed.Lint(s.analyzer)

	// Cache fixes for code actions
	s.fixes.store(doc, lintDiags)

	version := doc.Version
	s.sendNotification("textDocument/publishDiagnostics", &PublishDiagnosticsParams{
		URI:         doc.URI,
		Version:     &version,
		Diagnostics: toLSPDiagnostics(doc, lintDiags),
	})
}

func toLSPDiagnostics(doc *Document, diags []lint.Diagnostic) []Diagnostic {
	result := make([]Diagnostic, 0, len(diags))
	for _, d := range diags {
		result = append(result, Diagnostic{
			Range:    doc.SpanToRange(d.Span),
			Severity: toLSPSeverity(d.Severity),
			Code:     d.RuleID,
			Source:   diagnosticSource,
			Message:  d.Message,
		})
	}
	return result
}

// toLSPSeverity converts lint.Severity to LSP DiagnosticSeverity.
func toLSPSeverity(s lint.Severity) DiagnosticSeverity {
	switch s {
	case lint.SeverityError:
		return DiagnosticSeverityError
	case lint.SeverityWarning:
		return DiagnosticSeverityWarning
	case lint.SeverityInfo:
		return DiagnosticSeverityInformation
	case lint.SeverityHint:
		return DiagnosticSeverityHint
	default:
		return DiagnosticSeverityWarning
	}
}
