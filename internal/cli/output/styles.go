package output

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/leapstack-labs/supersql/pkg/editor"
	"github.com/leapstack-labs/supersql/pkg/lint"
)

// Styles holds the lipgloss styles used by the CLI.
type Styles struct {
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Hint    lipgloss.Style
	Success lipgloss.Style
	Muted   lipgloss.Style
	Bold    lipgloss.Style
	Path    lipgloss.Style

	plain   lipgloss.Style
	classes map[editor.Class]lipgloss.Style
}

// NewStyles creates the styles for a lipgloss renderer.
func NewStyles(r *lipgloss.Renderer) *Styles {
	color := func(c string) lipgloss.Style { return r.NewStyle().Foreground(lipgloss.Color(c)) }
	return &Styles{
		Error:   color("9").Bold(true),
		Warning: color("11"),
		Info:    color("12"),
		Hint:    color("8"),
		Success: color("10"),
		Muted:   color("8"),
		Bold:    r.NewStyle().Bold(true),
		Path:    color("14").Bold(true),

		plain: r.NewStyle(),

		classes: map[editor.Class]lipgloss.Style{
			editor.ClassKeyword:      color("13").Bold(true),
			editor.ClassPipeKeyword:  color("12").Bold(true),
			editor.ClassDeclKeyword:  color("5").Bold(true),
			editor.ClassType:         color("6"),
			editor.ClassConstant:     color("3"),
			editor.ClassNumber:       color("3"),
			editor.ClassString:       color("2"),
			editor.ClassFString:      color("2"),
			editor.ClassComment:      color("8").Italic(true),
			editor.ClassOperator:     color("15"),
			editor.ClassFunction:     color("4"),
			editor.ClassBadCharacter: color("9").Underline(true),
		},
	}
}

// Severity returns the style for a diagnostic severity.
func (s *Styles) Severity(sev lint.Severity) lipgloss.Style {
	switch sev {
	case lint.SeverityError:
		return s.Error
	case lint.SeverityWarning:
		return s.Warning
	case lint.SeverityInfo:
		return s.Info
	default:
		return s.Hint
	}
}

// Class returns the style for a highlighting class. Classes without a
// style render as plain text.
func (s *Styles) Class(c editor.Class) lipgloss.Style {
	if st, ok := s.classes[c]; ok {
		return st
	}
	return s.plain
}
