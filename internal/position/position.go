// Package position provides source position tracking for the Exalt backend.
// Positions originate in the upstream frontend and travel with the typed tree
// so diagnostics can point back at the original source.
package position

import (
	"fmt"
	"path/filepath"
)

// Position is a single point in a source file.
type Position struct {
	Filename string // Source file name
	Line     int    // 1-based line number
	Column   int    // 1-based column number
}

// IsValid returns true if the position carries usable coordinates.
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0
}

// String returns a compact file:line:col representation.
func (p Position) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", filepath.Base(p.Filename), p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Before returns true if this position comes before other in the same file.
func (p Position) Before(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Column < other.Column
}

// Span is a half-open range of source code between two positions.
type Span struct {
	Start Position // inclusive
	End   Position // exclusive
}

// IsValid returns true if both endpoints are valid and ordered.
func (s Span) IsValid() bool {
	return s.Start.IsValid() && s.End.IsValid() &&
		s.Start.Filename == s.End.Filename &&
		!s.End.Before(s.Start)
}

// String returns a compact representation of the span.
func (s Span) String() string {
	if !s.IsValid() {
		return s.Start.String()
	}
	if s.Start.Line == s.End.Line {
		return fmt.Sprintf("%s-%d", s.Start.String(), s.End.Column)
	}
	return fmt.Sprintf("%s-%d:%d", s.Start.String(), s.End.Line, s.End.Column)
}

// Union returns the smallest span covering both s and other.
func (s Span) Union(other Span) Span {
	if !s.IsValid() {
		return other
	}
	if !other.IsValid() || s.Start.Filename != other.Start.Filename {
		return s
	}
	out := s
	if other.Start.Before(out.Start) {
		out.Start = other.Start
	}
	if out.End.Before(other.End) {
		out.End = other.End
	}
	return out
}

// NewSpan builds a span from raw coordinates within one file.
func NewSpan(file string, startLine, startCol, endLine, endCol int) Span {
	return Span{
		Start: Position{Filename: file, Line: startLine, Column: startCol},
		End:   Position{Filename: file, Line: endLine, Column: endCol},
	}
}
