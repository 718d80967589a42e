// Package diagnostics provides the diagnostic sink for the Exalt backend.
// The lowering core never fails on a well-formed tree; instead every
// degradation it performs is reported here so callers and tests can observe
// fallback behavior directly rather than inferring it from output shape.
package diagnostics

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/exalt-lang/exalt/internal/position"
)

// Level is the severity of a diagnostic.
type Level int

const (
	LevelError Level = iota
	LevelWarning
	LevelInfo
	LevelHint
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	case LevelInfo:
		return "info"
	case LevelHint:
		return "hint"
	default:
		return "unknown"
	}
}

// Category identifies what kind of event produced a diagnostic.
type Category int

const (
	// CategoryPatternFallback: a branch-arm matched value degraded to a
	// wildcard pattern.
	CategoryPatternFallback Category = iota
	// CategoryStartDescriptor: a process-descriptor start field was
	// malformed and compiled through the default path.
	CategoryStartDescriptor
	// CategoryAssertion: an unrecognized assertion method was replaced by
	// an inert placeholder.
	CategoryAssertion
	// CategoryExitPattern: a loop body carries an early-exit pattern whose
	// specialized lowering is not yet applied.
	CategoryExitPattern
	// CategoryInlineRewrite: a null-coalescing statement pair was rewritten
	// to an inline conditional.
	CategoryInlineRewrite
	// CategoryGeneral covers everything else.
	CategoryGeneral
)

func (c Category) String() string {
	switch c {
	case CategoryPatternFallback:
		return "pattern-fallback"
	case CategoryStartDescriptor:
		return "start-descriptor"
	case CategoryAssertion:
		return "assertion"
	case CategoryExitPattern:
		return "exit-pattern"
	case CategoryInlineRewrite:
		return "inline-rewrite"
	case CategoryGeneral:
		return "general"
	default:
		return "unknown"
	}
}

// Diagnostic is one recorded event.
type Diagnostic struct {
	Level    Level
	Category Category
	Message  string
	Span     position.Span
}

// String formats a diagnostic for human consumption.
func (d Diagnostic) String() string {
	var b strings.Builder
	if d.Span.IsValid() {
		b.WriteString(d.Span.String())
		b.WriteString(": ")
	}
	b.WriteString(d.Level.String())
	b.WriteString("[")
	b.WriteString(d.Category.String())
	b.WriteString("]: ")
	b.WriteString(d.Message)
	return b.String()
}

// Collector accumulates diagnostics for one compilation. Info and Hint
// levels are recorded only in verbose mode; Warning and Error always are.
type Collector struct {
	verbose bool
	diags   []Diagnostic
}

// NewCollector creates a collector. verbose enables Info/Hint recording.
func NewCollector(verbose bool) *Collector {
	return &Collector{verbose: verbose}
}

// Verbose reports whether low-severity diagnostics are being recorded.
func (c *Collector) Verbose() bool {
	return c.verbose
}

// Report records one diagnostic.
func (c *Collector) Report(level Level, cat Category, span position.Span, format string, args ...interface{}) {
	if !c.verbose && (level == LevelInfo || level == LevelHint) {
		return
	}
	c.diags = append(c.diags, Diagnostic{
		Level:    level,
		Category: cat,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
	})
}

// All returns the recorded diagnostics in report order.
func (c *Collector) All() []Diagnostic {
	return c.diags
}

// ByCategory returns the recorded diagnostics of one category, in order.
func (c *Collector) ByCategory(cat Category) []Diagnostic {
	var out []Diagnostic
	for _, d := range c.diags {
		if d.Category == cat {
			out = append(out, d)
		}
	}
	return out
}

// Count returns the number of diagnostics at the given level.
func (c *Collector) Count(level Level) int {
	n := 0
	for _, d := range c.diags {
		if d.Level == level {
			n++
		}
	}
	return n
}

// Reset clears the collector for reuse between compilation units.
func (c *Collector) Reset() {
	c.diags = nil
}

// WriteText writes the diagnostics one per line, ordered by source position
// then report order, optionally with ANSI severity coloring.
func (c *Collector) WriteText(w io.Writer, color bool) {
	sorted := make([]Diagnostic, len(c.diags))
	copy(sorted, c.diags)
	sort.SliceStable(sorted, func(i, j int) bool {
		si, sj := sorted[i].Span, sorted[j].Span
		if si.Start.Filename != sj.Start.Filename {
			return si.Start.Filename < sj.Start.Filename
		}
		return si.Start.Before(sj.Start)
	})
	for _, d := range sorted {
		if color {
			fmt.Fprintf(w, "%s%s%s\n", levelColor(d.Level), d.String(), ansiReset)
		} else {
			fmt.Fprintln(w, d.String())
		}
	}
}

// MarshalJSON renders diagnostics with symbolic level/category names so the
// output is stable across releases.
func (c *Collector) MarshalJSON() ([]byte, error) {
	type jsonDiag struct {
		Level    string `json:"level"`
		Category string `json:"category"`
		Message  string `json:"message"`
		Location string `json:"location,omitempty"`
	}
	out := make([]jsonDiag, 0, len(c.diags))
	for _, d := range c.diags {
		jd := jsonDiag{
			Level:    d.Level.String(),
			Category: d.Category.String(),
			Message:  d.Message,
		}
		if d.Span.IsValid() {
			jd.Location = d.Span.String()
		}
		out = append(out, jd)
	}
	return json.Marshal(out)
}

const ansiReset = "\x1b[0m"

func levelColor(l Level) string {
	switch l {
	case LevelError:
		return "\x1b[31m"
	case LevelWarning:
		return "\x1b[33m"
	case LevelInfo:
		return "\x1b[36m"
	default:
		return "\x1b[90m"
	}
}
