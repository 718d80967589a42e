package diagnostics

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/exalt-lang/exalt/internal/position"
)

func TestCollectorVerboseGating(t *testing.T) {
	quiet := NewCollector(false)
	quiet.Report(LevelInfo, CategoryPatternFallback, position.Span{}, "info notice")
	quiet.Report(LevelHint, CategoryExitPattern, position.Span{}, "hint notice")
	quiet.Report(LevelWarning, CategoryAssertion, position.Span{}, "warning notice")
	if n := len(quiet.All()); n != 1 {
		t.Errorf("quiet collector recorded %d diagnostics, want only the warning", n)
	}

	verbose := NewCollector(true)
	verbose.Report(LevelInfo, CategoryPatternFallback, position.Span{}, "info notice")
	verbose.Report(LevelHint, CategoryExitPattern, position.Span{}, "hint notice")
	if n := len(verbose.All()); n != 2 {
		t.Errorf("verbose collector recorded %d diagnostics, want 2", n)
	}
}

func TestCollectorByCategory(t *testing.T) {
	c := NewCollector(true)
	c.Report(LevelInfo, CategoryPatternFallback, position.Span{}, "one")
	c.Report(LevelWarning, CategoryStartDescriptor, position.Span{}, "two")
	c.Report(LevelInfo, CategoryPatternFallback, position.Span{}, "three")
	got := c.ByCategory(CategoryPatternFallback)
	if len(got) != 2 || got[0].Message != "one" || got[1].Message != "three" {
		t.Errorf("ByCategory = %+v", got)
	}
	if c.Count(LevelWarning) != 1 {
		t.Errorf("Count(warning) = %d", c.Count(LevelWarning))
	}
}

func TestCollectorReset(t *testing.T) {
	c := NewCollector(true)
	c.Report(LevelError, CategoryGeneral, position.Span{}, "boom")
	c.Reset()
	if len(c.All()) != 0 {
		t.Error("Reset did not clear diagnostics")
	}
}

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{
		Level:    LevelWarning,
		Category: CategoryStartDescriptor,
		Message:  "malformed descriptor",
		Span:     position.NewSpan("todo.hx", 4, 2, 4, 10),
	}
	got := d.String()
	if !strings.Contains(got, "todo.hx:4:2") || !strings.Contains(got, "warning[start-descriptor]") {
		t.Errorf("String() = %q", got)
	}
}

func TestWriteTextSortsByPosition(t *testing.T) {
	c := NewCollector(true)
	c.Report(LevelWarning, CategoryGeneral, position.NewSpan("b.hx", 9, 1, 9, 2), "later")
	c.Report(LevelWarning, CategoryGeneral, position.NewSpan("a.hx", 1, 1, 1, 2), "earlier")
	var buf bytes.Buffer
	c.WriteText(&buf, false)
	out := buf.String()
	if strings.Index(out, "earlier") > strings.Index(out, "later") {
		t.Errorf("output not sorted by position:\n%s", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("uncolored output contains ANSI codes")
	}
}

func TestMarshalJSON(t *testing.T) {
	c := NewCollector(true)
	c.Report(LevelInfo, CategoryExitPattern, position.Span{}, "detected")
	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got []map[string]string
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if len(got) != 1 || got[0]["level"] != "info" || got[0]["category"] != "exit-pattern" {
		t.Errorf("json = %s", data)
	}
}
