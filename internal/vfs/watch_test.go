package vfs

import (
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestTranslateOp(t *testing.T) {
	tests := []struct {
		name     string
		in       fsnotify.Op
		expected WatchOp
	}{
		{name: "create", in: fsnotify.Create, expected: OpCreate},
		{name: "write", in: fsnotify.Write, expected: OpWrite},
		{name: "remove", in: fsnotify.Remove, expected: OpRemove},
		{name: "rename", in: fsnotify.Rename, expected: OpRename},
		{name: "chmod", in: fsnotify.Chmod, expected: OpChmod},
		{name: "combined", in: fsnotify.Create | fsnotify.Write, expected: OpCreate | OpWrite},
		{name: "none", in: 0, expected: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := translateOp(tt.in); got != tt.expected {
				t.Errorf("translateOp(%v) = %v, want %v", tt.in, got, tt.expected)
			}
		})
	}
}

func TestEventRelevant(t *testing.T) {
	tests := []struct {
		name     string
		op       WatchOp
		expected bool
	}{
		{name: "write", op: OpWrite, expected: true},
		{name: "create", op: OpCreate, expected: true},
		{name: "remove", op: OpRemove, expected: true},
		{name: "rename", op: OpRename, expected: true},
		{name: "chmod only", op: OpChmod, expected: false},
		{name: "chmod with write", op: OpChmod | OpWrite, expected: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := Event{Path: "unit.json", Op: tt.op}
			if got := ev.Relevant(); got != tt.expected {
				t.Errorf("Relevant(%v) = %v, want %v", tt.op, got, tt.expected)
			}
		})
	}
}

func TestDebouncerSuppressesBursts(t *testing.T) {
	d := NewDebouncer(100 * time.Millisecond)
	start := time.Now()
	if !d.Allow("a.json", start) {
		t.Fatal("first event must pass")
	}
	if d.Allow("a.json", start.Add(50*time.Millisecond)) {
		t.Error("event inside the window must be suppressed")
	}
	if !d.Allow("a.json", start.Add(150*time.Millisecond)) {
		t.Error("event after the window must pass")
	}
}

func TestDebouncerIsPerPath(t *testing.T) {
	d := NewDebouncer(100 * time.Millisecond)
	start := time.Now()
	if !d.Allow("a.json", start) {
		t.Fatal("first event must pass")
	}
	if !d.Allow("b.json", start.Add(10*time.Millisecond)) {
		t.Error("a burst on one path must not suppress another path")
	}
}
