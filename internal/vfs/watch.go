// Package vfs provides file watching for the CLI's rebuild-on-change mode.
package vfs

import "time"

// WatchOp is a bitmask of file-change kinds.
type WatchOp uint32

const (
	OpCreate WatchOp = 1 << iota
	OpWrite
	OpRemove
	OpRename
	OpChmod
)

// Event is one observed file change.
type Event struct {
	Path string
	Op   WatchOp
}

// Relevant reports whether the event should trigger a rebuild. Permission
// churn alone does not.
func (e Event) Relevant() bool {
	return e.Op&(OpCreate|OpWrite|OpRemove|OpRename) != 0
}

// Debouncer suppresses event bursts per path. Editors commonly write a
// file twice in quick succession; only the first event inside the window
// passes through.
type Debouncer struct {
	window time.Duration
	last   map[string]time.Time
}

// NewDebouncer creates a debouncer with the given suppression window.
func NewDebouncer(window time.Duration) *Debouncer {
	return &Debouncer{window: window, last: make(map[string]time.Time)}
}

// Allow reports whether an event for path observed at the given time should
// pass through, recording the time when it does. Each path debounces
// independently.
func (d *Debouncer) Allow(path string, at time.Time) bool {
	if prev, ok := d.last[path]; ok && at.Sub(prev) < d.window {
		return false
	}
	d.last[path] = at
	return true
}

// Watcher observes file changes. Implementations deliver events and errors
// on their channels until Close.
type Watcher interface {
	Events() <-chan Event
	Errors() <-chan error
	Add(name string) error
	Remove(name string) error
	Close() error
}
