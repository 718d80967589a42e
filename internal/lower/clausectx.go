package lower

import (
	"github.com/exalt-lang/exalt/internal/target"
)

// ClauseContext maps source-variable identities to the target names chosen
// for one pattern clause. A context is created fresh per clause, pushed
// before the clause body compiles, and popped immediately after; contexts
// are never shared between clauses or reused.
type ClauseContext struct {
	bindings map[int]string
	prelude  []target.Node
}

// NewClauseContext creates an empty per-clause scope.
func NewClauseContext() *ClauseContext {
	return &ClauseContext{bindings: make(map[int]string)}
}

// Bind records the target name for a source variable. The first binding for
// an identity wins; keys stay unique within the clause.
func (c *ClauseContext) Bind(id int, name string) {
	if _, ok := c.bindings[id]; ok {
		return
	}
	c.bindings[id] = name
}

// Resolve looks up the target name for a source variable.
func (c *ClauseContext) Resolve(id int) (string, bool) {
	name, ok := c.bindings[id]
	return name, ok
}

// AddPrelude queues a synthetic binding to be injected ahead of the clause
// body when WrapBody runs.
func (c *ClauseContext) AddPrelude(name string, value target.Node) {
	c.prelude = append(c.prelude, &target.Assign{Name: name, Value: value})
}

// WrapBody prepends any queued synthetic bindings to the compiled body.
// With no prelude the body passes through untouched.
func (c *ClauseContext) WrapBody(body target.Node) target.Node {
	if len(c.prelude) == 0 {
		return body
	}
	stmts := make([]target.Node, 0, len(c.prelude)+1)
	stmts = append(stmts, c.prelude...)
	if blk, ok := body.(*target.Block); ok {
		stmts = append(stmts, blk.Stmts...)
	} else if body != nil {
		stmts = append(stmts, body)
	}
	return &target.Block{Stmts: stmts}
}

// pushClause makes ctx the innermost clause scope.
func (fl *fnLowerer) pushClause(ctx *ClauseContext) {
	fl.ctxs = append(fl.ctxs, ctx)
}

// popClause discards the innermost clause scope. Push and pop are strictly
// nested: one frame per arm, no frame outlives its clause's compilation.
func (fl *fnLowerer) popClause() {
	fl.ctxs = fl.ctxs[:len(fl.ctxs)-1]
}

// resolveClause walks clause scopes innermost-first so a nested arm still
// sees the captures of the arm enclosing it.
func (fl *fnLowerer) resolveClause(id int) (string, bool) {
	for i := len(fl.ctxs) - 1; i >= 0; i-- {
		if name, ok := fl.ctxs[i].Resolve(id); ok {
			return name, ok
		}
	}
	return "", false
}
