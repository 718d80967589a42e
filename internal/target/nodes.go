// Package target defines the lowered output tree: the functional,
// pattern-matching forms the backend emits (atoms, tuples, keyword lists,
// guarded clauses) and a deterministic renderer for them. The node set is
// closed; the renderer dispatches on it exhaustively.
package target

// Node is the base interface for all output tree nodes.
type Node interface {
	targetNode()
}

// Atom is an interned symbolic constant. Names beginning with an uppercase
// letter render as module aliases (Worker, MyApp.Repo); all others render in
// colon form (:ok, :"odd name").
type Atom struct {
	Name string
}

// Int is an integer constant.
type Int struct {
	Value int64
}

// Float is a floating-point constant.
type Float struct {
	Value float64
}

// Str is a string constant.
type Str struct {
	Value string
}

// Bool is a boolean constant.
type Bool struct {
	Value bool
}

// Nil is the empty value.
type Nil struct{}

// Var is a variable reference or binding occurrence. The blank name "_"
// is the wildcard.
type Var struct {
	Name string
}

// Tuple is a fixed-size positional group.
type Tuple struct {
	Elems []Node
}

// List is an ordered sequence.
type List struct {
	Elems []Node
}

// Pair is one key/value entry of a map or keyword list.
type Pair struct {
	Key   Node
	Value Node
}

// Map is an immutable map literal. Pair order is emission order and is
// preserved verbatim.
type Map struct {
	Pairs []Pair
}

// KeywordList is an ordered list of atom-keyed pairs used for options.
type KeywordList struct {
	Pairs []Pair
}

// Clause is one pattern-match arm: patterns, an optional guard, and a body.
type Clause struct {
	Patterns []Node
	Guard    Node
	Body     Node
}

// Case matches a subject value against ordered clauses.
type Case struct {
	Subject Node
	Clauses []Clause
}

// If is a two-armed conditional. Inline requests single-line keyword form
// (do:/else:) instead of block form; it is cosmetic only.
type If struct {
	Cond   Node
	Then   Node
	Else   Node
	Inline bool
}

// BinOp applies an infix operator.
type BinOp struct {
	Op    string
	Left  Node
	Right Node
}

// UnOp applies a prefix operator.
type UnOp struct {
	Op      string
	Operand Node
}

// Call invokes a function. Module is empty for local calls.
type Call struct {
	Module string
	Fun    string
	Args   []Node
}

// Dot reads a field out of a map value.
type Dot struct {
	Obj  Node
	Name string
}

// Apply invokes an anonymous function value.
type Apply struct {
	Callee Node
	Args   []Node
}

// MacroCall invokes an assertion-style macro rendered without parentheses.
type MacroCall struct {
	Name string
	Args []Node
}

// Fn is an anonymous function value.
type Fn struct {
	Params []string
	Body   Node
}

// Assign binds a value to a name.
type Assign struct {
	Name  string
	Value Node
}

// Block is a sequential group rendered one statement per line.
type Block struct {
	Stmts []Node
}

// Raw is pre-rendered text. Used for inert placeholders the compiler emits
// when it degrades rather than fails.
type Raw struct {
	Text string
}

// FuncDef is one named function definition inside a module.
type FuncDef struct {
	Name   string
	Params []string
	Body   Node
}

// Module is a rendered compilation unit: a module name and its functions.
type Module struct {
	Name  string
	Funcs []FuncDef
}

func (*Atom) targetNode()        {}
func (*Int) targetNode()         {}
func (*Float) targetNode()       {}
func (*Str) targetNode()         {}
func (*Bool) targetNode()        {}
func (*Nil) targetNode()         {}
func (*Var) targetNode()         {}
func (*Tuple) targetNode()       {}
func (*List) targetNode()        {}
func (*Map) targetNode()         {}
func (*KeywordList) targetNode() {}
func (*Case) targetNode()        {}
func (*If) targetNode()          {}
func (*BinOp) targetNode()       {}
func (*UnOp) targetNode()        {}
func (*Call) targetNode()        {}
func (*Dot) targetNode()         {}
func (*Apply) targetNode()       {}
func (*MacroCall) targetNode()   {}
func (*Fn) targetNode()          {}
func (*Assign) targetNode()      {}
func (*Block) targetNode()       {}
func (*Raw) targetNode()         {}
func (*FuncDef) targetNode()     {}
func (*Module) targetNode()      {}

// Wildcard returns the anonymous match-anything variable.
func Wildcard() *Var {
	return &Var{Name: "_"}
}
