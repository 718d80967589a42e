// Package source defines the typed source tree the Exalt backend consumes.
// The tree arrives from the upstream frontend already type-checked; the
// backend reads it and never mutates it. Node kinds form a closed set and
// consumers dispatch on them exhaustively.
package source

import (
	"github.com/exalt-lang/exalt/internal/position"
)

// Node is the base interface for all typed source tree nodes.
type Node interface {
	// Span returns the source region this node was parsed from.
	Span() position.Span
	sourceNode()
}

// ConstKind discriminates constant values.
type ConstKind int

const (
	ConstInt ConstKind = iota
	ConstFloat
	ConstBool
	ConstString
	ConstNull
)

func (k ConstKind) String() string {
	switch k {
	case ConstInt:
		return "int"
	case ConstFloat:
		return "float"
	case ConstBool:
		return "bool"
	case ConstString:
		return "string"
	case ConstNull:
		return "null"
	default:
		return "unknown"
	}
}

// Const is a literal constant.
type Const struct {
	Loc   position.Span
	Kind  ConstKind
	Int   int64
	Float float64
	Bool  bool
	Str   string
}

// VarRef is a reference to a local variable or parameter. ID is the
// frontend-assigned identity; Name is the surface spelling.
type VarRef struct {
	Loc  position.Span
	ID   int
	Name string
}

// VarDecl introduces a local variable with an optional initializer.
type VarDecl struct {
	Loc  position.Span
	ID   int
	Name string
	Init Node
}

// VarAssign stores a new value into an existing local variable.
type VarAssign struct {
	Loc   position.Span
	ID    int
	Name  string
	Value Node
}

// Call is a function, method, or variant-constructor invocation. Recv is nil
// for plain calls.
type Call struct {
	Loc  position.Span
	Recv Node
	Name string
	Args []Node
}

// FieldAccess reads a named field from an object value.
type FieldAccess struct {
	Loc  position.Span
	Obj  Node
	Name string
}

// If is a two-armed conditional. Else may be nil.
type If struct {
	Loc  position.Span
	Cond Node
	Then Node
	Else Node
}

// Block is a sequential statement group.
type Block struct {
	Loc   position.Span
	Stmts []Node
}

// While is a condition-guarded loop.
type While struct {
	Loc  position.Span
	Cond Node
	Body Node
}

// ForEach iterates a sequence, binding each element to a loop variable.
type ForEach struct {
	Loc     position.Span
	VarID   int
	VarName string
	Seq     Node
	Body    Node
}

// Arm is one case of a Switch: one or more matched values, an optional
// guard, and a body.
type Arm struct {
	Values []Node
	Guard  Node
	Body   Node
}

// Switch branches on a subject value over ordered arms, with an optional
// trailing default body.
type Switch struct {
	Loc     position.Span
	Subject Node
	Arms    []Arm
	Default Node
}

// ObjectField is one name/value pair of an anonymous structural literal.
type ObjectField struct {
	Name  string
	Value Node
}

// ObjectLit is an anonymous structural literal. Field order is declaration
// order and is preserved by the frontend.
type ObjectLit struct {
	Loc    position.Span
	Fields []ObjectField
}

// ArrayLit is an ordered sequence literal.
type ArrayLit struct {
	Loc   position.Span
	Elems []Node
}

// Unary applies a prefix operator ("!" or "-").
type Unary struct {
	Loc     position.Span
	Op      string
	Operand Node
}

// Binary applies an infix operator.
type Binary struct {
	Loc   position.Span
	Op    string
	Left  Node
	Right Node
}

// Return exits the enclosing function. Value may be nil.
type Return struct {
	Loc   position.Span
	Value Node
}

// Break exits the innermost enclosing loop.
type Break struct {
	Loc position.Span
}

// Continue skips to the next iteration of the innermost enclosing loop.
type Continue struct {
	Loc position.Span
}

// FuncLit is an anonymous function value. Exit statements inside it belong
// to its own scope, not the enclosing function's.
type FuncLit struct {
	Loc    position.Span
	Params []Param
	Body   Node
}

func (n *Const) Span() position.Span       { return n.Loc }
func (n *VarRef) Span() position.Span      { return n.Loc }
func (n *VarDecl) Span() position.Span     { return n.Loc }
func (n *VarAssign) Span() position.Span   { return n.Loc }
func (n *Call) Span() position.Span        { return n.Loc }
func (n *FieldAccess) Span() position.Span { return n.Loc }
func (n *If) Span() position.Span          { return n.Loc }
func (n *Block) Span() position.Span       { return n.Loc }
func (n *While) Span() position.Span       { return n.Loc }
func (n *ForEach) Span() position.Span     { return n.Loc }
func (n *Switch) Span() position.Span      { return n.Loc }
func (n *ObjectLit) Span() position.Span   { return n.Loc }
func (n *ArrayLit) Span() position.Span    { return n.Loc }
func (n *Unary) Span() position.Span       { return n.Loc }
func (n *Binary) Span() position.Span      { return n.Loc }
func (n *Return) Span() position.Span      { return n.Loc }
func (n *Break) Span() position.Span       { return n.Loc }
func (n *Continue) Span() position.Span    { return n.Loc }
func (n *FuncLit) Span() position.Span     { return n.Loc }

func (*Const) sourceNode()       {}
func (*VarRef) sourceNode()      {}
func (*VarDecl) sourceNode()     {}
func (*VarAssign) sourceNode()   {}
func (*Call) sourceNode()        {}
func (*FieldAccess) sourceNode() {}
func (*If) sourceNode()          {}
func (*Block) sourceNode()       {}
func (*While) sourceNode()       {}
func (*ForEach) sourceNode()     {}
func (*Switch) sourceNode()      {}
func (*ObjectLit) sourceNode()   {}
func (*ArrayLit) sourceNode()    {}
func (*Unary) sourceNode()       {}
func (*Binary) sourceNode()      {}
func (*Return) sourceNode()      {}
func (*Break) sourceNode()       {}
func (*Continue) sourceNode()    {}
func (*FuncLit) sourceNode()     {}

// Param is a function parameter with its frontend identity.
type Param struct {
	ID   int
	Name string
}

// Function is one type-checked function body ready for lowering.
type Function struct {
	Name   string
	Params []Param
	Body   Node
	Loc    position.Span
}

// Variant describes one constructor of an algebraic data type: its surface
// name, target tag, and ordered parameter names. The frontend's type checker
// supplies these; the backend never synthesizes them.
type Variant struct {
	Ctor   string   `json:"ctor"`
	Tag    string   `json:"tag"`
	Params []string `json:"params,omitempty"`
}

// Unit is one compilation unit handed to the backend: a target module name,
// its functions, the checker's variant table, and the unit-wide rename table
// for variables renamed elsewhere in the unit.
type Unit struct {
	Module    string
	Functions []*Function
	Variants  []Variant
	Renames   map[string]string
}

// VariantByCtor resolves a constructor name against the unit's variant table.
func (u *Unit) VariantByCtor(name string) (*Variant, bool) {
	for i := range u.Variants {
		if u.Variants[i].Ctor == name {
			return &u.Variants[i], true
		}
	}
	return nil, false
}
