package lower

import (
	"sort"
	"strconv"

	"github.com/exalt-lang/exalt/internal/diagnostics"
	"github.com/exalt-lang/exalt/internal/source"
	"github.com/exalt-lang/exalt/internal/target"
)

// LiteralShape is the classification of an anonymous structural literal.
// Every field set resolves to exactly one shape; PlainRecord is the
// catch-all.
type LiteralShape int

const (
	ShapePlainRecord LiteralShape = iota
	ShapeTuple
	ShapeOptionList
	ShapeProcessSpec
)

func (s LiteralShape) String() string {
	switch s {
	case ShapeTuple:
		return "tuple"
	case ShapeOptionList:
		return "option-list"
	case ShapeProcessSpec:
		return "process-spec"
	case ShapePlainRecord:
		return "plain-record"
	default:
		return "unknown"
	}
}

// classifyLiteral decides the target shape of a structural literal and
// emits it. The checks run in a fixed priority order and the first match
// wins: index-tagged tuples, then supervisor option lists, then process
// descriptors, then the plain record default.
func (fl *fnLowerer) classifyLiteral(lit *source.ObjectLit) (LiteralShape, target.Node) {
	if isTupleShape(lit) {
		return ShapeTuple, fl.emitTuple(lit)
	}
	if isOptionListShape(lit) {
		return ShapeOptionList, fl.emitOptionList(lit)
	}
	if isProcessSpecShape(lit) {
		return ShapeProcessSpec, fl.emitProcessSpec(lit)
	}
	return ShapePlainRecord, fl.emitPlainRecord(lit)
}

// tupleIndex extracts N from an index-tagged field name "_N". N must be a
// positive integer.
func tupleIndex(name string) (int, bool) {
	if len(name) < 2 || name[0] != '_' {
		return 0, false
	}
	n, err := strconv.Atoi(name[1:])
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

func isTupleShape(lit *source.ObjectLit) bool {
	if len(lit.Fields) == 0 {
		return false
	}
	for _, f := range lit.Fields {
		if _, ok := tupleIndex(f.Name); !ok {
			return false
		}
	}
	return true
}

// emitTuple orders elements by ascending index suffix regardless of
// declaration order. Field names are positional markers only and no key is
// emitted.
func (fl *fnLowerer) emitTuple(lit *source.ObjectLit) target.Node {
	fields := make([]source.ObjectField, len(lit.Fields))
	copy(fields, lit.Fields)
	sort.SliceStable(fields, func(i, j int) bool {
		ni, _ := tupleIndex(fields[i].Name)
		nj, _ := tupleIndex(fields[j].Name)
		return ni < nj
	})
	out := &target.Tuple{}
	for _, f := range fields {
		out.Elems = append(out.Elems, fl.compileNode(f.Value))
	}
	return out
}

// Restart-limit field names recognized for the option-list shape, in their
// normalized spelling.
func isRestartLimitField(name string) bool {
	n := Normalize(name)
	return n == "max_restarts" || n == "max_seconds"
}

func isOptionListShape(lit *source.ObjectLit) bool {
	hasStrategy := false
	hasLimit := false
	for _, f := range lit.Fields {
		if Normalize(f.Name) == "strategy" {
			hasStrategy = true
		}
		if isRestartLimitField(f.Name) {
			hasLimit = true
		}
	}
	return hasStrategy && hasLimit
}

// emitOptionList emits the literal as an ordered keyword list, one
// (normalized name, compiled value) pair per field in declaration order.
func (fl *fnLowerer) emitOptionList(lit *source.ObjectLit) target.Node {
	out := &target.KeywordList{}
	for _, f := range lit.Fields {
		out.Pairs = append(out.Pairs, target.Pair{
			Key:   &target.Atom{Name: Normalize(f.Name)},
			Value: fl.compileNode(f.Value),
		})
	}
	return out
}

func isProcessSpecShape(lit *source.ObjectLit) bool {
	hasID := false
	hasStart := false
	for _, f := range lit.Fields {
		switch Normalize(f.Name) {
		case "id":
			hasID = true
		case "start":
			hasStart = true
		}
	}
	return hasID && hasStart
}

// emitProcessSpec emits a map with normalized keys. The start descriptor
// lowers to a {module, function, args} call-descriptor tuple when its value
// is a structural literal carrying those three fields; the type, restart,
// and shutdown fields coerce string constants to atoms; everything else
// compiles through the default path.
func (fl *fnLowerer) emitProcessSpec(lit *source.ObjectLit) target.Node {
	out := &target.Map{}
	for _, f := range lit.Fields {
		key := &target.Atom{Name: Normalize(f.Name)}
		var value target.Node
		switch Normalize(f.Name) {
		case "start":
			value = fl.emitStartDescriptor(f.Value)
		case "type", "restart", "shutdown":
			value = fl.atomized(f.Value)
		default:
			value = fl.compileNode(f.Value)
		}
		out.Pairs = append(out.Pairs, target.Pair{Key: key, Value: value})
	}
	return out
}

// emitStartDescriptor lowers a well-formed start descriptor literal to a
// 3-element tuple. A descriptor missing the module, function, or argument
// fields compiles through the default path instead; that is a degradation,
// not an error, and it is reported so the fallback stays observable.
func (fl *fnLowerer) emitStartDescriptor(value source.Node) target.Node {
	desc, ok := value.(*source.ObjectLit)
	if !ok {
		return fl.compileNode(value)
	}
	var module, fun, args source.Node
	for _, f := range desc.Fields {
		switch Normalize(f.Name) {
		case "module":
			module = f.Value
		case "func", "function":
			fun = f.Value
		case "args":
			args = f.Value
		}
	}
	if module == nil || fun == nil || args == nil {
		fl.sink.Report(diagnostics.LevelWarning, diagnostics.CategoryStartDescriptor, desc.Span(),
			"start descriptor is missing module, function, or args; compiling it as a plain value")
		return fl.compileNode(value)
	}
	return &target.Tuple{Elems: []target.Node{
		fl.atomizedAlias(module),
		fl.atomized(fun),
		fl.compileNode(args),
	}}
}

// atomized coerces a string constant to a normalized symbolic atom and
// compiles any other value normally.
func (fl *fnLowerer) atomized(value source.Node) target.Node {
	if c, ok := value.(*source.Const); ok && c.Kind == source.ConstString {
		return &target.Atom{Name: Normalize(c.Str)}
	}
	return fl.compileNode(value)
}

// atomizedAlias coerces a string constant to a module alias atom, keeping
// its spelling: module names are aliases, not snake_case atoms.
func (fl *fnLowerer) atomizedAlias(value source.Node) target.Node {
	if c, ok := value.(*source.Const); ok && c.Kind == source.ConstString {
		return &target.Atom{Name: c.Str}
	}
	return fl.compileNode(value)
}

// emitPlainRecord emits the default shape: a map of normalized atom keys in
// declaration order. Two value shapes get special treatment: the
// two-statement null-coalescing idiom re-lowers to one inline conditional,
// and a bare variable consults the unit's rename table.
func (fl *fnLowerer) emitPlainRecord(lit *source.ObjectLit) target.Node {
	out := &target.Map{}
	for _, f := range lit.Fields {
		out.Pairs = append(out.Pairs, target.Pair{
			Key:   &target.Atom{Name: Normalize(f.Name)},
			Value: fl.emitRecordValue(f.Value),
		})
	}
	return out
}

func (fl *fnLowerer) emitRecordValue(value source.Node) target.Node {
	switch v := value.(type) {
	case *source.Block:
		if init, empty, def, ok := nullCoalesce(v); ok {
			fl.sink.Report(diagnostics.LevelHint, diagnostics.CategoryInlineRewrite, v.Span(),
				"null-coalescing statement pair re-lowered to an inline conditional")
			var elseNode target.Node
			if def != nil {
				elseNode = fl.compileNode(def)
			}
			// The comparand carries over: an empty-string test must stay an
			// empty-string test, not become a nil test.
			return &target.If{
				Cond:   &target.BinOp{Op: "!=", Left: fl.compileNode(init), Right: fl.compileNode(empty)},
				Then:   fl.compileNode(init),
				Else:   elseNode,
				Inline: true,
			}
		}
		return fl.compileNode(v)
	case *source.VarRef:
		if fl.renames != nil {
			if mapped, ok := fl.renames[v.Name]; ok {
				return &target.Var{Name: mapped}
			}
		}
		return fl.compileNode(v)
	default:
		return fl.compileNode(value)
	}
}

// nullCoalesce recognizes exactly the two-statement shape
//
//	temp = <init>
//	if temp != <empty> then temp else <default>
//
// where the conditional reads the temporary just declared and <empty> is
// null or the empty string. Any other two-statement block stays untouched.
// empty is the exact comparand the source tested against.
func nullCoalesce(blk *source.Block) (init, empty, def source.Node, ok bool) {
	if len(blk.Stmts) != 2 {
		return nil, nil, nil, false
	}
	decl, ok1 := blk.Stmts[0].(*source.VarDecl)
	sel, ok2 := blk.Stmts[1].(*source.If)
	if !ok1 || !ok2 || decl.Init == nil {
		return nil, nil, nil, false
	}
	cond, ok3 := sel.Cond.(*source.Binary)
	if !ok3 || cond.Op != "!=" {
		return nil, nil, nil, false
	}
	lhs, ok4 := cond.Left.(*source.VarRef)
	if !ok4 || lhs.ID != decl.ID || !isEmptyConst(cond.Right) {
		return nil, nil, nil, false
	}
	then, ok5 := sel.Then.(*source.VarRef)
	if !ok5 || then.ID != decl.ID {
		return nil, nil, nil, false
	}
	return decl.Init, cond.Right, sel.Else, true
}

func isEmptyConst(n source.Node) bool {
	c, ok := n.(*source.Const)
	if !ok {
		return false
	}
	return c.Kind == source.ConstNull || (c.Kind == source.ConstString && c.Str == "")
}
