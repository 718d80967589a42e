package source

import (
	"encoding/json"
	"fmt"

	"github.com/exalt-lang/exalt/internal/position"
)

// The frontend serializes typed trees as kind-tagged JSON objects. Decoding
// is strict about kinds: an unknown kind is a malformed unit, not a
// degradation case, because the frontend and backend must agree on the node
// set.

type rawSpan struct {
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
	Col     int    `json:"col,omitempty"`
	EndLine int    `json:"endLine,omitempty"`
	EndCol  int    `json:"endCol,omitempty"`
}

func (rs *rawSpan) span() position.Span {
	if rs == nil {
		return position.Span{}
	}
	endLine, endCol := rs.EndLine, rs.EndCol
	if endLine == 0 {
		endLine, endCol = rs.Line, rs.Col
	}
	return position.NewSpan(rs.File, rs.Line, rs.Col, endLine, endCol)
}

type rawNode struct {
	Kind    string            `json:"kind"`
	Span    *rawSpan          `json:"span,omitempty"`
	Const   string            `json:"const,omitempty"`
	Int     int64             `json:"int,omitempty"`
	Float   float64           `json:"float,omitempty"`
	Bool    bool              `json:"bool,omitempty"`
	Str     string            `json:"str,omitempty"`
	ID      int               `json:"id,omitempty"`
	Name    string            `json:"name,omitempty"`
	Init    json.RawMessage   `json:"init,omitempty"`
	Value   json.RawMessage   `json:"value,omitempty"`
	Recv    json.RawMessage   `json:"recv,omitempty"`
	Args    []json.RawMessage `json:"args,omitempty"`
	Obj     json.RawMessage   `json:"obj,omitempty"`
	Cond    json.RawMessage   `json:"cond,omitempty"`
	Then    json.RawMessage   `json:"then,omitempty"`
	Else    json.RawMessage   `json:"else,omitempty"`
	Stmts   []json.RawMessage `json:"stmts,omitempty"`
	Body    json.RawMessage   `json:"body,omitempty"`
	Seq     json.RawMessage   `json:"seq,omitempty"`
	VarID   int               `json:"varId,omitempty"`
	VarName string            `json:"varName,omitempty"`
	Subject json.RawMessage   `json:"subject,omitempty"`
	Arms    []rawArm          `json:"arms,omitempty"`
	Default json.RawMessage   `json:"default,omitempty"`
	Fields  []rawField        `json:"fields,omitempty"`
	Elems   []json.RawMessage `json:"elems,omitempty"`
	Op      string            `json:"op,omitempty"`
	Operand json.RawMessage   `json:"operand,omitempty"`
	Left    json.RawMessage   `json:"left,omitempty"`
	Right   json.RawMessage   `json:"right,omitempty"`
	Params  []rawParam        `json:"params,omitempty"`
}

type rawArm struct {
	Values []json.RawMessage `json:"values,omitempty"`
	Guard  json.RawMessage   `json:"guard,omitempty"`
	Body   json.RawMessage   `json:"body,omitempty"`
}

type rawField struct {
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value"`
}

type rawParam struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type rawFunction struct {
	Name   string          `json:"name"`
	Params []rawParam      `json:"params,omitempty"`
	Body   json.RawMessage `json:"body"`
	Span   *rawSpan        `json:"span,omitempty"`
}

type rawUnit struct {
	Module    string            `json:"module"`
	Functions []rawFunction     `json:"functions"`
	Variants  []Variant         `json:"variants,omitempty"`
	Renames   map[string]string `json:"renames,omitempty"`
}

// DecodeUnit parses one serialized compilation unit.
func DecodeUnit(data []byte) (*Unit, error) {
	var ru rawUnit
	if err := json.Unmarshal(data, &ru); err != nil {
		return nil, fmt.Errorf("unit decode: %w", err)
	}
	if ru.Module == "" {
		return nil, fmt.Errorf("unit decode: missing module name")
	}
	u := &Unit{
		Module:   ru.Module,
		Variants: ru.Variants,
		Renames:  ru.Renames,
	}
	for _, rf := range ru.Functions {
		fn, err := decodeFunction(rf)
		if err != nil {
			return nil, fmt.Errorf("function %q: %w", rf.Name, err)
		}
		u.Functions = append(u.Functions, fn)
	}
	return u, nil
}

func decodeFunction(rf rawFunction) (*Function, error) {
	if rf.Name == "" {
		return nil, fmt.Errorf("missing function name")
	}
	body, err := DecodeNode(rf.Body)
	if err != nil {
		return nil, err
	}
	fn := &Function{Name: rf.Name, Body: body, Loc: rf.Span.span()}
	for _, rp := range rf.Params {
		fn.Params = append(fn.Params, Param{ID: rp.ID, Name: rp.Name})
	}
	return fn, nil
}

// DecodeNode parses one kind-tagged node. A nil or empty message decodes to
// a nil node, which callers treat as an absent optional child.
func DecodeNode(data json.RawMessage) (Node, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	var rn rawNode
	if err := json.Unmarshal(data, &rn); err != nil {
		return nil, fmt.Errorf("node decode: %w", err)
	}
	return decodeRaw(&rn)
}

func decodeRaw(rn *rawNode) (Node, error) {
	loc := rn.Span.span()
	switch rn.Kind {
	case "const":
		return decodeConst(rn, loc)
	case "var":
		return &VarRef{Loc: loc, ID: rn.ID, Name: rn.Name}, nil
	case "decl":
		init, err := DecodeNode(rn.Init)
		if err != nil {
			return nil, err
		}
		return &VarDecl{Loc: loc, ID: rn.ID, Name: rn.Name, Init: init}, nil
	case "assign":
		value, err := DecodeNode(rn.Value)
		if err != nil {
			return nil, err
		}
		return &VarAssign{Loc: loc, ID: rn.ID, Name: rn.Name, Value: value}, nil
	case "call":
		recv, err := DecodeNode(rn.Recv)
		if err != nil {
			return nil, err
		}
		args, err := decodeList(rn.Args)
		if err != nil {
			return nil, err
		}
		return &Call{Loc: loc, Recv: recv, Name: rn.Name, Args: args}, nil
	case "field":
		obj, err := DecodeNode(rn.Obj)
		if err != nil {
			return nil, err
		}
		return &FieldAccess{Loc: loc, Obj: obj, Name: rn.Name}, nil
	case "if":
		cond, err := DecodeNode(rn.Cond)
		if err != nil {
			return nil, err
		}
		then, err := DecodeNode(rn.Then)
		if err != nil {
			return nil, err
		}
		els, err := DecodeNode(rn.Else)
		if err != nil {
			return nil, err
		}
		return &If{Loc: loc, Cond: cond, Then: then, Else: els}, nil
	case "block":
		stmts, err := decodeList(rn.Stmts)
		if err != nil {
			return nil, err
		}
		return &Block{Loc: loc, Stmts: stmts}, nil
	case "while":
		cond, err := DecodeNode(rn.Cond)
		if err != nil {
			return nil, err
		}
		body, err := DecodeNode(rn.Body)
		if err != nil {
			return nil, err
		}
		return &While{Loc: loc, Cond: cond, Body: body}, nil
	case "foreach":
		seq, err := DecodeNode(rn.Seq)
		if err != nil {
			return nil, err
		}
		body, err := DecodeNode(rn.Body)
		if err != nil {
			return nil, err
		}
		return &ForEach{Loc: loc, VarID: rn.VarID, VarName: rn.VarName, Seq: seq, Body: body}, nil
	case "switch":
		subject, err := DecodeNode(rn.Subject)
		if err != nil {
			return nil, err
		}
		def, err := DecodeNode(rn.Default)
		if err != nil {
			return nil, err
		}
		sw := &Switch{Loc: loc, Subject: subject, Default: def}
		for _, ra := range rn.Arms {
			values, err := decodeList(ra.Values)
			if err != nil {
				return nil, err
			}
			guard, err := DecodeNode(ra.Guard)
			if err != nil {
				return nil, err
			}
			body, err := DecodeNode(ra.Body)
			if err != nil {
				return nil, err
			}
			sw.Arms = append(sw.Arms, Arm{Values: values, Guard: guard, Body: body})
		}
		return sw, nil
	case "object":
		obj := &ObjectLit{Loc: loc}
		for _, rf := range rn.Fields {
			value, err := DecodeNode(rf.Value)
			if err != nil {
				return nil, err
			}
			obj.Fields = append(obj.Fields, ObjectField{Name: rf.Name, Value: value})
		}
		return obj, nil
	case "array":
		elems, err := decodeList(rn.Elems)
		if err != nil {
			return nil, err
		}
		return &ArrayLit{Loc: loc, Elems: elems}, nil
	case "unary":
		operand, err := DecodeNode(rn.Operand)
		if err != nil {
			return nil, err
		}
		return &Unary{Loc: loc, Op: rn.Op, Operand: operand}, nil
	case "binary":
		left, err := DecodeNode(rn.Left)
		if err != nil {
			return nil, err
		}
		right, err := DecodeNode(rn.Right)
		if err != nil {
			return nil, err
		}
		return &Binary{Loc: loc, Op: rn.Op, Left: left, Right: right}, nil
	case "return":
		value, err := DecodeNode(rn.Value)
		if err != nil {
			return nil, err
		}
		return &Return{Loc: loc, Value: value}, nil
	case "break":
		return &Break{Loc: loc}, nil
	case "continue":
		return &Continue{Loc: loc}, nil
	case "funclit":
		body, err := DecodeNode(rn.Body)
		if err != nil {
			return nil, err
		}
		fl := &FuncLit{Loc: loc, Body: body}
		for _, rp := range rn.Params {
			fl.Params = append(fl.Params, Param{ID: rp.ID, Name: rp.Name})
		}
		return fl, nil
	default:
		return nil, fmt.Errorf("node decode: unknown kind %q", rn.Kind)
	}
}

func decodeConst(rn *rawNode, loc position.Span) (Node, error) {
	c := &Const{Loc: loc}
	switch rn.Const {
	case "int":
		c.Kind = ConstInt
		c.Int = rn.Int
	case "float":
		c.Kind = ConstFloat
		c.Float = rn.Float
	case "bool":
		c.Kind = ConstBool
		c.Bool = rn.Bool
	case "string":
		c.Kind = ConstString
		c.Str = rn.Str
	case "null":
		c.Kind = ConstNull
	default:
		return nil, fmt.Errorf("node decode: unknown const kind %q", rn.Const)
	}
	return c, nil
}

func decodeList(raws []json.RawMessage) ([]Node, error) {
	if len(raws) == 0 {
		return nil, nil
	}
	out := make([]Node, 0, len(raws))
	for _, r := range raws {
		n, err := DecodeNode(r)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
