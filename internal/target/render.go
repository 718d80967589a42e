package target

import (
	"fmt"
	"strconv"
	"strings"
)

// Render produces the textual form of a node. Rendering is a pure function
// of the tree: the same tree always produces the same bytes.
func Render(n Node) string {
	r := &renderer{}
	r.node(n)
	return r.b.String()
}

type renderer struct {
	b      strings.Builder
	indent int
}

func (r *renderer) writeIndent() {
	for i := 0; i < r.indent; i++ {
		r.b.WriteString("  ")
	}
}

func (r *renderer) node(n Node) {
	switch v := n.(type) {
	case *Atom:
		r.b.WriteString(renderAtom(v.Name))
	case *Int:
		r.b.WriteString(strconv.FormatInt(v.Value, 10))
	case *Float:
		r.b.WriteString(strconv.FormatFloat(v.Value, 'g', -1, 64))
	case *Str:
		r.b.WriteString(quoteString(v.Value))
	case *Bool:
		r.b.WriteString(strconv.FormatBool(v.Value))
	case *Nil:
		r.b.WriteString("nil")
	case *Var:
		r.b.WriteString(v.Name)
	case *Tuple:
		r.b.WriteString("{")
		r.nodeList(v.Elems)
		r.b.WriteString("}")
	case *List:
		r.b.WriteString("[")
		r.nodeList(v.Elems)
		r.b.WriteString("]")
	case *Map:
		r.mapLit(v)
	case *KeywordList:
		r.keywordList(v)
	case *Case:
		r.caseExpr(v)
	case *If:
		r.ifExpr(v)
	case *BinOp:
		r.operand(v.Left)
		r.b.WriteString(" " + v.Op + " ")
		r.operand(v.Right)
	case *UnOp:
		r.b.WriteString(v.Op)
		if isWordOp(v.Op) {
			r.b.WriteString(" ")
		}
		r.operand(v.Operand)
	case *Call:
		r.call(v)
	case *Dot:
		r.operand(v.Obj)
		r.b.WriteString("." + v.Name)
	case *Apply:
		r.operand(v.Callee)
		r.b.WriteString(".(")
		r.nodeList(v.Args)
		r.b.WriteString(")")
	case *MacroCall:
		r.b.WriteString(v.Name)
		for i, a := range v.Args {
			if i == 0 {
				r.b.WriteString(" ")
			} else {
				r.b.WriteString(", ")
			}
			r.node(a)
		}
	case *Fn:
		r.fn(v)
	case *Assign:
		r.b.WriteString(v.Name + " = ")
		r.node(v.Value)
	case *Block:
		r.block(v)
	case *Raw:
		r.b.WriteString(v.Text)
	case *FuncDef:
		r.funcDef(v)
	case *Module:
		r.module(v)
	default:
		// The node set is closed; reaching this is a construction bug.
		r.b.WriteString(fmt.Sprintf("<unrenderable %T>", n))
	}
}

func (r *renderer) nodeList(elems []Node) {
	for i, e := range elems {
		if i > 0 {
			r.b.WriteString(", ")
		}
		r.node(e)
	}
}

// operand parenthesizes nested operator expressions so precedence never
// depends on the reader.
func (r *renderer) operand(n Node) {
	switch n.(type) {
	case *BinOp, *UnOp:
		r.b.WriteString("(")
		r.node(n)
		r.b.WriteString(")")
	default:
		r.node(n)
	}
}

func (r *renderer) mapLit(m *Map) {
	r.b.WriteString("%{")
	for i, p := range m.Pairs {
		if i > 0 {
			r.b.WriteString(", ")
		}
		r.pair(p)
	}
	r.b.WriteString("}")
}

func (r *renderer) keywordList(k *KeywordList) {
	r.b.WriteString("[")
	for i, p := range k.Pairs {
		if i > 0 {
			r.b.WriteString(", ")
		}
		r.pair(p)
	}
	r.b.WriteString("]")
}

// pair renders shorthand key: form for plain atom keys and arrow form for
// everything else.
func (r *renderer) pair(p Pair) {
	if a, ok := p.Key.(*Atom); ok && isPlainAtom(a.Name) {
		r.b.WriteString(a.Name + ": ")
		r.node(p.Value)
		return
	}
	r.node(p.Key)
	r.b.WriteString(" => ")
	r.node(p.Value)
}

func (r *renderer) caseExpr(c *Case) {
	r.b.WriteString("case ")
	r.node(c.Subject)
	r.b.WriteString(" do\n")
	r.indent++
	for _, cl := range c.Clauses {
		// A clause with several patterns is an alternation: each pattern
		// gets its own head with the shared guard and body.
		for _, pat := range cl.Patterns {
			r.writeIndent()
			r.node(pat)
			if cl.Guard != nil {
				r.b.WriteString(" when ")
				r.node(cl.Guard)
			}
			r.b.WriteString(" ->\n")
			r.indent++
			r.writeIndent()
			r.bodyLines(cl.Body)
			r.b.WriteString("\n")
			r.indent--
		}
	}
	r.indent--
	r.writeIndent()
	r.b.WriteString("end")
}

func (r *renderer) ifExpr(v *If) {
	if v.Inline {
		r.b.WriteString("if(")
		r.node(v.Cond)
		r.b.WriteString(", do: ")
		r.node(v.Then)
		if v.Else != nil {
			r.b.WriteString(", else: ")
			r.node(v.Else)
		}
		r.b.WriteString(")")
		return
	}
	r.b.WriteString("if ")
	r.node(v.Cond)
	r.b.WriteString(" do\n")
	r.indent++
	r.writeIndent()
	r.bodyLines(v.Then)
	r.b.WriteString("\n")
	r.indent--
	if v.Else != nil {
		r.writeIndent()
		r.b.WriteString("else\n")
		r.indent++
		r.writeIndent()
		r.bodyLines(v.Else)
		r.b.WriteString("\n")
		r.indent--
	}
	r.writeIndent()
	r.b.WriteString("end")
}

func (r *renderer) call(c *Call) {
	if c.Module != "" {
		r.b.WriteString(c.Module + ".")
	}
	r.b.WriteString(c.Fun + "(")
	// A trailing anonymous function renders in block style, matching how
	// Enum pipelines are written by hand.
	last := len(c.Args) - 1
	for i, a := range c.Args {
		if i > 0 {
			r.b.WriteString(", ")
		}
		if i == last {
			if f, ok := a.(*Fn); ok {
				r.fnBlock(f)
				continue
			}
		}
		r.node(a)
	}
	r.b.WriteString(")")
}

func (r *renderer) fn(f *Fn) {
	r.b.WriteString("fn ")
	r.b.WriteString(strings.Join(f.Params, ", "))
	r.b.WriteString(" -> ")
	r.node(f.Body)
	r.b.WriteString(" end")
}

func (r *renderer) fnBlock(f *Fn) {
	r.b.WriteString("fn ")
	r.b.WriteString(strings.Join(f.Params, ", "))
	r.b.WriteString(" ->\n")
	r.indent++
	r.writeIndent()
	r.bodyLines(f.Body)
	r.b.WriteString("\n")
	r.indent--
	r.writeIndent()
	r.b.WriteString("end")
}

func (r *renderer) block(b *Block) {
	for i, s := range b.Stmts {
		if i > 0 {
			r.b.WriteString("\n")
			r.writeIndent()
		}
		r.node(s)
	}
}

// bodyLines renders a clause or branch body at the current indent.
func (r *renderer) bodyLines(n Node) {
	if n == nil {
		r.b.WriteString("nil")
		return
	}
	r.node(n)
}

func (r *renderer) funcDef(f *FuncDef) {
	r.writeIndent()
	r.b.WriteString("def " + f.Name + "(" + strings.Join(f.Params, ", ") + ") do\n")
	r.indent++
	r.writeIndent()
	r.bodyLines(f.Body)
	r.b.WriteString("\n")
	r.indent--
	r.writeIndent()
	r.b.WriteString("end")
}

func (r *renderer) module(m *Module) {
	r.b.WriteString("defmodule " + m.Name + " do\n")
	r.indent++
	for i := range m.Funcs {
		if i > 0 {
			r.b.WriteString("\n")
		}
		r.funcDef(&m.Funcs[i])
		r.b.WriteString("\n")
	}
	r.indent--
	r.b.WriteString("end\n")
}

// renderAtom picks the lightest syntax an atom name permits: bare alias,
// colon form, or quoted colon form.
func renderAtom(name string) string {
	if isAlias(name) {
		return name
	}
	if isPlainAtom(name) {
		return ":" + name
	}
	return `:"` + escapeAtom(name) + `"`
}

func isAlias(name string) bool {
	if name == "" || name[0] < 'A' || name[0] > 'Z' {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if !isAlnum(c) && c != '_' && c != '.' {
			return false
		}
	}
	return true
}

func isPlainAtom(name string) bool {
	if name == "" {
		return false
	}
	c := name[0]
	if !(c >= 'a' && c <= 'z') && c != '_' {
		return false
	}
	for i := 1; i < len(name); i++ {
		c := name[i]
		if isAlnum(c) || c == '_' {
			continue
		}
		// ? and ! are legal only as the final character.
		if (c == '?' || c == '!') && i == len(name)-1 {
			continue
		}
		return false
	}
	return true
}

func isAlnum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isWordOp(op string) bool {
	return op == "not" || op == "and" || op == "or"
}

func escapeAtom(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

func quoteString(s string) string {
	var b strings.Builder
	b.WriteString(`"`)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '#':
			// Interpolation must stay literal.
			if i+1 < len(s) && s[i+1] == '{' {
				b.WriteString(`\#`)
			} else {
				b.WriteByte(c)
			}
		default:
			b.WriteByte(c)
		}
	}
	b.WriteString(`"`)
	return b.String()
}
