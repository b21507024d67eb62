// Package compiler implements the recursive-descent parser and code
// generator that together form the Jack compilation engine. There is no
// AST: each grammar production is a method that both consumes its
// non-terminal from the tokenizer and emits the VM instructions for it,
// consulting and mutating the symbol table as declarations and uses are
// encountered. The engine is driven top-down from Compile, which compiles
// exactly one class.
package compiler

import (
	"fmt"

	"github.com/libklein/jackc/internal/diag"
	"github.com/libklein/jackc/internal/jack"
	"github.com/libklein/jackc/internal/vmcode"
)

// Engine holds everything one class compilation shares: the tokenizer it
// pulls from, the symbol table it mutates, the VM sink it writes to, the
// name of the class under compilation, and the per-subroutine label
// counters. The symbol table is created fresh by New (one Engine per
// class); the label counters are reset at the start of every subroutine,
// as is the subroutine scope (by the symbol table's StartSubroutine).
type Engine struct {
	file string
	tok  *jack.Tokenizer
	sym  *jack.SymbolTable
	out  *vmcode.Writer

	className    string
	ifCounter    int
	whileCounter int
}

// New returns a compilation engine for one file. Call Compile exactly
// once; a fresh Engine is required per class.
func New(file string, tok *jack.Tokenizer, out *vmcode.Writer) *Engine {
	return &Engine{file: file, tok: tok, sym: jack.NewSymbolTable(), out: out}
}

// Compile parses and emits `class C { classVarDec* subroutineDec* }`. It
// panics with a *diag.Error on the first malformed token; callers compile
// one file inside diag.Run to turn that into a returned error.
func (e *Engine) Compile() {
	e.compileClass()
}

func (e *Engine) cur() jack.Token { return e.tok.Current() }

func (e *Engine) advance() {
	if err := e.tok.Advance(); err != nil {
		if le, ok := err.(*jack.LexError); ok {
			panic(&diag.Error{File: e.file, Line: le.Line, Column: le.Column, Kind: diag.Lex, Message: le.Message})
		}
		panic(&diag.Error{File: e.file, Kind: diag.Lex, Message: err.Error()})
	}
}

func (e *Engine) parseErrorf(tok jack.Token, format string, args ...interface{}) {
	panic(diag.Parsef(e.file, tok.Line, tok.Column, tok.Lexeme, format, args...))
}

func (e *Engine) semanticErrorf(tok jack.Token, format string, args ...interface{}) {
	panic(diag.Semanticf(e.file, tok.Line, tok.Column, tok.Lexeme, format, args...))
}

// expect consumes the current token if its lexeme is exactly lexeme,
// otherwise raises a ParseError naming what was expected.
func (e *Engine) expect(lexeme string) jack.Token {
	t := e.cur()
	if !t.Is(lexeme) {
		e.parseErrorf(t, "expected %q, got %q", lexeme, t.Lexeme)
	}
	e.advance()
	return t
}

// expectIdentifier consumes and returns the current token's lexeme if it
// is an identifier.
func (e *Engine) expectIdentifier() string {
	t := e.cur()
	name, err := t.Identifier()
	if err != nil {
		e.parseErrorf(t, "expected identifier, got %q", t.Lexeme)
	}
	e.advance()
	return name
}

// expectType consumes `int|char|boolean|ClassName`.
func (e *Engine) expectType() string {
	t := e.cur()
	if t.IsAny("int", "char", "boolean") {
		e.advance()
		return t.Lexeme
	}
	return e.expectIdentifier()
}

// resolveVariable looks up name in the symbol table and returns the VM
// segment and index to access it. An undefined name used in a value
// context is a SemanticError (spec.md's "treated as a class reference"
// carve-out applies only inside subroutineCall resolution).
func (e *Engine) resolveVariable(tok jack.Token, name string) (vmcode.Segment, int) {
	kind := e.sym.KindOf(name)
	if kind == jack.NONE {
		e.semanticErrorf(tok, "undefined variable %q", name)
	}
	segStr, _ := kind.Segment()
	idx, _ := e.sym.IndexOf(name)
	return vmcode.Segment(segStr), idx
}

// compileClass: `class` className `{` classVarDec* subroutineDec* `}`
func (e *Engine) compileClass() {
	e.expect("class")
	e.className = e.expectIdentifier()
	e.expect("{")

	for e.cur().IsAny("static", "field") {
		e.compileClassVarDec()
	}
	for e.cur().IsAny("constructor", "function", "method") {
		e.compileSubroutineDec()
	}

	e.expect("}")
	if e.cur().Type != jack.Invalid {
		e.parseErrorf(e.cur(), "unexpected content after class body")
	}
}

// compileClassVarDec: (`static`|`field`) type name (`,` name)* `;`
func (e *Engine) compileClassVarDec() {
	kindTok := e.cur()
	var kind jack.Kind
	switch kindTok.Lexeme {
	case "static":
		kind = jack.STATIC
	case "field":
		kind = jack.FIELD
	}
	e.advance()
	typ := e.expectType()
	e.defineSequence(typ, kind)
	e.expect(";")
}

// defineSequence handles the shared `type name (, name)*` shape used by
// classVarDec, parameter lists, and varDec.
func (e *Engine) defineSequence(typ string, kind jack.Kind) {
	for {
		nameTok := e.cur()
		name := e.expectIdentifier()
		if _, err := e.sym.Define(name, typ, kind); err != nil {
			e.semanticErrorf(nameTok, "%v", err)
		}
		if e.cur().Is(",") {
			e.advance()
			continue
		}
		break
	}
}

// compileSubroutineDec: (`constructor`|`function`|`method`) (`void`|type)
// subName `(` parameterList `)` subroutineBody
func (e *Engine) compileSubroutineDec() {
	subKind := e.cur().Lexeme
	e.advance()

	e.sym.StartSubroutine()
	e.ifCounter = 0
	e.whileCounter = 0

	if subKind == "method" {
		// ARG 0 is implicitly bound to the receiver, so every declared
		// parameter takes ARG indices 1..n.
		if _, err := e.sym.Define("this", e.className, jack.ARG); err != nil {
			panic(err)
		}
	}

	if e.cur().Is("void") {
		e.advance()
	} else {
		e.expectType()
	}
	name := e.expectIdentifier()

	e.expect("(")
	if !e.cur().Is(")") {
		e.compileParameterList()
	}
	e.expect(")")

	e.compileSubroutineBody(name, subKind)
}

// compileParameterList: ((type name) (`,` type name)*)?
func (e *Engine) compileParameterList() {
	for {
		typ := e.expectType()
		nameTok := e.cur()
		name := e.expectIdentifier()
		if _, err := e.sym.Define(name, typ, jack.ARG); err != nil {
			e.semanticErrorf(nameTok, "%v", err)
		}
		if e.cur().Is(",") {
			e.advance()
			continue
		}
		break
	}
}

// compileSubroutineBody: `{` varDec* statements `}`, emitting the
// function directive and the constructor/method prologue once all locals
// are known.
func (e *Engine) compileSubroutineBody(name, subKind string) {
	e.expect("{")

	nLocals := 0
	for e.cur().Is("var") {
		nLocals += e.compileVarDec()
	}

	e.out.Function(e.className+"."+name, nLocals)

	switch subKind {
	case "constructor":
		nFields := e.sym.VarCount(jack.FIELD)
		e.out.Push(vmcode.Constant, nFields)
		e.out.Call("Memory.alloc", 1)
		e.out.Pop(vmcode.Pointer, 0)
	case "method":
		e.out.Push(vmcode.Argument, 0)
		e.out.Pop(vmcode.Pointer, 0)
	}

	e.compileStatements()
	e.expect("}")
}

// compileVarDec: `var` type name (`,` name)* `;`, returning the count of
// names declared.
func (e *Engine) compileVarDec() int {
	e.expect("var")
	typ := e.expectType()
	before := e.sym.VarCount(jack.VAR)
	e.defineSequence(typ, jack.VAR)
	e.expect(";")
	return e.sym.VarCount(jack.VAR) - before
}

// compileStatements: statement*, stopping at the first token that does
// not start a statement (the closing `}` of the enclosing block).
func (e *Engine) compileStatements() {
	for {
		switch {
		case e.cur().Is("let"):
			e.compileLet()
		case e.cur().Is("if"):
			e.compileIf()
		case e.cur().Is("while"):
			e.compileWhile()
		case e.cur().Is("do"):
			e.compileDo()
		case e.cur().Is("return"):
			e.compileReturn()
		default:
			return
		}
	}
}

// compileDo: `do` subroutineCall `;`. The call always leaves a return
// value on the stack; do discards it.
func (e *Engine) compileDo() {
	e.expect("do")
	e.compileSubroutineCall()
	if err := e.out.Pop(vmcode.Temp, 0); err != nil {
		panic(err)
	}
	e.expect(";")
}

// compileLet: `let` name (`=` expr | `[` expr `]` `=` expr) `;`
func (e *Engine) compileLet() {
	e.expect("let")
	nameTok := e.cur()
	name := e.expectIdentifier()

	if e.cur().Is("[") {
		e.advance()
		e.generateArrayAddress(nameTok, name)
		e.expect("]")
		e.expect("=")
		e.compileExpression()
		e.expect(";")

		// The indirection through temp 0 is mandatory: the RHS may itself
		// reference arrays and would otherwise clobber `that` before we
		// get to use it as the assignment destination.
		mustPop := func(seg vmcode.Segment, idx int) {
			if err := e.out.Pop(seg, idx); err != nil {
				panic(err)
			}
		}
		mustPop(vmcode.Temp, 0)
		mustPop(vmcode.Pointer, 1)
		e.out.Push(vmcode.Temp, 0)
		mustPop(vmcode.That, 0)
		return
	}

	e.expect("=")
	e.compileExpression()
	e.expect(";")
	seg, idx := e.resolveVariable(nameTok, name)
	if err := e.out.Pop(seg, idx); err != nil {
		panic(err)
	}
}

// generateArrayAddress resolves name's base segment/index, compiles the
// bracketed subscript expression (emitting the index push), then emits
// `push <seg> <idx>; add` so the element's address ends up on the stack.
func (e *Engine) generateArrayAddress(tok jack.Token, name string) {
	seg, idx := e.resolveVariable(tok, name)
	e.compileExpression()
	e.out.Push(seg, idx)
	e.out.Arithmetic(vmcode.Add)
}

// compileIf: `if` `(` cond `)` `{` stmts `}` (`else` `{` stmts `}`)?
func (e *Engine) compileIf() {
	e.expect("if")
	e.expect("(")

	trueLabel := fmt.Sprintf("IF_TRUE%d", e.ifCounter)
	falseLabel := fmt.Sprintf("IF_FALSE%d", e.ifCounter)
	endLabel := fmt.Sprintf("IF_END%d", e.ifCounter)
	e.ifCounter++

	e.compileExpression()
	e.expect(")")

	e.out.IfGoto(trueLabel)
	e.out.Goto(falseLabel)
	e.out.Label(trueLabel)

	e.expect("{")
	e.compileStatements()
	e.expect("}")

	if e.cur().Is("else") {
		e.out.Goto(endLabel)
		e.out.Label(falseLabel)
		e.advance()
		e.expect("{")
		e.compileStatements()
		e.expect("}")
		e.out.Label(endLabel)
	} else {
		e.out.Label(falseLabel)
	}
}

// compileWhile: `while` `(` cond `)` `{` stmts `}`
func (e *Engine) compileWhile() {
	e.expect("while")
	e.expect("(")

	expLabel := fmt.Sprintf("WHILE_EXP%d", e.whileCounter)
	endLabel := fmt.Sprintf("WHILE_END%d", e.whileCounter)
	e.whileCounter++

	e.out.Label(expLabel)
	e.compileExpression()
	e.expect(")")

	e.out.Arithmetic(vmcode.Not)
	e.out.IfGoto(endLabel)

	e.expect("{")
	e.compileStatements()
	e.expect("}")

	e.out.Goto(expLabel)
	e.out.Label(endLabel)
}

// compileReturn: `return` `;` | `return` expr `;`
func (e *Engine) compileReturn() {
	e.expect("return")
	if e.cur().Is(";") {
		e.out.Return(true)
	} else {
		// Permissive by design: a `return expr;` inside a void subroutine
		// compiles exactly what was written rather than being rejected.
		e.compileExpression()
		e.out.Return(false)
	}
	e.expect(";")
}

// compileExpression: term (op term)*, applied strictly left to right --
// Jack has no operator precedence.
func (e *Engine) compileExpression() {
	e.compileTerm()
	for isBinaryOp(e.cur()) {
		op := e.cur()
		e.advance()
		e.compileTerm()
		e.emitBinaryOp(op)
	}
}

// compileExpressionList: (expression (`,` expression)*)?, returning the
// argument count.
func (e *Engine) compileExpressionList() int {
	if e.cur().Is(")") {
		return 0
	}
	n := 1
	e.compileExpression()
	for e.cur().Is(",") {
		e.advance()
		e.compileExpression()
		n++
	}
	return n
}

// compileTerm disambiguates by current token and one-token lookahead, per
// spec.md section 4.4's eight-way term rule.
func (e *Engine) compileTerm() {
	t := e.cur()
	switch {
	case t.Is("("):
		e.advance()
		e.compileExpression()
		e.expect(")")

	case t.Is("-"), t.Is("~"):
		e.advance()
		e.compileTerm()
		if t.Lexeme == "-" {
			e.out.Arithmetic(vmcode.Neg)
		} else {
			e.out.Arithmetic(vmcode.Not)
		}

	case t.Type == jack.IdentifierToken && e.tok.Lookahead() == "[":
		name := t.Lexeme
		e.advance()
		e.expect("[")
		e.generateArrayAddress(t, name)
		e.expect("]")
		if err := e.out.Pop(vmcode.Pointer, 1); err != nil {
			panic(err)
		}
		e.out.Push(vmcode.That, 0)

	case t.Type == jack.IdentifierToken && (e.tok.Lookahead() == "(" || e.tok.Lookahead() == "."):
		name := t.Lexeme
		e.advance()
		e.compileSubroutineCallTail(t, name)

	case t.Type == jack.IntegerConstantToken:
		e.out.Push(vmcode.Constant, t.IntVal)
		e.advance()

	case t.Type == jack.StringConstantToken:
		e.compileStringConstant(t.Lexeme)
		e.advance()

	case t.Is("true"):
		e.out.Push(vmcode.Constant, 0)
		e.out.Arithmetic(vmcode.Not)
		e.advance()

	case t.Is("false"), t.Is("null"):
		e.out.Push(vmcode.Constant, 0)
		e.advance()

	case t.Is("this"):
		e.out.Push(vmcode.Pointer, 0)
		e.advance()

	case t.Type == jack.IdentifierToken:
		seg, idx := e.resolveVariable(t, t.Lexeme)
		e.out.Push(seg, idx)
		e.advance()

	default:
		e.parseErrorf(t, "unexpected token %q in expression", t.Lexeme)
	}
}

// compileStringConstant builds a Jack String object by repeated
// String.appendChar calls, holding the allocated pointer in temp 0 across
// the whole construction so nested calls inside the loop (there are none,
// but future operators on temp must not alias it) can't clobber it.
func (e *Engine) compileStringConstant(s string) {
	e.out.Push(vmcode.Constant, len(s))
	e.out.Call("String.new", 1)
	mustPop := func(seg vmcode.Segment, idx int) {
		if err := e.out.Pop(seg, idx); err != nil {
			panic(err)
		}
	}
	mustPop(vmcode.Temp, 0)
	for _, c := range s {
		e.out.Push(vmcode.Temp, 0)
		e.out.Push(vmcode.Constant, int(c))
		e.out.Call("String.appendChar", 2)
		mustPop(vmcode.Temp, 1)
	}
	e.out.Push(vmcode.Temp, 0)
}

// compileSubroutineCall: `do`'s callee -- the name has not been consumed
// yet.
func (e *Engine) compileSubroutineCall() {
	nameTok := e.cur()
	name := e.expectIdentifier()
	e.compileSubroutineCallTail(nameTok, name)
}

// compileSubroutineCallTail handles the two call shapes once the bare
// name has already been consumed: `name.sub(args)` (method call on a
// variable, or a qualified function/constructor call) and `sub(args)`
// (method call on the enclosing class via the implicit `this`).
func (e *Engine) compileSubroutineCallTail(nameTok jack.Token, name string) {
	switch {
	case e.cur().Is("."):
		e.advance()
		methodName := e.expectIdentifier()

		nArgs := 0
		qualified := name + "." + methodName
		if sym, ok := e.sym.Lookup(name); ok {
			segStr, _ := sym.Kind.Segment()
			e.out.Push(vmcode.Segment(segStr), sym.Index)
			nArgs++
			qualified = sym.Type + "." + methodName
		}

		e.expect("(")
		nArgs += e.compileExpressionList()
		e.expect(")")
		e.out.Call(qualified, nArgs)

	case e.cur().Is("("):
		e.out.Push(vmcode.Pointer, 0)
		e.advance()
		nArgs := 1 + e.compileExpressionList()
		e.expect(")")
		e.out.Call(e.className+"."+name, nArgs)

	default:
		e.parseErrorf(e.cur(), "expected '(' or '.' after %q, got %q", nameTok.Lexeme, e.cur().Lexeme)
	}
}

func isBinaryOp(t jack.Token) bool {
	return t.IsAny("+", "-", "*", "/", "&", "|", "<", ">", "=")
}

func (e *Engine) emitBinaryOp(t jack.Token) {
	switch t.Lexeme {
	case "+":
		e.out.Arithmetic(vmcode.Add)
	case "-":
		e.out.Arithmetic(vmcode.Sub)
	case "*":
		e.out.Mul()
	case "/":
		e.out.Div()
	case "&":
		e.out.Arithmetic(vmcode.And)
	case "|":
		e.out.Arithmetic(vmcode.Or)
	case "<":
		e.out.Arithmetic(vmcode.Lt)
	case ">":
		e.out.Arithmetic(vmcode.Gt)
	case "=":
		e.out.Arithmetic(vmcode.Eq)
	}
}
