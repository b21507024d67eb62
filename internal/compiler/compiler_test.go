package compiler_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libklein/jackc/internal/compiler"
	"github.com/libklein/jackc/internal/jack"
	"github.com/libklein/jackc/internal/vmcode"
)

func compile(t *testing.T, src string) string {
	t.Helper()
	tok, err := jack.NewTokenizer(strings.NewReader(src))
	require.NoError(t, err)

	var buf strings.Builder
	writer := vmcode.New(&buf)
	compiler.New("test.jack", tok, writer).Compile()
	require.NoError(t, writer.Err())
	return buf.String()
}

func compileErr(t *testing.T, src string) (out string, err error) {
	t.Helper()
	tok, tokErr := jack.NewTokenizer(strings.NewReader(src))
	if tokErr != nil {
		return "", tokErr
	}
	var buf strings.Builder
	writer := vmcode.New(&buf)
	func() {
		defer func() {
			if r := recover(); r != nil {
				if e, ok := r.(error); ok {
					err = e
				}
			}
		}()
		compiler.New("test.jack", tok, writer).Compile()
	}()
	return buf.String(), err
}

func lines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// Scenario 1: identity expression.
func TestCompile_IdentityExpression(t *testing.T) {
	out := compile(t, `class A { function void f() { return; } }`)
	assert.Equal(t, []string{
		"function A.f 0",
		"push constant 0",
		"return",
	}, lines(out))
}

// Scenario 2: constructor allocates fields and binds this.
func TestCompile_Constructor(t *testing.T) {
	out := compile(t, `class P { field int x, y; constructor P new() { return this; } }`)
	assert.Equal(t, []string{
		"function P.new 0",
		"push constant 2",
		"call Memory.alloc 1",
		"pop pointer 0",
		"push pointer 0",
		"return",
	}, lines(out))
}

// Scenario 3: a bare call inside a method pushes the implicit receiver.
func TestCompile_MethodCallOnSelf(t *testing.T) {
	out := compile(t, `class C {
		method void m() { do g(); return; }
		method void g() { return; }
	}`)
	assert.Contains(t, out, "push pointer 0\ncall C.g 1\npop temp 0\n")
}

// Scenario 4: array assignment with nested subscript on the RHS.
func TestCompile_ArrayAssignmentNestedSubscript(t *testing.T) {
	out := compile(t, `class A {
		function void f(Array a, Array b, int i, int j) {
			let a[i] = b[j];
			return;
		}
	}`)
	assert.Equal(t, []string{
		"function A.f 0",
		// LHS address: a[i]
		"push argument 2", // i
		"push argument 0", // a
		"add",
		// RHS: b[j]
		"push argument 3", // j
		"push argument 1", // b
		"add",
		"pop pointer 1",
		"push that 0",
		// assignment indirection
		"pop temp 0",
		"pop pointer 1",
		"push temp 0",
		"pop that 0",
		"push constant 0",
		"return",
	}, lines(out))
}

// Scenario 5: while with a unary operand; double `not` is intentional.
func TestCompile_WhileWithUnary(t *testing.T) {
	out := compile(t, `class A {
		function void f() {
			var boolean x;
			while (~x) { let x = 0; }
			return;
		}
	}`)
	assert.Equal(t, []string{
		"function A.f 1",
		"label WHILE_EXP0",
		"push local 0",
		"not",
		"not",
		"if-goto WHILE_END0",
		"push constant 0",
		"pop local 0",
		"goto WHILE_EXP0",
		"label WHILE_END0",
		"push constant 0",
		"return",
	}, lines(out))
}

// Scenario 6: sibling ifs get distinct counters; a nested if inside a
// while advances the if-counter independently of the while-counter.
func TestCompile_IfElseLabelsAreSequential(t *testing.T) {
	out := compile(t, `class A {
		function void f(boolean a, boolean b) {
			if (a) { let a = false; } else { let a = true; }
			if (b) { let b = false; }
			return;
		}
	}`)
	assert.Contains(t, out, "IF_TRUE0")
	assert.Contains(t, out, "IF_FALSE0")
	assert.Contains(t, out, "IF_END0")
	assert.Contains(t, out, "IF_TRUE1")
	assert.Contains(t, out, "IF_FALSE1")
	assert.NotContains(t, out, "IF_END1") // no else on the second if
}

func TestCompile_NestedIfInsideWhileUsesIndependentCounters(t *testing.T) {
	out := compile(t, `class A {
		function void f(boolean a, boolean b) {
			while (a) {
				if (b) { let a = false; }
			}
			return;
		}
	}`)
	assert.Contains(t, out, "WHILE_EXP0")
	assert.Contains(t, out, "IF_TRUE0")
	assert.Contains(t, out, "IF_FALSE0")
}

// Arithmetic is strictly left to right: 2+3*4 is (2+3)*4, not 2+(3*4).
func TestCompile_NoOperatorPrecedence(t *testing.T) {
	out := compile(t, `class A { function void f() { do g(2+3*4); return; } method void g(int x) { return; } }`)
	assert.Equal(t, []string{
		"function A.f 0",
		"push pointer 0",
		"push constant 2",
		"push constant 3",
		"add",
		"push constant 4",
		"call Math.multiply 2",
		"call A.g 2",
		"pop temp 0",
		"push constant 0",
		"return",
		"function A.g 0",
		"push argument 0",
		"pop pointer 0",
		"push constant 0",
		"return",
	}, lines(out))
}

// function's local count equals the number of var-declared names.
func TestCompile_LocalCountMatchesVarDecls(t *testing.T) {
	out := compile(t, `class A {
		function void f() {
			var int a, b;
			var boolean c;
			return;
		}
	}`)
	assert.Equal(t, "function A.f 3", lines(out)[0])
}

// Empty parameter list and empty expression list emit `call ... 0` for a
// function, and the implicit receiver only for a method call.
func TestCompile_EmptyArgLists(t *testing.T) {
	out := compile(t, `class A {
		function void f() { do Sys.wait(); return; }
	}`)
	assert.Contains(t, out, "call Sys.wait 0")
}

func TestCompile_StringConstant(t *testing.T) {
	out := compile(t, `class A { function void f() { do Output.printString("hi"); return; } }`)
	assert.Equal(t, []string{
		"function A.f 0",
		"push constant 2",
		"call String.new 1",
		"pop temp 0",
		"push temp 0",
		"push constant 104",
		"call String.appendChar 2",
		"pop temp 1",
		"push temp 0",
		"push constant 105",
		"call String.appendChar 2",
		"pop temp 1",
		"push temp 0",
		"call Output.printString 1",
		"pop temp 0",
		"push constant 0",
		"return",
	}, lines(out))
}

func TestCompile_UndefinedVariableIsSemanticError(t *testing.T) {
	_, err := compileErr(t, `class A { function void f() { let q = 1; return; } }`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SemanticError")
}

func TestCompile_DuplicateDefinitionIsSemanticError(t *testing.T) {
	_, err := compileErr(t, `class A { function void f() { var int x; var int x; return; } }`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SemanticError")
}

func TestCompile_MethodCallOnVariableUsesDeclaredType(t *testing.T) {
	out := compile(t, `class A {
		function void f() {
			var B b;
			do b.go();
			return;
		}
	}`)
	assert.Contains(t, out, "call B.go 1")
}

func TestCompile_ClassNameCallIsUnqualifiedFunction(t *testing.T) {
	out := compile(t, `class A { function void f() { do Memory.deAlloc(0); return; } }`)
	assert.Contains(t, out, "call Memory.deAlloc 1")
}
