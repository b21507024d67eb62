package vmcode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_PushPop(t *testing.T) {
	var buf strings.Builder
	w := New(&buf)
	w.Push(Argument, 0)
	require.NoError(t, w.Pop(Local, 1))
	assert.Equal(t, "push argument 0\npop local 1\n", buf.String())
}

func TestWriter_PopConstantIsIllegal(t *testing.T) {
	var buf strings.Builder
	w := New(&buf)
	err := w.Pop(Constant, 0)
	require.Error(t, err)
	var illegal *IllegalPop
	assert.ErrorAs(t, err, &illegal)
}

func TestWriter_ArithmeticMulDivRouteThroughMath(t *testing.T) {
	var buf strings.Builder
	w := New(&buf)
	w.Mul()
	w.Div()
	assert.Equal(t, "call Math.multiply 2\ncall Math.divide 2\n", buf.String())
}

func TestWriter_ArithmeticDirectOps(t *testing.T) {
	var buf strings.Builder
	w := New(&buf)
	w.Arithmetic(Add)
	w.Arithmetic(Neg)
	w.Arithmetic(Not)
	assert.Equal(t, "add\nneg\nnot\n", buf.String())
}

func TestWriter_LabelsAndControlFlow(t *testing.T) {
	var buf strings.Builder
	w := New(&buf)
	w.Label("IF_TRUE0")
	w.Goto("IF_END0")
	w.IfGoto("IF_FALSE0")
	assert.Equal(t, "label IF_TRUE0\ngoto IF_END0\nif-goto IF_FALSE0\n", buf.String())
}

func TestWriter_CallAndFunction(t *testing.T) {
	var buf strings.Builder
	w := New(&buf)
	w.Call("Memory.alloc", 1)
	w.Function("Main.main", 3)
	assert.Equal(t, "call Memory.alloc 1\nfunction Main.main 3\n", buf.String())
}

func TestWriter_ReturnVoidPushesZeroFirst(t *testing.T) {
	var buf strings.Builder
	w := New(&buf)
	w.Return(true)
	assert.Equal(t, "push constant 0\nreturn\n", buf.String())
}

func TestWriter_ReturnNonVoid(t *testing.T) {
	var buf strings.Builder
	w := New(&buf)
	w.Return(false)
	assert.Equal(t, "return\n", buf.String())
}
