// Package vmcode implements the thin, stateless emitter that serializes VM
// stack-machine instructions as ASCII, LF-terminated lines.
package vmcode

import (
	"fmt"
	"io"
)

// Segment names one of the eight addressable VM memory segments.
type Segment string

const (
	Argument Segment = "argument"
	Local    Segment = "local"
	Static   Segment = "static"
	This     Segment = "this"
	That     Segment = "that"
	Pointer  Segment = "pointer"
	Temp     Segment = "temp"
	Constant Segment = "constant"
)

// Op names a VM arithmetic/logical operator.
type Op string

const (
	Add Op = "add"
	Sub Op = "sub"
	Neg Op = "neg"
	Eq  Op = "eq"
	Gt  Op = "gt"
	Lt  Op = "lt"
	And Op = "and"
	Or  Op = "or"
	Not Op = "not"
)

// IllegalPop is returned by Pop when asked to pop into the constant
// segment, which has no address to pop into.
type IllegalPop struct{ Segment Segment }

func (e *IllegalPop) Error() string {
	return fmt.Sprintf("cannot pop into segment %q", e.Segment)
}

// Writer emits VM instructions to an underlying io.Writer. It holds no
// state of its own beyond the sink and the first write error: every call
// maps directly to one line of output.
type Writer struct {
	w   io.Writer
	err error
}

// New wraps w as a VM instruction sink.
func New(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Err returns the first write error encountered, if any.
func (w *Writer) Err() error { return w.err }

func (w *Writer) emit(line string) {
	if w.err != nil {
		return
	}
	_, err := fmt.Fprintf(w.w, "%s\n", line)
	if err != nil {
		w.err = err
	}
}

// Push emits "push <segment> <index>".
func (w *Writer) Push(seg Segment, index int) {
	w.emit(fmt.Sprintf("push %s %d", seg, index))
}

// Pop emits "pop <segment> <index>". Popping into constant is rejected.
func (w *Writer) Pop(seg Segment, index int) error {
	if seg == Constant {
		return &IllegalPop{Segment: seg}
	}
	w.emit(fmt.Sprintf("pop %s %d", seg, index))
	return nil
}

// binaryOpLines maps each binary operator to its direct VM arithmetic
// instruction. '*' and '/' are not in it; see Mul and Div.
var binaryOpLines = map[Op]string{
	Add: "add",
	Sub: "sub",
	Eq:  "eq",
	Gt:  "gt",
	Lt:  "lt",
	And: "and",
	Or:  "or",
}

// Arithmetic emits the instruction(s) for a unary or binary operator. '*'
// and '/' are not represented by Op directly -- callers ask for them via
// Mul/Div, which lower to Math.multiply/Math.divide calls.
func (w *Writer) Arithmetic(op Op) {
	if line, ok := binaryOpLines[op]; ok {
		w.emit(line)
		return
	}
	switch op {
	case Neg:
		w.emit("neg")
	case Not:
		w.emit("not")
	default:
		w.emit(string(op))
	}
}

// Mul emits a call to Math.multiply, the VM's representation of '*'.
func (w *Writer) Mul() { w.Call("Math.multiply", 2) }

// Div emits a call to Math.divide, the VM's representation of '/'.
func (w *Writer) Div() { w.Call("Math.divide", 2) }

// Label emits "label <name>".
func (w *Writer) Label(name string) { w.emit("label " + name) }

// Goto emits "goto <name>".
func (w *Writer) Goto(name string) { w.emit("goto " + name) }

// IfGoto emits "if-goto <name>".
func (w *Writer) IfGoto(name string) { w.emit("if-goto " + name) }

// Call emits "call <name> <nArgs>".
func (w *Writer) Call(name string, nArgs int) {
	w.emit(fmt.Sprintf("call %s %d", name, nArgs))
}

// Function emits "function <name> <nLocals>".
func (w *Writer) Function(name string, nLocals int) {
	w.emit(fmt.Sprintf("function %s %d", name, nLocals))
}

// Return emits "return". If void is true, it first pushes constant 0 so
// every VM function leaves exactly one value on the stack.
func (w *Writer) Return(void bool) {
	if void {
		w.Push(Constant, 0)
	}
	w.emit("return")
}
