// Package jack implements the lexical and symbol-table layer of the Jack
// compiler: the tokenizer and the two-scope symbol table that the
// compiler engine drives.
package jack

// Keywords is the fixed set of Jack reserved words. A run of identifier
// characters matching one of these (and not immediately followed by another
// identifier character) lexes as a keyword, never as an identifier.
var Keywords = map[string]bool{
	"class": true, "constructor": true, "function": true, "method": true,
	"field": true, "static": true, "var": true, "int": true, "char": true,
	"boolean": true, "void": true, "true": true, "false": true, "null": true,
	"this": true, "let": true, "do": true, "if": true, "else": true,
	"while": true, "return": true,
}

// Symbols is the fixed set of single-character Jack symbols.
var Symbols = map[byte]bool{
	'{': true, '}': true, '(': true, ')': true, '[': true, ']': true,
	'.': true, ',': true, ';': true, '+': true, '-': true, '*': true,
	'/': true, '&': true, '|': true, '<': true, '>': true, '=': true,
	'~': true,
}

// MaxIntegerConstant is the largest integer literal value Jack accepts.
const MaxIntegerConstant = 32767

// xmlEscapes holds the translation table used only by the diagnostic XML
// view (never applied to VM output).
var xmlEscapes = map[byte]string{
	'&': "&amp;",
	'<': "&lt;",
	'>': "&gt;",
}

// EscapeXML translates the three Jack symbols that are special in XML.
// It exists for parity with the classic Jack tool chain's diagnostic
// "-T" view; the VM writer never calls it.
func EscapeXML(symbol byte) string {
	if esc, ok := xmlEscapes[symbol]; ok {
		return esc
	}
	return string(symbol)
}
