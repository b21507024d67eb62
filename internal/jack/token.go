package jack

import "fmt"

// TokenType classifies a lexed token.
type TokenType int

const (
	Invalid TokenType = iota
	KeywordToken
	SymbolToken
	IntegerConstantToken
	StringConstantToken
	IdentifierToken
)

func (t TokenType) String() string {
	switch t {
	case KeywordToken:
		return "keyword"
	case SymbolToken:
		return "symbol"
	case IntegerConstantToken:
		return "integerConstant"
	case StringConstantToken:
		return "stringConstant"
	case IdentifierToken:
		return "identifier"
	default:
		return "invalid"
	}
}

// Token is a single lexed unit: its kind, its raw lexeme (quotes already
// stripped for string constants), the decoded integer value when
// applicable, and its position in the source for diagnostics.
type Token struct {
	Type   TokenType
	Lexeme string
	IntVal int
	Line   int
	Column int
}

// WrongTokenKind is returned by the classifier accessors when the current
// token is not of the kind being asked for.
type WrongTokenKind struct {
	Want TokenType
	Got  TokenType
	Tok  Token
}

func (e *WrongTokenKind) Error() string {
	return fmt.Sprintf("line %d:%d: expected %s token, got %s %q", e.Tok.Line, e.Tok.Column, e.Want, e.Got, e.Tok.Lexeme)
}

// Keyword returns the token's lexeme if it is a keyword token.
func (t Token) Keyword() (string, error) {
	if t.Type != KeywordToken {
		return "", &WrongTokenKind{Want: KeywordToken, Got: t.Type, Tok: t}
	}
	return t.Lexeme, nil
}

// Symbol returns the token's single symbol byte.
func (t Token) Symbol() (byte, error) {
	if t.Type != SymbolToken {
		return 0, &WrongTokenKind{Want: SymbolToken, Got: t.Type, Tok: t}
	}
	return t.Lexeme[0], nil
}

// Identifier returns the token's lexeme if it is an identifier.
func (t Token) Identifier() (string, error) {
	if t.Type != IdentifierToken {
		return "", &WrongTokenKind{Want: IdentifierToken, Got: t.Type, Tok: t}
	}
	return t.Lexeme, nil
}

// IntegerConstant returns the decoded integer constant.
func (t Token) IntegerConstant() (int, error) {
	if t.Type != IntegerConstantToken {
		return 0, &WrongTokenKind{Want: IntegerConstantToken, Got: t.Type, Tok: t}
	}
	return t.IntVal, nil
}

// StringVal returns the body of a string constant (quotes stripped).
func (t Token) StringVal() (string, error) {
	if t.Type != StringConstantToken {
		return "", &WrongTokenKind{Want: StringConstantToken, Got: t.Type, Tok: t}
	}
	return t.Lexeme, nil
}

// Is reports whether the token is a symbol or keyword with the given
// lexeme -- used pervasively by the compiler engine for lookahead
// decisions ("is the next token a '{'?", "is it the keyword 'else'?").
func (t Token) Is(lexeme string) bool {
	return (t.Type == SymbolToken || t.Type == KeywordToken) && t.Lexeme == lexeme
}

// IsAny reports whether the token matches any of the given lexemes.
func (t Token) IsAny(lexemes ...string) bool {
	for _, l := range lexemes {
		if t.Is(l) {
			return true
		}
	}
	return false
}
