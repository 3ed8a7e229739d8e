package types

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// TokenKind identifies the lexical class of a Token.
type TokenKind int

const (
	TokenUnknown TokenKind = iota
	TokenMinus
	TokenOr
	TokenEqual
	TokenCircumflex
	TokenPercent
	TokenSemicolon
	TokenString
	TokenNumber
	TokenIdent
	TokenNewLine
	TokenLeftParen
	TokenRightParen
	TokenColon
	TokenLeftArrow
	TokenComma
	TokenBackref
)

var tokenKindNames = map[TokenKind]string{
	TokenUnknown:    "unknown",
	TokenMinus:      "minus",
	TokenOr:         "or",
	TokenEqual:      "equal",
	TokenCircumflex: "circumflex",
	TokenPercent:    "percent",
	TokenSemicolon:  "semicolon",
	TokenString:     "string",
	TokenNumber:     "number",
	TokenIdent:      "ident",
	TokenNewLine:    "newline",
	TokenLeftParen:  "left_paren",
	TokenRightParen: "right_paren",
	TokenColon:      "colon",
	TokenLeftArrow:  "left_arrow",
	TokenComma:      "comma",
	TokenBackref:    "backref",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Punctuation maps single-lexeme punctuation to its token kind.
var Punctuation = map[string]TokenKind{
	"-":  TokenMinus,
	"|":  TokenOr,
	"=":  TokenEqual,
	"^":  TokenCircumflex,
	"%":  TokenPercent,
	";":  TokenSemicolon,
	"(":  TokenLeftParen,
	")":  TokenRightParen,
	":":  TokenColon,
	"<-": TokenLeftArrow,
	",":  TokenComma,
}

// Token is a single lexeme of grammar source.
type Token struct {
	// Kind is the lexical class of the token.
	Kind TokenKind
	// Text is the literal content for strings, the name for identifiers and
	// the raw text for unknown tokens.
	Text string
	// Number is the parsed weight for number tokens.
	Number float64
	// Backref is the 1-based value index for backref tokens.
	Backref int
	// Pos is where the token starts in the source.
	Pos lexer.Position
}

// NewToken creates a token of the given kind at pos.
func NewToken(kind TokenKind, text string, pos lexer.Position) Token {
	return Token{Kind: kind, Text: text, Pos: pos}
}

// NewNumberToken creates a weight token.
func NewNumberToken(text string, n float64, pos lexer.Position) Token {
	return Token{Kind: TokenNumber, Text: text, Number: n, Pos: pos}
}

// NewBackrefToken creates a backref token referring to the index-th value.
func NewBackrefToken(text string, index int, pos lexer.Position) Token {
	return Token{Kind: TokenBackref, Text: text, Backref: index, Pos: pos}
}

// Source returns the canonical textual form of the token. Joining the
// canonical forms of a token stream yields text that tokenizes back into an
// equivalent stream.
func (t Token) Source() string {
	switch t.Kind {
	case TokenString:
		return `"` + t.Text + `"`
	case TokenNumber:
		return strconv.FormatFloat(t.Number, 'f', -1, 64)
	case TokenBackref:
		return "&" + strconv.Itoa(t.Backref)
	case TokenNewLine:
		return "\n"
	case TokenIdent, TokenUnknown:
		return t.Text
	}

	for text, kind := range Punctuation {
		if kind == t.Kind {
			return text
		}
	}
	return t.Text
}

// String returns the diagnostic form of the token.
func (t Token) String() string {
	switch t.Kind {
	case TokenNewLine:
		return "(NewLine)"
	case TokenString:
		return `"` + truncateRunes(t.Text, 20) + `"`
	case TokenUnknown:
		return truncateRunes(t.Text, 20)
	default:
		return t.Source()
	}
}

// FormatTokens re-serializes tokens into grammar text.
func FormatTokens(tokens []Token) string {
	sb := new(strings.Builder)
	for idx, token := range tokens {
		if idx > 0 && token.Kind != TokenNewLine && tokens[idx-1].Kind != TokenNewLine {
			sb.WriteString(" ")
		}
		sb.WriteString(token.Source())
	}
	return sb.String()
}
