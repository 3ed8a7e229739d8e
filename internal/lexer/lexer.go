// Package lexer converts grammar source into positioned tokens.
//
// Tokenizing never fails: characters that do not form a valid lexeme become
// unknown tokens, which the parser reports with their position.
package lexer

import (
	"strings"
	"unicode"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/b4fun/zatlin-go/types"
)

// FragmentsFilename is the filename stamped on tokens built from fragments.
const FragmentsFilename = "<fragments>"

type mode int

const (
	modeNormal mode = iota
	modeString
	modeComment
)

// Options configures tokenizing.
type Options struct {
	filename string
}

// Option configures Options.
type Option func(*Options)

// WithFilename sets the filename recorded in token positions.
func WithFilename(name string) Option {
	return func(opts *Options) {
		opts.filename = name
	}
}

type scanner struct {
	filename string
	tokens   []types.Token
	mode     mode

	buffer   strings.Builder
	bufStart lexer.Position

	line   int
	column int
	prevCR bool
}

func (s *scanner) position(offset int) lexer.Position {
	return lexer.Position{
		Filename: s.filename,
		Offset:   offset,
		Line:     s.line,
		Column:   s.column,
	}
}

func (s *scanner) push(r rune, offset int) {
	if s.buffer.Len() == 0 {
		s.bufStart = s.position(offset)
	}
	s.buffer.WriteRune(r)
}

func (s *scanner) flush() {
	if s.buffer.Len() == 0 {
		return
	}
	s.tokens = append(s.tokens, Classify(s.buffer.String(), s.bufStart))
	s.buffer.Reset()
}

func (s *scanner) emit(kind types.TokenKind, offset int) {
	s.tokens = append(s.tokens, types.NewToken(kind, "", s.position(offset)))
}

// lineBreak emits the newline token and moves to the next line. A "\n"
// directly after "\r" belongs to the same break.
func (s *scanner) lineBreak(r rune, offset int) {
	if r == '\n' && s.prevCR {
		s.prevCR = false
		s.column = 0
		return
	}
	s.emit(types.TokenNewLine, offset)
	s.line++
	s.column = 0
	s.prevCR = r == '\r'
}

func isLineBreak(r rune) bool {
	return r == '\n' || r == '\r'
}

func (s *scanner) scanNormal(r rune, offset int) {
	switch {
	case isLineBreak(r):
		s.flush()
		s.lineBreak(r, offset)
	case unicode.IsSpace(r):
		s.flush()
	case r == '-' && s.buffer.String() == "<":
		s.buffer.Reset()
		s.tokens = append(s.tokens, types.NewToken(types.TokenLeftArrow, "", s.bufStart))
	case strings.ContainsRune("-|;%^=():,", r):
		s.flush()
		s.tokens = append(s.tokens, Classify(string(r), s.position(offset)))
	case r == '&' || r == '<':
		s.flush()
		s.push(r, offset)
	case r == '#':
		s.flush()
		s.mode = modeComment
	case r == '"':
		s.flush()
		s.push(r, offset)
		s.mode = modeString
	default:
		s.push(r, offset)
	}
}

func (s *scanner) scanString(r rune, offset int) {
	switch {
	case r == '"':
		s.push(r, offset)
		s.flush()
		s.mode = modeNormal
	case isLineBreak(r):
		// unterminated literal: flushed as an unknown token
		s.flush()
		s.mode = modeNormal
		s.lineBreak(r, offset)
	default:
		s.push(r, offset)
	}
}

func (s *scanner) scanComment(r rune, offset int) {
	if isLineBreak(r) {
		s.mode = modeNormal
		s.lineBreak(r, offset)
	}
}

// Tokenize converts grammar source into tokens.
func Tokenize(source string, opts ...Option) []types.Token {
	options := &Options{}
	for _, o := range opts {
		o(options)
	}

	s := &scanner{
		filename: options.filename,
		line:     1,
	}
	for offset, r := range source {
		s.column++
		if r != '\n' {
			s.prevCR = s.prevCR && isLineBreak(r)
		}

		switch s.mode {
		case modeString:
			s.scanString(r, offset)
		case modeComment:
			s.scanComment(r, offset)
		default:
			s.scanNormal(r, offset)
		}
	}
	s.flush()

	return s.tokens
}

// TokenizeFragments converts pre-split lexemes into tokens. Each fragment is
// one whole token, classified the same way as a flushed source buffer.
func TokenizeFragments(fragments []string) []types.Token {
	tokens := make([]types.Token, 0, len(fragments))
	for idx, fragment := range fragments {
		pos := lexer.Position{
			Filename: FragmentsFilename,
			Offset:   idx,
			Line:     1,
			Column:   idx + 1,
		}
		if fragment == "\n" || fragment == "\r\n" {
			tokens = append(tokens, types.NewToken(types.TokenNewLine, "", pos))
			continue
		}
		tokens = append(tokens, Classify(fragment, pos))
	}

	return tokens
}
