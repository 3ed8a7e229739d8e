package parser

import (
	"github.com/b4fun/zatlin-go/types"
)

// cursor walks a token slice. Every error it builds carries the parse point
// and the index of the offending token.
type cursor struct {
	tokens []types.Token
	index  int
}

func (c *cursor) atEnd() bool {
	return c.index >= len(c.tokens)
}

func (c *cursor) peek() (types.Token, bool) {
	if c.atEnd() {
		return types.Token{}, false
	}
	return c.tokens[c.index], true
}

// peekIs reports whether the current token has one of kinds.
func (c *cursor) peekIs(kinds ...types.TokenKind) bool {
	token, ok := c.peek()
	if !ok {
		return false
	}
	for _, kind := range kinds {
		if token.Kind == kind {
			return true
		}
	}
	return false
}

func (c *cursor) advance() types.Token {
	token := c.tokens[c.index]
	c.index++
	return token
}

// unexpected builds the error for the current token at point.
func (c *cursor) unexpected(point string) error {
	token, ok := c.peek()
	if !ok {
		return &types.ErrEndOfInput{Point: point, Index: c.index}
	}
	if token.Kind == types.TokenUnknown {
		return &types.ErrUnknownToken{Token: token, Index: c.index}
	}
	return &types.ErrInvalidToken{Point: point, Token: token, Index: c.index}
}

// expect consumes a token of kind or fails at point.
func (c *cursor) expect(point string, kind types.TokenKind) (types.Token, error) {
	if !c.peekIs(kind) {
		return types.Token{}, c.unexpected(point)
	}
	return c.advance(), nil
}
