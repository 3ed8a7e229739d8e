package lexer

import (
	"math"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/dlclark/regexp2"

	"github.com/b4fun/zatlin-go/types"
)

var (
	numberPattern = regexp2.MustCompile(
		`^(?:\d+\.?\d*|\.\d+)(?:[eE][+]?\d+)?$`,
		regexp2.RE2,
	)
	backrefPattern = regexp2.MustCompile(
		`^&([1-9]\d*)$`,
		regexp2.RE2,
	)
)

func matches(re *regexp2.Regexp, s string) bool {
	ok, err := re.MatchString(s)
	return err == nil && ok
}

// Classify turns a complete lexeme into a token: a weight, a string literal,
// a backref, an identifier, or an unknown token. Any lexeme that is none of
// the others names a variable, unless it is a broken string, backref or arrow.
func Classify(text string, pos lexer.Position) types.Token {
	if kind, ok := types.Punctuation[text]; ok {
		return types.NewToken(kind, "", pos)
	}

	if matches(numberPattern, text) {
		if n, err := strconv.ParseFloat(text, 64); err == nil && !math.IsInf(n, 0) {
			return types.NewNumberToken(text, n, pos)
		}
		return types.NewToken(types.TokenUnknown, text, pos)
	}

	if strings.HasPrefix(text, `"`) {
		if len(text) >= 2 && strings.HasSuffix(text, `"`) {
			return types.NewToken(types.TokenString, text[1:len(text)-1], pos)
		}
		return types.NewToken(types.TokenUnknown, text, pos)
	}

	if m, err := backrefPattern.FindStringMatch(text); err == nil && m != nil {
		index, err := strconv.Atoi(m.GroupByNumber(1).String())
		if err == nil {
			return types.NewBackrefToken(text, index, pos)
		}
	}

	if strings.HasPrefix(text, "&") || strings.HasPrefix(text, "<") {
		return types.NewToken(types.TokenUnknown, text, pos)
	}

	return types.NewToken(types.TokenIdent, text, pos)
}
