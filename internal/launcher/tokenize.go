package launcher

import (
	"github.com/google/shlex"
)

// Tokenize splits s on whitespace with shell quoting rules. Quotes are
// removed from the resulting tokens, an empty quoted string stays an empty
// token and nothing is expanded. An unquoted # starts a comment.
func Tokenize(s string) ([]string, error) {
	tokens, err := shlex.Split(s)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, nil
	}
	return tokens, nil
}
