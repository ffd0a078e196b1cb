package lower

import (
	"errors"
	"fmt"

	"github.com/raymyers/isacc/pkg/lexer"
)

// ErrPatternNotFound reports that an expected syntactic marker was missing
// from a statement. It aborts the compilation it occurs in.
var ErrPatternNotFound = errors.New("pattern not found")

func patternError(what string, toks []lexer.Token) error {
	if len(toks) == 0 {
		return fmt.Errorf("%w: %s", ErrPatternNotFound, what)
	}
	return fmt.Errorf("%w: %s in %q", ErrPatternNotFound, what, lexer.Render(toks))
}
