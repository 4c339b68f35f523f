package unmatcher

import (
	"fmt"

	"github.com/KromDaniel/unmatcher/internal/verify"
)

// Matches reports whether s matches the whole pattern. It checks with
// regexp2, an engine independent of the generator, so it can be used to
// confirm generated output.
func (p *Pattern) Matches(s string) (bool, error) {
	p.once.Do(func() {
		p.matcher, p.matcherErr = verify.New(p.ast)
	})
	if p.matcherErr != nil {
		return false, fmt.Errorf("failed to compile matcher: %w", p.matcherErr)
	}
	return p.matcher.Match(s)
}
