package matchers

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gobwas/glob"
)

type globCacheMap struct {
	sync.RWMutex
	globs map[string]Matcher
}

var globCache = globCacheMap{
	globs: make(map[string]Matcher),
}

// GlobAny returns a matcher that matches if any of the patterns match
// and none of the negated patterns do.
// A pattern is negated with a leading !, so "**.log", "!keep.log"
// matches all .log files but keep.log.
// If all patterns are negated, everything not matching them matches.
// Patterns use / as separator, so * does not match across directories, ** does.
func GlobAny(patterns ...string) (Matcher, error) {
	if len(patterns) == 0 {
		return nil, errors.New("empty patterns")
	}

	var include, except []Matcher
	for _, p := range patterns {
		negate := strings.HasPrefix(p, "!")
		g, err := globOne(strings.TrimPrefix(p, "!"))
		if err != nil {
			return nil, err
		}
		if negate {
			except = append(except, g)
		} else {
			include = append(include, g)
		}
	}

	var m Matcher = MatchEverything
	if len(include) > 0 {
		m = Or(include...)
	}
	if len(except) == 0 {
		return m, nil
	}

	return And(m, Not(Or(except...))), nil
}

func globOne(pattern string) (Matcher, error) {
	if pattern == "" {
		return nil, errors.New("empty pattern")
	}
	globCache.RLock()
	g, ok := globCache.globs[pattern]
	globCache.RUnlock()
	if ok {
		return g, nil
	}

	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, fmt.Errorf("invalid glob %q: %w", pattern, err)
	}

	globCache.Lock()
	globCache.globs[pattern] = g
	globCache.Unlock()

	return g, nil
}
