package matchers

// Matcher matches a string, typically an archive entry name.
type Matcher interface {
	Match(string) bool
}

// MatcherFunc is a func that implements Matcher.
type MatcherFunc func(string) bool

func (f MatcherFunc) Match(s string) bool {
	return f(s)
}

// MatchEverything matches all strings.
var MatchEverything = MatcherFunc(func(string) bool { return true })

// And returns a Matcher that matches if all the given matchers match.
func And(matchers ...Matcher) Matcher {
	return and(matchers)
}

// Or returns a Matcher that matches if any of the given matchers match.
func Or(matchers ...Matcher) Matcher {
	return or(matchers)
}

// Not negates m.
func Not(m Matcher) Matcher {
	return not{m}
}

type and []Matcher

func (m and) Match(s string) bool {
	for _, matcher := range m {
		if !matcher.Match(s) {
			return false
		}
	}
	return true
}

type or []Matcher

func (m or) Match(s string) bool {
	for _, matcher := range m {
		if matcher.Match(s) {
			return true
		}
	}
	return false
}

type not struct {
	m Matcher
}

func (m not) Match(s string) bool {
	return !m.m.Match(s)
}
