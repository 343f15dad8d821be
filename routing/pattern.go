package routing

import (
	"regexp"
	"strings"
)

// pattern compiles a route's wildcard pattern string (the '*' glob class)
// into a predicate over request paths, the way the teacher compiles
// PathRegexp predicates: by building a regexp once and reusing it.
type pattern struct {
	raw string
	re  *regexp.Regexp
}

func compilePattern(raw string) (*pattern, error) {
	quoted := regexp.QuoteMeta(raw)
	quoted = strings.ReplaceAll(quoted, `\*`, `.*`)
	re, err := regexp.Compile("^" + quoted + "$")
	if err != nil {
		return nil, err
	}
	return &pattern{raw: raw, re: re}, nil
}

func (p *pattern) match(path string) bool {
	return p.re.MatchString(path)
}
