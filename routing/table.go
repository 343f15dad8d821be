package routing

import (
	"fmt"
	"net/url"
)

// Entry is one (pattern, spec) pair in the order it should be inserted
// into a Table. Go maps don't preserve iteration order, so callers that
// build a Table from a serialized document (see package loader) must
// decode it in a way that preserves key order and pass that order here
// explicitly; the table itself never re-sorts entries.
type Entry struct {
	Pattern string
	Spec    *Spec
}

type compiledEntry struct {
	pattern *pattern
	raw     string
	spec    *Spec
	order   int
}

// Table is an ordered, read-only route table. It is rebuilt wholesale by
// Build and never mutated in place, matching the lifecycle in spec §3:
// "constructed once at startup... rebuilt from a snapshot."
type Table struct {
	entries []compiledEntry
}

// Build compiles every pattern in entries and returns a Table that
// preserves entries' order for allow-listing and tie-breaking. Pattern
// keys must be unique; Build returns an error on a duplicate or on an
// uncompilable pattern.
func Build(entries []Entry) (*Table, error) {
	seen := make(map[string]struct{}, len(entries))
	compiled := make([]compiledEntry, 0, len(entries))

	for i, e := range entries {
		if _, ok := seen[e.Pattern]; ok {
			return nil, fmt.Errorf("duplicate route pattern %q", e.Pattern)
		}
		seen[e.Pattern] = struct{}{}

		p, err := compilePattern(e.Pattern)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", e.Pattern, err)
		}

		compiled = append(compiled, compiledEntry{
			pattern: p,
			raw:     e.Pattern,
			spec:    e.Spec,
			order:   i,
		})
	}

	return &Table{entries: compiled}, nil
}

// Allowed reports whether any registered pattern matches path, ignoring
// host constraints entirely. This is the cheap admission check the
// pipeline runs before full route resolution (spec §4.1, §4.4).
func (t *Table) Allowed(path string) bool {
	for _, e := range t.entries {
		if e.pattern.match(path) {
			return true
		}
	}
	return false
}

// Lookup returns the best-matching route for the request URL's path and
// the given Host header value, or (nil, false) if none matches.
//
// A route is a candidate when its pattern matches the path and, if it
// declares Hostnames, the host equals one of them case-insensitively.
// Among candidates, the one with the smallest Priority wins; an absent
// priority loses every tie-break, and equal priorities are broken by
// insertion order (the table only replaces its current best on a
// strictly smaller priority, so the first-inserted candidate at a given
// priority is kept).
func (t *Table) Lookup(u *url.URL, host string) (*Spec, bool) {
	path := u.Path
	var best *Spec
	bestPriority := int(^uint(0) >> 1)
	haveBest := false

	for _, e := range t.entries {
		if !e.pattern.match(path) {
			continue
		}
		if len(e.spec.Hostnames) > 0 && !hostMatches(e.spec.Hostnames, host) {
			continue
		}

		p := e.spec.priority()
		if !haveBest || p < bestPriority {
			best = e.spec
			bestPriority = p
			haveBest = true
		}
	}

	return best, haveBest
}
