package net

import (
	"fmt"
	"net/netip"
)

// CIDRSet is a parsed set of CIDR ranges checked with any-of semantics:
// Contains reports true when the address falls inside at least one range.
//
// The teacher's own CIDR-matching loop returns after testing only the
// first configured range, so in practice it behaves like a a single-CIDR
// check regardless of list length. That looks unintentional (see spec
// open questions) and is not replicated here: Contains tests every range.
type CIDRSet struct {
	prefixes []netip.Prefix
}

// ParseCIDRSet parses a list of CIDR strings (a bare address is treated as
// a /32 or /128). An empty, non-nil slice is a valid, deliberately
// all-denying set.
func ParseCIDRSet(cidrs []string) (*CIDRSet, error) {
	set := &CIDRSet{prefixes: make([]netip.Prefix, 0, len(cidrs))}
	for _, c := range cidrs {
		p, err := parsePrefix(c)
		if err != nil {
			return nil, fmt.Errorf("invalid cidr %q: %w", c, err)
		}
		set.prefixes = append(set.prefixes, p)
	}
	return set, nil
}

func parsePrefix(s string) (netip.Prefix, error) {
	if p, err := netip.ParsePrefix(s); err == nil {
		return p, nil
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Prefix{}, err
	}
	return netip.PrefixFrom(addr, addr.BitLen()), nil
}

// Contains reports whether addr falls inside any configured range.
func (s *CIDRSet) Contains(addr netip.Addr) bool {
	for _, p := range s.prefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// Empty reports whether the set was built from an empty (but present) CIDR
// list, which under route admission rules (see routing package) denies
// every request to the owning route.
func (s *CIDRSet) Empty() bool {
	return len(s.prefixes) == 0
}
