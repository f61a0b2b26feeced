// Package access holds the static route access table consulted by the
// request gate: which role levels may reach which path prefixes, and which
// prefixes are public.
package access

import "strings"

// Rule maps a path prefix to the set of role levels allowed through.
type Rule struct {
	Prefix string
	Levels []int
}

// Table is loaded once at process start and read-only thereafter.
type Table struct {
	rules  []Rule
	public []string
}

// New builds a Table from rules and public prefixes. Prefixes are
// normalized (leading slash enforced, trailing slash stripped). Duplicate
// rule prefixes panic: the table is static configuration, and two rules on
// one prefix would make resolution depend on rule order.
func New(rules []Rule, publicPrefixes []string) *Table {
	t := &Table{}
	seen := make(map[string]struct{}, len(rules))
	for _, r := range rules {
		r.Prefix = normalize(r.Prefix)
		if _, dup := seen[r.Prefix]; dup {
			panic("access: duplicate rule prefix " + r.Prefix)
		}
		seen[r.Prefix] = struct{}{}
		t.rules = append(t.rules, r)
	}
	for _, p := range publicPrefixes {
		t.public = append(t.public, normalize(p))
	}
	return t
}

// AllowedLevels resolves the allowed role levels for a request path.
// Matching is exact-or-proper-subpath; when several prefixes match, the
// longest one wins so rule ordering carries no meaning. The second return
// is false when no rule matches: the path is unrestricted.
func (t *Table) AllowedLevels(path string) ([]int, bool) {
	path = normalize(path)
	bestLen := -1
	var best []int
	for _, r := range t.rules {
		if !matches(path, r.Prefix) {
			continue
		}
		if len(r.Prefix) > bestLen {
			bestLen = len(r.Prefix)
			best = r.Levels
		}
	}
	if bestLen < 0 {
		return nil, false
	}
	return best, true
}

// IsPublic reports whether the path bypasses authentication entirely.
func (t *Table) IsPublic(path string) bool {
	path = normalize(path)
	for _, p := range t.public {
		if matches(path, p) {
			return true
		}
	}
	return false
}

// LevelAllowed reports whether level is in the allowed set.
func LevelAllowed(levels []int, level int) bool {
	for _, l := range levels {
		if l == level {
			return true
		}
	}
	return false
}

func matches(path, prefix string) bool {
	if prefix == "/" {
		return true
	}
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func normalize(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	for len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimSuffix(p, "/")
	}
	return p
}
