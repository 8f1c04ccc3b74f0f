package gateway

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Upstream is one service behind the gateway, reached under /<Name>.
type Upstream struct {
	Name   string
	Target *url.URL
}

func (u Upstream) Prefix() string { return "/" + u.Name }

// ParseUpstreams parses "name=url,name=url". Names must be unique and urls
// absolute http(s).
func ParseUpstreams(s string) ([]Upstream, error) {
	var out []Upstream
	seen := map[string]struct{}{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, raw, ok := strings.Cut(part, "=")
		name = strings.ToLower(strings.TrimSpace(name))
		raw = strings.TrimSpace(raw)
		if !ok || name == "" || raw == "" || strings.Contains(name, "/") {
			return nil, fmt.Errorf("gateway: invalid upstream %q, want name=url", part)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("gateway: duplicate upstream %q", name)
		}
		u, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("gateway: upstream %s: %w", name, err)
		}
		if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, fmt.Errorf("gateway: upstream %s: url must be absolute http(s), got %q", name, raw)
		}
		seen[name] = struct{}{}
		out = append(out, Upstream{Name: name, Target: u})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("gateway: no upstreams configured")
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Table resolves request paths to upstreams by their first path segment.
type Table struct {
	byName map[string]Upstream
}

func NewTable(upstreams []Upstream) *Table {
	t := &Table{byName: make(map[string]Upstream, len(upstreams))}
	for _, u := range upstreams {
		t.byName[u.Name] = u
	}
	return t
}

// Match returns the upstream for path and the path with the prefix removed.
func (t *Table) Match(path string) (Upstream, string, bool) {
	trimmed := strings.TrimPrefix(path, "/")
	name, rest, _ := strings.Cut(trimmed, "/")
	u, ok := t.byName[strings.ToLower(name)]
	if !ok {
		return Upstream{}, "", false
	}
	return u, "/" + rest, true
}
