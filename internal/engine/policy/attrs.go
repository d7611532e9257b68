package policy

import (
	"strings"

	"golang.org/x/net/html/atom"

	"github.com/dshills/inkwell/internal/engine/tree"
)

func (p *Policy) filterAttrs(tag atom.Atom, attrs []tree.Attribute, intrinsic map[string]bool) []tree.Attribute {
	var out []tree.Attribute
	seen := make(map[string]bool, len(attrs))
	for _, a := range attrs {
		key := strings.ToLower(a.Key)
		if seen[key] {
			continue
		}
		switch {
		case key == StyleAttr:
			if !p.allowStyle || !safeStyle(a.Val) {
				continue
			}
		case intrinsic[key]:
			if (key == "href" || key == "src") && !p.safeURL(tag, a.Val) {
				continue
			}
		default:
			continue
		}
		seen[key] = true
		out = append(out, tree.Attribute{Key: key, Val: a.Val})
	}
	return out
}

// AllowsURL reports whether raw survives as the href or src of tag.
func (p *Policy) AllowsURL(tag atom.Atom, raw string) bool {
	return p.safeURL(tag, raw)
}

// safeURL accepts relative URLs and URLs whose scheme is allow-listed.
// Images may also use inline raster data URLs.
func (p *Policy) safeURL(tag atom.Atom, raw string) bool {
	u := strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, strings.TrimSpace(raw))
	lower := strings.ToLower(u)

	end := strings.IndexAny(lower, ":/?#")
	if end < 0 || lower[end] != ':' {
		return true
	}
	scheme := lower[:end]
	if p.schemes[scheme] {
		return true
	}
	if tag == atom.Img && scheme == "data" {
		return strings.HasPrefix(lower, "data:image/") && !strings.HasPrefix(lower, "data:image/svg")
	}
	return false
}

func safeStyle(val string) bool {
	v := strings.ToLower(strings.TrimSpace(val))
	if v == "" {
		return false
	}
	return !strings.Contains(v, "expression(") && !strings.Contains(v, "javascript:")
}

// Style parses a style attribute value into ordered declarations.
func Style(val string) [][2]string {
	var out [][2]string
	for _, decl := range strings.Split(val, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		value = strings.TrimSpace(value)
		if name == "" || value == "" {
			continue
		}
		out = append(out, [2]string{name, value})
	}
	return out
}

// SetStyleProperty returns val with one declaration set, keeping the order
// of the other declarations.
func SetStyleProperty(val, name, value string) string {
	decls := Style(val)
	found := false
	for i := range decls {
		if decls[i][0] == name {
			decls[i][1] = value
			found = true
		}
	}
	if !found {
		decls = append(decls, [2]string{name, value})
	}
	parts := make([]string, len(decls))
	for i, d := range decls {
		parts[i] = d[0] + ": " + d[1]
	}
	return strings.Join(parts, "; ") + ";"
}
