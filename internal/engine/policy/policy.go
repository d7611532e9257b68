package policy

import (
	"strings"

	"golang.org/x/net/html/atom"

	"github.com/dshills/inkwell/internal/engine/tree"
)

// StyleAttr is the generic attribute every allowed element may carry.
const StyleAttr = "style"

// Policy is an allow-list of elements and attributes plus the structural
// fixup rules applied by Enforce. A Policy must not be modified after
// first use.
type Policy struct {
	// elements maps each allowed tag to its intrinsic attributes.
	elements map[atom.Atom]map[string]bool

	// dropContent lists elements removed together with their content.
	dropContent map[string]bool

	// schemes lists URL schemes accepted in href and src.
	schemes map[string]bool

	// allowStyle keeps the generic style attribute.
	allowStyle bool
}

// Option configures a Policy.
type Option func(*Policy)

// WithSchemes adds URL schemes accepted in href and src attributes.
func WithSchemes(schemes ...string) Option {
	return func(p *Policy) {
		for _, s := range schemes {
			s = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(s), ":"))
			if s != "" {
				p.schemes[s] = true
			}
		}
	}
}

// WithoutStyle strips the style attribute from every element.
func WithoutStyle() Option {
	return func(p *Policy) {
		p.allowStyle = false
	}
}

// New creates the default editor policy with the given options applied.
func New(opts ...Option) *Policy {
	p := &Policy{
		elements: map[atom.Atom]map[string]bool{
			atom.P:      nil,
			atom.Div:    nil,
			atom.Span:   nil,
			atom.Br:     nil,
			atom.B:      nil,
			atom.I:      nil,
			atom.U:      nil,
			atom.Strong: nil,
			atom.Em:     nil,
			atom.A:      {"href": true, "title": true},
			atom.H1:     nil,
			atom.H2:     nil,
			atom.Ul:     nil,
			atom.Ol:     {"start": true},
			atom.Li:     nil,
			atom.Img:    {"src": true, "alt": true, "width": true, "height": true},
			atom.Pre:    nil,
			atom.Code:   nil,
		},
		dropContent: map[string]bool{
			"script": true, "style": true, "iframe": true, "object": true,
			"embed": true, "noscript": true, "template": true, "textarea": true,
			"select": true, "title": true, "head": true, "svg": true, "math": true,
		},
		schemes: map[string]bool{
			"http": true, "https": true, "mailto": true, "tel": true,
		},
		allowStyle: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Default returns the default editor policy.
func Default() *Policy {
	return New()
}

// AllowsTag reports whether the element kind is on the allow-list.
func (p *Policy) AllowsTag(tag atom.Atom) bool {
	_, ok := p.elements[tag]
	return ok && tag != 0
}

// AllowedTags returns the allow-listed element names.
func (p *Policy) AllowedTags() []string {
	out := make([]string, 0, len(p.elements))
	for tag := range p.elements {
		out = append(out, tag.String())
	}
	return out
}

// Sanitize parses markup, enforces the policy and serializes the result.
func (p *Policy) Sanitize(markup string) (string, error) {
	root, err := tree.Parse(markup)
	if err != nil {
		return "", err
	}
	return tree.Render(p.Enforce(root)), nil
}

// Compliant reports whether root already satisfies the policy.
func (p *Policy) Compliant(root *tree.Node) bool {
	return p.Enforce(root).Equal(root)
}

// Enforce returns a policy-compliant copy of root. The input is not
// modified. A non-document root is treated as the only child of a new
// document.
func (p *Policy) Enforce(root *tree.Node) *tree.Node {
	if root == nil {
		return tree.NewDocument()
	}
	nodes := root.Children
	if root.Type != tree.DocumentNode {
		nodes = []*tree.Node{root}
	}
	return tree.NewDocument(p.enforceChildren(nodes)...)
}

func (p *Policy) enforceChildren(children []*tree.Node) []*tree.Node {
	var out []*tree.Node
	for _, c := range children {
		out = append(out, p.enforceNode(c)...)
	}
	return normalizeText(out)
}

func (p *Policy) enforceNode(n *tree.Node) []*tree.Node {
	switch n.Type {
	case tree.TextNode:
		if n.Data == "" {
			return nil
		}
		return []*tree.Node{tree.NewText(n.Data)}
	case tree.DocumentNode:
		return p.enforceChildren(n.Children)
	}

	if p.dropContent[n.Name] {
		return nil
	}
	intrinsic, ok := p.elements[n.Tag]
	if !ok || n.Tag == 0 {
		return p.enforceChildren(n.Children)
	}

	el := &tree.Node{
		Type: tree.ElementNode,
		Tag:  n.Tag,
		Name: n.Tag.String(),
		Attr: p.filterAttrs(n.Tag, n.Attr, intrinsic),
	}
	if el.IsVoid() {
		return []*tree.Node{el}
	}
	el.Children = p.enforceChildren(n.Children)

	if el.Is(atom.P) && hasBlockChild(el) {
		return []*tree.Node{promote(el)}
	}
	return []*tree.Node{el}
}

func hasBlockChild(n *tree.Node) bool {
	for _, c := range n.Children {
		if c.IsBlock() {
			return true
		}
	}
	return false
}

// promote replaces a paragraph holding block children. The first
// generic-block child lends its tag and attributes to the replacement and
// its children are attached directly to it; the paragraph's other children
// keep their order around them.
func promote(para *tree.Node) *tree.Node {
	var block *tree.Node
	for _, c := range para.Children {
		if c.Is(atom.Div) {
			block = c
			break
		}
	}

	repl := tree.NewElement("div", nil)
	if block != nil {
		repl = block.ShallowClone()
	}
	for _, c := range para.Children {
		if c == block {
			repl.Children = append(repl.Children, c.Children...)
			continue
		}
		repl.Children = append(repl.Children, c)
	}
	repl.Children = normalizeText(repl.Children)
	return repl
}

// normalizeText drops empty text nodes and merges adjacent text siblings.
func normalizeText(nodes []*tree.Node) []*tree.Node {
	out := nodes[:0:0]
	for _, n := range nodes {
		if n.IsText() {
			if n.Data == "" {
				continue
			}
			if len(out) > 0 && out[len(out)-1].IsText() {
				prev := out[len(out)-1]
				out[len(out)-1] = tree.NewText(prev.Data + n.Data)
				continue
			}
		}
		out = append(out, n)
	}
	return out
}
