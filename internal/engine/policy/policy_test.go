package policy_test

import (
	"testing"

	"golang.org/x/net/html/atom"

	"github.com/dshills/inkwell/internal/engine/policy"
	"github.com/dshills/inkwell/internal/engine/tree"
)

func sanitize(t *testing.T, p *policy.Policy, markup string) string {
	t.Helper()
	out, err := p.Sanitize(markup)
	if err != nil {
		t.Fatalf("Sanitize(%q): %v", markup, err)
	}
	return out
}

func TestSanitize(t *testing.T) {
	p := policy.Default()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"compliant", "<p>Hello <b>world</b></p>", "<p>Hello <b>world</b></p>"},
		{"unwrap disallowed", "<p>a<font color=red>b</font>c</p>", "<p>abc</p>"},
		{"drop script", "<p>a<script>alert(1)</script>b</p>", "<p>ab</p>"},
		{"drop style element", "<style>p{}</style><p>x</p>", "<p>x</p>"},
		{"strip event handlers", `<p onclick="x()" style="color: red">a</p>`, `<p style="color: red">a</p>`},
		{"strip class and id", `<span class="c" id="i">a</span>`, `<span>a</span>`},
		{"keep link attributes", `<a href="https://a.io" title="t" target="_blank">a</a>`, `<a href="https://a.io" title="t">a</a>`},
		{"relative href", `<a href="/docs#x">a</a>`, `<a href="/docs#x">a</a>`},
		{"javascript href", `<a href="javascript:alert(1)">a</a>`, `<a>a</a>`},
		{"obfuscated scheme", "<a href=\"java\tscript:alert(1)\">a</a>", `<a>a</a>`},
		{"image attributes", `<img src="https://a.io/x.png" alt="x" onerror="y">`, `<img src="https://a.io/x.png" alt="x"/>`},
		{"image data url", `<img src="data:image/png;base64,AAAA">`, `<img src="data:image/png;base64,AAAA"/>`},
		{"image svg data url", `<img src="data:image/svg+xml;base64,AAAA">`, `<img/>`},
		{"unsafe style", `<span style="width: expression(alert(1))">a</span>`, `<span>a</span>`},
		{"ordered list start", `<ol start="3" type="a"><li>x</li></ol>`, `<ol start="3"><li>x</li></ol>`},
		{"headings beyond h2", "<h3>x</h3>", "x"},
		{"table unwrapped", "<table><tr><td>a</td><td>b</td></tr></table>", "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitize(t, p, tt.in); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEnforceIdempotent(t *testing.T) {
	p := policy.Default()
	inputs := []string{
		"",
		"plain",
		"<p>a<font>b</font><script>x</script>c</p>",
		"<div><p>x</p><section><p>y</p></section></div>",
		"<ul><li>a<ul><li>b</li></ul></li></ul>",
		`<p style="text-align: center">x<img src="javascript:1"></p>`,
		"<pre><code>a\n b</code></pre>",
		"<b><i><u>nested</u></i></b> tail",
	}

	for _, in := range inputs {
		root := tree.MustParse(in)
		once := p.Enforce(root)
		twice := p.Enforce(once)
		if !once.Equal(twice) {
			t.Errorf("Enforce not idempotent for %q:\nonce:  %s\ntwice: %s", in, once, twice)
		}
		if !p.Compliant(once) {
			t.Errorf("output of Enforce not compliant for %q", in)
		}
	}
}

func TestEnforceDoesNotModifyInput(t *testing.T) {
	p := policy.Default()
	root := tree.MustParse("<p>a<font>b</font></p>")
	before := root.Clone()

	_ = p.Enforce(root)

	if !root.Equal(before) {
		t.Error("Enforce mutated its input")
	}
}

func TestPromotionDivInParagraph(t *testing.T) {
	p := policy.Default()

	// The HTML parser never nests a div in a p, so build the tree directly.
	block := tree.NewElement("div", []tree.Attribute{{Key: "style", Val: "text-align: right"}},
		tree.NewText("one "),
		tree.El("b", tree.NewText("two")),
		tree.NewText(" three"),
	)
	para := tree.El("p", block)
	root := tree.NewDocument(tree.El("p", tree.NewText("before")), para, tree.El("p", tree.NewText("after")))

	out := p.Enforce(root)

	if len(out.Children) != 3 {
		t.Fatalf("expected 3 top-level nodes, got %d: %s", len(out.Children), out)
	}
	promoted := out.Children[1]
	if !promoted.Is(atom.Div) {
		t.Fatalf("paragraph should be replaced by the block's tag, got %q", promoted.Name)
	}
	if v, _ := promoted.GetAttr("style"); v != "text-align: right" {
		t.Errorf("promoted block should keep its attributes, got %q", v)
	}
	if len(promoted.Children) != 3 {
		t.Fatalf("block children should be attached directly, got %d", len(promoted.Children))
	}
	if promoted.Children[0].Data != "one " || !promoted.Children[1].Is(atom.B) || promoted.Children[2].Data != " three" {
		t.Errorf("block children out of order: %s", promoted)
	}

	tree.Walk(out, func(n *tree.Node, ancestors []*tree.Node) bool {
		if n.IsBlock() && len(ancestors) > 0 && ancestors[len(ancestors)-1].Is(atom.P) {
			t.Errorf("block %q remains a direct child of a paragraph", n.Name)
		}
		return true
	})
	if out.TextContent() != root.TextContent() {
		t.Errorf("text changed: %q -> %q", root.TextContent(), out.TextContent())
	}
}

func TestPromotionKeepsSurroundingText(t *testing.T) {
	p := policy.Default()
	para := tree.El("p",
		tree.NewText("a"),
		tree.El("div", tree.NewText("b")),
		tree.NewText("c"),
	)

	out := p.Enforce(tree.NewDocument(para))

	if got := tree.Render(out); got != "<div>abc</div>" {
		t.Errorf("got %q", got)
	}
}

func TestPromotionOtherBlockChild(t *testing.T) {
	p := policy.Default()
	para := tree.El("p",
		tree.NewText("x"),
		tree.El("ul", tree.El("li", tree.NewText("y"))),
	)

	out := p.Enforce(tree.NewDocument(para))

	if got := tree.Render(out); got != "<div>x<ul><li>y</li></ul></div>" {
		t.Errorf("got %q", got)
	}
}

func TestPromotionNested(t *testing.T) {
	p := policy.Default()
	// The div surfaces into the inner paragraph only after the section is
	// unwrapped and must still be promoted.
	inner := tree.El("p", tree.El("section", tree.El("div", tree.NewText("deep"))))
	outer := tree.El("p", inner)

	out := p.Enforce(tree.NewDocument(outer))

	if got := tree.Render(out); got != "<div>deep</div>" {
		t.Errorf("got %q", got)
	}
	if !p.Enforce(out).Equal(out) {
		t.Error("nested promotion not idempotent")
	}
}

func TestNormalization(t *testing.T) {
	p := policy.Default()
	root := tree.NewDocument(tree.El("p",
		tree.NewText("a"),
		tree.NewText(""),
		tree.NewText("b"),
		tree.El("br", tree.NewText("ignored")),
	))

	out := p.Enforce(root)

	para := out.Children[0]
	if len(para.Children) != 2 {
		t.Fatalf("expected merged text + br, got %s", para)
	}
	if para.Children[0].Data != "ab" {
		t.Errorf("adjacent text not merged: %q", para.Children[0].Data)
	}
	if len(para.Children[1].Children) != 0 {
		t.Error("void element kept children")
	}
}

func TestOptions(t *testing.T) {
	p := policy.New(policy.WithSchemes("ftp:"), policy.WithoutStyle())

	got := sanitize(t, p, `<a href="ftp://x" style="color: red">x</a>`)
	if got != `<a href="ftp://x">x</a>` {
		t.Errorf("got %q", got)
	}
	if !p.AllowsTag(atom.Pre) || p.AllowsTag(atom.Table) {
		t.Error("AllowsTag mismatch")
	}
	if len(p.AllowedTags()) != 18 {
		t.Errorf("expected 18 allowed tags, got %d", len(p.AllowedTags()))
	}
}

func TestSetStyleProperty(t *testing.T) {
	tests := []struct {
		in, name, value, want string
	}{
		{"", "text-align", "center", "text-align: center;"},
		{"color: red", "text-align", "left", "color: red; text-align: left;"},
		{"text-align: left; color: red;", "text-align", "right", "text-align: right; color: red;"},
	}
	for _, tt := range tests {
		if got := policy.SetStyleProperty(tt.in, tt.name, tt.value); got != tt.want {
			t.Errorf("SetStyleProperty(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
