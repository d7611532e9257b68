package format_test

import (
	"testing"

	"github.com/dshills/inkwell/internal/engine/cursor"
	"github.com/dshills/inkwell/internal/engine/format"
	"github.com/dshills/inkwell/internal/engine/policy"
	"github.com/dshills/inkwell/internal/engine/tree"
)

// parseSel parses markup holding selection markers: "|" for a caret, "["
// and "]" for anchor and focus. A marker alone in a text node becomes a
// point on the parent element.
func parseSel(t *testing.T, markup string) (*tree.Node, cursor.Selection) {
	t.Helper()
	doc := tree.MustParse(markup)

	var anchor, focus cursor.Point
	for _, n := range tree.TextNodes(doc) {
		var kept []rune
		for _, r := range n.Data {
			pt := cursor.Point{Node: n, Offset: len(kept)}
			switch r {
			case '|':
				anchor, focus = pt, pt
			case '[':
				anchor = pt
			case ']':
				focus = pt
			default:
				kept = append(kept, r)
			}
		}
		n.Data = string(kept)
	}
	if anchor.IsZero() || focus.IsZero() {
		t.Fatalf("no selection markers in %q", markup)
	}

	for _, pt := range []*cursor.Point{&anchor, &focus} {
		if pt.Node.Data != "" {
			continue
		}
		chain, _ := tree.Locate(doc, pt.Node)
		parent := chain[len(chain)-1]
		*pt = cursor.Point{Node: parent, Offset: tree.IndexOf(parent, pt.Node)}
	}
	tree.Walk(doc, func(n *tree.Node, _ []*tree.Node) bool {
		kids := n.Children[:0:0]
		for _, c := range n.Children {
			if !c.IsText() || c.Data != "" {
				kids = append(kids, c)
			}
		}
		n.Children = kids
		return true
	})
	return doc, cursor.NewSelection(anchor, focus)
}

type primitive func(doc *tree.Node, sel cursor.Selection) format.Result

func apply(t *testing.T, markup string, fn primitive) (string, format.Result, *tree.Node) {
	t.Helper()
	doc, sel := parseSel(t, markup)
	res := fn(doc, sel)
	out := policy.Default().Enforce(doc)
	return tree.Render(out), res, out
}

type testCase struct {
	name string
	in   string
	fn   primitive
	want string
}

func runCases(t *testing.T, tests []testCase) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, res, _ := apply(t, tt.in, tt.fn)
			if got != tt.want {
				t.Errorf("got  %q\nwant %q", got, tt.want)
			}
			if !res.Changed {
				t.Error("expected a change")
			}
		})
	}
}

func inline(tag string) primitive {
	return func(doc *tree.Node, sel cursor.Selection) format.Result {
		return format.ToggleInline(doc, sel, tag)
	}
}

func TestToggleInline(t *testing.T) {
	runCases(t, []testCase{
		{"bold", "<p>a[bc]d</p>", inline("b"), "<p>a<b>bc</b>d</p>"},
		{"unbold", "<p>a<b>[bc]</b>d</p>", inline("b"), "<p>abcd</p>"},
		{"unbold middle", "<p><b>a[b]c</b></p>", inline("b"), "<p><b>a</b>b<b>c</b></p>"},
		{"strong counts as bold", "<p><strong>[x]</strong></p>", inline("b"), "<p>x</p>"},
		{"partly bold gets bold", "<p>[a<b>b</b>]</p>", inline("b"), "<p><b>ab</b></p>"},
		{"across paragraphs", "<p>a[b</p><p>c]d</p>", inline("i"), "<p>a<i>b</i></p><p><i>c</i>d</p>"},
		{"backward selection", "<p>a]bc[d</p>", inline("u"), "<p>a<u>bc</u>d</p>"},
	})
}

func TestToggleInlineCollapsedIsNoop(t *testing.T) {
	got, res, _ := apply(t, "<p>ab|c</p>", inline("b"))
	if res.Changed || got != "<p>abc</p>" {
		t.Errorf("got %q changed=%v", got, res.Changed)
	}
}

func block(tag string) primitive {
	return func(doc *tree.Node, sel cursor.Selection) format.Result {
		return format.FormatBlock(doc, sel, tag)
	}
}

func TestFormatBlock(t *testing.T) {
	runCases(t, []testCase{
		{"heading", "<p>ab|c</p>", block("h1"), "<h1>abc</h1>"},
		{"toggle back", "<h1>ab|c</h1>", block("h1"), "<p>abc</p>"},
		{"switch heading", "<h1>ab|c</h1>", block("h2"), "<h2>abc</h2>"},
		{"bare text", "ab|c", block("h2"), "<h2>abc</h2>"},
		{"several lines", "<p>[a</p><p>b]</p>", block("h2"), "<h2>a</h2><h2>b</h2>"},
		{"keeps style", `<p style="color: red">a|</p>`, block("h1"), `<h1 style="color: red">a</h1>`},
		{"list item", "<ul><li>a|</li></ul>", block("h1"), "<ul><li><h1>a</h1></li></ul>"},
	})
}

func list(tag string) primitive {
	return func(doc *tree.Node, sel cursor.Selection) format.Result {
		return format.ToggleList(doc, sel, tag)
	}
}

func TestToggleList(t *testing.T) {
	runCases(t, []testCase{
		{"paragraphs to list", "<p>[a</p><p>b]</p>", list("ul"), "<ul><li>a</li><li>b</li></ul>"},
		{"list to paragraphs", "<ul><li>[a</li><li>b]</li></ul>", list("ul"), "<p>a</p><p>b</p>"},
		{"switch kind", "<ul><li>a|</li></ul>", list("ol"), "<ol><li>a</li></ol>"},
		{"middle item", "<ul><li>a</li><li>b|</li><li>c</li></ul>", list("ul"), "<ul><li>a</li></ul><p>b</p><ul><li>c</li></ul>"},
		{"join previous list", "<ol><li>a</li></ol><p>b|</p>", list("ol"), "<ol><li>a</li><li>b</li></ol>"},
		{"bare text", "a|b", list("ol"), "<ol><li>ab</li></ol>"},
		{"heading kept in item", "<h1>a|</h1>", list("ul"), "<ul><li><h1>a</h1></li></ul>"},
	})
}

func TestToggleListRejectsOtherTags(t *testing.T) {
	_, res, _ := apply(t, "<p>a|</p>", list("dl"))
	if res.Changed {
		t.Error("only ul and ol are lists")
	}
}

func align(value string) primitive {
	return func(doc *tree.Node, sel cursor.Selection) format.Result {
		return format.Align(doc, sel, value)
	}
}

func TestAlign(t *testing.T) {
	runCases(t, []testCase{
		{"paragraph becomes div", "<p>ab|c</p>", align("center"), `<div style="text-align: center;">abc</div>`},
		{"paragraph attributes dropped", `<p style="color: red">[a<b>b</b>]</p>`, align("right"), `<div style="text-align: right;">a<b>b</b></div>`},
		{"heading justified", "<h1>a|</h1>", align("right"), `<h1 style="text-align: right;">a</h1>`},
		{"existing style kept", `<div style="color: red">a|</div>`, align("left"), `<div style="color: red; text-align: left;">a</div>`},
		{"bare text wrapped", "a|b", align("center"), `<div style="text-align: center;">ab</div>`},
		{"several lines", "<h1>[a</h1><h2>b]</h2>", align("center"), `<h1 style="text-align: center;">a</h1><h2 style="text-align: center;">b</h2>`},
	})
}

func TestAlignKeepsText(t *testing.T) {
	in := "<p>Hello <i>wo|rld</i></p>"
	_, _, out := apply(t, in, align("right"))
	if out.TextContent() != "Hello world" {
		t.Errorf("text changed: %q", out.TextContent())
	}
}

func TestCreateLink(t *testing.T) {
	link := func(doc *tree.Node, sel cursor.Selection) format.Result {
		return format.CreateLink(doc, sel, "https://x.io")
	}
	runCases(t, []testCase{
		{"wrap selection", "<p>[ab]c</p>", link, `<p><a href="https://x.io">ab</a>c</p>`},
		{"retarget link", `<p><a href="/old">[ab]</a></p>`, link, `<p><a href="https://x.io">ab</a></p>`},
	})

	got, res, out := apply(t, "<p>a|</p>", link)
	if got != `<p>a<a href="https://x.io">https://x.io</a></p>` {
		t.Errorf("collapsed: got %q", got)
	}
	if !res.Moved || res.Caret.Start != 1+len("https://x.io") {
		t.Errorf("caret = %+v", res.Caret)
	}
	if sel := cursor.ResolveSelection(out, res.Caret); sel.Focus.Node.Data != "https://x.io" {
		t.Errorf("caret resolved to %s", sel.Focus)
	}
}

func TestCreateLinkEmptyURL(t *testing.T) {
	_, res, _ := apply(t, "<p>[ab]</p>", func(doc *tree.Node, sel cursor.Selection) format.Result {
		return format.CreateLink(doc, sel, "")
	})
	if res.Changed {
		t.Error("empty URL should be a no-op")
	}
}

func TestInsertImage(t *testing.T) {
	img := func(doc *tree.Node, sel cursor.Selection) format.Result {
		return format.InsertImage(doc, sel, "i.png")
	}
	runCases(t, []testCase{
		{"at caret", "<p>a|b</p>", img, `<p>a<img src="i.png"/>b</p>`},
		{"replaces selection", "<p>a[x]b</p>", img, `<p>a<img src="i.png"/>b</p>`},
		{"empty paragraph", "<p>|<br></p>", img, `<p><img src="i.png"/></p>`},
	})
}

func TestWrapCode(t *testing.T) {
	runCases(t, []testCase{
		{"inline fragment", "<p>a[bc]d</p>", format.WrapCode, "<div>a<pre><code>bc</code></pre>d</div>"},
		{"block fragment", "<p>[a</p><p>b]</p>", format.WrapCode, "<pre><p>a</p><p>b</p></pre>"},
		{"keeps inline markup", "<div>[a<b>b</b>]</div>", format.WrapCode, "<div><pre><code>a<b>b</b></code></pre></div>"},
	})

	_, res, _ := apply(t, "<p>a|</p>", format.WrapCode)
	if res.Changed {
		t.Error("collapsed selection should be a no-op")
	}
}

func TestInsertParagraph(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		want  string
		caret string
	}{
		{"split paragraph", "<p>a|bc</p>", "<p>a</p><p>bc</p>", "bc"},
		{"at start", "<p>|ab</p>", "<p><br/></p><p>ab</p>", "ab"},
		{"at end of heading", "<h1>ab|</h1>", "<h1>ab</h1><p><br/></p>", ""},
		{"bare text", "ab|c", "<p>ab</p><p>c</p>", "c"},
		{"keeps inline markup", "<p><b>a|b</b></p>", "<p><b>a</b></p><p><b>b</b></p>", "b"},
		{"list item", "<ul><li>a|b</li></ul>", "<ul><li>a</li><li>b</li></ul>", "b"},
		{"empty item leaves list", "<ul><li>a</li><li>|<br></li></ul>", "<ul><li>a</li></ul><p><br/></p>", ""},
		{"replaces selection", "<p>a[b]c</p>", "<p>a</p><p>c</p>", "c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, res, out := apply(t, tt.in, format.InsertParagraph)
			if got != tt.want {
				t.Fatalf("got  %q\nwant %q", got, tt.want)
			}
			if !res.Moved {
				t.Fatal("caret should move")
			}
			sel := cursor.ResolveSelection(out, res.Caret)
			if tt.caret == "" {
				if sel.Focus.Node.IsText() {
					t.Errorf("caret should sit in an empty block, got %s", sel.Focus)
				}
				return
			}
			if sel.Focus.Node.Data != tt.caret || sel.Focus.Offset != 0 {
				t.Errorf("caret at %s, want start of %q", sel.Focus, tt.caret)
			}
		})
	}
}

func TestInsertParagraphInPre(t *testing.T) {
	got, res, _ := apply(t, "<pre>a|b</pre>", format.InsertParagraph)
	if got != "<pre>a\nb</pre>" {
		t.Errorf("got %q", got)
	}
	if res.Caret.Start != 2 {
		t.Errorf("caret = %+v", res.Caret)
	}
}

func TestInsertText(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		text  string
		want  string
		caret int
	}{
		{"at caret", "<p>a|c</p>", "b", "<p>abc</p>", 2},
		{"replaces selection", "<p>a[bc]d</p>", "X", "<p>aXd</p>", 2},
		{"empty paragraph", "<p>|<br></p>", "x", "<p>x</p>", 1},
		{"inside bold", "<p><b>a|</b></p>", "b", "<p><b>ab</b></p>", 2},
		{"across blocks", "<p>a[b</p><p>c]d</p>", "-", "<p>a-d</p>", 2},
		{"empty document", "|", "hi", "hi", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, res, out := apply(t, tt.in, func(doc *tree.Node, sel cursor.Selection) format.Result {
				return format.InsertText(doc, sel, tt.text)
			})
			if got != tt.want {
				t.Errorf("got  %q\nwant %q", got, tt.want)
			}
			if !res.Moved || res.Caret.Start != tt.caret {
				t.Errorf("caret = %+v, want %d", res.Caret, tt.caret)
			}
			if sel := cursor.ResolveSelection(out, res.Caret); !sel.Focus.Node.IsText() {
				t.Errorf("caret resolved to %s", sel.Focus)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	runCases(t, []testCase{
		{"backward char", "<p>ab|c</p>", format.DeleteBackward, "<p>ac</p>"},
		{"backward joins blocks", "<p>a</p><p>|bc</p>", format.DeleteBackward, "<p>abc</p>"},
		{"backward removes empty block", "<p>a</p><p>|<br></p>", format.DeleteBackward, "<p>a</p>"},
		{"backward line break", "<p>a<br>|b</p>", format.DeleteBackward, "<p>ab</p>"},
		{"backward selection", "<p>a[b</p><p>c]d</p>", format.DeleteBackward, "<p>ad</p>"},
		{"everything", "<p>[ab]</p>", format.DeleteBackward, "<p><br/></p>"},
		{"forward char", "<p>a|bc</p>", format.DeleteForward, "<p>ac</p>"},
		{"forward joins blocks", "<p>a|</p><p>b</p>", format.DeleteForward, "<p>ab</p>"},
		{"forward image", `<p>a|<img src="x.png">b</p>`, format.DeleteForward, "<p>ab</p>"},
	})
}

func TestDeleteAtEdges(t *testing.T) {
	if _, res, _ := apply(t, "<p>|ab</p>", format.DeleteBackward); res.Changed {
		t.Error("backspace at document start should be a no-op")
	}
	if _, res, _ := apply(t, "<p>ab|</p>", format.DeleteForward); res.Changed {
		t.Error("delete at document end should be a no-op")
	}
}

func TestDeleteBackwardCaret(t *testing.T) {
	_, res, out := apply(t, "<p>a</p><p>|bc</p>", format.DeleteBackward)
	if !res.Moved || res.Caret.Start != 1 {
		t.Fatalf("caret = %+v", res.Caret)
	}
	sel := cursor.ResolveSelection(out, res.Caret)
	if sel.Focus.Node.Data != "abc" || sel.Focus.Offset != 1 {
		t.Errorf("caret at %s", sel.Focus)
	}
}

func TestDeleteBackwardIntoEmptyBlock(t *testing.T) {
	got, res, out := apply(t, "<p>ab</p><p><br></p><p>|<br></p>", format.DeleteBackward)
	if got != "<p>ab</p><p><br/></p>" {
		t.Fatalf("content = %q", got)
	}
	if !res.Moved || res.Caret.Start != 2 || res.Caret.Affinity != cursor.Downstream {
		t.Fatalf("caret = %+v", res.Caret)
	}
	sel := cursor.ResolveSelection(out, res.Caret)
	if sel.Focus.Node != out.Children[1] || sel.Focus.Offset != 0 {
		t.Errorf("caret at %s, want before the line break of the empty paragraph", sel.Focus)
	}
}
