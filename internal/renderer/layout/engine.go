package layout

import (
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
	"golang.org/x/net/html/atom"

	"github.com/dshills/inkwell/internal/engine/tree"
)

// Default layout values.
const (
	DefaultTabWidth = 4
	listIndent      = 2
)

// Engine computes document layouts.
type Engine struct {
	tabs  *TabExpander
	width int // 0 = no wrap
}

// NewEngine creates a layout engine wrapping at width cells. A width of 0
// disables wrapping.
func NewEngine(width, tabWidth int) *Engine {
	return &Engine{
		tabs:  NewTabExpander(tabWidth),
		width: max(width, 0),
	}
}

// Width returns the wrap width (0 = no wrap).
func (e *Engine) Width() int {
	return e.width
}

// TabWidth returns the tab width used in preformatted blocks.
func (e *Engine) TabWidth() int {
	return e.tabs.TabWidth()
}

// Layout computes the visual lines of root.
//
// Every block element starts a new line and a line break forces one. List
// items get a bullet or number marker; their wrapped lines hang under the
// item's text.
func (e *Engine) Layout(root *tree.Node) *Document {
	b := &builder{e: e}
	if root != nil {
		b.children(root, state{})
	}
	b.flush(false, state{})
	return &Document{Lines: b.lines, Width: e.width, root: root}
}

// state is the inherited presentation at a point of the walk.
type state struct {
	style  Style
	pre    bool
	indent int
	hang   int
	align  Align
	block  *tree.Node
	list   *tree.Node
}

type builder struct {
	e     *Engine
	lines []Line

	// cur holds the cells of the logical line being built, lineSt the
	// state of its first cell.
	cur    []Cell
	col    int
	lineSt state

	// marker is a list marker waiting for the item's first line.
	marker []Cell
}

func (b *builder) children(n *tree.Node, st state) {
	for _, c := range n.Children {
		b.node(c, st)
	}
}

func (b *builder) node(n *tree.Node, st state) {
	switch {
	case n.IsText():
		b.text(n, st)
	case n.Is(atom.Br):
		b.add(Cell{Node: n, Style: st.style}, st)
		b.flush(true, st)
	case n.Is(atom.Img):
		label := "image"
		if alt, ok := n.GetAttr("alt"); ok && strings.TrimSpace(alt) != "" {
			label = alt
		}
		b.decoration("["+label+"]", st.style|Image, st)
	case n.IsBlock():
		b.flush(false, st)
		inner := b.enter(n, st)
		b.children(n, inner)
		if n.Is(atom.Li) && len(b.marker) > 0 {
			b.flush(true, inner)
		}
		b.flush(false, inner)
	case n.IsElement():
		inner := st
		inner.style = inlineStyle(n, st.style)
		b.children(n, inner)
	}
}

// enter returns the state inside block n.
func (b *builder) enter(n *tree.Node, st state) state {
	inner := st
	inner.block = n
	switch n.Tag {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		inner.style |= Heading | Bold
	case atom.Pre:
		inner.pre = true
		inner.style |= Code
	case atom.Ul, atom.Ol:
		inner.indent = st.indent + st.hang + listIndent
		inner.hang = 0
		inner.list = n
	case atom.Blockquote:
		inner.indent = st.indent + st.hang + listIndent
		inner.hang = 0
	case atom.Li:
		text := markerText(st.list, n)
		b.marker = nil
		b.col = 0
		for _, c := range clusters(text) {
			b.marker = append(b.marker, Cell{Text: c, Width: cellWidth(c), Style: st.style | Marker})
		}
		inner.hang = 0
		for _, c := range b.marker {
			inner.hang += c.Width
		}
	}
	if a, ok := alignOf(n); ok {
		inner.align = a
	}
	return inner
}

// markerText returns the bullet or number of item within list.
func markerText(list, item *tree.Node) string {
	if list == nil || !list.Is(atom.Ol) {
		return "- "
	}
	n := 1
	if v, ok := list.GetAttr("start"); ok {
		if start, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			n = start
		}
	}
	for _, c := range list.Children {
		if c == item {
			break
		}
		if c.Is(atom.Li) {
			n++
		}
	}
	return strconv.Itoa(n) + ". "
}

func (b *builder) text(n *tree.Node, st state) {
	offset := 0
	for _, cluster := range clusters(n.Data) {
		runes := utf8.RuneCountInString(cluster)
		cell := Cell{Text: cluster, Style: st.style, Node: n, Offset: offset, Runes: runes}
		offset += runes

		switch cluster {
		case "\n", "\r\n", "\r":
			if st.pre {
				cell.Text = ""
				b.add(cell, st)
				b.flush(true, st)
				continue
			}
			cell.Text, cell.Width = " ", 1
		case "\t":
			w := 1
			if st.pre {
				w = b.e.tabs.TabStopOffset(b.col)
			}
			cell.Text, cell.Width = strings.Repeat(" ", w), w
		default:
			cell.Width = cellWidth(cluster)
		}
		b.add(cell, st)
	}
}

func (b *builder) decoration(text string, style Style, st state) {
	for _, c := range clusters(text) {
		b.add(Cell{Text: c, Width: cellWidth(c), Style: style}, st)
	}
}

func (b *builder) add(c Cell, st state) {
	if len(b.cur) == 0 {
		b.lineSt = st
	}
	b.cur = append(b.cur, c)
	b.col += c.Width
}

// flush wraps the pending logical line into rows. An empty line is only
// emitted when force is set.
func (b *builder) flush(force bool, st state) {
	if len(b.cur) == 0 && !force {
		return
	}
	if len(b.cur) > 0 {
		st = b.lineSt
	}

	avail := 0
	if b.e.width > 0 {
		avail = max(1, b.e.width-st.indent-st.hang)
	}
	rows := wrap(b.cur, avail)
	for i, cells := range rows {
		indent := st.indent + st.hang
		if i == 0 && len(b.marker) > 0 {
			cells = append(slices.Clone(b.marker), cells...)
			indent = st.indent
		}
		b.lines = append(b.lines, place(cells, indent, st.align, st.block, b.e.width))
	}
	b.marker = nil
	b.cur = nil
	b.col = 0
}

// place assigns columns to a row's cells.
func place(cells []Cell, indent int, align Align, block *tree.Node, width int) Line {
	col := indent
	used := indent
	for i := range cells {
		cells[i].Col = col
		col += cells[i].Width
		if cells[i].Width > 0 && !cells[i].IsSpace() {
			used = col
		}
	}

	shift := 0
	if width > 0 {
		switch align {
		case AlignCenter:
			shift = max(0, (width-used)/2)
		case AlignRight:
			shift = max(0, width-used)
		}
	}
	if shift > 0 {
		for i := range cells {
			cells[i].Col += shift
		}
	}
	return Line{Cells: cells, Indent: indent, Align: align, Width: used + shift, Block: block}
}

// wrap splits cells into rows of at most avail columns, breaking after
// whitespace where possible. Whitespace may hang past the edge. An avail
// of 0 disables wrapping.
func wrap(cells []Cell, avail int) [][]Cell {
	if len(cells) == 0 || avail <= 0 {
		return [][]Cell{cells}
	}

	var rows [][]Cell
	var line []Cell
	width, brk := 0, -1
	for _, c := range cells {
		if c.Width > 0 && !c.IsSpace() && width > 0 && width+c.Width > avail {
			if brk > 0 && brk < len(line) {
				rows = append(rows, line[:brk:brk])
				line = slices.Clone(line[brk:])
			} else {
				rows = append(rows, line)
				line = nil
			}
			width, brk = 0, -1
			for _, lc := range line {
				width += lc.Width
			}
		}
		line = append(line, c)
		width += c.Width
		if c.IsSpace() {
			brk = len(line)
		}
	}
	return append(rows, line)
}

// clusters splits text into grapheme clusters.
func clusters(text string) []string {
	if text == "" {
		return nil
	}
	g := uniseg.NewGraphemes(text)
	out := make([]string, 0, len(text))
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

// cellWidth returns the terminal width of a grapheme cluster.
func cellWidth(cluster string) int {
	w := runewidth.StringWidth(cluster)
	if w <= 0 {
		w = uniseg.StringWidth(cluster)
	}
	return max(w, 0)
}
