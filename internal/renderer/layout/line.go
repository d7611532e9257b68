package layout

import (
	"strings"

	"golang.org/x/net/html/atom"

	"github.com/dshills/inkwell/internal/engine/cursor"
	"github.com/dshills/inkwell/internal/engine/tree"
)

// Cell is one grapheme cluster placed on a line.
type Cell struct {
	// Text is the cluster. It is empty for zero-width caret stops such
	// as line breaks.
	Text  string
	Width int
	Style Style

	// Node is the text node or line break the cell came from, nil for
	// decorations such as list markers and image placeholders.
	Node *tree.Node

	// Offset is the rune offset of the cluster within Node, Runes its
	// length in runes.
	Offset int
	Runes  int

	// Col is the screen column of the cell, after indentation and
	// alignment.
	Col int
}

// IsSpace reports whether the cell is whitespace.
func (c Cell) IsSpace() bool {
	return c.Text != "" && strings.TrimSpace(c.Text) == ""
}

// Line is one visual row.
type Line struct {
	Cells  []Cell
	Indent int
	Align  Align

	// Width is the last column used, alignment included.
	Width int

	// Block is the nearest block element, nil for root-level runs.
	Block *tree.Node
}

// IsEmpty returns true if the line shows nothing.
func (l Line) IsEmpty() bool {
	for _, c := range l.Cells {
		if c.Text != "" {
			return false
		}
	}
	return true
}

// Document is the layout of one tree at one width.
type Document struct {
	Lines []Line
	Width int

	root *tree.Node
}

// Root returns the tree the layout was computed for.
func (d *Document) Root() *tree.Node {
	return d.root
}

// Rows returns the number of visual rows.
func (d *Document) Rows() int {
	return len(d.Lines)
}

// Locate returns the row and column of the caret at pt.
func (d *Document) Locate(pt cursor.Point) (row, col int, ok bool) {
	pt, ok = d.leafPoint(pt)
	if !ok {
		return 0, 0, false
	}

	var last *Cell
	lastRow := 0
	for r := range d.Lines {
		cells := d.Lines[r].Cells
		for i := range cells {
			c := &cells[i]
			if c.Node != pt.Node {
				continue
			}
			if !c.Node.IsText() || (pt.Offset >= c.Offset && pt.Offset < c.Offset+c.Runes) {
				return r, c.Col, true
			}
			last, lastRow = c, r
		}
	}
	if last == nil {
		return 0, 0, false
	}
	return lastRow, last.Col + last.Width, true
}

// leafPoint moves an element point down to the text node or line break it
// sits in front of.
func (d *Document) leafPoint(pt cursor.Point) (cursor.Point, bool) {
	orig := pt
	for i := 0; i < 64; i++ {
		n := pt.Node
		if n == nil {
			return cursor.Point{}, false
		}
		if n.IsText() || n.Is(atom.Br) {
			return pt, true
		}
		if pt.Offset >= 0 && pt.Offset < len(n.Children) {
			pt = cursor.Point{Node: n.Children[pt.Offset]}
			continue
		}
		if len(n.Children) == 0 {
			break
		}
		last := n.Children[len(n.Children)-1]
		if last.IsText() {
			return cursor.Point{Node: last, Offset: last.Len()}, true
		}
		if last.Is(atom.Br) {
			break
		}
		pt = cursor.Point{Node: last, Offset: len(last.Children)}
	}

	if d.root == nil {
		return cursor.Point{}, false
	}
	o, ok := cursor.Map(d.root, cursor.NewCaret(orig.Node, orig.Offset))
	if !ok {
		return cursor.Point{}, false
	}
	pt = cursor.Resolve(d.root, o.Start)
	return pt, pt.Node.IsText()
}

// PointAt returns the caret position closest to a screen cell.
func (d *Document) PointAt(row, col int) (cursor.Point, bool) {
	if row < 0 || row >= len(d.Lines) {
		return cursor.Point{}, false
	}
	var last *Cell
	cells := d.Lines[row].Cells
	for i := range cells {
		c := &cells[i]
		if c.Node == nil {
			continue
		}
		if col <= c.Col || col < c.Col+c.Width {
			return before(c), true
		}
		last = c
	}
	if last == nil {
		return cursor.Point{}, false
	}
	if !last.Node.IsText() || last.Text == "" {
		return before(last), true
	}
	return cursor.Point{Node: last.Node, Offset: last.Offset + last.Runes}, true
}

func before(c *Cell) cursor.Point {
	if c.Node.IsText() {
		return cursor.Point{Node: c.Node, Offset: c.Offset}
	}
	return cursor.Point{Node: c.Node}
}

// String renders the layout as plain text, one line per row.
func (d *Document) String() string {
	var sb strings.Builder
	for i, line := range d.Lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		x := 0
		for _, c := range line.Cells {
			if c.Text == "" {
				continue
			}
			for ; x < c.Col; x++ {
				sb.WriteByte(' ')
			}
			sb.WriteString(c.Text)
			x += c.Width
		}
	}
	return sb.String()
}

// Stop is a caret position on screen.
type Stop struct {
	Row, Col int
	Point    cursor.Point
}

// Stops returns every caret position of the layout in reading order. A
// wrapped line shares its break position with the next row.
func (d *Document) Stops() []Stop {
	var stops []Stop
	for r, line := range d.Lines {
		var last *Cell
		for i := range line.Cells {
			c := &line.Cells[i]
			if c.Node == nil {
				continue
			}
			stops = append(stops, Stop{Row: r, Col: c.Col, Point: before(c)})
			last = c
		}
		if last == nil || !last.Node.IsText() || last.Text == "" {
			continue
		}
		end := cursor.Point{Node: last.Node, Offset: last.Offset + last.Runes}
		if r+1 < len(d.Lines) && d.firstStop(r+1) == end {
			continue
		}
		stops = append(stops, Stop{Row: r, Col: last.Col + last.Width, Point: end})
	}
	return stops
}

func (d *Document) firstStop(row int) cursor.Point {
	for i := range d.Lines[row].Cells {
		if c := &d.Lines[row].Cells[i]; c.Node != nil {
			return before(c)
		}
	}
	return cursor.Point{}
}

// Step moves pt by delta caret stops. It reports false when pt cannot be
// located; the result is clamped to the first and last stop.
func (d *Document) Step(pt cursor.Point, delta int) (cursor.Point, bool) {
	row, col, ok := d.Locate(pt)
	if !ok {
		return cursor.Point{}, false
	}
	stops := d.Stops()
	for i, s := range stops {
		if s.Row == row && s.Col >= col {
			j := min(max(i+delta, 0), len(stops)-1)
			return stops[j].Point, true
		}
	}
	return cursor.Point{}, false
}
