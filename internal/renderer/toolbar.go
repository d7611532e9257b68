package renderer

import (
	"github.com/dshills/inkwell/internal/dispatcher/action"
	"github.com/dshills/inkwell/internal/renderer/backend"
)

var toolbarLabels = map[action.Action]string{
	action.Bold:          "B",
	action.Italic:        "I",
	action.Underline:     "U",
	action.Heading1:      "H1",
	action.Heading2:      "H2",
	action.Paragraph:     "P",
	action.UnorderedList: "UL",
	action.OrderedList:   "OL",
	action.AlignLeft:     "Left",
	action.AlignCenter:   "Center",
	action.AlignRight:    "Right",
	action.Link:          "Link",
	action.Image:         "Image",
	action.Code:          "Code",
}

type toolbarItem struct {
	action action.Action
	label  string
	x      int
	width  int
}

// layoutToolbar places the toolbar buttons on a row width columns wide.
// Right-to-left toolbars start at the right edge. Buttons that do not fit
// are left out.
func layoutToolbar(width int, rtl bool) []toolbarItem {
	var items []toolbarItem
	x := 0
	for _, a := range action.Toolbar() {
		label := "[" + toolbarLabels[a] + "]"
		w := len(label)
		if x+w > width {
			break
		}
		items = append(items, toolbarItem{action: a, label: label, x: x, width: w})
		x += w + 1
	}
	if rtl {
		for i := range items {
			items[i].x = width - items[i].x - items[i].width
		}
	}
	return items
}

func hitToolbar(items []toolbarItem, x int) (action.Action, bool) {
	for _, it := range items {
		if x >= it.x && x < it.x+it.width {
			return it.action, true
		}
	}
	return action.None, false
}

func drawToolbar(b backend.Backend, items []toolbarItem, row int) {
	for _, it := range items {
		backend.DrawText(b, it.x, row, it.x+it.width, it.label, backend.AttrBold)
	}
}
