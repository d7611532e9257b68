package layout

// TabExpander computes tab stops for preformatted text.
type TabExpander struct {
	tabWidth int
}

// NewTabExpander creates a tab expander with the given tab width.
func NewTabExpander(tabWidth int) *TabExpander {
	if tabWidth < 1 {
		tabWidth = DefaultTabWidth
	}
	return &TabExpander{tabWidth: tabWidth}
}

// TabWidth returns the current tab width.
func (t *TabExpander) TabWidth() int {
	return t.tabWidth
}

// NextTabStop returns the next tab stop column after the given column.
func (t *TabExpander) NextTabStop(col int) int {
	return col + t.TabStopOffset(col)
}

// TabStopOffset returns how many columns a tab at col expands to.
func (t *TabExpander) TabStopOffset(col int) int {
	return t.tabWidth - (col % t.tabWidth)
}
