package renderer

import (
	"github.com/dshills/inkwell/internal/renderer/backend"
	"github.com/dshills/inkwell/internal/renderer/layout"
)

// cellAttr returns the terminal attributes for a layout style.
func cellAttr(s layout.Style) backend.Attr {
	var a backend.Attr
	if s.Has(layout.Bold) || s.Has(layout.Heading) {
		a |= backend.AttrBold
	}
	if s.Has(layout.Italic) {
		a |= backend.AttrItalic
	}
	if s.Has(layout.Underline) || s.Has(layout.Link) {
		a |= backend.AttrUnderline
	}
	if s.Has(layout.Code) || s.Has(layout.Image) || s.Has(layout.Marker) {
		a |= backend.AttrDim
	}
	return a
}
