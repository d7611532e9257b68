// Package surface provides the headless editing surface an editor renders
// into.
//
// A Surface holds the displayed tree, the active selection and a vertical
// scroll position. Committed trees are staged and only become visible on
// the next Render, after which callbacks registered with AfterRender run
// in order. Geometry comes from the layout engine: a row is RowHeight
// units tall and a column is one unit wide.
//
// Basic usage:
//
//	s := surface.New(surface.WithSize(80, 15))
//	ed.Attach(s)
//	s.Render()
//	doc := s.Layout()
package surface
