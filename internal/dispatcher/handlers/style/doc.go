// Package style provides handlers for the toolbar formatting actions.
//
// StyleHandler covers the inline toggles (bold, italic, underline), the
// block toggles (heading1, heading2, paragraph), the list toggles, the
// three alignments and the code wrap. InsertHandler covers the prompted
// insertions, link and image.
//
// Every handler works on the context's working tree and selection and
// leaves sanitizing and committing to the dispatcher.
//
// # Usage
//
//	d.RegisterHandler(style.NewStyleHandler())
//	d.RegisterHandler(style.NewInsertHandler())
package style
