// Package layout lays a document tree out into visual lines measured in
// terminal cells.
//
// Each block element starts a new line and a line break forces one. Text
// is split into grapheme clusters with uniseg and wrapped after whitespace
// to the engine width. The resulting Document maps caret points to rows
// and columns and back.
package layout
