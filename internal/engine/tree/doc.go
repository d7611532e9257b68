// Package tree provides the document tree backing the editing surface.
//
// A tree is made of three node kinds:
//
//   - DocumentNode: the root. It only holds children.
//   - ElementNode: a tag, an ordered attribute list and ordered children.
//   - TextNode: a character sequence.
//
// Nodes carry no parent pointers. Code that needs ancestor context walks
// forward from the root and keeps the ancestors on an explicit stack; see
// Walk and Locate.
//
// # Characters
//
// All lengths and offsets in this package count runes (Unicode code points),
// never bytes. TextLen returns the number of runes of text below a node and
// Len returns the DOM-style boundary length of a node: runes for a text
// node, number of children otherwise.
//
// # Content strings
//
// Parse turns an HTML fragment into a tree and Render turns a tree back into
// an HTML fragment. Both are built on golang.org/x/net/html, so the markup
// produced by Render is what a browser would serialize for the same tree.
//
//	root, err := tree.Parse("<p>Hello <b>world</b></p>")
//	if err != nil {
//	    return err
//	}
//	root.TextLen()     // 11
//	tree.Render(root)  // "<p>Hello <b>world</b></p>"
package tree
