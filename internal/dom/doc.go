// Package dom provides the document operations the word engine needs on top
// of golang.org/x/net/html node trees: text ranges, structural wrapping of a
// single text run, unwrapping, and DOM-style normalization that reports how
// text nodes were merged so callers can rebase offsets.
package dom
