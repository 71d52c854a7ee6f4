// Package search builds image-search URLs for activated words.
package search

import (
	"fmt"
	"strings"
)

// Engine names a supported image search provider.
type Engine string

// Supported engines.
const (
	Bing       Engine = "bing"
	Google     Engine = "google"
	DuckDuckGo Engine = "duckduckgo"
)

// DefaultEngine is used for unknown engine names.
const DefaultEngine = Bing

var templates = map[Engine]string{
	Bing:       "https://cn.bing.com/images/search?q=%s&form=HDRSC2&first=1",
	Google:     "https://www.google.com/search?q=%s&tbm=isch",
	DuckDuckGo: "https://duckduckgo.com/?q=%s&iax=images&ia=images",
}

// Engines returns the supported engines.
func Engines() []Engine {
	return []Engine{Bing, Google, DuckDuckGo}
}

// Valid reports whether e is a supported engine.
func (e Engine) Valid() bool {
	_, ok := templates[e]
	return ok
}

// ParseEngine maps a setting value to an engine, falling back to
// DefaultEngine.
func ParseEngine(name string) Engine {
	e := Engine(strings.ToLower(strings.TrimSpace(name)))
	if e.Valid() {
		return e
	}
	return DefaultEngine
}

// URL returns the image search URL for query.
func (e Engine) URL(query string) string {
	tmpl, ok := templates[e]
	if !ok {
		tmpl = templates[DefaultEngine]
	}
	return fmt.Sprintf(tmpl, EscapeComponent(query))
}

// URL returns the image search URL for query on the named engine.
func URL(engine, query string) string {
	return ParseEngine(engine).URL(query)
}

const upperHex = "0123456789ABCDEF"

// EscapeComponent percent-encodes s the way browsers' encodeURIComponent
// does: only ASCII letters, digits and -_.!~*'() are left as is.
func EscapeComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperHex[c>>4])
		b.WriteByte(upperHex[c&15])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}
