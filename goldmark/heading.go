// Package goldmark queries markdown documents through the goldmark parser.
package goldmark

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// HasHeading reports whether src contains an ATX or setext heading, of any
// level, whose text is title. Lines inside code blocks do not count.
func HasHeading(src []byte, title string) bool {
	root := goldmark.New().Parser().Parse(text.NewReader(src))
	want := strings.TrimSpace(title)

	found := false
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		h, ok := n.(*gmast.Heading)
		if !ok {
			return gmast.WalkContinue, nil
		}
		if headingText(h, src) == want {
			found = true
			return gmast.WalkStop, nil
		}
		return gmast.WalkSkipChildren, nil
	})
	return found
}

func headingText(h *gmast.Heading, src []byte) string {
	var buf bytes.Buffer
	lines := h.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(src))
	}
	return strings.TrimSpace(buf.String())
}
