// Package markdown renders documentation markdown to HTML as a templ component.
package markdown

import (
	"bytes"
	"context"
	"html"
	"io"
	"strings"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// md is safe for concurrent use once built. Raw HTML in sources is dropped
// because the unsafe renderer option is not set.
var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
)

// Markdown returns a templ.Component that renders content as HTML.
func Markdown(content string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		RenderMarkdown(&buf, content)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// RenderMarkdown writes the HTML representation of src to buf. It never
// fails: if conversion errors, the source is written as an escaped <pre>
// block instead.
func RenderMarkdown(buf *bytes.Buffer, src string) {
	var out bytes.Buffer
	if err := md.Convert([]byte(src), &out); err != nil {
		buf.WriteString(`<pre class="md-raw">`)
		buf.WriteString(html.EscapeString(src))
		buf.WriteString("</pre>")
		return
	}
	buf.Write(out.Bytes())
}

// Title returns the text of the first level-1 heading in src, or "" if
// there is none.
func Title(src string) string {
	source := []byte(src)
	root := md.Parser().Parse(text.NewReader(source))
	var title string
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		h, ok := n.(*gmast.Heading)
		if !ok || h.Level != 1 {
			return gmast.WalkContinue, nil
		}
		title = strings.TrimSpace(plainText(h, source))
		return gmast.WalkStop, nil
	})
	return title
}

func plainText(n gmast.Node, source []byte) string {
	var b strings.Builder
	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *gmast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *gmast.String:
			b.Write(t.Value)
		}
		return gmast.WalkContinue, nil
	})
	return b.String()
}
