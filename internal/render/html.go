package render

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/yosssi/gohtml"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// InjectPreloads inserts preload hints for the captured resource sets at the
// end of the document head: stylesheets as rel=preload/as=style, script
// chunks as rel=modulepreload, both cross-origin enabled.
func InjectPreloads(doc string, styles, chunks []string) (string, error) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return "", fmt.Errorf("parse document: %w", err)
	}

	head := findElement(root, atom.Head)
	if head == nil {
		return "", errors.New("document has no head element")
	}

	for _, href := range styles {
		head.AppendChild(linkNode([]html.Attribute{
			{Key: "rel", Val: "preload"},
			{Key: "as", Val: "style"},
			{Key: "href", Val: href},
			{Key: "crossorigin"},
		}))
	}
	for _, href := range chunks {
		head.AppendChild(linkNode([]html.Attribute{
			{Key: "rel", Val: "modulepreload"},
			{Key: "href", Val: href},
			{Key: "crossorigin"},
		}))
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return "", fmt.Errorf("serialize document: %w", err)
	}
	return buf.String(), nil
}

// Format reindents the document for stable, readable output. Cosmetic only,
// but applied uniformly so regression diffs stay quiet.
func Format(doc string) string {
	return gohtml.Format(doc) + "\n"
}

func linkNode(attrs []html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Link,
		Data:     "link",
		Attr:     attrs,
	}
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}
