package view

import (
	"bytes"
	"fmt"
	"io"
)

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// RenderToString renders a node tree to an HTML string.
func RenderToString(n *Node) (string, error) {
	var buf bytes.Buffer
	if err := RenderToWriter(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter streams a node tree as HTML to w.
// An outlet that was never filled renders as nothing.
func RenderToWriter(w io.Writer, n *Node) error {
	if n == nil {
		return nil
	}

	switch n.Kind {
	case KindElement:
		return renderElement(w, n)
	case KindText:
		_, err := io.WriteString(w, escapeHTML(n.Text))
		return err
	case KindRaw:
		_, err := io.WriteString(w, n.Text)
		return err
	case KindFragment:
		for _, c := range n.Children {
			if err := RenderToWriter(w, c); err != nil {
				return err
			}
		}
		return nil
	case KindOutlet:
		return nil
	default:
		return fmt.Errorf("view: unknown node kind %d", n.Kind)
	}
}

func renderElement(w io.Writer, n *Node) error {
	if n.Tag == "" {
		return fmt.Errorf("view: element without tag")
	}
	if _, err := fmt.Fprintf(w, "<%s", n.Tag); err != nil {
		return err
	}
	for _, a := range n.Attrs {
		if _, err := fmt.Fprintf(w, ` %s="%s"`, a.Key, escapeAttr(a.Value)); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}

	if IsVoidElement(n.Tag) {
		return nil
	}

	for _, c := range n.Children {
		if err := RenderToWriter(w, c); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "</%s>", n.Tag)
	return err
}
