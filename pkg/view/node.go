package view

import (
	"fmt"
	"strings"
)

// Kind is the node type discriminator.
type Kind uint8

const (
	KindElement  Kind = iota // <div>, <a>, etc.
	KindText                 // escaped text
	KindFragment             // children without a wrapper
	KindRaw                  // trusted HTML, written verbatim
	KindOutlet               // nested-output region of a layout
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	case KindRaw:
		return "Raw"
	case KindOutlet:
		return "Outlet"
	default:
		return "Unknown"
	}
}

// Node is one node of a rendered view tree.
type Node struct {
	Kind     Kind
	Tag      string
	Attrs    []Attr
	Children []*Node
	Text     string
}

// Attr is a single element attribute. Attributes render in the order given.
type Attr struct {
	Key   string
	Value string
}

// View is anything that can render itself to a node tree.
//
// A view that is used for a route with children must render exactly one
// Outlet.
type View interface {
	Render() *Node
}

// Func adapts a plain function to the View interface.
type Func func() *Node

// Render implements View.
func (f Func) Render() *Node { return f() }

// El creates an element. Arguments can be nil, Attr, []Attr, *Node, []*Node,
// View or string (text).
func El(tag string, args ...any) *Node {
	n := &Node{Kind: KindElement, Tag: strings.ToLower(tag)}
	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			continue
		case Attr:
			if v.Key != "" {
				n.Attrs = append(n.Attrs, v)
			}
		case []Attr:
			for _, a := range v {
				if a.Key != "" {
					n.Attrs = append(n.Attrs, a)
				}
			}
		default:
			n.Children = appendChild(n.Children, arg)
		}
	}
	return n
}

// Fragment groups children without a wrapper element.
func Fragment(children ...any) *Node {
	n := &Node{Kind: KindFragment}
	for _, c := range children {
		n.Children = appendChild(n.Children, c)
	}
	return n
}

func appendChild(children []*Node, arg any) []*Node {
	switch v := arg.(type) {
	case nil:
	case *Node:
		if v != nil {
			children = append(children, v)
		}
	case []*Node:
		for _, c := range v {
			if c != nil {
				children = append(children, c)
			}
		}
	case string:
		children = append(children, Text(v))
	case View:
		if out := v.Render(); out != nil {
			children = append(children, out)
		}
	default:
		panic(fmt.Sprintf("view: unsupported child type %T", arg))
	}
	return children
}

// Text creates an escaped text node.
func Text(s string) *Node {
	return &Node{Kind: KindText, Text: s}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *Node {
	return Text(fmt.Sprintf(format, args...))
}

// Raw creates a node written without escaping. Only pass sanitized HTML.
func Raw(html string) *Node {
	return &Node{Kind: KindRaw, Text: html}
}

// Outlet marks where a layout's active child is placed.
func Outlet() *Node {
	return &Node{Kind: KindOutlet}
}

// A creates an attribute.
func A(key, value string) Attr {
	return Attr{Key: key, Value: value}
}

// Class sets the class attribute.
func Class(classes ...string) Attr {
	return Attr{Key: "class", Value: strings.Join(classes, " ")}
}

// Href sets the href attribute.
func Href(url string) Attr {
	return Attr{Key: "href", Value: url}
}

// ID sets the id attribute.
func ID(id string) Attr {
	return Attr{Key: "id", Value: id}
}
