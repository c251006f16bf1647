// Package views holds the application's views and their loaders.
//
// Every page loader fetches a markdown module from a modules.Source and
// wraps the rendered document in its page view. The layout needs no module.
package views

import (
	"embed"
	"io/fs"

	"github.com/app-estudos/estudos/pkg/modules"
	"github.com/app-estudos/estudos/pkg/view"
)

//go:embed content/*.md
var content embed.FS

// Embedded returns the modules compiled into the binary.
func Embedded() modules.Source {
	sub, err := fs.Sub(content, "content")
	if err != nil {
		panic(err)
	}
	return modules.NewFSSource(sub)
}

// Link is a navigation entry of the layout.
type Link struct {
	Label string
	Href  string
}

// LayoutBase is the shell shared by every page: header, menu and the outlet
// where the current page renders.
type LayoutBase struct {
	Title string
	Menu  []Link
}

// Render implements view.View. The active page fills the main outlet.
func (l *LayoutBase) Render() *view.Node {
	items := make([]*view.Node, 0, len(l.Menu))
	for _, link := range l.Menu {
		items = append(items, view.El("li", view.El("a", view.Href(link.Href), link.Label)))
	}
	return view.El("div", view.Class("layout"),
		view.El("header", view.El("h1", l.Title)),
		view.El("nav", view.El("ul", items)),
		view.El("main", view.Outlet()),
	)
}

// Page is a content page. Name is the route name; Actions are links shown
// under the document.
type Page struct {
	Name    string
	Doc     *modules.Document
	Actions []Link
}

// Render implements view.View.
func (p *Page) Render() *view.Node {
	var actions *view.Node
	if len(p.Actions) > 0 {
		links := make([]*view.Node, 0, len(p.Actions))
		for _, a := range p.Actions {
			links = append(links, view.El("a", view.Class("action"), view.Href(a.Href), a.Label))
		}
		actions = view.El("div", view.Class("actions"), links)
	}
	return view.El("section", view.Class("page", "page-"+p.Name),
		p.Doc,
		actions,
	)
}
