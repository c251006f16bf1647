// Package view defines the "renderable view" capability the route table
// requires from the view layer, and a small node tree to express it.
//
// A View renders a *Node tree. A layout view places one Outlet in its tree;
// the router composes a chain by filling each parent's outlet with the
// rendered child:
//
//	layout := view.Func(func() *view.Node {
//	    return view.El("main",
//	        view.El("nav", view.Text("menu")),
//	        view.Outlet(),
//	    )
//	})
//	page, _ := view.Fill(layout.Render(), view.El("h1", view.Text("Dashboard")))
//	html, _ := view.RenderToString(page)
//
// Nodes are never mutated once returned by a View; Fill copies the path to
// the outlet.
package view
