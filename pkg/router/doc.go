// Package router implements the declarative route table of the application.
//
// The table is a tree of Route literals built once at start-up and immutable
// afterwards. Each route has a path relative to its parent, an optional unique
// name, a lazily evaluated component loader and ordered children. A route with
// children is a layout: its view renders a nested-output region (an outlet)
// that holds the active child.
//
// # Declaring a table
//
//	table, err := router.New(router.Route{
//	    Path:      "/",
//	    Component: layoutLoader,
//	    Children: []router.Route{
//	        {Path: "", Name: "dashboard", Component: dashboardLoader},
//	        {Path: "trabalhos", Name: "trabalhos-list", Component: listLoader},
//	        {Path: "trabalhos/novo", Name: "trabalhos-novo", Component: newLoader},
//	    },
//	})
//
// # Matching
//
// Paths are matched root to leaf by exact literal segments. A child path may
// span several segments ("trabalhos/novo"), and the empty path is the default
// child of its parent. Children are tried in declaration order and the first
// full match wins; there are no parameters and no wildcards.
//
//	m, err := table.Resolve("/trabalhos/novo")
//	// m.Chain == [root, trabalhos-novo]
//
//	m, err = table.ResolveByName("trabalhos-novo", nil)
//
// A failed lookup returns a *NotFoundError, which matches ErrNotFound with
// errors.Is. The table never falls back to another route.
//
// # Loading and composition
//
// Load runs the loader of every node in a chain. Each loader runs at most once
// per process for a successful result; concurrent loads of the same node share
// one in-flight call, and a failed load is retried on the next navigation.
// Compose then fills each layout's outlet with its child, outermost layout
// last, producing the tree handed to the application shell:
//
//	loaded, err := table.Load(ctx, m)
//	tree, err := table.Compose(loaded)
package router
