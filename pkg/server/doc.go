// Package server serves a route table over HTTP.
//
// Every path under the base path renders the full layout chain of its
// route into an HTML shell. The shell opens a WebSocket to /_nav and
// sends client-side navigations there; the server answers each with the
// rendered #app content, or with an error status. When navigations overlap
// on one connection only the latest request is answered.
//
//	table, err := routes.New(views.NewLoaders(opts))
//	...
//	srv := server.New(table, &server.Config{Address: ":8080", BasePath: "/"})
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// GET /_routes lists the table with each route's load state as JSON.
package server
