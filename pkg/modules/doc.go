// Package modules fetches the view modules that route loaders render.
//
// A Source returns the raw bytes of a module by key. FSSource reads from an
// fs.FS, such as the content embedded in the binary or a directory on disk;
// S3Source reads objects from a bucket. Fetched markdown is parsed into a
// Document, which is a view.
//
//	src := modules.NewFSSource(os.DirFS("content"))
//	doc, err := modules.Load(ctx, src, "dashboard.md")
package modules
