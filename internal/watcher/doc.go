// Package watcher reports file changes after a quiet period.
//
// The pricing page uses it to reload the product catalog while the
// program runs: an editor save usually produces several write, create and
// rename events in a row, and the page should re-layout once, not once per
// event.
//
//	w := watcher.NewWatcher(250*time.Millisecond, func(paths []string) {
//	    program.Send(catalogChangedMsg{})
//	})
//	g.Go(func() error { return w.Watch(ctx, catalogPath) })
//
// FileChanged and FilesChanged can also be called directly, which is how
// the tests drive the debouncer.
package watcher
