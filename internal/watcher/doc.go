// Package watcher triggers processing when new spreadsheet files arrive
// in a watched directory. Events are debounced per path so a file being
// copied in does not fire the handler once per write.
package watcher
