package ports

// Watcher monitors a set of files and reports changes to them.
// The adapter (fsnotify) watches the files' directories but must only invoke
// onChange for the files it was asked about. Only one Watch call should be
// active at a time.
type Watcher interface {
	// Watch starts monitoring paths. onChange is called with the absolute
	// path of each changed, created, removed or renamed file. The callback
	// may be invoked from any goroutine. Returns an error if a directory
	// cannot be watched.
	Watch(paths []string, onChange func(filePath string)) error

	// Stop ends monitoring and releases all resources. After Stop returns
	// no onChange call is running and none starts. Safe to call multiple
	// times.
	Stop() error
}
