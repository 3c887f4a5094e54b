package cmd

import (
	"fmt"
	"strings"

	"github.com/corey/tally/internal/app"
)

// isDBLockError returns true if the error chain contains a bbolt lock timeout.
// bbolt returns the string "timeout" when it cannot acquire the file lock
// within the configured deadline.
func isDBLockError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "timeout")
}

// diagnoseDBLock returns actionable guidance when a bbolt open fails due to
// lock contention. The usual holder is a watch started with --save.
func diagnoseDBLock(paths *app.Paths) string {
	return fmt.Sprintf("database %s is locked by another process\n"+
		"  → a running 'tally watch --save' keeps it open\n"+
		"  → find the process:  ps aux | grep 'tally'\n"+
		"  → stop it or retry with a longer db_timeout in %s", paths.DB, paths.Config)
}
