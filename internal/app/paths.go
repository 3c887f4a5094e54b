package app

import (
	"os"
	"path/filepath"
)

// Paths holds all resolved filesystem paths for the .tally/ project directory.
// All fields are pre-computed strings: zero-alloc access after construction.
type Paths struct {
	Root   string // .tally/
	DB     string // .tally/tally.db
	Config string // .tally/config.yaml

	LogDir   string // .tally/log/
	WatchLog string // .tally/log/watch.log
}

// NewPaths constructs all resolved paths from a project root directory.
func NewPaths(projectRoot string) *Paths {
	root := filepath.Join(projectRoot, ".tally")
	return &Paths{
		Root:   root,
		DB:     filepath.Join(root, "tally.db"),
		Config: filepath.Join(root, "config.yaml"),

		LogDir:   filepath.Join(root, "log"),
		WatchLog: filepath.Join(root, "log", "watch.log"),
	}
}

// EnsureDirs creates all subdirectories under .tally/. Idempotent.
func (p *Paths) EnsureDirs() error {
	for _, d := range []string{p.Root, p.LogDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return err
		}
	}
	return nil
}
