package app

import (
	"os"
	"path/filepath"
)

// Paths holds all resolved filesystem paths for the .nglint/ project
// directory. All fields are pre-computed strings.
type Paths struct {
	Root string // .nglint/
	DB   string // .nglint/cache.db

	LogDir   string // .nglint/log/
	WatchLog string // .nglint/log/watch.log
}

// NewPaths constructs all resolved paths from a project root directory.
func NewPaths(projectRoot string) *Paths {
	root := filepath.Join(projectRoot, ".nglint")
	return &Paths{
		Root: root,
		DB:   filepath.Join(root, "cache.db"),

		LogDir:   filepath.Join(root, "log"),
		WatchLog: filepath.Join(root, "log", "watch.log"),
	}
}

// EnsureDirs creates all subdirectories under .nglint/. Idempotent.
func (p *Paths) EnsureDirs() error {
	dirs := []string{
		p.Root,
		p.LogDir,
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0755); err != nil {
			return err
		}
	}
	return nil
}

// Exists reports whether the .nglint/ directory has been initialized.
func (p *Paths) Exists() bool {
	info, err := os.Stat(p.Root)
	return err == nil && info.IsDir()
}
