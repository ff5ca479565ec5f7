package app

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// skipDirs lists directories never walked during discovery (matches the
// fsnotify watcher's ignore set).
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"dist":         true,
	"build":        true,
	"coverage":     true,
	".angular":     true,
	".nx":          true,
	".next":        true,
	".nglint":      true,
	".idea":        true,
	".vscode":      true,
	"tmp":          true,
}

// maxFileSize caps lintable files. Bigger files are almost always generated
// bundles, not hand-written source.
const maxFileSize = 1 << 20 // 1 MiB

// extensionChecker reports whether a file extension is lintable.
// Satisfied by the treesitter parser.
type extensionChecker interface {
	SupportsExtension(ext string) bool
}

// DiscoverFiles walks the project root and returns the slash-separated
// relative paths of every lintable file, honoring the config's
// include/exclude globs. The result is sorted for deterministic runs.
func DiscoverFiles(projectRoot string, cfg Config, exts extensionChecker) ([]string, error) {
	absRoot, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, err
	}

	var files []string
	err = filepath.Walk(absRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip unreadable
		}
		if info.IsDir() {
			if skipDirs[info.Name()] && path != absRoot {
				return filepath.SkipDir
			}
			return nil
		}
		if info.Size() > maxFileSize {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if ext == "" || !exts.SupportsExtension(ext) {
			return nil
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if !matchesAny(cfg.Include, rel) || matchesAny(cfg.Exclude, rel) {
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// matchesAny reports whether relPath matches any of the globs. Patterns were
// validated at config load, so Match cannot fail here.
func matchesAny(globs []string, relPath string) bool {
	for _, g := range globs {
		if ok, _ := doublestar.Match(g, relPath); ok {
			return true
		}
	}
	return false
}
