package app

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/corey/nglint/internal/ports"
)

// WatchSession re-lints files as they change on disk. Findings are delivered
// through the OnResult callback; the session logs lifecycle events through
// the given slog.Logger.
type WatchSession struct {
	runner  *Runner
	watcher ports.Watcher
	log     *slog.Logger

	// OnResult receives the fresh result for each re-linted file.
	OnResult func(*ports.FileResult)
}

// NewWatchSession wires a runner to a file watcher.
func NewWatchSession(runner *Runner, watcher ports.Watcher, log *slog.Logger) *WatchSession {
	return &WatchSession{
		runner:  runner,
		watcher: watcher,
		log:     log,
	}
}

// Start begins watching the project root. Returns once the watcher is
// installed; relinting happens on the watcher's goroutine.
func (s *WatchSession) Start() error {
	if err := s.runner.ReconcileCache(); err != nil {
		return err
	}
	s.log.Info("watch started", "root", s.runner.projectRoot)

	return s.watcher.Watch(s.runner.projectRoot, func(filePath string) {
		rel, err := filepath.Rel(s.runner.projectRoot, filePath)
		if err != nil {
			return
		}
		rel = filepath.ToSlash(rel)

		ext := strings.ToLower(filepath.Ext(rel))
		if !s.runner.parser.SupportsExtension(ext) {
			return
		}
		if !matchesAny(s.runner.cfg.Include, rel) || matchesAny(s.runner.cfg.Exclude, rel) {
			return
		}

		fr, err := s.runner.LintOne(rel)
		if err != nil {
			// Deleted or unreadable. Removal keeps the cache honest but a
			// stale entry only costs one re-lint later.
			s.log.Debug("skip changed file", "path", rel, "err", err)
			return
		}

		s.log.Info("relinted", "path", rel, "findings", len(fr.Findings))
		if s.OnResult != nil {
			s.OnResult(fr)
		}
	})
}

// Stop ends the session.
func (s *WatchSession) Stop() error {
	s.log.Info("watch stopped")
	return s.watcher.Stop()
}
