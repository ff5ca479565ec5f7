package app

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/corey/nglint/internal/adapters/treesitter"
	"github.com/corey/nglint/internal/domain/rules"
	"github.com/corey/nglint/internal/engine"
	"github.com/corey/nglint/internal/ports"
)

// Result aggregates one lint run over a project.
type Result struct {
	Files       []ports.FileResult // files with at least one finding, sorted by path
	FileCount   int                // files examined
	CachedCount int                // files served from cache
	Errors      int
	Warnings    int
	Infos       int
	Elapsed     time.Duration
}

// TotalFindings returns the finding count across all files.
func (r *Result) TotalFindings() int {
	return r.Errors + r.Warnings + r.Infos
}

// FailsAt reports whether the run should fail given a minimum severity.
func (r *Result) FailsAt(failOn rules.Severity) bool {
	switch failOn {
	case rules.SevInfo:
		return r.TotalFindings() > 0
	case rules.SevWarning:
		return r.Errors+r.Warnings > 0
	default:
		return r.Errors > 0
	}
}

// Runner executes lint runs against one project, caching per-file results so
// unchanged files are never re-evaluated.
type Runner struct {
	projectRoot string
	projectID   string
	cfg         Config
	catalog     []rules.Rule
	eng         *engine.Engine
	parser      *treesitter.Parser
	store       ports.Storage
	noCache     bool
}

// NewRunner wires an engine over the catalog (with config overrides applied)
// and the storage cache. store may be nil to disable caching entirely.
func NewRunner(projectRoot string, cfg Config, catalog []rules.Rule, store ports.Storage) (*Runner, error) {
	absRoot, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, err
	}

	active, err := rules.ApplyOverrides(catalog, cfg.Rules)
	if err != nil {
		return nil, err
	}

	parser := treesitter.NewParser()
	eng := engine.NewEngine(active, parser, engine.Options{
		ComponentPrefix: cfg.ComponentPrefix,
		MaxMethodLines:  cfg.MaxMethodLines,
	})

	return &Runner{
		projectRoot: absRoot,
		projectID:   projectID(absRoot),
		cfg:         cfg,
		catalog:     active,
		eng:         eng,
		parser:      parser,
		store:       store,
		noCache:     store == nil,
	}, nil
}

// Rules returns the active catalog after config overrides.
func (r *Runner) Rules() []rules.Rule {
	return r.catalog
}

// DisableCache makes every file re-evaluate regardless of cached results.
func (r *Runner) DisableCache() {
	r.noCache = true
}

// Run lints every discovered file and returns the aggregated result.
func (r *Runner) Run() (*Result, error) {
	start := time.Now()

	if err := r.reconcileManifest(); err != nil {
		return nil, err
	}

	files, err := DiscoverFiles(r.projectRoot, r.cfg, r.parser)
	if err != nil {
		return nil, fmt.Errorf("discover files: %w", err)
	}

	res := &Result{FileCount: len(files)}
	for _, rel := range files {
		fr, cached, err := r.lintPath(rel)
		if err != nil {
			// Unreadable files are skipped, not fatal: the tree can churn
			// under the linter.
			res.FileCount--
			continue
		}
		if cached {
			res.CachedCount++
		}
		r.tally(res, fr)
	}

	sort.Slice(res.Files, func(i, j int) bool {
		return res.Files[i].Path < res.Files[j].Path
	})
	res.Elapsed = time.Since(start)
	return res, nil
}

// LintOne lints a single file by relative path, updating the cache.
// Used by the watch session.
func (r *Runner) LintOne(relPath string) (*ports.FileResult, error) {
	fr, _, err := r.lintPath(relPath)
	return fr, err
}

// ReconcileCache drops every cached result written under a different catalog
// or config fingerprint. Run does this itself; sessions that lint files one
// at a time call it once up front, or stale findings survive a rule change.
func (r *Runner) ReconcileCache() error {
	return r.reconcileManifest()
}

// lintPath evaluates one file, consulting the cache first.
func (r *Runner) lintPath(relPath string) (*ports.FileResult, bool, error) {
	source, err := os.ReadFile(filepath.Join(r.projectRoot, filepath.FromSlash(relPath)))
	if err != nil {
		return nil, false, err
	}
	// Discovery already filters oversized files; the watch path reaches
	// here directly, so the cap is enforced again.
	if len(source) > maxFileSize {
		return nil, false, fmt.Errorf("%s exceeds size cap (%d bytes)", relPath, len(source))
	}

	hash := hashBytes(source)
	if !r.noCache {
		cached, err := r.store.LoadFileResult(r.projectID, relPath)
		if err == nil && cached != nil && cached.Hash == hash {
			return cached, true, nil
		}
	}

	findings, lang := r.eng.LintFile(relPath, source)
	fr := &ports.FileResult{
		Path:     relPath,
		Language: lang,
		Hash:     hash,
		Findings: findings,
	}

	if !r.noCache {
		if err := r.store.SaveFileResult(r.projectID, fr); err != nil {
			return nil, false, fmt.Errorf("cache %s: %w", relPath, err)
		}
	}
	return fr, false, nil
}

// reconcileManifest drops the whole cache when the catalog or config
// fingerprint changed since it was written.
func (r *Runner) reconcileManifest() error {
	if r.noCache {
		return nil
	}

	fp := r.fingerprint()
	m, err := r.store.LoadManifest(r.projectID)
	if err != nil {
		return fmt.Errorf("load manifest: %w", err)
	}
	if m != nil && m.Fingerprint == fp {
		return nil
	}

	if err := r.store.DeleteProject(r.projectID); err != nil {
		return fmt.Errorf("reset cache: %w", err)
	}
	return r.store.SaveManifest(r.projectID, &ports.Manifest{
		Fingerprint: fp,
		RuleCount:   len(r.catalog),
		CreatedAt:   time.Now().Unix(),
	})
}

// fingerprint hashes everything that affects lint output: the active rule
// set and the evaluation-relevant config fields.
func (r *Runner) fingerprint() string {
	h := sha256.New()
	for _, rule := range r.catalog {
		fmt.Fprintf(h, "%s|%s|%d|%d|%s|%s|%v\n",
			rule.ID, rule.Label, rule.Severity, rule.Kind,
			rule.Regex, rule.StructuralCheck, rule.TextPatterns)
	}
	fmt.Fprintf(h, "prefix=%s max=%d\n", r.cfg.ComponentPrefix, r.cfg.MaxMethodLines)
	return hex.EncodeToString(h.Sum(nil))
}

func (r *Runner) tally(res *Result, fr *ports.FileResult) {
	if len(fr.Findings) == 0 {
		return
	}
	res.Files = append(res.Files, *fr)
	for _, f := range fr.Findings {
		switch f.Severity {
		case "error":
			res.Errors++
		case "warning":
			res.Warnings++
		default:
			res.Infos++
		}
	}
}

// projectID derives a stable bucket name from the absolute project root.
func projectID(absRoot string) string {
	sum := sha256.Sum256([]byte(absRoot))
	return hex.EncodeToString(sum[:8])
}

// hashBytes returns the hex SHA-256 of content.
func hashBytes(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
