// Package ports defines the interfaces (contracts) that adapters must implement.
// These are the boundaries of the hexagonal architecture. Domain logic depends
// only on these interfaces, never on concrete implementations.
package ports

// Storage persists lint results to durable storage so that unchanged files are
// not re-linted. The backing store (bbolt) is project-scoped: each projectID
// gets its own namespace. Concurrent reads are safe; writes are serialized by
// the adapter.
//
// Crash safety: all Save* operations must be transactional. A crash mid-write
// must not corrupt previously committed data.
type Storage interface {
	// SaveFileResult persists the lint result for one file.
	// Overwrites any prior result for the same path.
	SaveFileResult(projectID string, res *FileResult) error

	// LoadFileResult retrieves the cached result for a file path.
	// Returns nil, nil if no result exists (fresh file).
	LoadFileResult(projectID, path string) (*FileResult, error)

	// SaveManifest persists the cache manifest for a project.
	// Called once per run, before file results are written.
	SaveManifest(projectID string, m *Manifest) error

	// LoadManifest retrieves the cache manifest for a project.
	// Returns nil, nil if no manifest exists (fresh project).
	LoadManifest(projectID string) (*Manifest, error)

	// DeleteProject removes all cached data for a project.
	// Idempotent: deleting a nonexistent project is not an error.
	DeleteProject(projectID string) error
}

// Finding is one detected convention violation in a source file.
type Finding struct {
	RuleID   string `json:"rule_id"`
	Label    string `json:"label"`
	Category string `json:"category"`
	Severity string `json:"severity"`
	Line     int    `json:"line"`
	Symbol   string `json:"symbol,omitempty"` // enclosing class/method, if known
	Guide    string `json:"guide,omitempty"`  // style guide anchor, e.g. "#avoid-nested-subscriptions"
}

// FileResult holds all findings for one file plus the content hash the
// findings were computed against.
type FileResult struct {
	Path     string    `json:"path"`     // slash-separated, relative to project root
	Language string    `json:"language"` // "typescript", "html", ... or "" when unparsed
	Hash     string    `json:"hash"`     // hex SHA-256 of file content
	Findings []Finding `json:"findings"`
}

// Manifest identifies the rule catalog and configuration a cache was built
// with. A fingerprint change invalidates every cached FileResult.
type Manifest struct {
	Fingerprint string `json:"fingerprint"`
	RuleCount   int    `json:"rule_count"`
	CreatedAt   int64  `json:"created_at"`
}
