// Package bbolt implements the ports.Storage interface using bbolt (embedded
// B+ tree). Each project gets its own top-level bucket. Within that bucket,
// "results" holds one JSON-serialized lint result per file and "manifest"
// holds the cache manifest. Writes are transactional — a crash mid-write
// cannot corrupt previously committed data.
package bbolt

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/corey/nglint/internal/ports"
)

// Bucket keys
var (
	bucketResults  = []byte("results")
	bucketManifest = []byte("manifest")
	keyManifest    = []byte("current")
)

// Store implements ports.Storage backed by bbolt.
type Store struct {
	db *bolt.DB
}

// NewStore opens (or creates) a bbolt database at the given path.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveFileResult persists the lint result for one file, keyed by its
// relative path.
func (s *Store) SaveFileResult(projectID string, res *ports.FileResult) error {
	if res == nil {
		return fmt.Errorf("nil file result")
	}
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal file result: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		proj, err := tx.CreateBucketIfNotExists([]byte(projectID))
		if err != nil {
			return err
		}
		rb, err := proj.CreateBucketIfNotExists(bucketResults)
		if err != nil {
			return err
		}
		return rb.Put([]byte(res.Path), data)
	})
}

// LoadFileResult retrieves the cached lint result for one file.
// Returns nil, nil if no result exists (never linted, or cache cleared).
func (s *Store) LoadFileResult(projectID, path string) (*ports.FileResult, error) {
	var data []byte

	err := s.db.View(func(tx *bolt.Tx) error {
		proj := tx.Bucket([]byte(projectID))
		if proj == nil {
			return nil
		}
		rb := proj.Bucket(bucketResults)
		if rb == nil {
			return nil
		}
		// Copy bytes out of the transaction (bbolt slices are only valid within tx)
		if v := rb.Get([]byte(path)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var res ports.FileResult
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("unmarshal file result: %w", err)
	}
	return &res, nil
}

// SaveManifest persists the cache manifest for a project.
func (s *Store) SaveManifest(projectID string, m *ports.Manifest) error {
	if m == nil {
		return fmt.Errorf("nil manifest")
	}
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		proj, err := tx.CreateBucketIfNotExists([]byte(projectID))
		if err != nil {
			return err
		}
		mb, err := proj.CreateBucketIfNotExists(bucketManifest)
		if err != nil {
			return err
		}
		return mb.Put(keyManifest, data)
	})
}

// LoadManifest retrieves the cache manifest for a project.
// Returns nil, nil if no manifest exists (fresh project).
func (s *Store) LoadManifest(projectID string) (*ports.Manifest, error) {
	var data []byte

	err := s.db.View(func(tx *bolt.Tx) error {
		proj := tx.Bucket([]byte(projectID))
		if proj == nil {
			return nil
		}
		mb := proj.Bucket(bucketManifest)
		if mb == nil {
			return nil
		}
		if v := mb.Get(keyManifest); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var m ports.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}
	return &m, nil
}

// DeleteProject removes all cached data for a project.
// Idempotent: deleting a nonexistent project is not an error.
func (s *Store) DeleteProject(projectID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(projectID)); err == bolt.ErrBucketNotFound {
			return nil // idempotent
		} else {
			return err
		}
	})
}
