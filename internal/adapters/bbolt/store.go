// Package bbolt implements the ports.Storage interface using bbolt (embedded B+ tree).
// A top-level "vocab" bucket holds one sub-bucket per vocabulary. Within it,
// "patterns" holds the binary-encoded pattern list and "report" the last
// JSON-serialized report. Writes are transactional: a crash mid-write cannot
// corrupt previously committed data.
package bbolt

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/corey/tally/internal/ports"
	bolt "go.etcd.io/bbolt"
)

// DefaultTimeout bounds how long Open waits for the file lock.
const DefaultTimeout = 1 * time.Second

// Bucket keys
var (
	bucketVocab = []byte("vocab")
	keyPatterns = []byte("patterns")
	keyReport   = []byte("report")
)

// ErrUnknownVocabulary is returned by SaveReport for a vocabulary that was
// never saved.
var ErrUnknownVocabulary = errors.New("unknown vocabulary")

// Store implements ports.Storage backed by bbolt.
type Store struct {
	db *bolt.DB
}

var _ ports.Storage = (*Store)(nil)

// NewStore opens (or creates) a bbolt database at the given path, waiting at
// most DefaultTimeout for the file lock.
func NewStore(path string) (*Store, error) {
	return Open(path, DefaultTimeout)
}

// Open opens (or creates) a bbolt database, waiting at most timeout for the
// file lock held by another process.
func Open(path string, timeout time.Duration) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

func checkName(name string) error {
	if name == "" {
		return fmt.Errorf("vocabulary name required")
	}
	return nil
}

// SaveVocabulary stores the ordered pattern list under name and drops any
// report saved for the previous list.
func (s *Store) SaveVocabulary(name string, patterns []string) error {
	if err := checkName(name); err != nil {
		return err
	}
	data, err := encodePatterns(patterns)
	if err != nil {
		return fmt.Errorf("encode patterns: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		root, err := tx.CreateBucketIfNotExists(bucketVocab)
		if err != nil {
			return err
		}
		vb, err := root.CreateBucketIfNotExists([]byte(name))
		if err != nil {
			return err
		}
		if err := vb.Delete(keyReport); err != nil {
			return err
		}
		return vb.Put(keyPatterns, data)
	})
}

// LoadVocabulary retrieves the patterns stored under name.
// Returns nil, nil if no such vocabulary exists.
func (s *Store) LoadVocabulary(name string) ([]string, error) {
	data, err := s.get(name, keyPatterns)
	if err != nil || data == nil {
		return nil, err
	}
	patterns, err := decodePatterns(data)
	if err != nil {
		return nil, fmt.Errorf("decode vocabulary %q: %w", name, err)
	}
	return patterns, nil
}

// ListVocabularies returns all vocabulary names in sorted order.
func (s *Store) ListVocabularies() ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bolt.Tx) error {
		root := tx.Bucket(bucketVocab)
		if root == nil {
			return nil
		}
		return root.ForEach(func(k, v []byte) error {
			if v == nil { // nested bucket
				names = append(names, string(k))
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// DeleteVocabulary removes a vocabulary and its report.
// Idempotent: deleting a nonexistent vocabulary is not an error.
func (s *Store) DeleteVocabulary(name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		root := tx.Bucket(bucketVocab)
		if root == nil {
			return nil
		}
		if err := root.DeleteBucket([]byte(name)); errors.Is(err, bolt.ErrBucketNotFound) {
			return nil // idempotent
		} else {
			return err
		}
	})
}

// SaveReport persists report as the latest report of vocabulary name.
func (s *Store) SaveReport(name string, report *ports.Report) error {
	if report == nil {
		return fmt.Errorf("nil report")
	}
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		vb := vocabBucket(tx, name)
		if vb == nil {
			return fmt.Errorf("save report %q: %w", name, ErrUnknownVocabulary)
		}
		return vb.Put(keyReport, data)
	})
}

// LoadReport retrieves the latest report of vocabulary name.
// Returns nil, nil if none was saved.
func (s *Store) LoadReport(name string) (*ports.Report, error) {
	data, err := s.get(name, keyReport)
	if err != nil || data == nil {
		return nil, err
	}
	var report ports.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("unmarshal report: %w", err)
	}
	return &report, nil
}

func vocabBucket(tx *bolt.Tx, name string) *bolt.Bucket {
	root := tx.Bucket(bucketVocab)
	if root == nil {
		return nil
	}
	return root.Bucket([]byte(name))
}

// get copies one value of a vocabulary bucket out of a read transaction.
func (s *Store) get(name string, key []byte) ([]byte, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		vb := vocabBucket(tx, name)
		if vb == nil {
			return nil
		}
		// Copy bytes out of the transaction (bbolt slices are only valid within tx)
		if v := vb.Get(key); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}
