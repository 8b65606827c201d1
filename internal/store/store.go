package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/podscout/podscout/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketSession = []byte("session")
	bucketLibrary = []byte("library")
)

// Store persists the signed-in session and the last-known library snapshot
// using BoltDB. The feed cache itself is deliberately not persisted; it lives
// in memory for the lifetime of the process.
type Store struct {
	db *bolt.DB
	mu sync.RWMutex

	// In-memory copy for hot-path reads (promoted on access)
	cache map[string][]byte
}

// Open opens (or creates) the store under dataDir. An empty dataDir yields a
// memory-only store, which the tests use.
func Open(dataDir string) (*Store, error) {
	if dataDir == "" {
		return &Store{cache: make(map[string][]byte)}, nil
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dataDir, "podscout.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketSession, bucketLibrary} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, cache: make(map[string][]byte)}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func (s *Store) get(bucket []byte, key string, dest any) bool {
	cacheKey := string(bucket) + ":" + key

	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return false
	}

	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}

func (s *Store) set(bucket []byte, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		return b.Put([]byte(key), data)
	})
}

func (s *Store) delete(bucket []byte, key string) error {
	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	delete(s.cache, cacheKey)
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b != nil {
			return b.Delete([]byte(key))
		}
		return nil
	})
}

// === Session ===

func (s *Store) GetSession() (*domain.Session, bool) {
	var sess domain.Session
	if !s.get(bucketSession, "current", &sess) {
		return nil, false
	}
	return &sess, true
}

func (s *Store) SaveSession(sess *domain.Session) error {
	return s.set(bucketSession, "current", sess)
}

func (s *Store) ClearSession() error {
	return s.delete(bucketSession, "current")
}

// === Library snapshot ===

// librarySnapshot pairs the entries with the user they belong to so a
// different account never sees a stale snapshot.
type librarySnapshot struct {
	UserID  string                 `json:"user_id"`
	Entries []domain.LibraryStatus `json:"entries"`
}

func (s *Store) GetLibrarySnapshot(userID string) ([]domain.LibraryStatus, bool) {
	var snap librarySnapshot
	if !s.get(bucketLibrary, "snapshot", &snap) || snap.UserID != userID {
		return nil, false
	}
	return snap.Entries, true
}

func (s *Store) SaveLibrarySnapshot(userID string, entries []domain.LibraryStatus) error {
	return s.set(bucketLibrary, "snapshot", librarySnapshot{UserID: userID, Entries: entries})
}

func (s *Store) ClearLibrarySnapshot() error {
	return s.delete(bucketLibrary, "snapshot")
}
