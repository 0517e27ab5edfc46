package task

import (
	"bytes"
	"fmt"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/ternarybob/task/internal/fileutil"
)

// BoltFile is the embedded database holding a task's steps for the bolt backend.
const BoltFile = "steps.db"

var stepsBucket = []byte("steps")

// BoltBackend keeps a task's steps in a bbolt database, one key per label.
type BoltBackend struct{}

// Name returns "bolt".
func (BoltBackend) Name() string { return "bolt" }

// Detect reports whether steps.db exists.
func (BoltBackend) Detect(taskDir string) bool {
	return fileutil.IsFile(filepath.Join(taskDir, BoltFile))
}

// Open opens (creating if needed) taskDir/steps.db.
func (BoltBackend) Open(taskDir string) (StepStore, error) {
	path := filepath.Join(taskDir, BoltFile)
	db, err := bolt.Open(path, 0644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, ioErr("open steps database", path, err)
	}

	// Every read-write commit rewrites a meta page, so the bucket is only
	// created when missing and opening an existing task never writes.
	var exists bool
	err = db.View(func(tx *bolt.Tx) error {
		exists = tx.Bucket(stepsBucket) != nil
		return nil
	})
	if err == nil && !exists {
		err = db.Update(func(tx *bolt.Tx) error {
			_, err := tx.CreateBucketIfNotExists(stepsBucket)
			return err
		})
	}
	if err != nil {
		db.Close()
		return nil, ioErr("create steps bucket", path, err)
	}

	return &boltStore{db: db, path: path}, nil
}

type boltStore struct {
	db   *bolt.DB
	path string
}

func (s *boltStore) Labels() ([]Label, error) {
	var labels []Label
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(stepsBucket).ForEach(func(k, _ []byte) error {
			if l, ok := ParseLabel(string(k)); ok {
				labels = append(labels, l)
			}
			return nil
		})
	})
	if err != nil {
		return nil, ioErr("list steps", s.path, err)
	}
	return labels, nil
}

func (s *boltStore) Read(label Label) (string, error) {
	var (
		desc  string
		found bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		// Seek rather than Get: an empty description must still be found
		k, v := tx.Bucket(stepsBucket).Cursor().Seek([]byte(label))
		if k != nil && bytes.Equal(k, []byte(label)) {
			desc = string(v)
			found = true
		}
		return nil
	})
	if err != nil {
		return "", ioErr("read step", s.path, err)
	}
	if !found {
		return "", fmt.Errorf("step %s: %w", label, ErrNotFound)
	}
	return desc, nil
}

func (s *boltStore) Write(label Label, description string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(stepsBucket).Put([]byte(label), []byte(description))
	})
	if err != nil {
		return ioErr("write step", s.path, err)
	}
	return nil
}

func (s *boltStore) Close() error {
	return s.db.Close()
}
