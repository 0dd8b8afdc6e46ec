// Package boltkv provides a single-file KVStore backed by bbolt, suited to
// single-instance deployments without Redis or Postgres.
package boltkv

import (
	"context"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/folioworks/folio/internal/ports"
)

var bucketName = []byte("token_records")

var _ ports.KVStore = (*Store)(nil)

// Store implements ports.KVStore on a bbolt database.
type Store struct {
	db *bbolt.DB
}

// New returns a Store backed by db, creating its bucket if needed.
func New(db *bbolt.DB) (*Store, error) {
	err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("creating bucket: %w", err)
	}
	return &Store{db: db}, nil
}

// Open opens the bbolt file at path and returns a Store over it.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bbolt db: %w", err)
	}
	s, err := New(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Get(_ context.Context, key string) (string, error) {
	var out string
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketName).Get([]byte(key))
		if data == nil {
			return ports.ErrNotFound
		}
		// bbolt values are only valid for the life of the transaction.
		out = string(data)
		return nil
	})
	if err != nil {
		return "", err
	}
	return out, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	if key == "" {
		return fmt.Errorf("bbolt put: empty key")
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), []byte(value))
	})
}

func (s *Store) Delete(_ context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName)
		for _, k := range keys {
			if k == "" {
				continue
			}
			if err := b.Delete([]byte(k)); err != nil {
				return fmt.Errorf("bbolt delete %q: %w", k, err)
			}
		}
		return nil
	})
}
