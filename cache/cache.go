// Package cache remembers the minimal number of presses of machines already solved.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	badger "github.com/dgraph-io/badger/v4"

	"github.com/crillab/joltsat/machine"
)

// ErrNotFound is returned by Get when no entry is associated with the key.
var ErrNotFound = errors.New("not found")

// An Entry is the outcome of a solved machine.
type Entry struct {
	Presses  int  `json:"presses"`
	Feasible bool `json:"feasible"`
	Models   int  `json:"models"`
}

// A Store associates machine keys with their entries.
type Store interface {
	Get(ctx context.Context, key uint64) (Entry, error)
	Put(ctx context.Context, key uint64, e Entry) error
	Close() error
}

// Key returns the fingerprint of m: machines with the same buttons and joltage levels share it.
func Key(m machine.Machine) uint64 {
	return xxhash.Sum64String(m.Key())
}

func dbKey(key uint64) []byte {
	return []byte(fmt.Sprintf("press:%016x", key))
}

// BadgerStore is a Store persisted in a badger database.
type BadgerStore struct {
	db *badger.DB
}

// Open opens, or creates, the badger database in dir.
func Open(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(filepath.Clean(dir)).WithLogger(nil)
	return open(opts)
}

// OpenInMemory returns a store that lives as long as the process.
func OpenInMemory() (*BadgerStore, error) {
	return open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
}

func open(opts badger.Options) (*BadgerStore, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("could not open cache: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Get(ctx context.Context, key uint64) (Entry, error) {
	var e Entry
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(dbKey(key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}
		return item.Value(func(v []byte) error {
			return json.Unmarshal(v, &e)
		})
	})
	if err != nil {
		return Entry{}, err
	}
	return e, nil
}

func (s *BadgerStore) Put(ctx context.Context, key uint64, e Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("could not encode cache entry: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(dbKey(key), data)
	})
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// NopStore never remembers anything.
type NopStore struct{}

func (NopStore) Get(context.Context, uint64) (Entry, error) { return Entry{}, ErrNotFound }
func (NopStore) Put(context.Context, uint64, Entry) error    { return nil }
func (NopStore) Close() error                                { return nil }
