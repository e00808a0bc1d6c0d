// Package boltdb exposes bolt buckets as ordered collections, so their entries can be filtered lazily with filterkit.
package boltdb

import (
	"bytes"
	"fmt"

	"github.com/boltdb/bolt"
	"go.llib.dev/lazyfilter/pkg/filterkit"
)

// Entry is a key-value pair stored in a bucket.
//
// The byte slices are owned by bolt and only valid during the transaction.
type Entry struct {
	Key   []byte
	Value []byte
}

// Key is a position in a Bucket.
// Keys are ordered bytewise, and the end Key is greater than every stored key.
type Key struct {
	key []byte
	end bool
}

func (k Key) Compare(oth Key) int {
	switch {
	case k.end && oth.end:
		return 0
	case k.end:
		return 1
	case oth.end:
		return -1
	default:
		return bytes.Compare(k.key, oth.key)
	}
}

// Bytes returns the stored key, or nil for the end Key.
func (k Key) Bytes() []byte { return k.key }

// IsEnd reports whether the Key is the end position of a Bucket.
func (k Key) IsEnd() bool { return k.end }

// Bucket is a filterkit.Collection over the entries of a named bucket in a caller managed transaction.
// A missing bucket is an empty collection.
type Bucket struct {
	Tx   *bolt.Tx
	Name []byte
}

var _ filterkit.Collection[Entry, Key] = Bucket{}

func (b Bucket) bucket() *bolt.Bucket {
	if b.Tx == nil {
		return nil
	}
	return b.Tx.Bucket(b.Name)
}

func (b Bucket) Start() Key {
	bkt := b.bucket()
	if bkt == nil {
		return b.End()
	}
	return toKey(bkt.Cursor().First())
}

func (b Bucket) End() Key {
	return Key{end: true}
}

func (b Bucket) Successor(k Key) Key {
	c := b.bucket().Cursor()
	key, value := c.Seek(k.key)
	if key != nil && bytes.Equal(key, k.key) {
		key, value = c.Next()
	}
	return toKey(key, value)
}

func (b Bucket) At(k Key) Entry {
	return Entry{Key: k.key, Value: b.bucket().Get(k.key)}
}

func (b Bucket) MakeProducer() filterkit.Producer[Entry] {
	bkt := b.bucket()
	if bkt == nil {
		return filterkit.ProducerFunc[Entry](func() (Entry, bool) { return Entry{}, false })
	}
	var (
		cursor  = bkt.Cursor()
		started bool
	)
	return filterkit.ProducerFunc[Entry](func() (Entry, bool) {
		var key, value []byte
		if started {
			key, value = cursor.Next()
		} else {
			key, value = cursor.First()
			started = true
		}
		if key == nil {
			return Entry{}, false
		}
		return Entry{Key: key, Value: value}, true
	})
}

func toKey(key, _ []byte) Key {
	if key == nil {
		return Key{end: true}
	}
	return Key{key: key}
}

// View runs fn with the named Bucket inside a read-only transaction.
func View(db *bolt.DB, name []byte, fn func(Bucket) error) error {
	return db.View(func(tx *bolt.Tx) error {
		if err := fn(Bucket{Tx: tx, Name: name}); err != nil {
			return fmt.Errorf("bucket %s: %w", name, err)
		}
		return nil
	})
}

// HasPrefix is a Predicate which matches the entries whose key starts with the prefix.
func HasPrefix(prefix []byte) filterkit.Predicate[Entry] {
	return func(e Entry) bool { return bytes.HasPrefix(e.Key, prefix) }
}
