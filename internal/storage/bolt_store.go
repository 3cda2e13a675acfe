package storage

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	itemBucket = "amiibo"
	// record layout: first-seen unix seconds | expiry unix seconds, big endian
	recordBytes = 16
)

// boltStore remembers delivered amiibo IDs in a BoltDB file.
type boltStore struct {
	db              *bolt.DB
	cleanupMu       sync.Mutex
	lastCleanup     atomic.Int64
	itemTTL         time.Duration
	cleanupInterval time.Duration
	now             func() time.Time
}

func openBolt(path string, opts Options) (Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(itemBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	store := &boltStore{
		db:              db,
		itemTTL:         opts.ItemTTL,
		cleanupInterval: opts.CleanupInterval,
		now:             time.Now,
	}
	store.lastCleanup.Store(store.now().Unix())
	return store, nil
}

func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// SeenItem reports whether id was marked and has not expired. Read-only unless a sweep is due.
func (b *boltStore) SeenItem(id string) (bool, error) {
	if b == nil || b.db == nil {
		return false, nil
	}
	now := b.now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return false, err
	}

	var seen bool
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket, err := itemsBucket(tx)
		if err != nil {
			return err
		}
		rec, ok := decodeRecord(bucket.Get([]byte(id)))
		seen = ok && rec.expires.After(now)
		return nil
	})
	return seen, err
}

// MarkItem records id as delivered, extending its expiry but keeping the first-seen time.
func (b *boltStore) MarkItem(id string) error {
	if b == nil || b.db == nil {
		return nil
	}
	now := b.now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return err
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket, err := itemsBucket(tx)
		if err != nil {
			return err
		}
		key := []byte(id)
		rec := record{firstSeen: now}
		if prev, ok := decodeRecord(bucket.Get(key)); ok {
			rec.firstSeen = prev.firstSeen
		}
		rec.expires = now.Add(b.itemTTL)
		return bucket.Put(key, rec.encode())
	})
}

// Len returns the number of stored records, expired ones included until the next sweep.
func (b *boltStore) Len() (int, error) {
	if b == nil || b.db == nil {
		return 0, nil
	}
	var n int
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket, err := itemsBucket(tx)
		if err != nil {
			return err
		}
		n = bucket.Stats().KeyN
		return nil
	})
	return n, err
}

// maybeCleanupExpired sweeps expired records at most once per cleanup interval.
func (b *boltStore) maybeCleanupExpired(now time.Time) error {
	if now.Sub(time.Unix(b.lastCleanup.Load(), 0)) < b.cleanupInterval {
		return nil
	}

	b.cleanupMu.Lock()
	defer b.cleanupMu.Unlock()
	if now.Sub(time.Unix(b.lastCleanup.Load(), 0)) < b.cleanupInterval {
		return nil
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket, err := itemsBucket(tx)
		if err != nil {
			return err
		}
		cursor := bucket.Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			if rec, ok := decodeRecord(v); !ok || !rec.expires.After(now) {
				if err := cursor.Delete(); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err == nil {
		b.lastCleanup.Store(now.Unix())
	}
	return err
}

func itemsBucket(tx *bolt.Tx) (*bolt.Bucket, error) {
	bucket := tx.Bucket([]byte(itemBucket))
	if bucket == nil {
		return nil, fmt.Errorf("amiibo bucket missing")
	}
	return bucket, nil
}

type record struct {
	firstSeen time.Time
	expires   time.Time
}

func (r record) encode() []byte {
	buf := make([]byte, recordBytes)
	binary.BigEndian.PutUint64(buf[:8], uint64(r.firstSeen.Unix()))
	binary.BigEndian.PutUint64(buf[8:], uint64(r.expires.Unix()))
	return buf
}

func decodeRecord(value []byte) (record, bool) {
	if len(value) != recordBytes {
		return record{}, false
	}
	first := int64(binary.BigEndian.Uint64(value[:8]))
	exp := int64(binary.BigEndian.Uint64(value[8:]))
	if exp <= 0 {
		return record{}, false
	}
	return record{firstSeen: time.Unix(first, 0), expires: time.Unix(exp, 0)}, true
}
