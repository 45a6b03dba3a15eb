package store

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dvdshelf/dvdshelf/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketDVDs = []byte("dvds")
)

// BoltStore implements domain.Store on a single-file BoltDB.
// Each operation runs in its own transaction; IDs come from the bucket sequence.
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore opens (or creates) the database file at path
func NewBoltStore(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketDVDs)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *BoltStore) Add(_ context.Context, dvd domain.DVD) (int64, error) {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketDVDs)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		dvd.ID = int64(seq)
		return put(b, dvd)
	})
	if err != nil {
		return 0, fmt.Errorf("add dvd: %w", err)
	}
	return dvd.ID, nil
}

func (s *BoltStore) List(_ context.Context) ([]domain.DVD, error) {
	dvds := []domain.DVD{}
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketDVDs).ForEach(func(_, v []byte) error {
			var d domain.DVD
			if err := json.Unmarshal(v, &d); err != nil {
				return err
			}
			dvds = append(dvds, d)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list dvds: %w", err)
	}
	return dvds, nil
}

func (s *BoltStore) Get(_ context.Context, id int64) (domain.DVD, error) {
	var d domain.DVD
	found := false
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketDVDs).Get(itob(id))
		if v == nil {
			return nil
		}
		found = true
		return json.Unmarshal(v, &d)
	})
	if err != nil {
		return domain.DVD{}, fmt.Errorf("get dvd %d: %w", id, err)
	}
	if !found {
		return domain.DVD{}, domain.ErrDVDNotFound
	}
	return d, nil
}

func (s *BoltStore) Remove(_ context.Context, id int64) (bool, error) {
	removed := false
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketDVDs)
		key := itob(id)
		if b.Get(key) == nil {
			return nil
		}
		removed = true
		return b.Delete(key)
	})
	if err != nil {
		return false, fmt.Errorf("remove dvd %d: %w", id, err)
	}
	return removed, nil
}

func (s *BoltStore) Update(_ context.Context, id int64, dvd domain.DVD) (bool, error) {
	updated := false
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketDVDs)
		if b.Get(itob(id)) == nil {
			return nil
		}
		updated = true
		dvd.ID = id
		return put(b, dvd)
	})
	if err != nil {
		return false, fmt.Errorf("update dvd %d: %w", id, err)
	}
	return updated, nil
}

func (s *BoltStore) AverageRating(_ context.Context, genre string) (float64, error) {
	var avg ratingAverage
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketDVDs).ForEach(func(_, v []byte) error {
			var d domain.DVD
			if err := json.Unmarshal(v, &d); err != nil {
				return err
			}
			avg.observe(d, genre)
			return nil
		})
	})
	if err != nil {
		return 0, fmt.Errorf("average rating for %q: %w", genre, err)
	}
	return avg.value(), nil
}

func put(b *bolt.Bucket, dvd domain.DVD) error {
	data, err := json.Marshal(dvd)
	if err != nil {
		return err
	}
	return b.Put(itob(dvd.ID), data)
}

// itob encodes an ID big-endian so cursor order matches ID order
func itob(id int64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(id))
	return key
}
