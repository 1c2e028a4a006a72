// Package boltdb is a KVStore on top of bbolt with one bucket per partition.
package boltdb

import (
	"bytes"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/tiglabs/graphkv/kernel/store/kvstore"
	"github.com/tiglabs/graphkv/util/log"
	bolt "go.etcd.io/bbolt"
)

var _ kvstore.KVStore = &Store{}

type StoreConfig struct {
	Path        string
	NoSync      bool
	ReadOnly    bool
	FillPercent float64
	Timeout     time.Duration
	Partitions  []string
}

type Store struct {
	path        string
	db          *bolt.DB
	noSync      bool
	fillPercent float64
	partitions  []string
	buckets     map[string][]byte
}

func New(config *StoreConfig) (*Store, error) {
	if config == nil {
		return nil, errors.New("must provide config")
	}
	if config.Path == "" {
		return nil, os.ErrInvalid
	}
	partitions, err := kvstore.CheckPartitions(config.Partitions)
	if err != nil {
		return nil, err
	}
	path := config.Path
	noSync := config.NoSync
	fillPercent := config.FillPercent
	if fillPercent == 0.0 {
		fillPercent = bolt.DefaultFillPercent
	}

	bo := &bolt.Options{
		ReadOnly: config.ReadOnly,
		Timeout:  config.Timeout,
	}

	db, err := bolt.Open(path, 0600, bo)
	if err != nil {
		return nil, errors.Wrapf(err, "open bolt[%v]", path)
	}
	db.NoSync = noSync

	buckets := make(map[string][]byte, len(partitions))
	for _, p := range partitions {
		buckets[p] = []byte(p)
	}
	if !bo.ReadOnly {
		err = db.Update(func(tx *bolt.Tx) error {
			for _, p := range partitions {
				if _, err := tx.CreateBucketIfNotExists(buckets[p]); err != nil {
					return err
				}
			}
			return nil
		})
	} else {
		err = db.View(func(tx *bolt.Tx) error {
			for _, p := range partitions {
				if tx.Bucket(buckets[p]) == nil {
					return errors.Wrapf(kvstore.ErrUnknownPartition, "read-only bolt[%v] has no bucket[%v]", path, p)
				}
			}
			return nil
		})
	}
	if err != nil {
		db.Close()
		return nil, err
	}
	log.Debug("bolt store opened, path[%v] partitions%v", path, partitions)

	rv := Store{
		path:        path,
		db:          db,
		noSync:      noSync,
		fillPercent: fillPercent,
		partitions:  partitions,
		buckets:     buckets,
	}
	return &rv, nil
}

func (bs *Store) Partitions() []string {
	return append([]string(nil), bs.partitions...)
}

func (bs *Store) bucket(partition string) ([]byte, error) {
	b, ok := bs.buckets[partition]
	if !ok {
		return nil, errors.Wrapf(kvstore.ErrUnknownPartition, "partition[%v]", partition)
	}
	return b, nil
}

func (bs *Store) Get(partition string, key []byte) (value []byte, err error) {
	name, err := bs.bucket(partition)
	if err != nil {
		return nil, err
	}
	err = bs.db.View(func(tx *bolt.Tx) error {
		// Bucket.Get cannot tell an empty value from a missing key
		k, v := tx.Bucket(name).Cursor().Seek(key)
		if k == nil || !bytes.Equal(k, key) {
			return kvstore.ErrNotFound
		}
		value = cloneBytes(v)
		return nil
	})
	if err == bolt.ErrDatabaseNotOpen {
		err = kvstore.ErrClosed
	}
	return
}

func (bs *Store) newIterator(partition string) (*Iterator, error) {
	name, err := bs.bucket(partition)
	if err != nil {
		return nil, err
	}
	tx, err := bs.db.Begin(false)
	if err != nil {
		if err == bolt.ErrDatabaseNotOpen {
			err = kvstore.ErrClosed
		}
		return nil, err
	}
	return &Iterator{
		tx:     tx,
		cursor: tx.Bucket(name).Cursor(),
	}, nil
}

func (bs *Store) PrefixIterator(partition string, prefix []byte) (kvstore.KVIterator, error) {
	rv, err := bs.newIterator(partition)
	if err != nil {
		return nil, err
	}
	rv.bound = kvstore.PrefixBound(prefix)
	rv.Seek(prefix)
	return rv, nil
}

func (bs *Store) RangeIterator(partition string, start, end []byte) (kvstore.KVIterator, error) {
	rv, err := bs.newIterator(partition)
	if err != nil {
		return nil, err
	}
	rv.bound = kvstore.RangeBound(start, end)
	rv.Seek(start)
	return rv, nil
}

func (bs *Store) NewKVBatch() kvstore.KVBatch {
	return kvstore.NewBatch()
}

func (bs *Store) ExecuteBatch(batch kvstore.KVBatch) (err error) {
	if bs == nil {
		return nil
	}
	if batch == nil {
		return nil
	}
	var tx *bolt.Tx
	tx, err = bs.db.Begin(true)
	if err != nil {
		return
	}

	defer func() {
		if err == nil {
			err = tx.Commit()
		} else {
			_ = tx.Rollback()
		}
	}()

	for _, op := range batch.Operations() {
		var name []byte
		name, err = bs.bucket(op.Partition())
		if err != nil {
			return
		}
		if len(op.Key()) == 0 {
			err = kvstore.ErrEmptyKey
			return
		}
		bucket := tx.Bucket(name)
		bucket.FillPercent = bs.fillPercent
		err = bucket.Put(op.Key(), op.Value())
		if err != nil {
			return
		}
	}
	return
}

func (bs *Store) Close() error {
	return bs.db.Close()
}

func cloneBytes(b []byte) []byte {
	return append([]byte(nil), b...)
}
