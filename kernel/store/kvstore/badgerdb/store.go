// Package badgerdb is a KVStore on top of badger. Badger has a single keyspace, so
// each partition is a key namespace: the partition name followed by a 0x00 byte.
package badgerdb

import (
	"bytes"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
	"github.com/tiglabs/graphkv/kernel/store/kvstore"
	"github.com/tiglabs/graphkv/util"
	"github.com/tiglabs/graphkv/util/log"
)

var _ kvstore.KVStore = &Store{}

// MinMemTable is the smallest mem table size New accepts.
const MinMemTable util.ByteSize = 1 << 20

type StoreConfig struct {
	Path       string
	Sync       bool
	ReadOnly   bool
	InMemory   bool
	MemTable   util.ByteSize
	Partitions []string
}

type Store struct {
	path       string
	db         *badger.DB
	partitions []string
	namespaces map[string][]byte
}

func New(config *StoreConfig) (*Store, error) {
	if config == nil {
		return nil, errors.New("must provide config")
	}
	if config.Path == "" && !config.InMemory {
		return nil, os.ErrInvalid
	}
	partitions, err := kvstore.CheckPartitions(config.Partitions)
	if err != nil {
		return nil, err
	}
	namespaces := make(map[string][]byte, len(partitions))
	for _, p := range partitions {
		if bytes.IndexByte([]byte(p), 0) >= 0 {
			return nil, errors.Errorf("partition[%q] contains a zero byte", p)
		}
		namespaces[p] = append([]byte(p), 0)
	}

	path := config.Path
	if config.InMemory {
		path = ""
	}
	opts := badger.DefaultOptions(path).
		WithSyncWrites(config.Sync).
		WithReadOnly(config.ReadOnly).
		WithInMemory(config.InMemory).
		WithLogger(newLogger())
	if config.MemTable > 0 {
		if config.MemTable < MinMemTable {
			return nil, errors.Errorf("mem table size %d below minimum %d", config.MemTable, MinMemTable)
		}
		opts = opts.WithMemTableSize(int64(config.MemTable))
		// badger refuses a value threshold above its batch size, 15% of the mem table
		if limit := int64(config.MemTable) * 15 / 100; opts.ValueThreshold > limit {
			opts = opts.WithValueThreshold(limit)
		}
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "open badger[%v]", config.Path)
	}
	log.Debug("badger store opened, path[%v] partitions%v", config.Path, partitions)
	rv := Store{
		path:       path,
		db:         db,
		partitions: partitions,
		namespaces: namespaces,
	}
	return &rv, nil
}

func (bs *Store) Partitions() []string {
	return append([]string(nil), bs.partitions...)
}

func (bs *Store) namespace(partition string) ([]byte, error) {
	ns, ok := bs.namespaces[partition]
	if !ok {
		return nil, errors.Wrapf(kvstore.ErrUnknownPartition, "partition[%v]", partition)
	}
	return ns, nil
}

func nsKey(ns, key []byte) []byte {
	rv := make([]byte, 0, len(ns)+len(key))
	rv = append(rv, ns...)
	return append(rv, key...)
}

func (bs *Store) Get(partition string, key []byte) (value []byte, err error) {
	ns, err := bs.namespace(partition)
	if err != nil {
		return nil, err
	}
	err = bs.db.View(func(tx *badger.Txn) error {
		item, err := tx.Get(nsKey(ns, key))
		if err == badger.ErrKeyNotFound {
			return kvstore.ErrNotFound
		}
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrDBClosed {
		err = kvstore.ErrClosed
	}
	return
}

func (bs *Store) newIterator(ns []byte) *Iterator {
	tx := bs.db.NewTransaction(false)
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = ns
	return &Iterator{
		tx:   tx,
		iter: tx.NewIterator(opts),
		ns:   ns,
	}
}

func (bs *Store) PrefixIterator(partition string, prefix []byte) (kvstore.KVIterator, error) {
	ns, err := bs.namespace(partition)
	if err != nil {
		return nil, err
	}
	rv := bs.newIterator(ns)
	rv.bound = kvstore.PrefixBound(nsKey(ns, prefix))
	rv.Seek(prefix)
	return rv, nil
}

func (bs *Store) RangeIterator(partition string, start, end []byte) (kvstore.KVIterator, error) {
	ns, err := bs.namespace(partition)
	if err != nil {
		return nil, err
	}
	rv := bs.newIterator(ns)
	rv.bound = kvstore.Bound{Prefix: ns}
	if start != nil {
		rv.bound.Start = nsKey(ns, start)
	}
	if end != nil {
		rv.bound.End = nsKey(ns, end)
	}
	rv.Seek(start)
	return rv, nil
}

func (bs *Store) NewKVBatch() kvstore.KVBatch {
	return kvstore.NewBatch()
}

// ExecuteBatch writes the batch in one transaction. A batch larger than badger's
// transaction limit is rejected with kvstore.ErrBatchTooLarge and nothing is written.
func (bs *Store) ExecuteBatch(batch kvstore.KVBatch) (err error) {
	if batch == nil {
		return nil
	}
	ops := batch.Operations()
	keys := make([][]byte, len(ops))
	for i, op := range ops {
		ns, err := bs.namespace(op.Partition())
		if err != nil {
			return err
		}
		if len(op.Key()) == 0 {
			return kvstore.ErrEmptyKey
		}
		keys[i] = nsKey(ns, op.Key())
	}

	tx := bs.db.NewTransaction(true)
	defer tx.Discard()

	for i, op := range ops {
		err = tx.Set(keys[i], op.Value())
		if err == badger.ErrTxnTooBig {
			return errors.Wrapf(kvstore.ErrBatchTooLarge, "batch of %d ops, limit hit at op[%d]", len(ops), i)
		}
		if err != nil {
			return
		}
	}
	err = tx.Commit()
	if err == badger.ErrTxnTooBig {
		err = errors.Wrapf(kvstore.ErrBatchTooLarge, "batch of %d ops", len(ops))
	}
	return
}

func (bs *Store) Close() error {
	if bs == nil {
		return nil
	}
	return bs.db.Close()
}
