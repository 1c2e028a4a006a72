package storage

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/tiglabs/graphkv/kernel/store/kvstore"
	"github.com/tiglabs/graphkv/kernel/store/kvstore/badgerdb"
	"github.com/tiglabs/graphkv/kernel/store/kvstore/boltdb"
	"github.com/tiglabs/graphkv/kernel/store/kvstore/btreedb"
	"github.com/tiglabs/graphkv/kernel/store/kvstore/null"
)

const boltFile = "graph.bolt"

// openEngine opens one store of the configured engine in dir.
func openEngine(cfg *Config, dir string, partitions []string) (kvstore.KVStore, error) {
	switch cfg.Engine {
	case EngineBadger:
		return badgerdb.New(&badgerdb.StoreConfig{
			Path:       dir,
			Sync:       cfg.Sync,
			MemTable:   cfg.MemTableSize,
			Partitions: partitions,
		})
	case EngineBolt:
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrapf(err, "create dir[%v]", dir)
		}
		return boltdb.New(&boltdb.StoreConfig{
			Path:       filepath.Join(dir, boltFile),
			NoSync:     !cfg.Sync,
			Partitions: partitions,
		})
	case EngineMemory:
		return btreedb.New(&btreedb.StoreConfig{Partitions: partitions})
	case EngineNull:
		return null.New(partitions)
	}
	return nil, errors.Wrapf(ErrUnknownEngine, "engine[%v]", cfg.Engine)
}
