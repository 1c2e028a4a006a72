package storage

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/tiglabs/graphkv/kernel/store/kvstore"
	"github.com/tiglabs/graphkv/util/log"
)

var (
	_ Storage = &SingleStorage{}
	_ Storage = &PartitionedStorage{}
	_ Storage = &MultiStorage{}
)

// Open builds the topology named by cfg.Mode.
func Open(cfg Config) (Storage, error) {
	if err := cfg.adjust(); err != nil {
		return nil, err
	}
	if cfg.DestroyOnStart && cfg.Engine.persistent() {
		if err := os.RemoveAll(cfg.Path); err != nil {
			return nil, errors.Wrapf(err, "destroy path[%v]", cfg.Path)
		}
	}

	var (
		s   Storage
		err error
	)
	switch cfg.Mode {
	case ModeSingle:
		s, err = NewSingle(&cfg)
	case ModePartitioned:
		s, err = NewPartitioned(&cfg)
	case ModeMulti:
		s, err = NewMulti(&cfg)
	default:
		err = errors.Wrapf(ErrUnknownMode, "mode[%v]", cfg.Mode)
	}
	if err != nil {
		return nil, err
	}
	log.Info("storage opened, mode[%v] engine[%v] path[%v] sync[%v]", cfg.Mode, cfg.Engine, cfg.Path, cfg.Sync)
	return s, nil
}

// SingleStorage keeps every kind in the default partition of one store. Kinds are
// told apart by their leading concept prefix and embedded edge tag only.
type SingleStorage struct {
	base
}

func NewSingle(cfg *Config) (*SingleStorage, error) {
	store, err := openEngine(cfg, cfg.Path, nil)
	if err != nil {
		return nil, err
	}
	s := &SingleStorage{base: newBase(ModeSingle, cfg.StrictDecode)}
	for i := range s.routes {
		s.routes[i] = route{store: store, partition: kvstore.DefaultPartition}
	}
	s.stores = []kvstore.KVStore{store}
	return s, nil
}

// Commit writes w in one atomic batch.
func (s *SingleStorage) Commit(w *Writer) error {
	if err := s.commitBatch(s.stores[0], w, Kinds()); err != nil {
		return errors.Wrap(err, "commit")
	}
	w.Reset()
	return nil
}

// PartitionedStorage keeps each kind in its own partition of one store.
type PartitionedStorage struct {
	base
}

func NewPartitioned(cfg *Config) (*PartitionedStorage, error) {
	partitions := make([]string, numKinds)
	for i := range partitions {
		partitions[i] = Kind(i).String()
	}
	store, err := openEngine(cfg, cfg.Path, partitions)
	if err != nil {
		return nil, err
	}
	s := &PartitionedStorage{base: newBase(ModePartitioned, cfg.StrictDecode)}
	for i := range s.routes {
		s.routes[i] = route{store: store, partition: partitions[i]}
	}
	s.stores = []kvstore.KVStore{store}
	return s, nil
}

// Commit writes w in one atomic batch spanning the kind partitions.
func (s *PartitionedStorage) Commit(w *Writer) error {
	if err := s.commitBatch(s.stores[0], w, Kinds()); err != nil {
		return errors.Wrap(err, "commit")
	}
	w.Reset()
	return nil
}

// MultiStorage opens one store per kind, each in its own subdirectory of the
// configured path.
type MultiStorage struct {
	base
}

func NewMulti(cfg *Config) (*MultiStorage, error) {
	s := &MultiStorage{base: newBase(ModeMulti, cfg.StrictDecode)}
	for i := range s.routes {
		kind := Kind(i)
		store, err := openEngine(cfg, filepath.Join(cfg.Path, kind.String()), nil)
		if err != nil {
			s.Close()
			return nil, errors.Wrapf(err, "open %v store", kind)
		}
		s.routes[i] = route{store: store, partition: kvstore.DefaultPartition}
		s.stores = append(s.stores, store)
	}
	return s, nil
}

// Commit writes one batch per store in kind order. Stores are independent: when a
// batch fails, the kinds before it stay applied and a *PartialCommitError lists them.
func (s *MultiStorage) Commit(w *Writer) error {
	var applied []Kind
	for _, kind := range Kinds() {
		if len(w.keys[kind]) == 0 {
			continue
		}
		if err := s.commitBatch(s.routes[kind].store, w, []Kind{kind}); err != nil {
			if len(applied) == 0 {
				return errors.Wrapf(err, "commit %v", kind)
			}
			perr := &PartialCommitError{Applied: applied, Failed: kind, Err: err}
			log.Error("%v", perr)
			return perr
		}
		applied = append(applied, kind)
	}
	w.Reset()
	return nil
}
