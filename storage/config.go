package storage

import (
	"github.com/pkg/errors"
	"github.com/tiglabs/graphkv/kernel/store/kvstore/badgerdb"
	"github.com/tiglabs/graphkv/util"
)

type Config struct {
	Path   string `toml:"path,omitempty" json:"path"`
	Mode   Mode   `toml:"mode,omitempty" json:"mode"`
	Engine Engine `toml:"engine,omitempty" json:"engine"`
	// Sync forces an fsync per commit. Off by default: a crash may lose the last
	// commits, an orderly Close does not.
	Sync           bool          `toml:"sync" json:"sync"`
	StrictDecode   bool          `toml:"strict-decode" json:"strict-decode"`
	DestroyOnStart bool          `toml:"destroy-on-start" json:"destroy-on-start"`
	MemTableSize   util.ByteSize `toml:"mem-table-size,omitempty" json:"mem-table-size"`
}

func (cfg *Config) adjust() error {
	if cfg.Mode == "" {
		cfg.Mode = ModePartitioned
	}
	if _, err := ParseMode(string(cfg.Mode)); err != nil {
		return err
	}
	if cfg.Engine == "" {
		cfg.Engine = EngineBadger
	}
	if _, err := ParseEngine(string(cfg.Engine)); err != nil {
		return err
	}
	if cfg.Engine.persistent() && cfg.Path == "" {
		return errors.Wrapf(ErrNoPath, "engine[%v]", cfg.Engine)
	}
	if cfg.MemTableSize != 0 && cfg.MemTableSize < badgerdb.MinMemTable {
		return errors.Wrapf(ErrMemTableTooSmall, "mem-table-size %d, minimum %d", cfg.MemTableSize, badgerdb.MinMemTable)
	}
	return nil
}
