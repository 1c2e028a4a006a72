package simulator

import (
	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/tiglabs/graphkv/storage"
	"github.com/tiglabs/graphkv/util"
	"github.com/tiglabs/graphkv/util/log"
)

const DEFAULT_PERFSIM_CONFIG = `
# Perf simulator configuration.

[storage]
path = "testing-store"
# single, partitioned, multi
mode = "single"
# badger, bolt, memory, null
engine = "badger"
sync = false
strict-decode = false
destroy-on-start = true
mem-table-size = "64MiB"

[run]
threads = 4
duration = "1s"
# 0 picks a random seed
seed = 0

[log]
log-path = ""
#debug, info, warn, error
level = "info"
`

type Config struct {
	StorageCfg storage.Config `toml:"storage,omitempty" json:"storage"`
	RunCfg     RunConfig      `toml:"run,omitempty" json:"run"`
	LogCfg     LogConfig      `toml:"log,omitempty" json:"log"`
}

type RunConfig struct {
	Threads    int           `toml:"threads,omitempty" json:"threads"`
	Duration   util.Duration `toml:"duration,omitempty" json:"duration"`
	Seed       uint64        `toml:"seed" json:"seed"`
	Supernodes []uint64      `toml:"supernodes,omitempty" json:"supernodes"`
}

type LogConfig struct {
	LogPath string `toml:"log-path,omitempty" json:"log-path"`
	Level   string `toml:"level,omitempty" json:"level"`
}

// NewConfig decodes the defaults, then the file at path when path is not empty.
// Call Adjust after applying any overrides.
func NewConfig(path string) (*Config, error) {
	c := new(Config)

	if _, err := toml.Decode(DEFAULT_PERFSIM_CONFIG, c); err != nil {
		log.Panic("fail to decode default config, err[%v]", err)
	}

	if len(path) != 0 {
		if _, err := toml.DecodeFile(path, c); err != nil {
			return nil, errors.Wrapf(err, "fail to decode config file[%v]", path)
		}
	}
	return c, nil
}

// Adjust validates the config and fills in derived values.
func (c *Config) Adjust() error {
	if _, err := storage.ParseMode(string(c.StorageCfg.Mode)); err != nil {
		return err
	}
	if _, err := storage.ParseEngine(string(c.StorageCfg.Engine)); err != nil {
		return err
	}
	if err := c.RunCfg.adjust(); err != nil {
		return err
	}
	return c.LogCfg.adjust()
}

func (cfg *RunConfig) adjust() error {
	if cfg.Threads <= 0 {
		return errors.Errorf("invalid threads[%d]", cfg.Threads)
	}
	if cfg.Duration.Duration <= 0 {
		return errors.Errorf("invalid duration[%v]", cfg.Duration.Duration)
	}
	if len(cfg.Supernodes) == 0 {
		cfg.Supernodes = append([]uint64(nil), DefaultSupernodes...)
	}
	return nil
}

func (cfg *LogConfig) adjust() error {
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if _, err := log.ParseLevel(cfg.Level); err != nil {
		return errors.Wrapf(err, "invalid log level[%v]", cfg.Level)
	}
	return nil
}
