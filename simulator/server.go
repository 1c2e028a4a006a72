package simulator

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/tiglabs/graphkv/concept"
	"github.com/tiglabs/graphkv/storage"
	"github.com/tiglabs/graphkv/util/build"
	"github.com/tiglabs/graphkv/util/json"
	"github.com/tiglabs/graphkv/util/log"
	"golang.org/x/sync/errgroup"
)

// Server runs one simulation.
type Server struct {
	cfg   *Config
	runID string
	store storage.Storage
	stats Stats

	elapsed time.Duration
	stop    sync.Once

	// open is storage.Open, replaceable in tests.
	open func(storage.Config) (storage.Storage, error)
}

func NewServer() *Server {
	return &Server{
		runID: uuid.NewString(),
		open:  storage.Open,
	}
}

func (s *Server) RunID() string {
	return s.runID
}

// Start opens the storage, registers the supernodes, then runs the agents until
// the configured duration passes or ctx is cancelled. The first agent error stops
// every agent and is returned.
func (s *Server) Start(ctx context.Context, cfg *Config) error {
	if err := cfg.Adjust(); err != nil {
		return err
	}
	s.cfg = cfg

	store, err := s.open(cfg.StorageCfg)
	if err != nil {
		return errors.Wrap(err, "open storage")
	}
	s.store = store

	seed := cfg.RunCfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	supernodes := names(cfg.RunCfg.Supernodes)
	if err := s.registerSupernodes(supernodes, seed); err != nil {
		return err
	}
	log.Info("run[%v] started, threads[%d] duration[%v] seed[%d]",
		s.runID, cfg.RunCfg.Threads, cfg.RunCfg.Duration.Duration, seed)

	begin := time.Now()
	runCtx, cancel := context.WithTimeout(ctx, cfg.RunCfg.Duration.Duration)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)

	for i := 0; i < cfg.RunCfg.Threads; i++ {
		agent := NewAgent(i, store, supernodes, seed, &s.stats)
		g.Go(func() error {
			return agent.Run(gctx)
		})
	}
	err = g.Wait()
	s.elapsed = time.Since(begin)
	if err != nil {
		return err
	}
	log.Info("run[%v] finished after %v, commits[%d]", s.runID, s.elapsed, s.stats.Commits.Load())
	return nil
}

// registerSupernodes writes one person per distinct supernode name in one commit.
func (s *Server) registerSupernodes(supernodes []concept.Attribute, seed uint64) error {
	seeder := NewAgent(-1, s.store, supernodes, seed, &s.stats)
	w := s.store.Writer()
	for _, name := range unique(supernodes) {
		seeder.RegisterPerson(w, name)
	}
	if err := s.store.Commit(w); err != nil {
		return errors.Wrap(err, "register supernodes")
	}
	return nil
}

// Report summarizes the finished run. It reads the storage, so it must be called
// before Shutdown.
type Report struct {
	RunID         string         `json:"run_id"`
	Mode          storage.Mode   `json:"mode"`
	Engine        storage.Engine `json:"engine"`
	Threads       int            `json:"threads"`
	Elapsed       time.Duration  `json:"elapsed_ns"`
	Commits       uint64         `json:"commits"`
	CommitsPerSec float64        `json:"commits_per_sec"`
	KeysWritten   uint64         `json:"keys_written"`
	Persons       uint64         `json:"persons"`
	Relations     uint64         `json:"relations"`
	Misses        uint64         `json:"misses"`
	TotalKeys     int            `json:"total_keys"`
	Build         build.Info     `json:"build"`
}

func (s *Server) Report() (*Report, error) {
	if s.store == nil {
		return nil, errors.New("run not started")
	}
	total, err := s.store.TotalKeyCount()
	if err != nil {
		return nil, errors.Wrap(err, "count keys")
	}
	r := &Report{
		RunID:       s.runID,
		Mode:        s.cfg.StorageCfg.Mode,
		Engine:      s.cfg.StorageCfg.Engine,
		Threads:     s.cfg.RunCfg.Threads,
		Elapsed:     s.elapsed,
		Commits:     s.stats.Commits.Load(),
		KeysWritten: s.stats.Keys.Load(),
		Persons:     s.stats.Persons.Load(),
		Relations:   s.stats.Relations.Load(),
		Misses:      s.stats.Misses.Load(),
		TotalKeys:   total,
		Build:       build.GetInfo(),
	}
	if secs := s.elapsed.Seconds(); secs > 0 {
		r.CommitsPerSec = float64(r.Commits) / secs
	}
	return r, nil
}

func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Shutdown closes the storage. It is safe to call more than once.
func (s *Server) Shutdown() {
	s.stop.Do(func() {
		if s.store == nil {
			return
		}
		if err := s.store.Close(); err != nil {
			log.Error("run[%v] close storage: %v", s.runID, err)
		}
		log.Sync()
	})
}
