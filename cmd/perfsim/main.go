package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tiglabs/graphkv/simulator"
	"github.com/tiglabs/graphkv/storage"
	"github.com/tiglabs/graphkv/util"
	"github.com/tiglabs/graphkv/util/build"
	"github.com/tiglabs/graphkv/util/log"
)

var flags struct {
	config  string
	mode    string
	engine  string
	dir     string
	threads int
	seconds int
	sync    bool
	strict  bool
	level   string
}

var rootCmd = &cobra.Command{
	Use:   "perfsim [flags]",
	Short: "Write-throughput simulator for the graph key-value layout",
	Long: `perfsim registers persons and friendships from concurrent writers against one of
three storage topologies (single, partitioned, multi) for a fixed time, then prints
a JSON report with the commit rate and key count.`,
	Args: cobra.NoArgs,
	// Silence errors because we will print the error ourselves in main.
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          run,
	Version:       build.GetInfo().String(),
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&flags.config, "config", "c", "", "config file path")
	f.StringVarP(&flags.mode, "mode", "m", "", "storage mode: single, partitioned, multi")
	f.StringVarP(&flags.engine, "engine", "e", "", "storage engine: badger, bolt, memory, null")
	f.StringVarP(&flags.dir, "dir", "d", "", "storage directory")
	f.IntVarP(&flags.threads, "threads", "t", 0, "number of writer threads")
	f.IntVarP(&flags.seconds, "seconds", "s", 0, "how long to run the benchmark for")
	f.BoolVar(&flags.sync, "sync", false, "fsync every commit")
	f.BoolVar(&flags.strict, "strict-decode", false, "fail scans on undecodable keys")
	f.StringVar(&flags.level, "log-level", "", "debug, info, warn, error")
}

// loadConfig layers the command line over the config file.
func loadConfig(cmd *cobra.Command) (*simulator.Config, error) {
	cfg, err := simulator.NewConfig(flags.config)
	if err != nil {
		return nil, err
	}
	changed := cmd.Flags().Changed
	if changed("mode") {
		cfg.StorageCfg.Mode = storage.Mode(flags.mode)
	}
	if changed("engine") {
		cfg.StorageCfg.Engine = storage.Engine(flags.engine)
	}
	if changed("dir") {
		cfg.StorageCfg.Path = flags.dir
	}
	if changed("sync") {
		cfg.StorageCfg.Sync = flags.sync
	}
	if changed("strict-decode") {
		cfg.StorageCfg.StrictDecode = flags.strict
	}
	if changed("threads") {
		cfg.RunCfg.Threads = flags.threads
	}
	if changed("seconds") {
		cfg.RunCfg.Duration = util.Duration{Duration: time.Duration(flags.seconds) * time.Second}
	}
	if changed("log-level") {
		cfg.LogCfg.Level = flags.level
	}
	if err := cfg.Adjust(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := log.InitFileLog(cfg.LogCfg.LogPath, "perfsim", cfg.LogCfg.Level); err != nil {
		return errors.Wrap(err, "init log")
	}
	log.Debug("log has been initialized")

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s := simulator.NewServer()
	defer s.Shutdown()
	if err := s.Start(ctx, cfg); err != nil {
		return err
	}
	report, err := s.Report()
	if err != nil {
		return err
	}
	b, err := report.JSON()
	if err != nil {
		return errors.Wrap(err, "encode report")
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Sync()
		os.Exit(1)
	}
}
