package badgerdb

import (
	"github.com/dgraph-io/badger/v4"
	"github.com/tiglabs/graphkv/util/log"
)

// logger routes badger's internal logging into util/log. Badger is chatty at info
// level, so its info output is demoted to debug.
type logger struct{}

var _ badger.Logger = logger{}

func newLogger() badger.Logger {
	return logger{}
}

func (logger) Errorf(format string, args ...interface{}) {
	log.Error("badger: "+format, args...)
}

func (logger) Warningf(format string, args ...interface{}) {
	log.Warn("badger: "+format, args...)
}

func (logger) Infof(format string, args ...interface{}) {
	log.Debug("badger: "+format, args...)
}

func (logger) Debugf(format string, args ...interface{}) {
	log.Debug("badger: "+format, args...)
}
