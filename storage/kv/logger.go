package kv

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"

	"github.com/ssvlabs/ssv-bridge/logging"
)

// badgerLogger is a wrapper for badger.Logger
type badgerLogger struct {
	logger *zap.Logger
}

func newLogger(l *zap.Logger) badger.Logger {
	return &badgerLogger{l.Named(logging.NameBadgerDBLog)}
}

func (bl *badgerLogger) Errorf(s string, i ...interface{}) {
	bl.logger.Error(fmt.Sprintf(s, i...))
}

func (bl *badgerLogger) Warningf(s string, i ...interface{}) {
	bl.logger.Warn(fmt.Sprintf(s, i...))
}

// Infof is demoted to debug, badger is chatty at info.
func (bl *badgerLogger) Infof(s string, i ...interface{}) {
	bl.logger.Debug(fmt.Sprintf(s, i...))
}

func (bl *badgerLogger) Debugf(s string, i ...interface{}) {
	bl.logger.Debug(fmt.Sprintf(s, i...))
}
