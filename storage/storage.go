package storage

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ssvlabs/ssv-bridge/logging"
	"github.com/ssvlabs/ssv-bridge/logging/fields"
	"github.com/ssvlabs/ssv-bridge/storage/basedb"
	"github.com/ssvlabs/ssv-bridge/storage/kv"
	"github.com/ssvlabs/ssv-bridge/storage/pebble"
)

// Open returns the engine selected by options.Engine. An empty engine means badger.
func Open(logger *zap.Logger, options basedb.Options) (basedb.Database, error) {
	var (
		db  basedb.Database
		err error
	)
	switch options.Engine {
	case "", basedb.EngineBadger:
		db, err = kv.New(logger, options)
	case basedb.EnginePebble:
		db, err = pebble.New(logger.Named(logging.NamePebbleDBLog), options)
	default:
		return nil, fmt.Errorf("unknown storage engine %q", options.Engine)
	}
	if err != nil {
		return nil, err
	}
	logger.Debug("opened database", fields.Engine(string(options.Engine)), zap.String("path", options.Path))
	return db, nil
}
