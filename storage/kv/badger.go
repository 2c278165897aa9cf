package kv

import (
	"context"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ssvlabs/ssv-bridge/storage/basedb"
)

var (
	_ basedb.Database         = (*BadgerDB)(nil)
	_ basedb.GarbageCollector = (*BadgerDB)(nil)
)

// BadgerDB struct
type BadgerDB struct {
	logger *zap.Logger

	db *badger.DB

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	gcMutex  sync.Mutex
	inMemory bool
}

// New creates a persistent DB instance.
func New(logger *zap.Logger, options basedb.Options) (*BadgerDB, error) {
	return createDB(logger, options, options.InMemory)
}

// NewInMemory creates an in-memory DB instance.
func NewInMemory(logger *zap.Logger, options basedb.Options) (*BadgerDB, error) {
	return createDB(logger, options, true)
}

func createDB(logger *zap.Logger, options basedb.Options, inMemory bool) (*BadgerDB, error) {
	// Open the Badger database located in options.Path.
	// It will be created if it doesn't exist.
	path := options.Path
	if inMemory {
		path = ""
	}
	opt := badger.DefaultOptions(path).
		WithInMemory(inMemory).
		WithLogger(newLogger(logger)).
		WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(opt)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open badger")
	}

	parent := options.Ctx
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	badgerDB := &BadgerDB{
		logger:   logger,
		db:       db,
		ctx:      ctx,
		cancel:   cancel,
		inMemory: inMemory,
	}

	// Start periodic garbage collection.
	if options.GCInterval > 0 && !inMemory {
		badgerDB.wg.Add(1)
		go badgerDB.periodicallyCollectGarbage(options.GCInterval)
	}

	logger.Debug("badger db initialized", zap.Bool("in_memory", inMemory), zap.String("path", path))
	return badgerDB, nil
}

// Badger returns the underlying badger.DB
func (b *BadgerDB) Badger() *badger.DB {
	return b.db
}

// Begin opens a read-write transaction.
func (b *BadgerDB) Begin() basedb.Txn {
	return newTxn(b.db.NewTransaction(true), b)
}

// Set save value with key to storage
func (b *BadgerDB) Set(prefix []byte, key []byte, value []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(fullKey(prefix, key), value)
	})
}

// Get return value for specified key
func (b *BadgerDB) Get(prefix []byte, key []byte) (obj basedb.Obj, found bool, err error) {
	err = b.db.View(func(txn *badger.Txn) error {
		obj, found, err = getter(txn, prefix, key)
		return err
	})
	return obj, found, err
}

// GetAll returns all the items of a given collection, in key order.
func (b *BadgerDB) GetAll(prefix []byte, handler func(int, basedb.Obj) error) error {
	return b.db.View(allGetter(prefix, handler))
}

// Delete key in specific prefix
func (b *BadgerDB) Delete(prefix []byte, key []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(fullKey(prefix, key))
	})
}

// Using returns rw when set, otherwise the database itself.
func (b *BadgerDB) Using(rw basedb.ReadWriter) basedb.ReadWriter {
	if rw == nil {
		return b
	}
	return rw
}

// CountPrefix return the number of keys under the prefix
func (b *BadgerDB) CountPrefix(prefix []byte) (int64, error) {
	count := int64(0)
	err := b.db.View(func(txn *badger.Txn) error {
		opt := badger.DefaultIteratorOptions
		opt.Prefix = prefix
		opt.PrefetchValues = false
		it := txn.NewIterator(opt)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return -1, err
	}
	return count, nil
}

// Update runs fn in a transaction and commits it when fn succeeds.
func (b *BadgerDB) Update(fn func(basedb.Txn) error) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return fn(newTxn(txn, b))
	})
}

// Close closes the database.
func (b *BadgerDB) Close() error {
	// Stop & wait for background goroutines.
	b.cancel()
	b.wg.Wait()

	// Close the database.
	err := b.db.Close()
	if err != nil {
		b.logger.Error("failed to close DB", zap.Error(err))
	}
	return err
}

func fullKey(prefix, key []byte) []byte {
	k := make([]byte, 0, len(prefix)+len(key))
	k = append(k, prefix...)
	return append(k, key...)
}

func getter(txn *badger.Txn, prefix, key []byte) (basedb.Obj, bool, error) {
	item, err := txn.Get(fullKey(prefix, key))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) { // in order to couple the not found errors together
			return basedb.Obj{}, false, nil
		}
		return basedb.Obj{}, true, err
	}
	value, err := item.ValueCopy(nil)
	if err != nil {
		return basedb.Obj{}, true, err
	}
	return basedb.Obj{
		Key:   key,
		Value: value,
	}, true, nil
}

func allGetter(prefix []byte, handler func(int, basedb.Obj) error) func(txn *badger.Txn) error {
	return func(txn *badger.Txn) error {
		opt := badger.DefaultIteratorOptions
		opt.Prefix = prefix
		it := txn.NewIterator(opt)
		defer it.Close()

		i := 0
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := item.KeyCopy(nil)[len(prefix):]
			value, err := item.ValueCopy(nil)
			if err != nil {
				return errors.Wrapf(err, "failed to copy value of %x", key)
			}
			if err := handler(i, basedb.Obj{Key: key, Value: value}); err != nil {
				return err
			}
			i++
		}
		return nil
	}
}
