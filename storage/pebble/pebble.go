package pebble

import (
	"context"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ssvlabs/ssv-bridge/storage/basedb"
)

var (
	_ basedb.Database         = &DB{}
	_ basedb.GarbageCollector = &DB{}
)

type DB struct {
	*pebble.DB
	logger *zap.Logger
}

// New opens a pebble database at options.Path, or in memory when
// options.InMemory is set.
func New(logger *zap.Logger, options basedb.Options) (*DB, error) {
	opts := &pebble.Options{}
	path := options.Path
	if options.InMemory {
		opts.FS = vfs.NewMem()
		path = ""
	}

	pdb, err := pebble.Open(path, opts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open pebble")
	}

	logger.Debug("pebble db initialized", zap.Bool("in_memory", options.InMemory), zap.String("path", path))
	return &DB{
		DB:     pdb,
		logger: logger,
	}, nil
}

func (pdb *DB) Close() error {
	return pdb.DB.Close()
}

func (pdb *DB) Get(prefix []byte, key []byte) (basedb.Obj, bool, error) {
	return getter(pdb.DB, prefix, key)
}

func (pdb *DB) Set(prefix, key, value []byte) error {
	return pdb.DB.Set(fullKey(prefix, key), value, pebble.Sync)
}

func (pdb *DB) Delete(prefix, key []byte) error {
	return pdb.DB.Delete(fullKey(prefix, key), pebble.Sync)
}

func (pdb *DB) GetAll(prefix []byte, fn func(int, basedb.Obj) error) error {
	return allGetter(pdb.DB, prefix, fn)
}

func (pdb *DB) Begin() basedb.Txn {
	return newTxn(pdb.NewIndexedBatch())
}

func (pdb *DB) Using(rw basedb.ReadWriter) basedb.ReadWriter {
	if rw == nil {
		return pdb
	}
	return rw
}

func (pdb *DB) CountPrefix(prefix []byte) (int64, error) {
	iter, err := makePrefixIter(pdb.DB, prefix)
	if err != nil {
		return 0, err
	}

	defer func() { _ = iter.Close() }()

	count := int64(0)
	for iter.First(); iter.Valid(); iter.Next() {
		count++
	}

	if err := iter.Error(); err != nil {
		return 0, err
	}

	return count, nil
}

func (pdb *DB) Update(fn func(basedb.Txn) error) error {
	txn := pdb.Begin()
	defer txn.Discard()

	if err := fn(txn); err != nil {
		return err
	}
	return txn.Commit()
}

func (pdb *DB) QuickGC(context.Context) error {
	return nil // pebble db does not require periodic gc
}

func (pdb *DB) FullGC(context.Context) error {
	iter, err := pdb.NewIter(nil)
	if err != nil {
		return err
	}

	var first, last []byte

	if iter.First() {
		first = append(first, iter.Key()...)
	}
	if iter.Last() {
		last = append(last, iter.Key()...)
	}
	if err := iter.Close(); err != nil {
		return err
	}
	if first == nil {
		return nil
	}

	// Compact's end bound is exclusive
	return pdb.Compact(first, append(last, 0x00), true)
}

func fullKey(prefix, key []byte) []byte {
	k := make([]byte, 0, len(prefix)+len(key))
	k = append(k, prefix...)
	return append(k, key...)
}

func getter(r pebble.Reader, prefix, key []byte) (basedb.Obj, bool, error) {
	value, closer, err := r.Get(fullKey(prefix, key))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return basedb.Obj{}, false, nil
		}
		return basedb.Obj{}, true, err
	}

	valCopy := make([]byte, len(value))
	copy(valCopy, value)
	if err := closer.Close(); err != nil {
		return basedb.Obj{}, true, err
	}
	return basedb.Obj{
		Key:   key,
		Value: valCopy,
	}, true, nil
}

func makePrefixIter(dbOrBatch pebble.Reader, prefix []byte) (*pebble.Iterator, error) {
	keyUpperBound := func(b []byte) []byte {
		end := make([]byte, len(b))
		copy(end, b)
		for i := len(end) - 1; i >= 0; i-- {
			end[i] = end[i] + 1
			if end[i] != 0 {
				return end[:i+1]
			}
		}
		return nil // no upper-bound
	}

	return dbOrBatch.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: keyUpperBound(prefix),
	})
}

func allGetter(r pebble.Reader, prefix []byte, fn func(int, basedb.Obj) error) error {
	iter, err := makePrefixIter(r, prefix)
	if err != nil {
		return err
	}

	defer func() { _ = iter.Close() }() // returns the same 'accumulated' error as iter.Error()

	i := 0
	for iter.First(); iter.Valid(); iter.Next() {
		v, err := iter.ValueAndErr()
		if err != nil {
			return err
		}

		key := make([]byte, len(iter.Key())-len(prefix))
		copy(key, iter.Key()[len(prefix):])

		val := make([]byte, len(v))
		copy(val, v)

		if err := fn(i, basedb.Obj{Key: key, Value: val}); err != nil {
			return err
		}
		i++
	}

	return iter.Error()
}
