package pebble

import (
	"github.com/cockroachdb/pebble"

	"github.com/ssvlabs/ssv-bridge/storage/basedb"
)

// pebbleTxn wraps an indexed batch so reads observe the batch's own writes.
type pebbleTxn struct {
	batch *pebble.Batch
	done  bool
}

func newTxn(batch *pebble.Batch) basedb.Txn {
	return &pebbleTxn{batch: batch}
}

func (t *pebbleTxn) Commit() error {
	if err := t.batch.Commit(pebble.Sync); err != nil {
		return err
	}
	t.done = true
	return t.batch.Close()
}

func (t *pebbleTxn) Discard() {
	if t.done {
		return
	}
	t.done = true
	_ = t.batch.Close()
}

func (t *pebbleTxn) Set(prefix []byte, key []byte, value []byte) error {
	return t.batch.Set(fullKey(prefix, key), value, nil)
}

func (t *pebbleTxn) Get(prefix []byte, key []byte) (basedb.Obj, bool, error) {
	return getter(t.batch, prefix, key)
}

func (t *pebbleTxn) GetAll(prefix []byte, fn func(int, basedb.Obj) error) error {
	return allGetter(t.batch, prefix, fn)
}

func (t *pebbleTxn) Delete(prefix []byte, key []byte) error {
	return t.batch.Delete(fullKey(prefix, key), nil)
}
