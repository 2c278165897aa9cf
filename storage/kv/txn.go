package kv

import (
	"github.com/dgraph-io/badger/v4"

	"github.com/ssvlabs/ssv-bridge/storage/basedb"
)

type badgerTxn struct {
	txn *badger.Txn
	db  *BadgerDB
}

func newTxn(txn *badger.Txn, db *BadgerDB) basedb.Txn {
	return &badgerTxn{
		txn: txn,
		db:  db,
	}
}

func (t *badgerTxn) Commit() error {
	return t.txn.Commit()
}

func (t *badgerTxn) Discard() {
	t.txn.Discard()
}

func (t *badgerTxn) Set(prefix []byte, key []byte, value []byte) error {
	return t.txn.Set(fullKey(prefix, key), value)
}

func (t *badgerTxn) Get(prefix []byte, key []byte) (basedb.Obj, bool, error) {
	return getter(t.txn, prefix, key)
}

func (t *badgerTxn) GetAll(prefix []byte, handler func(int, basedb.Obj) error) error {
	return allGetter(prefix, handler)(t.txn)
}

func (t *badgerTxn) Delete(prefix []byte, key []byte) error {
	return t.txn.Delete(fullKey(prefix, key))
}
