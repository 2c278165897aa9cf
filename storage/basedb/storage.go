package basedb

import (
	"context"
	"time"
)

// Engine names a storage backend.
type Engine string

const (
	EngineBadger Engine = "badger"
	EnginePebble Engine = "pebble"
)

// Options for creating all db type
type Options struct {
	Ctx        context.Context `yaml:"-"`
	Path       string          `yaml:"Path" env:"DB_PATH" env-default:"./data/ledger" env-description:"Database storage directory path"`
	Engine     Engine          `yaml:"Engine" env:"DB_ENGINE" env-default:"badger" env-description:"Storage engine: badger or pebble"`
	InMemory   bool            `yaml:"InMemory" env:"DB_IN_MEMORY" env-default:"false" env-description:"Keep the database in memory only"`
	GCInterval time.Duration   `yaml:"GCInterval" env:"DB_GC_INTERVAL" env-default:"6m" env-description:"Interval between garbage collection runs (0 to disable)"`
}

// Reader is a read-only accessor to the database.
type Reader interface {
	Get(prefix []byte, key []byte) (Obj, bool, error)
	GetAll(prefix []byte, handler func(int, Obj) error) error
}

// ReadWriter is a read-write accessor to the database.
type ReadWriter interface {
	Reader
	Set(prefix []byte, key []byte, value []byte) error
	Delete(prefix []byte, key []byte) error
}

// Txn is a read-write transaction. Writes become visible to other readers
// only after Commit; Discard drops them. Discard after Commit is a no-op.
type Txn interface {
	ReadWriter
	Commit() error
	Discard()
}

// Database is implemented by every storage engine.
type Database interface {
	ReadWriter

	Begin() Txn

	Using(rw ReadWriter) ReadWriter
	CountPrefix(prefix []byte) (int64, error)
	Update(fn func(Txn) error) error
	Close() error
}

// GarbageCollector is an interface implemented by storage engines which demand garbage collection.
type GarbageCollector interface {
	// QuickGC runs a short garbage collection cycle to reclaim some unused disk space.
	// Designed to be called periodically while the database is being used.
	QuickGC(context.Context) error

	// FullGC runs a long garbage collection cycle to reclaim (ideally) all unused disk space.
	// Designed to be called when the database is not being used.
	FullGC(context.Context) error
}

// Obj struct for getting key/value from storage
type Obj struct {
	Key   []byte
	Value []byte
}
