package db

import (
	"fmt"
)

// KV is the minimal store surface a state transition may touch. Setting a
// nil value deletes the key.
type KV interface {
	Get(key []byte) ([]byte, error)
	Set(key []byte, value []byte) error
}

// Lister pages values under a key prefix. key, when non-nil, is an exclusive
// resume position; count <= 0 returns everything.
type Lister interface {
	List(prefix []byte, key []byte, count int32, direction int32) ([][]byte, error)
}

// KVDB is the read surface handed to query code.
type KVDB interface {
	KV
	Lister
}

// DB is a full storage backend.
type DB interface {
	KVDB
	Delete(key []byte) error
	NewBatch(sync bool) Batch
	Close()
}

type Batch interface {
	Set(key []byte, value []byte)
	Delete(key []byte)
	Write() error
}

const (
	ListDESC = int32(0)
	ListASC  = int32(1)
)

const (
	LevelDBBackendStr   = "leveldb"
	GoLevelDBBackendStr = "goleveldb"
	MemDBBackendStr     = "memdb"
)

type dbCreator func(name string, dir string, cache int32) (DB, error)

var backends = map[string]dbCreator{}

func registerDBCreator(backend string, creator dbCreator, force bool) {
	_, ok := backends[backend]
	if !force && ok {
		return
	}
	backends[backend] = creator
}

// NewDB opens a backend by name. An unknown backend or an open failure is a
// deployment error and panics, as there is nothing to run without storage.
func NewDB(name string, backend string, dir string, cache int32) DB {
	creator, ok := backends[backend]
	if !ok {
		panic(fmt.Sprintf("unknown db backend %q", backend))
	}
	db, err := creator(name, dir, cache)
	if err != nil {
		panic(fmt.Sprintf("initializing db backend %q: %v", backend, err))
	}
	return db
}
