package db

import (
	"sort"
	"strings"
	"sync"

	"github.com/winzalabs/winzachain/types"
)

func init() {
	creator := func(name string, dir string, cache int32) (DB, error) {
		return NewGoMemDB(name, dir, cache)
	}
	registerDBCreator(MemDBBackendStr, creator, false)
}

// GoMemDB is the in-memory backend used by tests and throwaway chains.
type GoMemDB struct {
	lock sync.RWMutex
	db   map[string][]byte
}

func NewGoMemDB(name string, dir string, cache int32) (*GoMemDB, error) {
	return &GoMemDB{db: make(map[string][]byte)}, nil
}

func (db *GoMemDB) Get(key []byte) ([]byte, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if value, ok := db.db[string(key)]; ok {
		return cloneBytes(value), nil
	}
	return nil, types.ErrNotFound
}

func (db *GoMemDB) Set(key []byte, value []byte) error {
	db.lock.Lock()
	defer db.lock.Unlock()

	if value == nil {
		delete(db.db, string(key))
		return nil
	}
	db.db[string(key)] = cloneBytes(value)
	return nil
}

func (db *GoMemDB) Delete(key []byte) error {
	db.lock.Lock()
	defer db.lock.Unlock()

	delete(db.db, string(key))
	return nil
}

func (db *GoMemDB) List(prefix []byte, key []byte, count int32, direction int32) ([][]byte, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	var keys []string
	for k := range db.db {
		if strings.HasPrefix(k, string(prefix)) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	if direction == ListDESC {
		for i, j := 0, len(keys)-1; i < j; i, j = i+1, j-1 {
			keys[i], keys[j] = keys[j], keys[i]
		}
	}

	var values [][]byte
	skipping := key != nil
	for _, k := range keys {
		if skipping {
			if k == string(key) {
				skipping = false
			}
			continue
		}
		values = append(values, cloneBytes(db.db[k]))
		if count > 0 && int32(len(values)) >= count {
			break
		}
	}
	return values, nil
}

func (db *GoMemDB) Close() {}

func (db *GoMemDB) NewBatch(sync bool) Batch {
	return &memBatch{db: db}
}

type kvpair struct{ k, v []byte }

type memBatch struct {
	db     *GoMemDB
	writes []kvpair
}

func (b *memBatch) Set(key, value []byte) {
	b.writes = append(b.writes, kvpair{cloneBytes(key), cloneBytes(value)})
}

func (b *memBatch) Delete(key []byte) {
	b.writes = append(b.writes, kvpair{cloneBytes(key), nil})
}

func (b *memBatch) Write() error {
	b.db.lock.Lock()
	defer b.db.lock.Unlock()

	for _, w := range b.writes {
		if w.v == nil {
			delete(b.db.db, string(w.k))
		} else {
			b.db.db[string(w.k)] = w.v
		}
	}
	return nil
}
