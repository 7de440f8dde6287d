package executor

import (
	dbm "github.com/winzalabs/winzachain/common/db"
	"github.com/winzalabs/winzachain/types"
)

// stateCache buffers writes made during one Exec call. Reads fall through to
// the underlying db for keys not yet written. Commit flushes everything in a
// single batch; an abandoned cache leaves the db untouched.
type stateCache struct {
	db    dbm.DB
	cache map[string][]byte
}

func newStateCache(db dbm.DB) *stateCache {
	return &stateCache{
		db:    db,
		cache: make(map[string][]byte),
	}
}

func (s *stateCache) Get(key []byte) ([]byte, error) {
	if value, ok := s.cache[string(key)]; ok {
		if value == nil {
			return nil, types.ErrNotFound
		}
		return value, nil
	}
	return s.db.Get(key)
}

func (s *stateCache) Set(key, value []byte) error {
	s.cache[string(key)] = value
	return nil
}

func (s *stateCache) Commit() error {
	batch := s.db.NewBatch(true)
	for key, value := range s.cache {
		if value == nil {
			batch.Delete([]byte(key))
			continue
		}
		batch.Set([]byte(key), value)
	}
	return batch.Write()
}
