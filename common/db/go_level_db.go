package db

import (
	"path"

	log "github.com/inconshreveable/log15"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	lerrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/winzalabs/winzachain/types"
)

var llog = log.New("module", "db.goleveldb")

func init() {
	creator := func(name string, dir string, cache int32) (DB, error) {
		return NewGoLevelDB(name, dir, cache)
	}
	registerDBCreator(LevelDBBackendStr, creator, false)
	registerDBCreator(GoLevelDBBackendStr, creator, false)
}

type GoLevelDB struct {
	db *leveldb.DB
}

func NewGoLevelDB(name string, dir string, cache int32) (*GoLevelDB, error) {
	dbPath := path.Join(dir, name+".db")
	if cache <= 0 {
		cache = 64
	}
	handles := int(cache)
	db, err := leveldb.OpenFile(dbPath, &opt.Options{
		OpenFilesCacheCapacity: handles,
		BlockCacheCapacity:     int(cache) / 2 * opt.MiB,
		WriteBuffer:            int(cache) / 4 * opt.MiB,
		Filter:                 filter.NewBloomFilter(10),
	})
	if _, corrupted := err.(*lerrors.ErrCorrupted); corrupted {
		db, err = leveldb.RecoverFile(dbPath, nil)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "open leveldb %s", dbPath)
	}
	return &GoLevelDB{db: db}, nil
}

func (db *GoLevelDB) Get(key []byte) ([]byte, error) {
	value, err := db.db.Get(key, nil)
	if err != nil {
		if err == lerrors.ErrNotFound {
			return nil, types.ErrNotFound
		}
		return nil, errors.Wrap(err, "leveldb get")
	}
	return value, nil
}

func (db *GoLevelDB) Set(key []byte, value []byte) error {
	if value == nil {
		return db.Delete(key)
	}
	if err := db.db.Put(key, value, nil); err != nil {
		return errors.Wrap(err, "leveldb put")
	}
	return nil
}

func (db *GoLevelDB) Delete(key []byte) error {
	if err := db.db.Delete(key, nil); err != nil {
		return errors.Wrap(err, "leveldb delete")
	}
	return nil
}

func (db *GoLevelDB) List(prefix []byte, key []byte, count int32, direction int32) ([][]byte, error) {
	iter := db.db.NewIterator(util.BytesPrefix(prefix), nil)
	defer iter.Release()

	var values [][]byte
	if direction == ListASC {
		ok := iter.First()
		if key != nil {
			// resume strictly after key
			ok = iter.Seek(key)
			if ok && string(iter.Key()) == string(key) {
				ok = iter.Next()
			}
		}
		for ; ok; ok = iter.Next() {
			values = append(values, cloneBytes(iter.Value()))
			if count > 0 && int32(len(values)) >= count {
				break
			}
		}
	} else {
		ok := iter.Last()
		if key != nil {
			ok = iter.Seek(key)
			if ok {
				ok = iter.Prev()
			}
		}
		for ; ok; ok = iter.Prev() {
			values = append(values, cloneBytes(iter.Value()))
			if count > 0 && int32(len(values)) >= count {
				break
			}
		}
	}
	if err := iter.Error(); err != nil {
		return nil, errors.Wrap(err, "leveldb iterate")
	}
	return values, nil
}

func (db *GoLevelDB) Close() {
	if err := db.db.Close(); err != nil {
		llog.Error("Close", "err", err)
	}
}

func (db *GoLevelDB) NewBatch(sync bool) Batch {
	return &goLevelDBBatch{db: db, batch: new(leveldb.Batch), wop: &opt.WriteOptions{Sync: sync}}
}

type goLevelDBBatch struct {
	db    *GoLevelDB
	batch *leveldb.Batch
	wop   *opt.WriteOptions
}

func (b *goLevelDBBatch) Set(key, value []byte) {
	b.batch.Put(key, value)
}

func (b *goLevelDBBatch) Delete(key []byte) {
	b.batch.Delete(key)
}

func (b *goLevelDBBatch) Write() error {
	if err := b.db.db.Write(b.batch, b.wop); err != nil {
		return errors.Wrap(err, "leveldb batch write")
	}
	return nil
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
