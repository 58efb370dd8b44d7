package db

import (
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

type LDB struct {
	DB *leveldb.DB
}

type LIterator struct {
	iter iterator.Iterator
}

func (iter *LIterator) Next() bool {
	return iter.iter.Next()
}

func (iter *LIterator) Key() []byte {
	return iter.iter.Key()
}

func (iter *LIterator) Error() error {
	return iter.iter.Error()
}

func (iter *LIterator) Value() []byte {
	return iter.iter.Value()
}

func (iter *LIterator) Release() {
	iter.iter.Release()
}

func NewLDB(path string) (*LDB, error) {
	// Set default options
	options := &opt.Options{
		Filter:                 filter.NewBloomFilter(10),
		DisableSeeksCompaction: true,
	}
	// Open the db and recover any potential corruptions
	db, err := leveldb.OpenFile(path, options)
	if _, corrupted := err.(*errors.ErrCorrupted); corrupted {
		db, err = leveldb.RecoverFile(path, nil)
	}
	if err != nil {
		return nil, err
	}
	return &LDB{DB: db}, nil
}

func (l *LDB) Get(key []byte) ([]byte, error) {
	return l.DB.Get(key, nil)
}

func (l *LDB) Has(key []byte) (bool, error) {
	return l.DB.Has(key, nil)
}

func (l *LDB) Put(key, value []byte) error {
	return l.DB.Put(key, value, nil)
}

func (l *LDB) Delete(key []byte) error {
	return l.DB.Delete(key, nil)
}

func (l *LDB) NewIteratorWithRange(start, limit []byte) (Iterator, error) {
	iter := l.DB.NewIterator(&util.Range{Start: start, Limit: limit}, nil)
	return &LIterator{iter: iter}, nil
}

func (l *LDB) NewIterator(prefix []byte, start []byte) Iterator {
	iter := l.DB.NewIterator(BytesPrefixRange(prefix, start), nil)
	return &LIterator{iter: iter}
}

func (l *LDB) Close() error {
	return l.DB.Close()
}
