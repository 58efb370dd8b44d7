package db

import (
	"bytes"

	btree "github.com/google/btree"

	"github.com/mergekv/mergekv/pkg/utils"
)

// MemoryDB is an in-memory db keeping keys in sorted order,
// only used in tests and tooling.
type MemoryDB struct {
	tree *btree.BTreeG[*kv]
}

type kv struct {
	key   []byte
	value []byte
}

func kvLess(a, b *kv) bool {
	return bytes.Compare(a.key, b.key) < 0
}

func NewMemoryDB() *MemoryDB {
	return &MemoryDB{
		tree: btree.NewG(32, kvLess),
	}
}

func (m *MemoryDB) Get(key []byte) ([]byte, error) {
	item, ok := m.tree.Get(&kv{key: key})
	if !ok {
		return nil, utils.ErrNotFound
	}
	return item.value, nil
}

func (m *MemoryDB) Has(key []byte) (bool, error) {
	_, ok := m.tree.Get(&kv{key: key})
	return ok, nil
}

func (m *MemoryDB) Put(key, value []byte) error {
	m.tree.ReplaceOrInsert(&kv{
		key:   append([]byte{}, key...),
		value: append([]byte{}, value...),
	})
	return nil
}

func (m *MemoryDB) Delete(key []byte) error {
	m.tree.Delete(&kv{key: key})
	return nil
}

// Len returns the number of stored entries.
func (m *MemoryDB) Len() int {
	return m.tree.Len()
}

type memIterator struct {
	items []*kv
	pos   int
}

func (iter *memIterator) Next() bool {
	if iter.pos+1 >= len(iter.items) {
		return false
	}
	iter.pos++
	return true
}

func (iter *memIterator) Key() []byte {
	if iter.pos < 0 || iter.pos >= len(iter.items) {
		return nil
	}
	return iter.items[iter.pos].key
}

func (iter *memIterator) Value() []byte {
	if iter.pos < 0 || iter.pos >= len(iter.items) {
		return nil
	}
	return iter.items[iter.pos].value
}

func (iter *memIterator) Error() error {
	return nil
}

func (iter *memIterator) Release() {
	iter.items = nil
}

func (m *MemoryDB) NewIteratorWithRange(start, limit []byte) (Iterator, error) {
	iter := &memIterator{pos: -1}
	m.tree.Ascend(func(item *kv) bool {
		if start != nil && bytes.Compare(item.key, start) < 0 {
			return true
		}
		if limit != nil && bytes.Compare(item.key, limit) >= 0 {
			return false
		}
		iter.items = append(iter.items, item)
		return true
	})
	return iter, nil
}

func (m *MemoryDB) NewIterator(prefix []byte, start []byte) Iterator {
	r := BytesPrefixRange(prefix, start)
	iter, _ := m.NewIteratorWithRange(r.Start, r.Limit)
	return iter
}

func (m *MemoryDB) Close() error {
	m.tree.Clear(false)
	return nil
}
