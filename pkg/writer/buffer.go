package writer

import (
	"github.com/mergekv/mergekv/pkg/record"
	"github.com/mergekv/mergekv/pkg/utils"
)

// Group is the ordered run of buffered records sharing one logical key.
// Records keep their submission order; a merged write must span from
// the first to the last record's physical key.
type Group struct {
	key     []byte
	records []*record.Record

	prev, next *Group
}

func (g *Group) Key() []byte {
	return g.key
}

func (g *Group) Records() []*record.Record {
	return g.records
}

func (g *Group) Len() int {
	return len(g.records)
}

// Buffer maps a logical key to its pending group and keeps groups in
// creation order: a hash index for O(1) lookup plus an intrusive
// doubly-linked list for O(1) append and O(1) oldest-removal.
//
// Invariant: the sum of all group lengths equals the tracked record
// count, and no two groups share a logical key.
type Buffer struct {
	index map[string]*Group

	head, tail *Group

	count int
}

func NewBuffer() *Buffer {
	return &Buffer{
		index: make(map[string]*Group),
	}
}

// Append adds a record to the group of the given logical key, creating
// the group at the end of iteration order on first arrival.
func (b *Buffer) Append(logical []byte, rec *record.Record) {
	group, ok := b.index[string(logical)]
	if !ok {
		group = &Group{key: logical}
		b.index[string(logical)] = group
		if b.tail == nil {
			b.head = group
		} else {
			b.tail.next = group
			group.prev = b.tail
		}
		b.tail = group
	}
	group.records = append(group.records, rec)
	b.count++
}

// Size returns the total buffered record count across all groups.
func (b *Buffer) Size() int {
	return b.count
}

// Groups returns the number of pending groups.
func (b *Buffer) Groups() int {
	return len(b.index)
}

// RemoveOldest unlinks and returns the group that has been resident
// longest. Fails with ErrEmptyBuffer on an empty buffer.
func (b *Buffer) RemoveOldest() (*Group, error) {
	group := b.head
	if group == nil {
		return nil, utils.ErrEmptyBuffer
	}
	b.head = group.next
	if b.head == nil {
		b.tail = nil
	} else {
		b.head.prev = nil
	}
	group.next = nil
	delete(b.index, string(group.key))
	b.count -= len(group.records)
	return group, nil
}

// Ascend walks pending groups in creation order, oldest first, until
// fn returns false. The walk is restartable; it does not consume the
// buffer.
func (b *Buffer) Ascend(fn func(group *Group) bool) {
	for group := b.head; group != nil; group = group.next {
		if !fn(group) {
			return
		}
	}
}

// Clear drops all groups and resets the record count. It writes
// nothing; callers needing durability must flush first.
func (b *Buffer) Clear() {
	b.index = make(map[string]*Group)
	b.head = nil
	b.tail = nil
	b.count = 0
}
