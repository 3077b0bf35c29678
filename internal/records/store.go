// Package records holds the ordered, id-addressable collections behind the
// task and shopping lists.
//
// A Store is an arena of records keyed by id. Each record carries the ids of
// its neighbours, so the store behaves like a doubly linked list with O(1)
// append, lookup and removal while records never point at each other.
package records

import (
	"fmt"
	"iter"
)

// Reserved link ids. Live records always have ids >= 1.
const (
	none   int64 = 0
	headID int64 = -1
	tailID int64 = -2
)

// Store is an ordered collection of records of a single kind.
type Store struct {
	kind    Kind
	head    Record
	tail    Record
	records map[int64]*Record
	nextID  int64
}

// NewStore returns an empty store whose records carry the given payload kind.
func NewStore(kind Kind) *Store {
	s := &Store{
		kind:    kind,
		records: make(map[int64]*Record),
		nextID:  1,
	}
	s.head = Record{id: headID, prev: none, next: tailID}
	s.tail = Record{id: tailID, prev: headID, next: none}
	return s
}

func (s *Store) Kind() Kind { return s.kind }

// Len is the number of live records.
func (s *Store) Len() int { return len(s.records) }

// NextID is the id the next Add will assign.
func (s *Store) NextID() int64 { return s.nextID }

// SetNextID raises the id counter. It never lowers it, so ids handed out
// earlier are not reassigned.
func (s *Store) SetNextID(id int64) {
	if id > s.nextID {
		s.nextID = id
	}
}

func (s *Store) node(id int64) *Record {
	switch id {
	case headID:
		return &s.head
	case tailID:
		return &s.tail
	default:
		return s.records[id]
	}
}

// Add appends a record with default fields at the tail.
func (s *Store) Add() *Record {
	r := newRecord(s.kind, s.nextID)
	s.nextID++
	s.register(r)
	return r
}

// Restore appends a record under a previously assigned id, as when a store
// is rebuilt from persisted rows.
func (s *Store) Restore(id int64) (*Record, error) {
	if id < 1 {
		return nil, fmt.Errorf("%w: id %d", ErrInvalidField, id)
	}
	if _, ok := s.records[id]; ok {
		return nil, fmt.Errorf("%w: %d", ErrDuplicateID, id)
	}
	r := newRecord(s.kind, id)
	s.SetNextID(id + 1)
	s.register(r)
	return r, nil
}

func (s *Store) register(r *Record) {
	s.records[r.id] = r
	s.linkBefore(r, &s.tail)
}

func (s *Store) linkBefore(r, at *Record) {
	prev := s.node(at.prev)
	r.prev = prev.id
	r.next = at.id
	prev.next = r.id
	at.prev = r.id
}

func (s *Store) unlink(r *Record) {
	s.node(r.prev).next = r.next
	s.node(r.next).prev = r.prev
	r.prev, r.next = none, none
}

// Get returns the live record with the given id.
func (s *Store) Get(id int64) (*Record, error) {
	r, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s %d", ErrNotFound, s.kind, id)
	}
	return r, nil
}

// Delete unlinks the record and forgets it. Its id is not reused.
func (s *Store) Delete(id int64) error {
	r, err := s.Get(id)
	if err != nil {
		return err
	}
	s.unlink(r)
	delete(s.records, id)
	return nil
}

// Move relinks id immediately before beforeID. A beforeID of 0 moves the
// record to the end of the list.
func (s *Store) Move(id, beforeID int64) error {
	r, err := s.Get(id)
	if err != nil {
		return err
	}
	at := &s.tail
	if beforeID != none {
		if at, err = s.Get(beforeID); err != nil {
			return err
		}
	}
	if at == r || at.prev == r.id {
		return nil
	}
	s.unlink(r)
	s.linkBefore(r, at)
	return nil
}

// Clone copies every field of src into dst within this store.
func (s *Store) Clone(srcID, dstID int64) error {
	src, err := s.Get(srcID)
	if err != nil {
		return err
	}
	dst, err := s.Get(dstID)
	if err != nil {
		return err
	}
	return CopyFields(dst, src)
}

// All walks the records from head to tail. Each call starts a fresh walk.
func (s *Store) All() iter.Seq[*Record] {
	return func(yield func(*Record) bool) {
		for id := s.head.next; id != tailID; {
			r := s.records[id]
			if r == nil {
				return
			}
			next := r.next
			if !yield(r) {
				return
			}
			id = next
		}
	}
}

// Backward walks the records from tail to head.
func (s *Store) Backward() iter.Seq[*Record] {
	return func(yield func(*Record) bool) {
		for id := s.tail.prev; id != headID; {
			r := s.records[id]
			if r == nil {
				return
			}
			prev := r.prev
			if !yield(r) {
				return
			}
			id = prev
		}
	}
}

// IDs returns the live ids in list order.
func (s *Store) IDs() []int64 {
	ids := make([]int64, 0, len(s.records))
	for r := range s.All() {
		ids = append(ids, r.id)
	}
	return ids
}
