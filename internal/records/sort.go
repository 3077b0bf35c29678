package records

import (
	"golang.org/x/text/cases"
)

// Sort reorders the store in place: tasks by ascending start date, items by
// ascending case-folded location. Equal keys keep their relative order.
//
// The sort is a merge sort over the next links. Records are never copied or
// replaced, only relinked, so ids and handles stay valid.
func (s *Store) Sort() {
	if len(s.records) < 2 {
		return
	}

	less := s.lessFunc()
	first := s.detach()
	first = s.mergeSort(first, less)
	s.attach(first)
}

func (s *Store) lessFunc() func(a, b *Record) bool {
	if s.kind == KindItem {
		fold := cases.Fold()
		keys := make(map[int64]string, len(s.records))
		for id, r := range s.records {
			keys[id] = fold.String(r.item.Location)
		}
		return func(a, b *Record) bool {
			return keys[a.id] < keys[b.id]
		}
	}
	return func(a, b *Record) bool {
		return a.task.StartDate.Before(b.task.StartDate)
	}
}

// detach strips the interior chain from the sentinels and returns its first
// record, with the last record's next set to none.
func (s *Store) detach() *Record {
	first := s.records[s.head.next]
	last := s.records[s.tail.prev]
	last.next = none
	s.head.next = tailID
	s.tail.prev = headID
	return first
}

func (s *Store) mergeSort(first *Record, less func(a, b *Record) bool) *Record {
	if first == nil || first.next == none {
		return first
	}

	middle := s.middle(first)
	second := s.records[middle.next]
	middle.next = none

	left := s.mergeSort(first, less)
	right := s.mergeSort(second, less)
	return s.merge(left, right, less)
}

// middle finds the end of the first half with the slow/fast pointer walk.
func (s *Store) middle(first *Record) *Record {
	slow, fast := first, first.next
	for fast != none {
		f := s.records[fast]
		if f.next == none {
			break
		}
		slow = s.records[slow.next]
		fast = s.records[f.next].next
	}
	return slow
}

func (s *Store) merge(a, b *Record, less func(a, b *Record) bool) *Record {
	var first, last *Record
	appendRecord := func(r *Record) {
		if last == nil {
			first = r
		} else {
			last.next = r.id
		}
		last = r
	}

	for a != nil && b != nil {
		// Take from b only when strictly smaller, so ties keep a's record first.
		if less(b, a) {
			appendRecord(b)
			b = s.records[b.next]
		} else {
			appendRecord(a)
			a = s.records[a.next]
		}
	}
	for _, rest := range []*Record{a, b} {
		if rest != nil {
			appendRecord(rest)
			break
		}
	}
	return first
}

// attach links a none-terminated chain back between the sentinels and
// rebuilds the prev links.
func (s *Store) attach(first *Record) {
	prev := &s.head
	for r := first; r != nil; r = s.records[r.next] {
		prev.next = r.id
		r.prev = prev.id
		prev = r
	}
	prev.next = tailID
	s.tail.prev = prev.id
}
