// Package recency provides the ordered bookkeeping shared by the eviction
// policies: an intrusive doubly linked list of cache entries kept
// oldest-first, adapted from `container/ring`.
package recency

import (
	"iter"
	"time"
)

type (
	// A Node is a single cache entry threaded through a [List].
	// A node belongs to at most one list at a time.
	Node[Key comparable, Value any] struct {
		next, prev *Node[Key, Value]
		// Key is the identifier of the data this entry is bound to.
		Key   Key
		Value Value
		Metadata
	}
	// Metadata stores the access bookkeeping of a cache entry.
	// Policies read and update only the fields they care about.
	Metadata struct {
		// LastAccessed is updated on every hit and on insertion.
		LastAccessed time.Time
		// ExpiresAt is the absolute deadline of the entry.
		// Zero for policies without time-based expiry.
		ExpiresAt time.Time
		// Sequence is a monotonic access stamp assigned by the owning
		// cache. It orders entries where clock resolution cannot.
		Sequence uint64
		// AccessCount starts at 1 on insertion and increments per hit.
		AccessCount int
		// Tier tags the segment or frequency class the entry
		// currently belongs to. Meaning is policy-specific.
		Tier uint8
	}
	// A List is a sequence of nodes ordered oldest-first.
	// The zero value is not usable; construct with [NewList].
	List[Key comparable, Value any] struct {
		root   Node[Key, Value] // sentinel, not an entry
		length int
	}
)

// NewList returns an empty, initialized list.
func NewList[Key comparable, Value any]() *List[Key, Value] {
	list := new(List[Key, Value])
	list.Init()
	return list
}

// Init empties the list. Nodes previously linked are abandoned, not unlinked.
func (l *List[Key, Value]) Init() {
	l.root.next = &l.root
	l.root.prev = &l.root
	l.length = 0
}

// Len returns the number of nodes in the list in constant time.
func (l *List[Key, Value]) Len() int { return l.length }

// Oldest returns the least recently placed node, or nil if the list is empty.
func (l *List[Key, Value]) Oldest() *Node[Key, Value] {
	if l.length == 0 {
		return nil
	}
	return l.root.next
}

// Newest returns the most recently placed node, or nil if the list is empty.
func (l *List[Key, Value]) Newest() *Node[Key, Value] {
	if l.length == 0 {
		return nil
	}
	return l.root.prev
}

// PushNewest links node at the newest end.
// The node must not currently be in any list.
func (l *List[Key, Value]) PushNewest(node *Node[Key, Value]) {
	tail := l.root.prev
	node.prev = tail
	node.next = &l.root
	tail.next = node
	l.root.prev = node
	l.length++
}

// Remove unlinks node from the list.
// The node must currently be in this list.
func (l *List[Key, Value]) Remove(node *Node[Key, Value]) {
	node.prev.next = node.next
	node.next.prev = node.prev
	node.next = nil
	node.prev = nil
	l.length--
}

// MoveToNewest relinks node at the newest end of the list.
func (l *List[Key, Value]) MoveToNewest(node *Node[Key, Value]) {
	if l.root.prev == node {
		return
	}
	l.Remove(node)
	l.PushNewest(node)
}

// Iter returns an iterator over the nodes, oldest first.
// The list must not be modified during iteration.
func (l *List[Key, Value]) Iter() iter.Seq[*Node[Key, Value]] {
	return func(yield func(*Node[Key, Value]) bool) {
		for node := l.root.next; node != &l.root; node = node.next {
			if !yield(node) {
				return
			}
		}
	}
}
