package sorting

import "slices"

// pendingList keeps the frame's submissions in back-to-front order:
// non-increasing key from head to tail.
type pendingList struct {
	handles []nodeHandle
}

// insert places h before the first node whose key is less than h's key, or
// at the tail. Equal keys keep submission order.
func (l *pendingList) insert(pool *nodePool, h nodeHandle) {
	key := pool.get(h).key
	i := 0
	for ; i < len(l.handles); i++ {
		if pool.get(l.handles[i]).key < key {
			break
		}
	}
	l.handles = slices.Insert(l.handles, i, h)
	pool.get(h).list = listPending
}

func (l *pendingList) len() int {
	return len(l.handles)
}

func (l *pendingList) reset() {
	l.handles = l.handles[:0]
}
