package qem

import (
	"math"

	"github.com/akmonengine/weave/halfedge"
	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/go-gl/mathgl/mgl64"
)

// queueKey orders candidates by error, then by insertion sequence so that equal
// errors pop in the order they were pushed.
type queueKey struct {
	err float64
	seq uint64
}

type candidate struct {
	edge halfedge.EdgeID
	pos  mgl64.Vec3
}

// queue is an ordered multimap from collapse error to candidate edge, with at most
// one entry per edge.
type queue struct {
	tree redblacktree.Tree
	keys map[halfedge.EdgeID]queueKey
	seq  uint64
}

func newQueue() *queue {
	return &queue{
		tree: redblacktree.Tree{
			Comparator: func(A, B interface{}) int {
				a := A.(queueKey)
				b := B.(queueKey)
				switch {
				case a.err < b.err:
					return -1
				case a.err > b.err:
					return 1
				case a.seq < b.seq:
					return -1
				case a.seq > b.seq:
					return 1
				}
				return 0
			},
		},
		keys: make(map[halfedge.EdgeID]queueKey),
	}
}

// push inserts or replaces the entry of e.
func (q *queue) push(e halfedge.EdgeID, err float64, pos mgl64.Vec3) {
	q.remove(e)
	if math.IsNaN(err) {
		err = math.Inf(1)
	}
	k := queueKey{err: err, seq: q.seq}
	q.seq++
	q.keys[e] = k
	q.tree.Put(k, candidate{edge: e, pos: pos})
}

func (q *queue) remove(e halfedge.EdgeID) {
	k, ok := q.keys[e]
	if !ok {
		return
	}
	delete(q.keys, e)
	q.tree.Remove(k)
}

func (q *queue) pop() (candidate, float64, bool) {
	node := q.tree.Left()
	if node == nil {
		return candidate{}, 0, false
	}
	c := node.Value.(candidate)
	k := node.Key.(queueKey)
	q.tree.Remove(k)
	delete(q.keys, c.edge)
	return c, k.err, true
}

func (q *queue) len() int {
	return q.tree.Size()
}
