package knn

import (
	"sort"
)

// kdTree is an exact nearest-neighbor index over the training points.
// It returns the same neighbor sets as the brute-force scan; the split
// threshold prunes with the per-axis distance, a valid lower bound for
// every Minkowski power >= 1.
type kdTree struct {
	points   [][]float64
	root     *kdNode
	leafSize int
	dims     int
}

type kdNode struct {
	axis  int
	split float64
	index int // splitting point, interior nodes only

	left, right *kdNode

	indices []int // leaf nodes only
}

func buildKDTree(points [][]float64, leafSize int) *kdTree {
	indices := make([]int, len(points))
	for i := range indices {
		indices[i] = i
	}
	t := &kdTree{
		points:   points,
		leafSize: leafSize,
		dims:     len(points[0]),
	}
	t.root = t.build(indices, 0)
	return t
}

func (t *kdTree) build(indices []int, depth int) *kdNode {
	if len(indices) == 0 {
		return nil
	}
	if len(indices) <= t.leafSize {
		return &kdNode{indices: indices}
	}

	axis := depth % t.dims
	sort.Slice(indices, func(i, j int) bool {
		a, b := t.points[indices[i]][axis], t.points[indices[j]][axis]
		if a != b {
			return a < b
		}
		return indices[i] < indices[j]
	})

	mid := len(indices) / 2
	node := &kdNode{
		axis:  axis,
		split: t.points[indices[mid]][axis],
		index: indices[mid],
	}
	node.left = t.build(indices[:mid], depth+1)
	node.right = t.build(indices[mid+1:], depth+1)
	return node
}

// search returns the k nearest neighbors of x sorted by (distance, index).
func (t *kdTree) search(x []float64, k int, p float64) []neighbor {
	heap := &boundedHeap{limit: k}
	t.visit(t.root, x, p, heap)

	result := append([]neighbor(nil), heap.items...)
	sort.Slice(result, func(i, j int) bool {
		if result[i].dist != result[j].dist {
			return result[i].dist < result[j].dist
		}
		return result[i].index < result[j].index
	})
	return result
}

func (t *kdTree) visit(node *kdNode, x []float64, p float64, heap *boundedHeap) {
	if node == nil {
		return
	}

	if node.indices != nil {
		for _, idx := range node.indices {
			heap.offer(neighbor{index: idx, dist: minkowski(x, t.points[idx], p)})
		}
		return
	}

	heap.offer(neighbor{index: node.index, dist: minkowski(x, t.points[node.index], p)})

	diff := x[node.axis] - node.split
	near, far := node.left, node.right
	if diff > 0 {
		near, far = node.right, node.left
	}

	t.visit(near, x, p, heap)

	// The far side can still hold a closer point, or an equally distant
	// one with a lower index, when the plane distance does not exceed
	// the current worst.
	if !heap.full() || absFloat(diff) <= heap.worst().dist {
		t.visit(far, x, p, heap)
	}
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// boundedHeap keeps the k best neighbors seen so far as a max-heap
// ordered by (distance, index), so ties break identically to the
// brute-force scan.
type boundedHeap struct {
	items []neighbor
	limit int
}

func (h *boundedHeap) full() bool { return len(h.items) >= h.limit }

func (h *boundedHeap) worst() neighbor { return h.items[0] }

// worse reports whether a ranks behind b.
func worse(a, b neighbor) bool {
	if a.dist != b.dist {
		return a.dist > b.dist
	}
	return a.index > b.index
}

func (h *boundedHeap) offer(n neighbor) {
	if !h.full() {
		h.items = append(h.items, n)
		h.up(len(h.items) - 1)
		return
	}
	if worse(n, h.items[0]) {
		return
	}
	h.items[0] = n
	h.down(0)
}

func (h *boundedHeap) up(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !worse(h.items[i], h.items[parent]) {
			break
		}
		h.items[i], h.items[parent] = h.items[parent], h.items[i]
		i = parent
	}
}

func (h *boundedHeap) down(i int) {
	n := len(h.items)
	for {
		left, right := 2*i+1, 2*i+2
		largest := i
		if left < n && worse(h.items[left], h.items[largest]) {
			largest = left
		}
		if right < n && worse(h.items[right], h.items[largest]) {
			largest = right
		}
		if largest == i {
			return
		}
		h.items[i], h.items[largest] = h.items[largest], h.items[i]
		i = largest
	}
}
