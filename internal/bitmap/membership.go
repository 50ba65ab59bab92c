package bitmap

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
)

// Membership maps cluster indices to the positions of their members.
type Membership struct {
	clusters []*roaring.Bitmap
	n        int
}

// NewMembership groups vector positions by cluster.
// Every assignment must be in [0, k).
func NewMembership(assignments []int, k int) (*Membership, error) {
	if k < 1 {
		return nil, fmt.Errorf("bitmap: k must be positive, got %d", k)
	}

	m := &Membership{
		clusters: make([]*roaring.Bitmap, k),
		n:        len(assignments),
	}
	for c := range m.clusters {
		m.clusters[c] = roaring.New()
	}

	for i, c := range assignments {
		if c < 0 || c >= k {
			return nil, fmt.Errorf("bitmap: assignment %d of vector %d outside [0, %d)", c, i, k)
		}
		m.clusters[c].Add(uint32(i))
	}

	return m, nil
}

// K returns the number of clusters.
func (m *Membership) K() int {
	return len(m.clusters)
}

// Len returns the total number of assigned vectors.
func (m *Membership) Len() int {
	return m.n
}

// Count returns the number of members of cluster c.
func (m *Membership) Count(c int) int {
	return int(m.clusters[c].GetCardinality())
}

// Members returns the positions in cluster c in ascending order.
func (m *Membership) Members(c int) []int {
	out := make([]int, 0, m.clusters[c].GetCardinality())
	it := m.clusters[c].Iterator()
	for it.HasNext() {
		out = append(out, int(it.Next()))
	}
	return out
}

// Contains reports whether position i belongs to cluster c.
func (m *Membership) Contains(c, i int) bool {
	return m.clusters[c].Contains(uint32(i))
}

// Populated returns the indices of non-empty clusters in ascending order.
func (m *Membership) Populated() []int {
	out := make([]int, 0, len(m.clusters))
	for c, b := range m.clusters {
		if !b.IsEmpty() {
			out = append(out, c)
		}
	}
	return out
}
