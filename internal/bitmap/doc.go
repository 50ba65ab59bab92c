// Package bitmap tracks which vectors belong to which cluster.
//
// Membership keeps one roaring bitmap per cluster index 0..k-1, so
// cluster iteration order is always ascending by index and vector
// positions within a cluster are always ascending.
package bitmap
