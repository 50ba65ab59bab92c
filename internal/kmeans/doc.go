// Package kmeans implements deterministic k-means clustering (Lloyd's algorithm).
//
// Distances are measured on range-normalized copies of the input so that no
// single feature dominates because of its numeric scale. Centroids are
// reported back in the original units.
//
// Given the same vectors, k and seed, Cluster returns identical assignments
// and centroids regardless of how many workers run the assignment step.
package kmeans
