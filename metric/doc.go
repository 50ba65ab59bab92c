// Package metric scores clustering quality.
//
// Silhouette measures, for every vector, how much closer it is to its own
// cluster than to the nearest other cluster, and averages the result over
// the batch. Values range from -1 (misassigned) through 0 (overlapping) to
// 1 (well separated). Distances use range-normalized features, the same
// space the clusterer works in.
//
// Quality scoring is advisory: Silhouette never fails and falls back to 0.
// SilhouetteE exposes the underlying error for diagnostics.
package metric
