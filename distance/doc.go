// Package distance provides Euclidean distance and range normalization
// for float64 feature vectors.
//
// Features with large numeric ranges (for example total_score) would
// dominate a raw Euclidean distance. Normalizer rescales every dimension
// to [0, 1] using the minimum and range observed in a batch, so each
// feature contributes on the same scale.
//
// # Usage
//
//	norm := distance.FitNormalizer(vectors)
//	scaled := distance.ApplyAll(norm, vectors)
//	d := distance.Euclidean(scaled[0], scaled[1])
package distance
