// Package label names clusters by how well their members perform.
package label

import (
	"math"
	"slices"
)

// Tier labels in rank order, best first.
const (
	HighAchievers     = "High Achievers"
	AboveAverage      = "Above Average"
	AveragePerformers = "Average Performers"
	BelowAverage      = "Below Average"
	NeedsSupport      = "Needs Support"

	// HighPerformers is used only for overflow clusters scoring >= 80.
	HighPerformers = "High Performers"
)

// Tiers is the ordered label list assigned by rank.
var Tiers = []string{
	HighAchievers,
	AboveAverage,
	AveragePerformers,
	BelowAverage,
	NeedsSupport,
}

// Default is given to clusters with no members.
const Default = AveragePerformers

// Assign labels clusters 0..len(scores)-1.
//
// scores[c] holds the member scores of cluster c. Non-empty clusters are
// ranked by mean score, highest first, ties broken by lower index. The
// first len(Tiers) ranks take Tiers in order; the rest are labeled by
// OverflowLabel. Empty clusters get Default.
func Assign(scores [][]float64) []string {
	means := Means(scores)
	labels := make([]string, len(scores))

	ranked := make([]int, 0, len(scores))
	for c, s := range scores {
		if len(s) == 0 {
			labels[c] = Default
			continue
		}
		ranked = append(ranked, c)
	}

	slices.SortStableFunc(ranked, func(a, b int) int {
		switch {
		case means[a] > means[b]:
			return -1
		case means[a] < means[b]:
			return 1
		default:
			return a - b
		}
	})

	for rank, c := range ranked {
		if rank < len(Tiers) {
			labels[c] = Tiers[rank]
		} else {
			labels[c] = OverflowLabel(means[c])
		}
	}

	return labels
}

// OverflowLabel labels a cluster ranked past the tier list by its mean score.
func OverflowLabel(mean float64) string {
	switch {
	case mean >= 80:
		return HighPerformers
	case mean >= 60:
		return AveragePerformers
	case mean >= 40:
		return BelowAverage
	default:
		return NeedsSupport
	}
}

// Means returns the arithmetic mean of every cluster's scores, 0 for empty ones.
func Means(scores [][]float64) []float64 {
	means := make([]float64, len(scores))
	for c, s := range scores {
		if len(s) == 0 {
			continue
		}
		means[c] = mean(s)
	}
	return means
}

// mean averages xs, scaling each term down when the plain sum overflows.
func mean(xs []float64) float64 {
	var sum float64
	for _, v := range xs {
		sum += v
	}
	n := float64(len(xs))
	if !math.IsInf(sum, 0) {
		return sum / n
	}

	sum = 0
	for _, v := range xs {
		sum += v / n
	}
	return sum
}

// Rank returns the position of label in Tiers, or len(Tiers) if it is not a tier.
// HighPerformers ranks with HighAchievers.
func Rank(label string) int {
	if label == HighPerformers {
		return 0
	}
	if i := slices.Index(Tiers, label); i >= 0 {
		return i
	}
	return len(Tiers)
}

// Group splits per-vector scores by cluster assignment.
func Group(assignments []int, scores []float64, k int) [][]float64 {
	out := make([][]float64, k)
	for i, c := range assignments {
		if c < 0 || c >= k || i >= len(scores) {
			continue
		}
		out[c] = append(out[c], scores[i])
	}
	return out
}
