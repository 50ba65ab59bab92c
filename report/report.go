// Package report summarizes a labeled clustering.
package report

import (
	"math"
	"time"
)

// ClusterSummary describes one cluster in a Report.
type ClusterSummary struct {
	ClusterNumber int     `json:"cluster_number"`
	StudentCount  int     `json:"student_count"`
	Percentage    float64 `json:"percentage"`
	Label         string  `json:"label"`
	AverageScore  float64 `json:"average_score"`
}

// Report aggregates a clustering run.
type Report struct {
	RunID            string           `json:"run_id,omitempty"`
	AnalysisDate     time.Time        `json:"analysis_date"`
	TotalStudents    int              `json:"total_students"`
	NumberOfClusters int              `json:"number_of_clusters"`
	SilhouetteScore  float64          `json:"silhouette_score"`
	Clusters         []ClusterSummary `json:"clusters"`
}

// Input is everything Generate needs.
type Input struct {
	RunID        string
	AnalysisDate time.Time

	// Assignments[i] and Scores[i] describe student i.
	Assignments []int
	Scores      []float64

	// Labels[c] names cluster c; len(Labels) is the cluster count.
	Labels []string

	Silhouette float64
}

// Generate builds a Report with one summary per cluster index, in ascending order.
// Clusters without students are listed with a zero count.
func Generate(in Input) Report {
	k := len(in.Labels)
	total := len(in.Assignments)

	counts := make([]int, k)
	sums := make([]float64, k)
	for i, c := range in.Assignments {
		if c < 0 || c >= k {
			continue
		}
		counts[c]++
		if i < len(in.Scores) {
			sums[c] += in.Scores[i]
		}
	}

	means := make([]float64, k)
	for c := range means {
		if counts[c] == 0 {
			continue
		}
		n := float64(counts[c])
		if !math.IsInf(sums[c], 0) && !math.IsNaN(sums[c]) {
			means[c] = sums[c] / n
			continue
		}
		// The plain sum left the float64 range; average pre-divided scores.
		for i, a := range in.Assignments {
			if a == c && i < len(in.Scores) {
				means[c] += in.Scores[i] / n
			}
		}
	}

	clusters := make([]ClusterSummary, k)
	for c := range clusters {
		s := ClusterSummary{
			ClusterNumber: c,
			StudentCount:  counts[c],
			Label:         in.Labels[c],
		}
		if total > 0 {
			s.Percentage = float64(counts[c]) * 100.0 / float64(total)
		}
		if counts[c] > 0 {
			s.AverageScore = Round(means[c], 2)
		}
		clusters[c] = s
	}

	return Report{
		RunID:            in.RunID,
		AnalysisDate:     in.AnalysisDate,
		TotalStudents:    total,
		NumberOfClusters: k,
		SilhouetteScore:  Round(in.Silhouette, 4),
		Clusters:         clusters,
	}
}

// Round rounds v to the given number of decimal places, halves away from zero.
// Values too large to scale are returned unchanged; they have no fractional part.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	scaled := v * p
	if math.IsInf(scaled, 0) {
		return v
	}
	return math.Round(scaled) / p
}
