// Package cohort groups students into performance clusters.
//
// A batch of loosely typed student records is turned into feature vectors,
// partitioned with deterministic k-means, ranked by mean score and labeled
// with performance tiers. A silhouette score rates how well separated the
// clusters are.
//
// # Quick Start
//
//	a := cohort.New(cohort.WithSeed(42))
//	res, err := a.Analyze(ctx, cohort.Request{
//	    Students: []feature.Record{
//	        feature.NewRecord(map[string]any{"user_id": 1, "literacy_score": 90, "math_score": 85}),
//	        feature.NewRecord(map[string]any{"user_id": 2, "literacy_score": 20, "math_score": 25}),
//	    },
//	    Category: "all",
//	    Clusters: 2,
//	})
//	if err != nil {
//	    var ide *cohort.InsufficientDataError
//	    if errors.As(err, &ide) {
//	        // fewer students than clusters
//	    }
//	}
//	for _, as := range res.Assignments {
//	    fmt.Println(as.UserID, as.Cluster, as.Label)
//	}
//
// # Feature Profiles
//
//   - "all": literacy_score, math_score, games_played, total_score
//   - "literacy": literacy_score, games_played, total_score
//   - "math": math_score, games_played, total_score
//
// Missing or non-numeric values are read as 0. Identifiers that are not
// integers are read as 0.
//
// # Labels
//
// Clusters are ranked by the mean of their members' scores (the subject
// score, or the mean of literacy and math for "all") and named, best first:
// High Achievers, Above Average, Average Performers, Below Average,
// Needs Support. Empty clusters are Average Performers.
//
// # Observability
//
// Use WithLogger for structured slog output and WithMetricsCollector to
// record run counts and latencies.
package cohort
