// Package feature turns raw student records into fixed-length numeric vectors.
//
// Records are loosely typed: values may be numbers, numeric strings, or
// missing entirely. Conversion is lenient. Anything that cannot be read as
// a finite number becomes 0 instead of failing the batch.
//
// # Profiles
//
//   - All: literacy_score, math_score, games_played, total_score
//   - Literacy: literacy_score, games_played, total_score
//   - Math: math_score, games_played, total_score
//
// # Usage
//
//	profile := feature.ParseProfile("math")
//	vectors := feature.Build(records, profile)
//	score := feature.Score(records[0], profile)
package feature
