package feature

import "math"

// Vector is an ordered list of feature values for one record.
type Vector []float64

// Build converts records into vectors for the given profile.
// Vector i corresponds to records[i].
func Build(records []Record, p Profile) []Vector {
	fields := p.Fields()
	vectors := make([]Vector, len(records))

	for i, r := range records {
		v := make(Vector, len(fields))
		for j, name := range fields {
			v[j] = Float(r.Get(name))
		}
		vectors[i] = v
	}

	return vectors
}

// Score returns the scalar used to rank a record within its cluster.
// It is the profile's subject score, or the mean of both subjects for ProfileAll.
func Score(r Record, p Profile) float64 {
	switch p {
	case ProfileLiteracy:
		return Float(r.Get(FieldLiteracyScore))
	case ProfileMath:
		return Float(r.Get(FieldMathScore))
	default:
		lit, mth := Float(r.Get(FieldLiteracyScore)), Float(r.Get(FieldMathScore))
		if sum := lit + mth; !math.IsInf(sum, 0) {
			return sum / 2.0
		}
		return lit/2 + mth/2
	}
}

// Scores returns Score for every record, preserving order.
func Scores(records []Record, p Profile) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = Score(r, p)
	}
	return out
}
