package feature

import (
	"fmt"
	"strings"
)

// Field names read from student records.
const (
	FieldUserID        = "user_id"
	FieldLiteracyScore = "literacy_score"
	FieldMathScore     = "math_score"
	FieldGamesPlayed   = "games_played"
	FieldTotalScore    = "total_score"
)

// Profile selects which record fields make up a feature vector.
type Profile int

const (
	ProfileAll Profile = iota
	ProfileLiteracy
	ProfileMath
)

var (
	allFields      = []string{FieldLiteracyScore, FieldMathScore, FieldGamesPlayed, FieldTotalScore}
	literacyFields = []string{FieldLiteracyScore, FieldGamesPlayed, FieldTotalScore}
	mathFields     = []string{FieldMathScore, FieldGamesPlayed, FieldTotalScore}
)

// ParseProfile maps a category name to a Profile.
// Unknown or empty names select ProfileAll.
func ParseProfile(s string) Profile {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "literacy":
		return ProfileLiteracy
	case "math":
		return ProfileMath
	default:
		return ProfileAll
	}
}

func (p Profile) String() string {
	switch p {
	case ProfileAll:
		return "all"
	case ProfileLiteracy:
		return "literacy"
	case ProfileMath:
		return "math"
	default:
		return fmt.Sprintf("Unknown(%d)", p)
	}
}

// Fields returns the ordered field names for the profile.
// The returned slice must not be modified.
func (p Profile) Fields() []string {
	switch p {
	case ProfileLiteracy:
		return literacyFields
	case ProfileMath:
		return mathFields
	default:
		return allFields
	}
}

// Dimension returns the vector length produced for the profile.
func (p Profile) Dimension() int {
	return len(p.Fields())
}
