package matching

import (
	"fmt"
	"strings"

	"github.com/oggyb/muzz-matching/internal/db"
)

// GenderPolicy decides which candidate genders a viewer may be shown.
type GenderPolicy string

const (
	// PolicyDifferent shows every gender except the viewer's own.
	PolicyDifferent GenderPolicy = "different"
	// PolicyOpposite maps MALE <-> FEMALE. OTHER viewers are unrestricted
	// and OTHER candidates are only shown to OTHER viewers.
	PolicyOpposite GenderPolicy = "opposite"
	// PolicyAny applies no gender filter.
	PolicyAny GenderPolicy = "any"
)

// ParseGenderPolicy accepts any casing; empty means PolicyDifferent.
func ParseGenderPolicy(s string) (GenderPolicy, error) {
	switch p := GenderPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PolicyDifferent, nil
	case PolicyDifferent, PolicyOpposite, PolicyAny:
		return p, nil
	default:
		return "", fmt.Errorf("unknown gender policy %q", s)
	}
}

// AllowedGenders returns the candidate genders visible to a viewer of the
// given gender. nil means no restriction.
func (p GenderPolicy) AllowedGenders(viewer db.Gender) []db.Gender {
	switch p {
	case PolicyAny:
		return nil
	case PolicyOpposite:
		switch viewer {
		case db.GenderMale:
			return []db.Gender{db.GenderFemale}
		case db.GenderFemale:
			return []db.Gender{db.GenderMale}
		default:
			return nil
		}
	default:
		out := make([]db.Gender, 0, len(db.Genders)-1)
		for _, g := range db.Genders {
			if g != viewer {
				out = append(out, g)
			}
		}
		return out
	}
}
