package model

import "strings"

type Regional string

const (
	RegionalMetropolitana Regional = "Metropolitana"
	RegionalInterior      Regional = "Interior"
)

// ParseRegional accepts only the exact enum spellings.
func ParseRegional(raw string) (Regional, bool) {
	switch Regional(raw) {
	case RegionalMetropolitana:
		return RegionalMetropolitana, true
	case RegionalInterior:
		return RegionalInterior, true
	default:
		return "", false
	}
}

// IsMetro reports whether the metro price lists apply. Anything that is not
// Metropolitana is priced as Interior.
func (r Regional) IsMetro() bool {
	return strings.EqualFold(string(r), string(RegionalMetropolitana))
}

type City struct {
	Name     string   `json:"nome"`
	Regional Regional `json:"regional"`
	Center   string   `json:"centro"`
}

// Key is the identity used for uniqueness checks.
func (c City) Key() string {
	return CityKey(c.Name)
}

func CityKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
