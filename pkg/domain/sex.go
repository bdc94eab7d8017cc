package domain

import dErrors "vaxcard/pkg/domain-errors"

// Sex is the registered sex of a person. Wire values stay single-letter for
// compatibility with existing clients.
type Sex string

const (
	SexFemale Sex = "F"
	SexMale   Sex = "M"
	SexOther  Sex = "O"
)

var validSexes = map[Sex]bool{
	SexFemale: true,
	SexMale:   true,
	SexOther:  true,
}

// ParseSex constructs a Sex from external input.
func ParseSex(s string) (Sex, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "sex cannot be empty")
	}
	v := Sex(s)
	if !validSexes[v] {
		return "", dErrors.New(dErrors.CodeInvalidInput, "sex must be F, M or O")
	}
	return v, nil
}

// IsValid checks whether the value is one of the supported enum values.
func (s Sex) IsValid() bool {
	return validSexes[s]
}

func (s Sex) String() string {
	return string(s)
}
