package domain

import dErrors "vaxcard/pkg/domain-errors"

// Dose is a canonical vaccination-stage label. The five labels form a fixed
// total order D1 < D2 < D3 < R1 < R2; sequence enforcement relies on Index,
// never on string comparison.
//
// Usage: construct via ParseDose at trust boundaries to enforce the
// allowlist; direct casting bypasses validation.
type Dose string

const (
	DoseD1 Dose = "D1"
	DoseD2 Dose = "D2"
	DoseD3 Dose = "D3"
	DoseR1 Dose = "R1"
	DoseR2 Dose = "R2"
)

// DoseOrder is the single source of truth for the canonical sequence.
var DoseOrder = []Dose{DoseD1, DoseD2, DoseD3, DoseR1, DoseR2}

var doseIndex = func() map[Dose]int {
	m := make(map[Dose]int, len(DoseOrder))
	for i, d := range DoseOrder {
		m[d] = i
	}
	return m
}()

// ParseDose constructs a Dose from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or not one of the
// five canonical labels.
func ParseDose(s string) (Dose, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "dose cannot be empty")
	}
	d := Dose(s)
	if !d.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid dose label")
	}
	return d, nil
}

// IsValid checks whether the dose is one of the five canonical labels.
func (d Dose) IsValid() bool {
	_, ok := doseIndex[d]
	return ok
}

// Index returns the dose's position in the canonical order. Valid doses only.
func (d Dose) Index() int {
	return doseIndex[d]
}

// Before reports whether d precedes other in the canonical order.
func (d Dose) Before(other Dose) bool {
	return doseIndex[d] < doseIndex[other]
}

func (d Dose) String() string {
	return string(d)
}

// ParseDoses converts a slice of labels, rejecting unknowns and duplicates,
// and returns them sorted in canonical order.
func ParseDoses(labels []string) ([]Dose, error) {
	seen := make(map[Dose]bool, len(labels))
	for _, label := range labels {
		d, err := ParseDose(label)
		if err != nil {
			return nil, err
		}
		if seen[d] {
			return nil, dErrors.New(dErrors.CodeInvalidInput, "duplicate dose label")
		}
		seen[d] = true
	}
	out := make([]Dose, 0, len(seen))
	for _, d := range DoseOrder {
		if seen[d] {
			out = append(out, d)
		}
	}
	return out, nil
}
