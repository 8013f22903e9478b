package annotation

import "strings"

// Task is one of the four canonical evaluation dimensions
type Task string

const (
	MistakeIdentification Task = "Mistake_Identification"
	MistakeLocation       Task = "Mistake_Location"
	ProvidingGuidance     Task = "Providing_Guidance"
	Actionability         Task = "Actionability"
)

// CanonicalTasks returns the dimensions in display order
func CanonicalTasks() []Task {
	return []Task{
		MistakeIdentification,
		MistakeLocation,
		ProvidingGuidance,
		Actionability,
	}
}

// Abbreviation returns the short dimension code used in dataset file names
func (t Task) Abbreviation() string {
	switch t {
	case MistakeIdentification:
		return "MI"
	case MistakeLocation:
		return "ML"
	case ProvidingGuidance:
		return "PG"
	case Actionability:
		return "AC"
	}
	return string(t)
}

// DisplayName returns a human readable dimension name
func (t Task) DisplayName() string {
	switch t {
	case MistakeIdentification:
		return "Mistake Identification"
	case MistakeLocation:
		return "Mistake Location"
	case ProvidingGuidance:
		return "Providing Guidance"
	case Actionability:
		return "Actionability"
	}
	return string(t)
}

// TaskFromAbbreviation resolves MI/ML/PG/AC (any case) to a canonical task
func TaskFromAbbreviation(abbr string) (Task, bool) {
	for _, t := range CanonicalTasks() {
		if strings.EqualFold(t.Abbreviation(), strings.TrimSpace(abbr)) {
			return t, true
		}
	}
	return "", false
}
