package feedback

import (
	"fmt"
	"time"

	"tutoreval/domain/core"
)

// Preference records which of the compared tutor responses a reviewer liked
type Preference string

const (
	PreferFirst   Preference = "first"
	PreferSecond  Preference = "second"
	PreferBoth    Preference = "both"
	PreferBothBad Preference = "both-bad"
)

// Valid reports whether p is empty or one of the known preferences
func (p Preference) Valid() bool {
	switch p {
	case "", PreferFirst, PreferSecond, PreferBoth, PreferBothBad:
		return true
	}
	return false
}

// Entry is one reviewer judgement captured from the review UI
type Entry struct {
	ID             core.FeedbackID `json:"id" db:"id"`
	Timestamp      time.Time       `json:"timestamp" db:"timestamp"`
	ProblemTopic   string          `json:"problem_topic,omitempty" db:"problem_topic"`
	ConversationID string          `json:"conversation_id,omitempty" db:"conversation_id"`
	EvaluationType string          `json:"evaluation_type,omitempty" db:"evaluation_type"`
	FirstTutor     string          `json:"first_tutor,omitempty" db:"first_tutor"`
	SecondTutor    string          `json:"second_tutor,omitempty" db:"second_tutor"`
	Rating         string          `json:"rating,omitempty" db:"rating"`
	Preference     Preference      `json:"preference,omitempty" db:"preference"`
	Module         string          `json:"module,omitempty" db:"module"`
}

// Validate checks the fields a stored entry must satisfy
func (e *Entry) Validate() error {
	if !e.Preference.Valid() {
		return fmt.Errorf("%w: %q", core.ErrInvalidPreference, e.Preference)
	}
	return nil
}

// Filter narrows a feedback listing. Empty fields match everything; Tutor
// matches either side of a comparison.
type Filter struct {
	Module       string
	ProblemTopic string
	Tutor        string
}

// Matches reports whether e passes the filter
func (f Filter) Matches(e *Entry) bool {
	if f.Module != "" && e.Module != f.Module {
		return false
	}
	if f.ProblemTopic != "" && e.ProblemTopic != f.ProblemTopic {
		return false
	}
	if f.Tutor != "" && e.FirstTutor != f.Tutor && e.SecondTutor != f.Tutor {
		return false
	}
	return true
}

// Listing is a filtered feedback list with its summary metadata
type Listing struct {
	Feedbacks []*Entry `json:"feedbacks"`
	Metadata  Metadata `json:"metadata"`
}

type Metadata struct {
	TotalFeedbacks int       `json:"total_feedbacks"`
	LastUpdated    time.Time `json:"last_updated"`
}
