package feedback

import (
	"errors"
	"testing"

	"tutoreval/domain/core"

	"github.com/stretchr/testify/assert"
)

func TestPreference_Valid(t *testing.T) {
	for _, p := range []Preference{"", PreferFirst, PreferSecond, PreferBoth, PreferBothBad} {
		assert.True(t, p.Valid(), "preference %q", p)
	}
	assert.False(t, Preference("Both Good").Valid())
}

func TestEntry_Validate(t *testing.T) {
	err := (&Entry{Preference: "maybe"}).Validate()
	assert.True(t, errors.Is(err, core.ErrInvalidPreference))

	assert.NoError(t, (&Entry{Preference: PreferBothBad}).Validate())
}

func TestFilter_Matches(t *testing.T) {
	entry := &Entry{Module: "llm-eval", ProblemTopic: "fractions", FirstTutor: "GPT4", SecondTutor: "Sonnet"}

	assert.True(t, Filter{}.Matches(entry))
	assert.True(t, Filter{Tutor: "Sonnet"}.Matches(entry))
	assert.True(t, Filter{Module: "llm-eval", ProblemTopic: "fractions", Tutor: "GPT4"}.Matches(entry))
	assert.False(t, Filter{Tutor: "Gemini"}.Matches(entry))
	assert.False(t, Filter{Module: "auto-eval"}.Matches(entry))
	assert.False(t, Filter{ProblemTopic: "geometry"}.Matches(entry))
}
