package aggregate

import (
	"bytes"
	"encoding/json"
	"testing"

	"tutoreval/domain/annotation"
	"tutoreval/domain/dataset"
	"tutoreval/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, doc string) []annotation.Row {
	t.Helper()
	rows, err := ParseRows([]byte(doc))
	require.NoError(t, err)
	return rows
}

func TestTransform_SingleRowExample(t *testing.T) {
	rows := mustParse(t, `[{"id": "c1", "tutor": "Llama31405B", "task": "actionability", "prediction": "yes", "response": "Try again"}]`)

	convs := Transform(rows)

	require.Len(t, convs, 1)
	assert.Equal(t, "c1", convs[0].Key())
	block, ok := convs[0].Tutors["Llama-3.1-405B"]
	require.True(t, ok)
	assert.Equal(t, "Yes", block.AutoAnnotation["Actionability"])
	assert.Equal(t, "Try again", block.Response)
	assert.Equal(t, annotation.NotAvailable, block.AutoAnnotation["Mistake_Location"])
}

func TestTransform_LaterNonEmptyResponseWins(t *testing.T) {
	rows := mustParse(t, `[
		{"id": "c1", "tutor": "GPT4", "response": "first"},
		{"id": "c1", "tutor": "GPT4", "response": "second"},
		{"id": "c1", "tutor": "GPT4", "response": "   "},
		{"id": "c1", "tutor": "GPT4"}
	]`)

	convs := Transform(rows)

	require.Len(t, convs, 1)
	assert.Equal(t, "second", convs[0].Tutors["GPT4"].Response)
}

func TestTransform_DropsRowsWithoutID(t *testing.T) {
	rows := mustParse(t, `[
		{"tutor": "GPT4", "response": "orphan", "task": "actionability", "prediction": "no"},
		{"id": null, "tutor": "GPT4"},
		{"id": "c1", "tutor": "Sonnet", "response": "kept"}
	]`)

	convs := Transform(rows)

	require.Len(t, convs, 1)
	assert.Equal(t, "c1", convs[0].Key())
	assert.Len(t, convs[0].Tutors, 1)
	assert.NotContains(t, convs[0].Tutors, "GPT4")
}

func TestTransform_GoldLabelsDiscarded(t *testing.T) {
	rows := mustParse(t, `[{"id": "c1", "tutor": "GPT4", "annotation": {"Actionability": "Yes"}, "gold_Actionability": "Yes"}]`)

	block := Transform(rows)[0].Tutors["GPT4"]

	require.Len(t, block.Annotation, 4)
	for _, task := range annotation.CanonicalTasks() {
		assert.Equal(t, annotation.NotAvailable, block.Annotation[string(task)])
	}
}

func TestTransform_FreeTextPassesThrough(t *testing.T) {
	rows := mustParse(t, `[{"id": "c1", "tutor": "GPT4", "Providing Guidance": "To some extent", "Actionability/GPT5": "To some extent"}]`)

	block := Transform(rows)[0].Tutors["GPT4"]

	assert.Equal(t, "To some extent", block.AutoAnnotation["Providing_Guidance"])
	assert.Equal(t, "To some extent", block.LLMAnnotation["Actionability/GPT5"])
}

func TestTransform_ExplicitColumnOverridesPrediction(t *testing.T) {
	// the explicit column comes before prediction in row order
	rows := mustParse(t, `[{"id": "c1", "tutor": "GPT4", "Mistake_Location": "no", "task": "mistake location", "prediction": "yes"}]`)

	block := Transform(rows)[0].Tutors["GPT4"]

	assert.Equal(t, "No", block.AutoAnnotation["Mistake_Location"])
}

func TestTransform_LLMAnnotations(t *testing.T) {
	rows := mustParse(t, `[{
		"id": "c1",
		"tutor": "GPT4",
		"mistake-identification/ Gemini ": "y",
		"Actionability/Prometheus": false,
		"coherence/GPT5": "yes",
		"Actionability/": "yes"
	}]`)

	block := Transform(rows)[0].Tutors["GPT4"]

	assert.Equal(t, "Yes", block.LLMAnnotation["Mistake_Identification/Gemini"])
	assert.Equal(t, "No", block.LLMAnnotation["Actionability/Prometheus"])
	assert.Len(t, block.LLMAnnotation, 9)
	for _, key := range annotation.DefaultLLMKeys() {
		assert.Contains(t, block.LLMAnnotation, key)
	}
}

func TestTransform_HistoryAndPassthrough(t *testing.T) {
	rows := mustParse(t, `[
		{"id": "c1", "tutor": "A", "history": "   ", "Topic": ""},
		{"id": "c1", "tutor": "B", "history": "Student: 2+2=5", "Topic": "arithmetic", "Split": 3},
		{"id": "c1", "tutor": "C", "history": "later", "Topic": "ignored"}
	]`)

	conv := Transform(rows)[0]

	assert.Equal(t, "Student: 2+2=5", conv.ConversationHistory)
	assert.JSONEq(t, `"arithmetic"`, string(conv.Topic))
	assert.JSONEq(t, `3`, string(conv.Split))
	assert.JSONEq(t, `"Not Available"`, string(conv.Data))
	assert.JSONEq(t, `"Not Available"`, string(conv.GroundTruthSolution))
	assert.Len(t, conv.Tutors, 3)
}

func TestTransform_MissingTutorIsUnknown(t *testing.T) {
	rows := mustParse(t, `[{"id": "c1", "response": "hi"}, {"id": "c1", "tutor": null, "response": "there"}]`)

	conv := Transform(rows)[0]

	require.Contains(t, conv.Tutors, annotation.UnknownTutor)
	assert.Equal(t, "there", conv.Tutors[annotation.UnknownTutor].Response)
}

func TestTransform_BlankTutorKeepsItsName(t *testing.T) {
	rows := mustParse(t, `[{"id": "c1", "tutor": "", "response": "hi"}]`)

	conv := Transform(rows)[0]

	require.Contains(t, conv.Tutors, "")
	assert.NotContains(t, conv.Tutors, annotation.UnknownTutor)
	assert.Equal(t, "hi", conv.Tutors[""].Response)
}

func TestTransform_NumberAndStringIDsStayApart(t *testing.T) {
	rows := mustParse(t, `[
		{"id": 1, "tutor": "A", "response": "a"},
		{"id": "1", "tutor": "B", "response": "b"},
		{"id": 1.0, "tutor": "C", "response": "c"}
	]`)

	convs := Transform(rows)

	require.Len(t, convs, 2)
	assert.JSONEq(t, `1`, string(convs[0].ConversationID))
	assert.Len(t, convs[0].Tutors, 2)
	assert.Contains(t, convs[0].Tutors, "A")
	assert.Contains(t, convs[0].Tutors, "C")
	assert.JSONEq(t, `"1"`, string(convs[1].ConversationID))
	assert.Len(t, convs[1].Tutors, 1)
	assert.Contains(t, convs[1].Tutors, "B")
}

func TestTransform_FloatPredictionIsNotBoolean(t *testing.T) {
	rows := mustParse(t, `[
		{"id": "c1", "tutor": "A", "task": "actionability", "prediction": 1.0},
		{"id": "c2", "tutor": "A", "task": "actionability", "prediction": 0}
	]`)

	convs := Transform(rows)

	require.Len(t, convs, 2)
	assert.Equal(t, "1.0", convs[0].Tutors["A"].AutoAnnotation["Actionability"])
	assert.Equal(t, "No", convs[1].Tutors["A"].AutoAnnotation["Actionability"])
}

func TestTransform_SortedByIDString(t *testing.T) {
	rows := mustParse(t, `[{"id": "c3"}, {"id": "c1"}, {"id": 10}, {"id": "c2"}, {"id": "c1"}]`)

	convs := Transform(rows)

	keys := make([]string, 0, len(convs))
	for _, conv := range convs {
		keys = append(keys, conv.Key())
	}
	assert.Equal(t, []string{"10", "c1", "c2", "c3"}, keys)
	assert.JSONEq(t, `10`, string(convs[0].ConversationID))
}

func TestTransform_Empty(t *testing.T) {
	assert.Empty(t, Transform(nil))
}

func TestParseRows_RejectsNonArray(t *testing.T) {
	_, err := ParseRows([]byte(`{"id": "c1"}`))
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	_, err = ParseRows([]byte(`[{"id": `))
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestParseRows_SkipsNonObjectsAndKeepsOrder(t *testing.T) {
	rows := mustParse(t, `[1, "x", {"b": 1, "a": 2}, null]`)

	require.Len(t, rows, 1)
	require.Len(t, rows[0].Fields, 2)
	assert.Equal(t, "b", rows[0].Fields[0].Key)
	assert.Equal(t, "a", rows[0].Fields[1].Key)
}

func TestRowsFromDataset(t *testing.T) {
	ds := &dataset.Dataset{
		Columns: []string{"id", "tutor", "task", "prediction"},
		Records: []dataset.Record{
			{"id": "c1", "tutor": "Llama318B", "task": "Mistake_Identification", "prediction": "no"},
			{"id": "", "tutor": "GPT4"},
		},
	}

	convs := Transform(RowsFromDataset(ds))

	require.Len(t, convs, 1)
	assert.Equal(t, "No", convs[0].Tutors["Llama-3.1-8B"].AutoAnnotation["Mistake_Identification"])
}

func TestWriteJSON_FieldOrder(t *testing.T) {
	convs := Transform(mustParse(t, `[{"id": "c1", "tutor": "GPT4", "response": "<b>ok</b>"}]`))

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, convs, 0))

	out := buf.String()
	assert.Contains(t, out, `"<b>ok</b>"`)
	assert.Less(t, bytes.Index(buf.Bytes(), []byte(`"conversation_id"`)), bytes.Index(buf.Bytes(), []byte(`"conversation_history"`)))
	assert.Less(t, bytes.Index(buf.Bytes(), []byte(`"Ground_Truth_Solution"`)), bytes.Index(buf.Bytes(), []byte(`"anno_llm_responses"`)))

	var decoded []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Len(t, decoded, 1)
}

func TestWriteJSON_EmptyIsArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, nil, 2))
	assert.Equal(t, "[]\n", buf.String())
}
