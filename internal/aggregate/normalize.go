package aggregate

import (
	"encoding/json"
	"strings"

	"tutoreval/domain/annotation"

	"github.com/tidwall/gjson"
)

// taskKeys maps folded spellings to canonical dimensions. Keys are produced by
// foldTaskKey, so "Mistake Location", "mistake-location" and
// "MISTAKE_LOCATION" all land on the same entry.
var taskKeys = map[string]annotation.Task{
	"mistake_identification": annotation.MistakeIdentification,
	"mistake_location":       annotation.MistakeLocation,
	"providing_guidance":     annotation.ProvidingGuidance,
	"actionability":          annotation.Actionability,
}

// tutorRenames maps known tutor aliases to their display names
var tutorRenames = map[string]string{
	"Llama31405B": "Llama-3.1-405B",
	"Llama318B":   "Llama-3.1-8B",
}

var taskKeyFolder = strings.NewReplacer(" ", "_", "-", "_")

func foldTaskKey(key string) string {
	return taskKeyFolder.Replace(strings.ToLower(strings.TrimSpace(key)))
}

// NormalizeTaskKey maps an arbitrary task spelling to its canonical task.
// Unrecognized spellings report false.
func NormalizeTaskKey(key string) (annotation.Task, bool) {
	task, ok := taskKeys[foldTaskKey(key)]
	return task, ok
}

// RenameTutor resolves known aliases; unknown names pass through unchanged
func RenameTutor(name string) string {
	if renamed, ok := tutorRenames[name]; ok {
		return renamed
	}
	return name
}

// YNNormalize maps a raw JSON value to Yes/No where the value is an obvious
// boolean, to the sentinel when it is absent or blank, and to the trimmed
// original text otherwise (free-text labels such as "To some extent").
func YNNormalize(raw json.RawMessage) string {
	return NormalizeLabel(valueString(raw))
}

// NormalizeLabel applies YNNormalize to text that has already been decoded
func NormalizeLabel(value string) string {
	s := strings.TrimSpace(value)
	if s == "" {
		return annotation.NotAvailable
	}
	switch strings.ToLower(s) {
	case "yes", "y", "true", "1":
		return "Yes"
	case "no", "n", "false", "0":
		return "No"
	}
	return s
}

// valueString returns the text form of a raw JSON value: decoded content for
// strings, literal JSON for numbers, booleans, objects and arrays, and the
// empty string for null or missing values. Numbers keep their written form,
// so 1.0 stays "1.0" and is not read as a boolean.
func valueString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	result := gjson.ParseBytes(raw)
	switch result.Type {
	case gjson.Null:
		return ""
	case gjson.Number:
		return result.Raw
	}
	return result.String()
}

// isString reports whether raw is a JSON string
func isString(raw json.RawMessage) bool {
	return len(raw) > 0 && gjson.ParseBytes(raw).Type == gjson.String
}

// isPresent reports whether raw is a non-null value whose text form is not blank
func isPresent(raw json.RawMessage) bool {
	return strings.TrimSpace(valueString(raw)) != ""
}
