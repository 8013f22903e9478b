package aggregate

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"tutoreval/domain/annotation"

	"github.com/tidwall/gjson"
)

// group collects the rows of one conversation in input order
type group struct {
	id   json.RawMessage
	rows []annotation.Row
}

// Transform groups flat annotation rows by conversation id and builds one
// conversation record per id, each holding a block per tutor. Malformed rows
// are never an error: missing values fall back to the "Not Available"
// sentinel and rows without an id are dropped. The result is sorted by the
// string form of the conversation id.
func Transform(rows []annotation.Row) []annotation.Conversation {
	groups := groupByConversation(rows)

	conversations := make([]annotation.Conversation, 0, len(groups))
	for _, g := range groups {
		conversations = append(conversations, buildConversation(g))
	}

	sort.SliceStable(conversations, func(i, j int) bool {
		return conversations[i].Key() < conversations[j].Key()
	})
	return conversations
}

// groupByConversation keeps groups in first-appearance order. Rows whose id
// is absent or null are skipped.
func groupByConversation(rows []annotation.Row) []*group {
	index := make(map[string]*group)
	var ordered []*group
	for _, row := range rows {
		id, ok := row.Get(annotation.KeyID)
		if !ok || isNull(id) {
			continue
		}
		key := groupKey(id)
		g, seen := index[key]
		if !seen {
			g = &group{id: id}
			index[key] = g
			ordered = append(ordered, g)
		}
		g.rows = append(g.rows, row)
	}
	return ordered
}

// groupKey identifies a conversation by the type and value of its id, so
// the number 1 and the string "1" stay apart while 1 and 1.0 share a group.
// Booleans compare as 1 and 0.
func groupKey(id json.RawMessage) string {
	result := gjson.ParseBytes(id)
	switch result.Type {
	case gjson.String:
		return "s:" + result.Str
	case gjson.Number:
		return "n:" + strconv.FormatFloat(result.Num, 'g', -1, 64)
	case gjson.True:
		return "n:1"
	case gjson.False:
		return "n:0"
	}
	return "j:" + annotation.IDKey(id)
}

func buildConversation(g *group) annotation.Conversation {
	conv := annotation.Conversation{
		ConversationID:      g.id,
		ConversationHistory: firstHistory(g.rows),
		Tutors:              make(map[string]*annotation.TutorBlock),
	}

	for _, field := range annotation.PassthroughFields() {
		conv.SetPassthrough(field, firstPresent(g.rows, field))
	}

	for _, row := range g.rows {
		applyRow(conv.Tutors, row)
	}

	for _, block := range conv.Tutors {
		fillDefaults(block)
	}
	return conv
}

// firstHistory returns the first history value that is a non-blank string
func firstHistory(rows []annotation.Row) string {
	for _, row := range rows {
		raw, ok := row.Get(annotation.KeyHistory)
		if !ok || !isString(raw) {
			continue
		}
		if history := valueString(raw); strings.TrimSpace(history) != "" {
			return history
		}
	}
	return ""
}

func firstPresent(rows []annotation.Row, field string) json.RawMessage {
	for _, row := range rows {
		if raw, ok := row.Get(field); ok && isPresent(raw) {
			return raw
		}
	}
	return annotation.NotAvailableJSON()
}

func applyRow(tutors map[string]*annotation.TutorBlock, row annotation.Row) {
	name := tutorName(row)

	block, seen := tutors[name]
	if !seen {
		block = newTutorBlock(row)
		tutors[name] = block
	} else if raw, ok := row.Get(annotation.KeyResponse); ok && isString(raw) {
		if response := valueString(raw); strings.TrimSpace(response) != "" {
			block.Response = response
		}
	}

	// The generic prediction is applied first so explicit per-task columns
	// on the same row always take precedence over it.
	if rawTask, ok := row.Get(annotation.KeyTask); ok {
		if task, ok := NormalizeTaskKey(valueString(rawTask)); ok {
			if prediction, ok := row.Get(annotation.KeyPrediction); ok && !isNull(prediction) {
				block.AutoAnnotation[string(task)] = YNNormalize(prediction)
			}
		}
	}

	for _, field := range row.Fields {
		if task, ok := NormalizeTaskKey(field.Key); ok {
			block.AutoAnnotation[string(task)] = YNNormalize(field.Value)
			continue
		}
		left, right, ok := annotation.SplitLLMKey(field.Key)
		if !ok {
			continue
		}
		task, ok := NormalizeTaskKey(left)
		model := strings.TrimSpace(right)
		if !ok || model == "" {
			continue
		}
		block.LLMAnnotation[annotation.LLMKey(task, model)] = YNNormalize(field.Value)
	}
}

// tutorName defaults absent and null tutors to Unknown. A blank string is a
// tutor name of its own.
func tutorName(row annotation.Row) string {
	raw, ok := row.Get(annotation.KeyTutor)
	if !ok || isNull(raw) {
		return annotation.UnknownTutor
	}
	return RenameTutor(valueString(raw))
}

// newTutorBlock seeds a block from the first row naming the tutor. Gold
// annotations are never read from input.
func newTutorBlock(row annotation.Row) *annotation.TutorBlock {
	block := &annotation.TutorBlock{
		Annotation:     make(map[string]string, 4),
		AutoAnnotation: make(map[string]string, 4),
		LLMAnnotation:  make(map[string]string, 8),
	}
	if raw, ok := row.Get(annotation.KeyResponse); ok {
		block.Response = valueString(raw)
	}
	for _, task := range annotation.CanonicalTasks() {
		block.Annotation[string(task)] = annotation.NotAvailable
	}
	for _, key := range annotation.DefaultLLMKeys() {
		block.LLMAnnotation[key] = annotation.NotAvailable
	}
	return block
}

func fillDefaults(block *annotation.TutorBlock) {
	for _, task := range annotation.CanonicalTasks() {
		if _, ok := block.AutoAnnotation[string(task)]; !ok {
			block.AutoAnnotation[string(task)] = annotation.NotAvailable
		}
	}
	for _, key := range annotation.DefaultLLMKeys() {
		if _, ok := block.LLMAnnotation[key]; !ok {
			block.LLMAnnotation[key] = annotation.NotAvailable
		}
	}
}

func isNull(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return trimmed == "" || trimmed == "null"
}
