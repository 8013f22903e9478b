package annotation

import (
	"encoding/json"
	"strings"
)

// NotAvailable marks absent data everywhere in the output structures
const NotAvailable = "Not Available"

// Well-known row keys
const (
	KeyID         = "id"
	KeyTutor      = "tutor"
	KeyTask       = "task"
	KeyResponse   = "response"
	KeyHistory    = "history"
	KeyPrediction = "prediction"
)

// UnknownTutor is used when a row carries no tutor name
const UnknownTutor = "Unknown"

// Passthrough metadata fields copied from the first row that has them
const (
	FieldData                = "Data"
	FieldSplit               = "Split"
	FieldTopic               = "Topic"
	FieldProblemTopic        = "Problem_topic"
	FieldGroundTruthSolution = "Ground_Truth_Solution"
)

// PassthroughFields returns the passthrough metadata field names in output order
func PassthroughFields() []string {
	return []string{
		FieldData,
		FieldSplit,
		FieldTopic,
		FieldProblemTopic,
		FieldGroundTruthSolution,
	}
}

// Judge model tags that every tutor block is pre-seeded with
const (
	ModelGPT5       = "GPT5"
	ModelPrometheus = "Prometheus"
)

// DefaultLLMKeys returns the task/model keys always present in llm_annotation
func DefaultLLMKeys() []string {
	keys := make([]string, 0, 8)
	for _, model := range []string{ModelGPT5, ModelPrometheus} {
		for _, task := range []Task{MistakeLocation, MistakeIdentification, Actionability, ProvidingGuidance} {
			keys = append(keys, LLMKey(task, model))
		}
	}
	return keys
}

// LLMKey builds the "<task>/<model>" key used in llm_annotation
func LLMKey(task Task, model string) string {
	return string(task) + "/" + model
}

// SplitLLMKey splits a "<task>/<model>" key at the first separator
func SplitLLMKey(key string) (left, right string, ok bool) {
	left, right, ok = strings.Cut(key, "/")
	return left, right, ok
}

// Field is one key/value pair of a flat annotation row
type Field struct {
	Key   string
	Value json.RawMessage
}

// Row is a flat annotation record. Fields keep the order they had in the
// source document.
type Row struct {
	Fields []Field
}

// Get returns the raw value stored under key. When a key appears more than
// once the last occurrence wins, matching JSON decoding.
func (r Row) Get(key string) (json.RawMessage, bool) {
	for i := len(r.Fields) - 1; i >= 0; i-- {
		if r.Fields[i].Key == key {
			return r.Fields[i].Value, true
		}
	}
	return nil, false
}

// Set appends or replaces a field
func (r *Row) Set(key string, value json.RawMessage) {
	for i := range r.Fields {
		if r.Fields[i].Key == key {
			r.Fields[i].Value = value
			return
		}
	}
	r.Fields = append(r.Fields, Field{Key: key, Value: value})
}

// MarshalJSON writes the row as an object, preserving field order
func (r Row) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	b.WriteByte('{')
	for i, field := range r.Fields {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(field.Key)
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteByte(':')
		if len(field.Value) == 0 {
			b.WriteString("null")
			continue
		}
		b.Write(field.Value)
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}

// TutorBlock holds one tutor's response and its annotation maps
type TutorBlock struct {
	Response       string            `json:"response"`
	Annotation     map[string]string `json:"annotation"`
	AutoAnnotation map[string]string `json:"auto_annotation"`
	LLMAnnotation  map[string]string `json:"llm_annotation"`
}

// Conversation is the grouped, per-tutor view of one conversation
type Conversation struct {
	ConversationID      json.RawMessage        `json:"conversation_id"`
	ConversationHistory string                 `json:"conversation_history"`
	Data                json.RawMessage        `json:"Data"`
	Split               json.RawMessage        `json:"Split"`
	Topic               json.RawMessage        `json:"Topic"`
	ProblemTopic        json.RawMessage        `json:"Problem_topic"`
	GroundTruthSolution json.RawMessage        `json:"Ground_Truth_Solution"`
	Tutors              map[string]*TutorBlock `json:"anno_llm_responses"`
}

// Key returns the string form of the conversation id used for ordering and
// storage: the decoded text for JSON strings, the literal JSON otherwise.
func (c *Conversation) Key() string {
	return IDKey(c.ConversationID)
}

// IDKey returns the string form of a raw conversation id
func IDKey(raw json.RawMessage) string {
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal([]byte(trimmed), &s); err == nil {
			return s
		}
	}
	return trimmed
}

// SetPassthrough stores a passthrough metadata value by field name
func (c *Conversation) SetPassthrough(field string, value json.RawMessage) {
	switch field {
	case FieldData:
		c.Data = value
	case FieldSplit:
		c.Split = value
	case FieldTopic:
		c.Topic = value
	case FieldProblemTopic:
		c.ProblemTopic = value
	case FieldGroundTruthSolution:
		c.GroundTruthSolution = value
	}
}

// Passthrough returns the stored passthrough metadata value by field name
func (c *Conversation) Passthrough(field string) json.RawMessage {
	switch field {
	case FieldData:
		return c.Data
	case FieldSplit:
		return c.Split
	case FieldTopic:
		return c.Topic
	case FieldProblemTopic:
		return c.ProblemTopic
	case FieldGroundTruthSolution:
		return c.GroundTruthSolution
	}
	return nil
}

// NotAvailableJSON is the sentinel encoded as a JSON string
func NotAvailableJSON() json.RawMessage {
	return json.RawMessage(`"` + NotAvailable + `"`)
}
