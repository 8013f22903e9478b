package testkit

import (
	"encoding/json"
	"fmt"
	"math/rand"

	"tutoreval/domain/annotation"
	"tutoreval/domain/dataset"
)

// AnnotationGeneratorConfig configures the synthetic annotation row generator
type AnnotationGeneratorConfig struct {
	Conversations int      `json:"conversations"`
	Tutors        []string `json:"tutors"`
	Models        []string `json:"models"`
	MissingIDRate float64  `json:"missing_id_rate"`
	Seed          int64    `json:"seed"`
}

// DefaultAnnotationConfig returns sensible defaults for annotation generation
func DefaultAnnotationConfig() AnnotationGeneratorConfig {
	return AnnotationGeneratorConfig{
		Conversations: 20,
		Tutors:        []string{"GPT4", "Sonnet", "Llama31405B", "Llama318B", "Expert"},
		Models:        []string{annotation.ModelGPT5, annotation.ModelPrometheus},
		MissingIDRate: 0.02,
		Seed:          42,
	}
}

var (
	labelPool  = []string{"Yes", "No", "To some extent", "yes", "no", "Y", "N"}
	topicPool  = []string{"fractions", "linear equations", "percentages", "geometry", "ratios"}
	taskSpells = map[annotation.Task][]string{
		annotation.MistakeIdentification: {"mistake_identification", "Mistake Identification", "mistake-identification"},
		annotation.MistakeLocation:       {"mistake_location", "Mistake Location", "MISTAKE-LOCATION"},
		annotation.ProvidingGuidance:     {"providing_guidance", "Providing Guidance"},
		annotation.Actionability:         {"actionability", "Actionability"},
	}
)

// AnnotationGenerator produces flat annotation rows the way annotation
// exports look: one row per conversation, tutor and task, with spelling
// variations, model-scoped score columns and the occasional missing id.
type AnnotationGenerator struct {
	config AnnotationGeneratorConfig
	rng    *rand.Rand
}

// NewAnnotationGenerator creates a generator seeded from the config
func NewAnnotationGenerator(config AnnotationGeneratorConfig) *AnnotationGenerator {
	return &AnnotationGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// GenerateRows generates the complete row set
func (g *AnnotationGenerator) GenerateRows() []annotation.Row {
	var rows []annotation.Row
	for c := 0; c < g.config.Conversations; c++ {
		convID := fmt.Sprintf("conv_%04d", c+1)
		history := fmt.Sprintf("Tutor: What is %d + %d?\nStudent: %d", c, c+1, 2*c)
		topic := topicPool[g.rng.Intn(len(topicPool))]

		for _, tutor := range g.config.Tutors {
			response := fmt.Sprintf("%s asks the student to re-check step %d.", tutor, g.rng.Intn(4)+1)
			for _, task := range annotation.CanonicalTasks() {
				rows = append(rows, g.row(convID, history, topic, tutor, response, task))
			}
		}
	}
	return rows
}

func (g *AnnotationGenerator) row(convID, history, topic, tutor, response string, task annotation.Task) annotation.Row {
	row := annotation.Row{}
	if g.rng.Float64() >= g.config.MissingIDRate {
		row.Set(annotation.KeyID, mustJSON(convID))
	}
	row.Set(annotation.KeyTutor, mustJSON(tutor))
	row.Set(annotation.KeyHistory, mustJSON(history))
	row.Set(annotation.FieldTopic, mustJSON(topic))
	row.Set(annotation.FieldSplit, mustJSON("test"))

	spellings := taskSpells[task]
	row.Set(annotation.KeyTask, mustJSON(spellings[g.rng.Intn(len(spellings))]))
	row.Set(annotation.KeyPrediction, mustJSON(g.label()))
	row.Set(annotation.KeyResponse, mustJSON(response))

	for _, model := range g.config.Models {
		row.Set(annotation.LLMKey(task, model), mustJSON(g.label()))
	}
	return row
}

func (g *AnnotationGenerator) label() string {
	return labelPool[g.rng.Intn(len(labelPool))]
}

// GenerateJSON returns the generated rows as a JSON array
func (g *AnnotationGenerator) GenerateJSON() ([]byte, error) {
	return json.MarshalIndent(g.GenerateRows(), "", "  ")
}

// TaskDataset builds a sampler dataset with the given number of rows per
// task label in column "task"
func TaskDataset(counts map[string]int, order []string) *dataset.Dataset {
	ds := &dataset.Dataset{Name: "synthetic", Columns: []string{"text", "task", "label"}}
	for _, task := range order {
		for i := 0; i < counts[task]; i++ {
			ds.Records = append(ds.Records, dataset.Record{
				"text":  fmt.Sprintf("%s example %d", task, i),
				"task":  task,
				"label": labelPool[i%3],
			})
		}
	}
	return ds
}

func mustJSON(v interface{}) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}
