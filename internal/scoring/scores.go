package scoring

import (
	"sort"
	"strings"

	"tutoreval/domain/annotation"

	"github.com/montanaflynn/stats"
)

// SourceAuto names the classifier predictions in summaries
const SourceAuto = "auto"

// LabelScore maps a label to its numeric score. The sentinel and any label
// outside Yes / No / To some extent report false and are left out of
// aggregates instead of being defaulted.
func LabelScore(label string) (float64, bool) {
	switch strings.TrimSpace(label) {
	case "Yes":
		return 1.0, true
	case "No":
		return 0.0, true
	case "To some extent":
		return 0.5, true
	}
	return 0, false
}

// LLMSource names the scores of one judge model
func LLMSource(model string) string {
	return "llm/" + model
}

// Stat summarizes the scores of one tutor, source and dimension
type Stat struct {
	Tutor     string  `json:"tutor"`
	Source    string  `json:"source"`
	Dimension string  `json:"dimension"`
	Count     int     `json:"count"`
	Mean      float64 `json:"mean"`
	StdDev    float64 `json:"stddev"`
	Median    float64 `json:"median"`
}

type statKey struct {
	tutor, source, dimension string
}

// Summarize computes per tutor, per source and per dimension score
// statistics across conversations. Groups without a single scorable label
// are omitted. Rows are sorted by tutor, source and dimension.
func Summarize(convs []annotation.Conversation) []Stat {
	values := make(map[statKey][]float64)

	for _, conv := range convs {
		for tutor, block := range conv.Tutors {
			for task, label := range block.AutoAnnotation {
				if score, ok := LabelScore(label); ok {
					k := statKey{tutor, SourceAuto, task}
					values[k] = append(values[k], score)
				}
			}
			for key, label := range block.LLMAnnotation {
				task, model, ok := annotation.SplitLLMKey(key)
				if !ok {
					continue
				}
				if score, ok := LabelScore(label); ok {
					k := statKey{tutor, LLMSource(model), task}
					values[k] = append(values[k], score)
				}
			}
		}
	}

	rows := make([]Stat, 0, len(values))
	for k, data := range values {
		rows = append(rows, describe(k, data))
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Tutor != rows[j].Tutor {
			return rows[i].Tutor < rows[j].Tutor
		}
		if rows[i].Source != rows[j].Source {
			return rows[i].Source < rows[j].Source
		}
		return rows[i].Dimension < rows[j].Dimension
	})
	return rows
}

func describe(k statKey, data stats.Float64Data) Stat {
	stat := Stat{Tutor: k.tutor, Source: k.source, Dimension: k.dimension, Count: len(data)}
	stat.Mean, _ = stats.Mean(data)
	stat.StdDev, _ = stats.StandardDeviation(data)
	stat.Median, _ = stats.Median(data)
	return stat
}
