package scoring

import (
	"sort"

	"tutoreval/domain/annotation"

	"gonum.org/v1/gonum/stat"
)

// DimensionAgreement compares classifier and judge labels on one dimension
type DimensionAgreement struct {
	Dimension   string   `json:"dimension"`
	Model       string   `json:"model"`
	Pairs       int      `json:"pairs"`
	Matches     int      `json:"matches"`
	Rate        float64  `json:"rate"`
	Kappa       *float64 `json:"kappa,omitempty"`
	Correlation *float64 `json:"correlation,omitempty"`
}

// Agreement measures, per canonical dimension, how often the auto
// annotation agrees with the given judge model. Only pairs where both labels
// are scorable count. Correlation and kappa are left nil when fewer than two
// pairs exist or a side has no variance.
func Agreement(convs []annotation.Conversation, model string) []DimensionAgreement {
	results := make([]DimensionAgreement, 0, 4)
	for _, task := range annotation.CanonicalTasks() {
		var autoLabels, llmLabels []string
		var autoScores, llmScores []float64

		for _, conv := range convs {
			for _, block := range conv.Tutors {
				autoLabel := block.AutoAnnotation[string(task)]
				llmLabel := block.LLMAnnotation[annotation.LLMKey(task, model)]
				a, okA := LabelScore(autoLabel)
				l, okL := LabelScore(llmLabel)
				if !okA || !okL {
					continue
				}
				autoLabels = append(autoLabels, autoLabel)
				llmLabels = append(llmLabels, llmLabel)
				autoScores = append(autoScores, a)
				llmScores = append(llmScores, l)
			}
		}

		agreement := DimensionAgreement{Dimension: string(task), Model: model, Pairs: len(autoScores)}
		for i := range autoScores {
			if autoScores[i] == llmScores[i] {
				agreement.Matches++
			}
		}
		if agreement.Pairs > 0 {
			agreement.Rate = float64(agreement.Matches) / float64(agreement.Pairs)
		}
		if agreement.Pairs >= 2 && stat.Variance(autoScores, nil) > 0 && stat.Variance(llmScores, nil) > 0 {
			r := stat.Correlation(autoScores, llmScores, nil)
			agreement.Correlation = &r
		}
		if agreement.Pairs >= 2 {
			agreement.Kappa = cohenKappa(autoLabels, llmLabels)
		}
		results = append(results, agreement)
	}
	return results
}

// cohenKappa returns nil when expected agreement is already perfect
func cohenKappa(a, b []string) *float64 {
	n := float64(len(a))
	countsA := make(map[string]float64)
	countsB := make(map[string]float64)
	observed := 0.0
	for i := range a {
		countsA[a[i]]++
		countsB[b[i]]++
		if a[i] == b[i] {
			observed++
		}
	}
	observed /= n

	labels := make([]string, 0, len(countsA))
	for label := range countsA {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	expected := 0.0
	for _, label := range labels {
		expected += (countsA[label] / n) * (countsB[label] / n)
	}
	if expected >= 1 {
		return nil
	}
	kappa := (observed - expected) / (1 - expected)
	return &kappa
}
