package dataset

import (
	"maps"
	"math/rand"
	"sort"

	"tutoreval/domain/dataset"
)

// Oversampling methods accepted by LoaderConfig.Oversample
const (
	OversampleNone   = ""
	OversampleRandom = "random"
)

// Oversample returns a copy of ds in which every value of labelField has as
// many records as the most frequent one. The originals come first, followed
// by copies drawn with replacement from each minority label in label order.
// Records without the field form their own label.
func Oversample(ds *dataset.Dataset, labelField string, rng *rand.Rand) *dataset.Dataset {
	pools := make(map[string][]int)
	for i, record := range ds.Records {
		label := record[labelField]
		pools[label] = append(pools[label], i)
	}

	majority := 0
	labels := make([]string, 0, len(pools))
	for label, pool := range pools {
		labels = append(labels, label)
		majority = max(majority, len(pool))
	}
	sort.Strings(labels)

	out := ds.Subset(nil)
	out.Records = append(out.Records, ds.Records...)
	for _, label := range labels {
		pool := pools[label]
		for n := len(pool); n < majority; n++ {
			out.Records = append(out.Records, maps.Clone(ds.Records[pool[rng.Intn(len(pool))]]))
		}
	}
	return out
}
