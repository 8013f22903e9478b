package sampler

import (
	"fmt"
	"iter"
	"math/rand"
	"slices"
	"strings"

	"tutoreval/internal/errors"
)

// Dataset is the indexed view the sampler needs: a row count and access to
// one named field of a row.
type Dataset interface {
	Len() int
	Field(i int, name string) (string, bool)
}

// Sampler yields fixed-size batches of dataset indices holding the same
// number of rows from every requested task. A pass stops as soon as any task
// pool cannot fill its share, so no partial batch is ever produced and the
// leftovers of the other pools are discarded for that pass.
//
// The random source is not safe for concurrent use; a Sampler must not be
// iterated from several goroutines at once.
type Sampler struct {
	tasks     []string
	pools     map[string][]int
	batchSize int
	perTask   int
	rng       *rand.Rand
}

// New groups the dataset by lower-cased task label and validates the batch
// configuration. All failures are configuration errors.
func New(ds Dataset, tasks []string, batchSize int, taskField string, rng *rand.Rand) (*Sampler, error) {
	if ds == nil {
		return nil, errors.ConfigInvalid("dataset is required")
	}
	if rng == nil {
		return nil, errors.ConfigInvalid("random source is required")
	}
	if batchSize <= 0 {
		return nil, errors.ConfigInvalid(fmt.Sprintf("batch size must be a positive integer, got %d", batchSize))
	}

	requested := normalizeTasks(tasks)
	if len(requested) == 0 {
		return nil, errors.ConfigInvalid("at least one task is required")
	}
	if batchSize%len(requested) != 0 {
		return nil, errors.ConfigInvalid(fmt.Sprintf(
			"batch size %d is not divisible by the number of tasks (%d)", batchSize, len(requested)))
	}

	pools := make(map[string][]int, len(requested))
	for _, task := range requested {
		pools[task] = nil
	}
	for i := 0; i < ds.Len(); i++ {
		label, ok := ds.Field(i, taskField)
		if !ok {
			continue
		}
		label = strings.ToLower(label)
		if _, wanted := pools[label]; wanted {
			pools[label] = append(pools[label], i)
		}
	}

	for _, task := range requested {
		if len(pools[task]) == 0 {
			return nil, errors.ConfigInvalid(fmt.Sprintf("task %q has no rows in field %q", task, taskField))
		}
	}

	return &Sampler{
		tasks:     requested,
		pools:     pools,
		batchSize: batchSize,
		perTask:   batchSize / len(requested),
		rng:       rng,
	}, nil
}

// normalizeTasks lower-cases task names and drops duplicates, keeping the
// first occurrence order.
func normalizeTasks(tasks []string) []string {
	seen := make(map[string]bool, len(tasks))
	out := make([]string, 0, len(tasks))
	for _, task := range tasks {
		task = strings.ToLower(strings.TrimSpace(task))
		if task == "" || seen[task] {
			continue
		}
		seen[task] = true
		out = append(out, task)
	}
	return out
}

// Batches returns a lazy sequence of balanced batches. Every call starts a
// fresh pass over newly shuffled copies of the pools.
func (s *Sampler) Batches() iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		remaining := make(map[string][]int, len(s.tasks))
		for _, task := range s.tasks {
			pool := slices.Clone(s.pools[task])
			s.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
			remaining[task] = pool
		}

		order := slices.Clone(s.tasks)
		for {
			for _, task := range s.tasks {
				if len(remaining[task]) < s.perTask {
					return
				}
			}

			s.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
			batch := make([]int, 0, s.batchSize)
			for _, task := range order {
				batch = append(batch, remaining[task][:s.perTask]...)
				remaining[task] = remaining[task][s.perTask:]
			}
			s.rng.Shuffle(len(batch), func(i, j int) { batch[i], batch[j] = batch[j], batch[i] })

			if !yield(batch) {
				return
			}
		}
	}
}

// Len is the number of full batches one pass produces
func (s *Sampler) Len() int {
	n := -1
	for _, task := range s.tasks {
		if full := len(s.pools[task]) / s.perTask; n < 0 || full < n {
			n = full
		}
	}
	return n
}

// Tasks returns the requested tasks, lower-cased and de-duplicated
func (s *Sampler) Tasks() []string {
	return slices.Clone(s.tasks)
}

// BatchSize returns the number of rows in every batch
func (s *Sampler) BatchSize() int { return s.batchSize }

// PerTask returns how many rows each task contributes to a batch
func (s *Sampler) PerTask() int { return s.perTask }

// PoolSizes returns the number of rows grouped under each task
func (s *Sampler) PoolSizes() map[string]int {
	sizes := make(map[string]int, len(s.tasks))
	for _, task := range s.tasks {
		sizes[task] = len(s.pools[task])
	}
	return sizes
}
