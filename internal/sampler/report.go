package sampler

import (
	"fmt"
	"strings"

	"github.com/montanaflynn/stats"
)

// Report summarizes the pool composition and what one pass leaves unused
type Report struct {
	Tasks       []string       `json:"tasks"`
	BatchSize   int            `json:"batch_size"`
	PerTask     int            `json:"per_task"`
	Batches     int            `json:"batches"`
	PoolSizes   map[string]int `json:"pool_sizes"`
	MinPool     float64        `json:"min_pool"`
	MaxPool     float64        `json:"max_pool"`
	MeanPool    float64        `json:"mean_pool"`
	StdDevPool  float64        `json:"stddev_pool"`
	Discarded   map[string]int `json:"discarded_per_pass"`
	Utilization float64        `json:"utilization"`
}

// Report computes pool statistics. Discarded counts the rows of each task
// that a full pass never reaches because another pool ran out first.
func (s *Sampler) Report() Report {
	sizes := s.PoolSizes()
	batches := s.Len()

	data := make(stats.Float64Data, 0, len(s.tasks))
	discarded := make(map[string]int, len(s.tasks))
	total := 0
	for _, task := range s.tasks {
		data = append(data, float64(sizes[task]))
		discarded[task] = sizes[task] - batches*s.PerTask()
		total += sizes[task]
	}

	report := Report{
		Tasks:     s.Tasks(),
		BatchSize: s.BatchSize(),
		PerTask:   s.PerTask(),
		Batches:   batches,
		PoolSizes: sizes,
		Discarded: discarded,
	}
	report.MinPool, _ = stats.Min(data)
	report.MaxPool, _ = stats.Max(data)
	report.MeanPool, _ = stats.Mean(data)
	report.StdDevPool, _ = stats.StandardDeviation(data)
	if total > 0 {
		report.Utilization = float64(batches*s.batchSize) / float64(total)
	}
	return report
}

func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "tasks=%s batch_size=%d per_task=%d batches=%d\n",
		strings.Join(r.Tasks, ","), r.BatchSize, r.PerTask, r.Batches)
	fmt.Fprintf(&b, "pool sizes: min=%.0f max=%.0f mean=%.1f stddev=%.2f utilization=%.1f%%\n",
		r.MinPool, r.MaxPool, r.MeanPool, r.StdDevPool, r.Utilization*100)
	for _, task := range r.Tasks {
		fmt.Fprintf(&b, "  %-24s pool=%d discarded_per_pass=%d\n", task, r.PoolSizes[task], r.Discarded[task])
	}
	return b.String()
}
