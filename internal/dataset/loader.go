package dataset

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"tutoreval/adapters/excel"
	"tutoreval/domain/core"
	"tutoreval/domain/dataset"
	"tutoreval/internal/errors"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// DimensionField is the column added to every record loaded per dimension
const DimensionField = "dimension"

// Split names used in per-dimension file names
const (
	SplitTrain = "train"
	SplitDev   = "dev"
)

// LoaderConfig holds configuration for per-dimension dataset loading
type LoaderConfig struct {
	DataDir     string // Directory holding {dim}_{split}.csv files
	Concurrency int64  // Maximum files read at once
	LabelField  string // Column whose distribution is logged per file
	Oversample  string // Train split balancing: OversampleNone or OversampleRandom
	Seed        int64  // Seed for oversampling draws
}

// DefaultLoaderConfig returns sensible defaults
func DefaultLoaderConfig() LoaderConfig {
	return LoaderConfig{
		DataDir:     "./data",
		Concurrency: 4,
		LabelField:  "annotation",
		Seed:        42,
	}
}

// Loader reads per-dimension dataset files
type Loader struct {
	config LoaderConfig
	sem    *semaphore.Weighted
}

// NewLoader creates a loader; a non-positive concurrency reads one file at a time
func NewLoader(config LoaderConfig) *Loader {
	if config.Concurrency <= 0 {
		config.Concurrency = 1
	}
	return &Loader{
		config: config,
		sem:    semaphore.NewWeighted(config.Concurrency),
	}
}

// Path returns the file path for one dimension and split
func (l *Loader) Path(dim, split string) string {
	return filepath.Join(l.config.DataDir, fmt.Sprintf("%s_%s.csv", dim, split))
}

// LoadDimensions loads {dim}_{split}.csv for every dimension, tags each
// record with its dimension and concatenates them in the requested order.
// A missing file fails the whole load before anything is read.
func (l *Loader) LoadDimensions(ctx context.Context, dims []string, split string) (*dataset.Dataset, error) {
	if err := l.validate(dims); err != nil {
		return nil, err
	}
	if err := l.checkFiles(dims, split); err != nil {
		return nil, err
	}

	log.Printf("[DatasetLoader] Loading %s split for dimensions: %s", split, strings.Join(dims, ", "))
	if split == SplitTrain && l.config.Oversample != OversampleNone {
		log.Printf("[DatasetLoader] Oversampling method: %s", strings.ToUpper(l.config.Oversample))
	}

	parts := make([]*dataset.Dataset, len(dims))
	g, gctx := errgroup.WithContext(ctx)
	for i, dim := range dims {
		if err := l.sem.Acquire(gctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer l.sem.Release(1)
			ds, err := l.loadDimension(dim, split)
			if err != nil {
				return err
			}
			parts[i] = ds
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	combined := &dataset.Dataset{Name: split}
	for _, part := range parts {
		combined.Append(part)
	}
	log.Printf("[DatasetLoader] Final %s dataset size: %d", split, combined.Len())
	return combined, nil
}

// LoadTrainDev loads the train and dev splits for the same dimensions. Every
// file of both splits must exist before either split is read.
func (l *Loader) LoadTrainDev(ctx context.Context, dims []string) (train, dev *dataset.Dataset, err error) {
	if err := l.validate(dims); err != nil {
		return nil, nil, err
	}
	if err := l.checkFiles(dims, SplitTrain, SplitDev); err != nil {
		return nil, nil, err
	}

	train, err = l.LoadDimensions(ctx, dims, SplitTrain)
	if err != nil {
		return nil, nil, err
	}
	dev, err = l.LoadDimensions(ctx, dims, SplitDev)
	if err != nil {
		return nil, nil, err
	}
	return train, dev, nil
}

func (l *Loader) validate(dims []string) error {
	if len(dims) == 0 {
		return errors.ConfigInvalid("at least one dimension is required")
	}
	switch l.config.Oversample {
	case OversampleNone:
	case OversampleRandom:
		if l.config.LabelField == "" {
			return errors.ConfigInvalid("oversampling needs a label field")
		}
	default:
		return errors.ConfigInvalid(fmt.Sprintf("unknown oversampling method %q", l.config.Oversample))
	}
	return nil
}

// checkFiles fails on the first missing {dim}_{split}.csv, checking every
// dimension of a split before the next split
func (l *Loader) checkFiles(dims []string, splits ...string) error {
	for _, split := range splits {
		for _, dim := range dims {
			path := l.Path(dim, split)
			if _, err := os.Stat(path); err != nil {
				return errors.WithCode(errors.CodeNotFound,
					fmt.Errorf("%w: %s", core.ErrDatasetFileNotFound, path))
			}
		}
	}
	return nil
}

func (l *Loader) loadDimension(dim, split string) (*dataset.Dataset, error) {
	path := l.Path(dim, split)
	ds, err := excel.NewDataReader(path).ReadData()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s", path)
	}

	ds.AddColumn(DimensionField)
	for _, record := range ds.Records {
		record[DimensionField] = dim
	}

	if l.config.LabelField != "" {
		log.Printf("[DatasetLoader] %s %s: %d samples, label distribution %v",
			dim, split, ds.Len(), LabelDistribution(ds, l.config.LabelField))
	}

	if split == SplitTrain && l.config.Oversample == OversampleRandom {
		ds = Oversample(ds, l.config.LabelField, rand.New(rand.NewSource(l.config.Seed)))
		log.Printf("[DatasetLoader] %s %s after %s oversampling: %d samples, label distribution %v",
			dim, split, strings.ToUpper(l.config.Oversample), ds.Len(), LabelDistribution(ds, l.config.LabelField))
	}
	return ds, nil
}
