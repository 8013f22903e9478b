package dataset

import (
	"context"
	stderrors "errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"tutoreval/domain/core"
	"tutoreval/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoader_LoadDimensionsTagsAndOrders(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "MI_train.csv", "response,annotation\nr1,Yes\nr2,No\n")
	writeFile(t, dir, "ML_train.csv", "response,annotation\nr3,To some extent\n")

	loader := NewLoader(LoaderConfig{DataDir: dir, Concurrency: 2, LabelField: "annotation"})
	ds, err := loader.LoadDimensions(context.Background(), []string{"ML", "MI"}, SplitTrain)
	require.NoError(t, err)

	require.Equal(t, 3, ds.Len())
	assert.Equal(t, "ML", ds.Record(0)[DimensionField])
	assert.Equal(t, "MI", ds.Record(1)[DimensionField])
	assert.Equal(t, "MI", ds.Record(2)[DimensionField])
	assert.Contains(t, ds.Columns, DimensionField)
}

func TestLoader_MissingFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "MI_train.csv", "response,annotation\nr1,Yes\n")

	loader := NewLoader(LoaderConfig{DataDir: dir})
	_, err := loader.LoadDimensions(context.Background(), []string{"MI", "PG"}, SplitTrain)

	require.Error(t, err)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
	assert.True(t, stderrors.Is(err, core.ErrDatasetFileNotFound))
}

func TestLoader_NoDimensions(t *testing.T) {
	_, err := NewLoader(DefaultLoaderConfig()).LoadDimensions(context.Background(), nil, SplitDev)
	assert.True(t, errors.IsConfigError(err))
}

func TestLoader_LoadTrainDev(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "AC_train.csv", "annotation\nYes\nNo\n")
	writeFile(t, dir, "AC_dev.csv", "annotation\nNo\n")

	train, dev, err := NewLoader(LoaderConfig{DataDir: dir}).LoadTrainDev(context.Background(), []string{"AC"})
	require.NoError(t, err)
	assert.Equal(t, 2, train.Len())
	assert.Equal(t, 1, dev.Len())
}

func TestLoader_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "MI_dev.csv", "annotation\nYes\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoader(LoaderConfig{DataDir: dir}).LoadDimensions(ctx, []string{"MI"}, SplitDev)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadFile_JSONAndJSONL(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "rows.json", `[{"task": "mi", "score": 1, "note": null}, 5, {"task": "ml", "extra": true}]`)
	writeFile(t, dir, "rows.jsonl", "{\"task\": \"pg\"}\n\n{\"task\": \"ac\", \"n\": 2}\n")

	ds, err := LoadFile(filepath.Join(dir, "rows.json"))
	require.NoError(t, err)
	assert.Equal(t, []string{"task", "score", "note", "extra"}, ds.Columns)
	require.Equal(t, 2, ds.Len())
	assert.Equal(t, "1", ds.Record(0)["score"])
	_, hasNote := ds.Record(0)["note"]
	assert.False(t, hasNote)
	assert.Equal(t, "true", ds.Record(1)["extra"])

	ds, err = LoadFile(filepath.Join(dir, "rows.jsonl"))
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())
	assert.Equal(t, "ac", ds.Record(1)["task"])
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "obj.json", `{"task": "mi"}`)
	writeFile(t, dir, "bad.jsonl", "{\"task\": \"mi\"}\n{oops\n")

	_, err := LoadFile(filepath.Join(dir, "obj.json"))
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	_, err = LoadFile(filepath.Join(dir, "bad.jsonl"))
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	_, err = LoadFile(filepath.Join(dir, "missing.json"))
	assert.True(t, core.IsNotFoundError(err))

	_, err = LoadFile(filepath.Join(dir, "data.parquet"))
	assert.True(t, stderrors.Is(err, core.ErrUnsupportedFormat))
}

func TestShuffleAndLabelDistribution(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "d.csv", "id,annotation\n1,Yes\n2,No\n3,Yes\n4,To some extent\n")
	ds, err := LoadFile(filepath.Join(dir, "d.csv"))
	require.NoError(t, err)

	shuffled := Shuffle(ds, rand.New(rand.NewSource(3)))
	assert.Equal(t, ds.Len(), shuffled.Len())
	assert.ElementsMatch(t, ds.Records, shuffled.Records)

	assert.Equal(t, map[string]int{"Yes": 2, "No": 1, "To some extent": 1}, LabelDistribution(ds, "annotation"))
}

func TestLoader_LoadTrainDevChecksBothSplitsFirst(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "MI_train.csv", "annotation\nYes\n")
	writeFile(t, dir, "MI_dev.csv", "annotation\nNo\n")
	writeFile(t, dir, "PG_train.csv", "annotation\nYes\n")

	_, _, err := NewLoader(LoaderConfig{DataDir: dir}).LoadTrainDev(context.Background(), []string{"MI", "PG"})

	require.Error(t, err)
	assert.True(t, stderrors.Is(err, core.ErrDatasetFileNotFound))
	assert.Contains(t, err.Error(), "PG_dev.csv")
}

func TestOversample_BalancesLabels(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "d.csv", "id,annotation\n1,Yes\n2,Yes\n3,Yes\n4,Yes\n5,No\n6,To some extent\n7,To some extent\n")
	ds, err := LoadFile(filepath.Join(dir, "d.csv"))
	require.NoError(t, err)

	balanced := Oversample(ds, "annotation", rand.New(rand.NewSource(42)))

	assert.Equal(t, map[string]int{"Yes": 4, "No": 4, "To some extent": 4}, LabelDistribution(balanced, "annotation"))
	assert.Equal(t, ds.Records, balanced.Records[:ds.Len()])
	assert.Equal(t, 7, ds.Len())
	for _, record := range balanced.Records[ds.Len():] {
		assert.NotEqual(t, "Yes", record["annotation"])
	}

	again := Oversample(ds, "annotation", rand.New(rand.NewSource(42)))
	assert.Equal(t, balanced.Records, again.Records)
}

func TestOversample_AlreadyBalanced(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "d.csv", "annotation\nYes\nNo\n")
	ds, err := LoadFile(filepath.Join(dir, "d.csv"))
	require.NoError(t, err)

	assert.Equal(t, ds.Records, Oversample(ds, "annotation", rand.New(rand.NewSource(1))).Records)
}

func TestLoader_OversamplesTrainOnly(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "AC_train.csv", "annotation\nYes\nYes\nYes\nNo\n")
	writeFile(t, dir, "AC_dev.csv", "annotation\nYes\nYes\nNo\n")

	loader := NewLoader(LoaderConfig{DataDir: dir, LabelField: "annotation", Oversample: OversampleRandom, Seed: 42})
	train, dev, err := loader.LoadTrainDev(context.Background(), []string{"AC"})
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"Yes": 3, "No": 3}, LabelDistribution(train, "annotation"))
	assert.Equal(t, map[string]int{"AC": 6}, LabelDistribution(train, DimensionField))
	assert.Equal(t, 3, dev.Len())
}

func TestLoader_OversampleConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "MI_train.csv", "annotation\nYes\n")

	_, err := NewLoader(LoaderConfig{DataDir: dir, LabelField: "annotation", Oversample: "smote"}).
		LoadDimensions(context.Background(), []string{"MI"}, SplitTrain)
	assert.True(t, errors.IsConfigError(err))

	_, err = NewLoader(LoaderConfig{DataDir: dir, Oversample: OversampleRandom}).
		LoadDimensions(context.Background(), []string{"MI"}, SplitTrain)
	assert.True(t, errors.IsConfigError(err))
}
