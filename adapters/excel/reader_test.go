package excel

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"tutoreval/domain/core"
	"tutoreval/domain/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadData_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "MI_train.csv")
	content := "\ufeffconversation_history, response ,label\n\"Student: 1/2 + 1/3 = 2/5\",\"Check the denominators.\", Yes \n,,\n\"multi\nline\",ok,No\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	ds, err := NewDataReader(path).ReadData()
	require.NoError(t, err)

	assert.Equal(t, "MI_train", ds.Name)
	assert.Equal(t, []string{"conversation_history", "response", "label"}, ds.Columns)
	require.Equal(t, 2, ds.Len())
	assert.Equal(t, "Yes", ds.Record(0)["label"])
	assert.Equal(t, "multi\nline", ds.Record(1)["conversation_history"])
}

func TestReadData_HeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n"), 0o644))

	_, err := NewDataReader(path).ReadData()
	assert.True(t, errors.Is(err, core.ErrEmptyDataset))

	ds, err := NewDataReaderWithConfig(path, ReaderConfig{AllowEmpty: true}).ReadData()
	require.NoError(t, err)
	assert.Equal(t, 0, ds.Len())
}

func TestReadData_Missing(t *testing.T) {
	_, err := NewDataReader(filepath.Join(t.TempDir(), "nope.xlsx")).ReadData()
	assert.True(t, errors.Is(err, core.ErrDatasetFileNotFound))
	assert.True(t, core.IsNotFoundError(err))
}

func TestWriteAndReadExcel(t *testing.T) {
	dir := t.TempDir()
	ds := &dataset.Dataset{
		Columns: []string{"task", "label"},
		Records: []dataset.Record{
			{"task": "mi", "label": "Yes"},
			{"task": "ml", "label": "To some extent"},
		},
	}

	for _, name := range []string{"out.xlsx", "out.csv"} {
		path := filepath.Join(dir, name)
		require.NoError(t, WriteDataset(path, ds))

		read, err := NewDataReader(path).ReadData()
		require.NoError(t, err, name)
		assert.Equal(t, ds.Columns, read.Columns, name)
		assert.Equal(t, ds.Records, read.Records, name)
	}

	assert.Error(t, WriteDataset(filepath.Join(dir, "out.txt"), ds))
}
